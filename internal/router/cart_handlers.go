package router

import (
	"errors"
	"net/http"

	"loja_backend/internal/config"
	"loja_backend/internal/middleware"
	"loja_backend/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// loadOrCreateCart busca o carrinho do usuário, criando na primeira vez.
func loadOrCreateCart(db *gorm.DB, userID uint) (*model.Cart, error) {
	var cart model.Cart
	err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = model.Cart{UserID: userID}
		if err := db.Create(&cart).Error; err != nil {
			return nil, err
		}
		return &cart, nil
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func getCart(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := loadOrCreateCart(db, middleware.UserID(c))
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "carrinho": cart})
	}
}

// addCartItem inclui (ou acumula) um produto no carrinho, com snapshot
// do preço efetivo no momento da inclusão.
func addCartItem(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID uint `json:"produto_id" binding:"required,min=1"`
			Quantity  int  `json:"quantidade" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var prod model.Product
		if err := db.First(&prod, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "produto não encontrado")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}
		if !prod.Active {
			fail(c, http.StatusBadRequest, "produto indisponível")
			return
		}

		cart, err := loadOrCreateCart(db, middleware.UserID(c))
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}

		var item model.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = model.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				Price:     prod.EffectivePrice(),
			}
			if err := db.Create(&item).Error; err != nil {
				internalErr(c, cfg.Debug, err)
				return
			}
		case err != nil:
			internalErr(c, cfg.Debug, err)
			return
		default:
			item.Quantity += req.Quantity
			if err := db.Model(&item).Update("quantity", item.Quantity).Error; err != nil {
				internalErr(c, cfg.Debug, err)
				return
			}
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "item": item})
	}
}

func updateCartItem(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := paramID(c, "itemId")
		if !ok {
			return
		}
		var req struct {
			Quantity int `json:"quantidade" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		item, ok := ownedCartItem(c, db, cfg, itemID)
		if !ok {
			return
		}
		if err := db.Model(item).Update("quantity", req.Quantity).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "item": item})
	}
}

func removeCartItem(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		itemID, ok := paramID(c, "itemId")
		if !ok {
			return
		}
		item, ok := ownedCartItem(c, db, cfg, itemID)
		if !ok {
			return
		}
		if err := db.Delete(item).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func clearCart(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var cart model.Cart
		err := db.Where("user_id = ?", middleware.UserID(c)).First(&cart).Error
		if err == nil {
			err = db.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// ownedCartItem carrega o item conferindo que pertence ao carrinho do
// usuário autenticado.
func ownedCartItem(c *gin.Context, db *gorm.DB, cfg config.AppConfig, itemID uint) (*model.CartItem, bool) {
	var item model.CartItem
	err := db.Joins("JOIN carts ON carts.id = cart_items.cart_id").
		Where("cart_items.id = ? AND carts.user_id = ?", itemID, middleware.UserID(c)).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, "item não encontrado")
		return nil, false
	}
	if err != nil {
		internalErr(c, cfg.Debug, err)
		return nil, false
	}
	return &item, true
}
