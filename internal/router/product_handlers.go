package router

import (
	"errors"
	"net/http"

	"loja_backend/internal/config"
	"loja_backend/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// listProducts lista o catálogo com paginação e busca por nome.
func listProducts(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := pagination(c)

		q := db.Model(&model.Product{})
		if busca := c.Query("busca"); busca != "" {
			q = q.Where("name LIKE ?", "%"+busca+"%")
		}
		if c.Query("ativo") != "" {
			q = q.Where("active = ?", c.Query("ativo") == "true")
		}

		var total int64
		if err := q.Count(&total).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		var list []model.Product
		if err := q.Order("id").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true, "produtos": list,
			"page": page, "limit": limit, "total": total,
		})
	}
}

func getProduct(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var p model.Product
		if err := db.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "produto não encontrado")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "produto": p})
	}
}

// productRequest é o corpo de criação/atualização de produto (admin).
type productRequest struct {
	Name          string `json:"nome" binding:"required"`
	Description   string `json:"descricao"`
	Price         int64  `json:"preco" binding:"required,min=1"`
	DiscountPrice *int64 `json:"preco_promocional" binding:"omitempty,min=1"`
	Stock         int64  `json:"estoque" binding:"min=0"`
	ImageURL      string `json:"imagem_url"`
	Active        *bool  `json:"ativo"`
}

func createProduct(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		p := &model.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         req.Price,
			DiscountPrice: req.DiscountPrice,
			Stock:         req.Stock,
			ImageURL:      req.ImageURL,
			Active:        active,
		}
		if err := db.Create(p).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "produto": p})
	}
}

func updateProduct(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req productRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var p model.Product
		if err := db.First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "produto não encontrado")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}

		p.Name = req.Name
		p.Description = req.Description
		p.Price = req.Price
		p.DiscountPrice = req.DiscountPrice
		p.Stock = req.Stock
		p.ImageURL = req.ImageURL
		if req.Active != nil {
			p.Active = *req.Active
		}
		// Select garante que promoção removida (nil) seja persistida.
		if err := db.Model(&p).Select("name", "description", "price",
			"discount_price", "stock", "image_url", "active").Updates(&p).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "produto": p})
	}
}

func deleteProduct(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&model.Product{}, id)
		if res.Error != nil {
			internalErr(c, cfg.Debug, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			fail(c, http.StatusNotFound, "produto não encontrado")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
