package router

import (
	"errors"
	"net/http"
	"strconv"

	"loja_backend/internal/checkout"
	"loja_backend/internal/config"
	"loja_backend/internal/middleware"
	"loja_backend/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// respondCheckoutErr traduz os erros de domínio do checkout para o
// envelope HTTP; erros não mapeados viram 500 com mensagem suprimida.
func respondCheckoutErr(c *gin.Context, debug bool, err error) {
	var stockErr *checkout.InsufficientStockError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrAddressNotFound),
		errors.Is(err, checkout.ErrInvalidCoupon),
		errors.Is(err, checkout.ErrProductUnavailable),
		errors.Is(err, checkout.ErrInvalidTransition):
		fail(c, http.StatusBadRequest, err.Error())
	case errors.As(err, &stockErr):
		fail(c, http.StatusBadRequest, stockErr.Error())
	case errors.Is(err, checkout.ErrOrderNotFound):
		fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrNotOwner):
		fail(c, http.StatusForbidden, err.Error())
	default:
		internalErr(c, debug, err)
	}
}

// createOrder converte o carrinho em pedido (ver checkout.PlaceOrder).
func createOrder(svc *checkout.Service, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			AddressID     uint   `json:"enderecoId" binding:"required,min=1"`
			PaymentMethod string `json:"metodoPagamento" binding:"required"`
			Note          string `json:"observacoes"`
			CouponCode    string `json:"cupom"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		order, payment, err := svc.PlaceOrder(c.Request.Context(), middleware.UserID(c), checkout.PlaceOrderInput{
			AddressID:     req.AddressID,
			PaymentMethod: req.PaymentMethod,
			Note:          req.Note,
			CouponCode:    req.CouponCode,
		})
		if err != nil {
			respondCheckoutErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success":      true,
			"pedido":       order,
			"pagamento":    payment,
			"pagamentoUrl": payment.URL,
		})
	}
}

// listOrders aplica filtros comuns às listagens de pedido.
func listOrders(c *gin.Context, db *gorm.DB, cfg config.AppConfig, userID uint) {
	page, limit, offset := pagination(c)

	q := db.Model(&model.Order{})
	if userID > 0 {
		q = q.Where("user_id = ?", userID)
	}
	if status := c.Query("status"); status != "" {
		if !model.ValidStatus(model.OrderStatus(status)) {
			fail(c, http.StatusBadRequest, "status desconhecido")
			return
		}
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		internalErr(c, cfg.Debug, err)
		return
	}
	var list []model.Order
	if err := q.Preload("Items").Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
		internalErr(c, cfg.Debug, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true, "pedidos": list,
		"page": page, "limit": limit, "total": total,
	})
}

func myOrders(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		listOrders(c, db, cfg, middleware.UserID(c))
	}
}

func adminListOrders(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var userID uint
		if raw := c.Query("usuarioId"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				fail(c, http.StatusBadRequest, "usuarioId inválido")
				return
			}
			userID = uint(id)
		}
		listOrders(c, db, cfg, userID)
	}
}

// getOrder devolve o detalhe do pedido para o dono ou para admins.
func getOrder(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}

		var order model.Order
		err := db.Preload("Items").Preload("History").First(&order, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "pedido não encontrado")
			return
		}
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		if order.UserID != middleware.UserID(c) && middleware.Role(c) != model.RoleAdmin {
			fail(c, http.StatusForbidden, "pedido pertence a outro usuário")
			return
		}

		var payment model.Payment
		resp := gin.H{"success": true, "pedido": order}
		if err := db.Where("order_id = ?", order.ID).First(&payment).Error; err == nil {
			resp["pagamento"] = payment
		}
		c.JSON(http.StatusOK, resp)
	}
}

// cancelOrder reverte um pedido ainda não despachado; admins cancelam
// pedidos de qualquer usuário.
func cancelOrder(svc *checkout.Service, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Reason string `json:"motivo"`
		}
		// Corpo opcional: cancelamento sem motivo é aceito.
		_ = c.ShouldBindJSON(&req)

		userID := middleware.UserID(c)
		if middleware.Role(c) == model.RoleAdmin {
			userID = 0
		}
		order, err := svc.Cancel(c.Request.Context(), id, userID, req.Reason)
		if err != nil {
			respondCheckoutErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "pedido": order})
	}
}

// adminUpdateStatus aplica uma transição de status validada.
func adminUpdateStatus(svc *checkout.Service, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Status string `json:"status" binding:"required"`
			Reason string `json:"motivoCancelamento"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), id, model.OrderStatus(req.Status), req.Reason)
		if err != nil {
			respondCheckoutErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "pedido": order})
	}
}
