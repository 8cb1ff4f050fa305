package router

import (
	"net/http"

	"loja_backend/internal/checkout"
	"loja_backend/internal/config"
	"loja_backend/internal/middleware"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Setup registra toda a superfície HTTP.
func Setup(r *gin.Engine, db *gorm.DB, rdb *rd.Client, svc *checkout.Service, cfg config.AppConfig) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})

	// Público.
	r.POST("/auth/registrar", register(db, cfg))
	r.POST("/auth/login", login(db, cfg))
	r.GET("/produtos", listProducts(db, cfg))
	r.GET("/produtos/:id", getProduct(db, cfg))
	r.GET("/produtos/:id/avaliacoes", listReviews(db, cfg))

	// Autenticado.
	user := r.Group("", middleware.RequireAuth(cfg.JWTSecret))
	{
		user.POST("/produtos/:id/avaliacoes", createReview(db, cfg))

		user.GET("/carrinho", getCart(db, cfg))
		user.POST("/carrinho/itens", addCartItem(db, cfg))
		user.PUT("/carrinho/itens/:itemId", updateCartItem(db, cfg))
		user.DELETE("/carrinho/itens/:itemId", removeCartItem(db, cfg))
		user.DELETE("/carrinho", clearCart(db, cfg))

		user.GET("/enderecos", listAddresses(db, cfg))
		user.POST("/enderecos", createAddress(db, cfg))
		user.PUT("/enderecos/:id", updateAddress(db, cfg))
		user.DELETE("/enderecos/:id", deleteAddress(db, cfg))

		user.POST("/pedidos/criar",
			middleware.RedisRateLimit(rdb, cfg.CheckoutRateLimit, cfg.CheckoutRateWindow),
			createOrder(svc, cfg))
		user.GET("/pedidos/meus-pedidos", myOrders(db, cfg))
		user.GET("/pedidos/:id", getOrder(db, cfg))
		user.POST("/pedidos/:id/cancelar", cancelOrder(svc, cfg))
	}

	// Administrativo.
	admin := r.Group("", middleware.RequireAuth(cfg.JWTSecret), middleware.RequireAdmin())
	{
		admin.POST("/produtos", createProduct(db, cfg))
		admin.PUT("/produtos/:id", updateProduct(db, cfg))
		admin.DELETE("/produtos/:id", deleteProduct(db, cfg))

		admin.GET("/cupons", listCoupons(db, cfg))
		admin.POST("/cupons", createCoupon(db, cfg))
		admin.PUT("/cupons/:id", updateCoupon(db, cfg))
		admin.DELETE("/cupons/:id", deleteCoupon(db, cfg))

		admin.GET("/pedidos", adminListOrders(db, cfg))
		admin.PUT("/pedidos/:id/status", adminUpdateStatus(svc, cfg))
	}
}
