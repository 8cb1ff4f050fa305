package middleware

import (
	"net/http"
	"strings"

	"loja_backend/internal/auth"
	"loja_backend/internal/model"

	"github.com/gin-gonic/gin"
)

// Chaves do contexto preenchidas pelo middleware de autenticação.
const (
	CtxUserID = "auth_user_id"
	CtxRole   = "auth_role"
)

// RequireAuth valida o bearer token e injeta usuário/role no contexto.
func RequireAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "token ausente"})
			return
		}
		claims, err := auth.ParseToken(secret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "token inválido"})
			return
		}
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin deve vir depois de RequireAuth; barra quem não é admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if Role(c) != model.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "acesso restrito a administradores"})
			return
		}
		c.Next()
	}
}

// UserID devolve o id autenticado (0 se a rota não passou pelo RequireAuth).
func UserID(c *gin.Context) uint {
	if v, ok := c.Get(CtxUserID); ok {
		if id, ok := v.(uint); ok {
			return id
		}
	}
	return 0
}

// Role devolve o papel autenticado.
func Role(c *gin.Context) string {
	if v, ok := c.Get(CtxRole); ok {
		if r, ok := v.(string); ok {
			return r
		}
	}
	return ""
}
