package router

import (
	"errors"
	"net/http"
	"strings"

	"loja_backend/internal/auth"
	"loja_backend/internal/config"
	"loja_backend/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// register cria uma conta de usuário comum e já devolve o token.
func register(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Name     string `json:"nome" binding:"required"`
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"senha" binding:"required,min=8"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		u := &model.User{
			Name:         req.Name,
			Email:        strings.ToLower(strings.TrimSpace(req.Email)),
			PasswordHash: hash,
			Role:         model.RoleUser,
		}
		if err := db.Create(u).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(strings.ToLower(err.Error()), "unique") {
				fail(c, http.StatusBadRequest, "e-mail já cadastrado")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}

		token, err := auth.IssueToken(cfg.JWTSecret, u.ID, u.Role, cfg.JWTTTL)
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "token": token, "usuario": u})
	}
}

// login autentica por e-mail/senha e emite o bearer token.
func login(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Email    string `json:"email" binding:"required,email"`
			Password string `json:"senha" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var u model.User
		err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&u).Error
		if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !auth.CheckPassword(u.PasswordHash, req.Password)) {
			fail(c, http.StatusUnauthorized, "credenciais inválidas")
			return
		}
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}

		token, err := auth.IssueToken(cfg.JWTSecret, u.ID, u.Role, cfg.JWTTTL)
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "token": token, "usuario": u})
	}
}
