package router

import (
	"errors"
	"net/http"
	"strings"

	"loja_backend/internal/config"
	"loja_backend/internal/middleware"
	"loja_backend/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func listReviews(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "id")
		if !ok {
			return
		}
		page, limit, offset := pagination(c)

		q := db.Model(&model.Review{}).Where("product_id = ?", productID)
		var total int64
		if err := q.Count(&total).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		var list []model.Review
		if err := q.Order("id DESC").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true, "avaliacoes": list,
			"page": page, "limit": limit, "total": total,
		})
	}
}

// createReview registra uma avaliação; uma por usuário por produto.
func createReview(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req struct {
			Rating  int    `json:"nota" binding:"required,min=1,max=5"`
			Comment string `json:"comentario"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		if err := db.First(&model.Product{}, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "produto não encontrado")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}

		review := &model.Review{
			UserID:    middleware.UserID(c),
			ProductID: productID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := db.Create(review).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				fail(c, http.StatusBadRequest, "produto já avaliado por este usuário")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "avaliacao": review})
	}
}
