package router

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"loja_backend/internal/config"
	"loja_backend/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type couponRequest struct {
	Code      string `json:"codigo" binding:"required"`
	Type      string `json:"tipo" binding:"required,oneof=percentage fixed"`
	Value     int64  `json:"valor" binding:"required,min=1"`
	Active    *bool  `json:"ativo"`
	ExpiresAt string `json:"expira_em"`
}

// parseCouponExpiry aceita RFC3339 ou vazio (sem validade).
func parseCouponExpiry(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func listCoupons(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := pagination(c)
		var total int64
		if err := db.Model(&model.Coupon{}).Count(&total).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		var list []model.Coupon
		if err := db.Order("id").Limit(limit).Offset(offset).Find(&list).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true, "cupons": list,
			"page": page, "limit": limit, "total": total,
		})
	}
}

func createCoupon(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if req.Type == model.CouponPercentage && req.Value > 100 {
			fail(c, http.StatusBadRequest, "cupom percentual não pode exceder 100")
			return
		}
		expires, err := parseCouponExpiry(req.ExpiresAt)
		if err != nil {
			fail(c, http.StatusBadRequest, "expira_em inválido, use RFC3339")
			return
		}
		active := true
		if req.Active != nil {
			active = *req.Active
		}
		coupon := &model.Coupon{
			Code:      strings.ToUpper(strings.TrimSpace(req.Code)),
			Type:      req.Type,
			Value:     req.Value,
			Active:    active,
			ExpiresAt: expires,
		}
		if err := db.Create(coupon).Error; err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "unique") {
				fail(c, http.StatusBadRequest, "código de cupom já existe")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "cupom": coupon})
	}
}

func updateCoupon(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req couponRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		if req.Type == model.CouponPercentage && req.Value > 100 {
			fail(c, http.StatusBadRequest, "cupom percentual não pode exceder 100")
			return
		}
		expires, err := parseCouponExpiry(req.ExpiresAt)
		if err != nil {
			fail(c, http.StatusBadRequest, "expira_em inválido, use RFC3339")
			return
		}

		var coupon model.Coupon
		if err := db.First(&coupon, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				fail(c, http.StatusNotFound, "cupom não encontrado")
				return
			}
			internalErr(c, cfg.Debug, err)
			return
		}

		coupon.Code = strings.ToUpper(strings.TrimSpace(req.Code))
		coupon.Type = req.Type
		coupon.Value = req.Value
		coupon.ExpiresAt = expires
		if req.Active != nil {
			coupon.Active = *req.Active
		}
		if err := db.Save(&coupon).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "cupom": coupon})
	}
}

func deleteCoupon(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Delete(&model.Coupon{}, id)
		if res.Error != nil {
			internalErr(c, cfg.Debug, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			fail(c, http.StatusNotFound, "cupom não encontrado")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
