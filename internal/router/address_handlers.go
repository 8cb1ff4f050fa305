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

type addressRequest struct {
	Label    string `json:"rotulo"`
	Street   string `json:"rua" binding:"required"`
	Number   string `json:"numero" binding:"required"`
	District string `json:"bairro"`
	City     string `json:"cidade" binding:"required"`
	State    string `json:"estado" binding:"required,len=2"`
	CEP      string `json:"cep" binding:"required"`
}

func listAddresses(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var list []model.Address
		if err := db.Where("user_id = ?", middleware.UserID(c)).Order("id").Find(&list).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "enderecos": list})
	}
}

func createAddress(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		addr := &model.Address{
			UserID:   middleware.UserID(c),
			Label:    req.Label,
			Street:   req.Street,
			Number:   req.Number,
			District: req.District,
			City:     req.City,
			State:    req.State,
			CEP:      req.CEP,
		}
		if err := db.Create(addr).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "endereco": addr})
	}
}

func updateAddress(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}

		var addr model.Address
		err := db.Where("id = ? AND user_id = ?", id, middleware.UserID(c)).First(&addr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fail(c, http.StatusNotFound, "endereço não encontrado")
			return
		}
		if err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}

		addr.Label = req.Label
		addr.Street = req.Street
		addr.Number = req.Number
		addr.District = req.District
		addr.City = req.City
		addr.State = req.State
		addr.CEP = req.CEP
		if err := db.Save(&addr).Error; err != nil {
			internalErr(c, cfg.Debug, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "endereco": addr})
	}
}

func deleteAddress(db *gorm.DB, cfg config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c, "id")
		if !ok {
			return
		}
		res := db.Where("user_id = ?", middleware.UserID(c)).Delete(&model.Address{}, id)
		if res.Error != nil {
			internalErr(c, cfg.Debug, res.Error)
			return
		}
		if res.RowsAffected == 0 {
			fail(c, http.StatusNotFound, "endereço não encontrado")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}
