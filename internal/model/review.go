package model

import (
	"time"

	"gorm.io/gorm"
)

// Review é uma avaliação de produto; uma por par (usuário, produto).
type Review struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID    uint   `gorm:"not null;index:idx_review_user_product,unique" json:"user_id"`
	ProductID uint   `gorm:"not null;index:idx_review_user_product,unique" json:"product_id"`
	Rating    int    `gorm:"not null" json:"nota"`
	Comment   string `gorm:"size:1024" json:"comentario"`
}

func (Review) TableName() string { return "reviews" }
