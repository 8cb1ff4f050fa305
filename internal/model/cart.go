package model

import (
	"time"

	"gorm.io/gorm"
)

// Cart é o carrinho (um por usuário, criado sob demanda no primeiro acesso).
// Ele sobrevive ao checkout; só os itens são apagados.
type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID" json:"itens"`
}

func (Cart) TableName() string { return "carts" }

// CartItem é uma linha do carrinho. Price é o snapshot do preço unitário
// no momento da inclusão; o checkout recalcula com o preço vigente.
type CartItem struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CartID    uint    `gorm:"not null;index:idx_cart_product,unique" json:"cart_id"`
	ProductID uint    `gorm:"not null;index:idx_cart_product,unique" json:"product_id"`
	Quantity  int     `gorm:"not null;default:1" json:"quantidade"`
	Price     int64   `gorm:"not null" json:"preco"`
	Product   Product `gorm:"foreignKey:ProductID" json:"produto"`
}

func (CartItem) TableName() string { return "cart_items" }
