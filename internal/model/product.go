package model

import (
	"time"

	"gorm.io/gorm"
)

// Product é um item do catálogo. Preços em centavos.
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:128;not null" json:"nome"`
	Description string `gorm:"size:1024" json:"descricao"`
	// Price é o preço cheio; DiscountPrice, quando não-nulo, é o preço
	// efetivo usado no checkout.
	Price         int64  `gorm:"not null" json:"preco"`
	DiscountPrice *int64 `json:"preco_promocional,omitempty"`
	// Stock nunca fica negativo: o débito no checkout é um UPDATE
	// condicional (stock >= quantidade).
	Stock    int64  `gorm:"not null;default:0" json:"estoque"`
	ImageURL string `gorm:"size:512" json:"imagem_url"`
	Active   bool   `gorm:"not null;default:true" json:"ativo"`
}

func (Product) TableName() string { return "products" }

// EffectivePrice resolve o preço unitário usado em novos pedidos.
func (p Product) EffectivePrice() int64 {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}
