package model

import (
	"time"

	"gorm.io/gorm"
)

// Tipos de cupom.
const (
	CouponPercentage = "percentage" // desconto de Value% sobre o subtotal
	CouponFixed      = "fixed"      // desconto de Value centavos
)

// Coupon é uma regra de desconto com contagem de uso.
type Coupon struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Code   string `gorm:"size:64;uniqueIndex;not null" json:"codigo"`
	Type   string `gorm:"size:16;not null" json:"tipo"`
	Value  int64  `gorm:"not null" json:"valor"`
	Active bool   `gorm:"not null;default:true" json:"ativo"`
	// ExpiresAt zero = sem validade.
	ExpiresAt time.Time `json:"expira_em"`
	UsedCount int64     `gorm:"not null;default:0" json:"usos"`
}

func (Coupon) TableName() string { return "coupons" }

// Usable informa se o cupom pode ser aplicado no instante dado.
func (c Coupon) Usable(now time.Time) bool {
	if !c.Active {
		return false
	}
	if !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt) {
		return false
	}
	return true
}

// DiscountFor calcula o desconto em centavos para o subtotal dado.
// Cupom fixo não é limitado pelo subtotal (comportamento assumido).
func (c Coupon) DiscountFor(subtotal int64) int64 {
	switch c.Type {
	case CouponPercentage:
		return subtotal * c.Value / 100
	case CouponFixed:
		return c.Value
	default:
		return 0
	}
}
