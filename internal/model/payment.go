package model

import (
	"time"

	"gorm.io/gorm"
)

// PaymentStatus é o estado da cobrança, independente do estado do pedido.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentApproved  PaymentStatus = "approved"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Payment é a tentativa de cobrança vinculada 1:1 a um pedido. Criado
// junto com o pedido, na mesma transação.
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderID   uint          `gorm:"not null;uniqueIndex" json:"order_id"`
	Method    string        `gorm:"size:32;not null" json:"metodo"`
	Gateway   string        `gorm:"size:64;not null" json:"gateway"`
	GatewayID string        `gorm:"size:64;uniqueIndex;not null" json:"gateway_id"`
	Amount    int64         `gorm:"not null" json:"valor"`
	Status    PaymentStatus `gorm:"size:16;not null;index" json:"status"`
	URL       string        `gorm:"size:512" json:"url"`
}

func (Payment) TableName() string { return "payments" }
