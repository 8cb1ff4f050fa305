package model

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus é o estado do pedido.
type OrderStatus string

const (
	StatusPaymentPending  OrderStatus = "payment_pending"
	StatusAwaitingPayment OrderStatus = "awaiting_payment"
	StatusProcessing      OrderStatus = "processing"
	StatusShipped         OrderStatus = "shipped"
	StatusDelivered       OrderStatus = "delivered"
	StatusCancelled       OrderStatus = "cancelled"
)

// orderTransitions enumera as transições legais. delivered e cancelled
// são terminais.
var orderTransitions = map[OrderStatus][]OrderStatus{
	StatusPaymentPending:  {StatusAwaitingPayment, StatusProcessing, StatusCancelled},
	StatusAwaitingPayment: {StatusProcessing, StatusCancelled},
	StatusProcessing:      {StatusShipped, StatusCancelled},
	StatusShipped:         {StatusDelivered},
	StatusDelivered:       {},
	StatusCancelled:       {},
}

// ValidStatus informa se s pertence ao conjunto de estados conhecidos.
func ValidStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// CanTransition informa se from -> to é uma transição legal.
func CanTransition(from, to OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Cancellable informa se um pedido nesse estado ainda pode ser cancelado.
func (s OrderStatus) Cancellable() bool {
	return CanTransition(s, StatusCancelled)
}

// Order é o registro imutável de uma compra; só o status evolui depois
// de criado. Valores em centavos.
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	OrderNo   string      `gorm:"size:64;uniqueIndex;not null" json:"numero"`
	UserID    uint        `gorm:"not null;index" json:"user_id"`
	AddressID uint        `gorm:"not null" json:"endereco_id"`
	Status    OrderStatus `gorm:"size:32;not null;index" json:"status"`

	PaymentMethod string `gorm:"size:32;not null" json:"metodo_pagamento"`
	Note          string `gorm:"size:512" json:"observacoes"`
	CouponCode    string `gorm:"size:64" json:"cupom"`

	Subtotal    int64 `gorm:"not null" json:"subtotal"`
	ShippingFee int64 `gorm:"not null" json:"frete"`
	Tax         int64 `gorm:"not null" json:"imposto"`
	Discount    int64 `gorm:"not null" json:"desconto"`
	Total       int64 `gorm:"not null" json:"total"`

	Items   []OrderItem          `gorm:"foreignKey:OrderID" json:"itens"`
	History []OrderStatusHistory `gorm:"foreignKey:OrderID" json:"historico,omitempty"`
}

func (Order) TableName() string { return "orders" }

// OrderItem é o snapshot de uma linha do carrinho no momento do checkout;
// mudanças de preço posteriores não afetam pedidos já criados.
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID     uint   `gorm:"not null;index" json:"order_id"`
	ProductID   uint   `gorm:"not null;index" json:"product_id"`
	ProductName string `gorm:"size:128;not null" json:"produto"`
	Quantity    int    `gorm:"not null" json:"quantidade"`
	UnitPrice   int64  `gorm:"not null" json:"preco_unitario"`
	LineTotal   int64  `gorm:"not null" json:"total_linha"`
}

func (OrderItem) TableName() string { return "order_items" }

// OrderStatusHistory registra cada mudança de status do pedido.
type OrderStatusHistory struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID uint        `gorm:"not null;index" json:"order_id"`
	From    OrderStatus `gorm:"size:32" json:"de"`
	To      OrderStatus `gorm:"size:32;not null" json:"para"`
	Reason  string      `gorm:"size:255" json:"motivo"`
}

func (OrderStatusHistory) TableName() string { return "order_status_history" }
