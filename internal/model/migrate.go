package model

// All lista os modelos na ordem usada pelo AutoMigrate do servidor.
func All() []any {
	return []any{
		&User{}, &Address{}, &Product{}, &Cart{}, &CartItem{},
		&Coupon{}, &Order{}, &OrderItem{}, &OrderStatusHistory{},
		&Payment{}, &Review{},
	}
}
