package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"loja_backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceOrderInput são os parâmetros de criação de pedido, já validados
// na borda HTTP.
type PlaceOrderInput struct {
	AddressID     uint
	PaymentMethod string
	Note          string
	CouponCode    string
}

// PlaceOrder converte o carrinho do usuário em pedido + pagamento em uma
// única transação: valida endereço e estoque, calcula totais, aplica no
// máximo um cupom, debita estoque com UPDATE condicional (stock >= qty,
// conferindo RowsAffected — sem depender do nível de isolamento), apaga
// os itens do carrinho e cria o pagamento pendente. Tudo commita ou nada
// commita.
func (s *Service) PlaceOrder(ctx context.Context, userID uint, in PlaceOrderInput) (*model.Order, *model.Payment, error) {
	var (
		order   *model.Order
		payment *model.Payment
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Carrinho com itens e snapshot de produto.
		var cart model.Cart
		err := tx.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmptyCart
		}
		if err != nil {
			return err
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		// 2. Endereço precisa pertencer ao usuário.
		var addr model.Address
		err = tx.Where("id = ? AND user_id = ?", in.AddressID, userID).First(&addr).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrAddressNotFound
		}
		if err != nil {
			return err
		}

		// 3. Validação de estoque antes de qualquer mutação, com o
		// preço efetivo vigente (promocional quando houver).
		var subtotal int64
		for _, item := range cart.Items {
			// Produto removido do catálogo depois de ir ao carrinho:
			// o Preload deixa o zero value.
			if item.Product.ID == 0 {
				return fmt.Errorf("%w (produto %d)", ErrProductUnavailable, item.ProductID)
			}
			if item.Product.Stock < int64(item.Quantity) {
				return &InsufficientStockError{ProductName: item.Product.Name}
			}
			subtotal += item.Product.EffectivePrice() * int64(item.Quantity)
		}

		// 4-5. Frete fixo + imposto percentual sobre o subtotal.
		shipping := s.cfg.ShippingFee
		tax := subtotal * s.cfg.TaxRatePercent / 100

		// 6. Cupom: no modo estrito, código inválido é erro; no modo
		// padrão é tratado como ausente. Desconto fixo não é limitado
		// pelo subtotal.
		var discount int64
		appliedCoupon := ""
		if in.CouponCode != "" {
			var coupon model.Coupon
			err := tx.Where("code = ?", in.CouponCode).First(&coupon).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				if s.cfg.CouponStrict {
					return ErrInvalidCoupon
				}
			case err != nil:
				return err
			case !coupon.Usable(time.Now()):
				if s.cfg.CouponStrict {
					return ErrInvalidCoupon
				}
			default:
				discount = coupon.DiscountFor(subtotal)
				appliedCoupon = coupon.Code
				if err := tx.Model(&model.Coupon{}).Where("id = ?", coupon.ID).
					UpdateColumn("used_count", gorm.Expr("used_count + 1")).Error; err != nil {
					return err
				}
			}
		}

		// 7. Total pode ficar negativo com cupom fixo maior que a
		// compra; comportamento mantido de propósito.
		total := subtotal + shipping + tax - discount

		order = &model.Order{
			OrderNo:       newOrderNo(),
			UserID:        userID,
			AddressID:     addr.ID,
			Status:        model.StatusPaymentPending,
			PaymentMethod: in.PaymentMethod,
			Note:          in.Note,
			CouponCode:    appliedCoupon,
			Subtotal:      subtotal,
			ShippingFee:   shipping,
			Tax:           tax,
			Discount:      discount,
			Total:         total,
		}
		for _, item := range cart.Items {
			unit := item.Product.EffectivePrice()
			order.Items = append(order.Items, model.OrderItem{
				ProductID:   item.ProductID,
				ProductName: item.Product.Name,
				Quantity:    item.Quantity,
				UnitPrice:   unit,
				LineTotal:   unit * int64(item.Quantity),
			})
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		if err := tx.Create(&model.OrderStatusHistory{
			OrderID: order.ID,
			To:      model.StatusPaymentPending,
			Reason:  "pedido criado",
		}).Error; err != nil {
			return err
		}

		// Débito condicional de estoque: zero linhas afetadas significa
		// corrida perdida para outro checkout e aborta a transação.
		for _, item := range cart.Items {
			res := tx.Model(&model.Product{}).
				Where("id = ? AND stock >= ?", item.ProductID, item.Quantity).
				UpdateColumn("stock", gorm.Expr("stock - ?", item.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &InsufficientStockError{ProductName: item.Product.Name}
			}
		}

		// Esvazia o carrinho; o carrinho em si permanece.
		if err := tx.Where("cart_id = ?", cart.ID).Delete(&model.CartItem{}).Error; err != nil {
			return err
		}

		// 8. Pagamento pendente na mesma transação, sem janela de
		// pedido-sem-pagamento.
		gatewayID := uuid.New().String()
		payment = &model.Payment{
			OrderID:   order.ID,
			Method:    in.PaymentMethod,
			Gateway:   GatewayFor(in.PaymentMethod),
			GatewayID: gatewayID,
			Amount:    total,
			Status:    model.PaymentPending,
			URL:       fmt.Sprintf("%s/checkout/%s", s.cfg.PaymentBaseURL, gatewayID),
		}
		return tx.Create(payment).Error
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, OrderEvent{
		Type:    EventOrderCreated,
		OrderNo: order.OrderNo,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Total:   order.Total,
	})
	return order, payment, nil
}
