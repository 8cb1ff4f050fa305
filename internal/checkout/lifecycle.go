package checkout

import (
	"context"
	"errors"
	"fmt"

	"loja_backend/internal/model"

	"gorm.io/gorm"
)

// Cancel reverte um pedido ainda não despachado: status -> cancelled,
// estoque devolvido item a item e pagamento associado cancelado, tudo em
// uma transação. userID > 0 restringe ao dono (admin passa 0). O uso de
// cupom não é estornado.
func (s *Service) Cancel(ctx context.Context, orderID, userID uint, reason string) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Items").First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if userID > 0 && order.UserID != userID {
			return ErrNotOwner
		}
		return s.cancelInTx(tx, &order, reason)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, OrderEvent{
		Type:    EventOrderStatusChanged,
		OrderNo: order.OrderNo,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Total:   order.Total,
	})
	return &order, nil
}

// cancelInTx executa a mutação de cancelamento dentro de uma transação
// já aberta; order precisa vir com Items carregados.
func (s *Service) cancelInTx(tx *gorm.DB, order *model.Order, reason string) error {
	if !order.Status.Cancellable() {
		return ErrInvalidTransition
	}

	// UPDATE condicional no mesmo espírito do débito de estoque: um
	// cancelamento concorrente que chegou primeiro zera RowsAffected e
	// aborta, evitando estorno duplo.
	from := order.Status
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status IN ?", order.ID,
			[]model.OrderStatus{model.StatusPaymentPending, model.StatusAwaitingPayment, model.StatusProcessing}).
		Update("status", model.StatusCancelled)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInvalidTransition
	}
	order.Status = model.StatusCancelled
	if err := tx.Create(&model.OrderStatusHistory{
		OrderID: order.ID,
		From:    from,
		To:      model.StatusCancelled,
		Reason:  reason,
	}).Error; err != nil {
		return err
	}

	// Devolve o estoque de cada linha.
	for _, item := range order.Items {
		if err := tx.Model(&model.Product{}).Where("id = ?", item.ProductID).
			UpdateColumn("stock", gorm.Expr("stock + ?", item.Quantity)).Error; err != nil {
			return err
		}
	}

	// Pagamento ainda não refundado vai para cancelled.
	return tx.Model(&model.Payment{}).
		Where("order_id = ? AND status IN ?", order.ID,
			[]model.PaymentStatus{model.PaymentPending, model.PaymentApproved}).
		Update("status", model.PaymentCancelled).Error
}

// UpdateStatus aplica uma transição administrativa validada pela tabela
// de transições. Transição para cancelled passa pelo caminho completo de
// cancelamento (estorno de estoque + pagamento).
func (s *Service) UpdateStatus(ctx context.Context, orderID uint, to model.OrderStatus, reason string) (*model.Order, error) {
	if !model.ValidStatus(to) {
		return nil, fmt.Errorf("%w: status desconhecido %q", ErrInvalidTransition, to)
	}
	if to == model.StatusCancelled {
		return s.Cancel(ctx, orderID, 0, reason)
	}

	var order model.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !model.CanTransition(order.Status, to) {
			return ErrInvalidTransition
		}
		from := order.Status
		if err := tx.Model(&order).Update("status", to).Error; err != nil {
			return err
		}
		order.Status = to
		return tx.Create(&model.OrderStatusHistory{
			OrderID: order.ID,
			From:    from,
			To:      to,
			Reason:  reason,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, OrderEvent{
		Type:    EventOrderStatusChanged,
		OrderNo: order.OrderNo,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Total:   order.Total,
	})
	return &order, nil
}

// ApplyPaymentEvent processa uma notificação do gateway (via consumer
// Kafka): approved confirma o pagamento e move o pedido para
// processing; cancelled cancela pagamento e, se ainda reversível, o
// pedido; refunded só marca o pagamento. Dedup por event_id fica no
// consumer.
func (s *Service) ApplyPaymentEvent(ctx context.Context, gatewayID string, status model.PaymentStatus) error {
	var order model.Order
	changed := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var payment model.Payment
		if err := tx.Where("gateway_id = ?", gatewayID).First(&payment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		if err := tx.Preload("Items").First(&order, payment.OrderID).Error; err != nil {
			return err
		}

		switch status {
		case model.PaymentApproved:
			if err := tx.Model(&payment).Update("status", model.PaymentApproved).Error; err != nil {
				return err
			}
			if model.CanTransition(order.Status, model.StatusProcessing) {
				from := order.Status
				if err := tx.Model(&order).Update("status", model.StatusProcessing).Error; err != nil {
					return err
				}
				order.Status = model.StatusProcessing
				changed = true
				return tx.Create(&model.OrderStatusHistory{
					OrderID: order.ID,
					From:    from,
					To:      model.StatusProcessing,
					Reason:  "pagamento aprovado",
				}).Error
			}
			return nil

		case model.PaymentCancelled:
			if order.Status.Cancellable() {
				changed = true
				return s.cancelInTx(tx, &order, "pagamento cancelado pelo gateway")
			}
			return tx.Model(&payment).Update("status", model.PaymentCancelled).Error

		case model.PaymentRefunded:
			return tx.Model(&payment).Update("status", model.PaymentRefunded).Error

		default:
			return fmt.Errorf("status de pagamento desconhecido %q", status)
		}
	})
	if err != nil {
		return err
	}

	if changed {
		s.publish(ctx, OrderEvent{
			Type:    EventOrderStatusChanged,
			OrderNo: order.OrderNo,
			UserID:  order.UserID,
			Status:  string(order.Status),
			Total:   order.Total,
		})
	}
	return nil
}
