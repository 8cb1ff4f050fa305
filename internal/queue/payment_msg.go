package queue

import (
	"fmt"

	"loja_backend/internal/model"
)

// PaymentEventMessage é a notificação de gateway consumida do Kafka.
// EventID identifica a entrega (dedup); GatewayID localiza o pagamento.
type PaymentEventMessage struct {
	EventID   string `json:"event_id"`
	GatewayID string `json:"gateway_id"`
	Status    string `json:"status"`
}

// Validate faz a checagem mínima antes de tocar o banco.
func (m PaymentEventMessage) Validate() error {
	if m.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if m.GatewayID == "" {
		return fmt.Errorf("gateway_id is required")
	}
	switch model.PaymentStatus(m.Status) {
	case model.PaymentApproved, model.PaymentCancelled, model.PaymentRefunded:
		return nil
	default:
		return fmt.Errorf("unsupported payment status %q", m.Status)
	}
}
