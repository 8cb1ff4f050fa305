package checkout

import (
	"context"
	"log/slog"
	"strings"

	"loja_backend/internal/config"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Eventos de domínio emitidos após o commit das transações.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
)

// OrderEvent é o payload publicado no outbox para consumidores externos
// (notificações, conciliação). Publicação é best-effort: falha de
// publicação nunca desfaz um pedido já commitado.
type OrderEvent struct {
	Type    string `json:"type"`
	OrderNo string `json:"numero_pedido"`
	UserID  uint   `json:"user_id"`
	Status  string `json:"status"`
	Total   int64  `json:"total"`
}

// EventSink publica eventos de pedido; implementado pelo outbox em
// internal/queue. Pode ser nil (eventos desligados, ex.: testes).
type EventSink interface {
	Publish(ctx context.Context, ev OrderEvent) error
}

// Service concentra a lógica de pedidos: criação (transacional),
// cancelamento, transição de status e aplicação de eventos de gateway.
type Service struct {
	db     *gorm.DB
	cfg    config.AppConfig
	log    *slog.Logger
	events EventSink
}

func NewService(db *gorm.DB, cfg config.AppConfig, log *slog.Logger, events EventSink) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, cfg: cfg, log: log, events: events}
}

// Mapeamento estático método de pagamento -> gateway. Métodos
// desconhecidos caem no checkout genérico.
var gatewayByMethod = map[string]string{
	"PIX":         "mercadopago_pix",
	"CREDIT_CARD": "mercadopago_card",
	"BOLETO":      "mercadopago_boleto",
}

const defaultGateway = "mercadopago_checkout"

// GatewayFor resolve o rótulo de gateway para o método informado.
func GatewayFor(method string) string {
	if g, ok := gatewayByMethod[strings.ToUpper(method)]; ok {
		return g
	}
	return defaultGateway
}

// newOrderNo gera o identificador público do pedido.
func newOrderNo() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "PED" + strings.ToUpper(hex[:12])
}

// publish emite um evento fora da transação; erro vira só log.
func (s *Service) publish(ctx context.Context, ev OrderEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, ev); err != nil {
		s.log.Warn("publicação de evento falhou",
			"evento", ev.Type, "pedido", ev.OrderNo, "err", err)
	}
}
