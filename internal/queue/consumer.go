package queue

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"loja_backend/internal/checkout"
	"loja_backend/internal/model"
	rediskey "loja_backend/pkg/redis"

	rd "github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

// eventDedupTTL limita por quanto tempo um event_id fica marcado como
// processado; reentregas do broker acontecem em janelas bem menores.
const eventDedupTTL = 7 * 24 * time.Hour

// PaymentApplier aplica uma notificação de gateway já validada;
// implementado por checkout.Service.
type PaymentApplier interface {
	ApplyPaymentEvent(ctx context.Context, gatewayID string, status model.PaymentStatus) error
}

// eventMarker é o dedup por event_id. A marca só pode sobreviver a um
// apply bem-sucedido: falha transitória desfaz a marca para a reentrega
// reprocessar.
type eventMarker interface {
	markOnce(ctx context.Context, eventID string) (bool, error)
	unmark(ctx context.Context, eventID string) error
}

type redisMarker struct {
	rdb *rd.Client
}

func (m redisMarker) markOnce(ctx context.Context, eventID string) (bool, error) {
	return rediskey.MarkEventOnce(ctx, m.rdb, eventID, eventDedupTTL)
}

func (m redisMarker) unmark(ctx context.Context, eventID string) error {
	return rediskey.UnmarkEvent(ctx, m.rdb, eventID)
}

// Consumer lê o tópico de eventos de pagamento (webhooks do gateway
// entregues via Kafka) e aplica cada evento exatamente uma vez. O
// offset só é commitado depois que o evento foi aplicado ou é
// comprovadamente descartável.
type Consumer struct {
	r       *kafka.Reader
	marker  eventMarker
	applier PaymentApplier
	log     *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, rdb *rd.Client, applier PaymentApplier, log *slog.Logger) *Consumer {
	if log == nil {
		log = slog.Default()
	}
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
		}),
		marker:  redisMarker{rdb: rdb},
		applier: applier,
		log:     log,
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			return // ctx cancelado ou conexão encerrada
		}
		if c.processMessage(ctx, m.Value) {
			if err := c.r.CommitMessages(ctx, m); err != nil {
				c.log.Warn("payment consumer commit", "err", err)
			}
		}
	}
}

// processMessage trata uma mensagem e devolve true quando o offset pode
// ser commitado. Mensagens malformadas, duplicadas ou sem pagamento
// correspondente são descartáveis; erro transitório de Redis ou do
// apply devolve false e a mensagem fica pendente para reentrega.
func (c *Consumer) processMessage(ctx context.Context, value []byte) bool {
	var msg PaymentEventMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		c.log.Warn("payment consumer unmarshal", "err", err)
		return true
	}
	if err := msg.Validate(); err != nil {
		c.log.Warn("payment consumer invalid message", "err", err)
		return true
	}

	first, err := c.marker.markOnce(ctx, msg.EventID)
	if err != nil {
		c.log.Warn("payment consumer dedup", "event_id", msg.EventID, "err", err)
		return false
	}
	if !first {
		return true
	}

	if err := c.applier.ApplyPaymentEvent(ctx, msg.GatewayID, model.PaymentStatus(msg.Status)); err != nil {
		if errors.Is(err, checkout.ErrPaymentNotFound) {
			// gateway_id desconhecido: reentregar não ajuda.
			c.log.Warn("payment consumer unknown gateway",
				"event_id", msg.EventID, "gateway_id", msg.GatewayID)
			return true
		}
		c.log.Warn("payment consumer apply",
			"event_id", msg.EventID, "gateway_id", msg.GatewayID, "err", err)
		// Desfaz a marca: a reentrega precisa passar pelo dedup de novo.
		if unmarkErr := c.marker.unmark(ctx, msg.EventID); unmarkErr != nil {
			c.log.Warn("payment consumer unmark",
				"event_id", msg.EventID, "err", unmarkErr)
		}
		return false
	}
	return true
}
