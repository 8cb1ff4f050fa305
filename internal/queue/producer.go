package queue

import (
	"context"
	"encoding/json"
	"time"

	"loja_backend/internal/checkout"

	"github.com/segmentio/kafka-go"
)

// Producer encapsula o writer Kafka do tópico de eventos de pedido.
type Producer struct {
	w *kafka.Writer
}

// NewProducer cria o produtor com parâmetros de confiabilidade:
// - Hash + Key: mesmo pedido sempre na mesma partição.
// - RequireAll: espera confirmação das réplicas ISR.
// - MaxAttempts/Timeouts: limites de retry e espera.
func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			MaxAttempts:  5,
			WriteTimeout: 5 * time.Second,
			ReadTimeout:  5 * time.Second,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

// Close libera o writer.
func (p *Producer) Close() error { return p.w.Close() }

// Publish grava um evento de pedido, usando o número do pedido como key.
func (p *Producer) Publish(ctx context.Context, ev checkout.OrderEvent) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.OrderNo),
		Value: b,
	})
}
