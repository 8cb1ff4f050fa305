package queue

import (
	"context"
	"strconv"

	"loja_backend/internal/checkout"

	rd "github.com/redis/go-redis/v9"
)

// Outbox grava eventos de pedido em um Redis Stream logo após o commit;
// o Relay repassa ao Kafka de forma assíncrona. XADD é barato e mantém
// o caminho do checkout fora do alcance de indisponibilidade do broker.
type Outbox struct {
	rdb    *rd.Client
	stream string
}

func NewOutbox(rdb *rd.Client, stream string) *Outbox {
	return &Outbox{rdb: rdb, stream: stream}
}

// Publish implementa checkout.EventSink.
func (o *Outbox) Publish(ctx context.Context, ev checkout.OrderEvent) error {
	return o.rdb.XAdd(ctx, &rd.XAddArgs{
		Stream: o.stream,
		Values: map[string]any{
			"type":     ev.Type,
			"order_no": ev.OrderNo,
			"user_id":  strconv.FormatUint(uint64(ev.UserID), 10),
			"status":   ev.Status,
			"total":    strconv.FormatInt(ev.Total, 10),
		},
	}).Err()
}
