package redis

import (
	"context"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// MarkEventOnce registra o processamento de um evento de pagamento via
// SETNX com TTL. Retorna true na primeira vez e false em reentregas,
// garantindo aplicação única por event_id.
func MarkEventOnce(ctx context.Context, rdb *rd.Client, eventID string, ttl time.Duration) (bool, error) {
	return rdb.SetNX(ctx, PaymentEventKey(eventID), "1", ttl).Result()
}

// UnmarkEvent remove a marca de um evento cujo processamento falhou,
// liberando o event_id para a reentrega.
func UnmarkEvent(ctx context.Context, rdb *rd.Client, eventID string) error {
	return rdb.Del(ctx, PaymentEventKey(eventID)).Err()
}
