package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"loja_backend/internal/checkout"

	rd "github.com/redis/go-redis/v9"
)

// Relay repassa os eventos do Redis Stream (outbox) para o Kafka.
// Semântica: só dá ACK no stream depois que o Kafka confirmou; falha de
// publicação mantém a mensagem pendente para retry.
type Relay struct {
	rdb      *rd.Client
	producer *Producer
	log      *slog.Logger

	stream   string
	group    string
	consumer string
}

func NewRelay(rdb *rd.Client, producer *Producer, log *slog.Logger, stream, group, consumer string) *Relay {
	if log == nil {
		log = slog.Default()
	}
	return &Relay{
		rdb:      rdb,
		producer: producer,
		log:      log,
		stream:   stream,
		group:    group,
		consumer: consumer,
	}
}

func (r *Relay) Run(ctx context.Context) {
	if err := r.ensureGroup(ctx); err != nil {
		r.log.Error("relay ensure group", "err", err)
		return
	}

	for {
		if ctx.Err() != nil {
			return
		}

		// Processa primeiro o pending do consumidor, para não acumular
		// mensagens órfãs de execuções anteriores.
		msgs, err := r.readGroup(ctx, "0", 0)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			r.log.Warn("relay read pending", "err", err)
			time.Sleep(300 * time.Millisecond)
			continue
		}
		if len(msgs) == 0 {
			msgs, err = r.readGroup(ctx, ">", 2*time.Second)
			if err != nil {
				if ctx.Err() != nil || errors.Is(err, context.Canceled) {
					return
				}
				r.log.Warn("relay read new", "err", err)
				time.Sleep(300 * time.Millisecond)
				continue
			}
		}

		for _, xm := range msgs {
			if err := r.processOne(ctx, xm); err != nil {
				r.log.Warn("relay process message", "id", xm.ID, "err", err)
				time.Sleep(200 * time.Millisecond)
				break
			}
		}
	}
}

func (r *Relay) ensureGroup(ctx context.Context) error {
	err := r.rdb.XGroupCreateMkStream(ctx, r.stream, r.group, "0").Err()
	if err == nil {
		return nil
	}
	// Grupo já existente não é erro.
	if strings.Contains(err.Error(), "BUSYGROUP") {
		return nil
	}
	return err
}

func (r *Relay) readGroup(ctx context.Context, streamID string, block time.Duration) ([]rd.XMessage, error) {
	streams, err := r.rdb.XReadGroup(ctx, &rd.XReadGroupArgs{
		Group:    r.group,
		Consumer: r.consumer,
		Streams:  []string{r.stream, streamID},
		Count:    16,
		Block:    block,
		NoAck:    false,
	}).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, nil
		}
		return nil, err
	}
	out := make([]rd.XMessage, 0, 16)
	for _, s := range streams {
		out = append(out, s.Messages...)
	}
	return out, nil
}

func (r *Relay) processOne(ctx context.Context, xm rd.XMessage) error {
	ev, err := parseOrderEvent(xm.Values)
	if err != nil {
		// Mensagem malformada: ACK e descarta para não travar a fila.
		if ackErr := r.ackAndDelete(ctx, xm.ID); ackErr != nil {
			return fmt.Errorf("parse failed: %v, ack failed: %w", err, ackErr)
		}
		return nil
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := r.producer.Publish(pubCtx, ev); err != nil {
		return err
	}
	return r.ackAndDelete(ctx, xm.ID)
}

func (r *Relay) ackAndDelete(ctx context.Context, id string) error {
	pipe := r.rdb.TxPipeline()
	pipe.XAck(ctx, r.stream, r.group, id)
	pipe.XDel(ctx, r.stream, id)
	_, err := pipe.Exec(ctx)
	return err
}

func parseOrderEvent(values map[string]interface{}) (checkout.OrderEvent, error) {
	evType, err := getStreamString(values, "type")
	if err != nil {
		return checkout.OrderEvent{}, err
	}
	orderNo, err := getStreamString(values, "order_no")
	if err != nil {
		return checkout.OrderEvent{}, err
	}
	userStr, err := getStreamString(values, "user_id")
	if err != nil {
		return checkout.OrderEvent{}, err
	}
	status, err := getStreamString(values, "status")
	if err != nil {
		return checkout.OrderEvent{}, err
	}
	totalStr, err := getStreamString(values, "total")
	if err != nil {
		return checkout.OrderEvent{}, err
	}

	userID, err := strconv.ParseUint(userStr, 10, 32)
	if err != nil {
		return checkout.OrderEvent{}, fmt.Errorf("invalid user_id %q", userStr)
	}
	total, err := strconv.ParseInt(totalStr, 10, 64)
	if err != nil {
		return checkout.OrderEvent{}, fmt.Errorf("invalid total %q", totalStr)
	}
	if evType == "" || orderNo == "" {
		return checkout.OrderEvent{}, fmt.Errorf("missing type/order_no")
	}

	return checkout.OrderEvent{
		Type:    evType,
		OrderNo: orderNo,
		UserID:  uint(userID),
		Status:  status,
		Total:   total,
	}, nil
}

func getStreamString(values map[string]interface{}, key string) (string, error) {
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing field %s", key)
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case []byte:
		return string(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float64:
		return strconv.FormatInt(int64(x), 10), nil
	default:
		return "", fmt.Errorf("unsupported field type %s: %T", key, v)
	}
}
