package queue

import (
	"context"
	"fmt"
	"log/slog"
	"testing"

	"loja_backend/internal/checkout"
	"loja_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentEventMessageValidate(t *testing.T) {
	valid := PaymentEventMessage{EventID: "ev-1", GatewayID: "gw-1", Status: "approved"}
	assert.NoError(t, valid.Validate())

	cases := []PaymentEventMessage{
		{GatewayID: "gw-1", Status: "approved"},
		{EventID: "ev-1", Status: "approved"},
		{EventID: "ev-1", GatewayID: "gw-1", Status: "paid"},
		{EventID: "ev-1", GatewayID: "gw-1", Status: "pending"},
		{EventID: "ev-1", GatewayID: "gw-1"},
	}
	for _, tc := range cases {
		assert.Error(t, tc.Validate(), "%+v", tc)
	}

	for _, status := range []string{"approved", "cancelled", "refunded"} {
		msg := PaymentEventMessage{EventID: "ev", GatewayID: "gw", Status: status}
		assert.NoError(t, msg.Validate(), status)
	}
}

func TestParseOrderEvent(t *testing.T) {
	ev, err := parseOrderEvent(map[string]interface{}{
		"type":     "order.created",
		"order_no": "PED123ABC",
		"user_id":  "7",
		"status":   "payment_pending",
		"total":    "3740",
	})
	require.NoError(t, err)
	assert.Equal(t, "order.created", ev.Type)
	assert.Equal(t, "PED123ABC", ev.OrderNo)
	assert.Equal(t, uint(7), ev.UserID)
	assert.Equal(t, "payment_pending", ev.Status)
	assert.Equal(t, int64(3740), ev.Total)
}

func TestParseOrderEventMalformed(t *testing.T) {
	// Campo ausente.
	_, err := parseOrderEvent(map[string]interface{}{
		"type": "order.created", "order_no": "PED1",
	})
	assert.Error(t, err)

	// user_id não numérico.
	_, err = parseOrderEvent(map[string]interface{}{
		"type": "order.created", "order_no": "PED1",
		"user_id": "abc", "status": "x", "total": "1",
	})
	assert.Error(t, err)

	// total não numérico.
	_, err = parseOrderEvent(map[string]interface{}{
		"type": "order.created", "order_no": "PED1",
		"user_id": "1", "status": "x", "total": "muito",
	})
	assert.Error(t, err)
}

type fakeMarker struct {
	marked  map[string]bool
	markErr error
}

func newFakeMarker() *fakeMarker {
	return &fakeMarker{marked: map[string]bool{}}
}

func (m *fakeMarker) markOnce(_ context.Context, eventID string) (bool, error) {
	if m.markErr != nil {
		return false, m.markErr
	}
	if m.marked[eventID] {
		return false, nil
	}
	m.marked[eventID] = true
	return true, nil
}

func (m *fakeMarker) unmark(_ context.Context, eventID string) error {
	delete(m.marked, eventID)
	return nil
}

type fakeApplier struct {
	calls    int
	failures int // primeiras N chamadas falham
	err      error
}

func (a *fakeApplier) ApplyPaymentEvent(_ context.Context, _ string, _ model.PaymentStatus) error {
	a.calls++
	if a.calls <= a.failures {
		if a.err != nil {
			return a.err
		}
		return fmt.Errorf("database is locked")
	}
	return nil
}

func newTestConsumer(marker eventMarker, applier PaymentApplier) *Consumer {
	return &Consumer{marker: marker, applier: applier, log: slog.Default()}
}

func paymentMsg(t *testing.T, eventID string) []byte {
	t.Helper()
	return []byte(fmt.Sprintf(`{"event_id":%q,"gateway_id":"gw-1","status":"approved"}`, eventID))
}

// Falha transitória do apply não pode commitar o offset nem deixar o
// event_id marcado; a reentrega reprocessa e aplica.
func TestConsumerRetriesFailedApply(t *testing.T) {
	marker := newFakeMarker()
	applier := &fakeApplier{failures: 1}
	c := newTestConsumer(marker, applier)
	msg := paymentMsg(t, "ev-retry")

	assert.False(t, c.processMessage(context.Background(), msg))
	assert.Equal(t, 1, applier.calls)
	assert.False(t, marker.marked["ev-retry"], "marca deve ser desfeita após falha")

	// Reentrega.
	assert.True(t, c.processMessage(context.Background(), msg))
	assert.Equal(t, 2, applier.calls)
	assert.True(t, marker.marked["ev-retry"])
}

func TestConsumerSkipsDuplicate(t *testing.T) {
	marker := newFakeMarker()
	applier := &fakeApplier{}
	c := newTestConsumer(marker, applier)
	msg := paymentMsg(t, "ev-dup")

	assert.True(t, c.processMessage(context.Background(), msg))
	assert.True(t, c.processMessage(context.Background(), msg))
	assert.Equal(t, 1, applier.calls, "reentrega de evento aplicado não reaplica")
}

func TestConsumerDiscardsMalformed(t *testing.T) {
	marker := newFakeMarker()
	applier := &fakeApplier{}
	c := newTestConsumer(marker, applier)

	// JSON inválido e mensagem sem status válido: descartáveis.
	assert.True(t, c.processMessage(context.Background(), []byte("{nope")))
	assert.True(t, c.processMessage(context.Background(),
		[]byte(`{"event_id":"ev","gateway_id":"gw","status":"paid"}`)))
	assert.Equal(t, 0, applier.calls)
	assert.Empty(t, marker.marked)
}

func TestConsumerDiscardsUnknownGateway(t *testing.T) {
	marker := newFakeMarker()
	applier := &fakeApplier{failures: 1, err: checkout.ErrPaymentNotFound}
	c := newTestConsumer(marker, applier)

	// Pagamento inexistente é permanente: commita sem ficar em loop.
	assert.True(t, c.processMessage(context.Background(), paymentMsg(t, "ev-orfao")))
	assert.Equal(t, 1, applier.calls)
}

func TestConsumerDedupErrorLeavesRetryable(t *testing.T) {
	marker := newFakeMarker()
	marker.markErr = fmt.Errorf("connection refused")
	applier := &fakeApplier{}
	c := newTestConsumer(marker, applier)

	assert.False(t, c.processMessage(context.Background(), paymentMsg(t, "ev-redis")))
	assert.Equal(t, 0, applier.calls)
}
