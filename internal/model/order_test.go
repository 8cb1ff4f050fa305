package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{StatusPaymentPending, StatusAwaitingPayment, true},
		{StatusPaymentPending, StatusProcessing, true},
		{StatusPaymentPending, StatusCancelled, true},
		{StatusPaymentPending, StatusShipped, false},
		{StatusPaymentPending, StatusDelivered, false},
		{StatusAwaitingPayment, StatusProcessing, true},
		{StatusAwaitingPayment, StatusCancelled, true},
		{StatusAwaitingPayment, StatusShipped, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPaymentPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPaymentPending, false},
		{StatusDelivered, StatusCancelled, false},
		{StatusCancelled, StatusPaymentPending, false},
		{StatusCancelled, StatusProcessing, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []OrderStatus{
		StatusPaymentPending, StatusAwaitingPayment, StatusProcessing,
		StatusShipped, StatusDelivered, StatusCancelled,
	} {
		assert.True(t, ValidStatus(s), string(s))
	}
	assert.False(t, ValidStatus(OrderStatus("entregue")))
	assert.False(t, ValidStatus(OrderStatus("")))
}

func TestCancellable(t *testing.T) {
	assert.True(t, StatusPaymentPending.Cancellable())
	assert.True(t, StatusAwaitingPayment.Cancellable())
	assert.True(t, StatusProcessing.Cancellable())
	assert.False(t, StatusShipped.Cancellable())
	assert.False(t, StatusDelivered.Cancellable())
	assert.False(t, StatusCancelled.Cancellable())
}
