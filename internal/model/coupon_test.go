package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCouponUsable(t *testing.T) {
	now := time.Now()

	active := Coupon{Active: true}
	assert.True(t, active.Usable(now), "ativo sem validade")

	inactive := Coupon{Active: false}
	assert.False(t, inactive.Usable(now))

	expired := Coupon{Active: true, ExpiresAt: now.Add(-time.Minute)}
	assert.False(t, expired.Usable(now))

	future := Coupon{Active: true, ExpiresAt: now.Add(time.Hour)}
	assert.True(t, future.Usable(now))
}

func TestCouponDiscountFor(t *testing.T) {
	pct := Coupon{Type: CouponPercentage, Value: 10}
	assert.Equal(t, int64(200), pct.DiscountFor(2000))
	assert.Equal(t, int64(0), pct.DiscountFor(0))

	fixed := Coupon{Type: CouponFixed, Value: 500}
	assert.Equal(t, int64(500), fixed.DiscountFor(2000))
	// Fixo pode exceder o subtotal.
	assert.Equal(t, int64(500), fixed.DiscountFor(100))

	unknown := Coupon{Type: "bogus", Value: 500}
	assert.Equal(t, int64(0), unknown.DiscountFor(2000))
}
