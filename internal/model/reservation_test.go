package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeTotals(t *testing.T) {
	tickets := map[uint64]Ticket{
		1: {ID: 1, Name: "adult", Price: 500},
		2: {ID: 2, Name: "child", Price: 300},
	}

	t.Run("sums price and count across lines", func(t *testing.T) {
		price, count, missing := ComputeTotals([]TicketLine{
			{TicketID: 1, Quantity: 2},
			{TicketID: 2, Quantity: 3},
		}, tickets)
		require.Empty(t, missing)
		assert.Equal(t, 2*500+3*300, price)
		assert.Equal(t, 5, count)
	})

	t.Run("collects unknown ticket ids", func(t *testing.T) {
		_, _, missing := ComputeTotals([]TicketLine{
			{TicketID: 1, Quantity: 1},
			{TicketID: 99, Quantity: 1},
		}, tickets)
		assert.Equal(t, []uint64{99}, missing)
	})

	t.Run("empty lines yield zero totals", func(t *testing.T) {
		price, count, missing := ComputeTotals(nil, tickets)
		assert.Zero(t, price)
		assert.Zero(t, count)
		assert.Empty(t, missing)
	})
}

func TestCreateEffectInverse(t *testing.T) {
	effect := CreateEffect(1300, 5)
	assert.Equal(t, ReservationEffect{
		QuantityDelta:    -5,
		BuyerPointDelta:  -1300,
		SellerPointDelta: 1300,
	}, effect)

	refund := effect.Inverse()
	assert.Equal(t, ReservationEffect{
		QuantityDelta:    5,
		BuyerPointDelta:  1300,
		SellerPointDelta: -1300,
	}, refund)

	// Applying an effect and its inverse must restore the original state.
	assert.Zero(t, effect.QuantityDelta+refund.QuantityDelta)
	assert.Zero(t, effect.BuyerPointDelta+refund.BuyerPointDelta)
	assert.Zero(t, effect.SellerPointDelta+refund.SellerPointDelta)
}

func TestCanTransitionTo(t *testing.T) {
	cases := []struct {
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCanceled, true},
		{StatusConfirmed, StatusCanceled, true},
		{StatusConfirmed, StatusRejected, false},
		{StatusConfirmed, StatusPending, false},
		{StatusRejected, StatusCanceled, false},
		{StatusRejected, StatusPending, false},
		{StatusCanceled, StatusCanceled, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusPending, StatusPending, false},
	}
	for _, tc := range cases {
		assert.Equalf(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []ReservationStatus{StatusPending, StatusConfirmed, StatusRejected, StatusCanceled} {
		assert.True(t, ValidStatus(s))
	}
	assert.False(t, ValidStatus("REFUNDED"))
	assert.False(t, ValidStatus(""))
}

// Booking three 1000-point tickets against a product with quantity 5
// and a 10000-point balance: totals and deltas must line up exactly.
func TestBookingArithmetic(t *testing.T) {
	tickets := map[uint64]Ticket{1: {ID: 1, Name: "A", Price: 1000}}

	price, count, missing := ComputeTotals([]TicketLine{{TicketID: 1, Quantity: 3}}, tickets)
	require.Empty(t, missing)
	require.Equal(t, 3000, price)
	require.Equal(t, 3, count)

	effect := CreateEffect(price, count)
	quantity, buyerPoint, sellerPoint := 5, 10000, 0
	quantity += effect.QuantityDelta
	buyerPoint += effect.BuyerPointDelta
	sellerPoint += effect.SellerPointDelta
	assert.Equal(t, 2, quantity)
	assert.Equal(t, 7000, buyerPoint)
	assert.Equal(t, 3000, sellerPoint)

	refund := effect.Inverse()
	quantity += refund.QuantityDelta
	buyerPoint += refund.BuyerPointDelta
	sellerPoint += refund.SellerPointDelta
	assert.Equal(t, 5, quantity)
	assert.Equal(t, 10000, buyerPoint)
	assert.Equal(t, 0, sellerPoint)
}

// Scenario from the seller decision flow: a rejected booking cannot be
// cancelled afterwards, so the refund can only ever run once.
func TestNoDoubleRefundPath(t *testing.T) {
	s := StatusPending
	require.True(t, s.CanTransitionTo(StatusRejected))
	s = StatusRejected
	for _, target := range []ReservationStatus{StatusCanceled, StatusRejected, StatusConfirmed, StatusPending} {
		assert.False(t, s.CanTransitionTo(target))
	}
}
