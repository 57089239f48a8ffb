package orderbook_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fenrir/domain"
	"fenrir/orderbook"
	"fenrir/pricing"
)

func newRestingLimit(side domain.Side, price float64, qty float64, placedAt time.Time) *domain.Order {
	return domain.NewOrder(
		domain.NewOrderId(),
		"UK-BL-MAR-25",
		domain.NewTraderId(),
		side,
		domain.LimitOrder,
		pricing.NewPriceFromFloat(price),
		true,
		pricing.NewQuantityFromFloat(qty),
		placedAt,
	)
}

func TestInsertOrdersFIFOWithinAPriceLevel(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")

	first := newRestingLimit(domain.Buy, 100, 5, time.Now())
	book.Insert(first)
	second := newRestingLimit(domain.Buy, 100, 5, time.Now().Add(time.Second))
	book.Insert(second)

	level, ok := book.BestBid()
	require.True(t, ok)
	assert.Same(t, first, level.PeekFront())
}

func TestBestBidIsHighestPrice(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")
	book.Insert(newRestingLimit(domain.Buy, 99, 5, time.Now()))
	book.Insert(newRestingLimit(domain.Buy, 101, 5, time.Now()))

	level, ok := book.BestBid()
	require.True(t, ok)
	assert.True(t, level.Price.Equal(pricing.NewPriceFromFloat(101)))
}

func TestBestAskIsLowestPrice(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")
	book.Insert(newRestingLimit(domain.Sell, 101, 5, time.Now()))
	book.Insert(newRestingLimit(domain.Sell, 99, 5, time.Now()))

	level, ok := book.BestAsk()
	require.True(t, ok)
	assert.True(t, level.Price.Equal(pricing.NewPriceFromFloat(99)))
}

func TestCancelRemovesFromBothIndexes(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")
	order := newRestingLimit(domain.Buy, 100, 5, time.Now())
	book.Insert(order)

	cancelled, err := book.Cancel(order.Id, time.Now())
	require.NoError(t, err)
	assert.Equal(t, domain.Cancelled, cancelled.Status)

	_, ok := book.BestBid()
	assert.False(t, ok)

	indexed, ok := book.Get(order.Id)
	require.True(t, ok)
	assert.Equal(t, domain.Cancelled, indexed.Status)
}

func TestCancelOnUnknownOrderFails(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")
	_, err := book.Cancel(domain.NewOrderId(), time.Now())
	assert.ErrorIs(t, err, orderbook.ErrNotResting)
}

func TestCancelTwiceFails(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")
	order := newRestingLimit(domain.Buy, 100, 5, time.Now())
	book.Insert(order)

	_, err := book.Cancel(order.Id, time.Now())
	require.NoError(t, err)

	_, err = book.Cancel(order.Id, time.Now())
	assert.ErrorIs(t, err, orderbook.ErrNotResting)
}

func TestBookIndexConsistency(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")
	a := newRestingLimit(domain.Buy, 100, 5, time.Now())
	b := newRestingLimit(domain.Sell, 101, 5, time.Now())
	book.Insert(a)
	book.Insert(b)

	assert.Equal(t, book.RestingOrderIds(), book.RestingOrderIdsIndexed())
}

func TestSnapshotOrdersIncludesTerminalOrders(t *testing.T) {
	book := orderbook.New("UK-BL-MAR-25")
	order := newRestingLimit(domain.Buy, 100, 5, time.Now())
	book.Insert(order)
	_, err := book.Cancel(order.Id, time.Now())
	require.NoError(t, err)

	snapshot := book.SnapshotOrders()
	require.Len(t, snapshot, 1)
	assert.Equal(t, domain.Cancelled, snapshot[0].Status)
}
