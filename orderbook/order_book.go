// Package orderbook holds the per-contract resting-order data structures:
// two price-indexed sorted sides (bids descending, asks ascending) plus an
// id index, adapted from the teacher's btree-backed OrderBook.
package orderbook

import (
	"errors"
	"time"

	"github.com/tidwall/btree"

	"fenrir/domain"
)

// ErrNotResting is returned by Cancel when the order is not currently
// resting in the book (already terminal, or never inserted).
var ErrNotResting = errors.New("orderbook: order not resting")

// PriceLevels is a btree index of price levels, ordered either bids-descending
// or asks-ascending depending on the comparator supplied at construction —
// directly adapted from the teacher's engine.PriceLevels alias.
type PriceLevels = btree.BTreeG[*PriceLevel]

// OrderBook holds the resting orders for a single contract.
type OrderBook struct {
	ContractId domain.ContractCode

	bids *PriceLevels // sorted price DESC
	asks *PriceLevels // sorted price ASC

	byID      map[domain.OrderId]*domain.Order
	levelByID map[domain.OrderId]*PriceLevel
}

// New creates an empty order book for the given contract.
func New(contractID domain.ContractCode) *OrderBook {
	bids := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return a.Price.GreaterThan(b.Price)
	})
	asks := btree.NewBTreeG(func(a, b *PriceLevel) bool {
		return !a.Price.GreaterThanOrEqual(b.Price)
	})
	return &OrderBook{
		ContractId: contractID,
		bids:       bids,
		asks:       asks,
		byID:       make(map[domain.OrderId]*domain.Order),
		levelByID:  make(map[domain.OrderId]*PriceLevel),
	}
}

func (b *OrderBook) levels(side domain.Side) *PriceLevels {
	if side == domain.Buy {
		return b.bids
	}
	return b.asks
}

// BestBid returns the highest bid price level, if any.
func (b *OrderBook) BestBid() (*PriceLevel, bool) {
	return b.bids.Min()
}

// BestAsk returns the lowest ask price level, if any.
func (b *OrderBook) BestAsk() (*PriceLevel, bool) {
	return b.asks.Min()
}

// Insert appends a resting limit order to its (side, price) queue, creating
// the price level if absent. Callers must ensure the order is LIMIT, has
// positive remaining quantity, and is OPEN or PARTIALLY_FILLED — Insert
// itself does not re-validate, matching the precondition contract in
// spec.md §4.2.
func (b *OrderBook) Insert(o *domain.Order) {
	levels := b.levels(o.Side)
	probe := &PriceLevel{Price: o.Price}
	level, ok := levels.GetMut(probe)
	if !ok {
		level = NewPriceLevel(o.Price)
		levels.Set(level)
	}
	level.PushBack(o)

	b.byID[o.Id] = o
	b.levelByID[o.Id] = level
}

// dropLevelIfEmpty removes a price level from its side's index once its
// queue is drained.
func (b *OrderBook) dropLevelIfEmpty(side domain.Side, level *PriceLevel) {
	if level.Empty() {
		b.levels(side).Delete(level)
	}
}

// PopFrontOfBestLevel removes and returns the order at the head of the
// given side's best price level, dropping the level if it becomes empty.
// Used only by the match loop, which already holds the book's exclusive
// section.
func (b *OrderBook) PopFrontOfBestLevel(side domain.Side, level *PriceLevel) *domain.Order {
	o := level.PopFront()
	if o != nil {
		delete(b.levelByID, o.Id)
	}
	b.dropLevelIfEmpty(side, level)
	return o
}

// Cancel removes a resting order from its queue and marks it CANCELLED at
// time now. Returns ErrNotResting if the order is not currently resting —
// this covers both "never inserted" and "already terminal," matching the
// idempotent-cancel property of spec.md §8.
func (b *OrderBook) Cancel(id domain.OrderId, now time.Time) (*domain.Order, error) {
	o, ok := b.byID[id]
	if !ok || !o.IsResting() {
		return nil, ErrNotResting
	}

	level, ok := b.levelByID[id]
	if !ok {
		return nil, ErrNotResting
	}
	level.Remove(id)
	delete(b.levelByID, id)
	b.dropLevelIfEmpty(o.Side, level)

	o.Cancel(domain.CancelReasonTrader, now)
	return o, nil
}

// Get returns the order with the given id regardless of resting status
// (terminal orders remain indexed for history queries), or false if the
// id was never submitted to this book.
func (b *OrderBook) Get(id domain.OrderId) (*domain.Order, bool) {
	o, ok := b.byID[id]
	return o, ok
}

// Index registers an order in the id index without resting it — used for
// orders that terminate immediately (FILLED on submission, or an unfilled
// MARKET order) so they remain queryable per the retained-history policy
// recorded in SPEC_FULL.md.
func (b *OrderBook) Index(o *domain.Order) {
	b.byID[o.Id] = o
}

// SnapshotOrders returns a copy of every order ever indexed by this book,
// resting or terminal. The invariant that the id index and the price-level
// queues reference the same set of *resting* orders is checked separately,
// by comparing RestingOrderIds with RestingOrderIdsIndexed.
func (b *OrderBook) SnapshotOrders() []domain.Order {
	out := make([]domain.Order, 0, len(b.byID))
	for _, o := range b.byID {
		out = append(out, o.Snapshot())
	}
	return out
}

// RestingCount returns the number of resting orders currently queued on the
// given side — used to report book-depth metrics.
func (b *OrderBook) RestingCount(side domain.Side) int {
	count := 0
	b.levels(side).Scan(func(level *PriceLevel) bool {
		count += len(level.Orders)
		return true
	})
	return count
}

// RestingOrderIds returns the set of order ids currently present across all
// price-level queues on both sides — used to verify the book-index
// consistency property of spec.md §8.
func (b *OrderBook) RestingOrderIds() map[domain.OrderId]struct{} {
	ids := make(map[domain.OrderId]struct{})
	collect := func(levels *PriceLevels) {
		levels.Scan(func(level *PriceLevel) bool {
			for _, o := range level.Orders {
				ids[o.Id] = struct{}{}
			}
			return true
		})
	}
	collect(b.bids)
	collect(b.asks)
	return ids
}

// RestingOrderIdsIndexed returns the set of order ids the id index
// currently considers resting (IsResting() == true). Compared against
// RestingOrderIds by tests to check the book-index consistency property.
func (b *OrderBook) RestingOrderIdsIndexed() map[domain.OrderId]struct{} {
	ids := make(map[domain.OrderId]struct{})
	for id, o := range b.byID {
		if o.IsResting() {
			ids[id] = struct{}{}
		}
	}
	return ids
}
