package orderbook

import (
	"fenrir/domain"
	"fenrir/pricing"
)

// PriceLevel is a FIFO queue of resting orders at a single price. Enqueue
// order is strictly placed_at ascending by construction: PushBack only ever
// appends to the tail.
type PriceLevel struct {
	Price  pricing.Price
	Orders []*domain.Order
}

// NewPriceLevel creates an empty price level at the given price.
func NewPriceLevel(price pricing.Price) *PriceLevel {
	return &PriceLevel{Price: price}
}

// PushBack appends an order to the tail of the queue.
func (l *PriceLevel) PushBack(o *domain.Order) {
	l.Orders = append(l.Orders, o)
}

// PeekFront returns the order at the head of the queue, or nil if empty.
func (l *PriceLevel) PeekFront() *domain.Order {
	if len(l.Orders) == 0 {
		return nil
	}
	return l.Orders[0]
}

// PopFront removes and returns the order at the head of the queue.
func (l *PriceLevel) PopFront() *domain.Order {
	if len(l.Orders) == 0 {
		return nil
	}
	o := l.Orders[0]
	l.Orders = l.Orders[1:]
	return o
}

// Remove deletes the order with the given id from anywhere in the queue,
// supporting cancellation of an order that is not at the front. Returns
// true if the order was found and removed.
func (l *PriceLevel) Remove(id domain.OrderId) bool {
	for i, o := range l.Orders {
		if o.Id == id {
			l.Orders = append(l.Orders[:i], l.Orders[i+1:]...)
			return true
		}
	}
	return false
}

// Empty reports whether the queue holds no resting orders.
func (l *PriceLevel) Empty() bool { return len(l.Orders) == 0 }
