package engine

import (
	"fenrir/domain"
	"fenrir/pricing"
)

// SubmitRequest is the input to Submit: the client-supplied fields of a new
// order, with no id and no remaining_quantity — the engine assigns the Id,
// PlacedAt, RemainingQuantity, and Status per the submission algorithm of
// spec.md §4.3.
type SubmitRequest struct {
	ContractId domain.ContractCode
	TraderId   domain.TraderId
	Side       domain.Side
	Type       domain.OrderType

	// Price is only meaningful when HasPrice is true (LIMIT orders); a
	// MARKET order must leave HasPrice false.
	Price    pricing.Price
	HasPrice bool

	Quantity pricing.Quantity
}

// OrderFilter narrows GetOrders results by side, status, and/or trader.
// A zero-value field (nil pointer) means "don't filter on this dimension."
type OrderFilter struct {
	Side     *domain.Side
	Status   *domain.OrderStatus
	TraderId *domain.TraderId
}

func (f OrderFilter) matches(o *domain.Order) bool {
	if f.Side != nil && o.Side != *f.Side {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.TraderId != nil && o.TraderId != *f.TraderId {
		return false
	}
	return true
}

// Page selects a 1-indexed page of results of at most Limit entries. A
// zero-value Page (Page=0, Limit=0) returns the first page with a default
// limit of 50, matching the original Python reader's `page=1, limit=10`
// convention generalized to a larger operator-friendly default.
type Page struct {
	Page  int
	Limit int
}

const defaultPageLimit = 50

func (p Page) normalized() (page, limit int) {
	page = p.Page
	if page < 1 {
		page = 1
	}
	limit = p.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	return page, limit
}
