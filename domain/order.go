package domain

import (
	"time"

	"fenrir/pricing"
)

// ContractCode identifies a standardized commodity contract, e.g.
// "UK-BL-MAR-25".
type ContractCode string

// Side is the direction of an order.
type Side int

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// OrderType distinguishes limit orders (price-bound, may rest) from market
// orders (price-less, never rest).
type OrderType int

const (
	LimitOrder OrderType = iota
	MarketOrder
)

func (t OrderType) String() string {
	if t == LimitOrder {
		return "limit"
	}
	return "market"
}

// OrderStatus is the lifecycle state of an order. OPEN and PARTIALLY_FILLED
// are the only resting states (invariant 6); FILLED and CANCELLED are
// terminal (invariant 5).
type OrderStatus int

const (
	Open OrderStatus = iota
	PartiallyFilled
	Filled
	Cancelled
)

func (s OrderStatus) String() string {
	switch s {
	case Open:
		return "open"
	case PartiallyFilled:
		return "partially_filled"
	case Filled:
		return "filled"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CancelReason records why a CANCELLED order stopped resting:
// CancelReasonTrader for a trader-initiated cancel, CancelReasonUnfilledMarket
// for a MARKET order closed out for lack of liquidity. Empty while the order
// is not cancelled.
type CancelReason string

const (
	CancelReasonNone           CancelReason = ""
	CancelReasonTrader         CancelReason = "trader_requested"
	CancelReasonUnfilledMarket CancelReason = "UNFILLED_MARKET"
)

// Order is the central mutable entity of the book. Identity fields
// (Id, ContractId, TraderId, Side, Type, Price, Quantity) are set once at
// construction and never change; residual state (RemainingQuantity,
// Status) only ever moves forward via the transition methods below, which
// derive Status from RemainingQuantity (invariants 2-4) instead of leaving
// callers to hand-mutate fields. ApplyFill does not check the fill against
// the residual or the order's terminal state; see its comment.
type Order struct {
	Id         OrderId
	ContractId ContractCode
	TraderId   TraderId
	Side       Side
	Type       OrderType

	// Price is the limit price; the zero value is meaningless for MARKET
	// orders, which carry HasPrice=false instead of a sentinel.
	Price    pricing.Price
	HasPrice bool

	Quantity          pricing.Quantity
	RemainingQuantity pricing.Quantity
	Status            OrderStatus
	CancelReason      CancelReason

	PlacedAt  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOrder constructs a fresh order in the OPEN state with remaining
// quantity equal to the full submitted quantity (invariant 3). placedAt is
// assigned by the engine under the book lock, never by the caller.
func NewOrder(
	id OrderId,
	contractId ContractCode,
	traderId TraderId,
	side Side,
	orderType OrderType,
	price pricing.Price,
	hasPrice bool,
	quantity pricing.Quantity,
	placedAt time.Time,
) *Order {
	now := placedAt
	return &Order{
		Id:                id,
		ContractId:        contractId,
		TraderId:          traderId,
		Side:              side,
		Type:              orderType,
		Price:             price,
		HasPrice:          hasPrice,
		Quantity:          quantity,
		RemainingQuantity: quantity,
		Status:            Open,
		PlacedAt:          placedAt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// IsResting reports whether the order may currently be listed in its
// contract's book (invariant 6/7): only LIMIT orders with an open or
// partially-filled status rest.
func (o *Order) IsResting() bool {
	return o.Type == LimitOrder && (o.Status == Open || o.Status == PartiallyFilled)
}

// IsTerminal reports whether the order can never change state again
// (invariant 5).
func (o *Order) IsTerminal() bool {
	return o.Status == Filled || o.Status == Cancelled
}

// ApplyFill decrements the residual quantity by fillQty and advances the
// status to PARTIALLY_FILLED or FILLED accordingly (invariants 2 and 4).
// It is the caller's (the match loop's) responsibility to ensure
// fillQty <= RemainingQuantity and that the order is not already terminal.
func (o *Order) ApplyFill(fillQty pricing.Quantity, at time.Time) {
	o.RemainingQuantity = o.RemainingQuantity.Sub(fillQty)
	if o.RemainingQuantity.IsZero() {
		o.Status = Filled
	} else {
		o.Status = PartiallyFilled
	}
	o.UpdatedAt = at
}

// Cancel transitions a resting order to CANCELLED. Returns false if the
// order was not resting (already terminal), matching the NotResting error
// semantics of the engine's public Cancel operation.
func (o *Order) Cancel(reason CancelReason, at time.Time) bool {
	if !o.IsResting() {
		return false
	}
	o.Status = Cancelled
	o.CancelReason = reason
	o.UpdatedAt = at
	return true
}

// MarkUnfilledMarket terminates a MARKET order that still has remaining
// quantity once the match loop runs out of opposite-side liquidity. A
// MARKET order never rests (IsResting is always false for it), so Cancel
// — which requires IsResting — cannot be used to close it out; the engine
// calls this directly instead, per the UNFILLED_MARKET cancel reason.
func (o *Order) MarkUnfilledMarket(at time.Time) {
	o.Status = Cancelled
	o.CancelReason = CancelReasonUnfilledMarket
	o.UpdatedAt = at
}

// Snapshot returns a copy of the order safe for external callers — query
// operations never hand out the book's live pointer (see the Ownership
// section of the data model).
func (o *Order) Snapshot() Order {
	return *o
}
