package domain

import "github.com/google/uuid"

// OrderId, TradeId, TraderId are opaque 128-bit identifiers. They are
// distinct types over uuid.UUID so the compiler catches accidental mixing
// of an order id where a trade id is expected.
type OrderId uuid.UUID
type TradeId uuid.UUID
type TraderId uuid.UUID

// NewOrderId assigns a fresh random order id.
func NewOrderId() OrderId { return OrderId(uuid.New()) }

// NewTradeId assigns a fresh random trade id.
func NewTradeId() TradeId { return TradeId(uuid.New()) }

// NewTraderId assigns a fresh random trader id.
func NewTraderId() TraderId { return TraderId(uuid.New()) }

func (id OrderId) String() string  { return uuid.UUID(id).String() }
func (id TradeId) String() string  { return uuid.UUID(id).String() }
func (id TraderId) String() string { return uuid.UUID(id).String() }

// ParseOrderId parses a string UUID into an OrderId.
func ParseOrderId(s string) (OrderId, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return OrderId{}, err
	}
	return OrderId(u), nil
}

// ParseTraderId parses a string UUID into a TraderId.
func ParseTraderId(s string) (TraderId, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TraderId{}, err
	}
	return TraderId(u), nil
}
