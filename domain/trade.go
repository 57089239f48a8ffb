package domain

import (
	"time"

	"fenrir/pricing"
)

// Trade is immutable once emitted. Price is always the resting (passive)
// order's price — price improvement goes to the incoming/aggressive side
// when it crosses, per the execution price rule.
type Trade struct {
	Id          TradeId
	ContractId  ContractCode
	BuyOrderId  OrderId
	SellOrderId OrderId
	Price       pricing.Price
	Quantity    pricing.Quantity
	GeneratedAt time.Time
}

// NewTrade constructs a trade record. generatedAt must be assigned by the
// engine under the book lock to preserve the strictly-increasing ordering
// guarantee of spec §5.
func NewTrade(
	contractId ContractCode,
	buyOrderId, sellOrderId OrderId,
	price pricing.Price,
	quantity pricing.Quantity,
	generatedAt time.Time,
) Trade {
	return Trade{
		Id:          NewTradeId(),
		ContractId:  contractId,
		BuyOrderId:  buyOrderId,
		SellOrderId: sellOrderId,
		Price:       price,
		Quantity:    quantity,
		GeneratedAt: generatedAt,
	}
}
