package engine

import (
	"fenrir/contracts"
	"fenrir/domain"
	"fenrir/orderbook"
)

// contractState bundles one contract's order book with the in-memory trade
// index the engine consults to serve GetTradesForOrder without depending on
// the external persistence sink (which is write-only from the engine's
// point of view — see concurrency.TradeSink). Every field here is only ever
// touched while the contract's concurrency.Book is locked.
type contractState struct {
	contract contracts.Contract
	book     *orderbook.OrderBook

	halted     bool
	haltReason string

	tradesByID    map[domain.TradeId]domain.Trade
	tradesByOrder map[domain.OrderId][]domain.TradeId
}

func newContractState(contract contracts.Contract) *contractState {
	return &contractState{
		contract:      contract,
		book:          orderbook.New(contract.Code),
		tradesByID:    make(map[domain.TradeId]domain.Trade),
		tradesByOrder: make(map[domain.OrderId][]domain.TradeId),
	}
}

// recordTrade indexes a freshly matched trade against both of its
// participant orders.
func (s *contractState) recordTrade(t domain.Trade) {
	s.tradesByID[t.Id] = t
	s.tradesByOrder[t.BuyOrderId] = append(s.tradesByOrder[t.BuyOrderId], t.Id)
	s.tradesByOrder[t.SellOrderId] = append(s.tradesByOrder[t.SellOrderId], t.Id)
}

// tradesForOrder returns every trade an order participated in, oldest
// first (trade ids are appended in match order).
func (s *contractState) tradesForOrder(id domain.OrderId) []domain.Trade {
	ids := s.tradesByOrder[id]
	out := make([]domain.Trade, 0, len(ids))
	for _, tid := range ids {
		out = append(out, s.tradesByID[tid])
	}
	return out
}
