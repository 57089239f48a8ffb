package engine

import (
	"fmt"

	"fenrir/concurrency"
	"fenrir/domain"
	"fenrir/orderbook"
	"fenrir/pricing"
)

// runMatchLoop implements the submission algorithm's matching step (spec.md
// §4.3): repeatedly cross the incoming order against the opposite side's
// best price level until either the book runs dry, the incoming order's
// remaining quantity reaches zero, or — for LIMIT orders only — the price
// guard fails. Must be called with the contract's section already locked;
// section.Clock assigns each trade's generated_at so generated_at stays
// strictly increasing within the contract.
//
// A non-nil error return means a book invariant was violated (an empty
// price level still listed as the best level, or a non-positive fill);
// callers halt the affected contract's book rather than trust its
// state any further.
func runMatchLoop(state *contractState, section *concurrency.Book, incoming *domain.Order) ([]domain.Trade, error) {
	var trades []domain.Trade

	for !incoming.RemainingQuantity.IsZero() {
		oppositeSide, level, ok := bestOppositeLevel(state.book, incoming.Side)
		if !ok {
			break
		}

		if incoming.Type == domain.LimitOrder && !priceGuardPasses(incoming, level.Price) {
			break
		}

		resting := level.PeekFront()
		if resting == nil {
			return trades, fmt.Errorf("book desync: price level %s on contract %s has no front order", level.Price, state.contract.Code)
		}

		fill := incoming.RemainingQuantity.Min(resting.RemainingQuantity)
		if !fill.IsPositive() {
			return trades, fmt.Errorf("non-positive fill matching order %s against %s on contract %s", incoming.Id, resting.Id, state.contract.Code)
		}

		now := section.Clock.Next()

		var buyID, sellID domain.OrderId
		if incoming.Side == domain.Buy {
			buyID, sellID = incoming.Id, resting.Id
		} else {
			buyID, sellID = resting.Id, incoming.Id
		}

		// Execution price is always the resting (passive) order's price —
		// the incoming side gets price improvement whenever it crossed the
		// book at a better price than it had to.
		trade := domain.NewTrade(state.contract.Code, buyID, sellID, resting.Price, fill, now)

		incoming.ApplyFill(fill, now)
		resting.ApplyFill(fill, now)

		if resting.RemainingQuantity.IsZero() {
			state.book.PopFrontOfBestLevel(oppositeSide, level)
		}

		trades = append(trades, trade)
		state.recordTrade(trade)
	}

	return trades, nil
}

// bestOppositeLevel returns the best price level on the side opposite to
// the incoming order, along with that opposite side's identity (needed by
// PopFrontOfBestLevel).
func bestOppositeLevel(book *orderbook.OrderBook, side domain.Side) (domain.Side, *orderbook.PriceLevel, bool) {
	if side == domain.Buy {
		level, ok := book.BestAsk()
		return domain.Sell, level, ok
	}
	level, ok := book.BestBid()
	return domain.Buy, level, ok
}

// priceGuardPasses reports whether a LIMIT order may still cross at the
// given opposite-side price: a BUY only crosses asks at or below its
// limit, a SELL only crosses bids at or above its limit. This is the
// corrected form of the Python source's inverted SELL-side predicate
// (spec.md §9) — it compares the resting bid against the order's own
// price, not a hand-rolled "max price" that produced the reported bug.
func priceGuardPasses(incoming *domain.Order, oppositePrice pricing.Price) bool {
	if incoming.Side == domain.Buy {
		return oppositePrice.LessThanOrEqual(incoming.Price)
	}
	return oppositePrice.GreaterThanOrEqual(incoming.Price)
}
