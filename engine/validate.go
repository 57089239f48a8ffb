package engine

import (
	"fenrir/contracts"
	"fenrir/domain"
)

// validateSubmit checks a SubmitRequest against the contract's metadata
// before any book lock is taken, per spec.md §4.1/§4.3 step 1. It rejects
// both of the Python source's known bugs by construction: it never caps a
// MARKET order's effective price (MARKET orders simply carry no price),
// and the SELL-side price guard lives in the match loop, not here.
func validateSubmit(req SubmitRequest, contract contracts.Contract) *Error {
	if !req.Quantity.IsPositive() {
		return errBadQuantity("quantity must be strictly positive")
	}

	switch req.Type {
	case domain.LimitOrder:
		if !req.HasPrice {
			return errBadPrice("limit orders require a price")
		}
		if req.Price.IsNegative() {
			return errBadPrice("price must not be negative")
		}
		if !req.Price.IsTickAligned(contract.TickSize) {
			return errBadPrice("price is not aligned to contract tick size " + contract.TickSize.String())
		}
	case domain.MarketOrder:
		if req.HasPrice {
			return errBadPrice("market orders must not carry a price")
		}
	default:
		return errBadPrice("unrecognized order type")
	}

	return nil
}
