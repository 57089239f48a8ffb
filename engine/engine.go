// Package engine implements the MatchingEngine: the single entry point for
// submitting, cancelling, and querying orders against a continuous
// double-auction book, one per registered contract. It composes
// contracts.Registry (metadata/validation), concurrency.Shell (the
// per-contract lock and persistence handoff), and orderbook.OrderBook (the
// resting-order data structure) into the algorithm described in spec.md
// §4.3, adapted from the teacher's internal/engine.Engine Match/handleLimit/
// handleMarket control flow and cross-checked against the Python source's
// MatchingEngine._match_buy_order/_match_sell_order loop shape.
package engine

import (
	"sort"

	"github.com/rs/zerolog/log"

	"fenrir/concurrency"
	"fenrir/contracts"
	"fenrir/domain"
	"fenrir/pricing"
)

// Recorder observes engine activity for metrics. Implementations must be
// safe for concurrent use; MatchingEngine never calls a Recorder method
// while holding a contract's book lock longer than the call itself takes
// (submit/cancel/trade observations happen inline, under the lock, to keep
// counts exact — see the metrics package for the prometheus-backed
// implementation). A nil Recorder disables observation entirely.
type Recorder interface {
	ObserveSubmit(contractID domain.ContractCode, side domain.Side)
	ObserveCancel(contractID domain.ContractCode)
	ObserveTrade(contractID domain.ContractCode, quantity pricing.Quantity)
	ObserveBookDepth(contractID domain.ContractCode, side domain.Side, depth int)
}

// MatchingEngine is the exchange's core: it owns one order book per
// registered contract, serialized by a concurrency.Shell, validated
// against a contracts.Registry. The zero value is not usable; construct
// with New and call Start before submitting any order.
type MatchingEngine struct {
	registry *contracts.Registry
	recorder Recorder
	sink     concurrency.TradeSink

	shell  *concurrency.Shell
	states map[domain.ContractCode]*contractState
}

// New constructs an engine bound to a contract registry. Call Start to
// bring up the books for the contracts you intend to trade.
func New(registry *contracts.Registry) *MatchingEngine {
	return &MatchingEngine{
		registry: registry,
		states:   make(map[domain.ContractCode]*contractState),
	}
}

// WithRecorder attaches a metrics recorder. Must be called before Start.
func (e *MatchingEngine) WithRecorder(r Recorder) *MatchingEngine {
	e.recorder = r
	return e
}

// WithTradeSink attaches the durable trade sink handed to the concurrency
// shell. Must be called before Start.
func (e *MatchingEngine) WithTradeSink(sink concurrency.TradeSink) *MatchingEngine {
	e.sink = sink
	return e
}

// Start brings up one order book per contract code, each validated against
// the engine's registry, and starts the shell's persistence workers. It is
// an error to name a contract the registry does not know about.
func (e *MatchingEngine) Start(codes []domain.ContractCode) error {
	for _, code := range codes {
		contract, ok := e.registry.Get(code)
		if !ok {
			return errUnknownContract(code)
		}
		e.states[code] = newContractState(contract)
	}
	e.shell = concurrency.NewShell(codes, e.sink)
	log.Info().Int("contracts", len(codes)).Msg("matching engine started")
	return nil
}

// Stop signals every persistence worker to exit and waits for them to
// drain their in-flight trades.
func (e *MatchingEngine) Stop() error {
	if e.shell == nil {
		return nil
	}
	return e.shell.Stop()
}

// Submit runs the full submission algorithm of spec.md §4.3: validate the
// request, assign placed_at, match against resting liquidity under the
// contract's exclusive lock, rest or terminate the residual, then hand off
// any resulting trades for persistence after releasing the lock. It
// returns the new order's id and every trade it participated in.
func (e *MatchingEngine) Submit(req SubmitRequest) (domain.OrderId, []domain.Trade, *Error) {
	state, ok := e.states[req.ContractId]
	if !ok {
		return domain.OrderId{}, nil, errUnknownContract(req.ContractId)
	}

	if verr := validateSubmit(req, state.contract); verr != nil {
		return domain.OrderId{}, nil, verr
	}

	section, _ := e.shell.Book(req.ContractId)
	section.Lock()

	if state.halted {
		section.Unlock()
		return domain.OrderId{}, nil, newError(KindInternal, "book %s is halted: %s", req.ContractId, state.haltReason)
	}

	placedAt := section.Clock.Next()
	order := domain.NewOrder(
		domain.NewOrderId(),
		req.ContractId,
		req.TraderId,
		req.Side,
		req.Type,
		req.Price,
		req.HasPrice,
		req.Quantity,
		placedAt,
	)

	trades, matchErr := runMatchLoop(state, section, order)
	if matchErr != nil {
		state.halted = true
		state.haltReason = matchErr.Error()
		section.Unlock()
		log.Error().Err(matchErr).Str("contract_id", string(req.ContractId)).Msg("book invariant violated, halting contract")
		return domain.OrderId{}, nil, newError(KindInternal, "internal invariant violation, book halted")
	}

	switch {
	case order.Type == domain.LimitOrder && order.RemainingQuantity.IsPositive():
		state.book.Insert(order)
	case order.Type == domain.MarketOrder && order.RemainingQuantity.IsPositive():
		order.MarkUnfilledMarket(section.Clock.Next())
		state.book.Index(order)
	default:
		state.book.Index(order)
	}

	if e.recorder != nil {
		e.recorder.ObserveSubmit(req.ContractId, req.Side)
		for _, t := range trades {
			e.recorder.ObserveTrade(req.ContractId, t.Quantity)
		}
		e.observeDepth(req.ContractId, state)
	}

	id := order.Id
	section.Unlock()

	for _, t := range trades {
		section.Handoff(t)
	}

	return id, trades, nil
}

// Cancel removes a resting order from its book. Cancelling an order that
// is not currently resting (never existed, already filled, or already
// cancelled) reports NotResting — calling Cancel twice on the same order
// is therefore idempotent in effect, per spec.md §8.
func (e *MatchingEngine) Cancel(contractID domain.ContractCode, orderID domain.OrderId) (domain.Order, *Error) {
	state, ok := e.states[contractID]
	if !ok {
		return domain.Order{}, errUnknownContract(contractID)
	}

	section, _ := e.shell.Book(contractID)
	section.Lock()
	defer section.Unlock()

	now := section.Clock.Next()
	order, err := state.book.Cancel(orderID, now)
	if err != nil {
		return domain.Order{}, errNotResting(orderID)
	}

	if e.recorder != nil {
		e.recorder.ObserveCancel(contractID)
		e.observeDepth(contractID, state)
	}

	return order.Snapshot(), nil
}

// observeDepth reports the current resting-order count per side to the
// recorder. Callers must hold the contract's section lock so the depth
// reported is consistent with the mutation that just completed.
func (e *MatchingEngine) observeDepth(contractID domain.ContractCode, state *contractState) {
	e.recorder.ObserveBookDepth(contractID, domain.Buy, state.book.RestingCount(domain.Buy))
	e.recorder.ObserveBookDepth(contractID, domain.Sell, state.book.RestingCount(domain.Sell))
}

// GetOrder returns a point-in-time snapshot of one order, resting or
// terminal.
func (e *MatchingEngine) GetOrder(contractID domain.ContractCode, orderID domain.OrderId) (domain.Order, *Error) {
	state, ok := e.states[contractID]
	if !ok {
		return domain.Order{}, errUnknownContract(contractID)
	}

	section, _ := e.shell.Book(contractID)
	section.Lock()
	defer section.Unlock()

	order, ok := state.book.Get(orderID)
	if !ok {
		return domain.Order{}, errNotFound(orderID)
	}
	return order.Snapshot(), nil
}

// GetOrders returns every order ever submitted to a contract — resting or
// terminal, per the retained-history query policy recorded in
// SPEC_FULL.md — narrowed by filter and paginated oldest-placed-first.
func (e *MatchingEngine) GetOrders(contractID domain.ContractCode, filter OrderFilter, page Page) ([]domain.Order, *Error) {
	state, ok := e.states[contractID]
	if !ok {
		return nil, errUnknownContract(contractID)
	}

	section, _ := e.shell.Book(contractID)
	section.Lock()
	orders := state.book.SnapshotOrders()
	section.Unlock()

	sort.Slice(orders, func(i, j int) bool { return orders[i].PlacedAt.Before(orders[j].PlacedAt) })

	filtered := make([]domain.Order, 0, len(orders))
	for _, o := range orders {
		if filter.matches(&o) {
			filtered = append(filtered, o)
		}
	}

	pageNum, limit := page.normalized()
	start := (pageNum - 1) * limit
	if start >= len(filtered) {
		return []domain.Order{}, nil
	}
	end := start + limit
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

// GetTradesForOrder returns every trade an order participated in, oldest
// first. Returns NotFound if the order was never submitted to this
// contract.
func (e *MatchingEngine) GetTradesForOrder(contractID domain.ContractCode, orderID domain.OrderId) ([]domain.Trade, *Error) {
	state, ok := e.states[contractID]
	if !ok {
		return nil, errUnknownContract(contractID)
	}

	section, _ := e.shell.Book(contractID)
	section.Lock()
	defer section.Unlock()

	if _, ok := state.book.Get(orderID); !ok {
		return nil, errNotFound(orderID)
	}
	return state.tradesForOrder(orderID), nil
}
