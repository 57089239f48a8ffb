// Package contracts provides a read-only registry of contract metadata
// (tick size, contract size, commodity, delivery period) consulted by the
// engine at submission time for tick-alignment validation. The registry is
// loaded once at engine start and never mutated during a run.
package contracts

import (
	"fmt"

	"fenrir/domain"
	"fenrir/pricing"
)

// Commodity is the underlying asset class of a contract.
type Commodity string

const (
	Power      Commodity = "power"
	NaturalGas Commodity = "natural_gas"
	CrudeOil   Commodity = "crude_oil"
)

// DeliveryPeriod is the cadence over which a contract delivers.
type DeliveryPeriod string

const (
	Hourly    DeliveryPeriod = "hourly"
	Daily     DeliveryPeriod = "daily"
	Monthly   DeliveryPeriod = "monthly"
	Quarterly DeliveryPeriod = "quarterly"
	Yearly    DeliveryPeriod = "yearly"
)

// Contract is the immutable metadata describing a tradeable contract.
type Contract struct {
	Code           domain.ContractCode
	Commodity      Commodity
	DeliveryPeriod DeliveryPeriod
	Window         string // e.g. "2025-03"
	Location       string // e.g. "GB"
	TickSize       pricing.Price
	ContractSize   pricing.Quantity
}

// Registry is a read-only lookup of contract metadata, immutable once
// built.
type Registry struct {
	byCode map[domain.ContractCode]Contract
}

// NewRegistry builds a registry from the supplied contracts. Duplicate
// codes overwrite earlier entries.
func NewRegistry(entries ...Contract) *Registry {
	r := &Registry{byCode: make(map[domain.ContractCode]Contract, len(entries))}
	for _, c := range entries {
		r.byCode[c.Code] = c
	}
	return r
}

// Get returns the contract metadata for code, or false if unknown.
func (r *Registry) Get(code domain.ContractCode) (Contract, bool) {
	c, ok := r.byCode[code]
	return c, ok
}

// Codes returns every registered contract code. Order is unspecified.
func (r *Registry) Codes() []domain.ContractCode {
	codes := make([]domain.ContractCode, 0, len(r.byCode))
	for code := range r.byCode {
		codes = append(codes, code)
	}
	return codes
}

// DefaultRegistry returns the fixture registry used by the demo CLI and
// tests: a single UK month-ahead baseload power contract, grounded on the
// original Python source's ContractBaselineMarch2025 fixture.
func DefaultRegistry() *Registry {
	tick, err := pricing.NewPriceFromString("0.01")
	if err != nil {
		panic(fmt.Sprintf("contracts: invalid built-in tick size: %v", err))
	}
	return NewRegistry(Contract{
		Code:           "UK-BL-MAR-25",
		Commodity:      Power,
		DeliveryPeriod: Monthly,
		Window:         "2025-03",
		Location:       "GB",
		TickSize:       tick,
		ContractSize:   pricing.NewQuantityFromFloat(1),
	})
}
