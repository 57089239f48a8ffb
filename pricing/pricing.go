// Package pricing provides fixed-point decimal types for order prices and
// quantities. Nothing in the match path touches float64: every comparison
// and arithmetic operation here is backed by shopspring/decimal so that
// tick-alignment and quantity conservation stay exact under repeated
// partial fills.
package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// QuantityScale is the fixed decimal scale (number of digits after the
// point) for all Quantity values, per the data model's "Quantity (Q)".
const QuantityScale = 2

// Price is a non-negative fixed-point decimal. Its scale is determined by
// the owning contract's tick size, not stored on the value itself.
type Price struct {
	d decimal.Decimal
}

// Quantity is a fixed-point decimal with scale 2.
type Quantity struct {
	d decimal.Decimal
}

// ZeroQuantity is the terminal residual value.
var ZeroQuantity = Quantity{d: decimal.Zero}

// NewPriceFromString parses a decimal string into a Price. Returns an error
// if the string is not a valid decimal.
func NewPriceFromString(s string) (Price, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("pricing: invalid price %q: %w", s, err)
	}
	return Price{d: d}, nil
}

// NewQuantityFromString parses a decimal string into a Quantity rounded to
// QuantityScale.
func NewQuantityFromString(s string) (Quantity, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Quantity{}, fmt.Errorf("pricing: invalid quantity %q: %w", s, err)
	}
	return Quantity{d: d.Round(QuantityScale)}, nil
}

// NewPriceFromFloat builds a Price from a float64. Reserved for fixtures and
// tests; the match path never calls this with externally supplied values.
func NewPriceFromFloat(f float64) Price {
	return Price{d: decimal.NewFromFloat(f)}
}

// NewQuantityFromFloat builds a Quantity from a float64. Reserved for
// fixtures and tests.
func NewQuantityFromFloat(f float64) Quantity {
	return Quantity{d: decimal.NewFromFloat(f).Round(QuantityScale)}
}

// String renders the price with the decimal places it was created with, so a
// price parsed from "100.00" prints as "100.00".
func (p Price) String() string {
	if exp := p.d.Exponent(); exp < 0 {
		return p.d.StringFixed(-exp)
	}
	return p.d.String()
}

func (q Quantity) String() string { return q.d.StringFixed(QuantityScale) }

// IsZero reports whether the quantity is exactly zero.
func (q Quantity) IsZero() bool { return q.d.IsZero() }

// IsNegative reports whether the price is negative.
func (p Price) IsNegative() bool { return p.d.IsNegative() }

// IsPositive reports whether the quantity is strictly positive.
func (q Quantity) IsPositive() bool { return q.d.IsPositive() }

// Cmp compares two prices: -1, 0, 1.
func (p Price) Cmp(other Price) int { return p.d.Cmp(other.d) }

// GreaterThan reports whether p > other.
func (p Price) GreaterThan(other Price) bool { return p.d.GreaterThan(other.d) }

// GreaterThanOrEqual reports whether p >= other.
func (p Price) GreaterThanOrEqual(other Price) bool { return p.d.GreaterThanOrEqual(other.d) }

// LessThanOrEqual reports whether p <= other.
func (p Price) LessThanOrEqual(other Price) bool { return p.d.LessThanOrEqual(other.d) }

// Equal reports whether two prices represent the same value.
func (p Price) Equal(other Price) bool { return p.d.Equal(other.d) }

// Sub returns q - other.
func (q Quantity) Sub(other Quantity) Quantity { return Quantity{d: q.d.Sub(other.d)} }

// Add returns q + other.
func (q Quantity) Add(other Quantity) Quantity { return Quantity{d: q.d.Add(other.d)} }

// Min returns the smaller of q and other.
func (q Quantity) Min(other Quantity) Quantity {
	if q.d.LessThanOrEqual(other.d) {
		return q
	}
	return other
}

// GreaterThan reports whether q > other.
func (q Quantity) GreaterThan(other Quantity) bool { return q.d.GreaterThan(other.d) }

// LessThan reports whether q < other.
func (q Quantity) LessThan(other Quantity) bool { return q.d.LessThan(other.d) }

// Equal reports whether two quantities represent the same value.
func (q Quantity) Equal(other Quantity) bool { return q.d.Equal(other.d) }

// IsTickAligned reports whether p is an integer multiple of tick.
func (p Price) IsTickAligned(tick Price) bool {
	if tick.d.IsZero() {
		return false
	}
	quotient := p.d.Div(tick.d)
	return quotient.Equal(quotient.Truncate(0))
}

// Decimal exposes the underlying decimal.Decimal for callers (e.g. wire
// serialization) that need the raw value. Not used inside the match path.
func (p Price) Decimal() decimal.Decimal    { return p.d }
func (q Quantity) Decimal() decimal.Decimal { return q.d }
