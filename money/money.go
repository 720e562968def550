// Package money represents currency amounts as integer minor units so
// that cart and quote arithmetic never accumulates rounding drift.
// Decimal strings exist only at the boundaries: parsing provider
// responses and rendering two-decimal amounts.
package money

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
)

// Cents is a USD amount in minor units.
type Cents int64

// Parse converts a decimal string such as "25.00" into cents.
// Amounts with more than two fractional digits are rounded half-up.
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}
	return FromDecimal(d), nil
}

// FromDecimal converts a decimal amount into cents, rounding half-up.
func FromDecimal(d decimal.Decimal) Cents {
	return Cents(d.Shift(2).Round(0).IntPart())
}

// Decimal returns the amount as an exact two-decimal value.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// String renders the amount with exactly two fractional digits.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// Mul scales the amount by an item quantity.
func (c Cents) Mul(qty int) Cents {
	return c * Cents(qty)
}

// MarshalJSON renders the amount as a fixed two-decimal string, the
// form sessions, order documents and API responses all carry.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(c.String())), nil
}

// UnmarshalJSON accepts both the quoted fixed-decimal form and a bare
// JSON number, which is how the fulfillment provider reports costs.
func (c *Cents) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}

	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
