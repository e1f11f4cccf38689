package domain

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value in integer minor units of the ledger currency
// (for IDR with scale 2, 1_000_000.00 is Amount(100_000_000)).
type Amount int64

var (
	maxAmount = decimal.NewFromInt(math.MaxInt64)
	minAmount = decimal.NewFromInt(math.MinInt64)
)

// Currency describes the single currency a ledger is kept in.
type Currency struct {
	Code  string `json:"code"`
	Scale int32  `json:"scale"` // number of minor-unit digits
}

// AmountFromDecimal converts a decimal value into minor units. Values carrying
// more fractional digits than scale are rejected instead of rounded.
func AmountFromDecimal(d decimal.Decimal, scale int32) (Amount, error) {
	shifted := d.Shift(scale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", d.String(), scale)
	}
	if shifted.GreaterThan(maxAmount) || shifted.LessThan(minAmount) {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return Amount(shifted.IntPart()), nil
}

// Decimal renders the amount back into currency units.
func (a Amount) Decimal(scale int32) decimal.Decimal {
	return decimal.New(int64(a), -scale)
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// Neg returns -a.
func (a Amount) Neg() Amount { return -a }

// AddChecked adds b to a and reports overflow.
func (a Amount) AddChecked(b Amount) (Amount, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}
	return s, true
}
