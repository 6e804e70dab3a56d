package money

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrZeroShares is returned when a per-share value is requested for zero shares.
	ErrZeroShares = errors.New("share count is zero")
	// ErrInvalidRate is returned for exchange rates that are not strictly positive.
	ErrInvalidRate = errors.New("exchange rate must be positive")
)

// Fee derives a fee that is not printed directly: the distance between the
// stated settlement total and the net market value.
func Fee(statedTotal, net decimal.Decimal) decimal.Decimal {
	return statedTotal.Sub(net).Abs()
}

// DividendTax is the part of a gross payout that was withheld.
func DividendTax(grossPayout, netPayout decimal.Decimal) decimal.Decimal {
	return grossPayout.Sub(netPayout)
}

// PerShare divides amount by shares.
func PerShare(amount, shares decimal.Decimal) (decimal.Decimal, error) {
	if shares.IsZero() {
		return decimal.Zero, ErrZeroShares
	}
	return amount.Div(shares), nil
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	return decimal.Sum(decimal.Zero, values...)
}

// ApplyReduction moves a purchase-surcharge reduction from the fee into the
// amount. The sum amount+fee is unchanged, so the reduction is accounted
// for exactly once regardless of the sign it was printed with. At most the
// whole fee moves; the fee never drops below zero.
func ApplyReduction(amount, fee, reduction decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	r := decimal.Min(reduction.Abs(), decimal.Max(fee, decimal.Zero))
	return amount.Add(r), fee.Sub(r)
}

// ConvertByRate converts a value stated in a foreign currency into the
// reporting currency using an already stated exchange rate.
func ConvertByRate(value, rate decimal.Decimal) (decimal.Decimal, error) {
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}
	return value.Div(rate), nil
}

// ToFloat is the boundary conversion used when a record is assembled.
func ToFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
