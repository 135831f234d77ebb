// Package money holds the fixed-precision arithmetic shared by every
// monetary field of the dataset.
package money

import (
	"github.com/shopspring/decimal"
)

// DefaultPrecision is the number of fractional digits kept for ETH amounts.
const DefaultPrecision int32 = 8

// Epsilon returns the smallest representable step at precision p.
func Epsilon(p int32) decimal.Decimal {
	return decimal.New(1, -p)
}

// Round rounds d half away from zero to p fractional digits.
func Round(d decimal.Decimal, p int32) decimal.Decimal {
	return d.Round(p)
}

// FromFloat converts f and rounds it to p fractional digits.
func FromFloat(f float64, p int32) decimal.Decimal {
	return decimal.NewFromFloat(f).Round(p)
}

// Percent returns pct/100 as a decimal rate, e.g. Percent(2) == 0.02.
func Percent(pct float64) decimal.Decimal {
	return decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100))
}

// Fee splits amount into the platform fee and the seller proceeds. The fee is
// rounded to p digits and proceeds are amount minus fee, so the two always
// add back up to amount exactly.
func Fee(amount, rate decimal.Decimal, p int32) (fee, proceeds decimal.Decimal) {
	fee = amount.Mul(rate).Round(p)
	proceeds = amount.Sub(fee).Round(p)
	return fee, proceeds
}

// MinIncrement returns max(epsilon, price × rate) for the minimum bid step.
func MinIncrement(price, rate decimal.Decimal, p int32) decimal.Decimal {
	return decimal.Max(Epsilon(p), price.Mul(rate))
}
