package calculation

import (
	"math"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// MonthlyRate derives the monthly compounding rate from an effective annual
// rate: (1+annual)^(1/12) - 1. This reproduces effective-annual-rate
// semantics rather than the annual/12 approximation. The rate must be
// greater than -1.
func MonthlyRate(annualRate decimal.Decimal) decimal.Decimal {
	if annualRate.IsZero() {
		return decimal.Zero
	}
	monthly := math.Pow(one.Add(annualRate).InexactFloat64(), 1.0/12.0) - 1
	return decimal.NewFromFloat(monthly)
}

// FutureValue projects a pot forward by a number of months of monthly
// compounding: the lump sum compounded for the full period plus the future
// value of an ordinary annuity of equal monthly contributions. A zero
// monthly rate falls back to contribution x months to avoid dividing by
// zero. Months at or below zero return the present value unchanged, with
// no growth and no contributions applied.
func FutureValue(presentValue, monthlyContribution, annualRate decimal.Decimal, months int) decimal.Decimal {
	if months <= 0 {
		return presentValue
	}

	monthlyRate := MonthlyRate(annualRate)
	growth := one.Add(monthlyRate).Pow(decimal.NewFromInt(int64(months)))
	lumpSum := presentValue.Mul(growth)

	var series decimal.Decimal
	if monthlyRate.IsZero() {
		series = monthlyContribution.Mul(decimal.NewFromInt(int64(months)))
	} else {
		series = monthlyContribution.Mul(growth.Sub(one).Div(monthlyRate))
	}

	return lumpSum.Add(series)
}
