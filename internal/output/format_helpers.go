package output

import (
	"github.com/rpgo/pension-planner/pkg/money"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as sterling with thousands separators.
// Kept here so it can be reused by multiple formatters and unit tested in isolation.
func FormatCurrency(amount decimal.Decimal) string {
	return money.FromDecimal(amount).Format()
}

// FormatPercentage formats a fractional rate as a percentage with 1 decimal.
func FormatPercentage(rate decimal.Decimal) string {
	return rate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "%"
}
