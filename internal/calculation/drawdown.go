package calculation

import (
	"github.com/rpgo/pension-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// EquityRelease computes the cash freed by selling the home and buying the
// cheaper target, net of the outstanding mortgage. Never negative. Selling
// costs and stamp duty are ignored; the downsizing model is illustrative.
func EquityRelease(property domain.Property) decimal.Decimal {
	equity := property.CurrentValue.Sub(property.TargetPrice).Sub(property.MortgageOutstanding)
	if equity.IsNegative() {
		return decimal.Zero
	}
	return equity
}

// IncomeAggregator combines the compounded pots, defined-benefit income and
// dividends into gross income streams under the configured aggregation mode.
type IncomeAggregator struct {
	DrawdownRate decimal.Decimal
	Mode         domain.AggregationMode
}

// NewIncomeAggregator creates an aggregator for the given withdrawal rate
// and mode.
func NewIncomeAggregator(drawdownRate decimal.Decimal, mode domain.AggregationMode) *IncomeAggregator {
	return &IncomeAggregator{DrawdownRate: drawdownRate, Mode: mode}
}

// Aggregate returns the gross annual income by source. In pooled mode the
// three pots collapse into a single blended drawdown stream; in per-source
// mode each pot is drawn down independently so income stays attributable.
// The defined-benefit stream contributes exactly zero when inactive.
func (ia *IncomeAggregator) Aggregate(pensionPot, isaPot, equity, dbIncome, dividends decimal.Decimal, dbActive bool) map[string]decimal.Decimal {
	gross := make(map[string]decimal.Decimal)

	switch ia.Mode {
	case domain.AggregationPooled:
		base := pensionPot.Add(isaPot).Add(equity)
		gross[domain.SourceDrawdown] = base.Mul(ia.DrawdownRate)
	default:
		gross[domain.SourcePension] = pensionPot.Mul(ia.DrawdownRate)
		gross[domain.SourceISA] = isaPot.Mul(ia.DrawdownRate)
		gross[domain.SourceEquity] = equity.Mul(ia.DrawdownRate)
	}

	if dbActive {
		gross[domain.SourceDefinedBenefit] = dbIncome
	} else {
		gross[domain.SourceDefinedBenefit] = decimal.Zero
	}
	gross[domain.SourceDividends] = dividends

	return gross
}

// SumStreams totals a by-source income map.
func SumStreams(bySource map[string]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, amount := range bySource {
		total = total.Add(amount)
	}
	return total
}
