package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Income source identifiers. SourceDrawdown appears only in pooled mode,
// where the blended stream cannot be decomposed by pot.
const (
	SourcePension        = "pension"
	SourceISA            = "isa"
	SourceEquity         = "equity"
	SourceDrawdown       = "drawdown"
	SourceDefinedBenefit = "defined_benefit"
	SourceDividends      = "dividends"
)

// sourceOrder fixes the presentation order of income sources in reports.
var sourceOrder = []string{
	SourcePension,
	SourceISA,
	SourceEquity,
	SourceDrawdown,
	SourceDefinedBenefit,
	SourceDividends,
}

// OrderedSources returns the keys of an income-by-source map in stable
// presentation order.
func OrderedSources(bySource map[string]decimal.Decimal) []string {
	ordered := make([]string, 0, len(bySource))
	for _, name := range sourceOrder {
		if _, ok := bySource[name]; ok {
			ordered = append(ordered, name)
		}
	}
	return ordered
}

// SourceLabel returns a display name for an income source identifier.
func SourceLabel(source string) string {
	switch source {
	case SourcePension:
		return "Pension drawdown"
	case SourceISA:
		return "ISA drawdown"
	case SourceEquity:
		return "Equity drawdown"
	case SourceDrawdown:
		return "Pooled drawdown"
	case SourceDefinedBenefit:
		return "Defined benefit"
	case SourceDividends:
		return "Dividends"
	default:
		return source
	}
}

// RetirementProjection is the computed output of a single projection run.
// It is a stateless transform of the inputs; nothing persists beyond the
// invocation.
type RetirementProjection struct {
	AsOfDate       time.Time `json:"as_of_date"`
	RetirementDate time.Time `json:"retirement_date"`

	MonthsToRetirement int `json:"months_to_retirement"`
	AgeAtRetirement    int `json:"age_at_retirement"`

	PensionPotAtRetirement decimal.Decimal `json:"pension_pot_at_retirement"`
	ISAPotAtRetirement     decimal.Decimal `json:"isa_pot_at_retirement"`
	EquityReleased         decimal.Decimal `json:"equity_released"`

	GrossIncomeBySource map[string]decimal.Decimal `json:"gross_income_by_source"`
	NetIncomeBySource   map[string]decimal.Decimal `json:"net_income_by_source"`

	TotalGrossIncome decimal.Decimal `json:"total_gross_income"`
	TotalTaxDue      decimal.Decimal `json:"total_tax_due"`
	TotalNetIncome   decimal.Decimal `json:"total_net_income"`
	MonthlyNetIncome decimal.Decimal `json:"monthly_net_income"`
}

// SumGrossIncome sums the per-source gross income streams.
func (rp *RetirementProjection) SumGrossIncome() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range rp.GrossIncomeBySource {
		total = total.Add(amount)
	}
	return total
}

// SumNetIncome sums the per-source net income streams.
func (rp *RetirementProjection) SumNetIncome() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range rp.NetIncomeBySource {
		total = total.Add(amount)
	}
	return total
}

// ProjectionReport bundles a projection with the plan that produced it for
// the output formatters.
type ProjectionReport struct {
	Plan        *Plan                 `json:"plan"`
	Projection  *RetirementProjection `json:"projection"`
	Assumptions []string              `json:"assumptions"`
}
