package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregationMode selects how drawdown income is derived from the pots.
type AggregationMode string

const (
	// AggregationPooled sums the pots into one base and draws a single
	// blended income stream from it.
	AggregationPooled AggregationMode = "pooled"
	// AggregationPerSource draws from each pot independently so income
	// stays attributable to its source.
	AggregationPerSource AggregationMode = "per_source"
)

// PastRetirementPolicy decides what to do when the retirement date precedes
// the as-of date.
type PastRetirementPolicy string

const (
	// PastRetirementReject treats a retirement date in the past as an error.
	PastRetirementReject PastRetirementPolicy = "reject"
	// PastRetirementClamp clamps the elapsed time to zero months.
	PastRetirementClamp PastRetirementPolicy = "clamp"
	// PastRetirementAllow passes the negative month count through; the pots
	// are then reported at their present values.
	PastRetirementAllow PastRetirementPolicy = "allow"
)

// Tax model identifiers used for tagged-variant dispatch.
const (
	TaxModelFlatAllowance = "flat_allowance"
	TaxModelBanded        = "banded"
	TaxModelPerStream     = "per_stream"
)

// Pot represents an accumulating investment balance (pension or ISA)
// growing via monthly contributions and compounding growth.
type Pot struct {
	CurrentBalance      decimal.Decimal `yaml:"current_balance" json:"current_balance"`
	MonthlyContribution decimal.Decimal `yaml:"monthly_contribution" json:"monthly_contribution"`
	AnnualGrowthRate    decimal.Decimal `yaml:"annual_growth_rate" json:"annual_growth_rate"`
}

// Property describes the downsizing plan used for equity release.
type Property struct {
	CurrentValue        decimal.Decimal `yaml:"current_value" json:"current_value"`
	TargetPrice         decimal.Decimal `yaml:"target_price" json:"target_price"`
	MortgageOutstanding decimal.Decimal `yaml:"mortgage_outstanding" json:"mortgage_outstanding"`
}

// DefinedBenefit is a fixed guaranteed annual income that activates once
// the retiree reaches the payout age.
type DefinedBenefit struct {
	AnnualIncome decimal.Decimal `yaml:"annual_income" json:"annual_income"`
	PayoutAge    int             `yaml:"payout_age" json:"payout_age"`
}

// PlanInputs holds all financial inputs for a single projection run.
// The values are immutable for the duration of the calculation.
type PlanInputs struct {
	DateOfBirth     time.Time       `yaml:"date_of_birth" json:"date_of_birth"`
	RetirementDate  time.Time       `yaml:"retirement_date" json:"retirement_date"`
	Pension         Pot             `yaml:"pension" json:"pension"`
	ISA             Pot             `yaml:"isa" json:"isa"`
	Property        Property        `yaml:"property" json:"property"`
	DefinedBenefit  DefinedBenefit  `yaml:"defined_benefit" json:"defined_benefit"`
	AnnualDividends decimal.Decimal `yaml:"annual_dividends" json:"annual_dividends"`
}

// Assumptions carries the policy knobs of the projection. The drawdown
// rate and the two strategy selections are configuration, not structural
// constants.
type Assumptions struct {
	// AsOfDate fixes the reference "today" for the projection. When nil the
	// caller must supply one; the engine never reads the system clock.
	AsOfDate        *time.Time           `yaml:"as_of_date,omitempty" json:"as_of_date,omitempty"`
	DrawdownRate    decimal.Decimal      `yaml:"drawdown_rate" json:"drawdown_rate"`
	AggregationMode AggregationMode      `yaml:"aggregation_mode" json:"aggregation_mode"`
	PastRetirement  PastRetirementPolicy `yaml:"past_retirement" json:"past_retirement"`
}

// ApplyDefaults fills unset assumption fields with the standard policy
// values: a 4% withdrawal rate, per-source attribution and rejection of
// retirement dates in the past.
func (a *Assumptions) ApplyDefaults() {
	if a.DrawdownRate.IsZero() {
		a.DrawdownRate = decimal.NewFromFloat(0.04)
	}
	if a.AggregationMode == "" {
		a.AggregationMode = AggregationPerSource
	}
	if a.PastRetirement == "" {
		a.PastRetirement = PastRetirementReject
	}
}

// TaxBand is a contiguous income range taxed at a single marginal rate.
// A nil To means the band is unbounded above.
type TaxBand struct {
	From decimal.Decimal  `yaml:"from" json:"from"`
	To   *decimal.Decimal `yaml:"to,omitempty" json:"to,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// FlatAllowanceRules parameterize the flat-allowance tax model: income
// above a single tax-free allowance is taxed at one marginal rate.
type FlatAllowanceRules struct {
	TaxFreeAllowance decimal.Decimal `yaml:"tax_free_allowance" json:"tax_free_allowance"`
	MarginalRate     decimal.Decimal `yaml:"marginal_rate" json:"marginal_rate"`
}

// StreamRules parameterize the per-stream tax model. Defined-benefit
// income is taxed flat above the sum of the two allowances; drawdown and
// dividend streams each get their own flat rate.
type StreamRules struct {
	PersonalAllowance decimal.Decimal `yaml:"personal_allowance" json:"personal_allowance"`
	DBAllowance       decimal.Decimal `yaml:"db_allowance" json:"db_allowance"`
	DBRate            decimal.Decimal `yaml:"db_rate" json:"db_rate"`
	DrawdownRate      decimal.Decimal `yaml:"drawdown_rate" json:"drawdown_rate"`
	DividendRate      decimal.Decimal `yaml:"dividend_rate" json:"dividend_rate"`
}

// TaxFreeThreshold returns the combined allowance applied to the
// defined-benefit stream.
func (sr StreamRules) TaxFreeThreshold() decimal.Decimal {
	return sr.PersonalAllowance.Add(sr.DBAllowance)
}

// TaxRules selects one of the three tax models and carries its parameters.
// An empty Model selects the banded model with the default band table.
type TaxRules struct {
	Model   string              `yaml:"model" json:"model"`
	Flat    *FlatAllowanceRules `yaml:"flat,omitempty" json:"flat,omitempty"`
	Bands   []TaxBand           `yaml:"bands,omitempty" json:"bands,omitempty"`
	Streams *StreamRules        `yaml:"streams,omitempty" json:"streams,omitempty"`
}

// Plan is the top-level configuration document.
type Plan struct {
	Inputs      PlanInputs  `yaml:"plan" json:"plan"`
	Assumptions Assumptions `yaml:"assumptions" json:"assumptions"`
	Tax         TaxRules    `yaml:"tax" json:"tax"`
}

// DescribeAssumptions generates human-readable assumption statements for
// report output.
func (p *Plan) DescribeAssumptions() []string {
	assumptions := []string{
		"Fixed annual growth rates with monthly compounding derived from the effective annual rate",
		"Withdrawal rate of " + p.Assumptions.DrawdownRate.Mul(decimal.NewFromInt(100)).StringFixed(1) + "% applied to the accumulated pots",
		"Equity release ignores selling costs and stamp duty",
		"Simplified tax treatment; National Insurance and pension lifetime limits are not modelled",
	}
	switch p.Assumptions.AggregationMode {
	case AggregationPooled:
		assumptions = append(assumptions, "Pension, ISA and equity pooled into a single drawdown base")
	default:
		assumptions = append(assumptions, "Drawdown applied independently to pension, ISA and equity")
	}
	return assumptions
}
