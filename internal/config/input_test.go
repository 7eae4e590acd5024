package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rpgo/pension-planner/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validPlanYAML = `
plan:
  date_of_birth: 1977-08-17
  retirement_date: 2032-08-17
  pension:
    current_balance: 61000
    monthly_contribution: 2100
    annual_growth_rate: 0.07
  isa:
    current_balance: 20000
    monthly_contribution: 1000
    annual_growth_rate: 0.07
  property:
    current_value: 530000
    target_price: 350000
    mortgage_outstanding: 155000
  defined_benefit:
    annual_income: 20000
    payout_age: 55
  annual_dividends: 6000
assumptions:
  as_of_date: 2025-01-01
  drawdown_rate: 0.04
  aggregation_mode: per_source
  past_retirement: reject
tax:
  model: banded
`

func TestLoadValidPlan(t *testing.T) {
	parser := NewInputParser()
	plan, err := parser.Load([]byte(validPlanYAML))
	require.NoError(t, err)

	assert.Equal(t, time.Date(1977, 8, 17, 0, 0, 0, 0, time.UTC), plan.Inputs.DateOfBirth)
	assert.True(t, plan.Inputs.Pension.CurrentBalance.Equal(decimal.NewFromInt(61000)))
	assert.True(t, plan.Inputs.Pension.AnnualGrowthRate.Equal(decimal.NewFromFloat(0.07)))
	assert.True(t, plan.Inputs.AnnualDividends.Equal(decimal.NewFromInt(6000)))
	assert.Equal(t, 55, plan.Inputs.DefinedBenefit.PayoutAge)
	assert.Equal(t, domain.AggregationPerSource, plan.Assumptions.AggregationMode)
	require.NotNil(t, plan.Assumptions.AsOfDate)
	assert.Equal(t, 2025, plan.Assumptions.AsOfDate.Year())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(validPlanYAML), 0644))

	plan, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, plan.Inputs.ISA.CurrentBalance.Equal(decimal.NewFromInt(20000)))

	_, err = NewInputParser().LoadFromFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadAppliesDefaults(t *testing.T) {
	minimal := `
plan:
  date_of_birth: 1977-08-17
  retirement_date: 2032-08-17
`
	plan, err := NewInputParser().Load([]byte(minimal))
	require.NoError(t, err)

	assert.True(t, plan.Assumptions.DrawdownRate.Equal(decimal.NewFromFloat(0.04)))
	assert.Equal(t, domain.AggregationPerSource, plan.Assumptions.AggregationMode)
	assert.Equal(t, domain.PastRetirementReject, plan.Assumptions.PastRetirement)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := NewInputParser().Load([]byte("plan: [not a mapping"))
	assert.Error(t, err)
}

func TestValidatePlan(t *testing.T) {
	base := func() *domain.Plan {
		plan, err := NewInputParser().Load([]byte(validPlanYAML))
		require.NoError(t, err)
		return plan
	}

	tests := []struct {
		name    string
		mutate  func(*domain.Plan)
		wantErr string
	}{
		{
			name:    "missing date of birth",
			mutate:  func(p *domain.Plan) { p.Inputs.DateOfBirth = time.Time{} },
			wantErr: "date of birth",
		},
		{
			name:    "missing retirement date",
			mutate:  func(p *domain.Plan) { p.Inputs.RetirementDate = time.Time{} },
			wantErr: "retirement date",
		},
		{
			name: "retirement before birth",
			mutate: func(p *domain.Plan) {
				p.Inputs.RetirementDate = time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC)
			},
			wantErr: "precede",
		},
		{
			name:    "negative pension balance",
			mutate:  func(p *domain.Plan) { p.Inputs.Pension.CurrentBalance = decimal.NewFromInt(-1) },
			wantErr: "pension current balance",
		},
		{
			name:    "growth rate too low",
			mutate:  func(p *domain.Plan) { p.Inputs.ISA.AnnualGrowthRate = decimal.NewFromInt(-2) },
			wantErr: "greater than -100%",
		},
		{
			name:    "growth rate too high",
			mutate:  func(p *domain.Plan) { p.Inputs.ISA.AnnualGrowthRate = decimal.NewFromFloat(0.5) },
			wantErr: "cannot exceed 20%",
		},
		{
			name:    "negative house value",
			mutate:  func(p *domain.Plan) { p.Inputs.Property.CurrentValue = decimal.NewFromInt(-1) },
			wantErr: "property current value",
		},
		{
			name:    "negative mortgage",
			mutate:  func(p *domain.Plan) { p.Inputs.Property.MortgageOutstanding = decimal.NewFromInt(-1) },
			wantErr: "mortgage",
		},
		{
			name:    "payout age out of range",
			mutate:  func(p *domain.Plan) { p.Inputs.DefinedBenefit.PayoutAge = 45 },
			wantErr: "payout age",
		},
		{
			name:    "negative dividends",
			mutate:  func(p *domain.Plan) { p.Inputs.AnnualDividends = decimal.NewFromInt(-1) },
			wantErr: "dividends",
		},
		{
			name:    "drawdown rate above one",
			mutate:  func(p *domain.Plan) { p.Assumptions.DrawdownRate = decimal.NewFromInt(2) },
			wantErr: "drawdown rate",
		},
		{
			name:    "unknown aggregation mode",
			mutate:  func(p *domain.Plan) { p.Assumptions.AggregationMode = "blended" },
			wantErr: "aggregation mode",
		},
		{
			name:    "unknown past retirement policy",
			mutate:  func(p *domain.Plan) { p.Assumptions.PastRetirement = "ignore" },
			wantErr: "past retirement",
		},
		{
			name:    "unknown tax model",
			mutate:  func(p *domain.Plan) { p.Tax.Model = "poll_tax" },
			wantErr: "unknown tax model",
		},
		{
			name:    "flat model without parameters",
			mutate:  func(p *domain.Plan) { p.Tax.Model = domain.TaxModelFlatAllowance },
			wantErr: "flat parameter block",
		},
		{
			name: "retirement before fixed as-of date",
			mutate: func(p *domain.Plan) {
				asOf := time.Date(2035, 1, 1, 0, 0, 0, 0, time.UTC)
				p.Assumptions.AsOfDate = &asOf
			},
			wantErr: "precedes as-of date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := base()
			tt.mutate(plan)
			err := NewInputParser().ValidatePlan(plan)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidatePlanAllowsPastRetirementWhenClamping(t *testing.T) {
	plan, err := NewInputParser().Load([]byte(validPlanYAML))
	require.NoError(t, err)

	asOf := time.Date(2035, 1, 1, 0, 0, 0, 0, time.UTC)
	plan.Assumptions.AsOfDate = &asOf
	plan.Assumptions.PastRetirement = domain.PastRetirementClamp

	assert.NoError(t, NewInputParser().ValidatePlan(plan))
}

func TestValidateBands(t *testing.T) {
	parser := NewInputParser()

	upper := decimal.NewFromInt(10000)
	lower := decimal.NewFromInt(5000)

	tests := []struct {
		name    string
		bands   []domain.TaxBand
		wantErr bool
	}{
		{"empty is fine", nil, false},
		{
			"ordered with final unbounded",
			[]domain.TaxBand{
				{From: decimal.Zero, To: &upper, Rate: decimal.Zero},
				{From: upper, To: nil, Rate: decimal.NewFromFloat(0.2)},
			},
			false,
		},
		{
			"inverted bound",
			[]domain.TaxBand{{From: upper, To: &lower, Rate: decimal.Zero}},
			true,
		},
		{
			"unbounded band not last",
			[]domain.TaxBand{
				{From: decimal.Zero, To: nil, Rate: decimal.Zero},
				{From: upper, To: nil, Rate: decimal.NewFromFloat(0.2)},
			},
			true,
		},
		{
			"rate above one",
			[]domain.TaxBand{{From: decimal.Zero, To: &upper, Rate: decimal.NewFromInt(2)}},
			true,
		},
		{
			"out of order",
			[]domain.TaxBand{
				{From: upper, To: nil, Rate: decimal.Zero},
				{From: lower, To: &upper, Rate: decimal.Zero},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parser.validateBands(tt.bands)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateExamplePlan(t *testing.T) {
	plan := CreateExamplePlan()
	require.NoError(t, NewInputParser().ValidatePlan(plan))

	data, err := WriteExamplePlan()
	require.NoError(t, err)

	// The example must round-trip through the parser.
	parsed, err := NewInputParser().Load(data)
	require.NoError(t, err)
	assert.True(t, parsed.Inputs.Pension.CurrentBalance.Equal(decimal.NewFromInt(61000)))
	assert.Equal(t, domain.AggregationPerSource, parsed.Assumptions.AggregationMode)
}
