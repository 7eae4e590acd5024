package config

import (
	"fmt"
	"os"
	"time"

	"github.com/rpgo/pension-planner/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// All input-range checks (growth rate limits, payout-age bounds, date
// ordering) live here; the calculation engine performs no range-checking
// of its own.
var (
	minGrowthRate = decimal.NewFromInt(-1)
	maxGrowthRate = decimal.NewFromFloat(0.20)
	maxRate       = decimal.NewFromInt(1)
)

// InputParser handles parsing of plan configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a plan from a YAML file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Plan, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Load(data)
}

// Load parses and validates a plan document
func (ip *InputParser) Load(data []byte) (*domain.Plan, error) {
	var plan domain.Plan
	if err := yaml.Unmarshal(data, &plan); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	plan.Assumptions.ApplyDefaults()

	if err := ip.ValidatePlan(&plan); err != nil {
		return nil, fmt.Errorf("plan validation failed: %w", err)
	}

	return &plan, nil
}

// ValidatePlan validates the loaded plan
func (ip *InputParser) ValidatePlan(plan *domain.Plan) error {
	if err := ip.validateInputs(&plan.Inputs); err != nil {
		return err
	}
	if err := ip.validateAssumptions(&plan.Assumptions); err != nil {
		return err
	}
	if err := ip.validateTaxRules(&plan.Tax); err != nil {
		return err
	}

	// Date ordering is only enforceable here when the reference date is
	// fixed in the plan; otherwise the engine applies the policy at run
	// time against the caller-supplied date.
	if plan.Assumptions.AsOfDate != nil &&
		plan.Assumptions.PastRetirement == domain.PastRetirementReject &&
		plan.Inputs.RetirementDate.Before(*plan.Assumptions.AsOfDate) {
		return fmt.Errorf("retirement date %s precedes as-of date %s",
			plan.Inputs.RetirementDate.Format("2006-01-02"),
			plan.Assumptions.AsOfDate.Format("2006-01-02"))
	}

	return nil
}

func (ip *InputParser) validateInputs(inputs *domain.PlanInputs) error {
	if inputs.DateOfBirth.IsZero() {
		return fmt.Errorf("date of birth is required")
	}
	if inputs.RetirementDate.IsZero() {
		return fmt.Errorf("retirement date is required")
	}
	if inputs.RetirementDate.Before(inputs.DateOfBirth) {
		return fmt.Errorf("retirement date cannot precede date of birth")
	}

	if err := ip.validatePot("pension", &inputs.Pension); err != nil {
		return err
	}
	if err := ip.validatePot("isa", &inputs.ISA); err != nil {
		return err
	}

	if inputs.Property.CurrentValue.IsNegative() {
		return fmt.Errorf("property current value cannot be negative")
	}
	if inputs.Property.TargetPrice.IsNegative() {
		return fmt.Errorf("property target price cannot be negative")
	}
	if inputs.Property.MortgageOutstanding.IsNegative() {
		return fmt.Errorf("mortgage outstanding cannot be negative")
	}

	if inputs.DefinedBenefit.AnnualIncome.IsNegative() {
		return fmt.Errorf("defined benefit income cannot be negative")
	}
	if !inputs.DefinedBenefit.AnnualIncome.IsZero() &&
		(inputs.DefinedBenefit.PayoutAge < 50 || inputs.DefinedBenefit.PayoutAge > 70) {
		return fmt.Errorf("defined benefit payout age must be between 50 and 70, got %d", inputs.DefinedBenefit.PayoutAge)
	}

	if inputs.AnnualDividends.IsNegative() {
		return fmt.Errorf("annual dividends cannot be negative")
	}

	return nil
}

func (ip *InputParser) validatePot(name string, pot *domain.Pot) error {
	if pot.CurrentBalance.IsNegative() {
		return fmt.Errorf("%s current balance cannot be negative", name)
	}
	if pot.MonthlyContribution.IsNegative() {
		return fmt.Errorf("%s monthly contribution cannot be negative", name)
	}
	if pot.AnnualGrowthRate.LessThanOrEqual(minGrowthRate) {
		return fmt.Errorf("%s growth rate must be greater than -100%%", name)
	}
	if pot.AnnualGrowthRate.GreaterThan(maxGrowthRate) {
		return fmt.Errorf("%s growth rate cannot exceed 20%%", name)
	}
	return nil
}

func (ip *InputParser) validateAssumptions(assumptions *domain.Assumptions) error {
	if assumptions.DrawdownRate.IsNegative() || assumptions.DrawdownRate.GreaterThan(maxRate) {
		return fmt.Errorf("drawdown rate must be between 0 and 1")
	}

	switch assumptions.AggregationMode {
	case domain.AggregationPooled, domain.AggregationPerSource:
	default:
		return fmt.Errorf("aggregation mode must be %q or %q, got %q",
			domain.AggregationPooled, domain.AggregationPerSource, assumptions.AggregationMode)
	}

	switch assumptions.PastRetirement {
	case domain.PastRetirementReject, domain.PastRetirementClamp, domain.PastRetirementAllow:
	default:
		return fmt.Errorf("past retirement policy must be %q, %q or %q, got %q",
			domain.PastRetirementReject, domain.PastRetirementClamp, domain.PastRetirementAllow,
			assumptions.PastRetirement)
	}

	return nil
}

func (ip *InputParser) validateTaxRules(rules *domain.TaxRules) error {
	switch rules.Model {
	case "", domain.TaxModelBanded:
		return ip.validateBands(rules.Bands)
	case domain.TaxModelFlatAllowance:
		if rules.Flat == nil {
			return fmt.Errorf("tax model %q requires a flat parameter block", rules.Model)
		}
		if rules.Flat.TaxFreeAllowance.IsNegative() {
			return fmt.Errorf("tax-free allowance cannot be negative")
		}
		if rules.Flat.MarginalRate.IsNegative() || rules.Flat.MarginalRate.GreaterThan(maxRate) {
			return fmt.Errorf("marginal rate must be between 0 and 1")
		}
	case domain.TaxModelPerStream:
		if rules.Streams == nil {
			return fmt.Errorf("tax model %q requires a streams parameter block", rules.Model)
		}
		for name, rate := range map[string]decimal.Decimal{
			"db_rate":       rules.Streams.DBRate,
			"drawdown_rate": rules.Streams.DrawdownRate,
			"dividend_rate": rules.Streams.DividendRate,
		} {
			if rate.IsNegative() || rate.GreaterThan(maxRate) {
				return fmt.Errorf("streams %s must be between 0 and 1", name)
			}
		}
	default:
		return fmt.Errorf("unknown tax model %q", rules.Model)
	}
	return nil
}

func (ip *InputParser) validateBands(bands []domain.TaxBand) error {
	previousFrom := decimal.NewFromInt(-1)
	for i, band := range bands {
		if band.From.IsNegative() {
			return fmt.Errorf("tax band %d lower bound cannot be negative", i)
		}
		if band.To != nil && band.To.LessThanOrEqual(band.From) {
			return fmt.Errorf("tax band %d upper bound must exceed its lower bound", i)
		}
		if band.Rate.IsNegative() || band.Rate.GreaterThan(maxRate) {
			return fmt.Errorf("tax band %d rate must be between 0 and 1", i)
		}
		if band.From.LessThanOrEqual(previousFrom) {
			return fmt.Errorf("tax bands must be ordered by lower bound")
		}
		if band.To == nil && i != len(bands)-1 {
			return fmt.Errorf("only the final tax band may be unbounded")
		}
		previousFrom = band.From
	}
	return nil
}

// CreateExamplePlan creates a starter plan with representative values.
func CreateExamplePlan() *domain.Plan {
	dob, _ := time.Parse("2006-01-02", "1977-08-17")
	retirement, _ := time.Parse("2006-01-02", "2032-08-17")

	return &domain.Plan{
		Inputs: domain.PlanInputs{
			DateOfBirth:    dob,
			RetirementDate: retirement,
			Pension: domain.Pot{
				CurrentBalance:      decimal.NewFromInt(61000),
				MonthlyContribution: decimal.NewFromInt(2100),
				AnnualGrowthRate:    decimal.NewFromFloat(0.07),
			},
			ISA: domain.Pot{
				CurrentBalance:      decimal.NewFromInt(20000),
				MonthlyContribution: decimal.NewFromInt(1000),
				AnnualGrowthRate:    decimal.NewFromFloat(0.07),
			},
			Property: domain.Property{
				CurrentValue:        decimal.NewFromInt(530000),
				TargetPrice:         decimal.NewFromInt(350000),
				MortgageOutstanding: decimal.NewFromInt(155000),
			},
			DefinedBenefit: domain.DefinedBenefit{
				AnnualIncome: decimal.NewFromInt(20000),
				PayoutAge:    55,
			},
			AnnualDividends: decimal.NewFromInt(6000),
		},
		Assumptions: domain.Assumptions{
			DrawdownRate:    decimal.NewFromFloat(0.04),
			AggregationMode: domain.AggregationPerSource,
			PastRetirement:  domain.PastRetirementReject,
		},
		Tax: domain.TaxRules{
			Model: domain.TaxModelBanded,
		},
	}
}

// WriteExamplePlan marshals the example plan to YAML.
func WriteExamplePlan() ([]byte, error) {
	return yaml.Marshal(CreateExamplePlan())
}
