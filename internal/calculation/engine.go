package calculation

import (
	"fmt"
	"time"

	"github.com/rpgo/pension-planner/internal/domain"
	"github.com/rpgo/pension-planner/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// ProjectionEngine orchestrates a retirement income projection: elapsed
// time to retirement, pot compounding, equity release, income aggregation,
// tax assessment and net allocation. Every invocation is an independent,
// idempotent transform of its inputs; the engine holds no mutable state
// between runs and never reads the system clock.
type ProjectionEngine struct {
	Logger Logger
}

// NewProjectionEngine creates a new projection engine with a no-op logger.
func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{Logger: NopLogger{}}
}

// SetLogger sets the logger for the engine. If nil is provided, a no-op
// logger is used.
func (pe *ProjectionEngine) SetLogger(l Logger) {
	if l == nil {
		pe.Logger = NopLogger{}
		return
	}
	pe.Logger = l
}

// ComputeProjection is the package-level convenience wrapper around a
// single engine run.
func ComputeProjection(plan *domain.Plan, asOf time.Time) (*domain.RetirementProjection, error) {
	return NewProjectionEngine().Project(plan, asOf)
}

// Project computes the retirement projection for a plan at an explicit
// as-of date. An as-of date carried in the plan's assumptions takes
// precedence over the argument so that stored plans stay deterministic.
func (pe *ProjectionEngine) Project(plan *domain.Plan, asOf time.Time) (*domain.RetirementProjection, error) {
	assumptions := plan.Assumptions
	assumptions.ApplyDefaults()
	if assumptions.AsOfDate != nil {
		asOf = *assumptions.AsOfDate
	}

	inputs := plan.Inputs

	months := dateutil.MonthsBetween(asOf, inputs.RetirementDate)
	if months < 0 {
		switch assumptions.PastRetirement {
		case domain.PastRetirementClamp:
			pe.Logger.Warnf("retirement date %s precedes as-of date %s; clamping to zero months",
				inputs.RetirementDate.Format("2006-01-02"), asOf.Format("2006-01-02"))
			months = 0
		case domain.PastRetirementAllow:
			// Negative months pass through; the future-value guard keeps
			// the pots at their present values.
		default:
			return nil, fmt.Errorf("retirement date %s precedes as-of date %s",
				inputs.RetirementDate.Format("2006-01-02"), asOf.Format("2006-01-02"))
		}
	}

	ageAtRetirement := dateutil.Age(inputs.DateOfBirth, inputs.RetirementDate)

	pensionPot := FutureValue(inputs.Pension.CurrentBalance, inputs.Pension.MonthlyContribution, inputs.Pension.AnnualGrowthRate, months)
	isaPot := FutureValue(inputs.ISA.CurrentBalance, inputs.ISA.MonthlyContribution, inputs.ISA.AnnualGrowthRate, months)
	equity := EquityRelease(inputs.Property)

	// Equality counts as eligible for the defined-benefit payout.
	dbActive := ageAtRetirement >= inputs.DefinedBenefit.PayoutAge

	aggregator := NewIncomeAggregator(assumptions.DrawdownRate, assumptions.AggregationMode)
	gross := aggregator.Aggregate(pensionPot, isaPot, equity, inputs.DefinedBenefit.AnnualIncome, inputs.AnnualDividends, dbActive)

	taxModel, err := NewTaxModel(plan.Tax)
	if err != nil {
		return nil, err
	}
	assessment := taxModel.Assess(gross)
	net := AllocateNetIncome(gross, assessment)

	totalGross := SumStreams(gross)
	totalNet := totalGross.Sub(assessment.TotalTax)

	projection := &domain.RetirementProjection{
		AsOfDate:               asOf,
		RetirementDate:         inputs.RetirementDate,
		MonthsToRetirement:     months,
		AgeAtRetirement:        ageAtRetirement,
		PensionPotAtRetirement: pensionPot,
		ISAPotAtRetirement:     isaPot,
		EquityReleased:         equity,
		GrossIncomeBySource:    gross,
		NetIncomeBySource:      net,
		TotalGrossIncome:       totalGross,
		TotalTaxDue:            assessment.TotalTax,
		TotalNetIncome:         totalNet,
		MonthlyNetIncome:       totalNet.Div(decimal.NewFromInt(12)),
	}

	pe.Logger.Debugf("projection: %d months to retirement, age %d, gross %s, tax %s (%s), net %s",
		months, ageAtRetirement, totalGross.StringFixed(2), assessment.TotalTax.StringFixed(2),
		taxModel.Name(), totalNet.StringFixed(2))

	return projection, nil
}
