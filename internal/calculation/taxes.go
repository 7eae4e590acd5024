package calculation

import (
	"fmt"

	"github.com/rpgo/pension-planner/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX MODEL ASSUMPTIONS:
//
// 1. Banded model: the default band table mirrors the 2024/25 UK income tax
//    bands (personal allowance taper not modelled). The values are policy
//    constants supplied through configuration, not structural formulas.
//
// 2. Flat-allowance model: a single tax-free allowance with one marginal
//    rate above it.
//
// 3. Per-stream model: defined-benefit income is taxed flat above a summed
//    two-allowance threshold; drawdown and dividend streams each carry
//    their own flat rate. Tax is assessed per stream, never on aggregate.
//
// The aggregate models compute tax once on total gross income and the
// engine allocates it back to each source proportionally to its gross
// share.

// TaxAssessment is the result of applying a tax model to gross income.
// TaxBySource is populated only by models that assess each stream
// independently; aggregate models leave it nil and the total is allocated
// proportionally.
type TaxAssessment struct {
	TotalTax    decimal.Decimal
	TaxBySource map[string]decimal.Decimal
}

// TaxModel converts gross income streams into tax due.
type TaxModel interface {
	Name() string
	Assess(grossBySource map[string]decimal.Decimal) TaxAssessment
}

// NewTaxModel dispatches on the configured variant tag. An empty tag
// selects the banded model with the default band table.
func NewTaxModel(rules domain.TaxRules) (TaxModel, error) {
	switch rules.Model {
	case domain.TaxModelFlatAllowance:
		if rules.Flat == nil {
			return nil, fmt.Errorf("tax model %q requires a flat parameter block", rules.Model)
		}
		return NewFlatAllowanceTax(*rules.Flat), nil
	case domain.TaxModelBanded, "":
		return NewBandedTax(rules.Bands), nil
	case domain.TaxModelPerStream:
		if rules.Streams == nil {
			return nil, fmt.Errorf("tax model %q requires a streams parameter block", rules.Model)
		}
		return &PerStreamTax{Rules: *rules.Streams}, nil
	default:
		return nil, fmt.Errorf("unknown tax model %q", rules.Model)
	}
}

// FlatAllowanceTax taxes income above a single tax-free allowance at one
// flat marginal rate.
type FlatAllowanceTax struct {
	TaxFreeAllowance decimal.Decimal
	MarginalRate     decimal.Decimal
}

// NewFlatAllowanceTax creates a flat-allowance model from its rules.
func NewFlatAllowanceTax(rules domain.FlatAllowanceRules) *FlatAllowanceTax {
	return &FlatAllowanceTax{
		TaxFreeAllowance: rules.TaxFreeAllowance,
		MarginalRate:     rules.MarginalRate,
	}
}

func (ft *FlatAllowanceTax) Name() string { return domain.TaxModelFlatAllowance }

// Assess taxes aggregate gross income above the allowance at the marginal
// rate. Income at or below the allowance is untaxed.
func (ft *FlatAllowanceTax) Assess(grossBySource map[string]decimal.Decimal) TaxAssessment {
	taxable := SumStreams(grossBySource).Sub(ft.TaxFreeAllowance)
	if taxable.IsNegative() {
		return TaxAssessment{TotalTax: decimal.Zero}
	}
	return TaxAssessment{TotalTax: taxable.Mul(ft.MarginalRate)}
}

// BandedTax applies an ordered progressive band table to aggregate gross
// income; each band taxes only the portion of income within its bounds.
type BandedTax struct {
	Bands []domain.TaxBand
}

// NewBandedTax creates a banded model, falling back to the default band
// table when none is configured.
func NewBandedTax(bands []domain.TaxBand) *BandedTax {
	if len(bands) == 0 {
		bands = DefaultTaxBands()
	}
	return &BandedTax{Bands: bands}
}

// DefaultTaxBands returns the 2024/25 UK income tax band table.
func DefaultTaxBands() []domain.TaxBand {
	higher := decimal.NewFromInt(50270)
	additional := decimal.NewFromInt(125140)
	allowance := decimal.NewFromInt(12570)
	return []domain.TaxBand{
		{From: decimal.Zero, To: &allowance, Rate: decimal.Zero},
		{From: allowance, To: &higher, Rate: decimal.NewFromFloat(0.20)},
		{From: higher, To: &additional, Rate: decimal.NewFromFloat(0.40)},
		{From: additional, To: nil, Rate: decimal.NewFromFloat(0.45)},
	}
}

func (bt *BandedTax) Name() string { return domain.TaxModelBanded }

// Assess computes tax once on the aggregate, not per income source.
func (bt *BandedTax) Assess(grossBySource map[string]decimal.Decimal) TaxAssessment {
	total := SumStreams(grossBySource)

	tax := decimal.Zero
	for _, band := range bt.Bands {
		if total.LessThanOrEqual(band.From) {
			break
		}
		upper := total
		if band.To != nil {
			upper = decimal.Min(total, *band.To)
		}
		portion := upper.Sub(band.From)
		if portion.IsPositive() {
			tax = tax.Add(portion.Mul(band.Rate))
		}
	}

	return TaxAssessment{TotalTax: tax}
}

// PerStreamTax taxes each income stream independently: defined-benefit
// income flat above the combined allowance threshold, dividends and
// drawdown streams each at their own flat rate.
type PerStreamTax struct {
	Rules domain.StreamRules
}

func (pt *PerStreamTax) Name() string { return domain.TaxModelPerStream }

func (pt *PerStreamTax) Assess(grossBySource map[string]decimal.Decimal) TaxAssessment {
	taxBySource := make(map[string]decimal.Decimal, len(grossBySource))
	total := decimal.Zero

	for source, amount := range grossBySource {
		var tax decimal.Decimal
		switch source {
		case domain.SourceDefinedBenefit:
			taxable := amount.Sub(pt.Rules.TaxFreeThreshold())
			if taxable.IsPositive() {
				tax = taxable.Mul(pt.Rules.DBRate)
			}
		case domain.SourceDividends:
			tax = amount.Mul(pt.Rules.DividendRate)
		default:
			tax = amount.Mul(pt.Rules.DrawdownRate)
		}
		taxBySource[source] = tax
		total = total.Add(tax)
	}

	return TaxAssessment{TotalTax: total, TaxBySource: taxBySource}
}

// AllocateNetIncome distributes the assessed tax back to the income
// sources. Per-stream assessments apply directly; aggregate assessments are
// allocated proportionally to each source's share of total gross income,
// with every share defined as zero when total gross income is zero.
func AllocateNetIncome(grossBySource map[string]decimal.Decimal, assessment TaxAssessment) map[string]decimal.Decimal {
	net := make(map[string]decimal.Decimal, len(grossBySource))

	if assessment.TaxBySource != nil {
		for source, amount := range grossBySource {
			net[source] = amount.Sub(assessment.TaxBySource[source])
		}
		return net
	}

	totalGross := SumStreams(grossBySource)
	if totalGross.IsZero() {
		for source := range grossBySource {
			net[source] = decimal.Zero
		}
		return net
	}

	for source, amount := range grossBySource {
		net[source] = amount.Sub(assessment.TotalTax.Mul(amount).Div(totalGross))
	}
	return net
}
