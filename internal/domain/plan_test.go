package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	var a Assumptions
	a.ApplyDefaults()

	assert.True(t, a.DrawdownRate.Equal(decimal.NewFromFloat(0.04)))
	assert.Equal(t, AggregationPerSource, a.AggregationMode)
	assert.Equal(t, PastRetirementReject, a.PastRetirement)
}

func TestApplyDefaultsKeepsExplicitValues(t *testing.T) {
	a := Assumptions{
		DrawdownRate:    decimal.NewFromFloat(0.03),
		AggregationMode: AggregationPooled,
		PastRetirement:  PastRetirementClamp,
	}
	a.ApplyDefaults()

	assert.True(t, a.DrawdownRate.Equal(decimal.NewFromFloat(0.03)))
	assert.Equal(t, AggregationPooled, a.AggregationMode)
	assert.Equal(t, PastRetirementClamp, a.PastRetirement)
}

func TestOrderedSources(t *testing.T) {
	bySource := map[string]decimal.Decimal{
		SourceDividends:      decimal.NewFromInt(1),
		SourcePension:        decimal.NewFromInt(2),
		SourceDefinedBenefit: decimal.NewFromInt(3),
	}
	assert.Equal(t, []string{SourcePension, SourceDefinedBenefit, SourceDividends},
		OrderedSources(bySource))

	assert.Empty(t, OrderedSources(nil))
}

func TestSourceLabel(t *testing.T) {
	assert.Equal(t, "Defined benefit", SourceLabel(SourceDefinedBenefit))
	assert.Equal(t, "Pooled drawdown", SourceLabel(SourceDrawdown))
	// Unknown identifiers pass through.
	assert.Equal(t, "other", SourceLabel("other"))
}

func TestStreamRulesTaxFreeThreshold(t *testing.T) {
	rules := StreamRules{
		PersonalAllowance: decimal.NewFromInt(12570),
		DBAllowance:       decimal.NewFromInt(2430),
	}
	assert.True(t, rules.TaxFreeThreshold().Equal(decimal.NewFromInt(15000)))
}

func TestDescribeAssumptions(t *testing.T) {
	plan := &Plan{}
	plan.Assumptions.ApplyDefaults()

	assumptions := describeJoined(plan)
	assert.Contains(t, assumptions, "4.0%")
	assert.Contains(t, assumptions, "independently")

	plan.Assumptions.AggregationMode = AggregationPooled
	assert.Contains(t, describeJoined(plan), "single drawdown base")
}

// describeJoined flattens the assumption statements for Contains checks.
func describeJoined(p *Plan) string {
	out := ""
	for _, s := range p.DescribeAssumptions() {
		out += s + "\n"
	}
	return out
}
