package integration

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpgo/pension-planner/internal/calculation"
	"github.com/rpgo/pension-planner/internal/config"
	"github.com/rpgo/pension-planner/internal/domain"
	"github.com/rpgo/pension-planner/internal/output"
)

func loadReport(t *testing.T) *domain.ProjectionReport {
	t.Helper()
	parser := config.NewInputParser()
	plan, err := parser.LoadFromFile("../testdata/example_plan.yaml")
	require.NoError(t, err)

	projection, err := calculation.ComputeProjection(plan, time.Now())
	require.NoError(t, err)

	return &domain.ProjectionReport{
		Plan:        plan,
		Projection:  projection,
		Assumptions: plan.DescribeAssumptions(),
	}
}

func TestAllFormattersProduceOutput(t *testing.T) {
	report := loadReport(t)

	for _, name := range output.AvailableFormatterNames() {
		f := output.GetFormatterByName(name)
		require.NotNil(t, f, "formatter %q", name)

		data, err := f.Format(report)
		require.NoError(t, err, "formatter %q", name)
		assert.NotEmpty(t, data, "formatter %q", name)
	}
}

func TestConsoleReportMentionsEverySource(t *testing.T) {
	report := loadReport(t)

	data, err := output.GetFormatterByName("console").Format(report)
	require.NoError(t, err)

	for _, source := range domain.OrderedSources(report.Projection.GrossIncomeBySource) {
		assert.True(t, bytes.Contains(data, []byte(domain.SourceLabel(source))),
			"console output missing source %q", source)
	}
}
