package output

import (
	"bytes"
	"encoding/csv"

	"github.com/rpgo/pension-planner/internal/domain"
)

// CSVFormatter implements the summary CSV output (one row per income source
// plus a totals block).
type CSVFormatter struct{}

func (c CSVFormatter) Name() string { return "csv" }

func (c CSVFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	p := report.Projection
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	if err := w.Write([]string{"Source", "GrossIncome", "NetIncome"}); err != nil {
		return nil, err
	}
	for _, source := range domain.OrderedSources(p.GrossIncomeBySource) {
		row := []string{
			source,
			p.GrossIncomeBySource[source].StringFixed(2),
			p.NetIncomeBySource[source].StringFixed(2),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	totals := [][]string{
		{"total_gross", p.TotalGrossIncome.StringFixed(2), ""},
		{"total_tax", p.TotalTaxDue.StringFixed(2), ""},
		{"total_net", "", p.TotalNetIncome.StringFixed(2)},
		{"monthly_net", "", p.MonthlyNetIncome.StringFixed(2)},
	}
	for _, row := range totals {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
