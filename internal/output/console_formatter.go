package output

import (
	"bytes"
	"fmt"

	"github.com/rpgo/pension-planner/internal/domain"
)

// ConsoleFormatter renders the projection as a plain-text summary: the
// headline net income figures first, then the pot details and the
// per-source income breakdown.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	p := report.Projection
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "RETIREMENT INCOME PROJECTION")
	fmt.Fprintln(&buf, "============================")
	fmt.Fprintf(&buf, "As of %s, retiring %s (age %d, %d months away)\n",
		p.AsOfDate.Format("2 Jan 2006"), p.RetirementDate.Format("2 Jan 2006"),
		p.AgeAtRetirement, p.MonthsToRetirement)
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Estimated net income: %s per year\n", FormatCurrency(p.TotalNetIncome))
	fmt.Fprintf(&buf, "Monthly net income:   %s\n", FormatCurrency(p.MonthlyNetIncome))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "Retirement Pot Details")
	fmt.Fprintln(&buf, "----------------------")
	fmt.Fprintf(&buf, "Pension pot at retirement: %s\n", FormatCurrency(p.PensionPotAtRetirement))
	fmt.Fprintf(&buf, "ISA pot at retirement:     %s\n", FormatCurrency(p.ISAPotAtRetirement))
	fmt.Fprintf(&buf, "Equity released:           %s\n", FormatCurrency(p.EquityReleased))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "Income By Source (gross / net)")
	fmt.Fprintln(&buf, "------------------------------")
	for _, source := range domain.OrderedSources(p.GrossIncomeBySource) {
		fmt.Fprintf(&buf, "%-18s %12s %12s\n", domain.SourceLabel(source),
			FormatCurrency(p.GrossIncomeBySource[source]),
			FormatCurrency(p.NetIncomeBySource[source]))
	}
	fmt.Fprintln(&buf)
	fmt.Fprintf(&buf, "Total gross income: %s\n", FormatCurrency(p.TotalGrossIncome))
	fmt.Fprintf(&buf, "Total tax due:      %s\n", FormatCurrency(p.TotalTaxDue))
	fmt.Fprintf(&buf, "Total net income:   %s\n", FormatCurrency(p.TotalNetIncome))

	if len(report.Assumptions) > 0 {
		fmt.Fprintln(&buf)
		fmt.Fprintln(&buf, "Assumptions")
		fmt.Fprintln(&buf, "-----------")
		for _, assumption := range report.Assumptions {
			fmt.Fprintf(&buf, "- %s\n", assumption)
		}
	}

	return buf.Bytes(), nil
}
