package output

import (
	"bytes"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/rpgo/pension-planner/internal/domain"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// PDFFormatter renders the projection as a single-page A4 report.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	proj := report.Projection

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps the sterling sign.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	cur := func(amount decimal.Decimal) string { return tr(FormatCurrency(amount)) }

	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 12, "Retirement Income Projection", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentWidth, 8,
		"As of "+proj.AsOfDate.Format("2 Jan 2006")+", retiring "+proj.RetirementDate.Format("2 Jan 2006"),
		"", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 102, 51)
	pdf.CellFormat(contentWidth, 10, cur(proj.TotalNetIncome)+" per year", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(contentWidth, 8, "Monthly net income: "+cur(proj.MonthlyNetIncome), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	p.addSection(pdf, "Retirement Pot Details")
	p.addRow(pdf, "Pension pot at retirement", cur(proj.PensionPotAtRetirement))
	p.addRow(pdf, "ISA pot at retirement", cur(proj.ISAPotAtRetirement))
	p.addRow(pdf, "Equity released", cur(proj.EquityReleased))
	p.addRow(pdf, "Age at retirement", strconv.Itoa(proj.AgeAtRetirement))
	pdf.Ln(6)

	p.addSection(pdf, "Income By Source")
	for _, source := range domain.OrderedSources(proj.GrossIncomeBySource) {
		p.addRow(pdf, domain.SourceLabel(source),
			cur(proj.GrossIncomeBySource[source])+"  /  "+cur(proj.NetIncomeBySource[source])+" net")
	}
	pdf.Ln(6)

	p.addSection(pdf, "Totals")
	p.addRow(pdf, "Total gross income", cur(proj.TotalGrossIncome))
	p.addRow(pdf, "Total tax due", cur(proj.TotalTaxDue))
	p.addRow(pdf, "Total net income", cur(proj.TotalNetIncome))

	if len(report.Assumptions) > 0 {
		pdf.Ln(6)
		p.addSection(pdf, "Assumptions")
		pdf.SetFont("Arial", "", 9)
		for _, assumption := range report.Assumptions {
			pdf.MultiCell(contentWidth, 5, tr("- "+assumption), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (p PDFFormatter) addSection(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 13)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, title, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 11)
}

func (p PDFFormatter) addRow(pdf *fpdf.Fpdf, label, value string) {
	pdf.CellFormat(contentWidth*0.6, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth*0.4, 7, value, "", 1, "R", false, 0, "")
}
