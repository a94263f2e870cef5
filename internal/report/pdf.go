package report

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rotisserie/eris"

	"cashplan/internal/engine"
	"cashplan/internal/plan"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
)

// pdfText converts UTF-8 text to PDF-safe encoding
// The £ sign in UTF-8 is 0xC2 0xA3, but PDF standard fonts expect Latin-1 (just 0xA3)
func pdfText(s string) string {
	return strings.ReplaceAll(s, "£", "\xa3")
}

// FormatMoney formats an amount with thousands separators, e.g. £1,234,567.
func FormatMoney(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	whole := int64(amount + 0.5)
	s := fmt.Sprintf("%d", whole)
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := "£" + strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func formatMoneyPDF(amount float64) string {
	return pdfText(FormatMoney(amount))
}

// Options configures a generated plan report.
type Options struct {
	Title    string
	Currency string
}

// PlanReport renders a cashflow projection as a PDF document.
type PlanReport struct {
	pdf  *fpdf.Fpdf
	cf   *plan.Cashflow
	out  *engine.Output
	opts Options
}

// GeneratePDF renders the projection summary and returns the document
// bytes.
func GeneratePDF(cf *plan.Cashflow, out *engine.Output, opts Options) ([]byte, error) {
	if opts.Title == "" {
		opts.Title = "Cashflow Plan"
	}
	r := &PlanReport{
		pdf:  fpdf.New("P", "mm", "A4", ""),
		cf:   cf,
		out:  out,
		opts: opts,
	}

	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)

	r.addTitlePage()
	r.addYearByYearSummary()
	r.addAssetPages()

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, eris.Wrap(err, "report: render pdf")
	}
	return buf.Bytes(), nil
}

func (r *PlanReport) addTitlePage() {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 28)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(50)
	r.pdf.CellFormat(contentWidth, 15, pdfText(r.opts.Title), "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.Ln(15)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", time.Now().Format("2 January 2006")), "", 1, "C", false, 0, "")

	// Participants box
	r.pdf.Ln(20)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.SetDrawColor(200, 200, 200)

	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Household", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	for _, person := range r.cf.People {
		text := fmt.Sprintf("%s - Born %d, State Pension Age %d",
			person.Name, person.DateOfBirth.Year(), person.StatePensionAge)
		r.pdf.CellFormat(contentWidth, 7, pdfText(text), "LR", 1, "C", true, 0, "")
	}
	r.pdf.CellFormat(contentWidth, 1, "", "LRB", 1, "C", true, 0, "")

	// Projection period box
	r.pdf.Ln(10)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 8, "Projection Period", "1", 1, "C", true, 0, "")

	r.pdf.SetFont("Arial", "", 11)
	r.pdf.SetTextColor(50, 50, 50)
	periodText := fmt.Sprintf("%s to %s (%d years)",
		r.cf.StartDate.Format("2 January 2006"),
		r.cf.StartDate.AddDate(r.cf.Years, 0, -1).Format("2 January 2006"),
		r.cf.Years)
	r.pdf.CellFormat(contentWidth, 7, periodText, "LR", 1, "C", true, 0, "")

	terms := "nominal terms"
	if r.cf.Assumptions.RealTerms {
		terms = "today's money"
	}
	assumptionsText := fmt.Sprintf("Inflation %.1f%%, projected in %s",
		r.cf.Assumptions.Inflation*100, terms)
	r.pdf.CellFormat(contentWidth, 7, assumptionsText, "LRB", 1, "C", true, 0, "")

	// Disclaimer
	r.pdf.Ln(15)
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5,
		"This document is for informational purposes only and does not constitute financial advice. "+
			"Please consult a qualified financial advisor before making any financial decisions. "+
			"Tax rules and allowances are subject to change.", "", "C", false)
}

func (r *PlanReport) addYearByYearSummary() {
	r.pdf.AddPage()
	r.drawSectionHeader("Year by Year Summary")

	cols := []float64{22, 32, 32, 32, 32, 30}
	headers := []string{"Tax Year", "Net Income", "Expenses", "Surplus", "Tax + NI", "Total Assets"}

	r.drawTableHeader(cols, headers)
	fill := false
	for _, yr := range r.out.Years {
		if r.pdf.GetY() > 260 {
			r.pdf.AddPage()
			r.drawTableHeader(cols, headers)
		}
		taxPaid := 0.0
		for _, pt := range yr.Tax {
			taxPaid += pt.Allocation.TotalTax + pt.NI.Total
		}
		cells := []string{
			taxYearDisplay(yr.Year.TaxYear),
			formatMoneyPDF(yr.TotalNetIncome),
			formatMoneyPDF(yr.TotalExpenses),
			formatMoneyPDF(yr.Surplus),
			formatMoneyPDF(taxPaid),
			formatMoneyPDF(totalAssets(yr)),
		}
		r.drawTableRow(cols, cells, fill)
		fill = !fill
	}
}

func (r *PlanReport) addAssetPages() {
	r.pdf.AddPage()
	r.drawSectionHeader("Asset Balances")

	cols := []float64{22, 52, 32, 32, 42}
	headers := []string{"Tax Year", "Asset", "Start", "End", "Of which crystallised"}

	r.drawTableHeader(cols, headers)
	fill := false
	for _, yr := range r.out.Years {
		for _, a := range r.cf.Accounts {
			if r.pdf.GetY() > 260 {
				r.pdf.AddPage()
				r.drawTableHeader(cols, headers)
			}
			slot := yr.Accounts[a.ID]
			r.drawTableRow(cols, []string{
				taxYearDisplay(yr.Year.TaxYear),
				pdfText(a.Name),
				formatMoneyPDF(slot.StartValue),
				formatMoneyPDF(slot.EndValue),
				"-",
			}, fill)
			fill = !fill
		}
		for _, p := range r.cf.Pensions {
			if r.pdf.GetY() > 260 {
				r.pdf.AddPage()
				r.drawTableHeader(cols, headers)
			}
			slot := yr.Pensions[p.ID]
			r.drawTableRow(cols, []string{
				taxYearDisplay(yr.Year.TaxYear),
				pdfText(p.Name),
				formatMoneyPDF(slot.StartValue),
				formatMoneyPDF(slot.EndValue),
				formatMoneyPDF(slot.EndCrystallised),
			}, fill)
			fill = !fill
		}
	}
}

func (r *PlanReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 16)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(marginLeft, r.pdf.GetY(), pageWidth-marginRight, r.pdf.GetY())
	r.pdf.Ln(4)
}

func (r *PlanReport) drawTableHeader(cols []float64, headers []string) {
	r.pdf.SetFont("Arial", "B", 9)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFillColor(0, 51, 102)
	for i, h := range headers {
		r.pdf.CellFormat(cols[i], 7, h, "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *PlanReport) drawTableRow(cols []float64, cells []string, fill bool) {
	r.pdf.SetFont("Arial", "", 9)
	r.pdf.SetTextColor(50, 50, 50)
	if fill {
		r.pdf.SetFillColor(245, 247, 250)
	} else {
		r.pdf.SetFillColor(255, 255, 255)
	}
	for i, c := range cells {
		align := "R"
		if i == 0 || i == 1 && len(cols) == 5 {
			align = "L"
		}
		r.pdf.CellFormat(cols[i], 6, c, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

// taxYearDisplay renders a compact tax-year label like "2324" as
// "2023/24".
func taxYearDisplay(label string) string {
	if len(label) != 4 {
		return label
	}
	start, err := plan.TaxYearStartYear(label)
	if err != nil {
		return label
	}
	return fmt.Sprintf("%d/%s", start, label[2:])
}

func totalAssets(yr *engine.YearResult) float64 {
	var total float64
	for _, slot := range yr.Accounts {
		total += slot.EndValue
	}
	for _, slot := range yr.Pensions {
		total += slot.EndValue
	}
	return plan.Round2(total)
}
