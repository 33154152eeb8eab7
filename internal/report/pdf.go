// Package report renders forecasts as a printable PDF.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"github.com/iwvelando/property-forecast/pkg/format"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	labelWidth   = contentWidth * 0.6
	rowHeight    = 6.0
)

type pdfReport struct {
	pdf       *fpdf.Fpdf
	generated time.Time
}

// GeneratePDF renders one section per forecast and returns the document.
func GeneratePDF(forecasts []forecast.Forecast, generated time.Time) ([]byte, error) {
	r := &pdfReport{
		pdf:       fpdf.New("P", "mm", "A4", ""),
		generated: generated,
	}
	r.pdf.SetMargins(marginLeft, marginTop, marginRight)
	r.pdf.SetAutoPageBreak(true, marginBottom)
	r.pdf.SetTitle("Property forecast", false)

	if len(forecasts) == 0 {
		r.pdf.AddPage()
		r.heading("No active scenarios")
	}
	for _, fc := range forecasts {
		r.addForecast(fc)
	}

	var buf bytes.Buffer
	if err := r.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *pdfReport) addForecast(fc forecast.Forecast) {
	res := fc.Result
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 18)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 10, fc.Name, "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	subtitle := fmt.Sprintf("Generated %s", r.generated.Format("2 January 2006"))
	if res.Address != "" {
		subtitle = res.Address + " - " + subtitle
	}
	r.pdf.CellFormat(contentWidth, 6, subtitle, "", 1, "L", false, 0, "")
	r.pdf.Ln(4)

	r.heading("Acquisition")
	r.row("Purchase price", format.Currency(res.Acquisition.PurchasePrice))
	r.row("Acquisition costs", format.Currency(res.Acquisition.TotalCosts))
	r.row("Total cost base", format.Currency(res.Acquisition.TotalCostBase))

	r.heading("Income and expenses")
	r.row("Monthly rent", format.Currency(res.Income.MonthlyRent))
	r.row("Annual gross income", format.Currency(res.Income.AnnualGrossIncome))
	r.row("Monthly expenses", format.Currency(res.Expenses.Monthly))
	r.row("Annual expenses", format.Currency(res.Expenses.Annual))

	r.heading("Loans")
	r.row("Investment loan", format.Currency(res.Loans.Amount))
	r.row("Monthly repayment", format.Currency(res.Loans.Core.MonthlyPayment))
	if res.Loans.EquityAmount != 0 {
		r.row("Equity loan", format.Currency(res.Loans.EquityAmount))
		r.row("Equity loan repayment", format.Currency(res.Loans.Equity.MonthlyPayment))
	}
	r.row("Total monthly repayment", format.Currency(res.Loans.TotalMonthlyRepayment))
	r.row("Deductible interest", format.Currency(res.Loans.TotalDeductibleInterest))

	r.heading("Cash flow")
	r.row("Pre-tax cash flow", format.Currency(res.CashFlow.PreTax))
	r.row("Depreciation", format.Currency(res.Depreciation))
	r.row("Net taxable income", format.Currency(res.CashFlow.NetTaxableIncome))
	for _, inv := range res.CashFlow.Investors {
		r.row(fmt.Sprintf("%s tax variance (%s)", inv.Name, format.Percent(inv.OwnershipShare*100)), format.Currency(inv.TaxVariance))
	}
	r.row("Post-tax cash flow", format.Currency(res.CashFlow.PostTax))
	r.row("Gross yield", format.Percent(res.Yields.Gross))
	r.row("Net yield", format.Percent(res.Yields.Net))

	r.heading("Serviceability (monthly)")
	r.serviceability(res.Serviceability)

	r.heading("Projection")
	r.projection(res.Projection)

	r.heading("Capital gains on sale")
	if res.SaleDate != "" {
		r.row("Sale date", res.SaleDate)
	}
	r.row("Sale price", format.Currency(res.CGT.SalePrice))
	r.row("Capital gain", format.Currency(res.CGT.CapitalGain))
	r.row("CGT payable", format.Currency(res.CGT.CGTPayable))
	r.row("Net profit", format.Currency(res.CGT.NetProfit))

	if res.Portfolio != nil {
		r.heading("Portfolio")
		r.row("Total value", format.Currency(res.Portfolio.TotalValue))
		r.row("Total debt", format.Currency(res.Portfolio.TotalDebt))
		r.row("Net equity", format.Currency(res.Portfolio.NetEquity))
		r.row("LVR", format.Percent(res.Portfolio.LVR*100))
		r.row("Net monthly", format.Currency(res.Portfolio.NetMonthly))
	}

	if fc.Capacity != nil {
		r.heading("Borrowing capacity")
		r.row("Highest serviceable price", format.Currency(fc.Capacity.Value))
		r.row("Bank-assessed surplus", format.Currency(fc.Capacity.Surplus))
		for _, note := range fc.Capacity.Notes {
			r.note(note)
		}
	}

	if fc.Market != nil {
		r.heading("Market comparison")
		r.note(fc.Market.Note)
	}
}

func (r *pdfReport) heading(text string) {
	r.pdf.Ln(3)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.SetFillColor(245, 247, 250)
	r.pdf.CellFormat(contentWidth, 8, text, "B", 1, "L", true, 0, "")
}

func (r *pdfReport) row(label, value string) {
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.CellFormat(labelWidth, rowHeight, label, "", 0, "L", false, 0, "")
	r.pdf.CellFormat(contentWidth-labelWidth, rowHeight, value, "", 1, "R", false, 0, "")
}

func (r *pdfReport) note(text string) {
	r.pdf.SetFont("Arial", "I", 9)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(contentWidth, 4.5, text, "", "L", false)
}

func (r *pdfReport) serviceability(s finance.Serviceability) {
	col := (contentWidth - labelWidth) / 2
	r.pdf.SetFont("Arial", "B", 10)
	r.pdf.CellFormat(labelWidth, rowHeight, "", "", 0, "L", false, 0, "")
	r.pdf.CellFormat(col, rowHeight, "Real world", "", 0, "R", false, 0, "")
	r.pdf.CellFormat(col, rowHeight, "Bank", "", 1, "R", false, 0, "")

	r.pdf.SetFont("Arial", "", 10)
	lines := []struct {
		label        string
		actual, bank float64
	}{
		{"Inflow", s.RealWorld.Inflow, s.BankAssessed.Inflow},
		{"Loan repayments", s.RealWorld.LoanPayment, s.BankAssessed.LoanPayment},
		{"Outflow", s.RealWorld.Outflow, s.BankAssessed.Outflow},
		{"Surplus", s.RealWorld.Surplus, s.BankAssessed.Surplus},
	}
	for _, l := range lines {
		r.pdf.CellFormat(labelWidth, rowHeight, l.label, "", 0, "L", false, 0, "")
		r.pdf.CellFormat(col, rowHeight, format.Currency(l.actual), "", 0, "R", false, 0, "")
		r.pdf.CellFormat(col, rowHeight, format.Currency(l.bank), "", 1, "R", false, 0, "")
	}
}

func (r *pdfReport) projection(years []finance.ProjectionYear) {
	col := contentWidth / 4
	r.pdf.SetFont("Arial", "B", 10)
	for i, title := range []string{"Year", "Value ($)", "Loan balance ($)", "Equity ($)"} {
		ln := 0
		if i == 3 {
			ln = 1
		}
		r.pdf.CellFormat(col, rowHeight, title, "B", ln, "R", false, 0, "")
	}

	r.pdf.SetFont("Arial", "", 10)
	for _, y := range years {
		label := strconv.Itoa(y.Year)
		if y.CalendarYear != 0 {
			label = fmt.Sprintf("%d (%d)", y.Year, y.CalendarYear)
		}
		r.pdf.CellFormat(col, rowHeight, label, "", 0, "R", false, 0, "")
		r.pdf.CellFormat(col, rowHeight, format.NumericCurrency(y.Value), "", 0, "R", false, 0, "")
		r.pdf.CellFormat(col, rowHeight, format.NumericCurrency(y.LoanBalance), "", 0, "R", false, 0, "")
		r.pdf.CellFormat(col, rowHeight, format.NumericCurrency(y.Equity), "", 1, "R", false, 0, "")
	}
}
