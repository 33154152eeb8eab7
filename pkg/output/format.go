// Package output provides utilities for formatting and displaying forecast results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"github.com/iwvelando/property-forecast/pkg/format"
	"github.com/iwvelando/property-forecast/pkg/jsonutil"
	"github.com/iwvelando/property-forecast/pkg/validation"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Write renders results in the named format.
func Write(w io.Writer, outputFormat string, results []forecast.Forecast) error {
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}
	switch outputFormat {
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	default:
		return PrettyFormat(w, results)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, results []forecast.Forecast) error {
	p := message.NewPrinter(language.English)
	pw := &prettyWriter{w: w, p: p}

	for i, result := range results {
		res := result.Result
		pw.printf("--- Results for scenario %s ---\n", result.Name)
		if res.Address != "" {
			pw.printf("%s\n", res.Address)
		}

		pw.section("Acquisition")
		pw.money("Purchase price", res.Acquisition.PurchasePrice)
		pw.money("Acquisition costs", res.Acquisition.TotalCosts)
		pw.money("Total cost base", res.Acquisition.TotalCostBase)

		pw.section("Income and expenses")
		pw.money("Monthly rent", res.Income.MonthlyRent)
		pw.money("Annual gross income", res.Income.AnnualGrossIncome)
		pw.money("Monthly expenses", res.Expenses.Monthly)
		pw.money("Annual expenses", res.Expenses.Annual)

		pw.section("Loans")
		pw.money("Investment loan", res.Loans.Amount)
		pw.money("Monthly repayment", res.Loans.Core.MonthlyPayment)
		if res.Loans.EquityAmount != 0 {
			pw.money("Equity loan", res.Loans.EquityAmount)
			pw.money("Equity loan repayment", res.Loans.Equity.MonthlyPayment)
		}
		pw.money("Total monthly repayment", res.Loans.TotalMonthlyRepayment)
		pw.money("Deductible interest", res.Loans.TotalDeductibleInterest)

		pw.section("Cash flow (annual)")
		pw.money("Pre-tax", res.CashFlow.PreTax)
		pw.money("Depreciation", res.Depreciation)
		pw.money("Net taxable income", res.CashFlow.NetTaxableIncome)
		for _, inv := range res.CashFlow.Investors {
			pw.money(p.Sprintf("%s (%.0f%%, marginal %.0f%%) tax variance", inv.Name, inv.OwnershipShare*100, inv.MarginalRate*100), inv.TaxVariance)
		}
		pw.money("Post-tax", res.CashFlow.PostTax)
		if res.CashFlow.NegativelyGeared() {
			pw.printf("  %s\n", "Negatively geared")
		}
		pw.value("Gross yield", format.Percent(res.Yields.Gross))
		pw.value("Net yield", format.Percent(res.Yields.Net))

		pw.section("Serviceability (monthly)")
		pw.printf("  %-34s %18s %18s\n", "", "Real world", "Bank")
		pw.pair("Inflow", res.Serviceability.RealWorld.Inflow, res.Serviceability.BankAssessed.Inflow)
		pw.pair("Loan repayments", res.Serviceability.RealWorld.LoanPayment, res.Serviceability.BankAssessed.LoanPayment)
		pw.pair("Outflow", res.Serviceability.RealWorld.Outflow, res.Serviceability.BankAssessed.Outflow)
		pw.pair("Surplus", res.Serviceability.RealWorld.Surplus, res.Serviceability.BankAssessed.Surplus)

		pw.section("Projection")
		pw.printf("  %-8s | %16s | %16s | %16s\n", "Year", "Value", "Loan balance", "Equity")
		pw.printf("  %-8s | %16s | %16s | %16s\n", "____", "_____", "____________", "______")
		for _, y := range res.Projection {
			pw.printf("  %-8d | %16s | %16s | %16s\n", y.Year,
				format.Currency(y.Value), format.Currency(y.LoanBalance), format.Currency(y.Equity))
		}

		pw.section("Sale")
		if res.SaleDate != "" {
			pw.value("Sale date", res.SaleDate)
		}
		pw.money("Sale price", res.CGT.SalePrice)
		pw.money("Capital gain", res.CGT.CapitalGain)
		pw.money("CGT payable", res.CGT.CGTPayable)
		pw.money("Net profit", res.CGT.NetProfit)

		if pf := res.Portfolio; pf != nil {
			pw.section("Portfolio")
			pw.money("Total value", pf.TotalValue)
			pw.money("Total debt", pf.TotalDebt)
			pw.money("Net equity", pf.NetEquity)
			pw.value("LVR", format.Percent(pf.LVR*100))
			pw.money("Net monthly", pf.NetMonthly)
		}

		if c := result.Capacity; c != nil {
			pw.section("Borrowing capacity")
			pw.money("Highest serviceable price", c.Value)
			pw.money("Bank-assessed surplus", c.Surplus)
			pw.value("Iterations", p.Sprintf("%d", c.Iterations))
			for _, note := range c.Notes {
				pw.printf("  Note: %s\n", note)
			}
		}

		if m := result.Market; m != nil {
			pw.section("Market")
			pw.printf("  %s\n", m.Note)
		}

		if i < len(results)-1 {
			pw.printf("\n")
		}
	}
	return pw.err
}

type prettyWriter struct {
	w   io.Writer
	p   *message.Printer
	err error
}

func (pw *prettyWriter) printf(layout string, args ...any) {
	if pw.err != nil {
		return
	}
	_, pw.err = pw.p.Fprintf(pw.w, layout, args...)
}

func (pw *prettyWriter) section(title string) {
	pw.printf("%s\n", title)
}

func (pw *prettyWriter) value(label, value string) {
	pw.printf("  %-34s %18s\n", label, value)
}

func (pw *prettyWriter) money(label string, amount float64) {
	pw.value(label, format.Currency(amount))
}

func (pw *prettyWriter) pair(label string, actual, bank float64) {
	pw.printf("  %-34s %18s %18s\n", label, format.Currency(actual), format.Currency(bank))
}

// CsvFormat outputs one row per result key and one column per scenario.
func CsvFormat(w io.Writer, results []forecast.Forecast) error {
	cw := csv.NewWriter(w)

	header := []string{"key"}
	var keys []string
	seen := make(map[string]bool)
	values := make([]map[string]float64, len(results))
	for i, result := range results {
		header = append(header, result.Name)
		values[i] = make(map[string]float64)
		for _, e := range Entries(result) {
			if !seen[e.Key] {
				seen[e.Key] = true
				keys = append(keys, e.Key)
			}
			values[i][e.Key] = e.Value
		}
	}

	if err := cw.Write(header); err != nil {
		return err
	}
	for _, key := range keys {
		row := []string{key}
		for i := range results {
			v, ok := values[i][key]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(v, 'f', constants.DecimalPlaces, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// JSONFormat outputs the results as an indented JSON array. Non-finite
// figures are written as null.
func JSONFormat(w io.Writer, results []forecast.Forecast) error {
	if results == nil {
		results = []forecast.Forecast{}
	}
	b, err := jsonutil.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

// Entries returns the rounded result entries followed by the capacity and
// market figures when present.
func Entries(result forecast.Forecast) []finance.Entry {
	entries := result.Result.Rounded()
	if c := result.Capacity; c != nil {
		entries = append(entries,
			finance.Entry{Key: "capacity.max_purchase_price", Value: c.Value},
			finance.Entry{Key: "capacity.bank_surplus", Value: c.Surplus},
		)
	}
	if m := result.Market; m != nil && m.Available {
		entries = append(entries,
			finance.Entry{Key: "market.yield", Value: m.MarketYield},
			finance.Entry{Key: "market.difference", Value: m.Difference},
		)
	}
	return entries
}
