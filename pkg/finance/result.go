package finance

import (
	"fmt"

	"github.com/iwvelando/property-forecast/pkg/mathutil"
)

// Entry is one named figure of a flattened result.
type Entry struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Flatten lists every figure of the result under a stable dotted key, in a
// fixed order, so reports can select values by name.
func (r Result) Flatten() []Entry {
	var out []Entry
	add := func(key string, value float64) {
		out = append(out, Entry{Key: key, Value: value})
	}

	add("acquisition.purchase_price", r.Acquisition.PurchasePrice)
	add("acquisition.total_costs", r.Acquisition.TotalCosts)
	add("acquisition.total_cost_base", r.Acquisition.TotalCostBase)

	add("income.monthly_rent", r.Income.MonthlyRent)
	add("income.annual_rent", r.Income.AnnualRent)
	add("income.annual_gross_income", r.Income.AnnualGrossIncome)

	add("expenses.management_fee", r.Expenses.ManagementFee)
	add("expenses.monthly_total", r.Expenses.Monthly)
	add("expenses.annual_total", r.Expenses.Annual)

	add("loan.amount", r.Loans.Amount)
	add("loan.monthly_payment", r.Loans.Core.MonthlyPayment)
	add("loan.annual_payment", r.Loans.Core.AnnualPayment)
	add("loan.annual_interest", r.Loans.Core.AnnualInterest)
	add("equity_loan.amount", r.Loans.EquityAmount)
	add("equity_loan.monthly_payment", r.Loans.Equity.MonthlyPayment)
	add("equity_loan.annual_payment", r.Loans.Equity.AnnualPayment)
	add("equity_loan.annual_interest", r.Loans.Equity.AnnualInterest)
	add("loans.total_monthly_repayment", r.Loans.TotalMonthlyRepayment)
	add("loans.total_annual_repayment", r.Loans.TotalAnnualRepayment)
	add("loans.total_deductible_interest", r.Loans.TotalDeductibleInterest)

	add("depreciation.total", r.Depreciation)

	add("cashflow.net_operating_income", r.CashFlow.NetOperatingIncome)
	add("cashflow.pre_tax", r.CashFlow.PreTax)
	add("cashflow.tax_deductions", r.CashFlow.TaxDeductions)
	add("cashflow.net_taxable_income", r.CashFlow.NetTaxableIncome)
	for i, inv := range r.CashFlow.Investors {
		prefix := fmt.Sprintf("investor_%d.", i+1)
		add(prefix+"ownership_share", inv.OwnershipShare)
		add(prefix+"property_income", inv.PropertyIncome)
		add(prefix+"base_tax", inv.BaseTax)
		add(prefix+"new_tax", inv.NewTax)
		add(prefix+"tax_variance", inv.TaxVariance)
	}
	add("cashflow.total_tax_variance", r.CashFlow.TotalTaxVariance)
	add("cashflow.post_tax", r.CashFlow.PostTax)

	for _, view := range []struct {
		prefix string
		a      Assessment
	}{
		{"serviceability.real_world.", r.Serviceability.RealWorld},
		{"serviceability.bank_assessed.", r.Serviceability.BankAssessed},
	} {
		add(view.prefix+"inflow", view.a.Inflow)
		add(view.prefix+"loan_payment", view.a.LoanPayment)
		add(view.prefix+"outflow", view.a.Outflow)
		add(view.prefix+"surplus", view.a.Surplus)
	}

	add("yield.gross", r.Yields.Gross)
	add("yield.net", r.Yields.Net)

	for _, py := range r.Projection {
		prefix := fmt.Sprintf("projection.year_%d.", py.Year)
		add(prefix+"value", py.Value)
		add(prefix+"loan_balance", py.LoanBalance)
		add(prefix+"equity", py.Equity)
	}

	add("cgt.sale_price", r.CGT.SalePrice)
	add("cgt.cost_base", r.CGT.CostBase)
	add("cgt.capital_gain", r.CGT.CapitalGain)
	add("cgt.taxable_gain", r.CGT.TaxableGain)
	add("cgt.payable", r.CGT.CGTPayable)
	add("cgt.net_profit", r.CGT.NetProfit)

	if p := r.Portfolio; p != nil {
		add("portfolio.total_value", p.TotalValue)
		add("portfolio.total_debt", p.TotalDebt)
		add("portfolio.net_equity", p.NetEquity)
		add("portfolio.lvr", p.LVR)
		add("portfolio.monthly_rent", p.MonthlyRent)
		add("portfolio.monthly_loan_cost", p.MonthlyLoanCost)
		add("portfolio.monthly_expenses", p.MonthlyExpenses)
		add("portfolio.net_monthly", p.NetMonthly)
	}
	return out
}

// Lookup returns the flattened value stored under key.
func (r Result) Lookup(key string) (float64, bool) {
	for _, e := range r.Flatten() {
		if e.Key == key {
			return e.Value, true
		}
	}
	return 0, false
}

// Rounded returns the flattened entries rounded to cents. Ratios such as
// yields and LVR are rounded the same way.
func (r Result) Rounded() []Entry {
	entries := r.Flatten()
	for i := range entries {
		entries[i].Value = mathutil.Round(entries[i].Value)
	}
	return entries
}
