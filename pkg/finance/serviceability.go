package finance

import (
	"fmt"
	"strings"

	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/loans"
)

// PayFrequency is how often an investor is paid.
type PayFrequency string

const (
	PayFortnightly PayFrequency = "fortnightly"
	PayMonthly     PayFrequency = "monthly"
	PayAnnual      PayFrequency = "annual"
)

// ParsePayFrequency accepts the usual spellings; empty selects fortnightly.
func ParsePayFrequency(value string) (PayFrequency, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "fortnightly", "fortnight", "biweekly":
		return PayFortnightly, nil
	case "monthly", "month":
		return PayMonthly, nil
	case "annual", "annually", "yearly", "year":
		return PayAnnual, nil
	default:
		return "", fmt.Errorf("unknown pay frequency %q", value)
	}
}

// PeriodsPerYear returns the number of pay periods in a year.
func (f PayFrequency) PeriodsPerYear() int {
	switch f {
	case PayMonthly:
		return constants.MonthsPerYear
	case PayAnnual:
		return 1
	default:
		return constants.FortnightsPerYear
	}
}

// MonthlyNetPay converts take-home pay to a monthly amount.
func MonthlyNetPay(amount float64, freq PayFrequency) float64 {
	return amount * float64(freq.PeriodsPerYear()) / constants.MonthsPerYear
}

// Household holds monthly living costs and existing commitments.
type Household struct {
	LivingExpenses   float64
	ExistingMortgage float64
	CarLoan          float64
	CreditCard       float64
	OtherDebts       float64
}

// ExistingDebts sums every existing repayment other than the mortgage.
func (h Household) ExistingDebts() float64 {
	return h.CarLoan + h.CreditCard + h.OtherDebts
}

// ServiceabilityInputs collects the monthly figures a lender would assess.
type ServiceabilityInputs struct {
	NetSalaries             []float64
	MonthlyRent             float64
	MonthlyPropertyExpenses float64
	// Loans are the new borrowings: the core loan and any equity loan.
	Loans        []loans.Terms
	Household    Household
	StressMargin float64
	// RentalShading is the fraction of rent counted as income in both views.
	RentalShading float64
	// MortgageBuffer inflates the existing mortgage repayment.
	MortgageBuffer float64
}

// Assessment is one monthly budget view.
type Assessment struct {
	Inflow      float64 `json:"inflow"`
	LoanPayment float64 `json:"loanPayment"`
	Outflow     float64 `json:"outflow"`
	Surplus     float64 `json:"surplus"`
	Deficit     bool    `json:"deficit"`
}

// Serviceability compares the household's actual budget with a lender's
// stressed assessment.
type Serviceability struct {
	RealWorld    Assessment `json:"realWorld"`
	BankAssessed Assessment `json:"bankAssessed"`
}

// ActualLoanPayment sums the monthly repayments of the loans as written.
func ActualLoanPayment(terms []loans.Terms) float64 {
	total := 0.0
	for _, t := range terms {
		total += loans.Amortize(t).MonthlyPayment
	}
	return total
}

// StressedLoanPayment sums the monthly P&I repayments at rate + margin.
// Lenders assess interest-only loans as if they were amortizing.
func StressedLoanPayment(terms []loans.Terms, margin float64) float64 {
	total := 0.0
	for _, t := range terms {
		stressed := t
		stressed.InterestRate += margin
		stressed.Mode = loans.PrincipalAndInterest
		total += loans.Amortize(stressed).MonthlyPayment
	}
	return total
}

// EvaluateServiceability builds the real-world and bank-assessed budgets.
// A negative surplus is reported through Deficit, never as an error.
func EvaluateServiceability(in ServiceabilityInputs) Serviceability {
	salaries := 0.0
	for _, s := range in.NetSalaries {
		salaries += s
	}
	h := in.Household

	var actual Assessment
	actual.Inflow = salaries + in.MonthlyRent*in.RentalShading
	actual.LoanPayment = ActualLoanPayment(in.Loans)
	actual.Outflow = actual.LoanPayment + in.MonthlyPropertyExpenses + h.LivingExpenses + h.ExistingMortgage + h.ExistingDebts()
	actual.Surplus = actual.Inflow - actual.Outflow
	actual.Deficit = actual.Surplus < 0

	var bank Assessment
	bank.Inflow = salaries + in.MonthlyRent*in.RentalShading
	bank.LoanPayment = StressedLoanPayment(in.Loans, in.StressMargin)
	bank.Outflow = bank.LoanPayment + in.MonthlyPropertyExpenses + h.LivingExpenses + h.ExistingMortgage*in.MortgageBuffer + h.ExistingDebts()
	bank.Surplus = bank.Inflow - bank.Outflow
	bank.Deficit = bank.Surplus < 0

	return Serviceability{RealWorld: actual, BankAssessed: bank}
}
