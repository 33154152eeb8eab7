// Package loans provides fixed-rate loan repayment calculations for
// interest-only and principal-and-interest loans.
package loans

import (
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/property-forecast/pkg/constants"
)

// Mode is the repayment type of a loan.
type Mode string

const (
	// InterestOnly loans repay interest only; the principal stays constant.
	InterestOnly Mode = "interest-only"
	// PrincipalAndInterest loans amortize to zero over the term.
	PrincipalAndInterest Mode = "principal-and-interest"
)

// ParseMode accepts the common spellings used in config files and forms.
// An empty string selects principal-and-interest.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "pi", "p&i", "principal-and-interest", "principal_and_interest", "principalandinterest":
		return PrincipalAndInterest, nil
	case "io", "interest-only", "interest_only", "interestonly":
		return InterestOnly, nil
	default:
		return "", fmt.Errorf("unknown repayment mode %q", value)
	}
}

// Terms describes a fixed-rate loan. InterestRate is an annual percentage,
// e.g. 5.49 for 5.49%.
type Terms struct {
	Principal    float64
	InterestRate float64
	TermYears    int
	Mode         Mode
}

// TermMonths returns the number of monthly repayments.
func (t Terms) TermMonths() int {
	return t.TermYears * constants.MonthsPerYear
}

// Breakdown is the repayment summary of a single loan.
type Breakdown struct {
	MonthlyPayment float64 `json:"monthlyPayment"`
	AnnualPayment  float64 `json:"annualPayment"`
	// AnnualInterest is the tax-deductible interest for the first year.
	AnnualInterest float64 `json:"annualInterest"`
}

// EquityLoanTerms returns the terms of an equity-release loan, which is
// always assessed as a 30-year principal-and-interest loan.
func EquityLoanTerms(principal, interestRate float64) Terms {
	return Terms{
		Principal:    principal,
		InterestRate: interestRate,
		TermYears:    constants.EquityLoanTermYears,
		Mode:         PrincipalAndInterest,
	}
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the
// standard amortization formula. The result is always a magnitude.
func CalculateMonthlyPayment(principal, annualInterestRate float64, termMonths int) float64 {
	if termMonths <= 0 || principal == 0 {
		return 0
	}
	if annualInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return math.Abs(principal / float64(termMonths))
	}

	periodicInterestRate := annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
	discountFactor := 1.00 - math.Pow(1.00+periodicInterestRate, -float64(termMonths))
	return math.Abs(periodicInterestRate * principal / discountFactor)
}

// CalculateInterestPayment calculates the interest portion of a monthly payment.
func CalculateInterestPayment(remainingPrincipal, annualInterestRate float64) float64 {
	return remainingPrincipal * annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// FlatAnnualInterest approximates a year of interest as principal x rate,
// ignoring any principal reduction during the year.
func FlatAnnualInterest(principal, annualInterestRate float64) float64 {
	return principal * annualInterestRate / constants.PercentageMultiplier
}

// Amortize returns the repayment breakdown for the loan. Under P&I the
// interest figure is the flat first-year approximation.
func Amortize(terms Terms) Breakdown {
	if terms.TermYears <= 0 || terms.Principal == 0 {
		return Breakdown{}
	}

	var b Breakdown
	switch terms.Mode {
	case InterestOnly:
		b.MonthlyPayment = math.Abs(CalculateInterestPayment(terms.Principal, terms.InterestRate))
		b.AnnualPayment = b.MonthlyPayment * constants.MonthsPerYear
		b.AnnualInterest = b.AnnualPayment
	default:
		b.MonthlyPayment = CalculateMonthlyPayment(terms.Principal, terms.InterestRate, terms.TermMonths())
		b.AnnualPayment = b.MonthlyPayment * constants.MonthsPerYear
		b.AnnualInterest = FlatAnnualInterest(terms.Principal, terms.InterestRate)
	}
	return b
}

// DeductibleInterest returns first-year interest using the named method:
// constants.InterestMethodFlat or constants.InterestMethodSchedule. Unknown
// methods fall back to flat.
func DeductibleInterest(terms Terms, method string) float64 {
	if method == constants.InterestMethodSchedule && terms.Mode != InterestOnly {
		if terms.TermYears <= 0 || terms.Principal == 0 {
			return 0
		}
		return FirstYearInterest(Schedule(terms))
	}
	return Amortize(terms).AnnualInterest
}
