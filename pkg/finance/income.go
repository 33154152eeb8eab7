package finance

import (
	"fmt"
	"strings"

	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/mathutil"
)

// RentPeriod is the period a rent figure is quoted for.
type RentPeriod string

const (
	// RentWeekly is rent quoted per week.
	RentWeekly RentPeriod = "weekly"
	// RentMonthly is rent quoted per calendar month.
	RentMonthly RentPeriod = "monthly"
)

// ParseRentPeriod accepts "weekly"/"week"/"pw" and "monthly"/"month"/"pcm".
// An empty value selects weekly, the usual way rent is advertised.
func ParseRentPeriod(value string) (RentPeriod, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "weekly", "week", "pw":
		return RentWeekly, nil
	case "monthly", "month", "pcm":
		return RentMonthly, nil
	default:
		return "", fmt.Errorf("unknown rent period %q", value)
	}
}

// IncomeInputs describe the rent and the expected vacancy.
type IncomeInputs struct {
	RentAmount float64
	RentPeriod RentPeriod
	// VacancyRate is the percentage of the year the property is unlet.
	VacancyRate float64
}

// Income holds the annualized rental income.
type Income struct {
	MonthlyRent       float64 `json:"monthlyRent"`
	AnnualRent        float64 `json:"annualRent"`
	AnnualGrossIncome float64 `json:"annualGrossIncome"`
}

// AnnualRent annualizes a rent figure: weekly x52, monthly x12.
func AnnualRent(amount float64, period RentPeriod) float64 {
	if period == RentMonthly {
		return amount * constants.MonthsPerYear
	}
	return amount * constants.WeeksPerYear
}

// MonthlyRent converts a rent figure to a calendar-month amount.
func MonthlyRent(amount float64, period RentPeriod) float64 {
	if period == RentMonthly {
		return amount
	}
	return amount * constants.WeeksPerYear / constants.MonthsPerYear
}

// AggregateIncome annualizes rent and applies the vacancy allowance.
func AggregateIncome(amount float64, period RentPeriod, vacancyPct float64) Income {
	annual := AnnualRent(amount, period)
	return Income{
		MonthlyRent:       MonthlyRent(amount, period),
		AnnualRent:        annual,
		AnnualGrossIncome: annual * (1 - mathutil.PercentToFraction(vacancyPct)),
	}
}

// ExpenseInputs are monthly operating expenses. ManagementFeeRate is a
// percentage of the monthly rent, used only when ManagementFee is zero.
type ExpenseInputs struct {
	ManagementFee     float64
	ManagementFeeRate float64
	Strata            float64
	Insurance         float64
	Rates             float64
	Maintenance       float64
	Water             float64
	Other             float64
}

// Expenses holds the operating expense totals.
type Expenses struct {
	ManagementFee float64 `json:"managementFee"`
	Monthly       float64 `json:"monthly"`
	Annual        float64 `json:"annual"`
}

// ResolveManagementFee returns the monthly management fee.
func (in ExpenseInputs) ResolveManagementFee(monthlyRent float64) float64 {
	if in.ManagementFee != 0 {
		return in.ManagementFee
	}
	return mathutil.ApplyPercentage(monthlyRent, in.ManagementFeeRate)
}

// AggregateExpenses sums the monthly line items and annualizes them.
func AggregateExpenses(in ExpenseInputs, monthlyRent float64) Expenses {
	mgt := in.ResolveManagementFee(monthlyRent)
	monthly := mgt + in.Strata + in.Insurance + in.Rates + in.Maintenance + in.Water + in.Other
	return Expenses{
		ManagementFee: mgt,
		Monthly:       monthly,
		Annual:        monthly * constants.MonthsPerYear,
	}
}
