package finance

import (
	"iter"
	"math"
)

// ProjectionYear is the estimated position at the end of a year of ownership.
type ProjectionYear struct {
	Year int `json:"year"`
	// CalendarYear is set when a settlement date is known.
	CalendarYear int     `json:"calendarYear,omitempty"`
	Value        float64 `json:"value"`
	LoanBalance  float64 `json:"loanBalance"`
	Equity       float64 `json:"equity"`
}

// BalanceFunc returns the total debt outstanding at the end of a year.
type BalanceFunc func(year int) float64

// ConstantBalance treats the loans as never paid down.
func ConstantBalance(balances ...float64) BalanceFunc {
	total := 0.0
	for _, b := range balances {
		total += b
	}
	return func(int) float64 { return total }
}

// ValueAt compounds the purchase price over the given number of years.
func ValueAt(price, growth float64, year int) float64 {
	return price * math.Pow(1+growth, float64(year))
}

// Project yields years 1..years with the property value compounded at the
// growth rate and equity measured against constant loan balances. The
// sequence is finite and may be ranged over more than once.
func Project(price, growth float64, years int, balances []float64) iter.Seq[ProjectionYear] {
	return ProjectWithBalances(price, growth, years, ConstantBalance(balances...))
}

// ProjectWithBalances is Project with a caller-supplied balance per year.
func ProjectWithBalances(price, growth float64, years int, balance BalanceFunc) iter.Seq[ProjectionYear] {
	return func(yield func(ProjectionYear) bool) {
		for y := 1; y <= years; y++ {
			value := ValueAt(price, growth, y)
			debt := balance(y)
			if !yield(ProjectionYear{Year: y, Value: value, LoanBalance: debt, Equity: value - debt}) {
				return
			}
		}
	}
}
