package finance

import "github.com/iwvelando/property-forecast/pkg/mathutil"

// Holding is one property in an investor's portfolio, with monthly figures.
type Holding struct {
	Name            string  `json:"name"`
	Value           float64 `json:"value"`
	Debt            float64 `json:"debt"`
	MonthlyRent     float64 `json:"monthlyRent"`
	MonthlyLoanCost float64 `json:"monthlyLoanCost"`
	MonthlyExpenses float64 `json:"monthlyExpenses"`
}

// Portfolio summarizes a set of holdings.
type Portfolio struct {
	Holdings        []Holding `json:"holdings"`
	TotalValue      float64   `json:"totalValue"`
	TotalDebt       float64   `json:"totalDebt"`
	NetEquity       float64   `json:"netEquity"`
	LVR             float64   `json:"lvr"`
	MonthlyRent     float64   `json:"monthlyRent"`
	MonthlyLoanCost float64   `json:"monthlyLoanCost"`
	MonthlyExpenses float64   `json:"monthlyExpenses"`
	NetMonthly      float64   `json:"netMonthly"`
}

// SummarizePortfolio totals the holdings. LVR is a fraction and is zero for
// an empty or valueless portfolio.
func SummarizePortfolio(holdings []Holding) Portfolio {
	p := Portfolio{Holdings: append([]Holding(nil), holdings...)}
	for _, h := range holdings {
		p.TotalValue += h.Value
		p.TotalDebt += h.Debt
		p.MonthlyRent += h.MonthlyRent
		p.MonthlyLoanCost += h.MonthlyLoanCost
		p.MonthlyExpenses += h.MonthlyExpenses
	}
	p.NetEquity = p.TotalValue - p.TotalDebt
	p.LVR = mathutil.SafeDivide(p.TotalDebt, p.TotalValue)
	p.NetMonthly = p.MonthlyRent - p.MonthlyLoanCost - p.MonthlyExpenses
	return p
}
