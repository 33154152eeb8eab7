package finance

import (
	"math"

	"github.com/iwvelando/property-forecast/pkg/mathutil"
)

// TaxFunc maps a taxable income to the tax payable on it.
type TaxFunc func(income float64) float64

// Investor is one owner of the property.
type Investor struct {
	Name string
	// TaxableIncome is gross taxable income excluding the property.
	TaxableIncome float64
	// OwnershipShare is the fraction of the property result attributed to
	// this investor. Shares across investors sum to 1.
	OwnershipShare float64
	// NetPay is take-home pay per PayFrequency period.
	NetPay       float64
	PayFrequency PayFrequency
}

// CashFlowInputs are the aggregates consumed by the gearing calculation.
type CashFlowInputs struct {
	AnnualGrossIncome   float64
	OperatingExpenses   float64
	AnnualDebtRepayment float64
	DeductibleInterest  float64
	Depreciation        float64
}

// InvestorTax is the per-owner tax effect of the property.
type InvestorTax struct {
	Name           string  `json:"name"`
	OwnershipShare float64 `json:"ownershipShare"`
	PropertyIncome float64 `json:"propertyIncome"`
	BaseTax        float64 `json:"baseTax"`
	NewTax         float64 `json:"newTax"`
	// TaxVariance is positive for a refund and negative for extra tax.
	TaxVariance float64 `json:"taxVariance"`
	// MarginalRate applies to the next dollar once the property is owned.
	MarginalRate float64 `json:"marginalRate"`
}

// CashFlow is the pre- and post-tax position of the property.
type CashFlow struct {
	NetOperatingIncome float64       `json:"netOperatingIncome"`
	PreTax             float64       `json:"preTax"`
	TaxDeductions      float64       `json:"taxDeductions"`
	NetTaxableIncome   float64       `json:"netTaxableIncome"`
	Investors          []InvestorTax `json:"investors"`
	TotalTaxVariance   float64       `json:"totalTaxVariance"`
	PostTax            float64       `json:"postTax"`
}

// NegativelyGeared reports whether deductions exceed property income by
// more than a cent.
func (c CashFlow) NegativelyGeared() bool {
	return mathutil.IsNegative(c.NetTaxableIncome)
}

// ComputeCashFlow derives pre-tax cash flow, splits the property's taxable
// result between the investors, and adds each investor's tax variance to
// reach post-tax cash flow. Negative results are expected, not errors.
func ComputeCashFlow(in CashFlowInputs, investors []Investor, taxFn TaxFunc) CashFlow {
	var cf CashFlow
	cf.NetOperatingIncome = in.AnnualGrossIncome - in.OperatingExpenses
	cf.PreTax = cf.NetOperatingIncome - in.AnnualDebtRepayment
	cf.TaxDeductions = in.OperatingExpenses + in.DeductibleInterest + in.Depreciation
	cf.NetTaxableIncome = in.AnnualGrossIncome - cf.TaxDeductions

	cf.Investors = make([]InvestorTax, 0, len(investors))
	for _, inv := range investors {
		propertyIncome := cf.NetTaxableIncome * inv.OwnershipShare
		baseTax := taxFn(inv.TaxableIncome)
		newTax := taxFn(math.Max(0, inv.TaxableIncome+propertyIncome))
		if math.IsNaN(inv.TaxableIncome + propertyIncome) {
			newTax = math.NaN()
		}
		variance := baseTax - newTax

		cf.Investors = append(cf.Investors, InvestorTax{
			Name:           inv.Name,
			OwnershipShare: inv.OwnershipShare,
			PropertyIncome: propertyIncome,
			BaseTax:        baseTax,
			NewTax:         newTax,
			TaxVariance:    variance,
		})
		cf.TotalTaxVariance += variance
	}

	cf.PostTax = cf.PreTax + cf.TotalTaxVariance
	return cf
}
