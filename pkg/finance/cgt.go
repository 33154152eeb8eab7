package finance

// CGT is the capital gains outcome of a notional sale.
type CGT struct {
	SalePrice   float64 `json:"salePrice"`
	CostBase    float64 `json:"costBase"`
	CapitalGain float64 `json:"capitalGain"`
	TaxableGain float64 `json:"taxableGain"`
	CGTPayable  float64 `json:"cgtPayable"`
	NetProfit   float64 `json:"netProfit"`
}

// ComputeCGT applies the discount and the marginal rate to the gain on sale.
// A loss is not special-cased: it yields a non-positive CGT figure.
func ComputeCGT(salePrice, costBase, discount, marginalRate float64) CGT {
	gain := salePrice - costBase
	taxable := gain * discount
	payable := taxable * marginalRate
	return CGT{
		SalePrice:   salePrice,
		CostBase:    costBase,
		CapitalGain: gain,
		TaxableGain: taxable,
		CGTPayable:  payable,
		NetProfit:   gain - payable,
	}
}
