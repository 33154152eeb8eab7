// Package finance implements the property investment calculations: entry
// costs, rental income and expenses, negative gearing, serviceability,
// growth projections and capital gains tax.
package finance

// AcquisitionInputs are the purchase price and one-off entry costs.
type AcquisitionInputs struct {
	PurchasePrice   float64
	StampDuty       float64
	LegalFees       float64
	BuildingAndPest float64
	LoanSetup       float64
	BuyersAgent     float64
	OtherCosts      float64
}

// Acquisition holds the aggregated entry costs.
type Acquisition struct {
	PurchasePrice float64 `json:"purchasePrice"`
	TotalCosts    float64 `json:"totalCosts"`
	// TotalCostBase is the capital required before any loan is applied.
	TotalCostBase float64 `json:"totalCostBase"`
}

// Fees lists the entry costs in a fixed order.
func (in AcquisitionInputs) Fees() []float64 {
	return []float64{
		in.StampDuty,
		in.LegalFees,
		in.BuildingAndPest,
		in.LoanSetup,
		in.BuyersAgent,
		in.OtherCosts,
	}
}

// AggregateAcquisition sums the entry costs and adds the purchase price.
func AggregateAcquisition(in AcquisitionInputs) Acquisition {
	total := 0.0
	for _, fee := range in.Fees() {
		total += fee
	}
	return Acquisition{
		PurchasePrice: in.PurchasePrice,
		TotalCosts:    total,
		TotalCostBase: in.PurchasePrice + total,
	}
}
