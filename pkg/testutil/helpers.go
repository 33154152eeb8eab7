// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"github.com/iwvelando/property-forecast/pkg/loans"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the forecast if found, nil otherwise.
func FindScenario(results []forecast.Forecast, name string) *forecast.Forecast {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// ReferenceInputs returns the $650,000 unit used throughout the tests: 80%
// P&I loan at 5.49% over 30 years, two investors on 50/50 ownership.
func ReferenceInputs() finance.Inputs {
	return finance.Inputs{
		Name:    "Reference unit",
		Address: "12 Example St, Brunswick VIC",
		Acquisition: finance.AcquisitionInputs{
			PurchasePrice:   650000,
			StampDuty:       25000,
			LegalFees:       2000,
			BuildingAndPest: 600,
			LoanSetup:       800,
		},
		Income: finance.IncomeInputs{RentAmount: 3683.33, RentPeriod: finance.RentMonthly, VacancyRate: 5},
		Expenses: finance.ExpenseInputs{
			ManagementFee: 276.25,
			Strata:        500,
			Insurance:     45,
			Rates:         165,
			Maintenance:   150,
			Water:         80,
			Other:         25,
		},
		Loan: finance.LoanInputs{
			LVR:          0.8,
			InterestRate: 5.49,
			TermYears:    30,
			Mode:         loans.PrincipalAndInterest,
		},
		Depreciation: finance.Depreciation{CapitalWorks: 5000, PlantEquipment: 3000},
		Investors: []finance.Investor{
			{Name: "Investor 1", TaxableIncome: 120000, OwnershipShare: 0.5, NetPay: 3500, PayFrequency: finance.PayFortnightly},
			{Name: "Investor 2", TaxableIncome: 95000, OwnershipShare: 0.5, NetPay: 2800, PayFrequency: finance.PayFortnightly},
		},
		Projection: finance.ProjectionInputs{
			GrowthRate:      0.05,
			HoldingPeriod:   10,
			MarginalTaxRate: 0.37,
			CGTDiscount:     0.5,
			SettlementDate:  "2025-03",
		},
		Household: finance.Household{
			LivingExpenses:   4000,
			ExistingMortgage: 2000,
			CarLoan:          400,
			CreditCard:       100,
		},
		Options: finance.DefaultOptions(),
	}
}

// EquityInputs is the reference unit bought interest-only with a $170,000
// equity loan.
func EquityInputs() finance.Inputs {
	in := ReferenceInputs()
	in.Name = "Equity funded house"
	in.Address = ""
	in.Loan.Mode = loans.InterestOnly
	in.Loan.InterestRate = 5.64
	in.Loan.EquityLoan = &finance.EquityLoanInputs{Principal: 170000, InterestRate: 5.49}
	return in
}

// ReferenceResult calculates ReferenceInputs against the default tax table.
func ReferenceResult() finance.Result {
	return finance.Calculate(ReferenceInputs(), nil)
}

// EquityResult calculates EquityInputs against the default tax table.
func EquityResult() finance.Result {
	return finance.Calculate(EquityInputs(), nil)
}
