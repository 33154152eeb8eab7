package config

import (
	"fmt"

	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"github.com/iwvelando/property-forecast/pkg/loans"
	"github.com/iwvelando/property-forecast/pkg/mathutil"
)

// Inputs converts a scenario and the common settings into calculation
// inputs. Scenario investors replace the common ones when present. Vacancy
// and LVR are clamped to their ranges; ValidateConfiguration warns about them.
func (c *Configuration) Inputs(s Scenario) (finance.Inputs, error) {
	period, err := finance.ParseRentPeriod(s.Rent.Period)
	if err != nil {
		return finance.Inputs{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}
	mode, err := loans.ParseMode(s.Loan.Mode)
	if err != nil {
		return finance.Inputs{}, fmt.Errorf("scenario %s: %w", s.Name, err)
	}

	investorConfigs := c.Common.Investors
	if len(s.Investors) > 0 {
		investorConfigs = s.Investors
	}
	investors := make([]finance.Investor, 0, len(investorConfigs))
	for _, inv := range investorConfigs {
		freq, err := finance.ParsePayFrequency(inv.PayFrequency)
		if err != nil {
			return finance.Inputs{}, fmt.Errorf("scenario %s investor %s: %w", s.Name, inv.Name, err)
		}
		investors = append(investors, finance.Investor{
			Name:           inv.Name,
			TaxableIncome:  inv.TaxableIncome,
			OwnershipShare: inv.OwnershipShare,
			NetPay:         inv.NetPay,
			PayFrequency:   freq,
		})
	}

	discount := constants.DefaultCGTDiscount
	if s.Projection.CGTDiscount != nil {
		discount = *s.Projection.CGTDiscount
	}

	in := finance.Inputs{
		Name:    s.Name,
		Address: s.Address,
		Acquisition: finance.AcquisitionInputs{
			PurchasePrice:   s.PurchasePrice,
			StampDuty:       s.Costs.StampDuty,
			LegalFees:       s.Costs.LegalFees,
			BuildingAndPest: s.Costs.BuildingAndPest,
			LoanSetup:       s.Costs.LoanSetup,
			BuyersAgent:     s.Costs.BuyersAgent,
			OtherCosts:      s.Costs.OtherCosts,
		},
		Income: finance.IncomeInputs{
			RentAmount:  s.Rent.Amount,
			RentPeriod:  period,
			VacancyRate: mathutil.Clamp(s.Rent.VacancyRate, 0, 100),
		},
		Expenses: finance.ExpenseInputs{
			ManagementFee:     s.Expenses.ManagementFee,
			ManagementFeeRate: s.Expenses.ManagementFeeRate,
			Strata:            s.Expenses.Strata,
			Insurance:         s.Expenses.Insurance,
			Rates:             s.Expenses.Rates,
			Maintenance:       s.Expenses.Maintenance,
			Water:             s.Expenses.Water,
			Other:             s.Expenses.Other,
		},
		Loan: finance.LoanInputs{
			LVR:          mathutil.Clamp(s.Loan.LVR, 0, 1),
			InterestRate: s.Loan.InterestRate,
			TermYears:    s.Loan.TermYears,
			Mode:         mode,
		},
		Depreciation: finance.Depreciation{
			CapitalWorks:   s.Depreciation.CapitalWorks,
			PlantEquipment: s.Depreciation.PlantEquipment,
		},
		Investors: investors,
		Projection: finance.ProjectionInputs{
			GrowthRate:      s.Projection.GrowthRate,
			HoldingPeriod:   s.Projection.HoldingPeriod,
			MarginalTaxRate: s.Projection.MarginalTaxRate,
			CGTDiscount:     discount,
			SettlementDate:  s.SettlementDate,
		},
		Household: finance.Household{
			LivingExpenses:   c.Common.Household.LivingExpenses,
			ExistingMortgage: c.Common.Household.ExistingMortgage,
			CarLoan:          c.Common.Household.CarLoan,
			CreditCard:       c.Common.Household.CreditCard,
			OtherDebts:       c.Common.Household.OtherDebts,
		},
		Options: finance.Options{
			InterestMethod:              c.Common.Options.InterestMethod,
			CostBaseIncludesAcquisition: c.Common.Options.CostBaseIncludesAcquisition,
			AmortizeProjectionBalances:  c.Common.Options.AmortizeProjectionBalances,
			StressMargin:                c.Common.Options.StressMargin,
			MortgageBuffer:              c.Common.Options.MortgageBuffer,
			RentalShading:               c.Common.Options.RentalShading,
		},
	}

	if eq := s.Loan.EquityLoan; eq != nil {
		in.Loan.EquityLoan = &finance.EquityLoanInputs{
			Principal:    eq.Principal,
			InterestRate: eq.InterestRate,
		}
	}

	for _, h := range c.Common.Holdings {
		in.Holdings = append(in.Holdings, finance.Holding{
			Name:            h.Name,
			Value:           h.Value,
			Debt:            h.Debt,
			MonthlyRent:     h.MonthlyRent,
			MonthlyLoanCost: h.MonthlyLoanCost,
			MonthlyExpenses: h.MonthlyExpenses,
		})
	}

	return in, nil
}
