// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"math"

	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/datetime"
)

// ValidateLoanMaturity checks whether a loan is repaid before the notional
// sale. Constant projection balances overstate debt in that case.
func ValidateLoanMaturity(loanName, settlementDate string, termYears, holdingYears int) (string, error) {
	maturityDate, err := datetime.AddYears(settlementDate, termYears)
	if err != nil {
		return "", err
	}
	saleDate, err := datetime.AddYears(settlementDate, holdingYears)
	if err != nil {
		return "", err
	}

	before, err := datetime.DateBeforeDate(maturityDate, saleDate)
	if err != nil {
		return "", err
	}
	if before {
		return fmt.Sprintf("Loan '%s' matures before the notional sale (%s < %s) - projected equity assumes the balance is still outstanding",
			loanName, maturityDate, saleDate), nil
	}

	return "", nil
}

// ValidateRange returns a warning when value falls outside [lo, hi].
func ValidateRange(name string, value, lo, hi float64) string {
	if math.IsNaN(value) || value < lo || value > hi {
		return fmt.Sprintf("%s of %v is outside the expected range [%v, %v]", name, value, lo, hi)
	}
	return ""
}

// ValidateOwnershipShares checks that the shares sum to one.
func ValidateOwnershipShares(scenario string, shares []float64) string {
	if len(shares) == 0 {
		return fmt.Sprintf("Scenario '%s' has no investors - tax variance will be zero", scenario)
	}
	total := 0.0
	for _, s := range shares {
		total += s
	}
	if math.Abs(total-1) > constants.OwnershipTolerance {
		return fmt.Sprintf("Scenario '%s' ownership shares sum to %.4f, expected 1", scenario, total)
	}
	return ""
}

// ConfigValidator collects the fields checked for warnings.
type ConfigValidator struct {
	Common    CommonConfig
	Scenarios []ScenarioConfig
}

type CommonConfig struct {
	Shares []float64
}

type ScenarioConfig struct {
	Name           string
	Active         bool
	Shares         []float64
	VacancyRate    float64
	LVR            float64
	InterestRate   float64
	TermYears      int
	SettlementDate string
	HoldingPeriod  int
	GrowthRate     float64
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string
	add := func(w string) {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	for _, scenario := range cv.Scenarios {
		if !scenario.Active {
			continue
		}
		label := fmt.Sprintf("Scenario '%s'", scenario.Name)

		shares := scenario.Shares
		if len(shares) == 0 {
			shares = cv.Common.Shares
		}
		add(ValidateOwnershipShares(scenario.Name, shares))
		add(ValidateRange(label+" vacancy rate", scenario.VacancyRate, 0, 100))
		add(ValidateRange(label+" LVR", scenario.LVR, 0, 1))
		add(ValidateRange(label+" interest rate", scenario.InterestRate, 0, 25))
		add(ValidateRange(label+" growth rate", scenario.GrowthRate, -0.2, 0.2))

		if scenario.HoldingPeriod < 1 {
			add(fmt.Sprintf("%s holding period of %d years produces no projection", label, scenario.HoldingPeriod))
		}
		if scenario.SettlementDate != "" {
			warning, err := ValidateLoanMaturity(label+" loan", scenario.SettlementDate, scenario.TermYears, scenario.HoldingPeriod)
			if err != nil {
				add(fmt.Sprintf("%s settlement date: %v", label, err))
			} else {
				add(warning)
			}
		}
	}

	return warnings
}
