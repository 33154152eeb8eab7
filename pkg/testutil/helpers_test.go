package testutil

import (
	"math"
	"testing"

	"github.com/iwvelando/property-forecast/internal/forecast"
)

func TestFindScenario(t *testing.T) {
	results := []forecast.Forecast{
		{Name: "Scenario A", Result: ReferenceResult()},
		{Name: "Scenario B", Result: EquityResult()},
		{Name: "Scenario B"},
	}

	tests := []struct {
		name        string
		searchName  string
		expectFound bool
		expectIndex int
	}{
		{name: "first scenario", searchName: "Scenario A", expectFound: true, expectIndex: 0},
		{name: "duplicate names return the first", searchName: "Scenario B", expectFound: true, expectIndex: 1},
		{name: "missing scenario", searchName: "Scenario C"},
		{name: "case sensitive", searchName: "scenario a"},
		{name: "empty name", searchName: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindScenario(results, tt.searchName)
			if (got != nil) != tt.expectFound {
				t.Fatalf("FindScenario(%q) found = %v, expected %v", tt.searchName, got != nil, tt.expectFound)
			}
			if got != nil && got != &results[tt.expectIndex] {
				t.Errorf("FindScenario(%q) returned the wrong element", tt.searchName)
			}
		})
	}

	if FindScenario(nil, "Scenario A") != nil {
		t.Error("FindScenario(nil) should return nil")
	}
}

func TestFindScenarioReturnsPointer(t *testing.T) {
	results := []forecast.Forecast{{Name: "Mutable"}}
	FindScenario(results, "Mutable").Name = "Changed"
	if results[0].Name != "Changed" {
		t.Error("FindScenario should return a pointer into the slice")
	}
}

func TestReferenceFixtures(t *testing.T) {
	ref := ReferenceResult()
	if math.Abs(ref.Loans.Amount-520000) > 1e-6 {
		t.Errorf("reference loan = %v, expected 520000", ref.Loans.Amount)
	}
	if !ref.CashFlow.NegativelyGeared() {
		t.Error("reference property should be negatively geared")
	}

	equity := EquityResult()
	if equity.Loans.EquityAmount != 170000 {
		t.Errorf("equity loan = %v, expected 170000", equity.Loans.EquityAmount)
	}
	if ReferenceInputs().Loan.EquityLoan != nil {
		t.Error("EquityInputs must not modify the reference inputs")
	}
}
