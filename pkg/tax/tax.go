// Package tax computes income-tax liability from a progressive bracket table.
package tax

import (
	"fmt"
	"math"
	"sort"
)

// baseTaxTolerance is how far a configured base tax may drift from the
// cumulative value before the table is rejected as discontinuous.
const baseTaxTolerance = 1.0

// Bracket is a single marginal-rate band. Income above Threshold is taxed at
// Rate on top of BaseTax, the tax payable at exactly Threshold.
type Bracket struct {
	Threshold float64 `mapstructure:"threshold" yaml:"threshold" json:"threshold"`
	Rate      float64 `mapstructure:"rate" yaml:"rate" json:"rate"`
	BaseTax   float64 `mapstructure:"baseTax" yaml:"baseTax,omitempty" json:"baseTax,omitempty"`
}

// Table is an ordered, continuous set of brackets covering income >= 0.
type Table struct {
	Name     string
	brackets []Bracket
}

// NewTable validates the brackets and fills in cumulative base tax values.
// Brackets may be given in any order; duplicate thresholds are rejected.
func NewTable(name string, brackets []Bracket) (*Table, error) {
	if len(brackets) == 0 {
		return nil, fmt.Errorf("tax table %q has no brackets", name)
	}

	sorted := make([]Bracket, len(brackets))
	copy(sorted, brackets)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Threshold < sorted[j].Threshold
	})

	if sorted[0].Threshold < 0 {
		return nil, fmt.Errorf("tax table %q: first threshold %.2f is negative", name, sorted[0].Threshold)
	}

	for i := range sorted {
		b := sorted[i]
		if math.IsNaN(b.Rate) || b.Rate < 0 || b.Rate > 1 {
			return nil, fmt.Errorf("tax table %q: bracket %d rate %v outside [0,1]", name, i, b.Rate)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if b.Threshold == prev.Threshold {
			return nil, fmt.Errorf("tax table %q: duplicate threshold %.2f", name, b.Threshold)
		}
		cumulative := prev.BaseTax + (b.Threshold-prev.Threshold)*prev.Rate
		if b.BaseTax != 0 && math.Abs(b.BaseTax-cumulative) > baseTaxTolerance {
			return nil, fmt.Errorf("tax table %q: base tax %.2f at threshold %.2f does not match cumulative %.2f",
				name, b.BaseTax, b.Threshold, cumulative)
		}
		sorted[i].BaseTax = cumulative
	}

	return &Table{Name: name, brackets: sorted}, nil
}

// MustNewTable is like NewTable but panics on an invalid table. Intended for
// package-level defaults.
func MustNewTable(name string, brackets []Bracket) *Table {
	table, err := NewTable(name, brackets)
	if err != nil {
		panic(err)
	}
	return table
}

// Tax returns the tax payable on income. Income at or below the first
// threshold attracts the first bracket's base tax (zero for a tax-free band).
func (t *Table) Tax(income float64) float64 {
	if math.IsNaN(income) {
		return income
	}
	for i := len(t.brackets) - 1; i >= 0; i-- {
		b := t.brackets[i]
		if income > b.Threshold {
			return b.BaseTax + (income-b.Threshold)*b.Rate
		}
	}
	return t.brackets[0].BaseTax
}

// MarginalRate returns the rate applied to the next dollar above income.
func (t *Table) MarginalRate(income float64) float64 {
	rate := t.brackets[0].Rate
	for _, b := range t.brackets {
		if income >= b.Threshold {
			rate = b.Rate
		}
	}
	return rate
}
