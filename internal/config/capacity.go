package config

import (
	"fmt"
)

const (
	defaultCapacityTolerance     = 1000.0
	defaultCapacityMaxIterations = 50
)

// CapacityConfig bounds the search for the highest affordable purchase
// price. Floor is the minimum bank-assessed monthly surplus to keep.
type CapacityConfig struct {
	Min           *float64 `yaml:"min,omitempty" mapstructure:"min" json:"min,omitempty"`
	Max           *float64 `yaml:"max,omitempty" mapstructure:"max" json:"max,omitempty"`
	Floor         float64  `yaml:"floor,omitempty" mapstructure:"floor" json:"floor,omitempty"`
	Tolerance     float64  `yaml:"tolerance,omitempty" mapstructure:"tolerance" json:"tolerance,omitempty"`
	MaxIterations int      `yaml:"maxIterations,omitempty" mapstructure:"maxIterations" json:"maxIterations,omitempty"`
}

// Normalize ensures defaults are applied before validation.
func (o *CapacityConfig) Normalize() {
	if o == nil {
		return
	}
	if o.Tolerance <= 0 {
		o.Tolerance = defaultCapacityTolerance
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = defaultCapacityMaxIterations
	}
}

// Validate returns an error when the search bounds are unusable.
func (o *CapacityConfig) Validate() error {
	if o == nil {
		return fmt.Errorf("capacity configuration cannot be nil")
	}

	o.Normalize()

	if o.Min == nil {
		return fmt.Errorf("capacity search requires a minimum price")
	}
	if o.Max == nil {
		return fmt.Errorf("capacity search requires a maximum price")
	}
	if *o.Min < 0 {
		return fmt.Errorf("capacity minimum %.2f must not be negative", *o.Min)
	}
	if *o.Min >= *o.Max {
		return fmt.Errorf("capacity minimum %.2f must be less than maximum %.2f", *o.Min, *o.Max)
	}
	return nil
}
