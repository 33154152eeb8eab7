// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero. Non-finite values are returned unchanged.
func Round(val float64) float64 {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return val
	}
	rounded, _ := decimal.NewFromFloat(val).Round(constants.DecimalPlaces).Float64()
	return rounded
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// IsNegative checks if a value is negative (less than negative tolerance)
func IsNegative(val float64) bool {
	return val < -constants.CurrencyTolerance
}

// PercentToFraction converts a percentage such as 5.49 into 0.0549.
func PercentToFraction(percent float64) float64 {
	return percent / constants.PercentageMultiplier
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * PercentToFraction(percentage)
}

// Clamp limits value to [lo, hi]. NaN passes through.
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// SafeDivide returns numerator/denominator, or 0 when the denominator is 0.
func SafeDivide(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}
