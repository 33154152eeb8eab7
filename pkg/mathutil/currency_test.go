package mathutil

import (
	"math"
	"testing"
)

func TestRound(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected float64
	}{
		{"Round up at midpoint", 1.235, 1.24},
		{"Round down below midpoint", 1.234, 1.23},
		{"No rounding needed", 1.23, 1.23},
		{"Large number", 12345.678, 12345.68},
		{"Negative number round down", -1.234, -1.23},
		{"Zero", 0.0, 0.0},
		{"Very small positive", 0.001, 0.00},
		{"Monthly payment", 2948.9614, 2948.96},
		{"Large negative", -12345.678, -12345.68},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Round(tt.input)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("Round(%v) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestRoundNonFinite(t *testing.T) {
	if !math.IsNaN(Round(math.NaN())) {
		t.Errorf("Round(NaN) should stay NaN")
	}
	if !math.IsInf(Round(math.Inf(1)), 1) {
		t.Errorf("Round(+Inf) should stay +Inf")
	}
}

func TestPercentHelpers(t *testing.T) {
	if got := PercentToFraction(5.49); math.Abs(got-0.0549) > 1e-12 {
		t.Errorf("PercentToFraction(5.49) = %v", got)
	}
	if got := ApplyPercentage(44199.96, 5); math.Abs(got-2209.998) > 1e-9 {
		t.Errorf("ApplyPercentage() = %v", got)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"below", -0.2, 0},
		{"inside", 0.8, 0.8},
		{"above", 1.4, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.value, 0, 1); got != tt.want {
				t.Errorf("Clamp(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestSafeDivide(t *testing.T) {
	if got := SafeDivide(10, 0); got != 0 {
		t.Errorf("SafeDivide(10, 0) = %v, want 0", got)
	}
	if got := SafeDivide(520000, 650000); math.Abs(got-0.8) > 1e-12 {
		t.Errorf("SafeDivide() = %v, want 0.8", got)
	}
}

func TestWithinTolerance(t *testing.T) {
	if !WithinTolerance(-8292.56, -8292.10, 1) {
		t.Errorf("expected values within $1")
	}
	if WithinTolerance(100, 102, 1) {
		t.Errorf("expected values outside $1")
	}
	if !IsNegative(-0.02) || IsNegative(-0.005) {
		t.Errorf("IsNegative tolerance incorrect")
	}
}
