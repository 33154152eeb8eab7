package finance

import (
	"testing"
)

func TestProjectMonotonic(t *testing.T) {
	var prev float64
	count := 0
	for py := range Project(650000, 0.05, 15, []float64{520000}) {
		count++
		if py.Year != count {
			t.Fatalf("year %d out of order, expected %d", py.Year, count)
		}
		if py.Value <= prev {
			t.Errorf("year %d value %.2f not above previous %.2f", py.Year, py.Value, prev)
		}
		if py.Equity != py.Value-520000 {
			t.Errorf("year %d equity %.2f != value - debt", py.Year, py.Equity)
		}
		prev = py.Value
	}
	if count != 15 {
		t.Errorf("expected 15 years, got %d", count)
	}
}

func TestProjectZeroGrowth(t *testing.T) {
	for py := range Project(650000, 0, 10, []float64{520000, 170000}) {
		if py.Value != 650000 {
			t.Errorf("year %d value %.2f, expected 650000", py.Year, py.Value)
		}
		if py.Equity != -40000 {
			t.Errorf("year %d equity %.2f, expected -40000", py.Year, py.Equity)
		}
	}
}

func TestProjectIsRestartableAndStoppable(t *testing.T) {
	seq := Project(500000, 0.07, 5, nil)

	collect := func() []ProjectionYear {
		var out []ProjectionYear
		for py := range seq {
			out = append(out, py)
		}
		return out
	}
	first, second := collect(), collect()
	if len(first) != 5 || len(second) != 5 {
		t.Fatalf("expected 5 years per pass, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("pass differs at year %d", i+1)
		}
	}

	seen := 0
	for range seq {
		seen++
		if seen == 2 {
			break
		}
	}
	if seen != 2 {
		t.Errorf("early break yielded %d years", seen)
	}
}

func TestProjectEmptyHorizon(t *testing.T) {
	for py := range Project(500000, 0.05, 0, nil) {
		t.Errorf("unexpected year %d for zero holding period", py.Year)
	}
}

func TestComputeCGT(t *testing.T) {
	tests := []struct {
		name    string
		sale    float64
		cost    float64
		gain    float64
		payable float64
		profit  float64
	}{
		{"gain", 800000, 650000, 150000, 27750, 122250},
		{"break even", 650000, 650000, 0, 0, 0},
		{"loss", 600000, 650000, -50000, -9250, -40750},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeCGT(tt.sale, tt.cost, 0.5, 0.37)
			assertClose(t, "CapitalGain", got.CapitalGain, tt.gain, 1e-6)
			assertClose(t, "CGTPayable", got.CGTPayable, tt.payable, 1e-6)
			assertClose(t, "NetProfit", got.NetProfit, tt.profit, 1e-6)
			if got.CapitalGain <= 0 && got.CGTPayable > 0 {
				t.Errorf("non-positive gain produced positive CGT %.2f", got.CGTPayable)
			}
		})
	}
}
