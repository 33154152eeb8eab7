package optimizer

import (
	"math"
	"strings"
	"testing"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"go.uber.org/zap"
)

const testConfigPath = "../../test/test_config.yaml"

func referenceInputs(t *testing.T) (*config.Configuration, finance.Inputs) {
	t.Helper()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	in, err := conf.Inputs(conf.Scenarios[0])
	if err != nil {
		t.Fatalf("Inputs() error = %v", err)
	}
	return conf, in
}

func TestSurplusMatchesEngine(t *testing.T) {
	_, in := referenceInputs(t)
	runner := NewRunner(zap.NewNop(), in, nil)

	if got := runner.Surplus(650000); math.Abs(got-4260.75) > 0.01 {
		t.Errorf("Surplus(650000) = %.2f, expected 4260.75", got)
	}
	if runner.Surplus(900000) >= runner.Surplus(650000) {
		t.Error("surplus should fall as the price rises")
	}
}

func TestMaxPurchasePriceBisects(t *testing.T) {
	_, in := referenceInputs(t)
	runner := NewRunner(nil, in, nil)

	summary := runner.MaxPurchasePrice(300000, 1500000, 0, 100, 50)
	if !summary.Converged {
		t.Fatalf("expected convergence, got %+v", summary)
	}
	if summary.Iterations == 0 {
		t.Error("expected at least one bisection step")
	}
	if summary.Surplus < 0 || !summary.Feasible() {
		t.Errorf("surplus at chosen price = %.2f, expected non-negative", summary.Surplus)
	}
	// Closed form: the stressed repayment is the only term that moves with price.
	if math.Abs(summary.Value-1343296.49) > 100 {
		t.Errorf("capacity = %.2f, expected about 1343296.49", summary.Value)
	}
	if runner.Surplus(summary.Value+100) >= 0 {
		t.Error("a price one tolerance higher should not be serviceable")
	}
	if summary.Original != 650000 || summary.Field != FieldPurchasePrice {
		t.Errorf("unexpected summary metadata: %+v", summary)
	}
}

func TestMaxPurchasePriceBounds(t *testing.T) {
	_, in := referenceInputs(t)
	runner := NewRunner(zap.NewNop(), in, nil)

	tests := []struct {
		name          string
		min, max      float64
		floor         float64
		wantValue     float64
		wantConverged bool
		wantNote      string
	}{
		{
			name:          "both bounds feasible",
			min:           300000,
			max:           400000,
			wantValue:     400000,
			wantConverged: true,
		},
		{
			name:      "both bounds infeasible",
			min:       300000,
			max:       600000,
			floor:     1e9,
			wantValue: 300000,
			wantNote:  "unable to keep a surplus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := runner.MaxPurchasePrice(tt.min, tt.max, tt.floor, 1000, 50)
			if summary.Value != tt.wantValue {
				t.Errorf("value = %v, expected %v", summary.Value, tt.wantValue)
			}
			if summary.Converged != tt.wantConverged {
				t.Errorf("converged = %v, expected %v", summary.Converged, tt.wantConverged)
			}
			if summary.Iterations != 0 {
				t.Errorf("iterations = %d, expected 0", summary.Iterations)
			}
			if tt.wantNote == "" && len(summary.Notes) != 0 {
				t.Errorf("unexpected notes %v", summary.Notes)
			}
			if tt.wantNote != "" && (len(summary.Notes) != 1 || !strings.Contains(summary.Notes[0], tt.wantNote)) {
				t.Errorf("notes = %v, expected one containing %q", summary.Notes, tt.wantNote)
			}
		})
	}
}

func TestMaxPurchasePriceIterationLimit(t *testing.T) {
	_, in := referenceInputs(t)
	summary := NewRunner(nil, in, nil).MaxPurchasePrice(300000, 1500000, 0, 1, 3)
	if summary.Iterations != 3 {
		t.Errorf("iterations = %d, expected 3", summary.Iterations)
	}
	if summary.Converged {
		t.Error("a search cut short should not report convergence")
	}
}

func TestRunAndApply(t *testing.T) {
	conf, _ := referenceInputs(t)

	summaries, err := Run(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	if _, ok := summaries["Reference unit"]; !ok {
		t.Fatalf("missing summary for Reference unit: %v", summaries)
	}

	forecasts, err := forecast.GetForecast(nil, *conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	Apply(summaries, forecasts)
	if forecasts[0].Capacity == nil {
		t.Error("expected capacity attached to the reference forecast")
	}
	if forecasts[1].Capacity != nil {
		t.Error("equity scenario has no capacity block")
	}
}

func TestRunRejectsBadBounds(t *testing.T) {
	conf, _ := referenceInputs(t)
	lo := 2000000.0
	conf.Scenarios[0].Capacity.Min = &lo

	if _, err := Run(nil, conf); err == nil {
		t.Error("expected error for inverted bounds")
	}
	if _, err := Run(nil, nil); err == nil {
		t.Error("expected error for nil configuration")
	}
}
