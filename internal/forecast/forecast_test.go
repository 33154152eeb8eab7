package forecast

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/estimate"
	"go.uber.org/zap"
)

const testConfigPath = "../../test/test_config.yaml"

type countingEstimator struct {
	calls atomic.Int32
	fail  bool
}

func (c *countingEstimator) Estimate(context.Context, string, estimate.Specs) (*estimate.Estimate, error) {
	c.calls.Add(1)
	if c.fail {
		return nil, errors.New("feed offline")
	}
	return &estimate.Estimate{Source: "test", MarketYield: 4.0}, nil
}

func loadConfig(t *testing.T) config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	return *conf
}

func TestGetForecastSkipsInactive(t *testing.T) {
	conf := loadConfig(t)

	results, err := GetForecast(zap.NewNop(), conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 forecasts, got %d", len(results))
	}
	if results[0].Name != "Reference unit" || results[1].Name != "Equity funded house" {
		t.Errorf("unexpected order: %s, %s", results[0].Name, results[1].Name)
	}
	if results[0].Market != nil {
		t.Error("GetForecast should not attach market estimates")
	}
}

func TestCompareMatchesSequential(t *testing.T) {
	conf := loadConfig(t)

	sequential, err := GetForecast(nil, conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	parallel, err := Compare(context.Background(), nil, conf, nil, 2)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	if !reflect.DeepEqual(sequential, parallel) {
		t.Error("Compare() without an estimator should match GetForecast()")
	}
}

func TestCompareEstimatesAreAdvisory(t *testing.T) {
	conf := loadConfig(t)

	plain, err := Compare(context.Background(), zap.NewNop(), conf, nil, 0)
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}

	for _, fail := range []bool{false, true} {
		est := &countingEstimator{fail: fail}
		annotated, err := Compare(context.Background(), zap.NewNop(), conf, est, 1)
		if err != nil {
			t.Fatalf("Compare(fail=%v) error = %v", fail, err)
		}
		if got := est.calls.Load(); got != 2 {
			t.Errorf("fail=%v: expected 2 estimate calls, got %d", fail, got)
		}
		for i := range annotated {
			if !reflect.DeepEqual(annotated[i].Result, plain[i].Result) {
				t.Errorf("fail=%v: %s result changed by estimate", fail, annotated[i].Name)
			}
			if annotated[i].Market == nil {
				t.Fatalf("fail=%v: %s missing market annotation", fail, annotated[i].Name)
			}
			if annotated[i].Market.Available == fail {
				t.Errorf("fail=%v: %s availability = %v", fail, annotated[i].Name, annotated[i].Market.Available)
			}
		}
	}
}

func TestCompareConversionError(t *testing.T) {
	conf := loadConfig(t)
	conf.Scenarios[1].Loan.Mode = "balloon"

	if _, err := Compare(context.Background(), nil, conf, nil, 2); err == nil {
		t.Error("expected error for an unconvertible scenario")
	}
	if _, err := GetForecast(nil, conf); err == nil {
		t.Error("expected error from GetForecast for an unconvertible scenario")
	}
}
