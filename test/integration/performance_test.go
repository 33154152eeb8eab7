package integration

import (
	"context"
	"os"
	"reflect"
	"testing"
	"time"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/internal/optimizer"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	logger := zap.NewNop()

	start := time.Now()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	loadTime := time.Since(start)

	start = time.Now()
	results, err := forecast.GetForecast(logger, *conf)
	if err != nil {
		t.Fatalf("GetForecast failed: %v", err)
	}
	forecastTime := time.Since(start)

	start = time.Now()
	summaries, err := optimizer.Run(logger, conf)
	if err != nil {
		t.Fatalf("optimizer.Run failed: %v", err)
	}
	capacityTime := time.Since(start)

	totalTime := loadTime + forecastTime + capacityTime

	t.Logf("Performance metrics:")
	t.Logf("  Load config: %v", loadTime)
	t.Logf("  Calculate scenarios: %v", forecastTime)
	t.Logf("  Capacity search: %v", capacityTime)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 10*time.Second {
		t.Errorf("Total processing time %v exceeds 10 second threshold", totalTime)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
	for _, result := range results {
		if len(result.Result.Projection) != 10 {
			t.Errorf("Scenario %s has %d projection years, expected 10",
				result.Name, len(result.Result.Projection))
		}
	}
	if len(summaries) != 1 {
		t.Errorf("Expected 1 capacity summary, got %d", len(summaries))
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	logger := zap.NewNop()

	var first []forecast.Forecast
	for run := 0; run < 3; run++ {
		conf, err := config.LoadConfiguration(testConfigPath)
		if err != nil {
			t.Fatalf("LoadConfiguration failed on run %d: %v", run, err)
		}
		results, err := forecast.Compare(context.Background(), logger, *conf, nil, run+1)
		if err != nil {
			t.Fatalf("Compare failed on run %d: %v", run, err)
		}
		if run == 0 {
			first = results
			continue
		}
		if !reflect.DeepEqual(results, first) {
			t.Errorf("Run %d produced different results from the first run", run)
		}
	}
}

// TestConfigurationVariations tests different configuration variations
func TestConfigurationVariations(t *testing.T) {
	logger := zap.NewNop()

	variations := []struct {
		name            string
		modifyConfig    func(*config.Configuration)
		expectError     bool
		expectScenarios int
	}{
		{
			name:            "Baseline config",
			modifyConfig:    func(c *config.Configuration) {},
			expectScenarios: 2,
		},
		{
			name: "Activate parked scenario",
			modifyConfig: func(c *config.Configuration) {
				c.Scenarios[2].Active = true
			},
			expectScenarios: 3,
		},
		{
			name: "Disable one scenario",
			modifyConfig: func(c *config.Configuration) {
				c.Scenarios[1].Active = false
			},
			expectScenarios: 1,
		},
		{
			name: "Schedule interest",
			modifyConfig: func(c *config.Configuration) {
				c.Common.Options.InterestMethod = "schedule"
			},
			expectScenarios: 2,
		},
		{
			name: "Unknown loan mode",
			modifyConfig: func(c *config.Configuration) {
				c.Scenarios[0].Loan.Mode = "balloon"
			},
			expectError: true,
		},
	}

	for _, variation := range variations {
		t.Run(variation.name, func(t *testing.T) {
			conf, err := config.LoadConfiguration(testConfigPath)
			if err != nil {
				t.Fatalf("LoadConfiguration failed: %v", err)
			}
			variation.modifyConfig(conf)

			results, err := forecast.GetForecast(logger, *conf)
			if variation.expectError {
				if err == nil {
					t.Error("Expected an error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("GetForecast failed: %v", err)
			}
			if len(results) != variation.expectScenarios {
				t.Errorf("Expected %d scenarios, got %d", variation.expectScenarios, len(results))
			}
		})
	}
}

func BenchmarkCompare(b *testing.B) {
	logger := zap.NewNop()
	conf, err := config.LoadConfiguration(testConfigPath)
	if err != nil {
		b.Fatalf("LoadConfiguration failed: %v", err)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := forecast.Compare(ctx, logger, *conf, nil, 0); err != nil {
			b.Fatal(err)
		}
	}
}
