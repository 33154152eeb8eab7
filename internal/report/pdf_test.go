package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/internal/optimizer"
)

func TestGeneratePDF(t *testing.T) {
	conf, err := config.LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	forecasts, err := forecast.GetForecast(nil, *conf)
	if err != nil {
		t.Fatalf("GetForecast() error = %v", err)
	}
	summaries, err := optimizer.Run(nil, conf)
	if err != nil {
		t.Fatalf("optimizer.Run() error = %v", err)
	}
	optimizer.Apply(summaries, forecasts)

	generated := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name      string
		forecasts []forecast.Forecast
	}{
		{name: "fixture", forecasts: forecasts},
		{name: "empty", forecasts: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := GeneratePDF(tt.forecasts, generated)
			if err != nil {
				t.Fatalf("GeneratePDF() error = %v", err)
			}
			if !bytes.HasPrefix(data, []byte("%PDF")) {
				t.Errorf("output does not start with %%PDF: %q", data[:min(len(data), 8)])
			}
		})
	}
}
