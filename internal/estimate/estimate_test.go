package estimate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"go.uber.org/zap"
)

type failingEstimator struct{}

func (failingEstimator) Estimate(context.Context, string, Specs) (*Estimate, error) {
	return nil, errors.New("service down")
}

func TestHTTPEstimator(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"source":"test-feed","marketYield":4.25,"medianRent":820}`))
	}))
	defer srv.Close()

	est := NewHTTPEstimator(srv.URL, time.Second)
	e, err := est.Estimate(context.Background(), "12 Example St", Specs{Bedrooms: 2, PurchasePrice: 650000})
	if err != nil {
		t.Fatalf("Estimate() error = %v", err)
	}
	if e.MarketYield != 4.25 || e.MedianRent != 820 || e.Source != "test-feed" {
		t.Errorf("unexpected estimate %+v", e)
	}
	for _, want := range []string{"address=12+Example+St", "bedrooms=2", "price=650000"} {
		if !strings.Contains(gotQuery, want) {
			t.Errorf("query %q missing %q", gotQuery, want)
		}
	}
}

func TestHTTPEstimatorErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("address") {
		case "broken":
			http.Error(w, "boom", http.StatusInternalServerError)
		case "garbage":
			_, _ = w.Write([]byte("not json"))
		case "slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"marketYield":1}`))
		}
	}))
	defer srv.Close()

	est := NewHTTPEstimator(srv.URL, 50*time.Millisecond)
	for _, address := range []string{"broken", "garbage", "slow"} {
		if _, err := est.Estimate(context.Background(), address, Specs{}); err == nil {
			t.Errorf("%s: expected error", address)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewHTTPEstimator(srv.URL, time.Second).Estimate(ctx, "x", Specs{}); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestAnnotate(t *testing.T) {
	res := finance.Result{Name: "Unit", Yields: finance.Yields{Gross: 6.8}}

	a := Annotate(context.Background(), zap.NewNop(), Static{Figures: Estimate{MarketYield: 4.3}}, res, Specs{})
	if !a.Available || a.Source != "static" {
		t.Fatalf("expected available static annotation, got %+v", a)
	}
	if a.Difference < 2.49 || a.Difference > 2.51 {
		t.Errorf("difference = %v, expected 2.5", a.Difference)
	}
	if a.Note != "computed yield is 2.50% above market" {
		t.Errorf("note = %q", a.Note)
	}

	for name, est := range map[string]Estimator{"nil": nil, "failing": failingEstimator{}} {
		a := Annotate(context.Background(), nil, est, res, Specs{})
		if a.Available || a.Note != "unavailable" {
			t.Errorf("%s: expected unavailable annotation, got %+v", name, a)
		}
		if a.ComputedYield != 6.8 {
			t.Errorf("%s: computed yield = %v, expected 6.8", name, a.ComputedYield)
		}
	}
}

func TestFromConfig(t *testing.T) {
	tests := []struct {
		name    string
		conf    config.EstimatorConfig
		wantNil bool
		wantErr bool
	}{
		{name: "disabled", conf: config.EstimatorConfig{Type: "none"}, wantNil: true},
		{name: "empty", conf: config.EstimatorConfig{}, wantNil: true},
		{name: "static", conf: config.EstimatorConfig{Type: "static", MarketYield: 4}},
		{name: "http", conf: config.EstimatorConfig{Type: "http", URL: "http://localhost:1"}},
		{name: "http without url", conf: config.EstimatorConfig{Type: "http"}, wantErr: true},
		{name: "unknown", conf: config.EstimatorConfig{Type: "oracle"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			est, err := FromConfig(tt.conf)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FromConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && (est == nil) != tt.wantNil {
				t.Errorf("FromConfig() = %v, wantNil %v", est, tt.wantNil)
			}
		})
	}
}
