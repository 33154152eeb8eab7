// Package estimate fetches advisory market figures for a property. Figures
// are compared against a calculated result and never change it.
package estimate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"github.com/iwvelando/property-forecast/pkg/format"
	"go.uber.org/zap"
)

// Specs describe the property being estimated.
type Specs struct {
	Bedrooms      int
	PurchasePrice float64
}

// Estimate is a market figure from an external source.
type Estimate struct {
	Source string `json:"source"`
	// MarketYield is a gross yield percentage.
	MarketYield float64 `json:"marketYield"`
	MedianRent  float64 `json:"medianRent,omitempty"`
}

// Estimator looks up market figures for an address.
type Estimator interface {
	Estimate(ctx context.Context, address string, specs Specs) (*Estimate, error)
}

// Annotation is the read-only comparison attached to a result.
type Annotation struct {
	Available     bool    `json:"available"`
	Source        string  `json:"source,omitempty"`
	MarketYield   float64 `json:"marketYield,omitempty"`
	ComputedYield float64 `json:"computedYield"`
	Difference    float64 `json:"difference,omitempty"`
	Note          string  `json:"note"`
}

// Static returns fixed figures, typically from configuration.
type Static struct {
	Figures Estimate
}

// Estimate returns the configured figures.
func (s Static) Estimate(_ context.Context, _ string, _ Specs) (*Estimate, error) {
	e := s.Figures
	if e.Source == "" {
		e.Source = "static"
	}
	return &e, nil
}

// HTTPEstimator queries a JSON endpoint: GET {URL}?address=..&bedrooms=..&price=..
type HTTPEstimator struct {
	URL    string
	client *http.Client
}

// NewHTTPEstimator creates an estimator with the given request timeout.
func NewHTTPEstimator(endpoint string, timeout time.Duration) *HTTPEstimator {
	if timeout <= 0 {
		timeout = constants.DefaultEstimatorTimeoutSeconds * time.Second
	}
	return &HTTPEstimator{
		URL: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Estimate fetches and decodes the market figures.
func (h *HTTPEstimator) Estimate(ctx context.Context, address string, specs Specs) (*Estimate, error) {
	q := url.Values{}
	q.Set("address", address)
	if specs.Bedrooms > 0 {
		q.Set("bedrooms", strconv.Itoa(specs.Bedrooms))
	}
	if specs.PurchasePrice > 0 {
		q.Set("price", strconv.FormatFloat(specs.PurchasePrice, 'f', 0, 64))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.URL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("estimate request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("estimate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, fmt.Errorf("estimate request: HTTP %d: %s", resp.StatusCode, string(body))
	}

	var e Estimate
	if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
		return nil, fmt.Errorf("decode estimate: %w", err)
	}
	if e.Source == "" {
		e.Source = req.URL.Host
	}
	return &e, nil
}

// FromConfig builds the configured estimator. It returns nil when estimates
// are disabled.
func FromConfig(c config.EstimatorConfig) (Estimator, error) {
	switch c.Type {
	case "", "none":
		return nil, nil
	case "static":
		return Static{Figures: Estimate{MarketYield: c.MarketYield, MedianRent: c.MedianRent}}, nil
	case "http":
		if c.URL == "" {
			return nil, fmt.Errorf("http estimator requires a url")
		}
		return NewHTTPEstimator(c.URL, time.Duration(c.TimeoutSeconds)*time.Second), nil
	default:
		return nil, fmt.Errorf("unknown estimator type %q", c.Type)
	}
}

// Annotate compares the computed gross yield with an estimate. Any failure
// yields an "unavailable" annotation and is logged at warn.
func Annotate(ctx context.Context, logger *zap.Logger, est Estimator, res finance.Result, specs Specs) Annotation {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := Annotation{ComputedYield: res.Yields.Gross, Note: "unavailable"}
	if est == nil {
		return a
	}

	e, err := est.Estimate(ctx, res.Address, specs)
	if err != nil || e == nil {
		logger.Warn("market estimate unavailable",
			zap.String("op", "estimate.Annotate"),
			zap.String("scenario", res.Name),
			zap.Error(err),
		)
		return a
	}

	a.Available = true
	a.Source = e.Source
	a.MarketYield = e.MarketYield
	a.Difference = res.Yields.Gross - e.MarketYield
	switch {
	case a.Difference > 0:
		a.Note = fmt.Sprintf("computed yield is %s above market", format.Percent(a.Difference))
	case a.Difference < 0:
		a.Note = fmt.Sprintf("computed yield is %s below market", format.Percent(-a.Difference))
	default:
		a.Note = "computed yield matches market"
	}
	return a
}
