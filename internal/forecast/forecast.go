// Package forecast runs the calculation pipeline for the configured
// scenarios and attaches advisory annotations to each result.
package forecast

import (
	"context"
	"fmt"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/estimate"
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"github.com/iwvelando/property-forecast/pkg/optimization"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Forecast holds all information related to a specific scenario.
type Forecast struct {
	Name     string                `json:"name"`
	Result   finance.Result        `json:"result"`
	Market   *estimate.Annotation  `json:"market,omitempty"`
	Capacity *optimization.Summary `json:"capacity,omitempty"`
}

// GetForecast calculates every active scenario in order, without market
// estimates.
func GetForecast(logger *zap.Logger, conf config.Configuration) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	table, err := conf.TaxTable()
	if err != nil {
		return nil, err
	}
	engine := finance.NewEngine(logger, table)

	var results []Forecast
	for _, scenario := range conf.Scenarios {
		if !scenario.Active {
			logger.Debug(fmt.Sprintf("skipping scenario %s because it is inactive", scenario.Name),
				zap.String("op", "forecast.GetForecast"),
			)
			continue
		}
		fc, err := calculate(engine, &conf, scenario)
		if err != nil {
			return results, err
		}
		results = append(results, fc)
	}
	return results, nil
}

// Compare calculates the active scenarios concurrently, at most limit at a
// time, and annotates each with a market estimate when est is not nil.
// Results keep the configuration order. A scenario that cannot be converted
// fails the whole comparison; an estimate failure never does.
func Compare(ctx context.Context, logger *zap.Logger, conf config.Configuration, est estimate.Estimator, limit int) ([]Forecast, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if limit <= 0 {
		limit = constants.DefaultCompareConcurrency
	}

	table, err := conf.TaxTable()
	if err != nil {
		return nil, err
	}
	engine := finance.NewEngine(logger, table)

	scenarios := conf.ActiveScenarios()
	results := make([]Forecast, len(scenarios))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, scenario := range scenarios {
		g.Go(func() error {
			fc, err := calculate(engine, &conf, scenario)
			if err != nil {
				return err
			}
			if est != nil {
				annotation := estimate.Annotate(gctx, logger, est, fc.Result, estimate.Specs{
					Bedrooms:      scenario.Bedrooms,
					PurchasePrice: scenario.PurchasePrice,
				})
				fc.Market = &annotation
			}
			results[i] = fc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	logger.Debug("compared scenarios",
		zap.String("op", "forecast.Compare"),
		zap.Int("scenarios", len(results)),
		zap.Bool("estimates", est != nil),
	)
	return results, nil
}

func calculate(engine *finance.Engine, conf *config.Configuration, scenario config.Scenario) (Forecast, error) {
	in, err := conf.Inputs(scenario)
	if err != nil {
		return Forecast{}, err
	}
	return Forecast{Name: scenario.Name, Result: engine.Calculate(in)}, nil
}
