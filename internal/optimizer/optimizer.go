// Package optimizer searches for the highest purchase price a household can
// service under the bank's assessment.
package optimizer

import (
	"fmt"
	"math"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/pkg/finance"
	"github.com/iwvelando/property-forecast/pkg/format"
	"github.com/iwvelando/property-forecast/pkg/optimization"
	"github.com/iwvelando/property-forecast/pkg/tax"
	"go.uber.org/zap"
)

// FieldPurchasePrice names the searched input in summaries.
const FieldPurchasePrice = "purchasePrice"

// Runner evaluates a scenario at candidate purchase prices. Everything but
// the price is held fixed; the loan follows the price through the LVR.
type Runner struct {
	logger *zap.Logger
	inputs finance.Inputs
	engine *finance.Engine
}

type evaluation struct {
	value   float64
	surplus float64
	floor   float64
}

func (e evaluation) feasible() bool {
	return e.surplus >= e.floor
}

func (e evaluation) headroom() float64 {
	return e.surplus - e.floor
}

// NewRunner constructs a Runner for the provided inputs. A nil table uses
// the default brackets.
func NewRunner(logger *zap.Logger, inputs finance.Inputs, table *tax.Table) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		logger: logger,
		inputs: inputs,
		engine: finance.NewEngine(zap.NewNop(), table),
	}
}

// Surplus returns the bank-assessed monthly surplus at the given price.
func (r *Runner) Surplus(price float64) float64 {
	in := r.inputs
	in.Acquisition.PurchasePrice = price
	in.Holdings = nil
	return r.engine.Calculate(in).Serviceability.BankAssessed.Surplus
}

func (r *Runner) evaluate(price, floor float64) evaluation {
	return evaluation{value: price, surplus: r.Surplus(price), floor: floor}
}

// MaxPurchasePrice bisects between min and max for the highest price whose
// bank-assessed surplus stays at or above floor. The search stops once the
// bracket is narrower than tolerance or after maxIterations evaluations.
func (r *Runner) MaxPurchasePrice(minPrice, maxPrice, floor, tolerance float64, maxIterations int) optimization.Summary {
	summary := optimization.Summary{
		Scenario: r.inputs.Name,
		Field:    FieldPurchasePrice,
		Original: r.inputs.Acquisition.PurchasePrice,
		Floor:    floor,
	}

	lowerEval := r.evaluate(minPrice, floor)
	upperEval := r.evaluate(maxPrice, floor)

	finalEval := lowerEval
	iterations := 0

	switch {
	case !lowerEval.feasible() && !upperEval.feasible():
		if upperEval.headroom() > lowerEval.headroom() {
			finalEval = upperEval
		}
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"unable to keep a surplus of %s within bounds %s to %s",
			format.Currency(floor),
			format.Currency(minPrice),
			format.Currency(maxPrice),
		))
	case upperEval.feasible():
		finalEval = upperEval
		if !lowerEval.feasible() {
			// Surplus rising with price means the inputs are unusual; report
			// the upper bound as is.
			summary.Notes = append(summary.Notes, "surplus increases with price; upper bound returned")
		}
	default:
		lower := lowerEval.value
		upper := upperEval.value
		for iterations < maxIterations && math.Abs(upper-lower) > tolerance {
			mid := lower + (upper-lower)/2
			evalMid := r.evaluate(mid, floor)
			iterations++
			if evalMid.feasible() {
				finalEval = evalMid
				lower = mid
			} else {
				upper = mid
			}
		}
		if math.Abs(upper-lower) > tolerance {
			summary.Notes = append(summary.Notes, fmt.Sprintf("stopped after %d iterations", iterations))
		}
	}

	summary.Value = finalEval.value
	summary.ValueDisplay = format.Currency(finalEval.value)
	summary.Surplus = finalEval.surplus
	summary.Headroom = finalEval.headroom()
	summary.Iterations = iterations
	summary.Converged = summary.Feasible() && len(summary.Notes) == 0

	r.logger.Info("capacity search finished",
		zap.String("op", "optimizer.MaxPurchasePrice"),
		zap.String("scenario", summary.Scenario),
		zap.Float64("original", summary.Original),
		zap.Float64("value", summary.Value),
		zap.Float64("floor", summary.Floor),
		zap.Float64("surplus", summary.Surplus),
		zap.Int("iterations", summary.Iterations),
		zap.Bool("converged", summary.Converged),
	)
	return summary
}

// Run executes the search configured on every active scenario that carries
// a capacity block. Summaries are keyed by scenario name.
func Run(logger *zap.Logger, conf *config.Configuration) (map[string]optimization.Summary, error) {
	if conf == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}
	table, err := conf.TaxTable()
	if err != nil {
		return nil, err
	}

	summaries := make(map[string]optimization.Summary)
	for _, scenario := range conf.ActiveScenarios() {
		if scenario.Capacity == nil {
			continue
		}
		capacity := *scenario.Capacity
		if err := capacity.Validate(); err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		in, err := conf.Inputs(scenario)
		if err != nil {
			return nil, err
		}
		summaries[scenario.Name] = NewRunner(logger, in, table).MaxPurchasePrice(
			*capacity.Min, *capacity.Max, capacity.Floor, capacity.Tolerance, capacity.MaxIterations,
		)
	}
	return summaries, nil
}

// Apply attaches capacity summaries to the matching forecasts.
func Apply(summaries map[string]optimization.Summary, forecasts []forecast.Forecast) {
	for i := range forecasts {
		summary, ok := summaries[forecasts[i].Name]
		if !ok {
			continue
		}
		forecasts[i].Capacity = &summary
	}
}
