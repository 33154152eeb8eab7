package loans

import (
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/mathutil"
	"go.uber.org/zap"
)

// Payment holds the values for a given monthly payment.
type Payment struct {
	Month              int     `json:"month"`
	Payment            float64 `json:"payment"`
	Principal          float64 `json:"principal"`
	Interest           float64 `json:"interest"`
	RemainingPrincipal float64 `json:"remainingPrincipal"`
}

// AmortizationScheduleGenerator provides utilities for generating loan amortization schedules
type AmortizationScheduleGenerator struct {
	logger *zap.Logger
}

// NewAmortizationScheduleGenerator creates a new generator instance
func NewAmortizationScheduleGenerator(logger *zap.Logger) *AmortizationScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AmortizationScheduleGenerator{logger: logger}
}

// Schedule generates a schedule without logging.
func Schedule(terms Terms) []Payment {
	return NewAmortizationScheduleGenerator(nil).GenerateSchedule(terms)
}

// GenerateSchedule creates the month-by-month schedule for the full term.
// Interest-only loans keep the principal outstanding at the end of the term.
func (g *AmortizationScheduleGenerator) GenerateSchedule(terms Terms) []Payment {
	months := terms.TermMonths()
	if months <= 0 || terms.Principal == 0 {
		g.logger.Debug("empty amortization schedule",
			zap.String("op", "loans.GenerateSchedule"),
			zap.Float64("principal", terms.Principal),
			zap.Int("termMonths", months),
		)
		return nil
	}

	schedule := make([]Payment, 0, months)
	remaining := terms.Principal
	monthly := Amortize(terms).MonthlyPayment

	for month := 1; month <= months; month++ {
		interest := CalculateInterestPayment(remaining, terms.InterestRate)
		var current Payment
		current.Month = month
		current.Interest = interest

		if terms.Mode == InterestOnly {
			current.Payment = interest
			current.RemainingPrincipal = remaining
			schedule = append(schedule, current)
			continue
		}

		current.Payment = monthly
		current.Principal = monthly - interest
		if month == months || mathutil.Round(remaining-current.Principal) == 0 {
			// We will get machine error otherwise so just settle the balance.
			current.Principal = remaining
			current.Payment = remaining + interest
			current.RemainingPrincipal = 0
			schedule = append(schedule, current)
			break
		}
		remaining -= current.Principal
		current.RemainingPrincipal = remaining
		schedule = append(schedule, current)
	}

	g.logger.Debug("generated amortization schedule",
		zap.String("op", "loans.GenerateSchedule"),
		zap.String("mode", string(terms.Mode)),
		zap.Int("payments", len(schedule)),
		zap.Float64("monthlyPayment", monthly),
	)
	return schedule
}

// FirstYearInterest sums the interest of the first twelve payments.
func FirstYearInterest(schedule []Payment) float64 {
	total := 0.0
	for i := 0; i < len(schedule) && i < constants.MonthsPerYear; i++ {
		total += schedule[i].Interest
	}
	return total
}

// TotalInterest sums the interest over the whole schedule.
func TotalInterest(schedule []Payment) float64 {
	total := 0.0
	for _, p := range schedule {
		total += p.Interest
	}
	return total
}

// TotalPaid sums every payment in the schedule.
func TotalPaid(schedule []Payment) float64 {
	total := 0.0
	for _, p := range schedule {
		total += p.Payment
	}
	return total
}

// BalanceAfter returns the principal outstanding after the given number of
// payments. A balance past the end of the schedule is the final balance.
func BalanceAfter(schedule []Payment, months int) float64 {
	if len(schedule) == 0 {
		return 0
	}
	if months <= 0 {
		first := schedule[0]
		return first.RemainingPrincipal + first.Principal
	}
	if months > len(schedule) {
		months = len(schedule)
	}
	return schedule[months-1].RemainingPrincipal
}
