package finance

import (
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/datetime"
	"github.com/iwvelando/property-forecast/pkg/loans"
	"github.com/iwvelando/property-forecast/pkg/mathutil"
	"github.com/iwvelando/property-forecast/pkg/tax"
	"go.uber.org/zap"
)

// LoanInputs describe the investment loan and an optional equity loan.
type LoanInputs struct {
	// LVR is the loan-to-value ratio as a fraction of the purchase price.
	LVR          float64
	InterestRate float64
	TermYears    int
	Mode         loans.Mode
	EquityLoan   *EquityLoanInputs
}

// EquityLoanInputs describe a loan drawn against other property to fund the
// deposit. It is always amortized over 30 years.
type EquityLoanInputs struct {
	Principal    float64
	InterestRate float64
}

// Depreciation holds the annual non-cash deductions.
type Depreciation struct {
	CapitalWorks   float64 // Div 43
	PlantEquipment float64 // Div 40
}

// Total returns the combined depreciation deduction.
func (d Depreciation) Total() float64 {
	return d.CapitalWorks + d.PlantEquipment
}

// ProjectionInputs control the growth projection and the notional sale.
type ProjectionInputs struct {
	GrowthRate      float64
	HoldingPeriod   int
	MarginalTaxRate float64
	CGTDiscount     float64
	// SettlementDate is optional, formatted as 2006-01.
	SettlementDate string
}

// Options switch the modelling simplifications on or off. A zero
// MortgageBuffer or RentalShading selects the default, but StressMargin is
// used as given: a zero-value Options assesses the loan at its actual rate.
// Start from DefaultOptions for the standard +3.0 point assessment.
type Options struct {
	InterestMethod              string
	CostBaseIncludesAcquisition bool
	AmortizeProjectionBalances  bool
	StressMargin                float64
	MortgageBuffer              float64
	RentalShading               float64
}

// DefaultOptions returns the standard assumptions.
func DefaultOptions() Options {
	return Options{
		InterestMethod: constants.InterestMethodFlat,
		StressMargin:   constants.DefaultStressMargin,
		MortgageBuffer: constants.DefaultMortgageBuffer,
		RentalShading:  constants.DefaultRentalShading,
	}
}

// withDefaults fills options that have no meaningful zero value. The stress
// margin is kept as given since zero is a valid assessment.
func (o Options) withDefaults() Options {
	if o.InterestMethod == "" {
		o.InterestMethod = constants.InterestMethodFlat
	}
	if o.MortgageBuffer == 0 {
		o.MortgageBuffer = constants.DefaultMortgageBuffer
	}
	if o.RentalShading == 0 {
		o.RentalShading = constants.DefaultRentalShading
	}
	return o
}

// Inputs is everything needed for one calculation run.
type Inputs struct {
	Name         string
	Address      string
	Acquisition  AcquisitionInputs
	Income       IncomeInputs
	Expenses     ExpenseInputs
	Loan         LoanInputs
	Depreciation Depreciation
	Investors    []Investor
	Projection   ProjectionInputs
	Household    Household
	// Holdings are the existing properties, summarized with this one.
	Holdings []Holding
	Options  Options
}

// CoreLoanTerms returns the terms of the investment loan.
func (in Inputs) CoreLoanTerms() loans.Terms {
	return loans.Terms{
		Principal:    in.Acquisition.PurchasePrice * in.Loan.LVR,
		InterestRate: in.Loan.InterestRate,
		TermYears:    in.Loan.TermYears,
		Mode:         in.Loan.Mode,
	}
}

// LoanTerms returns the core loan followed by the equity loan, if any.
func (in Inputs) LoanTerms() []loans.Terms {
	terms := []loans.Terms{in.CoreLoanTerms()}
	if eq := in.Loan.EquityLoan; eq != nil && eq.Principal != 0 {
		terms = append(terms, loans.EquityLoanTerms(eq.Principal, eq.InterestRate))
	}
	return terms
}

// LoanSummary aggregates the loans funding the purchase.
type LoanSummary struct {
	Amount                  float64         `json:"amount"`
	Core                    loans.Breakdown `json:"core"`
	EquityAmount            float64         `json:"equityAmount"`
	Equity                  loans.Breakdown `json:"equity"`
	TotalMonthlyRepayment   float64         `json:"totalMonthlyRepayment"`
	TotalAnnualRepayment    float64         `json:"totalAnnualRepayment"`
	TotalDeductibleInterest float64         `json:"totalDeductibleInterest"`
}

// Yields are percentages of the purchase price.
type Yields struct {
	Gross float64 `json:"gross"`
	Net   float64 `json:"net"`
}

// Result is the complete output of a calculation run.
type Result struct {
	Name           string           `json:"name"`
	Address        string           `json:"address,omitempty"`
	Acquisition    Acquisition      `json:"acquisition"`
	Income         Income           `json:"income"`
	Expenses       Expenses         `json:"expenses"`
	Loans          LoanSummary      `json:"loans"`
	Depreciation   float64          `json:"depreciation"`
	CashFlow       CashFlow         `json:"cashFlow"`
	Serviceability Serviceability   `json:"serviceability"`
	Yields         Yields           `json:"yields"`
	Projection     []ProjectionYear `json:"projection"`
	SaleDate       string           `json:"saleDate,omitempty"`
	CGT            CGT              `json:"cgt"`
	Portfolio      *Portfolio       `json:"portfolio,omitempty"`
}

// Engine runs the calculation pipeline against a tax table.
type Engine struct {
	logger *zap.Logger
	table  *tax.Table
}

// NewEngine creates an engine. A nil logger is replaced by a no-op logger
// and a nil table by the default resident table.
func NewEngine(logger *zap.Logger, table *tax.Table) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	if table == nil {
		table = tax.Default()
	}
	return &Engine{logger: logger, table: table}
}

// Calculate runs the pipeline with a silent engine.
func Calculate(in Inputs, table *tax.Table) Result {
	return NewEngine(nil, table).Calculate(in)
}

// Calculate runs every stage for one set of inputs. It never fails: invalid
// domains are the caller's concern and non-finite inputs propagate.
func (e *Engine) Calculate(in Inputs) Result {
	opts := in.Options.withDefaults()
	price := in.Acquisition.PurchasePrice

	res := Result{Name: in.Name, Address: in.Address}
	res.Acquisition = AggregateAcquisition(in.Acquisition)
	res.Income = AggregateIncome(in.Income.RentAmount, in.Income.RentPeriod, in.Income.VacancyRate)
	res.Expenses = AggregateExpenses(in.Expenses, res.Income.MonthlyRent)

	core := in.CoreLoanTerms()
	res.Loans.Amount = core.Principal
	res.Loans.Core = loans.Amortize(core)
	res.Loans.TotalDeductibleInterest = loans.DeductibleInterest(core, opts.InterestMethod)
	terms := in.LoanTerms()
	if len(terms) > 1 {
		equity := terms[1]
		res.Loans.EquityAmount = equity.Principal
		res.Loans.Equity = loans.Amortize(equity)
		res.Loans.TotalDeductibleInterest += loans.DeductibleInterest(equity, opts.InterestMethod)
	}
	res.Loans.TotalMonthlyRepayment = res.Loans.Core.MonthlyPayment + res.Loans.Equity.MonthlyPayment
	res.Loans.TotalAnnualRepayment = res.Loans.Core.AnnualPayment + res.Loans.Equity.AnnualPayment

	res.Depreciation = in.Depreciation.Total()
	res.CashFlow = ComputeCashFlow(CashFlowInputs{
		AnnualGrossIncome:   res.Income.AnnualGrossIncome,
		OperatingExpenses:   res.Expenses.Annual,
		AnnualDebtRepayment: res.Loans.TotalAnnualRepayment,
		DeductibleInterest:  res.Loans.TotalDeductibleInterest,
		Depreciation:        res.Depreciation,
	}, in.Investors, e.table.Tax)
	for i, inv := range in.Investors {
		income := inv.TaxableIncome + res.CashFlow.Investors[i].PropertyIncome
		if income < 0 {
			income = 0
		}
		res.CashFlow.Investors[i].MarginalRate = e.table.MarginalRate(income)
	}

	salaries := make([]float64, 0, len(in.Investors))
	for _, inv := range in.Investors {
		salaries = append(salaries, MonthlyNetPay(inv.NetPay, inv.PayFrequency))
	}
	res.Serviceability = EvaluateServiceability(ServiceabilityInputs{
		NetSalaries:             salaries,
		MonthlyRent:             res.Income.MonthlyRent,
		MonthlyPropertyExpenses: res.Expenses.Monthly,
		Loans:                   terms,
		Household:               in.Household,
		StressMargin:            opts.StressMargin,
		RentalShading:           opts.RentalShading,
		MortgageBuffer:          opts.MortgageBuffer,
	})

	res.Yields = Yields{
		Gross: mathutil.SafeDivide(res.Income.AnnualRent, price) * constants.PercentageMultiplier,
		Net:   mathutil.SafeDivide(res.CashFlow.NetOperatingIncome, price) * constants.PercentageMultiplier,
	}

	res.Projection = e.project(in, terms, opts)

	costBase := price
	if opts.CostBaseIncludesAcquisition {
		costBase = res.Acquisition.TotalCostBase
	}
	salePrice := ValueAt(price, in.Projection.GrowthRate, in.Projection.HoldingPeriod)
	res.CGT = ComputeCGT(salePrice, costBase, in.Projection.CGTDiscount, in.Projection.MarginalTaxRate)

	if in.Projection.SettlementDate != "" {
		saleDate, err := datetime.AddYears(in.Projection.SettlementDate, in.Projection.HoldingPeriod)
		if err != nil {
			e.logger.Warn("ignoring invalid settlement date",
				zap.String("op", "finance.Calculate"),
				zap.String("scenario", in.Name),
				zap.Error(err),
			)
		} else {
			res.SaleDate = saleDate
		}
	}

	if len(in.Holdings) > 0 {
		holdings := append(append([]Holding(nil), in.Holdings...), Holding{
			Name:            in.Name,
			Value:           price,
			Debt:            res.Loans.Amount + res.Loans.EquityAmount,
			MonthlyRent:     res.Income.MonthlyRent,
			MonthlyLoanCost: res.Loans.TotalMonthlyRepayment,
			MonthlyExpenses: res.Expenses.Monthly,
		})
		portfolio := SummarizePortfolio(holdings)
		res.Portfolio = &portfolio
	}

	e.logger.Debug("calculated scenario",
		zap.String("op", "finance.Calculate"),
		zap.String("scenario", in.Name),
		zap.Float64("preTaxCashFlow", res.CashFlow.PreTax),
		zap.Float64("postTaxCashFlow", res.CashFlow.PostTax),
		zap.Bool("negativelyGeared", res.CashFlow.NegativelyGeared()),
		zap.Bool("bankAssessedDeficit", res.Serviceability.BankAssessed.Deficit),
	)
	return res
}

func (e *Engine) project(in Inputs, terms []loans.Terms, opts Options) []ProjectionYear {
	p := in.Projection
	price := in.Acquisition.PurchasePrice

	var balance BalanceFunc
	if opts.AmortizeProjectionBalances {
		generator := loans.NewAmortizationScheduleGenerator(e.logger)
		schedules := make([][]loans.Payment, 0, len(terms))
		for _, t := range terms {
			schedules = append(schedules, generator.GenerateSchedule(t))
		}
		balance = func(year int) float64 {
			total := 0.0
			for _, s := range schedules {
				total += loans.BalanceAfter(s, year*constants.MonthsPerYear)
			}
			return total
		}
	} else {
		principals := make([]float64, 0, len(terms))
		for _, t := range terms {
			principals = append(principals, t.Principal)
		}
		balance = ConstantBalance(principals...)
	}

	startYear := 0
	if p.SettlementDate != "" {
		if y, err := datetime.Year(p.SettlementDate); err == nil {
			startYear = y
		}
	}

	years := make([]ProjectionYear, 0, max(p.HoldingPeriod, 0))
	for py := range ProjectWithBalances(price, p.GrowthRate, p.HoldingPeriod, balance) {
		if startYear > 0 {
			py.CalendarYear = startYear + py.Year
		}
		years = append(years, py)
	}
	return years
}
