// Package constants provides shared constants for the property-forecast application.
package constants

// DateTimeLayout is the format expected for settlement dates in config files
// and is also the output date format.
const DateTimeLayout = "2006-01"

// Calendar constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// WeeksPerYear is the number of rent weeks in a year
	WeeksPerYear = 52

	// FortnightsPerYear is the number of fortnightly pay cycles in a year
	FortnightsPerYear = 26

	// DecimalPlaces is the number of places currency values are rounded to
	DecimalPlaces = 2

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Lending and tax constants
const (
	// EquityLoanTermYears is the fixed amortization term of an equity-release loan
	EquityLoanTermYears = 30

	// DefaultRentalShading is the fraction of rent a lender counts as income
	DefaultRentalShading = 0.80

	// DefaultStressMargin is the assessment buffer in percentage points added
	// to the loan rate for serviceability
	DefaultStressMargin = 3.0

	// DefaultMortgageBuffer inflates existing mortgage repayments during
	// serviceability assessment
	DefaultMortgageBuffer = 1.30

	// DefaultCGTDiscount is the fraction of a capital gain that remains taxable
	// for assets held longer than twelve months
	DefaultCGTDiscount = 0.5

	// DefaultHoldingPeriod is the default projection horizon in years
	DefaultHoldingPeriod = 10
)

// Interest methods used for the tax-deductible interest figure.
const (
	// InterestMethodFlat approximates first-year interest as principal x rate
	InterestMethodFlat = "flat"

	// InterestMethodSchedule sums the first twelve months of the amortization schedule
	InterestMethodSchedule = "schedule"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// DefaultStoreFile is the default saved-scenario store location
	DefaultStoreFile = "scenarios.yaml"

	// EnvPrefix is the prefix for environment variable overrides
	EnvPrefix = "PROPERTY"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultEstimatorTimeoutSeconds bounds a single advisory estimate call
	DefaultEstimatorTimeoutSeconds = 5

	// DefaultCompareConcurrency caps parallel scenario pipelines
	DefaultCompareConcurrency = 4
)

// Validation constants
const (
	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// OwnershipTolerance is the allowed deviation of summed ownership shares from 1
	OwnershipTolerance = 1e-6
)
