// Package config defines the data structures related to configuration and
// includes functions for loading, validating and converting it.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/tax"
	"github.com/iwvelando/property-forecast/pkg/validation"
	"github.com/spf13/viper"
)

// DateTimeLayout is the format expected in config files and is also the output
// date format.
const DateTimeLayout = constants.DateTimeLayout

// Configuration holds all configuration for property-forecast.
type Configuration struct {
	Common    Common          `yaml:"common" mapstructure:"common" json:"common"`
	Scenarios []Scenario      `yaml:"scenarios" mapstructure:"scenarios" json:"scenarios"`
	Logging   LoggingConfig   `yaml:"logging,omitempty" mapstructure:"logging" json:"logging,omitempty"`
	Output    OutputConfig    `yaml:"output,omitempty" mapstructure:"output" json:"output,omitempty"`
	Estimator EstimatorConfig `yaml:"estimator,omitempty" mapstructure:"estimator" json:"estimator,omitempty"`
	Store     StoreConfig     `yaml:"store,omitempty" mapstructure:"store" json:"store,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level" json:"level,omitempty"`                // debug, info, warn, error
	Format     string `yaml:"format,omitempty" mapstructure:"format" json:"format,omitempty"`             // json, console
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile" json:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format" json:"format,omitempty"` // pretty, csv, json
}

// EstimatorConfig selects the source of advisory market figures.
type EstimatorConfig struct {
	Type           string  `yaml:"type,omitempty" mapstructure:"type" json:"type,omitempty"` // none, static, http
	URL            string  `yaml:"url,omitempty" mapstructure:"url" json:"url,omitempty"`
	TimeoutSeconds int     `yaml:"timeoutSeconds,omitempty" mapstructure:"timeoutSeconds" json:"timeoutSeconds,omitempty"`
	MarketYield    float64 `yaml:"marketYield,omitempty" mapstructure:"marketYield" json:"marketYield,omitempty"`
	MedianRent     float64 `yaml:"medianRent,omitempty" mapstructure:"medianRent" json:"medianRent,omitempty"`
}

// StoreConfig locates the saved-scenario file.
type StoreConfig struct {
	Path string `yaml:"path,omitempty" mapstructure:"path" json:"path,omitempty"`
}

// Common holds the household, tax and modelling settings shared by every
// scenario.
type Common struct {
	Investors []Investor `yaml:"investors" mapstructure:"investors" json:"investors"`
	Household Household  `yaml:"household" mapstructure:"household" json:"household"`
	Holdings  []Holding  `yaml:"holdings,omitempty" mapstructure:"holdings" json:"holdings,omitempty"`
	TaxTable  TaxTable   `yaml:"taxTable,omitempty" mapstructure:"taxTable" json:"taxTable,omitempty"`
	Options   Options    `yaml:"options,omitempty" mapstructure:"options" json:"options,omitempty"`
}

// Investor is one owner and their income.
type Investor struct {
	Name           string  `yaml:"name" mapstructure:"name" json:"name"`
	TaxableIncome  float64 `yaml:"taxableIncome" mapstructure:"taxableIncome" json:"taxableIncome"`
	OwnershipShare float64 `yaml:"ownershipShare" mapstructure:"ownershipShare" json:"ownershipShare"`
	NetPay         float64 `yaml:"netPay" mapstructure:"netPay" json:"netPay"`
	PayFrequency   string  `yaml:"payFrequency,omitempty" mapstructure:"payFrequency" json:"payFrequency,omitempty"`
}

// Household holds monthly living costs and existing debt repayments.
type Household struct {
	LivingExpenses   float64 `yaml:"livingExpenses" mapstructure:"livingExpenses" json:"livingExpenses"`
	ExistingMortgage float64 `yaml:"existingMortgage,omitempty" mapstructure:"existingMortgage" json:"existingMortgage,omitempty"`
	CarLoan          float64 `yaml:"carLoan,omitempty" mapstructure:"carLoan" json:"carLoan,omitempty"`
	CreditCard       float64 `yaml:"creditCard,omitempty" mapstructure:"creditCard" json:"creditCard,omitempty"`
	OtherDebts       float64 `yaml:"otherDebts,omitempty" mapstructure:"otherDebts" json:"otherDebts,omitempty"`
}

// Holding is an existing property, with monthly figures.
type Holding struct {
	Name            string  `yaml:"name" mapstructure:"name" json:"name"`
	Value           float64 `yaml:"value" mapstructure:"value" json:"value"`
	Debt            float64 `yaml:"debt" mapstructure:"debt" json:"debt"`
	MonthlyRent     float64 `yaml:"monthlyRent,omitempty" mapstructure:"monthlyRent" json:"monthlyRent,omitempty"`
	MonthlyLoanCost float64 `yaml:"monthlyLoanCost,omitempty" mapstructure:"monthlyLoanCost" json:"monthlyLoanCost,omitempty"`
	MonthlyExpenses float64 `yaml:"monthlyExpenses,omitempty" mapstructure:"monthlyExpenses" json:"monthlyExpenses,omitempty"`
}

// TaxTable overrides the default resident tax brackets.
type TaxTable struct {
	Name     string        `yaml:"name,omitempty" mapstructure:"name" json:"name,omitempty"`
	Brackets []tax.Bracket `yaml:"brackets,omitempty" mapstructure:"brackets" json:"brackets,omitempty"`
}

// Options switch the modelling simplifications.
type Options struct {
	InterestMethod              string  `yaml:"interestMethod,omitempty" mapstructure:"interestMethod" json:"interestMethod,omitempty"`
	CostBaseIncludesAcquisition bool    `yaml:"costBaseIncludesAcquisition,omitempty" mapstructure:"costBaseIncludesAcquisition" json:"costBaseIncludesAcquisition,omitempty"`
	AmortizeProjectionBalances  bool    `yaml:"amortizeProjectionBalances,omitempty" mapstructure:"amortizeProjectionBalances" json:"amortizeProjectionBalances,omitempty"`
	StressMargin                float64 `yaml:"stressMargin,omitempty" mapstructure:"stressMargin" json:"stressMargin,omitempty"`
	MortgageBuffer              float64 `yaml:"mortgageBuffer,omitempty" mapstructure:"mortgageBuffer" json:"mortgageBuffer,omitempty"`
	RentalShading               float64 `yaml:"rentalShading,omitempty" mapstructure:"rentalShading" json:"rentalShading,omitempty"`
}

// Scenario is one candidate property.
type Scenario struct {
	Name           string           `yaml:"name" mapstructure:"name" json:"name"`
	Active         bool             `yaml:"active" mapstructure:"active" json:"active"`
	Address        string           `yaml:"address,omitempty" mapstructure:"address" json:"address,omitempty"`
	PurchasePrice  float64          `yaml:"purchasePrice" mapstructure:"purchasePrice" json:"purchasePrice"`
	SettlementDate string           `yaml:"settlementDate,omitempty" mapstructure:"settlementDate" json:"settlementDate,omitempty"`
	Bedrooms       int              `yaml:"bedrooms,omitempty" mapstructure:"bedrooms" json:"bedrooms,omitempty"`
	Costs          AcquisitionCosts `yaml:"costs" mapstructure:"costs" json:"costs"`
	Rent           Rent             `yaml:"rent" mapstructure:"rent" json:"rent"`
	Expenses       Expenses         `yaml:"expenses" mapstructure:"expenses" json:"expenses"`
	Loan           Loan             `yaml:"loan" mapstructure:"loan" json:"loan"`
	Depreciation   Depreciation     `yaml:"depreciation,omitempty" mapstructure:"depreciation" json:"depreciation,omitempty"`
	Projection     Projection       `yaml:"projection" mapstructure:"projection" json:"projection"`
	// Investors overrides the common investors for this scenario only.
	Investors []Investor      `yaml:"investors,omitempty" mapstructure:"investors" json:"investors,omitempty"`
	Capacity  *CapacityConfig `yaml:"capacity,omitempty" mapstructure:"capacity" json:"capacity,omitempty"`
}

// AcquisitionCosts are the one-off entry costs.
type AcquisitionCosts struct {
	StampDuty       float64 `yaml:"stampDuty" mapstructure:"stampDuty" json:"stampDuty"`
	LegalFees       float64 `yaml:"legalFees,omitempty" mapstructure:"legalFees" json:"legalFees,omitempty"`
	BuildingAndPest float64 `yaml:"buildingAndPest,omitempty" mapstructure:"buildingAndPest" json:"buildingAndPest,omitempty"`
	LoanSetup       float64 `yaml:"loanSetup,omitempty" mapstructure:"loanSetup" json:"loanSetup,omitempty"`
	BuyersAgent     float64 `yaml:"buyersAgent,omitempty" mapstructure:"buyersAgent" json:"buyersAgent,omitempty"`
	OtherCosts      float64 `yaml:"otherCosts,omitempty" mapstructure:"otherCosts" json:"otherCosts,omitempty"`
}

// Rent is the advertised rent and the expected vacancy percentage.
type Rent struct {
	Amount      float64 `yaml:"amount" mapstructure:"amount" json:"amount"`
	Period      string  `yaml:"period,omitempty" mapstructure:"period" json:"period,omitempty"`
	VacancyRate float64 `yaml:"vacancyRate,omitempty" mapstructure:"vacancyRate" json:"vacancyRate,omitempty"`
}

// Expenses are monthly running costs.
type Expenses struct {
	ManagementFee     float64 `yaml:"managementFee,omitempty" mapstructure:"managementFee" json:"managementFee,omitempty"`
	ManagementFeeRate float64 `yaml:"managementFeeRate,omitempty" mapstructure:"managementFeeRate" json:"managementFeeRate,omitempty"`
	Strata            float64 `yaml:"strata,omitempty" mapstructure:"strata" json:"strata,omitempty"`
	Insurance         float64 `yaml:"insurance,omitempty" mapstructure:"insurance" json:"insurance,omitempty"`
	Rates             float64 `yaml:"rates,omitempty" mapstructure:"rates" json:"rates,omitempty"`
	Maintenance       float64 `yaml:"maintenance,omitempty" mapstructure:"maintenance" json:"maintenance,omitempty"`
	Water             float64 `yaml:"water,omitempty" mapstructure:"water" json:"water,omitempty"`
	Other             float64 `yaml:"other,omitempty" mapstructure:"other" json:"other,omitempty"`
}

// Loan is the investment loan, sized as a fraction of the price.
type Loan struct {
	LVR          float64     `yaml:"lvr" mapstructure:"lvr" json:"lvr"`
	InterestRate float64     `yaml:"interestRate" mapstructure:"interestRate" json:"interestRate"`
	TermYears    int         `yaml:"termYears" mapstructure:"termYears" json:"termYears"`
	Mode         string      `yaml:"mode,omitempty" mapstructure:"mode" json:"mode,omitempty"`
	EquityLoan   *EquityLoan `yaml:"equityLoan,omitempty" mapstructure:"equityLoan" json:"equityLoan,omitempty"`
}

// EquityLoan funds the deposit from equity in another property.
type EquityLoan struct {
	Principal    float64 `yaml:"principal" mapstructure:"principal" json:"principal"`
	InterestRate float64 `yaml:"interestRate" mapstructure:"interestRate" json:"interestRate"`
}

// Depreciation holds the annual Div 43 and Div 40 deductions.
type Depreciation struct {
	CapitalWorks   float64 `yaml:"capitalWorks,omitempty" mapstructure:"capitalWorks" json:"capitalWorks,omitempty"`
	PlantEquipment float64 `yaml:"plantEquipment,omitempty" mapstructure:"plantEquipment" json:"plantEquipment,omitempty"`
}

// Projection controls growth and the notional sale.
type Projection struct {
	GrowthRate      float64  `yaml:"growthRate" mapstructure:"growthRate" json:"growthRate"`
	HoldingPeriod   int      `yaml:"holdingPeriod" mapstructure:"holdingPeriod" json:"holdingPeriod"`
	MarginalTaxRate float64  `yaml:"marginalTaxRate" mapstructure:"marginalTaxRate" json:"marginalTaxRate"`
	CGTDiscount     *float64 `yaml:"cgtDiscount,omitempty" mapstructure:"cgtDiscount" json:"cgtDiscount,omitempty"`
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("estimator.type", "none")
	v.SetDefault("estimator.timeoutSeconds", constants.DefaultEstimatorTimeoutSeconds)
	v.SetDefault("store.path", constants.DefaultStoreFile)
	v.SetDefault("common.options.interestMethod", constants.InterestMethodFlat)
	v.SetDefault("common.options.stressMargin", constants.DefaultStressMargin)
	v.SetDefault("common.options.mortgageBuffer", constants.DefaultMortgageBuffer)
	v.SetDefault("common.options.rentalShading", constants.DefaultRentalShading)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a configuration from r. configType is a
// viper type such as "yaml" or "json".
func LoadConfigurationFromReader(r io.Reader, configType string) (*Configuration, error) {
	if configType == "" {
		configType = "yaml"
	}
	v := newViper()
	v.SetConfigType(configType)

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading configuration, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	return &configuration, nil
}

// ActiveScenarios returns the scenarios flagged active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, s := range c.Scenarios {
		if s.Active {
			active = append(active, s)
		}
	}
	return active
}

// FindScenario returns the scenario with the given name.
func (c *Configuration) FindScenario(name string) (Scenario, bool) {
	for _, s := range c.Scenarios {
		if s.Name == name {
			return s, true
		}
	}
	return Scenario{}, false
}

// TaxTable builds the configured tax table, or the default one when no
// brackets are configured.
func (c *Configuration) TaxTable() (*tax.Table, error) {
	if len(c.Common.TaxTable.Brackets) == 0 {
		return tax.Default(), nil
	}
	name := c.Common.TaxTable.Name
	if name == "" {
		name = "custom"
	}
	table, err := tax.NewTable(name, c.Common.TaxTable.Brackets)
	if err != nil {
		return nil, fmt.Errorf("invalid tax table: %w", err)
	}
	return table, nil
}

// Validate returns an error for settings that make a calculation impossible.
func (c *Configuration) Validate() error {
	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			return err
		}
	}
	if err := validation.ValidateInterestMethod(c.Common.Options.InterestMethod); err != nil {
		return err
	}
	if _, err := c.TaxTable(); err != nil {
		return err
	}
	for _, s := range c.ActiveScenarios() {
		if _, err := c.Inputs(s); err != nil {
			return err
		}
		if s.Capacity != nil {
			if err := s.Capacity.Validate(); err != nil {
				return fmt.Errorf("scenario %s: %w", s.Name, err)
			}
		}
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	cv := validation.ConfigValidator{
		Common: validation.CommonConfig{Shares: shares(c.Common.Investors)},
	}
	for _, s := range c.Scenarios {
		cv.Scenarios = append(cv.Scenarios, validation.ScenarioConfig{
			Name:           s.Name,
			Active:         s.Active,
			Shares:         shares(s.Investors),
			VacancyRate:    s.Rent.VacancyRate,
			LVR:            s.Loan.LVR,
			InterestRate:   s.Loan.InterestRate,
			TermYears:      s.Loan.TermYears,
			SettlementDate: s.SettlementDate,
			HoldingPeriod:  s.Projection.HoldingPeriod,
			GrowthRate:     s.Projection.GrowthRate,
		})
	}
	return cv.ValidateAll()
}

func shares(investors []Investor) []float64 {
	if len(investors) == 0 {
		return nil
	}
	out := make([]float64, len(investors))
	for i, inv := range investors {
		out[i] = inv.OwnershipShare
	}
	return out
}
