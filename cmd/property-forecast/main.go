// Command property-forecast evaluates residential investment properties:
// cash flow, tax effect, serviceability, growth and capital gains.
package main

import (
	"fmt"
	"os"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
)

// app carries the state shared by every subcommand once the root pre-run
// has loaded the configuration.
type app struct {
	configPath   string
	logLevel     string
	outputFormat string

	conf   *config.Configuration
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "property-forecast",
		Short:         "Investment property calculator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Annotations["skipConfig"] == "true" {
				return nil
			}
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&a.outputFormat, "output-format", "", "type of output override: pretty, csv, json")

	root.AddCommand(
		newCalculateCmd(a),
		newReportCmd(a),
		newCapacityCmd(a),
		newServeCmd(a),
		newScenariosCmd(a),
		newVersionCmd(),
	)
	return root
}

// load reads the configuration, builds the logger and reports warnings.
func (a *app) load() error {
	conf, err := config.LoadConfiguration(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", a.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, a.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	a.conf = conf
	a.logger = logger
	return nil
}

// format resolves the output format; the CLI flag takes precedence over the
// configuration.
func (a *app) format() (string, error) {
	outputFormat := a.conf.Output.Format
	if a.outputFormat != "" {
		outputFormat = a.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return "", err
	}
	return outputFormat, nil
}
