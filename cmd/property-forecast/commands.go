package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/iwvelando/property-forecast/internal/config"
	"github.com/iwvelando/property-forecast/internal/estimate"
	"github.com/iwvelando/property-forecast/internal/forecast"
	"github.com/iwvelando/property-forecast/internal/optimizer"
	"github.com/iwvelando/property-forecast/internal/report"
	"github.com/iwvelando/property-forecast/internal/server"
	"github.com/iwvelando/property-forecast/internal/store"
	"github.com/iwvelando/property-forecast/pkg/constants"
	"github.com/iwvelando/property-forecast/pkg/format"
	"github.com/iwvelando/property-forecast/pkg/jsonutil"
	"github.com/iwvelando/property-forecast/pkg/optimization"
	"github.com/iwvelando/property-forecast/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// forecasts runs every active scenario and attaches capacity summaries.
func (a *app) forecasts(ctx context.Context, withEstimates bool, limit int) ([]forecast.Forecast, error) {
	var est estimate.Estimator
	if withEstimates {
		var err error
		est, err = estimate.FromConfig(a.conf.Estimator)
		if err != nil {
			return nil, err
		}
	}

	results, err := forecast.Compare(ctx, a.logger, *a.conf, est, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to compute forecast: %w", err)
	}
	summaries, err := optimizer.Run(a.logger, a.conf)
	if err != nil {
		return nil, fmt.Errorf("capacity search failed: %w", err)
	}
	optimizer.Apply(summaries, results)
	return results, nil
}

func writeIndentedJSON(w io.Writer, v any) error {
	b, err := jsonutil.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}

func (a *app) store() *store.FileStore {
	path := a.conf.Store.Path
	if path == "" {
		path = constants.DefaultStoreFile
	}
	return store.NewFileStore(path)
}

func newCalculateCmd(a *app) *cobra.Command {
	var (
		withEstimates bool
		concurrency   int
	)
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate every active scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := a.format()
			if err != nil {
				return err
			}
			results, err := a.forecasts(cmd.Context(), withEstimates, concurrency)
			if err != nil {
				return err
			}
			return output.Write(cmd.OutOrStdout(), outputFormat, results)
		},
	}
	cmd.Flags().BoolVar(&withEstimates, "estimates", false, "annotate results with the configured market estimator")
	cmd.Flags().IntVar(&concurrency, "concurrency", constants.DefaultCompareConcurrency, "scenarios calculated in parallel")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var (
		outPath       string
		withEstimates bool
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Write a PDF report of every active scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := a.forecasts(cmd.Context(), withEstimates, constants.DefaultCompareConcurrency)
			if err != nil {
				return err
			}
			pdf, err := report.GeneratePDF(results, time.Now())
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, pdf, 0644); err != nil {
				return fmt.Errorf("failed to write report: %w", err)
			}
			a.logger.Info("report written",
				zap.String("op", "main.report"),
				zap.String("path", outPath),
				zap.Int("scenarios", len(results)),
			)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "o", "property-forecast.pdf", "report file path")
	cmd.Flags().BoolVar(&withEstimates, "estimates", false, "include market estimates")
	return cmd
}

func newCapacityCmd(a *app) *cobra.Command {
	var (
		minPrice, maxPrice, floor, tolerance float64
		maxIterations                        int
	)
	cmd := &cobra.Command{
		Use:   "capacity [scenario]",
		Short: "Find the highest purchase price the bank would service",
		Long: `Bisects over the purchase price of a scenario, holding everything else fixed,
for the highest price whose bank-assessed monthly surplus stays at or above
the floor. Bounds come from the scenario's capacity block; flags override them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, err := a.format()
			if err != nil {
				return err
			}

			scenarios := a.conf.ActiveScenarios()
			if len(args) == 1 {
				s, ok := a.conf.FindScenario(args[0])
				if !ok {
					return fmt.Errorf("no scenario named %q", args[0])
				}
				scenarios = []config.Scenario{s}
			}
			table, err := a.conf.TaxTable()
			if err != nil {
				return err
			}

			var summaries []optimization.Summary
			for _, s := range scenarios {
				c := config.CapacityConfig{}
				if s.Capacity != nil {
					c = *s.Capacity
				}
				if cmd.Flags().Changed("min") {
					c.Min = &minPrice
				}
				if cmd.Flags().Changed("max") {
					c.Max = &maxPrice
				}
				if cmd.Flags().Changed("floor") {
					c.Floor = floor
				}
				if cmd.Flags().Changed("tolerance") {
					c.Tolerance = tolerance
				}
				if cmd.Flags().Changed("max-iterations") {
					c.MaxIterations = maxIterations
				}
				if err := c.Validate(); err != nil {
					return fmt.Errorf("scenario %s: %w", s.Name, err)
				}
				in, err := a.conf.Inputs(s)
				if err != nil {
					return err
				}
				summaries = append(summaries, optimizer.NewRunner(a.logger, in, table).
					MaxPurchasePrice(*c.Min, *c.Max, c.Floor, c.Tolerance, c.MaxIterations))
			}

			out := cmd.OutOrStdout()
			if outputFormat == constants.OutputFormatJSON {
				return writeIndentedJSON(out, summaries)
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "Scenario\tCurrent price\tCapacity\tBank surplus\tIterations\tConverged")
			for _, s := range summaries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%t\n", s.Scenario,
					format.Currency(s.Original), s.ValueDisplay, format.Currency(s.Surplus), s.Iterations, s.Converged)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, s := range summaries {
				for _, note := range s.Notes {
					fmt.Fprintf(out, "%s: %s\n", s.Scenario, note)
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&minPrice, "min", 0, "lowest purchase price to consider")
	cmd.Flags().Float64Var(&maxPrice, "max", 0, "highest purchase price to consider")
	cmd.Flags().Float64Var(&floor, "floor", 0, "minimum bank-assessed monthly surplus")
	cmd.Flags().Float64Var(&tolerance, "tolerance", 0, "stop once the bracket is narrower than this")
	cmd.Flags().IntVar(&maxIterations, "max-iterations", 0, "bisection step limit")
	return cmd
}

func newServeCmd(a *app) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)
	cmd := &cobra.Command{
		Use:         "serve",
		Short:       "Start the HTTP API server",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfig": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			srvCfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				srvCfg.Address = address
			}
			if !cmd.Flags().Changed("config") && srvCfg.Config != "" {
				a.configPath = srvCfg.Config
			}
			if err := a.load(); err != nil {
				return err
			}
			if srvCfg.Logging.Level != "" || srvCfg.Logging.Format != "" || srvCfg.Logging.OutputFile != "" {
				logger, err := initializeLogger(srvCfg.Logging, a.logLevel)
				if err != nil {
					return fmt.Errorf("failed to initialize logger: %w", err)
				}
				a.logger = logger
			}

			est, err := estimate.FromConfig(a.conf.Estimator)
			if err != nil {
				return err
			}
			st := a.store()
			handler := server.NewHandler(a.logger, server.Options{
				MaxBodySize: srvCfg.BodySizeBytes(),
				Version:     version,
				Store:       st,
				Estimator:   est,
				Base:        a.conf,
			})

			httpSrv := &http.Server{
				Addr:              srvCfg.Address,
				Handler:           handler,
				ReadHeaderTimeout: 10 * time.Second,
				ReadTimeout:       30 * time.Second,
				WriteTimeout:      60 * time.Second,
				IdleTimeout:       60 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				a.logger.Info("server listening",
					zap.String("op", "main.serve"),
					zap.String("address", srvCfg.Address),
					zap.String("store", st.Path()),
				)
				if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			a.logger.Info("shutting down server", zap.String("op", "main.serve"))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override")
	return cmd
}

func newScenariosCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenarios",
		Short: "Manage saved scenarios",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List saved scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := a.store().List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tName\tSaved\tPrice")
			for _, rec := range records {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", rec.ID, rec.Name,
					rec.SavedAt.Format(time.RFC3339), format.Currency(rec.Scenario.PurchasePrice))
			}
			return tw.Flush()
		},
	}

	var label string
	save := &cobra.Command{
		Use:   "save <scenario>",
		Short: "Save a scenario from the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := a.conf.FindScenario(args[0])
			if !ok {
				return fmt.Errorf("no scenario named %q", args[0])
			}
			st := a.store()
			rec, err := st.Save(cmd.Context(), label, s)
			if err != nil {
				return err
			}
			a.logger.Info("scenario saved",
				zap.String("op", "main.scenarios.save"),
				zap.String("id", rec.ID),
				zap.String("store", st.Path()),
			)
			fmt.Fprintln(cmd.OutOrStdout(), rec.ID)
			return nil
		},
	}
	save.Flags().StringVar(&label, "as", "", "name to save the scenario under")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := a.store().Get(args[0])
			if err != nil {
				return err
			}
			if a.outputFormat == constants.OutputFormatJSON {
				return writeIndentedJSON(cmd.OutOrStdout(), rec)
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(rec); err != nil {
				return err
			}
			return enc.Close()
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved scenario",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.store().Delete(args[0])
		},
	}

	cmd.AddCommand(list, save, show, del)
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print version information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfig": "true"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "property-forecast %s\n", version)
			fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", commit)
		},
	}
}
