package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/design-loan-quote/internal/catalog"
	"github.com/iwvelando/design-loan-quote/internal/config"
	"github.com/iwvelando/design-loan-quote/internal/quote"
	"github.com/iwvelando/design-loan-quote/pkg/constants"
	"github.com/iwvelando/design-loan-quote/pkg/output"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type scheduleOptions struct {
	configPath   string
	outputFormat string
	design       string
	customer     string
	start        string
	preview      bool
}

var scheduleFlags scheduleOptions

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Print loan quotations for the designs in a catalog file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSchedule(cmd.Context(), cmd.OutOrStdout(), scheduleFlags)
	},
}

func init() {
	flags := scheduleCmd.Flags()
	flags.StringVar(&scheduleFlags.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&scheduleFlags.outputFormat, "output-format", "", "type of output override: pretty, csv, json, yaml")
	flags.StringVar(&scheduleFlags.design, "design", "", "quote only the design with this name")
	flags.StringVar(&scheduleFlags.customer, "customer", "", "customer name printed on the quotation")
	flags.StringVar(&scheduleFlags.start, "start", "", "first payment month (YYYY-MM)")
	flags.BoolVar(&scheduleFlags.preview, "preview", false, "limit schedules to the configured preview rows")
}

func runSchedule(ctx context.Context, w io.Writer, opts scheduleOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	conf.Output.Format = outputFormat

	warnings, err := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runSchedule"),
		)
	}
	if err != nil {
		return err
	}

	repo, err := catalog.Open(ctx, conf.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to open design repository: %w", err)
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Warn("failed to close design repository",
				zap.String("op", "main.runSchedule"),
				zap.Error(err),
			)
		}
	}()

	seeded, err := catalog.Seed(ctx, repo, conf.Designs)
	if err != nil {
		return fmt.Errorf("failed to load designs: %w", err)
	}
	logger.Debug("loaded designs",
		zap.String("op", "main.runSchedule"),
		zap.Int("seeded", seeded),
	)

	service := quote.NewService(repo, quote.NewBuilder(logger), conf.Output.PreviewRows)
	quotations, err := service.All(ctx, quote.Options{
		CustomerName: opts.customer,
		StartDate:    opts.start,
	})
	if err != nil {
		return fmt.Errorf("failed to build quotations: %w", err)
	}

	quotations, err = selectDesign(quotations, opts.design)
	if err != nil {
		return err
	}
	if opts.preview {
		for i := range quotations {
			quotations[i] = quotations[i].Preview(conf.Output.PreviewRows)
		}
	}

	for _, q := range quotations {
		if !q.LoanAvailable {
			logger.Info("design has no financing",
				zap.String("op", "main.runSchedule"),
				zap.String("design", q.Design.Name),
			)
		}
	}

	return output.Write(w, outputFormat, output.Options{CurrencySymbol: conf.Output.CurrencySymbol}, quotations...)
}

// selectDesign keeps the quotation whose design name matches, ignoring case.
// An empty name keeps every quotation.
func selectDesign(quotations []quote.Quotation, name string) ([]quote.Quotation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return quotations, nil
	}
	for _, q := range quotations {
		if strings.EqualFold(q.Design.Name, name) {
			return []quote.Quotation{q}, nil
		}
	}
	return nil, fmt.Errorf("design %q not found in catalog", name)
}
