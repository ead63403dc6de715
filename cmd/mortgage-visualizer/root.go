package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/iwvelando/mortgage-visualizer/internal/calculator"
	"github.com/iwvelando/mortgage-visualizer/internal/config"
	"github.com/iwvelando/mortgage-visualizer/pkg/constants"
	"github.com/iwvelando/mortgage-visualizer/pkg/mortgage"
	"github.com/iwvelando/mortgage-visualizer/pkg/output"
	"github.com/iwvelando/mortgage-visualizer/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type scheduleOptions struct {
	configPath   string
	outputFormat string
	logLevel     string
	summary      bool

	price       float64
	downPayment float64
	rate        float64
	term        int
	frequency   string
	lumpSum     float64
	startDate   string
}

func newRootCommand() *cobra.Command {
	opts := &scheduleOptions{}

	cmd := &cobra.Command{
		Use:   "mortgage-visualizer",
		Short: "Mortgage amortization schedules",
		Long: "Compute a mortgage amortization schedule from a configuration file and flag overrides,\n" +
			"or serve the interactive calculator with the serve command.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", constants.DefaultConfigFile, "path to configuration file")
	flags.StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	flags.BoolVar(&opts.summary, "summary", false, "print only the summary")
	flags.Float64Var(&opts.price, "price", 0, "total purchase price")
	flags.Float64Var(&opts.downPayment, "down-payment", 0, "down payment")
	flags.Float64Var(&opts.rate, "rate", constants.DefaultInterestRate, "annual interest rate in percent")
	flags.IntVar(&opts.term, "term", constants.DefaultTermYears, "amortization period in years")
	flags.StringVar(&opts.frequency, "frequency", constants.DefaultFrequency, "payment frequency: "+mortgage.FrequencyNames())
	flags.Float64Var(&opts.lumpSum, "lump-sum", 0, "extra amount added to every payment")
	flags.StringVar(&opts.startDate, "start-date", "", "first payment date (YYYY-MM-DD), defaults to today")

	cmd.AddCommand(newServeCommand(), newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), constants.Version)
			return err
		},
	}
}

func runSchedule(cmd *cobra.Command, opts *scheduleOptions) error {
	// A missing default config file is not an error; flags may describe the loan.
	configPath := opts.configPath
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
			configPath = ""
		}
	}

	conf, err := config.LoadConfiguration(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", configPath, err)
	}

	// Initialize logging based on config and CLI override
	logger, err := config.NewLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	applyFlagOverrides(cmd, opts, conf)

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Error(err.Error(), zap.String("op", "main"))
		return err
	}

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	params, err := conf.Mortgage.Parameters()
	if err != nil {
		logger.Error("invalid mortgage configuration",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	calc := calculator.New(nil, nil, logger)
	result, err := calc.Compute(cmd.Context(), calculator.Request{Parameters: params})
	if err != nil {
		logger.Error("failed to compute amortization schedule",
			zap.String("op", "main"),
			zap.Error(err),
		)
		return err
	}

	// Handle output.
	out := cmd.OutOrStdout()
	if opts.summary || conf.Output.Summary {
		return output.SummaryFormat(out, result.Summary)
	}
	switch outputFormat {
	case constants.OutputFormatPretty:
		if err := output.PrettyFormat(out, result.Schedule); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		return output.SummaryFormat(out, result.Summary)
	case constants.OutputFormatCSV:
		return output.CsvFormat(out, result.Schedule)
	}
	return nil
}

// applyFlagOverrides copies every explicitly set loan flag over the
// configuration file's value.
func applyFlagOverrides(cmd *cobra.Command, opts *scheduleOptions, conf *config.Configuration) {
	flags := cmd.Flags()
	m := &conf.Mortgage
	if flags.Changed("price") {
		m.TotalPrice = opts.price
	}
	if flags.Changed("down-payment") {
		m.DownPayment = opts.downPayment
	}
	if flags.Changed("rate") {
		m.InterestRate = opts.rate
	}
	if flags.Changed("term") {
		m.TermYears = opts.term
	}
	if flags.Changed("frequency") {
		m.Frequency = opts.frequency
	}
	if flags.Changed("lump-sum") {
		m.LumpSumPayment = opts.lumpSum
	}
	if flags.Changed("start-date") {
		m.StartDate = opts.startDate
	}
}
