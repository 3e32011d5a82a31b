package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rpgo/mortgage-compare/internal/calculation"
	"github.com/rpgo/mortgage-compare/internal/config"
	"github.com/rpgo/mortgage-compare/internal/output"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

// UsageError reports a command line that cannot be run as given.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

type rootOptions struct {
	format    string
	outFile   string
	years     int
	workers   int
	trace     bool
	logLevel  string
	logFormat string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	// .env is optional; it only supplies LOG_LEVEL / LOG_FORMAT defaults.
	_ = godotenv.Load()

	if args == nil {
		args = []string{}
	}
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	if err == nil {
		return exitOK
	}

	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stdout, "Error: %s\n", usageErr.Msg)
		cmd.SetOut(stdout)
		_ = cmd.Usage()
		return exitUsage
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitFailed
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "mortgage-compare CONFIG",
		Short: "Compare mortgage scenarios against investing the difference",
		Long: `mortgage-compare simulates each loan scenario month by month while investing
any income not spent on the loan, then ranks scenarios by net worth at the horizon.

CONFIG is a JSON or YAML file with years_limit (1-100), monthly_income,
income_tax_rate, investment_annual_return, capital_gains_rate and a list of
scenarios written as [loan_balance, loan_term_years, loan_rate, monthly_payment].
All keys are required and unknown keys are rejected.

"example" and "help" are subcommands; pass a config file with one of those
names as ./example or ./help.`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args[0], opts)
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})

	flags := root.Flags()
	flags.StringVarP(&opts.format, "format", "f", "console", "report format: "+strings.Join(output.AvailableFormatterNames(), "|"))
	flags.StringVarP(&opts.outFile, "out", "o", "", "write the report to a file instead of stdout")
	flags.IntVar(&opts.years, "years", 0, fmt.Sprintf("override years_limit from the configuration (1-%d)", config.MaxYearsLimit))
	flags.IntVar(&opts.workers, "workers", 1, "scenarios simulated concurrently (0 = one per CPU)")
	flags.BoolVar(&opts.trace, "trace", false, "log every simulated month at debug level")
	flags.StringVar(&opts.logLevel, "log-level", envOr("LOG_LEVEL", "warn"), "log level: debug|info|warn|error")
	flags.StringVar(&opts.logFormat, "log-format", envOr("LOG_FORMAT", "text"), "log format: text|json")

	root.AddCommand(newExampleCommand())
	return root
}

func runCompare(cmd *cobra.Command, path string, opts *rootOptions) error {
	logger, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat, opts.trace)
	if err != nil {
		return &UsageError{Msg: err.Error()}
	}
	if output.GetFormatterByName(opts.format) == nil {
		return &UsageError{Msg: fmt.Sprintf("unknown --format %q (available: %s)", opts.format, strings.Join(output.AvailableFormatterNames(), ", "))}
	}

	parser := config.NewInputParser()
	cfg, err := parser.LoadFromFile(path)
	if err != nil {
		return err
	}
	if opts.years != 0 {
		if err := config.ValidateYearsLimit(opts.years); err != nil {
			return &UsageError{Msg: "--years: " + err.Error()}
		}
		cfg.YearsLimit = opts.years
	}
	logger.WithFields(logrus.Fields{
		"path":        path,
		"years_limit": cfg.YearsLimit,
		"scenarios":   len(cfg.Scenarios),
	}).Info("configuration loaded")

	engine := calculation.NewCalculationEngine()
	if opts.workers != 1 {
		engine = calculation.NewCalculationEngineWithWorkers(opts.workers)
	}
	engine.Trace = opts.trace
	engine.SetLogger(logger)

	results, err := engine.RunScenarios(cfg)
	if err != nil {
		return err
	}
	if best, ok := results.Best(); ok {
		logger.WithFields(logrus.Fields{
			"duration_years": best.DurationYears,
			"rate_percent":   best.LoanRatePercent,
			"net_worth":      best.NetWorth,
		}).Info("best scenario")
	}

	if opts.outFile != "" {
		if err := output.SaveReport(results, opts.format, opts.outFile); err != nil {
			return err
		}
		logger.WithField("file", opts.outFile).Info("report written")
		return nil
	}
	return output.WriteReport(cmd.OutOrStdout(), results, opts.format)
}

func newExampleCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "example [FILE]",
		Short: "Print or save an example configuration",
		Args:  rangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			example := config.NewInputParser().CreateExampleConfiguration()
			if len(args) == 1 {
				return config.SaveConfiguration(example, args[0])
			}
			b, err := config.MarshalConfiguration(example)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}
}

func exactArgs(n int) cobra.PositionalArgs {
	return rangeArgs(n, n)
}

func rangeArgs(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			if lo == hi {
				return &UsageError{Msg: fmt.Sprintf("%s expects %d argument(s), got %d", cmd.Name(), lo, len(args))}
			}
			return &UsageError{Msg: fmt.Sprintf("%s expects %d to %d arguments, got %d", cmd.Name(), lo, hi, len(args))}
		}
		return nil
	}
}

// newLogger builds the stderr logger. Tracing forces debug level so month
// lines are not filtered out.
func newLogger(w io.Writer, level, format string, trace bool) (*logrus.Logger, error) {
	logger := logrus.New()
	logger.SetOutput(w)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	if trace && lvl < logrus.DebugLevel {
		lvl = logrus.DebugLevel
	}
	logger.SetLevel(lvl)

	switch format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
	return logger, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
