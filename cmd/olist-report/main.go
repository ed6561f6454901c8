package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"olistcli/internal/analytics"
	"olistcli/internal/config"
	"olistcli/internal/exporter"
	"olistcli/internal/infrastructure"
	"olistcli/internal/pipeline"
	"olistcli/pkg/contracts"
)

// Exit codes
const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2
)

type options struct {
	dataDir             string
	configFile          string
	verbose             bool
	exportCSV           string
	exportXLSX          string
	metricsFile         string
	trace               bool
	top                 int
	satisfactionMaxDays int
	mapPoints           bool
	version             bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("olist-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var opts options
	fs.StringVar(&opts.dataDir, "data-dir", "", "directory holding the Olist CSV files (or set OLIST_DATA_DIR)")
	fs.StringVar(&opts.configFile, "config", "", "path to a YAML config file")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	fs.StringVar(&opts.exportCSV, "export-csv", "", "write the analytical table to this .csv file")
	fs.StringVar(&opts.exportXLSX, "export-xlsx", "", "write the report to this .xlsx workbook")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write run metrics in Prometheus text format to this file")
	fs.BoolVar(&opts.trace, "trace", false, "print OpenTelemetry spans to stderr")
	fs.IntVar(&opts.top, "top", 0, "number of categories in the ranking")
	fs.IntVar(&opts.satisfactionMaxDays, "satisfaction-max-days", 0, "ignore deliveries slower than this in the satisfaction view")
	fs.BoolVar(&opts.mapPoints, "map-points", false, "include geolocated sales points in the report")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return exitOK
	}

	// godotenv does not override variables already set in the environment.
	_ = godotenv.Load()

	cfg, err := loadConfig(fs, opts)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	if err := execute(ctx, cfg, opts, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailed
	}
	return exitOK
}

// loadConfig merges flags over the file and environment configuration.
// Only flags given on the command line take effect.
func loadConfig(fs *flag.FlagSet, opts options) (*config.Config, error) {
	cfg, err := config.Load(opts.configFile)
	if err != nil {
		return nil, err
	}

	if fs.Changed("data-dir") {
		cfg.Data.Dir = opts.dataDir
	}
	if opts.verbose {
		cfg.Logging.Level = "debug"
	}
	if fs.Changed("trace") {
		cfg.Telemetry.Tracing = opts.trace
	}
	if fs.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}
	if fs.Changed("top") {
		cfg.Report.TopCategories = opts.top
		if cfg.Report.HighlightCategories > opts.top {
			cfg.Report.HighlightCategories = opts.top
		}
	}
	if fs.Changed("satisfaction-max-days") {
		cfg.Report.SatisfactionMaxDays = opts.satisfactionMaxDays
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func execute(ctx context.Context, cfg *config.Config, opts options, stdout, stderr io.Writer) error {
	logger, closeLog, err := infrastructure.NewLogger(cfg.Logging, stderr)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer closeLog()
	slog.SetDefault(logger)

	shutdown, err := infrastructure.InitializeTracing(infrastructure.TracingConfig{
		Enabled: cfg.Telemetry.Tracing,
		Writer:  stderr,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("Failed to flush traces", slog.String("error", err.Error()))
		}
	}()

	paths, err := config.NewPaths(cfg.Data.Dir)
	if err != nil {
		return err
	}
	paths.LogPathResolution(logger)

	logger.InfoContext(ctx, "Starting olist report",
		slog.String("version", config.AppVersion),
		slog.String("data_dir", paths.DataDir),
		slog.Bool("tracing", cfg.Telemetry.Tracing))

	metrics := infrastructure.NewPipelineMetrics()
	runner := pipeline.NewRunner(
		pipeline.WithLogger(logger),
		pipeline.WithTracer(infrastructure.Tracer()),
		pipeline.WithMetrics(metrics),
	)
	result := runner.Run(ctx, paths.DataDir)

	if cfg.Telemetry.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.Telemetry.MetricsFile); err != nil {
			logger.Error("Failed to write metrics file",
				slog.String("file_path", cfg.Telemetry.MetricsFile),
				slog.String("error", err.Error()))
		}
	}

	if !result.Ready() {
		// Err already carries the "no data available" prefix.
		return fmt.Errorf("%w (%s step)", result.Err(), result.FailedStep)
	}

	reportOpts := analytics.OptionsFromConfig(cfg.Report)
	reportOpts.RunID = result.RunID
	reportOpts.IncludeMapPoints = opts.mapPoints
	report, err := analytics.Generate(result.Table, reportOpts)
	if err != nil {
		return err
	}

	if opts.exportCSV != "" {
		if err := exporter.NewCSVWriter(logger).WriteAnalyticalTable(opts.exportCSV, result.Table.Rows); err != nil {
			return err
		}
	}
	if opts.exportXLSX != "" {
		if err := exporter.NewWorkbookWriter(logger).WriteReport(opts.exportXLSX, report); err != nil {
			return err
		}
	}

	printSummary(stdout, report, result.Table.Stats)
	return nil
}
