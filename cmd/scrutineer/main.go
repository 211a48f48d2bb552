// Command scrutineer consolidates per-poll-station election result CSV
// files into canonical per-candidate totals and prints one of four derived
// reports as JSON on stdout. All diagnostics go to stderr.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/ahrav/scrutineer/infrastructure/ingest"
	"github.com/ahrav/scrutineer/infrastructure/metrics"
	"github.com/ahrav/scrutineer/internal/application"
	"github.com/ahrav/scrutineer/internal/ports"
)

// cliConfig carries the flag/env configuration surface of the command.
type cliConfig struct {
	Data       string
	Year       string
	ConfigFile string
	Report     string
	Party      string
	Ally       string
	Limit      int
	Metrics    bool
	Verbose    bool
}

// parseFlags validates command-line flags with environment fallbacks.
func parseFlags(args []string) (cliConfig, error) {
	var cfg cliConfig

	fs := flag.NewFlagSet("scrutineer", flag.ContinueOnError)

	fs.StringVar(&cfg.Data, "data", "", "Dataset root directory (or SCRUTINEER_DATA_DIR)")
	fs.StringVar(&cfg.Year, "year", "", "Election year subdirectory under the dataset root")
	fs.StringVar(&cfg.ConfigFile, "config", "", "Optional YAML run configuration file")
	fs.StringVar(&cfg.Report, "report", "", "Report type: totals, combo, margins, or performance")
	fs.StringVar(&cfg.Party, "party", "", "Target party (performance) or primary party (combo)")
	fs.StringVar(&cfg.Ally, "ally", "", "Ally party whose votes merge into the primary (combo)")
	fs.IntVar(&cfg.Limit, "limit", 0, "Keep only the N closest races (margins); 0 keeps all")
	fs.BoolVar(&cfg.Metrics, "metrics", false, "Dump ingestion metrics to stderr after the run")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable debug diagnostics")

	if err := fs.Parse(args); err != nil {
		return cliConfig{}, err
	}

	// Fall back to environment variables.
	if cfg.Data == "" {
		cfg.Data = os.Getenv("SCRUTINEER_DATA_DIR")
	}
	if cfg.Report == "" {
		cfg.Report = os.Getenv("SCRUTINEER_REPORT")
	}
	if cfg.Year == "" {
		cfg.Year = os.Getenv("SCRUTINEER_YEAR")
	}

	if cfg.ConfigFile == "" && cfg.Data == "" {
		return cliConfig{}, errors.New("dataset directory required (use -data or SCRUTINEER_DATA_DIR)")
	}
	return cfg, nil
}

// runConfig merges the optional YAML config file with flag/env overrides.
func runConfig(cli cliConfig) (application.RunConfig, error) {
	var cfg application.RunConfig

	if cli.ConfigFile != "" {
		loaded, err := application.LoadConfigFile(cli.ConfigFile)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if cli.Data != "" {
		cfg.DatasetDir = cli.Data
	}
	if cli.Year != "" {
		cfg.DatasetDir = filepath.Join(cfg.DatasetDir, cli.Year)
	}
	if cli.Report != "" {
		cfg.Report = cli.Report
	}
	if cli.Party != "" {
		cfg.Party = cli.Party
	}
	if cli.Ally != "" {
		cfg.Ally = cli.Ally
	}
	if cli.Limit > 0 {
		cfg.Limit = cli.Limit
	}
	if cli.Verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func main() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	cli, err := parseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := runConfig(cli)
	if err != nil {
		slog.Error("Error building run configuration", "error", err)
		os.Exit(1)
	}

	var collector ports.MetricsCollector = metrics.Noop{}
	if cli.Metrics {
		collector = metrics.NewPrometheusMetrics()
	}

	source := ingest.NewCSVSource(cfg.DatasetDir, logger, collector)
	registry := application.NewDefaultReportRegistry()
	engine := application.NewEngine(source, registry, collector, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := engine.Run(ctx, cfg)
	if err != nil {
		slog.Error("pipeline failed", "error", err)
		os.Exit(1)
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result.Records); err != nil {
		slog.Error("rendering report failed", "error", err)
		os.Exit(1)
	}

	if cli.Metrics {
		dumpMetrics(logger)
	}
}

// dumpMetrics writes the gathered Prometheus metrics to stderr in the text
// exposition format. A one-shot CLI has no scrape endpoint, so the dump is
// how ingestion health becomes visible after a run.
func dumpMetrics(logger *slog.Logger) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logger.Warn("gathering metrics failed", "error", err)
		return
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stderr, mf); err != nil {
			logger.Warn("writing metrics failed", "error", err)
			return
		}
	}
}
