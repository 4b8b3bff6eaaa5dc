// SPDX-License-Identifier: MIT

// Command spectrank ranks the numeric columns of a score table with the
// vanilla spectral method and writes ranking_results.{json,csv,...} with
// bootstrap rank confidence intervals.
//
//	spectrank --csv scores.csv --bigbetter 1 --B 2000 --seed 42 --out results/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/codes"

	"github.com/katalvlaran/spectrank/config"
	"github.com/katalvlaran/spectrank/pairwise"
	"github.com/katalvlaran/spectrank/ranking"
	"github.com/katalvlaran/spectrank/report"
	"github.com/katalvlaran/spectrank/table"
	"github.com/katalvlaran/spectrank/telemetry"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const shutdownTimeout = 5 * time.Second

const cliTracerName = "spectrank/cmd"

var errUsage = errors.New("usage")

type cliOptions struct {
	configPath  string
	csvPath     string
	outDir      string
	jobID       string
	formats     string
	dropColumns string
	metricsFile string
	logLevel    string
	logFormat   string
	bigBetter   int
	replicates  int
	seed        int64
	workers     int

	// set holds the flags given explicitly on the command line.
	set map[string]bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process globals; it returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	cfg, errs := config.Read(opts.configPath)
	if cfg != nil {
		applyFlags(cfg, opts)
		for _, verr := range cfg.Validate() {
			errs = append(errs, ranking.NewError(ranking.KindParameterRange, verr))
		}
	}
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(stderr, "error: %v\n", e)
		}
		return exitFailure
	}

	logger := newLogger(cfg, stderr)
	if err = execute(ctx, cfg, opts, logger, stdout); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	return exitOK
}

func parseFlags(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := flag.NewFlagSet("spectrank", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.csvPath, "csv", "", "Score table CSV; numeric columns are competitors, rows are contexts")
	fs.IntVar(&opts.bigBetter, "bigbetter", 1, "1 if a higher score is better, 0 if lower is better")
	fs.IntVar(&opts.replicates, "B", config.DefaultBootstrapCount, "Bootstrap replicates per draw")
	fs.Int64Var(&opts.seed, "seed", config.DefaultSeed, "Random seed (>= 0)")
	fs.StringVar(&opts.outDir, "out", "", "Output directory (created if missing)")
	fs.StringVar(&opts.configPath, "config", "", "Optional YAML config file")
	fs.StringVar(&opts.formats, "format", "", "Comma-separated outputs: json,csv,yaml,cbor (default json,csv)")
	fs.StringVar(&opts.dropColumns, "drop-columns", "", "Comma-separated metadata columns to drop (default case_num,model,description)")
	fs.StringVar(&opts.jobID, "job-id", "", "Job identifier echoed in the results (default: name of the output's parent directory)")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the run")
	fs.StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	fs.StringVar(&opts.logFormat, "log-format", "", "text or json")
	fs.IntVar(&opts.workers, "workers", 0, "Bootstrap goroutines (0 = GOMAXPROCS)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s --csv FILE --out DIR [options]\n\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("%w: unexpected argument %q", errUsage, fs.Arg(0))
	}

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	opts.csvPath = strings.TrimSpace(opts.csvPath)
	opts.outDir = strings.TrimSpace(opts.outDir)
	if opts.csvPath == "" {
		fs.Usage()
		return opts, fmt.Errorf("%w: missing required --csv file", errUsage)
	}
	if opts.outDir == "" {
		fs.Usage()
		return opts, fmt.Errorf("%w: missing required --out directory", errUsage)
	}
	if opts.bigBetter != 0 && opts.bigBetter != 1 {
		return opts, fmt.Errorf("%w: --bigbetter must be 0 or 1 (got %d)", errUsage, opts.bigBetter)
	}

	return opts, nil
}

// applyFlags overrides cfg with the flags given explicitly.
func applyFlags(cfg *config.Config, opts cliOptions) {
	if opts.set["bigbetter"] {
		cfg.Direction = pairwise.DirectionFromBigBetter(opts.bigBetter == 1).String()
	}
	if opts.set["B"] {
		cfg.BootstrapCount = opts.replicates
	}
	if opts.set["seed"] {
		cfg.Seed = opts.seed
	}
	if opts.set["workers"] {
		cfg.Workers = opts.workers
	}
	if opts.set["format"] {
		cfg.Formats = config.SplitList(strings.ToLower(opts.formats))
	}
	if opts.set["drop-columns"] {
		cfg.DropColumns = config.SplitList(opts.dropColumns)
	}
	if opts.set["metrics-file"] {
		cfg.MetricsFile = opts.metricsFile
	}
	if opts.set["log-level"] {
		cfg.LogLevel = strings.ToLower(opts.logLevel)
	}
	if opts.set["log-format"] {
		cfg.LogFormat = strings.ToLower(opts.logFormat)
	}
}

func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	hopts := &slog.HandlerOptions{Level: level}
	if cfg.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, hopts))
	}

	return slog.New(slog.NewTextHandler(w, hopts))
}

// defaultJobID names the job after the last element of outDir's directory
// part, so "runs/job42/out" and "runs/job42/" both give "job42". It falls back
// to a random UUID when there is no meaningful name.
func defaultJobID(outDir string) string {
	parent := filepath.Base(filepath.Dir(outDir))
	if parent == "." || parent == string(filepath.Separator) || parent == "" {
		return uuid.NewString()
	}

	return parent
}

func execute(ctx context.Context, cfg *config.Config, opts cliOptions, logger *slog.Logger, stdout io.Writer) error {
	formats, err := report.ParseFormats(cfg.Formats)
	if err != nil {
		return err
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      cfg.Tracing.Enabled,
		ServiceName:  telemetry.DefaultServiceName,
		Version:      version,
		OTLPEndpoint: cfg.Tracing.Endpoint,
		Insecure:     cfg.Tracing.Insecure,
		SamplingRate: cfg.Tracing.SamplingRate,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if serr := tp.Shutdown(sctx); serr != nil {
			logger.Warn("tracer shutdown failed", "error", serr)
		}
	}()
	logger.Debug("telemetry ready", "tracing", tp.Enabled())
	ctx, span := tp.Tracer(cliTracerName).Start(ctx, "spectrank.execute")
	defer span.End()

	reg := prometheus.NewRegistry()
	metrics := ranking.NewMetrics(reg)
	if cfg.MetricsFile != "" {
		defer func() {
			if werr := prometheus.WriteToTextfile(cfg.MetricsFile, reg); werr != nil {
				logger.Warn("metrics not written", "path", cfg.MetricsFile, "error", werr)
			}
		}()
	}

	tbl, err := table.ReadFile(opts.csvPath, table.WithDropColumns(cfg.DropColumns...))
	if err != nil {
		return ranking.Classify(err)
	}
	logger.Debug("table loaded", "path", opts.csvPath, "competitors", tbl.K(), "contexts", tbl.N())

	jobID := opts.jobID
	if jobID == "" {
		jobID = defaultJobID(opts.outDir)
	}

	res, err := ranking.Rank(ctx, ranking.Request{
		Table:          tbl,
		Direction:      cfg.Direction,
		BootstrapCount: cfg.BootstrapCount,
		Seed:           cfg.Seed,
		JobID:          jobID,
	},
		ranking.WithLogger(logger),
		ranking.WithMetrics(metrics),
		ranking.WithWorkers(cfg.Workers),
	)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	paths, err := report.WriteFiles(opts.outDir, res, formats)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	for _, p := range paths {
		logger.Info("results written", "path", p)
		fmt.Fprintln(stdout, p)
	}

	return nil
}
