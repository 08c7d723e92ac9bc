// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"

	"pii-scan/internal/config"
	"pii-scan/internal/formatters"
	csvformat "pii-scan/internal/formatters/csv"
	_ "pii-scan/internal/formatters/json"
	_ "pii-scan/internal/formatters/text"
	_ "pii-scan/internal/formatters/yaml"
	"pii-scan/internal/observability"
	"pii-scan/internal/parallel"
	"pii-scan/internal/paths"
	"pii-scan/internal/performance"
	"pii-scan/internal/resilience"
	"pii-scan/internal/router"
)

// errInterrupted is returned when the scan was cancelled by a signal. The
// report has still been written with what was completed.
var errInterrupted = errors.New("scan interrupted")

// scanOptions holds command line flag values
type scanOptions struct {
	configPath string
	verbose    bool
	format     string
	noColor    bool
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runScan loads the configuration, scans every configured root and writes
// the report and summary. Only configuration problems and a report that
// cannot be written are errors; individual file failures are logged.
func runScan(ctx context.Context, opts *scanOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if _, ok := formatters.Get(opts.format); !ok {
		return resilience.NewConfigurationError("--format", fmt.Errorf("unsupported format %q, available: %s", opts.format, strings.Join(formatters.List(), ", ")))
	}

	cfg, cfgPath, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg, opts.verbose, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	logger, runID := observability.WithRunID(logger)
	observer := observability.NewObserver(logger)
	logger.Info("scan started",
		"config", cfgPath,
		"roots", cfg.ScanRoots(),
		"threads", cfg.Concurrency(),
		"report", cfg.Report.Path,
	)

	var metrics *performance.Metrics
	if cfg.Metrics.Textfile != "" {
		metrics = performance.NewMetrics()
	}

	interrupted := false
	files, err := paths.Enumerate(ctx, cfg.ScanRoots(), logger)
	if err != nil {
		interrupted = true
	}
	logger.Info("enumeration finished", "files", len(files))

	dispatcher := router.NewDispatcher(
		router.WithPDF(cfg.Formats.PDF),
		router.WithImageMetadata(cfg.Formats.ImageMetadata),
		router.WithObserver(observer),
	)

	orchOpts := []parallel.Option{
		parallel.WithDispatcher(dispatcher),
		parallel.WithLogger(logger),
		parallel.WithObserver(observer),
		parallel.WithMetrics(metrics),
	}
	if isTerminal(stderr) && !cfg.LogToStderr() {
		orchOpts = append(orchOpts, parallel.WithProgress(newProgressBar(stderr).update))
	}

	orchestrator := parallel.NewOrchestrator(cfg.Concurrency(), orchOpts...)
	snapshot, stats, err := orchestrator.Run(ctx, files)
	if err != nil {
		interrupted = true
	}

	report := formatters.Report{
		RunID:       runID,
		Snapshot:    snapshot,
		Stats:       stats,
		Interrupted: interrupted,
	}

	if err := writeReport(cfg.Report.Path, report); err != nil {
		logger.Error("report not written", "path", cfg.Report.Path, "error", err)
		return fmt.Errorf("writing report %s: %w", cfg.Report.Path, err)
	}
	report.ReportPath = cfg.Report.Path

	if metrics != nil {
		if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
			logger.Error("metrics not written", "path", cfg.Metrics.Textfile, "error", err)
		}
	}

	summary, err := formatters.Export(opts.format, report, formatters.FormatterOptions{
		Verbose: opts.verbose,
		NoColor: opts.noColor || !isTerminal(stdout),
	})
	if err != nil {
		return err
	}
	fmt.Fprint(stdout, summary)
	if !strings.HasSuffix(summary, "\n") {
		fmt.Fprintln(stdout)
	}

	logger.Info("scan finished",
		"files", stats.TotalFiles,
		"scanned", stats.ScannedFiles,
		"skipped", stats.SkippedFiles,
		"failed", stats.FailedFiles,
		"files_with_ssns", stats.FilesWithSSNs,
		"distinct_ssns", stats.DistinctSSNs,
		"duration_ms", stats.TotalDuration.Milliseconds(),
		"interrupted", interrupted,
	)

	if interrupted {
		return errInterrupted
	}
	return nil
}

// openLogger builds the masked logger on the configured destination. The
// returned function closes the log file, if any.
func openLogger(cfg *config.Config, verbose bool, stderr io.Writer) (*slog.Logger, func(), error) {
	level, err := observability.ParseLevel(cfg.Logging.Level)
	if err != nil {
		return nil, nil, resilience.NewConfigurationError("logging.level", err)
	}
	if verbose {
		level = slog.LevelDebug
	}

	if cfg.LogToStderr() {
		return observability.NewLogger(stderr, level, cfg.Logging.Format), func() {}, nil
	}

	f, err := os.OpenFile(filepath.Clean(cfg.Logging.File), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, resilience.NewConfigurationError(cfg.Logging.File, err)
	}
	return observability.NewLogger(f, level, cfg.Logging.Format), func() { _ = f.Close() }, nil
}

// writeReport writes the CSV report, replacing any previous one.
func writeReport(path string, report formatters.Report) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return err
	}
	if err := csvformat.NewFormatter().Write(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// isTerminal checks if w is a terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// progressBar renders scan progress on a terminal
type progressBar struct {
	w     io.Writer
	start time.Time
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w, start: time.Now()}
}

// update has the parallel.ProgressCallback signature
func (p *progressBar) update(current, total int, _ string) {
	if total == 0 {
		return
	}
	current = min(current, total)
	const barWidth = 40
	filled := barWidth * current / total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	var eta string
	if current > 0 {
		avg := time.Since(p.start) / time.Duration(current)
		eta = fmt.Sprintf(" ETA: %s", (time.Duration(total-current) * avg).Round(time.Second))
	}

	fmt.Fprintf(p.w, "\r[%s] %d/%d files (%.1f%%)%s", bar, current, total, float64(current)/float64(total)*100, eta)
	if current == total {
		fmt.Fprintln(p.w)
	}
}
