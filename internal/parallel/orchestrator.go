// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"time"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/detector"
	"pii-scan/internal/observability"
	"pii-scan/internal/paths"
	"pii-scan/internal/performance"
	"pii-scan/internal/resilience"
	"pii-scan/internal/router"
	"pii-scan/internal/validators/ssn"
)

// ProcessingStats tracks scan statistics
type ProcessingStats struct {
	TotalFiles     int           `json:"total_files"`
	ScannedFiles   int           `json:"scanned_files"`
	SkippedFiles   int           `json:"skipped_files"`
	FailedFiles    int           `json:"failed_files"`
	CancelledFiles int           `json:"cancelled_files"`
	FilesWithSSNs  int           `json:"files_with_ssns"`
	DistinctSSNs   int           `json:"distinct_ssns"`
	TotalMatches   int           `json:"total_matches"`
	TotalDuration  time.Duration `json:"total_duration_ms"`
	WorkerCount    int           `json:"worker_count"`
	AvgFileTime    time.Duration `json:"avg_file_time_ms"`
}

// ProgressCallback is called when a file is completed
type ProgressCallback func(completed, total int, currentFile string)

// Option configures an Orchestrator
type Option func(*Orchestrator)

// WithDispatcher replaces the default dispatcher.
func WithDispatcher(d *router.Dispatcher) Option {
	return func(o *Orchestrator) { o.dispatcher = d }
}

// WithMatcher replaces the SSN matcher.
func WithMatcher(m detector.Matcher) Option {
	return func(o *Orchestrator) { o.matcher = m }
}

// WithAggregator makes Run record into agg instead of a fresh aggregator.
func WithAggregator(agg *aggregator.Aggregator) Option {
	return func(o *Orchestrator) { o.aggregator = agg }
}

// WithLogger sets the logger for per-file events.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithObserver sets the observer used for timing.
func WithObserver(obs *observability.Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithMetrics records per-file metrics.
func WithMetrics(m *performance.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithProgress installs a progress callback. It is only ever called from
// the goroutine running Run.
func WithProgress(cb ProgressCallback) Option {
	return func(o *Orchestrator) { o.progress = cb }
}

// Orchestrator fans a list of files out to a worker pool and folds the
// results into an aggregate.
type Orchestrator struct {
	concurrency int
	dispatcher  *router.Dispatcher
	matcher     detector.Matcher
	aggregator  *aggregator.Aggregator
	logger      *slog.Logger
	observer    *observability.Observer
	metrics     *performance.Metrics
	progress    ProgressCallback
}

// NewOrchestrator creates an orchestrator running concurrency workers.
// Values below one are raised to one.
func NewOrchestrator(concurrency int, opts ...Option) *Orchestrator {
	o := &Orchestrator{concurrency: max(concurrency, 1)}
	for _, opt := range opts {
		opt(o)
	}
	if o.dispatcher == nil {
		o.dispatcher = router.NewDispatcher()
	}
	if o.matcher == nil {
		o.matcher = ssn.Default()
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	if o.observer == nil {
		o.observer = observability.NewObserver(o.logger)
	}
	return o
}

// Run scans files and returns the aggregate once every submitted job has
// finished. Skip-listed files are counted but never opened. Per-file
// failures are logged and counted; they never abort the run.
//
// When ctx is cancelled no further files are started, jobs already running
// finish, and Run returns ctx.Err() together with what was completed.
func (o *Orchestrator) Run(ctx context.Context, files []string) (aggregator.Snapshot, *ProcessingStats, error) {
	start := time.Now()
	finishTiming := o.observer.StartTiming("orchestrator", "run", "batch")

	agg := o.aggregator
	if agg == nil {
		agg = aggregator.New()
	}

	stats := &ProcessingStats{WorkerCount: o.concurrency}
	jobs := o.plan(files, stats)
	completed := stats.SkippedFiles + stats.FailedFiles

	pool := NewWorkerPool(ctx, o.concurrency, o.matcher, agg, o.observer, o.metrics)
	pool.Start()

	var submitted atomic.Int64
	go func() {
		defer pool.Close()
		for _, job := range jobs {
			if !pool.Submit(job) {
				return
			}
			submitted.Add(1)
		}
	}()
	go pool.Stop()

	var scanTime time.Duration
	for result := range pool.Results() {
		completed++
		switch {
		case result.Cancelled:
			stats.CancelledFiles++
		case result.Error != nil:
			stats.FailedFiles++
			o.logger.Error("file failed",
				"file", result.FileID,
				"extractor", result.Kind.String(),
				"error_type", resilience.TypeOf(result.Error).String(),
				"error", result.Error,
			)
		default:
			stats.ScannedFiles++
			scanTime += result.Duration
			o.logResult(result)
		}
		if o.progress != nil {
			o.progress(completed, stats.TotalFiles, result.FileID)
		}
	}
	stats.CancelledFiles += len(jobs) - int(submitted.Load())

	snapshot := agg.Snapshot()
	stats.FilesWithSSNs = snapshot.FilesWithSSNs()
	stats.DistinctSSNs = snapshot.DistinctSSNs
	stats.TotalMatches = snapshot.TotalMatches()
	stats.TotalDuration = time.Since(start)
	stats.AvgFileTime = scanTime / time.Duration(max(stats.ScannedFiles, 1))
	o.metrics.SetDistinct(snapshot.DistinctSSNs)

	finishTiming(ctx.Err() == nil, map[string]interface{}{
		"total_files":   stats.TotalFiles,
		"scanned_files": stats.ScannedFiles,
		"failed_files":  stats.FailedFiles,
		"worker_count":  stats.WorkerCount,
	})

	return snapshot, stats, ctx.Err()
}

// plan canonicalises and dispatches every file. Skipped files and files
// that cannot be planned are settled here; the rest become jobs.
func (o *Orchestrator) plan(files []string, stats *ProcessingStats) []*Job {
	seen := make(map[string]struct{}, len(files))
	jobs := make([]*Job, 0, len(files))

	for _, path := range files {
		id, err := paths.Canonical(path)
		if err != nil {
			stats.TotalFiles++
			stats.FailedFiles++
			o.logger.Error("file failed", "file", path, "error_type", resilience.ErrorTypeFileOpen.String(), "error", err)
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		stats.TotalFiles++

		kind, ex := o.dispatcher.Route(id)
		if kind == router.KindSkip {
			stats.SkippedFiles++
			o.metrics.ObserveSkip()
			o.logger.Info("skipping encrypted file", "file", id, "extension", filepath.Ext(id))
			continue
		}
		if ex == nil {
			stats.FailedFiles++
			o.logger.Error("file failed", "file", id, "error", fmt.Errorf("no extractor registered for %s", kind))
			continue
		}

		jobs = append(jobs, &Job{
			JobID:     fmt.Sprintf("job_%d", len(jobs)),
			FilePath:  path,
			FileID:    id,
			Kind:      kind,
			Extractor: ex,
		})
	}
	return jobs
}

func (o *Orchestrator) logResult(result *Result) {
	if result.Outcome.Found() {
		o.logger.Info("ssn found",
			"file", result.FileID,
			"matches", result.Outcome.Matches,
			"new_distinct", result.Outcome.NewDistinct,
			"first", result.Outcome.First,
		)
		return
	}
	o.logger.Debug("no ssn found", "file", result.FileID, "units", result.Outcome.Units)
}
