// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package parallel

import (
	"context"
	"sync"
	"time"

	"pii-scan/internal/detector"
	"pii-scan/internal/extractors"
	"pii-scan/internal/observability"
	"pii-scan/internal/performance"
	"pii-scan/internal/resilience"
	"pii-scan/internal/router"
)

// WorkerPool runs file extraction on a fixed number of goroutines
type WorkerPool struct {
	workers  int
	jobs     chan *Job
	results  chan *Result
	wg       sync.WaitGroup
	ctx      context.Context
	matcher  detector.Matcher
	recorder extractors.Recorder
	observer *observability.Observer
	metrics  *performance.Metrics
}

// Job represents a file processing task
type Job struct {
	JobID     string
	FilePath  string // path as handed to the orchestrator
	FileID    string // canonical identifier, used for opening and recording
	Kind      router.Kind
	Extractor extractors.Extractor
}

// Result represents processing results
type Result struct {
	JobID     string
	FilePath  string
	FileID    string
	Kind      router.Kind
	Outcome   extractors.Outcome
	Error     error
	Cancelled bool // never started because the context was done
	Duration  time.Duration
}

// NewWorkerPool creates a pool of workers goroutines. Jobs still queued
// when ctx is done are reported as cancelled without being opened.
func NewWorkerPool(ctx context.Context, workers int, matcher detector.Matcher, recorder extractors.Recorder, observer *observability.Observer, metrics *performance.Metrics) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	if observer == nil {
		observer = observability.NewObserver(nil)
	}
	return &WorkerPool{
		workers:  workers,
		jobs:     make(chan *Job, workers*2),
		results:  make(chan *Result, workers*2),
		ctx:      ctx,
		matcher:  matcher,
		recorder: recorder,
		observer: observer,
		metrics:  metrics,
	}
}

// Start initializes worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Submit adds a job to the queue. It returns false, without queueing, once
// the pool's context is done.
func (wp *WorkerPool) Submit(job *Job) bool {
	if wp.ctx.Err() != nil {
		return false
	}
	select {
	case wp.jobs <- job:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Close tells the workers no more jobs are coming
func (wp *WorkerPool) Close() {
	close(wp.jobs)
}

// Stop waits for the workers to drain the queue and closes Results. Close
// must have been called first.
func (wp *WorkerPool) Stop() {
	wp.wg.Wait()
	close(wp.results)
}

// Results returns the results channel
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.results
}

// worker processes jobs from the queue
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobs {
		var result *Result
		if wp.ctx.Err() != nil {
			result = &Result{JobID: job.JobID, FilePath: job.FilePath, FileID: job.FileID, Kind: job.Kind, Cancelled: true}
			wp.metrics.ObserveFile(job.Extractor.Name(), performance.OutcomeCancelled, 0, 0, 0)
		} else {
			result = wp.processJob(job, id)
		}
		wp.results <- result
	}
}

// processJob extracts and matches one file. Panics are contained here so a
// single bad file never takes a worker down.
func (wp *WorkerPool) processJob(job *Job, workerID int) (result *Result) {
	start := time.Now()
	finishTiming := wp.observer.StartTiming("worker_pool", "process_job", job.FileID)

	result = &Result{JobID: job.JobID, FilePath: job.FilePath, FileID: job.FileID, Kind: job.Kind}

	defer func() {
		if r := recover(); r != nil {
			result.Outcome = extractors.Outcome{}
			result.Error = resilience.RecoveredPanic(job.FileID, "process_job", r)
		}
		result.Duration = time.Since(start)

		outcome := performance.OutcomeScanned
		if result.Error != nil {
			outcome = performance.OutcomeFailed
		}
		wp.metrics.ObserveFile(job.Extractor.Name(), outcome, result.Outcome.Units, result.Outcome.Matches, result.Duration)

		finishTiming(result.Error == nil, map[string]interface{}{
			"worker_id":   workerID,
			"extractor":   job.Extractor.Name(),
			"unit_count":  result.Outcome.Units,
			"match_count": result.Outcome.Matches,
		})
	}()

	result.Outcome, result.Error = extractors.Scan(job.Extractor, job.FileID, job.FileID, wp.matcher, wp.recorder)
	return result
}
