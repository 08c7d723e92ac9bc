// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package performance

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// File outcomes used as the "outcome" label of piiscan_files_total.
const (
	OutcomeScanned   = "scanned"
	OutcomeSkipped   = "skipped"
	OutcomeFailed    = "failed"
	OutcomeCancelled = "cancelled"
)

// Metrics tracks scan throughput on a private Prometheus registry. All
// methods are safe on a nil receiver so callers need not check whether
// metrics were requested.
type Metrics struct {
	registry     *prometheus.Registry
	files        *prometheus.CounterVec
	units        prometheus.Counter
	matches      prometheus.Counter
	distinct     prometheus.Gauge
	fileDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the scan collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "piiscan_files_total",
			Help: "Files handled by the scan, by outcome",
		}, []string{"outcome"}),
		units: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "piiscan_units_total",
			Help: "Lines and cells examined",
		}),
		matches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "piiscan_matches_total",
			Help: "Units containing an SSN",
		}),
		distinct: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "piiscan_distinct_ssns",
			Help: "Distinct SSN digests seen in the last run",
		}),
		fileDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "piiscan_file_duration_seconds",
			Help:    "Time to extract and match one file",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		}, []string{"extractor"}),
	}
	m.registry.MustRegister(m.files, m.units, m.matches, m.distinct, m.fileDuration)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFile records the outcome of one file.
func (m *Metrics) ObserveFile(extractor, outcome string, units, matches int, d time.Duration) {
	if m == nil {
		return
	}
	m.files.WithLabelValues(outcome).Inc()
	m.units.Add(float64(units))
	m.matches.Add(float64(matches))
	if extractor != "" {
		m.fileDuration.WithLabelValues(extractor).Observe(d.Seconds())
	}
}

// ObserveSkip records a file that was never opened.
func (m *Metrics) ObserveSkip() {
	if m == nil {
		return
	}
	m.files.WithLabelValues(OutcomeSkipped).Inc()
}

// SetDistinct records the distinct SSN count at the end of a run.
func (m *Metrics) SetDistinct(n int) {
	if m == nil {
		return
	}
	m.distinct.Set(float64(n))
}

// WriteTextfile writes the current values in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
