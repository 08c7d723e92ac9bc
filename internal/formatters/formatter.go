// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters

import (
	"fmt"
	"slices"
	"strings"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/parallel"
)

// FormatterOptions defines configuration options for formatters
type FormatterOptions struct {
	Verbose bool // Whether to list every finding, not only the totals
	NoColor bool // Whether to disable colored output
}

// Report is everything a formatter may render about one run.
type Report struct {
	RunID       string
	Snapshot    aggregator.Snapshot
	Stats       *parallel.ProcessingStats
	ReportPath  string // where the CSV report was written, empty if it was not
	Interrupted bool   // the run was cancelled before every file was scanned
}

// StatsOrZero returns r.Stats, or zero stats when none were recorded.
func (r Report) StatsOrZero() parallel.ProcessingStats {
	if r.Stats == nil {
		return parallel.ProcessingStats{}
	}
	return *r.Stats
}

// OrderedFindings returns flat findings followed by spreadsheet findings,
// each group in discovery order.
func (r Report) OrderedFindings() []aggregator.FileFinding {
	return slices.Concat(
		r.Snapshot.ByCategory(aggregator.CategoryFlat),
		r.Snapshot.ByCategory(aggregator.CategorySpreadsheet),
	)
}

// Formatter interface defines methods that all output formatters must implement
type Formatter interface {
	// Format renders the report according to the formatter's output format
	Format(report Report, options FormatterOptions) (string, error)

	// Name returns the name of the formatter (e.g., "csv", "text", "json")
	Name() string

	// Description returns a brief description of what this formatter outputs
	Description() string
}

// Registry holds all registered formatters
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry creates a new formatter registry
func NewRegistry() *Registry {
	return &Registry{
		formatters: make(map[string]Formatter),
	}
}

// Register adds a formatter to the registry
func (r *Registry) Register(formatter Formatter) {
	r.formatters[formatter.Name()] = formatter
}

// Get retrieves a formatter by name
func (r *Registry) Get(name string) (Formatter, bool) {
	formatter, exists := r.formatters[name]
	return formatter, exists
}

// List returns all registered formatter names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultRegistry is the global formatter registry
var DefaultRegistry = NewRegistry()

// Register is a convenience function to register a formatter with the default registry
func Register(formatter Formatter) {
	DefaultRegistry.Register(formatter)
}

// Get is a convenience function to get a formatter from the default registry
func Get(name string) (Formatter, bool) {
	return DefaultRegistry.Get(name)
}

// List is a convenience function to list all formatters in the default registry
func List() []string {
	return DefaultRegistry.List()
}

// Export formats report with the named formatter from the default registry
func Export(format string, report Report, options FormatterOptions) (string, error) {
	formatter, exists := Get(format)
	if !exists {
		return "", fmt.Errorf("unsupported format '%s'. Available formats: %s", format, strings.Join(List(), ", "))
	}
	return formatter.Format(report, options)
}
