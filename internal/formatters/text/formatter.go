// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package text

import (
	"fmt"
	"strings"
	"time"

	"pii-scan/internal/formatters"

	"github.com/fatih/color"
)

// Formatter implements the human-readable run summary
type Formatter struct {
	colors map[string]*color.Color
}

// NewFormatter creates a new text formatter
func NewFormatter() *Formatter {
	return &Formatter{
		colors: map[string]*color.Color{
			"green":  color.New(color.FgGreen),
			"yellow": color.New(color.FgYellow),
			"red":    color.New(color.FgRed, color.Bold),
			"cyan":   color.New(color.FgCyan),
			"white":  color.New(color.FgWhite, color.Bold),
		},
	}
}

func (f *Formatter) Name() string {
	return "text"
}

func (f *Formatter) Description() string {
	return "Human-readable run summary with colors"
}

func (f *Formatter) Format(report formatters.Report, options formatters.FormatterOptions) (string, error) {
	// Disable colors if requested
	if options.NoColor {
		color.NoColor = true
	}

	stats := report.StatsOrZero()
	var b strings.Builder

	title := "Scan complete"
	if report.Interrupted {
		title = "Scan interrupted"
	}
	b.WriteString(f.colors["white"].Sprint(title))
	if report.RunID != "" {
		fmt.Fprintf(&b, " (run %s)", report.RunID)
	}
	b.WriteString("\n")

	f.appendLine(&b, "Files found", fmt.Sprint(stats.TotalFiles))
	f.appendLine(&b, "Files scanned", fmt.Sprint(stats.ScannedFiles))
	if stats.SkippedFiles > 0 {
		f.appendLine(&b, "Skipped (encrypted)", fmt.Sprint(stats.SkippedFiles))
	}
	if stats.FailedFiles > 0 {
		f.appendLine(&b, "Failed", f.colors["yellow"].Sprint(stats.FailedFiles))
	}
	if stats.CancelledFiles > 0 {
		f.appendLine(&b, "Not scanned", f.colors["yellow"].Sprint(stats.CancelledFiles))
	}

	distinct := report.Snapshot.DistinctSSNs
	ssnColor := f.colors["green"]
	if distinct > 0 {
		ssnColor = f.colors["red"]
	}
	f.appendLine(&b, "Files with SSNs", ssnColor.Sprint(report.Snapshot.FilesWithSSNs()))
	f.appendLine(&b, "Distinct SSNs", ssnColor.Sprint(distinct))
	f.appendLine(&b, "Duration", fmt.Sprintf("%s (%d workers)", stats.TotalDuration.Round(time.Millisecond), stats.WorkerCount))
	if report.ReportPath != "" {
		f.appendLine(&b, "Report", f.colors["cyan"].Sprint(report.ReportPath))
	}

	if options.Verbose {
		findings := report.OrderedFindings()
		if len(findings) > 0 {
			b.WriteString("\n")
		}
		for _, finding := range findings {
			fmt.Fprintf(&b, "  %6d  %-11s  %s\n", finding.Count, finding.Category, finding.File)
		}
	}

	return b.String(), nil
}

func (f *Formatter) appendLine(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %-20s %s\n", label+":", value)
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
