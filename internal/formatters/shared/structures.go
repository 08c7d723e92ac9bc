// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package shared

import (
	"pii-scan/internal/formatters"
)

// SummaryDocument is the top-level structure for JSON/YAML output
type SummaryDocument struct {
	RunID       string        `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Interrupted bool          `json:"interrupted" yaml:"interrupted"`
	Report      string        `json:"report,omitempty" yaml:"report,omitempty"`
	Totals      Totals        `json:"totals" yaml:"totals"`
	Findings    []FindingItem `json:"findings,omitempty" yaml:"findings,omitempty"`
}

// Totals mirrors the run statistics
type Totals struct {
	TotalFiles     int   `json:"total_files" yaml:"total_files"`
	ScannedFiles   int   `json:"scanned_files" yaml:"scanned_files"`
	SkippedFiles   int   `json:"skipped_files" yaml:"skipped_files"`
	FailedFiles    int   `json:"failed_files" yaml:"failed_files"`
	CancelledFiles int   `json:"cancelled_files" yaml:"cancelled_files"`
	FilesWithSSNs  int   `json:"files_with_ssns" yaml:"files_with_ssns"`
	DistinctSSNs   int   `json:"distinct_ssns" yaml:"distinct_ssns"`
	TotalMatches   int   `json:"total_matches" yaml:"total_matches"`
	WorkerCount    int   `json:"worker_count" yaml:"worker_count"`
	DurationMS     int64 `json:"duration_ms" yaml:"duration_ms"`
	AvgFileTimeMS  int64 `json:"avg_file_time_ms" yaml:"avg_file_time_ms"`
}

// FindingItem is one file with SSNs
type FindingItem struct {
	File     string `json:"file" yaml:"file"`
	Category string `json:"category" yaml:"category"`
	Count    int    `json:"ssn_count" yaml:"ssn_count"`
}

// ConvertReport builds the document shared by the JSON and YAML formatters.
// Findings are listed only in verbose mode.
func ConvertReport(report formatters.Report, options formatters.FormatterOptions) SummaryDocument {
	stats := report.StatsOrZero()
	doc := SummaryDocument{
		RunID:       report.RunID,
		Interrupted: report.Interrupted,
		Report:      report.ReportPath,
		Totals: Totals{
			TotalFiles:     stats.TotalFiles,
			ScannedFiles:   stats.ScannedFiles,
			SkippedFiles:   stats.SkippedFiles,
			FailedFiles:    stats.FailedFiles,
			CancelledFiles: stats.CancelledFiles,
			FilesWithSSNs:  report.Snapshot.FilesWithSSNs(),
			DistinctSSNs:   report.Snapshot.DistinctSSNs,
			TotalMatches:   report.Snapshot.TotalMatches(),
			WorkerCount:    stats.WorkerCount,
			DurationMS:     stats.TotalDuration.Milliseconds(),
			AvgFileTimeMS:  stats.AvgFileTime.Milliseconds(),
		},
	}

	if options.Verbose {
		for _, f := range report.OrderedFindings() {
			doc.Findings = append(doc.Findings, FindingItem{
				File:     f.File,
				Category: f.Category.String(),
				Count:    f.Count,
			})
		}
	}
	return doc
}
