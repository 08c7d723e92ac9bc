// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package formatters_test

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/formatters"
	_ "pii-scan/internal/formatters/csv"
	_ "pii-scan/internal/formatters/json"
	"pii-scan/internal/formatters/shared"
	_ "pii-scan/internal/formatters/text"
	_ "pii-scan/internal/formatters/yaml"
	"pii-scan/internal/parallel"
)

func sampleReport() formatters.Report {
	agg := aggregator.New()
	agg.Record("/data/book.xlsx", aggregator.CategorySpreadsheet, "123-45-6789")
	agg.Record("/data/notes.txt", aggregator.CategoryFlat, "123456789")
	agg.Record("/data/notes.txt", aggregator.CategoryFlat, "987-65-4321")
	agg.Record("/data/a,b.csv", aggregator.CategoryFlat, "555 11 2222")

	return formatters.Report{
		RunID:    "run-1",
		Snapshot: agg.Snapshot(),
		Stats: &parallel.ProcessingStats{
			TotalFiles:    5,
			ScannedFiles:  4,
			SkippedFiles:  1,
			WorkerCount:   2,
			TotalDuration: 1500 * time.Millisecond,
		},
		ReportPath: "PIIS_summary.csv",
	}
}

// keepColorSetting restores the global color switch the text formatter flips.
func keepColorSetting(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
}

func line(label, value string) string {
	return fmt.Sprintf("  %-20s %s\n", label+":", value)
}

func TestRegistry_BuiltIns(t *testing.T) {
	assert.Equal(t, []string{"csv", "json", "text", "yaml"}, formatters.List())

	_, err := formatters.Export("xml", sampleReport(), formatters.FormatterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "csv, json, text, yaml")
}

func TestCSV_FlatRowsFirst(t *testing.T) {
	out, err := formatters.Export("csv", sampleReport(), formatters.FormatterOptions{})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, []string{
		"file_name,ssn_count",
		"/data/notes.txt,2",
		`"/data/a,b.csv",1`,
		"/data/book.xlsx,1",
	}, lines)
}

func TestCSV_HeaderOnlyWithoutFindings(t *testing.T) {
	out, err := formatters.Export("csv", formatters.Report{}, formatters.FormatterOptions{})
	require.NoError(t, err)
	assert.Equal(t, "file_name,ssn_count\n", out)
}

func TestText_Summary(t *testing.T) {
	keepColorSetting(t)
	out, err := formatters.Export("text", sampleReport(), formatters.FormatterOptions{NoColor: true, Verbose: true})
	require.NoError(t, err)

	assert.Contains(t, out, "Scan complete (run run-1)")
	assert.Contains(t, out, "Files found:")
	assert.Contains(t, out, line("Skipped (encrypted)", "1"))
	assert.Contains(t, out, line("Distinct SSNs", "3"))
	assert.Contains(t, out, line("Files with SSNs", "3"))
	assert.Contains(t, out, "1.5s (2 workers)")
	assert.Contains(t, out, "/data/notes.txt")
	assert.NotContains(t, out, "Failed:")
}

func TestText_Interrupted(t *testing.T) {
	report := sampleReport()
	report.Interrupted = true
	report.Stats.CancelledFiles = 7

	keepColorSetting(t)
	out, err := formatters.Export("text", report, formatters.FormatterOptions{NoColor: true})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Scan interrupted"))
	assert.Contains(t, out, line("Not scanned", "7"))
	assert.NotContains(t, out, "/data/notes.txt")
}

func TestJSONAndYAML_SameDocument(t *testing.T) {
	opts := formatters.FormatterOptions{Verbose: true}

	jsonOut, err := formatters.Export("json", sampleReport(), opts)
	require.NoError(t, err)
	yamlOut, err := formatters.Export("yaml", sampleReport(), opts)
	require.NoError(t, err)

	var fromJSON, fromYAML shared.SummaryDocument
	require.NoError(t, json.Unmarshal([]byte(jsonOut), &fromJSON))
	require.NoError(t, yaml.Unmarshal([]byte(yamlOut), &fromYAML))
	assert.Equal(t, fromJSON, fromYAML)

	assert.Equal(t, 3, fromJSON.Totals.DistinctSSNs)
	assert.Equal(t, 4, fromJSON.Totals.TotalMatches)
	assert.Equal(t, int64(1500), fromJSON.Totals.DurationMS)
	require.Len(t, fromJSON.Findings, 3)
	assert.Equal(t, "flat", fromJSON.Findings[0].Category)
	assert.Equal(t, "spreadsheet", fromJSON.Findings[2].Category)
}

func TestStatsOrZero(t *testing.T) {
	assert.Equal(t, parallel.ProcessingStats{}, formatters.Report{}.StatsOrZero())
}
