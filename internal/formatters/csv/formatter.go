// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package csv

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"pii-scan/internal/formatters"
)

// Header is the first row of every report
var Header = []string{"file_name", "ssn_count"}

// Formatter implements the CSV summary report
type Formatter struct{}

// NewFormatter creates a new CSV formatter
func NewFormatter() *Formatter {
	return &Formatter{}
}

func (f *Formatter) Name() string {
	return "csv"
}

func (f *Formatter) Description() string {
	return "Per-file SSN counts for spreadsheet import"
}

// Format renders the header and one row per file with SSNs: flat files
// first, then spreadsheets. The header is written even without findings.
func (f *Formatter) Format(report formatters.Report, _ formatters.FormatterOptions) (string, error) {
	var b strings.Builder
	if err := f.Write(&b, report); err != nil {
		return "", err
	}
	return b.String(), nil
}

// Write streams the report to w.
func (f *Formatter) Write(w io.Writer, report formatters.Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, finding := range report.OrderedFindings() {
		if err := cw.Write([]string{finding.File, strconv.Itoa(finding.Count)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Register the formatter during package initialization
func init() {
	formatters.Register(NewFormatter())
}
