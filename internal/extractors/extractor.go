// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"fmt"
	"iter"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/detector"
	"pii-scan/internal/resilience"
)

// Unit is the smallest piece of text scanned independently: one line of a
// flat file, or one cell of a table.
type Unit struct {
	Text string

	// Position of the unit inside its container. Sheet is empty for flat
	// files; Row and Col are 1-based, Col is 0 for line-oriented formats.
	Sheet string
	Row   int
	Col   int

	// Part numbers the pieces of a line too long to yield at once. Every
	// piece after the first has Part > 0 and the same Row.
	Part int
}

// Location describes where the unit came from, for logging.
func (u Unit) Location() string {
	switch {
	case u.Sheet != "" && u.Col > 0:
		return fmt.Sprintf("%s!R%dC%d", u.Sheet, u.Row, u.Col)
	case u.Sheet != "":
		return fmt.Sprintf("%s row %d", u.Sheet, u.Row)
	case u.Col > 0:
		return fmt.Sprintf("row %d col %d", u.Row, u.Col)
	default:
		return fmt.Sprintf("line %d", u.Row)
	}
}

// Extractor produces the text units of one container format.
type Extractor interface {
	// Name identifies the extractor in logs and metrics.
	Name() string

	// Category decides which report section a finding belongs to.
	Category() aggregator.Category

	// Units returns a lazy, finite, forward-only sequence over path. The
	// file is opened when iteration starts and closed when it ends, however
	// it ends. A failure is yielded once as a non-nil error and ends the
	// sequence.
	Units(path string) iter.Seq2[Unit, error]
}

// Recorder receives matches for a file. aggregator.Aggregator implements it.
type Recorder interface {
	Record(fileID string, category aggregator.Category, raw string) bool
}

// Outcome is the result of scanning one file. It is always populated, so a
// file without SSNs is reported as Matches == 0 rather than by omission.
type Outcome struct {
	Units       int
	Matches     int
	NewDistinct int

	// First is the location of the first counted match, empty without one.
	First string
}

// Found reports whether any unit matched.
func (o Outcome) Found() bool {
	return o.Matches > 0
}

// Scan walks every unit of path with ex and tests it with matcher. Only the
// first match of each unit is counted, and the pieces of a split line count
// as one unit. Matches are held back until the whole file has been read and
// are committed to rec only on success, so a file that fails part way
// through contributes nothing.
func Scan(ex Extractor, path, fileID string, matcher detector.Matcher, rec Recorder) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Units: out.Units}
			err = resilience.RecoveredPanic(path, ex.Name(), r)
		}
	}()

	var pending []detector.Match
	lineMatched := false
	for unit, unitErr := range ex.Units(path) {
		if unitErr != nil {
			return Outcome{Units: out.Units}, resilience.ClassifyError(path, unitErr)
		}
		out.Units++

		if unit.Part == 0 {
			lineMatched = false
		} else if lineMatched {
			continue
		}
		match, ok := matcher.Match(unit.Text)
		if !ok {
			continue
		}
		lineMatched = true
		pending = append(pending, detector.Match{Text: match.Text, Location: unit.Location()})
	}

	out.Matches = len(pending)
	if len(pending) > 0 {
		out.First = pending[0].Location
	}
	for _, m := range pending {
		if rec.Record(fileID, ex.Category(), m.Text) {
			out.NewDistinct++
		}
	}
	return out, nil
}
