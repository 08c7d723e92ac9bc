// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"encoding/csv"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/resilience"
)

// CSV yields every cell of every row. The first row is not treated as a
// header; it is scanned like any other.
type CSV struct{}

// NewCSV creates a new CSV extractor
func NewCSV() *CSV {
	return &CSV{}
}

// Name returns the name of this extractor
func (c *CSV) Name() string {
	return "csv"
}

// Category implements Extractor.
func (c *CSV) Category() aggregator.Category {
	return aggregator.CategoryFlat
}

// Units implements Extractor.
func (c *CSV) Units(path string) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			yield(Unit{}, resilience.NewFileOpenError(path, err))
			return
		}
		defer f.Close()

		reader := csv.NewReader(f)
		reader.FieldsPerRecord = -1
		reader.LazyQuotes = true
		reader.ReuseRecord = true

		row := 0
		for {
			record, err := reader.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Unit{}, resilience.NewContainerFormatError(path, c.Name(), err))
				return
			}
			row++
			for col, cell := range record {
				if cell == "" {
					continue
				}
				if !yield(Unit{Text: cell, Row: row, Col: col + 1}, nil) {
					return
				}
			}
		}
	}
}
