// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"iter"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/resilience"
)

// XLSX yields every non-empty cell of every sheet of an Office Open XML
// workbook, streaming rows so a sheet is never fully materialized.
type XLSX struct{}

// NewXLSX creates a new xlsx extractor
func NewXLSX() *XLSX {
	return &XLSX{}
}

// Name returns the name of this extractor
func (x *XLSX) Name() string {
	return "xlsx"
}

// Category implements Extractor.
func (x *XLSX) Category() aggregator.Category {
	return aggregator.CategorySpreadsheet
}

// Units implements Extractor.
func (x *XLSX) Units(path string) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		f, err := excelize.OpenFile(filepath.Clean(path))
		if err != nil {
			yield(Unit{}, resilience.ClassifyError(path, err))
			return
		}
		defer f.Close()

		for _, sheet := range f.GetSheetList() {
			if !x.sheetUnits(f, path, sheet, yield) {
				return
			}
		}
	}
}

// sheetUnits streams one sheet. It returns false when iteration must stop.
func (x *XLSX) sheetUnits(f *excelize.File, path, sheet string, yield func(Unit, error) bool) bool {
	rows, err := f.Rows(sheet)
	if err != nil {
		yield(Unit{}, resilience.NewContainerFormatError(path, x.Name(), err))
		return false
	}
	defer rows.Close()

	row := 0
	for rows.Next() {
		row++
		cols, err := rows.Columns()
		if err != nil {
			yield(Unit{}, resilience.NewContainerFormatError(path, x.Name(), err))
			return false
		}
		for col, cell := range cols {
			if cell == "" {
				continue
			}
			if !yield(Unit{Text: cell, Sheet: sheet, Row: row, Col: col + 1}, nil) {
				return false
			}
		}
	}
	if err := rows.Error(); err != nil {
		yield(Unit{}, resilience.NewContainerFormatError(path, x.Name(), err))
		return false
	}
	return true
}
