// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"

	"github.com/extrame/xls"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/resilience"
)

// XLS yields every non-empty cell of every sheet of a legacy BIFF workbook.
//
// A workbook keeps every sheet it has parsed, so the file is re-opened per
// sheet and each workbook is dropped once its sheet is done. Only one
// sheet's worth of decoded data is reachable at a time.
type XLS struct {
	charset string
}

// NewXLS creates a new xls extractor
func NewXLS() *XLS {
	return &XLS{charset: "utf-8"}
}

// Name returns the name of this extractor
func (x *XLS) Name() string {
	return "xls"
}

// Category implements Extractor.
func (x *XLS) Category() aggregator.Category {
	return aggregator.CategorySpreadsheet
}

// Units implements Extractor.
func (x *XLS) Units(path string) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			yield(Unit{}, resilience.NewFileOpenError(path, err))
			return
		}
		defer f.Close()

		wb, err := x.open(f)
		if err != nil {
			yield(Unit{}, resilience.ClassifyError(path, err))
			return
		}
		sheets := wb.NumSheets()

		for i := 0; i < sheets; i++ {
			if i > 0 {
				if wb, err = x.open(f); err != nil {
					yield(Unit{}, resilience.ClassifyError(path, err))
					return
				}
			}
			sheet := wb.GetSheet(i)
			wb = nil
			if sheet == nil {
				continue
			}
			if !x.sheetUnits(sheet, yield) {
				return
			}
		}
	}
}

func (x *XLS) open(f *os.File) (*xls.WorkBook, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	wb, err := xls.OpenReader(f, x.charset)
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, fmt.Errorf("not a BIFF workbook")
	}
	return wb, nil
}

// sheetUnits walks one decoded sheet. It returns false when iteration must stop.
func (x *XLS) sheetUnits(sheet *xls.WorkSheet, yield func(Unit, error) bool) bool {
	for r := 0; r <= int(sheet.MaxRow); r++ {
		row := rowAt(sheet, r)
		if row == nil {
			continue
		}
		for c := row.FirstCol(); c <= row.LastCol(); c++ {
			cell := row.Col(c)
			if cell == "" {
				continue
			}
			if !yield(Unit{Text: cell, Sheet: sheet.Name, Row: r + 1, Col: c + 1}, nil) {
				return false
			}
		}
	}
	return true
}

// rowAt returns row r of sheet, or nil when the sheet stores no such row.
// BIFF only records rows that hold something, and WorkSheet.Row
// dereferences the missing row instead of returning nil.
func rowAt(sheet *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(r)
}
