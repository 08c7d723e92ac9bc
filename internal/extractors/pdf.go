// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"fmt"
	"iter"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/resilience"
)

// PDF yields one unit per text row of each page. It is only dispatched
// when enabled in the configuration.
type PDF struct {
	conf *model.Configuration
}

// NewPDF creates a new PDF extractor
func NewPDF() *PDF {
	return &PDF{conf: model.NewDefaultConfiguration()}
}

// Name returns the name of this extractor
func (p *PDF) Name() string {
	return "pdf"
}

// Category implements Extractor.
func (p *PDF) Category() aggregator.Category {
	return aggregator.CategoryFlat
}

// Units implements Extractor.
func (p *PDF) Units(path string) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		path = filepath.Clean(path)

		// Encrypted and damaged documents are rejected before text extraction.
		if err := api.ValidateFile(path, p.conf); err != nil {
			yield(Unit{}, resilience.NewFileOpenError(path, err))
			return
		}

		f, r, err := pdf.Open(path)
		if err != nil {
			yield(Unit{}, resilience.ClassifyError(path, err))
			return
		}
		defer f.Close()

		for i := 1; i <= r.NumPage(); i++ {
			page := r.Page(i)
			if page.V.IsNull() {
				continue
			}
			rows, err := page.GetTextByRow()
			if err != nil {
				yield(Unit{}, resilience.NewContainerFormatError(path, p.Name(), fmt.Errorf("page %d: %w", i, err)))
				return
			}
			line := 0
			for _, row := range rows {
				if row == nil || len(row.Content) == 0 {
					continue
				}
				line++
				unit := Unit{Text: rowText(row.Content), Sheet: fmt.Sprintf("page %d", i), Row: line}
				if !yield(unit, nil) {
					return
				}
			}
		}
	}
}

// rowText joins the fragments of a row left to right, inserting a space
// where the horizontal gap is wider than a fraction of the font size.
func rowText(texts []pdf.Text) string {
	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var b strings.Builder
	for i, t := range sorted {
		b.WriteString(t.S)
		if i == len(sorted)-1 {
			break
		}
		fontSize := t.FontSize
		if fontSize <= 0 {
			fontSize = 12
		}
		if sorted[i+1].X-(t.X+t.W) > fontSize*0.2 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
