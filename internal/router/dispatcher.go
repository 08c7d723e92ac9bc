// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"path/filepath"
	"slices"

	"pii-scan/internal/extractors"
	"pii-scan/internal/observability"
)

// Kind names the extractor a file is routed to
type Kind int

const (
	KindPlainText Kind = iota
	KindCSV
	KindXLSX
	KindXLS
	KindPDF
	KindImageMetadata

	// KindSkip marks files that are never opened
	KindSkip
)

func (k Kind) String() string {
	switch k {
	case KindPlainText:
		return "plaintext"
	case KindCSV:
		return "csv"
	case KindXLSX:
		return "xlsx"
	case KindXLS:
		return "xls"
	case KindPDF:
		return "pdf"
	case KindImageMetadata:
		return "image_metadata"
	case KindSkip:
		return "skip"
	default:
		return "unknown"
	}
}

// rule maps a set of extensions, compared case-sensitively with the leading
// dot, to a kind. Rules are tried in order and the first hit wins.
type rule struct {
	exts []string
	kind Kind
}

var defaultRules = []rule{
	{exts: []string{".xlsx"}, kind: KindXLSX},
	{exts: []string{".xls"}, kind: KindXLS},
	{exts: []string{".csv"}, kind: KindCSV},
	{exts: []string{".pgp", ".gpg"}, kind: KindSkip},
}

var (
	pdfRule   = rule{exts: []string{".pdf"}, kind: KindPDF}
	imageRule = rule{exts: []string{".jpg", ".jpeg", ".tif", ".tiff"}, kind: KindImageMetadata}
)

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithPDF routes .pdf files to the PDF text extractor instead of plain text.
func WithPDF(enabled bool) Option {
	return func(d *Dispatcher) {
		if enabled {
			d.rules = append(d.rules, pdfRule)
		}
	}
}

// WithImageMetadata routes JPEG and TIFF files to the EXIF extractor.
func WithImageMetadata(enabled bool) Option {
	return func(d *Dispatcher) {
		if enabled {
			d.rules = append(d.rules, imageRule)
		}
	}
}

// WithRegistry replaces the built-in extractor registry.
func WithRegistry(r *ExtractorRegistry) Option {
	return func(d *Dispatcher) {
		d.registry = r
	}
}

// WithObserver attaches an observer for dispatch timing.
func WithObserver(o *observability.Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// Dispatcher picks an extractor for a file from its extension alone. It
// never looks at file content.
type Dispatcher struct {
	rules      []rule
	registry   *ExtractorRegistry
	extractors map[Kind]extractors.Extractor
	observer   *observability.Observer
}

// NewDispatcher creates a dispatcher with the default routing table plus
// whatever opt-in rules opts enable.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		rules:    slices.Clone(defaultRules),
		registry: DefaultExtractorRegistry(),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.observer == nil {
		d.observer = observability.NewObserver(nil)
	}
	d.extractors = d.registry.CreateAll()
	return d
}

// Choose returns the kind for path. Files without a matching rule are
// plain text.
func (d *Dispatcher) Choose(path string) Kind {
	finish := d.observer.StartTiming("router", "dispatch", path)

	ext := filepath.Ext(path)
	kind := KindPlainText
	for _, r := range d.rules {
		if slices.Contains(r.exts, ext) {
			kind = r.kind
			break
		}
	}

	finish(true, map[string]interface{}{"kind": kind.String()})
	return kind
}

// Extractor returns the extractor serving kind. It reports false for
// KindSkip and for kinds without a registered extractor.
func (d *Dispatcher) Extractor(kind Kind) (extractors.Extractor, bool) {
	if kind == KindSkip {
		return nil, false
	}
	ex, ok := d.extractors[kind]
	return ex, ok
}

// Route combines Choose and Extractor.
func (d *Dispatcher) Route(path string) (Kind, extractors.Extractor) {
	kind := d.Choose(path)
	ex, _ := d.Extractor(kind)
	return kind, ex
}
