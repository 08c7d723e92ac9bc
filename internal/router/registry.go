// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"slices"

	"pii-scan/internal/extractors"
)

// ExtractorFactory creates an extractor instance
type ExtractorFactory func() extractors.Extractor

// ExtractorRegistry manages extractor registration and creation
type ExtractorRegistry struct {
	factories map[Kind]ExtractorFactory
}

// NewExtractorRegistry creates a new extractor registry
func NewExtractorRegistry() *ExtractorRegistry {
	return &ExtractorRegistry{
		factories: make(map[Kind]ExtractorFactory),
	}
}

// DefaultExtractorRegistry returns a registry holding every built-in
// extractor, including the ones only reachable through opt-in rules.
func DefaultExtractorRegistry() *ExtractorRegistry {
	r := NewExtractorRegistry()
	r.Register(KindPlainText, func() extractors.Extractor { return extractors.NewPlainText() })
	r.Register(KindCSV, func() extractors.Extractor { return extractors.NewCSV() })
	r.Register(KindXLSX, func() extractors.Extractor { return extractors.NewXLSX() })
	r.Register(KindXLS, func() extractors.Extractor { return extractors.NewXLS() })
	r.Register(KindPDF, func() extractors.Extractor { return extractors.NewPDF() })
	r.Register(KindImageMetadata, func() extractors.Extractor { return extractors.NewImageMetadata() })
	return r
}

// Register adds an extractor factory to the registry
func (r *ExtractorRegistry) Register(kind Kind, factory ExtractorFactory) {
	r.factories[kind] = factory
}

// Create creates an extractor instance by kind
func (r *ExtractorRegistry) Create(kind Kind) extractors.Extractor {
	if factory, exists := r.factories[kind]; exists {
		return factory()
	}
	return nil
}

// Kinds returns all registered kinds in ascending order
func (r *ExtractorRegistry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, kind)
	}
	slices.Sort(kinds)
	return kinds
}

// CreateAll creates one instance of every registered extractor
func (r *ExtractorRegistry) CreateAll() map[Kind]extractors.Extractor {
	created := make(map[Kind]extractors.Extractor, len(r.factories))
	for kind := range r.factories {
		if ex := r.Create(kind); ex != nil {
			created[kind] = ex
		}
	}
	return created
}
