// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/resilience"
)

// errStopWalk ends an EXIF walk early when the consumer stops iterating.
var errStopWalk = errors.New("stop walk")

// ImageMetadata yields the value of each EXIF tag of a JPEG or TIFF image.
// An image without EXIF data yields nothing. It is only dispatched when
// enabled in the configuration.
type ImageMetadata struct{}

// NewImageMetadata creates a new image metadata extractor
func NewImageMetadata() *ImageMetadata {
	return &ImageMetadata{}
}

// Name returns the name of this extractor
func (m *ImageMetadata) Name() string {
	return "image_metadata"
}

// Category implements Extractor.
func (m *ImageMetadata) Category() aggregator.Category {
	return aggregator.CategoryFlat
}

// Units implements Extractor.
func (m *ImageMetadata) Units(path string) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			yield(Unit{}, resilience.NewFileOpenError(path, err))
			return
		}
		defer f.Close()

		x, err := exif.Decode(f)
		if x == nil || (err != nil && exif.IsCriticalError(err)) {
			return
		}

		walker := &exifWalker{yield: yield}
		_ = x.Walk(walker)
	}
}

// exifWalker implements exif.Walker, turning each tag into a unit
type exifWalker struct {
	yield func(Unit, error) bool
	n     int
}

// Walk implements the Walker interface
func (w *exifWalker) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if tag == nil {
		return nil
	}
	text, err := tag.StringVal()
	if err != nil {
		text = tag.String()
	}
	w.n++
	if !w.yield(Unit{Text: text, Sheet: string(name), Row: w.n}, nil) {
		return errStopWalk
	}
	return nil
}
