// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package extractors

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"iter"
	"os"
	"path/filepath"

	"pii-scan/internal/aggregator"
	"pii-scan/internal/resilience"
)

// WindowBytes is the read buffer of the plain text extractor. Lines longer
// than this are yielded in pieces of roughly this size.
const WindowBytes = 1024 * 1024

// PlainText yields each line of a file verbatim. It is the fallback for
// every extension without a dedicated extractor.
//
// Lines have no length limit. A line longer than the window is split into
// pieces sharing its Row, each cut placed right after an ASCII byte that is
// neither a word character nor an SSN separator, so no match and no word
// boundary changes. A window holding no such byte is cut where it ends.
type PlainText struct {
	window int
}

// NewPlainText creates a new plain text extractor
func NewPlainText() *PlainText {
	return &PlainText{window: WindowBytes}
}

// Name returns the name of this extractor
func (p *PlainText) Name() string {
	return "plaintext"
}

// Category implements Extractor.
func (p *PlainText) Category() aggregator.Category {
	return aggregator.CategoryFlat
}

// Units implements Extractor.
func (p *PlainText) Units(path string) iter.Seq2[Unit, error] {
	return func(yield func(Unit, error) bool) {
		f, err := os.Open(filepath.Clean(path))
		if err != nil {
			yield(Unit{}, resilience.NewFileOpenError(path, err))
			return
		}
		defer f.Close()

		window := max(p.window, 16)
		r := bufio.NewReaderSize(f, window)

		var pending []byte
		line, part := 0, 0
		for {
			chunk, err := r.ReadSlice('\n')
			pending = append(pending, chunk...)

			if errors.Is(err, bufio.ErrBufferFull) {
				for len(pending) >= window {
					cut := safeCut(pending[:window])
					if !yield(Unit{Text: string(pending[:cut]), Row: line + 1, Part: part}, nil) {
						return
					}
					part++
					pending = append(pending[:0], pending[cut:]...)
				}
				continue
			}
			if err != nil && !errors.Is(err, io.EOF) {
				yield(Unit{}, resilience.NewContainerFormatError(path, p.Name(), err))
				return
			}
			if errors.Is(err, io.EOF) && len(pending) == 0 && part == 0 {
				return
			}

			line++
			if !yield(Unit{Text: string(trimEOL(pending)), Row: line, Part: part}, nil) {
				return
			}
			pending, part = pending[:0], 0
			if err != nil {
				return
			}
		}
	}
}

// trimEOL drops a trailing "\n" or "\r\n".
func trimEOL(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

// safeCut returns the length of the longest prefix of b ending in a byte
// that can neither be part of an SSN nor join a word, or len(b) when there
// is none.
func safeCut(b []byte) int {
	for i := len(b) - 1; i >= 0; i-- {
		if isSeparator(b[i]) {
			return i + 1
		}
	}
	return len(b)
}

func isSeparator(c byte) bool {
	switch {
	case c >= 0x80, c == '-', c == ' ', c == '_':
		return false
	case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return false
	}
	return true
}
