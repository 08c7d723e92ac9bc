// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package router

import (
	"testing"

	"pii-scan/internal/extractors"
)

func TestDispatcher_Choose(t *testing.T) {
	d := NewDispatcher()

	cases := []struct {
		path string
		want Kind
	}{
		{"/data/book.xlsx", KindXLSX},
		{"/data/book.xls", KindXLS},
		{"/data/people.csv", KindCSV},
		{"/data/secret.gpg", KindSkip},
		{"/data/secret.pgp", KindSkip},
		{"/data/notes.txt", KindPlainText},
		{"/data/README", KindPlainText},
		{"/data/report.pdf", KindPlainText},
		{"/data/photo.jpg", KindPlainText},
		{"/data/BOOK.XLSX", KindPlainText},
		{"/data/archive.xlsx.bak", KindPlainText},
		{"/data/table.CSV", KindPlainText},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if got := d.Choose(tc.path); got != tc.want {
				t.Errorf("Choose(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestDispatcher_OptInRules(t *testing.T) {
	d := NewDispatcher(WithPDF(true), WithImageMetadata(true))

	for path, want := range map[string]Kind{
		"/data/report.pdf":  KindPDF,
		"/data/photo.jpg":   KindImageMetadata,
		"/data/photo.jpeg":  KindImageMetadata,
		"/data/scan.tif":    KindImageMetadata,
		"/data/scan.tiff":   KindImageMetadata,
		"/data/secret.gpg":  KindSkip,
		"/data/notes.md":    KindPlainText,
		"/data/report.PDF":  KindPlainText,
		"/data/legacy.xls":  KindXLS,
		"/data/modern.xlsx": KindXLSX,
	} {
		if got := d.Choose(path); got != want {
			t.Errorf("Choose(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestDispatcher_OptInDisabled(t *testing.T) {
	d := NewDispatcher(WithPDF(false), WithImageMetadata(false))
	if got := d.Choose("/data/report.pdf"); got != KindPlainText {
		t.Errorf("pdf disabled: got %v, want plaintext", got)
	}
}

func TestDispatcher_Extractor(t *testing.T) {
	d := NewDispatcher()

	if _, ok := d.Extractor(KindSkip); ok {
		t.Error("skip kind must not have an extractor")
	}

	for kind, name := range map[Kind]string{
		KindPlainText: "plaintext",
		KindCSV:       "csv",
		KindXLSX:      "xlsx",
		KindXLS:       "xls",
	} {
		ex, ok := d.Extractor(kind)
		if !ok {
			t.Fatalf("no extractor for %v", kind)
		}
		if ex.Name() != name {
			t.Errorf("Extractor(%v).Name() = %q, want %q", kind, ex.Name(), name)
		}
	}
}

func TestDispatcher_Route(t *testing.T) {
	d := NewDispatcher()

	kind, ex := d.Route("/data/secret.gpg")
	if kind != KindSkip || ex != nil {
		t.Errorf("Route(.gpg) = %v, %v; want skip, nil", kind, ex)
	}

	kind, ex = d.Route("/data/people.csv")
	if kind != KindCSV || ex == nil || ex.Name() != "csv" {
		t.Errorf("Route(.csv) = %v, %v", kind, ex)
	}
}

func TestDispatcher_CustomRegistry(t *testing.T) {
	r := NewExtractorRegistry()
	r.Register(KindPlainText, func() extractors.Extractor { return extractors.NewPlainText() })

	d := NewDispatcher(WithRegistry(r))
	if _, ok := d.Extractor(KindCSV); ok {
		t.Error("csv should be unavailable with a plaintext-only registry")
	}
	if _, ok := d.Extractor(KindPlainText); !ok {
		t.Error("plaintext should be available")
	}
}

func TestExtractorRegistry_Kinds(t *testing.T) {
	kinds := DefaultExtractorRegistry().Kinds()
	want := []Kind{KindPlainText, KindCSV, KindXLSX, KindXLS, KindPDF, KindImageMetadata}
	if len(kinds) != len(want) {
		t.Fatalf("Kinds() = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("Kinds()[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
	if NewExtractorRegistry().Create(KindCSV) != nil {
		t.Error("empty registry should create nothing")
	}
}

func TestKind_String(t *testing.T) {
	if KindSkip.String() != "skip" || KindImageMetadata.String() != "image_metadata" || Kind(99).String() != "unknown" {
		t.Error("unexpected Kind names")
	}
}
