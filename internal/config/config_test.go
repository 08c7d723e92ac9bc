// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pii-scan/internal/resilience"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pii-scan.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoadConfig_ValidFile(t *testing.T) {
	path := writeConfig(t, `
targets:
  scan_dirs: [/data/share, /home]
core:
  thread_count: 4
logging:
  level: DEBUG
  format: json
report:
  path: out.csv
formats:
  pdf: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got := cfg.ScanRoots(); len(got) != 2 || got[0] != "/data/share" || got[1] != "/home" {
		t.Errorf("ScanRoots() = %v", got)
	}
	if cfg.Concurrency() != 4 {
		t.Errorf("Concurrency() = %d, want 4", cfg.Concurrency())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected level to be normalised, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.File != DefaultLogFile {
		t.Errorf("expected default log file, got %q", cfg.Logging.File)
	}
	if cfg.Report.Path != "out.csv" {
		t.Errorf("expected report path out.csv, got %q", cfg.Report.Path)
	}
	if !cfg.Formats.PDF || cfg.Formats.ImageMetadata {
		t.Errorf("unexpected formats: %+v", cfg.Formats)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "targets:\n  scan_dirs: [/srv]\n"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Concurrency() < 1 || cfg.Concurrency() > 8 {
		t.Errorf("default thread count out of range: %d", cfg.Concurrency())
	}
	if cfg.Report.Path != DefaultReportPath {
		t.Errorf("expected default report path, got %q", cfg.Report.Path)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Errorf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.LogToStderr() {
		t.Error("default log destination should be a file")
	}
	if cfg.Metrics.Textfile != "" {
		t.Error("metrics should be off by default")
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    error
	}{
		{"missing scan dirs", "core:\n  thread_count: 2\n", ErrNoScanDirs},
		{"empty scan dirs", "targets:\n  scan_dirs: []\n", ErrNoScanDirs},
		{"blank scan dir", "targets:\n  scan_dirs: ['']\n", ErrNoScanDirs},
		{"zero threads", "targets:\n  scan_dirs: [/a]\ncore:\n  thread_count: 0\n", ErrInvalidThreadCount},
		{"too many threads", "targets:\n  scan_dirs: [/a]\ncore:\n  thread_count: 5000\n", ErrInvalidThreadCount},
		{"bad level", "targets:\n  scan_dirs: [/a]\nlogging:\n  level: chatty\n", nil},
		{"bad yaml", "targets: [unclosed\n", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !resilience.IsConfigurationError(err) {
				t.Errorf("expected configuration error, got %T: %v", err, err)
			}
			if tc.want != nil && !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestLoadConfig_BadLevelNamesKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "targets:\n  scan_dirs: [/a]\nlogging:\n  level: chatty\n"))
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); !strings.Contains(got, "logging.level") {
		t.Errorf("error should name the key, got %q", got)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestFindConfigFile_Explicit(t *testing.T) {
	path := writeConfig(t, "targets:\n  scan_dirs: [/a]\n")
	got, err := FindConfigFile(path)
	if err != nil || got != path {
		t.Errorf("FindConfigFile(%q) = %q, %v", path, got, err)
	}

	_, err = FindConfigFile(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, ErrConfigNotFound) || !resilience.IsConfigurationError(err) {
		t.Errorf("expected configuration error wrapping ErrConfigNotFound, got %v", err)
	}
}

func TestFindConfigFile_WorkingDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(DefaultConfigFile, []byte("targets:\n  scan_dirs: [/a]\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, path, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != DefaultConfigFile {
		t.Errorf("expected %s, got %s", DefaultConfigFile, path)
	}
	if len(cfg.ScanRoots()) != 1 {
		t.Errorf("unexpected roots %v", cfg.ScanRoots())
	}
}

func TestScanRootsIsACopy(t *testing.T) {
	cfg := Default()
	cfg.Targets.ScanDirs = []string{"/a"}
	roots := cfg.ScanRoots()
	roots[0] = "/b"
	if cfg.Targets.ScanDirs[0] != "/a" {
		t.Error("ScanRoots must not expose the underlying slice")
	}
}
