// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/adrg/xdg"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"pii-scan/internal/resilience"
)

// DefaultConfigFile is looked up in the working directory when no path is given.
const DefaultConfigFile = "pii-scan.yaml"

// xdgConfigFile is the fallback location relative to the XDG config dirs.
const xdgConfigFile = "pii-scan/config.yaml"

// Default values applied before the file is read.
const (
	DefaultLogFile    = "pii-scan.log"
	DefaultReportPath = "PIIS_summary.csv"
	MaxThreadCount    = 1024
)

var (
	// ErrConfigNotFound is returned when no configuration file can be located.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrNoScanDirs is returned when targets.scan_dirs is missing or holds an empty entry.
	ErrNoScanDirs = errors.New("targets.scan_dirs must list at least one directory")

	// ErrInvalidThreadCount is returned when core.thread_count is out of range.
	ErrInvalidThreadCount = fmt.Errorf("core.thread_count must be between 1 and %d", MaxThreadCount)
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Config represents the application configuration
type Config struct {
	Targets struct {
		ScanDirs []string `yaml:"scan_dirs" validate:"required,min=1,dive,required"`
	} `yaml:"targets"`

	Core struct {
		ThreadCount int `yaml:"thread_count" validate:"gte=1,lte=1024"`
	} `yaml:"core"`

	Logging struct {
		// File receives the log. Empty or "-" means stderr.
		File   string `yaml:"file"`
		Level  string `yaml:"level" validate:"oneof=debug info error"`
		Format string `yaml:"format" validate:"oneof=text json"`
	} `yaml:"logging"`

	Report struct {
		Path string `yaml:"path" validate:"required"`
	} `yaml:"report"`

	// Formats enables extractors beyond the default table.
	Formats struct {
		PDF           bool `yaml:"pdf"`
		ImageMetadata bool `yaml:"image_metadata"`
	} `yaml:"formats"`

	Metrics struct {
		// Textfile is where Prometheus metrics are written after the scan.
		// Empty disables metrics output.
		Textfile string `yaml:"textfile"`
	} `yaml:"metrics"`
}

// Default returns a configuration with every default applied and no scan
// directories.
func Default() *Config {
	cfg := &Config{}
	cfg.Core.ThreadCount = min(runtime.NumCPU(), 8)
	cfg.Logging.File = DefaultLogFile
	cfg.Logging.Level = "info"
	cfg.Logging.Format = "text"
	cfg.Report.Path = DefaultReportPath
	return cfg
}

// LoadConfig reads, defaults and validates the configuration at configPath.
// Every failure is returned as a configuration error.
func LoadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		if os.IsNotExist(err) {
			err = ErrConfigNotFound
		}
		return nil, resilience.NewConfigurationError(configPath, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, resilience.NewConfigurationError(configPath, err)
	}
	return cfg, nil
}

// Parse decodes and validates YAML configuration data.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))

	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateConfig checks cfg against its constraints.
func ValidateConfig(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fe := verrs[0]
	switch field := fe.StructField(); {
	case strings.HasPrefix(field, "ScanDirs"):
		return ErrNoScanDirs
	case field == "ThreadCount":
		return fmt.Errorf("%w, got %v", ErrInvalidThreadCount, fe.Value())
	default:
		if fe.Param() != "" {
			return fmt.Errorf("%s: failed %s=%s, got %q", yamlPath(fe.Namespace()), fe.Tag(), fe.Param(), fe.Value())
		}
		return fmt.Errorf("%s: failed %s", yamlPath(fe.Namespace()), fe.Tag())
	}
}

// yamlPath turns a validator namespace such as Config.Logging.Level into the
// YAML key path logging.level.
func yamlPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		parts[i] = snake(p)
	}
	return strings.Join(parts, ".")
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for pii-scan.yaml in the current directory
// 3. Look for pii-scan/config.yaml in the XDG config directories
func FindConfigFile(configPath string) (string, error) {
	if configPath != "" {
		if fileExists(configPath) {
			return configPath, nil
		}
		return "", resilience.NewConfigurationError(configPath, ErrConfigNotFound)
	}

	if fileExists(DefaultConfigFile) {
		return DefaultConfigFile, nil
	}

	if path, err := xdg.SearchConfigFile(xdgConfigFile); err == nil {
		return path, nil
	}

	return "", resilience.NewConfigurationError(DefaultConfigFile, ErrConfigNotFound)
}

// Load locates and loads the configuration in one step.
func Load(configPath string) (*Config, string, error) {
	path, err := FindConfigFile(configPath)
	if err != nil {
		return nil, "", err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	return err == nil && !info.IsDir()
}

// ScanRoots returns a copy of the configured scan directories.
func (c *Config) ScanRoots() []string {
	return slices.Clone(c.Targets.ScanDirs)
}

// Concurrency returns the configured worker count.
func (c *Config) Concurrency() int {
	return c.Core.ThreadCount
}

// LogToStderr reports whether the log goes to stderr instead of a file.
func (c *Config) LogToStderr() bool {
	return c.Logging.File == "" || c.Logging.File == "-"
}
