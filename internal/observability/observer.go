// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewLogger builds the process logger. Every handler is wrapped in a
// MaskingHandler. format is "text" or "json".
func NewLogger(w io.Writer, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(NewMaskingHandler(handler))
}

// ParseLevel maps the configured level names onto slog levels.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// WithRunID tags every record of logger with a fresh run identifier.
func WithRunID(logger *slog.Logger) (*slog.Logger, string) {
	id := uuid.NewString()
	return logger.With("run_id", id), id
}

// Observer implements timing observability for scan components
type Observer struct {
	logger *slog.Logger
}

// NewObserver creates an observer writing to logger. A nil logger discards.
func NewObserver(logger *slog.Logger) *Observer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Observer{logger: logger}
}

// Logger returns the underlying logger.
func (o *Observer) Logger() *slog.Logger {
	return o.logger
}

// StartTiming returns a function to complete timing
func (o *Observer) StartTiming(component, operation, filePath string) func(success bool, metadata map[string]interface{}) {
	start := time.Now()

	return func(success bool, metadata map[string]interface{}) {
		if !o.logger.Enabled(context.Background(), slog.LevelDebug) {
			return
		}

		attrs := []any{
			slog.String("component", component),
			slog.String("operation", operation),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.Bool("success", success),
		}
		if filePath != "" {
			attrs = append(attrs, slog.String("file", filePath))
		}
		for k, v := range metadata {
			attrs = append(attrs, slog.Any(k, v))
		}
		o.logger.Debug("operation finished", attrs...)
	}
}
