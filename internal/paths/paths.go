// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package paths

import (
	"context"
	"io/fs"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"pii-scan/internal/resilience"
)

// MaxConcurrentRoots bounds how many scan roots are walked at once
const MaxConcurrentRoots = 8

// Canonical returns the file identifier for path: absolute and cleaned, so
// that one physical file reached through different spellings maps to one
// identifier.
func Canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Enumerate lists every regular file under roots. Roots are walked
// concurrently but the result is ordered by root, then by walk order, with
// duplicates from overlapping roots removed.
//
// A missing root or an unreadable directory is logged as an enumeration
// error and skipped. The only error returned is the context's.
func Enumerate(ctx context.Context, roots []string, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	perRoot := make([][]string, len(roots))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(max(len(roots), 1), MaxConcurrentRoots))

	for i, root := range roots {
		g.Go(func() error {
			files, err := walkRoot(gctx, root, logger)
			perRoot[i] = files
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var files []string
	for _, list := range perRoot {
		for _, f := range list {
			if _, dup := seen[f]; dup {
				continue
			}
			seen[f] = struct{}{}
			files = append(files, f)
		}
	}
	return files, nil
}

func walkRoot(ctx context.Context, root string, logger *slog.Logger) ([]string, error) {
	base, err := Canonical(root)
	if err != nil {
		logEnumerationError(logger, resilience.NewEnumerationError(root, err))
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(base, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			logEnumerationError(logger, resilience.NewEnumerationError(path, err))
			return nil
		}
		if d.Type().IsRegular() {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func logEnumerationError(logger *slog.Logger, err *resilience.ScanError) {
	logger.Error("enumeration failed",
		"path", err.Path,
		"error_type", err.Type.String(),
		"error", err.Err,
	)
}
