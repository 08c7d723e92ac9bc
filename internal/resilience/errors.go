// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package resilience

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

// ErrorType represents different types of errors for handling strategies
type ErrorType int

const (
	ErrorTypeUnknown         ErrorType = iota
	ErrorTypeEnumeration               // Missing root, unreadable directory
	ErrorTypeFileOpen                  // Permission denied, encrypted container
	ErrorTypeContainerFormat           // Extension matched but the content would not parse
	ErrorTypeConfiguration             // Missing or invalid settings
)

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeEnumeration:
		return "enumeration error"
	case ErrorTypeFileOpen:
		return "file open error"
	case ErrorTypeContainerFormat:
		return "container format error"
	case ErrorTypeConfiguration:
		return "configuration error"
	default:
		return "unknown error"
	}
}

// ScanError wraps an error with type information and the path it concerns.
type ScanError struct {
	Type ErrorType
	Path string
	Op   string
	Err  error
}

func (e *ScanError) Error() string {
	var b strings.Builder
	b.WriteString(e.Type.String())
	if e.Op != "" {
		b.WriteString(": ")
		b.WriteString(e.Op)
	}
	if e.Path != "" {
		b.WriteString(" ")
		b.WriteString(e.Path)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// NewEnumerationError reports a root or subtree that could not be walked.
func NewEnumerationError(path string, err error) *ScanError {
	return &ScanError{Type: ErrorTypeEnumeration, Path: path, Op: "walk", Err: err}
}

// NewFileOpenError reports a file that could not be opened.
func NewFileOpenError(path string, err error) *ScanError {
	return &ScanError{Type: ErrorTypeFileOpen, Path: path, Op: "open", Err: err}
}

// NewContainerFormatError reports a file whose content op could not parse.
func NewContainerFormatError(path, op string, err error) *ScanError {
	return &ScanError{Type: ErrorTypeContainerFormat, Path: path, Op: op, Err: err}
}

// NewConfigurationError reports settings that prevent a scan from starting.
func NewConfigurationError(path string, err error) *ScanError {
	return &ScanError{Type: ErrorTypeConfiguration, Path: path, Op: "load", Err: err}
}

// ClassifyError categorizes an error raised while opening or reading path.
// Errors that are already classified are returned unchanged.
func ClassifyError(path string, err error) *ScanError {
	if err == nil {
		return nil
	}

	var classified *ScanError
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return NewFileOpenError(path, err)
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "password") || strings.Contains(errStr, "encrypt"):
		return NewFileOpenError(path, err)
	case strings.Contains(errStr, "permission denied"):
		return NewFileOpenError(path, err)
	}

	return NewContainerFormatError(path, "read", err)
}

// TypeOf returns the ErrorType carried anywhere in err's chain.
func TypeOf(err error) ErrorType {
	var classified *ScanError
	if errors.As(err, &classified) {
		return classified.Type
	}
	return ErrorTypeUnknown
}

// IsConfigurationError reports whether err should abort the whole run.
func IsConfigurationError(err error) bool {
	return TypeOf(err) == ErrorTypeConfiguration
}

// RecoveredPanic converts a recovered panic value into a container format
// error so that one malformed file never takes down a worker.
func RecoveredPanic(path, op string, r any) *ScanError {
	return NewContainerFormatError(path, op, fmt.Errorf("panic: %v", r))
}
