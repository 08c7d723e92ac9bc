// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package detector

// Matcher finds sensitive values inside a single extraction unit.
type Matcher interface {
	// Match returns the leftmost match in text. The boolean is false when
	// text holds nothing of interest; that is the common case, not an error.
	Match(text string) (Match, bool)
}

// Match represents a detected sensitive data match
type Match struct {
	Text     string // The matched substring
	Unit     string // The line or cell the match came from
	Location string // Where the unit sits in its file, e.g. "line 3"
}
