// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"regexp"

	"pii-scan/internal/detector"
)

// pattern accepts a bare nine digit token, or 3-2-4 digit groups joined by
// single hyphens or single spaces. Only the bare form needs word boundaries.
const pattern = `\b\d{9}\b|\d{3}-\d{2}-\d{4}|\d{3} \d{2} \d{4}`

// MaskValue replaces SSN-shaped substrings in text that leaves the process.
const MaskValue = "***-**-****"

var defaultMatcher = NewMatcher()

// Matcher implements detector.Matcher for United States Social Security
// Numbers. It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	regex *regexp.Regexp
}

// NewMatcher compiles the SSN pattern.
func NewMatcher() *Matcher {
	return &Matcher{regex: regexp.MustCompile(pattern)}
}

// Default returns the process-wide matcher.
func Default() *Matcher {
	return defaultMatcher
}

// Match returns the leftmost SSN-shaped substring of text.
func (m *Matcher) Match(text string) (detector.Match, bool) {
	loc := m.regex.FindStringIndex(text)
	if loc == nil {
		return detector.Match{}, false
	}
	return detector.Match{Text: text[loc[0]:loc[1]], Unit: text}, true
}

// Contains reports whether text holds at least one SSN-shaped substring.
func (m *Matcher) Contains(text string) bool {
	return m.regex.MatchString(text)
}

// Mask replaces every SSN-shaped substring of text with MaskValue.
func (m *Matcher) Mask(text string) string {
	return m.regex.ReplaceAllLiteralString(text, MaskValue)
}
