// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatcher_AcceptedShapes(t *testing.T) {
	m := NewMatcher()

	cases := []struct {
		name string
		text string
		want string
	}{
		{"dashes", "The data is 123-45-6789", "123-45-6789"},
		{"spaces", "The data is 123 45 6789", "123 45 6789"},
		{"bare digits", "The data is 123456789", "123456789"},
		{"bare digits alone", "123456789", "123456789"},
		{"bare digits with punctuation", "id=123456789;", "123456789"},
		{"dashes inside longer digits", "99123-45-67890", "123-45-6789"},
		{"spaces glued to letters", "ssn123 45 6789x", "123 45 6789"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := m.Match(tc.text)
			require.True(t, ok, "expected a match in %q", tc.text)
			assert.Equal(t, tc.want, got.Text)
			assert.Equal(t, tc.text, got.Unit)
		})
	}
}

func TestMatcher_Rejects(t *testing.T) {
	m := NewMatcher()

	cases := []struct {
		name string
		text string
	}{
		{"no numbers", "No numbers"},
		{"grouped phone number", "The phone number is (123)456-7890"},
		{"ten digit run", "1234567890"},
		{"nine digits inside longer run", "call 01234567890 now"},
		{"eight digits", "12345678"},
		{"double hyphen", "123--45-6789"},
		{"double space", "123  45 6789"},
		{"tab separated", "123\t45\t6789"},
		{"mixed separators", "123-45 6789"},
		{"word character boundary", "x123456789"},
		{"letter prefix", "ID123456789"},
		{"underscore prefix", "ssn_123456789"},
		{"letter suffix", "123456789th"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := m.Match(tc.text)
			assert.False(t, ok, "did not expect a match in %q", tc.text)
		})
	}
}

func TestMatcher_LeftmostMatchWins(t *testing.T) {
	got, ok := Default().Match("first 111 22 3333 then 444-55-6666")
	require.True(t, ok)
	assert.Equal(t, "111 22 3333", got.Text)
}

func TestMatcher_Mask(t *testing.T) {
	m := NewMatcher()
	masked := m.Mask("a 123-45-6789 b 987654321 c 1234567890")
	assert.Equal(t, "a ***-**-**** b ***-**-**** c 1234567890", masked)
	assert.False(t, m.Contains(masked))
}

func TestCanonicalizeAndHash_SameForEveryShape(t *testing.T) {
	const want = Digest("15e2b0d3c33891ebb0f1ef609ec419420c20e320ce94c65fbc8c3312448eb225")

	for _, raw := range []string{"123-45-6789", "123 45 6789", "123456789"} {
		assert.Equal(t, want, CanonicalizeAndHash(raw), raw)
	}
	assert.NotEqual(t, want, CanonicalizeAndHash("123-45-6780"))
}

func TestCanonicalize(t *testing.T) {
	assert.Equal(t, "123456789", Canonicalize("123-45-6789"))
	assert.Equal(t, "123456789", Canonicalize("123 45 6789"))
	assert.Equal(t, "123456789", Canonicalize("123456789"))
}

func TestCanonicalizeAndHash_IsLowercaseHex(t *testing.T) {
	d := string(CanonicalizeAndHash("987-65-4321"))
	require.Len(t, d, 64)
	for _, r := range d {
		assert.True(t, (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f'), "unexpected rune %q", r)
	}
}
