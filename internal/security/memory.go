// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package security

// Digits copies the ASCII digits of s into a new mutable slice, dropping
// everything else. Callers Wipe the slice once it is no longer needed.
//
// Go strings are immutable and may be copied by the runtime, so this only
// narrows how long normalised values stay on the heap. It is not a
// guarantee that no copy survives.
func Digits(s string) []byte {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	out := make([]byte, 0, n)
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return out
}

// Wipe overwrites b with zeros.
func Wipe(b []byte) {
	clear(b)
}
