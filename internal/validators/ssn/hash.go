// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package ssn

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"pii-scan/internal/security"
)

// Digest is the lowercase hex SHA-256 of an SSN's nine digits. Two matches
// with the same digits always produce the same Digest.
type Digest string

var separators = strings.NewReplacer("-", "", " ", "")

// Canonicalize strips hyphen and space separators from a matched SSN.
func Canonicalize(raw string) string {
	return separators.Replace(raw)
}

// CanonicalizeAndHash returns the dedup key for a matched SSN. The
// normalised digits are wiped once hashed.
func CanonicalizeAndHash(raw string) Digest {
	digits := security.Digits(raw)
	defer security.Wipe(digits)
	sum := sha256.Sum256(digits)
	return Digest(hex.EncodeToString(sum[:]))
}
