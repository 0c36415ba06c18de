// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives for credentials and tokens.
//
// # Architecture
//
// This package isolates security-sensitive code (password hashing, random
// token generation) from the domain logic so it can be audited in one place.
package sec

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// GenerateSecureToken returns a URL-safe random string backed by byteLength
// bytes from the operating system CSPRNG.
func GenerateSecureToken(byteLength int) (string, error) {
	if byteLength < 16 {
		return "", fmt.Errorf("sec: token length %d is below the 128-bit minimum", byteLength)
	}

	buffer := make([]byte, byteLength)
	if _, err := rand.Read(buffer); err != nil {
		return "", fmt.Errorf("sec: failed to read random bytes: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buffer), nil
}
