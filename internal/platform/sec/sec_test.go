// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradepost/internal/platform/sec"
)

/*
TestHashPassword_RoundTrip verifies hashing and verification.
*/
func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := sec.HashPassword("correct horse")
	require.NoError(t, err)

	assert.NotEqual(t, "correct horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct horse", hash))
	assert.False(t, sec.CheckPasswordHash("battery staple", hash))
}

/*
TestHashPassword_UniqueSalt ensures two hashes of the same password differ.
*/
func TestHashPassword_UniqueSalt(t *testing.T) {
	first, err := sec.HashPassword("same-password")
	require.NoError(t, err)
	second, err := sec.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestCheckPasswordHash_Garbage never panics on a malformed stored hash.
*/
func TestCheckPasswordHash_Garbage(t *testing.T) {
	assert.False(t, sec.CheckPasswordHash("anything", "not-a-bcrypt-hash"))
}

/*
TestGenerateSecureToken checks entropy size and uniqueness.
*/
func TestGenerateSecureToken(t *testing.T) {
	seen := make(map[string]struct{}, 100)

	for i := 0; i < 100; i++ {
		token, err := sec.GenerateSecureToken(32)
		require.NoError(t, err)

		raw, err := base64.RawURLEncoding.DecodeString(token)
		require.NoError(t, err)
		assert.Len(t, raw, 32)

		_, duplicate := seen[token]
		assert.False(t, duplicate)
		seen[token] = struct{}{}
	}
}

/*
TestGenerateSecureToken_RejectsShort refuses tokens below 128 bits.
*/
func TestGenerateSecureToken_RejectsShort(t *testing.T) {
	_, err := sec.GenerateSecureToken(8)
	assert.Error(t, err)
}
