// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements account registration, login and password changes.

It owns the credential side of the users.account table. Balances live in the
same row but are only ever written by the purchase engine.

# Architecture

  - Service: Orchestrates business logic (Register, Login, ChangePassword).
  - Repository: Abstracted interface for the Postgres account table.
  - Sessions: Delegated to the session package through [SessionIssuer].
*/
package auth

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/tradepost/pkg/money"
)

// # Domain Entities

// Account represents a registered user of the Tradepost platform.
type Account struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Balance      money.Amount `json:"balance"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NormalizeUsername trims surrounding whitespace and applies Unicode NFKC so
// that visually identical names map to the same account.
func NormalizeUsername(username string) string {
	return norm.NFKC.String(strings.TrimSpace(username))
}

// # Field Identifiers

// Global field names for validation and payloads in the authentication domain.
const (
	FieldUsername    = "username"
	FieldPassword    = "password"
	FieldOldPassword = "old_password"
	FieldNewPassword = "new_password"
	FieldToken       = "token"
	FieldMessage     = "message"
)

// # Limits

const (
	// MaxUsernameLength caps usernames in runes.
	MaxUsernameLength = 64

	// MaxPasswordBytes is the bcrypt input limit.
	MaxPasswordBytes = 72
)
