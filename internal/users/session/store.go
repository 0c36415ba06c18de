// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"time"
)

// ErrTokenNotFound is returned by [Directory.Lookup] for unknown, rotated or expired tokens.
var ErrTokenNotFound = errors.New("session: token not found")

// # Session Directory

// Directory is the shared store that exclusively owns token state.
//
// It keeps two mappings with identical expiry: token to username and
// username to token. Implementations must make [Directory.Swap] a single
// atomic step so that no concurrent lookup can observe both the old and the
// new token as valid.
type Directory interface {

	/*
		Swap makes token the only live token for username.

		Parameters:
		  - context: context.Context
		  - username: string
		  - token: string (freshly generated)
		  - ttl: time.Duration (must be positive)

		Returns:
		  - error: Store failures; on error neither mapping changed
	*/
	Swap(context context.Context, username, token string, ttl time.Duration) error

	/*
		Lookup resolves a token to its username.

		Parameters:
		  - context: context.Context
		  - token: string

		Returns:
		  - string: Username owning the token
		  - error: ErrTokenNotFound or store failures
	*/
	Lookup(context context.Context, token string) (string, error)

	/*
		Remove deletes both mappings for username. Removing an absent session is not an error.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - error: Store failures
	*/
	Remove(context context.Context, username string) error
}
