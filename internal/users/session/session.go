// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session issues and resolves opaque bearer tokens.

A user holds at most one live token. Issuing a new token for a user makes the
previous one invalid immediately, on every node, because all token state lives
in the shared [Directory].

Lifecycle:

  - Issue: register and login mint a fresh token and swap it in.
  - Resolve: the request gate maps a bearer token back to its username.
  - Expiry: tokens expire a fixed TTL after issuance; reads do not extend it.
*/
package session

import (
	"time"

	"github.com/taibuivan/tradepost/internal/platform/constants"
)

// Options tunes a [Manager].
type Options struct {
	// TTL is the lifetime of a token from the moment it is issued.
	TTL time.Duration
	// TokenBytes is the number of random bytes behind each token.
	TokenBytes int
}

func (options Options) withDefaults() Options {
	if options.TTL <= 0 {
		options.TTL = constants.DefaultSessionTTL
	}
	if options.TokenBytes <= 0 {
		options.TokenBytes = constants.SessionTokenBytes
	}
	return options
}
