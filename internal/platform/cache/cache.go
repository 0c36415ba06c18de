// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cache exposes a minimal read/write interface over a TTL-capable
key/value store.

Domain code depends on [Store] only; the Redis implementation lives in
[RedisStore]. A miss is reported as [ErrMiss] and is never confused with a
store failure, which is returned wrapped so callers can fail closed.
*/
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by [Store.Get] when the key is absent or expired.
var ErrMiss = errors.New("cache: miss")

// Store is a byte-oriented key/value store with per-entry expiry.
type Store interface {
	// Get returns the stored value, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key for ttl. A non-positive ttl is rejected.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
