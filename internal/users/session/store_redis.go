// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/tradepost/internal/platform/constants"
)

// swapScript rotates a user's token in one round trip.
//
// KEYS[1] user key, KEYS[2] new token key
// ARGV[1] token key prefix, ARGV[2] username, ARGV[3] new token, ARGV[4] ttl in ms
const swapScript = `
local previous = redis.call("GET", KEYS[1])
if previous then
  redis.call("DEL", ARGV[1] .. previous)
end
redis.call("SET", KEYS[2], ARGV[2], "PX", ARGV[4])
redis.call("SET", KEYS[1], ARGV[3], "PX", ARGV[4])
return 1
`

// removeScript deletes both mappings for a user.
//
// KEYS[1] user key
// ARGV[1] token key prefix
const removeScript = `
local current = redis.call("GET", KEYS[1])
if current then
  redis.call("DEL", ARGV[1] .. current)
end
redis.call("DEL", KEYS[1])
return 1
`

var (
	swapLua   = redis.NewScript(swapScript)
	removeLua = redis.NewScript(removeScript)
)

// RedisDirectory implements [Directory] using Redis keys with PX expiry.
//
// Both scripts derive the previous token key inside Lua, so the directory
// expects a single Redis primary (or a hash-tagged keyspace on a cluster).
type RedisDirectory struct {
	client      redis.Cmdable
	tokenPrefix string
	userPrefix  string
}

// NewRedisDirectory creates a Redis-backed session [Directory].
func NewRedisDirectory(client redis.Cmdable) *RedisDirectory {
	return &RedisDirectory{
		client:      client,
		tokenPrefix: constants.RedisPrefixSessionToken,
		userPrefix:  constants.RedisPrefixSessionUser,
	}
}

/*
Swap atomically replaces the user's token.

Parameters:
  - context: context.Context
  - username: string
  - token: string
  - ttl: time.Duration

Returns:
  - error: Validation or execution errors
*/
func (directory *RedisDirectory) Swap(context context.Context, username, token string, ttl time.Duration) error {
	if ttl < time.Millisecond {
		return fmt.Errorf("redis_session_swap_failed: ttl %s is below 1ms", ttl)
	}

	keys := []string{directory.userPrefix + username, directory.tokenPrefix + token}
	err := swapLua.Run(context, directory.client, keys,
		directory.tokenPrefix, username, token, ttl.Milliseconds(),
	).Err()

	if err != nil {
		return fmt.Errorf("redis_session_swap_failed: %w", err)
	}
	return nil
}

/*
Lookup returns the username for a live token.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Username
  - error: ErrTokenNotFound or connectivity errors
*/
func (directory *RedisDirectory) Lookup(context context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrTokenNotFound
	}

	username, err := directory.client.Get(context, directory.tokenPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("redis_session_lookup_failed: %w", err)
	}

	return username, nil
}

/*
Remove deletes the user's token mappings.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: Execution errors
*/
func (directory *RedisDirectory) Remove(context context.Context, username string) error {
	err := removeLua.Run(context, directory.client,
		[]string{directory.userPrefix + username},
		directory.tokenPrefix,
	).Err()

	if err != nil {
		return fmt.Errorf("redis_session_remove_failed: %w", err)
	}
	return nil
}
