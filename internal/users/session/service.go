// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/metrics"
	"github.com/taibuivan/tradepost/internal/platform/sec"
)

// Manager implements the session business logic on top of a [Directory].
type Manager struct {
	directory Directory
	options   Options
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// NewManager constructs a new [Manager]. A nil metrics set disables instrumentation.
func NewManager(directory Directory, options Options, metrics *metrics.Metrics, logger *slog.Logger) *Manager {
	return &Manager{
		directory: directory,
		options:   options.withDefaults(),
		metrics:   metrics,
		logger:    logger,
	}
}

/*
Issue mints a new token for username and invalidates any previous one.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - string: The new bearer token
  - error: StoreUnavailable when the directory cannot be written
*/
func (manager *Manager) Issue(context context.Context, username string) (string, error) {
	token, err := sec.GenerateSecureToken(manager.options.TokenBytes)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("session_issue_failed: %w", err))
	}

	if err := manager.directory.Swap(context, username, token, manager.options.TTL); err != nil {
		return "", apperr.StoreUnavailable(fmt.Errorf("session_issue_failed: %w", err))
	}

	manager.metrics.SessionIssued()
	manager.logger.DebugContext(context, "session_issued", slog.String("username", username))

	return token, nil
}

/*
Resolve maps a token to the username that owns it.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Username
  - error: Unauthenticated for unknown tokens, StoreUnavailable on directory failure
*/
func (manager *Manager) Resolve(context context.Context, token string) (string, error) {
	if token == "" {
		return "", apperr.Unauthenticated("invalid token")
	}

	username, err := manager.directory.Lookup(context, token)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return "", apperr.Unauthenticated("invalid token")
		}
		return "", apperr.StoreUnavailable(fmt.Errorf("session_resolve_failed: %w", err))
	}

	return username, nil
}

/*
Invalidate removes the user's current session, if any.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - error: StoreUnavailable on directory failure
*/
func (manager *Manager) Invalidate(context context.Context, username string) error {
	if err := manager.directory.Remove(context, username); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("session_invalidate_failed: %w", err))
	}
	return nil
}
