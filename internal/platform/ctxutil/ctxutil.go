// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/tradepost/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity

// WithPrincipal returns a new context carrying the token-resolved username.
//
// This is the only identity downstream handlers may trust; usernames found in
// request bodies are claims, not principals.
func WithPrincipal(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyPrincipal, username)
}

// GetPrincipal retrieves the authenticated username from the context.
// The second return value is false for anonymous requests.
func GetPrincipal(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(ctxkey.KeyPrincipal).(string)
	if !ok || username == "" {
		return "", false
	}
	return username, true
}
