// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/constants"
	"github.com/taibuivan/tradepost/internal/platform/ctxutil"
	"github.com/taibuivan/tradepost/internal/platform/respond"
)

// SessionResolver defines the interface needed to resolve bearer tokens in middleware.
//
// Defining it here keeps the middleware independent of the session package
// and lets tests inject a stub.
type SessionResolver interface {
	Resolve(context context.Context, token string) (string, error)
}

// Authenticate requires a valid bearer token on every request it wraps.
//
// # Flow
//  1. No 'Authorization' header: 401 "missing token".
//  2. Header not of the form 'Bearer <token>': 401 "invalid token".
//  3. Resolve the token; unknown or expired tokens are 401, store failures 503.
//  4. Inject the principal username into the request context.
//
// The token TTL is never refreshed here.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 1. Presence ───────────────────────────────────────────────────
			if authHeader == "" {
				respond.Error(writer, request, apperr.Unauthenticated("missing token"))
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			token, ok := bearerToken(authHeader)
			if !ok {
				respond.Error(writer, request, apperr.Unauthenticated("invalid token"))
				return
			}

			// ── 3. Token Resolution ───────────────────────────────────────────
			username, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				if !apperr.IsAppError(err) {
					err = apperr.StoreUnavailable(err)
				}
				respond.Error(writer, request, err)
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			if slot := principalSlotFrom(request.Context()); slot != nil {
				slot.username = username
			}
			ctx := ctxutil.WithPrincipal(request.Context(), username)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// bearerToken extracts the token from an 'Authorization: Bearer <token>' value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, constants.AuthScheme) {
		return "", false
	}

	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}

// # Principal Slot

// principalSlot lets [Authenticate] report the username back to [StructuredLogger],
// which only sees the outer request context.
type principalSlot struct {
	username string
}

type principalSlotKey struct{}

func withPrincipalSlot(ctx context.Context, slot *principalSlot) context.Context {
	return context.WithValue(ctx, principalSlotKey{}, slot)
}

func principalSlotFrom(ctx context.Context) *principalSlot {
	slot, _ := ctx.Value(principalSlotKey{}).(*principalSlot)
	return slot
}
