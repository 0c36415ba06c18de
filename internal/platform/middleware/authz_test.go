// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/ctxutil"
	"github.com/taibuivan/tradepost/internal/platform/middleware"
)

type stubResolver struct {
	sessions map[string]string
	err      error
	calls    int
}

func (s *stubResolver) Resolve(_ context.Context, token string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	username, ok := s.sessions[token]
	if !ok {
		return "", apperr.Unauthenticated("invalid token")
	}
	return username, nil
}

func principalEcho() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal, _ := ctxutil.GetPrincipal(request.Context())
		_, _ = writer.Write([]byte(principal))
	})
}

/*
TestAuthenticate covers every branch of the request gate.
*/
func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		resolverErr error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantBody    string
		wantCalls   int
	}{
		{"missing_header", "", nil, http.StatusUnauthorized, apperr.CodeUnauthenticated, "missing token", "", 0},
		{"wrong_scheme", "Basic abc", nil, http.StatusUnauthorized, apperr.CodeUnauthenticated, "invalid token", "", 0},
		{"no_token", "Bearer ", nil, http.StatusUnauthorized, apperr.CodeUnauthenticated, "invalid token", "", 0},
		{"extra_parts", "Bearer a b", nil, http.StatusUnauthorized, apperr.CodeUnauthenticated, "invalid token", "", 0},
		{"unknown_token", "Bearer nope", nil, http.StatusUnauthorized, apperr.CodeUnauthenticated, "invalid token", "", 1},
		{"store_down", "Bearer good", apperr.StoreUnavailable(errors.New("dial tcp")), http.StatusServiceUnavailable, apperr.CodeStoreUnavailable, "", "", 1},
		{"raw_store_error", "Bearer good", errors.New("dial tcp"), http.StatusServiceUnavailable, apperr.CodeStoreUnavailable, "", "", 1},
		{"valid", "Bearer good", nil, http.StatusOK, "", "", "alice", 1},
		{"scheme_case_insensitive", "bearer good", nil, http.StatusOK, "", "", "alice", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &stubResolver{sessions: map[string]string{"good": "alice"}, err: tt.resolverErr}
			handler := middleware.Authenticate(resolver)(principalEcho())

			request := httptest.NewRequest(http.MethodGet, "/prices", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantCalls, resolver.calls)

			if tt.wantCode == "" {
				assert.Equal(t, tt.wantBody, recorder.Body.String())
				return
			}

			var body map[string]any
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body["code"])
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body["error"])
			}
		})
	}
}
