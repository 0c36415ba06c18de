// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/users/auth"
	"github.com/taibuivan/tradepost/internal/users/session"
	"github.com/taibuivan/tradepost/pkg/money"
)

// memoryRepository is an in-process [auth.UserRepository].
type memoryRepository struct {
	mu       sync.Mutex
	accounts map[string]*auth.Account
	err      error
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{accounts: make(map[string]*auth.Account)}
}

func (r *memoryRepository) FindByUsername(_ context.Context, username string) (*auth.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return nil, r.err
	}
	account, ok := r.accounts[username]
	if !ok {
		return nil, auth.ErrAccountNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *memoryRepository) Create(_ context.Context, account *auth.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.err != nil {
		return r.err
	}
	if _, exists := r.accounts[account.Username]; exists {
		return apperr.DuplicateUsername()
	}
	copied := *account
	r.accounts[account.Username] = &copied
	return nil
}

func (r *memoryRepository) UpdatePassword(_ context.Context, accountID, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, account := range r.accounts {
		if account.ID == accountID {
			account.PasswordHash = passwordHash
			return nil
		}
	}
	return auth.ErrAccountNotFound
}

type fixture struct {
	service    *auth.Service
	repository *memoryRepository
	sessions   *session.Manager
	redis      *miniredis.Miniredis
	logs       *bytes.Buffer
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, nil))
	sessions := session.NewManager(session.NewRedisDirectory(client), session.Options{TTL: 30 * time.Minute}, nil, logger)
	repository := newMemoryRepository()

	return &fixture{
		service:    auth.NewService(repository, sessions, money.MustParse("100"), logger),
		repository: repository,
		sessions:   sessions,
		redis:      server,
		logs:       logs,
	}
}

/*
TestService_Register covers account creation, hashing and the initial session.
*/
func TestService_Register(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.service.Register(ctx, "  alice ", "s3cret")
	require.NoError(t, err)

	username, err := f.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	account, err := f.repository.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", account.PasswordHash)
	assert.Equal(t, money.Cents(10000), account.Balance)
	assert.NotEmpty(t, account.ID)

	_, err = f.service.Register(ctx, "alice", "other")
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateUsername))
}

/*
TestService_RegisterNormalizesUnicode treats compatibility forms as one username.
*/
func TestService_RegisterNormalizesUnicode(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.service.Register(ctx, "ｂｏｂ", "pw")
	require.NoError(t, err)

	_, err = f.service.Register(ctx, "bob", "pw")
	assert.True(t, apperr.HasCode(err, apperr.CodeDuplicateUsername))
}

/*
TestService_RegisterStoreDown surfaces storage failures instead of creating a duplicate.
*/
func TestService_RegisterStoreDown(t *testing.T) {
	f := newFixture(t)
	f.repository.err = apperr.StoreUnavailable(errors.New("connection refused"))

	_, err := f.service.Register(context.Background(), "alice", "pw")
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreUnavailable))
}

/*
TestService_RegisterSessionStoreDown keeps the created account when the
session cannot be stored. The failure is logged and a later login recovers.
*/
func TestService_RegisterSessionStoreDown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.redis.SetError("LOADING")
	_, err := f.service.Register(ctx, "alice", "pw")
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreUnavailable), "got %v", err)

	account, err := f.repository.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Contains(t, f.logs.String(), `"msg":"account_registered_without_session"`)
	assert.Contains(t, f.logs.String(), account.ID)

	f.redis.SetError("")
	token, err := f.service.Login(ctx, "alice", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

/*
TestService_Login verifies credential checks and token rotation.
*/
func TestService_Login(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.service.Register(ctx, "alice", "s3cret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		username string
		password string
		wantCode string
	}{
		{"wrong_password", "alice", "nope", apperr.CodeInvalidCredentials},
		{"unknown_user", "mallory", "s3cret", apperr.CodeInvalidCredentials},
		{"valid", "alice", "s3cret", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := f.service.Login(ctx, tt.username, tt.password)
			if tt.wantCode != "" {
				assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, first, token)
		})
	}

	_, err = f.sessions.Resolve(ctx, first)
	assert.True(t, apperr.HasCode(err, apperr.CodeUnauthenticated))
}

/*
TestService_ChangePassword ensures the old password stops working, the new one
works and the active token survives.
*/
func TestService_ChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	token, err := f.service.Register(ctx, "alice", "old-pw")
	require.NoError(t, err)

	err = f.service.ChangePassword(ctx, "alice", "", "wrong", "new-pw")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	err = f.service.ChangePassword(ctx, "alice", "bob", "old-pw", "new-pw")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	require.NoError(t, f.service.ChangePassword(ctx, "alice", "alice", "old-pw", "new-pw"))

	_, err = f.service.Login(ctx, "alice", "old-pw")
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidCredentials))

	username, err := f.sessions.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "alice", username)

	_, err = f.service.Login(ctx, "alice", "new-pw")
	assert.NoError(t, err)
}
