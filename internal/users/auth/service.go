// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/sec"
	"github.com/taibuivan/tradepost/pkg/money"
	"github.com/taibuivan/tradepost/pkg/uuid"
)

// dummyHash is compared against when the username is unknown so that login
// latency does not reveal which accounts exist.
var dummyHash = sync.OnceValue(func() string {
	hash, err := sec.HashPassword("tradepost-login-placeholder")
	if err != nil {
		return ""
	}
	return hash
})

// Service implements account use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, registration,
// or login logic must be reviewed by the security team.
type Service struct {
	userRepository UserRepository
	sessions       SessionIssuer
	signupBalance  money.Amount
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
func NewService(userRepo UserRepository, sessions SessionIssuer, signupBalance money.Amount, logger *slog.Logger) *Service {
	return &Service{
		userRepository: userRepo,
		sessions:       sessions,
		signupBalance:  signupBalance,
		logger:         logger,
	}
}

// # Registration Flow

/*
Register creates a new account and logs it in.

Description: Normalizes the username, rejects duplicates, hashes the password,
persists the account with the signup balance and issues its first session.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - string: Bearer token for the new account
  - error: DuplicateUsername or storage errors
*/
func (service *Service) Register(context context.Context, username, password string) (string, error) {
	username = NormalizeUsername(username)

	// Unique constraint still catches concurrent registrations.
	_, err := service.userRepository.FindByUsername(context, username)
	if err == nil {
		return "", apperr.DuplicateUsername()
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return "", err
	}

	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	account := &Account{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: hashedPassword,
		Balance:      service.signupBalance,
	}

	if err := service.userRepository.Create(context, account); err != nil {
		return "", err
	}

	service.logger.InfoContext(context, "account_registered",
		slog.String("account_id", account.ID),
		slog.String("username", account.Username),
	)

	// The account is committed even if no session could be stored; /login recovers.
	token, err := service.sessions.Issue(context, account.Username)
	if err != nil {
		service.logger.WarnContext(context, "account_registered_without_session",
			slog.String("account_id", account.ID),
			slog.String("username", account.Username),
			slog.Any("error", err),
		)
		return "", err
	}
	return token, nil
}

// # Authentication Flow

/*
Login verifies credentials and issues a fresh session.

Description: Any previously issued token for the account stops working as soon
as the new one is stored.

Parameters:
  - context: context.Context
  - username: string
  - password: string

Returns:
  - string: Bearer token
  - error: InvalidCredentials or storage errors
*/
func (service *Service) Login(context context.Context, username, password string) (string, error) {
	account, err := service.verify(context, NormalizeUsername(username), password)
	if err != nil {
		return "", err
	}

	return service.sessions.Issue(context, account.Username)
}

// # Credential Management

/*
ChangePassword replaces the caller's password after checking the old one.

Description: The principal comes from the bearer token. A username sent in the
body is only a claim and must match it. The active session is left untouched.

Parameters:
  - context: context.Context
  - principal: string (token-resolved username)
  - claimedUsername: string (optional body username)
  - oldPassword: string
  - newPassword: string

Returns:
  - error: InvalidCredentials or storage errors
*/
func (service *Service) ChangePassword(context context.Context, principal, claimedUsername, oldPassword, newPassword string) error {
	if claimedUsername != "" && NormalizeUsername(claimedUsername) != principal {
		return apperr.InvalidCredentials()
	}

	account, err := service.verify(context, principal, oldPassword)
	if err != nil {
		return err
	}

	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	if err := service.userRepository.UpdatePassword(context, account.ID, hashedPassword); err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return apperr.InvalidCredentials()
		}
		return err
	}

	service.logger.InfoContext(context, "password_changed", slog.String("account_id", account.ID))
	return nil
}

// verify loads the account and checks the password in constant time.
func (service *Service) verify(context context.Context, username, password string) (*Account, error) {
	account, err := service.userRepository.FindByUsername(context, username)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			sec.CheckPasswordHash(password, dummyHash())
			return nil, apperr.InvalidCredentials()
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, account.PasswordHash) {
		return nil, apperr.InvalidCredentials()
	}

	return account, nil
}
