// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
)

// ErrAccountNotFound is returned by repositories when no account matches.
var ErrAccountNotFound = apperr.NotFound("Account")

// # Repository Interfaces

// UserRepository defines the persistence contract for account credentials.
type UserRepository interface {

	/*
		FindByUsername retrieves an account by its normalized username.

		Parameters:
		  - context: context.Context
		  - username: string

		Returns:
		  - *Account: Account entity
		  - error: ErrAccountNotFound or storage errors
	*/
	FindByUsername(context context.Context, username string) (*Account, error)

	/*
		Create persists a brand new account.

		Parameters:
		  - context: context.Context
		  - account: *Account

		Returns:
		  - error: DuplicateUsername when the name is taken, or storage errors
	*/
	Create(context context.Context, account *Account) error

	/*
		UpdatePassword replaces the stored password hash.

		Parameters:
		  - context: context.Context
		  - accountID: string
		  - passwordHash: string

		Returns:
		  - error: ErrAccountNotFound or storage errors
	*/
	UpdatePassword(context context.Context, accountID, passwordHash string) error
}

// SessionIssuer mints the bearer token handed out by register and login.
type SessionIssuer interface {
	Issue(context context.Context, username string) (string, error)
}
