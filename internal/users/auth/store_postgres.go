// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/database/schema"
	"github.com/taibuivan/tradepost/internal/platform/dberr"
	"github.com/taibuivan/tradepost/pkg/money"
)

// Querier is the subset of pgxpool.Pool used by the repository.
type Querier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, arguments ...any) pgx.Row
}

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
type PostgresUserRepository struct {
	db Querier
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(db Querier) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

/*
Create persists a new account record into the users.account table.

Parameters:
  - context: context.Context
  - account: *Account (Entity to persist)

Returns:
  - error: DuplicateUsername on unique violation, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, account *Account) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		table.Table, strings.Join(table.Columns(), ", "),
	)

	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		account.ID,
		account.Username,
		account.PasswordHash,
		account.Balance.Cents(),
		account.CreatedAt,
		account.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			duplicate := apperr.DuplicateUsername()
			duplicate.Cause = err
			return duplicate
		}
		return dberr.Wrap(err, "postgres_user_repo_create_failed")
	}

	return nil
}

/*
FindByUsername retrieves an account record by its unique username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *Account: Hydrated account entity
  - error: ErrAccountNotFound or database errors
*/
func (repository *PostgresUserRepository) FindByUsername(context context.Context, username string) (*Account, error) {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s = $1`,
		strings.Join(table.Columns(), ", "), table.Table, table.Username,
	)

	account := &Account{}
	var balance int64
	err := repository.db.QueryRow(context, query, username).Scan(
		&account.ID,
		&account.Username,
		&account.PasswordHash,
		&balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, dberr.Wrap(err, "postgres_user_repo_find_failed")
	}

	account.Balance = money.Cents(balance)
	return account, nil
}

/*
UpdatePassword replaces the password hash of an existing account.

Parameters:
  - context: context.Context
  - accountID: string
  - passwordHash: string

Returns:
  - error: ErrAccountNotFound or database errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, accountID, passwordHash string) error {
	table := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3
		WHERE %s = $1`,
		table.Table, table.Password, table.UpdatedAt, table.ID,
	)

	tag, err := repository.db.Exec(context, query, accountID, passwordHash, time.Now().UTC())
	if err != nil {
		return dberr.Wrap(err, "postgres_user_repo_update_password_failed")
	}

	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}
