// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/taibuivan/tradepost/internal/platform/database/schema"
	"github.com/taibuivan/tradepost/internal/platform/dberr"
	"github.com/taibuivan/tradepost/internal/platform/postgres"
	"github.com/taibuivan/tradepost/pkg/money"
)

// # Postgres Ledger

// PostgresLedger implements [Ledger] on a pgx connection pool.
type PostgresLedger struct {
	db postgres.Beginner
}

// NewPostgresLedger creates a new PostgreSQL implementation of the [Ledger].
func NewPostgresLedger(db postgres.Beginner) *PostgresLedger {
	return &PostgresLedger{db: db}
}

/*
InTx runs fn inside a READ COMMITTED transaction.

A concurrent writer surfaces as zero affected rows on the balance
compare-and-set, never as a serialization failure.

Parameters:
  - context: context.Context
  - fn: func(LedgerTx) error

Returns:
  - error: fn's error untouched, or classified begin/commit failures
*/
func (ledger *PostgresLedger) InTx(context context.Context, fn func(tx LedgerTx) error) error {
	var fnErr error

	err := postgres.InTx(context, ledger.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		fnErr = fn(&postgresTx{tx: tx})
		return fnErr
	})

	if fnErr != nil {
		return fnErr
	}
	return dberr.Wrap(err, "postgres_ledger_tx_failed")
}

type postgresTx struct {
	tx pgx.Tx
}

func (t *postgresTx) FindAccount(context context.Context, username string) (*Account, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.UserAccount.ID,
		schema.UserAccount.Username,
		schema.UserAccount.Balance,
		schema.UserAccount.Table,
		schema.UserAccount.Username,
	)

	account := &Account{}
	var balance int64
	err := t.tx.QueryRow(context, query, username).Scan(&account.ID, &account.Username, &balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, dberr.Wrap(err, "find_account")
	}

	account.Balance = money.Cents(balance)
	return account, nil
}

func (t *postgresTx) FindProduct(context context.Context, productID int64) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.CoreProduct.ID,
		schema.CoreProduct.Name,
		schema.CoreProduct.Price,
		schema.CoreProduct.Table,
		schema.CoreProduct.ID,
	)

	product := &Product{}
	var price int64
	err := t.tx.QueryRow(context, query, productID).Scan(&product.ID, &product.Name, &price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, dberr.Wrap(err, "find_product")
	}

	product.Price = money.Cents(price)
	return product, nil
}

func (t *postgresTx) SetBalanceIfUnchanged(context context.Context, userID string, expected, next money.Amount) (bool, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $3, %s = NOW()
		WHERE %s = $1 AND %s = $2;
	`,
		schema.UserAccount.Table,
		schema.UserAccount.Balance,
		schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
		schema.UserAccount.Balance,
	)

	tag, err := t.tx.Exec(context, query, userID, expected.Cents(), next.Cents())
	if err != nil {
		return false, dberr.Wrap(err, "set_balance")
	}
	return tag.RowsAffected() == 1, nil
}

func (t *postgresTx) InsertPurchase(context context.Context, purchase *Purchase) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, $3, $4);
	`,
		schema.CorePurchase.Table,
		schema.CorePurchase.ID,
		schema.CorePurchase.UserID,
		schema.CorePurchase.ProductID,
		schema.CorePurchase.PurchaseDate,
	)

	_, err := t.tx.Exec(context, query, purchase.ID, purchase.UserID, purchase.ProductID, purchase.PurchaseDate)
	return dberr.Wrap(err, "insert_purchase")
}
