// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"errors"

	"github.com/taibuivan/tradepost/pkg/money"
)

var (
	// ErrAccountNotFound is returned by [LedgerTx.FindAccount] for unknown usernames.
	ErrAccountNotFound = errors.New("purchase: account not found")

	// ErrProductNotFound is returned by [LedgerTx.FindProduct] for unknown ids.
	ErrProductNotFound = errors.New("purchase: product not found")
)

// # Ledger Interfaces

// Ledger runs purchase steps inside a single transaction.
type Ledger interface {

	/*
		InTx executes fn in a transaction and commits only if fn returns nil.

		Parameters:
		  - context: context.Context
		  - fn: func(LedgerTx) error

		Returns:
		  - error: The error returned by fn, or begin/commit failures
	*/
	InTx(context context.Context, fn func(tx LedgerTx) error) error
}

// LedgerTx is the set of operations available inside a ledger transaction.
type LedgerTx interface {
	// FindAccount loads the account owning username.
	FindAccount(context context.Context, username string) (*Account, error)

	// FindProduct loads a catalog item by id.
	FindProduct(context context.Context, productID int64) (*Product, error)

	// SetBalanceIfUnchanged writes next only if the stored balance still equals expected.
	// It reports false when another transaction changed the balance first.
	SetBalanceIfUnchanged(context context.Context, userID string, expected, next money.Amount) (bool, error)

	// InsertPurchase appends a purchase record.
	InsertPurchase(context context.Context, purchase *Purchase) error
}
