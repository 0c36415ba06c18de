// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package purchase implements the balance-debiting purchase engine.

A purchase is all-or-nothing: the balance debit and the purchase record are
committed together or not at all.

Concurrency:

  - Ledger transactions read the balance, then write it back with a
    compare-and-set against the value they read.
  - A lost race aborts the transaction and the engine retries with fresh data.
  - Two simultaneous purchases can therefore never both spend the same funds.
*/
package purchase

import (
	"time"

	"github.com/taibuivan/tradepost/pkg/money"
)

// # Domain Entities

// Account is the ledger view of a user: identity plus spendable balance.
type Account struct {
	ID       string
	Username string
	Balance  money.Amount
}

// Product is the ledger view of a catalog item.
type Product struct {
	ID    int64
	Name  string
	Price money.Amount
}

// Purchase is an append-only record of a completed debit.
type Purchase struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	ProductID    int64     `json:"product_id"`
	PurchaseDate time.Time `json:"purchase_date"`
}

// # Field Identifiers

const (
	FieldProductID = "product_id"
	FieldBalance   = "balance"
)
