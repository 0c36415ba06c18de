// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"fmt"
	"sync"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/pkg/money"
)

// # Memory Ledger

// MemoryLedger is an in-process [Ledger].
//
// Reads see committed state. [LedgerTx.SetBalanceIfUnchanged] locks the account
// row until the transaction ends, and a writer that waited on that lock checks
// the balance committed by the holder, matching PostgreSQL under READ COMMITTED.
// Writes are staged and applied only when fn returns nil, so a failing step
// leaves no trace.
type MemoryLedger struct {
	mu        sync.Mutex
	accounts  map[string]*Account
	rows      map[string]*sync.Mutex
	products  map[int64]*Product
	purchases []*Purchase
}

// NewMemoryLedger creates an empty [MemoryLedger].
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		accounts: make(map[string]*Account),
		rows:     make(map[string]*sync.Mutex),
		products: make(map[int64]*Product),
	}
}

// SeedAccount adds or replaces an account.
func (ledger *MemoryLedger) SeedAccount(account Account) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	ledger.accounts[account.Username] = &account
	if _, ok := ledger.rows[account.ID]; !ok {
		ledger.rows[account.ID] = &sync.Mutex{}
	}
}

// SeedProduct adds or replaces a product.
func (ledger *MemoryLedger) SeedProduct(product Product) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()
	ledger.products[product.ID] = &product
}

// Balance returns the committed balance of username.
func (ledger *MemoryLedger) Balance(username string) (money.Amount, bool) {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	account, ok := ledger.accounts[username]
	if !ok {
		return 0, false
	}
	return account.Balance, true
}

// Purchases returns a copy of the committed purchase records.
func (ledger *MemoryLedger) Purchases() []Purchase {
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	out := make([]Purchase, 0, len(ledger.purchases))
	for _, purchase := range ledger.purchases {
		out = append(out, *purchase)
	}
	return out
}

// InTx runs fn and commits its staged writes if it returns nil.
func (ledger *MemoryLedger) InTx(context context.Context, fn func(tx LedgerTx) error) error {
	if err := context.Err(); err != nil {
		return apperr.StoreUnavailable(fmt.Errorf("memory_ledger_begin_failed: %w", err))
	}

	tx := &memoryTx{ledger: ledger, balances: make(map[string]money.Amount)}
	defer tx.release()

	if err := fn(tx); err != nil {
		return err
	}

	// Commit
	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	for _, account := range ledger.accounts {
		if next, staged := tx.balances[account.ID]; staged {
			account.Balance = next
		}
	}
	ledger.purchases = append(ledger.purchases, tx.purchases...)
	return nil
}

type memoryTx struct {
	ledger    *MemoryLedger
	balances  map[string]money.Amount
	purchases []*Purchase
	locked    []*sync.Mutex
}

// release drops the row locks taken by SetBalanceIfUnchanged.
func (t *memoryTx) release() {
	for _, row := range t.locked {
		row.Unlock()
	}
	t.locked = nil
}

func (t *memoryTx) FindAccount(_ context.Context, username string) (*Account, error) {
	t.ledger.mu.Lock()
	defer t.ledger.mu.Unlock()

	account, ok := t.ledger.accounts[username]
	if !ok {
		return nil, ErrAccountNotFound
	}

	copied := *account
	if staged, ok := t.balances[account.ID]; ok {
		copied.Balance = staged
	}
	return &copied, nil
}

func (t *memoryTx) FindProduct(_ context.Context, productID int64) (*Product, error) {
	t.ledger.mu.Lock()
	defer t.ledger.mu.Unlock()

	product, ok := t.ledger.products[productID]
	if !ok {
		return nil, ErrProductNotFound
	}

	copied := *product
	return &copied, nil
}

func (t *memoryTx) SetBalanceIfUnchanged(_ context.Context, userID string, expected, next money.Amount) (bool, error) {
	if current, staged := t.balances[userID]; staged {
		if current != expected {
			return false, nil
		}
		t.balances[userID] = next
		return true, nil
	}

	t.ledger.mu.Lock()
	row := t.ledger.rows[userID]
	t.ledger.mu.Unlock()
	if row == nil {
		return false, fmt.Errorf("memory_ledger_set_balance_failed: unknown account %s", userID)
	}

	// Blocks while another transaction holds the row.
	row.Lock()

	t.ledger.mu.Lock()
	current := t.ledger.accountByID(userID).Balance
	t.ledger.mu.Unlock()

	if current != expected {
		row.Unlock()
		return false, nil
	}

	t.locked = append(t.locked, row)
	t.balances[userID] = next
	return true, nil
}

func (t *memoryTx) InsertPurchase(_ context.Context, purchase *Purchase) error {
	copied := *purchase
	t.purchases = append(t.purchases, &copied)
	return nil
}

func (ledger *MemoryLedger) accountByID(id string) *Account {
	for _, account := range ledger.accounts {
		if account.ID == id {
			return account
		}
	}
	return nil
}
