// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package purchase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/metrics"
	"github.com/taibuivan/tradepost/pkg/money"
)

// DefaultMaxAttempts bounds the compare-and-set retry loop.
const DefaultMaxAttempts = 5

// errBalanceChanged aborts a transaction whose compare-and-set lost a race.
var errBalanceChanged = errors.New("purchase: balance changed concurrently")

// Options tunes an [Engine].
type Options struct {
	// MaxAttempts is the number of transactions tried before giving up with Conflict.
	MaxAttempts int
	// Clock stamps purchase records. Defaults to time.Now in UTC.
	Clock func() time.Time
}

// Engine debits balances and records purchases atomically.
type Engine struct {
	ledger  Ledger
	options Options
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewEngine constructs a new [Engine]. A nil metrics set disables instrumentation.
func NewEngine(ledger Ledger, options Options, metrics *metrics.Metrics, logger *slog.Logger) *Engine {
	if options.MaxAttempts <= 0 {
		options.MaxAttempts = DefaultMaxAttempts
	}
	if options.Clock == nil {
		options.Clock = func() time.Time { return time.Now().UTC() }
	}

	return &Engine{
		ledger:  ledger,
		options: options,
		metrics: metrics,
		logger:  logger,
	}
}

/*
Purchase debits the product price from the principal's balance.

Description: Looks up the account and product, rejects overdrafts, writes the
new balance with a compare-and-set and appends the purchase record, all in one
ledger transaction. A lost compare-and-set is retried with fresh data.

Parameters:
  - context: context.Context
  - principal: string (token-resolved username)
  - productID: int64

Returns:
  - money.Amount: Remaining balance
  - error: InvalidReference, InsufficientFunds, Conflict or storage errors
*/
func (engine *Engine) Purchase(context context.Context, principal string, productID int64) (money.Amount, error) {
	for attempt := 1; attempt <= engine.options.MaxAttempts; attempt++ {
		balance, err := engine.attempt(context, principal, productID)
		if err == nil {
			engine.metrics.Purchase(metrics.OutcomeSuccess)
			return balance, nil
		}

		if errors.Is(err, errBalanceChanged) {
			engine.metrics.PurchaseConflict()
			engine.logger.DebugContext(context, "purchase_balance_conflict",
				slog.String("username", principal),
				slog.Int("attempt", attempt),
			)
			continue
		}

		engine.metrics.Purchase(outcomeOf(err))
		return 0, err
	}

	engine.metrics.Purchase(metrics.OutcomeConflict)
	return 0, apperr.Conflict("Balance changed concurrently, please retry")
}

// attempt runs one ledger transaction.
func (engine *Engine) attempt(context context.Context, principal string, productID int64) (money.Amount, error) {
	var remaining money.Amount

	err := engine.ledger.InTx(context, func(tx LedgerTx) error {
		account, err := tx.FindAccount(context, principal)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return apperr.InvalidReference("User")
			}
			return err
		}

		product, err := tx.FindProduct(context, productID)
		if err != nil {
			if errors.Is(err, ErrProductNotFound) {
				return apperr.InvalidReference("Product")
			}
			return err
		}

		next := account.Balance.Sub(product.Price)
		if next.IsNegative() {
			return apperr.InsufficientFunds()
		}

		updated, err := tx.SetBalanceIfUnchanged(context, account.ID, account.Balance, next)
		if err != nil {
			return err
		}
		if !updated {
			return errBalanceChanged
		}

		now := engine.options.Clock()
		id, err := ulid.New(ulid.Timestamp(now), rand.Reader)
		if err != nil {
			return fmt.Errorf("purchase_engine_id_failed: %w", err)
		}

		record := &Purchase{
			ID:           id.String(),
			UserID:       account.ID,
			ProductID:    product.ID,
			PurchaseDate: now,
		}
		if err := tx.InsertPurchase(context, record); err != nil {
			return err
		}

		remaining = next
		return nil
	})

	if err != nil {
		return 0, err
	}
	return remaining, nil
}

func outcomeOf(err error) string {
	switch {
	case apperr.HasCode(err, apperr.CodeInsufficientFunds):
		return metrics.OutcomeInsufficientFunds
	case apperr.HasCode(err, apperr.CodeInvalidReference):
		return metrics.OutcomeInvalidReference
	default:
		return metrics.OutcomeError
	}
}
