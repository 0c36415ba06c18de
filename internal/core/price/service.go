// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/cache"
	"github.com/taibuivan/tradepost/internal/platform/metrics"
)

// emptyList is served when the feed cannot be reached.
var emptyList = []byte("[]")

// Service reads prices through the cache and refreshes them from the feed.
type Service struct {
	cache    cache.Store
	feed     Feed
	cacheKey string
	ttl      time.Duration
	group    singleflight.Group
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService constructs a new [Service].
//
// cacheKey should encode everything that changes the feed result, such as the
// app id and currency.
func NewService(store cache.Store, feed Feed, cacheKey string, ttl time.Duration, metrics *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		cache:    store,
		feed:     feed,
		cacheKey: cacheKey,
		ttl:      ttl,
		metrics:  metrics,
		logger:   logger,
	}
}

/*
List returns the merged price list as encoded JSON.

Description: Serves the cached bytes verbatim on a hit. On a miss it refreshes
from the feed; concurrent misses share one refresh.

Parameters:
  - ctx: context.Context

Returns:
  - []byte: JSON array of [Item]
  - error: StoreUnavailable when the cache cannot be read
*/
func (service *Service) List(ctx context.Context) ([]byte, error) {
	body, err := service.cache.Get(ctx, service.cacheKey)
	if err == nil {
		service.metrics.PriceCacheLookup(true)
		return body, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		return nil, apperr.StoreUnavailable(fmt.Errorf("price_service_cache_failed: %w", err))
	}

	service.metrics.PriceCacheLookup(false)

	refreshed, _, _ := service.group.Do(service.cacheKey, func() (any, error) {
		return service.refresh(context.WithoutCancel(ctx)), nil
	})
	return refreshed.([]byte), nil
}

// refresh fetches both listing sets, merges them and caches the result.
func (service *Service) refresh(ctx context.Context) []byte {
	var tradable, nonTradable []Listing

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		listings, err := service.feed.Fetch(groupCtx, true)
		tradable = listings
		return err
	})
	group.Go(func() error {
		listings, err := service.feed.Fetch(groupCtx, false)
		nonTradable = listings
		return err
	})

	if err := group.Wait(); err != nil {
		service.logger.WarnContext(ctx, "price_feed_unavailable", slog.Any("error", err))
		return emptyList
	}

	body, err := json.Marshal(Merge(tradable, nonTradable))
	if err != nil {
		service.logger.ErrorContext(ctx, "price_encode_failed", slog.Any("error", err))
		return emptyList
	}

	if err := service.cache.Set(ctx, service.cacheKey, body, service.ttl); err != nil {
		service.logger.WarnContext(ctx, "price_cache_write_failed", slog.Any("error", err))
	}

	return body
}
