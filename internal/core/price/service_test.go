// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package price_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradepost/internal/core/price"
	"github.com/taibuivan/tradepost/internal/platform/apperr"
	"github.com/taibuivan/tradepost/internal/platform/cache"
	"github.com/taibuivan/tradepost/internal/platform/constants"
	"github.com/taibuivan/tradepost/pkg/pointer"
)

const cacheKey = "730:EUR"

func newCache(t *testing.T) (*cache.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewRedisStore(client, constants.RedisPrefixPriceCache), server
}

type stubFeed struct {
	calls atomic.Int32
	err   error
	delay time.Duration
}

func (s *stubFeed) Fetch(_ context.Context, tradable bool) ([]price.Listing, error) {
	s.calls.Add(1)
	time.Sleep(s.delay)
	if s.err != nil {
		return nil, s.err
	}
	if tradable {
		return []price.Listing{{MarketHashName: "Case Key", MinPrice: pointer.To(1.5)}}, nil
	}
	return []price.Listing{{MarketHashName: "Case Key", MinPrice: nil}}, nil
}

func newService(store cache.Store, feed price.Feed) *price.Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return price.NewService(store, feed, cacheKey, time.Hour, nil, logger)
}

/*
TestService_ListCachesForTTL fetches once, serves the cache verbatim, then
refreshes after expiry.
*/
func TestService_ListCachesForTTL(t *testing.T) {
	store, server := newCache(t)
	feed := &stubFeed{}
	service := newService(store, feed)
	ctx := context.Background()

	body, err := service.List(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Case Key","tradable_min_price":1.5,"non_tradable_min_price":null}]`, string(body))
	assert.Equal(t, int32(2), feed.calls.Load())
	assert.Equal(t, time.Hour, server.TTL(constants.RedisPrefixPriceCache+cacheKey))

	require.NoError(t, server.Set(constants.RedisPrefixPriceCache+cacheKey, `["verbatim"]`))
	server.SetTTL(constants.RedisPrefixPriceCache+cacheKey, time.Hour)

	body, err = service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, `["verbatim"]`, string(body))
	assert.Equal(t, int32(2), feed.calls.Load())

	server.FastForward(time.Hour + time.Second)

	_, err = service.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(4), feed.calls.Load())
}

/*
TestService_ListFeedDown returns an empty list and caches nothing.
*/
func TestService_ListFeedDown(t *testing.T) {
	store, server := newCache(t)
	service := newService(store, &stubFeed{err: errors.New("connection refused")})

	body, err := service.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(body))
	assert.Empty(t, server.Keys())
}

/*
TestService_ListCacheDown fails closed with STORE_UNAVAILABLE.
*/
func TestService_ListCacheDown(t *testing.T) {
	store, server := newCache(t)
	feed := &stubFeed{}
	server.SetError("connection reset")

	_, err := newService(store, feed).List(context.Background())
	assert.True(t, apperr.HasCode(err, apperr.CodeStoreUnavailable))
	assert.Zero(t, feed.calls.Load())
}

/*
TestService_ListSharesRefresh collapses concurrent misses into one refresh.
*/
func TestService_ListSharesRefresh(t *testing.T) {
	store, _ := newCache(t)
	feed := &stubFeed{delay: 50 * time.Millisecond}
	service := newService(store, feed)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			body, err := service.List(context.Background())
			assert.NoError(t, err)
			assert.NotEqual(t, "[]", string(body))
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, feed.calls.Load(), int32(4))
}

/*
TestHandler_List serves the cached body through GET /prices.
*/
func TestHandler_List(t *testing.T) {
	store, server := newCache(t)
	require.NoError(t, server.Set(constants.RedisPrefixPriceCache+cacheKey, `[{"name":"x","tradable_min_price":null,"non_tradable_min_price":null}]`))

	router := newRouter(newService(store, &stubFeed{}))
	status, body := get(t, router, "/prices")

	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, `[{"name":"x","tradable_min_price":null,"non_tradable_min_price":null}]`, body)
}
