// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package price_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/tradepost/internal/core/price"
)

func newUpstream(t *testing.T, status int) (*httptest.Server, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		calls.Add(1)
		if status != http.StatusOK {
			writer.WriteHeader(status)
			return
		}

		query := request.URL.Query()
		assert.Equal(t, "730", query.Get("app_id"))
		assert.Equal(t, "EUR", query.Get("currency"))

		writer.Header().Set("Content-Type", "application/json")
		switch query.Get("tradable") {
		case "1":
			_, _ = writer.Write([]byte(`[{"market_hash_name":"AK-47 | Redline","min_price":12.5},{"market_hash_name":"Case Key","min_price":null}]`))
		default:
			_, _ = writer.Write([]byte(`[{"market_hash_name":"AK-47 | Redline","min_price":11.0},{"market_hash_name":"Sticker","min_price":0.03}]`))
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func feedConfig(url string, interval time.Duration) price.FeedConfig {
	return price.FeedConfig{URL: url, AppID: "730", Currency: "EUR", MinInterval: interval}
}

/*
TestHTTPFeed_Fetch decodes listings and passes the query parameters.
*/
func TestHTTPFeed_Fetch(t *testing.T) {
	server, _ := newUpstream(t, http.StatusOK)
	feed := price.NewHTTPFeed(server.Client(), feedConfig(server.URL, 0))

	listings, err := feed.Fetch(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "AK-47 | Redline", listings[0].MarketHashName)
	require.NotNil(t, listings[0].MinPrice)
	assert.InDelta(t, 12.5, *listings[0].MinPrice, 1e-9)
	assert.Nil(t, listings[1].MinPrice)
}

/*
TestHTTPFeed_UpstreamError reports non-200 statuses.
*/
func TestHTTPFeed_UpstreamError(t *testing.T) {
	server, _ := newUpstream(t, http.StatusTooManyRequests)
	feed := price.NewHTTPFeed(server.Client(), feedConfig(server.URL, 0))

	_, err := feed.Fetch(context.Background(), false)
	assert.ErrorContains(t, err, "429")
}

/*
TestHTTPFeed_Throttle allows one refresh worth of calls, then fails fast
without reaching the upstream.
*/
func TestHTTPFeed_Throttle(t *testing.T) {
	server, calls := newUpstream(t, http.StatusOK)
	feed := price.NewHTTPFeed(server.Client(), feedConfig(server.URL, time.Hour))
	ctx := context.Background()

	_, err := feed.Fetch(ctx, true)
	require.NoError(t, err)
	_, err = feed.Fetch(ctx, false)
	require.NoError(t, err)

	_, err = feed.Fetch(ctx, true)
	assert.ErrorIs(t, err, price.ErrThrottled)
	assert.Equal(t, int32(2), calls.Load())
}
