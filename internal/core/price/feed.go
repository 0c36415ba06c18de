// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package price

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/taibuivan/tradepost/internal/platform/constants"
)

// maxFeedBytes caps the decoded upstream body.
const maxFeedBytes = 32 << 20

// ErrThrottled is returned when a fetch would exceed the provider's request budget.
var ErrThrottled = errors.New("price: feed throttled")

// Feed fetches raw listings from the upstream pricing provider.
type Feed interface {
	Fetch(ctx context.Context, tradable bool) ([]Listing, error)
}

// FeedConfig configures an [HTTPFeed].
type FeedConfig struct {
	URL         string
	AppID       string
	Currency    string
	MinInterval time.Duration
}

// HTTPFeed queries a Skinport-style items endpoint.
//
// Outbound calls share one token bucket because the provider caps request
// volume per client. A refresh needs two calls, hence a burst of two. Calls
// over budget fail fast with [ErrThrottled] instead of waiting.
type HTTPFeed struct {
	client  *http.Client
	config  FeedConfig
	limiter *rate.Limiter
}

// NewHTTPFeed creates a rate-limited [HTTPFeed]. A nil client uses a default with a timeout.
func NewHTTPFeed(client *http.Client, config FeedConfig) *HTTPFeed {
	if client == nil {
		client = &http.Client{Timeout: constants.PriceFeedTimeout}
	}

	limit := rate.Inf
	if config.MinInterval > 0 {
		limit = rate.Every(config.MinInterval)
	}

	return &HTTPFeed{
		client:  client,
		config:  config,
		limiter: rate.NewLimiter(limit, 2),
	}
}

/*
Fetch downloads one listing set.

Parameters:
  - ctx: context.Context
  - tradable: bool (selects tradable=1 or tradable=0)

Returns:
  - []Listing: Decoded listings
  - error: ErrThrottled, transport, status or decode failures
*/
func (feed *HTTPFeed) Fetch(ctx context.Context, tradable bool) ([]Listing, error) {
	reservation := feed.limiter.Reserve()
	if delay := reservation.Delay(); delay > 0 {
		reservation.Cancel()
		return nil, fmt.Errorf("%w: next call allowed in %s", ErrThrottled, delay.Round(time.Second))
	}

	endpoint, err := url.Parse(feed.config.URL)
	if err != nil {
		return nil, fmt.Errorf("price_feed_url_invalid: %w", err)
	}

	query := endpoint.Query()
	query.Set("app_id", feed.config.AppID)
	query.Set("currency", feed.config.Currency)
	query.Set("tradable", tradableFlag(tradable))
	endpoint.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("price_feed_request_failed: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := feed.client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("price_feed_fetch_failed: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, 4<<10))
		return nil, fmt.Errorf("price_feed_fetch_failed: upstream status %d", response.StatusCode)
	}

	var listings []Listing
	if err := json.NewDecoder(io.LimitReader(response.Body, maxFeedBytes)).Decode(&listings); err != nil {
		return nil, fmt.Errorf("price_feed_decode_failed: %w", err)
	}

	return listings, nil
}

func tradableFlag(tradable bool) string {
	if tradable {
		return "1"
	}
	return "0"
}
