// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package price serves third-party market prices through a TTL cache.

The feed is queried twice per refresh, once for tradable and once for
non-tradable listings, and the two result sets are merged by item name. The
merged list is cached as encoded JSON and served verbatim until it expires.

Failure policy:

  - Feed down: an empty list is returned and nothing is cached.
  - Cache down: the request fails with STORE_UNAVAILABLE.
*/
package price

import "github.com/taibuivan/tradepost/pkg/pointer"

// Item is one merged price entry as returned to clients.
//
// Prices are display values copied from the feed; they never enter the ledger.
type Item struct {
	Name                string   `json:"name"`
	TradableMinPrice    *float64 `json:"tradable_min_price"`
	NonTradableMinPrice *float64 `json:"non_tradable_min_price"`
}

// Listing is one row of the upstream feed.
type Listing struct {
	MarketHashName string   `json:"market_hash_name"`
	MinPrice       *float64 `json:"min_price"`
}

// Merge combines tradable and non-tradable listings by market hash name.
//
// Output order follows first appearance, tradable listings first.
func Merge(tradable, nonTradable []Listing) []Item {
	items := make([]Item, 0, len(tradable))
	index := make(map[string]int, len(tradable))

	slot := func(name string) *Item {
		if position, ok := index[name]; ok {
			return &items[position]
		}
		index[name] = len(items)
		items = append(items, Item{Name: name})
		return &items[len(items)-1]
	}

	for _, listing := range tradable {
		slot(listing.MarketHashName).TradableMinPrice = pointer.Clone(listing.MinPrice)
	}
	for _, listing := range nonTradable {
		slot(listing.MarketHashName).NonTradableMinPrice = pointer.Clone(listing.MinPrice)
	}

	return items
}
