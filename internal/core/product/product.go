// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package product exposes the read-only product catalog.
package product

import "github.com/taibuivan/tradepost/pkg/money"

// Product is an item that can be bought with account balance.
type Product struct {
	ID    int64        `json:"id"`
	Name  string       `json:"name"`
	Price money.Amount `json:"price"`
}
