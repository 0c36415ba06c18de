// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package product

import "context"

// Repository defines the data access contract.
type Repository interface {
	ListProducts(context context.Context) ([]*Product, error)
}
