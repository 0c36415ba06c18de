// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pointer provides generic helpers for optional values.
//
// Optional JSON fields such as feed prices are modelled as pointers, where
// nil encodes as null.
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Clone returns a pointer to a copy of *p, or nil if p is nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	copied := *p
	return &copied
}
