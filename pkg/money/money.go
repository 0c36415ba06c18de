// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package money provides a fixed-point monetary amount for balances and prices.

Amounts are stored in minor units (cents) as int64 so that debits and
comparisons are exact. Floating point values never enter the ledger.

Representation:

  - Storage: BIGINT minor units in PostgreSQL.
  - Transport: JSON decimal number with two fractional digits (e.g. 2.50).
  - Config: decimal string parsed through [Amount.UnmarshalText].
*/
package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// scale is the number of minor units per major unit.
const scale = 100

// ErrInvalidAmount is returned when a decimal string cannot be parsed.
var ErrInvalidAmount = errors.New("money: invalid amount")

// Amount is a monetary value expressed in minor units.
type Amount int64

// Cents builds an [Amount] from a minor-unit count.
func Cents(cents int64) Amount {
	return Amount(cents)
}

// Parse converts a decimal string such as "10", "7.5" or "-0.25" into an [Amount].
//
// At most two fractional digits are accepted.
func Parse(value string) (Amount, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, ErrInvalidAmount
	}

	negative := false
	switch value[0] {
	case '-':
		negative = true
		value = value[1:]
	case '+':
		value = value[1:]
	}

	whole, fraction, hasFraction := strings.Cut(value, ".")
	if whole == "" && (!hasFraction || fraction == "") {
		return 0, ErrInvalidAmount
	}
	if len(fraction) > 2 {
		return 0, fmt.Errorf("%w: %q has more than two decimal places", ErrInvalidAmount, value)
	}

	var major int64
	if whole != "" {
		parsed, err := strconv.ParseUint(whole, 10, 63)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
		}
		major = int64(parsed)
	}

	var minor int64
	if fraction != "" {
		for len(fraction) < 2 {
			fraction += "0"
		}
		parsed, err := strconv.ParseUint(fraction, 10, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, value)
		}
		minor = int64(parsed)
	}

	if major > (math.MaxInt64-minor)/scale {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, value)
	}

	total := major*scale + minor
	if negative {
		total = -total
	}
	return Amount(total), nil
}

// MustParse is like [Parse] but panics on error. Intended for constants and tests.
func MustParse(value string) Amount {
	amount, err := Parse(value)
	if err != nil {
		panic(err)
	}
	return amount
}

// Cents returns the raw minor-unit count.
func (a Amount) Cents() int64 {
	return int64(a)
}

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool {
	return a < 0
}

// Sub returns a - other.
func (a Amount) Sub(other Amount) Amount {
	return a - other
}

// String formats the amount with exactly two fractional digits.
func (a Amount) String() string {
	sign := ""
	cents := int64(a)
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/scale, cents%scale)
}

// MarshalJSON encodes the amount as a JSON decimal number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"`)
	parsed, err := Parse(raw)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// UnmarshalText lets configuration loaders decode decimal strings.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
