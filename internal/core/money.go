// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts and quantities
// from form strings and for cent-exact arithmetic on them.
package core

import (
	"errors"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var (
	// ErrNonPositive is returned when a parsed amount or quantity is zero or negative.
	ErrNonPositive = errors.New("value must be positive")
	// ErrOutOfRange is returned when an amount, quantity or product exceeds
	// the bounds below.
	ErrOutOfRange = errors.New("value out of range")
)

// Upper bounds of a single amount (one trillion reais) and of a quantity or
// hour count. Totals of bounded entries stay far inside int64 cents.
const MaxAmountCents int64 = 100_000_000_000_000

var MaxQuantity = decimal.NewFromInt(1_000_000_000)

// ParseDecimalToCents converts a decimal string to cents with proper rounding.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and performs
// half-up rounding on the third decimal place. The result is always positive cents.
// Malformed input yields ErrInvalidAmount, zero or negative input ErrNonPositive
// and anything above MaxAmountCents ErrOutOfRange.
//
// Examples:
//
//	ParseDecimalToCents("12.34") -> 1234, nil
//	ParseDecimalToCents("12,34") -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil (rounds up)
//	ParseDecimalToCents("-3") -> 0, ErrNonPositive
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "-") {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return 0, ErrNonPositive
		}
		return 0, ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	for _, r := range intPart + fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart) > 15 {
		return 0, ErrOutOfRange
	}
	var iv int64
	if intPart != "" {
		var err error
		if iv, err = strconv.ParseInt(intPart, 10, 64); err != nil {
			return 0, ErrInvalidAmount
		}
	}
	if iv > MaxAmountCents/100 {
		return 0, ErrOutOfRange
	}
	// Take first two fractional digits; then half-up rounding on third
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}
	cents := iv*100 + fracCents
	if cents <= 0 {
		return 0, ErrNonPositive
	}
	if cents > MaxAmountCents {
		return 0, ErrOutOfRange
	}
	return cents, nil
}

// ParseQuantity parses a strictly positive quantity (units, hours) accepting
// either decimal separator. Values above MaxQuantity yield ErrOutOfRange.
func ParseQuantity(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return decimal.Zero, ErrInvalidQuantity
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidQuantity
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrNonPositive
	}
	if d.GreaterThan(MaxQuantity) {
		return decimal.Zero, ErrOutOfRange
	}
	return d, nil
}

// NewMoney builds a Money value from whole currency units.
func NewMoney(units int64) Money {
	return Money{Cents: units * 100}
}

func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

// MulDecimal multiplies by a decimal factor, rounding to the nearest cent.
// A product beyond MaxAmountCents is clamped to it; records are rejected
// before that happens by CheckedMulDecimal in their Validate.
func (m Money) MulDecimal(q decimal.Decimal) Money {
	p, err := m.CheckedMulDecimal(q)
	if err != nil {
		if p.Cents < 0 {
			return Money{Cents: -MaxAmountCents}
		}
		return Money{Cents: MaxAmountCents}
	}
	return p
}

// CheckedMulDecimal is MulDecimal returning ErrOutOfRange when the rounded
// product's magnitude exceeds MaxAmountCents. The returned Money then only
// carries the sign of the product.
func (m Money) CheckedMulDecimal(q decimal.Decimal) (Money, error) {
	p := decimal.NewFromInt(m.Cents).Mul(q).Round(0)
	if p.Abs().GreaterThan(decimal.NewFromInt(MaxAmountCents)) {
		return Money{Cents: int64(p.Sign())}, ErrOutOfRange
	}
	return Money{Cents: p.IntPart()}, nil
}

// Reais returns the value in currency units as a float64 for display and
// ratio purposes. Sums and comparisons stay in cents.
func (m Money) Reais() float64 {
	return float64(m.Cents) / 100.0
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	if m.Cents > MaxAmountCents {
		return ErrOutOfRange
	}
	return nil
}
