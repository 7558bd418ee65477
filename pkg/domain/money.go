package domain

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned for amounts that are empty, non-numeric, zero or negative.
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a decimal currency amount. It travels as a bare JSON number.
type Money struct {
	decimal.Decimal
}

// NewMoney builds Money from a float, as the backend reports totals.
func NewMoney(v float64) Money {
	return Money{decimal.NewFromFloat(v)}
}

// MoneyFromCents builds Money from an integer number of cents.
func MoneyFromCents(cents int64) Money {
	return Money{decimal.New(cents, -2)}
}

// ParseMoney parses a user-entered amount. Both "12.34" and "12,34" are accepted.
// Only strictly positive amounts are valid.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return Money{}, ErrInvalidAmount
	}
	return Money{d.Round(2)}, nil
}

// String renders the amount with two decimals.
func (m Money) String() string {
	return m.StringFixed(2)
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{m.Decimal.Add(o.Decimal)}
}

// Sub returns m - o.
func (m Money) Sub(o Money) Money {
	return Money{m.Decimal.Sub(o.Decimal)}
}

// MarshalJSON writes the amount as a JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		m.Decimal = decimal.Zero
		return nil
	}
	s := strings.Trim(string(data), `"`)
	if s == "" {
		m.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("decode money %q: %w", s, err)
	}
	m.Decimal = d
	return nil
}
