package models

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Money is an amount in US cents.
type Money int64

// Domain errors
var (
	ErrInvalidPrice    = errors.New("invalid price text")
	ErrInvalidQuantity = errors.New("invalid quantity text")
)

// Display prefixes used by the storefront labels
const (
	PricePrefix    = "$"
	SubtotalPrefix = "Item total: $"
	TaxPrefix      = "Tax: $"
	TotalPrefix    = "Total: $"
)

// ParsePrice parses an item price such as "$29.99".
func ParsePrice(text string) (Money, error) {
	return ParseLabel(text, PricePrefix)
}

// ParseLabel parses a labelled amount such as "Tax: $3.20". The text must be
// exactly the prefix followed by whole dollars, a dot and two cent digits.
func ParseLabel(text, prefix string) (Money, error) {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, prefix) {
		return 0, fmt.Errorf("%w: %q does not start with %q", ErrInvalidPrice, text, prefix)
	}
	amount := strings.TrimPrefix(trimmed, prefix)

	dollars, cents, ok := strings.Cut(amount, ".")
	if !ok || len(cents) != 2 || dollars == "" {
		return 0, fmt.Errorf("%w: %q is not formatted as dollars.cents", ErrInvalidPrice, text)
	}
	if !isDigits(dollars) || !isDigits(cents) {
		return 0, fmt.Errorf("%w: %q contains non-digit characters", ErrInvalidPrice, text)
	}

	d, err := strconv.ParseInt(dollars, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidPrice, err)
	}
	c, _ := strconv.ParseInt(cents, 10, 64)

	return Money(d*100 + c), nil
}

// ParseQuantity parses a cart quantity cell such as "1".
func ParseQuantity(text string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || !isDigits(trimmed) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidQuantity, text)
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidQuantity, err)
	}
	return n, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Float returns the amount in dollars.
func (m Money) Float() float64 {
	return float64(m) / 100.0
}

// String formats the amount the way the storefront displays item prices.
func (m Money) String() string {
	return fmt.Sprintf("%s%d.%02d", PricePrefix, int64(m)/100, int64(m)%100)
}

// Label formats the amount after a label prefix, e.g. Label(TaxPrefix).
func (m Money) Label(prefix string) string {
	return prefix + strings.TrimPrefix(m.String(), PricePrefix)
}

// Sum adds up a list of amounts.
func Sum(amounts []Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}
