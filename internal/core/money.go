// Package core provides money parsing and handling utilities.
//
// Amounts and limits are decimals, never floats: sums and averages over
// currency values must be exact.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a non-negative decimal currency value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators, like the
// console prompt users are used to. Exponents, signs other than a leading
// plus and thousands separators are rejected.
//
// Examples:
//
//	ParseAmount("150")    -> 150, nil
//	ParseAmount("12,50")  -> 12.5, nil
//	ParseAmount("-1")     -> ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.TrimPrefix(s, "+")
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return d, nil
}

// ParseID parses a record identity typed by the user.
func ParseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return id, nil
}

// FormatCurrency renders an amount with the rupee sign used by the reports.
func FormatCurrency(d decimal.Decimal) string {
	return "₹" + d.String()
}
