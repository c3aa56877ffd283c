package helpers

import (
	"errors"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidAmount is returned when an amount string is not a positive decimal.
var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount parses a user-entered decimal amount. Surrounding whitespace is
// ignored; anything else that is not a plain decimal is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// IsPositiveAmount reports whether s parses to an amount greater than zero.
func IsPositiveAmount(s string) bool {
	d, err := ParseAmount(s)
	return err == nil && d.IsPositive()
}

// ToBaseUnits converts a decimal amount string into the token's smallest unit,
// e.g. "12.50" with 6 decimals is 12500000. Digits beyond the token precision
// are rounded half away from zero.
func ToBaseUnits(amount string, decimals uint8) (*big.Int, error) {
	d, err := ParseAmount(amount)
	if err != nil {
		return nil, err
	}
	if !d.IsPositive() {
		return nil, ErrInvalidAmount
	}
	return d.Shift(int32(decimals)).Round(0).BigInt(), nil
}

// FormatUnits renders a base-unit integer as a decimal string with the given
// precision, trimming trailing zeros.
func FormatUnits(v *big.Int, decimals uint8) string {
	if v == nil {
		return "0"
	}
	return decimal.NewFromBigInt(v, -int32(decimals)).String()
}

// FormatToken formats token balance with proper decimals
func FormatToken(balance *big.Int, decimals uint8, symbol string) string {
	if balance == nil {
		return "0 " + symbol
	}
	return decimal.NewFromBigInt(balance, -int32(decimals)).StringFixed(4) + " " + symbol
}

// SumAmounts adds every parsable amount, skipping blanks and garbage.
func SumAmounts(amounts ...string) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		d, err := ParseAmount(a)
		if err != nil {
			continue
		}
		total = total.Add(d)
	}
	return total
}
