package helpers

import (
	"math/big"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidEthAddress(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want bool
	}{
		{"lowercase", "0x" + strings.Repeat("a", 40), true},
		{"mixed case", "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", true},
		{"digits", "0x" + strings.Repeat("0", 40), true},
		{"too short", "0x" + strings.Repeat("a", 39), false},
		{"too long", "0x" + strings.Repeat("a", 41), false},
		{"missing prefix", strings.Repeat("a", 42), false},
		{"uppercase prefix", "0X" + strings.Repeat("a", 40), false},
		{"non hex", "0x" + strings.Repeat("g", 40), false},
		{"trailing newline", "0x" + strings.Repeat("a", 40) + "\n", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEthAddress(tt.in))
		})
	}
}

// Every accepted string is 42 chars, starts with 0x and is hex after that.
func TestIsValidEthAddress_Definition(t *testing.T) {
	isHex := func(s string) bool {
		for _, c := range s {
			if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
				return false
			}
		}
		return true
	}
	samples := []string{
		"0x20c0000000000000000000000000000000000000",
		"0x20c000000000000000000000000000000000000z",
		"1x20c0000000000000000000000000000000000000",
		"0x20c00000000000000000000000000000000000000",
		"0xABCDEFabcdef0123456789ABCDEFabcdef012345",
		"0x",
	}
	for _, s := range samples {
		want := len(s) == 42 && strings.HasPrefix(s, "0x") && isHex(s[2:])
		assert.Equal(t, want, IsValidEthAddress(s), s)
	}
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		amount   string
		decimals uint8
		want     string
	}{
		{"12.50", 6, "12500000"},
		{"1", 18, "1000000000000000000"},
		{"0.000001", 6, "1"},
		{"0.0000015", 6, "2"},
		{" 3 ", 2, "300"},
	}
	for _, tt := range tests {
		got, err := ToBaseUnits(tt.amount, tt.decimals)
		require.NoError(t, err, tt.amount)
		assert.Equal(t, tt.want, got.String(), tt.amount)
	}

	for _, bad := range []string{"", "abc", "0", "-1", "1e"} {
		_, err := ToBaseUnits(bad, 6)
		assert.ErrorIs(t, err, ErrInvalidAmount, bad)
	}
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "12.5", FormatUnits(big.NewInt(12500000), 6))
	assert.Equal(t, "0", FormatUnits(nil, 6))
	assert.Equal(t, "1.0000 USD", FormatToken(big.NewInt(100), 2, "USD"))
}

func TestSumAmounts(t *testing.T) {
	total := SumAmounts("1.25", "", "oops", "2")
	assert.Equal(t, "3.25", total.String())
}

func TestTruncate(t *testing.T) {
	id := "9b2f7c1e-1111-2222-3333-444455556666"
	assert.Equal(t, "9b2f7c1e...6666", Truncate(id, 8, 4))
	assert.Equal(t, "short", Truncate("short", 8, 4))
	assert.Equal(t, "0xd8dA…6045", ShortenAddr("0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"))
}
