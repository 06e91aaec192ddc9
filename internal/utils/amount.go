package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// WadDecimals is the scale of USD-denominated aggregates coming back from
// the lending protocol.
const WadDecimals = 18

// ParseAmount converts a user-entered decimal string into base units for an
// asset with the given decimals. Rejects empty, non-numeric, negative and
// over-precise input.
func ParseAmount(raw string, decimals uint8) (*big.Int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("amount is empty")
	}

	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if d.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be greater than zero")
	}

	scaled := d.Shift(int32(decimals))
	if !scaled.IsInteger() {
		return nil, fmt.Errorf("amount %q has more than %d decimal places", raw, decimals)
	}
	return scaled.BigInt(), nil
}

// FormatAmount renders base units back into a decimal string.
func FormatAmount(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// DecimalFromUnits converts base units into a decimal value.
func DecimalFromUnits(amount *big.Int, decimals uint8) decimal.Decimal {
	if amount == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(amount, -int32(decimals))
}

// UsdFromWad converts an 18-decimal USD aggregate into a decimal value.
func UsdFromWad(amount *big.Int) decimal.Decimal {
	return DecimalFromUnits(amount, WadDecimals)
}

// TruncateForDisplay shortens long revert messages for UI surfaces while
// keeping the head intact.
func TruncateForDisplay(msg string, maxLen int) string {
	if maxLen <= 3 || len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}
