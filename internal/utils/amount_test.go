package utils

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		decimals uint8
		want     string
		wantErr  bool
	}{
		{name: "whole units", raw: "100", decimals: 6, want: "100000000"},
		{name: "fractional", raw: "1.5", decimals: 18, want: "1500000000000000000"},
		{name: "trims whitespace", raw: " 2 ", decimals: 6, want: "2000000"},
		{name: "empty", raw: "", decimals: 6, wantErr: true},
		{name: "non numeric", raw: "abc", decimals: 6, wantErr: true},
		{name: "zero", raw: "0", decimals: 6, wantErr: true},
		{name: "negative", raw: "-1", decimals: 6, wantErr: true},
		{name: "too precise", raw: "0.1234567", decimals: 6, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.raw, tt.decimals)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestFormatAmountRoundTrip(t *testing.T) {
	units, err := ParseAmount("123.456", 6)
	require.NoError(t, err)
	assert.Equal(t, "123.456", FormatAmount(units, 6))
	assert.Equal(t, "0", FormatAmount(nil, 6))
}

func TestUsdFromWad(t *testing.T) {
	wad, ok := new(big.Int).SetString("1500000000000000000000", 10) // $1500
	require.True(t, ok)
	assert.Equal(t, "1500", UsdFromWad(wad).String())
	assert.True(t, UsdFromWad(nil).IsZero())
}

func TestTruncateForDisplay(t *testing.T) {
	assert.Equal(t, "short", TruncateForDisplay("short", 40))
	long := "execution reverted: health factor below liquidation threshold after withdrawal"
	out := TruncateForDisplay(long, 40)
	assert.Len(t, out, 40)
	assert.Equal(t, "...", out[37:])
}
