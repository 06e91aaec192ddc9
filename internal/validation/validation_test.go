package validation

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func units(v string, decimals uint8) *big.Int {
	d := decimal.RequireFromString(v).Shift(int32(decimals))
	return d.BigInt()
}

func usd(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func snapshot() Snapshot {
	return Snapshot{
		AssetDecimals:      6,
		AssetPriceUsd:      usd("1"),
		AssetSupported:     true,
		WalletBalance:      units("1000", 6),
		SuppliedBalance:    units("500", 6),
		BorrowedBalance:    units("200", 6),
		TotalCollateralUsd: usd("1500"),
		TotalDebtUsd:       usd("1000"),
		ProtocolLiquidity:  units("10000", 6),
	}
}

func TestHealthFactorZeroDebtSentinel(t *testing.T) {
	hf := HealthFactor(usd("100"), decimal.Zero)
	assert.True(t, hf.Equal(InfiniteHealthFactor), "zero debt must yield the sentinel, got %s", hf)

	hf = HealthFactor(decimal.Zero, decimal.Zero)
	assert.True(t, hf.Equal(InfiniteHealthFactor))
}

// Scenario: 100 units supplied at $1 with no existing debt — current health
// factor is the sentinel and the supply validator accepts.
func TestSupplyWithNoDebt(t *testing.T) {
	snap := snapshot()
	snap.TotalDebtUsd = decimal.Zero
	snap.TotalCollateralUsd = decimal.Zero

	res := ValidateSupply(snap, "100")
	require.True(t, res.Valid, "unexpected rejection: %s", res.Message)
	assert.True(t, res.CurrentHealthFactor.Equal(InfiniteHealthFactor))
	assert.True(t, res.ProjectedHealthFactor.Equal(InfiniteHealthFactor))
	assert.Equal(t, RiskHealthy, res.RiskLevel)
}

// Scenario: collateral $1500, debt $1000 (HF 1.5); borrowing $200 more
// projects HF 1.25 — flagged at-risk but not blocked.
func TestBorrowProjectionFlagsRiskWithoutBlocking(t *testing.T) {
	res := ValidateBorrow(snapshot(), "200")

	require.True(t, res.Valid)
	assert.Equal(t, "1.5", res.CurrentHealthFactor.String())
	assert.Equal(t, "1.25", res.ProjectedHealthFactor.String())
	assert.Equal(t, RiskAtRisk, res.RiskLevel)
}

func TestBorrowProjectionMonotonicallyNonIncreasing(t *testing.T) {
	snap := snapshot()
	prev := InfiniteHealthFactor
	for _, amount := range []string{"1", "10", "100", "500", "2000", "9000"} {
		hf := ProjectBorrow(snap, usd(amount))
		assert.True(t, hf.LessThanOrEqual(prev),
			"borrowing %s improved health factor: %s > %s", amount, hf, prev)
		prev = hf
	}
}

func TestRepayProjectionMonotonicallyNonDecreasing(t *testing.T) {
	snap := snapshot()
	prev := decimal.Zero
	for _, amount := range []string{"1", "50", "100", "150", "200"} {
		hf := ProjectRepay(snap, usd(amount))
		assert.True(t, hf.GreaterThanOrEqual(prev),
			"repaying %s worsened health factor: %s < %s", amount, hf, prev)
		prev = hf
	}
}

func TestRepayFullDebtFloorsAtSentinel(t *testing.T) {
	snap := snapshot()
	hf := ProjectRepay(snap, usd("1000"))
	assert.True(t, hf.Equal(InfiniteHealthFactor))
	// Overpay floors debt at zero instead of going negative.
	hf = ProjectRepay(snap, usd("5000"))
	assert.True(t, hf.Equal(InfiniteHealthFactor))
}

func TestRepayDistinguishesExceedsDebtFromInsufficientBalance(t *testing.T) {
	snap := snapshot() // debt 200, wallet 1000

	res := ValidateRepay(snap, "250")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonExceedsDebt, res.Reason)
	assert.True(t, res.IsFullRepayment, "amount above debt still covers it")

	snap.WalletBalance = units("50", 6)
	res = ValidateRepay(snap, "100")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonInsufficientBalance, res.Reason)
	assert.False(t, res.IsFullRepayment)
}

func TestRepayExactDebtIsFullRepayment(t *testing.T) {
	res := ValidateRepay(snapshot(), "200")
	require.True(t, res.Valid)
	assert.True(t, res.IsFullRepayment)

	res = ValidateRepay(snapshot(), "199.999999")
	require.True(t, res.Valid)
	assert.False(t, res.IsFullRepayment)
}

func TestWithdrawBounds(t *testing.T) {
	snap := snapshot() // supplied 500, liquidity 10000

	res := ValidateWithdraw(snap, "600")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonExceedsSupplied, res.Reason)

	snap.ProtocolLiquidity = units("100", 6)
	res = ValidateWithdraw(snap, "300")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonExceedsLiquidity, res.Reason)

	assert.Equal(t, units("100", 6), res.MaxAmount)
}

func TestBorrowExceedsLiquidity(t *testing.T) {
	res := ValidateBorrow(snapshot(), "10001")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonExceedsLiquidity, res.Reason)
}

func TestInvalidAmountInputs(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-5", "1.2345678"} {
		res := ValidateSupply(snapshot(), raw)
		assert.False(t, res.Valid, "input %q should be invalid", raw)
		assert.Equal(t, ReasonInvalidAmount, res.Reason)
	}
}

func TestUnsupportedAsset(t *testing.T) {
	snap := snapshot()
	snap.AssetSupported = false
	res := ValidateSupply(snap, "10")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonAssetNotSupported, res.Reason)
}

func TestLiquidateBounds(t *testing.T) {
	snap := snapshot()
	snap.ProtocolLiquidity = units("100", 6) // getMaxLiquidation

	res := ValidateLiquidate(snap, "50")
	require.True(t, res.Valid)

	res = ValidateLiquidate(snap, "150")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonExceedsLiquidity, res.Reason)

	snap.WalletBalance = units("20", 6)
	res = ValidateLiquidate(snap, "50")
	require.False(t, res.Valid)
	assert.Equal(t, ReasonInsufficientBalance, res.Reason)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, RiskHealthy, Classify(usd("1.5")))
	assert.Equal(t, RiskAtRisk, Classify(usd("1.49")))
	assert.Equal(t, RiskAtRisk, Classify(usd("1.2")))
	assert.Equal(t, RiskLiquidatable, Classify(usd("1.19")))
	assert.Equal(t, RiskHealthy, Classify(InfiniteHealthFactor))
}

func TestWithdrawProjectionReducesCollateral(t *testing.T) {
	snap := snapshot()
	res := ValidateWithdraw(snap, "300")
	require.True(t, res.Valid)
	// $1200 collateral over $1000 debt.
	assert.Equal(t, "1.2", res.ProjectedHealthFactor.String())
	assert.Equal(t, RiskAtRisk, res.RiskLevel)
}
