package validation

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/utils"
)

// Health factor thresholds. MinSafeHealthFactor is the display threshold for
// a healthy position; LiquidationHealthFactor demarcates "at risk" from
// "liquidatable". Both are display classifications only — enforcement lives
// in the on-chain protocol, never here.
var (
	MinSafeHealthFactor     = decimal.RequireFromString("1.5")
	LiquidationHealthFactor = decimal.RequireFromString("1.2")

	// InfiniteHealthFactor is the sentinel for "no debt": effectively
	// infinite without risking a division by zero.
	InfiniteHealthFactor = decimal.NewFromInt(1_000_000_000)
)

// RiskLevel classifies a health factor for display.
type RiskLevel string

const (
	RiskHealthy      RiskLevel = "healthy"
	RiskAtRisk       RiskLevel = "at_risk"
	RiskLiquidatable RiskLevel = "liquidatable"
)

// Reason identifies why an amount was rejected. Distinct bounds produce
// distinct reasons so the UI can render a specific message.
type Reason string

const (
	ReasonNone                Reason = ""
	ReasonInvalidAmount       Reason = "invalid_amount"
	ReasonInsufficientBalance Reason = "insufficient_balance"
	ReasonExceedsSupplied     Reason = "exceeds_supplied"
	ReasonExceedsDebt         Reason = "exceeds_debt"
	ReasonExceedsLiquidity    Reason = "exceeds_liquidity"
	ReasonAssetNotSupported   Reason = "asset_not_supported"
)

// Snapshot is the ledger view a validator runs against. Balances are base
// units scaled by AssetDecimals; USD aggregates are decimal values.
type Snapshot struct {
	AssetDecimals  uint8
	AssetPriceUsd  decimal.Decimal
	AssetSupported bool

	WalletBalance   *big.Int // spendable balance of the asset
	SuppliedBalance *big.Int // user's supplied balance of the asset
	BorrowedBalance *big.Int // user's borrowed balance of the asset

	TotalCollateralUsd decimal.Decimal
	TotalDebtUsd       decimal.Decimal

	// ProtocolLiquidity is the protocol-advertised ceiling for the kind
	// (maxAvailableAmount for borrow/withdraw, getMaxLiquidation for
	// liquidate). Nil means no advertised ceiling.
	ProtocolLiquidity *big.Int
}

// Result is the outcome of validating one candidate amount. Always a pure
// function of the snapshot and input; errors are data, never panics.
type Result struct {
	Valid   bool   `json:"valid"`
	Reason  Reason `json:"reason,omitempty"`
	Message string `json:"message,omitempty"`

	Amount           *big.Int `json:"amount,omitempty"`
	MaxAmount        *big.Int `json:"max_amount,omitempty"`
	AvailableBalance *big.Int `json:"available_balance,omitempty"`

	CurrentHealthFactor   decimal.Decimal `json:"current_health_factor"`
	ProjectedHealthFactor decimal.Decimal `json:"projected_health_factor"`
	RiskLevel             RiskLevel       `json:"risk_level"`

	IsFullRepayment bool `json:"is_full_repayment"`
}

// HealthFactor computes collateral/debt with the zero-debt sentinel.
func HealthFactor(collateralUsd, debtUsd decimal.Decimal) decimal.Decimal {
	if debtUsd.Sign() <= 0 {
		return InfiniteHealthFactor
	}
	return collateralUsd.DivRound(debtUsd, 18)
}

// Classify maps a health factor to its display risk level.
func Classify(hf decimal.Decimal) RiskLevel {
	switch {
	case hf.GreaterThanOrEqual(MinSafeHealthFactor):
		return RiskHealthy
	case hf.GreaterThanOrEqual(LiquidationHealthFactor):
		return RiskAtRisk
	default:
		return RiskLiquidatable
	}
}

// ProjectBorrow returns the health factor after borrowing amountUsd more.
func ProjectBorrow(snap Snapshot, amountUsd decimal.Decimal) decimal.Decimal {
	return HealthFactor(snap.TotalCollateralUsd, snap.TotalDebtUsd.Add(amountUsd))
}

// ProjectRepay returns the health factor after repaying amountUsd, floored
// at zero debt.
func ProjectRepay(snap Snapshot, amountUsd decimal.Decimal) decimal.Decimal {
	projected := snap.TotalDebtUsd.Sub(amountUsd)
	if projected.Sign() < 0 {
		projected = decimal.Zero
	}
	return HealthFactor(snap.TotalCollateralUsd, projected)
}

// ProjectWithdraw returns the health factor after removing amountUsd of
// collateral, floored at zero.
func ProjectWithdraw(snap Snapshot, amountUsd decimal.Decimal) decimal.Decimal {
	projected := snap.TotalCollateralUsd.Sub(amountUsd)
	if projected.Sign() < 0 {
		projected = decimal.Zero
	}
	return HealthFactor(projected, snap.TotalDebtUsd)
}

// ValidateSupply checks a supply amount against the wallet balance.
func ValidateSupply(snap Snapshot, rawAmount string) Result {
	res := baseResult(snap)
	res.MaxAmount = snap.WalletBalance
	res.AvailableBalance = snap.WalletBalance

	amount, ok := parseInto(&res, snap, rawAmount)
	if !ok {
		return res
	}
	if exceedsBalance(amount, snap.WalletBalance) {
		return reject(res, ReasonInsufficientBalance, "amount exceeds wallet balance")
	}

	res.Valid = true
	res.ProjectedHealthFactor = HealthFactor(
		snap.TotalCollateralUsd.Add(usdValue(snap, amount)), snap.TotalDebtUsd)
	res.RiskLevel = Classify(res.ProjectedHealthFactor)
	return res
}

// ValidateWithdraw checks a withdraw amount against the supplied balance and
// the protocol liquidity ceiling.
func ValidateWithdraw(snap Snapshot, rawAmount string) Result {
	res := baseResult(snap)
	res.MaxAmount = minAmount(snap.SuppliedBalance, snap.ProtocolLiquidity)
	res.AvailableBalance = snap.SuppliedBalance

	amount, ok := parseInto(&res, snap, rawAmount)
	if !ok {
		return res
	}
	if exceedsBalance(amount, snap.SuppliedBalance) {
		return reject(res, ReasonExceedsSupplied, "amount exceeds supplied balance")
	}
	if exceedsCeiling(amount, snap.ProtocolLiquidity) {
		return reject(res, ReasonExceedsLiquidity, "amount exceeds protocol liquidity")
	}

	res.Valid = true
	res.ProjectedHealthFactor = ProjectWithdraw(snap, usdValue(snap, amount))
	res.RiskLevel = Classify(res.ProjectedHealthFactor)
	return res
}

// ValidateBorrow checks a borrow amount against the protocol liquidity
// ceiling and projects the resulting health factor. A projection below the
// safe threshold flags risk but never blocks — the blocking threshold is a
// ledger-side concern.
func ValidateBorrow(snap Snapshot, rawAmount string) Result {
	res := baseResult(snap)
	res.MaxAmount = snap.ProtocolLiquidity
	res.AvailableBalance = snap.ProtocolLiquidity

	amount, ok := parseInto(&res, snap, rawAmount)
	if !ok {
		return res
	}
	if exceedsCeiling(amount, snap.ProtocolLiquidity) {
		return reject(res, ReasonExceedsLiquidity, "amount exceeds available protocol liquidity")
	}

	res.Valid = true
	res.ProjectedHealthFactor = ProjectBorrow(snap, usdValue(snap, amount))
	res.RiskLevel = Classify(res.ProjectedHealthFactor)
	return res
}

// ValidateRepay checks a repay amount against the wallet balance and the
// outstanding debt. Amounts above the debt are invalid, never silently
// clamped; exact repayment raises the full-repayment flag.
func ValidateRepay(snap Snapshot, rawAmount string) Result {
	res := baseResult(snap)
	res.MaxAmount = minAmount(snap.BorrowedBalance, snap.WalletBalance)
	res.AvailableBalance = snap.WalletBalance

	amount, ok := parseInto(&res, snap, rawAmount)
	if !ok {
		return res
	}

	res.IsFullRepayment = coversDebt(amount, snap.BorrowedBalance)

	if exceedsBalance(amount, snap.BorrowedBalance) {
		return reject(res, ReasonExceedsDebt, "amount exceeds outstanding debt")
	}
	if exceedsBalance(amount, snap.WalletBalance) {
		return reject(res, ReasonInsufficientBalance, "amount exceeds wallet balance")
	}

	res.Valid = true
	res.ProjectedHealthFactor = ProjectRepay(snap, usdValue(snap, amount))
	res.RiskLevel = Classify(res.ProjectedHealthFactor)
	return res
}

// ValidateLiquidate checks a liquidation repay amount against the
// liquidator's balance and the protocol's getMaxLiquidation ceiling.
func ValidateLiquidate(snap Snapshot, rawAmount string) Result {
	res := baseResult(snap)
	res.MaxAmount = minAmount(snap.WalletBalance, snap.ProtocolLiquidity)
	res.AvailableBalance = snap.WalletBalance

	amount, ok := parseInto(&res, snap, rawAmount)
	if !ok {
		return res
	}
	if exceedsBalance(amount, snap.WalletBalance) {
		return reject(res, ReasonInsufficientBalance, "amount exceeds wallet balance")
	}
	if exceedsCeiling(amount, snap.ProtocolLiquidity) {
		return reject(res, ReasonExceedsLiquidity, "amount exceeds maximum liquidatable debt")
	}

	res.Valid = true
	res.ProjectedHealthFactor = res.CurrentHealthFactor
	res.RiskLevel = Classify(res.ProjectedHealthFactor)
	return res
}

// ===== helpers =====

func baseResult(snap Snapshot) Result {
	hf := HealthFactor(snap.TotalCollateralUsd, snap.TotalDebtUsd)
	return Result{
		CurrentHealthFactor:   hf,
		ProjectedHealthFactor: hf,
		RiskLevel:             Classify(hf),
	}
}

func parseInto(res *Result, snap Snapshot, rawAmount string) (*big.Int, bool) {
	if !snap.AssetSupported {
		res.Reason = ReasonAssetNotSupported
		res.Message = "asset is not supported by the protocol"
		return nil, false
	}
	amount, err := utils.ParseAmount(rawAmount, snap.AssetDecimals)
	if err != nil {
		res.Reason = ReasonInvalidAmount
		res.Message = err.Error()
		return nil, false
	}
	res.Amount = amount
	return amount, true
}

func reject(res Result, reason Reason, message string) Result {
	res.Valid = false
	res.Reason = reason
	res.Message = message
	return res
}

func usdValue(snap Snapshot, amount *big.Int) decimal.Decimal {
	return utils.DecimalFromUnits(amount, snap.AssetDecimals).Mul(snap.AssetPriceUsd)
}

// exceedsBalance reports amount > balance; a nil balance reads as zero.
func exceedsBalance(amount, balance *big.Int) bool {
	if balance == nil {
		return amount.Sign() > 0
	}
	return amount.Cmp(balance) > 0
}

// exceedsCeiling reports amount > ceiling; a nil ceiling is unbounded.
func exceedsCeiling(amount, ceiling *big.Int) bool {
	if ceiling == nil {
		return false
	}
	return amount.Cmp(ceiling) > 0
}

// coversDebt reports amount >= debt; a nil debt reads as zero.
func coversDebt(amount, debt *big.Int) bool {
	if debt == nil {
		return true
	}
	return amount.Cmp(debt) >= 0
}

func minAmount(a, b *big.Int) *big.Int {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}
