package ledger

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// AssetPosition is the per (user, asset) view read from the lending
// protocol. Balances are base units scaled by Decimals; PriceUsd is
// 18-decimal fixed point.
type AssetPosition struct {
	Asset         common.Address `json:"asset"`
	Symbol        string         `json:"symbol"`
	Decimals      uint8          `json:"decimals"`
	SourceChainID uint64         `json:"source_chain_id"`
	Supplied      *big.Int       `json:"supplied"`
	Borrowed      *big.Int       `json:"borrowed"`
	PriceUsd      *big.Int       `json:"price_usd"`
	Supported     bool           `json:"supported"`
}

// PositionSummary is the aggregate account view. USD values are 18-decimal
// fixed point; HealthFactor is 18-decimal fixed point as reported by the
// protocol.
type PositionSummary struct {
	User                  common.Address  `json:"user"`
	TotalCollateralUsd    *big.Int        `json:"total_collateral_usd"`
	TotalDebtUsd          *big.Int        `json:"total_debt_usd"`
	HealthFactor          *big.Int        `json:"health_factor"`
	LiquidationThreshold  *big.Int        `json:"liquidation_threshold"`
	Assets                []AssetPosition `json:"assets"`
}

// PendingTxHandle identifies a write accepted by the chain client.
type PendingTxHandle struct {
	Hash    common.Hash `json:"hash"`
	ChainID uint64      `json:"chain_id"`
}
