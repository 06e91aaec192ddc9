package services

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/flow"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/ledger"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/validation"
)

var (
	testUser  = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testAsset = common.HexToAddress("0x2222222222222222222222222222222222222222")
)

// fakeReader serves canned protocol state.
type fakeReader struct {
	summary   *ledger.PositionSummary
	balance   *big.Int
	maxAmount *big.Int
}

func (r *fakeReader) SupplyBalance(ctx context.Context, chainID uint64, user, asset common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (r *fakeReader) BorrowBalance(ctx context.Context, chainID uint64, user, asset common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (r *fakeReader) Position(ctx context.Context, chainID uint64, user common.Address) (*ledger.PositionSummary, error) {
	return r.summary, nil
}

func (r *fakeReader) AssetPrice(ctx context.Context, chainID uint64, asset common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (r *fakeReader) MaxAvailableAmount(ctx context.Context, chainID uint64, asset common.Address) (*big.Int, error) {
	return r.maxAmount, nil
}

func (r *fakeReader) MaxLiquidation(ctx context.Context, chainID uint64, borrower, collateralAsset, debtAsset common.Address) (*big.Int, error) {
	return r.maxAmount, nil
}

func (r *fakeReader) Allowance(ctx context.Context, chainID uint64, token, owner, spender common.Address) (*big.Int, error) {
	return big.NewInt(0), nil
}

func (r *fakeReader) TokenBalance(ctx context.Context, chainID uint64, token, owner common.Address) (*big.Int, error) {
	return r.balance, nil
}

func wad(units int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(units), new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))
}

func testSummary() *ledger.PositionSummary {
	return &ledger.PositionSummary{
		User:               testUser,
		TotalCollateralUsd: wad(1500),
		TotalDebtUsd:       wad(1000),
		Assets: []ledger.AssetPosition{
			{
				Asset:     testAsset,
				Symbol:    "USDC.ARBI",
				Decimals:  6,
				Supplied:  big.NewInt(500_000000),
				Borrowed:  big.NewInt(200_000000),
				PriceUsd:  wad(1),
				Supported: true,
			},
		},
	}
}

func TestLendingChainID(t *testing.T) {
	svc := NewPositionService(chains.DefaultRegistry, &fakeReader{})

	chainID, err := svc.LendingChainID()
	require.NoError(t, err)
	assert.Equal(t, uint64(7001), chainID)
}

func TestLendingChainIDNoLendingContracts(t *testing.T) {
	registry := chains.NewRegistry([]*chains.ChainDescriptor{
		{ChainID: 421614, Name: "Arbitrum Sepolia"},
	})
	svc := NewPositionService(registry, &fakeReader{})

	_, err := svc.LendingChainID()
	assert.ErrorIs(t, err, ErrNoLendingChain)
}

func TestValidateSupplyFromChainState(t *testing.T) {
	reader := &fakeReader{
		summary: testSummary(),
		balance: big.NewInt(1000_000000),
	}
	svc := NewPositionService(chains.DefaultRegistry, reader)

	res, err := svc.Validate(context.Background(), ValidateParams{
		Kind:   flow.KindSupply,
		User:   testUser,
		Asset:  testAsset,
		Amount: "100",
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, "1.5", res.CurrentHealthFactor.String())
}

func TestValidateSupplyInsufficientWalletBalance(t *testing.T) {
	reader := &fakeReader{
		summary: testSummary(),
		balance: big.NewInt(50_000000),
	}
	svc := NewPositionService(chains.DefaultRegistry, reader)

	res, err := svc.Validate(context.Background(), ValidateParams{
		Kind:   flow.KindSupply,
		User:   testUser,
		Asset:  testAsset,
		Amount: "100",
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, validation.ReasonInsufficientBalance, res.Reason)
}

func TestValidateWithdrawUsesProtocolCeiling(t *testing.T) {
	reader := &fakeReader{
		summary:   testSummary(),
		balance:   big.NewInt(0),
		maxAmount: big.NewInt(100_000000),
	}
	svc := NewPositionService(chains.DefaultRegistry, reader)

	res, err := svc.Validate(context.Background(), ValidateParams{
		Kind:   flow.KindWithdraw,
		User:   testUser,
		Asset:  testAsset,
		Amount: "400",
	})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, validation.ReasonExceedsLiquidity, res.Reason)
}

func TestValidateLiquidateReadsBorrowerPosition(t *testing.T) {
	borrower := common.HexToAddress("0x3333333333333333333333333333333333333333")
	summary := testSummary()
	summary.User = borrower
	summary.TotalCollateralUsd = wad(1100)

	reader := &fakeReader{
		summary:   summary,
		balance:   big.NewInt(1000_000000),
		maxAmount: big.NewInt(100_000000),
	}
	svc := NewPositionService(chains.DefaultRegistry, reader)

	res, err := svc.Validate(context.Background(), ValidateParams{
		Kind:      flow.KindLiquidate,
		User:      testUser,
		Amount:    "50",
		Borrower:  borrower,
		DebtAsset: testAsset,
	})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, validation.RiskLiquidatable, res.RiskLevel)
}

func TestValidateUnknownKind(t *testing.T) {
	svc := NewPositionService(chains.DefaultRegistry, &fakeReader{summary: testSummary()})

	_, err := svc.Validate(context.Background(), ValidateParams{Kind: "flashloan", User: testUser})
	assert.Error(t, err)
}
