package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/flow"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/ledger"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/utils"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/validation"
)

// ErrNoLendingChain is returned when no registered chain carries the
// lending protocol contracts.
var ErrNoLendingChain = errors.New("no lending chain registered")

// ValidateParams carries one validation request.
type ValidateParams struct {
	Kind    flow.Kind
	User    common.Address
	Asset   common.Address
	ChainID uint64 // chain the user's wallet balance lives on
	Amount  string

	// Liquidation only.
	Borrower        common.Address
	CollateralAsset common.Address
	DebtAsset       common.Address
}

// PositionService reads protocol state from the lending chain and runs
// pre-submission validation against it.
type PositionService struct {
	registry *chains.Registry
	reader   ledger.Reader
}

// NewPositionService creates the service over the given registry and reader.
func NewPositionService(registry *chains.Registry, reader ledger.Reader) *PositionService {
	return &PositionService{registry: registry, reader: reader}
}

// LendingChainID returns the chain the lending protocol is deployed on.
func (s *PositionService) LendingChainID() (uint64, error) {
	for _, c := range s.registry.All() {
		if !c.IsZetaChain {
			continue
		}
		if _, ok := s.registry.ContractAddress(c.ChainID, chains.ContractLendingProtocol); ok {
			return c.ChainID, nil
		}
	}
	return 0, ErrNoLendingChain
}

// Position returns the aggregate account view from the lending protocol.
func (s *PositionService) Position(ctx context.Context, user common.Address) (*ledger.PositionSummary, error) {
	chainID, err := s.LendingChainID()
	if err != nil {
		return nil, err
	}
	return s.reader.Position(ctx, chainID, user)
}

// Validate builds the on-chain snapshot for the request and runs the
// kind-specific validation over it.
func (s *PositionService) Validate(ctx context.Context, p ValidateParams) (validation.Result, error) {
	snap, err := s.buildSnapshot(ctx, p)
	if err != nil {
		return validation.Result{}, err
	}

	switch p.Kind {
	case flow.KindSupply:
		return validation.ValidateSupply(snap, p.Amount), nil
	case flow.KindWithdraw:
		return validation.ValidateWithdraw(snap, p.Amount), nil
	case flow.KindBorrow:
		return validation.ValidateBorrow(snap, p.Amount), nil
	case flow.KindRepay:
		return validation.ValidateRepay(snap, p.Amount), nil
	case flow.KindLiquidate:
		return validation.ValidateLiquidate(snap, p.Amount), nil
	default:
		return validation.Result{}, fmt.Errorf("unknown flow kind %q", p.Kind)
	}
}

// buildSnapshot assembles everything validation needs: asset metadata and
// balances from the position read, the spendable wallet balance from the
// source chain, and the protocol ceiling for the kind.
func (s *PositionService) buildSnapshot(ctx context.Context, p ValidateParams) (validation.Snapshot, error) {
	lendingChain, err := s.LendingChainID()
	if err != nil {
		return validation.Snapshot{}, err
	}

	// Liquidations validate the debt asset of the borrower's position.
	positionUser := p.User
	asset := p.Asset
	if p.Kind == flow.KindLiquidate {
		positionUser = p.Borrower
		asset = p.DebtAsset
	}

	summary, err := s.reader.Position(ctx, lendingChain, positionUser)
	if err != nil {
		return validation.Snapshot{}, fmt.Errorf("failed to read position: %w", err)
	}

	snap := validation.Snapshot{
		TotalCollateralUsd: utils.UsdFromWad(summary.TotalCollateralUsd),
		TotalDebtUsd:       utils.UsdFromWad(summary.TotalDebtUsd),
	}
	for _, a := range summary.Assets {
		if a.Asset != asset {
			continue
		}
		snap.AssetDecimals = a.Decimals
		snap.AssetSupported = a.Supported
		snap.AssetPriceUsd = utils.UsdFromWad(a.PriceUsd)
		snap.SuppliedBalance = a.Supplied
		snap.BorrowedBalance = a.Borrowed
		break
	}

	balanceChain := p.ChainID
	if balanceChain == 0 {
		balanceChain = lendingChain
	}
	if balance, err := s.reader.TokenBalance(ctx, balanceChain, asset, p.User); err == nil {
		snap.WalletBalance = balance
	}

	switch p.Kind {
	case flow.KindWithdraw, flow.KindBorrow:
		if max, err := s.reader.MaxAvailableAmount(ctx, lendingChain, asset); err == nil {
			snap.ProtocolLiquidity = max
		}
	case flow.KindLiquidate:
		max, err := s.reader.MaxLiquidation(ctx, lendingChain, p.Borrower, p.CollateralAsset, p.DebtAsset)
		if err != nil {
			return validation.Snapshot{}, fmt.Errorf("failed to read max liquidation: %w", err)
		}
		snap.ProtocolLiquidity = max
	}

	return snap, nil
}
