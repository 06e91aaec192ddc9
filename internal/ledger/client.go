package ledger

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
)

// Reader is the read-only query surface of the lending ledger. Reads are
// idempotent and safe to issue concurrently.
type Reader interface {
	SupplyBalance(ctx context.Context, chainID uint64, user, asset common.Address) (*big.Int, error)
	BorrowBalance(ctx context.Context, chainID uint64, user, asset common.Address) (*big.Int, error)
	Position(ctx context.Context, chainID uint64, user common.Address) (*PositionSummary, error)
	AssetPrice(ctx context.Context, chainID uint64, asset common.Address) (*big.Int, error)
	MaxAvailableAmount(ctx context.Context, chainID uint64, asset common.Address) (*big.Int, error)
	MaxLiquidation(ctx context.Context, chainID uint64, borrower, collateralAsset, debtAsset common.Address) (*big.Int, error)
	Allowance(ctx context.Context, chainID uint64, token, owner, spender common.Address) (*big.Int, error)
	TokenBalance(ctx context.Context, chainID uint64, token, owner common.Address) (*big.Int, error)
}

// Writer submits state-changing calls. Every write returns a TxFuture once
// the chain client accepts the transaction.
type Writer interface {
	Approve(ctx context.Context, chainID uint64, token, spender common.Address, amount *big.Int) (TxFuture, error)
	Supply(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, onBehalfOf common.Address) (TxFuture, error)
	Withdraw(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, destChainID uint64, recipient common.Address) (TxFuture, error)
	Borrow(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, destChainID uint64, recipient common.Address) (TxFuture, error)
	Repay(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, onBehalfOf common.Address) (TxFuture, error)
	Liquidate(ctx context.Context, chainID uint64, borrower, collateralAsset, debtAsset common.Address, repayAmount *big.Int) (TxFuture, error)
}

// Client is the EVM implementation of Reader and Writer, one lazily dialed
// ethclient per registered chain.
type Client struct {
	registry *chains.Registry
	signer   Signer
	flowCfg  config.FlowConfig

	mu      sync.Mutex
	clients map[uint64]*ethclient.Client
}

// NewClient builds a ledger client over the registry. Connections are dialed
// on first use per chain.
func NewClient(registry *chains.Registry, signer Signer, flowCfg config.FlowConfig) *Client {
	return &Client{
		registry: registry,
		signer:   signer,
		flowCfg:  flowCfg,
		clients:  make(map[uint64]*ethclient.Client),
	}
}

func (c *Client) ethClient(chainID uint64) (*ethclient.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if client, ok := c.clients[chainID]; ok {
		return client, nil
	}

	endpoint, ok := c.registry.RPCEndpoint(chainID)
	if !ok {
		return nil, fmt.Errorf("no RPC endpoint configured for chain %d", chainID)
	}

	client, err := ethclient.Dial(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to dial chain %d at %s: %w", chainID, endpoint, err)
	}
	log.Printf("🔗 Connected to chain %d via %s", chainID, endpoint)
	c.clients[chainID] = client
	return client, nil
}

func (c *Client) lendingContract(chainID uint64) (common.Address, error) {
	addr, ok := c.registry.ContractAddress(chainID, chains.ContractLendingProtocol)
	if !ok {
		return common.Address{}, fmt.Errorf("lending protocol not deployed on chain %d", chainID)
	}
	return addr, nil
}

func (c *Client) call(ctx context.Context, chainID uint64, to common.Address, method contractMethod, args ...interface{}) ([]interface{}, error) {
	client, err := c.ethClient(chainID)
	if err != nil {
		return nil, err
	}

	data, err := method.Pack(args...)
	if err != nil {
		return nil, err
	}

	out, err := client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("contract call failed on chain %d: %w", chainID, err)
	}
	return method.Unpack(out)
}

func (c *Client) callUint(ctx context.Context, chainID uint64, to common.Address, method contractMethod, args ...interface{}) (*big.Int, error) {
	values, err := c.call(ctx, chainID, to, method, args...)
	if err != nil {
		return nil, err
	}
	v, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("unexpected return type %T", values[0])
	}
	return v, nil
}

// ===== Reads =====

func (c *Client) SupplyBalance(ctx context.Context, chainID uint64, user, asset common.Address) (*big.Int, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	return c.callUint(ctx, chainID, contract, methodGetSupplyBalance, user, asset)
}

func (c *Client) BorrowBalance(ctx context.Context, chainID uint64, user, asset common.Address) (*big.Int, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	return c.callUint(ctx, chainID, contract, methodGetBorrowBalance, user, asset)
}

func (c *Client) Position(ctx context.Context, chainID uint64, user common.Address) (*PositionSummary, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}

	values, err := c.call(ctx, chainID, contract, methodGetUserPositionData, user)
	if err != nil {
		return nil, err
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("unexpected position data arity %d", len(values))
	}

	summary := &PositionSummary{
		User:                 user,
		TotalCollateralUsd:   values[0].(*big.Int),
		TotalDebtUsd:         values[1].(*big.Int),
		HealthFactor:         values[2].(*big.Int),
		LiquidationThreshold: values[3].(*big.Int),
	}

	desc, ok := c.registry.Resolve(chainID)
	if !ok {
		return summary, nil
	}
	for symbol := range desc.Tokens {
		position, err := c.assetPosition(ctx, chainID, contract, user, symbol)
		if err != nil {
			log.Printf("⚠️ Failed to read %s position for %s: %v", symbol, user.Hex(), err)
			continue
		}
		summary.Assets = append(summary.Assets, *position)
	}
	return summary, nil
}

func (c *Client) assetPosition(ctx context.Context, chainID uint64, contract common.Address, user common.Address, symbol string) (*AssetPosition, error) {
	asset, ok := c.registry.TokenAddress(chainID, symbol)
	if !ok {
		return nil, fmt.Errorf("token %s absent on chain %d", symbol, chainID)
	}

	supplied, err := c.callUint(ctx, chainID, contract, methodGetSupplyBalance, user, asset)
	if err != nil {
		return nil, err
	}
	borrowed, err := c.callUint(ctx, chainID, contract, methodGetBorrowBalance, user, asset)
	if err != nil {
		return nil, err
	}
	price, err := c.callUint(ctx, chainID, contract, methodGetAssetPrice, asset)
	if err != nil {
		return nil, err
	}

	supported := true
	if values, err := c.call(ctx, chainID, contract, methodIsAssetSupported, asset); err == nil {
		supported, _ = values[0].(bool)
	}

	decimals := uint8(18)
	if values, err := c.call(ctx, chainID, asset, methodDecimals); err == nil {
		decimals, _ = values[0].(uint8)
	}

	return &AssetPosition{
		Asset:         asset,
		Symbol:        symbol,
		Decimals:      decimals,
		SourceChainID: chainID,
		Supplied:      supplied,
		Borrowed:      borrowed,
		PriceUsd:      price,
		Supported:     supported,
	}, nil
}

func (c *Client) AssetPrice(ctx context.Context, chainID uint64, asset common.Address) (*big.Int, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	return c.callUint(ctx, chainID, contract, methodGetAssetPrice, asset)
}

func (c *Client) MaxAvailableAmount(ctx context.Context, chainID uint64, asset common.Address) (*big.Int, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	return c.callUint(ctx, chainID, contract, methodMaxAvailableAmount, asset)
}

func (c *Client) MaxLiquidation(ctx context.Context, chainID uint64, borrower, collateralAsset, debtAsset common.Address) (*big.Int, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	return c.callUint(ctx, chainID, contract, methodGetMaxLiquidation, borrower, collateralAsset, debtAsset)
}

func (c *Client) Allowance(ctx context.Context, chainID uint64, token, owner, spender common.Address) (*big.Int, error) {
	return c.callUint(ctx, chainID, token, methodAllowance, owner, spender)
}

func (c *Client) TokenBalance(ctx context.Context, chainID uint64, token, owner common.Address) (*big.Int, error) {
	return c.callUint(ctx, chainID, token, methodBalanceOf, owner)
}

// ===== Writes =====

func (c *Client) Approve(ctx context.Context, chainID uint64, token, spender common.Address, amount *big.Int) (TxFuture, error) {
	data, err := methodApprove.Pack(spender, amount)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, chainID, token, data)
}

func (c *Client) Supply(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, onBehalfOf common.Address) (TxFuture, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	data, err := methodSupply.Pack(asset, amount, onBehalfOf)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, chainID, contract, data)
}

func (c *Client) Withdraw(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, destChainID uint64, recipient common.Address) (TxFuture, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	data, err := methodWithdraw.Pack(asset, amount, new(big.Int).SetUint64(destChainID), recipient)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, chainID, contract, data)
}

func (c *Client) Borrow(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, destChainID uint64, recipient common.Address) (TxFuture, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	data, err := methodBorrow.Pack(asset, amount, new(big.Int).SetUint64(destChainID), recipient)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, chainID, contract, data)
}

func (c *Client) Repay(ctx context.Context, chainID uint64, asset common.Address, amount *big.Int, onBehalfOf common.Address) (TxFuture, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	data, err := methodRepay.Pack(asset, amount, onBehalfOf)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, chainID, contract, data)
}

func (c *Client) Liquidate(ctx context.Context, chainID uint64, borrower, collateralAsset, debtAsset common.Address, repayAmount *big.Int) (TxFuture, error) {
	contract, err := c.lendingContract(chainID)
	if err != nil {
		return nil, err
	}
	data, err := methodLiquidate.Pack(borrower, collateralAsset, debtAsset, repayAmount)
	if err != nil {
		return nil, err
	}
	return c.sendTransaction(ctx, chainID, contract, data)
}

// sendTransaction builds, signs and broadcasts a legacy transaction, then
// wraps it in a PendingTx for confirmation waiting.
func (c *Client) sendTransaction(ctx context.Context, chainID uint64, to common.Address, data []byte) (TxFuture, error) {
	client, err := c.ethClient(chainID)
	if err != nil {
		return nil, err
	}

	from := c.signer.Address()

	nonce, err := client.PendingNonceAt(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get gas price: %w", err)
	}

	gasLimit, err := client.EstimateGas(ctx, ethereum.CallMsg{From: from, To: &to, Data: data})
	if err != nil {
		// Estimation failure is the contract rejecting the call before
		// broadcast; surface it as a revert.
		return nil, &RevertError{Reason: err.Error()}
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Gas:      gasLimit + gasLimit/5,
		GasPrice: gasPrice,
		Data:     data,
	})

	signed, err := c.signer.SignTx(tx, new(big.Int).SetUint64(chainID))
	if err != nil {
		return nil, err
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return nil, fmt.Errorf("failed to send transaction: %w", err)
	}

	log.Printf("🚀 Sent transaction %s on chain %d (nonce %d, gas %d)", signed.Hash().Hex(), chainID, nonce, signed.Gas())

	return &PendingTx{
		hash:          signed.Hash(),
		chainID:       chainID,
		client:        client,
		tx:            signed,
		from:          from,
		initialWindow: time.Duration(c.flowCfg.ConfirmInitialWindow) * time.Second,
		pollInterval:  time.Duration(c.flowCfg.ConfirmPollInterval) * time.Second,
	}, nil
}
