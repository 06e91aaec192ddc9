package ledger

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// TxFuture is the handle returned by every write: the accepted transaction
// plus an awaitable confirmation. Wait is bounded by the context deadline
// and resolves to ErrConfirmationTimeout instead of blocking forever.
type TxFuture interface {
	Handle() PendingTxHandle
	Wait(ctx context.Context) (*types.Receipt, error)
}

// PendingTx is the EVM-backed TxFuture.
type PendingTx struct {
	hash    common.Hash
	chainID uint64
	client  *ethclient.Client
	tx      *types.Transaction
	from    common.Address

	initialWindow time.Duration
	pollInterval  time.Duration
}

func (p *PendingTx) Handle() PendingTxHandle {
	return PendingTxHandle{Hash: p.hash, ChainID: p.chainID}
}

// Wait blocks until the transaction is mined or ctx expires. A mined
// transaction with failed status resolves to a RevertError carrying the
// replayed revert reason when one can be recovered.
func (p *PendingTx) Wait(ctx context.Context) (*types.Receipt, error) {
	start := time.Now()

	// Fast path: let WaitMined subscribe for a short initial window.
	windowCtx, cancel := context.WithTimeout(ctx, p.initialWindow)
	receipt, err := bind.WaitMined(windowCtx, p.client, p.tx)
	cancel()
	if err == nil && receipt != nil {
		return p.finish(ctx, receipt, start)
	}
	if ctx.Err() != nil {
		return nil, fmt.Errorf("%w after %v (tx %s)", ErrConfirmationTimeout, time.Since(start), p.hash.Hex())
	}

	// Slow path: poll for the receipt until the deadline.
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w after %v (tx %s)", ErrConfirmationTimeout, time.Since(start), p.hash.Hex())
		case <-ticker.C:
			queryCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			receipt, err := p.client.TransactionReceipt(queryCtx, p.hash)
			cancel()
			if err == nil && receipt != nil {
				return p.finish(ctx, receipt, start)
			}
			if err != nil && !strings.Contains(err.Error(), "not found") {
				log.Printf("⚠️ Error querying receipt for %s: %v", p.hash.Hex(), err)
			}
		}
	}
}

func (p *PendingTx) finish(ctx context.Context, receipt *types.Receipt, start time.Time) (*types.Receipt, error) {
	if receipt.Status == types.ReceiptStatusSuccessful {
		log.Printf("✅ Transaction %s confirmed in block %d (%v)", p.hash.Hex(), receipt.BlockNumber.Uint64(), time.Since(start))
		return receipt, nil
	}

	reason := p.revertReason(ctx, receipt)
	log.Printf("❌ Transaction %s reverted in block %d: %s", p.hash.Hex(), receipt.BlockNumber.Uint64(), reason)
	return receipt, &RevertError{TxHash: p.hash, Reason: reason}
}

// revertReason replays the call at the mined block to recover the revert
// string. Best effort; nodes without archive state return nothing.
func (p *PendingTx) revertReason(ctx context.Context, receipt *types.Receipt) string {
	msg := ethereum.CallMsg{
		From:  p.from,
		To:    p.tx.To(),
		Gas:   p.tx.Gas(),
		Value: p.tx.Value(),
		Data:  p.tx.Data(),
	}

	callCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	_, err := p.client.CallContract(callCtx, msg, receipt.BlockNumber)
	if err == nil {
		return ""
	}
	return strings.TrimPrefix(err.Error(), "execution reverted: ")
}
