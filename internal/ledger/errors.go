package ledger

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Sentinel errors surfaced by the ledger client. The flow engine matches on
// these with errors.Is and passes them through to the UI layer.
var (
	// ErrSignerRejected is returned when the signing collaborator declines
	// to sign a write.
	ErrSignerRejected = errors.New("signer rejected the transaction")

	// ErrConfirmationTimeout is returned by PendingTx.Wait when the
	// configured confirmation deadline elapses without a receipt. The
	// transaction may still land later; the hash stays valid for explorer
	// lookup.
	ErrConfirmationTimeout = errors.New("transaction confirmation timed out")

	// ErrNetworkSwitchFailed is returned when the signer cannot move to the
	// chain a flow requires.
	ErrNetworkSwitchFailed = errors.New("network switch failed")
)

// RevertError carries a contract-level revert. The reason is surfaced
// verbatim; display-layer truncation happens at the flow boundary.
type RevertError struct {
	TxHash common.Hash
	Reason string
}

func (e *RevertError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("transaction %s reverted", e.TxHash.Hex())
	}
	return fmt.Sprintf("transaction %s reverted: %s", e.TxHash.Hex(), e.Reason)
}

// IsRevert reports whether err wraps a contract revert and returns it.
func IsRevert(err error) (*RevertError, bool) {
	var re *RevertError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
