package flow

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Kind is the transaction kind a flow instance is parametrized by.
type Kind string

const (
	KindSupply    Kind = "supply"
	KindWithdraw  Kind = "withdraw"
	KindBorrow    Kind = "borrow"
	KindRepay     Kind = "repay"
	KindLiquidate Kind = "liquidate"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSupply, KindWithdraw, KindBorrow, KindRepay, KindLiquidate:
		return true
	}
	return false
}

// Phase is the common step envelope shared by every kind. One enum instead
// of per-kind step sets; the kind lives alongside it in Step.
type Phase string

const (
	PhaseInput         Phase = "input"
	PhaseSwitchNetwork Phase = "switch_network"
	PhaseApprove       Phase = "approve"
	PhaseApproving     Phase = "approving"
	PhaseSubmitting    Phase = "submitting"
	PhasePending       Phase = "pending"
	PhaseSuccess       Phase = "success"
	PhaseFailed        Phase = "failed"
)

// Terminal reports whether the phase ends the flow.
func (p Phase) Terminal() bool {
	return p == PhaseSuccess || p == PhaseFailed
}

// Step is the tagged step of one flow: which kind, and where in its
// lifecycle it is.
type Step struct {
	Kind  Kind  `json:"kind"`
	Phase Phase `json:"phase"`
}

func (s Step) String() string {
	return fmt.Sprintf("%s/%s", s.Kind, s.Phase)
}

// Request carries everything a single submission needs. All fields are
// explicit — no ambient wallet or network state.
type Request struct {
	ChainID     uint64 // chain the primary write executes on
	DestChainID uint64 // destination chain for withdraw/borrow; equal to ChainID when local

	Asset  common.Address
	Amount *big.Int

	// ApprovalToken is the ERC-20 requiring allowance before the primary
	// write (the principal, or the gas token on withdraw). Zero means no
	// approval leg.
	ApprovalToken common.Address
	// Spender is the contract granted the allowance.
	Spender common.Address

	OnBehalfOf common.Address // supply/repay
	Recipient  common.Address // withdraw/borrow destination recipient

	// Liquidation-only fields.
	Borrower        common.Address
	CollateralAsset common.Address
	DebtAsset       common.Address
}
