package flow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/ledger"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/tracker"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/utils"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission is still running. The caller retries after the flow settles;
// the rejected call has no side effects.
var ErrSubmissionInFlight = errors.New("a submission is already in flight for this flow")

// State is the externally visible flow state. Hashes are set once when the
// corresponding write is accepted and cleared only by Reset.
type State struct {
	Step         Step                    `json:"step"`
	IsSubmitting bool                    `json:"is_submitting"`
	ApprovalHash *ledger.PendingTxHandle `json:"approval_hash,omitempty"`
	PrimaryHash  *ledger.PendingTxHandle `json:"primary_hash,omitempty"`
	Error        string                  `json:"error,omitempty"`
	Settlement   tracker.Snapshot        `json:"settlement"`
}

// Engine sequences one transaction flow: validation is the caller's
// concern; the engine owns approval, the primary write, confirmation waits,
// and the hand-off to settlement tracking. One engine per dialog session;
// instances share nothing.
type Engine struct {
	kind     Kind
	cfg      config.FlowConfig
	registry *chains.Registry
	reader   ledger.Reader
	writer   ledger.Writer
	signer   ledger.Signer
	tracker  *tracker.Tracker

	onTransition func(State)
	settle       func(time.Duration) // post-switch settling delay, injectable in tests

	mu    sync.Mutex
	state State
}

// NewEngine creates a flow engine for one transaction kind.
func NewEngine(kind Kind, cfg config.FlowConfig, registry *chains.Registry, reader ledger.Reader, writer ledger.Writer, signer ledger.Signer, tr *tracker.Tracker) *Engine {
	e := &Engine{
		kind:     kind,
		cfg:      cfg,
		registry: registry,
		reader:   reader,
		writer:   writer,
		signer:   signer,
		tracker:  tr,
		settle:   time.Sleep,
		state:    State{Step: Step{Kind: kind, Phase: PhaseInput}},
	}
	return e
}

// OnTransition registers a hook invoked after every state change. Must be
// set before the first Submit.
func (e *Engine) OnTransition(fn func(State)) {
	e.onTransition = fn
}

// Kind returns the engine's transaction kind.
func (e *Engine) Kind() Kind { return e.kind }

// State returns a snapshot including the current settlement sub-status.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	snap := e.state
	if e.tracker != nil {
		snap.Settlement = e.tracker.Snapshot()
	}
	return snap
}

// Reset is the only cancellation mechanism: it returns the flow to input,
// clears both hashes and the submitting flag, and stops settlement
// tracking. Safe from any state, idempotent. An already-broadcast chain
// transaction is not recalled — only the flow's bookkeeping resets.
func (e *Engine) Reset() {
	if e.tracker != nil {
		e.tracker.Reset()
	}
	e.mu.Lock()
	e.state = State{Step: Step{Kind: e.kind, Phase: PhaseInput}}
	e.mu.Unlock()
	e.notify()
}

// Submit drives one full submission: optional network switch, optional
// approval leg, the primary write, confirmation, and settlement hand-off.
// Blocking; returns once the flow reaches success or a failure path.
func (e *Engine) Submit(ctx context.Context, req Request) error {
	e.mu.Lock()
	if e.state.IsSubmitting {
		e.mu.Unlock()
		return ErrSubmissionInFlight
	}
	// Explicit retry from failed resets the bookkeeping first, preserving
	// nothing but the caller's entered amount.
	if e.state.Step.Phase == PhaseFailed {
		e.state = State{Step: Step{Kind: e.kind, Phase: PhaseInput}}
	}
	e.state.IsSubmitting = true
	e.mu.Unlock()
	e.notify()

	if err := e.switchNetworkIfNeeded(ctx, req); err != nil {
		return err
	}
	if err := e.approveIfNeeded(ctx, req); err != nil {
		return err
	}
	return e.submitPrimary(ctx, req)
}

// switchNetworkIfNeeded moves the signer to the flow's source chain. On
// success the flow returns to input and resumes after a short settling
// delay; on failure it returns to input with the submitting flag cleared.
func (e *Engine) switchNetworkIfNeeded(ctx context.Context, req Request) error {
	if e.signer.ActiveChainID() == req.ChainID {
		return nil
	}

	e.setPhase(PhaseSwitchNetwork)
	log.Printf("🔀 Flow %s: switching network %d -> %d", e.kind, e.signer.ActiveChainID(), req.ChainID)

	if err := e.signer.SwitchChain(ctx, req.ChainID); err != nil {
		wrapped := err
		if !errors.Is(err, ledger.ErrNetworkSwitchFailed) {
			wrapped = fmt.Errorf("%w: %v", ledger.ErrNetworkSwitchFailed, err)
		}
		e.returnToInput(wrapped)
		return wrapped
	}

	// Back to input with the submitting flag still set; the original
	// submission resumes after a short settling delay so wallet state can
	// propagate.
	e.setPhase(PhaseInput)
	e.settle(e.cfg.SettleDelay())
	return nil
}

// approveIfNeeded runs the allowance leg when the request names an approval
// token and the current allowance is short.
func (e *Engine) approveIfNeeded(ctx context.Context, req Request) error {
	if req.ApprovalToken == (common.Address{}) {
		return nil
	}

	allowance, err := e.reader.Allowance(ctx, req.ChainID, req.ApprovalToken, e.signer.Address(), req.Spender)
	if err != nil {
		e.returnToInput(err)
		return err
	}
	if allowance.Cmp(req.Amount) >= 0 {
		return nil
	}

	e.setPhase(PhaseApprove)

	writeCtx, cancel := context.WithTimeout(ctx, e.cfg.SignerWait())
	fut, err := e.writer.Approve(writeCtx, req.ChainID, req.ApprovalToken, req.Spender, req.Amount)
	cancel()
	if err != nil {
		e.returnToInput(err)
		return err
	}

	handle := fut.Handle()
	e.mu.Lock()
	e.state.ApprovalHash = &handle
	e.state.Step.Phase = PhaseApproving
	e.mu.Unlock()
	e.notify()

	waitCtx, cancel := context.WithTimeout(ctx, e.cfg.ConfirmWait())
	defer cancel()
	if _, err := fut.Wait(waitCtx); err != nil {
		// Approval confirmation failure surfaces the error and returns to
		// input; the primary write is never issued.
		e.returnToInput(err)
		return err
	}
	return nil
}

// submitPrimary issues the kind-specific protocol write and waits for
// confirmation, then hands cross-chain kinds to the settlement tracker.
func (e *Engine) submitPrimary(ctx context.Context, req Request) error {
	e.setPhase(PhaseSubmitting)

	writeCtx, cancel := context.WithTimeout(ctx, e.cfg.SignerWait())
	fut, err := e.primaryWrite(writeCtx, req)
	cancel()
	if err != nil {
		if errors.Is(err, ledger.ErrSignerRejected) {
			// User declined in the wallet — recoverable, back to input.
			e.returnToInput(err)
			return err
		}
		e.fail(err)
		return err
	}

	handle := fut.Handle()
	e.mu.Lock()
	e.state.PrimaryHash = &handle
	e.state.Step.Phase = PhasePending
	e.mu.Unlock()
	e.notify()

	waitCtx, cancel := context.WithTimeout(ctx, e.cfg.ConfirmWait())
	defer cancel()
	if _, err := fut.Wait(waitCtx); err != nil {
		e.fail(err)
		return err
	}

	if e.crossesChains(req) {
		e.tracker.StartTracking(handle.Hash.Hex())
	}

	e.mu.Lock()
	e.state.Step.Phase = PhaseSuccess
	e.state.IsSubmitting = false
	e.mu.Unlock()
	e.notify()

	log.Printf("✅ Flow %s completed with tx %s", e.kind, handle.Hash.Hex())
	return nil
}

func (e *Engine) primaryWrite(ctx context.Context, req Request) (ledger.TxFuture, error) {
	switch e.kind {
	case KindSupply:
		return e.writer.Supply(ctx, req.ChainID, req.Asset, req.Amount, req.OnBehalfOf)
	case KindWithdraw:
		return e.writer.Withdraw(ctx, req.ChainID, req.Asset, req.Amount, req.DestChainID, req.Recipient)
	case KindBorrow:
		return e.writer.Borrow(ctx, req.ChainID, req.Asset, req.Amount, req.DestChainID, req.Recipient)
	case KindRepay:
		return e.writer.Repay(ctx, req.ChainID, req.Asset, req.Amount, req.OnBehalfOf)
	case KindLiquidate:
		return e.writer.Liquidate(ctx, req.ChainID, req.Borrower, req.CollateralAsset, req.DebtAsset, req.Amount)
	default:
		return nil, fmt.Errorf("unknown transaction kind %q", e.kind)
	}
}

// crossesChains reports whether the flow has a settlement leg to track:
// supply lands on ZetaChain from an external source chain; withdraw and
// borrow deliver to an external destination.
func (e *Engine) crossesChains(req Request) bool {
	switch e.kind {
	case KindSupply:
		desc, ok := e.registry.Resolve(req.ChainID)
		return ok && !desc.IsZetaChain
	case KindWithdraw, KindBorrow:
		return e.registry.IsCrossChain(req.ChainID, req.DestChainID)
	default:
		return false
	}
}

// ===== state transitions =====

func (e *Engine) setPhase(p Phase) {
	e.mu.Lock()
	e.state.Step.Phase = p
	e.mu.Unlock()
	e.notify()
}

// returnToInput records a recoverable error and goes back to input with the
// submitting flag cleared.
func (e *Engine) returnToInput(err error) {
	e.mu.Lock()
	e.state.Step.Phase = PhaseInput
	e.state.IsSubmitting = false
	e.state.Error = e.displayError(err)
	e.mu.Unlock()
	e.notify()
}

// fail moves to the failed terminal phase. Not auto-retried: the caller
// must re-invoke Submit, which resets to input first.
func (e *Engine) fail(err error) {
	e.mu.Lock()
	e.state.Step.Phase = PhaseFailed
	e.state.IsSubmitting = false
	e.state.Error = e.displayError(err)
	e.mu.Unlock()
	e.notify()
	log.Printf("❌ Flow %s failed: %v", e.kind, err)
}

// displayError passes revert reasons through verbatim, truncated for
// display when very long.
func (e *Engine) displayError(err error) string {
	if err == nil {
		return ""
	}
	maxLen := e.cfg.RevertDisplayLength
	if maxLen <= 0 {
		maxLen = 200
	}
	return utils.TruncateForDisplay(err.Error(), maxLen)
}

func (e *Engine) notify() {
	if e.onTransition != nil {
		e.onTransition(e.State())
	}
}
