package tracker

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/clients"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
)

// Status is the settlement state of one tracked cross-chain transaction.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusPending Status = "pending"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	// StatusUnknown is the terminal state of the "unknown" exhaustion
	// policy: the retry ceiling was hit without a terminal provider status.
	StatusUnknown Status = "unknown"
)

// Terminal reports whether s absorbs further polls.
func (s Status) Terminal() bool {
	return s == StatusSuccess || s == StatusFailed || s == StatusUnknown
}

// StatusClient is the remote settlement oracle. The empty string means "no
// cctx observed yet".
type StatusClient interface {
	GetStatus(ctx context.Context, inboundHash string) (string, error)
}

// Snapshot is the externally visible tracker state.
type Snapshot struct {
	Status   Status `json:"status"`
	TxHash   string `json:"tx_hash"`
	Attempts int    `json:"attempts"`
}

// Tracker polls the cross-chain status service for the outcome of one
// source-chain transaction. Each Tracker is owned by one flow session; a
// generation counter guarantees that Reset kills any scheduled poll, so a
// stale goroutine can never resurrect a reset tracker.
type Tracker struct {
	client    StatusClient
	cfg       config.TrackerConfig
	onResolve func(hash string, status Status, attempts int)

	mu       sync.Mutex
	gen      uint64
	status   Status
	txHash   string
	attempts int
}

// New creates an idle tracker.
func New(client StatusClient, cfg config.TrackerConfig) *Tracker {
	return &Tracker{client: client, cfg: cfg, status: StatusIdle}
}

// OnResolve registers a hook invoked once when tracking reaches a terminal
// status. Must be set before StartTracking.
func (t *Tracker) OnResolve(fn func(hash string, status Status, attempts int)) {
	t.onResolve = fn
}

// StartTracking records the source transaction hash, moves to pending, and
// begins polling after the configured initial delay. Starting while a track
// is live supersedes it.
func (t *Tracker) StartTracking(sourceTxHash string) {
	t.mu.Lock()
	t.gen++
	gen := t.gen
	t.status = StatusPending
	t.txHash = sourceTxHash
	t.attempts = 0
	t.mu.Unlock()

	log.Printf("🔍 Tracking cross-chain settlement for %s", sourceTxHash)
	go t.pollLoop(gen, sourceTxHash)
}

// Reset unconditionally returns the tracker to idle and invalidates any
// scheduled poll. Idempotent.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.gen++
	t.status = StatusIdle
	t.txHash = ""
	t.attempts = 0
}

// Snapshot returns the current state.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{Status: t.status, TxHash: t.txHash, Attempts: t.attempts}
}

func (t *Tracker) pollLoop(gen uint64, hash string) {
	t.sleep(time.Duration(t.cfg.InitialDelay) * time.Second)

	var lastErr error
	for attempt := 1; attempt <= t.cfg.MaxAttempts; attempt++ {
		if t.stale(gen) {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(t.cfg.Timeout)*time.Second)
		status, err := t.client.GetStatus(ctx, hash)
		cancel()

		t.recordAttempt(gen, attempt)

		switch {
		case err != nil:
			// Network errors count toward the retry ceiling; only
			// exhaustion fails the tracker.
			log.Printf("⚠️ Settlement poll %d/%d for %s failed: %v", attempt, t.cfg.MaxAttempts, hash, err)
			lastErr = err
		case status == clients.CctxStatusOutboundMined:
			t.resolve(gen, hash, StatusSuccess)
			return
		case status == clients.CctxStatusAborted || status == clients.CctxStatusReverted:
			t.resolve(gen, hash, StatusFailed)
			return
		default:
			lastErr = nil
		}

		if attempt < t.cfg.MaxAttempts {
			t.sleep(time.Duration(t.cfg.PollInterval) * time.Second)
		}
	}

	t.resolve(gen, hash, t.exhaustedStatus(lastErr))
}

// exhaustedStatus applies the configured exhaustion policy. The
// optimistic_success policy keeps the dashboard's historical asymmetry:
// success when the service simply never went terminal, failed when the last
// poll errored.
func (t *Tracker) exhaustedStatus(lastErr error) Status {
	if t.cfg.OnTimeout == config.OnTimeoutUnknown {
		return StatusUnknown
	}
	if lastErr != nil {
		return StatusFailed
	}
	return StatusSuccess
}

func (t *Tracker) stale(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen != gen || t.status.Terminal()
}

func (t *Tracker) recordAttempt(gen uint64, attempt int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.gen == gen {
		t.attempts = attempt
	}
}

func (t *Tracker) resolve(gen uint64, hash string, status Status) {
	t.mu.Lock()
	if t.gen != gen || t.status.Terminal() {
		t.mu.Unlock()
		return
	}
	t.status = status
	attempts := t.attempts
	hook := t.onResolve
	t.mu.Unlock()

	log.Printf("🏁 Settlement for %s resolved %s after %d attempts", hash, status, attempts)
	if hook != nil {
		hook(hash, status, attempts)
	}
}

func (t *Tracker) sleep(d time.Duration) {
	if d > 0 {
		time.Sleep(d)
	}
}
