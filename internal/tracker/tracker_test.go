package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/clients"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
)

// scriptedClient returns queued responses in order, repeating the final one.
type scriptedClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedClient) GetStatus(_ context.Context, _ string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.calls
	c.calls++
	if i >= len(c.responses) {
		i = len(c.responses) - 1
	}
	var err error
	if i < len(c.errs) {
		err = c.errs[i]
	}
	return c.responses[i], err
}

func (c *scriptedClient) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls
}

func testConfig(maxAttempts int, onTimeout string) config.TrackerConfig {
	return config.TrackerConfig{
		Timeout:      1,
		InitialDelay: 0,
		PollInterval: 0,
		MaxAttempts:  maxAttempts,
		OnTimeout:    onTimeout,
	}
}

func waitTerminal(t *testing.T, tr *Tracker) Snapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if snap := tr.Snapshot(); snap.Status.Terminal() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("tracker never reached a terminal status: %+v", tr.Snapshot())
	return Snapshot{}
}

func TestAbortedOnThirdPoll(t *testing.T) {
	client := &scriptedClient{responses: []string{
		clients.CctxStatusPendingInbound,
		clients.CctxStatusPendingOutbound,
		clients.CctxStatusAborted,
	}}
	tr := New(client, testConfig(30, config.OnTimeoutOptimisticSuccess))

	require.Equal(t, StatusIdle, tr.Snapshot().Status)
	tr.StartTracking("0xabc")

	snap := waitTerminal(t, tr)
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, "0xabc", snap.TxHash)
	assert.Equal(t, 3, snap.Attempts)

	// Terminal state absorbs: no further polls are scheduled.
	calls := client.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, client.callCount())
	assert.Equal(t, 3, calls)
}

func TestOutboundMinedResolvesSuccess(t *testing.T) {
	client := &scriptedClient{responses: []string{
		clients.CctxStatusPendingOutbound,
		clients.CctxStatusOutboundMined,
	}}
	tr := New(client, testConfig(30, config.OnTimeoutOptimisticSuccess))
	tr.StartTracking("0xdef")

	snap := waitTerminal(t, tr)
	assert.Equal(t, StatusSuccess, snap.Status)
}

// Pins the documented optimistic-timeout behavior: 30 in-progress polls
// resolve to success rather than an explicit unknown. Candidate for change;
// the "unknown" policy below is the replacement.
func TestExhaustionResolvesOptimisticSuccess(t *testing.T) {
	client := &scriptedClient{responses: []string{clients.CctxStatusPendingOutbound}}
	tr := New(client, testConfig(30, config.OnTimeoutOptimisticSuccess))
	tr.StartTracking("0x111")

	snap := waitTerminal(t, tr)
	assert.Equal(t, StatusSuccess, snap.Status)
	assert.Equal(t, 30, snap.Attempts)
	assert.Equal(t, 30, client.callCount())
}

func TestExhaustionAfterErrorResolvesFailed(t *testing.T) {
	// Errors count toward the ceiling and flip the exhaustion outcome
	// under the optimistic policy.
	client := &scriptedClient{
		responses: []string{""},
		errs:      []error{errors.New("connection refused")},
	}
	tr := New(client, testConfig(5, config.OnTimeoutOptimisticSuccess))
	tr.StartTracking("0x222")

	snap := waitTerminal(t, tr)
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, 5, snap.Attempts)
}

func TestUnknownPolicyRemovesAsymmetry(t *testing.T) {
	pending := &scriptedClient{responses: []string{clients.CctxStatusPendingOutbound}}
	tr := New(pending, testConfig(5, config.OnTimeoutUnknown))
	tr.StartTracking("0x333")
	assert.Equal(t, StatusUnknown, waitTerminal(t, tr).Status)

	failing := &scriptedClient{
		responses: []string{""},
		errs:      []error{errors.New("boom")},
	}
	tr2 := New(failing, testConfig(5, config.OnTimeoutUnknown))
	tr2.StartTracking("0x444")
	assert.Equal(t, StatusUnknown, waitTerminal(t, tr2).Status)
}

func TestResetIsIdempotent(t *testing.T) {
	tr := New(&scriptedClient{responses: []string{clients.CctxStatusPendingOutbound}}, testConfig(30, config.OnTimeoutOptimisticSuccess))
	tr.StartTracking("0x555")

	tr.Reset()
	first := tr.Snapshot()
	tr.Reset()
	assert.Equal(t, first, tr.Snapshot())
	assert.Equal(t, StatusIdle, first.Status)
	assert.Empty(t, first.TxHash)
}

func TestResetCancelsScheduledPolls(t *testing.T) {
	// The poll would resolve success on its first attempt, but Reset bumps
	// the generation before it runs, so the stale goroutine must drop its
	// result instead of resurrecting the tracker.
	client := &scriptedClient{responses: []string{clients.CctxStatusOutboundMined}}
	cfg := testConfig(3, config.OnTimeoutOptimisticSuccess)
	cfg.InitialDelay = 1
	tr := New(client, cfg)

	tr.StartTracking("0x666")
	tr.Reset()

	time.Sleep(1200 * time.Millisecond)
	assert.Equal(t, StatusIdle, tr.Snapshot().Status)
}

func TestOnResolveHookFiresOnce(t *testing.T) {
	client := &scriptedClient{responses: []string{clients.CctxStatusOutboundMined}}
	tr := New(client, testConfig(3, config.OnTimeoutOptimisticSuccess))

	var mu sync.Mutex
	var resolved []Status
	tr.OnResolve(func(hash string, status Status, attempts int) {
		mu.Lock()
		resolved = append(resolved, status)
		mu.Unlock()
	})

	tr.StartTracking("0x777")
	waitTerminal(t, tr)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, resolved, 1)
	assert.Equal(t, StatusSuccess, resolved[0])
}
