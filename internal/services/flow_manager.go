package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/chains"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/events"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/flow"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/ledger"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/metrics"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/models"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/tracker"
)

// ErrFlowNotFound is returned for unknown or already-closed flow ids.
var ErrFlowNotFound = errors.New("flow not found")

// FlowSession binds one flow engine to its id, owner and settlement tracker.
type FlowSession struct {
	ID          string
	Kind        flow.Kind
	UserAddress common.Address
	Engine      *flow.Engine
	Tracker     *tracker.Tracker
	CreatedAt   time.Time

	startedAt time.Time
}

// FlowSnapshot is the API view of one session.
type FlowSnapshot struct {
	FlowID      string     `json:"flow_id"`
	Kind        flow.Kind  `json:"kind"`
	UserAddress string     `json:"user_address"`
	CreatedAt   time.Time  `json:"created_at"`
	State       flow.State `json:"state"`
}

// FlowManager owns all live flow sessions. Each session gets its own engine
// and tracker; the manager wires their transition hooks into persistence,
// metrics, NATS and WebSocket push.
type FlowManager struct {
	cfg          *config.Config
	registry     *chains.Registry
	reader       ledger.Reader
	writer       ledger.Writer
	signer       ledger.Signer
	statusClient tracker.StatusClient
	db           *gorm.DB
	publisher    *events.Publisher
	push         *WebSocketPushService

	mu       sync.RWMutex
	sessions map[string]*FlowSession
}

// NewFlowManager creates an empty manager. db, publisher and push may each
// be nil; the corresponding side effects are skipped.
func NewFlowManager(
	cfg *config.Config,
	registry *chains.Registry,
	reader ledger.Reader,
	writer ledger.Writer,
	signer ledger.Signer,
	statusClient tracker.StatusClient,
	db *gorm.DB,
	publisher *events.Publisher,
	push *WebSocketPushService,
) *FlowManager {
	return &FlowManager{
		cfg:          cfg,
		registry:     registry,
		reader:       reader,
		writer:       writer,
		signer:       signer,
		statusClient: statusClient,
		db:           db,
		publisher:    publisher,
		push:         push,
		sessions:     make(map[string]*FlowSession),
	}
}

// Open creates a new flow session of the given kind for the user and
// returns its snapshot. The session idles at the input phase until Submit.
func (m *FlowManager) Open(kind flow.Kind, user common.Address) (FlowSnapshot, error) {
	if !kind.Valid() {
		return FlowSnapshot{}, fmt.Errorf("unknown flow kind %q", kind)
	}

	session := &FlowSession{
		ID:          uuid.New().String(),
		Kind:        kind,
		UserAddress: user,
		CreatedAt:   time.Now().UTC(),
	}

	tr := tracker.New(m.statusClient, m.cfg.Tracker)
	tr.OnResolve(func(hash string, status tracker.Status, attempts int) {
		m.onSettlementResolved(session, hash, status, attempts)
	})
	session.Tracker = tr

	engine := flow.NewEngine(kind, m.cfg.Flow, m.registry, m.reader, m.writer, m.signer, tr)
	engine.OnTransition(func(state flow.State) {
		m.onTransition(session, state)
	})
	session.Engine = engine

	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	if m.db != nil {
		record := models.FlowRecord{
			ID:          session.ID,
			Kind:        string(kind),
			UserAddress: strings.ToLower(user.Hex()),
			Phase:       string(flow.PhaseInput),
			CreatedAt:   session.CreatedAt,
		}
		if err := m.db.Create(&record).Error; err != nil {
			log.Printf("⚠️ Failed to persist flow %s: %v", session.ID, err)
		}
	}

	log.Printf("🚀 Opened %s flow %s for %s", kind, session.ID, user.Hex())
	return m.snapshot(session), nil
}

// Get returns the snapshot of one session.
func (m *FlowManager) Get(id string) (FlowSnapshot, error) {
	session, err := m.session(id)
	if err != nil {
		return FlowSnapshot{}, err
	}
	return m.snapshot(session), nil
}

// Submit runs the session's flow with the given request. Concurrent calls
// against the same session beyond the first return ErrSubmissionInFlight.
func (m *FlowManager) Submit(ctx context.Context, id string, req flow.Request) (FlowSnapshot, error) {
	session, err := m.session(id)
	if err != nil {
		return FlowSnapshot{}, err
	}

	session.startedAt = time.Now()
	metrics.FlowsStarted.WithLabelValues(string(session.Kind)).Inc()

	if m.db != nil {
		updates := map[string]interface{}{
			"asset":         strings.ToLower(req.Asset.Hex()),
			"chain_id":      req.ChainID,
			"dest_chain_id": req.DestChainID,
		}
		if req.Amount != nil {
			updates["amount"] = req.Amount.String()
		}
		if err := m.db.Model(&models.FlowRecord{}).Where("id = ?", session.ID).Updates(updates).Error; err != nil {
			log.Printf("⚠️ Failed to update flow %s request: %v", session.ID, err)
		}
	}

	err = session.Engine.Submit(ctx, req)
	return m.snapshot(session), err
}

// Reset returns the session to the input phase and cancels any settlement
// tracking. Safe to call in any phase.
func (m *FlowManager) Reset(id string) (FlowSnapshot, error) {
	session, err := m.session(id)
	if err != nil {
		return FlowSnapshot{}, err
	}
	session.Engine.Reset()
	return m.snapshot(session), nil
}

// Close resets and removes the session. The persisted FlowRecord survives
// for the history API.
func (m *FlowManager) Close(id string) error {
	m.mu.Lock()
	session, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return ErrFlowNotFound
	}

	session.Tracker.Reset()
	log.Printf("🗑️ Closed flow %s", id)
	return nil
}

// History returns the most recent persisted flows for a user, newest first.
func (m *FlowManager) History(user common.Address, limit int) ([]models.FlowRecord, error) {
	if m.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var records []models.FlowRecord
	err := m.db.
		Where("user_address = ?", strings.ToLower(user.Hex())).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load flow history: %w", err)
	}
	return records, nil
}

func (m *FlowManager) session(id string) (*FlowSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrFlowNotFound
	}
	return session, nil
}

func (m *FlowManager) snapshot(session *FlowSession) FlowSnapshot {
	return FlowSnapshot{
		FlowID:      session.ID,
		Kind:        session.Kind,
		UserAddress: session.UserAddress.Hex(),
		CreatedAt:   session.CreatedAt,
		State:       session.Engine.State(),
	}
}

// onTransition runs after every engine state change: persist, meter,
// publish, push. All side effects are best effort.
func (m *FlowManager) onTransition(session *FlowSession, state flow.State) {
	phase := state.Step.Phase
	kind := string(session.Kind)

	switch phase {
	case flow.PhaseSuccess:
		metrics.FlowsCompleted.WithLabelValues(kind).Inc()
		if !session.startedAt.IsZero() {
			metrics.FlowConfirmationDuration.WithLabelValues(kind).Observe(time.Since(session.startedAt).Seconds())
		}
	case flow.PhaseFailed:
		metrics.FlowsFailed.WithLabelValues(kind).Inc()
	}

	if m.db != nil {
		updates := map[string]interface{}{
			"phase": string(phase),
			"error": state.Error,
		}
		if state.ApprovalHash != nil {
			updates["approval_hash"] = state.ApprovalHash.Hash.Hex()
		}
		if state.PrimaryHash != nil {
			updates["primary_hash"] = state.PrimaryHash.Hash.Hex()
		}
		if state.Settlement.Status != "" {
			updates["settlement_status"] = string(state.Settlement.Status)
		}
		if err := m.db.Model(&models.FlowRecord{}).Where("id = ?", session.ID).Updates(updates).Error; err != nil {
			log.Printf("⚠️ Failed to persist transition for flow %s: %v", session.ID, err)
		}
	}

	event := events.FlowEvent{
		FlowID:      session.ID,
		Kind:        kind,
		UserAddress: session.UserAddress.Hex(),
		Phase:       string(phase),
		Error:       state.Error,
		Timestamp:   time.Now().UTC(),
	}
	if state.PrimaryHash != nil {
		event.PrimaryHash = state.PrimaryHash.Hash.Hex()
	}
	m.publisher.PublishFlowTransition(event)

	if m.push != nil {
		m.push.PushFlowUpdate(session.UserAddress.Hex(), m.snapshot(session))
	}
}

// onSettlementResolved records the terminal settlement outcome of a
// cross-chain leg.
func (m *FlowManager) onSettlementResolved(session *FlowSession, hash string, status tracker.Status, attempts int) {
	metrics.SettlementResolved.WithLabelValues(string(status)).Inc()
	log.Printf("🌉 Settlement for flow %s resolved: %s after %d attempts", session.ID, status, attempts)

	if m.db != nil {
		now := time.Now().UTC()
		record := models.SettlementRecord{
			SourceTxHash: hash,
			Status:       string(status),
			Attempts:     attempts,
			ResolvedAt:   &now,
		}
		err := m.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source_tx_hash"}},
			UpdateAll: true,
		}).Create(&record).Error
		if err != nil {
			log.Printf("⚠️ Failed to persist settlement for %s: %v", hash, err)
		}
	}

	m.publisher.PublishSettlementResolved(events.SettlementEvent{
		SourceTxHash: hash,
		Status:       string(status),
		Attempts:     attempts,
		Timestamp:    time.Now().UTC(),
	})

	if m.push != nil {
		m.push.PushSettlementUpdate(session.UserAddress.Hex(), map[string]interface{}{
			"flow_id":        session.ID,
			"source_tx_hash": hash,
			"status":         status,
			"attempts":       attempts,
		})
	}
}
