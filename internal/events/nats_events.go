package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/config"
	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/metrics"
)

// Subjects for flow lifecycle events.
const (
	SubjectFlowTransition     = "lending.flow.transition"
	SubjectSettlementResolved = "lending.flow.settlement"
)

// FlowEvent is the payload published on every flow state change.
type FlowEvent struct {
	FlowID      string    `json:"flow_id"`
	Kind        string    `json:"kind"`
	UserAddress string    `json:"user_address"`
	Phase       string    `json:"phase"`
	PrimaryHash string    `json:"primary_hash,omitempty"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// SettlementEvent is published when a cross-chain settlement resolves.
type SettlementEvent struct {
	SourceTxHash string    `json:"source_tx_hash"`
	Status       string    `json:"status"`
	Attempts     int       `json:"attempts"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher publishes flow events to NATS. A nil Publisher is valid and
// drops everything, so callers never branch on whether eventing is enabled.
type Publisher struct {
	conn *nats.Conn
}

// NewPublisher connects to NATS. Returns nil without error when no URL is
// configured.
func NewPublisher(cfg config.NATSConfig) (*Publisher, error) {
	if cfg.URL == "" {
		log.Println("⚠️ No NATS URL configured, flow events disabled")
		return nil, nil
	}

	conn, err := nats.Connect(cfg.URL,
		nats.Timeout(time.Duration(cfg.Timeout)*time.Second),
		nats.ReconnectWait(time.Duration(cfg.ReconnectWait)*time.Second),
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("⚠️ NATS disconnected: %v", err)
			metrics.NATSConnectionStatus.Set(0)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("✅ NATS reconnected")
			metrics.NATSConnectionStatus.Set(1)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	metrics.NATSConnectionStatus.Set(1)
	log.Printf("✅ Connected to NATS at %s", cfg.URL)
	return &Publisher{conn: conn}, nil
}

// PublishFlowTransition publishes a flow state change. Best effort;
// publish failures are logged, never propagated into the flow.
func (p *Publisher) PublishFlowTransition(event FlowEvent) {
	p.publish(SubjectFlowTransition, event)
}

// PublishSettlementResolved publishes a settlement resolution.
func (p *Publisher) PublishSettlementResolved(event SettlementEvent) {
	p.publish(SubjectSettlementResolved, event)
}

func (p *Publisher) publish(subject string, payload interface{}) {
	if p == nil || p.conn == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("⚠️ Failed to marshal %s event: %v", subject, err)
		return
	}
	if err := p.conn.Publish(subject, data); err != nil {
		log.Printf("⚠️ Failed to publish %s event: %v", subject, err)
		return
	}
	metrics.NATSEventsPublished.WithLabelValues(subject).Inc()
}

// Close drains the connection.
func (p *Publisher) Close() {
	if p != nil && p.conn != nil {
		p.conn.Close()
	}
}
