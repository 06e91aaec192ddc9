package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ============================================
	// Transaction flow metrics
	// ============================================
	FlowsStarted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_flows_started_total",
			Help: "Total number of transaction flow submissions started",
		},
		[]string{"kind"},
	)

	FlowsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_flows_completed_total",
			Help: "Total number of transaction flows reaching success",
		},
		[]string{"kind"},
	)

	FlowsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_flows_failed_total",
			Help: "Total number of transaction flows reaching failed",
		},
		[]string{"kind"},
	)

	FlowConfirmationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gateway_flow_confirmation_duration_seconds",
			Help:    "Time from submission to primary confirmation",
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
		[]string{"kind"},
	)

	// ============================================
	// Settlement tracker metrics
	// ============================================
	SettlementPolls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_settlement_polls_total",
		Help: "Total number of cross-chain settlement status polls",
	})

	SettlementResolved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_settlement_resolved_total",
			Help: "Settlements resolved by terminal status",
		},
		[]string{"status"},
	)

	// ============================================
	// WebSocket push metrics
	// ============================================
	WSConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_ws_connections_active",
		Help: "Number of active WebSocket subscribers",
	})

	WSMessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gateway_ws_messages_sent_total",
		Help: "Total number of flow updates pushed over WebSocket",
	})

	// ============================================
	// NATS metrics
	// ============================================
	NATSConnectionStatus = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_nats_connection_status",
		Help: "NATS connection status (1=connected, 0=disconnected)",
	})

	NATSEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_nats_events_published_total",
			Help: "Total number of flow events published to NATS",
		},
		[]string{"subject"},
	)
)
