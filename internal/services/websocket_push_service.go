package services

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/0xnicholasy/zeta-hackathon-sub001/internal/metrics"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Origin filtering is handled by the CORS layer in front.
		return true
	},
}

// PushMessage is the envelope for every message pushed to subscribers.
type PushMessage struct {
	Type        string      `json:"type"`
	Timestamp   string      `json:"timestamp"`
	MessageID   string      `json:"message_id"`
	UserAddress string      `json:"user_address"`
	Data        interface{} `json:"data"`
}

// Connection holds one WebSocket subscriber.
type Connection struct {
	ID          string
	UserAddress string
	Conn        *websocket.Conn
	Send        chan []byte
}

// WebSocketPushService fans flow-state transitions out to connected
// dashboard sessions, filtered by user address.
type WebSocketPushService struct {
	mu          sync.RWMutex
	connections map[string]*Connection
}

// NewWebSocketPushService creates an empty hub.
func NewWebSocketPushService() *WebSocketPushService {
	return &WebSocketPushService{
		connections: make(map[string]*Connection),
	}
}

// HandleConnection upgrades the request and registers the subscriber. The
// address query parameter scopes which flow updates the client receives;
// empty subscribes to everything.
func (s *WebSocketPushService) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade failed: %v", err)
		return
	}

	c := &Connection{
		ID:          uuid.New().String(),
		UserAddress: strings.ToLower(r.URL.Query().Get("address")),
		Conn:        conn,
		Send:        make(chan []byte, 64),
	}

	s.mu.Lock()
	s.connections[c.ID] = c
	s.mu.Unlock()
	metrics.WSConnectionsActive.Set(float64(s.count()))
	log.Printf("🔌 WebSocket client %s connected (address=%s)", c.ID, c.UserAddress)

	go s.writePump(c)
	go s.readPump(c)
}

// PushFlowUpdate sends a flow update to every subscriber watching the given
// address.
func (s *WebSocketPushService) PushFlowUpdate(userAddress string, data interface{}) {
	s.push("flow_update", userAddress, data)
}

// PushSettlementUpdate sends a settlement resolution.
func (s *WebSocketPushService) PushSettlementUpdate(userAddress string, data interface{}) {
	s.push("settlement_update", userAddress, data)
}

func (s *WebSocketPushService) push(msgType, userAddress string, data interface{}) {
	msg := PushMessage{
		Type:        msgType,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		MessageID:   uuid.New().String(),
		UserAddress: userAddress,
		Data:        data,
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		log.Printf("⚠️ Failed to marshal push message: %v", err)
		return
	}

	target := strings.ToLower(userAddress)

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.connections {
		if c.UserAddress != "" && c.UserAddress != target {
			continue
		}
		select {
		case c.Send <- payload:
			metrics.WSMessagesSent.Inc()
		default:
			// Slow consumer; drop rather than block the flow.
		}
	}
}

func (s *WebSocketPushService) writePump(c *Connection) {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (s *WebSocketPushService) readPump(c *Connection) {
	defer s.removeConnection(c)
	c.Conn.SetReadLimit(4096)
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *WebSocketPushService) removeConnection(c *Connection) {
	s.mu.Lock()
	if _, ok := s.connections[c.ID]; ok {
		delete(s.connections, c.ID)
		close(c.Send)
	}
	s.mu.Unlock()
	metrics.WSConnectionsActive.Set(float64(s.count()))
	log.Printf("🔌 WebSocket client %s disconnected", c.ID)
}

func (s *WebSocketPushService) count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.connections)
}
