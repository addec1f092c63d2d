package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Role decides what a peer receives: viewers get frames and pairing
// messages, controllers get command tokens.
type Role string

const (
	RoleViewer     Role = "viewer"
	RoleController Role = "controller"
)

const (
	TextMessage   = websocket.TextMessage
	BinaryMessage = websocket.BinaryMessage
)

const relayChannel = "gateway_commands"

// Peer is a live connection as seen by the hub.
type Peer interface {
	ID() string
	IsOpen() bool
	// Send queues a message without blocking; false means it was not queued.
	Send(kind int, payload []byte) bool
}

type relayMessage struct {
	Origin  string `json:"origin"`
	Kind    int    `json:"kind"`
	Payload []byte `json:"payload"`
}

// Hub tracks peers per role. Membership only grows through Register and
// only shrinks when a broadcast finds a peer closed, so a dead peer lingers
// until the next broadcast to its role.
type Hub struct {
	mu    sync.Mutex
	peers map[Role][]Peer

	latestFrame atomic.Pointer[[]byte]

	// Redis connection for cross-instance command relay, may be nil
	rdb        *redis.Client
	instanceID string

	metrics *metrics.Metrics
	logger  logger.ILogger
}

func NewHub(rdb *redis.Client, m *metrics.Metrics, log logger.ILogger) *Hub {
	return &Hub{
		peers:      make(map[Role][]Peer),
		rdb:        rdb,
		instanceID: uuid.NewString(),
		metrics:    m,
		logger:     log,
	}
}

// Register adds the peer to the role set. Registering twice is a no-op.
func (h *Hub) Register(p Peer, role Role) {
	h.mu.Lock()
	for _, existing := range h.peers[role] {
		if existing == p {
			h.mu.Unlock()
			return
		}
	}
	h.peers[role] = append(h.peers[role], p)
	count := len(h.peers[role])
	h.mu.Unlock()

	h.logger.Info("Hub", "Peer registered", map[string]interface{}{"peer_id": p.ID(), "role": role, "count": count})
}

// Broadcast prunes closed peers of the role and queues payload to the survivors.
// It returns how many peers accepted the message.
func (h *Hub) Broadcast(role Role, kind int, payload []byte) int {
	sent := h.broadcastLocal(role, kind, payload)

	if role == RoleController {
		h.relay(kind, payload)
	}

	return sent
}

func (h *Hub) broadcastLocal(role Role, kind int, payload []byte) int {
	h.mu.Lock()
	current := h.peers[role]
	open := make([]Peer, 0, len(current))
	for _, p := range current {
		if p.IsOpen() {
			open = append(open, p)
		}
	}
	h.peers[role] = open
	h.mu.Unlock()

	if pruned := len(current) - len(open); pruned > 0 {
		h.metrics.PeersPruned.WithLabelValues(string(role)).Add(float64(pruned))
		h.logger.Info("Hub", "Pruned closed peers", map[string]interface{}{"role": role, "pruned": pruned, "remaining": len(open)})
	}

	sent := 0
	for _, p := range open {
		if h.deliver(p, role, kind, payload) {
			sent++
		}
	}
	return sent
}

// Send delivers to a single peer, fire-and-forget.
func (h *Hub) Send(p Peer, kind int, payload []byte) bool {
	return h.deliver(p, "direct", kind, payload)
}

func (h *Hub) deliver(p Peer, role Role, kind int, payload []byte) bool {
	if p.Send(kind, payload) {
		h.metrics.MessagesSent.WithLabelValues(string(role)).Inc()
		return true
	}
	h.metrics.MessagesDropped.WithLabelValues(string(role)).Inc()
	h.logger.Warn("Hub", "Peer queue full or closed, dropping message", map[string]interface{}{"peer_id": p.ID(), "role": role})
	return false
}

// PublishFrame stores the frame as the latest image and fans it out to viewers.
// The slice must not be modified afterwards.
func (h *Hub) PublishFrame(frame []byte) {
	h.latestFrame.Store(&frame)
	h.Broadcast(RoleViewer, BinaryMessage, frame)
}

// LatestFrame returns the last camera frame or nil if none arrived yet.
func (h *Hub) LatestFrame() []byte {
	if f := h.latestFrame.Load(); f != nil {
		return *f
	}
	return nil
}

// Count reports tracked peers of a role, including closed ones not yet pruned.
func (h *Hub) Count(role Role) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers[role])
}

func (h *Hub) relay(kind int, payload []byte) {
	if h.rdb == nil {
		return
	}

	data, err := json.Marshal(relayMessage{Origin: h.instanceID, Kind: kind, Payload: payload})
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), relayChannel, data).Err(); err != nil {
		h.logger.Warn("Hub", "Redis relay publish failed", map[string]interface{}{"error": err.Error()})
	}
}

// Run delivers controller commands published by other gateway instances to
// local controllers. It returns immediately when Redis is not configured.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb == nil {
		return
	}

	pubsub := h.rdb.Subscribe(ctx, relayChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleRelay([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleRelay(data []byte) {
	var rm relayMessage
	if err := json.Unmarshal(data, &rm); err != nil {
		h.logger.Warn("Hub", "Redis relay message parse error", map[string]interface{}{"error": err.Error()})
		return
	}
	if rm.Origin == h.instanceID {
		return
	}
	h.broadcastLocal(RoleController, rm.Kind, rm.Payload)
}
