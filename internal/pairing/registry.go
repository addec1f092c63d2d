// Package pairing hands the shared key to a viewer that shows its one-time
// code to the house camera as a QR image.
package pairing

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"home-gateway-be/internal/dispatch"
	"home-gateway-be/internal/metrics"
	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/internal/websocket"
	"home-gateway-be/pkg/events"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ViewerHub is the part of the hub pairing needs.
type ViewerHub interface {
	Register(p websocket.Peer, role websocket.Role)
	Send(p websocket.Peer, kind int, payload []byte) bool
}

// CommandEmitter sends a device command to all controllers.
type CommandEmitter interface {
	Emit(ctx context.Context, cmd dispatch.Command, source string) int
}

type Session struct {
	Code      string
	Viewer    websocket.Peer
	StartedAt time.Time
}

type codeReply struct {
	Code string `json:"code"`
}

type keyReply struct {
	Key string `json:"key"`
}

// Registry holds pending sessions keyed by code. Sessions never expire; each
// is consumed at most once.
type Registry struct {
	mu       sync.Mutex
	sessions *cache.Cache

	hub       ViewerHub
	commands  CommandEmitter
	publisher events.Publisher
	sharedKey string

	metrics *metrics.Metrics
	logger  logger.ILogger
}

// NewRegistry builds an empty registry. publisher may be nil.
func NewRegistry(hub ViewerHub, commands CommandEmitter, publisher events.Publisher, sharedKey string, m *metrics.Metrics, log logger.ILogger) *Registry {
	return &Registry{
		sessions:  cache.New(cache.NoExpiration, 0),
		hub:       hub,
		commands:  commands,
		publisher: publisher,
		sharedKey: sharedKey,
		metrics:   m,
		logger:    log,
	}
}

// Start opens a session for viewer, subscribes it to the live feed so it can
// see itself in the camera, and replies with {"code": ...}.
func (r *Registry) Start(viewer websocket.Peer) string {
	code := uuid.NewString()

	r.mu.Lock()
	r.sessions.Set(code, &Session{Code: code, Viewer: viewer, StartedAt: time.Now()}, cache.NoExpiration)
	r.mu.Unlock()

	r.hub.Register(viewer, websocket.RoleViewer)

	payload, _ := json.Marshal(codeReply{Code: code})
	r.hub.Send(viewer, websocket.TextMessage, payload)

	return code
}

// Complete consumes the session matching decoded and pushes {"key": ...} to
// its viewer, then switches the lights on. It reports whether the key was
// queued for the viewer; unknown or replayed codes do nothing. A session whose
// key could not be queued to a still-open viewer is kept so the next scan of
// the same code can deliver it.
func (r *Registry) Complete(ctx context.Context, decoded string) bool {
	r.mu.Lock()
	item, found := r.sessions.Get(decoded)
	if found {
		r.sessions.Delete(decoded)
	}
	r.mu.Unlock()

	if !found {
		return false
	}

	session := item.(*Session)
	if !session.Viewer.IsOpen() {
		r.logger.Info("Pairing", "Viewer left before its code was scanned", map[string]interface{}{"peer_id": session.Viewer.ID()})
		return false
	}

	payload, _ := json.Marshal(keyReply{Key: r.sharedKey})
	if !r.hub.Send(session.Viewer, websocket.TextMessage, payload) {
		if session.Viewer.IsOpen() {
			r.mu.Lock()
			r.sessions.Set(session.Code, session, cache.NoExpiration)
			r.mu.Unlock()
		}
		r.logger.Warn("Pairing", "Key not delivered, session kept", map[string]interface{}{"peer_id": session.Viewer.ID()})
		return false
	}

	r.commands.Emit(ctx, dispatch.LightsOn, "pairing")

	r.metrics.PairingsCompleted.Inc()
	r.logger.Info("Pairing", "Pairing completed", map[string]interface{}{
		"peer_id": session.Viewer.ID(),
		"waited":  time.Since(session.StartedAt).String(),
	})

	if r.publisher != nil {
		evt := events.New(events.TypePairingCompleted, map[string]interface{}{"peer_id": session.Viewer.ID()})
		if err := r.publisher.Publish(ctx, evt); err != nil {
			r.logger.Warn("Pairing", "Failed to publish event", map[string]interface{}{"event": evt.Type, "error": err.Error()})
		}
	}

	return true
}

// Pending reports open sessions.
func (r *Registry) Pending() int {
	return r.sessions.ItemCount()
}
