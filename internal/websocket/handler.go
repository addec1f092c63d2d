package websocket

import (
	"encoding/json"

	"home-gateway-be/internal/pkg/logger"
	"home-gateway-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	MessageStartLiveFeed    = "start-live-feed"
	MessageStartQRListening = "start-qr-listening"

	invalidDataReply = "invalid data"
)

// FrameDecoder applies binary device frames.
type FrameDecoder interface {
	Decode(frame []byte)
}

// PairingStarter opens a QR pairing session for a viewer and returns its code.
type PairingStarter interface {
	Start(viewer Peer) string
}

type controlMessage struct {
	Type string `json:"type"`
}

type Handler struct {
	hub        *Hub
	decoder    FrameDecoder
	pairing    PairingStarter
	sharedKey  string
	sendBuffer int
	logger     logger.ILogger
}

func NewHandler(hub *Hub, decoder FrameDecoder, pairing PairingStarter, sharedKey string, sendBuffer int, log logger.ILogger) *Handler {
	return &Handler{
		hub:        hub,
		decoder:    decoder,
		pairing:    pairing,
		sharedKey:  sharedKey,
		sendBuffer: sendBuffer,
		logger:     log,
	}
}

// RegisterRoutes mounts the device/viewer socket on / and the pairing socket on /qr.
// Plain HTTP requests fall through to the next handler (POST / is the assistant).
func (h *Handler) RegisterRoutes(router fiber.Router) {
	router.Get("/qr", upgradeOnly, websocket.New(h.ServePairing))
	router.Get("/", upgradeOnly, websocket.New(h.ServeGateway))
}

func upgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// ServeGateway handles devices (binary telemetry, ?type=beagle|controller)
// and viewers asking for the live feed.
func (h *Handler) ServeGateway(conn *websocket.Conn) {
	key := conn.Query("key")
	if !serverutils.KeyMatches(key, h.sharedKey) {
		h.logger.Warn("Handler", "Rejected socket with bad key", map[string]interface{}{"remote": conn.RemoteAddr().String()})
		CloseWithReason(conn, websocket.ClosePolicyViolation, "unauthorized")
		return
	}

	client := NewClient(conn, h.sendBuffer, h.logger)

	switch conn.Query("type") {
	case "beagle", "controller":
		h.hub.Register(client, RoleController)
	}

	h.logger.Info("Handler", "Gateway socket opened", map[string]interface{}{"peer_id": client.ID(), "type": conn.Query("type")})
	client.Serve(func(kind int, data []byte) {
		if kind == websocket.BinaryMessage {
			h.decoder.Decode(data)
			return
		}
		h.handleControl(client, data, MessageStartLiveFeed, func() {
			h.hub.Register(client, RoleViewer)
		})
	})
	h.logger.Info("Handler", "Gateway socket closed", map[string]interface{}{"peer_id": client.ID()})
}

// ServePairing handles viewers that want to pair by showing a QR code to the camera.
// No key is required here: obtaining it is the point of pairing.
func (h *Handler) ServePairing(conn *websocket.Conn) {
	client := NewClient(conn, h.sendBuffer, h.logger)

	client.Serve(func(kind int, data []byte) {
		h.handleControl(client, data, MessageStartQRListening, func() {
			code := h.pairing.Start(client)
			h.logger.Info("Handler", "Pairing session started", map[string]interface{}{"peer_id": client.ID(), "code": code})
		})
	})
}

// handleControl runs action for the one message type the socket accepts.
// Text that is not JSON is ignored; any other JSON gets "invalid data".
func (h *Handler) handleControl(client *Client, data []byte, accepted string, action func()) {
	if !json.Valid(data) {
		return
	}

	var msg controlMessage
	_ = json.Unmarshal(data, &msg)

	if msg.Type == accepted {
		action()
		return
	}
	h.hub.Send(client, TextMessage, []byte(invalidDataReply))
}
