package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"home-gateway-be/internal/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Camera frames are whole JPEGs.
	maxMessageSize = 8 << 20
)

type outbound struct {
	kind    int
	payload []byte
}

// Client is a middleman between the websocket connection and the hub.
// Only the write pump touches the connection for writing.
//
// Text and binary messages are queued apart. Camera frames only ever evict
// older frames, so a slow viewer loses video, never a code, key or command.
type Client struct {
	id   string
	conn *websocket.Conn

	// Buffered channel of outbound text messages, written first.
	send chan outbound
	// Buffered channel of camera frames, oldest evicted when full.
	frames  chan []byte
	evicted atomic.Uint64

	open      atomic.Bool
	done      chan struct{}
	pumpDone  chan struct{}
	closeOnce sync.Once

	logger logger.ILogger
}

var _ Peer = (*Client)(nil)

func NewClient(conn *websocket.Conn, buffer int, log logger.ILogger) *Client {
	if buffer <= 0 {
		buffer = 1
	}
	c := &Client{
		id:       uuid.NewString(),
		conn:     conn,
		send:     make(chan outbound, buffer),
		frames:   make(chan []byte, buffer),
		done:     make(chan struct{}),
		pumpDone: make(chan struct{}),
		logger:   log,
	}
	c.open.Store(true)
	return c
}

func (c *Client) ID() string { return c.id }

func (c *Client) IsOpen() bool { return c.open.Load() }

// Send queues without blocking. Binary frames are always accepted while the
// client is open; text is refused only when its own queue is full.
func (c *Client) Send(kind int, payload []byte) bool {
	if !c.IsOpen() {
		return false
	}
	if kind == websocket.BinaryMessage {
		return c.pushFrame(payload)
	}
	select {
	case c.send <- outbound{kind: kind, payload: payload}:
		return true
	case <-c.done:
		return false
	default:
		return false
	}
}

func (c *Client) pushFrame(frame []byte) bool {
	for {
		select {
		case c.frames <- frame:
			return true
		case <-c.done:
			return false
		default:
		}

		select {
		case <-c.frames:
			c.evicted.Add(1)
		default:
		}
	}
}

// EvictedFrames counts frames replaced by newer ones before they were written.
func (c *Client) EvictedFrames() uint64 {
	return c.evicted.Load()
}

// Close marks the client closed; the hub drops it on its next broadcast.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		c.open.Store(false)
		close(c.done)
	})
}

// Serve runs the write pump and reads until the peer goes away. handle is
// called for every inbound message on the caller's goroutine. The connection
// is only valid while the fiber handler runs, so Serve waits for the pump.
func (c *Client) Serve(handle func(kind int, data []byte)) {
	go c.writePump()

	defer func() {
		c.Close()
		<-c.pumpDone
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("Client", "Unexpected close", map[string]interface{}{"peer_id": c.id, "error": err.Error()})
			}
			return
		}
		handle(kind, data)
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
		close(c.pumpDone)
	}()

	// A failed write also closes the connection so the blocked reader wakes up.
	for {
		select {
		case msg := <-c.send:
			if !c.write(msg.kind, msg.payload) {
				return
			}
			continue
		default:
		}

		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case msg := <-c.send:
			if !c.write(msg.kind, msg.payload) {
				return
			}

		case frame := <-c.frames:
			if !c.write(websocket.BinaryMessage, frame) {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		}
	}
}

func (c *Client) write(kind int, payload []byte) bool {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteMessage(kind, payload); err != nil {
		c.logger.Warn("Client", "Write failed", map[string]interface{}{"peer_id": c.id, "error": err.Error()})
		c.conn.Close()
		return false
	}
	return true
}

// CloseWithReason sends a close frame before any pump is started.
func CloseWithReason(conn *websocket.Conn, code int, reason string) {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
	conn.Close()
}
