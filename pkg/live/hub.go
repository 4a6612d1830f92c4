package live

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// pongWait is the time allowed to read the next pong from the peer.
	pongWait = 60 * time.Second

	// pingPeriod must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBuffer is the per-client outbound queue; clients that fall
	// this far behind are dropped.
	sendBuffer = 16
)

// Fragment is one update pushed to clients.
type Fragment struct {
	// Topic names the demo panel the fragment belongs to.
	Topic string `json:"topic"`

	// HTML is the rendered fragment to swap in.
	HTML string `json:"html"`
}

// Hub fans state-change fragments out to connected WebSocket clients.
type Hub struct {
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
}

// client is one connected browser.
type client struct {
	conn *websocket.Conn
	send chan Fragment

	// mu guards closed and every send on the channel; close and send
	// must never race.
	mu     sync.Mutex
	closed bool
}

// enqueue queues frag for delivery. Reports false when the client's
// buffer is full. Enqueueing to a closed client is a silent no-op.
func (c *client) enqueue(frag Fragment) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return true
	}
	select {
	case c.send <- frag:
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once and tears down the
// connection.
func (c *client) shutdown() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
	c.mu.Unlock()

	c.conn.Close()
}

// NewHub creates a Hub. A nil logger falls back to slog.Default.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		logger: logger.With("component", "live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Demo server: same-origin checks are the embedding app's concern.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
}

// Handler upgrades the request and services the connection until the
// peer disconnects.
func (h *Hub) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		conn: conn,
		send: make(chan Fragment, sendBuffer),
	}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	count := len(h.clients)
	h.mu.Unlock()
	h.logger.Debug("client connected", "clients", count)

	go h.writePump(c)
	h.readPump(c)
}

// Broadcast queues a fragment for every connected client.
// Clients whose send buffer is full are disconnected.
func (h *Hub) Broadcast(topic, html string) {
	frag := Fragment{Topic: topic, HTML: html}

	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		if !c.enqueue(frag) {
			h.logger.Warn("dropping slow client")
			h.drop(c)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// drop removes a client and closes its queue and connection.
// Safe to call concurrently from readPump and Broadcast.
func (h *Hub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()

	c.shutdown()
}

// readPump consumes inbound frames until the peer disconnects.
// Clients send nothing meaningful; reading exists to surface closes and
// service pongs.
func (h *Hub) readPump(c *client) {
	defer h.drop(c)

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseNormalClosure) {
				h.logger.Debug("read error", "error", err)
			}
			return
		}
	}
}

// writePump writes queued fragments and keepalive pings to the peer.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frag, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(frag); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
