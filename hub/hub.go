// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/danielhkuo/classpoll/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024
	sendBufferSize = 64
)

// Sink receives decoded inbound events. The dispatcher implements it.
type Sink interface {
	Submit(ctx context.Context, sessionID string, in models.Inbound) error
	Disconnect(ctx context.Context, sessionID string) error
}

// Hub owns every open WebSocket connection. Each connection gets its own
// writer goroutine; Send and Broadcast never block the caller.
type Hub struct {
	ctx     context.Context
	sink    Sink
	mu      sync.Mutex
	clients map[string]*client
}

type client struct {
	id     string
	conn   *websocket.Conn
	send   chan []byte
	closed bool
}

// New creates a hub. ctx bounds the lifetime of every connection.
func New(ctx context.Context) *Hub {
	return &Hub{
		ctx:     ctx,
		clients: make(map[string]*client),
	}
}

// SetSink sets the receiver for inbound events. Must be called before Serve.
func (h *Hub) SetSink(sink Sink) {
	h.sink = sink
}

// Serve runs a connection until it closes. It blocks the caller.
func (h *Hub) Serve(conn *websocket.Conn) {
	c := &client{
		id:   uuid.NewString(),
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}

	h.mu.Lock()
	h.clients[c.id] = c
	h.mu.Unlock()

	slog.Info("connection opened", "session", c.id, "remote", conn.RemoteAddr().String())
	h.Send(c.id, models.Outbound{Event: models.EventWelcome, Data: models.WelcomePayload{SocketID: c.id}})

	go h.writePump(c)
	h.readPump(c)

	h.drop(c)
	if err := h.sink.Disconnect(h.ctx, c.id); err != nil {
		slog.Debug("disconnect not delivered", "session", c.id, "error", err)
	}
	slog.Info("connection closed", "session", c.id)
}

// Send delivers ev to one session. Unknown sessions are ignored.
func (h *Hub) Send(sessionID string, ev models.Outbound) {
	frame, ok := encode(ev)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if c, exists := h.clients[sessionID]; exists {
		h.enqueueLocked(c, frame)
	}
}

// Broadcast delivers ev to every open connection, joined or not
func (h *Hub) Broadcast(ev models.Outbound) {
	frame, ok := encode(ev)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, c := range h.clients {
		h.enqueueLocked(c, frame)
	}
}

// Count returns the number of open connections
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// CloseAll closes every connection, e.g. on shutdown
func (h *Hub) CloseAll() {
	h.mu.Lock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		h.drop(c)
	}
}

func encode(ev models.Outbound) ([]byte, bool) {
	frame, err := json.Marshal(ev)
	if err != nil {
		slog.Error("failed to encode event", "event", ev.Event, "error", err)
		return nil, false
	}
	return frame, true
}

// enqueueLocked must be called with h.mu held. A client whose buffer is
// full is disconnected rather than allowed to stall everyone else.
func (h *Hub) enqueueLocked(c *client, frame []byte) {
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
		slog.Warn("send buffer full, dropping connection", "session", c.id)
		h.closeLocked(c)
	}
}

func (h *Hub) drop(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closeLocked(c)
}

func (h *Hub) closeLocked(c *client) {
	if c.closed {
		return
	}
	c.closed = true
	delete(h.clients, c.id)
	close(c.send)
}

func (h *Hub) readPump(c *client) {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("connection read failed", "session", c.id, "error", err)
			}
			return
		}

		in, err := models.DecodeInbound(frame)
		if err != nil {
			slog.Debug("event dropped", "session", c.id, "reason", err.Error())
			continue
		}
		if err := h.sink.Submit(h.ctx, c.id, in); err != nil {
			slog.Debug("event not delivered", "session", c.id, "error", err)
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				slog.Debug("connection write failed", "session", c.id, "error", err)
				h.drop(c)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				h.drop(c)
				return
			}
		}
	}
}
