// Package live pushes roster and standings changes to browsers over websockets.
//
// Only public events are forwarded. Pick events are never subscribed, so an open
// pick cannot leak through this channel.
package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
)

// Envelope is what clients receive. Type is the bus topic the payload came from.
type Envelope struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp time.Time       `json:"timestamp"`
}

// Hub tracks connected clients and fans envelopes out to them.
type Hub struct {
	clients   map[*Client]struct{}
	clientsMu sync.RWMutex

	broadcast  chan Envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	logger *slog.Logger
}

// NewHub creates a hub. Call Run before registering clients.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Envelope, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run serves the hub until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			return
		case c := <-h.register:
			h.clientsMu.Lock()
			h.clients[c] = struct{}{}
			total := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Debug("Live client connected", attr.String("client_id", c.ID), attr.Int("total", total))
		case c := <-h.unregister:
			h.remove(c)
		case env := <-h.broadcast:
			h.fanOut(env)
		}
	}
}

// Register adds c. It reports false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes c. It is a no-op once the hub has stopped.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

// Broadcast queues env without blocking. A full queue drops the envelope.
func (h *Hub) Broadcast(env Envelope) bool {
	select {
	case h.broadcast <- env:
		return true
	default:
		h.logger.Warn("Live broadcast queue full, dropping update", attr.String("type", env.Type))
		return false
	}
}

// ClientCount reports the connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) remove(c *Client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.Send)
		h.logger.Debug("Live client disconnected", attr.String("client_id", c.ID), attr.Int("total", len(h.clients)))
	}
}

// fanOut runs on the hub goroutine, so slow clients are removed inline.
func (h *Hub) fanOut(env Envelope) {
	h.clientsMu.RLock()
	var slow []*Client
	for c := range h.clients {
		if !c.TrySend(env) {
			slow = append(slow, c)
		}
	}
	h.clientsMu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Live client too slow, disconnecting", attr.String("client_id", c.ID))
		h.remove(c)
	}
}

func (h *Hub) shutdown() {
	close(h.done)
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for c := range h.clients {
		close(c.Send)
		delete(h.clients, c)
	}
}
