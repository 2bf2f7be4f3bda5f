package live

import (
	"log/slog"
	"time"

	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 32
)

// Client is one websocket connection. The server only pushes; inbound frames
// other than control frames are discarded.
type Client struct {
	ID   string
	Send chan Envelope

	conn   *websocket.Conn
	hub    *Hub
	logger *slog.Logger
}

// NewClient creates a client bound to hub.
func NewClient(id string, conn *websocket.Conn, hub *Hub, logger *slog.Logger) *Client {
	return &Client{
		ID:     id,
		Send:   make(chan Envelope, sendBufferSize),
		conn:   conn,
		hub:    hub,
		logger: logger,
	}
}

// TrySend queues env and reports false when the buffer is full.
func (c *Client) TrySend(env Envelope) bool {
	select {
	case c.Send <- env:
		return true
	default:
		return false
	}
}

// ReadPump keeps the read deadline fresh and unregisters on disconnect.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("Live client closed unexpectedly", attr.String("client_id", c.ID), attr.Error(err))
			}
			return
		}
	}
}

// WritePump drains Send and pings the peer. It returns when the hub closes Send.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case env, ok := <-c.Send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(env); err != nil {
				c.logger.Debug("Live client write failed", attr.String("client_id", c.ID), attr.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
