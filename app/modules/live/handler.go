package live

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/Black-And-White-Club/pickem-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Handler upgrades requests on /api/live.
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates the upgrade handler. With no allowed origins any origin is accepted.
func NewHandler(hub *Hub, allowedOrigins []string, logger *slog.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if len(allowedOrigins) == 0 {
					return true
				}
				return slices.Contains(allowedOrigins, r.Header.Get("Origin"))
			},
		},
		logger: logger,
	}
}

// ServeHTTP upgrades the connection and starts the client pumps.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.DebugContext(r.Context(), "Websocket upgrade failed", attr.Error(err))
		return
	}

	c := NewClient(uuid.NewString(), conn, h.hub, h.logger)
	if !h.hub.Register(c) {
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"))
		conn.Close()
		return
	}

	go c.WritePump()
	go c.ReadPump()
}

// HandleStatus reports the connected client count.
func (h *Handler) HandleStatus(w http.ResponseWriter, _ *http.Request) {
	httpapi.WriteJSON(w, http.StatusOK, map[string]int{"clients": h.hub.ClientCount()})
}
