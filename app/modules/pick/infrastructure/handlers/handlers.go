package pickhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	authdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/domain"
	pickservice "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// Handlers handles the pick HTTP endpoints.
type Handlers interface {
	HandleGetGrid(w http.ResponseWriter, r *http.Request)
	HandleSubmitPick(w http.ResponseWriter, r *http.Request)
}

// PickHandlers implements Handlers.
type PickHandlers struct {
	service pickservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewPickHandlers creates the pick handlers.
func NewPickHandlers(service pickservice.Service, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &PickHandlers{service: service, logger: logger, tracer: tracer}
}

// Mount registers the pick routes.
func Mount(r chi.Router, h Handlers) {
	r.Get("/api/picks", h.HandleGetGrid)
	r.Put("/api/picks/{gameID}", h.HandleSubmitPick)
}

// GameColumn is a grid column header.
type GameColumn struct {
	ID       string    `json:"id"`
	Round    string    `json:"round"`
	AwayTeam string    `json:"away_team"`
	HomeTeam string    `json:"home_team"`
	Kickoff  time.Time `json:"kickoff"`
	Winner   string    `json:"winner,omitempty"`
}

// CellResponse is one redacted pick. Team is empty when the pick is hidden.
type CellResponse struct {
	GameID   string `json:"game_id"`
	Team     string `json:"team,omitempty"`
	HasPick  bool   `json:"has_pick"`
	Visible  bool   `json:"visible"`
	Editable bool   `json:"editable"`
	Correct  *bool  `json:"correct,omitempty"`
}

// RowResponse is one player's row.
type RowResponse struct {
	Player string         `json:"player"`
	Cells  []CellResponse `json:"cells"`
}

// GridResponse is the body of GET /api/picks.
type GridResponse struct {
	Games []GameColumn  `json:"games"`
	Rows  []RowResponse `json:"rows"`
}

// SubmitRequest is the body of PUT /api/picks/{gameID}. Player defaults to the
// signed-in player; admins must name one.
type SubmitRequest struct {
	Player string `json:"player"`
	Team   string `json:"team"`
}

// SubmitResponse echoes the stored pick to its submitter.
type SubmitResponse struct {
	Player      string    `json:"player"`
	GameID      string    `json:"game_id"`
	Team        string    `json:"team"`
	ByAdmin     bool      `json:"by_admin"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// ToGridResponse converts the service grid.
func ToGridResponse(g *pickservice.Grid) GridResponse {
	resp := GridResponse{
		Games: make([]GameColumn, len(g.Games)),
		Rows:  make([]RowResponse, len(g.Rows)),
	}
	for i, game := range g.Games {
		resp.Games[i] = GameColumn{
			ID:       game.ID,
			Round:    string(game.Round),
			AwayTeam: game.AwayTeam,
			HomeTeam: game.HomeTeam,
			Kickoff:  game.Kickoff.UTC(),
			Winner:   game.Winner,
		}
	}
	for i, row := range g.Rows {
		cells := make([]CellResponse, len(row.Cells))
		for j, c := range row.Cells {
			cells[j] = CellResponse(c)
		}
		resp.Rows[i] = RowResponse{Player: string(row.Player), Cells: cells}
	}
	return resp
}

// HandleGetGrid handles GET /api/picks.
func (h *PickHandlers) HandleGetGrid(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PickHandlers.HandleGetGrid")
	defer span.End()

	grid, err := h.service.PickGrid(ctx, authdomain.ViewerFrom(ctx))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, ToGridResponse(grid))
}

// HandleSubmitPick handles PUT /api/picks/{gameID}.
func (h *PickHandlers) HandleSubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "PickHandlers.HandleSubmitPick")
	defer span.End()

	viewer := authdomain.ViewerFrom(ctx)
	if viewer.Player == "" && !viewer.IsAdmin {
		httpapi.WriteError(w, http.StatusUnauthorized, "login required")
		return
	}

	var req SubmitRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil || req.Team == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "team is required")
		return
	}
	owner := scoringdomain.Player(req.Player)
	if owner == "" {
		if viewer.Player == "" {
			httpapi.WriteError(w, http.StatusBadRequest, "player is required")
			return
		}
		owner = viewer.Player
	}

	sub, err := h.service.SubmitPick(ctx, viewer, owner, chi.URLParam(r, "gameID"), req.Team)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, SubmitResponse{
		Player:      string(sub.Player),
		GameID:      sub.GameID,
		Team:        sub.Team,
		ByAdmin:     sub.ByAdmin,
		SubmittedAt: sub.SubmittedAt,
	})
}

// StatusFor maps a pick service error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, pickservice.ErrUnknownPlayer), errors.Is(err, pickservice.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, pickservice.ErrNotPickOwner):
		return http.StatusForbidden
	case errors.Is(err, pickservice.ErrPickLocked):
		return http.StatusConflict
	case errors.Is(err, pickservice.ErrInvalidTeam):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *PickHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Pick request failed", attr.Error(err))
		httpapi.WriteError(w, status, "internal error")
		return
	}
	httpapi.WriteError(w, status, err.Error())
}
