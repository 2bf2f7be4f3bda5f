package gamehandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

// maxImportSize caps the uploaded roster workbook.
const maxImportSize = 4 << 20

// Handlers handles the game HTTP endpoints.
type Handlers interface {
	HandleListGames(w http.ResponseWriter, r *http.Request)
	HandleSetWinner(w http.ResponseWriter, r *http.Request)
	HandleSetMatchup(w http.ResponseWriter, r *http.Request)
	HandleSetKickoff(w http.ResponseWriter, r *http.Request)
	HandleImport(w http.ResponseWriter, r *http.Request)
}

// GameHandlers implements Handlers.
type GameHandlers struct {
	service  gameservice.Service
	timezone string
	logger   *slog.Logger
	tracer   trace.Tracer
}

// NewGameHandlers creates the handlers. timezone is used for kickoff input that
// names none.
func NewGameHandlers(service gameservice.Service, timezone string, logger *slog.Logger, tracer trace.Tracer) Handlers {
	return &GameHandlers{
		service:  service,
		timezone: timezone,
		logger:   logger,
		tracer:   tracer,
	}
}

// GameResponse is the wire form of a game.
type GameResponse struct {
	ID            string    `json:"id"`
	ExternalID    string    `json:"external_id,omitempty"`
	Round         string    `json:"round"`
	RoundName     string    `json:"round_name"`
	AwayTeam      string    `json:"away_team"`
	HomeTeam      string    `json:"home_team"`
	AwaySeed      int       `json:"away_seed,omitempty"`
	HomeSeed      int       `json:"home_seed,omitempty"`
	Kickoff       time.Time `json:"kickoff"`
	Status        string    `json:"status"`
	Winner        string    `json:"winner,omitempty"`
	WinnerSource  string    `json:"winner_source,omitempty"`
	AlwaysVisible bool      `json:"always_visible"`
	AwayScore     int       `json:"away_score"`
	HomeScore     int       `json:"home_score"`
}

// ToGameResponse converts a domain game.
func ToGameResponse(g scoringdomain.Game) GameResponse {
	name := string(g.Round)
	if rd, ok := scoringdomain.LookupRound(g.Round); ok {
		name = rd.Name
	}
	return GameResponse{
		ID:            g.ID,
		ExternalID:    g.ExternalID,
		Round:         string(g.Round),
		RoundName:     name,
		AwayTeam:      g.AwayTeam,
		HomeTeam:      g.HomeTeam,
		AwaySeed:      g.AwaySeed,
		HomeSeed:      g.HomeSeed,
		Kickoff:       g.Kickoff.UTC(),
		Status:        string(g.Status),
		Winner:        g.Winner,
		WinnerSource:  string(g.WinnerSource),
		AlwaysVisible: g.AlwaysVisible,
		AwayScore:     g.AwayScore,
		HomeScore:     g.HomeScore,
	}
}

type winnerRequest struct {
	Team string `json:"team"`
}

type matchupRequest struct {
	Away string `json:"away"`
	Home string `json:"home"`
}

type kickoffRequest struct {
	Kickoff  string `json:"kickoff"`
	Timezone string `json:"timezone"`
}

// HandleListGames handles GET /api/games.
func (h *GameHandlers) HandleListGames(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GameHandlers.HandleListGames")
	defer span.End()

	games, err := h.service.ListGames(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	out := make([]GameResponse, len(games))
	for i, g := range games {
		out[i] = ToGameResponse(g)
	}
	httpapi.WriteJSON(w, http.StatusOK, out)
}

// HandleSetWinner handles POST /api/admin/games/{id}/winner.
func (h *GameHandlers) HandleSetWinner(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GameHandlers.HandleSetWinner")
	defer span.End()

	var req winnerRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := h.service.SetWinner(ctx, chi.URLParam(r, "id"), req.Team)
	h.writeGame(w, r, g, err)
}

// HandleSetMatchup handles POST /api/admin/games/{id}/matchup.
func (h *GameHandlers) HandleSetMatchup(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GameHandlers.HandleSetMatchup")
	defer span.End()

	var req matchupRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := h.service.SetMatchup(ctx, chi.URLParam(r, "id"), req.Away, req.Home)
	h.writeGame(w, r, g, err)
}

// HandleSetKickoff handles POST /api/admin/games/{id}/kickoff.
func (h *GameHandlers) HandleSetKickoff(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GameHandlers.HandleSetKickoff")
	defer span.End()

	var req kickoffRequest
	if err := httpapi.DecodeJSON(r, &req); err != nil || req.Kickoff == "" {
		httpapi.WriteError(w, http.StatusBadRequest, "kickoff is required")
		return
	}
	tz := req.Timezone
	if tz == "" {
		tz = h.timezone
	}
	g, err := h.service.SetKickoff(ctx, chi.URLParam(r, "id"), req.Kickoff, tz)
	h.writeGame(w, r, g, err)
}

// ImportResponse lists what an import changed.
type ImportResponse struct {
	Inserted []string `json:"inserted"`
	Updated  []string `json:"updated"`
	Skipped  []string `json:"skipped"`
}

// HandleImport handles POST /api/admin/games/import with a multipart "file" field.
func (h *GameHandlers) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "GameHandlers.HandleImport")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		httpapi.WriteError(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	res, err := h.service.ImportRoster(ctx, file)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, ImportResponse{
		Inserted: nonNil(res.Inserted),
		Updated:  nonNil(res.Updated),
		Skipped:  nonNil(res.Skipped),
	})
}

func (h *GameHandlers) writeGame(w http.ResponseWriter, r *http.Request, g *scoringdomain.Game, err error) {
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, ToGameResponse(*g))
}

// StatusFor maps a game service error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, gameservice.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, scoringdomain.ErrMatchupAlreadyDecided):
		return http.StatusConflict
	case gameservice.IsValidationError(err):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *GameHandlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Game request failed", attr.Error(err))
		httpapi.WriteError(w, status, "internal error")
		return
	}
	httpapi.WriteError(w, status, err.Error())
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
