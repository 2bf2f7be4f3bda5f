package leaderboardhandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	leaderboardservice "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/httpapi"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LeaderboardHTTPHandlers implements HTTPHandlers.
type LeaderboardHTTPHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewHTTPHandlers creates the standings endpoints.
func NewHTTPHandlers(service leaderboardservice.Service, logger *slog.Logger, tracer trace.Tracer) *LeaderboardHTTPHandlers {
	return &LeaderboardHTTPHandlers{service: service, logger: logger, tracer: tracer}
}

// Mount registers the standings routes. They are public: totals only count decided games.
func Mount(r chi.Router, h HTTPHandlers) {
	r.Route("/api/standings", func(r chi.Router) {
		r.Get("/", h.HandleGetStandings)
		r.Get("/chart.png", h.HandleGetChart)
		r.Get("/export.xlsx", h.HandleExport)
	})
}

// StandingResponse is one ranked row.
type StandingResponse struct {
	Rank         int            `json:"rank"`
	Player       string         `json:"player"`
	Total        int            `json:"total"`
	CorrectPicks int            `json:"correct_picks"`
	Breakdown    map[string]int `json:"breakdown"`
}

// StandingsResponse is the body of GET /api/standings.
type StandingsResponse struct {
	Standings []StandingResponse `json:"standings"`
}

// ToStandingsResponse converts the table.
func ToStandingsResponse(standings []scoringdomain.Standing) StandingsResponse {
	out := make([]StandingResponse, len(standings))
	for i, s := range standings {
		breakdown := make(map[string]int, len(s.Breakdown))
		for k, v := range s.Breakdown {
			breakdown[string(k)] = v
		}
		out[i] = StandingResponse{
			Rank:         s.Rank,
			Player:       s.Player.String(),
			Total:        s.Total,
			CorrectPicks: s.CorrectPicks,
			Breakdown:    breakdown,
		}
	}
	return StandingsResponse{Standings: out}
}

// HandleGetStandings handles GET /api/standings.
func (h *LeaderboardHTTPHandlers) HandleGetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetStandings")
	defer span.End()

	standings, err := h.service.Standings(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, ToStandingsResponse(standings))
}

// HandleGetChart handles GET /api/standings/chart.png.
func (h *LeaderboardHTTPHandlers) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleGetChart")
	defer span.End()

	png, err := h.service.Chart(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeBlob(w, "image/png", "", png)
}

// HandleExport handles GET /api/standings/export.xlsx.
func (h *LeaderboardHTTPHandlers) HandleExport(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "LeaderboardHandlers.HandleExport")
	defer span.End()

	book, err := h.service.Export(ctx)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeBlob(w, xlsxContentType, "standings.xlsx", book)
}

func writeBlob(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.Header().Set("Cache-Control", "no-store")
	if filename != "" {
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// Every service failure here is infrastructure.
func (h *LeaderboardHTTPHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "Standings request failed", attr.Error(err))
	httpapi.WriteError(w, http.StatusInternalServerError, "internal error")
}
