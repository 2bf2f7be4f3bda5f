package pickhandlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/domain"
	pickservice "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func serve(svc pickservice.Service, viewer scoringdomain.Viewer, method, path, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	Mount(r, NewPickHandlers(svc, slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test")))

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req = req.WithContext(authdomain.WithViewer(req.Context(), viewer))
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestHandleGetGrid_PassesViewer(t *testing.T) {
	var got scoringdomain.Viewer
	correct := true
	svc := &FakeService{PickGridFunc: func(_ context.Context, v scoringdomain.Viewer) (*pickservice.Grid, error) {
		got = v
		return &pickservice.Grid{
			Games: []scoringdomain.Game{{ID: "div-1", Round: scoringdomain.RoundDivisional, AwayTeam: "Bills", HomeTeam: "Broncos", Kickoff: time.Date(2026, 1, 17, 21, 30, 0, 0, time.UTC), Winner: "Bills"}},
			Rows: []scoringdomain.PickRow{
				{Player: "Jerin", Cells: []scoringdomain.PickCell{{GameID: "div-1", Team: "Bills", HasPick: true, Visible: true, Correct: &correct}}},
				{Player: "Jeff", Cells: []scoringdomain.PickCell{{GameID: "div-1", HasPick: true}}},
			},
		}, nil
	}}

	rr := serve(svc, scoringdomain.Viewer{Player: "Jerin"}, http.MethodGet, "/api/picks", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, scoringdomain.Viewer{Player: "Jerin"}, got)
	var body GridResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	require.Len(t, body.Rows, 2)
	assert.Equal(t, "Bills", body.Rows[0].Cells[0].Team)
	require.NotNil(t, body.Rows[0].Cells[0].Correct)
	assert.True(t, *body.Rows[0].Cells[0].Correct)
	assert.Empty(t, body.Rows[1].Cells[0].Team)
	assert.NotContains(t, rr.Body.String(), `"correct":null`)
}

func TestHandleSubmitPick(t *testing.T) {
	tests := []struct {
		name       string
		viewer     scoringdomain.Viewer
		body       string
		svcErr     error
		wantStatus int
		wantOwner  scoringdomain.Player
	}{
		{name: "own pick", viewer: scoringdomain.Viewer{Player: "Jerin"}, body: `{"team":"Bills"}`, wantStatus: http.StatusOK, wantOwner: "Jerin"},
		{name: "admin on behalf", viewer: scoringdomain.Viewer{IsAdmin: true}, body: `{"player":"Jeff","team":"Bills"}`, wantStatus: http.StatusOK, wantOwner: "Jeff"},
		{name: "admin without player", viewer: scoringdomain.Viewer{IsAdmin: true}, body: `{"team":"Bills"}`, wantStatus: http.StatusBadRequest},
		{name: "anonymous", body: `{"team":"Bills"}`, wantStatus: http.StatusUnauthorized},
		{name: "missing team", viewer: scoringdomain.Viewer{Player: "Jerin"}, body: `{}`, wantStatus: http.StatusBadRequest},
		{name: "locked", viewer: scoringdomain.Viewer{Player: "Jerin"}, body: `{"team":"Bills"}`, svcErr: pickservice.ErrPickLocked, wantStatus: http.StatusConflict, wantOwner: "Jerin"},
		{name: "not owner", viewer: scoringdomain.Viewer{Player: "Jeff"}, body: `{"player":"Jerin","team":"Bills"}`, svcErr: pickservice.ErrNotPickOwner, wantStatus: http.StatusForbidden, wantOwner: "Jerin"},
		{name: "unknown game", viewer: scoringdomain.Viewer{Player: "Jerin"}, body: `{"team":"Bills"}`, svcErr: fmt.Errorf("%w: div-1", pickservice.ErrGameNotFound), wantStatus: http.StatusNotFound, wantOwner: "Jerin"},
		{name: "invalid team", viewer: scoringdomain.Viewer{Player: "Jerin"}, body: `{"team":"Eagles"}`, svcErr: pickservice.ErrInvalidTeam, wantStatus: http.StatusUnprocessableEntity, wantOwner: "Jerin"},
		{name: "storage failure", viewer: scoringdomain.Viewer{Player: "Jerin"}, body: `{"team":"Bills"}`, svcErr: fmt.Errorf("SubmitPick: boom"), wantStatus: http.StatusInternalServerError, wantOwner: "Jerin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotOwner scoringdomain.Player
			var gotGame string
			svc := &FakeService{SubmitPickFunc: func(_ context.Context, v scoringdomain.Viewer, owner scoringdomain.Player, gameID, team string) (*pickservice.Submission, error) {
				gotOwner, gotGame = owner, gameID
				if tt.svcErr != nil {
					return nil, tt.svcErr
				}
				return &pickservice.Submission{Player: owner, GameID: gameID, Team: team, ByAdmin: v.IsAdmin}, nil
			}}

			rr := serve(svc, tt.viewer, http.MethodPut, "/api/picks/div-1", tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantOwner, gotOwner)
			if tt.wantOwner != "" {
				assert.Equal(t, "div-1", gotGame)
			} else {
				assert.Empty(t, svc.Trace())
			}
		})
	}
}
