package gamehandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/httpapi"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newRouter(svc gameservice.Service) http.Handler {
	h := NewGameHandlers(svc, "America/New_York", slog.New(slog.NewTextHandler(io.Discard, nil)), noop.NewTracerProvider().Tracer("test"))
	r := chi.NewRouter()
	Mount(r, h, func(next http.Handler) http.Handler { return next })
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestHandleListGames(t *testing.T) {
	kickoff := time.Date(2026, 1, 17, 21, 30, 0, 0, time.UTC)
	svc := &FakeService{
		ListGamesFunc: func(context.Context) ([]scoringdomain.Game, error) {
			return []scoringdomain.Game{{
				ID:       "div-1",
				Round:    scoringdomain.RoundDivisional,
				AwayTeam: "Bills",
				HomeTeam: "Broncos",
				Kickoff:  kickoff,
				Status:   scoringdomain.StatusScheduled,
			}}, nil
		},
	}

	rr := do(t, newRouter(svc), http.MethodGet, "/api/games", "")

	require.Equal(t, http.StatusOK, rr.Code)
	var got []GameResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "Divisional", got[0].RoundName)
	assert.Equal(t, "Bills", got[0].AwayTeam)
	assert.True(t, kickoff.Equal(got[0].Kickoff))
}

func TestHandleListGames_Empty(t *testing.T) {
	rr := do(t, newRouter(&FakeService{}), http.MethodGet, "/api/games", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestAdminGameEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		svc        *FakeService
		wantStatus int
		wantCall   string
	}{
		{
			name:       "set winner",
			path:       "/api/admin/games/div-1/winner",
			body:       `{"team":"Bills"}`,
			svc:        &FakeService{},
			wantStatus: http.StatusOK,
			wantCall:   "SetWinner",
		},
		{
			name: "winner for unknown game",
			path: "/api/admin/games/nope/winner",
			body: `{"team":"Bills"}`,
			svc: &FakeService{SetWinnerFunc: func(context.Context, string, string) (*scoringdomain.Game, error) {
				return nil, fmt.Errorf("%w: nope", gameservice.ErrGameNotFound)
			}},
			wantStatus: http.StatusNotFound,
			wantCall:   "SetWinner",
		},
		{
			name: "winner outside the matchup",
			path: "/api/admin/games/div-1/winner",
			body: `{"team":"Eagles"}`,
			svc: &FakeService{SetWinnerFunc: func(context.Context, string, string) (*scoringdomain.Game, error) {
				return nil, scoringdomain.ErrWinnerNotParticipant
			}},
			wantStatus: http.StatusUnprocessableEntity,
			wantCall:   "SetWinner",
		},
		{
			name: "matchup after a result",
			path: "/api/admin/games/div-1/matchup",
			body: `{"away":"Bills","home":"Broncos"}`,
			svc: &FakeService{SetMatchupFunc: func(context.Context, string, string, string) (*scoringdomain.Game, error) {
				return nil, scoringdomain.ErrMatchupAlreadyDecided
			}},
			wantStatus: http.StatusConflict,
			wantCall:   "SetMatchup",
		},
		{
			name:       "kickoff requires a value",
			path:       "/api/admin/games/div-1/kickoff",
			body:       `{}`,
			svc:        &FakeService{},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			path: "/api/admin/games/div-1/kickoff",
			body: `{"kickoff":"saturday 4:30pm"}`,
			svc: &FakeService{SetKickoffFunc: func(context.Context, string, string, string) (*scoringdomain.Game, error) {
				return nil, errors.New("connection refused")
			}},
			wantStatus: http.StatusInternalServerError,
			wantCall:   "SetKickoff",
		},
		{
			name:       "malformed body",
			path:       "/api/admin/games/div-1/matchup",
			body:       `not json`,
			svc:        &FakeService{},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := do(t, newRouter(tt.svc), http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantCall != "" {
				assert.Equal(t, []string{tt.wantCall}, tt.svc.Trace())
			} else {
				assert.Empty(t, tt.svc.Trace())
			}
			if rr.Code == http.StatusInternalServerError {
				var body httpapi.ErrorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
				assert.Equal(t, "internal error", body.Error)
			}
		})
	}
}

func TestHandleSetKickoff_DefaultsTimezone(t *testing.T) {
	var gotTZ, gotInput, gotID string
	svc := &FakeService{SetKickoffFunc: func(_ context.Context, id, input, tz string) (*scoringdomain.Game, error) {
		gotID, gotInput, gotTZ = id, input, tz
		return &scoringdomain.Game{ID: id}, nil
	}}
	h := newRouter(svc)

	rr := do(t, h, http.MethodPost, "/api/admin/games/wc-3/kickoff", `{"kickoff":"sunday 1pm"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "wc-3", gotID)
	assert.Equal(t, "sunday 1pm", gotInput)
	assert.Equal(t, "America/New_York", gotTZ)

	rr = do(t, h, http.MethodPost, "/api/admin/games/wc-3/kickoff", `{"kickoff":"sunday 1pm","timezone":"America/Chicago"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "America/Chicago", gotTZ)
}

func TestHandleImport(t *testing.T) {
	var got []byte
	svc := &FakeService{ImportRosterFunc: func(_ context.Context, r io.Reader) (*gameservice.RosterResult, error) {
		got, _ = io.ReadAll(r)
		return &gameservice.RosterResult{Inserted: []string{"sb"}}, nil
	}}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "roster.xlsx")
	require.NoError(t, err)
	_, err = fw.Write([]byte("workbook-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/games/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "workbook-bytes", string(got))
	assert.JSONEq(t, `{"inserted":["sb"],"updated":[],"skipped":[]}`, rr.Body.String())
}

func TestHandleImport_MissingFile(t *testing.T) {
	svc := &FakeService{}

	rr := do(t, newRouter(svc), http.MethodPost, "/api/admin/games/import", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Empty(t, svc.Trace())
}

func TestHandleImport_InvalidRoster(t *testing.T) {
	svc := &FakeService{ImportRosterFunc: func(context.Context, io.Reader) (*gameservice.RosterResult, error) {
		return nil, fmt.Errorf("%w: missing column %q", gameservice.ErrInvalidRoster, "kickoff")
	}}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "roster.xlsx")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("x"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/admin/games/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rr := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Contains(t, rr.Body.String(), "missing column")
}
