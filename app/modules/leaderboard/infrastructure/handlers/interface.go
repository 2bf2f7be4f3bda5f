package leaderboardhandlers

import (
	"context"
	"net/http"

	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	pickevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/pick"
	"github.com/Black-And-White-Club/pickem-bot/pkg/handlerwrapper"
)

// EventHandlers react to roster and pick changes by recomputing the standings.
type EventHandlers interface {
	HandleGameUpdated(ctx context.Context, payload *gameevents.GameUpdatedPayloadV1) ([]handlerwrapper.Result, error)
	HandlePickSubmitted(ctx context.Context, payload *pickevents.PickSubmittedPayloadV1) ([]handlerwrapper.Result, error)
}

// HTTPHandlers serve the standings endpoints.
type HTTPHandlers interface {
	HandleGetStandings(w http.ResponseWriter, r *http.Request)
	HandleGetChart(w http.ResponseWriter, r *http.Request)
	HandleExport(w http.ResponseWriter, r *http.Request)
}
