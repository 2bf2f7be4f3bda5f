package leaderboardhandlers

import (
	"context"
	"fmt"
	"log/slog"

	leaderboardservice "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/application"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	leaderboardevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/leaderboard"
	pickevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/pick"
	"github.com/Black-And-White-Club/pickem-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
)

// LeaderboardEventHandlers implements EventHandlers.
type LeaderboardEventHandlers struct {
	service leaderboardservice.Service
	clock   scoringdomain.Clock
	logger  *slog.Logger
}

// NewEventHandlers creates the leaderboard event handlers.
func NewEventHandlers(service leaderboardservice.Service, clock scoringdomain.Clock, logger *slog.Logger) *LeaderboardEventHandlers {
	if clock == nil {
		clock = scoringdomain.RealClock{}
	}
	return &LeaderboardEventHandlers{service: service, clock: clock, logger: logger}
}

// HandleGameUpdated recomputes after any roster change.
func (h *LeaderboardEventHandlers) HandleGameUpdated(ctx context.Context, payload *gameevents.GameUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	h.logger.InfoContext(ctx, "Recomputing standings after game update",
		attr.ExtractCorrelationID(ctx),
		attr.String("reason", payload.Reason),
		attr.Int("games", len(payload.GameIDs)),
	)
	return h.recompute(ctx, gameevents.GameUpdatedV1)
}

// HandlePickSubmitted recomputes after a pick lands. Only admin edits on
// decided games move totals, but the cached table is replaced either way.
func (h *LeaderboardEventHandlers) HandlePickSubmitted(ctx context.Context, payload *pickevents.PickSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	h.logger.DebugContext(ctx, "Recomputing standings after pick",
		attr.ExtractCorrelationID(ctx),
		attr.Player(payload.Player),
		attr.GameID(payload.GameID),
	)
	return h.recompute(ctx, pickevents.PickSubmittedV1)
}

func (h *LeaderboardEventHandlers) recompute(ctx context.Context, trigger string) ([]handlerwrapper.Result, error) {
	standings, err := h.service.Recompute(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute standings: %w", err)
	}
	return []handlerwrapper.Result{{
		Topic:   leaderboardevents.StandingsUpdatedV1,
		Payload: leaderboardservice.ToPayload(standings, trigger, h.clock.Now()),
	}}, nil
}
