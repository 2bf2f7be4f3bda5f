package gamequeue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/riverqueue/river"
)

// GameLockWorker publishes game.locked.v1 when a game's kickoff arrives.
type GameLockWorker struct {
	river.WorkerDefaults[GameLockJob]
	logger *slog.Logger
	bus    eventbus.EventBus
	repo   gamedb.Repository
	clock  scoringdomain.Clock
}

// NewGameLockWorker creates the worker. repo is used to drop jobs whose game
// was rescheduled after the job was enqueued.
func NewGameLockWorker(logger *slog.Logger, bus eventbus.EventBus, repo gamedb.Repository, clock scoringdomain.Clock) *GameLockWorker {
	if clock == nil {
		clock = scoringdomain.RealClock{}
	}
	return &GameLockWorker{logger: logger, bus: bus, repo: repo, clock: clock}
}

// Work executes the lock job.
func (w *GameLockWorker) Work(ctx context.Context, job *river.Job[GameLockJob]) error {
	logger := w.logger.With(
		attr.GameID(job.Args.GameID),
		attr.Time("kickoff", job.Args.Kickoff),
		attr.Int64("job_id", job.ID),
	)

	now := w.clock.Now()
	kickoff := job.Args.Kickoff

	if w.repo != nil {
		row, err := w.repo.GetByID(ctx, nil, job.Args.GameID)
		switch {
		case errors.Is(err, gamedb.ErrNotFound):
			logger.WarnContext(ctx, "Dropping lock job for unknown game")
			return nil
		case err != nil:
			return fmt.Errorf("failed to load game %s: %w", job.Args.GameID, err)
		case !row.Kickoff.Equal(job.Args.Kickoff) && row.Kickoff.After(now):
			logger.InfoContext(ctx, "Dropping stale lock job", attr.Time("current_kickoff", row.Kickoff))
			return nil
		}
		kickoff = row.Kickoff
	}

	payload := gameevents.GameLockedPayloadV1{
		GameID:   job.Args.GameID,
		Kickoff:  kickoff.UTC(),
		LockedAt: now.UTC(),
	}
	if err := eventbus.PublishJSON(ctx, w.bus, gameevents.GameLockedV1, payload); err != nil {
		logger.ErrorContext(ctx, "Failed to publish game locked event", attr.Error(err))
		return err
	}

	logger.InfoContext(ctx, "Game locked")
	return nil
}
