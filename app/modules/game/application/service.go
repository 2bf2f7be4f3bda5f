package gameservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	gametime "github.com/Black-And-White-Club/pickem-bot/app/modules/game/time_utils"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"github.com/Black-And-White-Club/pickem-bot/pkg/results"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// GameService implements the Service interface.
type GameService struct {
	repo       gamedb.Repository
	bus        eventbus.EventBus
	scheduler  LockScheduler
	directory  *scoringdomain.TeamDirectory
	classifier scoringdomain.RoundClassifier
	parser     gametime.KickoffParser
	clock      scoringdomain.Clock
	autoCreate bool
	logger     *slog.Logger
	metrics    Metrics
	tracer     trace.Tracer
	db         *bun.DB
}

// Option configures a GameService.
type Option func(*GameService)

// WithClock overrides the wall clock.
func WithClock(c scoringdomain.Clock) Option {
	return func(s *GameService) { s.clock = c }
}

// WithKickoffParser overrides the natural-language kickoff parser.
func WithKickoffParser(p gametime.KickoffParser) Option {
	return func(s *GameService) { s.parser = p }
}

// WithClassifier overrides the feed round classifier.
func WithClassifier(c scoringdomain.RoundClassifier) Option {
	return func(s *GameService) { s.classifier = c }
}

// WithAutoCreate lets unmatched feed games join the roster.
func WithAutoCreate(enabled bool) Option {
	return func(s *GameService) { s.autoCreate = enabled }
}

// NewGameService creates a new GameService. bus and scheduler may be nil.
func NewGameService(
	repo gamedb.Repository,
	bus eventbus.EventBus,
	scheduler LockScheduler,
	directory *scoringdomain.TeamDirectory,
	logger *slog.Logger,
	m Metrics,
	tracer trace.Tracer,
	db *bun.DB,
	opts ...Option,
) *GameService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	if directory == nil {
		directory = scoringdomain.NewTeamDirectory(scoringdomain.DefaultTeams())
	}
	s := &GameService{
		repo:       repo,
		bus:        bus,
		scheduler:  scheduler,
		directory:  directory,
		classifier: scoringdomain.KeywordClassifier{},
		parser:     gametime.NewTimeParser(""),
		clock:      scoringdomain.RealClock{},
		logger:     logger,
		metrics:    m,
		tracer:     tracer,
		db:         db,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Directory returns the team directory used for seeds.
func (s *GameService) Directory() *scoringdomain.TeamDirectory {
	return s.directory
}

// ListGames returns the roster ordered by kickoff.
func (s *GameService) ListGames(ctx context.Context) ([]scoringdomain.Game, error) {
	result, err := withTelemetry(s, ctx, "ListGames", "all", func(ctx context.Context) (results.OperationResult[[]scoringdomain.Game, error], error) {
		rows, err := s.repo.ListAll(ctx, nil)
		if err != nil {
			return results.OperationResult[[]scoringdomain.Game, error]{}, fmt.Errorf("failed to list games: %w", err)
		}
		return results.SuccessResult[[]scoringdomain.Game, error](gamedb.ToDomainList(rows)), nil
	})
	return unwrap(result, err)
}

// GetGame returns one game.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*scoringdomain.Game, error) {
	result, err := withTelemetry(s, ctx, "GetGame", gameID, func(ctx context.Context) (results.OperationResult[*scoringdomain.Game, error], error) {
		return s.loadGame(ctx, nil, gameID)
	})
	return unwrap(result, err)
}

// loadGame maps a missing row to an ErrGameNotFound failure.
func (s *GameService) loadGame(ctx context.Context, db bun.IDB, gameID string) (results.OperationResult[*scoringdomain.Game, error], error) {
	row, err := s.repo.GetByID(ctx, db, gameID)
	if err != nil {
		if errors.Is(err, gamedb.ErrNotFound) {
			return results.FailureResult[*scoringdomain.Game, error](fmt.Errorf("%w: %s", ErrGameNotFound, gameID)), nil
		}
		return results.OperationResult[*scoringdomain.Game, error]{}, fmt.Errorf("failed to get game: %w", err)
	}
	g := row.ToDomain()
	return results.SuccessResult[*scoringdomain.Game, error](&g), nil
}

func (s *GameService) publishUpdated(ctx context.Context, payload gameevents.GameUpdatedPayloadV1) {
	if s.bus == nil || len(payload.GameIDs) == 0 && len(payload.Conflicts) == 0 {
		return
	}
	payload.UpdatedAt = s.clock.Now().UTC()
	if err := eventbus.PublishJSON(ctx, s.bus, gameevents.GameUpdatedV1, payload); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish game update",
			attr.ExtractCorrelationID(ctx),
			attr.String("reason", payload.Reason),
			attr.Error(err),
		)
	}
}

// relock replaces pending lock jobs for games that have not kicked off yet.
// Visibility is computed from the kickoff time itself, so a scheduling failure
// only delays the notification.
func (s *GameService) relock(ctx context.Context, games []scoringdomain.Game, cancelFirst bool) {
	if s.scheduler == nil {
		return
	}
	now := s.clock.Now()
	for _, g := range games {
		if cancelFirst {
			if err := s.scheduler.CancelLocks(ctx, g.ID); err != nil {
				s.logger.WarnContext(ctx, "Failed to cancel lock job", attr.GameID(g.ID), attr.Error(err))
			}
		}
		if !g.Kickoff.After(now) {
			continue
		}
		if err := s.scheduler.ScheduleLock(ctx, g.ID, g.Kickoff); err != nil {
			s.logger.WarnContext(ctx, "Failed to schedule lock job",
				attr.GameID(g.ID),
				attr.Time("kickoff", g.Kickoff),
				attr.Error(err),
			)
		}
	}
}

func unwrap[S any](result results.OperationResult[S, error], err error) (S, error) {
	var zero S
	if err != nil {
		return zero, err
	}
	if result.IsFailure() {
		return zero, *result.Failure
	}
	if result.Success == nil {
		return zero, errors.New("operation returned no result")
	}
	return *result.Success, nil
}

// -----------------------------------------------------------------------------
// Generic Helpers (Defined as functions because methods cannot have type params)
// -----------------------------------------------------------------------------

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *GameService,
	ctx context.Context,
	operationName string,
	identifier string,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
			attribute.String("identifier", identifier),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "GameService")

	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "GameService", time.Since(startTime))
	}()

	s.logger.InfoContext(ctx, "Operation triggered", attr.ExtractCorrelationID(ctx), attr.String("operation", operationName))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "GameService")
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "GameService")
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.logger.InfoContext(ctx, "Operation completed successfully",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.String("identifier", identifier),
		)
	}

	s.metrics.RecordOperationSuccess(ctx, operationName, "GameService")
	return result, nil
}

// runInTx ensures the operation runs within a transaction.
func runInTx[S any, F any](
	s *GameService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})
	return result, err
}
