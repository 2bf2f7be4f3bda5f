package pickservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	pickdb "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	pickevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/pick"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"github.com/Black-And-White-Club/pickem-bot/pkg/results"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// PickService implements the Service interface.
type PickService struct {
	repo    pickdb.Repository
	games   GameReader
	bus     eventbus.EventBus
	roster  []scoringdomain.Player
	clock   scoringdomain.Clock
	logger  *slog.Logger
	metrics metrics.OperationMetrics
	tracer  trace.Tracer
}

// NewPickService creates a PickService. bus may be nil; clock defaults to the wall clock.
func NewPickService(
	repo pickdb.Repository,
	games GameReader,
	bus eventbus.EventBus,
	roster []scoringdomain.Player,
	clock scoringdomain.Clock,
	logger *slog.Logger,
	m metrics.OperationMetrics,
	tracer trace.Tracer,
) *PickService {
	if clock == nil {
		clock = scoringdomain.RealClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &PickService{
		repo:    repo,
		games:   games,
		bus:     bus,
		roster:  roster,
		clock:   clock,
		logger:  logger,
		metrics: m,
		tracer:  tracer,
	}
}

// Roster returns the league players.
func (s *PickService) Roster() []scoringdomain.Player {
	out := make([]scoringdomain.Player, len(s.roster))
	copy(out, s.roster)
	return out
}

// resolvePlayer matches name against the roster ignoring case and returns the
// roster spelling.
func (s *PickService) resolvePlayer(name scoringdomain.Player) (scoringdomain.Player, bool) {
	want := strings.TrimSpace(string(name))
	for _, p := range s.roster {
		if strings.EqualFold(string(p), want) {
			return p, true
		}
	}
	return "", false
}

type submitResult = results.OperationResult[*Submission, error]

// SubmitPick checks, in order: the owner is on the roster, the game exists, the
// team plays in it, and the viewer may edit the pick now.
func (s *PickService) SubmitPick(ctx context.Context, viewer scoringdomain.Viewer, owner scoringdomain.Player, gameID, team string) (*Submission, error) {
	result, err := withTelemetry(s, ctx, "SubmitPick", gameID, func(ctx context.Context) (submitResult, error) {
		player, ok := s.resolvePlayer(owner)
		if !ok {
			return results.FailureResult[*Submission, error](fmt.Errorf("%w: %q", ErrUnknownPlayer, owner)), nil
		}

		game, err := s.games.GetGame(ctx, gameID)
		if err != nil {
			if errors.Is(err, gameservice.ErrGameNotFound) {
				return results.FailureResult[*Submission, error](fmt.Errorf("%w: %s", ErrGameNotFound, gameID)), nil
			}
			return submitResult{}, fmt.Errorf("failed to load game: %w", err)
		}

		team = s.games.Directory().ShortName(team)
		if !game.IsParticipant(team) {
			return results.FailureResult[*Submission, error](fmt.Errorf("%w: %q", ErrInvalidTeam, team)), nil
		}

		now := s.clock.Now()
		if !scoringdomain.IsPickEditable(*game, player, viewer.Player, viewer.IsAdmin, now) {
			if viewer.Player == player {
				return results.FailureResult[*Submission, error](fmt.Errorf("%w: %s", ErrPickLocked, gameID)), nil
			}
			return results.FailureResult[*Submission, error](ErrNotPickOwner), nil
		}

		row := &pickdb.Pick{
			Player:     string(player),
			GameID:     game.ID,
			Team:       team,
			SetByAdmin: viewer.IsAdmin,
		}
		if err := s.repo.Upsert(ctx, nil, row); err != nil {
			return submitResult{}, fmt.Errorf("failed to store pick: %w", err)
		}

		sub := &Submission{
			Player:      player,
			GameID:      game.ID,
			Team:        team,
			ByAdmin:     viewer.IsAdmin,
			SubmittedAt: now.UTC(),
		}
		s.publishSubmitted(ctx, sub)
		return results.SuccessResult[*Submission, error](sub), nil
	})
	return unwrap(result, err)
}

// publishSubmitted announces the pick without its team.
func (s *PickService) publishSubmitted(ctx context.Context, sub *Submission) {
	if s.bus == nil {
		return
	}
	err := eventbus.PublishJSON(ctx, s.bus, pickevents.PickSubmittedV1, pickevents.PickSubmittedPayloadV1{
		Player:      string(sub.Player),
		GameID:      sub.GameID,
		ByAdmin:     sub.ByAdmin,
		SubmittedAt: sub.SubmittedAt,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to publish pick submission",
			attr.Player(string(sub.Player)),
			attr.GameID(sub.GameID),
			attr.Error(err),
		)
	}
}

// LoadAllPicks returns every stored pick.
func (s *PickService) LoadAllPicks(ctx context.Context) (scoringdomain.Picks, error) {
	result, err := withTelemetry(s, ctx, "LoadAllPicks", "all", func(ctx context.Context) (results.OperationResult[scoringdomain.Picks, error], error) {
		rows, err := s.repo.ListAll(ctx, nil)
		if err != nil {
			return results.OperationResult[scoringdomain.Picks, error]{}, fmt.Errorf("failed to load picks: %w", err)
		}
		return results.SuccessResult[scoringdomain.Picks, error](pickdb.ToPicks(rows)), nil
	})
	return unwrap(result, err)
}

// PickGrid renders the table for viewer. Hidden picks carry no team.
func (s *PickService) PickGrid(ctx context.Context, viewer scoringdomain.Viewer) (*Grid, error) {
	result, err := withTelemetry(s, ctx, "PickGrid", string(viewer.Player), func(ctx context.Context) (results.OperationResult[*Grid, error], error) {
		games, err := s.games.ListGames(ctx)
		if err != nil {
			return results.OperationResult[*Grid, error]{}, fmt.Errorf("failed to list games: %w", err)
		}
		rows, err := s.repo.ListAll(ctx, nil)
		if err != nil {
			return results.OperationResult[*Grid, error]{}, fmt.Errorf("failed to load picks: %w", err)
		}
		grid := &Grid{
			Games: games,
			Rows:  scoringdomain.BuildPickGrid(s.roster, games, pickdb.ToPicks(rows), viewer, s.clock.Now()),
		}
		return results.SuccessResult[*Grid, error](grid), nil
	})
	return unwrap(result, err)
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

// withTelemetry wraps a service operation with tracing, metrics, and panic recovery.
func withTelemetry[S any, F any](
	s *PickService,
	ctx context.Context,
	operationName string,
	identifier string,
	op func(ctx context.Context) (results.OperationResult[S, F], error),
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

	s.metrics.RecordOperationAttempt(ctx, operationName, "PickService")
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "PickService", time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.ExtractCorrelationID(ctx),
				attr.String("identifier", identifier),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName, "PickService")
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
		s.metrics.RecordOperationFailure(ctx, operationName, "PickService")
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

	s.metrics.RecordOperationSuccess(ctx, operationName, "PickService")
	return result, nil
}
