package leaderboardservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const cacheName = "standings"

// LeaderboardService implements Service.
type LeaderboardService struct {
	games   GameLister
	picks   PickLoader
	cache   StandingsCache
	palette ChartPalette
	clock   scoringdomain.Clock
	logger  *slog.Logger
	metrics Metrics
	tracer  trace.Tracer
}

// NewLeaderboardService creates the service. cache may be nil.
func NewLeaderboardService(games GameLister, picks PickLoader, cache StandingsCache, logger *slog.Logger, m Metrics, tracer trace.Tracer) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.NewNoop()
	}
	return &LeaderboardService{
		games:   games,
		picks:   picks,
		cache:   cache,
		palette: DefaultPalette,
		clock:   scoringdomain.RealClock{},
		logger:  logger,
		metrics: m,
		tracer:  tracer,
	}
}

// Standings serves from the cache when possible. A cache error is treated as a miss.
func (s *LeaderboardService) Standings(ctx context.Context) ([]scoringdomain.Standing, error) {
	return s.observe(ctx, "Standings", func(ctx context.Context) ([]scoringdomain.Standing, error) {
		if s.cache != nil {
			cached, ok, err := s.cache.Get(ctx)
			if err != nil {
				s.logger.WarnContext(ctx, "Standings cache read failed", attr.Error(err))
			}
			if ok {
				s.metrics.RecordCacheHit(ctx, cacheName)
				return cached, nil
			}
			s.metrics.RecordCacheMiss(ctx, cacheName)
		}
		// Only Recompute writes the cache.
		standings, _, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		return standings, nil
	})
}

// Recompute ignores the cache and replaces it.
func (s *LeaderboardService) Recompute(ctx context.Context) ([]scoringdomain.Standing, error) {
	return s.observe(ctx, "Recompute", s.computeAndStore)
}

func (s *LeaderboardService) computeAndStore(ctx context.Context) ([]scoringdomain.Standing, error) {
	standings, _, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, standings); err != nil {
			s.logger.WarnContext(ctx, "Standings cache write failed", attr.Error(err))
		}
	}
	return standings, nil
}

// compute scores a fresh snapshot of games and picks.
func (s *LeaderboardService) compute(ctx context.Context) ([]scoringdomain.Standing, []scoringdomain.Game, error) {
	games, err := s.games.ListGames(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list games: %w", err)
	}
	picks, err := s.picks.LoadAllPicks(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load picks: %w", err)
	}
	return scoringdomain.ComputeStandings(s.picks.Roster(), games, picks), games, nil
}

// Chart renders the current standings.
func (s *LeaderboardService) Chart(ctx context.Context) ([]byte, error) {
	var png []byte
	_, err := s.observe(ctx, "Chart", func(ctx context.Context) ([]scoringdomain.Standing, error) {
		standings, err := s.Standings(ctx)
		if err != nil {
			return nil, err
		}
		png, err = RenderStandingsChart(standings, s.palette)
		return standings, err
	})
	return png, err
}

// Export renders the standings and the game results into a workbook.
func (s *LeaderboardService) Export(ctx context.Context) ([]byte, error) {
	var book []byte
	_, err := s.observe(ctx, "Export", func(ctx context.Context) ([]scoringdomain.Standing, error) {
		standings, games, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		book, err = ExportWorkbook(standings, games, s.clock.Now())
		return standings, err
	})
	return book, err
}

// observe wraps an operation with a span, operation metrics and a failure log.
func (s *LeaderboardService) observe(
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) ([]scoringdomain.Standing, error),
) (out []scoringdomain.Standing, err error) {
	var span trace.Span
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, "LeaderboardService."+operationName, trace.WithAttributes(
			attribute.String("operation", operationName),
		))
	} else {
		span = trace.SpanFromContext(ctx)
	}
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName, "LeaderboardService")
	start := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, "LeaderboardService", time.Since(start))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered", attr.Error(err))
			s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
			span.RecordError(err)
			out = nil
		}
	}()

	out, err = op(ctx)
	if err != nil {
		err = fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.Error(err),
		)
		s.metrics.RecordOperationFailure(ctx, operationName, "LeaderboardService")
		span.RecordError(err)
		return nil, err
	}
	s.metrics.RecordOperationSuccess(ctx, operationName, "LeaderboardService")
	return out, nil
}
