package gamequeue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"
)

// QueueName is the dedicated River queue for game jobs.
const QueueName = "game"

// QueueService interface defines the contract for job scheduling operations
type QueueService interface {
	// ScheduleLock schedules a lock job at kickoff. Past kickoffs are skipped.
	ScheduleLock(ctx context.Context, gameID string, kickoff time.Time) error
	// CancelLocks cancels every pending lock job for a game
	CancelLocks(ctx context.Context, gameID string) error
	// GetScheduledJobs returns information about jobs for a game (for debugging)
	GetScheduledJobs(ctx context.Context, gameID string) ([]JobInfo, error)
	// HealthCheck verifies the queue service is healthy
	HealthCheck(ctx context.Context) error
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service handles job scheduling for the game module using River
type Service struct {
	client  *river.Client[pgx.Tx]
	pool    *pgxpool.Pool
	logger  *slog.Logger
	db      *bun.DB
	metrics metrics.OperationMetrics
}

// NewService creates a River-based queue service. River needs its own pgx pool;
// bunDB is used for the river_job lookups.
func NewService(ctx context.Context, bunDB *bun.DB, logger *slog.Logger, dsn string, m metrics.OperationMetrics, bus eventbus.EventBus, repo gamedb.Repository) (*Service, error) {
	ctxLogger := logger.With(
		attr.String("operation", "new_game_queue_service"),
		attr.String("component", "river_queue"),
	)

	start := time.Now()
	m.RecordOperationAttempt(ctx, "initialize_service", "river")

	ctxLogger.Info("Initializing game queue service")

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		ctxLogger.Error("Failed to parse DSN for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		ctxLogger.Error("Failed to create pgx pool for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		ctxLogger.Error("Failed to ping database for River", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewGameLockWorker(ctxLogger, bus, repo, scoringdomain.RealClock{}))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
			QueueName:          {MaxWorkers: 5},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		ctxLogger.Error("Failed to create River client", attr.Error(err))
		m.RecordOperationFailure(ctx, "initialize_service", "river")
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	m.RecordOperationSuccess(ctx, "initialize_service", "river")
	m.RecordOperationDuration(ctx, "initialize_service", "river", time.Since(start))

	ctxLogger.Info("Game queue service initialized successfully")
	return &Service{
		client:  riverClient,
		pool:    pool,
		logger:  ctxLogger,
		db:      bunDB,
		metrics: m,
	}, nil
}

// Start starts the River queue service
func (s *Service) Start(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "start_service", "river")

	s.logger.Info("Starting game queue service")

	if err := s.client.Start(ctx); err != nil {
		s.logger.Error("Failed to start River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "start_service", "river")
		return fmt.Errorf("failed to start River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "start_service", "river")
	s.metrics.RecordOperationDuration(ctx, "start_service", "river", time.Since(start))
	return nil
}

// Stop stops the River client and closes its pool.
func (s *Service) Stop(ctx context.Context) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "stop_service", "river")

	s.logger.Info("Stopping game queue service")
	defer s.pool.Close()

	if err := s.client.Stop(ctx); err != nil {
		s.logger.Error("Failed to stop River client", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "stop_service", "river")
		return fmt.Errorf("failed to stop River client: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "stop_service", "river")
	s.metrics.RecordOperationDuration(ctx, "stop_service", "river", time.Since(start))
	return nil
}

// ScheduleLock schedules a game lock job at kickoff.
func (s *Service) ScheduleLock(ctx context.Context, gameID string, kickoff time.Time) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "schedule_game_lock", "river")

	ctxLogger := s.logger.With(
		attr.GameID(gameID),
		attr.Time("kickoff", kickoff),
		attr.String("operation", "schedule_game_lock"),
	)

	if !kickoff.After(start) {
		ctxLogger.Info("Kickoff already passed, skipping lock job")
		s.metrics.RecordOperationSuccess(ctx, "schedule_game_lock", "river")
		return nil
	}

	jobResult, err := s.client.Insert(ctx, GameLockJob{GameID: gameID, Kickoff: kickoff.UTC()}, &river.InsertOpts{
		Queue:       QueueName,
		ScheduledAt: kickoff,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		ctxLogger.Error("Failed to schedule game lock job", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "schedule_game_lock", "river")
		return fmt.Errorf("failed to schedule game lock job: %w", err)
	}

	s.metrics.RecordOperationSuccess(ctx, "schedule_game_lock", "river")
	s.metrics.RecordOperationDuration(ctx, "schedule_game_lock", "river", time.Since(start))

	ctxLogger.Info("Game lock job scheduled",
		attr.Duration("delay", kickoff.Sub(start)),
		attr.Int64("job_id", jobResult.Job.ID),
		attr.Bool("duplicate", jobResult.UniqueSkippedAsDuplicate),
	)
	return nil
}

type riverJobRow struct {
	ID          int64      `bun:"id"`
	Kind        string     `bun:"kind"`
	State       string     `bun:"state"`
	ScheduledAt *time.Time `bun:"scheduled_at"`
	CreatedAt   time.Time  `bun:"created_at"`
	Attempt     int16      `bun:"attempt"`
	MaxAttempts int16      `bun:"max_attempts"`
}

// CancelLocks cancels all pending lock jobs for a game.
func (s *Service) CancelLocks(ctx context.Context, gameID string) error {
	start := time.Now()
	s.metrics.RecordOperationAttempt(ctx, "cancel_game_locks", "river")

	ctxLogger := s.logger.With(
		attr.GameID(gameID),
		attr.String("operation", "cancel_game_locks"),
	)

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at").
		Where("kind = ?", GameLockJob{}.Kind()).
		Where("state IN (?, ?)", "available", "scheduled").
		Where("args->>'game_id' = ?", gameID).
		Scan(ctx, &jobs)
	if err != nil {
		ctxLogger.Error("Failed to query jobs for cancellation", attr.Error(err))
		s.metrics.RecordOperationFailure(ctx, "cancel_game_locks", "river")
		return fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			ctxLogger.Warn("Failed to cancel job", attr.Int64("job_id", job.ID), attr.Error(err))
			continue
		}
		cancelled++
	}

	if cancelled == len(jobs) {
		s.metrics.RecordOperationSuccess(ctx, "cancel_game_locks", "river")
	} else {
		s.metrics.RecordOperationFailure(ctx, "cancel_game_locks", "river")
	}
	s.metrics.RecordOperationDuration(ctx, "cancel_game_locks", "river", time.Since(start))

	if len(jobs) > 0 {
		ctxLogger.Info("Lock jobs cancelled",
			attr.Int("total_found", len(jobs)),
			attr.Int("cancelled_count", cancelled),
		)
	}
	return nil
}

// GetScheduledJobs returns the lock jobs recorded for a game.
func (s *Service) GetScheduledJobs(ctx context.Context, gameID string) ([]JobInfo, error) {
	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", GameLockJob{}.Kind()).
		Where("args->>'game_id' = ?", gameID).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	out := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.UTC().Format(time.RFC3339)
		}
		out[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			GameID:      gameID,
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.UTC().Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return out, nil
}

// HealthCheck verifies the queue tables are reachable.
func (s *Service) HealthCheck(ctx context.Context) error {
	if s.client == nil {
		return fmt.Errorf("river client is nil")
	}
	var count int
	err := s.db.NewSelect().
		Table("river_job").
		ColumnExpr("COUNT(*)").
		Scan(ctx, &count)
	if err != nil {
		s.logger.Error("Queue service health check failed", attr.Error(err))
		return fmt.Errorf("queue service health check failed: %w", err)
	}
	return nil
}
