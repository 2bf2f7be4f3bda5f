package game

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	gamefeed "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/feed"
	gamehandlers "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/handlers"
	gamequeue "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/queue"
	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	gametime "github.com/Black-And-White-Club/pickem-bot/app/modules/game/time_utils"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the game module.
type Module struct {
	GameService   gameservice.Service
	queue         *gamequeue.Service
	poller        *gamefeed.Poller
	seeds         []scoringdomain.Game
	cancelFunc    context.CancelFunc
	observability observability.Observability
}

// NewGameModule wires the roster service, the lock queue and the scoreboard
// poller. The lock queue needs a Postgres DSN; without one no lock events fire.
func NewGameModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	httpRouter chi.Router,
	requireAdmin func(http.Handler) http.Handler,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer
	m := obs.Registry.Metrics

	logger.InfoContext(ctx, "game.NewGameModule initializing")

	// 1. Repository
	repo := gamedb.NewRepository(db)

	// 2. Lock queue
	var (
		queue     *gamequeue.Service
		scheduler gameservice.LockScheduler
	)
	if cfg.Postgres.DSN != "" && db != nil {
		q, err := gamequeue.NewService(ctx, db, logger, cfg.Postgres.DSN, m, eventBus, repo)
		if err != nil {
			return nil, fmt.Errorf("failed to create game queue service: %w", err)
		}
		queue = q
		scheduler = q
	}

	// 3. Service
	directory := scoringdomain.NewTeamDirectory(scoringdomain.DefaultTeams(), scoringdomain.WithMissHook(func(name string) {
		m.TeamLookupMiss()
		logger.Warn("Team not in directory", attr.String("team", name))
	}))
	service := gameservice.NewGameService(repo, eventBus, scheduler, directory, logger, m, tracer, db,
		gameservice.WithAutoCreate(cfg.Feed.AutoCreate),
		gameservice.WithKickoffParser(gametime.NewTimeParser(cfg.League.Timezone)),
	)

	// 4. HTTP
	if httpRouter != nil {
		handlers := gamehandlers.NewGameHandlers(service, cfg.League.Timezone, logger, tracer)
		gamehandlers.Mount(httpRouter, handlers, requireAdmin)
	}

	// 5. Scoreboard poller
	var poller *gamefeed.Poller
	if cfg.Feed.Enabled {
		poller = gamefeed.NewPoller(
			gamefeed.New(cfg.Feed.BaseURL, cfg.Feed.Timeout),
			service,
			gamefeed.PollerConfig{
				SportPath:    cfg.Feed.SportPath,
				LiveInterval: cfg.Feed.LiveInterval,
				IdleInterval: cfg.Feed.IdleInterval,
			},
			logger,
			m,
		)
	}

	return &Module{
		GameService:   service,
		queue:         queue,
		poller:        poller,
		seeds:         SeedGames(cfg.Games),
		observability: obs,
	}, nil
}

// SeedGames converts the configured roster.
func SeedGames(seeds []config.GameSeed) []scoringdomain.Game {
	out := make([]scoringdomain.Game, len(seeds))
	for i, s := range seeds {
		out[i] = scoringdomain.Game{
			ID:            s.ID,
			ExternalID:    s.ExternalID,
			Round:         scoringdomain.RoundKey(s.Round),
			AwayTeam:      s.Away,
			HomeTeam:      s.Home,
			Kickoff:       s.Kickoff,
			AlwaysVisible: s.AlwaysVisible,
		}
	}
	return out
}

// Run seeds the roster, starts the lock queue and polls the scoreboard until ctx
// is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting game module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if len(m.seeds) > 0 {
		if _, err := m.GameService.SeedRoster(ctx, m.seeds); err != nil {
			logger.ErrorContext(ctx, "Failed to seed game roster", attr.Error(err))
		}
	}

	if m.queue != nil {
		if err := m.queue.Start(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to start game queue", attr.Error(err))
		} else if err := m.GameService.ScheduleUpcomingLocks(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to schedule upcoming locks", attr.Error(err))
		}
	}

	if m.poller != nil {
		m.poller.Run(ctx)
	} else {
		<-ctx.Done()
	}
	logger.InfoContext(ctx, "Game module goroutine stopped")
}

// Close shuts down the game module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping game module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.queue != nil {
		if err := m.queue.Stop(context.Background()); err != nil {
			logger.Error("Error stopping game queue", attr.Error(err))
			return fmt.Errorf("error stopping game queue: %w", err)
		}
	}

	logger.Info("Game module stopped")
	return nil
}
