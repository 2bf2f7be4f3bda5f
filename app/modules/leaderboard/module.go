package leaderboard

import (
	"context"
	"fmt"
	"sync"

	leaderboardservice "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/application"
	leaderboardcache "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/infrastructure/cache"
	leaderboardhandlers "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/infrastructure/handlers"
	leaderboardrouter "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/infrastructure/router"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

// Module represents the leaderboard module.
type Module struct {
	LeaderboardService leaderboardservice.Service
	router             *leaderboardrouter.LeaderboardRouter
	redis              *redis.Client
	observability      observability.Observability
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule wires the standings cache, service, routes and event router.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	games leaderboardservice.GameLister,
	picks leaderboardservice.PickLoader,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule initializing")

	var (
		cache       leaderboardservice.StandingsCache = leaderboardcache.NopCache{}
		redisClient *redis.Client
	)
	if cfg.Redis.URL != "" {
		client, err := leaderboardcache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, fmt.Errorf("leaderboard.NewLeaderboardModule: %w", err)
		}
		redisClient = client
		cache = leaderboardcache.NewRedisCache(client, cfg.Redis.StandingsTTL)
		logger.InfoContext(ctx, "Standings cache enabled", attr.Duration("ttl", cfg.Redis.StandingsTTL))
	}

	service := leaderboardservice.NewLeaderboardService(games, picks, cache, logger, obs.Registry.Metrics, tracer)

	if httpRouter != nil {
		leaderboardhandlers.Mount(httpRouter, leaderboardhandlers.NewHTTPHandlers(service, logger, tracer))
	}

	wm, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	if err != nil {
		closeRedis(redisClient)
		return nil, fmt.Errorf("leaderboard.NewLeaderboardModule: failed to create router: %w", err)
	}
	router := leaderboardrouter.NewLeaderboardRouter(logger, wm, eventBus, tracer, obs.Registry.Metrics, obs.Registry.Prometheus)
	if err := router.Configure(ctx, leaderboardhandlers.NewEventHandlers(service, scoringdomain.RealClock{}, logger)); err != nil {
		closeRedis(redisClient)
		return nil, fmt.Errorf("leaderboard.NewLeaderboardModule: failed to configure router: %w", err)
	}

	return &Module{
		LeaderboardService: service,
		router:             router,
		redis:              redisClient,
		observability:      obs,
	}, nil
}

// Run primes the standings and runs the event router until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if _, err := m.LeaderboardService.Recompute(ctx); err != nil {
		logger.WarnContext(ctx, "Initial standings computation failed", attr.Error(err))
	}

	if err := m.router.Router.Run(ctx); err != nil && ctx.Err() == nil {
		logger.ErrorContext(ctx, "Leaderboard router stopped", attr.Error(err))
	}
}

// Close stops the router and releases the cache connection.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	var firstErr error
	if err := m.router.Close(); err != nil {
		firstErr = err
	}
	if m.redis != nil {
		if err := m.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func closeRedis(c *redis.Client) {
	if c != nil {
		_ = c.Close()
	}
}
