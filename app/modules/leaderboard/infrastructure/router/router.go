// Package leaderboardrouter binds the leaderboard event handlers to the bus.
package leaderboardrouter

import (
	"context"
	"log/slog"

	leaderboardhandlers "github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard/infrastructure/handlers"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	pickevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/pick"
	"github.com/Black-And-White-Club/pickem-bot/pkg/handlerwrapper"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	wmmetrics "github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"
)

// LeaderboardRouter registers the leaderboard handlers on a watermill router.
type LeaderboardRouter struct {
	logger   *slog.Logger
	Router   *message.Router
	bus      eventbus.EventBus
	tracer   trace.Tracer
	metrics  metrics.OperationMetrics
	registry *prometheus.Registry
}

// NewLeaderboardRouter creates the router. A nil registry disables router metrics.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	bus eventbus.EventBus,
	tracer trace.Tracer,
	m metrics.OperationMetrics,
	registry *prometheus.Registry,
) *LeaderboardRouter {
	return &LeaderboardRouter{
		logger:   logger,
		Router:   router,
		bus:      bus,
		tracer:   tracer,
		metrics:  m,
		registry: registry,
	}
}

// Configure adds the middleware and registers every handler.
func (r *LeaderboardRouter) Configure(ctx context.Context, handlers leaderboardhandlers.EventHandlers) error {
	if r.registry != nil {
		r.logger.InfoContext(ctx, "Adding Prometheus router metrics middleware for Leaderboard")
		wmmetrics.NewPrometheusMetricsBuilder(r.registry, "", "").AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		middleware.Recoverer,
	)

	r.RegisterHandlers(ctx, handlers)
	return nil
}

type handlerDeps struct {
	router  *message.Router
	bus     eventbus.EventBus
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics metrics.OperationMetrics
}

// registerHandler wires one topic through the typed wrapper. The wrapper
// publishes results itself, so the router needs no publisher.
func registerHandler[T any](
	deps handlerDeps,
	topic string,
	handler func(context.Context, *T) ([]handlerwrapper.Result, error),
) {
	handlerName := "leaderboard." + topic
	deps.router.AddNoPublisherHandler(
		handlerName,
		topic,
		deps.bus,
		handlerwrapper.WrapTransformingTyped(
			handlerName,
			deps.logger,
			deps.tracer,
			deps.bus,
			deps.metrics,
			handler,
		),
	)
}

// RegisterHandlers binds the topics that move the standings.
func (r *LeaderboardRouter) RegisterHandlers(ctx context.Context, handlers leaderboardhandlers.EventHandlers) {
	r.logger.InfoContext(ctx, "Registering Leaderboard Event Handlers")

	deps := handlerDeps{
		router:  r.Router,
		bus:     r.bus,
		logger:  r.logger,
		tracer:  r.tracer,
		metrics: r.metrics,
	}

	registerHandler(deps, gameevents.GameUpdatedV1, handlers.HandleGameUpdated)
	registerHandler(deps, pickevents.PickSubmittedV1, handlers.HandlePickSubmitted)
}

// Close stops the router.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
