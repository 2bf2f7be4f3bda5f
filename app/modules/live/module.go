package live

import (
	"context"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// Module runs the hub and the bus forwarder.
type Module struct {
	Hub           *Hub
	forwarder     *Forwarder
	observability observability.Observability
	cancelFunc    context.CancelFunc
}

// NewLiveModule mounts /api/live on httpRouter and registers a client gauge.
func NewLiveModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	httpRouter chi.Router,
) (*Module, error) {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "live.NewLiveModule initializing")

	hub := NewHub(logger)

	if obs.Registry.Prometheus != nil {
		gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "pickem_live_clients",
			Help: "Connected websocket clients.",
		}, func() float64 { return float64(hub.ClientCount()) })
		if err := obs.Registry.Prometheus.Register(gauge); err != nil {
			return nil, fmt.Errorf("live.NewLiveModule: failed to register gauge: %w", err)
		}
	}

	if httpRouter != nil {
		h := NewHandler(hub, cfg.HTTP.AllowedOrigins, logger)
		httpRouter.Get("/api/live", h.ServeHTTP)
		httpRouter.Get("/api/live/status", h.HandleStatus)
	}

	return &Module{
		Hub:           hub,
		forwarder:     NewForwarder(eventBus, hub, logger),
		observability: obs,
	}, nil
}

// Run subscribes to the public topics and serves the hub until ctx is cancelled.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting live module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.forwarder.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Live forwarder failed to start", attr.Error(err))
	}
	m.Hub.Run(ctx)
}

// Close stops the hub.
func (m *Module) Close() error {
	if m.cancelFunc != nil {
		m.cancelFunc()
	}
	m.observability.Provider.Logger.Info("Live module stopped")
	return nil
}
