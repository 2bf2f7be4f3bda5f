// Package app assembles the HTTP API, the event bus and the modules.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	authhandlers "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/infrastructure/handlers"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/internal/db/bundb"
	"github.com/Black-And-White-Club/pickem-bot/internal/modules"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const shutdownTimeout = 15 * time.Second

// App owns every long-lived resource of the API process.
type App struct {
	Config        *config.Config
	Observability observability.Observability
	DB            *bun.DB
	EventBus      eventbus.EventBus
	LiveBus       eventbus.EventBus
	Router        chi.Router
	Modules       *modules.ModuleRegistry
}

// NewApp connects the database and the bus and builds the modules.
func NewApp(ctx context.Context, cfg *config.Config, obs observability.Observability) (*App, error) {
	logger := obs.Provider.Logger

	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, err
	}

	bus, liveBus, err := NewEventBuses(ctx, cfg, obs)
	if err != nil {
		db.Close()
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Recoverer,
		authhandlers.CORSMiddleware(cfg.HTTP.AllowedOrigins),
	)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	registry, err := modules.NewModuleRegistry(ctx, modules.Deps{
		Config:        cfg,
		Observability: obs,
		EventBus:      bus,
		LiveBus:       liveBus,
		Router:        router,
		DB:            db,
	})
	if err != nil {
		closeBuses(bus, liveBus)
		db.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "Application initialized",
		attr.String("http_address", cfg.HTTP.Address),
		attr.Bool("nats", cfg.NATS.URL != ""),
		attr.Bool("redis", cfg.Redis.URL != ""),
		attr.Bool("feed", cfg.Feed.Enabled),
	)

	return &App{
		Config:        cfg,
		Observability: obs,
		DB:            db,
		EventBus:      bus,
		LiveBus:       liveBus,
		Router:        router,
		Modules:       registry,
	}, nil
}

// NewEventBuses returns the module bus and the bus for the live hub. Without a
// NATS URL both are the same in-process bus.
func NewEventBuses(ctx context.Context, cfg *config.Config, obs observability.Observability) (eventbus.EventBus, eventbus.EventBus, error) {
	logger := obs.Provider.Logger
	if cfg.NATS.URL == "" {
		logger.WarnContext(ctx, "NATS_URL not set, using the in-process event bus")
		bus := eventbus.NewMemoryBus(logger)
		return bus, bus, nil
	}

	bus, err := eventbus.NewNatsBus(ctx, eventbus.NatsConfig{
		URL:           cfg.NATS.URL,
		ConsumerGroup: cfg.NATS.ConsumerGroup,
	}, logger)
	if err != nil {
		return nil, nil, err
	}
	liveBus, err := eventbus.NewNatsBus(ctx, eventbus.NatsConfig{
		URL:           cfg.NATS.URL,
		ConsumerGroup: cfg.NATS.ConsumerGroup + "-live",
	}, logger)
	if err != nil {
		bus.Close()
		return nil, nil, err
	}
	return bus, liveBus, nil
}

// Run serves HTTP and the modules until ctx is cancelled, then shuts down.
func (a *App) Run(ctx context.Context) error {
	logger := a.Observability.Provider.Logger

	api := &http.Server{
		Addr:              a.Config.HTTP.Address,
		Handler:           otelhttp.NewHandler(a.Router, "pickem-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var metricsSrv *http.Server
	if addr := a.Config.Observability.MetricsAddress; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", a.Observability.MetricsHandler())
		metricsSrv = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
		go serve(ctx, a, metricsSrv, "metrics")
	}

	modulesDone := make(chan struct{})
	go func() {
		a.Modules.Run(ctx)
		close(modulesDone)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "HTTP server listening", attr.String("address", api.Addr))
		if err := api.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	var runErr error
	select {
	case <-ctx.Done():
	case err, ok := <-serveErr:
		if ok {
			runErr = fmt.Errorf("http server: %w", err)
		}
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := api.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", attr.Error(err))
	}
	if metricsSrv != nil {
		_ = metricsSrv.Shutdown(shutdownCtx)
	}
	if err := a.Close(); err != nil {
		logger.Error("Module shutdown failed", attr.Error(err))
	}

	select {
	case <-modulesDone:
	case <-shutdownCtx.Done():
		logger.Warn("Modules did not stop before the shutdown deadline")
	}

	closeBuses(a.EventBus, a.LiveBus)
	if err := a.DB.Close(); err != nil {
		logger.Error("Database close failed", attr.Error(err))
	}
	if err := a.Observability.Shutdown(shutdownCtx); err != nil {
		logger.Error("Observability shutdown failed", attr.Error(err))
	}
	return runErr
}

// Close stops the modules.
func (a *App) Close() error {
	return a.Modules.Close()
}

func serve(ctx context.Context, a *App, srv *http.Server, name string) {
	a.Observability.Provider.Logger.InfoContext(ctx, "Listener started", attr.String("name", name), attr.String("address", srv.Addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		a.Observability.Provider.Logger.Error("Listener failed", attr.String("name", name), attr.Error(err))
	}
}

func closeBuses(bus, liveBus eventbus.EventBus) {
	if bus != nil {
		_ = bus.Close()
	}
	if liveBus != nil && liveBus != bus {
		_ = liveBus.Close()
	}
}
