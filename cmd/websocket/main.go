// Command websocket runs the live update hub on its own, for deployments that
// scale websocket connections separately from the API.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/pickem-bot/app/modules/live"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
)

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()
	_ = godotenv.Load()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.NATS.URL == "" {
		log.Fatal("NATS_URL is required for the standalone websocket server")
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:  "pickem-websocket",
		Environment:  cfg.Observability.Environment,
		LogLevel:     cfg.Observability.LogLevel,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		SampleRate:   cfg.Observability.SampleRate,
	})
	if err != nil {
		log.Fatalf("Failed to initialize observability: %v", err)
	}
	logger := obs.Provider.Logger
	logger.Info("Starting WebSocket server")

	// Every replica needs every public event, so each host gets its own group.
	host, _ := os.Hostname()
	bus, err := eventbus.NewNatsBus(ctx, eventbus.NatsConfig{
		URL:           cfg.NATS.URL,
		ConsumerGroup: cfg.NATS.ConsumerGroup + "-live-" + host,
	}, logger)
	if err != nil {
		log.Fatalf("Failed to create event bus: %v", err)
	}
	defer bus.Close()

	router := chi.NewRouter()
	router.Handle("/metrics", obs.MetricsHandler())

	wsModule, err := live.NewLiveModule(ctx, cfg, obs, bus, router)
	if err != nil {
		log.Fatalf("Failed to create WebSocket module: %v", err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go wsModule.Run(ctx, &wg)

	srv := &http.Server{Addr: cfg.HTTP.Address, Handler: router, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("WebSocket listener failed", "error", err)
			cancel()
		}
	}()

	logger.Info("WebSocket server started successfully", "address", cfg.HTTP.Address)
	<-ctx.Done()
	logger.Info("Shutting down WebSocket server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
	_ = wsModule.Close()
	wg.Wait()
	_ = obs.Shutdown(shutdownCtx)

	logger.Info("WebSocket server stopped")
}
