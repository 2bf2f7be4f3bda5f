// Package observability builds the logger, tracer and metrics registry shared by
// every module.
package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Config selects log format, log level and the trace exporter.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	LogLevel       string
	OTLPEndpoint   string
	SampleRate     float64
}

// Provider owns the process-wide logger and tracer provider.
type Provider struct {
	Logger         *slog.Logger
	TracerProvider trace.TracerProvider
	shutdown       []func(context.Context) error
}

// Registry holds the instruments modules record into.
type Registry struct {
	Prometheus *prometheus.Registry
	Tracer     trace.Tracer
	Metrics    *metrics.Prometheus
}

// Observability is handed to every module constructor.
type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Init builds logging, tracing and metrics from cfg.
func Init(ctx context.Context, cfg Config) (Observability, error) {
	if cfg.ServiceName == "" {
		cfg.ServiceName = "pickem-bot"
	}
	logger := NewLogger(os.Stdout, cfg)

	provider := &Provider{Logger: logger}
	if cfg.OTLPEndpoint != "" {
		tp, err := newTracerProvider(ctx, cfg)
		if err != nil {
			return Observability{}, fmt.Errorf("failed to create tracer provider: %w", err)
		}
		otel.SetTracerProvider(tp)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
		provider.TracerProvider = tp
		provider.shutdown = append(provider.shutdown, tp.Shutdown)
		logger.InfoContext(ctx, "Tracing enabled", slog.String("endpoint", cfg.OTLPEndpoint))
	} else {
		provider.TracerProvider = noop.NewTracerProvider()
		logger.InfoContext(ctx, "Tracing disabled, no OTLP endpoint configured")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return Observability{
		Provider: provider,
		Registry: &Registry{
			Prometheus: reg,
			Tracer:     provider.TracerProvider.Tracer(cfg.ServiceName),
			Metrics:    metrics.NewPrometheus(reg),
		},
	}, nil
}

// NewNoop returns observability that discards logs, spans and metrics. Used by tests.
func NewNoop() Observability {
	tp := noop.NewTracerProvider()
	reg := prometheus.NewRegistry()
	return Observability{
		Provider: &Provider{
			Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
			TracerProvider: tp,
		},
		Registry: &Registry{
			Prometheus: reg,
			Tracer:     tp.Tracer("noop"),
			Metrics:    metrics.NewPrometheus(reg),
		},
	}
}

// NewLogger returns a tint console logger in development and JSON otherwise.
func NewLogger(w io.Writer, cfg Config) *slog.Logger {
	level := parseLevel(cfg.LogLevel)

	var handler slog.Handler
	if strings.EqualFold(cfg.Environment, "development") {
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(handler)
	if cfg.ServiceName != "" {
		logger = logger.With(slog.String("service", cfg.ServiceName))
	}
	return logger
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newTracerProvider(ctx context.Context, cfg Config) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	res := resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	)

	sampler := sdktrace.AlwaysSample()
	if cfg.SampleRate > 0 && cfg.SampleRate < 1 {
		sampler = sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

// MetricsHandler exposes the registry in the prometheus text format.
func (o Observability) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(o.Registry.Prometheus, promhttp.HandlerOpts{})
}

// Shutdown flushes the tracer provider.
func (o Observability) Shutdown(ctx context.Context) error {
	if o.Provider == nil {
		return nil
	}
	var errs []error
	for _, fn := range o.Provider.shutdown {
		if err := fn(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
