// Package metrics defines the prometheus instruments the services record into.
package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pickem"

// OperationMetrics is recorded by every service's withTelemetry wrapper.
type OperationMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation, service string)
	RecordOperationSuccess(ctx context.Context, operation, service string)
	RecordOperationFailure(ctx context.Context, operation, service string)
	RecordOperationDuration(ctx context.Context, operation, service string, d time.Duration)
}

// FeedMetrics is recorded by the scoreboard poller.
type FeedMetrics interface {
	RecordPoll(ctx context.Context, outcome string, d time.Duration)
	RecordGamesChanged(ctx context.Context, n int)
	RecordWinnerConflict(ctx context.Context)
}

// CacheMetrics is recorded by the standings cache.
type CacheMetrics interface {
	RecordCacheHit(ctx context.Context, cache string)
	RecordCacheMiss(ctx context.Context, cache string)
}

// Prometheus implements every metrics interface in this package on one registry.
type Prometheus struct {
	attempts  *prometheus.CounterVec
	successes *prometheus.CounterVec
	failures  *prometheus.CounterVec
	duration  *prometheus.HistogramVec

	polls        *prometheus.CounterVec
	pollDuration prometheus.Histogram
	gamesChanged prometheus.Counter
	conflicts    prometheus.Counter

	cacheLookups *prometheus.CounterVec

	teamLookupMisses prometheus.Counter
}

// NewPrometheus creates and registers the instruments on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	labels := []string{"operation", "service"}
	m := &Prometheus{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_attempts_total",
			Help: "Service operations started.",
		}, labels),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_success_total",
			Help: "Service operations that returned without an infrastructure error.",
		}, labels),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "operation_failures_total",
			Help: "Service operations that returned an error or panicked.",
		}, labels),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "operation_duration_seconds",
			Help:    "Service operation latency.",
			Buckets: prometheus.DefBuckets,
		}, labels),
		polls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "feed", Name: "polls_total",
			Help: "Scoreboard polls by outcome.",
		}, []string{"outcome"}),
		pollDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: "feed", Name: "poll_duration_seconds",
			Help:    "Scoreboard poll latency.",
			Buckets: prometheus.DefBuckets,
		}),
		gamesChanged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "feed", Name: "games_changed_total",
			Help: "Games updated or created from the scoreboard feed.",
		}),
		conflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "feed", Name: "winner_conflicts_total",
			Help: "Feed results that disagreed with an admin-set winner.",
		}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "cache", Name: "lookups_total",
			Help: "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		teamLookupMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "team_lookup_misses_total",
			Help: "Team names that fell back to the default seed.",
		}),
	}
	reg.MustRegister(
		m.attempts, m.successes, m.failures, m.duration,
		m.polls, m.pollDuration, m.gamesChanged, m.conflicts,
		m.cacheLookups, m.teamLookupMisses,
	)
	return m
}

func (m *Prometheus) RecordOperationAttempt(_ context.Context, operation, service string) {
	m.attempts.WithLabelValues(operation, service).Inc()
}

func (m *Prometheus) RecordOperationSuccess(_ context.Context, operation, service string) {
	m.successes.WithLabelValues(operation, service).Inc()
}

func (m *Prometheus) RecordOperationFailure(_ context.Context, operation, service string) {
	m.failures.WithLabelValues(operation, service).Inc()
}

func (m *Prometheus) RecordOperationDuration(_ context.Context, operation, service string, d time.Duration) {
	m.duration.WithLabelValues(operation, service).Observe(d.Seconds())
}

func (m *Prometheus) RecordPoll(_ context.Context, outcome string, d time.Duration) {
	m.polls.WithLabelValues(outcome).Inc()
	m.pollDuration.Observe(d.Seconds())
}

func (m *Prometheus) RecordGamesChanged(_ context.Context, n int) {
	m.gamesChanged.Add(float64(n))
}

func (m *Prometheus) RecordWinnerConflict(_ context.Context) {
	m.conflicts.Inc()
}

func (m *Prometheus) RecordCacheHit(_ context.Context, cache string) {
	m.cacheLookups.WithLabelValues(cache, "hit").Inc()
}

func (m *Prometheus) RecordCacheMiss(_ context.Context, cache string) {
	m.cacheLookups.WithLabelValues(cache, "miss").Inc()
}

// TeamLookupMiss counts a directory miss. Names are not labelled to keep
// cardinality bounded; the warn log carries the name.
func (m *Prometheus) TeamLookupMiss() {
	m.teamLookupMisses.Inc()
}

// Noop discards everything.
type Noop struct{}

// NewNoop returns metrics that record nothing.
func NewNoop() *Noop {
	return &Noop{}
}

func (*Noop) RecordOperationAttempt(context.Context, string, string) {}
func (*Noop) RecordOperationSuccess(context.Context, string, string) {}
func (*Noop) RecordOperationFailure(context.Context, string, string) {}
func (*Noop) RecordOperationDuration(context.Context, string, string, time.Duration) {}
func (*Noop) RecordPoll(context.Context, string, time.Duration) {}
func (*Noop) RecordGamesChanged(context.Context, int) {}
func (*Noop) RecordWinnerConflict(context.Context) {}
func (*Noop) RecordCacheHit(context.Context, string) {}
func (*Noop) RecordCacheMiss(context.Context, string) {}
func (*Noop) TeamLookupMiss() {}

var (
	_ OperationMetrics = (*Prometheus)(nil)
	_ FeedMetrics      = (*Prometheus)(nil)
	_ CacheMetrics     = (*Prometheus)(nil)
	_ OperationMetrics = (*Noop)(nil)
	_ FeedMetrics      = (*Noop)(nil)
	_ CacheMetrics     = (*Noop)(nil)
)
