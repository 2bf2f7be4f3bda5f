package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSONInProduction(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Config{ServiceName: "pickem-bot", Environment: "production", LogLevel: "info"})

	logger.Debug("hidden")
	logger.Info("Operation triggered", slog.String("operation", "SubmitPick"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "Operation triggered", entry["msg"])
	assert.Equal(t, "SubmitPick", entry["operation"])
	assert.Equal(t, "pickem-bot", entry["service"])
}

func TestNewLogger_ConsoleInDevelopment(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Config{Environment: "development", LogLevel: "debug"})

	logger.Debug("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestInit_WithoutEndpointUsesNoopTracing(t *testing.T) {
	obs, err := Init(context.Background(), Config{Environment: "test", LogLevel: "error"})
	require.NoError(t, err)

	_, span := obs.Registry.Tracer.Start(context.Background(), "op")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	assert.NoError(t, obs.Shutdown(context.Background()))
}

func TestMetricsHandler(t *testing.T) {
	obs := NewNoop()
	obs.Registry.Metrics.TeamLookupMiss()

	rec := httptest.NewRecorder()
	obs.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "pickem_team_lookup_misses_total 1")
}
