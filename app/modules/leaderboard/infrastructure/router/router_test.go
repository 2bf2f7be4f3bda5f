package leaderboardrouter

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	gameevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/game"
	leaderboardevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/leaderboard"
	pickevents "github.com/Black-And-White-Club/pickem-bot/pkg/events/pick"
	"github.com/Black-And-White-Club/pickem-bot/pkg/handlerwrapper"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

type stubHandlers struct {
	gameCalls chan string
}

func (s *stubHandlers) HandleGameUpdated(_ context.Context, p *gameevents.GameUpdatedPayloadV1) ([]handlerwrapper.Result, error) {
	s.gameCalls <- p.Reason
	return []handlerwrapper.Result{{
		Topic:   leaderboardevents.StandingsUpdatedV1,
		Payload: leaderboardevents.StandingsUpdatedPayloadV1{Trigger: gameevents.GameUpdatedV1},
	}}, nil
}

func (s *stubHandlers) HandlePickSubmitted(context.Context, *pickevents.PickSubmittedPayloadV1) ([]handlerwrapper.Result, error) {
	return nil, nil
}

func TestLeaderboardRouter_RecomputesOnGameUpdate(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := eventbus.NewMemoryBus(logger)
	defer bus.Close()

	out, err := bus.Subscribe(ctx, leaderboardevents.StandingsUpdatedV1)
	require.NoError(t, err)

	wm, err := message.NewRouter(message.RouterConfig{}, watermill.NewSlogLogger(logger))
	require.NoError(t, err)

	r := NewLeaderboardRouter(logger, wm, bus, noop.NewTracerProvider().Tracer("test"), nil, prometheus.NewRegistry())
	handlers := &stubHandlers{gameCalls: make(chan string, 1)}
	require.NoError(t, r.Configure(ctx, handlers))

	go func() { _ = wm.Run(ctx) }()
	defer r.Close()
	<-wm.Running()

	require.NoError(t, eventbus.PublishJSON(ctx, bus, gameevents.GameUpdatedV1, gameevents.GameUpdatedPayloadV1{
		GameIDs: []string{"wc-1"},
		Reason:  gameevents.ReasonWinnerSet,
	}))

	select {
	case reason := <-handlers.gameCalls:
		assert.Equal(t, gameevents.ReasonWinnerSet, reason)
	case <-ctx.Done():
		t.Fatal("handler was not called")
	}

	select {
	case msg := <-out:
		msg.Ack()
		var p leaderboardevents.StandingsUpdatedPayloadV1
		require.NoError(t, json.Unmarshal(msg.Payload, &p))
		assert.Equal(t, gameevents.GameUpdatedV1, p.Trigger)
	case <-ctx.Done():
		t.Fatal("standings update was not published")
	}
}
