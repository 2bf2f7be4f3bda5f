package pickintegrationtests

import (
	"context"
	"testing"
	"time"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	pickservice "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/application"
	pickdb "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/integration_tests/testutils"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

// PickTestDeps wires the pick service to a seeded wild card slate.
type PickTestDeps struct {
	Env    *testutils.TestEnvironment
	Games  *gameservice.GameService
	Slate  []scoringdomain.Game
	Roster []scoringdomain.Player
}

// SetupTestPickService seeds the slate, the first game kicking off an hour after start.
func SetupTestPickService(t *testing.T, start time.Time, roster ...scoringdomain.Player) PickTestDeps {
	t.Helper()
	env := testutils.GetTestEnv(t)
	env.Reset(t)

	tracer := noop.NewTracerProvider().Tracer("test")
	games := gameservice.NewGameService(gamedb.NewRepository(env.DB), nil, nil, nil, env.Logger,
		metrics.NewNoop(), tracer, env.DB)

	slate := testutils.NewTestDataGenerator(3).WildCardSlate(start.Add(time.Hour))
	_, err := games.SeedRoster(context.Background(), slate)
	require.NoError(t, err)

	return PickTestDeps{Env: env, Games: games, Slate: slate, Roster: roster}
}

// ServiceAt returns a pick service whose clock is frozen at now.
func (d PickTestDeps) ServiceAt(now time.Time) *pickservice.PickService {
	return pickservice.NewPickService(pickdb.NewRepository(d.Env.DB), d.Games, nil, d.Roster,
		scoringdomain.FixedClock{T: now}, d.Env.Logger, metrics.NewNoop(), noop.NewTracerProvider().Tracer("test"))
}
