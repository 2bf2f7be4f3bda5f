package gameintegrationtests

import (
	"testing"

	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	"github.com/Black-And-White-Club/pickem-bot/integration_tests/testutils"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability/metrics"
	"go.opentelemetry.io/otel/trace/noop"
)

// GameTestDeps bundles a game service over the shared database.
type GameTestDeps struct {
	Env     *testutils.TestEnvironment
	Repo    gamedb.Repository
	Service *gameservice.GameService
}

// SetupTestGameService resets the tables and builds a service publishing on bus.
func SetupTestGameService(t *testing.T, bus eventbus.EventBus) GameTestDeps {
	t.Helper()
	env := testutils.GetTestEnv(t)
	env.Reset(t)

	repo := gamedb.NewRepository(env.DB)
	svc := gameservice.NewGameService(repo, bus, nil, nil, env.Logger, metrics.NewNoop(),
		noop.NewTracerProvider().Tracer("test"), env.DB)
	return GameTestDeps{Env: env, Repo: repo, Service: svc}
}
