package pick

import (
	"context"

	pickservice "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/application"
	pickhandlers "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/infrastructure/handlers"
	pickdb "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/infrastructure/repositories"
	scoringdomain "github.com/Black-And-White-Club/pickem-bot/app/modules/scoring/domain"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Module represents the pick module.
type Module struct {
	PickService   pickservice.Service
	observability observability.Observability
}

// NewPickModule wires the pick store, service and routes.
func NewPickModule(
	ctx context.Context,
	cfg *config.Config,
	obs observability.Observability,
	eventBus eventbus.EventBus,
	games pickservice.GameReader,
	httpRouter chi.Router,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	tracer := obs.Registry.Tracer

	logger.InfoContext(ctx, "pick.NewPickModule initializing")

	roster := make([]scoringdomain.Player, 0, len(cfg.League.Players))
	for _, name := range cfg.PlayerNames() {
		roster = append(roster, scoringdomain.Player(name))
	}

	repo := pickdb.NewRepository(db)
	service := pickservice.NewPickService(repo, games, eventBus, roster, scoringdomain.RealClock{}, logger, obs.Registry.Metrics, tracer)

	if httpRouter != nil {
		pickhandlers.Mount(httpRouter, pickhandlers.NewPickHandlers(service, logger, tracer))
	}

	return &Module{
		PickService:   service,
		observability: obs,
	}, nil
}

// Close shuts down the pick module.
func (m *Module) Close() error {
	m.observability.Provider.Logger.Info("Pick module stopped")
	return nil
}
