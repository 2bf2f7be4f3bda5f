package modules

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Black-And-White-Club/pickem-bot/app/modules/auth"
	"github.com/Black-And-White-Club/pickem-bot/app/modules/game"
	"github.com/Black-And-White-Club/pickem-bot/app/modules/leaderboard"
	"github.com/Black-And-White-Club/pickem-bot/app/modules/live"
	"github.com/Black-And-White-Club/pickem-bot/app/modules/pick"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/pkg/eventbus"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/uptrace/bun"
)

// Deps are the shared resources every module is built from.
type Deps struct {
	Config        *config.Config
	Observability observability.Observability
	EventBus      eventbus.EventBus
	// LiveBus feeds the websocket hub. It must deliver every public event to
	// this process, so on NATS it uses its own consumer group.
	LiveBus eventbus.EventBus
	Router  chi.Router
	DB      *bun.DB
}

// ModuleRegistry stores and manages application modules.
type ModuleRegistry struct {
	AuthModule        *auth.Module
	GameModule        *game.Module
	PickModule        *pick.Module
	LeaderboardModule *leaderboard.Module
	LiveModule        *live.Module
}

// NewModuleRegistry builds the modules. Auth comes first because every other
// router is mounted behind its middleware.
func NewModuleRegistry(ctx context.Context, d Deps) (*ModuleRegistry, error) {
	authModule, err := auth.NewModule(ctx, d.Config, d.Observability, d.Router)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize auth module: %w", err)
	}
	api := d.Router.With(authModule.Authenticate())

	gameModule, err := game.NewGameModule(ctx, d.Config, d.Observability, d.EventBus, api, authModule.RequireAdmin(), d.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize game module: %w", err)
	}

	pickModule, err := pick.NewPickModule(ctx, d.Config, d.Observability, d.EventBus, gameModule.GameService, api, d.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pick module: %w", err)
	}

	leaderboardModule, err := leaderboard.NewLeaderboardModule(ctx, d.Config, d.Observability, d.EventBus, gameModule.GameService, pickModule.PickService, api)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}

	liveBus := d.LiveBus
	if liveBus == nil {
		liveBus = d.EventBus
	}
	liveModule, err := live.NewLiveModule(ctx, d.Config, d.Observability, liveBus, api)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize live module: %w", err)
	}

	return &ModuleRegistry{
		AuthModule:        authModule,
		GameModule:        gameModule,
		PickModule:        pickModule,
		LeaderboardModule: leaderboardModule,
		LiveModule:        liveModule,
	}, nil
}

// Runners lists the modules with background work, subscribers first.
func (r *ModuleRegistry) Runners() []Runner {
	return []Runner{r.LiveModule, r.LeaderboardModule, r.GameModule}
}

// Run starts every runner and blocks until they all return.
func (r *ModuleRegistry) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, m := range r.Runners() {
		wg.Add(1)
		go m.Run(ctx, &wg)
	}
	wg.Wait()
}

// Close closes every module and joins their errors.
func (r *ModuleRegistry) Close() error {
	var errs []error
	for _, m := range r.Runners() {
		errs = append(errs, m.Close())
	}
	errs = append(errs, r.PickModule.Close(), r.AuthModule.Close())
	return errors.Join(errs...)
}
