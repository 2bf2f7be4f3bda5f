package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	authservice "github.com/Black-And-White-Club/pickem-bot/app/modules/auth/application"
	gameservice "github.com/Black-And-White-Club/pickem-bot/app/modules/game/application"
	gamedb "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories"
	gametime "github.com/Black-And-White-Club/pickem-bot/app/modules/game/time_utils"
	"github.com/Black-And-White-Club/pickem-bot/config"
	"github.com/Black-And-White-Club/pickem-bot/internal/db/bundb"
	"github.com/Black-And-White-Club/pickem-bot/pkg/observability"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	gamemigrations "github.com/Black-And-White-Club/pickem-bot/app/modules/game/infrastructure/repositories/migrations"
	pickmigrations "github.com/Black-And-White-Club/pickem-bot/app/modules/pick/infrastructure/repositories/migrations"
)

// moduleOrder keeps picks after games.
var moduleOrder = []string{"game", "pick"}

// runtime loads config and opens the database on first use, so commands that
// need neither (password hash) run without them.
type runtime struct {
	configFile string
	cfg        *config.Config
	db         *bun.DB
}

func (r *runtime) loadConfig() (*config.Config, error) {
	if r.cfg != nil {
		return r.cfg, nil
	}
	cfg, err := config.LoadConfig(r.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	r.cfg = cfg
	return cfg, nil
}

func (r *runtime) database(ctx context.Context) (*bun.DB, error) {
	if r.db != nil {
		return r.db, nil
	}
	cfg, err := r.loadConfig()
	if err != nil {
		return nil, err
	}
	db, err := bundb.Open(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	r.db = db
	return db, nil
}

func (r *runtime) migrators(ctx context.Context) (map[string]*migrate.Migrator, error) {
	db, err := r.database(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]*migrate.Migrator{
		"game": newMigrator(db, "game", gamemigrations.Migrations),
		"pick": newMigrator(db, "pick", pickmigrations.Migrations),
	}, nil
}

func (r *runtime) close() {
	if r.db != nil {
		r.db.Close()
	}
}

func main() {
	_ = godotenv.Load()

	rt := &runtime{}
	defer rt.close()

	cliApp := &cli.App{
		Name:  "bun",
		Usage: "pick'em maintenance commands",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Value:       "config.yaml",
				Usage:       "path to the configuration file",
				Destination: &rt.configFile,
			},
		},
		Commands: []*cli.Command{
			newMultiModuleDBCommand(rt),
			newRiverCommand(rt),
			newGamesCommand(rt),
			newPasswordCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		rt.close()
		log.Fatal(err)
	}
}

// Each module has its own migration and lock tables.
func newMigrator(db *bun.DB, module string, migrations *migrate.Migrations) *migrate.Migrator {
	return migrate.NewMigrator(db, migrations,
		migrate.WithTableName("bun_migrations_"+module),
		migrate.WithLocksTableName("bun_migration_locks_"+module),
	)
}

func newMultiModuleDBCommand(rt *runtime) *cli.Command {
	var migrators map[string]*migrate.Migrator
	return &cli.Command{
		Name:  "migrate",
		Usage: "database migrations",
		Before: func(c *cli.Context) error {
			m, err := rt.migrators(c.Context)
			if err != nil {
				return err
			}
			migrators = m
			return nil
		},
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration tables",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleOrder {
						fmt.Printf("Initializing migrations for module: %s\n", moduleName)
						if err := migrators[moduleName].Init(c.Context); err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
					}
					return nil
				},
			},
			{
				Name:  "migrate",
				Usage: "migrate database",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleOrder {
						migrator := migrators[moduleName]
						if err := migrator.Lock(c.Context); err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						group, err := migrator.Migrate(c.Context)
						_ = migrator.Unlock(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No new migrations to run for module: %s\n", moduleName)
						} else {
							fmt.Printf("Migrated module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:  "rollback",
				Usage: "rollback the last migration group",
				Action: func(c *cli.Context) error {
					for i := len(moduleOrder) - 1; i >= 0; i-- {
						moduleName := moduleOrder[i]
						group, err := migrators[moduleName].Rollback(c.Context)
						if err != nil {
							return fmt.Errorf("module %s: %w", moduleName, err)
						}
						if group.IsZero() {
							fmt.Printf("No groups to roll back for module: %s\n", moduleName)
						} else {
							fmt.Printf("Rolled back module: %s to %s\n", moduleName, group)
						}
					}
					return nil
				},
			},
			{
				Name:      "create_go",
				Usage:     "create Go migration",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					moduleName := c.Args().First()
					migrator, ok := migrators[moduleName]
					if !ok {
						return fmt.Errorf("invalid module name: %s", moduleName)
					}

					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrator.CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("Created migration for module %s: %s (%s)\n", moduleName, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migrations status",
				Action: func(c *cli.Context) error {
					for _, moduleName := range moduleOrder {
						ms, err := migrators[moduleName].MigrationsWithStatus(c.Context)
						if err != nil {
							return err
						}
						fmt.Printf("Migrations for module: %s\n", moduleName)
						fmt.Printf("  Applied: %s\n", ms.Applied())
						fmt.Printf("  Unapplied: %s\n", ms.Unapplied())
					}
					return nil
				},
			},
		},
	}
}

func newRiverCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "river",
		Usage: "job queue schema",
		Subcommands: []*cli.Command{
			{
				Name:  "migrate",
				Usage: "apply the River queue migrations",
				Action: func(c *cli.Context) error {
					cfg, err := rt.loadConfig()
					if err != nil {
						return err
					}
					pool, err := pgxpool.New(c.Context, cfg.Postgres.DSN)
					if err != nil {
						return fmt.Errorf("failed to create pgx pool: %w", err)
					}
					defer pool.Close()

					migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
					if err != nil {
						return err
					}
					res, err := migrator.Migrate(c.Context, rivermigrate.DirectionUp, nil)
					if err != nil {
						return err
					}
					for _, v := range res.Versions {
						fmt.Printf("Applied River migration %03d\n", v.Version)
					}
					if len(res.Versions) == 0 {
						fmt.Println("River schema is up to date")
					}
					return nil
				},
			},
		},
	}
}

func newGamesCommand(rt *runtime) *cli.Command {
	return &cli.Command{
		Name:  "games",
		Usage: "roster maintenance",
		Subcommands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "upsert games from an xlsx roster",
				ArgsUsage: "<file.xlsx>",
				Action: func(c *cli.Context) error {
					path := c.Args().First()
					if path == "" {
						return fmt.Errorf("usage: games import <file.xlsx>")
					}
					cfg, err := rt.loadConfig()
					if err != nil {
						return err
					}
					db, err := rt.database(c.Context)
					if err != nil {
						return err
					}
					f, err := os.Open(path)
					if err != nil {
						return err
					}
					defer f.Close()

					obs := observability.NewNoop()
					// Lock jobs and events are handled by the API on its next start.
					svc := gameservice.NewGameService(gamedb.NewRepository(db), nil, nil, nil,
						obs.Provider.Logger, obs.Registry.Metrics, obs.Registry.Tracer, db,
						gameservice.WithKickoffParser(gametime.NewTimeParser(cfg.League.Timezone)),
					)
					res, err := svc.ImportRoster(c.Context, f)
					if err != nil {
						return err
					}
					fmt.Printf("Inserted: %v\nUpdated: %v\nSkipped: %v\n", res.Inserted, res.Updated, res.Skipped)
					return nil
				},
			},
		},
	}
}

func newPasswordCommand() *cli.Command {
	return &cli.Command{
		Name:  "password",
		Usage: "credential helpers",
		Subcommands: []*cli.Command{
			{
				Name:      "hash",
				Usage:     "print a bcrypt hash for a player or admin password",
				ArgsUsage: "<password>",
				Action: func(c *cli.Context) error {
					if c.Args().Len() != 1 {
						return fmt.Errorf("usage: password hash <password>")
					}
					hash, err := authservice.HashPassword(c.Args().First())
					if err != nil {
						return err
					}
					fmt.Println(hash)
					return nil
				},
			},
		},
	}
}
