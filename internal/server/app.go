package server

import (
	"context"
	"fmt"
	"log/slog"

	"starmap-server/internal/galaxy"
	"starmap-server/internal/shared/config"
	"starmap-server/internal/shared/database"
	"starmap-server/internal/shared/redis"
)

const memoryCacheEntries = 10000

// App holds the long-lived dependencies shared by the HTTP and MCP
// binaries. DB and Redis are nil when disabled.
type App struct {
	DB     *database.DB
	Redis  *redis.Client
	Galaxy *galaxy.Service
	logger *slog.Logger
}

// Bootstrap connects storage, loads or generates the galaxy and picks the
// route cache.
func Bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	app := &App{logger: logger}

	gens, err := config.LoadGenerators(cfg.Galaxy.GeneratorsPath)
	if err != nil {
		return nil, err
	}
	names, err := config.LoadNames(cfg.Galaxy.NamesPath)
	if err != nil {
		return nil, err
	}

	var repo *galaxy.Repository
	if cfg.Database.Enabled {
		app.DB, err = database.Connect(ctx, database.Options{
			Driver:          cfg.Database.Driver,
			DSN:             cfg.ConnectionString(),
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		if err := app.DB.RunMigrations(ctx); err != nil {
			app.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
		repo = galaxy.NewRepository(app.DB, logger)
	} else {
		logger.Info("Database disabled, galaxy will not be persisted")
	}

	app.Redis, err = redis.Connect(ctx, cfg.Redis)
	if err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var cache galaxy.RouteCache = galaxy.NewMemoryCache(memoryCacheEntries)
	if app.Redis != nil {
		cache = galaxy.NewRedisCache(app.Redis)
	}

	app.Galaxy = galaxy.NewService(repo, cache, galaxy.SettingsFromConfig(cfg.Galaxy), logger)
	if err := app.Galaxy.Initialize(ctx, gens, names); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize galaxy: %w", err)
	}

	info := app.Galaxy.Info()
	logger.Info("Galaxy ready",
		"galaxy_id", info.ID,
		"name", info.Name,
		"seed", info.Seed,
		"systems", info.SystemCount,
		"sectors", info.SectorCount,
	)
	return app, nil
}

func (a *App) Close() {
	if err := a.Redis.Close(); err != nil {
		a.logger.Error("Failed to close Redis", "error", err)
	}
	if a.DB != nil {
		if err := a.DB.Close(); err != nil {
			a.logger.Error("Failed to close database", "error", err)
		}
	}
}
