package galaxy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"starmap-server/internal/planet"
	"starmap-server/internal/sector"
	"starmap-server/internal/shared/database"
	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

// Repository persists whole galaxies. A stored galaxy reloads with the same
// insertion order, so every query answers identically after a restart.
type Repository struct {
	db      *database.DB
	systems *system.Repository
	planets *planet.Repository
	sectors *sector.Repository
	logger  *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing galaxy repository")

	return &Repository{
		db:      db,
		systems: system.NewRepository(db, logger),
		planets: planet.NewRepository(db, logger),
		sectors: sector.NewRepository(db, logger),
		logger:  logger,
	}
}

func (r *Repository) SaveGalaxy(ctx context.Context, info Info, g *Galaxy) error {
	logger := r.logger.With(
		"component", "galaxy_repository",
		"operation", "save_galaxy",
		"galaxy_id", info.ID,
		"name", info.Name,
	)
	logger.Info("Saving galaxy")

	systems := g.Systems()
	sectors := g.Sectors()

	tx, err := r.db.BeginTxContext(ctx)
	if err != nil {
		logger.Error("Failed to begin transaction", "error", err)
		return err
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Error("Failed to rollback transaction", "error", err)
		}
	}()

	query := r.db.Rebind(`
		INSERT INTO galaxies (id, name, seed, cell_size, sector_size, system_count, created_at_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if _, err := tx.ExecContext(ctx, query,
		info.ID,
		info.Name,
		int64(info.Seed),
		g.CellSize(),
		g.SectorSize(),
		len(systems),
		info.CreatedAt.UnixMilli(),
	); err != nil {
		logger.Error("Failed to create galaxy", "error", err)
		return fmt.Errorf("failed to create galaxy: %w", err)
	}

	if err := r.systems.CreateSystems(ctx, tx, info.ID, systems); err != nil {
		return err
	}
	for i, s := range systems {
		if err := r.planets.CreatePlanets(ctx, tx, info.ID, i, s.Planets); err != nil {
			return err
		}
	}
	if err := r.sectors.CreateSectors(ctx, tx, info.ID, sectors); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		logger.Error("Failed to commit galaxy", "error", err)
		return fmt.Errorf("failed to commit galaxy: %w", err)
	}

	logger.Info("Galaxy saved successfully", "systems", len(systems), "sectors", len(sectors))
	return nil
}

// LatestGalaxyID returns the most recently created galaxy, or "" if none is
// stored. Identifiers are time ordered.
func (r *Repository) LatestGalaxyID(ctx context.Context) (string, error) {
	var id string
	err := r.db.QueryRowContext(ctx, `SELECT id FROM galaxies ORDER BY created_at_ms DESC, id DESC LIMIT 1`).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query latest galaxy: %w", err)
	}
	return id, nil
}

func (r *Repository) LoadGalaxy(ctx context.Context, id string) (Info, *Galaxy, error) {
	logger := r.logger.With("component", "galaxy_repository", "operation", "load_galaxy", "galaxy_id", id)
	logger.Debug("Loading galaxy")

	query := r.db.Rebind(`
		SELECT id, name, seed, cell_size, sector_size, system_count, created_at_ms
		FROM galaxies
		WHERE id = $1
	`)

	var (
		info      Info
		seed      int64
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&info.ID,
		&info.Name,
		&seed,
		&info.CellSize,
		&info.SectorSize,
		&info.SystemCount,
		&createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, nil, fmt.Errorf("galaxy %s not found", id)
	}
	if err != nil {
		logger.Error("Failed to query galaxy", "error", err)
		return Info{}, nil, fmt.Errorf("failed to query galaxy: %w", err)
	}
	info.Seed = uint64(seed)
	info.CreatedAt = time.UnixMilli(createdAt).UTC()

	systems, err := r.systems.GetSystemsByGalaxyID(ctx, id)
	if err != nil {
		return Info{}, nil, err
	}
	if len(systems) != info.SystemCount {
		return Info{}, nil, fmt.Errorf("galaxy %s has %d stored systems, expected %d", id, len(systems), info.SystemCount)
	}

	planets, err := r.planets.GetPlanetsByGalaxyID(ctx, id)
	if err != nil {
		return Info{}, nil, err
	}
	for i := range systems {
		systems[i].Planets = planets[i]
		if systems[i].Planets == nil {
			systems[i].Planets = []planet.Planet{}
		}
	}

	sectors, err := r.sectors.GetSectorsByGalaxyID(ctx, id)
	if err != nil {
		return Info{}, nil, err
	}

	g, err := New(systems, sectors, Options{CellSize: info.CellSize, SectorSize: info.SectorSize})
	if err != nil {
		logger.Error("Failed to index stored galaxy", "error", err)
		return Info{}, nil, fmt.Errorf("failed to index stored galaxy: %w", err)
	}
	info.SectorCount = len(g.Sectors())

	logger.Info("Galaxy loaded", "systems", info.SystemCount, "sectors", info.SectorCount)
	return info, g, nil
}

func (r *Repository) RenameSystem(ctx context.Context, galaxyID string, loc spatial.Location, name string) error {
	return r.systems.UpdateSystemName(ctx, galaxyID, loc, name)
}
