package planet

import (
	"context"
	"fmt"
	"log/slog"

	"starmap-server/internal/shared/database"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing planet repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

func (r *Repository) CreatePlanets(ctx context.Context, ex database.Executor, galaxyID string, systemPosition int, planets []Planet) error {
	query := r.db.Rebind(`
		INSERT INTO planets (galaxy_id, system_position, position, name, mass, gravity, orbit_distance, surface_temperature, planet_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)

	for i, p := range planets {
		_, err := ex.ExecContext(ctx, query,
			galaxyID,
			systemPosition,
			i,
			p.Name,
			p.Mass,
			p.Gravity,
			p.OrbitDistance,
			p.SurfaceTemperature,
			string(p.Type),
		)
		if err != nil {
			r.logger.Error("Failed to create planet",
				"component", "planet_repository",
				"galaxy_id", galaxyID,
				"system_position", systemPosition,
				"planet_index", i,
				"error", err,
			)
			return fmt.Errorf("failed to create planet %d of system %d: %w", i, systemPosition, err)
		}
	}
	return nil
}

// GetPlanetsByGalaxyID returns planets grouped by system position, each
// group in stored order.
func (r *Repository) GetPlanetsByGalaxyID(ctx context.Context, galaxyID string) (map[int][]Planet, error) {
	logger := r.logger.With("component", "planet_repository", "operation", "get_planets_by_galaxy", "galaxy_id", galaxyID)

	query := r.db.Rebind(`
		SELECT system_position, name, mass, gravity, orbit_distance, surface_temperature, planet_type
		FROM planets
		WHERE galaxy_id = $1
		ORDER BY system_position, position
	`)

	rows, err := r.db.QueryContext(ctx, query, galaxyID)
	if err != nil {
		logger.Error("Failed to query planets", "error", err)
		return nil, fmt.Errorf("failed to query planets: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	planets := make(map[int][]Planet)
	count := 0
	for rows.Next() {
		var (
			systemPosition int
			p              Planet
			planetType     string
		)
		if err := rows.Scan(&systemPosition, &p.Name, &p.Mass, &p.Gravity, &p.OrbitDistance, &p.SurfaceTemperature, &planetType); err != nil {
			logger.Error("Failed to scan planet", "error", err)
			return nil, fmt.Errorf("failed to scan planet: %w", err)
		}

		p.Type = Type(planetType)
		if !p.Type.Valid() {
			return nil, fmt.Errorf("unknown planet type %q", planetType)
		}
		planets[systemPosition] = append(planets[systemPosition], p)
		count++
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error iterating planet rows", "error", err)
		return nil, fmt.Errorf("error iterating planets: %w", err)
	}

	logger.Debug("Retrieved planets", "count", count)
	return planets, nil
}
