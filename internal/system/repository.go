package system

import (
	"context"
	"fmt"
	"log/slog"

	"starmap-server/internal/shared/database"
	"starmap-server/internal/spatial"
)

type Repository struct {
	db     *database.DB
	logger *slog.Logger
}

func NewRepository(db *database.DB, logger *slog.Logger) *Repository {
	logger.Debug("Initializing system repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateSystems stores systems with their position in the given order.
// Planets are stored separately by the planet repository.
func (r *Repository) CreateSystems(ctx context.Context, ex database.Executor, galaxyID string, systems []System) error {
	logger := r.logger.With(
		"component", "system_repository",
		"operation", "create_systems",
		"galaxy_id", galaxyID,
		"count", len(systems),
	)
	logger.Debug("Creating systems")

	query := r.db.Rebind(`
		INSERT INTO systems (galaxy_id, position, x, y, z, name, star_mass, star_luminosity, star_metallicity)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`)

	for i, s := range systems {
		_, err := ex.ExecContext(ctx, query,
			galaxyID,
			i,
			s.Location.X,
			s.Location.Y,
			s.Location.Z,
			s.Name,
			s.Star.Mass,
			s.Star.Luminosity,
			s.Star.Metallicity,
		)
		if err != nil {
			logger.Error("Failed to create system", "error", err, "location", s.Location.String())
			return fmt.Errorf("failed to create system at %s: %w", s.Location, err)
		}
	}

	logger.Debug("Systems created successfully")
	return nil
}

// GetSystemsByGalaxyID returns the systems of a galaxy in stored order,
// without planets.
func (r *Repository) GetSystemsByGalaxyID(ctx context.Context, galaxyID string) ([]System, error) {
	logger := r.logger.With("component", "system_repository", "operation", "get_systems_by_galaxy", "galaxy_id", galaxyID)
	logger.Debug("Getting systems by galaxy ID")

	query := r.db.Rebind(`
		SELECT x, y, z, name, star_mass, star_luminosity, star_metallicity
		FROM systems
		WHERE galaxy_id = $1
		ORDER BY position
	`)

	rows, err := r.db.QueryContext(ctx, query, galaxyID)
	if err != nil {
		logger.Error("Failed to query systems", "error", err)
		return nil, fmt.Errorf("failed to query systems: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var systems []System
	for rows.Next() {
		var s System
		var x, y, z float64
		if err := rows.Scan(&x, &y, &z, &s.Name, &s.Star.Mass, &s.Star.Luminosity, &s.Star.Metallicity); err != nil {
			logger.Error("Failed to scan system", "error", err)
			return nil, fmt.Errorf("failed to scan system: %w", err)
		}
		s.Location = spatial.NewLocation(x, y, z)
		systems = append(systems, s)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error iterating system rows", "error", err)
		return nil, fmt.Errorf("error iterating systems: %w", err)
	}

	logger.Debug("Retrieved systems", "count", len(systems))
	return systems, nil
}

// UpdateSystemName renames the stored system at loc.
func (r *Repository) UpdateSystemName(ctx context.Context, galaxyID string, loc spatial.Location, name string) error {
	logger := r.logger.With("component", "system_repository", "operation", "update_system_name", "galaxy_id", galaxyID, "location", loc.String())

	query := r.db.Rebind(`
		UPDATE systems SET name = $1
		WHERE galaxy_id = $2 AND x = $3 AND y = $4 AND z = $5
	`)

	result, err := r.db.ExecContext(ctx, query, name, galaxyID, loc.X, loc.Y, loc.Z)
	if err != nil {
		logger.Error("Failed to update system name", "error", err)
		return fmt.Errorf("failed to update system name: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no stored system at %s", loc)
	}

	logger.Debug("System name updated", "name", name)
	return nil
}
