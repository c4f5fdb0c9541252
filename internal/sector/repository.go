package sector

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
	logger.Debug("Initializing sector repository")

	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateSectors stores sector names and coordinates. Membership is not
// stored; it follows from the system locations and the sector size.
func (r *Repository) CreateSectors(ctx context.Context, ex database.Executor, galaxyID string, sectors []Sector) error {
	logger := r.logger.With(
		"component", "sector_repository",
		"operation", "create_sectors",
		"galaxy_id", galaxyID,
		"count", len(sectors),
	)
	logger.Debug("Creating sectors")

	query := r.db.Rebind(`
		INSERT INTO sectors (galaxy_id, position, sector_x, sector_y, sector_z, name)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)

	for i, s := range sectors {
		if _, err := ex.ExecContext(ctx, query, galaxyID, i, s.Coord.X, s.Coord.Y, s.Coord.Z, s.Name); err != nil {
			logger.Error("Failed to create sector", "error", err, "coordinates", s.Coord.String())
			return fmt.Errorf("failed to create sector at %s: %w", s.Coord, err)
		}
	}

	logger.Debug("Sectors created successfully")
	return nil
}

// GetSectorsByGalaxyID returns stored sectors without members.
func (r *Repository) GetSectorsByGalaxyID(ctx context.Context, galaxyID string) ([]Sector, error) {
	logger := r.logger.With("component", "sector_repository", "operation", "get_sectors_by_galaxy", "galaxy_id", galaxyID)
	logger.Debug("Getting sectors by galaxy ID")

	query := r.db.Rebind(`
		SELECT sector_x, sector_y, sector_z, name
		FROM sectors
		WHERE galaxy_id = $1
		ORDER BY position
	`)

	rows, err := r.db.QueryContext(ctx, query, galaxyID)
	if err != nil {
		logger.Error("Failed to query sectors", "error", err)
		return nil, fmt.Errorf("failed to query sectors: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			logger.Error("Failed to close rows", "error", err)
		}
	}()

	var sectors []Sector
	for rows.Next() {
		var s Sector
		if err := rows.Scan(&s.Coord.X, &s.Coord.Y, &s.Coord.Z, &s.Name); err != nil {
			logger.Error("Failed to scan sector", "error", err)
			return nil, fmt.Errorf("failed to scan sector: %w", err)
		}
		sectors = append(sectors, s)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Error iterating sector rows", "error", err)
		return nil, fmt.Errorf("error iterating sectors: %w", err)
	}

	logger.Debug("Retrieved sectors", "count", len(sectors))
	return sectors, nil
}
