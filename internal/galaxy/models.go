package galaxy

import (
	"time"

	"starmap-server/internal/spatial"
)

// Info describes a stored galaxy.
type Info struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Seed        uint64    `json:"seed"`
	CellSize    float64   `json:"cell_size"`
	SectorSize  float64   `json:"sector_size"`
	SystemCount int       `json:"system_count"`
	SectorCount int       `json:"sector_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type RouteOptions struct {
	// Range is the maximum length of a single jump.
	Range float64 `json:"range"`
	// MaxJumps caps the number of jumps; zero means unlimited.
	MaxJumps int `json:"max_jumps,omitempty"`
	// MaxExpansions bounds the search effort; zero means unlimited.
	MaxExpansions int `json:"max_expansions,omitempty"`
}

type Route struct {
	Cost  float64            `json:"cost"`
	Jumps int                `json:"jumps"`
	Path  []spatial.Location `json:"path"`
}
