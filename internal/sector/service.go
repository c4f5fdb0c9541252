package sector

import (
	"log/slog"
	"math"

	"starmap-server/internal/spatial"
)

const (
	DefaultSize = 256.0
	// NameSuffix is appended to every sector name.
	NameSuffix   = " Sector"
	fallbackName = "Unnamed"
)

type NameSource interface {
	Generate() (string, error)
}

// CoordOf returns the sector coordinate containing loc.
func CoordOf(loc spatial.Location, size float64) Coord {
	size = normalizeSize(size)
	return Coord{
		X: floorDiv(loc.X, size),
		Y: floorDiv(loc.Y, size),
		Z: floorDiv(loc.Z, size),
	}
}

// Partition groups locations into occupied cubic sectors. Sectors are
// returned in order of their first member and named in that order, so the
// result depends only on the input order and the name source state.
func Partition(locations []spatial.Location, size float64, names NameSource, logger *slog.Logger) []Sector {
	size = normalizeSize(size)
	logger = logger.With("component", "sector_service", "operation", "partition", "size", size, "systems", len(locations))
	logger.Debug("Partitioning systems into sectors")

	index := make(map[Coord]int)
	var sectors []Sector
	for _, loc := range locations {
		c := CoordOf(loc, size)
		i, ok := index[c]
		if !ok {
			i = len(sectors)
			index[c] = i
			sectors = append(sectors, Sector{Coord: c, Size: size})
		}
		sectors[i].Systems = append(sectors[i].Systems, loc)
	}

	unnamed := 0
	for i := range sectors {
		name := fallbackName
		if names != nil {
			if generated, err := names.Generate(); err == nil {
				name = generated
			} else {
				unnamed++
			}
		}
		sectors[i].Name = name + NameSuffix
	}

	if unnamed > 0 {
		logger.Warn("Name source exhausted, using fallback sector names", "unnamed", unnamed)
	}
	logger.Info("Sectors generated", "count", len(sectors))
	return sectors
}

func normalizeSize(size float64) float64 {
	if !(size > 0) || math.IsInf(size, 0) {
		return DefaultSize
	}
	return size
}

func floorDiv(v, size float64) int64 {
	q := math.Floor(v / size)
	switch {
	case math.IsNaN(q):
		return 0
	case q >= math.MaxInt64:
		return math.MaxInt64
	case q <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(q)
	}
}
