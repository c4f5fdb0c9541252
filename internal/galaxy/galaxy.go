// Package galaxy owns the systems of a generated galaxy and answers
// proximity, lookup, search and routing queries over them.
package galaxy

import (
	"cmp"
	"fmt"
	"slices"
	"sync"

	"starmap-server/internal/sector"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/spatial"
	"starmap-server/internal/system"
)

type Options struct {
	CellSize   float64
	SectorSize float64
}

// Galaxy is safe for concurrent use. Queries return copies; UpdateSystem is
// the only way to change a system after construction.
type Galaxy struct {
	mu         sync.RWMutex
	systems    []system.System
	positions  map[spatial.Key]int
	index      *spatial.Index
	names      []searchEntry
	sectors    []sector.Sector
	sectorAt   map[sector.Coord]int
	sectorSize float64
}

// New indexes systems in the given order. Sector names are taken from
// sectors by coordinate; membership is recomputed from the system locations
// and occupied coordinates without a named sector get the fallback name.
func New(systems []system.System, sectors []sector.Sector, opts Options) (*Galaxy, error) {
	g := &Galaxy{
		systems:    make([]system.System, 0, len(systems)),
		positions:  make(map[spatial.Key]int, len(systems)),
		index:      spatial.NewIndex(opts.CellSize),
		names:      make([]searchEntry, 0, len(systems)),
		sectorAt:   make(map[sector.Coord]int, len(sectors)),
		sectorSize: opts.SectorSize,
	}
	if !(g.sectorSize > 0) {
		g.sectorSize = sector.DefaultSize
	}

	for _, s := range sectors {
		if _, dup := g.sectorAt[s.Coord]; dup {
			return nil, errors.Conflictf("duplicate sector at %s", s.Coord)
		}
		s.Size = g.sectorSize
		s.Systems = nil
		g.sectorAt[s.Coord] = len(g.sectors)
		g.sectors = append(g.sectors, s)
	}

	for _, s := range systems {
		if !s.Location.IsFinite() {
			return nil, errors.Validationf("system %q has a non-finite location %s", s.Name, s.Location)
		}
		key := spatial.KeyOf(s.Location)
		if _, dup := g.positions[key]; dup {
			return nil, errors.Conflictf("duplicate system at %s", s.Location)
		}
		if !g.index.Insert(s.Location) {
			return nil, fmt.Errorf("index rejected %s", s.Location)
		}

		g.positions[key] = len(g.systems)
		g.systems = append(g.systems, s.Clone())
		g.names = append(g.names, newSearchEntry(s.Name))

		coord := sector.CoordOf(s.Location, g.sectorSize)
		i, ok := g.sectorAt[coord]
		if !ok {
			i = len(g.sectors)
			g.sectorAt[coord] = i
			g.sectors = append(g.sectors, sector.Sector{
				Coord: coord,
				Name:  system.FallbackName + sector.NameSuffix,
				Size:  g.sectorSize,
			})
		}
		g.sectors[i].Systems = append(g.sectors[i].Systems, s.Location)
	}

	return g, nil
}

func (g *Galaxy) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.systems)
}

func (g *Galaxy) CellSize() float64 {
	return g.index.CellSize()
}

func (g *Galaxy) SectorSize() float64 {
	return g.sectorSize
}

// System returns the system at exactly loc.
func (g *Galaxy) System(loc spatial.Location) (system.System, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i, ok := g.positions[spatial.KeyOf(loc)]
	if !ok {
		return system.System{}, false
	}
	return g.systems[i].Clone(), true
}

// UpdateSystem applies fn to the system at loc under the write lock. The
// change is discarded if fn fails or moves the system.
func (g *Galaxy) UpdateSystem(loc spatial.Location, fn func(*system.System) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.positions[spatial.KeyOf(loc)]
	if !ok {
		return errors.NotFoundf("no system at %s", loc)
	}

	updated := g.systems[i].Clone()
	if err := fn(&updated); err != nil {
		return err
	}
	if spatial.KeyOf(updated.Location) != spatial.KeyOf(g.systems[i].Location) {
		return errors.Validation("system location cannot change")
	}

	if updated.Name != g.systems[i].Name {
		g.names[i] = newSearchEntry(updated.Name)
	}
	g.systems[i] = updated
	return nil
}

// Systems returns every system in insertion order.
func (g *Galaxy) Systems() []system.System {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]system.System, len(g.systems))
	for i, s := range g.systems {
		out[i] = s.Clone()
	}
	return out
}

// SystemsOrdered returns every system by ascending distance from from.
// Equidistant systems keep their insertion order.
func (g *Galaxy) SystemsOrdered(from spatial.Location) []system.System {
	out := g.Systems()
	slices.SortStableFunc(out, func(a, b system.System) int {
		return cmp.Compare(a.Location.Distance(from), b.Location.Distance(from))
	})
	return out
}

// Reachable returns the locations of all systems within maxDistance of
// from, inclusive. A negative distance is treated as zero.
func (g *Galaxy) Reachable(from spatial.Location, maxDistance float64) []spatial.Location {
	if !(maxDistance > 0) {
		maxDistance = 0
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index.Within(from, maxDistance)
}

// Nearest returns the location of the closest system to from.
func (g *Galaxy) Nearest(from spatial.Location) (spatial.Location, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index.Nearest(from)
}

// Sectors returns all sectors in order of their first system.
func (g *Galaxy) Sectors() []sector.Sector {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]sector.Sector, len(g.sectors))
	for i, s := range g.sectors {
		out[i] = s.Clone()
	}
	return out
}

// SectorOf returns the sector containing loc, if any system lives in it.
func (g *Galaxy) SectorOf(loc spatial.Location) (sector.Sector, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i, ok := g.sectorAt[sector.CoordOf(loc, g.sectorSize)]
	if !ok {
		return sector.Sector{}, false
	}
	return g.sectors[i].Clone(), true
}
