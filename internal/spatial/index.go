package spatial

import (
	"math"
	"slices"
)

// DefaultCellSize is the edge length of a grid cell. It is tuned for jump
// ranges of the same order so that a radius query touches a 3x3x3 window.
const DefaultCellSize = 16.0

// cellLimit bounds cell coordinates. Locations beyond it share the outermost
// cell on that axis, which keeps cell arithmetic free of overflow.
const cellLimit = 1 << 60

// cell is the integer coordinate of a grid cell.
type cell [3]int64

type entry struct {
	loc Location
	seq int
}

// Index is a uniform 3D grid over locations. It supports exact membership,
// radius and nearest-neighbour queries. It is not safe for concurrent
// mutation; the galaxy guards it.
type Index struct {
	cellSize float64
	cells    map[cell][]entry
	members  map[Key]int
	min, max cell
	count    int
}

// NewIndex creates an empty index. Non-positive cell sizes fall back to
// DefaultCellSize.
func NewIndex(cellSize float64) *Index {
	if cellSize <= 0 || math.IsNaN(cellSize) || math.IsInf(cellSize, 0) {
		cellSize = DefaultCellSize
	}
	return &Index{
		cellSize: cellSize,
		cells:    make(map[cell][]entry),
		members:  make(map[Key]int),
	}
}

func (idx *Index) CellSize() float64 {
	return idx.cellSize
}

// Len returns the number of indexed locations.
func (idx *Index) Len() int {
	return idx.count
}

func (idx *Index) cellOf(l Location) cell {
	return cell{idx.coord(l.X), idx.coord(l.Y), idx.coord(l.Z)}
}

// coord maps a coordinate to its cell along one axis, saturating at
// ±cellLimit. The mapping is monotonic, so a coordinate range always maps to
// the cell range between its end points.
func (idx *Index) coord(v float64) int64 {
	f := math.Floor(v / idx.cellSize)
	switch {
	case math.IsNaN(f):
		return 0
	case f >= cellLimit:
		return cellLimit
	case f <= -cellLimit:
		return -cellLimit
	}
	return int64(f)
}

// Insert adds a location. It returns false if the location is already indexed.
func (idx *Index) Insert(l Location) bool {
	key := KeyOf(l)
	if _, exists := idx.members[key]; exists {
		return false
	}

	c := idx.cellOf(l)
	idx.cells[c] = append(idx.cells[c], entry{loc: l, seq: idx.count})
	idx.members[key] = idx.count

	if idx.count == 0 {
		idx.min, idx.max = c, c
	} else {
		for axis := range 3 {
			idx.min[axis] = min(idx.min[axis], c[axis])
			idx.max[axis] = max(idx.max[axis], c[axis])
		}
	}
	idx.count++
	return true
}

// Contains reports whether the exact location is indexed.
func (idx *Index) Contains(l Location) bool {
	_, ok := idx.members[KeyOf(l)]
	return ok
}

// Within returns every indexed location whose distance from `from` is at most
// radius. Results are ordered by cell (x, then y, then z) and by insertion
// order within a cell, so repeated queries return identical slices.
func (idx *Index) Within(from Location, radius float64) []Location {
	if idx.count == 0 || radius < 0 || math.IsNaN(radius) || !from.IsFinite() {
		return nil
	}
	r2 := radius * radius

	coords := [3]float64{from.X, from.Y, from.Z}
	var lo, hi cell
	for axis := range 3 {
		lo[axis] = idx.coord(coords[axis] - radius)
		hi[axis] = idx.coord(coords[axis] + radius)
		if hi[axis] < idx.min[axis] || lo[axis] > idx.max[axis] {
			return nil
		}
		lo[axis] = max(lo[axis], idx.min[axis])
		hi[axis] = min(hi[axis], idx.max[axis])
	}

	// A box wider than the occupied cells is cheaper to answer by scanning.
	span := float64(hi[0]-lo[0]+1) * float64(hi[1]-lo[1]+1) * float64(hi[2]-lo[2]+1)
	if span > float64(len(idx.cells)) {
		return idx.scanWithin(from, radius, r2, lo, hi)
	}

	var out []Location
	for x := lo[0]; x <= hi[0]; x++ {
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for _, e := range idx.cells[cell{x, y, z}] {
					if inRadius(e.loc, from, radius, r2) {
						out = append(out, e.loc)
					}
				}
			}
		}
	}
	return out
}

// inRadius compares squared distances and falls back to the scaled distance
// once squaring overflows.
func inRadius(l, from Location, radius, r2 float64) bool {
	d2 := l.DistanceSquared(from)
	if !math.IsInf(d2, 1) || !math.IsInf(r2, 1) {
		return d2 <= r2
	}
	return l.Distance(from) <= radius
}

// scanWithin visits occupied cells only and restores the grid ordering.
func (idx *Index) scanWithin(from Location, radius, r2 float64, lo, hi cell) []Location {
	var hits []cell
	for c := range idx.cells {
		if c[0] < lo[0] || c[0] > hi[0] || c[1] < lo[1] || c[1] > hi[1] || c[2] < lo[2] || c[2] > hi[2] {
			continue
		}
		hits = append(hits, c)
	}
	slices.SortFunc(hits, compareCells)

	var out []Location
	for _, c := range hits {
		for _, e := range idx.cells[c] {
			if inRadius(e.loc, from, radius, r2) {
				out = append(out, e.loc)
			}
		}
	}
	return out
}

// Nearest returns the indexed location closest to `from`. Equal distances
// resolve to the earliest inserted location.
func (idx *Index) Nearest(from Location) (Location, bool) {
	if idx.count == 0 || !from.IsFinite() {
		return Location{}, false
	}

	center := idx.cellOf(from)
	maxRing := int64(0)
	for axis := range 3 {
		maxRing = max(maxRing, abs64(center[axis]-idx.min[axis]), abs64(idx.max[axis]-center[axis]))
	}

	best := entry{seq: -1}
	bestDist := math.Inf(1)
	consider := func(e entry) {
		d := e.loc.Distance(from)
		if d < bestDist || (d == bestDist && e.seq < best.seq) {
			best, bestDist = e, d
		}
	}

	visited := 0
	for k := int64(0); k <= maxRing; k++ {
		// Every cell on ring k is at least (k-1) cells away from `from`.
		if best.seq >= 0 && k > 0 {
			if float64(k-1)*idx.cellSize > bestDist {
				break
			}
		}

		ringCells := ringSize(k)
		if visited+ringCells > len(idx.cells) {
			return idx.scanNearest(from)
		}
		visited += ringCells

		idx.forRing(center, k, func(c cell) {
			for _, e := range idx.cells[c] {
				consider(e)
			}
		})
	}

	return best.loc, best.seq >= 0
}

func (idx *Index) scanNearest(from Location) (Location, bool) {
	best := entry{seq: -1}
	bestDist := math.Inf(1)
	for _, entries := range idx.cells {
		for _, e := range entries {
			d := e.loc.Distance(from)
			if d < bestDist || (d == bestDist && e.seq < best.seq) {
				best, bestDist = e, d
			}
		}
	}
	return best.loc, best.seq >= 0
}

// forRing calls fn for every cell whose Chebyshev distance from center is k.
func (idx *Index) forRing(center cell, k int64, fn func(cell)) {
	for dx := -k; dx <= k; dx++ {
		for dy := -k; dy <= k; dy++ {
			for dz := -k; dz <= k; dz++ {
				if max(abs64(dx), abs64(dy), abs64(dz)) != k {
					continue
				}
				fn(cell{center[0] + dx, center[1] + dy, center[2] + dz})
			}
		}
	}
}

func ringSize(k int64) int {
	if k == 0 {
		return 1
	}
	outer := 2*k + 1
	inner := 2*k - 1
	return int(outer*outer*outer - inner*inner*inner)
}

func compareCells(a, b cell) int {
	for axis := range 3 {
		if a[axis] != b[axis] {
			if a[axis] < b[axis] {
				return -1
			}
			return 1
		}
	}
	return 0
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
