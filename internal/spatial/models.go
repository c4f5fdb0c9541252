package spatial

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Location is a point in galaxy space. It identifies a star system and seeds
// its generation.
type Location struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func NewLocation(x, y, z float64) Location {
	return Location{X: x, Y: y, Z: z}
}

// DistanceSquared returns the squared Euclidean distance to other.
func (l Location) DistanceSquared(other Location) float64 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	dz := l.Z - other.Z
	return dx*dx + dy*dy + dz*dz
}

// Distance returns the Euclidean distance to other. Distances whose square
// overflows are computed on scaled components.
func (l Location) Distance(other Location) float64 {
	d2 := l.DistanceSquared(other)
	if !math.IsInf(d2, 1) {
		return math.Sqrt(d2)
	}

	dx := math.Abs(l.X - other.X)
	dy := math.Abs(l.Y - other.Y)
	dz := math.Abs(l.Z - other.Z)
	m := max(dx, dy, dz)
	if math.IsInf(m, 1) {
		return m
	}
	dx, dy, dz = dx/m, dy/m, dz/m
	return m * math.Sqrt(dx*dx+dy*dy+dz*dz)
}

// IsFinite reports whether every coordinate is a finite number.
func (l Location) IsFinite() bool {
	return !math.IsNaN(l.X) && !math.IsInf(l.X, 0) &&
		!math.IsNaN(l.Y) && !math.IsInf(l.Y, 0) &&
		!math.IsNaN(l.Z) && !math.IsInf(l.Z, 0)
}

func (l Location) String() string {
	return fmt.Sprintf("(%g, %g, %g)", l.X, l.Y, l.Z)
}

// ParseLocation parses "x,y,z".
func ParseLocation(s string) (Location, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return Location{}, fmt.Errorf("location %q must have three comma separated coordinates", s)
	}

	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return Location{}, fmt.Errorf("invalid coordinate %q: %w", part, err)
		}
		coords[i] = v
	}

	loc := Location{X: coords[0], Y: coords[1], Z: coords[2]}
	if !loc.IsFinite() {
		return Location{}, fmt.Errorf("location %q must be finite", s)
	}
	return loc, nil
}

// Key is the hashable form of a Location: the IEEE-754 bit pattern of each
// coordinate, with negative zero folded into positive zero so that key
// equality matches coordinate equality for finite inputs.
type Key [3]uint64

// KeyOf wraps a Location for use in maps and ordered structures.
func KeyOf(l Location) Key {
	return Key{bits(l.X), bits(l.Y), bits(l.Z)}
}

func bits(f float64) uint64 {
	if f == 0 {
		return 0
	}
	return math.Float64bits(f)
}

// Location unwraps the key.
func (k Key) Location() Location {
	return Location{
		X: math.Float64frombits(k[0]),
		Y: math.Float64frombits(k[1]),
		Z: math.Float64frombits(k[2]),
	}
}

// Compare orders locations lexicographically by X, then Y, then Z.
func Compare(a, b Location) int {
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Y, b.Y); c != 0 {
		return c
	}
	return cmp.Compare(a.Z, b.Z)
}
