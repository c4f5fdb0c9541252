package sector

import (
	"fmt"

	"starmap-server/internal/spatial"
)

// Coord addresses a cubic sector: the sector containing a location is the
// floor of each coordinate divided by the sector size.
type Coord struct {
	X int64 `json:"x"`
	Y int64 `json:"y"`
	Z int64 `json:"z"`
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.X, c.Y, c.Z)
}

type Sector struct {
	Coord   Coord              `json:"coord"`
	Name    string             `json:"name"`
	Size    float64            `json:"size"`
	Systems []spatial.Location `json:"systems"`
}

// Bounds returns the inclusive lower and exclusive upper corner.
func (s Sector) Bounds() (spatial.Location, spatial.Location) {
	lower := spatial.NewLocation(float64(s.Coord.X)*s.Size, float64(s.Coord.Y)*s.Size, float64(s.Coord.Z)*s.Size)
	upper := spatial.NewLocation(lower.X+s.Size, lower.Y+s.Size, lower.Z+s.Size)
	return lower, upper
}

func (s Sector) Clone() Sector {
	s.Systems = append([]spatial.Location(nil), s.Systems...)
	return s
}
