package system

import (
	"slices"

	"starmap-server/internal/planet"
	"starmap-server/internal/spatial"
	"starmap-server/internal/star"
)

// System is a star with its planets. A system is identified by its location.
type System struct {
	Location spatial.Location `json:"location"`
	Name     string           `json:"name"`
	Star     star.Star        `json:"star"`
	Planets  []planet.Planet  `json:"planets"`
}

// Clone returns a copy that shares no memory with s.
func (s System) Clone() System {
	s.Planets = slices.Clone(s.Planets)
	return s
}
