package system

import (
	"fmt"
	"math"
	"math/rand/v2"

	"starmap-server/internal/distribution"
	"starmap-server/internal/planet"
	"starmap-server/internal/shared/errors"
	"starmap-server/internal/spatial"
	"starmap-server/internal/star"
)

const (
	// FallbackName is used whenever the name source cannot produce a name.
	FallbackName = "Unnamed"
	// NameSuffix is appended to every system name.
	NameSuffix = " System"
)

// DefaultPlanetCount is the distribution of the number of planets per system.
var DefaultPlanetCount = distribution.Gamma{Shape: 1, Rate: 0.5}

var hashPrimes = [3]float64{73856093, 19349663, 83492791}

type NameSource interface {
	Generate() (string, error)
}

type StarGenerator interface {
	Generate(rng *rand.Rand) (star.Star, error)
}

type PlanetGenerator interface {
	Generate(rng *rand.Rand) (planet.Planet, error)
}

// Generator synthesises the content of a system from its location. The star
// and planets depend only on the location, the seed and the generator
// configuration; names also depend on the state of the shared name source.
type Generator struct {
	Names       NameSource
	Stars       StarGenerator
	Planets     PlanetGenerator
	Seed        uint64
	PlanetCount distribution.Gamma
}

// SpatialHash multiplies each coordinate by a per-axis prime, truncates the
// products to integers and XORs them. Negative products keep their two's
// complement bit pattern; products beyond the int64 range saturate.
func SpatialHash(loc spatial.Location) uint64 {
	coords := [3]float64{loc.X, loc.Y, loc.Z}
	var h uint64
	for i, c := range coords {
		h ^= uint64(truncate(c * hashPrimes[i]))
	}
	return h
}

func truncate(v float64) int64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v >= math.MaxInt64:
		return math.MaxInt64
	case v <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(v)
	}
}

// Source returns the random stream for a location.
func Source(loc spatial.Location, seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(SpatialHash(loc), seed))
}

// Generate builds the system at loc. Draw order on the location's stream is
// fixed: star, planet count, planets, then the system name choice.
func (g *Generator) Generate(loc spatial.Location) (System, error) {
	rng := Source(loc, g.Seed)

	s, err := g.Stars.Generate(rng)
	if err != nil {
		return System{}, errors.WrapGeneration(fmt.Sprintf("failed to generate star at %s", loc), err)
	}

	count, err := g.planetCount(rng)
	if err != nil {
		return System{}, errors.WrapGeneration(fmt.Sprintf("failed to draw planet count at %s", loc), err)
	}

	planets := make([]planet.Planet, 0, count)
	for i := range count {
		p, err := g.Planets.Generate(rng)
		if err != nil {
			return System{}, errors.WrapGeneration(fmt.Sprintf("failed to generate planet %d at %s", i, loc), err)
		}
		planets = append(planets, p)
	}

	for i := range planets {
		planets[i].Name = g.name()
		if err := planets[i].Illuminate(s.Luminosity); err != nil {
			return System{}, errors.WrapGeneration(fmt.Sprintf("failed to compute temperature of planet %d at %s", i, loc), err)
		}
	}

	var name string
	if len(planets) > 0 {
		name = planets[rng.IntN(len(planets))].Name
	} else {
		name = g.name()
	}

	return System{
		Location: loc,
		Name:     name + NameSuffix,
		Star:     s,
		Planets:  planets,
	}, nil
}

func (g *Generator) planetCount(rng *rand.Rand) (int, error) {
	dist := g.PlanetCount
	if dist == (distribution.Gamma{}) {
		dist = DefaultPlanetCount
	}

	v, err := dist.Sample(rng)
	if err != nil {
		return 0, err
	}
	return int(math.Max(math.Round(v), 0)), nil
}

func (g *Generator) name() string {
	if g.Names == nil {
		return FallbackName
	}
	name, err := g.Names.Generate()
	if err != nil {
		return FallbackName
	}
	return name
}
