package galaxy

import (
	"math"
	"math/rand/v2"

	"starmap-server/internal/spatial"
)

// SampleLocations scatters count distinct locations uniformly over a disk of
// the given radius in the XY plane, with Z uniform in [-thickness/2,
// thickness/2). The result depends only on the arguments. Sampling gives up
// after count*16 draws, so a degenerate disk yields fewer locations.
func SampleLocations(seed uint64, count int, radius, thickness float64) []spatial.Location {
	if count <= 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(seed, ^seed))
	seen := make(map[spatial.Key]struct{}, count)
	out := make([]spatial.Location, 0, count)

	for attempts := 0; len(out) < count && attempts < count*16; attempts++ {
		r := radius * math.Sqrt(rng.Float64())
		theta := 2 * math.Pi * rng.Float64()
		loc := spatial.NewLocation(
			r*math.Cos(theta),
			r*math.Sin(theta),
			(rng.Float64()-0.5)*thickness,
		)

		key := spatial.KeyOf(loc)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, loc)
	}
	return out
}
