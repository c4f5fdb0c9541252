package planet

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"starmap-server/internal/distribution"
)

const (
	solarLuminosity  = 3.846e26    // W
	bondAlbedo       = 0.29        // Earth's
	stefanBoltzmann  = 5.670373e-8 // W m^-2 K^-4
	speedOfLight     = 299792458.0 // m/s
	gravityExponent  = 0.44
	giantMass        = 10.0
	earthLikeMinMass = 0.5
	earthLikeMaxMass = 5.0
)

// ErrInvalidOrbit is returned when a temperature is requested for an orbit
// or star that cannot produce one.
var ErrInvalidOrbit = errors.New("invalid orbit")

type Config struct {
	Mass          distribution.Gamma `yaml:"mass"`
	OrbitDistance distribution.Gamma `yaml:"orbit_distance"`
}

func (c Config) Validate() error {
	if err := c.Mass.Validate(); err != nil {
		return fmt.Errorf("planet mass: %w", err)
	}
	if err := c.OrbitDistance.Validate(); err != nil {
		return fmt.Errorf("planet orbit distance: %w", err)
	}
	return nil
}

type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate draws mass then orbit distance. The returned planet has no name,
// no temperature and the rocky type until its star is known.
func (g *Generator) Generate(rng *rand.Rand) (Planet, error) {
	if err := g.cfg.Validate(); err != nil {
		return Planet{}, err
	}

	mass, err := g.cfg.Mass.Sample(rng)
	if err != nil {
		return Planet{}, err
	}
	orbit, err := g.cfg.OrbitDistance.Sample(rng)
	if err != nil {
		return Planet{}, err
	}

	return Planet{
		Mass:          mass,
		Gravity:       Gravity(mass),
		OrbitDistance: math.Max(orbit, math.SmallestNonzeroFloat64),
		Type:          TypeRocky,
	}, nil
}

// Gravity approximates surface gravity for a rocky mass-radius relation.
func Gravity(mass float64) float64 {
	if mass <= 0 {
		return 0
	}
	return math.Pow(mass, gravityExponent)
}

// SurfaceTemperature is the black-body equilibrium temperature of a planet
// at orbit light-seconds from a star of the given solar luminosity.
func SurfaceTemperature(luminosity, orbit float64) (float64, error) {
	if !(luminosity > 0) || math.IsInf(luminosity, 0) {
		return 0, fmt.Errorf("%w: luminosity %v", ErrInvalidOrbit, luminosity)
	}
	if !(orbit > 0) || math.IsInf(orbit, 0) {
		return 0, fmt.Errorf("%w: distance %v", ErrInvalidOrbit, orbit)
	}

	d := speedOfLight * orbit
	flux := luminosity * solarLuminosity * (1 - bondAlbedo) / (16 * math.Pi * d * d * stefanBoltzmann)
	t := math.Pow(flux, 0.25)
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("%w: temperature overflow at distance %v", ErrInvalidOrbit, orbit)
	}
	return t, nil
}

// Classify assigns a type from mass and surface temperature.
func Classify(mass, temperature float64) Type {
	if mass >= giantMass {
		if temperature >= 250 && temperature <= 450 {
			return TypeWaterGiant
		}
		return TypeGasGiant
	}

	switch {
	case temperature > 700:
		return TypeMetalRich
	case temperature < 170:
		return TypeIcy
	case temperature >= 250 && temperature <= 320 && mass >= earthLikeMinMass && mass <= earthLikeMaxMass:
		return TypeEarthLike
	case temperature >= 273 && temperature <= 373:
		return TypeWater
	default:
		return TypeRocky
	}
}

// Illuminate fills in temperature and type once the star is known.
func (p *Planet) Illuminate(luminosity float64) error {
	t, err := SurfaceTemperature(luminosity, p.OrbitDistance)
	if err != nil {
		return err
	}
	p.SurfaceTemperature = t
	p.Type = Classify(p.Mass, t)
	return nil
}
