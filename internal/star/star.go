package star

import (
	"fmt"
	"math"
	"math/rand/v2"

	"starmap-server/internal/distribution"
)

// Star is a system's primary. Mass and luminosity are in solar units;
// metallicity is relative to the sun.
type Star struct {
	Mass        float64 `json:"mass"`
	Luminosity  float64 `json:"luminosity"`
	Metallicity float64 `json:"metallicity"`
}

type Config struct {
	Mass               distribution.Gamma     `yaml:"mass"`
	LuminosityExponent float64                `yaml:"luminosity_exponent"`
	LuminosityScatter  distribution.LogNormal `yaml:"luminosity_scatter"`
	Metallicity        distribution.LogNormal `yaml:"metallicity"`
}

func (c Config) Validate() error {
	if err := c.Mass.Validate(); err != nil {
		return fmt.Errorf("star mass: %w", err)
	}
	if err := c.LuminosityScatter.Validate(); err != nil {
		return fmt.Errorf("star luminosity scatter: %w", err)
	}
	if err := c.Metallicity.Validate(); err != nil {
		return fmt.Errorf("star metallicity: %w", err)
	}
	if c.LuminosityExponent <= 0 || math.IsInf(c.LuminosityExponent, 0) || math.IsNaN(c.LuminosityExponent) {
		return fmt.Errorf("%w: luminosity exponent %v", distribution.ErrInvalidDistribution, c.LuminosityExponent)
	}
	return nil
}

// Generator draws stars from a seeded source.
type Generator struct {
	cfg Config
}

func NewGenerator(cfg Config) *Generator {
	return &Generator{cfg: cfg}
}

// Generate draws mass, luminosity scatter and metallicity in that order.
// Luminosity follows the main-sequence mass-luminosity relation.
func (g *Generator) Generate(rng *rand.Rand) (Star, error) {
	if err := g.cfg.Validate(); err != nil {
		return Star{}, err
	}

	mass, err := g.cfg.Mass.Sample(rng)
	if err != nil {
		return Star{}, err
	}
	scatter, err := g.cfg.LuminosityScatter.Sample(rng)
	if err != nil {
		return Star{}, err
	}
	metallicity, err := g.cfg.Metallicity.Sample(rng)
	if err != nil {
		return Star{}, err
	}

	// Guard against underflow on tiny masses; stars are strictly positive.
	mass = math.Max(mass, math.SmallestNonzeroFloat64)
	luminosity := math.Max(math.Pow(mass, g.cfg.LuminosityExponent)*scatter, math.SmallestNonzeroFloat64)

	return Star{
		Mass:        mass,
		Luminosity:  luminosity,
		Metallicity: metallicity,
	}, nil
}
