package star

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/distribution"
)

func testConfig() Config {
	return Config{
		Mass:               distribution.Gamma{Shape: 2, Rate: 2.5},
		LuminosityExponent: 3.5,
		LuminosityScatter:  distribution.LogNormal{Mu: 0, Sigma: 0.1},
		Metallicity:        distribution.LogNormal{Mu: 0, Sigma: 0.3},
	}
}

func TestGenerate(t *testing.T) {
	gen := NewGenerator(testConfig())
	rng := rand.New(rand.NewPCG(1, 2))

	for range 200 {
		s, err := gen.Generate(rng)
		require.NoError(t, err)
		assert.Greater(t, s.Mass, 0.0)
		assert.Greater(t, s.Luminosity, 0.0)
		assert.Greater(t, s.Metallicity, 0.0)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	gen := NewGenerator(testConfig())

	a, err := gen.Generate(rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)
	b, err := gen.Generate(rand.New(rand.NewPCG(5, 5)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestGenerateRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"mass", func(c *Config) { c.Mass.Rate = 0 }},
		{"scatter", func(c *Config) { c.LuminosityScatter.Sigma = -1 }},
		{"metallicity", func(c *Config) { c.Metallicity.Sigma = 0 }},
		{"exponent", func(c *Config) { c.LuminosityExponent = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := NewGenerator(cfg).Generate(rand.New(rand.NewPCG(1, 1)))
			assert.ErrorIs(t, err, distribution.ErrInvalidDistribution)
		})
	}
}
