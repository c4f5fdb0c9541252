// Package distribution holds the validated probability distributions used by
// the content generators. Sampling always draws from the caller's seeded
// source so that generation stays reproducible.
package distribution

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// ErrInvalidDistribution is returned when distribution parameters are rejected.
var ErrInvalidDistribution = errors.New("invalid distribution parameters")

// Gamma is parameterised by shape and rate (mean = shape / rate).
type Gamma struct {
	Shape float64 `yaml:"shape" json:"shape"`
	Rate  float64 `yaml:"rate" json:"rate"`
}

func (g Gamma) Validate() error {
	if !positive(g.Shape) || !positive(g.Rate) {
		return fmt.Errorf("%w: gamma shape=%v rate=%v", ErrInvalidDistribution, g.Shape, g.Rate)
	}
	return nil
}

func (g Gamma) Sample(rng *rand.Rand) (float64, error) {
	if err := g.Validate(); err != nil {
		return 0, err
	}
	d := distuv.Gamma{Alpha: g.Shape, Beta: g.Rate, Src: rng}
	return d.Rand(), nil
}

// LogNormal is the distribution of exp(N(mu, sigma)).
type LogNormal struct {
	Mu    float64 `yaml:"mu" json:"mu"`
	Sigma float64 `yaml:"sigma" json:"sigma"`
}

func (l LogNormal) Validate() error {
	if !finite(l.Mu) || !positive(l.Sigma) {
		return fmt.Errorf("%w: lognormal mu=%v sigma=%v", ErrInvalidDistribution, l.Mu, l.Sigma)
	}
	return nil
}

func (l LogNormal) Sample(rng *rand.Rand) (float64, error) {
	if err := l.Validate(); err != nil {
		return 0, err
	}
	d := distuv.LogNormal{Mu: l.Mu, Sigma: l.Sigma, Src: rng}
	return d.Rand(), nil
}

func positive(v float64) bool {
	return v > 0 && finite(v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
