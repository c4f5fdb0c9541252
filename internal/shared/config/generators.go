package config

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"starmap-server/internal/distribution"
	"starmap-server/internal/planet"
	"starmap-server/internal/resources"
	"starmap-server/internal/star"
)

// Generators holds the distribution parameters of the content generators.
type Generators struct {
	Star        star.Config        `yaml:"star"`
	Planet      planet.Config      `yaml:"planet"`
	PlanetCount distribution.Gamma `yaml:"planet_count"`
}

func (g *Generators) Validate() error {
	if err := g.Star.Validate(); err != nil {
		return err
	}
	if err := g.Planet.Validate(); err != nil {
		return err
	}
	if err := g.PlanetCount.Validate(); err != nil {
		return fmt.Errorf("planet count: %w", err)
	}
	return nil
}

// LoadGenerators reads generator parameters from a YAML file, or from the
// embedded defaults when path is empty.
func LoadGenerators(path string) (*Generators, error) {
	data := resources.Generators()
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read generators file: %w", err)
		}
	}
	return ParseGenerators(data)
}

func ParseGenerators(data []byte) (*Generators, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var g Generators
	if err := dec.Decode(&g); err != nil {
		return nil, fmt.Errorf("failed to parse generators: %w", err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("invalid generators: %w", err)
	}
	return &g, nil
}

// LoadNames reads a newline separated name corpus, or the embedded default
// corpus when path is empty.
func LoadNames(path string) ([]string, error) {
	if path == "" {
		return resources.Names(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read names file: %w", err)
	}

	names := resources.ParseNames(string(data))
	if len(names) == 0 {
		return nil, fmt.Errorf("names file %s is empty", path)
	}
	return names, nil
}
