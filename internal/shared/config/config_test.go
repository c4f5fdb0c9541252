package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"starmap-server/internal/distribution"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	cfg, err := load()
	require.NoError(t, err)
	require.NoError(t, cfg.validate())

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "starmap.db", cfg.ConnectionString())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, uint64(1), cfg.Galaxy.Seed)
	assert.Equal(t, 500, cfg.Galaxy.SystemCount)
	assert.Equal(t, 10*time.Minute, cfg.Galaxy.RouteCacheTTL)
	assert.False(t, cfg.Logging.JSONFormat)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("GALAXY_SEED", "42")
	t.Setenv("GALAXY_SECTOR_SIZE", "128.5")

	cfg, err := load()
	require.NoError(t, err)
	require.NoError(t, cfg.validate())

	assert.True(t, cfg.Logging.JSONFormat)
	assert.Equal(t, uint64(42), cfg.Galaxy.Seed)
	assert.Equal(t, 128.5, cfg.Galaxy.SectorSize)
	assert.True(t, strings.HasPrefix(cfg.ConnectionString(), "host=db port=5432"))
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("GALAXY_SEED", "-3")

	_, err := load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": ""}},
		{"short secret", map[string]string{"JWT_SECRET": "short"}},
		{"unknown driver", map[string]string{"DB_DRIVER": "mysql"}},
		{"negative systems", map[string]string{"GALAXY_SYSTEM_COUNT": "-1"}},
		{"zero radius", map[string]string{"GALAXY_RADIUS": "0"}},
		{"zero cell", map[string]string{"GALAXY_CELL_SIZE": "0"}},
		{"telemetry without endpoint", map[string]string{"OTEL_ENABLED": "true"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("JWT_SECRET", testSecret)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := load()
			require.NoError(t, err)
			assert.Error(t, cfg.validate())
		})
	}
}

func TestLoadGeneratorsDefault(t *testing.T) {
	g, err := LoadGenerators("")
	require.NoError(t, err)

	assert.Equal(t, distribution.Gamma{Shape: 1, Rate: 0.5}, g.PlanetCount)
	assert.Equal(t, 3.5, g.Star.LuminosityExponent)
	assert.Equal(t, distribution.Gamma{Shape: 0.6, Rate: 0.08}, g.Planet.Mass)
}

func TestParseGeneratorsRejectsInvalid(t *testing.T) {
	_, err := ParseGenerators([]byte("star:\n  mass:\n    shape: 0\n    rate: 1\n"))
	assert.ErrorIs(t, err, distribution.ErrInvalidDistribution)

	_, err = ParseGenerators([]byte("unknown: 1\n"))
	assert.Error(t, err)
}

func TestLoadNames(t *testing.T) {
	names, err := LoadNames("")
	require.NoError(t, err)
	assert.Contains(t, names, "Sol")

	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte("# comment\nVega\n\nDeneb\n"), 0o600))

	names, err = LoadNames(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vega", "Deneb"}, names)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n"), 0o600))
	_, err = LoadNames(empty)
	assert.Error(t, err)

	_, err = LoadNames(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
