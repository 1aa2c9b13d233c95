package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/synthpop/demography"
)

const sample = `
seed = 7
attempts = 3

[[bands]]
min = 0
max = 17
[[bands]]
min = 18
max = 120

[targets]
one_parent = 2
other_family = 1

[[population.cells]]
status = "LONE_PARENT"
sex = "female"
min = 30
max = 44
count = 5

[log]
level = "debug"
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "synthpop.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, int64(1), cfg.Seed)
	assert.Equal(t, 1, cfg.Attempts)
	assert.Equal(t, 4, cfg.Parallel)
	assert.Equal(t, "info", cfg.Log.Level)

	bands, err := cfg.AgeBands()
	require.NoError(t, err)
	assert.Equal(t, demography.DefaultBands(), bands)
}

func TestLoad_File(t *testing.T) {
	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Attempts)
	assert.Equal(t, 2, cfg.Targets.OneParent)
	assert.Equal(t, 1, cfg.Targets.OtherFamily)
	assert.Equal(t, "debug", cfg.Log.Level)
	require.Len(t, cfg.Population.Cells, 1)
	assert.Equal(t, PopulationCell{Status: "LONE_PARENT", Sex: "female", Min: 30, Max: 44, Count: 5}, cfg.Population.Cells[0])

	bands, err := cfg.AgeBands()
	require.NoError(t, err)
	assert.Len(t, bands, 2)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SYNTHPOP_SEED", "99")
	t.Setenv("SYNTHPOP_LOG_LEVEL", "warn")

	cfg, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, int64(99), cfg.Seed)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{Attempts: 1, Parallel: 1}
	}
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"attempts", func(c *Config) { c.Attempts = 0 }, ErrInvalid},
		{"parallel", func(c *Config) { c.Parallel = 0 }, ErrInvalid},
		{"targets", func(c *Config) { c.Targets.OneParent = -1 }, ErrInvalid},
		{"overlapping bands", func(c *Config) { c.Bands = []Band{{0, 20}, {10, 30}} }, demography.ErrBadBands},
		{"status", func(c *Config) {
			c.Population.Cells = []PopulationCell{{Status: "BOSS", Sex: "m", Max: 30, Count: 1}}
		}, demography.ErrUnknownStatus},
		{"missing sex", func(c *Config) {
			c.Population.Cells = []PopulationCell{{Status: "MARRIED", Max: 30, Count: 1}}
		}, ErrInvalid},
		{"inverted ages", func(c *Config) {
			c.Population.Cells = []PopulationCell{{Status: "MARRIED", Sex: "f", Min: 40, Max: 30}}
		}, ErrInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(&c)
			err := c.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}

	ok := base()
	assert.NoError(t, ok.Validate())
}
