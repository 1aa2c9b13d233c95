// Package config loads synthpop settings with viper.
//
// Sources, lowest precedence first: defaults, TOML file, SYNTHPOP_* environment
// variables (dots become underscores, e.g. SYNTHPOP_LOG_LEVEL).
package config

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/katalvlaran/synthpop/demography"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "SYNTHPOP"

// ErrInvalid indicates a configuration value out of range.
var ErrInvalid = errors.New("config: invalid value")

// Config is the full synthpop configuration.
type Config struct {
	Seed     int64 `mapstructure:"seed"`
	Attempts int   `mapstructure:"attempts"`
	Parallel int   `mapstructure:"parallel"`

	Bands      []Band           `mapstructure:"bands"`
	Extras     ExtrasConfig     `mapstructure:"extras"`
	Population PopulationConfig `mapstructure:"population"`
	Targets    Targets          `mapstructure:"targets"`
	Log        LogConfig        `mapstructure:"log"`
	Store      StoreConfig      `mapstructure:"store"`
}

// Band is one inclusive age band.
type Band struct {
	Min int `mapstructure:"min"`
	Max int `mapstructure:"max"`
}

// ExtrasConfig points at the YAML extras distribution. Empty means no extras.
type ExtrasConfig struct {
	Path string `mapstructure:"path"`
}

// PopulationConfig lists the base population.
type PopulationConfig struct {
	Cells []PopulationCell `mapstructure:"cells"`
}

// PopulationCell creates Count persons of one status and sex with ages
// uniform in [Min, Max].
type PopulationCell struct {
	Status string `mapstructure:"status"`
	Sex    string `mapstructure:"sex"`
	Min    int    `mapstructure:"min"`
	Max    int    `mapstructure:"max"`
	Count  int    `mapstructure:"count"`
}

// Targets is the number of units to form per family type.
type Targets struct {
	CoupleOnly         int `mapstructure:"couple_only"`
	CoupleWithChildren int `mapstructure:"couple_with_children"`
	OneParent          int `mapstructure:"one_parent"`
	OtherFamily        int `mapstructure:"other_family"`
}

// LogConfig configures the logger.
type LogConfig struct {
	JSON  bool   `mapstructure:"json"`
	Level string `mapstructure:"level"`
}

// StoreConfig configures the optional SQLite result store. Empty path disables it.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// SetDefaults configures default values for all options.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("seed", 1)
	v.SetDefault("attempts", 1)
	v.SetDefault("parallel", 4)

	v.SetDefault("targets.couple_only", 0)
	v.SetDefault("targets.couple_with_children", 0)
	v.SetDefault("targets.one_parent", 0)
	v.SetDefault("targets.other_family", 0)

	v.SetDefault("log.json", false)
	v.SetDefault("log.level", "info")

	v.SetDefault("extras.path", "")
	v.SetDefault("store.path", "")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads path (TOML) when non-empty, applies defaults and environment
// overrides, and validates the result.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "config: read %s", path)
		}
	}
	return FromViper(v)
}

// FromViper unmarshals and validates the configuration held by v.
func FromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and parses every textual enum.
func (c *Config) Validate() error {
	if c.Attempts < 1 {
		return errors.WithDetailf(ErrInvalid, "attempts must be >= 1, got %d", c.Attempts)
	}
	if c.Parallel < 1 {
		return errors.WithDetailf(ErrInvalid, "parallel must be >= 1, got %d", c.Parallel)
	}
	t := c.Targets
	if t.CoupleOnly < 0 || t.CoupleWithChildren < 0 || t.OneParent < 0 || t.OtherFamily < 0 {
		return errors.WithDetailf(ErrInvalid, "targets must be >= 0, got %+v", t)
	}
	if _, err := c.AgeBands(); err != nil {
		return err
	}
	for i, cell := range c.Population.Cells {
		if _, err := demography.ParseRelationshipStatus(cell.Status); err != nil {
			return errors.Wrapf(err, "config: population.cells[%d]", i)
		}
		sex, err := demography.ParseSex(cell.Sex)
		if err != nil {
			return errors.Wrapf(err, "config: population.cells[%d]", i)
		}
		if !sex.Valid() {
			return errors.WithDetailf(ErrInvalid, "population.cells[%d]: sex is required", i)
		}
		if cell.Min < 0 || cell.Max < cell.Min || cell.Count < 0 {
			return errors.WithDetailf(ErrInvalid, "population.cells[%d]: bad age range %d-%d or count %d", i, cell.Min, cell.Max, cell.Count)
		}
	}
	return nil
}

// AgeBands returns the configured catalogue, or demography.DefaultBands when
// none is configured.
func (c *Config) AgeBands() (demography.Bands, error) {
	if len(c.Bands) == 0 {
		return demography.DefaultBands(), nil
	}
	ranges := make([]demography.AgeRange, len(c.Bands))
	for i, b := range c.Bands {
		ranges[i] = demography.AgeRange{Min: b.Min, Max: b.Max}
	}
	return demography.NewBands(ranges...)
}
