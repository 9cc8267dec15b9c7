package engine

import (
	"errors"
	"fmt"
	"slices"

	"github.com/spf13/viper"

	"github.com/wildfunctions/counterpoint/pkg/melody"
	"github.com/wildfunctions/counterpoint/pkg/strategy"
)

// Formats lists the accepted values of Config.Format.
var Formats = []string{"text", "markdown", "json"}

// Config holds all parameters for an evolutionary run.
type Config struct {
	// Preset names an embedded cantus firmus. CantusFirmus, when set, wins.
	Preset        string         `mapstructure:"preset" json:"preset,omitempty"`
	CantusFirmus  []int          `mapstructure:"cantus_firmus" json:"cantus_firmus,omitempty"`
	Species       string         `mapstructure:"species" json:"species"`
	Population    int            `mapstructure:"population" json:"population"`
	Generations   int            `mapstructure:"generations" json:"generations"`
	MutationRange int            `mapstructure:"mutation_range" json:"mutation_range"`
	MutationRate  float64        `mapstructure:"mutation_rate" json:"mutation_rate"`
	Selection     string         `mapstructure:"selection" json:"selection"`
	Seed          int64          `mapstructure:"seed" json:"seed"` // 0 = random
	Format        string         `mapstructure:"format" json:"format"`
	Verbose       bool           `mapstructure:"verbose" json:"verbose"`
	OutDir        string         `mapstructure:"outdir" json:"outdir,omitempty"`
	Store         string         `mapstructure:"store" json:"store,omitempty"` // "", "memory" or "sqlite"
	DBPath        string         `mapstructure:"db" json:"db,omitempty"`
	Weights       melody.Weights `mapstructure:"weights" json:"weights"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Preset:        melody.DefaultPreset,
		Species:       "first",
		Population:    1000,
		Generations:   100,
		MutationRange: 9,
		MutationRate:  0.4,
		Selection:     "roulette",
		Format:        "text",
		DBPath:        "counterpoint.db",
		Weights:       melody.DefaultWeights(),
	}
}

// LoadConfig reads a YAML, TOML or JSON file over DefaultConfig. With an
// empty path it looks for counterpoint.{yaml,toml,json} in the working
// directory and falls back to the defaults when there is none.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("counterpoint")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config %s: %w", v.ConfigFileUsed(), err)
	}
	return cfg, nil
}

// Validate checks the fields that do not depend on a species or cantus.
func (c Config) Validate() error {
	switch {
	case c.Population <= 0:
		return &melody.ConfigError{Field: "population", Message: fmt.Sprintf("must be positive, got %d", c.Population)}
	case c.Generations <= 0:
		return &melody.ConfigError{Field: "generations", Message: fmt.Sprintf("must be positive, got %d", c.Generations)}
	case !slices.Contains(Formats, c.Format):
		return &melody.ConfigError{Field: "format", Message: fmt.Sprintf("unknown format %q (available: %v)", c.Format, Formats)}
	}
	if _, err := strategy.Get(c.Selection); err != nil {
		return err
	}
	return nil
}

// Cantus resolves the cantus firmus, either given inline or by preset name.
func (c Config) Cantus() (melody.CantusFirmus, error) {
	if len(c.CantusFirmus) > 0 {
		cf := melody.CantusFirmus(slices.Clone(c.CantusFirmus))
		if err := cf.Validate(); err != nil {
			return nil, err
		}
		return cf, nil
	}
	name := c.Preset
	if name == "" {
		name = melody.DefaultPreset
	}
	p, err := melody.LoadPreset(name)
	if err != nil {
		return nil, err
	}
	return p.CantusFirmus, nil
}

// Name labels output files and reports.
func (c Config) Name() string {
	switch {
	case len(c.CantusFirmus) > 0:
		return "custom_" + c.Species
	case c.Preset == "":
		return melody.DefaultPreset + "_" + c.Species
	}
	return c.Preset + "_" + c.Species
}
