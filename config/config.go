// Package config loads forecast run settings from YAML.
package config

import (
	"fmt"
	"math"
	"os"

	"github.com/unixpickle/essentials"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/unixpickle/weather-reduce/collcomm/allreduce"
	"github.com/unixpickle/weather-reduce/collcomm/reduce"
	"github.com/unixpickle/weather-reduce/forecast"
	"github.com/unixpickle/weather-reduce/logging"
	"github.com/unixpickle/weather-reduce/report"
	"github.com/unixpickle/weather-reduce/weather"
)

// NetworkKinds lists the supported simulated networks.
var NetworkKinds = []string{"switched", "random"}

// Config is the top-level forecast.yml document.
type Config struct {
	Workers   int      `yaml:"workers"`
	Root      int      `yaml:"root"`
	Locations []string `yaml:"locations,omitempty"` // defaults to the ten reference cities
	Seed      int64    `yaml:"seed,omitempty"`      // 0 = wall clock

	// Barrier defaults to true.
	Barrier         *bool   `yaml:"barrier,omitempty"`
	ObservationCost float64 `yaml:"observation_cost"`

	Network   NetworkConfig  `yaml:"network"`
	Allreduce string         `yaml:"allreduce"`
	Reduce    string         `yaml:"reduce"`
	Log       logging.Config `yaml:"log"`
	Color     *bool          `yaml:"color,omitempty"`
}

// NetworkConfig selects the simulated network.
type NetworkConfig struct {
	Kind    string  `yaml:"kind"`
	Latency float64 `yaml:"latency"`
	Rate    float64 `yaml:"rate,omitempty"`

	// RootRate gives the root worker a different link rate.
	RootRate float64 `yaml:"root_rate,omitempty"`
}

// Default returns the settings used when no file is given.
func Default() *Config {
	barrier := true
	color := true
	return &Config{
		Workers:         3,
		Barrier:         &barrier,
		ObservationCost: 1e-3,
		Network: NetworkConfig{
			Kind:    "switched",
			Latency: 1e-4,
			Rate:    1e9,
		},
		Allreduce: "tree",
		Reduce:    "tree",
		Log:       logging.DefaultConfig(),
		Color:     &color,
	}
}

// Load reads a config file on top of the defaults and
// validates it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML on top of the defaults and validates
// the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that do not depend on the
// partitioning; group-size errors are left to the run.
func (c *Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1 (got %d)", c.Workers)
	}
	if c.Root < 0 || c.Root >= c.Workers {
		return fmt.Errorf("root %d must be in [0, %d)", c.Root, c.Workers)
	}
	if len(c.Locations) > 0 {
		if _, err := weather.NewDirectory(c.Locations); err != nil {
			return fmt.Errorf("locations: %w", err)
		}
	}
	if !finiteNonNegative(c.ObservationCost) {
		return fmt.Errorf("observation_cost must be finite and non-negative (got %f)", c.ObservationCost)
	}
	if !essentials.Contains(NetworkKinds, c.Network.Kind) {
		return fmt.Errorf("network.kind must be one of %v (got %q)", NetworkKinds, c.Network.Kind)
	}
	if !finiteNonNegative(c.Network.Latency) {
		return fmt.Errorf("network.latency must be finite and non-negative (got %f)", c.Network.Latency)
	}
	if c.Network.Kind == "switched" && (c.Network.Rate <= 0 || !finiteNonNegative(c.Network.Rate)) {
		return fmt.Errorf("network.rate must be positive and finite for a switched network")
	}
	if !finiteNonNegative(c.Network.RootRate) {
		return fmt.Errorf("network.root_rate must be finite and non-negative (got %f)", c.Network.RootRate)
	}
	if !essentials.Contains(allreduce.Names, c.Allreduce) {
		return fmt.Errorf("allreduce must be one of %v (got %q)", allreduce.Names, c.Allreduce)
	}
	if !essentials.Contains(reduce.Names, c.Reduce) {
		return fmt.Errorf("reduce must be one of %v (got %q)", reduce.Names, c.Reduce)
	}
	return nil
}

func finiteNonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 0) && !math.IsNaN(x)
}

// Directory returns the configured locations.
func (c *Config) Directory() (*weather.Directory, error) {
	if len(c.Locations) == 0 {
		return weather.DefaultDirectory(), nil
	}
	return weather.NewDirectory(c.Locations)
}

// UseColor reports whether console output is colored.
func (c *Config) UseColor() bool {
	return c.Color == nil || *c.Color
}

// Forecast converts the file settings into a run config.
func (c *Config) Forecast(rep report.Reporter, log *zap.Logger) (forecast.Config, error) {
	dir, err := c.Directory()
	if err != nil {
		return forecast.Config{}, err
	}
	allreducer, err := allreduce.ByName(c.Allreduce)
	if err != nil {
		return forecast.Config{}, err
	}
	reducer, err := reduce.ByName(c.Reduce)
	if err != nil {
		return forecast.Config{}, err
	}
	return forecast.Config{
		Workers:         c.Workers,
		Root:            c.Root,
		Directory:       dir,
		Seed:            c.Seed,
		Barrier:         c.Barrier == nil || *c.Barrier,
		ObservationCost: c.ObservationCost,
		Network: forecast.NetworkConfig{
			Kind:     c.Network.Kind,
			Latency:  c.Network.Latency,
			Rate:     c.Network.Rate,
			RootRate: c.Network.RootRate,
		},
		Allreducer: allreducer,
		Reducer:    reducer,
		Reporter:   rep,
		Log:        log,
	}, nil
}
