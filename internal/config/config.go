// Package config loads server configuration with the precedence
// defaults < YAML file < environment. All knobs are optional; a missing
// config file is not an error.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no explicit path is given.
const DefaultPath = "medaudit.yaml"

// Config holds the run parameters of the server.
type Config struct {
	// ScenarioPath points to a YAML scripted-event table. Empty means
	// use the built-in scenario.
	ScenarioPath string `yaml:"scenario_path"`

	// Seed drives the availability draw. Zero means derive a seed from
	// the clock at startup (non-deterministic runs).
	Seed int64 `yaml:"seed"`

	// AvailabilityRate is the probability each specialist is on shift,
	// in [0, 1].
	AvailabilityRate float64 `yaml:"availability_rate"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		AvailabilityRate: 0.4,
	}
}

// Load builds the configuration: defaults, then the YAML file at path
// (DefaultPath if empty; a missing file is skipped), then MEDAUDIT_*
// environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// No config file is fine; run on defaults.
	default:
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("MEDAUDIT_SCENARIO"); v != "" {
		c.ScenarioPath = v
	}
	if v := os.Getenv("MEDAUDIT_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: MEDAUDIT_SEED: %w", err)
		}
		c.Seed = seed
	}
	if v := os.Getenv("MEDAUDIT_AVAILABILITY_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("config: MEDAUDIT_AVAILABILITY_RATE: %w", err)
		}
		c.AvailabilityRate = rate
	}
	return nil
}

func (c *Config) validate() error {
	if c.AvailabilityRate < 0 || c.AvailabilityRate > 1 {
		return fmt.Errorf("config: availability_rate %v out of [0, 1]", c.AvailabilityRate)
	}
	return nil
}
