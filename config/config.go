// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Galaxy    GalaxyConfig    `yaml:"galaxy"`
	Evolution EvolutionConfig `yaml:"evolution"`
	Signal    SignalConfig    `yaml:"signal"`
	Spaceship SpaceshipConfig `yaml:"spaceship"`
	Sampling  SamplingConfig  `yaml:"sampling"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// GalaxyConfig holds population and geometry parameters.
type GalaxyConfig struct {
	Population         int     `yaml:"population"`          // Target live civilization count N
	Radius             float64 `yaml:"radius"`              // Disk radius R
	FoundingMultiplier int     `yaml:"founding_multiplier"` // Founding candidates = multiplier * N
}

// EvolutionConfig holds the random time ranges, in years.
// Acceleration is the number of years represented by one step.
type EvolutionConfig struct {
	Acceleration    int   `yaml:"acceleration"`
	LifetimeYears   Range `yaml:"lifetime_years"`    // t_end
	InitialAgeYears Range `yaml:"initial_age_years"` // t_0 of founding candidates
	IntelDelayYears Range `yaml:"intel_delay_years"` // t_intel
}

// SignalConfig holds signal geometry.
type SignalConfig struct {
	Thickness int `yaml:"thickness"` // t_signal
	Lifetime  int `yaml:"lifetime"`  // t_stop
}

// SpaceshipConfig holds probe parameters.
type SpaceshipConfig struct {
	Speed            float64 `yaml:"speed"`
	ArrivalTolerance float64 `yaml:"arrival_tolerance"` // Per-axis match distance at arrival
}

// SamplingConfig controls which steps are recorded into the regression series.
type SamplingConfig struct {
	Start  int `yaml:"start"`
	Stop   int `yaml:"stop"`
	Stride int `yaml:"stride"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	Window     int `yaml:"window"`      // Steps per telemetry window
	PerfWindow int `yaml:"perf_window"` // Ticks averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	LifetimeSteps   Range // LifetimeYears / Acceleration
	InitialAgeSteps Range // InitialAgeYears / Acceleration
	IntelDelaySteps Range // IntelDelayYears / Acceleration
	FoundingCount   int   // FoundingMultiplier * Population
	SampleCount     int   // Number of sampling points between Start and Stop
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
// The result is validated; an invalid configuration is never returned.
func Load(path string) (*Config, error) {
	if path == "" {
		return Parse(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse merges YAML data over the embedded defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	// Unmarshal into same struct - only overwrites fields present in data
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize validates the configuration and recomputes derived values.
// Call it after changing fields programmatically (CLI overrides, tests).
func (c *Config) Finalize() error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.computeDerived()
	return nil
}

// Clone returns a deep copy of the configuration.
// Config holds only values, so a struct copy is deep.
func (c *Config) Clone() *Config {
	cp := *c
	return &cp
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	a := c.Evolution.Acceleration
	c.Derived.LifetimeSteps = c.Evolution.LifetimeYears.Scale(a)
	c.Derived.InitialAgeSteps = c.Evolution.InitialAgeYears.Scale(a)
	c.Derived.IntelDelaySteps = c.Evolution.IntelDelayYears.Scale(a)
	c.Derived.FoundingCount = c.Galaxy.FoundingMultiplier * c.Galaxy.Population
	c.Derived.SampleCount = (c.Sampling.Stop-c.Sampling.Start)/c.Sampling.Stride + 1
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// MarshalYAMLString renders the configuration as YAML text.
func (c *Config) MarshalYAMLString() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}
	return string(data), nil
}
