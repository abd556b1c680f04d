package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every validation failure (errors.Is).
var ErrInvalid = errors.New("invalid configuration")

// FieldError describes one rejected configuration field.
type FieldError struct {
	Field  string
	Reason string
}

func (e FieldError) Error() string {
	return e.Field + ": " + e.Reason
}

// ValidationError lists every problem found in a configuration.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalid, strings.Join(parts, "; "))
}

// Is reports ErrInvalid so callers can test without type assertions.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Validate checks the configuration for values the engine cannot run with.
// All problems are reported together.
func (c *Config) Validate() error {
	v := &ValidationError{}
	add := func(field, format string, args ...any) {
		v.Fields = append(v.Fields, FieldError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if c.Galaxy.Population <= 0 {
		add("galaxy.population", "must be positive, got %d", c.Galaxy.Population)
	}
	if c.Galaxy.Radius <= 0 {
		add("galaxy.radius", "must be positive, got %g", c.Galaxy.Radius)
	}
	if c.Galaxy.FoundingMultiplier < 1 {
		add("galaxy.founding_multiplier", "must be at least 1, got %d", c.Galaxy.FoundingMultiplier)
	}

	if c.Evolution.Acceleration <= 0 {
		add("evolution.acceleration", "must be positive, got %d", c.Evolution.Acceleration)
	}
	checkRange := func(field string, r Range) {
		if r.Min < 0 {
			add(field, "minimum must not be negative, got %d", r.Min)
		}
		if r.Min > r.Max {
			add(field, "minimum %d exceeds maximum %d", r.Min, r.Max)
		}
	}
	checkRange("evolution.lifetime_years", c.Evolution.LifetimeYears)
	checkRange("evolution.initial_age_years", c.Evolution.InitialAgeYears)
	checkRange("evolution.intel_delay_years", c.Evolution.IntelDelayYears)

	if c.Signal.Thickness < 0 {
		add("signal.thickness", "must not be negative, got %d", c.Signal.Thickness)
	}
	// A signal must stay active for at least one step to be counted
	if c.Signal.Lifetime < 1 {
		add("signal.lifetime", "must be at least 1, got %d", c.Signal.Lifetime)
	}

	if c.Spaceship.Speed <= 0 {
		add("spaceship.speed", "must be positive, got %g", c.Spaceship.Speed)
	}
	if c.Spaceship.ArrivalTolerance <= 0 {
		add("spaceship.arrival_tolerance", "must be positive, got %g", c.Spaceship.ArrivalTolerance)
	}

	if c.Sampling.Start < 0 {
		add("sampling.start", "must not be negative, got %d", c.Sampling.Start)
	}
	if c.Sampling.Stride <= 0 {
		add("sampling.stride", "must be positive, got %d", c.Sampling.Stride)
	}
	if c.Sampling.Start > c.Sampling.Stop {
		add("sampling", "start %d exceeds stop %d", c.Sampling.Start, c.Sampling.Stop)
	}

	if c.Telemetry.Window <= 0 {
		add("telemetry.window", "must be positive, got %d", c.Telemetry.Window)
	}

	if len(v.Fields) > 0 {
		return v
	}
	return nil
}
