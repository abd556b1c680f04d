// Package sim runs the civilization simulation: population churn, signal
// emission, pairwise detection, spaceship arrivals and sampling.
//
// A Simulation owns all of its state and is not safe for concurrent use.
// Independent simulations may run in separate goroutines.
package sim

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/fermi/components"
	"github.com/pthm-cable/fermi/config"
	"github.com/pthm-cable/fermi/systems"
	"github.com/pthm-cable/fermi/telemetry"
)

// Founder describes one explicitly placed founding civilization.
type Founder struct {
	X, Y   float64
	T0     int
	TIntel int
	TEnd   int
}

// Options holds construction options for a Simulation.
type Options struct {
	Seed   int64      // RNG seed (0 = time-based); ignored when Rand is set
	Rand   *rand.Rand // injected random source
	Logger *slog.Logger

	// Founders replaces the random founding population when non-empty.
	Founders []Founder

	// Perf receives phase timings; nil disables timing.
	Perf *telemetry.PerfCollector
}

// civRef caches component pointers of one live civilization for the
// duration of a step. Valid until the next structural change of the world.
type civRef struct {
	entity ecs.Entity
	civ    *components.Civilization
	pos    *components.Position
	life   *components.Lifespan
	sig    *components.Signal
	det    *components.Detection
	fleet  *components.Fleet
}

// Simulation is one independent run of the model.
type Simulation struct {
	cfg    *config.Config
	rng    *rand.Rand
	seed   int64
	logger *slog.Logger
	perf   *telemetry.PerfCollector

	world *ecs.World

	civMapper *ecs.Map6[
		components.Civilization,
		components.Position,
		components.Lifespan,
		components.Signal,
		components.Detection,
		components.Fleet,
	]
	civFilter *ecs.Filter6[
		components.Civilization,
		components.Position,
		components.Lifespan,
		components.Signal,
		components.Detection,
		components.Fleet,
	]

	signal systems.SignalParams

	nextID     uint32
	step       int // next step to execute
	population int
	totals     telemetry.Counters
	series     *telemetry.Series

	// Scratch buffers reused across steps
	live    []civRef
	arrived []components.Spaceship
}

// New creates a simulation from a validated configuration.
// The founding population is created immediately; the founding truncation
// happens during the first step.
func New(cfg *config.Config, opts Options) *Simulation {
	seed := opts.Seed
	rng := opts.Rand
	if rng == nil {
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		rng = rand.New(rand.NewSource(seed))
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	capacity := cfg.Derived.FoundingCount
	if len(opts.Founders) > 0 {
		capacity = len(opts.Founders)
	}

	world := ecs.NewWorld(capacity)

	s := &Simulation{
		cfg:    cfg,
		rng:    rng,
		seed:   seed,
		logger: logger,
		perf:   opts.Perf,
		world:  world,
		civMapper: ecs.NewMap6[
			components.Civilization,
			components.Position,
			components.Lifespan,
			components.Signal,
			components.Detection,
			components.Fleet,
		](world),
		civFilter: ecs.NewFilter6[
			components.Civilization,
			components.Position,
			components.Lifespan,
			components.Signal,
			components.Detection,
			components.Fleet,
		](world),
		signal: systems.SignalParams{
			Thickness: cfg.Signal.Thickness,
			Lifetime:  cfg.Signal.Lifetime,
		},
		nextID: 1,
		series: telemetry.NewSeries(cfg.Sampling.Start, cfg.Sampling.Stop, cfg.Sampling.Stride),
		live:   make([]civRef, 0, cfg.Galaxy.Population),
	}

	if len(opts.Founders) > 0 {
		for _, f := range opts.Founders {
			s.spawn(f.X, f.Y, f.T0, 0, f.TIntel, f.TEnd)
		}
	} else {
		s.spawnFounders(cfg.Derived.FoundingCount)
	}

	return s
}

// Config returns the configuration the simulation was built with.
func (s *Simulation) Config() *config.Config {
	return s.cfg
}

// Seed returns the RNG seed, or 0 when the random source was injected.
func (s *Simulation) Seed() int64 {
	return s.seed
}

// Step returns the number of steps executed so far, which is also the
// index of the next step.
func (s *Simulation) Step() int {
	return s.step
}

// Population returns the number of live civilizations.
func (s *Simulation) Population() int {
	return s.population
}

// Totals returns the cumulative counters.
func (s *Simulation) Totals() telemetry.Counters {
	return s.totals
}

// Series returns the sampled regression series.
func (s *Simulation) Series() *telemetry.Series {
	return s.series
}

// Perf returns the perf collector, which may be nil.
func (s *Simulation) Perf() *telemetry.PerfCollector {
	return s.perf
}

// State is the explicit simulation-wide state after a step.
type State struct {
	Step       int                `json:"step"`
	Population int                `json:"population"`
	Totals     telemetry.Counters `json:"totals"`
}

// State returns the current simulation-wide state.
func (s *Simulation) State() State {
	return State{Step: s.step, Population: s.population, Totals: s.totals}
}
