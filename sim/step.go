package sim

import (
	"github.com/pthm-cable/fermi/components"
	"github.com/pthm-cable/fermi/systems"
	"github.com/pthm-cable/fermi/telemetry"
)

// Detection is one directional detection event.
type Detection struct {
	Detector uint32  `json:"detector"`
	Target   uint32  `json:"target"`
	Distance float64 `json:"distance"`
}

// Arrival is one resolved spaceship arrival.
type Arrival struct {
	Owner  uint32              `json:"owner"`
	Target uint32              `json:"target"` // 0 when nobody lives at the destination
	Kind   systems.ArrivalKind `json:"kind"`
	X      float64             `json:"x"`
	Y      float64             `json:"y"`
}

// StepResult reports what happened during one step, together with the
// cumulative counters after it.
type StepResult struct {
	Step       int
	Population int

	Births    int // entrants created by replenishment
	Deaths    int // civilizations removed for reaching t_end
	Truncated int // founding survivors dropped on the first step

	Signals    int // signals that started emitting this step
	Detections []Detection
	Arrivals   []Arrival

	Sampled bool // a sample was recorded this step
	Totals  telemetry.Counters
}

// Contacts returns the number of contact arrivals in the step.
func (r *StepResult) Contacts() int {
	n := 0
	for _, a := range r.Arrivals {
		if a.Kind == systems.ArrivalContact {
			n++
		}
	}
	return n
}

// Visits returns the number of arrivals that found an inhabitant.
func (r *StepResult) Visits() int {
	n := 0
	for _, a := range r.Arrivals {
		if a.Kind != systems.ArrivalLost {
			n++
		}
	}
	return n
}

// Advance executes one step: prune, replenish, advance every civilization,
// resolve arrivals, tally new signals, scan for detections and sample.
func (s *Simulation) Advance() StepResult {
	step := s.step
	res := StepResult{Step: step}

	s.perf.StartStep()

	s.perf.StartPhase(telemetry.PhasePrune)
	res.Deaths, res.Truncated = s.prune(step == 0)

	s.perf.StartPhase(telemetry.PhaseReplenish)
	res.Births = s.replenish(step)

	// No structural changes happen after this point in the step
	s.collectLive()

	s.perf.StartPhase(telemetry.PhaseUpdate)
	s.arrived = s.updateCivilizations(step, s.arrived[:0])

	s.perf.StartPhase(telemetry.PhaseArrivals)
	res.Arrivals = s.resolveArrivals(s.arrived)

	s.perf.StartPhase(telemetry.PhaseEmission)
	res.Signals = s.tallySignals()

	s.perf.StartPhase(telemetry.PhaseDetection)
	res.Detections = s.detect(step)

	s.perf.StartPhase(telemetry.PhaseSampling)
	res.Sampled = s.series.Record(step, s.totals)

	s.perf.EndStep()

	s.step++
	res.Population = s.population
	res.Totals = s.totals
	return res
}

// updateCivilizations advances age, signal and fleet of every live
// civilization and appends every spaceship that arrived.
func (s *Simulation) updateCivilizations(step int, arrived []components.Spaceship) []components.Spaceship {
	for i := range s.live {
		c := &s.live[i]
		systems.AdvanceAge(c.life, step)
		systems.AdvanceSignal(c.life, c.sig, s.signal)
		arrived = systems.AdvanceFleet(c.fleet, arrived)
	}
	return arrived
}

// tallySignals counts and records signals that started emitting this step.
func (s *Simulation) tallySignals() int {
	n := 0
	for i := range s.live {
		if systems.NewlyEmitting(s.live[i].life, s.live[i].sig) {
			n++
		}
	}
	s.totals.Signals += n
	return n
}
