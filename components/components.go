// Package components defines ECS components for the simulation.
//
// Every live civilization is one ark entity carrying all six components:
// Civilization, Position, Lifespan, Signal, Detection and Fleet.
package components

// Civilization holds the stable identity of an agent.
// IDs are assigned from a monotonically increasing counter and never reused,
// unlike ark entity IDs which are recycled after removal.
type Civilization struct {
	ID uint32
}

// Position is a fixed location inside the galaxy disk.
type Position struct {
	X, Y float64
}

// Lifespan holds the timing parameters of a civilization, all in steps.
type Lifespan struct {
	T0     int // age offset at entry (random for founders, 0 for entrants)
	TStart int // step at which it entered the simulation
	TIntel int // age after which it can broadcast
	TEnd   int // age at which it dies
	T      int // current age, T0 + step - TStart
}

// Capable reports whether the civilization can ever broadcast.
// Civilizations born past their intelligence threshold are excluded from
// emission, detection and contact logic.
func (l *Lifespan) Capable() bool {
	return l.TIntel > l.T0
}

// Expired reports whether the civilization has reached its end of life.
func (l *Lifespan) Expired() bool {
	return l.T >= l.TEnd
}

// Signal is the expanding broadcast ring.
type Signal struct {
	Active  bool
	Radius  int
	Emitted int // activation events; at most 1 since signals never re-activate
}

// InWindow reports whether the radius is still within the narrow initial
// window of width thickness (the listening window).
func (s *Signal) InWindow(thickness int) bool {
	return s.Radius <= thickness
}

// Detection holds detection bookkeeping.
type Detection struct {
	WasDetected    bool
	DetectedOthers bool
	// Detected is the set of civilization IDs this one has detected.
	Detected map[uint32]struct{}
}

// Has reports whether id was already detected by this civilization.
func (d *Detection) Has(id uint32) bool {
	_, ok := d.Detected[id]
	return ok
}

// Mark records a detection of id.
func (d *Detection) Mark(id uint32) {
	if d.Detected == nil {
		d.Detected = make(map[uint32]struct{}, 1)
	}
	d.Detected[id] = struct{}{}
	d.DetectedOthers = true
}
