package sim

import (
	"github.com/pthm-cable/fermi/systems"
)

// detect scans every unordered pair of live civilizations once, records
// directional detections and launches a spaceship for each.
//
// A pair is skipped when either side already detected the other. Both
// directions are evaluated before either is applied, so a pair can yield
// zero, one or two detections in the same step.
func (s *Simulation) detect(step int) []Detection {
	var events []Detection
	thickness := s.signal.Thickness
	speed := s.cfg.Spaceship.Speed

	n := len(s.live)
	for i := 0; i < n; i++ {
		a := &s.live[i]
		if !(systems.Listener{Life: a.life, Signal: a.sig}).Eligible() {
			continue
		}
		for j := i + 1; j < n; j++ {
			b := &s.live[j]
			if a.det.Has(b.civ.ID) || b.det.Has(a.civ.ID) {
				continue
			}
			if !(systems.Listener{Life: b.life, Signal: b.sig}).Eligible() {
				continue
			}

			dist := systems.Distance(a.pos.X, a.pos.Y, b.pos.X, b.pos.Y)
			aDetectsB := systems.Detects(dist, a.sig, b.sig, thickness)
			bDetectsA := systems.Detects(dist, b.sig, a.sig, thickness)

			if aDetectsB {
				s.recordDetection(a, b, speed, step)
				events = append(events, Detection{Detector: a.civ.ID, Target: b.civ.ID, Distance: dist})
			}
			if bDetectsA {
				s.recordDetection(b, a, speed, step)
				events = append(events, Detection{Detector: b.civ.ID, Target: a.civ.ID, Distance: dist})
			}
		}
	}
	return events
}

// recordDetection applies one directional detection and sends a spaceship
// from the detector to the target's current position.
func (s *Simulation) recordDetection(detector, target *civRef, speed float64, step int) {
	s.totals.Detections++
	detector.det.Mark(target.civ.ID)
	target.det.WasDetected = true

	ship := systems.Launch(detector.pos.X, detector.pos.Y, target.pos.X, target.pos.Y, speed, step)
	ship.Owner = detector.civ.ID
	detector.fleet.Ships = append(detector.fleet.Ships, ship)
}
