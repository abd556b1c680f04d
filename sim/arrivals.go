package sim

import (
	"github.com/pthm-cable/fermi/components"
	"github.com/pthm-cable/fermi/systems"
)

// resolveArrivals matches every arrived spaceship against the live
// population by destination coordinates and updates the contact and visit
// counters. Ships whose destination is no longer inhabited are dropped.
func (s *Simulation) resolveArrivals(arrived []components.Spaceship) []Arrival {
	if len(arrived) == 0 {
		return nil
	}

	tol := s.cfg.Spaceship.ArrivalTolerance
	out := make([]Arrival, 0, len(arrived))
	for i := range arrived {
		ship := &arrived[i]
		a := Arrival{Owner: ship.Owner, Kind: systems.ArrivalLost, X: ship.TargetX, Y: ship.TargetY}

		if target := s.findAt(ship, tol); target != nil {
			a.Target = target.civ.ID
			a.Kind = systems.ClassifyArrival(target.life, target.sig, s.signal.Thickness)
		}

		switch a.Kind {
		case systems.ArrivalContact:
			s.totals.Contacts++
			s.totals.Visits++
		case systems.ArrivalVisit:
			s.totals.Visits++
		}
		out = append(out, a)
	}
	return out
}

// findAt returns the first live civilization at the ship's destination.
func (s *Simulation) findAt(ship *components.Spaceship, tol float64) *civRef {
	for i := range s.live {
		if systems.MatchesDestination(s.live[i].pos, ship, tol) {
			return &s.live[i]
		}
	}
	return nil
}
