package sim

import (
	"github.com/pthm-cable/fermi/systems"
	"github.com/pthm-cable/fermi/telemetry"
)

// Frame returns a read-only copy of the current state for rendering.
func (s *Simulation) Frame() *telemetry.Frame {
	frame := &telemetry.Frame{
		Version:       telemetry.FrameVersion,
		Step:          s.step - 1,
		Radius:        s.cfg.Galaxy.Radius,
		Totals:        s.totals,
		Civilizations: make([]telemetry.CivState, 0, s.population),
	}

	query := s.civFilter.Query()
	for query.Next() {
		civ, pos, life, sig, det, fleet := query.Get()
		frame.Civilizations = append(frame.Civilizations, telemetry.CivState{
			ID:           civ.ID,
			X:            pos.X,
			Y:            pos.Y,
			Age:          life.T - life.T0,
			T:            life.T,
			TEnd:         life.TEnd,
			TInt:         life.TIntel,
			Capable:      life.Capable(),
			SignalActive: sig.Active,
			SignalRadius: sig.Radius,
			Detected:     len(det.Detected),
			WasDetected:  det.WasDetected,
		})
		for i := range fleet.Ships {
			ship := &fleet.Ships[i]
			frame.Ships = append(frame.Ships, telemetry.ShipState{
				Owner:   civ.ID,
				X:       ship.X,
				Y:       ship.Y,
				TargetX: ship.TargetX,
				TargetY: ship.TargetY,
				Heading: systems.Heading(ship.DirX, ship.DirY),
			})
		}
	}
	return frame
}

// Gauges samples the population state for windowed telemetry.
func (s *Simulation) Gauges() telemetry.Gauges {
	g := telemetry.Gauges{
		Population: s.population,
		Ages:       make([]float64, 0, s.population),
	}

	query := s.civFilter.Query()
	for query.Next() {
		_, _, life, sig, _, fleet := query.Get()
		if life.Capable() {
			g.Capable++
		}
		if sig.Active {
			g.ActiveSignals++
		}
		g.ShipsInFlight += fleet.InFlight()
		g.Ages = append(g.Ages, float64(life.T-life.T0))
	}
	return g
}
