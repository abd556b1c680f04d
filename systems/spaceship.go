package systems

import "github.com/pthm-cable/fermi/components"

// Launch creates a spaceship from one point to another, travelling at speed.
func Launch(fromX, fromY, toX, toY, speed float64, step int) components.Spaceship {
	dx, dy, dist := Direction(fromX, fromY, toX, toY)
	return components.Spaceship{
		OriginX:    fromX,
		OriginY:    fromY,
		TargetX:    toX,
		TargetY:    toY,
		X:          fromX,
		Y:          fromY,
		DirX:       dx,
		DirY:       dy,
		Speed:      speed,
		Distance:   dist,
		Active:     true,
		LaunchStep: step,
	}
}

// AdvanceShip moves an active ship one step and reports whether it arrived.
// A ship whose remaining distance is within one step's travel lands on its
// destination, so a trip of length d takes exactly ceil(d/speed) steps.
func AdvanceShip(s *components.Spaceship) bool {
	if !s.Active {
		return false
	}

	if s.Remaining() <= s.Speed {
		s.Traveled = s.Distance
		s.X, s.Y = s.TargetX, s.TargetY
		s.Active = false
		return true
	}

	s.X += s.DirX * s.Speed
	s.Y += s.DirY * s.Speed
	s.Traveled += s.Speed
	return false
}

// AdvanceFleet moves every ship in the fleet, removes the ones that arrived
// and appends them to arrived. Survivors are compacted in place.
func AdvanceFleet(f *components.Fleet, arrived []components.Spaceship) []components.Spaceship {
	kept := f.Ships[:0]
	for i := range f.Ships {
		ship := f.Ships[i]
		if AdvanceShip(&ship) {
			arrived = append(arrived, ship)
			continue
		}
		kept = append(kept, ship)
	}
	// Clear the tail so dropped ships are not retained by the backing array
	for i := len(kept); i < len(f.Ships); i++ {
		f.Ships[i] = components.Spaceship{}
	}
	f.Ships = kept
	return arrived
}
