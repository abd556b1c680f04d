package systems

import "github.com/pthm-cable/fermi/components"

// Listener is the part of a civilization the detection rule looks at.
type Listener struct {
	Life   *components.Lifespan
	Signal *components.Signal
}

// Eligible reports whether a civilization takes part in detection this step:
// its signal must be active and it must be broadcast-capable.
func (l Listener) Eligible() bool {
	return l.Signal.Active && l.Life.Capable()
}

// InAnnulus reports whether dist lies within a signal front of the given
// radius and thickness: [max(0, radius-thickness), radius].
func InAnnulus(dist float64, radius, thickness int) bool {
	inner := radius - thickness
	if inner < 0 {
		inner = 0
	}
	return dist >= float64(inner) && dist <= float64(radius)
}

// Detects reports whether listener detects source at the given distance.
// The distance must fall within the source's signal front and the listener's
// own radius must still be within its narrow initial window.
func Detects(dist float64, listener, source *components.Signal, thickness int) bool {
	return InAnnulus(dist, source.Radius, thickness) && listener.InWindow(thickness)
}

// ArrivalKind classifies the outcome of a spaceship arrival.
type ArrivalKind uint8

const (
	ArrivalLost    ArrivalKind = iota // destination no longer inhabited
	ArrivalVisit                      // destination found, window missed
	ArrivalContact                    // destination still in its early broadcast window
)

func (k ArrivalKind) String() string {
	switch k {
	case ArrivalVisit:
		return "visit"
	case ArrivalContact:
		return "contact"
	default:
		return "lost"
	}
}

// ClassifyArrival decides whether an arrival at a civilization is a contact
// or a plain visit.
func ClassifyArrival(life *components.Lifespan, sig *components.Signal, thickness int) ArrivalKind {
	if sig.InWindow(thickness) && life.Capable() {
		return ArrivalContact
	}
	return ArrivalVisit
}

// MatchesDestination reports whether a position matches a ship's destination
// within tol on each axis.
func MatchesDestination(pos *components.Position, s *components.Spaceship, tol float64) bool {
	return abs(pos.X-s.TargetX) < tol && abs(pos.Y-s.TargetY) < tol
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
