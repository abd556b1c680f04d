package components

// Spaceship is a probe travelling in a straight line to a fixed point.
// The destination is captured by value at launch; the ship holds no
// reference to the destination civilization.
type Spaceship struct {
	Owner            uint32 // ID of the launching civilization
	OriginX, OriginY float64
	TargetX, TargetY float64
	X, Y             float64 // current position
	DirX, DirY       float64 // unit direction (zero for a zero-length trip)
	Speed            float64
	Distance         float64 // straight-line length of the trip
	Traveled         float64
	Active           bool
	LaunchStep       int
}

// Remaining returns the distance left to the destination.
func (s *Spaceship) Remaining() float64 {
	r := s.Distance - s.Traveled
	if r < 0 {
		return 0
	}
	return r
}

// Fleet holds the spaceships owned by a civilization.
type Fleet struct {
	Ships []Spaceship
}

// InFlight returns the number of active ships.
func (f *Fleet) InFlight() int {
	n := 0
	for i := range f.Ships {
		if f.Ships[i].Active {
			n++
		}
	}
	return n
}
