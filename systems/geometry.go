// Package systems provides the per-agent rules of the simulation.
// Functions here operate on component values and never touch the ECS world.
package systems

import (
	"math"
	"math/rand"
)

// Distance returns the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	return math.Sqrt(distanceSq(x1, y1, x2, y2))
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// Direction returns the unit vector pointing from (x1, y1) to (x2, y2)
// and the distance between them. Coincident points give a zero vector.
func Direction(x1, y1, x2, y2 float64) (dx, dy, dist float64) {
	dist = Distance(x1, y1, x2, y2)
	if dist > 0 {
		return (x2 - x1) / dist, (y2 - y1) / dist, dist
	}
	return 0, 0, 0
}

// Heading returns the angle of a direction vector in radians.
func Heading(dx, dy float64) float64 {
	return math.Atan2(dy, dx)
}

// RandomPointInDisk samples a point uniformly inside a disk of the given
// radius centred on the origin, by rejection from the bounding square.
func RandomPointInDisk(rng *rand.Rand, radius float64) (x, y float64) {
	r2 := radius * radius
	for {
		x = (rng.Float64()*2 - 1) * radius
		y = (rng.Float64()*2 - 1) * radius
		if x*x+y*y <= r2 {
			return x, y
		}
	}
}
