// Package physics provides collision detection, distance utilities and the
// rebound math for circular bodies.
package physics

import "math"

// Body is a moving disk. Velocity is expressed in arena units per tick.
type Body struct {
	X, Y   float64 // Center
	VX, VY float64 // Velocity
	Radius float64
}

// Mass returns the body's collision mass (twice its radius).
func (b *Body) Mass() float64 {
	return 2 * b.Radius
}

// Speed returns the velocity magnitude.
func (b *Body) Speed() float64 {
	return math.Hypot(b.VX, b.VY)
}

// Distance calculates the Euclidean distance between two points.
func Distance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx + dy*dy
}

// CirclesOverlap checks if two circles overlap.
func CirclesOverlap(x1, y1, r1, x2, y2, r2 float64) bool {
	minDist := r1 + r2
	return DistanceSquared(x1, y1, x2, y2) < minDist*minDist
}
