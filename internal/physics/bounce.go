package physics

import (
	"math"
	"math/rand"
)

// BounceJitter is the maximum magnitude of the random nudge applied to the
// velocity component parallel to a wall after a rebound. It breaks up
// trajectories that would otherwise repeat forever between two walls.
const BounceJitter = 0.15

// BoundaryBounce keeps b inside a width x height arena.
// When the disk touches an edge it is pushed just inside, the outward
// velocity component is turned inward and the parallel component is
// nudged by up to ±BounceJitter. At most one horizontal and one vertical
// edge are handled per call. Returns true if any edge was hit.
// rnd may be nil, in which case the global source is used.
func BoundaryBounce(b *Body, width, height float64, rnd *rand.Rand) bool {
	hit := false

	if b.X-b.Radius <= 0 {
		b.X = b.Radius + 1
		b.VX = math.Abs(b.VX)
		b.VY += jitter(rnd)
		hit = true
	} else if b.X+b.Radius >= width {
		b.X = width - b.Radius - 1
		b.VX = -math.Abs(b.VX)
		b.VY += jitter(rnd)
		hit = true
	}

	if b.Y-b.Radius <= 0 {
		b.Y = b.Radius + 1
		b.VY = math.Abs(b.VY)
		b.VX += jitter(rnd)
		hit = true
	} else if b.Y+b.Radius >= height {
		b.Y = height - b.Radius - 1
		b.VY = -math.Abs(b.VY)
		b.VX += jitter(rnd)
		hit = true
	}

	return hit
}

// jitter returns a uniform value in [-BounceJitter, BounceJitter).
func jitter(rnd *rand.Rand) float64 {
	var f float64
	if rnd != nil {
		f = rnd.Float64()
	} else {
		f = rand.Float64()
	}
	return (f - 0.5) * 2 * BounceJitter
}

// EnforceSpeed keeps a body moving at a roughly constant rate.
// Each velocity component is first lifted to at least floor in magnitude
// (keeping its sign, zero counts as positive). Then, if the resulting speed
// differs from target by more than tolerance, the velocity is rescaled to
// exactly target.
func EnforceSpeed(b *Body, target, tolerance, floor float64) {
	if math.Abs(b.VX) < floor {
		if b.VX >= 0 {
			b.VX = floor
		} else {
			b.VX = -floor
		}
	}
	if math.Abs(b.VY) < floor {
		if b.VY >= 0 {
			b.VY = floor
		} else {
			b.VY = -floor
		}
	}

	speed := b.Speed()
	if speed != 0 && math.Abs(speed-target) > tolerance {
		b.VX = b.VX / speed * target
		b.VY = b.VY / speed * target
	}
}

// PairCollision resolves an overlap between a and b.
//
// Velocities are rotated into the frame of the collision normal, the 1D
// elastic formula is applied along the normal using Mass(), and the result
// is rotated back. Each body's speed is then restored to what it was before
// the collision, so the model preserves per-body speed rather than momentum.
// Finally the bodies are pushed apart along the normal by half the overlap
// each. Returns false if the bodies do not overlap.
func PairCollision(a, b *Body) bool {
	dx := b.X - a.X
	dy := b.Y - a.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	minDist := a.Radius + b.Radius
	if dist >= minDist {
		return false
	}

	speedA := a.Speed()
	speedB := b.Speed()

	// atan2(0, 0) is 0, so coincident centers separate along the x axis.
	angle := math.Atan2(dy, dx)
	sin := math.Sin(angle)
	cos := math.Cos(angle)

	// Rotate into the normal frame: x along the normal, y tangential.
	vx1 := a.VX*cos + a.VY*sin
	vy1 := a.VY*cos - a.VX*sin
	vx2 := b.VX*cos + b.VY*sin
	vy2 := b.VY*cos - b.VX*sin

	m1 := a.Mass()
	m2 := b.Mass()
	total := m1 + m2
	if total > 0 {
		fx1 := ((m1-m2)*vx1 + 2*m2*vx2) / total
		fx2 := ((m2-m1)*vx2 + 2*m1*vx1) / total
		vx1, vx2 = fx1, fx2
	}

	// Rotate back.
	a.VX = vx1*cos - vy1*sin
	a.VY = vy1*cos + vx1*sin
	b.VX = vx2*cos - vy2*sin
	b.VY = vy2*cos + vx2*sin

	renormalize(a, speedA)
	renormalize(b, speedB)

	overlap := minDist - dist
	sepX := overlap * cos / 2
	sepY := overlap * sin / 2
	a.X -= sepX
	a.Y -= sepY
	b.X += sepX
	b.Y += sepY

	return true
}

// renormalize rescales b's velocity to the given magnitude.
// A zero velocity is left untouched.
func renormalize(b *Body, speed float64) {
	current := b.Speed()
	if current == 0 {
		return
	}
	b.VX = b.VX / current * speed
	b.VY = b.VY / current * speed
}
