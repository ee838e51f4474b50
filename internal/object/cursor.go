package object

import (
	"math"

	"github.com/tomz197/spotlight/internal/physics"
)

// Cursor is the player-controlled spotlight ("monster").
type Cursor struct {
	physics.Body
	Speed    float64 // Base movement per tick
	MaxTrail int     // Maximum trail length

	// Trail holds past positions, most recent first. Rendering only.
	Trail []Point
}

// NewCursor creates a cursor at (x,y).
func NewCursor(x, y, radius, speed float64, maxTrail int) *Cursor {
	return &Cursor{
		Body:     physics.Body{X: x, Y: y, Radius: radius},
		Speed:    speed,
		MaxTrail: maxTrail,
		Trail:    make([]Point, 0, maxTrail),
	}
}

// Reset moves the cursor to (x,y) and clears its trail.
func (c *Cursor) Reset(x, y float64) {
	c.X = x
	c.Y = y
	c.VX = 0
	c.VY = 0
	c.Trail = c.Trail[:0]
}

// Direction converts the movement flags into a unit vector, or zero when
// no direction (or opposing directions) are held.
func Direction(in Input) (dx, dy float64) {
	if in.MoveLeft {
		dx--
	}
	if in.MoveRight {
		dx++
	}
	if in.MoveUp {
		dy--
	}
	if in.MoveDown {
		dy++
	}
	if dist := math.Hypot(dx, dy); dist > 0 {
		dx /= dist
		dy /= dist
	}
	return dx, dy
}

// Update moves the cursor one tick according to the input, wrapping across
// the arena edges. boost multiplies the base speed while Boost is held.
// Returns true if the cursor wrapped this tick.
func (c *Cursor) Update(in Input, arena Arena, boost float64) bool {
	arena.Sanitize(&c.X, &c.Y)

	speed := c.Speed
	if in.Boost {
		speed *= boost
	}

	dx, dy := Direction(in)
	c.VX = dx * speed
	c.VY = dy * speed
	c.X += c.VX
	c.Y += c.VY

	wrapped := arena.WrapPosition(&c.X, &c.Y, c.Radius)
	c.pushTrail()
	return wrapped
}

// pushTrail records the current position at the head of the trail.
func (c *Cursor) pushTrail() {
	if c.MaxTrail <= 0 {
		return
	}
	if len(c.Trail) < c.MaxTrail {
		c.Trail = append(c.Trail, Point{})
	}
	copy(c.Trail[1:], c.Trail[:len(c.Trail)-1])
	c.Trail[0] = Point{X: c.X, Y: c.Y}
}

// Closest returns the nearest free ball, or nil if none is in play.
func (c *Cursor) Closest(balls []*Ball) *Ball {
	var closest *Ball
	best := math.Inf(1)
	for _, b := range balls {
		if b.Captured() {
			continue
		}
		if d := physics.DistanceSquared(c.X, c.Y, b.X, b.Y); d < best {
			best = d
			closest = b
		}
	}
	return closest
}
