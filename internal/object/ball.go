package object

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/spotlight/internal/physics"
)

// BallState is the lifecycle phase of a ball.
type BallState int

const (
	BallFree       BallState = iota // Moving and catchable
	BallCaptured                    // Caught, frozen until its respawn fires
	BallRespawning                  // Relocated off-arena, fading back in
)

// fadeInStartScale is the size a respawning ball starts from.
const fadeInStartScale = 0.5

func (s BallState) String() string {
	switch s {
	case BallFree:
		return "free"
	case BallCaptured:
		return "captured"
	case BallRespawning:
		return "respawning"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s BallState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Ball is a colored coin bouncing around the arena.
type Ball struct {
	physics.Body
	ID    int
	Color Color
	State BallState

	// RespawnStart is when the fade-in began. Only meaningful while Respawning.
	RespawnStart time.Time

	Opacity float64 // 0 (invisible) to 1
	Scale   float64 // Draw scale, 1 when fully present
}

// NewBall creates a free ball at (x,y) moving at speed in direction angle.
func NewBall(id int, x, y, radius float64, color Color, angle, speed float64) *Ball {
	b := &Ball{
		ID:    id,
		Color: color,
		Body:  physics.Body{Radius: radius},
	}
	b.Place(x, y, angle, speed)
	return b
}

// Place puts the ball back into play at (x,y), clearing any lifecycle state.
func (b *Ball) Place(x, y, angle, speed float64) {
	b.X = x
	b.Y = y
	b.VX = math.Cos(angle) * speed
	b.VY = math.Sin(angle) * speed
	b.State = BallFree
	b.RespawnStart = time.Time{}
	b.Opacity = 1
	b.Scale = 1
}

// Captured returns true while the ball is out of play (captured or respawning).
func (b *Ball) Captured() bool {
	return b.State != BallFree
}

// Respawning returns true while the ball is fading back in.
func (b *Ball) Respawning() bool {
	return b.State == BallRespawning
}

// Capture takes a free ball out of play. Returns false if it was not free.
func (b *Ball) Capture() bool {
	if b.State != BallFree {
		return false
	}
	b.State = BallCaptured
	return true
}

// Relocate moves a captured ball just beyond a random arena edge, aims it
// roughly at the center and starts the fade-in.
func (b *Ball) Relocate(arena Arena, speed float64, now time.Time, rnd *rand.Rand) {
	arena.Sanitize(&b.X, &b.Y)

	w := arena.Width
	h := arena.Height
	padding := b.Radius * 3
	offset := b.Radius * 2

	switch rnd.Intn(4) {
	case 0: // Top
		b.X = rnd.Float64()*(w-padding*2) + padding
		b.Y = -offset
	case 1: // Right
		b.X = w + offset
		b.Y = rnd.Float64()*(h-padding*2) + padding
	case 2: // Bottom
		b.X = rnd.Float64()*(w-padding*2) + padding
		b.Y = h + offset
	case 3: // Left
		b.X = -offset
		b.Y = rnd.Float64()*(h-padding*2) + padding
	}

	arena.Sanitize(&b.X, &b.Y)

	// Aim roughly toward center with some randomness
	centerX, centerY := arena.Center()
	angle := math.Atan2(centerY-b.Y, centerX-b.X)
	angle += (rnd.Float64() - 0.5) * math.Pi / 4 // ±22.5°

	b.VX = math.Cos(angle) * speed
	b.VY = math.Sin(angle) * speed

	b.State = BallRespawning
	b.RespawnStart = now
	b.Opacity = 0
	b.Scale = fadeInStartScale
}

// Animate advances the fade-in. Opacity goes 0→1 and scale 0.5→1 over
// duration. Returns true when the ball has fully returned to play.
func (b *Ball) Animate(now time.Time, duration time.Duration) bool {
	if b.State != BallRespawning {
		return false
	}

	elapsed := now.Sub(b.RespawnStart)
	if elapsed < duration {
		progress := float64(elapsed) / float64(duration)
		if progress < 0 {
			progress = 0
		}
		b.Opacity = progress
		b.Scale = fadeInStartScale + progress*(1-fadeInStartScale)
		return false
	}

	b.State = BallFree
	b.RespawnStart = time.Time{}
	b.Opacity = 1
	b.Scale = 1
	return true
}
