package object

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

var testArena = Arena{Width: 800, Height: 600}

func TestWrapPosition(t *testing.T) {
	cases := []struct {
		name         string
		x, y         float64
		wantX, wantY float64
		wrapped      bool
	}{
		{"inside", 400, 300, 400, 300, false},
		{"within margin", -10, 300, -10, 300, false},
		{"left", -26, 300, 825, 300, true},
		{"right", 826, 300, -25, 300, true},
		{"top", 400, -30, 400, 625, true},
		{"bottom", 400, 630, 400, -25, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y := tc.x, tc.y
			got := testArena.WrapPosition(&x, &y, 25)
			if got != tc.wrapped {
				t.Fatalf("wrapped = %v, want %v", got, tc.wrapped)
			}
			if x != tc.wantX || y != tc.wantY {
				t.Fatalf("position = (%f,%f), want (%f,%f)", x, y, tc.wantX, tc.wantY)
			}
		})
	}
}

func TestSanitizeRecentersNaN(t *testing.T) {
	x, y := math.NaN(), 10.0
	if !testArena.Sanitize(&x, &y) {
		t.Fatalf("expected NaN position to be corrected")
	}
	if x != 400 || y != 300 {
		t.Fatalf("position = (%f,%f), want center", x, y)
	}

	x, y = 1, math.Inf(-1)
	if !testArena.Sanitize(&x, &y) {
		t.Fatalf("expected infinite position to be corrected")
	}
}

func TestCursorDiagonalIsNormalized(t *testing.T) {
	c := NewCursor(400, 300, 25, 4.5, 15)
	c.Update(Input{MoveRight: true, MoveDown: true}, testArena, 2)

	moved := math.Hypot(c.X-400, c.Y-300)
	if math.Abs(moved-4.5) > 1e-9 {
		t.Fatalf("diagonal step = %f, want 4.5", moved)
	}
}

func TestCursorBoost(t *testing.T) {
	c := NewCursor(400, 300, 25, 4.5, 15)
	c.Update(Input{MoveLeft: true, Boost: true}, testArena, 2)
	if c.X != 391 {
		t.Fatalf("x = %f, want 391", c.X)
	}
}

func TestCursorOpposingDirectionsCancel(t *testing.T) {
	c := NewCursor(400, 300, 25, 4.5, 15)
	c.Update(Input{MoveLeft: true, MoveRight: true}, testArena, 2)
	if c.X != 400 || c.Y != 300 {
		t.Fatalf("cursor moved with opposing input: (%f,%f)", c.X, c.Y)
	}
}

func TestCursorWrapsAcrossEdge(t *testing.T) {
	c := NewCursor(-24, 300, 25, 4.5, 15)
	if !c.Update(Input{MoveLeft: true}, testArena, 2) {
		t.Fatalf("expected wrap")
	}
	if c.X != 825 {
		t.Fatalf("x = %f, want 825", c.X)
	}
}

func TestCursorTrailBounded(t *testing.T) {
	c := NewCursor(100, 100, 25, 1, 3)
	for i := 0; i < 5; i++ {
		c.Update(Input{MoveRight: true}, testArena, 2)
	}
	if len(c.Trail) != 3 {
		t.Fatalf("trail length = %d, want 3", len(c.Trail))
	}
	if c.Trail[0].X != 105 || c.Trail[2].X != 103 {
		t.Fatalf("trail not most-recent-first: %+v", c.Trail)
	}
}

func TestCursorClosestSkipsCaptured(t *testing.T) {
	c := NewCursor(0, 0, 25, 4.5, 15)
	near := NewBall(0, 10, 0, 20, Pink, 0, 3)
	far := NewBall(1, 100, 0, 20, Yellow, 0, 3)
	near.Capture()

	if got := c.Closest([]*Ball{near, far}); got != far {
		t.Fatalf("closest = %v, want far ball", got)
	}
}

func TestBallCaptureOnlyWhenFree(t *testing.T) {
	b := NewBall(0, 100, 100, 20, Pink, 0, 3)
	if !b.Capture() {
		t.Fatalf("free ball should be capturable")
	}
	if b.Capture() {
		t.Fatalf("captured ball captured twice")
	}
	if !b.Captured() || b.Respawning() {
		t.Fatalf("unexpected state %v", b.State)
	}
}

func TestBallRelocateAndAnimate(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	now := time.Unix(1000, 0)
	b := NewBall(0, 100, 100, 20, Purple, 0, 3)
	b.Capture()

	b.Relocate(testArena, 3, now, rnd)

	if !b.Respawning() {
		t.Fatalf("state = %v, want respawning", b.State)
	}
	inside := b.X > 0 && b.X < testArena.Width && b.Y > 0 && b.Y < testArena.Height
	if inside {
		t.Fatalf("relocated ball should start outside the arena, got (%f,%f)", b.X, b.Y)
	}
	if math.Abs(b.Speed()-3) > 1e-9 {
		t.Fatalf("respawn speed = %f, want 3", b.Speed())
	}
	// Heading must point roughly at the center.
	cx, cy := testArena.Center()
	dot := b.VX*(cx-b.X) + b.VY*(cy-b.Y)
	if dot <= 0 {
		t.Fatalf("respawned ball heads away from center")
	}

	if b.Animate(now.Add(500*time.Millisecond), time.Second) {
		t.Fatalf("animation finished early")
	}
	if math.Abs(b.Opacity-0.5) > 1e-9 || math.Abs(b.Scale-0.75) > 1e-9 {
		t.Fatalf("mid animation opacity=%f scale=%f", b.Opacity, b.Scale)
	}

	if !b.Animate(now.Add(time.Second), time.Second) {
		t.Fatalf("animation should finish at duration")
	}
	if b.Captured() || b.Opacity != 1 || b.Scale != 1 {
		t.Fatalf("ball not restored: state=%v opacity=%f scale=%f", b.State, b.Opacity, b.Scale)
	}
}

func TestBallRelocateRecoversNaN(t *testing.T) {
	rnd := rand.New(rand.NewSource(3))
	b := NewBall(0, math.NaN(), math.NaN(), 20, Pink, 0, 3)
	b.Capture()
	b.Relocate(testArena, 3, time.Now(), rnd)
	if math.IsNaN(b.X) || math.IsNaN(b.Y) {
		t.Fatalf("relocated ball kept NaN position")
	}
}

func TestColorHex(t *testing.T) {
	if got := Pink.Hex(); got != "#FF3366" {
		t.Fatalf("Pink.Hex() = %s", got)
	}
	if Color(42).Valid() {
		t.Fatalf("color outside palette reported valid")
	}
}
