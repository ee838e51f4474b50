package draw

import (
	"github.com/tomz197/spotlight/internal/loop"
	"github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/object"
)

// Scene colors shared by every terminal frontend.
var (
	CursorColor = object.RGB{R: 0xF5, G: 0xF5, B: 0xF5}
	BoostColor  = object.RGB{R: 0xFF, G: 0xE0, B: 0x80}
	WinColor    = object.RGB{R: 0x66, G: 0xFF, B: 0x33}
	LoseColor   = object.RGB{R: 0xFF, G: 0x33, B: 0x66}
)

// DimGameOver is how bright the frozen arena is behind the game-over panel.
const DimGameOver = 0.35

// Scene paints the arena of s onto the canvas: balls, the cursor with its
// trail, the target hint, capture flashes and teleport flashes where the
// cursor left the arena. dim scales every color.
func Scene(cv *Canvas, s *loop.Snapshot, dim float64) {
	cur := s.Cursor

	if s.Phase == loop.PhasePlaying && cur.Target != nil {
		cv.DrawLine(
			Point{X: cur.X, Y: cur.Y},
			Point{X: cur.Target.X, Y: cur.Target.Y},
			3, cur.Target.Color.RGB().Scale(0.5*dim),
		)
	}

	for _, b := range s.Balls {
		if b.State == object.BallCaptured {
			continue
		}
		cv.FillCircle(b.X, b.Y, b.Radius*b.Scale, b.Color.RGB().Scale(b.Opacity*dim))
	}

	body := CursorColor
	if cur.Boost {
		body = BoostColor
	}

	// Trail is most recent first; older points shrink and fade.
	n := float64(len(cur.Trail) + 1)
	for i := len(cur.Trail) - 1; i >= 0; i-- {
		p := cur.Trail[i]
		fade := 1 - float64(i+1)/n
		cv.FillCircle(p.X, p.Y, cur.Radius*0.4*fade, body.Scale(0.6*fade*dim))
	}

	for _, ev := range s.Events.Wraps {
		cv.DrawRing(ev.From.X, ev.From.Y, cur.Radius*1.4, 8, body.Scale(0.8*dim))
	}

	cv.FillCircle(cur.X, cur.Y, cur.Radius, body.Scale(dim))

	for _, ev := range s.Events.Captures {
		cv.DrawRing(ev.X, ev.Y, config.BallRadius*1.6, 4, ev.Color.RGB().Scale(dim))
	}
}

// SceneDim returns the brightness the arena is drawn at in s's phase, or 0
// when the phase shows no arena.
func SceneDim(s *loop.Snapshot) float64 {
	switch s.Phase {
	case loop.PhaseCountdown, loop.PhasePlaying:
		return 1
	case loop.PhaseGameOver:
		return DimGameOver
	}
	return 0
}
