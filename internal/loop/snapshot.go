package loop

import (
	"fmt"

	"github.com/tomz197/spotlight/internal/object"
	"github.com/tomz197/spotlight/internal/sequence"
)

// BallView is the renderable state of a ball.
type BallView struct {
	ID      int              `json:"id"`
	X       float64          `json:"x"`
	Y       float64          `json:"y"`
	Radius  float64          `json:"radius"`
	Color   object.Color     `json:"color"`
	State   object.BallState `json:"state"`
	Opacity float64          `json:"opacity"`
	Scale   float64          `json:"scale"`
}

// TargetHint points at the free ball closest to the cursor.
type TargetHint struct {
	BallID int          `json:"ballId"`
	X      float64      `json:"x"`
	Y      float64      `json:"y"`
	Color  object.Color `json:"color"`
}

// CursorView is the renderable state of the cursor.
type CursorView struct {
	X      float64        `json:"x"`
	Y      float64        `json:"y"`
	Radius float64        `json:"radius"`
	Boost  bool           `json:"boost"`
	Trail  []object.Point `json:"trail"`
	Target *TargetHint    `json:"target,omitempty"`
}

// Snapshot is a read-only copy of everything a renderer needs for one frame.
type Snapshot struct {
	Tick    uint64           `json:"tick"`
	Phase   Phase            `json:"phase"`
	Outcome sequence.Outcome `json:"outcome"`
	Arena   object.Arena     `json:"arena"`

	Balls  []BallView `json:"balls"`
	Cursor CursorView `json:"cursor"`

	Target   []object.Color `json:"target"`
	Progress int            `json:"progress"`
	Score    int            `json:"score"`
	WinScore int            `json:"winScore"`
	Lives    int            `json:"lives"`
	MaxLives int            `json:"maxLives"`

	TimeLimited     bool  `json:"timeLimited"`
	TimeRemainingMs int64 `json:"timeRemainingMs"`
	CountdownMs     int64 `json:"countdownMs"`

	Events Events `json:"events"`
}

// LivesEnabled reports whether the round is played with lives.
func (s *Snapshot) LivesEnabled() bool {
	return s.MaxLives > 0
}

// CountdownSeconds returns the whole seconds left in the countdown,
// rounded up.
func (s *Snapshot) CountdownSeconds() int {
	return int((s.CountdownMs + 999) / 1000)
}

// Headline summarizes a decided round: "YOU WIN!", "OUT OF LIVES" or
// "TIME UP!". It is empty while the round is undecided.
func (s *Snapshot) Headline() string {
	switch s.Outcome {
	case sequence.Won:
		return "YOU WIN!"
	case sequence.Lost:
		if s.LivesEnabled() && s.Lives <= 0 {
			return "OUT OF LIVES"
		}
		return "TIME UP!"
	}
	return ""
}

// TimeText formats the remaining time as m:ss, rounding partial seconds up.
func (s *Snapshot) TimeText() string {
	secs := (s.TimeRemainingMs + 999) / 1000
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// Snapshot copies the current game state.
func (g *Game) Snapshot() *Snapshot {
	w := g.world
	rules := g.seq.Rules()

	s := &Snapshot{
		Tick:     g.tick,
		Phase:    g.phase,
		Outcome:  g.seq.Outcome(),
		Arena:    w.Arena,
		Balls:    make([]BallView, len(w.Balls)),
		Target:   g.seq.Target(),
		Progress: g.seq.Progress(),
		Score:    g.seq.Score(),
		WinScore: rules.WinScore,
		Lives:    g.seq.Lives(),
		MaxLives: rules.MaxLives,

		TimeLimited:     g.settings.TimeLimit > 0,
		TimeRemainingMs: g.TimeRemaining().Milliseconds(),
		CountdownMs:     g.CountdownRemaining().Milliseconds(),

		Events: Events{
			Captures: append([]CaptureEvent(nil), g.events.Captures...),
			Wraps:    append([]WrapEvent(nil), g.events.Wraps...),
		},
	}

	for i, b := range w.Balls {
		s.Balls[i] = BallView{
			ID:      b.ID,
			X:       b.X,
			Y:       b.Y,
			Radius:  b.Radius,
			Color:   b.Color,
			State:   b.State,
			Opacity: b.Opacity,
			Scale:   b.Scale,
		}
	}

	c := w.Cursor
	s.Cursor = CursorView{
		X:      c.X,
		Y:      c.Y,
		Radius: c.Radius,
		Boost:  g.held.Boost,
		Trail:  append([]object.Point(nil), c.Trail...),
	}
	if b := c.Closest(w.Balls); b != nil {
		s.Cursor.Target = &TargetHint{BallID: b.ID, X: b.X, Y: b.Y, Color: b.Color}
	}

	return s
}
