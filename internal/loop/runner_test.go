package loop

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop/config"
)

func newRunnerGame(audio Audio) (*Game, *ManualClock) {
	clock := NewManualClock(time.Unix(500, 0))
	g := NewGame(Options{
		Settings: config.Default(),
		Clock:    clock,
		Audio:    audio,
		Rand:     rand.New(rand.NewSource(9)),
	})
	return g, clock
}

func TestRunnerFixedSteps(t *testing.T) {
	g, clock := newRunnerGame(nil)
	r := NewRunner(g, tick)

	if n := r.Advance(input.Controls{}); n != 1 {
		t.Fatalf("first advance ran %d steps, want 1", n)
	}
	if n := r.Advance(input.Controls{}); n != 0 {
		t.Fatalf("advance without elapsed time ran %d steps", n)
	}

	clock.Advance(3 * tick)
	if n := r.Advance(input.Controls{}); n != 3 {
		t.Fatalf("advance over 3 ticks ran %d steps", n)
	}

	clock.Advance(tick / 2)
	if n := r.Advance(input.Controls{}); n != 0 {
		t.Fatalf("advance over half a tick ran %d steps", n)
	}
	clock.Advance(tick / 2)
	if n := r.Advance(input.Controls{}); n != 1 {
		t.Fatalf("accumulated half ticks ran %d steps, want 1", n)
	}

	if g.Tick() != 5 {
		t.Fatalf("game tick = %d, want 5", g.Tick())
	}
}

func TestRunnerCapsCatchUp(t *testing.T) {
	g, clock := newRunnerGame(nil)
	r := NewRunner(g, tick)
	r.Advance(input.Controls{})

	clock.Advance(100 * tick)
	if n := r.Advance(input.Controls{}); n != config.MaxCatchUpSteps {
		t.Fatalf("catch-up ran %d steps, want %d", n, config.MaxCatchUpSteps)
	}
	if n := r.Advance(input.Controls{}); n != 0 {
		t.Fatalf("backlog not dropped: %d steps", n)
	}
}

func TestRunnerTriggersOncePerFrame(t *testing.T) {
	audio := &recordingAudio{}
	g, clock := newRunnerGame(audio)
	r := NewRunner(g, tick)
	r.Advance(input.Controls{})

	clock.Advance(3 * tick)
	r.Advance(input.Controls{ToggleMusic: true})

	if audio.toggles != 1 {
		t.Fatalf("toggles = %d, want 1", audio.toggles)
	}
}

func TestRunnerHoldsTriggersUntilStep(t *testing.T) {
	g, clock := newRunnerGame(nil)
	r := NewRunner(g, tick)
	r.Advance(input.Controls{})

	if n := r.Advance(input.Controls{Start: true}); n != 0 {
		t.Fatalf("ran %d steps without elapsed time", n)
	}
	if g.Phase() != PhaseTitle {
		t.Fatalf("phase = %v before any step", g.Phase())
	}

	clock.Advance(tick)
	r.Advance(input.Controls{})
	if g.Phase() != PhaseCountdown {
		t.Fatalf("held start trigger lost: phase = %v", g.Phase())
	}
}

func TestRunnerKeepsEventsOfEveryStep(t *testing.T) {
	g, clock := newRunnerGame(nil)
	r := NewRunner(g, tick)
	r.Advance(input.Controls{Start: true})
	if g.Phase() != PhaseCountdown {
		t.Fatalf("phase = %v, want countdown", g.Phase())
	}

	// Only ball 0 is in play, under the cursor: the first of the next
	// steps catches it.
	w := g.World()
	for _, b := range w.Balls {
		b.Capture()
	}
	w.Balls[0].Place(w.Cursor.X, w.Cursor.Y, 0, config.BallSpeed)

	clock.Advance(3 * tick)
	if n := r.Advance(input.Controls{}); n != 3 {
		t.Fatalf("ran %d steps, want 3", n)
	}
	caps := g.Snapshot().Events.Captures
	if len(caps) != 1 || caps[0].BallID != 0 {
		t.Fatalf("captures = %+v, want ball 0 from the first step", caps)
	}

	clock.Advance(tick)
	r.Advance(input.Controls{})
	if caps := g.Snapshot().Events.Captures; len(caps) != 0 {
		t.Fatalf("captures carried into the next frame: %+v", caps)
	}
}

// scriptedFrontend quits after a number of frames.
type scriptedFrontend struct {
	frames  int
	quitAt  int
	renders int
}

func (f *scriptedFrontend) Controls(time.Time) input.Controls {
	f.frames++
	return input.Controls{Quit: f.quitAt > 0 && f.frames >= f.quitAt}
}

func (f *scriptedFrontend) Render(s *Snapshot) error {
	if s == nil {
		return errors.New("nil snapshot")
	}
	f.renders++
	return nil
}

func TestRunQuits(t *testing.T) {
	g, _ := newRunnerGame(nil)
	f := &scriptedFrontend{quitAt: 3}

	if err := Run(context.Background(), g, f); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if f.renders != 2 {
		t.Fatalf("renders = %d, want 2", f.renders)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g, _ := newRunnerGame(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Run(ctx, g, &scriptedFrontend{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run error = %v, want context.Canceled", err)
	}
}

func TestRunReturnsRenderError(t *testing.T) {
	g, _ := newRunnerGame(nil)
	want := errors.New("broken pipe")

	err := Run(context.Background(), g, failingFrontend{err: want})
	if !errors.Is(err, want) {
		t.Fatalf("Run error = %v, want %v", err, want)
	}
}

type failingFrontend struct{ err error }

func (failingFrontend) Controls(time.Time) input.Controls { return input.Controls{} }
func (f failingFrontend) Render(*Snapshot) error          { return f.err }
