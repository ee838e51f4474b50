package loop

import (
	"time"

	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop/config"
)

// Runner decouples simulation from frame rate. Each Advance converts the
// real time elapsed since the previous call into whole fixed steps of the
// game. Triggers (start, reset, music, quit) are delivered to the first
// step of a frame only; if no step runs they wait for the next frame.
type Runner struct {
	game     *Game
	clock    Clock
	step     time.Duration
	maxSteps int

	started bool
	last    time.Time
	simTime time.Time
	acc     time.Duration
	pending input.Controls
}

// NewRunner creates a runner stepping g every step. A non-positive step
// uses the game's tick rate.
func NewRunner(g *Game, step time.Duration) *Runner {
	if step <= 0 {
		step = g.Settings().TickDuration()
	}
	return &Runner{
		game:     g,
		clock:    g.Clock(),
		step:     step,
		maxSteps: config.MaxCatchUpSteps,
	}
}

// Game returns the driven game.
func (r *Runner) Game() *Game { return r.game }

// Advance runs as many fixed steps as the elapsed time allows and returns
// how many ran. The first call runs exactly one step. Events from every
// step of the frame are kept for the next snapshot.
func (r *Runner) Advance(in input.Controls) int {
	now := r.clock.Now()
	r.mergeTriggers(in)

	if !r.started {
		r.started = true
		r.simTime = now.Add(-r.step)
		r.acc = r.step
	} else if d := now.Sub(r.last); d > 0 {
		r.acc += d
	}
	r.last = now

	steps := 0
	for r.acc >= r.step && steps < r.maxSteps {
		c := in.Held()
		if steps == 0 {
			c = r.takeTriggers(c)
			r.game.events.clear()
		}
		r.simTime = r.simTime.Add(r.step)
		r.game.advance(c, r.simTime)
		r.acc -= r.step
		steps++
	}

	// Too far behind: drop the backlog rather than spiral.
	if r.acc >= r.step {
		r.acc = 0
		r.simTime = now
	}
	return steps
}

func (r *Runner) mergeTriggers(in input.Controls) {
	r.pending.Start = r.pending.Start || in.Start
	r.pending.Reset = r.pending.Reset || in.Reset
	r.pending.ToggleMusic = r.pending.ToggleMusic || in.ToggleMusic
	r.pending.Quit = r.pending.Quit || in.Quit
}

func (r *Runner) takeTriggers(c input.Controls) input.Controls {
	c.Start = r.pending.Start
	c.Reset = r.pending.Reset
	c.ToggleMusic = r.pending.ToggleMusic
	c.Quit = r.pending.Quit
	r.pending = input.Controls{}
	return c
}
