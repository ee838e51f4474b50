// Package loop provides the game core: the world simulation, the phase
// state machine and the fixed-step loop that drives a frontend.
package loop

import (
	"context"
	"time"

	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop/config"
)

// Frontend is an input source plus a renderer, such as a terminal client or
// a websocket session.
type Frontend interface {
	Renderer

	// Controls samples the player's input for the frame starting at now.
	Controls(now time.Time) input.Controls
}

// Run drives game with the standard Input → Update → Draw cycle until the
// player quits or ctx is cancelled. Quitting returns nil; cancellation
// returns ctx.Err().
func Run(ctx context.Context, game *Game, f Frontend) error {
	runner := NewRunner(game, 0)
	clock := game.Clock()

	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	for {
		// ===== INPUT PHASE =====
		in := f.Controls(clock.Now())
		if in.Quit {
			return nil
		}

		// ===== UPDATE PHASE =====
		runner.Advance(in)

		// ===== DRAW PHASE =====
		if err := f.Render(game.Snapshot()); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
