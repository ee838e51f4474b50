package loop

import (
	"math"
	"math/rand"
	"time"

	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/object"
	"github.com/tomz197/spotlight/internal/physics"
)

// spawnGrid is the starting layout of the balls as fractions of the arena.
var spawnGrid = [config.BallCount]object.Point{
	{X: 0.1, Y: 0.1}, {X: 0.3, Y: 0.1}, {X: 0.5, Y: 0.1}, {X: 0.7, Y: 0.1}, {X: 0.9, Y: 0.1},
	{X: 0.15, Y: 0.3}, {X: 0.35, Y: 0.3}, {X: 0.55, Y: 0.3}, {X: 0.75, Y: 0.3}, {X: 0.95, Y: 0.3},
	{X: 0.1, Y: 0.5}, {X: 0.3, Y: 0.5}, {X: 0.5, Y: 0.5}, {X: 0.7, Y: 0.5}, {X: 0.9, Y: 0.5},
}

// World holds every entity of the arena and advances them one tick at a
// time. It is owned by a single Game and is not safe for concurrent use.
type World struct {
	Arena  object.Arena
	Balls  []*object.Ball
	Cursor *object.Cursor

	rnd        *rand.Rand
	respawns   RespawnQueue
	generation uint64
}

// StepResult lists what happened during one World.Step.
type StepResult struct {
	Captured []*object.Ball // In enumeration order
	Wraps    []WrapEvent
}

// NewWorld creates a world with the balls on their starting grid.
func NewWorld(arena object.Arena, rnd *rand.Rand) *World {
	cx, cy := arena.Center()
	w := &World{
		Arena:  arena,
		Balls:  make([]*object.Ball, len(spawnGrid)),
		Cursor: object.NewCursor(cx, cy, config.CursorRadius, config.CursorSpeed, config.TrailLength),
		rnd:    rnd,
	}
	for i := range w.Balls {
		w.Balls[i] = &object.Ball{
			ID:    i,
			Color: object.Palette[i%len(object.Palette)],
			Body:  physics.Body{Radius: config.BallRadius},
		}
	}
	w.layout()
	return w
}

// Reset starts a new round generation: balls back on the grid with fresh
// directions, cursor centered. Pending respawns of earlier generations
// become no-ops.
func (w *World) Reset() {
	w.generation++
	w.layout()
	cx, cy := w.Arena.Center()
	w.Cursor.Reset(cx, cy)
}

// Generation returns the current round generation.
func (w *World) Generation() uint64 {
	return w.generation
}

// PendingRespawns returns the number of queued respawns.
func (w *World) PendingRespawns() int {
	return w.respawns.Len()
}

func (w *World) layout() {
	for i, b := range w.Balls {
		p := spawnGrid[i%len(spawnGrid)]
		angle := w.rnd.Float64() * 2 * math.Pi
		b.Place(p.X*w.Arena.Width, p.Y*w.Arena.Height, angle, config.BallSpeed)
	}
}

// Ball returns the ball with the given id, or nil.
func (w *World) Ball(id int) *object.Ball {
	if id < 0 || id >= len(w.Balls) {
		return nil
	}
	return w.Balls[id]
}

// Step advances the world by one tick.
func (w *World) Step(in input.Controls, now time.Time) StepResult {
	var res StepResult

	// Respawns scheduled in an earlier round are dropped.
	w.respawns.PopDue(now, func(id int, generation uint64) {
		if generation != w.generation {
			return
		}
		b := w.Ball(id)
		if b == nil || b.State != object.BallCaptured {
			return
		}
		b.Relocate(w.Arena, config.BallSpeed, now, w.rnd)
	})

	for _, b := range w.Balls {
		b.Animate(now, config.FadeInDuration)
	}

	w.moveBalls()

	fromX, fromY := w.Cursor.X, w.Cursor.Y
	if w.Cursor.Update(in, w.Arena, config.BoostMultiplier) {
		res.Wraps = append(res.Wraps, WrapEvent{
			From: object.Point{X: fromX, Y: fromY},
			To:   object.Point{X: w.Cursor.X, Y: w.Cursor.Y},
		})
	}

	for _, b := range w.Balls {
		if b.Captured() {
			continue
		}
		if !physics.CirclesOverlap(w.Cursor.X, w.Cursor.Y, w.Cursor.Radius, b.X, b.Y, b.Radius) {
			continue
		}
		b.Capture()
		w.respawns.Schedule(b.ID, w.generation, now.Add(config.RespawnDelay))
		res.Captured = append(res.Captured, b)
	}

	return res
}

// moveBalls runs wall bounces, speed enforcement and pairwise collisions for
// every free ball, then integrates its position. Pairs are resolved
// sequentially in enumeration order.
func (w *World) moveBalls() {
	for i, b := range w.Balls {
		if b.Captured() {
			continue
		}

		w.Arena.Sanitize(&b.X, &b.Y)
		physics.BoundaryBounce(&b.Body, w.Arena.Width, w.Arena.Height, w.rnd)
		physics.EnforceSpeed(&b.Body, config.BallSpeed, config.BallSpeedTolerance, config.BallMinComponent)

		for j, other := range w.Balls {
			if i == j || other.Captured() {
				continue
			}
			physics.PairCollision(&b.Body, &other.Body)
		}

		b.X += b.VX
		b.Y += b.VY
	}
}
