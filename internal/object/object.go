// Package object holds the game entities: the arena, the colored balls and
// the player cursor.
package object

import (
	"math"

	"github.com/tomz197/spotlight/internal/input"
)

// Input is an alias for the input package's Controls type.
type Input = input.Controls

// Point is a position in arena coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Arena is the bounded play field. The origin is the top-left corner.
type Arena struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Center returns the arena midpoint.
func (a Arena) Center() (float64, float64) {
	return a.Width / 2, a.Height / 2
}

// WrapPosition moves a point that has left the arena by more than margin
// to the opposite side, margin units outside that edge.
// Returns true if the point was moved.
func (a Arena) WrapPosition(x, y *float64, margin float64) bool {
	wrapped := false

	if *x < -margin {
		*x = a.Width + margin
		wrapped = true
	} else if *x > a.Width+margin {
		*x = -margin
		wrapped = true
	}

	if *y < -margin {
		*y = a.Height + margin
		wrapped = true
	} else if *y > a.Height+margin {
		*y = -margin
		wrapped = true
	}

	return wrapped
}

// Sanitize recenters a position that is NaN or infinite.
// Returns true if the position was corrected.
func (a Arena) Sanitize(x, y *float64) bool {
	if isFinite(*x) && isFinite(*y) {
		return false
	}
	*x, *y = a.Center()
	return true
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
