package client

import (
	"time"

	"github.com/tomz197/spotlight/internal/loop"
)

// ClientState holds the per-connection presentation state that is not part
// of the game itself. Each client has its own instance.
type ClientState struct {
	now         time.Time     // Time of the current frame
	startedAt   time.Time     // Activity baseline before the first key press
	idle        time.Duration // Time since the last key press
	isInactive  bool          // Whether the inactivity warning is showing
	wasInactive bool          // isInactive as of the previous frame
	prevPhase   loop.Phase    // Phase drawn in the previous frame
	drawnOnce   bool          // Whether any frame has been drawn yet
}

// NewClientState creates a state whose inactivity timer starts at now.
func NewClientState(now time.Time) *ClientState {
	return &ClientState{
		now:       now,
		startedAt: now,
	}
}

// transitioned reports whether the screen must be fully cleared because the
// phase or the inactivity overlay changed since the previous frame.
func (s *ClientState) transitioned(phase loop.Phase) bool {
	changed := !s.drawnOnce || phase != s.prevPhase || s.isInactive != s.wasInactive
	s.drawnOnce = true
	s.prevPhase = phase
	s.wasInactive = s.isInactive
	return changed
}
