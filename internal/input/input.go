// Package input turns device events into the normalized per-tick control
// signals consumed by the game.
package input

import (
	"sync"
	"time"
)

// DefaultHoldDuration is how long a key is considered "held" after its last
// press. Terminals deliver no key-up events, only auto-repeat, so this must
// bridge the gap between repeats.
const DefaultHoldDuration = 150 * time.Millisecond

// Controls is one tick's worth of input. Movement flags and Boost are
// level-triggered; Start, Reset, ToggleMusic and Quit are edge-triggered and
// reported once per press.
type Controls struct {
	MoveUp    bool `json:"up"`
	MoveDown  bool `json:"down"`
	MoveLeft  bool `json:"left"`
	MoveRight bool `json:"right"`
	Boost     bool `json:"boost"`

	Start       bool `json:"start"`
	Reset       bool `json:"reset"`
	ToggleMusic bool `json:"toggleMusic"`
	Quit        bool `json:"quit"`
}

// Held returns only the level-triggered part of c.
func (c Controls) Held() Controls {
	return Controls{
		MoveUp:    c.MoveUp,
		MoveDown:  c.MoveDown,
		MoveLeft:  c.MoveLeft,
		MoveRight: c.MoveRight,
		Boost:     c.Boost,
	}
}

// Key is a level-triggered control.
type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
	KeyBoost
	numKeys
)

// Trigger is an edge-triggered control.
type Trigger int

const (
	TriggerStart Trigger = iota
	TriggerReset
	TriggerToggleMusic
	TriggerQuit
)

// Tracker accumulates key presses from any device and samples them into
// Controls. It is safe for use from an input goroutine and the game loop.
type Tracker struct {
	mu       sync.Mutex
	hold     time.Duration
	pressed  [numKeys]time.Time
	pending  Controls
	activity time.Time
}

// NewTracker creates a tracker. A non-positive hold uses DefaultHoldDuration.
func NewTracker(hold time.Duration) *Tracker {
	if hold <= 0 {
		hold = DefaultHoldDuration
	}
	return &Tracker{hold: hold}
}

// Press records that k was seen at now.
func (t *Tracker) Press(k Key, now time.Time) {
	if k < 0 || k >= numKeys {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed[k] = now
	t.activity = now
}

// Fire queues a trigger for the next Sample.
func (t *Tracker) Fire(tr Trigger, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch tr {
	case TriggerStart:
		t.pending.Start = true
	case TriggerReset:
		t.pending.Reset = true
	case TriggerToggleMusic:
		t.pending.ToggleMusic = true
	case TriggerQuit:
		t.pending.Quit = true
	}
	t.activity = now
}

// Release forgets all held keys, e.g. after a phase change.
func (t *Tracker) Release() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pressed = [numKeys]time.Time{}
}

// Sample builds the Controls for now and consumes pending triggers.
func (t *Tracker) Sample(now time.Time) Controls {
	t.mu.Lock()
	defer t.mu.Unlock()

	held := func(k Key) bool {
		last := t.pressed[k]
		return !last.IsZero() && now.Sub(last) < t.hold
	}

	c := t.pending
	t.pending = Controls{}
	c.MoveUp = held(KeyUp)
	c.MoveDown = held(KeyDown)
	c.MoveLeft = held(KeyLeft)
	c.MoveRight = held(KeyRight)
	c.Boost = held(KeyBoost)
	return c
}

// LastActivity returns the time of the most recent press or trigger.
func (t *Tracker) LastActivity() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.activity
}
