// Package sequence implements the color-sequence matcher that drives
// scoring, lives and the win/lose decision of a round.
package sequence

import (
	"math/rand"

	"github.com/tomz197/spotlight/internal/object"
)

// Outcome is the result of a round.
type Outcome int

const (
	Unset Outcome = iota
	Won
	Lost
)

func (o Outcome) String() string {
	switch o {
	case Won:
		return "won"
	case Lost:
		return "lost"
	default:
		return "unset"
	}
}

// MarshalText encodes the outcome by name.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Kind classifies what a capture did to the sequence.
type Kind int

const (
	Ignored  Kind = iota // Round already decided
	Free                 // First capture of a round; created the target
	Correct              // Matched the next color
	Complete             // Matched the last color; a new target was drawn
	Wrong                // Mismatch; progress discarded
)

func (k Kind) String() string {
	switch k {
	case Free:
		return "free"
	case Correct:
		return "correct"
	case Complete:
		return "complete"
	case Wrong:
		return "wrong"
	default:
		return "ignored"
	}
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Result describes the effect of a single capture.
type Result struct {
	Kind    Kind
	Outcome Outcome // Non-Unset if this capture decided the round
}

// Rules are the tunables of a round.
type Rules struct {
	Length   int // Colors per target sequence
	WinScore int // Completed sequences needed to win
	MaxLives int // Lives per round; 0 means unlimited (score-only variant)
}

// Engine tracks the target sequence and the player's progress through it.
// It is not safe for concurrent use.
type Engine struct {
	rules   Rules
	palette []object.Color
	rnd     *rand.Rand

	target   []object.Color
	progress int
	score    int
	lives    int
	outcome  Outcome
}

// NewEngine creates an engine drawing colors from palette with rnd.
func NewEngine(rules Rules, palette []object.Color, rnd *rand.Rand) *Engine {
	if rules.Length < 1 {
		rules.Length = 1
	}
	if rules.WinScore < 1 {
		rules.WinScore = 1
	}
	if rules.MaxLives < 0 {
		rules.MaxLives = 0
	}
	if len(palette) == 0 {
		palette = object.Palette
	}
	e := &Engine{
		rules:   rules,
		palette: palette,
		rnd:     rnd,
	}
	e.Reset()
	return e
}

// Reset starts a new round: score 0, full lives, no target yet.
func (e *Engine) Reset() {
	e.target = e.target[:0]
	e.progress = 0
	e.score = 0
	e.lives = e.rules.MaxLives
	e.outcome = Unset
}

// Generate draws a fresh target sequence and resets progress.
func (e *Engine) Generate() {
	e.target = e.target[:0]
	for i := 0; i < e.rules.Length; i++ {
		e.target = append(e.target, e.palette[e.rnd.Intn(len(e.palette))])
	}
	e.progress = 0
}

// SetTarget installs a specific target sequence and resets progress.
func (e *Engine) SetTarget(colors []object.Color) {
	e.target = append(e.target[:0], colors...)
	e.progress = 0
}

// Capture evaluates a captured ball of the given color.
func (e *Engine) Capture(color object.Color) Result {
	if e.outcome != Unset {
		return Result{Kind: Ignored, Outcome: e.outcome}
	}

	if len(e.target) == 0 {
		e.Generate()
		return Result{Kind: Free}
	}

	if color == e.target[e.progress] {
		e.progress++
		if e.progress < len(e.target) {
			return Result{Kind: Correct}
		}

		e.score++
		e.Generate()
		if e.score >= e.rules.WinScore {
			e.outcome = Won
		}
		return Result{Kind: Complete, Outcome: e.outcome}
	}

	e.progress = 0
	if e.LivesEnabled() {
		e.lives--
		if e.lives <= 0 {
			e.lives = 0
			e.outcome = Lost
		}
	}
	return Result{Kind: Wrong, Outcome: e.outcome}
}

// Expire ends an undecided round as lost (time ran out).
// Returns false if the round was already decided.
func (e *Engine) Expire() bool {
	if e.outcome != Unset {
		return false
	}
	e.outcome = Lost
	return true
}

// Target returns a copy of the current target sequence (empty before the
// first capture of a round).
func (e *Engine) Target() []object.Color {
	return append([]object.Color(nil), e.target...)
}

// Progress returns how many colors of the target have been matched.
func (e *Engine) Progress() int { return e.progress }

// Score returns the number of completed sequences this round.
func (e *Engine) Score() int { return e.score }

// Lives returns the remaining lives; always 0 when lives are disabled.
func (e *Engine) Lives() int { return e.lives }

// LivesEnabled reports whether wrong captures cost lives.
func (e *Engine) LivesEnabled() bool { return e.rules.MaxLives > 0 }

// Outcome returns the round result so far.
func (e *Engine) Outcome() Outcome { return e.outcome }

// Rules returns the engine's rules.
func (e *Engine) Rules() Rules { return e.rules }
