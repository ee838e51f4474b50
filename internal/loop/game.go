package loop

import (
	"math/rand"
	"time"

	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/object"
	"github.com/tomz197/spotlight/internal/sequence"
)

// Phase is the current stage of the game.
type Phase int

const (
	PhaseTitle     Phase = iota // Waiting for start
	PhaseCountdown              // Get ready; captures don't count
	PhasePlaying                // Round in progress
	PhaseGameOver               // Round decided, waiting for reset
)

func (p Phase) String() string {
	switch p {
	case PhaseTitle:
		return "title"
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseGameOver:
		return "gameOver"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Options configures a Game. Zero values select defaults.
type Options struct {
	Settings config.Settings
	Clock    Clock
	Audio    Audio
	Rand     *rand.Rand
}

// Game drives the phase state machine for a single player. It owns the
// world and the sequence engine; all mutation goes through Update.
type Game struct {
	settings config.Settings
	clock    Clock
	audio    Audio
	rnd      *rand.Rand

	world *World
	seq   *sequence.Engine

	phase          Phase
	countdownStart time.Time
	playStart      time.Time
	endTime        time.Time
	now            time.Time
	tick           uint64

	held   input.Controls
	events Events
}

// NewGame creates a game on the title screen.
func NewGame(opts Options) *Game {
	if opts.Settings == (config.Settings{}) {
		opts.Settings = config.Default()
	}
	if opts.Clock == nil {
		opts.Clock = SystemClock{}
	}
	if opts.Audio == nil {
		opts.Audio = NopAudio{}
	}
	if opts.Rand == nil {
		seed := opts.Settings.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		opts.Rand = rand.New(rand.NewSource(seed))
	}

	arena := object.Arena{Width: config.ArenaWidth, Height: config.ArenaHeight}
	rules := sequence.Rules{
		Length:   config.SequenceLength,
		WinScore: config.WinScore,
		MaxLives: opts.Settings.MaxLives,
	}

	return &Game{
		settings: opts.Settings,
		clock:    opts.Clock,
		audio:    opts.Audio,
		rnd:      opts.Rand,
		world:    NewWorld(arena, opts.Rand),
		seq:      sequence.NewEngine(rules, object.Palette, opts.Rand),
		phase:    PhaseTitle,
		now:      opts.Clock.Now(),
	}
}

// Update advances the game one tick at the clock's current time.
func (g *Game) Update(in input.Controls) {
	g.UpdateAt(in, g.clock.Now())
}

// UpdateAt advances the game one tick at now. The snapshot reports only
// this tick's events.
func (g *Game) UpdateAt(in input.Controls, now time.Time) {
	g.events.clear()
	g.advance(in, now)
}

// advance runs one tick without clearing events, so several ticks of one
// frame report together.
func (g *Game) advance(in input.Controls, now time.Time) {
	g.now = now
	g.tick++
	g.held = in.Held()

	if in.ToggleMusic {
		g.audio.ToggleMusic()
	}

	switch g.phase {
	case PhaseTitle:
		if in.Start {
			g.startRound(now)
		}
	case PhaseCountdown:
		if now.Sub(g.countdownStart) >= config.CountdownDuration {
			g.phase = PhasePlaying
			g.playStart = now
			g.updatePlaying(in, now)
			return
		}
		g.step(in, now)
	case PhasePlaying:
		g.updatePlaying(in, now)
	case PhaseGameOver:
		if in.Reset {
			g.resetToTitle()
		}
	}
}

// startRound begins the countdown of a fresh round.
func (g *Game) startRound(now time.Time) {
	g.world.Reset()
	g.seq.Reset()
	g.countdownStart = now
	g.playStart = time.Time{}
	g.endTime = time.Time{}
	g.phase = PhaseCountdown
	g.audio.Play(NewCueEvent(CueRoundStart))
}

// resetToTitle clears the finished round and returns to the title screen.
func (g *Game) resetToTitle() {
	g.world.Reset()
	g.seq.Reset()
	g.countdownStart = time.Time{}
	g.playStart = time.Time{}
	g.endTime = time.Time{}
	g.phase = PhaseTitle
}

// updatePlaying checks the time limit, runs the simulation and feeds every
// capture through the sequence engine.
func (g *Game) updatePlaying(in input.Controls, now time.Time) {
	if g.settings.TimeLimit > 0 && now.Sub(g.playStart) >= g.settings.TimeLimit {
		g.seq.Expire()
		g.finish(CueRoundLost, now)
		return
	}

	for _, b := range g.step(in, now) {
		res := g.seq.Capture(b.Color)
		g.recordCapture(b, res.Kind, false)

		switch res.Kind {
		case sequence.Correct:
			g.audio.Play(NewCueEvent(CueSequenceCorrect))
		case sequence.Complete:
			g.audio.Play(NewCueEvent(CueSequenceComplete))
		case sequence.Wrong:
			g.audio.Play(NewCueEvent(CueSequenceWrong))
		}

		switch res.Outcome {
		case sequence.Won:
			g.finish(CueRoundWon, now)
		case sequence.Lost:
			g.finish(CueRoundLost, now)
		}
	}
}

// step runs the world and records cosmetic events. During the countdown the
// captures are reported as cosmetic; the caller handles scoring otherwise.
func (g *Game) step(in input.Controls, now time.Time) []*object.Ball {
	res := g.world.Step(in, now)
	g.events.Wraps = append(g.events.Wraps, res.Wraps...)

	if g.phase == PhaseCountdown {
		for _, b := range res.Captured {
			g.recordCapture(b, sequence.Ignored, true)
		}
		return nil
	}
	return res.Captured
}

func (g *Game) recordCapture(b *object.Ball, kind sequence.Kind, cosmetic bool) {
	g.events.Captures = append(g.events.Captures, CaptureEvent{
		BallID:   b.ID,
		Color:    b.Color,
		X:        b.X,
		Y:        b.Y,
		Result:   kind,
		Cosmetic: cosmetic,
	})
}

func (g *Game) finish(cue Cue, now time.Time) {
	if g.phase == PhaseGameOver {
		return
	}
	g.phase = PhaseGameOver
	g.endTime = now
	g.audio.Play(NewCueEvent(cue))
}

// Tick returns the number of updates run so far.
func (g *Game) Tick() uint64 { return g.tick }

// Phase returns the current phase.
func (g *Game) Phase() Phase { return g.phase }

// Outcome returns the round result; Unset until the round is decided.
func (g *Game) Outcome() sequence.Outcome { return g.seq.Outcome() }

// World exposes the arena for inspection. Callers must not mutate it.
func (g *Game) World() *World { return g.world }

// Sequence exposes the sequence engine for inspection and scripted targets.
func (g *Game) Sequence() *sequence.Engine { return g.seq }

// Settings returns the game's settings.
func (g *Game) Settings() config.Settings { return g.settings }

// Clock returns the game's clock.
func (g *Game) Clock() Clock { return g.clock }

// TimeRemaining returns how much of the time limit is left. The value is
// frozen once the round is decided and full before play starts.
func (g *Game) TimeRemaining() time.Duration {
	limit := g.settings.TimeLimit
	if limit <= 0 {
		return 0
	}
	var used time.Duration
	switch g.phase {
	case PhasePlaying:
		used = g.now.Sub(g.playStart)
	case PhaseGameOver:
		if !g.playStart.IsZero() {
			used = g.endTime.Sub(g.playStart)
		}
	}
	if used >= limit {
		return 0
	}
	if used < 0 {
		used = 0
	}
	return limit - used
}

// CountdownRemaining returns the time left before play starts, or 0 outside
// the countdown.
func (g *Game) CountdownRemaining() time.Duration {
	if g.phase != PhaseCountdown {
		return 0
	}
	left := config.CountdownDuration - g.now.Sub(g.countdownStart)
	if left < 0 {
		return 0
	}
	return left
}
