package loop

import (
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/object"
	"github.com/tomz197/spotlight/internal/sequence"
)

const tick = time.Second / 60

// recordingAudio keeps every cue it is asked to play.
type recordingAudio struct {
	cues    []Cue
	toggles int
}

func (a *recordingAudio) Play(e CueEvent) { a.cues = append(a.cues, e.Cue) }
func (a *recordingAudio) ToggleMusic()    { a.toggles++ }

func (a *recordingAudio) count(c Cue) int {
	n := 0
	for _, got := range a.cues {
		if got == c {
			n++
		}
	}
	return n
}

type harness struct {
	t     *testing.T
	game  *Game
	audio *recordingAudio
	now   time.Time
}

func newHarness(t *testing.T, settings config.Settings) *harness {
	t.Helper()
	audio := &recordingAudio{}
	start := time.Unix(1000, 0)
	g := NewGame(Options{
		Settings: settings,
		Clock:    NewManualClock(start),
		Audio:    audio,
		Rand:     rand.New(rand.NewSource(42)),
	})
	return &harness{t: t, game: g, audio: audio, now: start}
}

// update runs one tick, advancing time by one step first.
func (h *harness) update(in input.Controls) {
	h.now = h.now.Add(tick)
	h.game.UpdateAt(in, h.now)
}

// idle runs ticks with no input for d.
func (h *harness) idle(d time.Duration) {
	for end := h.now.Add(d); h.now.Before(end); {
		h.update(input.Controls{})
	}
}

// quiet is idle with every free ball taken out of play before each tick,
// so nothing is captured by accident.
func (h *harness) quiet(d time.Duration) {
	for end := h.now.Add(d); h.now.Before(end); {
		for _, b := range h.game.World().Balls {
			b.Capture()
		}
		h.update(input.Controls{})
	}
}

// startPlaying goes from the title screen through the countdown.
func (h *harness) startPlaying() {
	h.t.Helper()
	h.update(input.Controls{Start: true})
	if got := h.game.Phase(); got != PhaseCountdown {
		h.t.Fatalf("phase after start = %v, want countdown", got)
	}
	h.quiet(config.CountdownDuration + tick)
	if got := h.game.Phase(); got != PhasePlaying {
		h.t.Fatalf("phase after countdown = %v, want playing", got)
	}
}

// offer takes every ball out of play and puts a single ball of the given
// color under the cursor, so the next tick captures exactly that ball.
func (h *harness) offer(color object.Color) {
	h.t.Helper()
	w := h.game.World()
	var picked *object.Ball
	for _, b := range w.Balls {
		b.Capture()
		if picked == nil && b.Color == color {
			picked = b
		}
	}
	if picked == nil {
		h.t.Fatalf("no ball of color %v", color)
	}
	picked.Place(w.Cursor.X, w.Cursor.Y, 0, config.BallSpeed)
	h.update(input.Controls{})
}

// offerBalls takes every ball out of play and puts the balls with the
// given ids side by side under the cursor, so the next tick captures all
// of them.
func (h *harness) offerBalls(ids ...int) {
	h.t.Helper()
	w := h.game.World()
	for _, b := range w.Balls {
		b.Capture()
	}
	for i, id := range ids {
		offset := float64(i*20 - (len(ids)-1)*10)
		w.Ball(id).Place(w.Cursor.X+offset, w.Cursor.Y, 0, config.BallSpeed)
	}
	h.update(input.Controls{})
}

// results lists the sequence results of this tick's captures.
func (h *harness) results() (ids []int, kinds []sequence.Kind) {
	for _, c := range h.game.Snapshot().Events.Captures {
		ids = append(ids, c.BallID)
		kinds = append(kinds, c.Result)
	}
	return ids, kinds
}

func TestPhaseReachability(t *testing.T) {
	h := newHarness(t, config.Default())
	if h.game.Phase() != PhaseTitle {
		t.Fatalf("initial phase = %v, want title", h.game.Phase())
	}

	h.startPlaying()

	// First capture of the round only creates the target.
	h.offer(object.Pink)
	if len(h.game.Sequence().Target()) != config.SequenceLength {
		t.Fatalf("free capture did not create a target")
	}

	for round := 0; round < config.WinScore; round++ {
		h.game.Sequence().SetTarget([]object.Color{object.Pink, object.Yellow, object.Pink})
		h.offer(object.Pink)
		h.offer(object.Yellow)
		h.offer(object.Pink)
	}

	if h.game.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, want game over", h.game.Phase())
	}
	if h.game.Outcome() != sequence.Won {
		t.Fatalf("outcome = %v, want won", h.game.Outcome())
	}
	if h.audio.count(CueRoundStart) != 1 || h.audio.count(CueRoundWon) != 1 {
		t.Fatalf("cues = %v", h.audio.cues)
	}
	if got := h.audio.count(CueSequenceComplete); got != 3 {
		t.Fatalf("sequenceComplete cues = %d, want 3", got)
	}
	if got := h.audio.count(CueSequenceCorrect); got != 6 {
		t.Fatalf("sequenceCorrect cues = %d, want 6", got)
	}
	if h.audio.count(CueRoundLost) != 0 {
		t.Fatalf("lost cue emitted on a won round")
	}

	h.update(input.Controls{Reset: true})
	if h.game.Phase() != PhaseTitle {
		t.Fatalf("phase after reset = %v, want title", h.game.Phase())
	}
	if h.game.Outcome() != sequence.Unset || h.game.Sequence().Score() != 0 {
		t.Fatalf("round state not cleared after reset")
	}
}

func TestScenarioOutOfLivesEndsRound(t *testing.T) {
	h := newHarness(t, config.Default())
	h.startPlaying()

	h.offer(object.Pink) // free
	h.game.Sequence().SetTarget([]object.Color{object.Pink, object.Pink, object.Pink})

	for i := 0; i < config.InitialLives; i++ {
		if h.game.Phase() != PhasePlaying {
			t.Fatalf("round ended after %d wrong captures", i)
		}
		h.offer(object.Yellow)
	}

	if h.game.Phase() != PhaseGameOver || h.game.Outcome() != sequence.Lost {
		t.Fatalf("phase=%v outcome=%v, want game over and lost", h.game.Phase(), h.game.Outcome())
	}
	if h.audio.count(CueSequenceWrong) != config.InitialLives {
		t.Fatalf("wrong cues = %d", h.audio.count(CueSequenceWrong))
	}
	if h.audio.count(CueRoundLost) != 1 || h.audio.count(CueRoundWon) != 0 {
		t.Fatalf("cues = %v", h.audio.cues)
	}
}

func TestScenarioTimeExpires(t *testing.T) {
	h := newHarness(t, config.Default())
	h.startPlaying()

	h.quiet(config.TimeLimit + tick)

	if h.game.Phase() != PhaseGameOver {
		t.Fatalf("phase = %v, want game over", h.game.Phase())
	}
	if h.game.Outcome() != sequence.Lost {
		t.Fatalf("outcome = %v, want lost", h.game.Outcome())
	}
	if h.game.TimeRemaining() != 0 {
		t.Fatalf("time remaining = %v, want 0", h.game.TimeRemaining())
	}
	if h.audio.count(CueRoundLost) != 1 {
		t.Fatalf("roundLost cues = %d, want 1", h.audio.count(CueRoundLost))
	}
}

func TestNoTimeLimit(t *testing.T) {
	s := config.Default()
	s.TimeLimit = 0
	h := newHarness(t, s)
	h.startPlaying()

	h.quiet(config.TimeLimit * 2)

	if h.game.Phase() != PhasePlaying {
		t.Fatalf("phase = %v, want playing", h.game.Phase())
	}
}

func TestCountdownCapturesAreCosmetic(t *testing.T) {
	h := newHarness(t, config.Default())
	h.update(input.Controls{Start: true})

	h.offer(object.Purple)

	snap := h.game.Snapshot()
	if len(snap.Events.Captures) != 1 || !snap.Events.Captures[0].Cosmetic {
		t.Fatalf("captures = %+v, want one cosmetic capture", snap.Events.Captures)
	}
	if len(h.game.Sequence().Target()) != 0 {
		t.Fatalf("countdown capture reached the sequence")
	}
	if h.game.Sequence().Lives() != config.InitialLives {
		t.Fatalf("lives = %d", h.game.Sequence().Lives())
	}
	if h.game.World().PendingRespawns() == 0 {
		t.Fatalf("countdown capture was not scheduled to respawn")
	}
}

func TestTriggersIgnoredInWrongPhase(t *testing.T) {
	h := newHarness(t, config.Default())

	h.update(input.Controls{Reset: true})
	if h.game.Phase() != PhaseTitle {
		t.Fatalf("reset on title changed phase to %v", h.game.Phase())
	}

	h.startPlaying()
	h.update(input.Controls{Start: true, Reset: true})
	if h.game.Phase() != PhasePlaying {
		t.Fatalf("start/reset while playing changed phase to %v", h.game.Phase())
	}
	if h.audio.count(CueRoundStart) != 1 {
		t.Fatalf("round restarted while playing")
	}
}

func TestGameOverFreezesWorld(t *testing.T) {
	h := newHarness(t, config.Default())
	h.startPlaying()
	h.quiet(config.TimeLimit + tick)

	before := h.game.Snapshot()
	h.idle(time.Second)
	after := h.game.Snapshot()

	for i := range before.Balls {
		if before.Balls[i].X != after.Balls[i].X || before.Balls[i].Y != after.Balls[i].Y {
			t.Fatalf("ball %d moved after game over", i)
		}
	}
	if after.TimeRemainingMs != 0 {
		t.Fatalf("time remaining = %dms", after.TimeRemainingMs)
	}
}

func TestToggleMusicForwardedInEveryPhase(t *testing.T) {
	h := newHarness(t, config.Default())

	h.update(input.Controls{ToggleMusic: true})
	h.update(input.Controls{ToggleMusic: true, Start: true})
	h.idle(config.CountdownDuration + tick)
	h.update(input.Controls{ToggleMusic: true})

	if h.audio.toggles != 3 {
		t.Fatalf("toggles = %d, want 3", h.audio.toggles)
	}
}

func TestRoundStartResetsWorld(t *testing.T) {
	h := newHarness(t, config.Default())
	gen := h.game.World().Generation()

	h.update(input.Controls{Start: true})

	w := h.game.World()
	if w.Generation() != gen+1 {
		t.Fatalf("generation = %d, want %d", w.Generation(), gen+1)
	}
	cx, cy := w.Arena.Center()
	if w.Cursor.X != cx || w.Cursor.Y != cy {
		t.Fatalf("cursor at (%v,%v), want center", w.Cursor.X, w.Cursor.Y)
	}
}

func TestSnapshotContents(t *testing.T) {
	h := newHarness(t, config.Default())
	h.startPlaying()
	h.update(input.Controls{MoveRight: true, Boost: true})

	s := h.game.Snapshot()
	if s.Phase != PhasePlaying {
		t.Fatalf("phase = %v", s.Phase)
	}
	if len(s.Balls) != config.BallCount {
		t.Fatalf("balls = %d, want %d", len(s.Balls), config.BallCount)
	}
	if !s.Cursor.Boost {
		t.Fatalf("boost not reported")
	}
	if len(s.Cursor.Trail) == 0 {
		t.Fatalf("trail empty")
	}
	if s.TimeRemainingMs <= 0 || s.TimeRemainingMs > config.TimeLimit.Milliseconds() {
		t.Fatalf("time remaining = %dms", s.TimeRemainingMs)
	}
	if s.MaxLives != config.InitialLives || !s.LivesEnabled() {
		t.Fatalf("max lives = %d", s.MaxLives)
	}
}

func TestCountdownRemaining(t *testing.T) {
	h := newHarness(t, config.Default())
	h.update(input.Controls{Start: true})

	s := h.game.Snapshot()
	if s.CountdownSeconds() != 3 {
		t.Fatalf("countdown seconds = %d, want 3", s.CountdownSeconds())
	}

	h.idle(time.Second + tick)
	if got := h.game.Snapshot().CountdownSeconds(); got != 2 {
		t.Fatalf("countdown seconds = %d, want 2", got)
	}
}

func TestSnapshotHeadline(t *testing.T) {
	cases := []struct {
		s    Snapshot
		want string
	}{
		{Snapshot{Outcome: sequence.Unset}, ""},
		{Snapshot{Outcome: sequence.Won, Lives: 4, MaxLives: 10}, "YOU WIN!"},
		{Snapshot{Outcome: sequence.Lost, Lives: 0, MaxLives: 10}, "OUT OF LIVES"},
		{Snapshot{Outcome: sequence.Lost, Lives: 3, MaxLives: 10}, "TIME UP!"},
		{Snapshot{Outcome: sequence.Lost}, "TIME UP!"},
	}
	for _, c := range cases {
		if got := c.s.Headline(); got != c.want {
			t.Fatalf("Headline(%v, lives %d/%d) = %q, want %q", c.s.Outcome, c.s.Lives, c.s.MaxLives, got, c.want)
		}
	}
}

func TestSnapshotTimeText(t *testing.T) {
	for ms, want := range map[int64]string{
		60000: "1:00",
		59001: "1:00",
		59000: "0:59",
		1:     "0:01",
		0:     "0:00",
	} {
		s := Snapshot{TimeRemainingMs: ms}
		if got := s.TimeText(); got != want {
			t.Fatalf("TimeText(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestSimultaneousCapturesInOrder(t *testing.T) {
	h := newHarness(t, config.Default())
	h.startPlaying()
	h.offer(object.Pink) // free

	h.game.Sequence().SetTarget([]object.Color{object.Pink, object.Yellow, object.Purple})
	h.offerBalls(0, 2) // pink, yellow

	ids, kinds := h.results()
	if len(ids) != 2 || ids[0] != 0 || ids[1] != 2 {
		t.Fatalf("captured balls = %v, want [0 2]", ids)
	}
	if kinds[0] != sequence.Correct || kinds[1] != sequence.Correct {
		t.Fatalf("results = %v, want correct, correct", kinds)
	}
	if got := h.game.Sequence().Progress(); got != 2 {
		t.Fatalf("progress = %d, want 2", got)
	}
	if got := h.audio.count(CueSequenceCorrect); got != 2 {
		t.Fatalf("sequenceCorrect cues = %d, want 2", got)
	}
}

func TestCaptureAfterWinInSameTickIsIgnored(t *testing.T) {
	h := newHarness(t, config.Default())
	h.startPlaying()
	h.offer(object.Pink) // free

	for round := 1; round < config.WinScore; round++ {
		h.game.Sequence().SetTarget([]object.Color{object.Pink, object.Yellow, object.Pink})
		h.offer(object.Pink)
		h.offer(object.Yellow)
		h.offer(object.Pink)
	}
	h.game.Sequence().SetTarget([]object.Color{object.Yellow, object.Yellow, object.Pink})
	h.offer(object.Yellow)
	h.offer(object.Yellow)

	h.offerBalls(0, 2) // pink wins, yellow comes too late

	_, kinds := h.results()
	if len(kinds) != 2 || kinds[0] != sequence.Complete || kinds[1] != sequence.Ignored {
		t.Fatalf("results = %v, want complete, ignored", kinds)
	}
	if h.game.Outcome() != sequence.Won || h.game.Phase() != PhaseGameOver {
		t.Fatalf("outcome=%v phase=%v, want won and game over", h.game.Outcome(), h.game.Phase())
	}
	if got := h.game.Sequence().Score(); got != config.WinScore {
		t.Fatalf("score = %d, want %d", got, config.WinScore)
	}
	if h.audio.count(CueRoundWon) != 1 || h.audio.count(CueRoundLost) != 0 {
		t.Fatalf("cues = %v", h.audio.cues)
	}
}

func TestCaptureOnExpiringTickDoesNotScore(t *testing.T) {
	h := newHarness(t, config.Default())
	h.startPlaying()
	h.offer(object.Pink) // free
	h.game.Sequence().SetTarget([]object.Color{object.Pink, object.Pink, object.Pink})

	for h.game.TimeRemaining() > tick {
		h.quiet(tick)
	}
	if h.game.Phase() != PhasePlaying {
		t.Fatalf("phase = %v before the last tick", h.game.Phase())
	}

	h.offer(object.Pink)

	if h.game.Phase() != PhaseGameOver || h.game.Outcome() != sequence.Lost {
		t.Fatalf("phase=%v outcome=%v, want game over and lost", h.game.Phase(), h.game.Outcome())
	}
	if p, sc := h.game.Sequence().Progress(), h.game.Sequence().Score(); p != 0 || sc != 0 {
		t.Fatalf("progress=%d score=%d, want the expiring tick not to score", p, sc)
	}
	if caps := h.game.Snapshot().Events.Captures; len(caps) != 0 {
		t.Fatalf("captures on the expiring tick = %+v", caps)
	}
	if h.audio.count(CueSequenceCorrect) != 0 {
		t.Fatalf("correct cue on the expiring tick")
	}
}
