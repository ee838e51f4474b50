package loop

import (
	"github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/object"
	"github.com/tomz197/spotlight/internal/sequence"
)

// Cue is an audio event emitted by the game.
type Cue int

const (
	CueRoundStart Cue = iota
	CueSequenceCorrect
	CueSequenceComplete
	CueSequenceWrong
	CueRoundWon
	CueRoundLost
)

func (c Cue) String() string {
	switch c {
	case CueRoundStart:
		return "roundStart"
	case CueSequenceCorrect:
		return "sequenceCorrect"
	case CueSequenceComplete:
		return "sequenceComplete"
	case CueSequenceWrong:
		return "sequenceWrong"
	case CueRoundWon:
		return "roundWon"
	case CueRoundLost:
		return "roundLost"
	default:
		return "unknown"
	}
}

// MarshalText encodes the cue by name.
func (c Cue) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// CueEvent is a cue together with its volume hint in [0,1].
type CueEvent struct {
	Cue    Cue     `json:"cue"`
	Volume float64 `json:"volume"`
}

// NewCueEvent attaches the standard volume to c.
func NewCueEvent(c Cue) CueEvent {
	v := config.VolumeMajor
	if c == CueSequenceCorrect || c == CueSequenceWrong {
		v = config.VolumeFeedback
	}
	return CueEvent{Cue: c, Volume: v}
}

// Audio plays cues. Mute state belongs to the implementation.
type Audio interface {
	Play(CueEvent)
	ToggleMusic()
}

// NopAudio discards all cues.
type NopAudio struct{}

func (NopAudio) Play(CueEvent) {}
func (NopAudio) ToggleMusic()  {}

// Renderer presents a snapshot of the game.
type Renderer interface {
	Render(*Snapshot) error
}

// CaptureEvent reports a ball caught by the cursor this tick.
type CaptureEvent struct {
	BallID int           `json:"ballId"`
	Color  object.Color  `json:"color"`
	X      float64       `json:"x"`
	Y      float64       `json:"y"`
	Result sequence.Kind `json:"result"`

	// Cosmetic is set for captures during the countdown, which do not
	// reach the sequence.
	Cosmetic bool `json:"cosmetic"`
}

// WrapEvent reports the cursor crossing an arena edge this tick.
type WrapEvent struct {
	From object.Point `json:"from"`
	To   object.Point `json:"to"`
}

// Events are the cosmetic happenings of one tick.
type Events struct {
	Captures []CaptureEvent `json:"captures"`
	Wraps    []WrapEvent    `json:"wraps"`
}

func (e *Events) clear() {
	e.Captures = e.Captures[:0]
	e.Wraps = e.Wraps[:0]
}
