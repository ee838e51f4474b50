// Package audio plays the game's cues: synthesized tones through the system
// speaker, or the terminal bell for remote sessions.
package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"

	"github.com/tomz197/spotlight/internal/loop"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
)

// oscillator generates a fixed-length raw wave.
type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// NewOscillator creates a finite oscillator for wave generation.
func NewOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase) // Keep in [0, 1)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies linear attack and release to a stream.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s over duration with the given attack and release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack && e.attack > 0 {
			vol = float64(e.position) / float64(e.attack)
		}
		if remaining := e.total - e.position; remaining < e.release && e.release > 0 {
			vol = math.Min(vol, float64(remaining)/float64(e.release))
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales s linearly by vol. math.Log2(0) is -Inf, so zero volume
// is made silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// note is one tone of a cue.
type note struct {
	freq float64
	dur  time.Duration
	wave WaveType
}

// cueNotes are the melodies played for each cue.
var cueNotes = map[loop.Cue][]note{
	loop.CueRoundStart: {
		{523.25, 90 * time.Millisecond, WaveSine},
		{659.25, 90 * time.Millisecond, WaveSine},
		{783.99, 140 * time.Millisecond, WaveSine},
	},
	loop.CueSequenceCorrect: {
		{880, 80 * time.Millisecond, WaveSine},
	},
	loop.CueSequenceComplete: {
		{659.25, 70 * time.Millisecond, WaveSine},
		{880, 70 * time.Millisecond, WaveSine},
		{1318.5, 140 * time.Millisecond, WaveSine},
	},
	loop.CueSequenceWrong: {
		{110, 200 * time.Millisecond, WaveSaw},
	},
	loop.CueRoundWon: {
		{523.25, 120 * time.Millisecond, WaveSquare},
		{659.25, 120 * time.Millisecond, WaveSquare},
		{783.99, 120 * time.Millisecond, WaveSquare},
		{1046.5, 300 * time.Millisecond, WaveSquare},
	},
	loop.CueRoundLost: {
		{392, 180 * time.Millisecond, WaveSaw},
		{311.13, 180 * time.Millisecond, WaveSaw},
		{261.63, 360 * time.Millisecond, WaveSaw},
	},
}

// cueGain keeps the harsher waves from overpowering the sine tones.
var cueGain = map[WaveType]float64{
	WaveSine:   0.5,
	WaveSquare: 0.2,
	WaveSaw:    0.25,
}

// CueSound builds the finite streamer for a cue, or nil for unknown cues.
func CueSound(c loop.Cue, rate beep.SampleRate) beep.Streamer {
	notes, ok := cueNotes[c]
	if !ok {
		return nil
	}
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := NewOscillator(n.freq, n.dur, n.wave, rate)
		shaped := NewEnvelope(osc, n.dur, 5*time.Millisecond, n.dur/3, rate)
		parts = append(parts, newVolume(shaped, cueGain[n.wave]))
	}
	return beep.Seq(parts...)
}

// pulse swells a stream in and out with the given period.
type pulse struct {
	streamer beep.Streamer
	period   int
	position int
}

func (p *pulse) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = p.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		phase := float64(p.position%p.period) / float64(p.period)
		vol := 0.5 - 0.5*math.Cos(2*math.Pi*phase)
		samples[i][0] *= vol
		samples[i][1] *= vol
		p.position++
	}
	return n, ok
}

func (p *pulse) Err() error { return p.streamer.Err() }

// NewMusic returns the endless background drone: a root and fifth that
// swell every beat.
func NewMusic(rate beep.SampleRate) (beep.Streamer, error) {
	root, err := generators.SineTone(rate, 110)
	if err != nil {
		return nil, err
	}
	fifth, err := generators.SineTone(rate, 165)
	if err != nil {
		return nil, err
	}
	mixed := beep.Mix(newVolume(root, 0.6), newVolume(fifth, 0.4))
	return newVolume(&pulse{streamer: mixed, period: rate.N(600 * time.Millisecond)}, 0.15), nil
}
