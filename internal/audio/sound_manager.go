package audio

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/spotlight/internal/loop"
)

const sampleRate = beep.SampleRate(44100)

// SoundManager plays cues and background music on the system speaker.
// Until Initialize succeeds every call is a silent no-op, so the game runs
// the same without an audio device.
type SoundManager struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	musicOn     bool
	initialized bool
}

// NewSoundManager creates a sound manager with music enabled.
func NewSoundManager() *SoundManager {
	return &SoundManager{
		mixer:   &beep.Mixer{},
		musicOn: true,
	}
}

// Initialize opens the speaker and starts the music loop.
func (sm *SoundManager) Initialize() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	music, err := NewMusic(sampleRate)
	if err != nil {
		return fmt.Errorf("build music: %w", err)
	}
	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}

	sm.music = &beep.Ctrl{Streamer: music, Paused: !sm.musicOn}
	sm.mixer.Add(sm.music)
	speaker.Play(sm.mixer)
	sm.initialized = true
	return nil
}

// Play mixes in the sound for e at its volume hint.
func (sm *SoundManager) Play(e loop.CueEvent) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}
	s := CueSound(e.Cue, sampleRate)
	if s == nil {
		return
	}

	speaker.Lock()
	sm.mixer.Add(newVolume(s, e.Volume))
	speaker.Unlock()
}

// ToggleMusic pauses or resumes the background music.
func (sm *SoundManager) ToggleMusic() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	sm.musicOn = !sm.musicOn
	if !sm.initialized {
		return
	}
	speaker.Lock()
	sm.music.Paused = !sm.musicOn
	speaker.Unlock()
}

// MusicOn reports whether music is enabled.
func (sm *SoundManager) MusicOn() bool {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.musicOn
}

// Cleanup stops all sounds.
func (sm *SoundManager) Cleanup() {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if !sm.initialized {
		return
	}

	speaker.Lock()
	sm.music.Paused = true
	sm.mixer.Clear()
	speaker.Unlock()

	// beep has no way to release the speaker; clearing the mixer is enough
	// to silence it.
	sm.initialized = false
}

// Bell rings the terminal bell for the cues that matter most. The music
// toggle mutes and unmutes it.
type Bell struct {
	mu    sync.Mutex
	w     io.Writer
	muted bool
}

// NewBell creates a bell writing to w.
func NewBell(w io.Writer) *Bell {
	return &Bell{w: w}
}

// Play rings once for sequence and round results; correct captures stay
// silent so the bell doesn't become noise.
func (b *Bell) Play(e loop.CueEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.muted || e.Cue == loop.CueSequenceCorrect {
		return
	}
	_, _ = io.WriteString(b.w, "\a")
}

// ToggleMusic mutes or unmutes the bell.
func (b *Bell) ToggleMusic() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.muted = !b.muted
}

// Muted reports whether the bell is silenced.
func (b *Bell) Muted() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.muted
}

var (
	_ loop.Audio = (*SoundManager)(nil)
	_ loop.Audio = (*Bell)(nil)
)
