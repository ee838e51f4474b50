// Package config centralizes all tunable game parameters.
package config

import (
	"time"

	env "github.com/tomz197/spotlight/internal/config"
)

// Arena dimensions in logical units.
// Actual rendering scales to fit the output device.
const (
	ArenaWidth  = 800
	ArenaHeight = 600
)

// Balls
const (
	BallRadius         = 20.0
	BallSpeed          = 3.0 // Target speed, units per tick
	BallSpeedTolerance = 0.5
	BallMinComponent   = 0.5 // Per-axis floor before renormalization
	BallCount          = 15
)

// Cursor
const (
	CursorRadius    = 25.0
	CursorSpeed     = 4.5 // Units per tick
	BoostMultiplier = 2.0
	TrailLength     = 15
)

// Respawning
const (
	RespawnDelay   = 200 * time.Millisecond
	FadeInDuration = 1000 * time.Millisecond
)

// Rounds
const (
	SequenceLength    = 3
	WinScore          = 3
	InitialLives      = 10
	TimeLimit         = 60 * time.Second
	CountdownDuration = 3 * time.Second
)

// Cue volumes
const (
	VolumeFeedback = 0.7 // Correct and wrong captures
	VolumeMajor    = 1.0 // Round start, completion, win and loss
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 200 // Columns
	MaxTermHeight         = 75  // Rows
)

// Simulation tick rate
const (
	TickRate        = 60
	TickTime        = time.Second / TickRate
	MaxCatchUpSteps = 5 // Fixed steps per frame before the accumulator is dropped
)

// Settings are the per-game tunables that may be overridden at runtime.
type Settings struct {
	MaxLives  int           // 0 disables lives (score-only variant)
	TimeLimit time.Duration // 0 disables the time limit
	TickRate  int           // Simulation steps per second
	Seed      int64         // 0 seeds from the clock
}

// Default returns the compiled-in settings.
func Default() Settings {
	return Settings{
		MaxLives:  InitialLives,
		TimeLimit: TimeLimit,
		TickRate:  TickRate,
	}
}

// FromEnv returns Default overridden by GAME_LIVES, GAME_TIME_LIMIT,
// GAME_TICK_RATE and GAME_SEED.
func FromEnv() Settings {
	s := Default()
	s.MaxLives = env.GetEnvInt("GAME_LIVES", s.MaxLives)
	s.TimeLimit = env.GetEnvDuration("GAME_TIME_LIMIT", s.TimeLimit)
	s.TickRate = env.GetEnvInt("GAME_TICK_RATE", s.TickRate)
	s.Seed = env.GetEnvInt64("GAME_SEED", s.Seed)
	return s.normalized()
}

// TickDuration is the length of one simulation step.
func (s Settings) TickDuration() time.Duration {
	return time.Second / time.Duration(s.normalized().TickRate)
}

func (s Settings) normalized() Settings {
	if s.MaxLives < 0 {
		s.MaxLives = 0
	}
	if s.TimeLimit < 0 {
		s.TimeLimit = 0
	}
	if s.TickRate <= 0 {
		s.TickRate = TickRate
	}
	return s
}
