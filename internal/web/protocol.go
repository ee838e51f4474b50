package web

import (
	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop"
)

// Message types on the websocket.
const (
	MsgControls = "controls" // client → server: current controls
	MsgQuit     = "quit"     // client → server: end the session
	MsgWelcome  = "welcome"  // server → client: session id and settings
	MsgSnapshot = "snapshot" // server → client: one frame
)

// ClientMessage is sent by the browser. Movement flags are the current key
// state; triggers are edges pressed since the previous message.
type ClientMessage struct {
	Type     string         `json:"type"`
	Controls input.Controls `json:"controls"`
}

// ServerMessage is sent to the browser.
type ServerMessage struct {
	Type     string          `json:"type"`
	Session  string          `json:"session,omitempty"`
	Snapshot *loop.Snapshot  `json:"snapshot,omitempty"`
	Cues     []loop.CueEvent `json:"cues,omitempty"`

	// ToggleMusic asks the browser to flip its music; the server never
	// knows whether music is playing.
	ToggleMusic bool `json:"toggleMusic,omitempty"`

	Settings *SettingsInfo `json:"settings,omitempty"`
}

// SettingsInfo describes the round rules a session plays with.
type SettingsInfo struct {
	MaxLives    int   `json:"maxLives"`
	TimeLimitMs int64 `json:"timeLimitMs"`
	TickRate    int   `json:"tickRate"`
}

// SessionInfo is one entry of the /sessions listing.
type SessionInfo struct {
	ID        string     `json:"id"`
	Remote    string     `json:"remote"`
	StartedAt string     `json:"startedAt"`
	Phase     loop.Phase `json:"phase"`
	Score     int        `json:"score"`
	Lives     int        `json:"lives"`
}
