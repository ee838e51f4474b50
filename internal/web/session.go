package web

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop"
	"github.com/tomz197/spotlight/internal/loop/config"
)

const (
	// WebSocket heartbeat settings to detect disconnected clients
	pingInterval = 10 * time.Second
	pongWait     = 60 * time.Second
	writeWait    = 10 * time.Second

	maxMessageSize = 4096
	sendBuffer     = 64
)

// Session is one browser playing its own game over a websocket. The read
// and write pumps own the connection; the game goroutine only touches the
// controls and the send channel.
type Session struct {
	id      string
	remote  string
	started time.Time
	conn    *websocket.Conn
	send    chan []byte
	log     *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	game   *loop.Game

	mu       sync.Mutex
	held     input.Controls // Latest level-triggered state
	triggers input.Controls // Edges since the last Controls call
	info     SessionInfo

	// Filled by the game during Update, drained by Render. Both run on the
	// game goroutine.
	cues        []loop.CueEvent
	toggleMusic bool
}

func newSession(parent context.Context, conn *websocket.Conn, remote string, settings config.Settings, logger *log.Logger) *Session {
	ctx, cancel := context.WithCancel(parent)
	id := uuid.New().String()
	s := &Session{
		id:      id,
		remote:  remote,
		started: time.Now(),
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		log:     logger.With("session", id),
		ctx:     ctx,
		cancel:  cancel,
	}
	s.game = loop.NewGame(loop.Options{
		Settings: settings,
		Audio:    (*sessionAudio)(s),
	})
	s.info = SessionInfo{
		ID:        id,
		Remote:    remote,
		StartedAt: s.started.UTC().Format(time.RFC3339),
		Phase:     s.game.Phase(),
		Lives:     settings.MaxLives,
	}
	return s
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Info returns the session's listing entry.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Close ends the session.
func (s *Session) Close() { s.cancel() }

// sessionAudio forwards cues to the browser with the next snapshot.
type sessionAudio Session

func (a *sessionAudio) Play(e loop.CueEvent) { a.cues = append(a.cues, e) }
func (a *sessionAudio) ToggleMusic()         { a.toggleMusic = !a.toggleMusic }

// Controls returns the latest held keys plus the triggers received since
// the previous call.
func (s *Session) Controls(time.Time) input.Controls {
	s.mu.Lock()
	defer s.mu.Unlock()

	in := s.held
	in.Start = s.triggers.Start
	in.Reset = s.triggers.Reset
	in.ToggleMusic = s.triggers.ToggleMusic
	in.Quit = s.triggers.Quit
	s.triggers = input.Controls{}
	return in
}

// apply records a message from the browser.
func (s *Session) apply(msg ClientMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch msg.Type {
	case MsgControls:
		c := msg.Controls
		s.held = c.Held()
		s.triggers.Start = s.triggers.Start || c.Start
		s.triggers.Reset = s.triggers.Reset || c.Reset
		s.triggers.ToggleMusic = s.triggers.ToggleMusic || c.ToggleMusic
		s.triggers.Quit = s.triggers.Quit || c.Quit
	case MsgQuit:
		s.triggers.Quit = true
	}
}

// Render queues the snapshot with this frame's cues. A slow browser misses
// frames rather than stalling the game.
func (s *Session) Render(snap *loop.Snapshot) error {
	msg := ServerMessage{
		Type:        MsgSnapshot,
		Snapshot:    snap,
		Cues:        s.cues,
		ToggleMusic: s.toggleMusic,
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.info.Phase = snap.Phase
	s.info.Score = snap.Score
	s.info.Lives = snap.Lives
	s.mu.Unlock()

	select {
	case s.send <- data:
		s.cues = nil
		s.toggleMusic = false
	default:
		// Keep the cues for the next frame that gets through.
	}
	return nil
}

// welcome queues the greeting. It must run before the game goroutine starts.
func (s *Session) welcome() error {
	settings := s.game.Settings()
	data, err := json.Marshal(ServerMessage{
		Type:    MsgWelcome,
		Session: s.id,
		Settings: &SettingsInfo{
			MaxLives:    settings.MaxLives,
			TimeLimitMs: settings.TimeLimit.Milliseconds(),
			TickRate:    settings.TickRate,
		},
	})
	if err != nil {
		return err
	}
	s.send <- data
	return nil
}

// run plays the game until the browser quits or disconnects, then closes
// the send channel so the write pump says goodbye.
func (s *Session) run() {
	err := loop.Run(s.ctx, s.game, s)
	if err != nil && s.ctx.Err() == nil {
		s.log.Error("game stopped", "err", err)
	}
	s.cancel()
	close(s.send)
}

// readPump continuously reads messages from the connection until it fails.
func (s *Session) readPump() {
	defer s.cancel()

	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg ClientMessage
		if err := s.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("unexpected close", "err", err)
			}
			return
		}
		s.apply(msg)
	}
}

// writePump sends queued messages and periodic pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case data, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Game over for this session
				s.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				s.log.Debug("write failed", "err", err)
				s.cancel()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.cancel()
				return
			}
		}
	}
}
