// Package client plays a game on an ANSI terminal: it decodes key bytes from
// a reader and draws frames to a writer. It is used for local play and for
// each SSH session.
package client

import (
	"bufio"
	"context"
	"io"
	"time"

	"github.com/tomz197/spotlight/internal/draw"
	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop"
	"github.com/tomz197/spotlight/internal/loop/config"
)

// Client handles rendering and input for a single connection.
type Client struct {
	game         *loop.Game
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Settings     config.Settings
	Audio        loop.Audio
	Clock        loop.Clock
}

// NewClient creates a client with its own game reading keys from r and
// drawing to w.
func NewClient(r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	game := loop.NewGame(loop.Options{
		Settings: opts.Settings,
		Clock:    opts.Clock,
		Audio:    opts.Audio,
	})

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TermSize(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, config.ArenaWidth, config.ArenaHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		game:         game,
		state:        NewClientState(game.Clock().Now()),
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		writer:       w,
		inputStream:  input.StartStream(r, nil),
		termSizeFunc: termSizeFunc,
	}
}

// Game returns the client's game.
func (c *Client) Game() *loop.Game {
	return c.game
}

// Run plays until the player quits, goes idle for too long, the reader
// closes or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	err := loop.Run(ctx, c.game, c)

	draw.ClearScreen(c.writer)
	return err
}

// Controls reads pending key bytes and applies the inactivity rules.
func (c *Client) Controls(now time.Time) input.Controls {
	in := c.inputStream.Read(now)

	last := c.inputStream.Tracker().LastActivity()
	if last.Before(c.state.startedAt) {
		last = c.state.startedAt
	}
	c.state.now = now
	c.state.idle = now.Sub(last)

	switch {
	case c.state.idle >= config.InactivityDisconnectUser*time.Second:
		in.Quit = true
	case c.state.idle >= config.InactivityWarnUser*time.Second:
		c.state.isInactive = true
	default:
		c.state.isInactive = false
	}
	return in
}

// Render draws one frame of the snapshot.
func (c *Client) Render(s *loop.Snapshot) error {
	c.updateScreen()
	return c.drawFrame(s)
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TermSize(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > config.MaxTermWidth {
		renderWidth = config.MaxTermWidth
	}
	if renderHeight > config.MaxTermHeight {
		renderHeight = config.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// Play runs a single game on an ANSI terminal.
func Play(ctx context.Context, r io.Reader, w io.Writer, opts ClientOptions) error {
	return NewClient(bufio.NewReader(r), w, opts).Run(ctx)
}
