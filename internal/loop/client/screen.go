package client

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/tomz197/spotlight/internal/draw"
	"github.com/tomz197/spotlight/internal/loop"
	"github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/object"
	"github.com/tomz197/spotlight/internal/sequence"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame(s *loop.Snapshot) error {
	// On phase or inactivity transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if c.state.transitioned(s.Phase) {
		c.chunkWriter.Clear()
		c.canvas.ForceRedraw()
	}

	c.canvas.Clear()

	if dim := draw.SceneDim(s); dim > 0 && !c.state.isInactive {
		draw.Scene(c.canvas, s, dim)
	}

	// Render canvas to terminal
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}

	// Draw border when terminal exceeds max render resolution
	if err := c.canvas.RenderBorder(c.chunkWriter); err != nil {
		return err
	}

	// Draw UI overlay
	c.drawUI(s)

	return c.chunkWriter.Flush()
}

// drawUI draws the text overlay for the current phase.
func (c *Client) drawUI(s *loop.Snapshot) {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerY := termHeight / 2

	if c.state.isInactive {
		c.drawInactivityScreen(centerY)
		return
	}

	switch s.Phase {
	case loop.PhaseTitle:
		c.drawStartScreen(centerY, s)
	case loop.PhaseCountdown:
		c.drawHUD(termWidth, termHeight, s)
		c.drawCountdown(centerY, s)
	case loop.PhasePlaying:
		c.drawHUD(termWidth, termHeight, s)
	case loop.PhaseGameOver:
		c.drawGameOverScreen(centerY, s)
	}
}

// text writes s at the 1-based canvas position and marks the cells so the
// canvas repaints them next frame.
func (c *Client) text(col, row int, style, s string) {
	if row < 1 || row > c.canvas.TerminalHeight() || s == "" {
		return
	}
	if col < 1 {
		col = 1
	}
	if style == "" {
		c.chunkWriter.WriteAt(col, row, s)
	} else {
		c.chunkWriter.WriteStyledAt(col, row, style, s)
	}
	c.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}

// centered writes s horizontally centered on row.
func (c *Client) centered(row int, style, s string) {
	col := (c.canvas.TerminalWidth()-utf8.RuneCountInString(s))/2 + 1
	c.text(col, row, style, s)
}

// blinkOn toggles every 600ms.
func (c *Client) blinkOn() bool {
	return c.state.now.UnixMilli()/600%2 == 0
}

// drawInactivityScreen draws the inactivity warning screen.
func (c *Client) drawInactivityScreen(centerY int) {
	c.centered(centerY-2, draw.StyleBold, "INACTIVITY WARNING")

	left := config.InactivityDisconnectUser*time.Second - c.state.idle
	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(left.Seconds()),
	)
	c.centered(centerY, "", msg)
	c.centered(centerY+2, draw.StyleDim, "Press any key to continue")
}

// titleArt is "SPOTLIGHT" in the figlet "small" font.
var titleArt = []string{
	`  ___ ___  ___ _____ _    ___ ___ _  _ _____ `,
	` / __| _ \/ _ \_   _| |  |_ _/ __| || |_   _|`,
	` \__ \  _/ (_) || | | |__ | | (_ | __ | | |  `,
	` |___/_|  \___/ |_| |____|___\___|_||_| |_|  `,
}

var controlLines = []string{
	"WASD / Arrows  . . .  Move",
	"SHIFT + move . . . . Boost",
	"M  . . . . . . . . . Music",
	"Q  . . . . . . . . .  Quit",
}

// drawStartScreen draws the title screen.
func (c *Client) drawStartScreen(centerY int, s *loop.Snapshot) {
	titleStartY := centerY - 9
	for i, line := range titleArt {
		c.centered(titleStartY+i, draw.StyleBold, line)
	}

	// Palette strip under the title
	strip := (c.canvas.TerminalWidth()-2*len(object.Palette))/2 + 1
	for i, col := range object.Palette {
		c.text(strip+2*i, titleStartY+len(titleArt)+1, draw.Fg(col.RGB()), "●")
	}

	rulesY := titleStartY + len(titleArt) + 3
	c.centered(rulesY, "", "Collect the coins in the order shown.")
	c.centered(rulesY+1, "", fmt.Sprintf("Complete %d sequences to win.", s.WinScore))

	var limits string
	switch {
	case s.LivesEnabled() && s.TimeLimited:
		limits = fmt.Sprintf("%d lives, %s on the clock", s.MaxLives, s.TimeText())
	case s.LivesEnabled():
		limits = fmt.Sprintf("%d lives, no time limit", s.MaxLives)
	case s.TimeLimited:
		limits = fmt.Sprintf("%s on the clock", s.TimeText())
	default:
		limits = "Practice mode: no lives, no time limit"
	}
	c.centered(rulesY+2, draw.StyleDim, limits)

	controlsY := rulesY + 4
	c.centered(controlsY, draw.StyleBold, "Controls")
	for i, line := range controlLines {
		c.centered(controlsY+1+i, "", line)
	}

	// Blinking start prompt
	if c.blinkOn() {
		c.centered(controlsY+len(controlLines)+2, draw.StyleBold, ">>  Press SPACE to Start  <<")
	}
}

// drawHUD draws the in-game HUD.
// Text fields use fixed-width formatting so shrinking values don't leave
// residual characters on screen.
func (c *Client) drawHUD(termWidth, termHeight int, s *loop.Snapshot) {
	// Sequence (top left)
	c.text(2, 1, draw.StyleBold, "Sequence")
	if len(s.Target) == 0 {
		c.text(11, 1, draw.StyleDim, "collect any coin to start sequence")
	} else {
		for i, col := range s.Target {
			glyph := "●"
			if i < s.Progress {
				glyph = "✓"
			}
			c.text(11+2*i, 1, draw.Fg(col.RGB()), glyph)
		}
	}

	// Sequences completed (top right)
	score := fmt.Sprintf("Sequences: %d/%d", s.Score, s.WinScore)
	c.text(termWidth-len(score)-1, 1, "", score)

	if s.LivesEnabled() {
		lives := fmt.Sprintf("Lives: %-3d", s.Lives)
		c.text(2, 2, "", lives)
	}
	if s.TimeLimited {
		clock := "Time: " + s.TimeText()
		style := ""
		if s.Phase == loop.PhasePlaying && s.TimeRemainingMs <= 10000 {
			style = draw.Fg(draw.LoseColor)
		}
		c.text(termWidth-len(clock)-1, 2, style, clock)
	}

	hint := "WASD move  SHIFT boost  M music  Q quit"
	c.text(2, termHeight, draw.StyleDim, hint)
}

// drawCountdown draws the get-ready overlay.
func (c *Client) drawCountdown(centerY int, s *loop.Snapshot) {
	c.centered(centerY-1, draw.StyleBold, "GET READY")
	c.centered(centerY+1, draw.StyleBold, strconv.Itoa(s.CountdownSeconds()))
}

// drawGameOverScreen draws the round result panel.
func (c *Client) drawGameOverScreen(centerY int, s *loop.Snapshot) {
	color := draw.LoseColor
	if s.Outcome == sequence.Won {
		color = draw.WinColor
	}
	c.centered(centerY-3, draw.StyleBold+draw.Fg(color), s.Headline())
	c.centered(centerY-1, "", fmt.Sprintf("Sequences: %d/%d", s.Score, s.WinScore))
	if s.LivesEnabled() {
		c.centered(centerY, "", fmt.Sprintf("Lives left: %d", s.Lives))
	}
	if s.TimeLimited {
		c.centered(centerY+1, "", "Time left: "+s.TimeText())
	}
	if c.blinkOn() {
		c.centered(centerY+3, draw.StyleBold, ">>  Press SPACE to return to title  <<")
	}
}
