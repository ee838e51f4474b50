// Package tui is a full-screen tcell frontend. It draws the same half-block
// scene as the ANSI client but lets tcell handle terminal capabilities,
// key decoding and resizes.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/spotlight/internal/draw"
	"github.com/tomz197/spotlight/internal/input"
	"github.com/tomz197/spotlight/internal/loop"
	"github.com/tomz197/spotlight/internal/loop/config"
	"github.com/tomz197/spotlight/internal/object"
	"github.com/tomz197/spotlight/internal/sequence"
)

// hudRows is the number of text rows above the arena.
const hudRows = 2

// Frontend renders to a tcell screen and reads its key events.
type Frontend struct {
	screen  tcell.Screen
	tracker *input.Tracker
	events  chan tcell.Event
	canvas  *draw.Canvas
	closed  bool
}

// New wraps an initialized screen and starts polling its events.
func New(screen tcell.Screen) *Frontend {
	w, h := screen.Size()
	f := &Frontend{
		screen:  screen,
		tracker: input.NewTracker(0),
		events:  make(chan tcell.Event, 100),
		canvas:  draw.NewScaledCanvas(w, max(h-hudRows, 0), config.ArenaWidth, config.ArenaHeight),
	}
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				// Screen finalized
				close(f.events)
				return
			}
			f.events <- ev
		}
	}()
	return f
}

// Controls drains pending events into the tracker and samples it.
func (f *Frontend) Controls(now time.Time) input.Controls {
drain:
	for !f.closed {
		select {
		case ev, ok := <-f.events:
			if !ok {
				f.closed = true
				break drain
			}
			f.handleEvent(ev, now)
		default:
			break drain
		}
	}

	in := f.tracker.Sample(now)
	if f.closed {
		in.Quit = true
	}
	return in
}

func (f *Frontend) handleEvent(ev tcell.Event, now time.Time) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		boost := ev.Modifiers()&tcell.ModShift != 0
		switch ev.Key() {
		case tcell.KeyUp:
			f.press(input.KeyUp, boost, now)
		case tcell.KeyDown:
			f.press(input.KeyDown, boost, now)
		case tcell.KeyLeft:
			f.press(input.KeyLeft, boost, now)
		case tcell.KeyRight:
			f.press(input.KeyRight, boost, now)
		case tcell.KeyEnter:
			input.Decode(f.tracker, []byte{'\r'}, now)
		case tcell.KeyEscape, tcell.KeyCtrlC:
			f.tracker.Fire(input.TriggerQuit, now)
		case tcell.KeyRune:
			// Letters map exactly like raw terminal bytes.
			input.Decode(f.tracker, []byte(string(ev.Rune())), now)
		}
	case *tcell.EventResize:
		f.screen.Sync()
	}
}

func (f *Frontend) press(k input.Key, boost bool, now time.Time) {
	f.tracker.Press(k, now)
	if boost {
		f.tracker.Press(input.KeyBoost, now)
	}
}

// Render draws one frame.
func (f *Frontend) Render(s *loop.Snapshot) error {
	w, h := f.screen.Size()
	f.canvas.Resize(w, max(h-hudRows, 0))
	f.canvas.Clear()
	f.screen.Clear()

	if dim := draw.SceneDim(s); dim > 0 {
		draw.Scene(f.canvas, s, dim)
		f.blitCanvas()
	}

	switch s.Phase {
	case loop.PhaseTitle:
		f.drawTitle(w, h, s)
	case loop.PhaseCountdown:
		f.drawHUD(w, s)
		f.center(w, h/2-1, styleBold, "GET READY")
		f.center(w, h/2+1, styleBold, strconv.Itoa(s.CountdownSeconds()))
	case loop.PhasePlaying:
		f.drawHUD(w, s)
	case loop.PhaseGameOver:
		f.drawGameOver(w, h, s)
	}

	f.screen.Show()
	return nil
}

var (
	styleDefault = tcell.StyleDefault
	styleBold    = tcell.StyleDefault.Bold(true)
	styleDim     = tcell.StyleDefault.Dim(true)
)

func rgb(c object.RGB) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// blitCanvas copies the canvas below the HUD rows using half blocks.
func (f *Frontend) blitCanvas() {
	cv := f.canvas
	for row := 0; row < cv.TerminalHeight(); row++ {
		for col := 0; col < cv.TerminalWidth(); col++ {
			top, topOn := cv.Pixel(col, row*2)
			bottom, bottomOn := cv.Pixel(col, row*2+1)

			var style tcell.Style
			ch := draw.BlockUpperHalf
			switch {
			case topOn && bottomOn:
				style = styleDefault.Foreground(rgb(top)).Background(rgb(bottom))
			case topOn:
				style = styleDefault.Foreground(rgb(top))
			case bottomOn:
				style = styleDefault.Foreground(rgb(bottom))
				ch = draw.BlockLowerHalf
			default:
				continue
			}
			f.screen.SetContent(col, row+hudRows, ch, nil, style)
		}
	}
}

// text writes s starting at (x, y), one cell per rune.
func (f *Frontend) text(x, y int, style tcell.Style, s string) {
	for _, r := range s {
		f.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (f *Frontend) center(w, y int, style tcell.Style, s string) {
	f.text((w-len([]rune(s)))/2, y, style, s)
}

func (f *Frontend) drawTitle(w, h int, s *loop.Snapshot) {
	y := h/2 - 5
	f.center(w, y, styleBold, "S P O T L I G H T")

	x := (w - 2*len(object.Palette)) / 2
	for i, c := range object.Palette {
		f.text(x+2*i, y+2, styleDefault.Foreground(rgb(c.RGB())), "●")
	}

	f.center(w, y+4, styleDefault, "Collect the coins in the order shown.")
	f.center(w, y+5, styleDefault, fmt.Sprintf("Complete %d sequences to win.", s.WinScore))
	f.center(w, y+7, styleDim, "WASD / arrows move  SHIFT boost  M music  Q quit")
	f.center(w, y+9, styleBold, ">>  Press SPACE to Start  <<")
}

func (f *Frontend) drawHUD(w int, s *loop.Snapshot) {
	f.text(1, 0, styleBold, "Sequence")
	if len(s.Target) == 0 {
		f.text(10, 0, styleDim, "collect any coin to start sequence")
	} else {
		for i, c := range s.Target {
			glyph := "●"
			if i < s.Progress {
				glyph = "✓"
			}
			f.text(10+2*i, 0, styleDefault.Foreground(rgb(c.RGB())), glyph)
		}
	}

	score := fmt.Sprintf("Sequences: %d/%d", s.Score, s.WinScore)
	f.text(w-len(score)-1, 0, styleDefault, score)

	if s.LivesEnabled() {
		f.text(1, 1, styleDefault, fmt.Sprintf("Lives: %d", s.Lives))
	}
	if s.TimeLimited {
		clock := "Time: " + s.TimeText()
		f.text(w-len(clock)-1, 1, styleDefault, clock)
	}
}

func (f *Frontend) drawGameOver(w, h int, s *loop.Snapshot) {
	color := draw.LoseColor
	if s.Outcome == sequence.Won {
		color = draw.WinColor
	}
	y := h / 2
	f.center(w, y-3, styleBold.Foreground(rgb(color)), s.Headline())
	f.center(w, y-1, styleDefault, fmt.Sprintf("Sequences: %d/%d", s.Score, s.WinScore))
	if s.TimeLimited {
		f.center(w, y, styleDefault, "Time left: "+s.TimeText())
	}
	f.center(w, y+2, styleBold, ">>  Press SPACE to return to title  <<")
}

// Play runs one game on screen until the player quits or ctx is cancelled.
// The caller owns the screen's Init and Fini.
func Play(ctx context.Context, screen tcell.Screen, opts loop.Options) error {
	screen.HideCursor()
	return loop.Run(ctx, loop.NewGame(opts), New(screen))
}
