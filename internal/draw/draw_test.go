package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tomz197/spotlight/internal/loop"
	"github.com/tomz197/spotlight/internal/object"
)

var red = object.RGB{R: 255}

func TestFillCircleCoversCenter(t *testing.T) {
	// 80x30 terminal showing an 800x600 arena: 10 units per column,
	// 10 units per sub-pixel row.
	c := NewScaledCanvas(80, 30, 800, 600)
	c.FillCircle(400, 300, 20, red)

	if _, on := c.Pixel(40, 30); !on {
		t.Fatalf("center pixel not set")
	}
	if _, on := c.Pixel(0, 0); on {
		t.Fatalf("far pixel set")
	}

	set := 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 80; x++ {
			if _, on := c.Pixel(x, y); on {
				set++
			}
		}
	}
	// Area of a radius-2 pixel disk is about 12.6 pixels.
	if set < 8 || set > 20 {
		t.Fatalf("disk covers %d pixels", set)
	}
}

func TestTinyCircleStillVisible(t *testing.T) {
	c := NewScaledCanvas(10, 5, 800, 600)
	c.FillCircle(400, 300, 1, red)

	found := false
	for y := 0; y < 10 && !found; y++ {
		for x := 0; x < 10; x++ {
			if _, on := c.Pixel(x, y); on {
				found = true
				break
			}
		}
	}
	if !found {
		t.Fatalf("sub-pixel circle not drawn")
	}
}

func TestRenderOnlyChangedCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.Set(1, 1, red)

	var first bytes.Buffer
	if err := c.Render(&first); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(first.String(), "38;2;255;0;0") {
		t.Fatalf("first render missing color: %q", first.String())
	}

	var second bytes.Buffer
	if err := c.Render(&second); err != nil {
		t.Fatal(err)
	}
	if second.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", second.String())
	}

	c.Clear()
	var third bytes.Buffer
	if err := c.Render(&third); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(third.String(), " ") {
		t.Fatalf("cleared cell not blanked: %q", third.String())
	}

	c.ForceRedraw()
	var fourth bytes.Buffer
	if err := c.Render(&fourth); err != nil {
		t.Fatal(err)
	}
	if fourth.Len() != 0 {
		t.Fatalf("forced redraw of empty canvas wrote %q", fourth.String())
	}
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	blue := object.RGB{B: 255}
	c.Set(0, 0, red)
	c.Set(0, 1, blue)

	var out bytes.Buffer
	if err := c.Render(&out); err != nil {
		t.Fatal(err)
	}
	s := out.String()
	if !strings.Contains(s, "38;2;255;0;0") || !strings.Contains(s, "48;2;0;0;255") || !strings.ContainsRune(s, BlockUpperHalf) {
		t.Fatalf("render = %q", s)
	}
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewScaledCanvas(2, 1, 2, 2)
	c.SetOffset(5, 3)
	c.Set(0, 0, red)

	var out bytes.Buffer
	if err := c.Render(&out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[4;6H") {
		t.Fatalf("render = %q, want cursor at row 4 col 6", out.String())
	}
}

func TestDrawLineDotted(t *testing.T) {
	c := NewScaledCanvas(10, 1, 10, 2)
	c.DrawLine(Point{X: 0, Y: 0}, Point{X: 9, Y: 0}, 3, red)

	for x := 0; x < 10; x++ {
		_, on := c.Pixel(x, 0)
		if want := x%3 == 0; on != want {
			t.Fatalf("pixel %d set=%v, want %v", x, on, want)
		}
	}
}

func TestChunkWriterOffsetAndFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "hi")
	cw.WriteStyledAt(3, 2, StyleBold, "x")

	if out.Len() != 0 {
		t.Fatalf("wrote before flush")
	}
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	want := "\033[2;3Hhi\033[3;5H" + StyleBold + "x" + StyleReset
	if out.String() != want {
		t.Fatalf("flushed %q, want %q", out.String(), want)
	}
	if cw.Len() != 0 {
		t.Fatalf("buffer not reset")
	}
}

func TestColorSeq(t *testing.T) {
	if got := Fg(object.RGB{R: 1, G: 2, B: 3}); got != "\033[38;2;1;2;3m" {
		t.Fatalf("Fg = %q", got)
	}
}

func TestMarkTextDirtyRepaintsCells(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	var out bytes.Buffer
	if err := c.Render(&out); err != nil {
		t.Fatal(err)
	}

	c.MarkTextDirty(2, 1, 2)
	out.Reset()
	if err := c.Render(&out); err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(out.String(), " "); got != 2 {
		t.Fatalf("blanked %d cells, want 2: %q", got, out.String())
	}

	out.Reset()
	if err := c.Render(&out); err != nil {
		t.Fatal(err)
	}
	if out.Len() != 0 {
		t.Fatalf("dirty marks not cleared: %q", out.String())
	}
}

func TestScenePaintsCursorAndFreeBalls(t *testing.T) {
	c := NewScaledCanvas(80, 30, 800, 600)
	s := &loop.Snapshot{
		Phase: loop.PhasePlaying,
		Balls: []loop.BallView{
			{ID: 0, X: 100, Y: 100, Radius: 20, Color: object.Yellow, State: object.BallFree, Opacity: 1, Scale: 1},
			{ID: 1, X: 700, Y: 500, Radius: 20, Color: object.Pink, State: object.BallCaptured, Opacity: 1, Scale: 1},
		},
		Cursor: loop.CursorView{X: 400, Y: 300, Radius: 25},
	}
	Scene(c, s, SceneDim(s))

	if got, on := c.Pixel(40, 30); !on || got != CursorColor {
		t.Fatalf("cursor pixel = %v,%v", got, on)
	}
	if got, on := c.Pixel(10, 10); !on || got != object.Yellow.RGB() {
		t.Fatalf("free ball pixel = %v,%v", got, on)
	}
	if _, on := c.Pixel(70, 50); on {
		t.Fatalf("captured ball drawn")
	}
}

func TestSceneFlashesWhereCursorWrapped(t *testing.T) {
	c := NewScaledCanvas(80, 30, 800, 600)
	s := &loop.Snapshot{
		Phase:  loop.PhasePlaying,
		Cursor: loop.CursorView{X: 780, Y: 300, Radius: 25},
		Events: loop.Events{Wraps: []loop.WrapEvent{{
			From: object.Point{X: 20, Y: 300},
			To:   object.Point{X: 780, Y: 300},
		}}},
	}
	Scene(c, s, SceneDim(s))

	lit := 0
	for x := 0; x < 8; x++ {
		for y := 24; y < 37; y++ {
			if got, on := c.Pixel(x, y); on && got == CursorColor.Scale(0.8) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatalf("no teleport flash at the wrap origin")
	}
	if _, on := c.Pixel(2, 30); on {
		t.Fatalf("teleport flash is filled, want a ring")
	}
}

func TestSceneDim(t *testing.T) {
	for phase, want := range map[loop.Phase]float64{
		loop.PhaseTitle:     0,
		loop.PhaseCountdown: 1,
		loop.PhasePlaying:   1,
		loop.PhaseGameOver:  DimGameOver,
	} {
		if got := SceneDim(&loop.Snapshot{Phase: phase}); got != want {
			t.Fatalf("SceneDim(%v) = %v, want %v", phase, got, want)
		}
	}
}

// countingWriter records the size of every write it receives.
type countingWriter struct{ sizes []int }

func (w *countingWriter) Write(p []byte) (int, error) {
	w.sizes = append(w.sizes, len(p))
	return len(p), nil
}

func TestWriteChunkedSplitsLargeFrames(t *testing.T) {
	var w countingWriter
	if err := writeChunked(&w, strings.Repeat("x", maxChunkSize*2+10)); err != nil {
		t.Fatal(err)
	}
	want := []int{maxChunkSize, maxChunkSize, 10}
	if len(w.sizes) != len(want) {
		t.Fatalf("writes = %v, want %v", w.sizes, want)
	}
	for i := range want {
		if w.sizes[i] != want[i] {
			t.Fatalf("writes = %v, want %v", w.sizes, want)
		}
	}
}

func TestChunkWriterClearAndCursor(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.Clear()
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := HideCursor(&out); err != nil {
		t.Fatal(err)
	}
	if got, want := out.String(), "\033[H\033[2J\033[?25l"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}
