package draw

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/tomz197/spotlight/internal/object"
)

// cell is one sub-pixel. The zero value is an empty pixel.
type cell struct {
	on    bool
	color object.RGB
}

// Canvas is a color drawing buffer with 2x vertical resolution using
// half-block characters. Supports scaling from logical coordinates to actual
// terminal pixels. Render only emits the cells that changed since the
// previous frame.
type Canvas struct {
	termWidth      int    // Actual terminal columns
	termHeight     int    // Actual terminal rows
	subPixelHeight int    // termHeight * 2
	pixels         []cell // Flat slice: [y * termWidth + x]
	prev           []cell // Pixels as of the last Render
	touched        []bool // Cells overwritten by text since the last Render: [row * termWidth + col]
	dirty          bool   // Next Render repaints every cell

	// Scaling from logical to pixel coordinates
	logicalWidth  float64 // Target/logical width
	logicalHeight float64 // Target/logical height
	scaleX        float64 // termWidth / logicalWidth
	scaleY        float64 // (termHeight*2) / logicalHeight

	// Offset for centering the render area when terminal is larger than max resolution.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf strings.Builder // Buffer for batching render output
	numBuf    [20]byte        // Scratch buffer for integer formatting
}

// NewScaledCanvas creates a canvas that scales from logical coordinates to terminal pixels.
// logicalWidth/Height define the coordinate space used by game objects.
// termWidth/Height are the actual terminal dimensions.
func NewScaledCanvas(termWidth, termHeight int, logicalWidth, logicalHeight float64) *Canvas {
	c := &Canvas{
		logicalWidth:  logicalWidth,
		logicalHeight: logicalHeight,
	}
	c.Resize(termWidth, termHeight)
	return c
}

// Resize updates the canvas for new terminal dimensions while keeping logical size.
func (c *Canvas) Resize(termWidth, termHeight int) {
	if termWidth < 0 {
		termWidth = 0
	}
	if termHeight < 0 {
		termHeight = 0
	}
	subPixelHeight := termHeight * 2

	// Reallocate if size changed
	if c.pixels == nil || termWidth != c.termWidth || termHeight != c.termHeight {
		c.pixels = make([]cell, subPixelHeight*termWidth)
		c.prev = make([]cell, subPixelHeight*termWidth)
		c.touched = make([]bool, termHeight*termWidth)
		c.termWidth = termWidth
		c.termHeight = termHeight
		c.subPixelHeight = subPixelHeight
		c.dirty = true
	}

	// Update scale factors
	c.scaleX = float64(termWidth) / c.logicalWidth
	c.scaleY = float64(subPixelHeight) / c.logicalHeight
}

// ForceRedraw makes the next Render repaint every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	c.dirty = true
}

// MarkTextDirty records that text was written over width cells starting at
// the 1-based canvas position (col, row), so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, width int) {
	r := row - 1
	if r < 0 || r >= c.termHeight {
		return
	}
	for x := col - 1; x < col-1+width; x++ {
		if x >= 0 && x < c.termWidth {
			c.touched[r*c.termWidth+x] = true
		}
	}
}

// SetOffset sets the column and row offset for centering the canvas.
// Offsets are 0-based terminal positions: the canvas starts at (offsetCol+1, offsetRow+1).
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.dirty = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int {
	return c.offsetCol
}

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int {
	return c.offsetRow
}

// Clear resets all pixels in the canvas.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// setPixel sets a pixel at actual terminal coordinates (no scaling).
func (c *Canvas) setPixel(x, y int, color object.RGB) {
	if x >= 0 && x < c.termWidth && y >= 0 && y < c.subPixelHeight {
		c.pixels[y*c.termWidth+x] = cell{on: true, color: color}
	}
}

// Pixel reports whether the sub-pixel at terminal coordinates (x, y) is
// set, and its color.
func (c *Canvas) Pixel(x, y int) (object.RGB, bool) {
	if x < 0 || x >= c.termWidth || y < 0 || y >= c.subPixelHeight {
		return object.RGB{}, false
	}
	p := c.pixels[y*c.termWidth+x]
	return p.color, p.on
}

// Set sets a pixel using logical coordinates (applies scaling).
func (c *Canvas) Set(x, y float64, color object.RGB) {
	px := int(math.Round(x * c.scaleX))
	py := int(math.Round(y * c.scaleY))
	c.setPixel(px, py, color)
}

// FillCircle fills a disk given in logical coordinates. Pixels are tested
// at their centers, so small disks still cover at least the pixel under
// their center.
func (c *Canvas) FillCircle(cx, cy, radius float64, color object.RGB) {
	c.circle(cx, cy, radius, 0, color)
}

// DrawRing draws the outline of a circle with the given logical thickness.
func (c *Canvas) DrawRing(cx, cy, radius, thickness float64, color object.RGB) {
	inner := radius - thickness
	if inner < 0 {
		inner = 0
	}
	c.circle(cx, cy, radius, inner, color)
}

// circle sets every pixel whose center lies in the annulus inner ≤ d ≤ outer.
func (c *Canvas) circle(cx, cy, outer, inner float64, color object.RGB) {
	if outer <= 0 || c.scaleX <= 0 || c.scaleY <= 0 {
		return
	}

	minX := int(math.Floor((cx - outer) * c.scaleX))
	maxX := int(math.Ceil((cx + outer) * c.scaleX))
	minY := int(math.Floor((cy - outer) * c.scaleY))
	maxY := int(math.Ceil((cy + outer) * c.scaleY))

	outer2 := outer * outer
	inner2 := inner * inner
	for py := minY; py <= maxY; py++ {
		ly := (float64(py)+0.5)/c.scaleY - cy
		for px := minX; px <= maxX; px++ {
			lx := (float64(px)+0.5)/c.scaleX - cx
			d := lx*lx + ly*ly
			if d <= outer2 && (inner == 0 || d >= inner2) {
				c.setPixel(px, py, color)
			}
		}
	}

	// Guarantee a visible dot for disks smaller than a pixel.
	if inner == 0 {
		c.Set(cx, cy, color)
	}
}

// DrawLine draws a line on the canvas using Bresenham's algorithm.
// Coordinates are in logical space and get scaled to pixels. When step > 1
// only every step-th pixel is set, giving a dotted line.
func (c *Canvas) DrawLine(p1, p2 Point, step int, color object.RGB) {
	if step < 1 {
		step = 1
	}

	// Scale to pixel coordinates for drawing
	x1 := int(math.Round(p1.X * c.scaleX))
	y1 := int(math.Round(p1.Y * c.scaleY))
	x2 := int(math.Round(p2.X * c.scaleX))
	y2 := int(math.Round(p2.Y * c.scaleY))

	dx := abs(x2 - x1)
	dy := abs(y2 - y1)

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy

	for i := 0; ; i++ {
		if i%step == 0 {
			c.setPixel(x1, y1, color)
		}

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Render outputs the changed cells to the writer using half-block
// characters with 24-bit colors.
func (c *Canvas) Render(w io.Writer) error {
	c.renderBuf.Reset()

	for row := 0; row < c.termHeight; row++ {
		topOffset := row * 2 * c.termWidth
		bottomOffset := topOffset + c.termWidth

		for col := 0; col < c.termWidth; col++ {
			top := c.pixels[topOffset+col]
			bottom := c.pixels[bottomOffset+col]
			touched := c.touched[row*c.termWidth+col]
			if !c.dirty && !touched && top == c.prev[topOffset+col] && bottom == c.prev[bottomOffset+col] {
				continue
			}
			if !top.on && !bottom.on && (!c.dirty || touched) {
				// Cell went dark: blank it.
				c.moveTo(col, row)
				c.renderBuf.WriteString("\033[0m ")
				continue
			}
			if !top.on && !bottom.on {
				continue
			}

			c.moveTo(col, row)
			switch {
			case top.on && bottom.on:
				c.writeColor(38, top.color)
				c.writeColor(48, bottom.color)
				c.renderBuf.WriteRune(BlockUpperHalf)
			case top.on:
				c.writeColor(38, top.color)
				c.renderBuf.WriteString("\033[49m")
				c.renderBuf.WriteRune(BlockUpperHalf)
			default:
				c.writeColor(38, bottom.color)
				c.renderBuf.WriteString("\033[49m")
				c.renderBuf.WriteRune(BlockLowerHalf)
			}
		}
	}
	if c.renderBuf.Len() > 0 {
		c.renderBuf.WriteString("\033[0m")
	}

	copy(c.prev, c.pixels)
	clear(c.touched)
	c.dirty = false

	return writeChunked(w, c.renderBuf.String())
}

// moveTo appends a cursor move to the 0-based canvas cell (col, row).
func (c *Canvas) moveTo(col, row int) {
	c.renderBuf.WriteString("\033[")
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(row+1+c.offsetRow), 10))
	c.renderBuf.WriteByte(';')
	c.renderBuf.Write(strconv.AppendInt(c.numBuf[:0], int64(col+1+c.offsetCol), 10))
	c.renderBuf.WriteByte('H')
}

// writeColor appends an SGR true-color sequence; layer is 38 (fg) or 48 (bg).
func (c *Canvas) writeColor(layer int, rgb object.RGB) {
	c.renderBuf.WriteString(ColorSeq(layer, rgb))
}

// RenderBorder draws a box border around the canvas area when the terminal
// exceeds the max render resolution on either axis.
// Draws horizontal borders when there is vertical offset, vertical borders
// when there is horizontal offset, and corners when both are present.
func (c *Canvas) RenderBorder(w io.Writer) error {
	hasH := c.offsetCol >= 1 // Room for left/right vertical bars
	hasV := c.offsetRow >= 1 // Room for top/bottom horizontal bars

	// Border positions (1-based terminal coordinates)
	left := c.offsetCol
	right := c.offsetCol + c.termWidth + 1
	top := c.offsetRow
	bottom := c.offsetRow + c.termHeight + 1

	var buf strings.Builder
	line := strings.Repeat("─", c.termWidth)

	if hasV {
		if hasH {
			buf.WriteString(cursorSeq(left, top) + "┌" + line + "┐")
			buf.WriteString(cursorSeq(left, bottom) + "└" + line + "┘")
		} else {
			buf.WriteString(cursorSeq(c.offsetCol+1, top) + line)
			buf.WriteString(cursorSeq(c.offsetCol+1, bottom) + line)
		}
	}

	if hasH {
		// Side borders: │ ... │
		startRow := top + 1
		endRow := bottom
		if !hasV {
			// No horizontal borders, side bars span full canvas height
			startRow = c.offsetRow + 1
			endRow = c.offsetRow + c.termHeight + 1
		}
		for row := startRow; row < endRow; row++ {
			buf.WriteString(cursorSeq(left, row) + "│" + cursorSeq(right, row) + "│")
		}
	}

	_, err := io.WriteString(w, buf.String())
	return err
}

// TerminalWidth returns the actual terminal column count.
func (c *Canvas) TerminalWidth() int {
	return c.termWidth
}

// TerminalHeight returns the actual terminal row count.
func (c *Canvas) TerminalHeight() int {
	return c.termHeight
}
