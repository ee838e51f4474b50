// Package draw renders to ANSI terminals: a scaled half-block color canvas,
// chunked text output and terminal control sequences.
package draw

import (
	"strconv"

	"github.com/tomz197/spotlight/internal/object"
)

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Half-block glyphs; each terminal cell holds two vertical pixels.
const (
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Text styles.
const (
	StyleReset = "\033[0m"
	StyleBold  = "\033[1m"
	StyleDim   = "\033[2m"
)

// ColorSeq returns the SGR true-color sequence for rgb. layer is 38 for the
// foreground or 48 for the background.
func ColorSeq(layer int, rgb object.RGB) string {
	b := make([]byte, 0, 20)
	b = append(b, "\033["...)
	b = strconv.AppendInt(b, int64(layer), 10)
	b = append(b, ";2;"...)
	b = strconv.AppendInt(b, int64(rgb.R), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(rgb.G), 10)
	b = append(b, ';')
	b = strconv.AppendInt(b, int64(rgb.B), 10)
	b = append(b, 'm')
	return string(b)
}

// Fg returns the foreground color sequence for rgb.
func Fg(rgb object.RGB) string {
	return ColorSeq(38, rgb)
}

// cursorSeq returns the sequence moving the cursor to 1-based (col, row).
func cursorSeq(col, row int) string {
	return "\033[" + strconv.Itoa(row) + ";" + strconv.Itoa(col) + "H"
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
