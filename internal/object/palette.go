package object

import "fmt"

// Color identifies one of the fixed ball colors.
type Color int

const (
	Pink Color = iota
	LightBlue
	Yellow
	LimeGreen
	Purple
)

// Palette lists every ball color in spawn order.
var Palette = []Color{Pink, LightBlue, Yellow, LimeGreen, Purple}

// RGB is a 24-bit color.
type RGB struct {
	R, G, B uint8
}

var colorRGB = map[Color]RGB{
	Pink:      {0xFF, 0x33, 0x66},
	LightBlue: {0x33, 0xCC, 0xFF},
	Yellow:    {0xFF, 0xCC, 0x00},
	LimeGreen: {0x66, 0xFF, 0x33},
	Purple:    {0xCC, 0x33, 0xFF},
}

var colorNames = map[Color]string{
	Pink:      "pink",
	LightBlue: "light-blue",
	Yellow:    "yellow",
	LimeGreen: "lime-green",
	Purple:    "purple",
}

// Valid reports whether c is part of the palette.
func (c Color) Valid() bool {
	_, ok := colorRGB[c]
	return ok
}

// RGB returns the display color. Unknown colors render white.
func (c Color) RGB() RGB {
	if rgb, ok := colorRGB[c]; ok {
		return rgb
	}
	return RGB{0xFF, 0xFF, 0xFF}
}

// Hex returns the color as #RRGGBB.
func (c Color) Hex() string {
	rgb := c.RGB()
	return fmt.Sprintf("#%02X%02X%02X", rgb.R, rgb.G, rgb.B)
}

func (c Color) String() string {
	if name, ok := colorNames[c]; ok {
		return name
	}
	return fmt.Sprintf("color(%d)", int(c))
}

// Scale returns the color dimmed by f (0 = black, 1 = unchanged).
func (rgb RGB) Scale(f float64) RGB {
	if f >= 1 {
		return rgb
	}
	if f <= 0 {
		return RGB{}
	}
	return RGB{
		R: uint8(float64(rgb.R) * f),
		G: uint8(float64(rgb.G) * f),
		B: uint8(float64(rgb.B) * f),
	}
}

// MarshalText encodes the color by name.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}
