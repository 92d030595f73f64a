package scene

import (
	"image/color"
	"strconv"
	"strings"

	"magblocks/internal/board"
)

// RGBA parses a #RRGGBB value. Malformed input yields opaque black.
func RGBA(hex string) color.RGBA {
	v := strings.TrimPrefix(hex, "#")
	if len(v) != 6 {
		return color.RGBA{A: 0xff}
	}
	n, err := strconv.ParseUint(v, 16, 32)
	if err != nil {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}
}

// Brighten scales the color channels by f, saturating at 255.
func Brighten(c color.RGBA, f float64) color.RGBA {
	scale := func(v uint8) uint8 {
		x := float64(v) * f
		if x > 255 {
			return 255
		}
		return uint8(x)
	}
	return color.RGBA{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: c.A}
}

// WithAlpha returns c with alpha a in [0, 1], premultiplied as image/color expects.
func WithAlpha(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}

// BlockColors returns the primary and shadow colors of a block, brightened
// when the block is connected.
func BlockColors(b board.Block) (primary, shadow color.RGBA) {
	c, _ := b.Color.Lookup()
	primary, shadow = RGBA(c.Value), RGBA(c.Shadow)
	if b.Connected {
		primary, shadow = Brighten(primary, 1.1), Brighten(shadow, 1.1)
	}
	return primary, shadow
}
