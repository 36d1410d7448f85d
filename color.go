package tear

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
)

// RGBA is a straight (non-premultiplied) color with components in [0, 1].
type RGBA struct {
	R, G, B, A float64
}

// Common colors.
var (
	Transparent = RGBA{}
	White       = RGBA{R: 1, G: 1, B: 1, A: 1}
	Black       = RGBA{A: 1}
)

// RGB returns an opaque color.
func RGB(r, g, b float64) RGBA {
	return RGBA{R: r, G: g, B: b, A: 1}
}

// Color converts c to color.NRGBA.
func (c RGBA) Color() color.Color {
	return c.NRGBA()
}

// NRGBA converts c to 8-bit straight alpha.
func (c RGBA) NRGBA() color.NRGBA {
	return color.NRGBA{
		R: to8(c.R),
		G: to8(c.G),
		B: to8(c.B),
		A: to8(c.A),
	}
}

// FromColor converts any color.Color to RGBA, undoing premultiplication.
func FromColor(c color.Color) RGBA {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGBA{
		R: float64(n.R) / 255,
		G: float64(n.G) / 255,
		B: float64(n.B) / 255,
		A: float64(n.A) / 255,
	}
}

// Lerp mixes c toward d by t without clamping t.
func (c RGBA) Lerp(d RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (d.R-c.R)*t,
		G: c.G + (d.G-c.G)*t,
		B: c.B + (d.B-c.B)*t,
		A: c.A + (d.A-c.A)*t,
	}
}

// Hex parses "RGB", "RGBA", "RRGGBB" or "RRGGBBAA", with or without a
// leading '#'.
func Hex(s string) (RGBA, error) {
	if s != "" && s[0] == '#' {
		s = s[1:]
	}
	var digits int
	switch len(s) {
	case 3, 4:
		digits = 1
	case 6, 8:
		digits = 2
	default:
		return RGBA{}, fmt.Errorf("tear: bad hex color %q", s)
	}

	ch := [4]uint64{0, 0, 0, 255}
	for i := 0; i*digits < len(s); i++ {
		v, err := strconv.ParseUint(s[i*digits:(i+1)*digits], 16, 8)
		if err != nil {
			return RGBA{}, fmt.Errorf("tear: bad hex color %q: %w", s, err)
		}
		if digits == 1 {
			v *= 17
		}
		ch[i] = v
	}
	return RGBA{
		R: float64(ch[0]) / 255,
		G: float64(ch[1]) / 255,
		B: float64(ch[2]) / 255,
		A: float64(ch[3]) / 255,
	}, nil
}

// String formats c as "#rrggbbaa".
func (c RGBA) String() string {
	n := c.NRGBA()
	return fmt.Sprintf("#%02x%02x%02x%02x", n.R, n.G, n.B, n.A)
}

// MarshalText implements encoding.TextMarshaler so colors read as hex in presets.
func (c RGBA) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *RGBA) UnmarshalText(text []byte) error {
	v, err := Hex(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
