// Package color provides the RGBA color type used by scene primitives,
// plus HSL lightness adjustment and the cyclic palettes used to assign
// colors to newly added objects.
package color

import (
	"fmt"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Color is an RGB or RGBA color with float32 channels in [0, 1].
// A color carries its channel depth (3 or 4): primitives created without
// an alpha channel stay 3-channel for their lifetime, mirroring the
// rendering engine's refusal to add or drop alpha on a live material.
type Color struct {
	R, G, B float32
	A       float32
	alpha   bool
}

// RGB returns a 3-channel color.
func RGB(r, g, b float32) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// RGBA returns a 4-channel color.
func RGBA(r, g, b, a float32) Color {
	return Color{R: r, G: g, B: b, A: a, alpha: true}
}

// Parse parses a hex color string: "#rgb", "#rrggbb" or "#rrggbbaa".
// The 8-digit form yields a 4-channel color, the others 3-channel.
func Parse(s string) (Color, error) {
	if !strings.HasPrefix(s, "#") {
		return Color{}, fmt.Errorf("color: expected hex string starting with '#', got %q", s)
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		// Expand the short form; colorful.Hex only reads six digits.
		long := []byte{'#', hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}
		c, err := colorful.Hex(string(long))
		if err != nil {
			return Color{}, fmt.Errorf("color: %w", err)
		}
		return RGB(float32(c.R), float32(c.G), float32(c.B)), nil
	case 6:
		c, err := colorful.Hex(s)
		if err != nil {
			return Color{}, fmt.Errorf("color: %w", err)
		}
		return RGB(float32(c.R), float32(c.G), float32(c.B)), nil
	case 8:
		c, err := colorful.Hex("#" + hex[:6])
		if err != nil {
			return Color{}, fmt.Errorf("color: %w", err)
		}
		a, err := strconv.ParseUint(hex[6:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("color: bad alpha in %q: %w", s, err)
		}
		return RGBA(float32(c.R), float32(c.G), float32(c.B), float32(a)/255), nil
	}
	return Color{}, fmt.Errorf("color: bad hex string %q", s)
}

// MustParse parses a hex color string or panics. For static palettes.
func MustParse(s string) Color {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Channels returns the channel depth: 3 or 4.
func (c Color) Channels() int {
	if c.alpha {
		return 4
	}
	return 3
}

// ToChannels converts c to the given depth. Dropping alpha discards the
// channel; adding alpha sets it to 1.
func (c Color) ToChannels(n int) Color {
	switch n {
	case 3:
		return RGB(c.R, c.G, c.B)
	case 4:
		a := c.A
		if !c.alpha {
			a = 1
		}
		return RGBA(c.R, c.G, c.B, a)
	}
	return c
}

// Equal reports bit-for-bit channel equality, including channel depth.
func (c Color) Equal(o Color) bool {
	return c == o
}

// Lighten shifts the color's HSL lightness by delta, clamped to [0, 1].
// If the lightness is already at the ceiling the direction flips and the
// color is darkened instead, so highlights stay visible on white objects.
// Alpha and channel depth are preserved.
func (c Color) Lighten(delta float64) Color {
	cf := colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
	h, s, l := cf.Hsl()
	if l < 1 {
		l = min(l+delta, 1)
	} else {
		l = max(l-delta, 0)
	}
	out := colorful.Hsl(h, s, l).Clamped()
	res := Color{R: float32(out.R), G: float32(out.G), B: float32(out.B), A: c.A, alpha: c.alpha}
	if !c.alpha {
		res.A = 1
	}
	return res
}

// Hex returns the "#rrggbb" or "#rrggbbaa" form depending on depth.
func (c Color) Hex() string {
	cf := colorful.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
	if c.alpha {
		return fmt.Sprintf("%s%02x", cf.Clamped().Hex(), uint8(c.A*255+0.5))
	}
	return cf.Clamped().Hex()
}

func (c Color) String() string {
	return c.Hex()
}
