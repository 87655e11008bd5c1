package morphic

import "image/color"

// Color is an RGBA color with components in [0, 1], not premultiplied.
type Color struct {
	R, G, B, A float64
}

// RGB builds an opaque color from 8-bit components.
func RGB(r, g, b uint8) Color {
	return Color{float64(r) / 255, float64(g) / 255, float64(b) / 255, 1}
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// RGBA implements image/color.Color with premultiplied 16-bit components.
func (c Color) RGBA() (r, g, b, a uint32) {
	a = uint32(clamp01(c.A) * 0xffff)
	r = uint32(clamp01(c.R)*clamp01(c.A)*0xffff + 0.5)
	g = uint32(clamp01(c.G)*clamp01(c.A)*0xffff + 0.5)
	b = uint32(clamp01(c.B)*clamp01(c.A)*0xffff + 0.5)
	return
}

var _ color.Color = Color{}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

var (
	Black     = RGB(0, 0, 0)
	White     = RGB(255, 255, 255)
	Gray      = RGB(128, 128, 128)
	LightGray = RGB(192, 192, 192)
	DarkGray  = RGB(64, 64, 64)
	Red       = RGB(255, 0, 0)
	DarkRed   = RGB(139, 0, 0)
	Orange    = RGB(255, 200, 0)
	Yellow    = RGB(255, 255, 0)
	Gold      = RGB(255, 215, 0)
	Lime      = RGB(0, 255, 0)
	Green     = RGB(0, 128, 0)
	DarkGreen = RGB(0, 100, 0)
	Cyan      = RGB(0, 255, 255)
	Blue      = RGB(0, 0, 255)
	Navy      = RGB(0, 0, 128)
	Lavender  = RGB(230, 230, 250)
	Purple    = RGB(128, 0, 128)
	Magenta   = RGB(255, 0, 255)
	Pink      = RGB(255, 192, 203)
	Beige     = RGB(245, 245, 220)
	Azure     = RGB(240, 255, 255)
)

// FontStyle is a bit set of font style flags.
type FontStyle uint8

const (
	FontBold FontStyle = 1 << iota
	FontItalic
)

// Font describes the text face a canvas should use. Height is in canonical
// units of the node being drawn.
type Font struct {
	Name   string
	Style  FontStyle
	Height float64
}

// DefaultFont is the font a fresh canvas starts with.
var DefaultFont = Font{Name: "default", Height: 0.1}
