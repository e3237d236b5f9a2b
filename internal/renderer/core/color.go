// Package core provides shared types for the renderer subsystem.
// This package breaks import cycles between the grid model, the highlight
// table, and the shaping integration.
package core

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Color represents a 24-bit RGB color.
type Color struct {
	R, G, B uint8
}

// Common colors.
var (
	ColorBlack = Color{R: 0, G: 0, B: 0}
	ColorWhite = Color{R: 255, G: 255, B: 255}
)

// ColorFromRGB creates a color from RGB components.
func ColorFromRGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// ColorFromRGB24 creates a color from a packed 24-bit value as sent by
// Neovim (0xRRGGBB).
func ColorFromRGB24(v uint64) Color {
	return Color{
		R: uint8((v >> 16) & 0xFF),
		G: uint8((v >> 8) & 0xFF),
		B: uint8(v & 0xFF),
	}
}

// ColorFromHex creates a color from a hex string ("#RRGGBB" or "RRGGBB").
func ColorFromHex(hex string) (Color, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid hex color: %s", hex)
	}
	return ColorFromRGB24(v), nil
}

// Hex returns the "#RRGGBB" form of the color.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Invert returns the photo-negative of the color.
func (c Color) Invert() Color {
	return Color{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B}
}

// Floats returns the color components scaled to [0, 1].
func (c Color) Floats() (r, g, b float64) {
	return float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0
}

func (c Color) colorful() colorful.Color {
	r, g, b := c.Floats()
	return colorful.Color{R: r, G: g, B: b}
}

// Luminance returns the perceived luminance of the color in [0, 1].
// Used to classify a background color as light or dark.
func (c Color) Luminance() float64 {
	l, _, _ := c.colorful().Luv()
	return l
}

// IsLight returns true if the color reads as a light background.
func (c Color) IsLight() bool {
	return c.Luminance() > 0.5
}

// Blend mixes the color with other in RGB space. t=0 yields c, t=1 yields
// other. Used for pmenu blend and similar translucency effects.
func (c Color) Blend(other Color, t float64) Color {
	mixed := c.colorful().BlendRgb(other.colorful(), t)
	r, g, b := mixed.RGB255()
	return Color{R: r, G: g, B: b}
}
