package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a straight-alpha RGBA color, each channel in [0, 1].
type Color struct {
	R float64 `json:"r" yaml:"r" mapstructure:"r"`
	G float64 `json:"g" yaml:"g" mapstructure:"g"`
	B float64 `json:"b" yaml:"b" mapstructure:"b"`
	A float64 `json:"a" yaml:"a" mapstructure:"a"`
}

// RGB creates an opaque color.
func RGB(r, g, b float64) Color { return Color{R: r, G: g, B: b, A: 1} }

// RGBA creates a color with explicit alpha.
func RGBA(r, g, b, a float64) Color { return Color{R: r, G: g, B: b, A: a} }

// Common named colors.
var (
	Black   = RGB(0, 0, 0)
	White   = RGB(1, 1, 1)
	Red     = RGB(1, 0, 0)
	Green   = RGB(0, 0.5, 0)
	Blue    = RGB(0, 0, 1)
	Yellow  = RGB(1, 1, 0)
	Orange  = RGB(1, 0.647, 0)
	Gold    = RGB(1, 0.843, 0)
	Purple  = RGB(0.5, 0, 0.5)
	Gray    = RGB(0.5, 0.5, 0.5)
	Brown   = RGB(0.647, 0.165, 0.165)
	Pink    = RGB(1, 0.753, 0.796)
	Cyan    = RGB(0, 1, 1)
	Magenta = RGB(1, 0, 1)
)

var namedColors = map[string]Color{
	"black":   Black,
	"white":   White,
	"red":     Red,
	"green":   Green,
	"blue":    Blue,
	"yellow":  Yellow,
	"orange":  Orange,
	"gold":    Gold,
	"purple":  Purple,
	"gray":    Gray,
	"grey":    Gray,
	"brown":   Brown,
	"pink":    Pink,
	"cyan":    Cyan,
	"magenta": Magenta,
}

// ParseColor accepts a color name ("gold") or a hex string in the forms
// #RGB, #RRGGBB or #RRGGBBAA.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	hex := strings.TrimPrefix(s, "#")
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]}) + "ff"
	case 6:
		hex += "ff"
	case 8:
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// Hex formats the color as #RRGGBBAA.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x%02x", to255(c.R), to255(c.G), to255(c.B), to255(c.A))
}

func to255(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return uint8(v*255 + 0.5)
}
