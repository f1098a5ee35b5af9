// ABOUTME: Fixed pastel palette used to tag notes with a background color.
// ABOUTME: Colors are stored by name and carry RGB values for rendering.

package models

import (
	"fmt"
	"strings"
)

type Color string

const (
	ColorPeach Color = "peach"
	ColorRose  Color = "rose"
	ColorLime  Color = "lime"
	ColorSky   Color = "sky"
	ColorPlum  Color = "plum"
	ColorLemon Color = "lemon"
)

// Palette lists every color a note can be created with, in a stable order.
var Palette = []Color{ColorPeach, ColorRose, ColorLime, ColorSky, ColorPlum, ColorLemon}

var rgb = map[Color][3]uint8{
	ColorPeach: {255, 204, 153},
	ColorRose:  {255, 153, 153},
	ColorLime:  {204, 255, 153},
	ColorSky:   {153, 204, 255},
	ColorPlum:  {221, 160, 221},
	ColorLemon: {255, 255, 153},
}

func ParseColor(s string) (Color, error) {
	c := Color(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown color %q", s)
	}
	return c, nil
}

func (c Color) Valid() bool {
	_, ok := rgb[c]
	return ok
}

// RGB returns the color components, or white for an unknown color.
func (c Color) RGB() (r, g, b uint8) {
	v, ok := rgb[c]
	if !ok {
		return 255, 255, 255
	}
	return v[0], v[1], v[2]
}

func (c Color) Hex() string {
	r, g, b := c.RGB()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b)
}

func (c Color) String() string {
	return string(c)
}

// PaletteColor picks the palette entry at i modulo the palette size.
func PaletteColor(i int) Color {
	n := len(Palette)
	return Palette[((i%n)+n)%n]
}
