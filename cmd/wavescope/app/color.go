package app

import (
	"image/color"
	"math"
)

const (
	paletteHueStart   = 210.0 // first trace is blue
	paletteSaturation = 0.85
	paletteValue      = 0.75
)

// HSV represents a color in HSV color space
type HSV struct {
	H float64 // Hue [0-360]
	S float64 // Saturation [0-1]
	V float64 // Value [0-1]
}

// TracePalette returns n distinct line colors, hues evenly spaced around the wheel.
// Saturation and value stay below 1 so lines remain readable on white.
func TracePalette(n int) []color.Color {
	palette := make([]color.Color, n)
	for i := range palette {
		palette[i] = HSVToRGB(HSV{
			H: paletteHueStart + float64(i)*360/float64(n),
			S: paletteSaturation,
			V: paletteValue,
		})
	}
	return palette
}

// HSVToRGB converts HSV color space to RGB
// H: [0-360], S: [0-1], V: [0-1]
func HSVToRGB(hsv HSV) color.Color {
	h := hsv.H
	s := hsv.S
	v := hsv.V

	if s <= 0.0 {
		rgb := uint8(v * 255)
		return color.RGBA{R: rgb, G: rgb, B: rgb, A: 0xff}
	}

	// normalize hue to [0-6)
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 60
	i := math.Floor(h)
	f := h - i

	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64

	switch int(i) {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}

	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}
