// Package colorutil provides shared color utilities for the plate reader.
//
// All HSV values use the OpenCV convention: H in 0-180, S and V in 0-255.
package colorutil

import (
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Common overlay colors used by the debug tooling.
var (
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Orange = color.RGBA{R: 255, G: 165, B: 0, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// RGBToHSV converts RGB (0-255) to HSV (OpenCV convention: H 0-180, S 0-255, V 0-255).
func RGBToHSV(r, g, b float64) (h, s, v float64) {
	r /= 255.0
	g /= 255.0
	b /= 255.0

	maxC := math.Max(r, math.Max(g, b))
	minC := math.Min(r, math.Min(g, b))
	diff := maxC - minC

	v = maxC * 255.0

	if maxC == 0 {
		s = 0
	} else {
		s = (diff / maxC) * 255.0
	}

	if diff == 0 {
		h = 0
	} else if maxC == r {
		h = 60 * math.Mod((g-b)/diff, 6)
	} else if maxC == g {
		h = 60 * ((b-r)/diff + 2)
	} else {
		h = 60 * ((r-g)/diff + 4)
	}

	if h < 0 {
		h += 360
	}

	h = h / 2 // OpenCV's 0-180 range

	return h, s, v
}

// HSVToRGB converts HSV in OpenCV scale to an opaque RGBA color.
func HSVToRGB(h, s, v float64) color.RGBA {
	c := colorful.Hsv(h*2, s/255.0, v/255.0)
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Band describes a hue range gated by minimum saturation and value.
// A band with HueLo > HueHi wraps around 180/0 (the red boundary).
type Band struct {
	HueLo, HueHi   float64
	SatMin, ValMin float64
}

// Contains reports whether the HSV triple falls inside the band.
func (b Band) Contains(h, s, v float64) bool {
	if s < b.SatMin || v < b.ValMin {
		return false
	}
	if b.HueLo <= b.HueHi {
		return h >= b.HueLo && h <= b.HueHi
	}
	// Wrapped band, e.g. 150-180 plus 0-10.
	return h >= b.HueLo || h <= b.HueHi
}
