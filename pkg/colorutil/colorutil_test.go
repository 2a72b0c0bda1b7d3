package colorutil

import (
	"math"
	"testing"
)

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float64
		h, s, v float64
	}{
		{"red", 255, 0, 0, 0, 255, 255},
		{"green", 0, 255, 0, 60, 255, 255},
		{"blue", 0, 0, 255, 120, 255, 255},
		{"white", 255, 255, 255, 0, 0, 255},
		{"black", 0, 0, 0, 0, 0, 0},
		{"gray", 128, 128, 128, 0, 0, 128},
		{"hot pink", 255, 105, 180, 165, 150, 255},
	}

	for _, tt := range tests {
		h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
		if math.Abs(h-tt.h) > 1.0 || math.Abs(s-tt.s) > 1.0 || math.Abs(v-tt.v) > 1.0 {
			t.Errorf("%s: RGBToHSV(%g, %g, %g) = (%.1f, %.1f, %.1f), expected (%g, %g, %g)",
				tt.name, tt.r, tt.g, tt.b, h, s, v, tt.h, tt.s, tt.v)
		}
	}
}

func TestHSVToRGB_RoundTrip(t *testing.T) {
	colors := []struct{ r, g, b float64 }{
		{255, 0, 0},
		{0, 200, 100},
		{180, 43, 226},
		{255, 105, 180},
	}

	for _, c := range colors {
		h, s, v := RGBToHSV(c.r, c.g, c.b)
		got := HSVToRGB(h, s, v)
		if math.Abs(float64(got.R)-c.r) > 2 ||
			math.Abs(float64(got.G)-c.g) > 2 ||
			math.Abs(float64(got.B)-c.b) > 2 {
			t.Errorf("round trip of (%g, %g, %g) gave (%d, %d, %d)",
				c.r, c.g, c.b, got.R, got.G, got.B)
		}
	}
}

func TestBand_Contains(t *testing.T) {
	purple := Band{HueLo: 100, HueHi: 150, SatMin: 30, ValMin: 50}
	pink := Band{HueLo: 150, HueHi: 15, SatMin: 30, ValMin: 80} // wraps 180/0

	tests := []struct {
		name     string
		band     Band
		h, s, v  float64
		expected bool
	}{
		{"purple mid", purple, 125, 100, 100, true},
		{"purple hue low", purple, 99, 100, 100, false},
		{"purple hue high", purple, 151, 100, 100, false},
		{"purple undersaturated", purple, 125, 29, 100, false},
		{"purple too dark", purple, 125, 100, 49, false},
		{"pink high side", pink, 170, 100, 200, true},
		{"pink wrapped low side", pink, 5, 100, 200, true},
		{"pink gap", pink, 80, 100, 200, false},
		{"pink boundary 180", pink, 180, 100, 200, true},
		{"pink boundary 15", pink, 15, 100, 200, true},
		{"pink dim", pink, 170, 100, 79, false},
	}

	for _, tt := range tests {
		if got := tt.band.Contains(tt.h, tt.s, tt.v); got != tt.expected {
			t.Errorf("%s: Contains(%g, %g, %g) = %v, expected %v",
				tt.name, tt.h, tt.s, tt.v, got, tt.expected)
		}
	}
}
