package plate

import "plate-reader/pkg/colorutil"

// Params holds the plate localization tuning. All values come from empirical
// tuning against handheld plate photographs; treat them as a matched set.
type Params struct {
	// Well palette bands in OpenCV HSV scale. Pink wraps the hue origin.
	PinkHigh colorutil.Band // 150-180
	PinkLow  colorutil.Band // 0-10 wrap side
	Purple   colorutil.Band

	// Mask cleanup.
	SpeckleKernel    int // close+open ellipse size
	BridgeKernel     int // dilation ellipse that merges wells into one blob
	BridgeIterations int

	// Contour acceptance.
	MinAreaFraction float64 // reject blobs below this share of image area
	MaxAreaFraction float64 // edge path only: reject near-full-frame contours
	AspectMin       float64 // expected plate long/short ratio window
	AspectMax       float64
	LooseAspectMin  float64 // rotated-rect fallback window
	LooseAspectMax  float64

	// Edge geometry.
	CannyLow           float64
	CannyHigh          float64
	EdgeDilateKernel   int
	EdgeDilateIter     int
	ApproxEpsilonFrac  float64 // polygon tolerance as fraction of perimeter
	FallbackMarginFrac float64 // margin of the always-succeeds crop
}

// DefaultParams returns the plate localization tuning.
func DefaultParams() Params {
	return Params{
		PinkHigh: colorutil.Band{HueLo: 150, HueHi: 180, SatMin: 30, ValMin: 80},
		PinkLow:  colorutil.Band{HueLo: 0, HueHi: 10, SatMin: 30, ValMin: 80},
		Purple:   colorutil.Band{HueLo: 100, HueHi: 150, SatMin: 30, ValMin: 50},

		SpeckleKernel:    5,
		BridgeKernel:     15,
		BridgeIterations: 3,

		MinAreaFraction: 0.10,
		MaxAreaFraction: 0.98,
		AspectMin:       1.0,
		AspectMax:       2.5,
		LooseAspectMin:  0.8,
		LooseAspectMax:  3.0,

		CannyLow:           30,
		CannyHigh:          100,
		EdgeDilateKernel:   3,
		EdgeDilateIter:     2,
		ApproxEpsilonFrac:  0.02,
		FallbackMarginFrac: 0.05,
	}
}
