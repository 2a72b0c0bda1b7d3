package wells

import (
	"math"

	"plate-reader/pkg/colorutil"
)

// Standard assay plate layout: 8 rows by 12 columns.
const (
	GridRows = 8
	GridCols = 12
)

// DetectionParams holds the multi-pass circle search tuning. The two
// pipeline entry points use different constructors; the bands and margins
// deliberately differ between them and must not be unified.
type DetectionParams struct {
	// Parameter grid: every blur kernel is crossed with every sensitivity.
	BlurSizes     []int
	Sensitivities []float64 // Hough accumulator thresholds, low = permissive

	DP            float64 // inverse accumulator resolution
	EdgeThreshold float64 // Canny high threshold inside the Hough transform

	// Geometry expectations.
	MinDist   float64 // minimum distance between accepted centers
	MinRadius int
	MaxRadius int

	// Duplicate merging: candidates within MergeFactor*MinDist of an
	// existing cluster are folded into it.
	MergeFactor float64

	// Median-radius filter band and frame-edge margin (fraction of the
	// median radius a center must sit inside the image bounds).
	RadiusBandLow    float64
	RadiusBandHigh   float64
	EdgeMarginFactor float64
	MinFilterCount   int // run the filter only at or above this many circles

	// Early-exit cap across all passes.
	MaxCandidates int
}

// QuickParams returns the single-call multi-pass tuning with caller-supplied
// radius bounds. Minimum center distance derives from the expected cell of a
// 12x8 grid over the image.
func QuickParams(width, height, minRadius, maxRadius int) DetectionParams {
	expectedCell := math.Min(float64(width)/GridCols, float64(height)/GridRows)
	return DetectionParams{
		BlurSizes:     []int{7, 9, 11},
		Sensitivities: []float64{22, 28, 35},

		DP:            1.0,
		EdgeThreshold: 50,

		MinDist:   expectedCell * 0.65,
		MinRadius: minRadius,
		MaxRadius: maxRadius,

		MergeFactor: 0.4,

		RadiusBandLow:    0.5,
		RadiusBandHigh:   1.5,
		EdgeMarginFactor: 1.0,
		MinFilterCount:   1,

		MaxCandidates: 100,
	}
}

// RobustParams derives the full tuning from the raw image dimensions,
// assuming the plate fills the frame with a 12x8 well grid. Compared to the
// quick path it sweeps more permissive sensitivities, accepts a wider radius
// band above the median, and only filters once enough circles are in hand.
func RobustParams(width, height int) DetectionParams {
	cellW := float64(width) / GridCols
	cellH := float64(height) / GridRows
	expectedRadius := math.Min(cellW, cellH) * 0.35

	return DetectionParams{
		BlurSizes:     []int{7, 9, 11},
		Sensitivities: []float64{20, 28, 38},

		DP:            1.0,
		EdgeThreshold: 50,

		MinDist:   math.Min(cellW, cellH) * 0.6,
		MinRadius: int(expectedRadius * 0.5),
		MaxRadius: int(expectedRadius * 1.5),

		MergeFactor: 0.4,

		RadiusBandLow:    0.5,
		RadiusBandHigh:   2.0,
		EdgeMarginFactor: 0.3,
		MinFilterCount:   11,

		MaxCandidates: 100,
	}
}

// SingleParams wraps raw Hough parameters for DetectSingle.
func SingleParams(minRadius, maxRadius int, dp, minDist, edgeThreshold, sensitivity float64) DetectionParams {
	return DetectionParams{
		Sensitivities: []float64{sensitivity},
		DP:            dp,
		EdgeThreshold: edgeThreshold,
		MinDist:       minDist,
		MinRadius:     minRadius,
		MaxRadius:     maxRadius,
	}
}

// ColorParams tunes the per-circle color-consistency check. The bands are
// close to the segmentation palette but tuned independently.
type ColorParams struct {
	Pink           colorutil.Band // wraps the hue origin: 150-180 plus 0-15
	Purple         colorutil.Band
	SampleFraction float64 // fraction of the radius covered by the sample square
}

// DefaultColorParams returns the well palette check tuning.
func DefaultColorParams() ColorParams {
	return ColorParams{
		Pink:           colorutil.Band{HueLo: 150, HueHi: 15, SatMin: 30, ValMin: 80},
		Purple:         colorutil.Band{HueLo: 100, HueHi: 150, SatMin: 30, ValMin: 50},
		SampleFraction: 0.6,
	}
}
