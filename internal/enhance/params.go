package enhance

import "image"

// Params holds tuning for the enhancement stages.
type Params struct {
	// Auto-gamma: target mean luma and exponent clamp.
	GammaTarget float64
	GammaMin    float64
	GammaMax    float64

	// CLAHE on the Lab L channel.
	ClipLimit float64
	TileGrid  image.Point

	// Unsharp mask.
	UnsharpSigma  float64
	UnsharpAmount float64

	// Fast Gaussian denoise.
	DenoiseKernel int
	DenoiseSigma  float64

	// Edge-preserving bilateral denoise.
	BilateralDiameter   int
	BilateralSigmaColor float64
	BilateralSigmaSpace float64

	// Stage skip flags for the composite Apply. Order is fixed either way.
	SkipWhiteBalance bool
	SkipGamma        bool
	SkipCLAHE        bool
	SkipDenoise      bool
}

// DefaultParams returns the enhancement tuning used by the plate pipelines.
func DefaultParams() Params {
	return Params{
		GammaTarget: 127,
		GammaMin:    0.5,
		GammaMax:    2.5,

		ClipLimit: 2.0,
		TileGrid:  image.Point{X: 8, Y: 8},

		UnsharpSigma:  1.0,
		UnsharpAmount: 1.5,

		DenoiseKernel: 5,
		DenoiseSigma:  1.5,

		BilateralDiameter:   9,
		BilateralSigmaColor: 75,
		BilateralSigmaSpace: 75,
	}
}

// WithoutGamma returns a copy with the gamma stage disabled. The robust well
// detector runs balance and CLAHE only.
func (p Params) WithoutGamma() Params {
	p.SkipGamma = true
	return p
}
