// Package enhance normalizes exposure and color before any geometry is
// extracted: gray-world white balance, auto-gamma, CLAHE contrast, unsharp
// masking, and denoise. Every stage mutates the passed Mat in place; callers
// hand in their own working copy, never an input buffer.
package enhance

import (
	"image"
	"math"

	"gocv.io/x/gocv"
)

// WhiteBalance applies gray-world white balance: each channel is scaled so
// that the three channel means converge on their common mean. Channels with a
// zero mean are left untouched.
func WhiteBalance(img *gocv.Mat) {
	channels := gocv.Split(*img)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()

	means := make([]float64, len(channels))
	var grayMean float64
	for i := range channels {
		means[i] = channels[i].Mean().Val1
		grayMean += means[i]
	}
	grayMean /= float64(len(channels))

	for i := range channels {
		if means[i] > 0 {
			channels[i].MultiplyFloat(float32(grayMean / means[i]))
		}
	}

	gocv.Merge(channels, img)
}

// AutoGamma solves for the gamma that brings the mean luma toward the target
// and applies it through a 256-entry lookup table. The exponent is clamped to
// [GammaMin, GammaMax] so near-black or near-white frames cannot trigger a
// runaway correction.
func AutoGamma(img *gocv.Mat, p Params) {
	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(*img, &gray, gocv.ColorBGRToGray)

	meanVal := gray.Mean().Val1
	if meanVal < 1 {
		meanVal = 1
	}
	if meanVal > 254 {
		meanVal = 254
	}

	gamma := math.Log(p.GammaTarget/255.0) / math.Log(meanVal/255.0)
	gamma = math.Max(p.GammaMin, math.Min(p.GammaMax, gamma))

	lut := gocv.NewMatWithSize(1, 256, gocv.MatTypeCV8UC1)
	defer lut.Close()
	for i := 0; i < 256; i++ {
		v := math.Pow(float64(i)/255.0, gamma) * 255.0
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		lut.SetUCharAt(0, i, uint8(v+0.5))
	}

	gocv.LUT(*img, lut, img)
}

// CLAHE applies contrast-limited adaptive histogram equalization to the L
// channel in Lab space. Chroma channels are untouched.
func CLAHE(img *gocv.Mat, p Params) {
	lab := gocv.NewMat()
	defer lab.Close()
	gocv.CvtColor(*img, &lab, gocv.ColorBGRToLab)

	channels := gocv.Split(lab)
	defer func() {
		for i := range channels {
			channels[i].Close()
		}
	}()

	clahe := gocv.NewCLAHEWithParams(p.ClipLimit, p.TileGrid)
	defer clahe.Close()
	clahe.Apply(channels[0], &channels[0])

	gocv.Merge(channels, &lab)
	gocv.CvtColor(lab, img, gocv.ColorLabToBGR)
}

// UnsharpMask sharpens edges by subtracting a Gaussian-blurred copy:
// out = (1+amount)*img - amount*blurred.
func UnsharpMask(img *gocv.Mat, p Params) {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(*img, &blurred, image.Point{}, p.UnsharpSigma, p.UnsharpSigma, gocv.BorderDefault)
	gocv.AddWeighted(*img, 1.0+p.UnsharpAmount, blurred, -p.UnsharpAmount, 0, img)
}

// DenoiseFast smooths sensor noise with a separable Gaussian blur. This is
// the speed-oriented path used by the composite pipelines.
func DenoiseFast(img *gocv.Mat, p Params) {
	gocv.GaussianBlur(*img, img, image.Point{X: p.DenoiseKernel, Y: p.DenoiseKernel},
		p.DenoiseSigma, p.DenoiseSigma, gocv.BorderDefault)
}

// DenoiseEdgePreserving smooths with a bilateral filter, keeping edges sharp
// at the cost of speed. The edge-geometry plate finder wants this path.
func DenoiseEdgePreserving(src gocv.Mat, dst *gocv.Mat, p Params) {
	gocv.BilateralFilter(src, dst, p.BilateralDiameter, p.BilateralSigmaColor, p.BilateralSigmaSpace)
}

// Apply runs the fast enhancement chain in its fixed order: white balance,
// auto-gamma, CLAHE, Gaussian denoise. Stages disabled in the params are
// skipped but the order never changes.
func Apply(img *gocv.Mat, p Params) {
	if !p.SkipWhiteBalance {
		WhiteBalance(img)
	}
	if !p.SkipGamma {
		AutoGamma(img, p)
	}
	if !p.SkipCLAHE {
		CLAHE(img, p)
	}
	if !p.SkipDenoise {
		DenoiseFast(img, p)
	}
}
