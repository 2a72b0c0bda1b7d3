// Package reader exposes the plate detection pipeline as a small set of
// synchronous operations over raw RGBA pixel buffers. Each call works on its
// own copies of the input and allocates fresh outputs; no state is shared
// between calls, so concurrent invocations are safe.
package reader

import (
	"fmt"
	goimage "image"

	"plate-reader/internal/enhance"
	img "plate-reader/internal/image"
	"plate-reader/internal/plate"
	"plate-reader/internal/wells"

	"gocv.io/x/gocv"
)

// MaxRectifiedWidth caps the normalized plate image width; height follows
// from the fixed plate aspect.
const (
	MaxRectifiedWidth = 1200
	PlateAspect       = 1.5
)

// RectifiedImage is a perspective-corrected RGBA frame of the plate.
type RectifiedImage struct {
	Pix    []byte
	Width  int
	Height int
}

// ToImage copies the buffer into a Go image.
func (r *RectifiedImage) ToImage() (*goimage.NRGBA, error) {
	return img.RGBAToImage(r.Pix, r.Width, r.Height)
}

// HoughOptions carries the caller-tunable parameters of the single-pass
// circle detection entry point.
type HoughOptions struct {
	MinRadius, MaxRadius int
	DP                   float64
	MinDist              float64
	EdgeThreshold        float64 // Canny high threshold inside the vote
	Sensitivity          float64 // accumulator threshold
}

// DetectCircles runs the original single-pass circle detection: grayscale,
// one 9x9 blur, one Hough vote with the supplied options. An empty slice
// with a nil error means no circles were found.
func DetectCircles(pix []byte, width, height int, opts HoughOptions) (circles []wells.Circle, err error) {
	defer recoverStage("detect circles", &err)

	bgr, err := img.RGBAToBGRMat(pix, width, height)
	if err != nil {
		return nil, invalidInput(err)
	}
	defer bgr.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	p := wells.SingleParams(opts.MinRadius, opts.MaxRadius,
		opts.DP, opts.MinDist, opts.EdgeThreshold, opts.Sensitivity)
	return wells.DetectSingle(gray, p), nil
}

// DetectPlateCorners locates the plate quadrilateral without rectifying.
// Color segmentation runs first; on failure the edge strategy runs over a
// bilateral-filtered grayscale. An invalid CornerSet with a nil error means
// no plate was found.
func DetectPlateCorners(pix []byte, width, height int) (corners plate.CornerSet, err error) {
	defer recoverStage("detect plate corners", &err)

	bgr, err := img.RGBAToBGRMat(pix, width, height)
	if err != nil {
		return plate.CornerSet{}, invalidInput(err)
	}
	defer bgr.Close()

	pp := plate.DefaultParams()
	if cs, ok := plate.FindByColor(bgr, pp); ok {
		return cs, nil
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	filtered := gocv.NewMat()
	defer filtered.Close()
	enhance.DenoiseEdgePreserving(gray, &filtered, enhance.DefaultParams())

	if cs, ok := plate.FindByEdges(filtered, pp); ok {
		return cs, nil
	}
	return plate.CornerSet{}, nil
}

// WarpPerspective rectifies the image so the given corners map onto a
// dstWidth x dstHeight frame.
func WarpPerspective(pix []byte, width, height int, corners plate.CornerSet, dstWidth, dstHeight int) (out *RectifiedImage, err error) {
	defer recoverStage("warp perspective", &err)

	bgr, err := img.RGBAToBGRMat(pix, width, height)
	if err != nil {
		return nil, invalidInput(err)
	}
	defer bgr.Close()

	if dstWidth <= 0 || dstHeight <= 0 {
		return nil, invalidInput(fmt.Errorf("destination size %dx%d", dstWidth, dstHeight))
	}

	warped, err := plate.Rectify(bgr, corners, dstWidth, dstHeight)
	if err != nil {
		return nil, &ProcessingError{Stage: "rectify", Err: err}
	}
	defer warped.Close()

	return &RectifiedImage{
		Pix:    img.BGRMatToRGBA(warped),
		Width:  dstWidth,
		Height: dstHeight,
	}, nil
}

// NormalizeAndDetectPlate runs the full normalization pipeline: fast
// enhancement, plate localization by color then by edges, and perspective
// rectification to a capped-width 1.5:1 frame. When both strategies fail the
// fixed 5%-margin crop is used, so a valid input always yields an image —
// the only failures are invalid input and internal exceptions.
func NormalizeAndDetectPlate(pix []byte, width, height int) (out *RectifiedImage, err error) {
	defer recoverStage("normalize plate", &err)

	bgr, err := img.RGBAToBGRMat(pix, width, height)
	if err != nil {
		return nil, invalidInput(err)
	}
	defer bgr.Close()

	ep := enhance.DefaultParams()
	enhance.Apply(&bgr, ep)

	pp := plate.DefaultParams()
	corners, found := plate.FindByColor(bgr, pp)
	if !found {
		gray := gocv.NewMat()
		gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)
		corners, found = plate.FindByEdges(gray, pp)
		gray.Close()
	}
	if !found {
		corners = plate.FallbackCorners(width, height, pp)
	}

	dstWidth := MaxRectifiedWidth
	if width < dstWidth {
		dstWidth = width
	}
	dstHeight := int(float64(dstWidth) / PlateAspect)

	warped, err := plate.Rectify(bgr, corners, dstWidth, dstHeight)
	if err != nil {
		return nil, &ProcessingError{Stage: "rectify", Err: err}
	}
	defer warped.Close()

	return &RectifiedImage{
		Pix:    img.BGRMatToRGBA(warped),
		Width:  dstWidth,
		Height: dstHeight,
	}, nil
}

// DetectWells runs the quick multi-pass well detection path with
// caller-supplied radius bounds: fast enhancement, the parameter-swept circle
// search, then the per-circle color check against the well palette. The
// robust path skips that check; this one keeps it, at some latency cost.
// An empty slice with a nil error means no wells were found.
func DetectWells(pix []byte, width, height int, minRadius, maxRadius int) (circles []wells.Circle, err error) {
	defer recoverStage("detect wells quick", &err)

	bgr, err := img.RGBAToBGRMat(pix, width, height)
	if err != nil {
		return nil, invalidInput(err)
	}
	defer bgr.Close()

	enhance.Apply(&bgr, enhance.DefaultParams())

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	found := wells.DetectMultiPass(gray, wells.QuickParams(width, height, minRadius, maxRadius))
	return wells.FilterByColor(bgr, found, wells.DefaultColorParams()), nil
}

// DetectWellsRobust runs the robust well detection path: fast enhancement
// without the gamma stage, then the multi-pass circle search with geometry
// expectations derived from the raw input dimensions and the 12x8 grid. The
// input is assumed to be already perspective-normalized if that matters to
// the caller. An empty slice with a nil error means no wells were found.
func DetectWellsRobust(pix []byte, width, height int) (circles []wells.Circle, err error) {
	defer recoverStage("detect wells", &err)

	bgr, err := img.RGBAToBGRMat(pix, width, height)
	if err != nil {
		return nil, invalidInput(err)
	}
	defer bgr.Close()

	enhance.Apply(&bgr, enhance.DefaultParams().WithoutGamma())

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(bgr, &gray, gocv.ColorBGRToGray)

	return wells.DetectMultiPass(gray, wells.RobustParams(width, height)), nil
}

// DetectWellsRobustFromImage is a convenience wrapper over DetectWellsRobust
// for callers holding a decoded Go image.
func DetectWellsRobustFromImage(src goimage.Image) ([]wells.Circle, error) {
	if src == nil {
		return nil, invalidInput(fmt.Errorf("nil image"))
	}
	pix, w, h := img.RGBAFromImage(src)
	return DetectWellsRobust(pix, w, h)
}

// NormalizeAndDetectPlateFromImage is a convenience wrapper over
// NormalizeAndDetectPlate for callers holding a decoded Go image.
func NormalizeAndDetectPlateFromImage(src goimage.Image) (*RectifiedImage, error) {
	if src == nil {
		return nil, invalidInput(fmt.Errorf("nil image"))
	}
	pix, w, h := img.RGBAFromImage(src)
	return NormalizeAndDetectPlate(pix, w, h)
}
