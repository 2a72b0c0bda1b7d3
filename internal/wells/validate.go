package wells

import (
	"image"

	"gocv.io/x/gocv"
)

// ValidateColor checks that a candidate circle's interior matches the well
// palette. It samples a square covering the inner SampleFraction of the
// radius, takes the mean HSV there, and accepts pink or purple means.
// Returns false when the sample square would leave the image bounds, so
// frame-clipped candidates are rejected rather than partially sampled.
func ValidateColor(bgr gocv.Mat, c Circle, p ColorParams) bool {
	cx, cy := int(c.X), int(c.Y)
	r := int(c.Radius * p.SampleFraction)
	if r < 1 {
		return false
	}

	if cx-r < 0 || cx+r >= bgr.Cols() || cy-r < 0 || cy+r >= bgr.Rows() {
		return false
	}

	sample := bgr.Region(image.Rect(cx-r, cy-r, cx+r, cy+r))
	defer sample.Close()

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(sample, &hsv, gocv.ColorBGRToHSV)

	mean := hsv.Mean()
	h, s, v := mean.Val1, mean.Val2, mean.Val3

	return p.Pink.Contains(h, s, v) || p.Purple.Contains(h, s, v)
}

// FilterByColor keeps only circles passing the color-consistency check.
func FilterByColor(bgr gocv.Mat, circles []Circle, p ColorParams) []Circle {
	kept := circles[:0]
	for _, c := range circles {
		if ValidateColor(bgr, c, p) {
			kept = append(kept, c)
		}
	}
	return kept
}
