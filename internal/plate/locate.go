package plate

import (
	"image"
	"sort"

	"plate-reader/pkg/geometry"

	"gocv.io/x/gocv"
)

// wellColorMask builds a binary mask of pixels in the pink or purple well
// bands, then closes and opens it to drop speckle and fill small gaps.
func wellColorMask(bgr gocv.Mat, p Params) gocv.Mat {
	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(bgr, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	band := gocv.NewMat()
	defer band.Close()

	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(p.PinkHigh.HueLo, p.PinkHigh.SatMin, p.PinkHigh.ValMin, 0),
		gocv.NewScalar(p.PinkHigh.HueHi, 255, 255, 0), &mask)
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(p.PinkLow.HueLo, p.PinkLow.SatMin, p.PinkLow.ValMin, 0),
		gocv.NewScalar(p.PinkLow.HueHi, 255, 255, 0), &band)
	gocv.BitwiseOr(mask, band, &mask)
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(p.Purple.HueLo, p.Purple.SatMin, p.Purple.ValMin, 0),
		gocv.NewScalar(p.Purple.HueHi, 255, 255, 0), &band)
	gocv.BitwiseOr(mask, band, &mask)

	kernel := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: p.SpeckleKernel, Y: p.SpeckleKernel})
	defer kernel.Close()
	gocv.MorphologyEx(mask, &mask, gocv.MorphClose, kernel)
	gocv.MorphologyEx(mask, &mask, gocv.MorphOpen, kernel)

	return mask
}

// FindByColor locates the plate by segmenting the well palette. The mask is
// dilated until adjacent wells merge into one plate-shaped blob, whose
// min-area rotated rect supplies the corners. Fails when the blob is smaller
// than MinAreaFraction of the frame or its aspect falls outside the expected
// plate window.
func FindByColor(bgr gocv.Mat, p Params) (CornerSet, bool) {
	mask := wellColorMask(bgr, p)
	defer mask.Close()

	bridge := gocv.GetStructuringElement(gocv.MorphEllipse, image.Point{X: p.BridgeKernel, Y: p.BridgeKernel})
	defer bridge.Close()
	for i := 0; i < p.BridgeIterations; i++ {
		gocv.Dilate(mask, &mask, bridge)
	}

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return CornerSet{}, false
	}

	largestIdx := 0
	var maxArea float64
	for i := 0; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > maxArea {
			maxArea = area
			largestIdx = i
		}
	}

	imageArea := float64(bgr.Cols() * bgr.Rows())
	if maxArea < imageArea*p.MinAreaFraction {
		return CornerSet{}, false
	}

	hull := geometry.ConvexHull(contourPoints(contours.At(largestIdx)))
	rect := geometry.MinAreaRect(hull)

	aspect := rect.AspectRatio()
	if aspect < p.AspectMin || aspect > p.AspectMax {
		return CornerSet{}, false
	}

	cs := orderedCornerSet(rect.Corners[:])
	return cs, cs.Valid
}

// FindByEdges locates the plate from edge geometry: Canny edges are dilated
// to close gaps, external contours are tried largest-first for a convex
// quadrilateral with a plausible aspect ratio, and the largest contour's
// rotated rect serves as a looser-tolerance fallback.
func FindByEdges(gray gocv.Mat, p Params) (CornerSet, bool) {
	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(gray, &edges, float32(p.CannyLow), float32(p.CannyHigh))

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{X: p.EdgeDilateKernel, Y: p.EdgeDilateKernel})
	defer kernel.Close()
	for i := 0; i < p.EdgeDilateIter; i++ {
		gocv.Dilate(edges, &edges, kernel)
	}

	contours := gocv.FindContours(edges, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()
	if contours.Size() == 0 {
		return CornerSet{}, false
	}

	type candidate struct {
		idx  int
		area float64
	}
	ranked := make([]candidate, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		ranked = append(ranked, candidate{idx: i, area: gocv.ContourArea(contours.At(i))})
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].area > ranked[j].area })

	imageArea := float64(gray.Cols() * gray.Rows())
	for _, c := range ranked {
		if c.area < imageArea*p.MinAreaFraction || c.area > imageArea*p.MaxAreaFraction {
			continue
		}

		contour := contours.At(c.idx)
		epsilon := p.ApproxEpsilonFrac * gocv.ArcLength(contour, true)
		approx := gocv.ApproxPolyDP(contour, epsilon, true)

		if approx.Size() == 4 {
			pts := contourPoints(approx)
			bbox := geometry.BoundingBox(pts)
			aspect := 0.0
			if bbox.Height > 0 {
				aspect = bbox.Width / bbox.Height
			}
			if geometry.IsConvex(pts) && aspect > p.AspectMin && aspect < p.AspectMax {
				cs := orderedCornerSet(pts)
				approx.Close()
				if cs.Valid {
					return cs, true
				}
				continue
			}
		}
		approx.Close()
	}

	// Fallback: rotated rect of the single largest contour, looser aspect.
	rect := geometry.MinAreaRect(contourPoints(contours.At(ranked[0].idx)))
	aspect := rect.AspectRatio()
	if aspect > p.LooseAspectMin && aspect < p.LooseAspectMax {
		cs := orderedCornerSet(rect.Corners[:])
		return cs, cs.Valid
	}

	return CornerSet{}, false
}

// FallbackCorners returns the fixed-margin crop used when both localization
// strategies fail. Always valid.
func FallbackCorners(width, height int, p Params) CornerSet {
	mx := float64(width) * p.FallbackMarginFrac
	my := float64(height) * p.FallbackMarginFrac
	return NewCornerSet([4]geometry.Point2D{
		{X: mx, Y: my},
		{X: float64(width) - mx, Y: my},
		{X: float64(width) - mx, Y: float64(height) - my},
		{X: mx, Y: float64(height) - my},
	})
}

// contourPoints converts a gocv point vector into geometry points.
func contourPoints(pv gocv.PointVector) []geometry.Point2D {
	pts := make([]geometry.Point2D, pv.Size())
	for i := 0; i < pv.Size(); i++ {
		p := pv.At(i)
		pts[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
	}
	return pts
}
