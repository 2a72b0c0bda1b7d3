package wells

import (
	"image"
	"sort"

	"gocv.io/x/gocv"
)

// DetectMultiPass runs the parameter-swept circle search over a grayscale,
// post-enhancement image. Every blur kernel is crossed with every
// sensitivity threshold; all candidates accumulate into one pool, with an
// early exit once MaxCandidates have been seen to bound latency on noisy
// frames. The pool is then merged and filtered against the median radius.
//
// Merging is a single-pass greedy fold: cluster centers are running pairwise
// averages, so the exact output coordinates depend on sweep order. Treat
// post-merge counts and approximate positions as stable, not exact values.
//
// An empty result means no wells were found; it is not an error.
func DetectMultiPass(gray gocv.Mat, p DetectionParams) []Circle {
	var candidates []Circle

sweep:
	for _, blurSize := range p.BlurSizes {
		blurred := gocv.NewMat()
		gocv.GaussianBlur(gray, &blurred, image.Point{X: blurSize, Y: blurSize}, 2, 2, gocv.BorderDefault)

		for _, sensitivity := range p.Sensitivities {
			candidates = append(candidates, houghPass(blurred, sensitivity, p)...)
			if len(candidates) >= p.MaxCandidates {
				blurred.Close()
				break sweep
			}
		}
		blurred.Close()
	}

	merged := mergeCircles(candidates, p.MinDist*p.MergeFactor)
	return filterByMedianRadius(merged, gray.Cols(), gray.Rows(), p)
}

// DetectSingle runs one Hough pass after a fixed 9x9 blur, with fully
// caller-tunable vote parameters. This is the original single-call detection
// path, kept for callers that sweep parameters themselves. No merging or
// median filtering is applied.
func DetectSingle(gray gocv.Mat, p DetectionParams) []Circle {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: 9, Y: 9}, 2, 2, gocv.BorderDefault)
	return houghPass(blurred, p.Sensitivities[0], p)
}

// houghPass runs one circular-Hough vote at the given sensitivity.
func houghPass(blurred gocv.Mat, sensitivity float64, p DetectionParams) []Circle {
	circles := gocv.NewMat()
	defer circles.Close()

	gocv.HoughCirclesWithParams(blurred, &circles, gocv.HoughGradient,
		p.DP, p.MinDist, p.EdgeThreshold, sensitivity, p.MinRadius, p.MaxRadius)

	if circles.Empty() || circles.Cols() == 0 {
		return nil
	}

	found := make([]Circle, circles.Cols())
	for i := 0; i < circles.Cols(); i++ {
		found[i] = Circle{
			X:      float64(circles.GetFloatAt(0, i*3)),
			Y:      float64(circles.GetFloatAt(0, i*3+1)),
			Radius: float64(circles.GetFloatAt(0, i*3+2)),
		}
	}
	return found
}

// mergeCircles folds candidates whose centers lie within threshold of an
// existing cluster into that cluster by averaging x, y, and radius.
// Candidates with no nearby cluster start a new one.
func mergeCircles(candidates []Circle, threshold float64) []Circle {
	var merged []Circle
	for _, c := range candidates {
		folded := false
		for i := range merged {
			if c.Center().Distance(merged[i].Center()) < threshold {
				merged[i].X = (c.X + merged[i].X) / 2
				merged[i].Y = (c.Y + merged[i].Y) / 2
				merged[i].Radius = (c.Radius + merged[i].Radius) / 2
				folded = true
				break
			}
		}
		if !folded {
			merged = append(merged, c)
		}
	}
	return merged
}

// filterByMedianRadius keeps circles whose radius sits inside the
// multiplicative band around the median and whose center lies at least the
// edge margin inside the frame, rejecting detections the frame would clip.
// Skipped entirely below MinFilterCount circles.
func filterByMedianRadius(circles []Circle, width, height int, p DetectionParams) []Circle {
	if len(circles) < p.MinFilterCount {
		return circles
	}

	median := medianRadius(circles)
	margin := median * p.EdgeMarginFactor

	filtered := circles[:0]
	for _, c := range circles {
		if c.Radius < median*p.RadiusBandLow || c.Radius > median*p.RadiusBandHigh {
			continue
		}
		if c.X <= margin || c.X >= float64(width)-margin ||
			c.Y <= margin || c.Y >= float64(height)-margin {
			continue
		}
		filtered = append(filtered, c)
	}
	return filtered
}

// medianRadius returns the upper-median radius of the set.
func medianRadius(circles []Circle) float64 {
	radii := make([]float64, len(circles))
	for i, c := range circles {
		radii[i] = c.Radius
	}
	sort.Float64s(radii)
	return radii[len(radii)/2]
}
