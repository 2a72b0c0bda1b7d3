// Package plate locates the assay plate inside a photograph and rectifies its
// perspective. Two strategies run in order: color segmentation over the well
// palette, then edge geometry; a fixed margin crop backstops both.
package plate

import (
	"plate-reader/pkg/geometry"

	"sort"
)

// CornerSet holds the four corners of a detected plate quadrilateral.
// Once populated through OrderCorners the points are TL, TR, BR, BL.
// Valid distinguishes "no plate found" from a real detection.
type CornerSet struct {
	TL, TR, BR, BL geometry.Point2D
	Valid          bool
}

// NewCornerSet builds a valid CornerSet from four already-ordered points.
func NewCornerSet(pts [4]geometry.Point2D) CornerSet {
	return CornerSet{TL: pts[0], TR: pts[1], BR: pts[2], BL: pts[3], Valid: true}
}

// Points returns the corners in TL, TR, BR, BL order.
func (c CornerSet) Points() [4]geometry.Point2D {
	return [4]geometry.Point2D{c.TL, c.TR, c.BR, c.BL}
}

// OrderCorners canonicalizes four arbitrary points into TL, TR, BR, BL order:
// split into above-centroid and below-centroid pairs, then sort each pair by
// x. If the input is not exactly 4 points, or the centroid split is not 2/2
// (a degenerate quadrilateral), the input is returned unchanged — callers
// must treat that as an ordering failure, not accept the points as ordered.
func OrderCorners(corners []geometry.Point2D) []geometry.Point2D {
	if len(corners) != 4 {
		return corners
	}

	center := geometry.Centroid(corners)

	var top, bottom []geometry.Point2D
	for _, p := range corners {
		if p.Y < center.Y {
			top = append(top, p)
		} else {
			bottom = append(bottom, p)
		}
	}

	if len(top) != 2 || len(bottom) != 2 {
		return corners
	}

	sort.Slice(top, func(i, j int) bool { return top[i].X < top[j].X })
	sort.Slice(bottom, func(i, j int) bool { return bottom[i].X < bottom[j].X })

	return []geometry.Point2D{top[0], top[1], bottom[1], bottom[0]}
}

// orderedCornerSet orders four points and wraps them in a valid CornerSet.
// Returns an invalid set when ordering fails on a degenerate quadrilateral.
func orderedCornerSet(pts []geometry.Point2D) CornerSet {
	ordered := OrderCorners(pts)
	if len(ordered) != 4 {
		return CornerSet{}
	}
	// OrderCorners returns its input unchanged on a degenerate split; detect
	// that by re-running: a proper ordering is a fixed point.
	if !isOrdered(ordered) {
		return CornerSet{}
	}
	return NewCornerSet([4]geometry.Point2D{ordered[0], ordered[1], ordered[2], ordered[3]})
}

// isOrdered reports whether the points split 2/2 around their centroid with
// the TL/TR/BR/BL arrangement OrderCorners produces.
func isOrdered(pts []geometry.Point2D) bool {
	center := geometry.Centroid(pts)
	above := 0
	for _, p := range pts {
		if p.Y < center.Y {
			above++
		}
	}
	if above != 2 {
		return false
	}
	return pts[0].Y < center.Y && pts[1].Y < center.Y &&
		pts[0].X <= pts[1].X && pts[3].X <= pts[2].X
}
