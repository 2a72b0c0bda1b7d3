package geometry

import "math"

// RotatedRect is a rectangle with an arbitrary orientation, described by its
// four corner points and side lengths.
type RotatedRect struct {
	Corners [4]Point2D
	Width   float64
	Height  float64
	Angle   float64 // radians, orientation of the Width side
}

// AspectRatio returns the long-side over short-side ratio.
func (r RotatedRect) AspectRatio() float64 {
	long, short := r.Width, r.Height
	if long < short {
		long, short = short, long
	}
	if short == 0 {
		return 0
	}
	return long / short
}

// MinAreaRect fits the minimum-area rotated rectangle around a point set
// using rotating calipers over the convex hull. Pure Go implementation for
// compatibility across gocv versions. Returns a zero rect for degenerate
// input (fewer than 3 non-collinear points).
func MinAreaRect(points []Point2D) RotatedRect {
	hull := ConvexHull(points)
	if len(hull) < 3 {
		return RotatedRect{}
	}

	best := RotatedRect{}
	bestArea := math.Inf(1)

	// The minimum-area rectangle has one side collinear with a hull edge.
	for i := 0; i < len(hull); i++ {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		angle := math.Atan2(b.Y-a.Y, b.X-a.X)
		cos, sin := math.Cos(-angle), math.Sin(-angle)

		minX, minY := math.Inf(1), math.Inf(1)
		maxX, maxY := math.Inf(-1), math.Inf(-1)
		for _, p := range hull {
			rx := p.X*cos - p.Y*sin
			ry := p.X*sin + p.Y*cos
			minX = math.Min(minX, rx)
			maxX = math.Max(maxX, rx)
			minY = math.Min(minY, ry)
			maxY = math.Max(maxY, ry)
		}

		w := maxX - minX
		h := maxY - minY
		if w*h >= bestArea {
			continue
		}
		bestArea = w * h

		// Rotate the axis-aligned corners back to image space.
		ucos, usin := math.Cos(angle), math.Sin(angle)
		unrotate := func(x, y float64) Point2D {
			return Point2D{X: x*ucos - y*usin, Y: x*usin + y*ucos}
		}
		best = RotatedRect{
			Corners: [4]Point2D{
				unrotate(minX, minY),
				unrotate(maxX, minY),
				unrotate(maxX, maxY),
				unrotate(minX, maxY),
			},
			Width:  w,
			Height: h,
			Angle:  angle,
		}
	}
	return best
}
