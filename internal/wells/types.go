// Package wells detects the circular reaction wells of an assay plate as
// sub-pixel circles, using a parameter-swept Hough search with duplicate
// merging and statistical outlier rejection.
package wells

import "plate-reader/pkg/geometry"

// Circle is a detected well in image-pixel coordinates. It carries no
// identity beyond its geometry; grid position is assigned separately by
// FitGrid when a caller wants it.
type Circle struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// Center returns the circle center as a geometry point.
func (c Circle) Center() geometry.Point2D {
	return geometry.Point2D{X: c.X, Y: c.Y}
}
