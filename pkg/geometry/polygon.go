package geometry

import "sort"

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the hull vertices in counter-clockwise order.
func ConvexHull(points []Point2D) []Point2D {
	if len(points) < 3 {
		return points
	}

	pts := make([]Point2D, len(points))
	copy(pts, points)

	// Pivot: lowest y, leftmost on ties.
	pivotIdx := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[pivotIdx].Y ||
			(pts[i].Y == pts[pivotIdx].Y && pts[i].X < pts[pivotIdx].X) {
			pivotIdx = i
		}
	}
	pts[0], pts[pivotIdx] = pts[pivotIdx], pts[0]
	pivot := pts[0]

	rest := pts[1:]
	sort.Slice(rest, func(i, j int) bool {
		c := cross(pivot, rest[i], rest[j])
		if c != 0 {
			return c > 0
		}
		return distSq(pivot, rest[i]) < distSq(pivot, rest[j])
	})

	hull := []Point2D{pivot}
	for _, p := range rest {
		for len(hull) > 1 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}

// IsConvex returns true if the polygon vertices form a convex polygon.
// The polygon is assumed to be simple (non-self-intersecting).
func IsConvex(polygon []Point2D) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	var sign float64
	for i := 0; i < n; i++ {
		c := cross(polygon[i], polygon[(i+1)%n], polygon[(i+2)%n])
		if c == 0 {
			continue
		}
		if sign == 0 {
			sign = c
		} else if (c > 0) != (sign > 0) {
			return false
		}
	}
	return sign != 0
}

// cross returns the z component of (b-a) x (c-a).
func cross(a, b, c Point2D) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
}

func distSq(a, b Point2D) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx + dy*dy
}
