package plate

import (
	"fmt"
	"image"

	"plate-reader/pkg/geometry"

	"gocv.io/x/gocv"
)

// Rectify warps the source image so the plate corners map onto the corners of
// a dstWidth x dstHeight frame, TL to (0,0) through BL to (0, h-1). The
// homography is solved in Go and handed to the warp as a 3x3 matrix. Fails
// without partial output on invalid dimensions, an invalid corner set, or
// degenerate (collinear) corners.
func Rectify(src gocv.Mat, corners CornerSet, dstWidth, dstHeight int) (gocv.Mat, error) {
	if src.Empty() {
		return gocv.Mat{}, fmt.Errorf("empty source image")
	}
	if dstWidth <= 0 || dstHeight <= 0 {
		return gocv.Mat{}, fmt.Errorf("invalid destination size %dx%d", dstWidth, dstHeight)
	}
	if !corners.Valid {
		return gocv.Mat{}, fmt.Errorf("invalid corner set")
	}

	dst := [4]geometry.Point2D{
		{X: 0, Y: 0},
		{X: float64(dstWidth - 1), Y: 0},
		{X: float64(dstWidth - 1), Y: float64(dstHeight - 1)},
		{X: 0, Y: float64(dstHeight - 1)},
	}

	h, err := geometry.ComputeHomography(corners.Points(), dst)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("computing homography: %w", err)
	}

	m := homographyToMat(h)
	defer m.Close()

	warped := gocv.NewMat()
	gocv.WarpPerspective(src, &warped, m, image.Point{X: dstWidth, Y: dstHeight})
	return warped, nil
}

// homographyToMat loads a geometry.Homography into a 3x3 CV64F Mat.
func homographyToMat(h geometry.Homography) gocv.Mat {
	m := gocv.NewMatWithSize(3, 3, gocv.MatTypeCV64F)
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			m.SetDoubleAt(r, c, h.M[r][c])
		}
	}
	return m
}
