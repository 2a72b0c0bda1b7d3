package plate

import (
	"image"
	"image/color"
	"testing"

	"gocv.io/x/gocv"

	"plate-reader/pkg/geometry"
)

func TestRectify_FullFrame(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 10, 10, 0), 200, 300, gocv.MatTypeCV8UC3)
	defer src.Close()
	// Bright patch in the top-left quadrant to track through the warp.
	gocv.Rectangle(&src, image.Rect(20, 20, 60, 60), color.RGBA{R: 250, G: 250, B: 250, A: 255}, -1)

	corners := NewCornerSet([4]geometry.Point2D{
		{0, 0}, {299, 0}, {299, 199}, {0, 199},
	})

	out, err := Rectify(src, corners, 150, 100)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	defer out.Close()

	if out.Cols() != 150 || out.Rows() != 100 {
		t.Fatalf("output is %dx%d, expected 150x100", out.Cols(), out.Rows())
	}

	// The patch halves with the frame: its center (40,40) maps near (20,20).
	if v := out.GetUCharAt(20, 20*3); v < 200 {
		t.Errorf("patch center value = %d, expected bright", v)
	}
	if v := out.GetUCharAt(80, 120*3); v > 50 {
		t.Errorf("background value = %d, expected dark", v)
	}
}

func TestRectify_CropsToCorners(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 200, 300, gocv.MatTypeCV8UC3)
	defer src.Close()
	gocv.Rectangle(&src, image.Rect(100, 50, 200, 150), color.RGBA{R: 250, G: 250, B: 250, A: 255}, -1)

	// Corners tight on the bright region: the output should be all bright.
	corners := NewCornerSet([4]geometry.Point2D{
		{100, 50}, {199, 50}, {199, 149}, {100, 149},
	})

	out, err := Rectify(src, corners, 80, 80)
	if err != nil {
		t.Fatalf("Rectify failed: %v", err)
	}
	defer out.Close()

	if v := out.GetUCharAt(40, 40*3); v < 200 {
		t.Errorf("center value = %d, expected bright", v)
	}
	if v := out.GetUCharAt(5, 5*3); v < 200 {
		t.Errorf("near-corner value = %d, expected bright", v)
	}
}

func TestRectify_InvalidCorners(t *testing.T) {
	src := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 100, 100, gocv.MatTypeCV8UC3)
	defer src.Close()

	if _, err := Rectify(src, CornerSet{}, 50, 50); err == nil {
		t.Error("expected error for invalid corner set")
	}

	// Degenerate corners make the homography singular.
	bad := NewCornerSet([4]geometry.Point2D{{0, 0}, {1, 1}, {2, 2}, {3, 3}})
	if _, err := Rectify(src, bad, 50, 50); err == nil {
		t.Error("expected error for collinear corners")
	}
}
