package plate

import (
	"image"
	"image/color"
	"math"
	"testing"

	"gocv.io/x/gocv"

	"plate-reader/pkg/geometry"
)

// hotPink sits in the high pink hue band (H around 165 in OpenCV scale).
var hotPink = color.RGBA{R: 255, G: 105, B: 180, A: 255}

func TestFindByColor_PinkPlate(t *testing.T) {
	// Dark scene with a pink plate-shaped region covering half the frame at
	// the plate aspect.
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), 400, 600, gocv.MatTypeCV8UC3)
	defer img.Close()

	plateRect := image.Rect(120, 110, 480, 350) // 360x240, aspect 1.5
	gocv.Rectangle(&img, plateRect, hotPink, -1)

	cs, ok := FindByColor(img, DefaultParams())
	if !ok {
		t.Fatal("plate not found")
	}

	// Dilation grows the blob outward, so corners land outside the drawn
	// rectangle but near it.
	const tolerance = 60
	wantCorners := []geometry.Point2D{
		{120, 110}, {480, 110}, {480, 350}, {120, 350},
	}
	for i, got := range cs.Points() {
		if got.Distance(wantCorners[i]) > tolerance {
			t.Errorf("corner %d = %v, expected near %v", i, got, wantCorners[i])
		}
	}
}

func TestFindByColor_NoPlate(t *testing.T) {
	// Uniform gray has no saturation, so the well palette mask is empty.
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 128, 128, 0), 400, 600, gocv.MatTypeCV8UC3)
	defer img.Close()

	if _, ok := FindByColor(img, DefaultParams()); ok {
		t.Error("found a plate in a featureless frame")
	}
}

func TestFindByColor_TooSmall(t *testing.T) {
	// A pink blob under the area gate must be rejected.
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), 400, 600, gocv.MatTypeCV8UC3)
	defer img.Close()

	gocv.Rectangle(&img, image.Rect(280, 190, 320, 215), hotPink, -1)

	if _, ok := FindByColor(img, DefaultParams()); ok {
		t.Error("accepted a blob below the minimum area fraction")
	}
}

func TestFindByEdges_BrightPlate(t *testing.T) {
	// Bright plate on a dark background, found from its edge contour.
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(20, 0, 0, 0), 400, 600, gocv.MatTypeCV8UC1)
	defer img.Close()

	plateRect := image.Rect(100, 100, 490, 360) // 390x260, aspect 1.5
	gocv.Rectangle(&img, plateRect, color.RGBA{R: 200, G: 200, B: 200, A: 255}, -1)

	cs, ok := FindByEdges(img, DefaultParams())
	if !ok {
		t.Fatal("plate not found")
	}

	const tolerance = 20
	wantCorners := []geometry.Point2D{
		{100, 100}, {490, 100}, {490, 360}, {100, 360},
	}
	for i, got := range cs.Points() {
		if got.Distance(wantCorners[i]) > tolerance {
			t.Errorf("corner %d = %v, expected near %v", i, got, wantCorners[i])
		}
	}
}

func TestFindByEdges_NoEdges(t *testing.T) {
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(128, 0, 0, 0), 400, 600, gocv.MatTypeCV8UC1)
	defer img.Close()

	if _, ok := FindByEdges(img, DefaultParams()); ok {
		t.Error("found a plate in a uniform frame")
	}
}

func TestFallbackCorners(t *testing.T) {
	p := DefaultParams()
	cs := FallbackCorners(1000, 600, p)
	if !cs.Valid {
		t.Fatal("fallback corners must always be valid")
	}

	mx := 1000 * p.FallbackMarginFrac
	my := 600 * p.FallbackMarginFrac
	if math.Abs(cs.TL.X-mx) > 1e-9 || math.Abs(cs.TL.Y-my) > 1e-9 {
		t.Errorf("TL = %v, expected (%g, %g)", cs.TL, mx, my)
	}
	if math.Abs(cs.BR.X-(1000-mx)) > 1e-9 || math.Abs(cs.BR.Y-(600-my)) > 1e-9 {
		t.Errorf("BR = %v, expected (%g, %g)", cs.BR, 1000-mx, 600-my)
	}
}
