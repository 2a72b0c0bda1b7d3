package wells

import (
	"math"
	"testing"
)

// gridCircles builds an ideal 12x8 set of detections with the given spacing.
func gridCircles(originX, originY, stepX, stepY, radius float64) []Circle {
	var circles []Circle
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			circles = append(circles, Circle{
				X:      originX + float64(col)*stepX,
				Y:      originY + float64(row)*stepY,
				Radius: radius,
			})
		}
	}
	return circles
}

func TestNaiveGrid(t *testing.T) {
	g := NaiveGrid(1200, 800, 30)

	if len(g.Slots) != GridRows*GridCols {
		t.Fatalf("%d slots, expected %d", len(g.Slots), GridRows*GridCols)
	}
	if g.StepX != 100 || g.StepY != 100 {
		t.Errorf("steps (%g, %g), expected (100, 100)", g.StepX, g.StepY)
	}

	first := g.At(0, 0)
	if first.Center.X != 50 || first.Center.Y != 50 {
		t.Errorf("slot (0,0) at %v, expected (50, 50)", first.Center)
	}
	last := g.At(GridRows-1, GridCols-1)
	if last.Center.X != 1150 || last.Center.Y != 750 {
		t.Errorf("slot (7,11) at %v, expected (1150, 750)", last.Center)
	}
	if g.DetectedCount() != 0 {
		t.Errorf("naive grid reports %d detected slots", g.DetectedCount())
	}
	for _, s := range g.Slots {
		if s.Radius != 30 {
			t.Errorf("slot (%d,%d) radius %g, expected 30", s.Row, s.Col, s.Radius)
			break
		}
	}
}

func TestFitGrid_FullDetection(t *testing.T) {
	circles := gridCircles(50, 50, 100, 100, 30)
	g := FitGrid(circles, 1200, 800, 30)

	if math.Abs(g.StepX-100) > 2 || math.Abs(g.StepY-100) > 2 {
		t.Errorf("steps (%g, %g), expected near (100, 100)", g.StepX, g.StepY)
	}
	if math.Abs(g.OriginX-50) > 3 || math.Abs(g.OriginY-50) > 3 {
		t.Errorf("origin (%g, %g), expected near (50, 50)", g.OriginX, g.OriginY)
	}
	if got := g.DetectedCount(); got != GridRows*GridCols {
		t.Errorf("%d slots detected, expected %d", got, GridRows*GridCols)
	}
}

func TestFitGrid_InterpolatesMissingSlots(t *testing.T) {
	full := gridCircles(50, 50, 100, 100, 30)

	// Drop a scattering of wells; the fit must survive and fill the gaps.
	dropped := map[int]bool{0: true, 13: true, 27: true, 40: true, 55: true, 61: true, 80: true, 95: true}
	var partial []Circle
	for i, c := range full {
		if !dropped[i] {
			partial = append(partial, c)
		}
	}

	g := FitGrid(partial, 1200, 800, 30)

	if got := g.DetectedCount(); got != len(partial) {
		t.Errorf("%d slots detected, expected %d", got, len(partial))
	}

	for key := range dropped {
		row, col := key/GridCols, key%GridCols
		s := g.At(row, col)
		if s.Detected {
			t.Errorf("dropped slot (%d,%d) claims a detection", row, col)
		}
		wantX := 50 + float64(col)*100
		wantY := 50 + float64(row)*100
		if math.Abs(s.Center.X-wantX) > 5 || math.Abs(s.Center.Y-wantY) > 5 {
			t.Errorf("slot (%d,%d) interpolated at %v, expected near (%g, %g)",
				row, col, s.Center, wantX, wantY)
		}
		if s.Radius != 30 {
			t.Errorf("slot (%d,%d) radius %g, expected the median 30", row, col, s.Radius)
		}
	}
}

func TestFitGrid_TooFewCircles(t *testing.T) {
	circles := gridCircles(50, 50, 100, 100, 30)[:MinCirclesForGrid-1]
	g := FitGrid(circles, 1200, 800, 30)

	// Falls back to the naive layout: nothing detected, even spacing.
	if g.DetectedCount() != 0 {
		t.Errorf("fallback grid reports %d detected slots", g.DetectedCount())
	}
	if g.StepX != 100 || g.StepY != 100 {
		t.Errorf("fallback steps (%g, %g), expected (100, 100)", g.StepX, g.StepY)
	}
}

func TestFitGrid_OffsetGrid(t *testing.T) {
	// The grid does not have to start at the cell center: a shifted but
	// regular layout must be recovered, not snapped to the naive origin.
	circles := gridCircles(80, 65, 95, 92, 28)
	g := FitGrid(circles, 1200, 800, 28)

	if math.Abs(g.StepX-95) > 3 || math.Abs(g.StepY-92) > 3 {
		t.Errorf("steps (%g, %g), expected near (95, 92)", g.StepX, g.StepY)
	}
	if math.Abs(g.OriginX-80) > 5 || math.Abs(g.OriginY-65) > 5 {
		t.Errorf("origin (%g, %g), expected near (80, 65)", g.OriginX, g.OriginY)
	}
	if got := g.DetectedCount(); got != GridRows*GridCols {
		t.Errorf("%d slots detected, expected %d", got, GridRows*GridCols)
	}
}
