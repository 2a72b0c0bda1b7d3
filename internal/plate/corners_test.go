package plate

import (
	"testing"

	"plate-reader/pkg/geometry"
)

func TestOrderCorners(t *testing.T) {
	want := []geometry.Point2D{{10, 10}, {90, 12}, {88, 70}, {8, 72}}

	// Every cyclic shuffle of the quad must order identically.
	permutations := [][]geometry.Point2D{
		{want[0], want[1], want[2], want[3]},
		{want[2], want[0], want[3], want[1]},
		{want[3], want[2], want[1], want[0]},
		{want[1], want[3], want[0], want[2]},
	}

	for i, input := range permutations {
		got := OrderCorners(input)
		if len(got) != 4 {
			t.Fatalf("permutation %d: got %d points", i, len(got))
		}
		for j := range want {
			if got[j] != want[j] {
				t.Errorf("permutation %d: corner %d = %v, expected %v", i, j, got[j], want[j])
			}
		}
	}
}

func TestOrderCorners_Idempotent(t *testing.T) {
	ordered := OrderCorners([]geometry.Point2D{{90, 12}, {8, 72}, {10, 10}, {88, 70}})
	again := OrderCorners(ordered)
	for i := range ordered {
		if again[i] != ordered[i] {
			t.Errorf("corner %d moved from %v to %v on reorder", i, ordered[i], again[i])
		}
	}
}

func TestOrderCorners_Degenerate(t *testing.T) {
	// Three points above the centroid: no 2/2 split, input comes back as-is.
	input := []geometry.Point2D{{0, 0}, {50, 0}, {100, 0}, {50, 90}}
	got := OrderCorners(input)
	for i := range input {
		if got[i] != input[i] {
			t.Fatalf("degenerate input was reordered: %v", got)
		}
	}

	// Wrong cardinality likewise.
	three := []geometry.Point2D{{0, 0}, {1, 0}, {0, 1}}
	if got := OrderCorners(three); len(got) != 3 {
		t.Errorf("3-point input returned %d points", len(got))
	}
}

func TestOrderedCornerSet(t *testing.T) {
	cs := orderedCornerSet([]geometry.Point2D{{90, 12}, {8, 72}, {10, 10}, {88, 70}})
	if !cs.Valid {
		t.Fatal("expected valid corner set")
	}
	if cs.TL != (geometry.Point2D{10, 10}) || cs.BR != (geometry.Point2D{88, 70}) {
		t.Errorf("TL/BR = %v/%v", cs.TL, cs.BR)
	}

	// Degenerate quads produce an invalid set, not a bogus ordering.
	cs = orderedCornerSet([]geometry.Point2D{{0, 0}, {50, 0}, {100, 0}, {50, 90}})
	if cs.Valid {
		t.Error("degenerate quad produced a valid corner set")
	}
}

func TestCornerSet_Points(t *testing.T) {
	cs := NewCornerSet([4]geometry.Point2D{{1, 2}, {3, 2}, {3, 4}, {1, 4}})
	pts := cs.Points()
	if pts[0] != cs.TL || pts[1] != cs.TR || pts[2] != cs.BR || pts[3] != cs.BL {
		t.Errorf("Points() order wrong: %v", pts)
	}
}
