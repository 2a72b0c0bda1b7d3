package wells

import (
	"math"
	"sort"

	"plate-reader/pkg/geometry"

	"gonum.org/v1/gonum/stat"
)

// MinCirclesForGrid is the detection count below which grid fitting falls
// back to the naive evenly-spaced layout.
const MinCirclesForGrid = 20

// GridSlot is one well position in the fitted 12x8 layout. Detected slots
// carry the matched circle's geometry; the rest are interpolated from the
// grid parameters.
type GridSlot struct {
	Row, Col int
	Center   geometry.Point2D
	Radius   float64
	Detected bool
}

// Grid is a fitted well layout: origin is the center of well (0,0), steps
// are the center-to-center spacing per axis.
type Grid struct {
	Slots            []GridSlot // row-major, GridRows x GridCols
	OriginX, OriginY float64
	StepX, StepY     float64
}

// At returns the slot for the given row and column.
func (g Grid) At(row, col int) GridSlot {
	return g.Slots[row*GridCols+col]
}

// DetectedCount returns how many slots were matched to detected circles.
func (g Grid) DetectedCount() int {
	n := 0
	for _, s := range g.Slots {
		if s.Detected {
			n++
		}
	}
	return n
}

// NaiveGrid lays out the 12x8 grid evenly over the image, one cell per well,
// with every slot interpolated.
func NaiveGrid(width, height int, radius float64) Grid {
	stepX := float64(width) / GridCols
	stepY := float64(height) / GridRows
	g := Grid{
		OriginX: stepX / 2,
		OriginY: stepY / 2,
		StepX:   stepX,
		StepY:   stepY,
	}
	g.Slots = interpolateSlots(g, nil, radius)
	return g
}

// FitGrid fits the 12x8 grid to the detected circles: step sizes are
// estimated from pairwise distances between circles sharing a row or column,
// the origin is chosen by scoring candidate offsets against the detections,
// and the parameters are refined by regressing matched centers on their grid
// indices. Slots with no matched circle are filled by interpolation. With
// fewer than MinCirclesForGrid detections the naive layout is returned.
func FitGrid(circles []Circle, width, height int, medianRadius float64) Grid {
	if len(circles) < MinCirclesForGrid {
		return NaiveGrid(width, height, medianRadius)
	}

	expectedSX := float64(width) / GridCols
	expectedSY := float64(height) / GridRows

	stepX := estimateStep(circles, true, expectedSX, expectedSY*0.4)
	if stepX == 0 {
		stepX = expectedSX
	}
	stepY := estimateStep(circles, false, expectedSY, expectedSX*0.4)
	if stepY == 0 {
		stepY = expectedSY
	}

	originX, originY := searchOrigin(circles, stepX, stepY, expectedSX, expectedSY)

	g := Grid{OriginX: originX, OriginY: originY, StepX: stepX, StepY: stepY}
	assigned := assignCircles(circles, g)
	g = refineGrid(g, assigned)

	// Re-assign against the refined parameters before filling gaps.
	assigned = assignCircles(circles, g)
	g.Slots = interpolateSlots(g, assigned, medianRadius)
	return g
}

// estimateStep estimates the grid spacing on one axis from circle pairs that
// roughly share a line on the other axis. Each qualifying pair contributes
// its axis distance divided by the rounded number of steps it spans; the
// median of those unit distances is the estimate. Returns 0 when fewer than
// 5 pairs qualify.
func estimateStep(circles []Circle, xAxis bool, expectedStep, maxCrossDist float64) float64 {
	var unitDists []float64
	for i := 0; i < len(circles); i++ {
		for j := i + 1; j < len(circles); j++ {
			var axisDiff, crossDiff float64
			if xAxis {
				axisDiff = math.Abs(circles[i].X - circles[j].X)
				crossDiff = math.Abs(circles[i].Y - circles[j].Y)
			} else {
				axisDiff = math.Abs(circles[i].Y - circles[j].Y)
				crossDiff = math.Abs(circles[i].X - circles[j].X)
			}
			if crossDiff > maxCrossDist || axisDiff < expectedStep*0.5 {
				continue
			}

			steps := math.Round(axisDiff / expectedStep)
			if steps < 1 || steps > GridCols {
				continue
			}
			unit := axisDiff / steps
			if unit > 0.7*expectedStep && unit < 1.3*expectedStep {
				unitDists = append(unitDists, unit)
			}
		}
	}

	if len(unitDists) < 5 {
		return 0
	}
	sort.Float64s(unitDists)
	return stat.Quantile(0.5, stat.Empirical, unitDists, nil)
}

// searchOrigin scores candidate grid origins derived from the detections and
// returns the best pair. A candidate origin scores one point per grid slot
// that has a detection within 0.35x the larger step.
func searchOrigin(circles []Circle, stepX, stepY, expectedSX, expectedSY float64) (float64, float64) {
	oxSet := map[float64]struct{}{round1(expectedSX / 2): {}}
	oySet := map[float64]struct{}{round1(expectedSY / 2): {}}

	for _, c := range circles {
		for col := 0; col < GridCols; col++ {
			if ox := c.X - float64(col)*stepX; ox > -stepX*0.3 && ox < stepX*1.5 {
				oxSet[round1(ox)] = struct{}{}
			}
		}
		for row := 0; row < GridRows; row++ {
			if oy := c.Y - float64(row)*stepY; oy > -stepY*0.3 && oy < stepY*1.5 {
				oySet[round1(oy)] = struct{}{}
			}
		}
	}

	bestOX, bestOY := expectedSX/2, expectedSY/2
	bestScore := -1
	for ox := range oxSet {
		for oy := range oySet {
			score := scoreGrid(circles, Grid{OriginX: ox, OriginY: oy, StepX: stepX, StepY: stepY})
			if score > bestScore {
				bestScore = score
				bestOX, bestOY = ox, oy
			}
		}
	}
	return bestOX, bestOY
}

// scoreGrid counts distinct grid slots with a detection close to their
// predicted center.
func scoreGrid(circles []Circle, g Grid) int {
	threshold := math.Max(g.StepX, g.StepY) * 0.35
	used := make(map[int]struct{})
	score := 0
	for _, c := range circles {
		row, col, dist := nearestSlot(c, g)
		if row < 0 || dist > threshold {
			continue
		}
		key := row*GridCols + col
		if _, taken := used[key]; taken {
			continue
		}
		used[key] = struct{}{}
		score++
	}
	return score
}

// nearestSlot rounds a circle center to its nearest grid index. Returns
// row -1 when the index falls outside the layout.
func nearestSlot(c Circle, g Grid) (row, col int, dist float64) {
	col = int(math.Round((c.X - g.OriginX) / g.StepX))
	row = int(math.Round((c.Y - g.OriginY) / g.StepY))
	if row < 0 || row >= GridRows || col < 0 || col >= GridCols {
		return -1, -1, math.Inf(1)
	}
	predicted := geometry.Point2D{
		X: g.OriginX + float64(col)*g.StepX,
		Y: g.OriginY + float64(row)*g.StepY,
	}
	return row, col, c.Center().Distance(predicted)
}

// assignCircles maps each grid slot to its closest qualifying circle.
func assignCircles(circles []Circle, g Grid) map[int]Circle {
	threshold := math.Max(g.StepX, g.StepY) * 0.35
	best := make(map[int]Circle)
	bestDist := make(map[int]float64)

	for _, c := range circles {
		row, col, dist := nearestSlot(c, g)
		if row < 0 || dist > threshold {
			continue
		}
		key := row*GridCols + col
		if prev, ok := bestDist[key]; !ok || dist < prev {
			best[key] = c
			bestDist[key] = dist
		}
	}
	return best
}

// refineGrid re-estimates origin and step per axis by regressing assigned
// circle centers on their grid indices. Axes with fewer than two distinct
// indices keep the searched parameters.
func refineGrid(g Grid, assigned map[int]Circle) Grid {
	var cols, xs, rows, ys []float64
	colSeen := map[int]struct{}{}
	rowSeen := map[int]struct{}{}

	for key, c := range assigned {
		row, col := key/GridCols, key%GridCols
		cols = append(cols, float64(col))
		xs = append(xs, c.X)
		rows = append(rows, float64(row))
		ys = append(ys, c.Y)
		colSeen[col] = struct{}{}
		rowSeen[row] = struct{}{}
	}

	if len(colSeen) >= 2 {
		origin, step := stat.LinearRegression(cols, xs, nil, false)
		if step > g.StepX*0.7 && step < g.StepX*1.3 {
			g.OriginX, g.StepX = origin, step
		}
	}
	if len(rowSeen) >= 2 {
		origin, step := stat.LinearRegression(rows, ys, nil, false)
		if step > g.StepY*0.7 && step < g.StepY*1.3 {
			g.OriginY, g.StepY = origin, step
		}
	}
	return g
}

// interpolateSlots builds the full row-major slot list, using assigned
// circles where available and predicted centers elsewhere.
func interpolateSlots(g Grid, assigned map[int]Circle, radius float64) []GridSlot {
	slots := make([]GridSlot, 0, GridRows*GridCols)
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			key := row*GridCols + col
			if c, ok := assigned[key]; ok {
				slots = append(slots, GridSlot{
					Row: row, Col: col,
					Center:   c.Center(),
					Radius:   c.Radius,
					Detected: true,
				})
				continue
			}
			slots = append(slots, GridSlot{
				Row: row, Col: col,
				Center: geometry.Point2D{
					X: g.OriginX + float64(col)*g.StepX,
					Y: g.OriginY + float64(row)*g.StepY,
				},
				Radius: radius,
			})
		}
	}
	return slots
}

// round1 rounds to one decimal, collapsing near-identical origin candidates.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
