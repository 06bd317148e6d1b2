package coverage

import "math"

// Bounds computes the bounding box of a non-empty polygon or path.
func Bounds(points []Point) BoundingBox {
	b := BoundingBox{
		MinX: math.Inf(1),
		MaxX: math.Inf(-1),
		MinY: math.Inf(1),
		MaxY: math.Inf(-1),
	}
	for _, pt := range points {
		b.MinX = math.Min(b.MinX, pt.X)
		b.MaxX = math.Max(b.MaxX, pt.X)
		b.MinY = math.Min(b.MinY, pt.Y)
		b.MaxY = math.Max(b.MaxY, pt.Y)
	}
	return b
}

// sweepLines returns the positions of the parallel lines covering
// [lo, hi]. The last line sits exactly on hi so float drift never drops it.
// A zero-extent axis yields a single line at lo.
func sweepLines(lo, hi float64, subdivisions int) []float64 {
	if hi <= lo {
		return []float64{lo}
	}
	step := (hi - lo) / float64(subdivisions)
	lines := make([]float64, subdivisions+1)
	for i := 0; i < subdivisions; i++ {
		lines[i] = lo + float64(i)*step
	}
	lines[subdivisions] = hi
	return lines
}

// horizontalSweep emits a boustrophedon over the box, one line per Y
// position, starting left to right at MinY.
func horizontalSweep(b BoundingBox, subdivisions int) Path {
	ys := sweepLines(b.MinY, b.MaxY, subdivisions)
	path := make(Path, 0, 2*len(ys))
	for i, y := range ys {
		if i%2 == 0 {
			path = append(path, Point{b.MinX, y}, Point{b.MaxX, y})
		} else {
			path = append(path, Point{b.MaxX, y}, Point{b.MinX, y})
		}
	}
	return path
}

// verticalSweep emits a boustrophedon over the box, one line per X position.
// fromMaxX walks the columns right to left; fromMaxY starts the first column
// at the top.
func verticalSweep(b BoundingBox, subdivisions int, fromMaxX, fromMaxY bool) Path {
	xs := sweepLines(b.MinX, b.MaxX, subdivisions)
	if fromMaxX {
		for i, j := 0, len(xs)-1; i < j; i, j = i+1, j-1 {
			xs[i], xs[j] = xs[j], xs[i]
		}
	}

	path := make(Path, 0, 2*len(xs))
	up := !fromMaxY
	for _, x := range xs {
		if up {
			path = append(path, Point{x, b.MinY}, Point{x, b.MaxY})
		} else {
			path = append(path, Point{x, b.MaxY}, Point{x, b.MinY})
		}
		up = !up
	}
	return path
}

func (p *Planner) crosshatch(b BoundingBox, subdivisions int) Path {
	horizontal := horizontalSweep(b, subdivisions)

	fromMaxX, fromMaxY := false, false
	if p.transit == TransitNearestCorner {
		last := horizontal[len(horizontal)-1]
		fromMaxX = math.Abs(last.X-b.MaxX) < math.Abs(last.X-b.MinX)
		fromMaxY = math.Abs(last.Y-b.MaxY) < math.Abs(last.Y-b.MinY)
	}
	vertical := verticalSweep(b, subdivisions, fromMaxX, fromMaxY)

	path := make(Path, 0, len(horizontal)+len(vertical))
	path = append(path, horizontal...)
	return append(path, vertical...)
}
