package voronoi

import (
	"math"

	"github.com/iceisfun/gotin/types"
)

// Cohen-Sutherland outcodes. Trivial accept/reject decisions use outcodes;
// segments that survive are clipped parametrically Liang-Barsky style.
const (
	outLeft = 1 << iota
	outRight
	outBottom
	outTop
)

func outcode(r types.Rect, x, y float64) int {
	code := 0
	if x < r.Min.X {
		code |= outLeft
	} else if x > r.Max.X {
		code |= outRight
	}
	if y < r.Min.Y {
		code |= outBottom
	} else if y > r.Max.Y {
		code |= outTop
	}
	return code
}

// clipSegment clips segment (p, q) to the rectangle, returning the clip
// parameters t0 <= t1 in [0, 1] and whether any part survives.
func clipSegment(r types.Rect, p, q types.Point) (float64, float64, bool) {
	c0 := outcode(r, p.X, p.Y)
	c1 := outcode(r, q.X, q.Y)
	if c0|c1 == 0 {
		return 0, 1, true
	}
	if c0&c1 != 0 {
		return 0, 0, false
	}

	dx := q.X - p.X
	dy := q.Y - p.Y
	t0, t1 := 0.0, 1.0
	// Each boundary contributes a constraint t*P <= Q.
	clip := func(P, Q float64) bool {
		if P == 0 {
			return Q >= 0
		}
		t := Q / P
		if P > 0 {
			if t < t0 {
				return false
			}
			if t < t1 {
				t1 = t
			}
		} else {
			if t > t1 {
				return false
			}
			if t > t0 {
				t0 = t
			}
		}
		return true
	}

	if !clip(-dx, p.X-r.Min.X) ||
		!clip(dx, r.Max.X-p.X) ||
		!clip(-dy, p.Y-r.Min.Y) ||
		!clip(dy, r.Max.Y-p.Y) {
		return 0, 0, false
	}
	return t0, t1, true
}

// perimeterParameter encodes a boundary point as a scalar in [0, 4): the
// integer part selects the side (0 bottom, 1 right, 2 top, 3 left, counter-
// clockwise) and the fraction the position along it.
func perimeterParameter(r types.Rect, x, y float64) float64 {
	w := r.Width()
	h := r.Height()
	if w <= 0 || h <= 0 {
		return 0
	}
	const snap = 1e-9
	switch {
	case math.Abs(y-r.Min.Y) <= snap*h:
		return 0 + clamp01((x-r.Min.X)/w)
	case math.Abs(x-r.Max.X) <= snap*w:
		return 1 + clamp01((y-r.Min.Y)/h)
	case math.Abs(y-r.Max.Y) <= snap*h:
		return 2 + clamp01((r.Max.X-x)/w)
	default:
		return 3 + clamp01((r.Max.Y-y)/h)
	}
}

// perimeterPoint inverts perimeterParameter.
func perimeterPoint(r types.Rect, param float64) types.Point {
	param = math.Mod(param, 4)
	if param < 0 {
		param += 4
	}
	side := int(param)
	f := param - float64(side)
	switch side {
	case 0:
		return types.Point{X: r.Min.X + f*r.Width(), Y: r.Min.Y}
	case 1:
		return types.Point{X: r.Max.X, Y: r.Min.Y + f*r.Height()}
	case 2:
		return types.Point{X: r.Max.X - f*r.Width(), Y: r.Max.Y}
	default:
		return types.Point{X: r.Min.X, Y: r.Max.Y - f*r.Height()}
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// clipRing clips a counter-clockwise ring to the rectangle. Points where
// the ring crosses the boundary become synthetic perimeter vertices whose Z
// is the perimeter parameter; the gap between an exit and the following
// entry is closed along the boundary, inserting rectangle corners as
// needed.
func clipRing(r types.Rect, ring []types.Point) []*types.Vertex {
	n := len(ring)
	if n < 3 {
		return nil
	}

	var out []*types.Vertex
	pendingExit := math.NaN()

	appendInterior := func(p types.Point) {
		out = append(out, newCellVertex(p.X, p.Y, math.NaN()))
	}
	appendBoundary := func(p types.Point, param float64) {
		out = append(out, newCellVertex(p.X, p.Y, param))
	}
	closeGap := func(entryParam float64) {
		if math.IsNaN(pendingExit) {
			return
		}
		// Walk the boundary counter-clockwise from the exit to the entry,
		// dropping a synthetic vertex on every corner passed.
		span := entryParam - pendingExit
		if span < 0 {
			span += 4
		}
		corner := math.Floor(pendingExit) + 1
		for off := corner - pendingExit; off < span; off++ {
			param := math.Mod(corner, 4)
			p := perimeterPoint(r, param)
			appendBoundary(p, param)
			corner++
		}
		pendingExit = math.NaN()
	}

	for i := 0; i < n; i++ {
		p := ring[i]
		q := ring[(i+1)%n]
		t0, t1, ok := clipSegment(r, p, q)
		if !ok {
			continue
		}
		enter := types.Point{X: p.X + t0*(q.X-p.X), Y: p.Y + t0*(q.Y-p.Y)}
		exit := types.Point{X: p.X + t1*(q.X-p.X), Y: p.Y + t1*(q.Y-p.Y)}

		if t0 > 0 {
			param := perimeterParameter(r, enter.X, enter.Y)
			closeGap(param)
			appendBoundary(enter, param)
		} else {
			appendInterior(enter)
		}
		if t1 < 1 {
			pendingExit = perimeterParameter(r, exit.X, exit.Y)
			appendBoundary(exit, pendingExit)
		}
	}
	if !math.IsNaN(pendingExit) && len(out) > 0 {
		// Ring closes outside the rectangle: finish the boundary walk back
		// to the first emitted vertex.
		first := out[0]
		if !math.IsNaN(first.Z) {
			closeGap(first.Z)
		}
	}
	return dedupeRing(out)
}

func dedupeRing(ring []*types.Vertex) []*types.Vertex {
	if len(ring) < 2 {
		return ring
	}
	const eps = 1e-12
	var out []*types.Vertex
	for _, v := range ring {
		if len(out) > 0 {
			last := out[len(out)-1]
			if math.Abs(last.X-v.X) <= eps && math.Abs(last.Y-v.Y) <= eps {
				continue
			}
		}
		out = append(out, v)
	}
	for len(out) > 1 {
		first := out[0]
		last := out[len(out)-1]
		if math.Abs(first.X-last.X) <= eps && math.Abs(first.Y-last.Y) <= eps {
			out = out[:len(out)-1]
			continue
		}
		break
	}
	return out
}

func newCellVertex(x, y, param float64) *types.Vertex {
	v := types.NewVertex(x, y, param, -1)
	v.SetSynthetic(true)
	return v
}
