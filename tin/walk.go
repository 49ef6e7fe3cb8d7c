package tin

import (
	"fmt"

	"github.com/iceisfun/gotin/quadedge"
)

// xorshift advances a pseudo-random stream. The stream only decides which
// of two candidate sides is tested first, so a simple xorshift generator is
// sufficient; a fixed seed keeps builds deterministic.
func xorshift(state *uint64) uint64 {
	x := *state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	*state = x
	return x
}

// walk performs the stochastic Lawson walk from the starting edge toward
// (x, y).
//
// The returned edge e satisfies one of:
//   - (x, y) lies in the left face of e, a real triangle, or
//   - the left face of e is a ghost triangle, meaning (x, y) lies outside
//     the hull and the subtending hull edge is dual(e).
//
// Callers distinguish the two by testing e.Forward().Destination() for the
// ghost. Testing the two candidate sides of each triangle in pseudo-random
// order prevents the cyclic transfers that a fixed order can fall into on
// degenerate meshes.
func (t *IncrementalTin) walk(start quadedge.Edge, x, y float64) (quadedge.Edge, error) {
	return t.walkWith(&t.walkState, start, x, y)
}

// walkWith is the walk with an external random stream, so that navigators
// sharing a locked triangulation across goroutines do not contend on the
// triangulation's own stream.
func (t *IncrementalTin) walkWith(state *uint64, start quadedge.Edge, x, y float64) (quadedge.Edge, error) {
	if start.IsNil() {
		return quadedge.NilEdge, fmt.Errorf("%w: walk from nil edge", ErrInternalInvariant)
	}
	e := start
	// Normalize away ghost pairs so the walk begins on an edge with two
	// real endpoints.
	if e.Origin() == nil {
		e = e.Forward()
	}
	if e.Destination() == nil {
		e = e.Reverse()
	}
	if e.Origin() == nil || e.Destination() == nil {
		return quadedge.NilEdge, fmt.Errorf("%w: walk start has no real pair", ErrInternalInvariant)
	}

	a := e.Origin()
	b := e.Destination()
	if t.geo.HalfPlane(a.X, a.Y, b.X, b.Y, x, y) < 0 {
		e = e.Dual()
	}

	for step := 0; step < t.cfg.walkIterationCap; step++ {
		f := e.Forward()
		apex := f.Destination()
		if apex == nil {
			// The left face is a ghost triangle: the point is outside the
			// hull as seen from this hull edge. Find the hull edge that
			// subtends the point and return its exterior side.
			h, err := t.findAssociatedPerimeterEdge(e.Dual(), x, y)
			if err != nil {
				return quadedge.NilEdge, err
			}
			return h.Dual(), nil
		}

		r := f.Forward()
		first, second := f, r
		if xorshift(state)&1 == 0 {
			first, second = r, f
		}

		fo := first.Origin()
		fd := first.Destination()
		if t.geo.HalfPlane(fo.X, fo.Y, fd.X, fd.Y, x, y) < 0 {
			e = first.Dual()
			continue
		}
		so := second.Origin()
		sd := second.Destination()
		if t.geo.HalfPlane(so.X, so.Y, sd.X, sd.Y, x, y) < 0 {
			e = second.Dual()
			continue
		}
		return e, nil
	}
	return quadedge.NilEdge, fmt.Errorf("%w: point location exceeded %d transfers",
		ErrInternalInvariant, t.cfg.walkIterationCap)
}

// findAssociatedPerimeterEdge walks along the hull, starting at hull edge h,
// until (x, y) projects onto the current hull segment. The direction of
// travel follows the sign of the dot product with the hull tangent. A
// direction reversal means the point sits in the wedge of a hull corner; the
// current edge subtends it.
func (t *IncrementalTin) findAssociatedPerimeterEdge(h quadedge.Edge, x, y float64) (quadedge.Edge, error) {
	lastStep := 0
	for step := 0; step < t.cfg.walkIterationCap; step++ {
		a := h.Origin()
		b := h.Destination()
		if a == nil || b == nil {
			return quadedge.NilEdge, fmt.Errorf("%w: ghost pair on perimeter", ErrInternalInvariant)
		}
		d := t.geo.Direction(a.X, a.Y, b.X, b.Y, x, y)
		if d < 0 {
			if lastStep == 1 {
				return h, nil
			}
			h = t.prevHullEdge(h)
			lastStep = -1
			continue
		}
		len2 := (b.X-a.X)*(b.X-a.X) + (b.Y-a.Y)*(b.Y-a.Y)
		if d > len2 {
			if lastStep == -1 {
				return h, nil
			}
			h = t.nextHullEdge(h)
			lastStep = 1
			continue
		}
		return h, nil
	}
	return quadedge.NilEdge, fmt.Errorf("%w: perimeter association exceeded %d steps",
		ErrInternalInvariant, t.cfg.walkIterationCap)
}

// nextHullEdge returns the hull edge following h counter-clockwise around
// the hull. The chain runs through h's ghost triangle: forward, forward,
// dual, reverse yields the exterior side of the next hull edge.
func (t *IncrementalTin) nextHullEdge(h quadedge.Edge) quadedge.Edge {
	return h.Dual().Forward().Forward().Dual().Reverse().Dual()
}

// prevHullEdge returns the hull edge preceding h.
func (t *IncrementalTin) prevHullEdge(h quadedge.Edge) quadedge.Edge {
	return h.Dual().Forward().Dual().Forward().Dual()
}
