package tin

import (
	"fmt"
	"math"

	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

// insert places v into the bootstrapped triangulation and returns the
// canonical vertex: v itself, or the existing vertex v merged into when the
// two coincide within the vertex tolerance.
func (t *IncrementalTin) insert(v *types.Vertex) (*types.Vertex, error) {
	e, err := t.walk(t.liveSearchEdge(), v.X, v.Y)
	if err != nil {
		return nil, err
	}

	if dup := t.findCoincident(e, v); dup != nil {
		dup.MergeInto(v)
		t.searchEdge = e
		return dup, nil
	}

	if e.Forward().Destination() == nil {
		err = t.insertExterior(e.Dual(), v)
	} else {
		err = t.insertInterior(e, v)
	}
	if err != nil {
		return nil, err
	}
	t.vertices = append(t.vertices, v)
	t.extendBounds(v)
	return v, nil
}

// findCoincident checks the corners of the located triangle (or the hull
// edge, for an exterior location) against the vertex tolerance.
func (t *IncrementalTin) findCoincident(e quadedge.Edge, v *types.Vertex) *types.Vertex {
	for _, c := range [3]*types.Vertex{e.Origin(), e.Destination(), e.Forward().Destination()} {
		if c != nil && t.geo.VerticesCoincide(c, v.X, v.Y) {
			return c
		}
	}
	return nil
}

// insertInterior splits the triangle left of e = (a, b) into three triangles
// around v and restores the Delaunay criterion by flipping.
//
// A point lying on a hull edge cannot be handled by the one-to-three split
// (the triangle (a, b, v) would be degenerate with no flippable far side),
// so it is routed to the hull-edge split.
func (t *IncrementalTin) insertInterior(e quadedge.Edge, v *types.Vertex) error {
	a := e.Origin()
	b := e.Destination()
	f := e.Forward()
	r := f.Forward()
	c := f.Destination()
	if r.Forward() != e {
		return fmt.Errorf("%w: insertion face is not a triangle at %v", ErrInternalInvariant, e)
	}

	// Route on-edge points to the edge that carries them.
	for _, side := range [3]quadedge.Edge{e, f, r} {
		so := side.Origin()
		sd := side.Destination()
		if math.Abs(t.geo.HalfPlane(so.X, so.Y, sd.X, sd.Y, v.X, v.Y)) <= t.thresholds.HalfPlaneThreshold {
			if side.Dual().Forward().Destination() == nil {
				return t.insertOnHullEdge(side, v)
			}
			if side.IsConstrained() {
				return t.insertOnConstrainedEdge(side, v)
			}
			break
		}
	}

	ea := t.pool.Allocate(a, v)
	eb := t.pool.Allocate(b, v)
	ec := t.pool.Allocate(c, v)

	e.SetForward(eb)
	eb.SetForward(ea.Dual())
	ea.Dual().SetForward(e)

	f.SetForward(ec)
	ec.SetForward(eb.Dual())
	eb.Dual().SetForward(f)

	r.SetForward(ea)
	ea.SetForward(ec.Dual())
	ec.Dual().SetForward(r)

	t.searchEdge = ea
	return t.legalize(v, e, f, r)
}

// insertOnHullEdge splits hull edge e = (a, b) at v, re-triangulating the
// interior quadrilateral with a connector to the apex and dividing the
// exterior ghost triangle in two.
func (t *IncrementalTin) insertOnHullEdge(e quadedge.Edge, v *types.Vertex) error {
	f := e.Forward()
	r := f.Forward()
	c := f.Destination()

	ga := e.Dual().Forward()  // (a, ghost)
	gb := ga.Forward().Dual() // (b, ghost)
	if ga.Destination() != nil || gb.Destination() != nil {
		return fmt.Errorf("%w: hull edge %v lacks ghost triangle", ErrInternalInvariant, e)
	}

	p, err := t.pool.Split(e, v) // p = (a, v), e = (v, b)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}

	vc := t.pool.Allocate(v, c)
	p.SetForward(vc)
	vc.SetForward(r)
	r.SetForward(p)

	e.SetForward(f)
	f.SetForward(vc.Dual())
	vc.Dual().SetForward(e)

	gv := t.pool.Allocate(v, nil)
	p.Dual().SetForward(ga)
	ga.SetForward(gv.Dual())
	gv.Dual().SetForward(p.Dual())

	e.Dual().SetForward(gv)
	gv.SetForward(gb.Dual())
	gb.Dual().SetForward(e.Dual())

	t.searchEdge = vc
	return t.legalize(v, f, r)
}

// insertOnConstrainedEdge splits the constrained edge at v rather than
// tunneling through it, preserving the constraint on both halves.
func (t *IncrementalTin) insertOnConstrainedEdge(e quadedge.Edge, v *types.Vertex) error {
	v.SetConstraintMember(true)
	_, recheck, err := t.splitEdgeAt(e, v)
	if err != nil {
		return err
	}
	return t.legalize(v, recheck...)
}

// insertExterior joins v, lying outside the hull, to every hull edge it can
// see, sweeping both directions from the gateway edge h. The swept hull
// edges become interior and are re-legalized; the two extreme spokes become
// the new hull edges with fresh ghost triangles.
func (t *IncrementalTin) insertExterior(h quadedge.Edge, v *types.Vertex) error {
	// Sweep backward while the previous hull edge remains visible from v.
	first := h
	for i := 0; i < t.cfg.walkIterationCap; i++ {
		ph := t.prevHullEdge(first)
		a := ph.Origin()
		b := ph.Destination()
		if t.geo.HalfPlane(a.X, a.Y, b.X, b.Y, v.X, v.Y) >= -t.thresholds.HalfPlaneThreshold {
			break
		}
		first = ph
	}
	// Sweep forward likewise.
	last := h
	for i := 0; i < t.cfg.walkIterationCap; i++ {
		nh := t.nextHullEdge(last)
		a := nh.Origin()
		b := nh.Destination()
		if t.geo.HalfPlane(a.X, a.Y, b.X, b.Y, v.X, v.Y) >= -t.thresholds.HalfPlaneThreshold {
			break
		}
		last = nh
	}

	// Collect the visible chain and its ghost edges.
	var chain []quadedge.Edge
	var ghosts []quadedge.Edge // (p_i, ghost) for chain vertices p_0 .. p_k+1
	for e := first; ; e = t.nextHullEdge(e) {
		chain = append(chain, e)
		ghosts = append(ghosts, e.Dual().Forward())
		if e == last {
			break
		}
		if len(chain) > t.cfg.walkIterationCap {
			return fmt.Errorf("%w: unbounded hull sweep", ErrInternalInvariant)
		}
	}
	gLast := t.nextHullEdge(last).Dual().Forward() // (p_k+1, ghost)

	// Spokes (p_i, v) for every chain vertex.
	spokes := make([]quadedge.Edge, 0, len(chain)+1)
	for _, e := range chain {
		spokes = append(spokes, t.pool.Allocate(e.Origin(), v))
	}
	spokes = append(spokes, t.pool.Allocate(last.Destination(), v))

	// Interior ghost edges of the chain are consumed: their vertices leave
	// the hull.
	for _, g := range ghosts[1:] {
		if err := t.pool.Deallocate(g); err != nil {
			return fmt.Errorf("%w: %v", ErrInternalInvariant, err)
		}
	}

	// One new triangle per swept hull edge: [dual(h_i), s_i, dual(s_i+1)].
	for i, e := range chain {
		d := e.Dual()
		d.SetForward(spokes[i])
		spokes[i].SetForward(spokes[i+1].Dual())
		spokes[i+1].Dual().SetForward(d)
	}

	// Ghost triangles for the two new hull edges (p_0, v) and (v, p_k+1).
	gv := t.pool.Allocate(v, nil)
	g0 := ghosts[0]
	s0 := spokes[0]
	sn := spokes[len(spokes)-1]

	s0.Dual().SetForward(g0)
	g0.SetForward(gv.Dual())
	gv.Dual().SetForward(s0.Dual())

	sn.SetForward(gv)
	gv.SetForward(gLast.Dual())
	gLast.Dual().SetForward(sn)

	t.searchEdge = s0
	// The swept edges are now interior; their new triangles (containing v)
	// lie left of their duals, so the duals are the legalization seeds.
	seeds := make([]quadedge.Edge, len(chain))
	for i, e := range chain {
		seeds[i] = e.Dual()
	}
	return t.legalize(v, seeds...)
}

// legalize restores the Delaunay criterion around a freshly inserted vertex.
// Each seed edge must have v as the apex of its left face; the test vertex
// is the apex across the dual. Constrained edges and hull edges never flip.
func (t *IncrementalTin) legalize(v *types.Vertex, seeds ...quadedge.Edge) error {
	stack := append([]quadedge.Edge(nil), seeds...)
	budget := t.cfg.refinementIterations
	for len(stack) > 0 {
		budget--
		if budget < 0 {
			return fmt.Errorf("%w: flip budget exhausted", ErrInternalInvariant)
		}
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if g.IsConstrained() {
			continue
		}
		a := g.Origin()
		b := g.Destination()
		if a == nil || b == nil {
			continue
		}
		w := g.Dual().Forward().Destination()
		if t.inCircleWithGhosts(a, b, v, w) <= t.thresholds.DelaunayThreshold {
			continue
		}

		d := g.Dual()
		f2 := d.Forward()
		r2 := f2.Forward()
		if err := t.pool.Flip(g); err != nil {
			return fmt.Errorf("%w: %v", ErrInternalInvariant, err)
		}
		stack = append(stack, f2, r2)
	}
	return nil
}

// inCircleWithGhosts evaluates the Delaunay criterion for quadrilateral
// (a, b, v | w). When the near apex v is real and w is real this is the
// plain in-circle test on the counter-clockwise triangle (a, b, v). A ghost
// apex falls back to a half-plane test against the hull edge, with a
// distance tiebreaker for collinear points: a point on the hull segment
// between the endpoints still counts as a violation so the hull edge is
// reconnected through it.
func (t *IncrementalTin) inCircleWithGhosts(a, b, v, w *types.Vertex) float64 {
	if w == nil {
		return -1
	}
	if a == nil || b == nil || v == nil {
		// Ghost-cornered near triangle: decide by the hull edge's view of w.
		ra, rb := a, b
		if ra == nil {
			ra = v
		}
		if rb == nil {
			rb = v
		}
		h := t.geo.HalfPlane(ra.X, ra.Y, rb.X, rb.Y, w.X, w.Y)
		if math.Abs(h) > t.thresholds.HalfPlaneThreshold {
			return -h
		}
		d := t.geo.Direction(ra.X, ra.Y, rb.X, rb.Y, w.X, w.Y)
		len2 := ra.DistanceSq(rb.X, rb.Y)
		if d > 0 && d < len2 {
			return 1
		}
		return -1
	}
	return t.geo.InCircle(a, b, v, w)
}
