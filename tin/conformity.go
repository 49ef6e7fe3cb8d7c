package tin

import (
	"fmt"
	"math"

	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

// splitEdgeAt divides edge e = (a, b) at vertex m and re-triangulates the
// two incident faces, connecting m to both apexes. Ghost apexes are handled
// by allocating a ghost connector, so splitting a constrained hull edge
// keeps every new hull edge paired with a ghost triangle.
//
// Returns the new half p = (a, m) and the four surrounding edges that must
// be rechecked for the Delaunay criterion.
func (t *IncrementalTin) splitEdgeAt(e quadedge.Edge, m *types.Vertex) (quadedge.Edge, []quadedge.Edge, error) {
	f := e.Forward()
	r := e.Reverse()
	cL := f.Destination()
	d := e.Dual()
	f2 := d.Forward()
	r2 := f2.Forward()
	cR := f2.Destination()
	if r.Forward() != e || r2.Forward() != d {
		return quadedge.NilEdge, nil, fmt.Errorf("%w: split faces are not triangles at %v",
			ErrInternalInvariant, e)
	}

	p, err := t.pool.Split(e, m) // p = (a, m), e = (m, b)
	if err != nil {
		return quadedge.NilEdge, nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
	}

	mcL := t.pool.Allocate(m, cL)
	p.SetForward(mcL)
	mcL.SetForward(r)
	r.SetForward(p)

	e.SetForward(f)
	f.SetForward(mcL.Dual())
	mcL.Dual().SetForward(e)

	mcR := t.pool.Allocate(m, cR)
	p.Dual().SetForward(f2)
	f2.SetForward(mcR.Dual())
	mcR.Dual().SetForward(p.Dual())

	d.SetForward(mcR)
	mcR.SetForward(r2)
	r2.SetForward(d)

	p.SetSynthetic()
	e.SetSynthetic()
	t.searchEdge = e
	return p, []quadedge.Edge{f, r, f2, r2}, nil
}

// delaunayRestore drives the recursive Delaunay repair used after cavity
// filling and by conformity restoration. Unconstrained violations are fixed
// by flipping. When splitConstrained is set, a violating constrained edge is
// split at its midpoint with a synthetic vertex and the four surrounding
// edges are rechecked; otherwise constrained edges are left alone.
func (t *IncrementalTin) delaunayRestore(seeds []quadedge.Edge, splitConstrained bool) error {
	stack := append([]quadedge.Edge(nil), seeds...)
	budget := t.cfg.refinementIterations
	for len(stack) > 0 {
		budget--
		if budget < 0 {
			return fmt.Errorf("%w: refinement budget exhausted", ErrInternalInvariant)
		}
		g := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if g.IsNil() || !t.pool.Live(g) {
			continue
		}
		a := g.Origin()
		b := g.Destination()
		if a == nil || b == nil {
			continue
		}
		cL := g.Forward().Destination()
		w := g.Dual().Forward().Destination()
		if cL == nil || w == nil {
			continue
		}
		if t.geo.InCircle(a, b, cL, w) <= t.thresholds.DelaunayThreshold {
			continue
		}

		if !g.IsConstrained() {
			d := g.Dual()
			f := g.Forward()
			r := f.Forward()
			f2 := d.Forward()
			r2 := f2.Forward()
			if err := t.pool.Flip(g); err != nil {
				return fmt.Errorf("%w: %v", ErrInternalInvariant, err)
			}
			stack = append(stack, f, r, f2, r2)
			continue
		}
		if !splitConstrained {
			continue
		}

		z := (a.Z + b.Z) / 2
		if c := t.constraintForEdge(g); c != nil && !math.IsNaN(c.DefaultZ()) {
			z = c.DefaultZ()
		}
		m := types.NewVertex((a.X+b.X)/2, (a.Y+b.Y)/2, z, t.nextSyntheticIndex())
		m.SetSynthetic(true)
		m.SetConstraintMember(true)
		p, recheck, err := t.splitEdgeAt(g, m)
		if err != nil {
			return err
		}
		t.vertices = append(t.vertices, m)
		t.extendBounds(m)
		// Both halves can still violate against their new apex pairs.
		stack = append(stack, recheck...)
		stack = append(stack, p, g)
	}
	return nil
}

// restoreConformity splits constrained edges until every edge of the
// triangulation meets the Delaunay criterion.
func (t *IncrementalTin) restoreConformity() error {
	var seeds []quadedge.Edge
	it := t.pool.Iterator(false)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		seeds = append(seeds, e)
	}
	return t.delaunayRestore(seeds, true)
}
