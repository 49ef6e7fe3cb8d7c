package tin

import (
	"fmt"

	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

// Triangle is one face of the triangulation. Vertices are in
// counter-clockwise order for real triangles; a ghost triangle has exactly
// one nil vertex.
type Triangle struct {
	A, B, C *types.Vertex
	edge    quadedge.Edge
}

// Edge returns the directed edge the triangle was reported from; the
// triangle is its left face.
func (tr Triangle) Edge() quadedge.Edge {
	return tr.edge
}

// IsGhost reports whether one of the triangle's vertices is the ghost.
func (tr Triangle) IsGhost() bool {
	return tr.A == nil || tr.B == nil || tr.C == nil
}

// RegionIndex returns the polygon constraint index of the region the
// triangle lies in, or -1.
func (tr Triangle) RegionIndex() int {
	e := tr.edge
	for i := 0; i < 3; i++ {
		if r := e.RegionIndex(); r >= 0 {
			return r
		}
		e = e.Forward()
	}
	return -1
}

// TriangleIterator enumerates each face of the triangulation exactly once.
// It is lazy and non-restartable: create a new iterator to traverse again.
type TriangleIterator struct {
	inner         *quadedge.Iterator
	pending       quadedge.Edge
	hasPending    bool
	includeGhosts bool
}

// Triangles returns a lazy iterator over the real triangles.
func (t *IncrementalTin) Triangles() *TriangleIterator {
	return &TriangleIterator{inner: t.pool.Iterator(true)}
}

// AllTriangles returns a lazy iterator that also reports ghost triangles.
func (t *IncrementalTin) AllTriangles() *TriangleIterator {
	return &TriangleIterator{inner: t.pool.Iterator(true), includeGhosts: true}
}

// Next returns the next triangle. A face is emitted only when the current
// side is the minimum-indexed edge of its three-cycle, so each face is
// reported exactly once.
func (it *TriangleIterator) Next() (Triangle, bool) {
	for {
		var e quadedge.Edge
		if it.hasPending {
			e = it.pending
			it.hasPending = false
		} else {
			base, ok := it.inner.Next()
			if !ok {
				return Triangle{}, false
			}
			e = base
			it.pending = base.Dual()
			it.hasPending = true
		}

		f := e.Forward()
		if f.IsNil() {
			continue
		}
		r := f.Forward()
		if r.IsNil() || r.Forward() != e {
			continue
		}
		if e.Index() > f.Index() || e.Index() > r.Index() {
			continue
		}
		tr := Triangle{A: e.Origin(), B: f.Origin(), C: r.Origin(), edge: e}
		if tr.IsGhost() && !it.includeGhosts {
			continue
		}
		return tr, true
	}
}

// TriangleCount summarizes the faces of a triangulation.
type TriangleCount struct {
	Valid       int // real triangles
	Ghost       int // exterior triangles closing the hull
	Constrained int // real triangles interior to a constrained region
}

// CountTriangles tallies real, ghost and region-interior triangles.
func (t *IncrementalTin) CountTriangles() TriangleCount {
	var count TriangleCount
	it := t.AllTriangles()
	for tr, ok := it.Next(); ok; tr, ok = it.Next() {
		if tr.IsGhost() {
			count.Ghost++
			continue
		}
		count.Valid++
		if tr.RegionIndex() >= 0 {
			count.Constrained++
		}
	}
	return count
}

// Edges returns the base side of every real edge pair.
func (t *IncrementalTin) Edges() []quadedge.Edge {
	var out []quadedge.Edge
	it := t.pool.Iterator(false)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		out = append(out, e)
	}
	return out
}

// Perimeter returns the hull edges in counter-clockwise order, starting
// from an arbitrary hull edge. Each returned edge has the triangulation
// interior on its left.
func (t *IncrementalTin) Perimeter() ([]quadedge.Edge, error) {
	if !t.bootstrapped {
		return nil, ErrNotBootstrapped
	}
	// Any ghost pair leads to the hull: the reverse of a (v, ghost) edge is
	// the exterior side of a hull edge.
	ghost := quadedge.NilEdge
	it := t.pool.Iterator(true)
	for e, ok := it.Next(); ok; e, ok = it.Next() {
		if e.Destination() == nil {
			ghost = e
			break
		}
		if e.Origin() == nil {
			ghost = e.Dual()
			break
		}
	}
	if ghost.IsNil() {
		return nil, fmt.Errorf("%w: bootstrapped triangulation has no ghost edges", ErrInternalInvariant)
	}

	start := ghost.Reverse().Dual()
	out := []quadedge.Edge{start}
	for h := t.nextHullEdge(start); h != start; h = t.nextHullEdge(h) {
		out = append(out, h)
		if len(out) > t.pool.Count() {
			return nil, fmt.Errorf("%w: perimeter does not close", ErrInternalInvariant)
		}
	}
	return out, nil
}
