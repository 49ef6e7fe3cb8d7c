package tin

import (
	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

// Navigator performs repeated point-location queries against a
// triangulation, caching the last successful edge as the hint for the next
// search. Consecutive queries for nearby points then cost a handful of
// transfers.
//
// A Navigator is not safe for concurrent use: it caches a search edge and
// owns a private random stream. Create one navigator per goroutine; the
// underlying triangulation must be locked while shared.
//
// After any mutation of the triangulation the cached edge may dangle;
// callers must invalidate it with ResetForChangeToTin.
type Navigator struct {
	t      *IncrementalTin
	search quadedge.Edge
	rng    uint64
}

// Navigator creates a point locator over the triangulation.
func (t *IncrementalTin) Navigator() *Navigator {
	return &Navigator{t: t, search: quadedge.NilEdge, rng: 0x853C49E6748FEA9B}
}

// ResetForChangeToTin discards the cached search edge. Must be called after
// any mutation of the underlying triangulation.
func (nv *Navigator) ResetForChangeToTin() {
	nv.search = quadedge.NilEdge
}

// Locate finds the triangle containing (x, y). The returned edge's left
// face contains the point; inside is false when the point lies outside the
// hull, in which case the edge is the exterior side of the subtending hull
// edge.
func (nv *Navigator) Locate(x, y float64) (quadedge.Edge, bool, error) {
	if !nv.t.bootstrapped {
		return quadedge.NilEdge, false, ErrNotBootstrapped
	}
	start := nv.search
	if start.IsNil() || !nv.t.pool.Live(start) {
		start = nv.t.pool.StartingEdge()
	}
	e, err := nv.t.walkWith(&nv.rng, start, x, y)
	if err != nil {
		return quadedge.NilEdge, false, err
	}
	nv.search = e
	return e, e.Forward().Destination() != nil, nil
}

// NearestVertex returns the vertex of the containing (or subtending)
// triangle closest to (x, y).
func (nv *Navigator) NearestVertex(x, y float64) (*types.Vertex, error) {
	e, _, err := nv.Locate(x, y)
	if err != nil {
		return nil, err
	}
	var best *types.Vertex
	bestD := 0.0
	for _, v := range [3]*types.Vertex{e.Origin(), e.Destination(), e.Forward().Destination()} {
		if v == nil {
			continue
		}
		d := v.DistanceSq(x, y)
		if best == nil || d < bestD {
			best = v
			bestD = d
		}
	}
	return best, nil
}
