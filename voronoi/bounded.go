// Package voronoi derives a bounded Voronoi diagram (Thiessen polygons)
// from a Delaunay triangulation. Each cell is clipped to an axis-aligned
// rectangle; boundary crossings become synthetic vertices whose Z value
// encodes a perimeter parameter in [0, 4).
package voronoi

import (
	"errors"
	"fmt"
	"math"

	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/tin"
	"github.com/iceisfun/gotin/types"
)

// ErrNotBootstrapped indicates the source triangulation holds no triangles.
var ErrNotBootstrapped = errors.New("gotin: voronoi requires a bootstrapped triangulation")

// Cell is the Thiessen polygon of one triangulation vertex, clipped to the
// diagram bounds. The ring is counter-clockwise and not explicitly closed.
// Ring vertices are synthetic; those on the clip boundary carry the
// perimeter parameter in Z, interior ones carry NaN.
type Cell struct {
	Site *types.Vertex
	Ring []*types.Vertex
}

// Area returns the polygon area of the cell.
func (c *Cell) Area() float64 {
	n := len(c.Ring)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		a := c.Ring[i]
		b := c.Ring[(i+1)%n]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// BoundedVoronoi is the clipped dual of a Delaunay triangulation.
type BoundedVoronoi struct {
	bounds types.Rect
	cells  []*Cell
}

// Bounds returns the clip rectangle.
func (bv *BoundedVoronoi) Bounds() types.Rect {
	return bv.bounds
}

// Cells returns the cells in vertex order. A vertex whose clipped cell has
// fewer than three ring vertices gets no cell, so there can be fewer cells
// than vertices.
func (bv *BoundedVoronoi) Cells() []*Cell {
	return bv.cells
}

// DefaultBounds returns the triangulation bounds buffered by ten percent, a
// reasonable clip rectangle when the caller has no better one.
func DefaultBounds(t *tin.IncrementalTin) (types.Rect, bool) {
	b, ok := t.Bounds()
	if !ok {
		return types.Rect{}, false
	}
	return b.Buffered(10), true
}

// New builds the bounded Voronoi diagram of the triangulation, clipping
// every cell to the given rectangle. Unbounded cells of hull vertices are
// closed by extending their boundary rays beyond the rectangle before
// clipping.
func New(t *tin.IncrementalTin, clip types.Rect) (*BoundedVoronoi, error) {
	if !t.IsBootstrapped() {
		return nil, ErrNotBootstrapped
	}
	if clip.Width() <= 0 || clip.Height() <= 0 {
		return nil, fmt.Errorf("gotin: degenerate voronoi clip rectangle %+v", clip)
	}

	// One incident edge per vertex, discovered in a single sweep.
	edgeOf := make(map[*types.Vertex]quadedge.Edge)
	for _, e := range t.Edges() {
		if _, ok := edgeOf[e.Origin()]; !ok {
			edgeOf[e.Origin()] = e
		}
		d := e.Dual()
		if _, ok := edgeOf[d.Origin()]; !ok {
			edgeOf[d.Origin()] = d
		}
	}

	bv := &BoundedVoronoi{bounds: clip}
	rb := ringBuilder{tin: t, reach: rayReach(clip)}
	for _, site := range t.Vertices() {
		start, ok := edgeOf[site]
		if !ok {
			continue
		}
		ring, err := rb.build(start, site, clip)
		if err != nil {
			return nil, err
		}
		if len(ring) < 3 {
			continue
		}
		bv.cells = append(bv.cells, &Cell{Site: site, Ring: ring})
	}
	return bv, nil
}

// rayReach returns a distance guaranteed to carry any in-rectangle point
// outside the clip rectangle.
func rayReach(r types.Rect) float64 {
	return 3 * math.Hypot(r.Width(), r.Height())
}

type ringBuilder struct {
	tin   *tin.IncrementalTin
	reach float64
}

// build assembles the unclipped ring of circumcenters around the site,
// replacing the two ghost faces of a hull vertex with far points along the
// perpendicular bisectors of its hull edges, then clips to the rectangle.
func (rb ringBuilder) build(start quadedge.Edge, site *types.Vertex, clip types.Rect) ([]*types.Vertex, error) {
	geo := rb.tin.Geometry()

	// Pinwheel clockwise, then reverse for a counter-clockwise ring.
	var spokes []quadedge.Edge
	s := start
	for {
		spokes = append(spokes, s)
		s = s.DualFromForward()
		if s == start {
			break
		}
		if len(spokes) > 1<<20 {
			return nil, fmt.Errorf("gotin: pinwheel around vertex %d does not close", site.Index)
		}
	}
	for i, j := 0, len(spokes)-1; i < j; i, j = i+1, j-1 {
		spokes[i], spokes[j] = spokes[j], spokes[i]
	}

	var ring []types.Point
	for _, sp := range spokes {
		b := sp.Destination()
		apex := sp.Forward().Destination()
		if b == nil || apex == nil {
			// Ghost face of a hull vertex: the cell escapes to infinity
			// along the perpendicular bisector of the face's hull edge.
			ring = append(ring, rb.farBisectorPoint(sp))
			continue
		}
		center, _, err := geo.Circumcircle(site, b, apex)
		if err != nil {
			// Near-degenerate face: its circumcenter runs to infinity
			// along the bisector of the face's long edge.
			center = rb.farMidpointNormal(site, b, apex)
		}
		ring = append(ring, center)
	}
	return clipRing(clip, ring), nil
}

// farBisectorPoint substitutes a far point along the outward perpendicular
// bisector of the hull edge whose ghost face lies left of the spoke. Each
// hull vertex has exactly two such spokes, so its cell acquires the two ray
// endpoints that close it against the clip rectangle.
func (rb ringBuilder) farBisectorPoint(sp quadedge.Edge) types.Point {
	if sp.Destination() == nil {
		// sp is the (site, ghost) spoke; its face is the ghost triangle of
		// the outgoing hull edge (site, w).
		hullDual := sp.Reverse() // (w, site)
		return rb.outwardBisector(hullDual.Destination(), hullDual.Origin())
	}
	// sp is the exterior side (site, u) of the incoming hull edge (u, site).
	return rb.outwardBisector(sp.Destination(), sp.Origin())
}

// outwardBisector returns a point far along the outward perpendicular
// bisector of hull edge (a, b), where the hull interior lies left of a->b.
func (rb ringBuilder) outwardBisector(a, b *types.Vertex) types.Point {
	mx := (a.X + b.X) / 2
	my := (a.Y + b.Y) / 2
	// The interior lies left of a->b, so the right normal points outward.
	nx := b.Y - a.Y
	ny := a.X - b.X
	l := math.Hypot(nx, ny)
	if l == 0 {
		return types.Point{X: mx, Y: my}
	}
	return types.Point{X: mx + nx/l*rb.reach, Y: my + ny/l*rb.reach}
}

// farMidpointNormal substitutes a distant point for the circumcenter of a
// nearly degenerate face, running along the bisector of (site, b) away from
// the apex.
func (rb ringBuilder) farMidpointNormal(site, b, apex *types.Vertex) types.Point {
	mx := (site.X + b.X) / 2
	my := (site.Y + b.Y) / 2
	nx := b.Y - site.Y
	ny := site.X - b.X
	l := math.Hypot(nx, ny)
	if l == 0 {
		return types.Point{X: mx, Y: my}
	}
	nx /= l
	ny /= l
	if nx*(apex.X-mx)+ny*(apex.Y-my) > 0 {
		nx = -nx
		ny = -ny
	}
	return types.Point{X: mx + nx*rb.reach, Y: my + ny*rb.reach}
}
