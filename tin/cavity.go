package tin

import (
	"fmt"
	"math"

	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

// fillCavity triangulates the polygonal hole left behind by tunneling.
//
// rim lists the boundary edges counter-clockwise around the cavity: the
// destination of each edge is the origin of the next, and the cavity lies to
// the left of every edge. The first rim edge is the freshly allocated
// constrained edge, still unwired on its cavity side.
//
// The fill is Devillers' ear-clipping variant: every ear (three consecutive
// rim vertices) is scored by its signed area, an ear containing another
// cavity vertex is disqualified, and the smallest positive finite score is
// clipped first. After the ring is consumed, each newly created edge is
// checked for the Delaunay criterion and flipped if violated.
func (t *IncrementalTin) fillCavity(rim []quadedge.Edge) error {
	n := len(rim)
	if n < 3 {
		return fmt.Errorf("%w: cavity rim of %d edges", ErrInternalInvariant, n)
	}

	ring := newEarRing(rim)
	var created []quadedge.Edge

	for ring.size > 3 {
		best := -1
		bestScore := math.Inf(1)
		i := ring.head
		for cnt := 0; cnt < ring.size; cnt++ {
			score := t.earScore(ring, i)
			if score < bestScore {
				bestScore = score
				best = i
			}
			i = ring.next[i]
		}
		if best < 0 || math.IsInf(bestScore, 1) {
			return fmt.Errorf("%w: no clippable ear in cavity", ErrInternalInvariant)
		}

		ei := ring.edges[best]
		j := ring.next[best]
		ej := ring.edges[j]

		// Clip: wire the ear triangle and substitute the new edge's dual
		// for the two consumed rim edges.
		ne := t.pool.Allocate(ej.Destination(), ei.Origin())
		ei.SetForward(ej)
		ej.SetForward(ne)
		ne.SetForward(ei)
		created = append(created, ne)

		ring.edges[best] = ne.Dual()
		ring.remove(j)
	}

	// Final triangle.
	a := ring.head
	b := ring.next[a]
	c := ring.next[b]
	ring.edges[a].SetForward(ring.edges[b])
	ring.edges[b].SetForward(ring.edges[c])
	ring.edges[c].SetForward(ring.edges[a])

	// The original rim edges face reshaped triangles, so they are rechecked
	// along with the edges the fill created.
	seeds := append(created, rim...)
	return t.delaunayRestore(seeds, false)
}

// earScore rates the ear at ring position i: the signed area of the
// candidate triangle, +Inf when the area is non-positive or another cavity
// vertex lies inside the triangle.
func (t *IncrementalTin) earScore(ring *earRing, i int) float64 {
	j := ring.next[i]
	a := ring.edges[i].Origin()
	b := ring.edges[j].Origin()
	c := ring.edges[j].Destination()
	if a == nil || b == nil || c == nil {
		return math.Inf(1)
	}
	area := t.geo.Orientation(a, b, c)
	if area <= 0 {
		return math.Inf(1)
	}
	for k := ring.next[j]; k != i; k = ring.next[k] {
		p := ring.edges[k].Origin()
		if p == a || p == b || p == c {
			continue
		}
		if t.vertexInTriangle(a, b, c, p) {
			return math.Inf(1)
		}
	}
	return area
}

func (t *IncrementalTin) vertexInTriangle(a, b, c, p *types.Vertex) bool {
	eps := -t.thresholds.HalfPlaneThreshold
	return t.geo.HalfPlane(a.X, a.Y, b.X, b.Y, p.X, p.Y) > eps &&
		t.geo.HalfPlane(b.X, b.Y, c.X, c.Y, p.X, p.Y) > eps &&
		t.geo.HalfPlane(c.X, c.Y, a.X, a.Y, p.X, p.Y) > eps
}

// earRing is the doubly-linked ring of cavity boundary edges.
type earRing struct {
	edges []quadedge.Edge
	next  []int
	prev  []int
	head  int
	size  int
}

func newEarRing(rim []quadedge.Edge) *earRing {
	n := len(rim)
	r := &earRing{
		edges: append([]quadedge.Edge(nil), rim...),
		next:  make([]int, n),
		prev:  make([]int, n),
		head:  0,
		size:  n,
	}
	for i := range rim {
		r.next[i] = (i + 1) % n
		r.prev[i] = (i - 1 + n) % n
	}
	return r
}

func (r *earRing) remove(i int) {
	p := r.prev[i]
	n := r.next[i]
	r.next[p] = n
	r.prev[n] = p
	if r.head == i {
		r.head = n
	}
	r.size--
}
