package quadedge

import (
	"testing"

	"github.com/iceisfun/gotin/types"
)

func v(x, y float64, index int) *types.Vertex {
	return types.NewVertex(x, y, 0, index)
}

func TestAllocateIndexPairing(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(1, 0, 1)

	e := p.Allocate(a, b)
	if e.Index() != 0 {
		t.Fatalf("first allocation index = %d, want 0", e.Index())
	}
	if e.Dual().Index() != 1 {
		t.Fatalf("dual index = %d, want 1", e.Dual().Index())
	}
	if e.Dual().Dual() != e {
		t.Fatalf("dual involution broken")
	}
	if e.Origin() != a || e.Destination() != b {
		t.Fatalf("allocation endpoints wrong: %v", e)
	}
	if e.Dual().Origin() != b || e.Dual().Destination() != a {
		t.Fatalf("dual endpoints wrong: %v", e.Dual())
	}

	e2 := p.Allocate(b, a)
	if e2.Index() != 2 {
		t.Fatalf("second allocation index = %d, want 2", e2.Index())
	}
	if p.Count() != 2 {
		t.Fatalf("pair count = %d, want 2", p.Count())
	}
	if p.MaxAllocationIndex() != 3 {
		t.Fatalf("max allocation index = %d, want 3", p.MaxAllocationIndex())
	}
}

func TestDeallocateReusesLowestSlot(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(1, 0, 1)

	e0 := p.Allocate(a, b)
	e1 := p.Allocate(a, b)
	e2 := p.Allocate(a, b)
	_ = e2

	if err := p.Deallocate(e0); err != nil {
		t.Fatalf("deallocate: %v", err)
	}
	if err := p.Deallocate(e1); err != nil {
		t.Fatalf("deallocate: %v", err)
	}
	if p.Count() != 1 {
		t.Fatalf("count after deallocation = %d, want 1", p.Count())
	}

	// Double free must be rejected.
	if err := p.Deallocate(e0); err == nil {
		t.Fatalf("double deallocate did not fail")
	}

	// Reallocation fills the lowest free even slot first.
	r0 := p.Allocate(a, b)
	if r0.Index() != 0 {
		t.Fatalf("reallocation index = %d, want 0", r0.Index())
	}
	r1 := p.Allocate(a, b)
	if r1.Index() != 2 {
		t.Fatalf("second reallocation index = %d, want 2", r1.Index())
	}
}

func TestPreallocateKeepsIndices(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(1, 0, 1)

	e := p.Allocate(a, b)
	p.Preallocate(10000)
	if e.Origin() != a || e.Destination() != b {
		t.Fatalf("preallocation disturbed an existing pair")
	}
	e2 := p.Allocate(a, b)
	if e2.Index() != 2 {
		t.Fatalf("allocation after preallocate = %d, want 2", e2.Index())
	}
}

// buildQuad wires two triangles (a, b, c) and (b, a, d) sharing edge (a, b)
// and returns the shared edge.
func buildQuad(p *Pool, a, b, c, d *types.Vertex) Edge {
	e := p.Allocate(a, b)
	f := p.Allocate(b, c)
	r := p.Allocate(c, a)
	f2 := p.Allocate(a, d)
	r2 := p.Allocate(d, b)

	e.SetForward(f)
	f.SetForward(r)
	r.SetForward(e)

	e.Dual().SetForward(f2)
	f2.SetForward(r2)
	r2.SetForward(e.Dual())
	return e
}

func TestFlipRewiresDiagonal(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(1, 0, 1)
	c := v(1, 1, 2)
	d := v(0, -1, 3)
	e := buildQuad(p, a, b, c, d)

	if err := p.Flip(e); err != nil {
		t.Fatalf("flip: %v", err)
	}
	if e.Origin() != c || e.Destination() != d {
		t.Fatalf("flipped edge is %v, want c->d", e)
	}
	for _, side := range []Edge{e, e.Dual()} {
		if side.Forward().Forward().Forward() != side {
			t.Fatalf("face of %v is not a triangle after flip", side)
		}
		if side.Forward().Reverse() != side {
			t.Fatalf("reciprocity broken at %v", side)
		}
	}
}

func TestFlipRejectsConstrainedAndGhost(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(1, 0, 1)
	c := v(1, 1, 2)
	d := v(0, -1, 3)

	e := buildQuad(p, a, b, c, d)
	e.SetConstrained()
	if err := p.Flip(e); err == nil {
		t.Fatalf("flip of constrained edge did not fail")
	}

	p2 := NewPool()
	g := buildQuad(p2, v(0, 0, 0), v(1, 0, 1), v(1, 1, 2), nil)
	if err := p2.Flip(g); err == nil {
		t.Fatalf("flip of ghost-adjacent edge did not fail")
	}
}

func TestSplitPreservesConstraintState(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(2, 0, 1)
	c := v(1, 1, 2)
	d := v(1, -1, 3)
	e := buildQuad(p, a, b, c, d)
	e.MarkLineMember(7)

	m := v(1, 0, 4)
	ne, err := p.Split(e, m)
	if err != nil {
		t.Fatalf("split: %v", err)
	}
	if ne.Origin() != a || ne.Destination() != m {
		t.Fatalf("new half is %v, want a->m", ne)
	}
	if e.Origin() != m || e.Destination() != b {
		t.Fatalf("old half is %v, want m->b", e)
	}
	if !ne.IsConstrained() || !e.IsConstrained() {
		t.Fatalf("split halves lost the constrained flag")
	}
	if ne.LineIndex() != 7 || e.LineIndex() != 7 {
		t.Fatalf("split halves lost the line index: %d, %d", ne.LineIndex(), e.LineIndex())
	}

	// The two faces of the original pair are quadrilaterals now.
	if got := cycleLen(e); got != 4 {
		t.Fatalf("left face has %d sides, want 4", got)
	}
	if got := cycleLen(e.Dual()); got != 4 {
		t.Fatalf("right face has %d sides, want 4", got)
	}
}

func cycleLen(e Edge) int {
	n := 1
	for f := e.Forward(); f != e && n < 100; f = f.Forward() {
		n++
	}
	return n
}

func TestIteratorSkipsGhostsAndFreed(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(1, 0, 1)

	p.Allocate(a, b)
	mid := p.Allocate(a, b)
	p.Allocate(a, nil) // ghost pair
	if err := p.Deallocate(mid); err != nil {
		t.Fatalf("deallocate: %v", err)
	}

	count := 0
	it := p.Iterator(false)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}
	if count != 1 {
		t.Fatalf("iterator returned %d real pairs, want 1", count)
	}

	count = 0
	it = p.Iterator(true)
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}
	if count != 2 {
		t.Fatalf("iterator returned %d pairs with ghosts, want 2", count)
	}
}

func TestConstraintBitPacking(t *testing.T) {
	p := NewPool()
	a := v(0, 0, 0)
	b := v(1, 0, 1)

	e := p.Allocate(a, b)
	e.MarkRegionBorder(MaxRegionConstraintIndex)
	if !e.IsConstrained() || !e.IsConstraintRegionBorder() {
		t.Fatalf("border flags not set")
	}
	if got := e.RegionIndex(); got != MaxRegionConstraintIndex {
		t.Fatalf("region index = %d, want %d", got, MaxRegionConstraintIndex)
	}
	// The opposite side carries its own, independent label.
	if got := e.Dual().RegionIndex(); got != -1 {
		t.Fatalf("unlabeled dual side region = %d, want -1", got)
	}
	e.Dual().MarkRegionBorder(3)
	if got := e.Dual().RegionIndex(); got != 3 {
		t.Fatalf("dual region index = %d, want 3", got)
	}
	if got := e.RegionIndex(); got != MaxRegionConstraintIndex {
		t.Fatalf("base region index disturbed: %d", got)
	}

	e2 := p.Allocate(a, b)
	e2.MarkLineMember(MaxLineConstraintIndex)
	if got := e2.LineIndex(); got != MaxLineConstraintIndex {
		t.Fatalf("line index = %d, want %d", got, MaxLineConstraintIndex)
	}
	if got := e2.Dual().LineIndex(); got != MaxLineConstraintIndex {
		t.Fatalf("line index read from base side = %d, want %d", got, MaxLineConstraintIndex)
	}
	if e2.RegionIndex() != -1 {
		t.Fatalf("line member acquired a region index")
	}

	if le, ok := p.LineConstraintEdge(MaxLineConstraintIndex); !ok || le.BaseIndex() != e2.BaseIndex() {
		t.Fatalf("line constraint map lookup failed")
	}
}
