package quadedge

import (
	"errors"
	"fmt"
	"math/bits"

	"golang.org/x/sync/errgroup"

	"github.com/iceisfun/gotin/types"
)

var (
	// ErrEdgeOutOfRange indicates an operation on an edge index that is not
	// currently allocated. The pool is left untouched.
	ErrEdgeOutOfRange = errors.New("gotin: edge index out of range or not allocated")

	// ErrGhostFlip indicates an attempt to flip an edge incident to a ghost
	// triangle.
	ErrGhostFlip = errors.New("gotin: cannot flip edge of ghost triangle")

	// ErrConstrainedFlip indicates an attempt to flip a constrained edge.
	ErrConstrainedFlip = errors.New("gotin: cannot flip constrained edge")

	// ErrReciprocity indicates the forward/reverse links around an edge are
	// not mutually consistent.
	ErrReciprocity = errors.New("gotin: edge link reciprocity violated")
)

// page is a fixed-capacity bucket of contiguous edge pairs.
//
// Slots below the watermark have been allocated at least once; the free
// bitmap tracks which of them are currently vacant. Slot indices are stable
// for the lifetime of the pool: handles held by callers never dangle because
// deallocation vacates a slot in place and allocation refills the lowest
// vacant slot first.
type page struct {
	id        int32
	vertices  []*types.Vertex
	links     []int32
	words     []int32
	watermark int32
	freeBits  []uint64
	freeCount int32

	next       *page
	inFreeList bool
}

func newPage(id int32) *page {
	return &page{id: id}
}

func (p *page) init() {
	p.vertices = make([]*types.Vertex, 2*pairsPerPage)
	p.links = make([]int32, 4*pairsPerPage)
	for i := range p.links {
		p.links[i] = -1
	}
	p.words = make([]int32, 2*pairsPerPage)
	p.freeBits = make([]uint64, pairsPerPage/64)
}

func (p *page) full() bool {
	return p.watermark == pairsPerPage && p.freeCount == 0
}

// takeSlot claims the lowest vacant slot in the page.
func (p *page) takeSlot() int32 {
	if p.freeCount > 0 {
		for w, word := range p.freeBits {
			if word != 0 {
				bit := bits.TrailingZeros64(word)
				p.freeBits[w] = word &^ (1 << bit)
				p.freeCount--
				return int32(w*64 + bit)
			}
		}
	}
	slot := p.watermark
	p.watermark++
	return slot
}

func (p *page) isFree(slot int32) bool {
	if slot >= p.watermark {
		return true
	}
	return p.freeBits[slot/64]&(1<<(slot%64)) != 0
}

func (p *page) markFree(slot int32) {
	p.freeBits[slot/64] |= 1 << (slot % 64)
	p.freeCount++
}

// Pool is a paged allocator of directed edge pairs.
//
// It is exclusively owned by one triangulation; no operation is safe for
// concurrent mutation. Allocation always returns the smallest free even slot,
// and pre-allocation never reassigns existing indices.
type Pool struct {
	pages     []*page
	firstFree *page
	pairCount int
	maxIndex  int32

	// lineEdges maps a linear constraint index to a representative base
	// edge, maintained across allocation, splitting and deallocation.
	lineEdges map[int]int32
}

// NewPool creates an empty pool with a single initialized page.
func NewPool() *Pool {
	p := &Pool{
		lineEdges: make(map[int]int32),
		maxIndex:  -1,
	}
	p.addPage()
	return p
}

func (p *Pool) addPage() *page {
	pg := newPage(int32(len(p.pages)))
	pg.init()
	p.pages = append(p.pages, pg)
	p.pushFree(pg)
	return pg
}

// pushFree inserts a page into the free list, kept ordered by page id so
// that allocation fills the lowest-indexed slots first.
func (p *Pool) pushFree(pg *page) {
	if pg.inFreeList {
		return
	}
	pg.inFreeList = true
	if p.firstFree == nil || pg.id < p.firstFree.id {
		pg.next = p.firstFree
		p.firstFree = pg
		return
	}
	cur := p.firstFree
	for cur.next != nil && cur.next.id < pg.id {
		cur = cur.next
	}
	pg.next = cur.next
	cur.next = pg
}

func (p *Pool) popIfFull(pg *page) {
	if !pg.full() || !pg.inFreeList {
		return
	}
	pg.inFreeList = false
	if p.firstFree == pg {
		p.firstFree = pg.next
		pg.next = nil
		return
	}
	for cur := p.firstFree; cur != nil; cur = cur.next {
		if cur.next == pg {
			cur.next = pg.next
			pg.next = nil
			return
		}
	}
}

// Preallocate sizes the pool for a triangulation of approximately n vertices,
// which requires about 3.2*n edge pairs. Existing pages and indices are
// never disturbed. Page initialization is parallelized when more than two
// new pages are needed.
func (p *Pool) Preallocate(n int) {
	pairs := n*3 + n/5
	need := (pairs+pairsPerPage-1)/pairsPerPage - len(p.pages)
	if need <= 0 {
		return
	}
	fresh := make([]*page, need)
	for i := range fresh {
		fresh[i] = newPage(int32(len(p.pages) + i))
	}
	if need > 2 {
		var g errgroup.Group
		for _, pg := range fresh {
			g.Go(func() error {
				pg.init()
				return nil
			})
		}
		// Initialization cannot fail; Wait only joins the workers.
		_ = g.Wait()
	} else {
		for _, pg := range fresh {
			pg.init()
		}
	}
	for _, pg := range fresh {
		p.pages = append(p.pages, pg)
		p.pushFree(pg)
	}
}

// Allocate returns a fresh edge pair with origin(e) = a and origin(dual(e)) = b.
// Either vertex may be nil to denote the ghost. The pair occupies the
// smallest free even slot; a new page is added when the pool is exhausted.
func (p *Pool) Allocate(a, b *types.Vertex) Edge {
	pg := p.firstFree
	if pg == nil {
		pg = p.addPage()
	}
	slot := pg.takeSlot()
	p.popIfFull(pg)

	pg.vertices[slot*2] = a
	pg.vertices[slot*2+1] = b
	base := slot * 4
	pg.links[base] = -1
	pg.links[base+1] = -1
	pg.links[base+2] = -1
	pg.links[base+3] = -1
	pg.words[slot*2] = 0
	pg.words[slot*2+1] = 0

	p.pairCount++
	ix := (pg.id*pairsPerPage + slot) * 2
	if ix+1 > p.maxIndex {
		p.maxIndex = ix + 1
	}
	return Edge{pool: p, index: ix}
}

func (p *Pool) validate(e Edge) error {
	if e.pool != p || e.index < 0 {
		return ErrEdgeOutOfRange
	}
	pair := e.index >> 1
	pgIx := pair / pairsPerPage
	if int(pgIx) >= len(p.pages) {
		return ErrEdgeOutOfRange
	}
	if p.pages[pgIx].isFree(pair % pairsPerPage) {
		return ErrEdgeOutOfRange
	}
	return nil
}

// Deallocate returns both sides of the pair to the free list. Links,
// vertices and constraint state are cleared so that stale handles read as
// detached rather than aliasing a future allocation's neighbors. The
// line-constraint map is updated when the pair was a representative.
func (p *Pool) Deallocate(e Edge) error {
	if err := p.validate(e); err != nil {
		return err
	}
	pair := e.index >> 1
	pg := p.pages[pair/pairsPerPage]
	slot := pair % pairsPerPage

	if line := e.LineIndex(); line >= 0 {
		if rep, ok := p.lineEdges[line]; ok && rep == e.BaseIndex() {
			delete(p.lineEdges, line)
		}
	}

	pg.vertices[slot*2] = nil
	pg.vertices[slot*2+1] = nil
	base := slot * 4
	pg.links[base] = -1
	pg.links[base+1] = -1
	pg.links[base+2] = -1
	pg.links[base+3] = -1
	pg.words[slot*2] = 0
	pg.words[slot*2+1] = 0

	wasFull := pg.full()
	pg.markFree(slot)
	p.pairCount--
	if wasFull {
		p.pushFree(pg)
	}
	return nil
}

// Split divides edge e = (a, b) at vertex m, allocating and returning
// p = (a, m) while e becomes (m, b). The left and right faces each gain one
// side, becoming quadrilaterals that the caller re-triangulates. Constraint
// flags are preserved on both halves.
func (p *Pool) Split(e Edge, m *types.Vertex) (Edge, error) {
	if err := p.validate(e); err != nil {
		return NilEdge, err
	}
	a := e.Origin()
	d := e.Dual()
	prev := e.Reverse()
	dualFwd := d.Forward()

	ne := p.Allocate(a, m)
	e.setOrigin(m)

	prev.SetForward(ne)
	ne.SetForward(e)
	d.SetForward(ne.Dual())
	ne.Dual().SetForward(dualFwd)

	ne.copyConstraintState(e)
	if line := ne.LineIndex(); line >= 0 {
		p.noteLineEdge(line, ne)
	}
	return ne, nil
}

// Flip replaces the diagonal of the convex quadrilateral formed by the two
// triangles incident to e. The pair is rewired in place; no allocation
// occurs. Flipping a constrained edge or an edge of a ghost triangle is an
// invariant violation.
func (p *Pool) Flip(e Edge) error {
	if err := p.validate(e); err != nil {
		return err
	}
	if e.IsConstrained() {
		return ErrConstrainedFlip
	}
	f := e.Forward()
	r := f.Forward()
	d := e.Dual()
	f2 := d.Forward()
	r2 := f2.Forward()

	if r.Forward() != e || r2.Forward() != d {
		return fmt.Errorf("%w: flip of %v", ErrReciprocity, e)
	}

	c := f.Destination()
	t := f2.Destination()
	if e.Origin() == nil || e.Destination() == nil || c == nil || t == nil {
		return ErrGhostFlip
	}

	// The pair (a,b) becomes (c,t); the surrounding four edges are rewired
	// into the two new triangle cycles.
	e.setOrigin(c)
	d.setOrigin(t)
	e.SetForward(r2)
	r2.SetForward(f)
	f.SetForward(e)
	d.SetForward(r)
	r.SetForward(f2)
	f2.SetForward(d)

	if e.Forward().Reverse() != e || d.Forward().Reverse() != d {
		return fmt.Errorf("%w: after flip of %v", ErrReciprocity, e)
	}
	return nil
}

// Live reports whether the handle refers to a currently allocated pair of
// this pool.
func (p *Pool) Live(e Edge) bool {
	return p.validate(e) == nil
}

// StartingEdge returns an arbitrary live edge suitable for seeding a walk,
// preferring a fully interior (non-ghost) pair. Returns NilEdge when the
// pool is empty.
func (p *Pool) StartingEdge() Edge {
	fallback := NilEdge
	for _, pg := range p.pages {
		for slot := int32(0); slot < pg.watermark; slot++ {
			if pg.isFree(slot) {
				continue
			}
			e := Edge{pool: p, index: (pg.id*pairsPerPage + slot) * 2}
			if !e.IsGhost() {
				return e
			}
			if fallback.IsNil() {
				fallback = e
			}
		}
	}
	return fallback
}

// Count returns the number of allocated edge pairs.
func (p *Pool) Count() int {
	return p.pairCount
}

// MaxAllocationIndex returns the largest edge index ever assigned, or -1 for
// a pool that has never allocated.
func (p *Pool) MaxAllocationIndex() int32 {
	return p.maxIndex
}

// EdgeForIndex rebuilds a handle from a stored edge index.
func (p *Pool) EdgeForIndex(ix int32) Edge {
	return Edge{pool: p, index: ix}
}

func (p *Pool) noteLineEdge(line int, e Edge) {
	p.lineEdges[line] = e.BaseIndex()
}

// LineConstraintEdge returns a representative edge of the given linear
// constraint, if one survives in the triangulation.
func (p *Pool) LineConstraintEdge(line int) (Edge, bool) {
	ix, ok := p.lineEdges[line]
	if !ok {
		return NilEdge, false
	}
	e := Edge{pool: p, index: ix}
	if p.validate(e) != nil {
		return NilEdge, false
	}
	return e, true
}

// Clear releases every page and resets the pool to its initial state.
func (p *Pool) Clear() {
	p.pages = nil
	p.firstFree = nil
	p.pairCount = 0
	p.maxIndex = -1
	p.lineEdges = make(map[int]int32)
	p.addPage()
}

// Iterator walks the allocated edge pairs of a pool in index order.
type Iterator struct {
	pool          *Pool
	pageIx        int
	slot          int32
	includeGhosts bool
}

// Iterator returns an iterator over the base side of every allocated pair.
// Ghost pairs are skipped unless includeGhosts is set.
func (p *Pool) Iterator(includeGhosts bool) *Iterator {
	return &Iterator{pool: p, includeGhosts: includeGhosts}
}

// Next returns the next edge, or NilEdge and false when exhausted.
func (it *Iterator) Next() (Edge, bool) {
	for it.pageIx < len(it.pool.pages) {
		pg := it.pool.pages[it.pageIx]
		for it.slot < pg.watermark {
			slot := it.slot
			it.slot++
			if pg.isFree(slot) {
				continue
			}
			e := Edge{pool: it.pool, index: (pg.id*pairsPerPage + slot) * 2}
			if !it.includeGhosts && e.IsGhost() {
				continue
			}
			return e, true
		}
		it.pageIx++
		it.slot = 0
	}
	return NilEdge, false
}
