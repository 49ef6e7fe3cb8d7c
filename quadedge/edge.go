package quadedge

import (
	"fmt"
	"math"

	"github.com/iceisfun/gotin/types"
)

// Edge is a handle to one directed side of an edge pair stored in a Pool.
//
// Handles are small values and are copied freely. The even-indexed side of a
// pair is the base, the odd side its dual of opposite orientation; the two
// indices differ only in the low bit. A handle with index -1 is the nil edge.
//
// The destination of an edge is the origin of its dual. A nil origin or
// destination is the ghost vertex: the edge belongs to one of the exterior
// (ghost) triangles that close the triangulation over the point at infinity.
type Edge struct {
	pool  *Pool
	index int32
}

// NilEdge is the handle representing no edge. It is not the zero value of
// Edge: a zero Edge has index 0.
var NilEdge = Edge{index: -1}

// IsNil reports whether the handle refers to no edge.
func (e Edge) IsNil() bool {
	return e.index < 0
}

// Index returns the edge's index within its pool. Base sides are even, duals
// odd; index(dual(e)) == index(e) XOR 1.
func (e Edge) Index() int32 {
	return e.index
}

// BaseIndex returns the even index identifying the edge pair.
func (e Edge) BaseIndex() int32 {
	return e.index &^ 1
}

// Dual returns the opposite-orientation side of the pair.
func (e Edge) Dual() Edge {
	if e.IsNil() {
		return NilEdge
	}
	return Edge{pool: e.pool, index: e.index ^ 1}
}

func (e Edge) side() int32 {
	return e.index & 1
}

func (e Edge) pg() (*page, int32) {
	pair := e.index >> 1
	return e.pool.pages[pair/pairsPerPage], pair % pairsPerPage
}

// Origin returns the vertex the edge starts at, or nil for a ghost origin.
// The nil edge has no origin.
func (e Edge) Origin() *types.Vertex {
	if e.IsNil() {
		return nil
	}
	p, slot := e.pg()
	return p.vertices[slot*2+e.side()]
}

// Destination returns the vertex the edge ends at, or nil for the ghost.
func (e Edge) Destination() *types.Vertex {
	if e.IsNil() {
		return nil
	}
	p, slot := e.pg()
	return p.vertices[slot*2+(e.side()^1)]
}

// setOrigin replaces the origin vertex. Used by Split and Flip which rewire
// pairs in place.
func (e Edge) setOrigin(v *types.Vertex) {
	p, slot := e.pg()
	p.vertices[slot*2+e.side()] = v
}

// Forward returns the next edge counter-clockwise around the left face, or
// the nil edge when e is nil or detached.
func (e Edge) Forward() Edge {
	if e.IsNil() {
		return NilEdge
	}
	p, slot := e.pg()
	return Edge{pool: e.pool, index: p.links[slot*4+e.side()*2]}
}

// Reverse returns the previous edge around the left face, or the nil edge
// when e is nil or detached.
func (e Edge) Reverse() Edge {
	if e.IsNil() {
		return NilEdge
	}
	p, slot := e.pg()
	return Edge{pool: e.pool, index: p.links[slot*4+e.side()*2+1]}
}

// SetForward links f as the forward edge of e and reciprocally sets e as the
// reverse of f, maintaining forward(reverse(e)) == e.
func (e Edge) SetForward(f Edge) {
	p, slot := e.pg()
	p.links[slot*4+e.side()*2] = f.index
	fp, fslot := f.pg()
	fp.links[fslot*4+f.side()*2+1] = e.index
}

// DualFromForward is the pinwheel step: it returns the next edge sharing e's
// origin, rotating through the faces incident to that vertex. Repeated
// application cycles through every edge whose origin is origin(e).
func (e Edge) DualFromForward() Edge {
	return e.Dual().Forward()
}

// IsGhost reports whether either endpoint of the pair is the ghost vertex.
func (e Edge) IsGhost() bool {
	return e.Origin() == nil || e.Destination() == nil
}

// Length returns the Euclidean length of the edge, or NaN for ghost edges.
func (e Edge) Length() float64 {
	a := e.Origin()
	b := e.Destination()
	if a == nil || b == nil {
		return math.NaN()
	}
	return a.Distance(b.X, b.Y)
}

// word returns the constraint word of the given side of the pair.
func (e Edge) word(side int32) int32 {
	p, slot := e.pg()
	return p.words[slot*2+side]
}

func (e Edge) setWord(side int32, w int32) {
	p, slot := e.pg()
	p.words[slot*2+side] = w
}

// flagWord returns the flag-bearing (odd side) constraint word.
func (e Edge) flagWord() int32 {
	return e.word(1)
}

func (e Edge) orFlagWord(bits int32) {
	e.setWord(1, e.word(1)|bits)
}

// IsConstrained reports whether the pair carries the constrained flag. Region
// borders and line members carry it; region-interior marking does not.
func (e Edge) IsConstrained() bool {
	return e.flagWord()&constraintFlagConstrained != 0
}

// SetConstrained marks the pair as constrained.
func (e Edge) SetConstrained() {
	e.orFlagWord(constraintFlagConstrained)
}

// IsConstraintRegionBorder reports whether the pair lies on the border of a
// polygon constraint.
func (e Edge) IsConstraintRegionBorder() bool {
	return e.flagWord()&constraintFlagRegionBorder != 0
}

// IsConstraintRegionInterior reports whether the pair lies in the interior
// of a polygon constraint.
func (e Edge) IsConstraintRegionInterior() bool {
	return e.flagWord()&constraintFlagRegionInterior != 0
}

// IsConstraintLineMember reports whether the pair belongs to a linear
// constraint.
func (e Edge) IsConstraintLineMember() bool {
	return e.flagWord()&constraintFlagLineMember != 0
}

// IsSynthetic reports whether the pair was introduced by edge splitting
// rather than by direct insertion.
func (e Edge) IsSynthetic() bool {
	return e.flagWord()&constraintFlagSynthetic != 0
}

// SetSynthetic marks the pair as synthetic.
func (e Edge) SetSynthetic() {
	e.orFlagWord(constraintFlagSynthetic)
}

// MarkRegionBorder labels this directed side as bordering the given polygon
// constraint on its left, and raises the shared border and constrained flags.
func (e Edge) MarkRegionBorder(region int) {
	w := e.word(e.side())
	w = (w &^ constraintRegionMask) | int32(region+1)
	e.setWord(e.side(), w)
	e.orFlagWord(constraintFlagRegionBorder | constraintFlagConstrained)
}

// MarkRegionInterior labels the pair as interior to the given polygon
// constraint. Interior marking does not set the constrained flag: interior
// edges remain flippable.
func (e Edge) MarkRegionInterior(region int) {
	w := e.word(1)
	w = (w &^ constraintRegionMask) | int32(region+1) | constraintFlagRegionInterior
	e.setWord(1, w)
}

// MarkLineMember labels the pair as a member of the given linear constraint
// and raises the constrained flag.
func (e Edge) MarkLineMember(line int) {
	w := e.word(1)
	w = (w &^ constraintLineMask) | (int32(line+1) << constraintLineShift) |
		constraintFlagLineMember | constraintFlagConstrained
	e.setWord(1, w)
	e.pool.noteLineEdge(line, e)
}

// RegionIndex returns the polygon constraint index recorded for this side,
// falling back to the pair's shared word when the edge is not a border, or
// -1 when none is recorded.
func (e Edge) RegionIndex() int {
	if r := e.word(e.side()) & constraintRegionMask; r != 0 {
		return int(r) - 1
	}
	if !e.IsConstraintRegionBorder() {
		if r := e.word(1) & constraintRegionMask; r != 0 {
			return int(r) - 1
		}
	}
	return -1
}

// LineIndex returns the linear constraint index recorded on the pair, or -1.
func (e Edge) LineIndex() int {
	if l := (e.flagWord() & constraintLineMask) >> constraintLineShift; l != 0 {
		return int(l) - 1
	}
	return -1
}

// copyConstraintState copies both side words from src, preserving flags and
// indices across a Split.
func (e Edge) copyConstraintState(src Edge) {
	base := Edge{pool: e.pool, index: e.BaseIndex()}
	srcBase := Edge{pool: src.pool, index: src.BaseIndex()}
	base.setWord(0, srcBase.word(0))
	base.setWord(1, srcBase.word(1))
}

// String renders the edge for diagnostics, using G for the ghost vertex.
func (e Edge) String() string {
	if e.IsNil() {
		return "edge(nil)"
	}
	name := func(v *types.Vertex) string {
		if v == nil {
			return "G"
		}
		return fmt.Sprintf("%d(%.6g,%.6g)", v.Index, v.X, v.Y)
	}
	return fmt.Sprintf("edge %d: %s -> %s", e.index, name(e.Origin()), name(e.Destination()))
}
