package tin

import (
	"fmt"

	"github.com/iceisfun/gotin/quadedge"
)

// CheckIntegrity verifies the structural invariants of the triangulation:
// link reciprocity on every side, closed three-cycles on every face, the
// one-ghost-edge shape of exterior triangles, and the Euler relation
// T = 2V - H - 2 between triangle, vertex and hull counts.
//
// It is a diagnostic: the triangulation never calls it on its own hot path.
func (t *IncrementalTin) CheckIntegrity() error {
	if !t.bootstrapped {
		if t.pool != nil && t.pool.Count() > 0 {
			return fmt.Errorf("%w: edges allocated before bootstrap", ErrInternalInvariant)
		}
		return nil
	}

	it := t.pool.Iterator(true)
	for base, ok := it.Next(); ok; base, ok = it.Next() {
		for _, e := range [2]quadedge.Edge{base, base.Dual()} {
			if e.Dual().Dual() != e {
				return fmt.Errorf("%w: dual involution broken at %v", ErrInternalInvariant, e)
			}
			if e.Index()^1 != e.Dual().Index() {
				return fmt.Errorf("%w: dual index pairing broken at %v", ErrInternalInvariant, e)
			}
			f := e.Forward()
			if f.IsNil() || f.Reverse() != e {
				return fmt.Errorf("%w: forward/reverse reciprocity broken at %v", ErrInternalInvariant, e)
			}
			r := e.Reverse()
			if r.IsNil() || r.Forward() != e {
				return fmt.Errorf("%w: reverse/forward reciprocity broken at %v", ErrInternalInvariant, e)
			}
			if e.Forward().Forward().Forward() != e {
				return fmt.Errorf("%w: face of %v is not a triangle", ErrInternalInvariant, e)
			}
			if f.Origin() != e.Destination() {
				return fmt.Errorf("%w: forward edge does not continue %v", ErrInternalInvariant, e)
			}
		}
	}

	// Ghost triangles carry exactly one edge whose destination is the ghost.
	trIt := t.AllTriangles()
	ghosts := 0
	valid := 0
	for tr, ok := trIt.Next(); ok; tr, ok = trIt.Next() {
		if !tr.IsGhost() {
			valid++
			continue
		}
		ghosts++
		e := tr.Edge()
		nilDest := 0
		for i := 0; i < 3; i++ {
			if e.Destination() == nil {
				nilDest++
			}
			e = e.Forward()
		}
		if nilDest != 1 {
			return fmt.Errorf("%w: ghost triangle with %d ghost destinations", ErrInternalInvariant, nilDest)
		}
	}

	perimeter, err := t.Perimeter()
	if err != nil {
		return err
	}
	if ghosts != len(perimeter) {
		return fmt.Errorf("%w: %d ghost triangles for %d hull edges", ErrInternalInvariant,
			ghosts, len(perimeter))
	}
	v := len(t.vertices)
	h := len(perimeter)
	if expected := 2*v - h - 2; valid != expected {
		return fmt.Errorf("%w: %d triangles, expected 2*%d-%d-2 = %d", ErrInternalInvariant,
			valid, v, h, expected)
	}
	return nil
}
