package tin

import (
	"fmt"

	"github.com/iceisfun/gotin/spatial"
	"github.com/iceisfun/gotin/types"
)

// Add inserts a single vertex. Before the triangulation is bootstrapped the
// vertex is staged; once three non-collinear vertices are available the
// initial triangle is formed and all staged vertices are inserted.
//
// Insertion is idempotent on coincident points: a vertex within the vertex
// tolerance of an existing one is merged into it and the vertex count does
// not change.
func (t *IncrementalTin) Add(v *types.Vertex) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: nil vertex", ErrInvalidInput)
	}
	_, err := t.addVertex(v)
	return err
}

// AddVertices inserts each vertex of the list in order.
func (t *IncrementalTin) AddVertices(list []*types.Vertex) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("%w: nil vertex list", ErrInvalidInput)
	}
	for _, v := range list {
		if v == nil {
			return fmt.Errorf("%w: nil vertex in list", ErrInvalidInput)
		}
		if _, err := t.addVertex(v); err != nil {
			return err
		}
	}
	return nil
}

// AddSorted pre-orders the list along a Hilbert curve before insertion.
// Spatial locality between consecutive insertions keeps the point-location
// walk short, which matters for large inputs.
func (t *IncrementalTin) AddSorted(list []*types.Vertex) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if list == nil {
		return fmt.Errorf("%w: nil vertex list", ErrInvalidInput)
	}
	ordered := spatial.HilbertSort(list)
	t.pool.Preallocate(len(ordered) + t.VertexCount())
	return t.AddVertices(ordered)
}

// addVertex stages or inserts v and returns the canonical vertex: v itself,
// or the pre-existing merger representative when v coincides with an
// earlier insertion.
func (t *IncrementalTin) addVertex(v *types.Vertex) (*types.Vertex, error) {
	if !t.bootstrapped {
		// Coincidence against staged vertices is resolved eagerly so that
		// the staging buffer only ever holds canonical instances.
		for _, s := range t.staged {
			if t.geo.VerticesCoincide(s, v.X, v.Y) {
				s.MergeInto(v)
				return s, nil
			}
		}
		t.staged = append(t.staged, v)
		t.extendBounds(v)
		if _, err := t.tryBootstrap(); err != nil {
			return nil, err
		}
		return v, nil
	}
	return t.insert(v)
}
