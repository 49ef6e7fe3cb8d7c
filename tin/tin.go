// Package tin implements an incremental constrained Delaunay triangulation
// over planar points with scalar Z attributes.
//
// The triangulation is built by feeding vertices to Add (or AddSorted, which
// pre-orders by Hilbert curve), optionally enforcing linear and polygon
// constraints with AddConstraints, and then querying triangles, the hull
// perimeter, interpolated surface values or the bounded Voronoi dual.
//
// Mutation is single-threaded: one logical owner feeds the triangulation.
// A locked triangulation may be shared across goroutines for read-only
// queries; the caller is responsible for enforcing the lock. IsPointInsideTin
// is not among them: it updates the triangulation's own cached search edge
// and random stream. Each Navigator carries its own.
package tin

import (
	"fmt"

	"github.com/iceisfun/gotin/constraint"
	"github.com/iceisfun/gotin/geometry"
	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

// Option configures an IncrementalTin during construction.
type Option func(*config)

type config struct {
	walkIterationCap     int
	refinementIterations int
}

func newDefaultConfig() config {
	return config{
		walkIterationCap:     1000,
		refinementIterations: 500000,
	}
}

// WithWalkIterationCap overrides the hard step budget of the point-location
// walk. Exceeding the budget is treated as an internal invariant violation,
// so the cap exists only to convert numerical pathologies into errors.
func WithWalkIterationCap(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.walkIterationCap = n
		}
	}
}

// WithRefinementIterationCap bounds the total work performed by the
// Delaunay restoration loops during constraint processing.
func WithRefinementIterationCap(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.refinementIterations = n
		}
	}
}

// IncrementalTin is an incremental 2.5D Delaunay triangulation with support
// for constrained edges and regions.
type IncrementalTin struct {
	thresholds geometry.Thresholds
	geo        *geometry.Ops
	pool       *quadedge.Pool
	cfg        config

	// staged holds vertices received before a valid initial triangle could
	// be formed.
	staged []*types.Vertex

	// vertices holds every canonical vertex in the triangulation, including
	// synthetic vertices introduced by constraint splitting.
	vertices []*types.Vertex

	bootstrapped bool
	locked       bool
	disposed     bool

	bounds    types.Rect
	hasBounds bool

	searchEdge quadedge.Edge
	walkState  uint64

	constraintsAdded bool
	constraints      []constraint.Constraint
	regionCount      int
	lineCount        int

	syntheticSeq int
}

// New creates an empty triangulation. The nominal point spacing is the
// typical distance between input samples; it seeds every geometric
// tolerance and must be strictly positive.
func New(nominalPointSpacing float64, opts ...Option) (*IncrementalTin, error) {
	if !(nominalPointSpacing > 0) {
		return nil, fmt.Errorf("%w: nominal point spacing %v must be positive",
			ErrInvalidInput, nominalPointSpacing)
	}
	cfg := newDefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	th := geometry.NewThresholds(nominalPointSpacing)
	return &IncrementalTin{
		thresholds: th,
		geo:        geometry.NewOps(th),
		pool:       quadedge.NewPool(),
		cfg:        cfg,
		searchEdge: quadedge.NilEdge,
		walkState:  0x9E3779B97F4A7C15,
	}, nil
}

// Thresholds returns the tolerances derived from the nominal point spacing.
func (t *IncrementalTin) Thresholds() geometry.Thresholds {
	return t.thresholds
}

// Geometry returns the predicate evaluator shared by the triangulation.
// It is safe for concurrent read-only use on a locked triangulation.
func (t *IncrementalTin) Geometry() *geometry.Ops {
	return t.geo
}

func (t *IncrementalTin) mutable() error {
	if t.disposed {
		return fmt.Errorf("%w: triangulation is disposed", ErrLocked)
	}
	if t.locked {
		return ErrLocked
	}
	return nil
}

// PreallocateForVertices sizes the edge pool for approximately n vertices.
// Existing edge indices are never reassigned.
func (t *IncrementalTin) PreallocateForVertices(n int) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if n < 0 {
		return fmt.Errorf("%w: negative preallocation size %d", ErrInvalidInput, n)
	}
	t.pool.Preallocate(n)
	return nil
}

// IsBootstrapped reports whether an initial triangle has been established.
func (t *IncrementalTin) IsBootstrapped() bool {
	return t.bootstrapped
}

// Bounds returns the rectangle enclosing all inserted vertices. The second
// return value is false before any vertex has been accepted.
func (t *IncrementalTin) Bounds() (types.Rect, bool) {
	return t.bounds, t.hasBounds
}

// Vertices returns a copy of the canonical vertex list. Coincident inputs
// that were merged appear once, as their merger-group representative.
func (t *IncrementalTin) Vertices() []*types.Vertex {
	out := make([]*types.Vertex, 0, len(t.vertices)+len(t.staged))
	out = append(out, t.vertices...)
	out = append(out, t.staged...)
	return out
}

// VertexCount returns the number of canonical vertices, staged or inserted.
func (t *IncrementalTin) VertexCount() int {
	return len(t.vertices) + len(t.staged)
}

// MaximumEdgeAllocationIndex returns the largest edge index ever assigned by
// the pool, or -1 before any allocation.
func (t *IncrementalTin) MaximumEdgeAllocationIndex() int32 {
	if t.disposed {
		return -1
	}
	return t.pool.MaxAllocationIndex()
}

// Lock transitions the triangulation to a read-only state in which it may be
// shared across goroutines for queries.
func (t *IncrementalTin) Lock() {
	t.locked = true
}

// Unlock returns the triangulation to its mutable state.
func (t *IncrementalTin) Unlock() {
	if !t.disposed {
		t.locked = false
	}
}

// Clear discards all vertices, edges and constraints, retaining the
// configured thresholds. The triangulation returns to its unbootstrapped
// state.
func (t *IncrementalTin) Clear() error {
	if err := t.mutable(); err != nil {
		return err
	}
	t.pool.Clear()
	t.staged = nil
	t.vertices = nil
	t.bootstrapped = false
	t.hasBounds = false
	t.searchEdge = quadedge.NilEdge
	t.constraintsAdded = false
	t.constraints = nil
	t.regionCount = 0
	t.lineCount = 0
	t.syntheticSeq = 0
	return nil
}

// Dispose releases the edge pages. The triangulation must not be used
// afterwards.
func (t *IncrementalTin) Dispose() {
	t.pool = nil
	t.staged = nil
	t.vertices = nil
	t.constraints = nil
	t.bootstrapped = false
	t.disposed = true
	t.locked = true
	t.searchEdge = quadedge.NilEdge
}

// Constraints returns the constraints in dense-index order: region-defining
// constraints first, then linear constraints.
func (t *IncrementalTin) Constraints() []constraint.Constraint {
	out := make([]constraint.Constraint, len(t.constraints))
	copy(out, t.constraints)
	return out
}

// Constraint returns the constraint with the given dense index.
func (t *IncrementalTin) Constraint(index int) (constraint.Constraint, error) {
	if index < 0 || index >= len(t.constraints) {
		return nil, fmt.Errorf("%w: constraint index %d of %d", ErrInvalidInput,
			index, len(t.constraints))
	}
	return t.constraints[index], nil
}

// constraintForEdge resolves the constraint responsible for a constrained
// edge, preferring the line label over the region label.
func (t *IncrementalTin) constraintForEdge(e quadedge.Edge) constraint.Constraint {
	if line := e.LineIndex(); line >= 0 {
		ix := t.regionCount + line
		if ix < len(t.constraints) {
			return t.constraints[ix]
		}
	}
	if region := e.RegionIndex(); region >= 0 && region < t.regionCount {
		return t.constraints[region]
	}
	if region := e.Dual().RegionIndex(); region >= 0 && region < t.regionCount {
		return t.constraints[region]
	}
	return nil
}

// IsPointInsideTin reports whether (x, y) lies inside the convex hull of the
// triangulation. An unbootstrapped triangulation contains no points.
func (t *IncrementalTin) IsPointInsideTin(x, y float64) bool {
	if !t.bootstrapped {
		return false
	}
	e, err := t.walk(t.liveSearchEdge(), x, y)
	if err != nil {
		return false
	}
	t.searchEdge = e
	return e.Forward().Destination() != nil
}

// liveSearchEdge returns the cached walk hint, replacing it when the hinted
// edge has been deallocated.
func (t *IncrementalTin) liveSearchEdge() quadedge.Edge {
	if !t.searchEdge.IsNil() && t.pool.Live(t.searchEdge) {
		return t.searchEdge
	}
	t.searchEdge = t.pool.StartingEdge()
	return t.searchEdge
}

func (t *IncrementalTin) extendBounds(v *types.Vertex) {
	if !t.hasBounds {
		t.bounds = types.Rect{Min: v.Point(), Max: v.Point()}
		t.hasBounds = true
		return
	}
	t.bounds = t.bounds.Extend(v.X, v.Y)
}

func (t *IncrementalTin) nextSyntheticIndex() int {
	t.syntheticSeq++
	return -1 - t.syntheticSeq
}
