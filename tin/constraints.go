package tin

import (
	"fmt"
	"math"

	"github.com/iceisfun/gotin/constraint"
	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/types"
)

// AddConstraints enforces the given linear and polygon constraints on the
// triangulation. It may be called at most once: once a call has passed the
// lock, empty-list and bootstrap checks, every later call fails with
// ErrAlreadyConstrained, whether or not that call succeeded. A call rejected
// by one of those checks does not count.
//
// Processing runs in phases:
//  1. Vertex reconciliation: constraints are completed and their vertices
//     inserted; coincident vertices come back as canonical merged instances
//     and the constraint vertex lists are remapped accordingly.
//  2. Indexing: region-defining constraints receive dense indices first,
//     then line constraints.
//  3. Edge realization: each constraint segment is located by pinwheel
//     search or forced by tunneling and cavity filling.
//  4. Conformity restoration (optional): constrained edges that violate the
//     Delaunay criterion are split at their midpoints.
//  5. Region flood fill: interior edges of each non-hole polygon receive
//     the polygon's region index.
//  6. Linking: each constraint keeps a back-reference to one of its edges.
func (t *IncrementalTin) AddConstraints(list []constraint.Constraint, restoreConformity bool) error {
	if err := t.mutable(); err != nil {
		return err
	}
	if t.constraintsAdded {
		return ErrAlreadyConstrained
	}
	if len(list) == 0 {
		return fmt.Errorf("%w: empty constraint list", ErrInvalidInput)
	}
	if !t.bootstrapped {
		return ErrNotBootstrapped
	}
	t.constraintsAdded = true

	// Phase 1: vertex reconciliation.
	for _, c := range list {
		if c == nil {
			return fmt.Errorf("%w: nil constraint", ErrInvalidInput)
		}
		if err := c.Complete(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		verts := c.Vertices()
		remapped := make([]*types.Vertex, 0, len(verts))
		for _, v := range verts {
			canon, err := t.addVertex(v)
			if err != nil {
				return err
			}
			canon.SetConstraintMember(true)
			if n := len(remapped); n > 0 && remapped[n-1] == canon {
				continue
			}
			remapped = append(remapped, canon)
		}
		c.ReplaceVertices(remapped)
	}

	// Phase 2: dense indexing, regions first.
	var regions, lines []constraint.Constraint
	for _, c := range list {
		if c.DefinesRegion() {
			regions = append(regions, c)
		} else {
			lines = append(lines, c)
		}
	}
	if len(regions) > quadedge.MaxRegionConstraintIndex+1 {
		return fmt.Errorf("%w: %d region constraints", ErrCapacityExceeded, len(regions))
	}
	if len(lines) > quadedge.MaxLineConstraintIndex+1 {
		return fmt.Errorf("%w: %d line constraints", ErrCapacityExceeded, len(lines))
	}
	t.constraints = append(append([]constraint.Constraint(nil), regions...), lines...)
	for i, c := range t.constraints {
		c.SetIndex(i)
	}
	t.regionCount = len(regions)
	t.lineCount = len(lines)

	// Phase 3: per-constraint edge realization (phase 6 linking happens as
	// the first edge of each constraint materializes).
	for _, c := range t.constraints {
		if err := t.realizeConstraint(c); err != nil {
			return err
		}
	}

	// Phase 4: optional conformity restoration.
	if restoreConformity {
		if err := t.restoreConformity(); err != nil {
			return err
		}
	}

	// Phase 5: region flood fill.
	t.floodFillRegions()
	return nil
}

// realizeConstraint forces every segment of the constraint into the
// triangulation and labels the resulting edges. Collinear mesh vertices
// discovered on a segment are spliced into the constraint's vertex list and
// the segment resumes from them.
func (t *IncrementalTin) realizeConstraint(c constraint.Constraint) error {
	verts := c.Vertices()
	isRegion := c.DefinesRegion()
	i := 0
	guard := 0
	for i+1 < len(verts) {
		guard++
		if guard > t.cfg.refinementIterations {
			return fmt.Errorf("%w: constraint realization stalled", ErrInternalInvariant)
		}
		v0 := verts[i]
		v1 := verts[i+1]
		if v0 == v1 {
			verts = append(verts[:i], verts[i+1:]...)
			continue
		}
		e, terminal, err := t.constrainSegment(v0, v1)
		if err != nil {
			return err
		}
		e.SetConstrained()
		if isRegion {
			e.MarkRegionBorder(c.Index())
		} else {
			e.MarkLineMember(c.Index() - t.regionCount)
		}
		if c.Edge().IsNil() {
			c.LinkEdge(e)
		}
		if terminal != v1 && !terminal.Represents(v1) && !v1.Represents(terminal) {
			// Intermediate collinear vertex: record it and resume there.
			terminal.SetConstraintMember(true)
			rest := append([]*types.Vertex{terminal}, verts[i+1:]...)
			verts = append(verts[:i+1], rest...)
		}
		i++
	}
	c.ReplaceVertices(verts)
	return nil
}

// edgeFromVertex returns an edge whose origin is v (or a merger group
// containing v).
func (t *IncrementalTin) edgeFromVertex(v *types.Vertex) (quadedge.Edge, error) {
	e, err := t.walk(t.liveSearchEdge(), v.X, v.Y)
	if err != nil {
		return quadedge.NilEdge, err
	}
	matches := func(w *types.Vertex) bool {
		return w != nil && (w == v || w.Represents(v))
	}
	switch {
	case matches(e.Origin()):
		return e, nil
	case matches(e.Destination()):
		return e.Dual(), nil
	case matches(e.Forward().Destination()):
		return e.Forward().Dual(), nil
	}
	return quadedge.NilEdge, fmt.Errorf("%w: constraint vertex %d is not in the triangulation",
		ErrInternalInvariant, v.Index)
}

// constrainSegment realizes the constraint segment v0 -> v1, returning the
// constrained edge leaving v0 and the vertex it actually reached: v1, or a
// collinear mesh vertex lying between v0 and v1.
func (t *IncrementalTin) constrainSegment(v0, v1 *types.Vertex) (quadedge.Edge, *types.Vertex, error) {
	e0, err := t.edgeFromVertex(v0)
	if err != nil {
		return quadedge.NilEdge, nil, err
	}
	limit2 := v0.DistanceSq(v1.X, v1.Y)

	// Pinwheel search: an incident edge may already span the segment, or a
	// vertex on the ray may shorten it.
	s := e0
	for i := 0; i < t.cfg.walkIterationCap; i++ {
		if dst := s.Destination(); dst != nil {
			if dst == v1 || dst.Represents(v1) || v1.Represents(dst) {
				return s, v1, nil
			}
			h := t.geo.HalfPlane(v0.X, v0.Y, v1.X, v1.Y, dst.X, dst.Y)
			if math.Abs(h) <= t.thresholds.HalfPlaneThreshold {
				d := t.geo.Direction(v0.X, v0.Y, v1.X, v1.Y, dst.X, dst.Y)
				if d > 0 && v0.DistanceSq(dst.X, dst.Y) < limit2 {
					return s, dst, nil
				}
			}
		}
		s = s.DualFromForward()
		if s == e0 {
			break
		}
	}

	// Straddle detection: find the wedge at v0 whose far edge separates v0
	// from v1. Pinwheel rotation is clockwise, so the left-side neighbor of
	// the ray is the current destination and the right-side neighbor the
	// next one.
	s = e0
	for i := 0; i < t.cfg.walkIterationCap; i++ {
		sn := s.DualFromForward()
		nA := s.Destination()
		nB := sn.Destination()
		if nA != nil && nB != nil {
			hA := t.geo.HalfPlane(v0.X, v0.Y, v1.X, v1.Y, nA.X, nA.Y)
			hB := t.geo.HalfPlane(v0.X, v0.Y, v1.X, v1.Y, nB.X, nB.Y)
			if hA > t.thresholds.HalfPlaneThreshold && hB < -t.thresholds.HalfPlaneThreshold {
				g := sn.Forward() // (nB, nA), right to left across the ray
				hv1 := t.geo.HalfPlane(nB.X, nB.Y, nA.X, nA.Y, v1.X, v1.Y)
				if hv1 < 0 {
					return t.tunnel(v0, v1, sn, g)
				}
			}
		}
		s = sn
		if s == e0 {
			break
		}
	}
	return quadedge.NilEdge, nil, fmt.Errorf("%w: no straddle for constraint segment %d -> %d",
		ErrInternalInvariant, v0.Index, v1.Index)
}

// tunnel removes the edges crossed by the ray v0 -> v1, starting at crossed
// edge g inside the wedge edge sn = (v0, right neighbor), then closes the
// cavity with a new constrained edge and fills both sides.
func (t *IncrementalTin) tunnel(v0, v1 *types.Vertex, sn, g quadedge.Edge) (quadedge.Edge, *types.Vertex, error) {
	limit2 := v0.DistanceSq(v1.X, v1.Y)

	crossed := []quadedge.Edge{g}
	rightRim := []quadedge.Edge{sn}
	leftRimRev := []quadedge.Edge{g.Forward()}

	var terminal *types.Vertex
	for i := 0; ; i++ {
		if i >= t.cfg.walkIterationCap {
			return quadedge.NilEdge, nil, fmt.Errorf("%w: tunneling exceeded %d crossings",
				ErrInternalInvariant, t.cfg.walkIterationCap)
		}
		if g.IsConstrained() {
			return quadedge.NilEdge, nil, fmt.Errorf("%w: constraint segment %d -> %d crosses a constrained edge",
				ErrInvalidInput, v0.Index, v1.Index)
		}
		dg := g.Dual()     // (left, right) of the triangle beyond
		e1 := dg.Forward() // (right, w)
		e2 := e1.Forward() // (w, left)
		w := e1.Destination()
		if w == nil {
			return quadedge.NilEdge, nil, fmt.Errorf("%w: constraint segment %d -> %d exits the hull",
				ErrInternalInvariant, v0.Index, v1.Index)
		}

		hw := t.geo.HalfPlane(v0.X, v0.Y, v1.X, v1.Y, w.X, w.Y)
		if math.Abs(hw) <= t.thresholds.HalfPlaneThreshold {
			// Terminal vertex: v1 itself or an intermediate collinear stop.
			switch {
			case w == v1 || w.Represents(v1) || v1.Represents(w):
				terminal = v1
			default:
				d := t.geo.Direction(v0.X, v0.Y, v1.X, v1.Y, w.X, w.Y)
				if d <= 0 || v0.DistanceSq(w.X, w.Y) >= limit2 {
					return quadedge.NilEdge, nil, fmt.Errorf("%w: tunneling reached stray vertex %d",
						ErrInternalInvariant, w.Index)
				}
				terminal = w
			}
			rightRim = append(rightRim, e1)
			leftRimRev = append(leftRimRev, e2)
			break
		}

		if hw > 0 {
			leftRimRev = append(leftRimRev, e2)
			g = e1
		} else {
			rightRim = append(rightRim, e1)
			g = e2
		}
		crossed = append(crossed, g)
	}

	// The cavity closes at the mesh vertex actually reached, which for a
	// merger group may differ from the caller's v1 instance.
	c := leftRimRev[len(leftRimRev)-1].Origin()

	for _, x := range crossed {
		if err := t.pool.Deallocate(x); err != nil {
			return quadedge.NilEdge, nil, fmt.Errorf("%w: %v", ErrInternalInvariant, err)
		}
	}

	n := t.pool.Allocate(v0, c)
	// Constrained immediately: the Delaunay repair after cavity filling
	// must not flip the edge the tunnel was dug for.
	n.SetConstrained()

	left := make([]quadedge.Edge, 0, len(leftRimRev)+1)
	left = append(left, n)
	for i := len(leftRimRev) - 1; i >= 0; i-- {
		left = append(left, leftRimRev[i])
	}
	right := make([]quadedge.Edge, 0, len(rightRim)+1)
	right = append(right, n.Dual())
	right = append(right, rightRim...)

	if err := t.fillCavity(left); err != nil {
		return quadedge.NilEdge, nil, err
	}
	if err := t.fillCavity(right); err != nil {
		return quadedge.NilEdge, nil, err
	}
	t.searchEdge = n
	return n, terminal, nil
}
