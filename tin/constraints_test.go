package tin

import (
	"errors"
	"math"
	"testing"

	"github.com/iceisfun/gotin/constraint"
	"github.com/iceisfun/gotin/types"
)

func TestLinearConstraintForcesEdge(t *testing.T) {
	tn := mustTin(t, 1)
	vs := addAll(t, tn,
		[3]float64{0, 0, 0}, [3]float64{10, 0, 0}, [3]float64{5, 1, 0}, [3]float64{5, -1, 0})

	// The Delaunay diagonal of this quadrilateral is (5,1)-(5,-1); the
	// segment (0,0)-(10,0) does not exist yet.
	if _, ok := findEdge(tn, vs[0], vs[1]); ok {
		t.Fatalf("edge (0,0)-(10,0) should not be Delaunay here")
	}
	if _, ok := findEdge(tn, vs[2], vs[3]); !ok {
		t.Fatalf("Delaunay diagonal (5,1)-(5,-1) missing")
	}

	line := constraint.NewLinear(vs[0], vs[1])
	if err := tn.AddConstraints([]constraint.Constraint{line}, false); err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}

	e, ok := findEdge(tn, vs[0], vs[1])
	if !ok {
		t.Fatalf("constrained edge (0,0)-(10,0) missing after AddConstraints")
	}
	if !e.IsConstrained() || !e.IsConstraintLineMember() {
		t.Fatalf("forced edge is not flagged as a line constraint")
	}
	if got := e.LineIndex(); got != 0 {
		t.Fatalf("line index = %d, want 0", got)
	}
	if line.Edge().IsNil() {
		t.Fatalf("constraint did not receive an edge back-reference")
	}
	if _, ok := findEdge(tn, vs[2], vs[3]); ok {
		t.Fatalf("crossed diagonal survived tunneling")
	}
	if err := tn.CheckIntegrity(); err != nil {
		t.Fatalf("integrity: %v", err)
	}
}

func TestConformityRestorationSplits(t *testing.T) {
	tn := mustTin(t, 1)
	vs := addAll(t, tn,
		[3]float64{0, 0, 0}, [3]float64{10, 0, 4}, [3]float64{5, 1, 0}, [3]float64{5, -1, 0})

	line := constraint.NewLinear(vs[0], vs[1])
	if err := tn.AddConstraints([]constraint.Constraint{line}, true); err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}

	// The forced edge violates the Delaunay criterion against the apexes
	// (5,1) and (5,-1), so conformity restoration must split it at its
	// midpoint with a synthetic vertex.
	var mid *types.Vertex
	for _, v := range tn.Vertices() {
		if v.IsSynthetic() && math.Abs(v.X-5) < 1e-9 && math.Abs(v.Y) < 1e-9 {
			mid = v
			break
		}
	}
	if mid == nil {
		t.Fatalf("no synthetic midpoint vertex after conformity restoration")
	}
	if !mid.IsConstraintMember() {
		t.Fatalf("synthetic midpoint is not marked as a constraint member")
	}
	if math.Abs(mid.Z-2) > 1e-9 {
		t.Fatalf("synthetic midpoint z = %v, want endpoint mean 2", mid.Z)
	}

	// Both halves stay constrained.
	e, ok := findEdge(tn, vs[0], mid)
	if !ok || !e.IsConstrained() {
		t.Fatalf("first half missing or unconstrained")
	}
	e, ok = findEdge(tn, mid, vs[1])
	if !ok || !e.IsConstrained() {
		t.Fatalf("second half missing or unconstrained")
	}

	// No unconstrained edge may violate the criterion now.
	geo := tn.Geometry()
	for _, e := range tn.Edges() {
		if e.IsConstrained() {
			continue
		}
		c := e.Forward().Destination()
		d := e.Dual().Forward().Destination()
		if c == nil || d == nil {
			continue
		}
		if got := geo.InCircle(e.Origin(), e.Destination(), c, d); got > tn.Thresholds().DelaunayThreshold {
			t.Fatalf("edge %v violates Delaunay after conformity restoration: %v", e, got)
		}
	}
	if err := tn.CheckIntegrity(); err != nil {
		t.Fatalf("integrity: %v", err)
	}
}

func TestAddConstraintsRejectsSecondCall(t *testing.T) {
	tn := mustTin(t, 1)
	vs := addAll(t, tn,
		[3]float64{0, 0, 0}, [3]float64{10, 0, 0}, [3]float64{5, 5, 0})

	line := constraint.NewLinear(vs[0], vs[1])
	if err := tn.AddConstraints([]constraint.Constraint{line}, false); err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}
	line2 := constraint.NewLinear(vs[1], vs[2])
	if err := tn.AddConstraints([]constraint.Constraint{line2}, false); !errors.Is(err, ErrAlreadyConstrained) {
		t.Fatalf("second AddConstraints = %v, want ErrAlreadyConstrained", err)
	}
}

func TestAddConstraintsValidatesInput(t *testing.T) {
	tn := mustTin(t, 1)
	addAll(t, tn, [3]float64{0, 0, 0}, [3]float64{10, 0, 0}, [3]float64{5, 5, 0})

	if err := tn.AddConstraints(nil, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nil list = %v, want ErrInvalidInput", err)
	}

	tn2 := mustTin(t, 1)
	bad := constraint.NewPolygon(
		types.NewVertex(0, 0, 0, 0),
		types.NewVertex(1, 0, 0, 1),
	)
	addAll(t, tn2, [3]float64{0, 0, 0}, [3]float64{10, 0, 0}, [3]float64{5, 5, 0})
	if err := tn2.AddConstraints([]constraint.Constraint{bad}, false); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("two-vertex polygon = %v, want ErrInvalidInput", err)
	}
}

func TestRegionFloodFillWithHole(t *testing.T) {
	tn := mustTin(t, 100)

	// Sparse interior points: inside the region, inside the hole, and on
	// neither border.
	sparse := [][3]float64{
		{150, 150, 0}, {850, 150, 0}, {850, 850, 0}, {150, 850, 0},
		{500, 150, 0}, {150, 500, 0}, {850, 500, 0}, {500, 850, 0},
		{500, 500, 0},
	}
	addAll(t, tn, sparse...)

	outer := constraint.NewPolygon(
		types.NewVertex(0, 0, 0, 100),
		types.NewVertex(1000, 0, 0, 101),
		types.NewVertex(1000, 1000, 0, 102),
		types.NewVertex(0, 1000, 0, 103),
	)
	// Clockwise inner square: a hole.
	inner := constraint.NewPolygon(
		types.NewVertex(300, 300, 0, 104),
		types.NewVertex(300, 700, 0, 105),
		types.NewVertex(700, 700, 0, 106),
		types.NewVertex(700, 300, 0, 107),
	)
	if err := tn.AddConstraints([]constraint.Constraint{outer, inner}, false); err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}
	if !inner.IsHole() {
		t.Fatalf("clockwise polygon not detected as hole")
	}
	outerIx := outer.Index()

	inHole := func(x, y float64) bool {
		return x > 300 && x < 700 && y > 300 && y < 700
	}

	checked := 0
	for _, e := range tn.Edges() {
		if e.IsConstraintRegionBorder() || e.Dual().IsConstraintRegionBorder() {
			continue
		}
		mx := (e.Origin().X + e.Destination().X) / 2
		my := (e.Origin().Y + e.Destination().Y) / 2
		if inHole(mx, my) {
			if e.IsConstraintRegionInterior() {
				t.Fatalf("edge %v inside the hole is marked region-interior", e)
			}
		} else {
			if !e.IsConstraintRegionInterior() {
				t.Fatalf("edge %v in the region is not marked region-interior", e)
			}
			if got := e.RegionIndex(); got != outerIx {
				t.Fatalf("edge %v region = %d, want %d", e, got, outerIx)
			}
		}
		checked++
	}
	if checked == 0 {
		t.Fatalf("no edges classified")
	}
	if err := tn.CheckIntegrity(); err != nil {
		t.Fatalf("integrity: %v", err)
	}
}

func TestCollinearVertexShortCircuit(t *testing.T) {
	tn := mustTin(t, 1)
	vs := addAll(t, tn,
		[3]float64{0, 0, 0}, [3]float64{10, 0, 0}, [3]float64{5, 0, 0},
		[3]float64{5, 4, 0}, [3]float64{5, -4, 0})

	// (5,0) lies on the constraint segment; realization must pass through
	// it and still constrain both halves.
	line := constraint.NewLinear(vs[0], vs[1])
	if err := tn.AddConstraints([]constraint.Constraint{line}, false); err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}

	e, ok := findEdge(tn, vs[0], vs[2])
	if !ok || !e.IsConstrained() {
		t.Fatalf("first half to collinear vertex missing or unconstrained")
	}
	e, ok = findEdge(tn, vs[2], vs[1])
	if !ok || !e.IsConstrained() {
		t.Fatalf("second half from collinear vertex missing or unconstrained")
	}
	// The intermediate vertex is recorded in the constraint's vertex list.
	found := false
	for _, v := range line.Vertices() {
		if v == vs[2] {
			found = true
		}
	}
	if !found {
		t.Fatalf("collinear vertex not spliced into the constraint vertex list")
	}
	if err := tn.CheckIntegrity(); err != nil {
		t.Fatalf("integrity: %v", err)
	}
}

func TestConstraintVertexMerging(t *testing.T) {
	tn := mustTin(t, 1)
	vs := addAll(t, tn,
		[3]float64{0, 0, 0}, [3]float64{10, 0, 0}, [3]float64{5, 5, 0})

	// Constraint endpoints that coincide with existing vertices are
	// remapped to the canonical instances.
	a := types.NewVertex(1e-12, 0, 7, 50)
	b := types.NewVertex(10, 1e-12, 7, 51)
	line := constraint.NewLinear(a, b)
	if err := tn.AddConstraints([]constraint.Constraint{line}, false); err != nil {
		t.Fatalf("AddConstraints: %v", err)
	}

	remapped := line.Vertices()
	if len(remapped) != 2 {
		t.Fatalf("remapped vertex list has %d entries, want 2", len(remapped))
	}
	if remapped[0] != vs[0] || remapped[1] != vs[1] {
		t.Fatalf("constraint vertices were not remapped to canonical instances")
	}
	if !vs[0].IsMergerGroup() || !vs[0].Represents(a) {
		t.Fatalf("canonical vertex did not absorb the coincident constraint vertex")
	}
	e, ok := findEdge(tn, vs[0], vs[1])
	if !ok || !e.IsConstrained() {
		t.Fatalf("constraint edge between canonical vertices missing")
	}
}
