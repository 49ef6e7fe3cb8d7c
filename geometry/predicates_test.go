package geometry

import (
	"math"
	"testing"

	"github.com/iceisfun/gotin/types"
)

func vtx(x, y float64) *types.Vertex {
	return types.NewVertex(x, y, 0, 0)
}

func TestOrientationSigns(t *testing.T) {
	o := NewOps(NewThresholds(1))
	a := vtx(0, 0)
	b := vtx(1, 0)
	c := vtx(0, 1)

	if got := o.Orientation(a, b, c); got <= 0 {
		t.Fatalf("counter-clockwise orientation = %v, want > 0", got)
	}
	if got := o.Orientation(a, c, b); got >= 0 {
		t.Fatalf("clockwise orientation = %v, want < 0", got)
	}
	if got := o.Orientation(a, b, vtx(2, 0)); math.Abs(got) > o.Thresholds.HalfPlaneThreshold {
		t.Fatalf("collinear orientation = %v, want ~0", got)
	}
}

func TestHalfPlaneNearDegenerate(t *testing.T) {
	o := NewOps(NewThresholds(1))

	// A point displaced from the line by less than double-precision noise
	// around the fast determinant must still get a consistent, repeatable
	// answer from the extended-precision path.
	const tiny = 1e-18
	first := o.HalfPlane(0, 0, 1, 0, 0.5, tiny)
	for i := 0; i < 10; i++ {
		if got := o.HalfPlane(0, 0, 1, 0, 0.5, tiny); got != first {
			t.Fatalf("half-plane result not deterministic: %v then %v", first, got)
		}
	}
	if first <= 0 {
		t.Fatalf("point above the line got half-plane %v, want > 0", first)
	}
}

func TestInCircle(t *testing.T) {
	o := NewOps(NewThresholds(1))
	a := vtx(0, 0)
	b := vtx(1, 0)
	c := vtx(0, 1)

	if got := o.InCircle(a, b, c, vtx(0.4, 0.4)); got <= 0 {
		t.Fatalf("interior point in-circle = %v, want > 0", got)
	}
	if got := o.InCircle(a, b, c, vtx(5, 5)); got >= 0 {
		t.Fatalf("distant point in-circle = %v, want < 0", got)
	}

	// The four corners of the unit square are exactly cocircular.
	if got := o.InCircle(a, b, vtx(1, 1), c); math.Abs(got) > o.Thresholds.InCircleThreshold {
		t.Fatalf("cocircular in-circle = %v, want within %v of zero",
			got, o.Thresholds.InCircleThreshold)
	}
}

func TestCircumcircle(t *testing.T) {
	o := NewOps(NewThresholds(1))
	center, radius, err := o.Circumcircle(vtx(0, 0), vtx(2, 0), vtx(1, 1))
	if err != nil {
		t.Fatalf("circumcircle: %v", err)
	}
	if math.Abs(center.X-1) > 1e-12 || math.Abs(center.Y-0) > 1e-12 {
		t.Fatalf("circumcenter = %+v, want (1, 0)", center)
	}
	if math.Abs(radius-1) > 1e-12 {
		t.Fatalf("circumradius = %v, want 1", radius)
	}

	if _, _, err := o.Circumcircle(vtx(0, 0), vtx(1, 0), vtx(2, 1e-14)); err == nil {
		t.Fatalf("near-degenerate circumcircle did not fail")
	}
}

func TestDirection(t *testing.T) {
	o := NewOps(NewThresholds(1))
	if got := o.Direction(0, 0, 2, 0, 1, 5); got <= 0 {
		t.Fatalf("forward point direction = %v, want > 0", got)
	}
	if got := o.Direction(0, 0, 2, 0, -1, 5); got >= 0 {
		t.Fatalf("backward point direction = %v, want < 0", got)
	}
	if got := o.Direction(0, 0, 2, 0, 3, 0); got <= 4 {
		t.Fatalf("beyond-segment direction = %v, want > |b-a|^2", got)
	}
}

func TestThresholdScaling(t *testing.T) {
	small := NewThresholds(0.001)
	large := NewThresholds(1000)

	if small.VertexTolerance >= large.VertexTolerance {
		t.Fatalf("vertex tolerance does not scale with spacing")
	}
	if small.InCircleThreshold >= large.InCircleThreshold {
		t.Fatalf("in-circle threshold does not scale with spacing")
	}
	if small.VertexTolerance2 != small.VertexTolerance*small.VertexTolerance {
		t.Fatalf("vertex tolerance square mismatch")
	}
	if small.DelaunayThreshold <= 0 {
		t.Fatalf("delaunay threshold must be positive")
	}
}
