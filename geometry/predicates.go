package geometry

import (
	"errors"
	"math"

	"github.com/iceisfun/gotin/types"
)

// ErrThinTriangle indicates a circumcircle was requested for a triangle whose
// area is below the decidable threshold.
var ErrThinTriangle = errors.New("gotin: circumcircle of near-degenerate triangle")

// Ops evaluates the geometric predicates used by the triangulation.
//
// Every predicate returns a signed magnitude rather than a bare sign so that
// callers can apply their own decision thresholds (for example the Delaunay
// flip epsilon). Each predicate first evaluates in native float64; when the
// magnitude of the result falls within the indecisive band defined by the
// thresholds, it is recomputed with extended precision. Results are
// deterministic and consistent across calls, which the point-location walk
// and the flip loops rely on for termination.
type Ops struct {
	Thresholds Thresholds
}

// NewOps creates a predicate evaluator for the given thresholds.
func NewOps(t Thresholds) *Ops {
	return &Ops{Thresholds: t}
}

// Orientation returns a positive value when (a, b, c) make a counter-clockwise
// turn, negative for clockwise, and a value within HalfPlaneThreshold of zero
// for (near) collinear points. The magnitude is twice the signed triangle area.
func (o *Ops) Orientation(a, b, c *types.Vertex) float64 {
	return o.HalfPlane(a.X, a.Y, b.X, b.Y, c.X, c.Y)
}

// HalfPlane returns the signed perpendicular distance from (px, py) to the
// directed line a->b, scaled by the segment length. Positive means the point
// lies to the left of the direction of travel.
func (o *Ops) HalfPlane(ax, ay, bx, by, px, py float64) float64 {
	det := (bx-ax)*(py-ay) - (by-ay)*(px-ax)
	if math.Abs(det) > o.Thresholds.HalfPlaneThreshold {
		return det
	}
	return halfPlaneExact(ax, ay, bx, by, px, py)
}

// Direction returns the dot product of (b-a) with (p-a). It disambiguates
// collinear configurations: a positive value means p lies forward of a along
// the direction of b, a value greater than |b-a| squared means p lies beyond b.
func (o *Ops) Direction(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(px-ax) + (by-ay)*(py-ay)
}

// InCircle returns a positive value when d lies strictly inside the
// circumcircle of (a, b, c), assuming (a, b, c) are in counter-clockwise
// order; negative when outside, and a value within InCircleThreshold of zero
// when the four points are (near) cocircular.
func (o *Ops) InCircle(a, b, c, d *types.Vertex) float64 {
	adx := a.X - d.X
	ady := a.Y - d.Y
	bdx := b.X - d.X
	bdy := b.Y - d.Y
	cdx := c.X - d.X
	cdy := c.Y - d.Y

	det := (adx*adx+ady*ady)*(bdx*cdy-bdy*cdx) -
		(bdx*bdx+bdy*bdy)*(adx*cdy-ady*cdx) +
		(cdx*cdx+cdy*cdy)*(adx*bdy-ady*bdx)

	if math.Abs(det) > o.Thresholds.InCircleThreshold {
		return det
	}
	return inCircleExact(a, b, c, d)
}

// Circumcircle computes the center and radius of the circle through the three
// vertices. It fails with ErrThinTriangle when the triangle area is below the
// decidable threshold and no meaningful center exists.
func (o *Ops) Circumcircle(a, b, c *types.Vertex) (types.Point, float64, error) {
	area2 := o.Orientation(a, b, c)
	if math.Abs(area2) <= o.Thresholds.HalfPlaneThreshold {
		return types.Point{}, 0, ErrThinTriangle
	}

	// Solve the perpendicular-bisector system relative to a to limit the
	// magnitude of intermediate products.
	bx := b.X - a.X
	by := b.Y - a.Y
	cx := c.X - a.X
	cy := c.Y - a.Y
	b2 := bx*bx + by*by
	c2 := cx*cx + cy*cy
	d := 2 * (bx*cy - by*cx)

	ux := (cy*b2 - by*c2) / d
	uy := (bx*c2 - cx*b2) / d
	r := math.Sqrt(ux*ux + uy*uy)
	return types.Point{X: a.X + ux, Y: a.Y + uy}, r, nil
}

// VerticesCoincide reports whether the vertex lies within the vertex
// tolerance of (x, y).
func (o *Ops) VerticesCoincide(v *types.Vertex, x, y float64) bool {
	return v.DistanceSq(x, y) < o.Thresholds.VertexTolerance2
}
