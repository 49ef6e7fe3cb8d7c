package interpolation

import (
	"math"

	"github.com/iceisfun/gotin/quadedge"
	"github.com/iceisfun/gotin/tin"
	"github.com/iceisfun/gotin/types"
)

// TriangularFacet interpolates linearly across the plane of the triangle
// containing the query point. It is exact on planar data and the cheapest
// of the interpolators; the surface it produces is continuous but not
// smooth across triangle edges.
type TriangularFacet struct {
	t   *tin.IncrementalTin
	nav *tin.Navigator
	cfg config
}

// NewTriangularFacet creates a facet interpolator over the triangulation.
func NewTriangularFacet(t *tin.IncrementalTin, opts ...Option) *TriangularFacet {
	cfg := newDefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &TriangularFacet{t: t, nav: t.Navigator(), cfg: cfg}
}

// Method returns the interpolator name.
func (ip *TriangularFacet) Method() string {
	return "TriangularFacet"
}

// ResetForChangeToTin invalidates the cached walk state.
func (ip *TriangularFacet) ResetForChangeToTin() {
	ip.nav.ResetForChangeToTin()
}

// Interpolate returns the barycentric combination of the three triangle
// corner values, or NaN outside the hull, outside the distance filter, or
// when a corner value is NaN.
func (ip *TriangularFacet) Interpolate(x, y float64, valuator Valuator) float64 {
	val := resolveValuator(valuator)
	e, inside, err := ip.nav.Locate(x, y)
	if err != nil || !inside {
		return math.NaN()
	}
	a := e.Origin()
	b := e.Destination()
	c := e.Forward().Destination()

	if !ip.admit(e, a, b, c, x, y) {
		return math.NaN()
	}

	geo := ip.t.Geometry()
	wa := geo.HalfPlane(b.X, b.Y, c.X, c.Y, x, y)
	wb := geo.HalfPlane(c.X, c.Y, a.X, a.Y, x, y)
	wc := geo.HalfPlane(a.X, a.Y, b.X, b.Y, x, y)
	// The weights sum to twice the triangle area; a vanishing sum means a
	// degenerate facet.
	sum := wa + wb + wc
	if sum <= ip.t.Thresholds().HalfPlaneThreshold {
		return math.NaN()
	}
	return (wa*val.Value(a) + wb*val.Value(b) + wc*val.Value(c)) / sum
}

func (ip *TriangularFacet) admit(e quadedge.Edge, a, b, c *types.Vertex, x, y float64) bool {
	if ip.cfg.constrainedRegionsOnly && triangleRegion(e) < 0 {
		return false
	}
	if !math.IsInf(ip.cfg.maxDistance, 1) {
		d := math.Min(a.DistanceSq(x, y), math.Min(b.DistanceSq(x, y), c.DistanceSq(x, y)))
		if d > ip.cfg.maxDistance*ip.cfg.maxDistance {
			return false
		}
	}
	return true
}
