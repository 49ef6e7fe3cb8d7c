package interpolation

import (
	"math"

	"github.com/iceisfun/gotin/spatial"
	"github.com/iceisfun/gotin/tin"
)

// InverseDistanceWeighting estimates values as a Shepard-style weighted mean
// of the vertices near the query point. Unlike the facet interpolator it
// smooths over local noise, at the cost of not honoring the triangulated
// surface exactly.
//
// Samples are gathered from a hash grid built lazily over the
// triangulation's vertices; ResetForChangeToTin discards it.
type InverseDistanceWeighting struct {
	t    *tin.IncrementalTin
	nav  *tin.Navigator
	grid *spatial.HashGrid
	cfg  config
}

// NewInverseDistanceWeighting creates an IDW interpolator over the
// triangulation.
func NewInverseDistanceWeighting(t *tin.IncrementalTin, opts ...Option) *InverseDistanceWeighting {
	cfg := newDefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.searchRadius <= 0 {
		cfg.searchRadius = 7 * t.Thresholds().NominalPointSpacing
	}
	return &InverseDistanceWeighting{t: t, nav: t.Navigator(), cfg: cfg}
}

// Method returns the interpolator name.
func (ip *InverseDistanceWeighting) Method() string {
	return "InverseDistanceWeighting"
}

// ResetForChangeToTin invalidates the cached walk state and the sample grid.
func (ip *InverseDistanceWeighting) ResetForChangeToTin() {
	ip.nav.ResetForChangeToTin()
	ip.grid = nil
}

func (ip *InverseDistanceWeighting) ensureGrid() {
	if ip.grid != nil {
		return
	}
	ip.grid = spatial.NewHashGrid(ip.cfg.searchRadius)
	for _, v := range ip.t.Vertices() {
		ip.grid.AddVertex(v)
	}
}

// Interpolate returns the inverse-distance weighted mean of the samples
// within the search radius, or NaN outside the hull or when no usable
// sample is in range.
func (ip *InverseDistanceWeighting) Interpolate(x, y float64, valuator Valuator) float64 {
	val := resolveValuator(valuator)

	e, inside, err := ip.nav.Locate(x, y)
	if err != nil || !inside {
		return math.NaN()
	}
	if ip.cfg.constrainedRegionsOnly && triangleRegion(e) < 0 {
		return math.NaN()
	}

	ip.ensureGrid()
	radius := ip.cfg.searchRadius
	if !math.IsInf(ip.cfg.maxDistance, 1) && ip.cfg.maxDistance < radius {
		radius = ip.cfg.maxDistance
	}

	var sum, weight float64
	found := false
	th := ip.t.Thresholds()
	for _, v := range ip.grid.FindVerticesNear(x, y, radius) {
		d2 := v.DistanceSq(x, y)
		if d2 > radius*radius {
			continue
		}
		z := val.Value(v)
		if math.IsNaN(z) {
			continue
		}
		if d2 < th.VertexTolerance2 {
			// Query coincides with a sample.
			return z
		}
		w := math.Pow(d2, -ip.cfg.power/2)
		sum += w * z
		weight += w
		found = true
	}
	if !found || weight < th.PrecisionThreshold*th.PrecisionThreshold {
		return math.NaN()
	}
	return sum / weight
}
