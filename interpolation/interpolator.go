// Package interpolation provides surface-value estimation over a
// triangulation. All interpolators consume the same contract: a value of
// NaN means "no estimate" — the query fell outside the hull, beyond a
// distance filter, or on missing data.
//
// Interpolators cache a search edge and are therefore not safe for
// concurrent use; create one interpolator per goroutine over a locked
// triangulation.
package interpolation

import (
	"math"

	"github.com/iceisfun/gotin/types"
)

// Valuator maps a vertex to the scalar being interpolated. The default
// valuator reads the vertex Z coordinate; callers substitute their own to
// interpolate auxiliary attributes keyed by vertex index.
type Valuator interface {
	Value(v *types.Vertex) float64
}

// VertexZValuator is the default Valuator: the vertex elevation.
type VertexZValuator struct{}

// Value returns v.Z.
func (VertexZValuator) Value(v *types.Vertex) float64 {
	return v.Z
}

// Interpolator estimates surface values over a triangulation.
type Interpolator interface {
	// Interpolate returns the estimated value at (x, y), or NaN when no
	// estimate is possible. A nil valuator reads vertex Z values.
	Interpolate(x, y float64, valuator Valuator) float64

	// ResetForChangeToTin invalidates cached search state. Must be called
	// after any mutation of the underlying triangulation.
	ResetForChangeToTin()

	// Method returns a short human-readable name for diagnostics.
	Method() string
}

// Option configures an interpolator.
type Option func(*config)

type config struct {
	maxDistance            float64
	constrainedRegionsOnly bool
	power                  float64
	searchRadius           float64
}

func newDefaultConfig() config {
	return config{
		maxDistance: math.Inf(1),
		power:       2,
	}
}

// WithMaxInterpolationDistance makes queries return NaN when the nearest
// vertex of the containing triangle is farther than d.
func WithMaxInterpolationDistance(d float64) Option {
	return func(c *config) {
		if d > 0 {
			c.maxDistance = d
		}
	}
}

// WithConstrainedRegionsOnly suppresses results for queries that fall
// outside polygon-constraint interiors.
func WithConstrainedRegionsOnly(enable bool) Option {
	return func(c *config) {
		c.constrainedRegionsOnly = enable
	}
}

// WithPower sets the inverse-distance exponent (IDW only).
func WithPower(p float64) Option {
	return func(c *config) {
		if p > 0 {
			c.power = p
		}
	}
}

// WithSearchRadius sets the sample-gathering radius (IDW only). The default
// is a small multiple of the nominal point spacing.
func WithSearchRadius(r float64) Option {
	return func(c *config) {
		if r > 0 {
			c.searchRadius = r
		}
	}
}

func resolveValuator(valuator Valuator) Valuator {
	if valuator == nil {
		return VertexZValuator{}
	}
	return valuator
}
