package tin

import (
	"math"

	"github.com/iceisfun/gotin/types"
)

// bootstrapTestCap bounds the number of candidate triples examined before
// the bootstrap gives up for this round. Staged vertices are retained, so a
// later addition can still complete the bootstrap.
const bootstrapTestCap = 1 << 20

// tryBootstrap searches the staged vertices for three non-collinear points
// whose triangle area exceeds the decidable threshold, and seeds the initial
// real triangle plus its three ghost triangles. It reports whether the
// triangulation is now bootstrapped.
func (t *IncrementalTin) tryBootstrap() (bool, error) {
	if len(t.staged) < 3 {
		return false, nil
	}

	a, b, c, ok := t.findBootstrapTriple()
	if !ok {
		return false, nil
	}

	if t.geo.Orientation(a, b, c) < 0 {
		b, c = c, b
	}
	t.seedTriangle(a, b, c)

	// Move the chosen triple out of the staging buffer, then insert the
	// remainder through the regular insertion path.
	rest := make([]*types.Vertex, 0, len(t.staged)-3)
	for _, v := range t.staged {
		if v != a && v != b && v != c {
			rest = append(rest, v)
		}
	}
	t.staged = nil
	t.bootstrapped = true

	for _, v := range rest {
		if _, err := t.insert(v); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (t *IncrementalTin) findBootstrapTriple() (a, b, c *types.Vertex, ok bool) {
	n := len(t.staged)
	tests := 0
	for i := 0; i < n-2; i++ {
		vi := t.staged[i]
		for j := i + 1; j < n-1; j++ {
			vj := t.staged[j]
			if vi.DistanceSq(vj.X, vj.Y) < t.thresholds.VertexTolerance2 {
				continue
			}
			for k := j + 1; k < n; k++ {
				vk := t.staged[k]
				tests++
				if tests > bootstrapTestCap {
					return nil, nil, nil, false
				}
				if math.Abs(t.geo.Orientation(vi, vj, vk)) > t.thresholds.HalfPlaneThreshold {
					return vi, vj, vk, true
				}
			}
		}
	}
	return nil, nil, nil, false
}

// seedTriangle builds the first real triangle (a, b, c), given in
// counter-clockwise order, together with the three ghost triangles closing
// the mesh over the point at infinity. Each hull edge h = (u, v) gets the
// ghost triangle [dual(h), (u, ghost), dual((v, ghost))].
func (t *IncrementalTin) seedTriangle(a, b, c *types.Vertex) {
	e1 := t.pool.Allocate(a, b)
	e2 := t.pool.Allocate(b, c)
	e3 := t.pool.Allocate(c, a)
	ga := t.pool.Allocate(a, nil)
	gb := t.pool.Allocate(b, nil)
	gc := t.pool.Allocate(c, nil)

	e1.SetForward(e2)
	e2.SetForward(e3)
	e3.SetForward(e1)

	e1.Dual().SetForward(ga)
	ga.SetForward(gb.Dual())
	gb.Dual().SetForward(e1.Dual())

	e2.Dual().SetForward(gb)
	gb.SetForward(gc.Dual())
	gc.Dual().SetForward(e2.Dual())

	e3.Dual().SetForward(gc)
	gc.SetForward(ga.Dual())
	ga.Dual().SetForward(e3.Dual())

	t.searchEdge = e1
	t.vertices = append(t.vertices, a, b, c)
	t.extendBounds(a)
	t.extendBounds(b)
	t.extendBounds(c)
}
