package interpolation

import "github.com/iceisfun/gotin/quadedge"

// triangleRegion returns the region index of the triangle left of e, or -1
// when the triangle lies outside every constrained region.
func triangleRegion(e quadedge.Edge) int {
	for i := 0; i < 3; i++ {
		if r := e.RegionIndex(); r >= 0 {
			return r
		}
		e = e.Forward()
	}
	return -1
}
