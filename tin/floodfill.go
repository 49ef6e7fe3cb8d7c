package tin

import (
	"github.com/iceisfun/gotin/constraint"
	"github.com/iceisfun/gotin/quadedge"
)

// floodFillRegions propagates each non-hole polygon's region index from its
// border edges to the interior. The BFS enqueues the forward and reverse of
// each accepted edge on both sides of the pair and never crosses a region
// border, so holes (whose borders are barriers like any other) stay
// unmarked.
func (t *IncrementalTin) floodFillRegions() {
	for _, c := range t.constraints[:t.regionCount] {
		poly, ok := c.(*constraint.Polygon)
		if !ok || poly.IsHole() {
			continue
		}
		region := c.Index()

		var queue []quadedge.Edge
		it := t.pool.Iterator(true)
		for e, ok := it.Next(); ok; e, ok = it.Next() {
			for _, side := range [2]quadedge.Edge{e, e.Dual()} {
				if side.IsConstraintRegionBorder() && side.RegionIndex() == region {
					queue = append(queue, side.Forward(), side.Reverse())
				}
			}
		}

		visited := make(map[int32]bool)
		for len(queue) > 0 {
			g := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			if g.IsNil() {
				continue
			}
			base := g.BaseIndex()
			if visited[base] {
				continue
			}
			visited[base] = true
			if g.IsConstraintRegionBorder() || g.IsGhost() {
				continue
			}
			g.MarkRegionInterior(region)
			queue = append(queue,
				g.Forward(), g.Reverse(),
				g.Dual().Forward(), g.Dual().Reverse())
		}
	}
}
