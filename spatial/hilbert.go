package spatial

import (
	"sort"

	"github.com/iceisfun/gotin/types"
)

// hilbertOrder is the recursion depth of the Hilbert ranking: coordinates
// are quantized onto a 2^16 x 2^16 grid over the input bounds, which is far
// below float64 resolution but ample for insertion locality.
const hilbertOrder = 16

// HilbertSort returns the vertices reordered along a Hilbert curve over
// their bounding box. Consecutive vertices in the result are spatially
// close, which keeps the point-location walk short during bulk insertion.
// The input slice is not modified.
func HilbertSort(list []*types.Vertex) []*types.Vertex {
	out := append([]*types.Vertex(nil), list...)
	if len(out) < 3 {
		return out
	}

	minX, minY := out[0].X, out[0].Y
	maxX, maxY := minX, minY
	for _, v := range out[1:] {
		if v.X < minX {
			minX = v.X
		}
		if v.X > maxX {
			maxX = v.X
		}
		if v.Y < minY {
			minY = v.Y
		}
		if v.Y > maxY {
			maxY = v.Y
		}
	}
	spanX := maxX - minX
	spanY := maxY - minY
	if spanX <= 0 && spanY <= 0 {
		return out
	}
	if spanX <= 0 {
		spanX = spanY
	}
	if spanY <= 0 {
		spanY = spanX
	}

	const side = 1 << hilbertOrder
	ranks := make([]uint64, len(out))
	for i, v := range out {
		gx := uint32((v.X - minX) / spanX * (side - 1))
		gy := uint32((v.Y - minY) / spanY * (side - 1))
		ranks[i] = hilbertRank(gx, gy)
	}

	// Index sort keyed by rank; stable so coincident points keep input order.
	idx := make([]int, len(out))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return ranks[idx[a]] < ranks[idx[b]] })

	sorted := make([]*types.Vertex, len(out))
	for i, j := range idx {
		sorted[i] = out[j]
	}
	return sorted
}

// hilbertRank converts grid coordinates to the distance along the Hilbert
// curve using the standard rotate-and-accumulate conversion.
func hilbertRank(x, y uint32) uint64 {
	var rank uint64
	for s := uint32(1) << (hilbertOrder - 1); s > 0; s >>= 1 {
		var rx, ry uint32
		if x&s > 0 {
			rx = 1
		}
		if y&s > 0 {
			ry = 1
		}
		rank += uint64(s) * uint64(s) * uint64((3*rx)^ry)
		x, y = hilbertRotate(s, x, y, rx, ry)
	}
	return rank
}

func hilbertRotate(s, x, y, rx, ry uint32) (uint32, uint32) {
	if ry == 0 {
		if rx == 1 {
			x = s - 1 - x
			y = s - 1 - y
		}
		x, y = y, x
	}
	return x, y
}

