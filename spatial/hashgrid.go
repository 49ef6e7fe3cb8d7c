package spatial

import (
	"math"

	"github.com/iceisfun/gotin/types"
)

// HashGrid implements Index using a uniform spatial hash grid.
type HashGrid struct {
	cellSize float64
	cells    map[[2]int][]*types.Vertex
}

// NewHashGrid creates a hash grid index with the given cell size. A good
// cell size is a small multiple of the nominal point spacing.
func NewHashGrid(cellSize float64) *HashGrid {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &HashGrid{
		cellSize: cellSize,
		cells:    make(map[[2]int][]*types.Vertex),
	}
}

// AddVertex adds a vertex to the appropriate cell.
func (h *HashGrid) AddVertex(v *types.Vertex) {
	cell := h.pointToCell(v.X, v.Y)
	h.cells[cell] = append(h.cells[cell], v)
}

// FindVerticesNear returns vertices in cells overlapping the query radius.
func (h *HashGrid) FindVerticesNear(x, y, radius float64) []*types.Vertex {
	if radius < 0 {
		radius = 0
	}

	if radius == 0 {
		cell := h.pointToCell(x, y)
		return append([]*types.Vertex(nil), h.cells[cell]...)
	}

	min := h.pointToCell(x-radius, y-radius)
	max := h.pointToCell(x+radius, y+radius)

	var result []*types.Vertex
	for cy := min[1]; cy <= max[1]; cy++ {
		for cx := min[0]; cx <= max[0]; cx++ {
			if vertices, ok := h.cells[[2]int{cx, cy}]; ok {
				result = append(result, vertices...)
			}
		}
	}
	return result
}

func (h *HashGrid) pointToCell(x, y float64) [2]int {
	return [2]int{
		int(math.Floor(x / h.cellSize)),
		int(math.Floor(y / h.cellSize)),
	}
}
