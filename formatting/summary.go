package formatting

import (
	"fmt"

	"github.com/iceisfun/gotin/tin"
)

// TinSummary returns a one-line description of a triangulation's size,
// suitable for example programs and debug logs.
func TinSummary(t *tin.IncrementalTin) string {
	if !t.IsBootstrapped() {
		return fmt.Sprintf("tin: not bootstrapped, %d staged vertices", t.VertexCount())
	}
	count := t.CountTriangles()
	return fmt.Sprintf("tin: %d vertices, %d triangles (%d ghost, %d constrained), max edge index %d",
		t.VertexCount(), count.Valid, count.Ghost, count.Constrained,
		t.MaximumEdgeAllocationIndex())
}
