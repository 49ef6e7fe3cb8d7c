// Package spatial provides the auxiliary spatial structures used around the
// triangulation: a uniform hash grid for radius queries over vertices and a
// Hilbert-curve ordering for insertion locality.
package spatial

import "github.com/iceisfun/gotin/types"

// Index answers proximity queries over a set of vertices.
type Index interface {
	// AddVertex records a vertex in the index.
	AddVertex(v *types.Vertex)

	// FindVerticesNear returns the vertices in cells overlapping the query
	// radius. Callers filter by exact distance.
	FindVerticesNear(x, y, radius float64) []*types.Vertex
}
