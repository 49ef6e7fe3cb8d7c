package formatting

import (
	"fmt"
	"io"

	"github.com/iceisfun/gotin/types"
)

// VertexString returns a concise string representation of a vertex, using
// "G" for the ghost.
func VertexString(v *types.Vertex) string {
	if v == nil {
		return "G"
	}
	return fmt.Sprintf("%d(%.6g, %.6g, %.6g)", v.Index, v.X, v.Y, v.Z)
}

// WriteVertex writes a verbose representation of a vertex to a writer.
func WriteVertex(w io.Writer, v *types.Vertex) error {
	if v == nil {
		_, err := fmt.Fprint(w, "Vertex{ghost}")
		return err
	}
	_, err := fmt.Fprintf(w, "Vertex{Index: %d, X: %v, Y: %v, Z: %v, Synthetic: %v, Constraint: %v}",
		v.Index, v.X, v.Y, v.Z, v.IsSynthetic(), v.IsConstraintMember())
	return err
}
