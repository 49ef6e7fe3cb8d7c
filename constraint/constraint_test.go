package constraint

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/iceisfun/gotin/types"
)

func pt(x, y float64, ix int) *types.Vertex {
	return types.NewVertex(x, y, 0, ix)
}

func TestLinearComplete(t *testing.T) {
	l := NewLinear(pt(0, 0, 0))
	require.ErrorIs(t, l.Complete(), ErrTooFewVertices)

	l.AddVertex(pt(1, 0, 1))
	require.NoError(t, l.Complete())
	require.False(t, l.IsPolygon())
	require.False(t, l.DefinesRegion())
	require.Equal(t, -1, l.Index())
}

func TestPolygonCompleteClosesRing(t *testing.T) {
	p := NewPolygon(pt(0, 0, 0), pt(1, 0, 1), pt(0, 1, 2))
	require.NoError(t, p.Complete())

	verts := p.Vertices()
	require.Len(t, verts, 4)
	require.Same(t, verts[0], verts[3], "completion closes the ring")

	// Completing an explicitly closed ring must not duplicate the closure.
	require.NoError(t, p.Complete())
	require.Len(t, p.Vertices(), 4)
}

func TestPolygonTooSmall(t *testing.T) {
	p := NewPolygon(pt(0, 0, 0), pt(1, 0, 1))
	require.ErrorIs(t, p.Complete(), ErrTooFewVertices)
}

func TestPolygonOrientation(t *testing.T) {
	ccw := NewPolygon(pt(0, 0, 0), pt(1, 0, 1), pt(1, 1, 2), pt(0, 1, 3))
	require.NoError(t, ccw.Complete())
	require.Greater(t, ccw.Area(), 0.0)
	require.False(t, ccw.IsHole())

	cw := NewPolygon(pt(0, 0, 0), pt(0, 1, 1), pt(1, 1, 2), pt(1, 0, 3))
	require.NoError(t, cw.Complete())
	require.Less(t, cw.Area(), 0.0)
	require.True(t, cw.IsHole())
}

func TestDefaultZ(t *testing.T) {
	l := NewLinear(pt(0, 0, 0), pt(1, 0, 1))
	require.True(t, l.DefaultZ() != l.DefaultZ(), "unset default z is NaN")
	l.SetDefaultZ(12.5)
	require.Equal(t, 12.5, l.DefaultZ())
}
