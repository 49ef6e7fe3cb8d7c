package types

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVertexStatusBits(t *testing.T) {
	v := NewVertex(1, 2, 3, 7)
	require.False(t, v.IsSynthetic())
	require.False(t, v.IsConstraintMember())
	require.False(t, v.IsMergerGroup())

	v.SetSynthetic(true)
	v.SetConstraintMember(true)
	require.True(t, v.IsSynthetic())
	require.True(t, v.IsConstraintMember())

	v.SetSynthetic(false)
	require.False(t, v.IsSynthetic())
	require.True(t, v.IsConstraintMember(), "clearing one bit must not clear others")
}

func TestVertexDistance(t *testing.T) {
	v := NewVertex(3, 4, 0, 0)
	require.InDelta(t, 5, v.Distance(0, 0), 1e-12)
	require.InDelta(t, 25, v.DistanceSq(0, 0), 1e-12)
}

func TestMergeIntoFormsGroup(t *testing.T) {
	a := NewVertex(5, 5, 1, 1)
	b := NewVertex(5, 5, 3, 2)
	c := NewVertex(5, 5, 5, 3)

	a.MergeInto(b)
	require.True(t, a.IsMergerGroup())
	require.True(t, a.Represents(b))
	require.InDelta(t, 2, a.Z, 1e-12, "group z is the member mean")
	require.Len(t, a.GroupMembers(), 2)

	a.MergeInto(c)
	require.InDelta(t, 3, a.Z, 1e-12)
	require.Len(t, a.GroupMembers(), 3)
	require.True(t, a.Represents(c))

	// Identity and index are preserved.
	require.Equal(t, 1, a.Index)
	require.Equal(t, 5.0, a.X)
}

func TestMergeIntoPropagatesFlags(t *testing.T) {
	a := NewVertex(0, 0, 1, 1)
	b := NewVertex(0, 0, 2, 2)
	b.SetConstraintMember(true)

	a.MergeInto(b)
	require.True(t, a.IsConstraintMember())
}

func TestMergeIntoSkipsNaNZ(t *testing.T) {
	a := NewVertex(0, 0, 2, 1)
	b := NewVertex(0, 0, math.NaN(), 2)

	a.MergeInto(b)
	require.InDelta(t, 2, a.Z, 1e-12, "NaN member must not poison the mean")
}

func TestRectOperations(t *testing.T) {
	r := Rect{Min: Point{X: 0, Y: 0}, Max: Point{X: 10, Y: 5}}
	require.Equal(t, 10.0, r.Width())
	require.Equal(t, 5.0, r.Height())
	require.True(t, r.Contains(10, 5))
	require.False(t, r.Contains(10.1, 5))

	r = r.Extend(-2, 7)
	require.Equal(t, -2.0, r.Min.X)
	require.Equal(t, 7.0, r.Max.Y)

	b := r.Buffered(10)
	require.Less(t, b.Min.X, r.Min.X)
	require.Greater(t, b.Max.Y, r.Max.Y)
}
