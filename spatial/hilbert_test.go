package spatial

import (
	"testing"

	"github.com/iceisfun/gotin/types"
)

func TestHilbertSortPreservesElements(t *testing.T) {
	var list []*types.Vertex
	k := 0
	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			list = append(list, types.NewVertex(float64(i*7%10), float64(j*3%10), 0, k))
			k++
		}
	}
	sorted := HilbertSort(list)
	if len(sorted) != len(list) {
		t.Fatalf("sorted length = %d, want %d", len(sorted), len(list))
	}
	seen := make(map[*types.Vertex]bool)
	for _, v := range sorted {
		if seen[v] {
			t.Fatalf("vertex %d appears twice", v.Index)
		}
		seen[v] = true
	}
	for _, v := range list {
		if !seen[v] {
			t.Fatalf("vertex %d lost by sort", v.Index)
		}
	}
}

func TestHilbertSortLocality(t *testing.T) {
	// A scattered set sorted along the curve must have a much shorter
	// traversal path than the same set in scan order.
	var list []*types.Vertex
	k := 0
	for i := 0; i < 32; i++ {
		for j := 0; j < 32; j++ {
			// Deliberately cache-hostile input order.
			list = append(list, types.NewVertex(float64((i*13)%32), float64((j*17)%32), 0, k))
			k++
		}
	}
	pathLen := func(vs []*types.Vertex) float64 {
		total := 0.0
		for i := 1; i < len(vs); i++ {
			total += vs[i].Distance(vs[i-1].X, vs[i-1].Y)
		}
		return total
	}
	sorted := HilbertSort(list)
	if pathLen(sorted) >= pathLen(list)/2 {
		t.Fatalf("hilbert path %v not substantially shorter than input path %v",
			pathLen(sorted), pathLen(list))
	}
}

func TestHilbertSortSmallInput(t *testing.T) {
	a := types.NewVertex(0, 0, 0, 0)
	b := types.NewVertex(1, 1, 0, 1)
	sorted := HilbertSort([]*types.Vertex{a, b})
	if len(sorted) != 2 {
		t.Fatalf("small input mangled")
	}
}

func TestHashGridRadiusQuery(t *testing.T) {
	g := NewHashGrid(1)
	var all []*types.Vertex
	for i := 0; i < 10; i++ {
		v := types.NewVertex(float64(i), 0, 0, i)
		all = append(all, v)
		g.AddVertex(v)
	}

	near := g.FindVerticesNear(5, 0, 1.5)
	found := make(map[int]bool)
	for _, v := range near {
		found[v.Index] = true
	}
	// Cell-level search must return at least the true neighbors.
	for _, want := range []int{4, 5, 6} {
		if !found[want] {
			t.Fatalf("vertex %d missing from radius query", want)
		}
	}
	for _, v := range near {
		if v.Distance(5, 0) > 3 {
			t.Fatalf("vertex %d far outside the padded query window", v.Index)
		}
	}
}
