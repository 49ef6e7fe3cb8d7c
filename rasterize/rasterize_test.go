package rasterize

import (
	"math"
	"testing"

	"github.com/iceisfun/gotin/interpolation"
	"github.com/iceisfun/gotin/tin"
	"github.com/iceisfun/gotin/types"
)

func plane(x, y float64) float64 {
	return 0.5*x - 2*y + 3
}

func planarTin(t *testing.T) *tin.IncrementalTin {
	t.Helper()
	tn, err := tin.New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	k := 0
	for i := 0; i <= 10; i++ {
		for j := 0; j <= 10; j++ {
			x := float64(i)
			y := float64(j)
			if err := tn.Add(types.NewVertex(x, y, plane(x, y), k)); err != nil {
				t.Fatalf("Add: %v", err)
			}
			k++
		}
	}
	tn.Lock()
	return tn
}

func TestRasterizeReproducesPlane(t *testing.T) {
	tn := planarTin(t)
	g, err := Rasterize(tn, 32, 32, nil)
	if err != nil {
		t.Fatalf("Rasterize: %v", err)
	}
	if g.Width != 32 || g.Height != 32 || len(g.Values) != 32*32 {
		t.Fatalf("grid shape %dx%d/%d", g.Width, g.Height, len(g.Values))
	}

	for j := 0; j < g.Height; j++ {
		for i := 0; i < g.Width; i++ {
			x, y := g.CellCenter(i, j)
			got := g.Value(i, j)
			if math.IsNaN(got) {
				t.Fatalf("NaN inside hull at (%v,%v)", x, y)
			}
			if want := plane(x, y); math.Abs(got-want) > 1e-9 {
				t.Fatalf("grid value at (%v,%v) = %v, want %v", x, y, got, want)
			}
		}
	}

	min, max, ok := g.MinMax()
	if !ok || min > max {
		t.Fatalf("MinMax = %v, %v, %v", min, max, ok)
	}
}

func TestRasterizeBoundsOutsideHull(t *testing.T) {
	tn := planarTin(t)
	bounds := types.Rect{
		Min: types.Point{X: -10, Y: -10},
		Max: types.Point{X: 0.5, Y: 0.5},
	}
	g, err := RasterizeBounds(tn, bounds, 8, 8, func(t *tin.IncrementalTin) interpolation.Interpolator {
		return interpolation.NewTriangularFacet(t)
	})
	if err != nil {
		t.Fatalf("RasterizeBounds: %v", err)
	}
	nan := 0
	for _, v := range g.Values {
		if math.IsNaN(v) {
			nan++
		}
	}
	if nan == 0 {
		t.Fatalf("no NaN cells for a window mostly outside the hull")
	}
}

func TestRasterizeValidation(t *testing.T) {
	tn := planarTin(t)
	if _, err := Rasterize(tn, 0, 10, nil); err == nil {
		t.Fatalf("zero-width raster did not fail")
	}
	empty, err := tin.New(1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := Rasterize(empty, 8, 8, nil); err == nil {
		t.Fatalf("raster over empty tin did not fail")
	}
}
