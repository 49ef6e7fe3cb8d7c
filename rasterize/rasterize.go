// Package rasterize samples a locked triangulation onto a regular grid of
// surface values. Color mapping and image encoding are deliberately left to
// callers; the output is the plain float64 grid.
package rasterize

import (
	"errors"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/iceisfun/gotin/interpolation"
	"github.com/iceisfun/gotin/tin"
	"github.com/iceisfun/gotin/types"
)

// ErrEmptyGrid indicates a requested grid with no rows or columns.
var ErrEmptyGrid = errors.New("gotin: raster grid has zero extent")

// Grid is a row-major raster of interpolated surface values. Cells outside
// the hull (or rejected by the interpolator's filters) hold NaN.
type Grid struct {
	Bounds types.Rect
	Width  int
	Height int
	Values []float64
}

// Value returns the sample at column i, row j. Row zero is the bottom of
// the bounds rectangle.
func (g *Grid) Value(i, j int) float64 {
	return g.Values[j*g.Width+i]
}

// CellCenter returns the sample coordinates of column i, row j.
func (g *Grid) CellCenter(i, j int) (float64, float64) {
	x := g.Bounds.Min.X + (float64(i)+0.5)*g.Bounds.Width()/float64(g.Width)
	y := g.Bounds.Min.Y + (float64(j)+0.5)*g.Bounds.Height()/float64(g.Height)
	return x, y
}

// NewInterpolator builds an interpolator bound to the triangulation; the
// factory runs once per worker goroutine because interpolators cache search
// state and are not safe to share.
type NewInterpolator func(t *tin.IncrementalTin) interpolation.Interpolator

// Rasterize samples the triangulation over its bounds on a width x height
// grid. The triangulation must be locked: rows are processed by parallel
// workers, each with its own interpolator from the factory. A nil factory
// uses the triangular facet interpolator.
func Rasterize(t *tin.IncrementalTin, width, height int, factory NewInterpolator) (*Grid, error) {
	bounds, ok := t.Bounds()
	if !ok {
		return nil, tin.ErrNotBootstrapped
	}
	return RasterizeBounds(t, bounds, width, height, factory)
}

// RasterizeBounds samples the triangulation over an explicit rectangle.
func RasterizeBounds(t *tin.IncrementalTin, bounds types.Rect, width, height int, factory NewInterpolator) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrEmptyGrid
	}
	if !t.IsBootstrapped() {
		return nil, tin.ErrNotBootstrapped
	}
	if factory == nil {
		factory = func(t *tin.IncrementalTin) interpolation.Interpolator {
			return interpolation.NewTriangularFacet(t)
		}
	}

	g := &Grid{
		Bounds: bounds,
		Width:  width,
		Height: height,
		Values: make([]float64, width*height),
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > height {
		workers = height
	}
	if workers < 1 {
		workers = 1
	}

	rows := make(chan int, height)
	for j := 0; j < height; j++ {
		rows <- j
	}
	close(rows)

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			ip := factory(t)
			for j := range rows {
				for i := 0; i < width; i++ {
					x, y := g.CellCenter(i, j)
					g.Values[j*width+i] = ip.Interpolate(x, y, nil)
				}
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return g, nil
}

// MinMax returns the smallest and largest finite values of the grid. The
// third result is false when the grid holds no finite sample.
func (g *Grid) MinMax() (float64, float64, bool) {
	min := math.Inf(1)
	max := math.Inf(-1)
	found := false
	for _, v := range g.Values {
		if math.IsNaN(v) {
			continue
		}
		found = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max, found
}
