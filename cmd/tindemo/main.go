// Command tindemo builds a triangulation over a synthetic sample field,
// enforces a polygon constraint, and prints diagnostics together with a few
// interpolated values.
package main

import (
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"

	"github.com/iceisfun/gotin/constraint"
	"github.com/iceisfun/gotin/formatting"
	"github.com/iceisfun/gotin/interpolation"
	"github.com/iceisfun/gotin/tin"
	"github.com/iceisfun/gotin/types"
)

func main() {
	var (
		n       = flag.Int("n", 2000, "Number of random sample points")
		seed    = flag.Int64("seed", 42, "Random seed")
		spacing = flag.Float64("spacing", 1.0, "Nominal point spacing")
	)
	flag.Parse()

	if err := run(*n, *seed, *spacing); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(n int, seed int64, spacing float64) error {
	rng := rand.New(rand.NewSource(seed))
	side := math.Sqrt(float64(n)) * spacing

	surface := func(x, y float64) float64 {
		return math.Sin(x/side*4) * math.Cos(y/side*4)
	}

	vertices := make([]*types.Vertex, 0, n)
	for i := 0; i < n; i++ {
		x := rng.Float64() * side
		y := rng.Float64() * side
		vertices = append(vertices, types.NewVertex(x, y, surface(x, y), i))
	}

	t, err := tin.New(spacing)
	if err != nil {
		return err
	}
	if err := t.PreallocateForVertices(n); err != nil {
		return err
	}
	if err := t.AddSorted(vertices); err != nil {
		return fmt.Errorf("failed to build triangulation: %w", err)
	}
	fmt.Println(formatting.TinSummary(t))

	// Constrain a square region in the middle of the field.
	lo := side * 0.25
	hi := side * 0.75
	square := constraint.NewPolygon(
		types.NewVertex(lo, lo, surface(lo, lo), n),
		types.NewVertex(hi, lo, surface(hi, lo), n+1),
		types.NewVertex(hi, hi, surface(hi, hi), n+2),
		types.NewVertex(lo, hi, surface(lo, hi), n+3),
	)
	if err := t.AddConstraints([]constraint.Constraint{square}, true); err != nil {
		return fmt.Errorf("failed to add constraints: %w", err)
	}
	fmt.Println("after constraints:", formatting.TinSummary(t))

	t.Lock()
	facet := interpolation.NewTriangularFacet(t)
	idw := interpolation.NewInverseDistanceWeighting(t)
	for i := 0; i < 5; i++ {
		x := rng.Float64() * side
		y := rng.Float64() * side
		fmt.Printf("(%8.3f, %8.3f)  true %8.4f  facet %8.4f  idw %8.4f\n",
			x, y, surface(x, y),
			facet.Interpolate(x, y, nil),
			idw.Interpolate(x, y, nil))
	}
	return nil
}
