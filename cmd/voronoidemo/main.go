// Command voronoidemo triangulates random points and prints the bounded
// Voronoi cells of the result.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"

	"github.com/iceisfun/gotin/formatting"
	"github.com/iceisfun/gotin/tin"
	"github.com/iceisfun/gotin/types"
	"github.com/iceisfun/gotin/voronoi"
)

func main() {
	var (
		n    = flag.Int("n", 25, "Number of random sites")
		seed = flag.Int64("seed", 7, "Random seed")
	)
	flag.Parse()

	if err := run(*n, *seed); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(n int, seed int64) error {
	rng := rand.New(rand.NewSource(seed))

	t, err := tin.New(10)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		v := types.NewVertex(rng.Float64()*100, rng.Float64()*100, 0, i)
		if err := t.Add(v); err != nil {
			return err
		}
	}
	fmt.Println(formatting.TinSummary(t))
	t.Lock()

	bounds, _ := voronoi.DefaultBounds(t)
	bv, err := voronoi.New(t, bounds)
	if err != nil {
		return err
	}
	total := 0.0
	for _, cell := range bv.Cells() {
		area := cell.Area()
		total += area
		fmt.Printf("site %3d at (%7.3f, %7.3f): %2d ring vertices, area %9.3f\n",
			cell.Site.Index, cell.Site.X, cell.Site.Y, len(cell.Ring), area)
	}
	fmt.Printf("cells %d, total area %.3f, clip area %.3f\n",
		len(bv.Cells()), total, bounds.Width()*bounds.Height())
	return nil
}
