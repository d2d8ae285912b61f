// Stress benchmark for the collision pipeline: tree construction, pairwise
// tree intersection, and full simulation steps at growing populations.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/voidbound/skiff/config"
	"github.com/voidbound/skiff/game"
	"github.com/voidbound/skiff/geom"
	"github.com/voidbound/skiff/systems"
)

func main() {
	seed := flag.Int64("seed", 42, "RNG seed")
	steps := flag.Int("steps", 600, "Simulation steps per population size")
	flag.Parse()

	// Keep benchmark output on stdout; route logs to stderr.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	benchTrees(*seed)
	benchSimulation(*seed, *steps)
}

// randomBlob grows a connected lattice blob of the given size, the same way
// asteroids are generated.
func randomBlob(rng *rand.Rand, size int) []geom.Vec2 {
	occupied := map[[2]int]bool{{0, 0}: true}
	cells := [][2]int{{0, 0}}
	for len(cells) < size {
		base := cells[rng.Intn(len(cells))]
		dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
		d := dirs[rng.Intn(4)]
		next := [2]int{base[0] + d[0], base[1] + d[1]}
		if occupied[next] {
			continue
		}
		occupied[next] = true
		cells = append(cells, next)
	}
	out := make([]geom.Vec2, len(cells))
	for i, c := range cells {
		out[i] = geom.Vec2{X: float64(c[0]), Y: float64(c[1])}
	}
	return out
}

func benchTrees(seed int64) {
	fmt.Println("=== tree build + intersect ===")
	rng := rand.New(rand.NewSource(seed))

	for _, size := range []int{8, 32, 128, 512, 2048} {
		cells := randomBlob(rng, size)

		const buildIters = 100
		start := time.Now()
		var tree geom.Tree
		for i := 0; i < buildIters; i++ {
			tree = geom.BuildTree(cells)
		}
		buildTime := time.Since(start) / buildIters

		other := geom.BuildTree(randomBlob(rng, size))
		const isectIters = 1000
		hits := 0
		start = time.Now()
		for i := 0; i < isectIters; i++ {
			// Slide the second blob across the first so some iterations
			// overlap and some miss.
			off := geom.Vec2{X: float64(i%40) - 20, Y: 0}
			if geom.IntersectTrees(&tree, geom.Vec2{}, 0, &other, off, 0.3) != nil {
				hits++
			}
		}
		isectTime := time.Since(start) / isectIters

		fmt.Printf("%5d blocks: build %8v | intersect %8v (%d/%d hit)\n",
			size, buildTime.Round(time.Nanosecond),
			isectTime.Round(time.Nanosecond), hits, isectIters)
	}
}

func benchSimulation(seed int64, steps int) {
	fmt.Println("=== full steps ===")

	for _, asteroids := range []int{10, 50, 200, 500} {
		config.MustInit("")
		cfg := config.Cfg()
		cfg.World.Asteroids = asteroids
		cfg.World.Ships = asteroids / 10
		cfg.Telemetry.StatsWindow = 0 // no windows during benchmarking

		g, err := game.New(game.Options{
			Seed:     seed,
			Role:     systems.RoleStandalone,
			Headless: true,
		})
		if err != nil {
			fmt.Printf("%5d asteroids: ERROR: %v\n", asteroids, err)
			continue
		}

		samples := make([]float64, 0, steps)
		for i := 0; i < steps; i++ {
			start := time.Now()
			g.Step()
			samples = append(samples, time.Since(start).Seconds()*1e6)
		}
		g.Unload()

		sort.Float64s(samples)
		mean := stat.Mean(samples, nil)
		p50 := stat.Quantile(0.5, stat.Empirical, samples, nil)
		p99 := stat.Quantile(0.99, stat.Empirical, samples, nil)

		fmt.Printf("%5d asteroids: step mean %8.1fus | p50 %8.1fus | p99 %8.1fus\n",
			asteroids, mean, p50, p99)
	}
}
