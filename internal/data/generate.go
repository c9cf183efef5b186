package data

import (
	"math/rand/v2"
	"slices"

	"github.com/gridcolony/navsim/internal/grid"
	opensimplex "github.com/ojrac/opensimplex-go"
)

// GenerateMaze walls each cell independently with probability density.
func GenerateMaze(size int, density float64, rng *rand.Rand, keepOpen []grid.Cell) *Layout {
	l := &Layout{KeepOpen: points(keepOpen)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if rng.Float64() < density {
				l.Walls = append(l.Walls, Point{X: x, Y: y})
			}
		}
	}
	return l
}

// GenerateNoise walls the density share of cells with the highest fractal
// simplex noise value, giving connected cave-like obstacle blobs.
func GenerateNoise(size int, density float64, seed int64, keepOpen []grid.Cell) *Layout {
	noise := opensimplex.NewNormalized(seed)
	type sample struct {
		c grid.Cell
		v float64
	}
	samples := make([]sample, 0, size*size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			samples = append(samples, sample{
				c: grid.Cell{X: x, Y: y},
				v: octaveNoise(noise, float64(x), float64(y), 4, 0.12, 0.5),
			})
		}
	}
	slices.SortStableFunc(samples, func(a, b sample) int {
		switch {
		case a.v > b.v:
			return -1
		case a.v < b.v:
			return 1
		}
		return 0
	})

	k := int(density*float64(len(samples)) + 0.5)
	l := &Layout{KeepOpen: points(keepOpen), Walls: make([]Point, 0, k)}
	for _, s := range samples[:k] {
		l.Walls = append(l.Walls, Point{X: s.c.X, Y: s.c.Y})
	}
	return l
}

// octaveNoise layers several noise frequencies into one value.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}
	return total / maxVal
}

func points(cells []grid.Cell) []Point {
	out := make([]Point, len(cells))
	for i, c := range cells {
		out[i] = Point{X: c.X, Y: c.Y}
	}
	return out
}
