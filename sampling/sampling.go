// Package sampling generates the sub-pixel offsets every pixel is sampled at.
//
// A level L >= 2 is an L x L stratified grid where each point is jittered
// inside its own cell, so the unit square is evenly covered while the pattern
// avoids the aliasing of a regular lattice. Level 1 is a single sample at the
// pixel center. Patterns are seeded by level and never depend on image size,
// so renders are reproducible.
package sampling

import (
	"math/rand/v2"

	"github.com/marben/fractal_render/errs"
)

const (
	// MaxLevel bounds the pattern size to MaxLevel^2 samples per pixel.
	MaxLevel = 16

	// jitter is the fraction of a cell a point may wander from the cell center.
	jitter = 0.8

	seed = 0x5eed_f4ac
)

// Point is an offset inside the unit pixel square, both coordinates in [0, 1).
type Point struct {
	X, Y float64
}

// Generate returns the ordered sampling pattern for level.
func Generate(level int) ([]Point, error) {
	if level < 1 || level > MaxLevel {
		return nil, errs.Config("sampling.level", "must be in [1, %d], got %d", MaxLevel, level)
	}
	if level == 1 {
		return []Point{{0.5, 0.5}}, nil
	}

	rng := rand.New(rand.NewPCG(seed, uint64(level)))
	cell := 1 / float64(level)

	pts := make([]Point, 0, Count(level))
	for j := range level {
		for i := range level {
			dx := (rng.Float64() - 0.5) * jitter
			dy := (rng.Float64() - 0.5) * jitter
			pts = append(pts, Point{
				X: (float64(i) + 0.5 + dx) * cell,
				Y: (float64(j) + 0.5 + dy) * cell,
			})
		}
	}
	return pts, nil
}

// Count returns the number of points Generate(level) yields.
func Count(level int) int {
	return level * level
}

// Random returns n points drawn uniformly from the unit square.
func Random(rng *rand.Rand, n int) []Point {
	pts := make([]Point, n)
	for i := range pts {
		pts[i] = Point{X: rng.Float64(), Y: rng.Float64()}
	}
	return pts
}
