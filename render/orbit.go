package render

import (
	"math/rand/v2"

	"github.com/marben/fractal_render/grid"
	"github.com/marben/fractal_render/sampling"
	"github.com/marben/fractal_render/view"
)

// randomBatch is how many random samples run between progress updates.
const randomBatch = 256

// Accumulate increments the pixel under every orbit point that lands inside
// the image and returns the number of increments. A pixel crossed k times is
// incremented k times.
func Accumulate(counter *grid.Counter, t view.Transform, orbit []complex128) int {
	n := 0
	for _, z := range orbit {
		if x, y, ok := t.ToPixel(z); ok {
			counter.Inc(x, y)
			n++
		}
	}
	return n
}

func orbitChunk(o *Options, c Chunk, counter *grid.Counter, progress *Progress) {
	buf := make([]complex128, 0, o.MaxIter)
	units := c.Units(o.Margin)

	sample := func(px, py float64) {
		res := o.Fractal.Orbit(o.View.ToPlane(px, py), o.MaxIter, buf)
		buf = res.Orbit
		if o.Filter.keep(res, o.MaxIter) {
			Accumulate(counter, o.View, res.Orbit)
		}
	}

	r := c.Rect
	if o.RandomSamples > 0 {
		rng := rand.New(rand.NewPCG(o.Seed, uint64(c.Index)))
		w, h := float64(r.Dx()), float64(r.Dy())
		batches := (o.RandomSamples + randomBatch - 1) / randomBatch
		for b := range batches {
			for _, p := range sampling.Random(rng, min(randomBatch, o.RandomSamples-b*randomBatch)) {
				sample(float64(r.Min.X)+p.X*w, float64(r.Min.Y)+p.Y*h)
			}
			progress.Add(share(units, batches, b))
		}
		return
	}

	rows := r.Dy()
	for py := r.Min.Y; py < r.Max.Y; py++ {
		for px := r.Min.X; px < r.Max.X; px++ {
			for _, s := range o.Samples {
				sample(float64(px)+s.X, float64(py)+s.Y)
			}
		}
		progress.Add(share(units, rows, py-r.Min.Y))
	}
}
