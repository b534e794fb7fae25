package render

import (
	"math"

	"github.com/marben/fractal_render/grid"
)

// escapeChunk evaluates every sample of the chunk and its margin ring and
// writes the filtered iteration count of each chunk pixel to out. Chunks
// never share output cells.
func escapeChunk(o *Options, c Chunk, out *grid.Grid[float64], progress *Progress) {
	r := c.Rect
	w, h := r.Dx(), r.Dy()
	m := o.Margin
	radius := float64(m) + 1

	sum := make([]float64, w*h)
	weight := make([]float64, w*h)
	// Extremes of the counts reaching each cell. A constant neighbourhood is
	// written as the count itself, free of rounding in sum/weight.
	lo := make([]int, w*h)
	hi := make([]int, w*h)
	for i := range lo {
		lo[i] = math.MaxInt
		hi[i] = math.MinInt
	}

	area := c.Inflated(m)
	for py := area.Min.Y; py < area.Max.Y; py++ {
		for px := area.Min.X; px < area.Max.X; px++ {
			for _, s := range o.Samples {
				sx, sy := float64(px)+s.X, float64(py)+s.Y
				k := o.Fractal.Escape(o.View.ToPlane(sx, sy), o.MaxIter)
				n := float64(k)

				if m == 0 {
					i := (py-r.Min.Y)*w + px - r.Min.X
					sum[i] += n
					weight[i]++
					lo[i], hi[i] = min(lo[i], k), max(hi[i], k)
					continue
				}

				for qy := max(py-m, r.Min.Y); qy < min(py+m+1, r.Max.Y); qy++ {
					wy := 1 - math.Abs(sy-(float64(qy)+0.5))/radius
					for qx := max(px-m, r.Min.X); qx < min(px+m+1, r.Max.X); qx++ {
						wx := 1 - math.Abs(sx-(float64(qx)+0.5))/radius
						i := (qy-r.Min.Y)*w + qx - r.Min.X
						sum[i] += wx * wy * n
						weight[i] += wx * wy
						lo[i], hi[i] = min(lo[i], k), max(hi[i], k)
					}
				}
			}
		}
		progress.Add(uint64(area.Dx()))
	}

	for y := range h {
		row := out.Row(r.Min.Y + y)[r.Min.X : r.Min.X+w]
		for x := range w {
			i := y*w + x
			if lo[i] == hi[i] {
				row[x] = float64(lo[i])
				continue
			}
			row[x] = sum[i] / weight[i]
		}
	}
}
