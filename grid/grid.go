// Package grid provides the dense row-major containers the renderer
// accumulates into.
package grid

import (
	"sync/atomic"

	"github.com/marben/fractal_render/errs"
)

// Number is the element constraint for Grid.
type Number interface {
	~int | ~int32 | ~int64 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// Grid is a width x height row-major matrix. Its dimensions never change
// after New.
type Grid[T Number] struct {
	width, height int
	Data          []T
}

// New returns a zeroed grid. Both dimensions must be positive.
func New[T Number](width, height int) (*Grid[T], error) {
	if err := checkDims(width, height); err != nil {
		return nil, err
	}
	return &Grid[T]{width: width, height: height, Data: make([]T, width*height)}, nil
}

func checkDims(width, height int) error {
	if width <= 0 {
		return errs.Config("img_width", "must be positive, got %d", width)
	}
	if height <= 0 {
		return errs.Config("img_height", "must be positive, got %d", height)
	}
	return nil
}

func (g *Grid[T]) Width() int  { return g.width }
func (g *Grid[T]) Height() int { return g.height }

func (g *Grid[T]) At(x, y int) T     { return g.Data[y*g.width+x] }
func (g *Grid[T]) Set(x, y int, v T) { g.Data[y*g.width+x] = v }
func (g *Grid[T]) Row(y int) []T     { return g.Data[y*g.width : (y+1)*g.width] }

// MinMax returns the smallest and largest element.
func (g *Grid[T]) MinMax() (lo, hi T) {
	lo, hi = g.Data[0], g.Data[0]
	for _, v := range g.Data[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

// Float64 converts g to a float64 grid of the same size.
func Float64[T Number](g *Grid[T]) *Grid[float64] {
	out := &Grid[float64]{width: g.width, height: g.height, Data: make([]float64, len(g.Data))}
	for i, v := range g.Data {
		out.Data[i] = float64(v)
	}
	return out
}

// Counter is a grid of atomic integer cells. Any number of goroutines may
// increment any cell; the final counts do not depend on interleaving.
type Counter struct {
	width, height int
	cells         []atomic.Uint64
}

// NewCounter returns a zeroed counter grid.
func NewCounter(width, height int) (*Counter, error) {
	if err := checkDims(width, height); err != nil {
		return nil, err
	}
	return &Counter{width: width, height: height, cells: make([]atomic.Uint64, width*height)}, nil
}

func (c *Counter) Width() int  { return c.width }
func (c *Counter) Height() int { return c.height }

// Inc increments cell (x, y). The caller guarantees the cell is in range.
func (c *Counter) Inc(x, y int) {
	c.cells[y*c.width+x].Add(1)
}

// Load returns the current count of (x, y).
func (c *Counter) Load(x, y int) uint64 {
	return c.cells[y*c.width+x].Load()
}

// Snapshot copies the counts into a plain grid. It must only be called once
// every writer is done.
func (c *Counter) Snapshot() *Grid[uint64] {
	out := &Grid[uint64]{width: c.width, height: c.height, Data: make([]uint64, len(c.cells))}
	for i := range c.cells {
		out.Data[i] = c.cells[i].Load()
	}
	return out
}
