// Package coloring converts a raw render grid into an RGB image.
//
// A tone-mapping mode first reduces every cell to a scalar in [0, 1], an
// optional monotonic Map reshapes it, and a Gradient turns it into a color.
// Black & white bypasses the gradient.
package coloring

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/marben/fractal_render/errs"
	"github.com/marben/fractal_render/grid"
)

// Kind selects a tone-mapping strategy.
type Kind int

const (
	// CumulativeHistogram equalizes values through their cumulative distribution.
	CumulativeHistogram Kind = iota
	// MinMaxNorm rescales [min, max] to [0, 1].
	MinMaxNorm
	// MaxNorm rescales [0, max] to [0, 1].
	MaxNorm
	// BlackAndWhite thresholds the max-normalized value.
	BlackAndWhite
)

var kindNames = []string{"cumulative_histogram", "min_max_norm", "max_norm", "black_and_white"}

func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for i, name := range kindNames {
		if strings.EqualFold(s, name) {
			return Kind(i), nil
		}
	}
	return 0, errs.Config("coloring_mode.kind", "unknown mode %q", s)
}

// DefaultThreshold is the black & white cut: values at or above it are black.
const DefaultThreshold = 0.95

// Mode is a tone-mapping configuration.
type Mode struct {
	Kind Kind

	// Min and Max override the grid extrema (Max only for MaxNorm).
	Min, Max *float64

	// Threshold for BlackAndWhite, DefaultThreshold if zero.
	Threshold float64

	// Buckets for CumulativeHistogram, DefaultBuckets if zero.
	Buckets int

	// Map reshapes the normalized value. Nil means identity.
	Map Map
}

// Validate reports the first invalid field of m.
func (m Mode) Validate() error {
	if m.Kind < CumulativeHistogram || m.Kind > BlackAndWhite {
		return errs.Config("coloring_mode.kind", "unknown mode %d", int(m.Kind))
	}
	if m.Min != nil && !finite(*m.Min) {
		return errs.Config("coloring_mode.min", "must be finite, got %v", *m.Min)
	}
	if m.Max != nil && !finite(*m.Max) {
		return errs.Config("coloring_mode.max", "must be finite, got %v", *m.Max)
	}
	if m.Threshold < 0 || m.Threshold > 1 {
		return errs.Config("coloring_mode.threshold", "must be in [0, 1], got %v", m.Threshold)
	}
	if m.Buckets < 0 {
		return errs.Config("coloring_mode.buckets", "must not be negative, got %d", m.Buckets)
	}
	if v, ok := m.Map.(interface{ Validate() error }); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

// Normalize maps every cell of g to [0, 1] according to m. For
// BlackAndWhite it returns the max-normalized values the threshold applies to.
// Map is applied to every mode but BlackAndWhite.
func Normalize(g *grid.Grid[float64], m Mode) []float64 {
	lo, hi := g.MinMax()
	out := make([]float64, len(g.Data))

	switch m.Kind {
	case MinMaxNorm:
		if m.Min != nil {
			lo = *m.Min
		}
		if m.Max != nil {
			hi = *m.Max
		}
		if hi != lo {
			for i, v := range g.Data {
				out[i] = clamp01((v - lo) / (hi - lo))
			}
		}

	case MaxNorm:
		if m.Max != nil {
			hi = *m.Max
		}
		if hi != 0 {
			for i, v := range g.Data {
				out[i] = clamp01(v / hi)
			}
		}

	case CumulativeHistogram:
		if hi != 0 {
			for i, v := range g.Data {
				out[i] = v / hi
			}
		}
		buckets := m.Buckets
		if buckets == 0 {
			buckets = DefaultBuckets
		}
		cdf := Cumulate(Histogram(out, buckets))
		for i, v := range out {
			out[i] = Lookup(v, cdf)
		}

	case BlackAndWhite:
		if hi != 0 {
			for i, v := range g.Data {
				out[i] = clamp01(v / hi)
			}
		}
		return out
	}

	if m.Map != nil {
		for i, v := range out {
			out[i] = m.Map.Apply(v)
		}
	}
	return out
}

// Options configures Colorize.
type Options struct {
	Mode     Mode
	Gradient Gradient

	// Overlay draws a strip of the gradient into the bottom-right corner.
	Overlay bool
}

// Colorize turns g into an image of the same size.
func Colorize(g *grid.Grid[float64], opts Options) (*image.RGBA, error) {
	if err := opts.Mode.Validate(); err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	values := Normalize(g, opts.Mode)

	if opts.Mode.Kind == BlackAndWhite {
		threshold := opts.Mode.Threshold
		if threshold == 0 {
			threshold = DefaultThreshold
		}
		black, white := color.RGBA{A: 255}, color.RGBA{255, 255, 255, 255}
		for i, v := range values {
			c := white
			if v >= threshold {
				c = black
			}
			img.SetRGBA(i%g.Width(), i/g.Width(), c)
		}
	} else {
		for i, v := range values {
			img.SetRGBA(i%g.Width(), i/g.Width(), opts.Gradient.At(v))
		}
	}

	if opts.Overlay {
		DrawGradientStrip(img, opts.Gradient)
	}
	return img, nil
}
