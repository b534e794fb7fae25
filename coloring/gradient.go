package coloring

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/marben/fractal_render/errs"
)

// Stop is one gradient control point.
type Stop struct {
	T     float64
	Color color.RGBA
}

// ParseStop builds a stop from a "#rrggbb" color.
func ParseStop(t float64, hex string) (Stop, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return Stop{}, fmt.Errorf("color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return Stop{T: t, Color: color.RGBA{R: r, G: g, B: b, A: 255}}, nil
}

// Hex formats the stop color as "#rrggbb".
func (s Stop) Hex() string {
	c, _ := colorful.MakeColor(s.Color)
	return c.Hex()
}

func (s Stop) String() string {
	return fmt.Sprintf("%g:%s", s.T, s.Hex())
}

// Gradient is a piecewise-linear color ramp over stops with strictly
// increasing T. The zero value is the default dark -> mid -> light ramp.
type Gradient struct {
	stops []Stop
}

var defaultStops = []Stop{
	{T: 0.1, Color: color.RGBA{2, 0, 4, 255}},
	{T: 0.6, Color: color.RGBA{80, 60, 100, 255}},
	{T: 1.0, Color: color.RGBA{240, 220, 210, 255}},
}

// DefaultGradient returns the built-in ramp.
func DefaultGradient() Gradient {
	return Gradient{stops: defaultStops}
}

// NewGradient validates stops: at least one, every T in [0, 1], strictly
// increasing.
func NewGradient(stops []Stop) (Gradient, error) {
	if len(stops) == 0 {
		return Gradient{}, errs.Config("custom_gradient", "needs at least one control point")
	}
	for i, s := range stops {
		if math.IsNaN(s.T) || s.T < 0 || s.T > 1 {
			return Gradient{}, errs.Config(fmt.Sprintf("custom_gradient[%d].t", i), "%v outside [0, 1]", s.T)
		}
		if i > 0 && s.T <= stops[i-1].T {
			return Gradient{}, errs.Config(fmt.Sprintf("custom_gradient[%d].t", i),
				"%v does not follow %v; thresholds must strictly increase", s.T, stops[i-1].T)
		}
	}
	return Gradient{stops: append([]Stop(nil), stops...)}, nil
}

// Stops returns a copy of the control points.
func (g Gradient) Stops() []Stop {
	return append([]Stop(nil), g.list()...)
}

func (g Gradient) list() []Stop {
	if len(g.stops) == 0 {
		return defaultStops
	}
	return g.stops
}

// At maps t to a color. t below the first threshold gets the first color,
// above the last threshold the last one.
func (g Gradient) At(t float64) color.RGBA {
	stops := g.list()
	first, last := stops[0], stops[len(stops)-1]
	if t <= first.T || math.IsNaN(t) {
		return first.Color
	}
	if t >= last.T {
		return last.Color
	}

	for i := 0; i < len(stops)-1; i++ {
		a, b := stops[i], stops[i+1]
		if a.T <= t && t <= b.T {
			r := (t - a.T) / (b.T - a.T)
			return color.RGBA{
				R: lerp(a.Color.R, b.Color.R, r),
				G: lerp(a.Color.G, b.Color.G, r),
				B: lerp(a.Color.B, b.Color.B, r),
				A: 255,
			}
		}
	}
	return last.Color
}

func lerp(c1, c2 uint8, r float64) uint8 {
	v := float64(c1)*(1-r) + float64(c2)*r
	return uint8(min(max(v, 0), 255))
}
