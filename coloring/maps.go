package coloring

import (
	"math"
	"strings"

	"github.com/marben/fractal_render/errs"
)

// Map reshapes a value in [0, 1]. Implementations are monotonic and keep
// 0 and 1 fixed.
type Map interface {
	Apply(t float64) float64
}

// Linear is the identity map.
type Linear struct{}

func (Linear) Apply(t float64) float64 { return t }

// Power raises t to Exponent. Exponents above 1 darken, below 1 brighten.
type Power struct {
	Exponent float64
}

func (p Power) Apply(t float64) float64 { return math.Pow(t, p.Exponent) }

func (p Power) Validate() error {
	if !(p.Exponent > 0) || math.IsInf(p.Exponent, 0) {
		return errs.Config("coloring_mode.map.exponent", "must be a positive finite number, got %v", p.Exponent)
	}
	return nil
}

// Smoothstep eases both ends: 3t^2 - 2t^3.
type Smoothstep struct{}

func (Smoothstep) Apply(t float64) float64 { return t * t * (3 - 2*t) }

// ParseMap builds a map by name. exponent is only used by "power".
func ParseMap(name string, exponent float64) (Map, error) {
	switch strings.ToLower(name) {
	case "", "linear":
		return Linear{}, nil
	case "squared":
		return Power{Exponent: 2}, nil
	case "sqrt":
		return Power{Exponent: 0.5}, nil
	case "power":
		p := Power{Exponent: exponent}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return p, nil
	case "smoothstep":
		return Smoothstep{}, nil
	}
	return nil, errs.Config("coloring_mode.map.kind", "unknown map %q", name)
}
