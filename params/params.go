// Package params decodes and validates the parameter file of a render.
//
// A parameter file is JSON:
//
//	{
//	  "img_width": 1920, "img_height": 1080, "max_iter": 1000,
//	  "render": {"frame": {"preset": "seahorse_valley", "fractal": {"kind": "mandelbrot"}}},
//	  "sampling": {"level": 3},
//	  "coloring_mode": {"kind": "cumulative_histogram", "map": {"kind": "power", "exponent": 1.5}},
//	  "custom_gradient": [[0, "#000000"], [0.5, "#3a3a6e"], [1, "#ffffff"]],
//	  "dev_options": {"display_gradient": true}
//	}
package params

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	fractal "github.com/marben/fractal_render"
	"github.com/marben/fractal_render/coloring"
	"github.com/marben/fractal_render/engine"
	"github.com/marben/fractal_render/errs"
	"github.com/marben/fractal_render/render"
)

// Params is a decoded parameter file.
type Params struct {
	ImgWidth  int    `json:"img_width"`
	ImgHeight int    `json:"img_height"`
	Render    Render `json:"render"`
	MaxIter   int    `json:"max_iter"`

	Sampling       Sampling        `json:"sampling"`
	RenderingMode  string          `json:"rendering_mode,omitempty"`
	OrbitFilter    string          `json:"orbit_filter,omitempty"`
	ColoringMode   ColoringMode    `json:"coloring_mode"`
	CustomGradient []GradientPoint `json:"custom_gradient,omitempty"`
	DevOptions     DevOptions      `json:"dev_options"`

	ChunkSize    int  `json:"chunk_size,omitempty"`
	KernelMargin *int `json:"kernel_margin,omitempty"`
	Workers      int  `json:"workers,omitempty"`
}

// Render holds exactly one of Frame or Animation.
type Render struct {
	Frame     *Frame     `json:"frame,omitempty"`
	Animation *Animation `json:"animation,omitempty"`
}

// Frame is a single still image.
type Frame struct {
	// Preset names a region from fractal.PresetNames and replaces the
	// zoom and center fields.
	Preset  string      `json:"preset,omitempty"`
	Zoom    float64     `json:"zoom"`
	CenterX float64     `json:"center_x"`
	CenterY float64     `json:"center_y"`
	Fractal FractalSpec `json:"fractal"`
}

// FractalSpec selects a recurrence.
type FractalSpec struct {
	Kind  string `json:"kind"`
	Order int    `json:"order,omitempty"`
}

// Fractal builds the selected recurrence. An empty kind means mandelbrot.
func (s FractalSpec) Fractal() (engine.Fractal, error) {
	kind := engine.Mandelbrot
	if s.Kind != "" {
		k, err := engine.ParseKind(s.Kind)
		if err != nil {
			return engine.Fractal{}, err
		}
		kind = k
	}
	return engine.New(kind, s.Order)
}

// Sampling configures the sub-pixel pattern.
type Sampling struct {
	Level int `json:"level"`
	// RandomSamplesPerChunk switches orbit accumulation to random seeding.
	RandomSamplesPerChunk int    `json:"random_samples_per_chunk,omitempty"`
	Seed                  uint64 `json:"seed,omitempty"`
}

// ColoringMode configures tone-mapping.
type ColoringMode struct {
	Kind      string   `json:"kind"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Buckets   int      `json:"buckets,omitempty"`
	Map       MapSpec  `json:"map"`
}

// MapSpec selects the reshaping curve applied after normalization.
type MapSpec struct {
	Kind     string  `json:"kind"`
	Exponent float64 `json:"exponent,omitempty"`
}

// Mode resolves the coloring mode.
func (c ColoringMode) Mode() (coloring.Mode, error) {
	kind := coloring.CumulativeHistogram
	if c.Kind != "" {
		k, err := coloring.ParseKind(c.Kind)
		if err != nil {
			return coloring.Mode{}, err
		}
		kind = k
	}
	m, err := coloring.ParseMap(c.Map.Kind, c.Map.Exponent)
	if err != nil {
		return coloring.Mode{}, err
	}
	mode := coloring.Mode{
		Kind:      kind,
		Min:       c.Min,
		Max:       c.Max,
		Threshold: c.Threshold,
		Buckets:   c.Buckets,
		Map:       m,
	}
	return mode, mode.Validate()
}

// GradientPoint is a [t, "#rrggbb"] pair.
type GradientPoint struct {
	T     float64
	Color string
}

func (g *GradientPoint) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return fmt.Errorf("gradient point: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("gradient point: want [t, color], got %d elements", len(pair))
	}
	if err := json.Unmarshal(pair[0], &g.T); err != nil {
		return fmt.Errorf("gradient point threshold: %w", err)
	}
	if err := json.Unmarshal(pair[1], &g.Color); err != nil {
		return fmt.Errorf("gradient point color: %w", err)
	}
	return nil
}

func (g GradientPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{g.T, g.Color})
}

// DevOptions are diagnostics that never change the rendered image except
// for the gradient overlay.
type DevOptions struct {
	SaveSamplingPattern bool `json:"save_sampling_pattern,omitempty"`
	DisplayGradient     bool `json:"display_gradient,omitempty"`
	PrintHistogram      bool `json:"print_histogram,omitempty"`
}

// Load reads and decodes the parameter file at path.
func Load(path string) (*Params, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.IO("read", path, err)
	}
	p, err := Decode(bytes.NewReader(b))
	if err != nil {
		return nil, errs.IO("decode", path, err)
	}
	return p, nil
}

// Decode parses a parameter file. Unknown fields are rejected.
func Decode(r io.Reader) (*Params, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var p Params
	if err := dec.Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Gradient resolves the custom gradient, or the default one if none is set.
func (p *Params) Gradient() (coloring.Gradient, error) {
	if len(p.CustomGradient) == 0 {
		return coloring.DefaultGradient(), nil
	}
	stops := make([]coloring.Stop, len(p.CustomGradient))
	for i, gp := range p.CustomGradient {
		s, err := coloring.ParseStop(gp.T, gp.Color)
		if err != nil {
			return coloring.Gradient{}, errs.Config(fmt.Sprintf("custom_gradient[%d].color", i), "%v", err)
		}
		stops[i] = s
	}
	return coloring.NewGradient(stops)
}

// Config builds the frame configuration shared by every frame.
// The fractal is left at its zero value; callers set it per frame.
func (p *Params) Config() (fractal.Config, error) {
	mode := render.EscapeTime
	if p.RenderingMode != "" {
		m, err := render.ParseMode(p.RenderingMode)
		if err != nil {
			return fractal.Config{}, err
		}
		mode = m
	}
	filter := render.AllOrbits
	if p.OrbitFilter != "" {
		f, err := render.ParseOrbitFilter(p.OrbitFilter)
		if err != nil {
			return fractal.Config{}, err
		}
		filter = f
	}
	cm, err := p.ColoringMode.Mode()
	if err != nil {
		return fractal.Config{}, err
	}
	gradient, err := p.Gradient()
	if err != nil {
		return fractal.Config{}, err
	}

	margin := fractal.DefaultKernelMargin
	if p.KernelMargin != nil {
		margin = *p.KernelMargin
	}
	if margin < 0 {
		return fractal.Config{}, errs.Config("kernel_margin", "must not be negative, got %d", margin)
	}
	if p.ChunkSize < 0 {
		return fractal.Config{}, errs.Config("chunk_size", "must not be negative, got %d", p.ChunkSize)
	}
	if p.Sampling.RandomSamplesPerChunk < 0 {
		return fractal.Config{}, errs.Config("sampling.random_samples_per_chunk", "must not be negative, got %d", p.Sampling.RandomSamplesPerChunk)
	}

	cfg := fractal.Config{
		Width:           p.ImgWidth,
		Height:          p.ImgHeight,
		MaxIter:         p.MaxIter,
		SamplingLevel:   p.Sampling.Level,
		Mode:            mode,
		Filter:          filter,
		RandomSamples:   p.Sampling.RandomSamplesPerChunk,
		Seed:            p.Sampling.Seed,
		ChunkSize:       p.ChunkSize,
		KernelMargin:    margin,
		Workers:         p.Workers,
		Coloring:        cm,
		Gradient:        gradient,
		GradientOverlay: p.DevOptions.DisplayGradient,
	}
	return cfg, cfg.Validate()
}

// Validate checks the whole parameter object.
func (p *Params) Validate() error {
	if _, err := p.Config(); err != nil {
		return err
	}
	switch r := p.Render; {
	case r.Frame != nil && r.Animation != nil:
		return errs.Config("render", "set either frame or animation, not both")
	case r.Frame != nil:
		_, _, err := r.Frame.Resolve()
		return errs.Prefix("render.frame", err)
	case r.Animation != nil:
		return errs.Prefix("render.animation", r.Animation.Validate())
	}
	return errs.Config("render", "missing frame or animation")
}

// Resolve returns the view and fractal of a still frame.
func (f *Frame) Resolve() (fractal.View, engine.Fractal, error) {
	v := fractal.View{Zoom: f.Zoom, CenterX: f.CenterX, CenterY: f.CenterY}
	if f.Preset != "" {
		r, ok := fractal.Preset(f.Preset)
		if !ok {
			return fractal.View{}, engine.Fractal{}, errs.Config("preset", "unknown region %q, known: %v", f.Preset, fractal.PresetNames())
		}
		v = r.View()
	}
	if !(v.Zoom > 0) {
		return fractal.View{}, engine.Fractal{}, errs.Config("zoom", "must be positive, got %v", v.Zoom)
	}
	fr, err := f.Fractal.Fractal()
	if err != nil {
		return fractal.View{}, engine.Fractal{}, err
	}
	return v, fr, nil
}
