// Package fractal renders escape-time and orbit-accumulation images of
// complex recurrences.
//
// A frame goes through three stages: the view and sampling pattern are
// derived from the configuration, the render package fills a raw scalar grid
// in parallel, and the coloring package tone-maps that grid through a
// gradient. RenderFrame runs all of them; RenderRaw stops after the second.
//
//	cfg := fractal.Config{
//		Width: 640, Height: 480, MaxIter: 500, SamplingLevel: 3,
//		Coloring: coloring.Mode{Kind: coloring.CumulativeHistogram},
//	}
//	img, err := fractal.RenderFrame(cfg, fractal.SeahorseValley.View())
package fractal

import (
	"image"
	"time"

	"github.com/marben/fractal_render/coloring"
	"github.com/marben/fractal_render/engine"
	"github.com/marben/fractal_render/errs"
	"github.com/marben/fractal_render/grid"
	"github.com/marben/fractal_render/render"
	"github.com/marben/fractal_render/sampling"
	"github.com/marben/fractal_render/view"
)

// DefaultKernelMargin is the escape-time filter margin the parameter file
// uses when none is given.
const DefaultKernelMargin = 1

// View places the image on the complex plane: the visible plane width is
// Zoom, centered on (CenterX, CenterY).
type View struct {
	Zoom    float64
	CenterX float64
	CenterY float64
}

// Config is everything about a frame except its view.
type Config struct {
	Width, Height int

	Fractal engine.Fractal
	MaxIter int

	// SamplingLevel picks the per-pixel pattern, see sampling.Generate.
	SamplingLevel int

	Mode   render.Mode
	Filter render.OrbitFilter
	// RandomSamples and Seed switch orbit accumulation to random seeding.
	RandomSamples int
	Seed          uint64

	ChunkSize    int
	KernelMargin int
	Workers      int

	Coloring coloring.Mode
	Gradient coloring.Gradient
	// GradientOverlay draws the active gradient into the bottom-right corner.
	GradientOverlay bool

	Progress       ProgressSink
	ReportInterval time.Duration
}

// SamplingPoints returns the sub-pixel pattern for level.
func SamplingPoints(level int) ([]sampling.Point, error) {
	return sampling.Generate(level)
}

// Validate checks cfg without rendering.
func (cfg Config) Validate() error {
	if cfg.Width <= 0 {
		return errs.Config("img_width", "must be positive, got %d", cfg.Width)
	}
	if cfg.Height <= 0 {
		return errs.Config("img_height", "must be positive, got %d", cfg.Height)
	}
	if cfg.MaxIter <= 0 {
		return errs.Config("max_iter", "must be positive, got %d", cfg.MaxIter)
	}
	if _, err := sampling.Generate(cfg.SamplingLevel); err != nil {
		return err
	}
	if cfg.Mode == render.EscapeTime && cfg.RandomSamples > 0 {
		return errs.Config("sampling.random_samples_per_chunk", "only applies to %s, got %d with %s",
			render.OrbitAccumulation, cfg.RandomSamples, cfg.Mode)
	}
	return cfg.Coloring.Validate()
}

func (cfg Config) options(v View) (render.Options, error) {
	if err := cfg.Validate(); err != nil {
		return render.Options{}, err
	}
	tr, err := view.New(cfg.Width, cfg.Height, v.Zoom, v.CenterX, v.CenterY)
	if err != nil {
		return render.Options{}, err
	}
	pts, err := sampling.Generate(cfg.SamplingLevel)
	if err != nil {
		return render.Options{}, err
	}
	return render.Options{
		View:           tr,
		Fractal:        cfg.Fractal,
		MaxIter:        cfg.MaxIter,
		Samples:        pts,
		Mode:           cfg.Mode,
		Filter:         cfg.Filter,
		RandomSamples:  cfg.RandomSamples,
		Seed:           cfg.Seed,
		ChunkSize:      cfg.ChunkSize,
		Margin:         cfg.KernelMargin,
		Workers:        cfg.Workers,
		Progress:       cfg.Progress,
		ReportInterval: cfg.ReportInterval,
		Logger:         Logger(),
	}, nil
}

// RenderRaw renders the untoned scalar grid of v.
func RenderRaw(cfg Config, v View) (*grid.Grid[float64], error) {
	opts, err := cfg.options(v)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	Logger().Info("rendering frame", "fractal", cfg.Fractal, "mode", cfg.Mode,
		"width", cfg.Width, "height", cfg.Height, "zoom", v.Zoom, "center", opts.View.Center())

	g, err := render.Render(opts)
	if err != nil {
		return nil, err
	}

	Logger().Info("frame rendered", "elapsed", time.Since(start))
	return g, nil
}

// RenderFrame renders and colors v. Every configuration error is reported
// before rendering starts.
func RenderFrame(cfg Config, v View) (*image.RGBA, error) {
	g, err := RenderRaw(cfg, v)
	if err != nil {
		return nil, err
	}
	return coloring.Colorize(g, coloring.Options{
		Mode:     cfg.Coloring,
		Gradient: cfg.Gradient,
		Overlay:  cfg.GradientOverlay,
	})
}

// Renderer binds a Config to the FrameRenderer interface.
type Renderer struct {
	Config Config
}

func (r Renderer) RenderFrame(v View) (*image.RGBA, error) {
	return RenderFrame(r.Config, v)
}

var _ FrameRenderer = Renderer{}
