// Package render turns a view into a raw scalar grid.
//
// The image is cut into fixed size chunks that a pool of workers renders in
// any order. Escape-time mode writes one scalar per pixel, owned by exactly
// one chunk. Orbit-accumulation mode projects every visited orbit point back
// onto the image and increments whatever pixel it lands in, from any worker,
// through atomic integer counters.
package render

import (
	"fmt"
	"log/slog"
	"runtime"
	"strings"
	"time"

	"github.com/marben/fractal_render/engine"
	"github.com/marben/fractal_render/errs"
	"github.com/marben/fractal_render/grid"
	"github.com/marben/fractal_render/sampling"
	"github.com/marben/fractal_render/view"
)

// Mode selects how samples are accumulated.
type Mode int

const (
	// EscapeTime stores the filtered iteration count of each pixel's samples.
	EscapeTime Mode = iota
	// OrbitAccumulation counts how often sampled orbits cross each pixel.
	OrbitAccumulation
)

func (m Mode) String() string {
	switch m {
	case EscapeTime:
		return "escape_time"
	case OrbitAccumulation:
		return "orbit_accumulation"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode is the inverse of Mode.String.
func ParseMode(s string) (Mode, error) {
	for _, m := range []Mode{EscapeTime, OrbitAccumulation} {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, errs.Config("rendering_mode", "unknown mode %q", s)
}

// OrbitFilter chooses which orbits are accumulated.
type OrbitFilter int

const (
	AllOrbits OrbitFilter = iota
	// EscapingOrbits keeps orbits that leave the escape radius before MaxIter.
	EscapingOrbits
	// BoundedOrbits keeps orbits that never escape.
	BoundedOrbits
)

var filterNames = []string{"all", "escaping", "bounded"}

func (f OrbitFilter) String() string {
	if int(f) >= 0 && int(f) < len(filterNames) {
		return filterNames[f]
	}
	return fmt.Sprintf("OrbitFilter(%d)", int(f))
}

// ParseOrbitFilter is the inverse of OrbitFilter.String.
func ParseOrbitFilter(s string) (OrbitFilter, error) {
	for i, name := range filterNames {
		if strings.EqualFold(s, name) {
			return OrbitFilter(i), nil
		}
	}
	return 0, errs.Config("orbit_filter", "unknown filter %q", s)
}

func (f OrbitFilter) keep(res engine.Result, maxIter int) bool {
	switch f {
	case EscapingOrbits:
		return res.Escaped(maxIter)
	case BoundedOrbits:
		return !res.Escaped(maxIter)
	}
	return true
}

// Options describes one render.
type Options struct {
	View    view.Transform
	Fractal engine.Fractal
	MaxIter int
	Samples []sampling.Point

	Mode   Mode
	Filter OrbitFilter

	// RandomSamples, when positive, seeds orbit accumulation with that many
	// uniformly distributed samples per chunk instead of Samples per pixel.
	// It must be zero in EscapeTime mode.
	// The generator of chunk i is seeded with (Seed, i), so a render stays
	// reproducible.
	RandomSamples int
	Seed          uint64

	// ChunkSize is the tile edge in pixels, DefaultChunkSize if zero.
	ChunkSize int
	// Margin widens each chunk by this many pixels on every side. In
	// escape-time mode samples of the margin ring are splatted into the
	// chunk with a tent filter of radius Margin+1.
	Margin int
	// Workers defaults to GOMAXPROCS.
	Workers int

	Progress       Sink
	ReportInterval time.Duration
	Logger         *slog.Logger
}

func (o *Options) validate() error {
	switch {
	case o.View.PixelWidth <= 0:
		return errs.Config("img_width", "must be positive, got %d", o.View.PixelWidth)
	case o.View.PixelHeight <= 0:
		return errs.Config("img_height", "must be positive, got %d", o.View.PixelHeight)
	case o.MaxIter <= 0:
		return errs.Config("max_iter", "must be positive, got %d", o.MaxIter)
	case len(o.Samples) == 0 && !(o.Mode == OrbitAccumulation && o.RandomSamples > 0):
		return errs.Config("sampling", "no sampling points")
	case o.ChunkSize < 0:
		return errs.Config("chunk_size", "must not be negative, got %d", o.ChunkSize)
	case o.Margin < 0:
		return errs.Config("kernel_margin", "must not be negative, got %d", o.Margin)
	case o.RandomSamples < 0:
		return errs.Config("sampling.random_samples_per_chunk", "must not be negative, got %d", o.RandomSamples)
	case o.Mode != EscapeTime && o.Mode != OrbitAccumulation:
		return errs.Config("rendering_mode", "unknown mode %d", int(o.Mode))
	case o.Mode == EscapeTime && o.RandomSamples > 0:
		return errs.Config("sampling.random_samples_per_chunk", "only applies to %s, got %d with %s", OrbitAccumulation, o.RandomSamples, o.Mode)
	}
	for i, p := range o.Samples {
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
			return errs.Config(fmt.Sprintf("sampling[%d]", i), "offset %v outside [0,1)", p)
		}
	}
	return nil
}

// Chunks returns the partition and progress total Render would use for opts.
func Chunks(opts Options) ([]Chunk, uint64) {
	size := opts.ChunkSize
	if size == 0 {
		size = DefaultChunkSize
	}
	chunks := Partition(opts.View.PixelWidth, opts.View.PixelHeight, size)
	return chunks, TotalUnits(chunks, opts.Margin)
}

// Render produces the raw grid for opts. It only fails on invalid options,
// before any worker starts.
func Render(opts Options) (*grid.Grid[float64], error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	chunks, total := Chunks(opts)
	progress := NewProgress(total, opts.Progress, opts.ReportInterval)
	sched := newChunkScheduler(chunks, log)

	log.Debug("render started", "mode", opts.Mode, "fractal", opts.Fractal, "chunks", len(chunks), "workers", workers, "units", total)

	var out *grid.Grid[float64]
	switch opts.Mode {
	case EscapeTime:
		g, err := grid.New[float64](opts.View.PixelWidth, opts.View.PixelHeight)
		if err != nil {
			return nil, err
		}
		sched.run(workers, func(c Chunk) { escapeChunk(&opts, c, g, progress) })
		out = g

	case OrbitAccumulation:
		counter, err := grid.NewCounter(opts.View.PixelWidth, opts.View.PixelHeight)
		if err != nil {
			return nil, err
		}
		sched.run(workers, func(c Chunk) { orbitChunk(&opts, c, counter, progress) })
		out = grid.Float64(counter.Snapshot())
	}

	st := progress.Finish()
	log.Debug("render finished", "elapsed", st.Elapsed, "units", st.Done)
	return out, nil
}
