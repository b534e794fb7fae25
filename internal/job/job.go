// Package job turns a parameter file into rendered images on disk: a single
// frame or every frame of an animation.
package job

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	fractal "github.com/marben/fractal_render"
	"github.com/marben/fractal_render/coloring"
	"github.com/marben/fractal_render/engine"
	"github.com/marben/fractal_render/errs"
	"github.com/marben/fractal_render/imageio"
	"github.com/marben/fractal_render/internal/console"
	"github.com/marben/fractal_render/internal/live"
	"github.com/marben/fractal_render/params"
	"github.com/marben/fractal_render/render"
	"github.com/marben/fractal_render/sampling"
)

// histogramBuckets is the resolution of the printed raw-value histogram.
const histogramBuckets = 80

// Frame is one image to render.
type Frame struct {
	Index   int
	Time    float64
	View    fractal.View
	Fractal engine.Fractal
	Path    string
}

// Plan expands p into the frames written for output path out.
// A still frame is written to out itself; animation frames get numbered names.
func Plan(p *params.Params, out string) ([]Frame, error) {
	if f := p.Render.Frame; f != nil {
		v, fr, err := f.Resolve()
		if err != nil {
			return nil, err
		}
		return []Frame{{View: v, Fractal: fr, Path: out}}, nil
	}

	a := p.Render.Animation
	frames := make([]Frame, a.FrameCount())
	for i := range frames {
		t := a.FrameTime(i)
		v, fr, err := a.ViewAt(t)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}
		frames[i] = Frame{Index: i, Time: t, View: v, Fractal: fr, Path: imageio.FramePath(out, i)}
	}
	return frames, nil
}

// SamplingPreviewPath is where the sampling pattern preview for out is saved.
func SamplingPreviewPath(out string) string {
	ext := filepath.Ext(out)
	return strings.TrimSuffix(out, ext) + "_sampling.png"
}

// Options routes a job's output. Only Writer is required.
type Options struct {
	Writer fractal.ImageWriter
	// Printer shows per-frame progress and the output summary.
	Printer *console.Printer
	// Hub receives progress and finished frames for the live viewer.
	Hub *live.Hub
	// Diagnostics receives the histogram printout.
	Diagnostics io.Writer
}

type sinks []render.Sink

func (s sinks) Report(st render.Status) {
	for _, sink := range s {
		sink.Report(st)
	}
}

// Run validates p and renders every frame into out. ctx is checked between
// frames; a frame in progress always completes.
func Run(ctx context.Context, p *params.Params, out string, opts Options) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if !imageio.Supported(imageio.Ext(out)) {
		return errs.Config("output", "unsupported image extension %q, want one of %v", imageio.Ext(out), imageio.Extensions)
	}
	cfg, err := p.Config()
	if err != nil {
		return err
	}
	frames, err := Plan(p, out)
	if err != nil {
		return err
	}

	if p.DevOptions.SaveSamplingPattern {
		pts, err := fractal.SamplingPoints(cfg.SamplingLevel)
		if err != nil {
			return err
		}
		if err := sampling.SavePreview(SamplingPreviewPath(out), pts); err != nil {
			return err
		}
		if opts.Printer != nil {
			opts.Printer.Println("sampling pattern: ", SamplingPreviewPath(out))
		}
	}

	for _, f := range frames {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runFrame(cfg, p, f, len(frames), opts); err != nil {
			if opts.Hub != nil {
				opts.Hub.PublishError(err)
			}
			if len(frames) > 1 {
				return fmt.Errorf("frame %d: %w", f.Index, err)
			}
			return err
		}
	}
	return nil
}

func runFrame(cfg fractal.Config, p *params.Params, f Frame, total int, opts Options) error {
	cfg.Fractal = f.Fractal

	var s sinks
	if opts.Printer != nil {
		label := "rendering"
		if total > 1 {
			label = fmt.Sprintf("frame %d/%d", f.Index+1, total)
		}
		opts.Printer.SetLabel(label)
		s = append(s, opts.Printer)
	}
	if opts.Hub != nil {
		s = append(s, opts.Hub.Sink(f.Index, total))
	}
	if len(s) > 0 {
		cfg.Progress = s
	}

	g, err := fractal.RenderRaw(cfg, f.View)
	if opts.Printer != nil {
		opts.Printer.Done()
	}
	if err != nil {
		return err
	}

	if p.DevOptions.PrintHistogram && opts.Diagnostics != nil {
		norm := coloring.Normalize(g, coloring.Mode{Kind: coloring.MinMaxNorm})
		caption := fmt.Sprintf("raw %s values", cfg.Mode)
		if err := console.Histogram(opts.Diagnostics, coloring.Histogram(norm, histogramBuckets), caption); err != nil {
			return err
		}
	}

	img, err := coloring.Colorize(g, coloring.Options{
		Mode:     cfg.Coloring,
		Gradient: cfg.Gradient,
		Overlay:  cfg.GradientOverlay,
	})
	if err != nil {
		return err
	}

	n, err := opts.Writer.WriteImage(f.Path, img)
	if err != nil {
		return err
	}
	summary := imageio.Summary(img, n, f.Path)
	if opts.Printer != nil {
		opts.Printer.Println(summary)
	}
	if opts.Hub != nil {
		if err := opts.Hub.PublishFrame(f.Index, total, img, summary); err != nil {
			return err
		}
	}
	return nil
}
