package job

import (
	"bytes"
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/marben/fractal_render/errs"
	"github.com/marben/fractal_render/imageio"
	"github.com/marben/fractal_render/internal/console"
	"github.com/marben/fractal_render/internal/live"
	"github.com/marben/fractal_render/params"
)

type memWriter struct {
	m      sync.Mutex
	images map[string]image.Image
}

func (w *memWriter) WriteImage(path string, img image.Image) (int64, error) {
	w.m.Lock()
	defer w.m.Unlock()
	if w.images == nil {
		w.images = make(map[string]image.Image)
	}
	w.images[path] = img
	return int64(len(img.(*image.RGBA).Pix)), nil
}

func decode(t *testing.T, js string) *params.Params {
	t.Helper()
	p, err := params.Decode(strings.NewReader(js))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

const frameJSON = `{
	"img_width": 16, "img_height": 12, "max_iter": 40,
	"render": {"frame": {"zoom": 3, "center_x": -0.5}},
	"sampling": {"level": 2},
	"coloring_mode": {"kind": "min_max_norm"},
	"dev_options": {"save_sampling_pattern": true, "print_histogram": true}
}`

const animationJSON = `{
	"img_width": 8, "img_height": 8, "max_iter": 20,
	"render": {"animation": {
		"zoom": [{"start": 0, "end": 1, "from": 4, "to": 1, "transition": "exponential"}],
		"center_x": [{"start": 0, "end": 1, "from": -0.5, "to": -0.7}],
		"center_y": [{"start": 0, "end": 1, "from": 0, "to": 0}],
		"duration": 1, "fps": 3
	}},
	"sampling": {"level": 1},
	"coloring_mode": {"kind": "max_norm"}
}`

func TestRunFrame(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "mandel.png")
	var status, diag bytes.Buffer

	err := Run(context.Background(), decode(t, frameJSON), out, Options{
		Writer:      imageio.Writer{},
		Printer:     console.NewPrinter(&status, "x"),
		Diagnostics: &diag,
	})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(out); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "mandel_sampling.png")); err != nil {
		t.Errorf("sampling preview not written: %v", err)
	}
	if !strings.Contains(status.String(), "output image: 16x12 - ") || !strings.Contains(status.String(), " - png") {
		t.Errorf("summary missing from %q", status.String())
	}
	if !strings.Contains(diag.String(), "raw escape_time values") {
		t.Errorf("histogram missing from %q", diag.String())
	}
}

func TestRunAnimation(t *testing.T) {
	w := &memWriter{}
	hub := live.NewHub(context.Background())
	defer hub.Close()

	err := Run(context.Background(), decode(t, animationJSON), "out/anim.bmp", Options{Writer: w, Hub: hub})
	if err != nil {
		t.Fatal(err)
	}
	if len(w.images) != 3 {
		t.Fatalf("wrote %d frames, want 3", len(w.images))
	}
	for i := range 3 {
		img, ok := w.images[imageio.FramePath("out/anim.bmp", i)]
		if !ok {
			t.Errorf("frame %d missing, have %v", i, w.images)
			continue
		}
		if img.Bounds() != image.Rect(0, 0, 8, 8) {
			t.Errorf("frame %d bounds = %v", i, img.Bounds())
		}
	}
	if _, v := hub.Frame(); v != 3 {
		t.Errorf("hub frame version = %d, want 3", v)
	}
}

func TestPlanAnimation(t *testing.T) {
	p := decode(t, animationJSON)
	frames, err := Plan(p, "a.png")
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 3 {
		t.Fatalf("len = %d, want 3", len(frames))
	}
	if frames[0].View.Zoom != 4 || frames[0].Path != "a_000000.png" {
		t.Errorf("frame 0 = %+v", frames[0])
	}
	for i := 1; i < len(frames); i++ {
		if frames[i].View.Zoom >= frames[i-1].View.Zoom {
			t.Errorf("zoom does not shrink: frame %d %v after %v", i, frames[i].View.Zoom, frames[i-1].View.Zoom)
		}
	}
}

func TestRunRejects(t *testing.T) {
	w := &memWriter{}

	err := Run(context.Background(), decode(t, frameJSON), "out.gif", Options{Writer: w})
	if !errs.IsConfig(err) {
		t.Errorf("gif output: err = %v, want ConfigError", err)
	}

	p := decode(t, frameJSON)
	p.MaxIter = 0
	if err := Run(context.Background(), p, "out.png", Options{Writer: w}); !errs.IsConfig(err) {
		t.Errorf("max_iter 0: err = %v, want ConfigError", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Run(ctx, decode(t, animationJSON), "out.png", Options{Writer: w})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v, want context.Canceled", err)
	}
	if len(w.images) != 0 {
		t.Errorf("wrote %d images", len(w.images))
	}
}

func TestSamplingPreviewPath(t *testing.T) {
	if got := SamplingPreviewPath("out/x.tiff"); got != "out/x_sampling.png" {
		t.Errorf("SamplingPreviewPath = %q", got)
	}
}
