package fractal

import (
	"bytes"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/marben/fractal_render/coloring"
	"github.com/marben/fractal_render/engine"
	"github.com/marben/fractal_render/errs"
	"github.com/marben/fractal_render/render"
)

func classicConfig() Config {
	return Config{
		Width:         64,
		Height:        64,
		MaxIter:       50,
		SamplingLevel: 2,
		KernelMargin:  DefaultKernelMargin,
		ChunkSize:     24,
		Coloring:      coloring.Mode{Kind: coloring.CumulativeHistogram},
	}
}

func TestClassicFrame(t *testing.T) {
	cfg := classicConfig()
	g, err := RenderRaw(cfg, View{Zoom: 4})
	if err != nil {
		t.Fatal(err)
	}

	for _, p := range [][2]int{{32, 32}, {31, 31}, {31, 32}, {32, 31}} {
		if v := g.At(p[0], p[1]); v != 50 {
			t.Errorf("pixel %v = %v, want 50", p, v)
		}
	}
	for _, p := range [][2]int{{0, 0}, {63, 0}, {0, 63}, {63, 63}} {
		if v := g.At(p[0], p[1]); v >= 50 {
			t.Errorf("corner %v = %v, want < 50", p, v)
		}
	}

	// Inside the main cardioid, denser sampling must still give exact counts.
	cfg.SamplingLevel = 3
	g, err = RenderRaw(cfg, View{Zoom: 4})
	if err != nil {
		t.Fatal(err)
	}
	for y := 28; y < 36; y++ {
		for x := 26; x < 32; x++ {
			if v := g.At(x, y); v != 50 {
				t.Errorf("pixel (%d,%d) = %v, want exactly 50", x, y, v)
			}
		}
	}
}

func TestRenderFrameDeterministic(t *testing.T) {
	for _, mode := range []render.Mode{render.EscapeTime, render.OrbitAccumulation} {
		cfg := classicConfig()
		cfg.Mode = mode
		cfg.Workers = 3
		a, err := RenderFrame(cfg, View{Zoom: 3, CenterX: -0.5})
		if err != nil {
			t.Fatal(err)
		}
		cfg.Workers = 7
		b, err := RenderFrame(cfg, View{Zoom: 3, CenterX: -0.5})
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%v: two renders of the same parameters differ", mode)
		}
	}
}

func TestRenderFrameOtherFractals(t *testing.T) {
	for _, order := range []int{2, 3, 5} {
		f, err := engine.New(engine.NthDegree, order)
		if err != nil {
			t.Fatal(err)
		}
		cfg := classicConfig()
		cfg.Width, cfg.Height = 24, 16
		cfg.Fractal = f
		img, err := RenderFrame(cfg, View{Zoom: 4})
		if err != nil {
			t.Fatalf("order %d: %v", order, err)
		}
		if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
			t.Errorf("order %d: image is %v", order, img.Bounds())
		}
	}
}

func TestRenderFrameRejectsConfig(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		view  View
		field string
	}{
		{"width", func(c *Config) { c.Width = 0 }, View{Zoom: 1}, "img_width"},
		{"height", func(c *Config) { c.Height = -2 }, View{Zoom: 1}, "img_height"},
		{"max iter", func(c *Config) { c.MaxIter = 0 }, View{Zoom: 1}, "max_iter"},
		{"sampling", func(c *Config) { c.SamplingLevel = 0 }, View{Zoom: 1}, "sampling.level"},
		{"threshold", func(c *Config) { c.Coloring.Threshold = -1 }, View{Zoom: 1}, "coloring_mode.threshold"},
		{"zoom", func(c *Config) {}, View{}, "zoom"},
		{"random samples", func(c *Config) { c.RandomSamples = 64 }, View{Zoom: 1}, "sampling.random_samples_per_chunk"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := classicConfig()
			tt.edit(&cfg)
			_, err := RenderFrame(cfg, tt.view)
			ce, ok := err.(*errs.ConfigError)
			if !ok || ce.Field != tt.field {
				t.Errorf("error = %v, want config error on %s", err, tt.field)
			}
		})
	}
}

func TestRendererInterface(t *testing.T) {
	var r FrameRenderer = Renderer{Config: classicConfig()}
	img, err := r.RenderFrame(SeahorseValley.View())
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("width = %d", img.Bounds().Dx())
	}
}

func TestSamplingPoints(t *testing.T) {
	pts, err := SamplingPoints(3)
	if err != nil || len(pts) != 9 {
		t.Errorf("SamplingPoints(3) = %d points, %v", len(pts), err)
	}
}

func TestPresets(t *testing.T) {
	r, ok := Preset("Seahorse_Valley")
	if !ok || r != SeahorseValley {
		t.Fatalf("Preset(Seahorse_Valley) = %v, %v", r, ok)
	}
	v := r.View()
	if math.Abs(v.Zoom-0.1) > 1e-12 || math.Abs(v.CenterX+0.75) > 1e-12 || math.Abs(v.CenterY-0.1) > 1e-12 {
		t.Errorf("View() = %+v", v)
	}
	if _, ok := Preset("nowhere"); ok {
		t.Error("Preset(nowhere) found")
	}
	names := PresetNames()
	if len(names) != len(presets) || names[0] > names[len(names)-1] {
		t.Errorf("PresetNames() = %v", names)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	defer SetLogger(nil)

	cfg := classicConfig()
	cfg.Width, cfg.Height = 8, 8
	if _, err := RenderRaw(cfg, View{Zoom: 4}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "frame rendered") {
		t.Errorf("log output missing frame line: %q", buf.String())
	}
}
