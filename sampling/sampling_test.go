package sampling

import (
	"bytes"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"

	"github.com/marben/fractal_render/errs"
)

func TestGenerateInUnitSquare(t *testing.T) {
	for level := 1; level <= MaxLevel; level++ {
		pts, err := Generate(level)
		if err != nil {
			t.Fatalf("Generate(%d) error: %v", level, err)
		}
		if len(pts) != Count(level) {
			t.Errorf("Generate(%d) returned %d points, want %d", level, len(pts), Count(level))
		}
		for _, p := range pts {
			if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
				t.Fatalf("level %d: point %v outside [0,1)^2", level, p)
			}
		}
	}
}

func TestGenerateStrictlyGrows(t *testing.T) {
	prev := 0
	for level := 1; level <= MaxLevel; level++ {
		pts, _ := Generate(level)
		if len(pts) <= prev {
			t.Errorf("level %d has %d points, not more than %d", level, len(pts), prev)
		}
		prev = len(pts)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := Generate(5)
	b, _ := Generate(5)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("point %d differs between runs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerateCoverage(t *testing.T) {
	// Every stratum of the L x L grid holds exactly one point.
	for _, level := range []int{2, 3, 7, 16} {
		pts, _ := Generate(level)
		seen := make(map[[2]int]int)
		for _, p := range pts {
			seen[[2]int{int(p.X * float64(level)), int(p.Y * float64(level))}]++
		}
		if len(seen) != level*level {
			t.Errorf("level %d covers %d of %d cells", level, len(seen), level*level)
		}
	}
}

func TestGenerateRejectsLevel(t *testing.T) {
	for _, level := range []int{0, -1, MaxLevel + 1} {
		if _, err := Generate(level); !errs.IsConfig(err) {
			t.Errorf("Generate(%d) error = %v, want config error", level, err)
		}
	}
}

func TestWritePreview(t *testing.T) {
	pts, _ := Generate(4)
	var buf bytes.Buffer
	if err := WritePreview(&buf, pts); err != nil {
		t.Fatalf("WritePreview: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("preview is not a PNG")
	}
}

func TestSavePreview(t *testing.T) {
	pts, _ := Generate(2)
	dir := t.TempDir()
	if err := SavePreview(filepath.Join(dir, "nested", "p.png"), pts); err != nil {
		t.Fatalf("SavePreview: %v", err)
	}

	blocker := filepath.Join(dir, "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := SavePreview(filepath.Join(blocker, "p.png"), pts)
	if !errs.IsIO(err) {
		t.Errorf("SavePreview error = %v, want IO error", err)
	}
}

func TestRandom(t *testing.T) {
	a := Random(rand.New(rand.NewPCG(1, 2)), 500)
	b := Random(rand.New(rand.NewPCG(1, 2)), 500)
	if len(a) != 500 {
		t.Fatalf("len = %d, want 500", len(a))
	}
	for i, p := range a {
		if p != b[i] {
			t.Fatalf("point %d differs between equal seeds: %v vs %v", i, p, b[i])
		}
		if p.X < 0 || p.X >= 1 || p.Y < 0 || p.Y >= 1 {
			t.Errorf("point %d = %v outside unit square", i, p)
		}
	}
}
