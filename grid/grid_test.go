package grid

import (
	"sync"
	"testing"

	"github.com/marben/fractal_render/errs"
)

func TestNew(t *testing.T) {
	g, err := New[float64](5, 3)
	if err != nil {
		t.Fatal(err)
	}
	if g.Width() != 5 || g.Height() != 3 || len(g.Data) != 15 {
		t.Fatalf("New(5, 3) = %dx%d with %d cells", g.Width(), g.Height(), len(g.Data))
	}
	for i, v := range g.Data {
		if v != 0 {
			t.Fatalf("Data[%d] = %v, want 0", i, v)
		}
	}
}

func TestNewRejectsBadDimensions(t *testing.T) {
	tests := []struct {
		w, h  int
		field string
	}{
		{0, 10, "img_width"},
		{-1, 10, "img_width"},
		{10, 0, "img_height"},
	}
	for _, tt := range tests {
		_, err := New[int](tt.w, tt.h)
		ce, ok := err.(*errs.ConfigError)
		if !ok || ce.Field != tt.field {
			t.Errorf("New(%d, %d) error = %v, want config error on %s", tt.w, tt.h, err, tt.field)
		}
		if _, err := NewCounter(tt.w, tt.h); !errs.IsConfig(err) {
			t.Errorf("NewCounter(%d, %d) error = %v, want config error", tt.w, tt.h, err)
		}
	}
}

func TestAccessors(t *testing.T) {
	g, _ := New[int](4, 4)
	g.Set(1, 2, 10)
	if got := g.At(1, 2); got != 10 {
		t.Errorf("At(1, 2) = %d, want 10", got)
	}
	if got := g.Row(2)[1]; got != 10 {
		t.Errorf("Row(2)[1] = %d, want 10", got)
	}

	g.Set(3, 3, -2)
	lo, hi := g.MinMax()
	if lo != -2 || hi != 10 {
		t.Errorf("MinMax() = %d, %d; want -2, 10", lo, hi)
	}

	f := Float64(g)
	if f.At(1, 2) != 10 || f.Width() != 4 {
		t.Errorf("Float64() lost data: %v", f.At(1, 2))
	}
}

func TestCounterConcurrentIncrements(t *testing.T) {
	c, err := NewCounter(8, 8)
	if err != nil {
		t.Fatal(err)
	}

	const workers, perWorker = 16, 1000
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range perWorker {
				c.Inc((w+i)%8, i%8)
			}
		}()
	}
	wg.Wait()

	var total uint64
	for _, v := range c.Snapshot().Data {
		total += v
	}
	if total != workers*perWorker {
		t.Errorf("total count = %d, want %d", total, workers*perWorker)
	}
}

