package render

import (
	"image"
	"testing"
)

func TestPartitionCoversExactly(t *testing.T) {
	tests := []struct {
		w, h, size int
	}{
		{1, 1, 1},
		{64, 64, 64},
		{65, 64, 64},
		{100, 37, 16},
		{7, 300, 512},
		{513, 1025, 512},
		{31, 17, 3},
	}
	for _, tt := range tests {
		cover := make([]int, tt.w*tt.h)
		chunks := Partition(tt.w, tt.h, tt.size)
		for i, c := range chunks {
			if c.Index != i {
				t.Errorf("%+v: chunk %d has Index %d", tt, i, c.Index)
			}
			if c.Rect.Dx() > tt.size || c.Rect.Dy() > tt.size || c.Rect.Empty() {
				t.Errorf("%+v: chunk %v has bad size", tt, c.Rect)
			}
			if !c.Rect.In(image.Rect(0, 0, tt.w, tt.h)) {
				t.Errorf("%+v: chunk %v outside image", tt, c.Rect)
			}
			for y := c.Rect.Min.Y; y < c.Rect.Max.Y; y++ {
				for x := c.Rect.Min.X; x < c.Rect.Max.X; x++ {
					cover[y*tt.w+x]++
				}
			}
		}
		for i, n := range cover {
			if n != 1 {
				t.Fatalf("%+v: pixel (%d, %d) covered %d times", tt, i%tt.w, i/tt.w, n)
			}
		}

		rows := (tt.h + tt.size - 1) / tt.size
		cols := (tt.w + tt.size - 1) / tt.size
		if len(chunks) != rows*cols {
			t.Errorf("%+v: %d chunks, want %d", tt, len(chunks), rows*cols)
		}
		last := chunks[len(chunks)-1]
		if last.Row != rows-1 || last.Col != cols-1 {
			t.Errorf("%+v: last chunk at (%d, %d), want (%d, %d)", tt, last.Row, last.Col, rows-1, cols-1)
		}
	}
}

func TestPartitionDeterministic(t *testing.T) {
	a := Partition(300, 200, 64)
	b := Partition(300, 200, 64)
	if len(a) != len(b) {
		t.Fatal("partition sizes differ")
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("chunk %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestTotalUnits(t *testing.T) {
	chunks := Partition(100, 70, 32)
	for _, margin := range []int{0, 1, 3} {
		var want uint64
		for _, c := range chunks {
			want += uint64((c.Rect.Dx() + 2*margin) * (c.Rect.Dy() + 2*margin))
		}
		if got := TotalUnits(chunks, margin); got != want {
			t.Errorf("TotalUnits(margin=%d) = %d, want %d", margin, got, want)
		}
	}
	if got := TotalUnits(chunks, 0); got != 100*70 {
		t.Errorf("TotalUnits(margin=0) = %d, want image area %d", got, 100*70)
	}
}

func TestShare(t *testing.T) {
	for _, tt := range []struct {
		total uint64
		parts int
	}{{10, 3}, {7, 7}, {3, 5}, {1 << 20, 13}} {
		var sum uint64
		for i := range tt.parts {
			sum += share(tt.total, tt.parts, i)
		}
		if sum != tt.total {
			t.Errorf("shares of %d in %d parts sum to %d", tt.total, tt.parts, sum)
		}
	}
}
