package render

import (
	"log/slog"
	"sync"
	"testing"
)

func TestSchedulerRendersEveryChunkOnce(t *testing.T) {
	chunks := Partition(300, 170, 32)
	sched := newChunkScheduler(chunks, slog.New(slog.DiscardHandler))

	var m sync.Mutex
	seen := make(map[int]int)
	sched.run(6, func(c Chunk) {
		m.Lock()
		seen[c.Index]++
		m.Unlock()
	})

	if len(seen) != len(chunks) {
		t.Fatalf("rendered %d chunks, want %d", len(seen), len(chunks))
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("chunk %d rendered %d times", i, n)
		}
	}
	if sched.finishedChunks != len(chunks) || sched.workers != 0 {
		t.Errorf("finished = %d, workers = %d", sched.finishedChunks, sched.workers)
	}
}
