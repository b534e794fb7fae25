package render

import (
	"log/slog"
	"sync"
)

// chunkScheduler hands chunks to workers. Chunks are popped in partition
// order; which worker renders which chunk is unspecified.
type chunkScheduler struct {
	workers int

	totalChunks    int
	finishedChunks int

	unstarted []Chunk
	m         sync.Mutex

	log *slog.Logger
}

func newChunkScheduler(chunks []Chunk, log *slog.Logger) *chunkScheduler {
	return &chunkScheduler{
		unstarted:   chunks,
		totalChunks: len(chunks),
		log:         log,
	}
}

func (cs *chunkScheduler) popChunk() (chunk Chunk, found bool) {
	cs.m.Lock()
	defer cs.m.Unlock()

	if len(cs.unstarted) == 0 {
		return Chunk{}, false
	}
	chunk = cs.unstarted[0]
	cs.unstarted = cs.unstarted[1:]
	return chunk, true
}

func (cs *chunkScheduler) chunkFinished(chunk Chunk) {
	cs.m.Lock()
	cs.finishedChunks++
	finished := cs.finishedChunks
	cs.m.Unlock()

	cs.log.Debug("chunk finished", "row", chunk.Row, "col", chunk.Col, "finished", finished, "total", cs.totalChunks)
}

func (cs *chunkScheduler) incActiveWorkers() {
	cs.m.Lock()
	cs.workers++
	w := cs.workers
	cs.m.Unlock()

	cs.log.Debug("worker started", "workers", w)
}

func (cs *chunkScheduler) decActiveWorkers() {
	cs.m.Lock()
	cs.workers--
	w := cs.workers
	cs.m.Unlock()

	cs.log.Debug("worker stopped", "workers", w)
}

// work renders chunks until none are left.
// It is called from every worker goroutine in parallel.
func (cs *chunkScheduler) work(render func(Chunk)) {
	cs.incActiveWorkers()
	defer cs.decActiveWorkers()

	for {
		chunk, found := cs.popChunk()
		if !found {
			return
		}
		render(chunk)
		cs.chunkFinished(chunk)
	}
}

// run starts workers goroutines and blocks until every chunk is rendered.
func (cs *chunkScheduler) run(workers int, render func(Chunk)) {
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cs.work(render)
		}()
	}
	wg.Wait()
}
