package render

import (
	"sync"
	"sync/atomic"
	"time"
)

// DefaultReportInterval throttles progress reports.
const DefaultReportInterval = 100 * time.Millisecond

// Status is a progress snapshot handed to a Sink.
type Status struct {
	Done    uint64
	Total   uint64
	Elapsed time.Duration
}

// Fraction returns Done/Total in [0, 1].
func (s Status) Fraction() float64 {
	if s.Total == 0 {
		return 1
	}
	return min(float64(s.Done)/float64(s.Total), 1)
}

// Sink receives progress reports. Report is never called concurrently with
// itself for one Progress.
type Sink interface {
	Report(Status)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Status)

func (f SinkFunc) Report(s Status) { f(s) }

// Progress is the shared work counter of one render. Workers add units with
// relaxed atomics; at most one report per interval reaches the sink.
type Progress struct {
	total    uint64
	done     atomic.Uint64
	start    time.Time
	interval time.Duration
	next     atomic.Int64 // unix nanos before which no report is sent

	sink Sink
	m    sync.Mutex
}

// NewProgress returns a counter expecting total units. sink may be nil.
func NewProgress(total uint64, sink Sink, interval time.Duration) *Progress {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &Progress{
		total:    total,
		start:    time.Now(),
		interval: interval,
		sink:     sink,
	}
}

// Add records n finished units.
func (p *Progress) Add(n uint64) {
	p.done.Add(n)
	if p.sink == nil {
		return
	}

	now := time.Now().UnixNano()
	next := p.next.Load()
	if now < next || !p.next.CompareAndSwap(next, now+int64(p.interval)) {
		return
	}
	p.report()
}

// Finish sends a final report regardless of throttling and returns it.
func (p *Progress) Finish() Status {
	if p.sink == nil {
		return p.Status()
	}
	return p.report()
}

func (p *Progress) report() Status {
	p.m.Lock()
	defer p.m.Unlock()

	s := p.Status()
	p.sink.Report(s)
	return s
}

// Status returns the current snapshot.
func (p *Progress) Status() Status {
	return Status{Done: p.done.Load(), Total: p.total, Elapsed: time.Since(p.start)}
}
