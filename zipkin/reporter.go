package zipkin

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rnburn/zipkin-opentracing-go/internal/log"
)

// DefaultReportingPeriod is how often the async reporter flushes its buffer
// on a timer, absent a capacity-triggered flush in between.
const DefaultReportingPeriod = 500 * time.Millisecond

// DefaultMaxBufferedSpans bounds how many finished spans the async reporter
// holds before it starts dropping new ones.
const DefaultMaxBufferedSpans = 1000

// Transport delivers a batch of finished spans to a collector.
type Transport interface {
	Send(spans []*Span) error
}

// AsyncReporter buffers finished spans and flushes them to a Transport from
// a single background goroutine, either on a fixed interval or as soon as
// the buffer fills, whichever comes first. It never blocks Span.Finish: a
// full buffer simply drops the incoming span and counts the drop.
type AsyncReporter struct {
	transport        Transport
	reportingPeriod  time.Duration
	maxBufferedSpans int

	mu    sync.Mutex
	spans []*Span

	wake     chan struct{}
	flush    chan chan struct{}
	stop     chan struct{}
	stopOnce sync.Once
	stopped  chan struct{}

	numReported atomic.Uint64
	numFlushed  atomic.Uint64
	numDropped  atomic.Uint64
}

// ReporterOption configures an AsyncReporter at construction time.
type ReporterOption func(*AsyncReporter)

// WithReportingPeriod overrides DefaultReportingPeriod.
func WithReportingPeriod(d time.Duration) ReporterOption {
	return func(r *AsyncReporter) { r.reportingPeriod = d }
}

// WithMaxBufferedSpans overrides DefaultMaxBufferedSpans.
func WithMaxBufferedSpans(n int) ReporterOption {
	return func(r *AsyncReporter) { r.maxBufferedSpans = n }
}

// NewAsyncReporter starts the reporter's background writer goroutine.
func NewAsyncReporter(transport Transport, opts ...ReporterOption) *AsyncReporter {
	r := &AsyncReporter{
		transport:        transport,
		reportingPeriod:  DefaultReportingPeriod,
		maxBufferedSpans: DefaultMaxBufferedSpans,
		wake:             make(chan struct{}, 1),
		flush:            make(chan chan struct{}),
		stop:             make(chan struct{}),
		stopped:          make(chan struct{}),
	}
	go r.run()
	return r
}

// Send enqueues span for the next flush. If the buffer is already at
// capacity, span is dropped and the drop is counted rather than applying
// backpressure to the caller.
func (r *AsyncReporter) Send(span *Span) {
	r.mu.Lock()
	if len(r.spans) >= r.maxBufferedSpans {
		r.mu.Unlock()
		r.numDropped.Add(1)
		return
	}
	r.spans = append(r.spans, span)
	full := len(r.spans) >= r.maxBufferedSpans
	r.numReported.Add(1)
	r.mu.Unlock()

	if full {
		select {
		case r.wake <- struct{}{}:
		default:
		}
	}
}

func (r *AsyncReporter) run() {
	ticker := time.NewTicker(r.reportingPeriod)
	defer ticker.Stop()
	defer close(r.stopped)
	for {
		select {
		case <-r.stop:
			r.flushOnce()
			return
		case <-ticker.C:
			r.flushOnce()
		case <-r.wake:
			r.flushOnce()
		case done := <-r.flush:
			r.flushOnce()
			close(done)
		}
	}
}

func (r *AsyncReporter) flushOnce() {
	r.mu.Lock()
	if len(r.spans) == 0 {
		r.mu.Unlock()
		return
	}
	batch := r.spans
	r.spans = nil
	r.mu.Unlock()

	if err := r.transport.Send(batch); err != nil {
		log.Error("zipkin: failed to send %d spans: %s", len(batch), err)
		return
	}
	r.numFlushed.Add(uint64(len(batch)))
}

// FlushWithTimeout blocks until all spans reported before the call returns
// have been handed to the transport, or timeout elapses. It reports whether
// the flush completed in time.
func (r *AsyncReporter) FlushWithTimeout(timeout time.Duration) bool {
	done := make(chan struct{})
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case r.flush <- done:
	case <-timer.C:
		return false
	case <-r.stopped:
		return false
	}

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// Stats reports the reporter's lifetime counters: spans handed to the
// reporter, spans successfully flushed to the transport, and spans dropped
// because the buffer was full.
func (r *AsyncReporter) Stats() (reported, flushed, dropped uint64) {
	return r.numReported.Load(), r.numFlushed.Load(), r.numDropped.Load()
}

// Close stops the writer goroutine after a final flush of whatever is
// buffered. It does not wait for in-flight transport sends beyond that
// final flush.
func (r *AsyncReporter) Close() error {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.stopped
	return nil
}
