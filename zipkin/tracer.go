package zipkin

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Reporter receives finished spans and is responsible for getting them to
// a collector. Implementations must be safe for concurrent use; Tracer
// calls Send from whatever goroutine called Span.Finish.
type Reporter interface {
	Send(span *Span)
	Close() error
}

// TracerOption configures a Tracer at construction time.
type TracerOption func(*Tracer)

// WithEndpoint sets the local Endpoint recorded on every span produced by
// this tracer, used to synthesize the cs/cr/sr/ss annotations.
func WithEndpoint(e Endpoint) TracerOption {
	return func(t *Tracer) { t.localEndpoint = &e }
}

// WithSampler overrides the default always-sample sampler.
func WithSampler(s Sampler) TracerOption {
	return func(t *Tracer) { t.sampler = s }
}

// Tracer creates and finishes spans, handing each finished span to its
// Reporter. A Tracer is safe for concurrent use by multiple goroutines.
type Tracer struct {
	reporter      Reporter
	sampler       Sampler
	localEndpoint *Endpoint

	mu     sync.RWMutex
	closed bool
}

// NewTracer builds a Tracer that hands finished spans to reporter.
func NewTracer(reporter Reporter, opts ...TracerOption) *Tracer {
	t := &Tracer{
		reporter: reporter,
		sampler:  alwaysSample{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracer) endpoint() *Endpoint {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.localEndpoint
}

// StartRootSpan begins a new trace: fresh trace id, fresh span id (drawn
// independently of the trace id), no parent, sampled decision made by the
// tracer's Sampler.
func (t *Tracer) StartRootSpan(name string, startTime time.Time) *Span {
	traceID := TraceID{Low: randID()}
	sampled := t.sampler.Sample(traceID)
	return t.newSpan(traceID, SpanID(randID()), nil, name, startTime, sampled, false)
}

// StartSpanFromRemote continues a trace from a propagated SpanContext,
// reconciling the continuation with the annotations the parent context
// already carries:
//
//   - sr present, cs absent: parent is the server leg of an inbound call
//     that's now making an outbound one. Mint a fresh child id parented at
//     the remote span and record a client-send annotation.
//   - cs present, sr absent: parent is the client leg of an outbound call
//     now being joined by its server. Share the remote span's id (Zipkin
//     v1 server spans share the client's id; see DESIGN.md) and record a
//     server-receive annotation.
//   - both present: the previous span already closed both halves of the
//     handshake, so there is nothing left to join. Return an empty span.
//   - neither present: the ordinary case of continuing a plain local
//     reference (e.g. ChildOf a span with no client/server annotations).
//     Mint a normal child with no extra annotation.
func (t *Tracer) StartSpanFromRemote(name string, parent SpanContext, startTime time.Time) *Span {
	sampled, ok := parent.Flags.Sampled()
	if !ok {
		sampled = t.sampler.Sample(parent.TraceID)
	}

	switch {
	case parent.SR && !parent.CS:
		parentID := parent.SpanID
		span := t.newSpan(parent.TraceID, SpanID(randID()), &parentID, name, startTime, sampled, parent.Flags.Debug())
		span.AddAnnotation(Annotation{Timestamp: span.wallStart, Value: ClientSend, Endpoint: t.endpoint()})
		return span
	case parent.CS && !parent.SR:
		span := t.newSpan(parent.TraceID, parent.SpanID, parent.ParentID, name, startTime, sampled, parent.Flags.Debug())
		span.AddAnnotation(Annotation{Timestamp: span.wallStart, Value: ServerReceive, Endpoint: t.endpoint()})
		return span
	case parent.CS && parent.SR:
		return t.newEmptySpan(name, startTime)
	default:
		parentID := parent.SpanID
		return t.newSpan(parent.TraceID, SpanID(randID()), &parentID, name, startTime, sampled, parent.Flags.Debug())
	}
}

func (t *Tracer) newSpan(traceID TraceID, spanID SpanID, parentID *SpanID, name string, startTime time.Time, sampled, debug bool) *Span {
	s := &Span{
		tracer:      t,
		traceID:     traceID,
		spanID:      spanID,
		parentID:    parentID,
		name:        name,
		debug:       debug,
		sampled:     sampled,
		wallStart:   uint64(startTime.UnixMicro()),
		steadyStart: startTime,
	}
	if endpoint := t.endpoint(); endpoint != nil {
		s.binaryAnnotations = append(s.binaryAnnotations, BinaryAnnotation{
			Key:      "lc",
			Type:     AnnotationTypeString,
			String:   endpoint.ServiceName,
			Endpoint: endpoint,
		})
	}
	return s
}

// newEmptySpan returns an inert span not tethered to the tracer: Finish is a
// no-op and it is never handed to the reporter. Used when a continuation
// context shows both halves of an RPC handshake already complete, so there
// is no real span left to join.
func (t *Tracer) newEmptySpan(name string, startTime time.Time) *Span {
	return &Span{
		name:        name,
		noop:        true,
		wallStart:   uint64(startTime.UnixMicro()),
		steadyStart: startTime,
	}
}

func (t *Tracer) reportSpan(s *Span) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.closed || !s.sampled {
		return
	}
	t.reporter.Send(s)
}

// Close drains the tracer's reporter. After Close, finished spans are
// silently dropped rather than reported.
func (t *Tracer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	t.mu.Unlock()
	return t.reporter.Close()
}

func randID() uint64 {
	return rand.Uint64()
}
