package zipkin

import (
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

// SpanContext is the immutable-at-propagation identity of a span's position
// in the trace tree. It does not carry baggage; baggage is an OpenTracing
// concern layered on top by package zipkinot.
type SpanContext struct {
	TraceID  TraceID
	SpanID   SpanID
	ParentID *SpanID
	Flags    Flags
	AnnotationSet
}

// IsRoot reports whether this context has no parent.
func (c SpanContext) IsRoot() bool {
	return c.ParentID == nil
}

// Span represents a single timed operation. It is mutable until Finish is
// called, at which point it is handed off to the owning Tracer's reporter.
type Span struct {
	tracer *Tracer

	traceID  TraceID
	spanID   SpanID
	parentID *SpanID
	debug    bool
	sampled  bool
	noop     bool // true for an inert span not tethered to the tracer; see Tracer.newEmptySpan

	wallStart   uint64 // microseconds since Unix epoch, for reporting
	steadyStart time.Time
	duration    uint64

	mu                sync.Mutex
	name              string
	annotations       []Annotation
	binaryAnnotations []BinaryAnnotation
	tags              map[string]interface{}

	finished atomic.Bool
}

// Context returns a snapshot of the span's identity suitable for
// propagation or for starting a child span.
func (s *Span) Context() SpanContext {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SpanContext{
		TraceID:       s.traceID,
		SpanID:        s.spanID,
		ParentID:      s.parentID,
		Flags:         s.flags(),
		AnnotationSet: newAnnotationSet(s.annotations),
	}
}

func (s *Span) flags() Flags {
	var f Flags
	if s.debug {
		f |= FlagDebug
	}
	f = f.WithSampled(s.sampled)
	if s.parentID == nil {
		f |= FlagIsRoot
	}
	return f
}

// SetName sets the span's operation name.
func (s *Span) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

// SetTag records a tag to be converted into a BinaryAnnotation at Finish.
// The latest call for a given key wins.
func (s *Span) SetTag(key string, value interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.tags == nil {
		s.tags = make(map[string]interface{}, 1)
	}
	s.tags[key] = value
}

// AddAnnotation appends a raw annotation, used internally for cs/cr/sr/ss
// synthesis and by callers that need a timestamped event without a tag.
func (s *Span) AddAnnotation(a Annotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.annotations = append(s.annotations, a)
}

// AddBinaryAnnotation appends a raw binary annotation.
func (s *Span) AddBinaryAnnotation(a BinaryAnnotation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.binaryAnnotations = append(s.binaryAnnotations, a)
}

// Sampled reports the span's sampled decision.
func (s *Span) Sampled() bool { return s.sampled }

// TraceID returns the span's trace id.
func (s *Span) TraceID() TraceID { return s.traceID }

// SpanID returns the span's id.
func (s *Span) SpanID() SpanID { return s.spanID }

// Finish marks the span complete and hands it to the tracer's reporter. It
// is idempotent: only the first call has any observable effect.
func (s *Span) Finish() {
	s.FinishWithTime(time.Now())
}

// FinishWithTime finishes the span as if it ended at finishSteady, using the
// monotonic component of finishSteady to compute duration.
func (s *Span) FinishWithTime(finishSteady time.Time) {
	if s.finished.Swap(true) {
		return
	}
	if s.noop {
		return
	}

	s.mu.Lock()
	duration := finishSteady.Sub(s.steadyStart)
	if duration < 0 {
		duration = 0
	}
	s.duration = uint64(duration.Microseconds())

	if endpoint := s.tracer.endpoint(); endpoint != nil {
		if kind, _ := s.tags["span.kind"].(string); kind != "" {
			start := s.wallStart
			end := start + s.duration
			switch kind {
			case "client":
				s.annotations = append(s.annotations,
					Annotation{Timestamp: start, Value: ClientSend, Endpoint: endpoint},
					Annotation{Timestamp: end, Value: ClientReceive, Endpoint: endpoint})
			case "server":
				s.annotations = append(s.annotations,
					Annotation{Timestamp: start, Value: ServerReceive, Endpoint: endpoint},
					Annotation{Timestamp: end, Value: ServerSend, Endpoint: endpoint})
			}
		}
	}

	for k, v := range s.tags {
		s.binaryAnnotations = append(s.binaryAnnotations, BinaryAnnotation{
			Key: k,
		}.withValue(v))
	}
	s.mu.Unlock()

	s.tracer.reportSpan(s)
}

// withValue coerces an arbitrary tag value into a typed BinaryAnnotation:
// bool/int/double/string pass through typed, everything else becomes its
// string representation.
func (b BinaryAnnotation) withValue(v interface{}) BinaryAnnotation {
	switch val := v.(type) {
	case bool:
		b.Type = AnnotationTypeBool
		b.Bool = val
	case int:
		b.Type = AnnotationTypeInt64
		b.Int64 = int64(val)
	case int64:
		b.Type = AnnotationTypeInt64
		b.Int64 = val
	case uint64:
		b.Type = AnnotationTypeInt64
		b.Int64 = int64(val)
	case float64:
		b.Type = AnnotationTypeDouble
		b.Double = val
	case float32:
		b.Type = AnnotationTypeDouble
		b.Double = float64(val)
	case string:
		b.Type = AnnotationTypeString
		b.String = val
	case nil:
		b.Type = AnnotationTypeString
		b.String = "0"
	case fmt.Stringer:
		b.Type = AnnotationTypeString
		b.String = val.String()
	default:
		b.Type = AnnotationTypeString
		b.String = jsonStringOrFormat(v)
	}
	return b
}

func jsonStringOrFormat(v interface{}) string {
	if s, err := marshalTagValue(v); err == nil {
		return s
	}
	return strconv.Quote("unsupported tag value")
}
