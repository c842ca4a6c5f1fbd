package zipkinot

import (
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/rnburn/zipkin-opentracing-go/zipkin"
)

// Tracer implements opentracing.Tracer over a zipkin.Tracer, translating
// OpenTracing's reference/tag vocabulary into the core tracer's root-span
// and remote-continuation operations.
type Tracer struct {
	core *zipkin.Tracer
}

var _ opentracing.Tracer = (*Tracer)(nil)

// NewTracer wraps core as an opentracing.Tracer.
func NewTracer(core *zipkin.Tracer) *Tracer {
	return &Tracer{core: core}
}

// StartSpan implements opentracing.Tracer.
func (t *Tracer) StartSpan(operationName string, opts ...opentracing.StartSpanOption) opentracing.Span {
	var sso opentracing.StartSpanOptions
	for _, opt := range opts {
		opt.Apply(&sso)
	}
	return t.startSpanWithOptions(operationName, sso)
}

func (t *Tracer) startSpanWithOptions(operationName string, sso opentracing.StartSpanOptions) opentracing.Span {
	startTime := sso.StartTime
	if startTime.IsZero() {
		startTime = time.Now()
	}

	parent := firstReference(sso.References)

	var coreSpan *zipkin.Span
	var baggage map[string]string
	if parent == nil {
		coreSpan = t.core.StartRootSpan(operationName, startTime)
	} else {
		// The core tracer reconciles the cs/sr annotations already on
		// parent.core to decide whether this continues as a fresh child or
		// joins the parent's id; see zipkin.Tracer.StartSpanFromRemote.
		coreSpan = t.core.StartSpanFromRemote(operationName, parent.core, startTime)
		baggage = copyBaggage(parent.baggage)
	}

	for k, v := range sso.Tags {
		coreSpan.SetTag(k, v)
	}

	return &Span{tracer: t, core: coreSpan, baggage: baggage}
}

// firstReference returns the first reference's context, treating FollowsFrom
// identically to ChildOf since zipkin v1's single-parent model has no use
// for OpenTracing's reference-type distinction.
func firstReference(refs []opentracing.SpanReference) *SpanContext {
	for _, ref := range refs {
		if sc, ok := ref.ReferencedContext.(*SpanContext); ok && sc != nil {
			return sc
		}
	}
	return nil
}

// Inject implements opentracing.Tracer.
func (t *Tracer) Inject(sm opentracing.SpanContext, format interface{}, carrier interface{}) error {
	sc, ok := sm.(*SpanContext)
	if !ok {
		return opentracing.ErrInvalidSpanContext
	}
	switch format {
	case opentracing.TextMap, opentracing.HTTPHeaders:
		return injectTextMap(sc, carrier)
	default:
		return opentracing.ErrUnsupportedFormat
	}
}

// Extract implements opentracing.Tracer.
func (t *Tracer) Extract(format interface{}, carrier interface{}) (opentracing.SpanContext, error) {
	switch format {
	case opentracing.TextMap, opentracing.HTTPHeaders:
		return extractTextMap(carrier)
	default:
		return nil, opentracing.ErrUnsupportedFormat
	}
}

// Close drains the underlying tracer's reporter.
func (t *Tracer) Close() error {
	return t.core.Close()
}
