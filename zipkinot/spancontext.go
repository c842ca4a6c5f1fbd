// Package zipkinot adapts package zipkin's tracer to the OpenTracing API,
// so application code written against opentracing.Tracer gets Zipkin v1
// spans without depending on the zipkin package directly.
package zipkinot

import (
	"github.com/opentracing/opentracing-go"
	"github.com/rnburn/zipkin-opentracing-go/zipkin"
)

// SpanContext implements opentracing.SpanContext. It is an immutable
// snapshot: a live Span's baggage lives on the Span itself and is copied in
// fresh each time Span.Context is called, since OpenTracing permits
// SetBaggageItem to race with a context already handed out by an earlier
// Context() call.
type SpanContext struct {
	core    zipkin.SpanContext
	baggage map[string]string
}

var _ opentracing.SpanContext = (*SpanContext)(nil)

func newSpanContext(core zipkin.SpanContext, baggage map[string]string) *SpanContext {
	return &SpanContext{core: core, baggage: baggage}
}

// ForeachBaggageItem calls handler for each baggage item, stopping early if
// handler returns false.
func (c *SpanContext) ForeachBaggageItem(handler func(k, v string) bool) {
	for k, v := range c.baggage {
		if !handler(k, v) {
			return
		}
	}
}

func copyBaggage(src map[string]string) map[string]string {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
