package zipkinot

import (
	"testing"

	"github.com/opentracing/opentracing-go"
	"github.com/rnburn/zipkin-opentracing-go/zipkin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartSpanRootHasNoParent(t *testing.T) {
	tracer, err := New(WithServiceName("svc"), WithReporter(discardReporter{}))
	require.NoError(t, err)

	span := tracer.StartSpan("op").(*Span)
	assert.True(t, span.core.Context().IsRoot())
}

func TestStartSpanChildOfLocalSpanMintsNewID(t *testing.T) {
	tracer, err := New(WithServiceName("svc"), WithReporter(discardReporter{}))
	require.NoError(t, err)

	parent := tracer.StartSpan("parent").(*Span)
	child := tracer.StartSpan("child", opentracing.ChildOf(parent.Context())).(*Span)

	assert.NotEqual(t, parent.core.SpanID(), child.core.SpanID())
}

func TestStartSpanJoinsContextThatSentButHasNotReceived(t *testing.T) {
	tracer, err := New(WithServiceName("svc"), WithReporter(discardReporter{}))
	require.NoError(t, err)

	extracted := &SpanContext{core: remoteCoreContext()}
	extracted.core.AnnotationSet = zipkin.AnnotationSet{CS: true}

	child := tracer.StartSpan("server-op", opentracing.ChildOf(extracted)).(*Span)

	assert.Equal(t, extracted.core.SpanID, child.core.SpanID())
}

func TestStartSpanContinuesContextThatReceivedButHasNotSent(t *testing.T) {
	tracer, err := New(WithServiceName("svc"), WithReporter(discardReporter{}))
	require.NoError(t, err)

	extracted := &SpanContext{core: remoteCoreContext()}
	extracted.core.AnnotationSet = zipkin.AnnotationSet{SR: true}

	child := tracer.StartSpan("client-op", opentracing.ChildOf(extracted)).(*Span)

	assert.NotEqual(t, extracted.core.SpanID, child.core.SpanID())
}

func TestStartSpanAppliesTags(t *testing.T) {
	reporter := zipkin.NewInMemoryReporter()
	tracer, err := New(WithServiceName("svc"), WithReporter(reporter), WithSampleRate(1))
	require.NoError(t, err)

	span := tracer.StartSpan("op", opentracing.Tag{Key: "http.method", Value: "GET"}).(*Span)
	span.Finish()

	require.Equal(t, 1, reporter.Size())
	data, err := reporter.Top().MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "http.method")
}

func TestBaggageItemIsSetAndVisible(t *testing.T) {
	tracer, err := New(WithServiceName("svc"), WithReporter(discardReporter{}))
	require.NoError(t, err)

	span := tracer.StartSpan("op")
	span.SetBaggageItem("k", "v")
	assert.Equal(t, "v", span.BaggageItem("k"))
}

func remoteCoreContext() zipkin.SpanContext {
	return zipkin.SpanContext{
		TraceID: zipkin.TraceID{Low: 55},
		SpanID:  zipkin.SpanID(66),
	}
}
