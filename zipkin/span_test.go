package zipkin

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpanDurationIsMicroseconds(t *testing.T) {
	tracer := NewTracer(discardReporter{}, WithSampler(alwaysSample{}))
	start := time.Unix(0, 0)
	span := tracer.StartRootSpan("op", start)
	span.FinishWithTime(start.Add(1500 * time.Microsecond))

	assert.Equal(t, uint64(1500), span.duration)
}

func TestSpanTagsBecomeBinaryAnnotations(t *testing.T) {
	tracer := NewTracer(discardReporter{}, WithSampler(alwaysSample{}))
	span := tracer.StartRootSpan("op", time.Now())
	span.SetTag("retry", true)
	span.SetTag("attempt", 3)
	span.SetTag("latency_ms", 12.5)
	span.SetTag("error", "boom")
	span.Finish()

	byKey := map[string]BinaryAnnotation{}
	for _, b := range span.binaryAnnotations {
		byKey[b.Key] = b
	}

	assert.Equal(t, AnnotationTypeBool, byKey["retry"].Type)
	assert.True(t, byKey["retry"].Bool)
	assert.Equal(t, AnnotationTypeInt64, byKey["attempt"].Type)
	assert.Equal(t, int64(3), byKey["attempt"].Int64)
	assert.Equal(t, AnnotationTypeDouble, byKey["latency_ms"].Type)
	assert.Equal(t, 12.5, byKey["latency_ms"].Double)
	assert.Equal(t, AnnotationTypeString, byKey["error"].Type)
	assert.Equal(t, "boom", byKey["error"].String)
}

func TestSpanWithoutKindSynthesizesNoAnnotations(t *testing.T) {
	endpoint := Endpoint{ServiceName: "svc"}
	tracer := NewTracer(discardReporter{}, WithEndpoint(endpoint), WithSampler(alwaysSample{}))
	span := tracer.StartRootSpan("op", time.Now())
	span.Finish()

	assert.Empty(t, span.annotations)
}
