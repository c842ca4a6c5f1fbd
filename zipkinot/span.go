package zipkinot

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	otlog "github.com/opentracing/opentracing-go/log"
	"github.com/rnburn/zipkin-opentracing-go/zipkin"
)

// Span implements opentracing.Span over a zipkin.Span. Tags and operation
// name are delegated straight to the core span, which already serializes
// access to them. Baggage has no equivalent in the core model, so it lives
// here behind its own mutex and is copied into a fresh SpanContext on every
// Context() call, since OpenTracing permits baggage access to race with
// SetBaggageItem on a context already handed out.
type Span struct {
	tracer *Tracer
	core   *zipkin.Span

	baggageMu sync.RWMutex
	baggage   map[string]string
}

var _ opentracing.Span = (*Span)(nil)

func (s *Span) Finish() {
	s.core.Finish()
}

func (s *Span) FinishWithOptions(opts opentracing.FinishOptions) {
	finishTime := opts.FinishTime
	if finishTime.IsZero() {
		finishTime = time.Now()
	}
	for _, rec := range opts.LogRecords {
		s.logFieldsAt(rec.Timestamp, rec.Fields...)
	}
	for _, ld := range opts.BulkLogData {
		s.logEventAt(ld.Timestamp, ld.Event, ld.Payload)
	}
	s.core.FinishWithTime(finishTime)
}

func (s *Span) Context() opentracing.SpanContext {
	s.baggageMu.RLock()
	b := copyBaggage(s.baggage)
	s.baggageMu.RUnlock()
	return newSpanContext(s.core.Context(), b)
}

func (s *Span) SetOperationName(operationName string) opentracing.Span {
	s.core.SetName(operationName)
	return s
}

func (s *Span) SetTag(key string, value interface{}) opentracing.Span {
	s.core.SetTag(key, value)
	return s
}

func (s *Span) LogFields(fields ...otlog.Field) {
	s.logFieldsAt(time.Now(), fields...)
}

func (s *Span) logFieldsAt(at time.Time, fields ...otlog.Field) {
	if len(fields) == 0 {
		return
	}
	enc := fieldEncoder{values: make(map[string]interface{}, len(fields))}
	for _, f := range fields {
		f.Marshal(&enc)
	}
	value, err := json.Marshal(enc.values)
	if err != nil {
		return
	}
	s.core.AddAnnotation(zipkin.Annotation{
		Timestamp: uint64(at.UnixMicro()),
		Value:     string(value),
	})
}

func (s *Span) LogKV(alternatingKeyValues ...interface{}) {
	fields, err := otlog.InterleavedKVToFields(alternatingKeyValues...)
	if err != nil {
		s.LogFields(otlog.Error(err))
		return
	}
	s.LogFields(fields...)
}

func (s *Span) SetBaggageItem(restrictedKey, value string) opentracing.Span {
	s.baggageMu.Lock()
	if s.baggage == nil {
		s.baggage = make(map[string]string, 1)
	}
	s.baggage[restrictedKey] = value
	s.baggageMu.Unlock()
	return s
}

func (s *Span) BaggageItem(restrictedKey string) string {
	s.baggageMu.RLock()
	defer s.baggageMu.RUnlock()
	return s.baggage[restrictedKey]
}

func (s *Span) Tracer() opentracing.Tracer {
	return s.tracer
}

// LogEvent and LogEventWithPayload implement the deprecated logging surface
// of opentracing.Span in terms of the current Annotation model.
func (s *Span) LogEvent(event string) {
	s.logEventAt(time.Now(), event, nil)
}

func (s *Span) LogEventWithPayload(event string, payload interface{}) {
	s.logEventAt(time.Now(), event, payload)
}

func (s *Span) Log(data opentracing.LogData) {
	s.logEventAt(data.Timestamp, data.Event, data.Payload)
}

func (s *Span) logEventAt(at time.Time, event string, payload interface{}) {
	if at.IsZero() {
		at = time.Now()
	}
	value := event
	if payload != nil {
		if b, err := json.Marshal(payload); err == nil {
			value = event + " " + string(b)
		}
	}
	s.core.AddAnnotation(zipkin.Annotation{
		Timestamp: uint64(at.UnixMicro()),
		Value:     value,
	})
}

// fieldEncoder implements otlog.Encoder by collecting fields into a map
// that LogFields serializes as a single annotation value.
type fieldEncoder struct {
	values map[string]interface{}
}

func (e *fieldEncoder) EmitString(key, value string)            { e.values[key] = value }
func (e *fieldEncoder) EmitBool(key string, value bool)         { e.values[key] = value }
func (e *fieldEncoder) EmitInt(key string, value int)           { e.values[key] = value }
func (e *fieldEncoder) EmitInt32(key string, value int32)       { e.values[key] = value }
func (e *fieldEncoder) EmitInt64(key string, value int64)       { e.values[key] = value }
func (e *fieldEncoder) EmitUint32(key string, value uint32)     { e.values[key] = value }
func (e *fieldEncoder) EmitUint64(key string, value uint64)     { e.values[key] = value }
func (e *fieldEncoder) EmitFloat32(key string, value float32)   { e.values[key] = value }
func (e *fieldEncoder) EmitFloat64(key string, value float64)   { e.values[key] = value }
func (e *fieldEncoder) EmitObject(key string, value interface{}) { e.values[key] = value }
func (e *fieldEncoder) EmitLazyLogger(value otlog.LazyLogger)   { value(e) }
