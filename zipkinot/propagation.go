package zipkinot

import (
	"strings"

	"github.com/opentracing/opentracing-go"
	"github.com/rnburn/zipkin-opentracing-go/zipkin"
)

const (
	b3TraceID       = "x-b3-traceid"
	b3SpanID        = "x-b3-spanid"
	b3ParentSpanID  = "x-b3-parentspanid"
	b3Sampled       = "x-b3-sampled"
	b3Flags         = "x-b3-flags"
	baggagePrefix   = "ot-baggage-"
)

func injectTextMap(sc *SpanContext, carrier interface{}) error {
	writer, ok := carrier.(opentracing.TextMapWriter)
	if !ok {
		return opentracing.ErrInvalidCarrier
	}

	core := sc.core
	writer.Set(b3TraceID, core.TraceID.String())
	writer.Set(b3SpanID, core.SpanID.String())
	if core.ParentID != nil {
		writer.Set(b3ParentSpanID, core.ParentID.String())
	}
	if sampled, ok := core.Flags.Sampled(); ok {
		if sampled {
			writer.Set(b3Sampled, "1")
		} else {
			writer.Set(b3Sampled, "0")
		}
	}
	if core.Flags.Debug() {
		writer.Set(b3Flags, "1")
	}

	sc.ForeachBaggageItem(func(k, v string) bool {
		writer.Set(baggagePrefix+k, v)
		return true
	})
	return nil
}

func extractTextMap(carrier interface{}) (*SpanContext, error) {
	reader, ok := carrier.(opentracing.TextMapReader)
	if !ok {
		return nil, opentracing.ErrInvalidCarrier
	}

	var traceIDStr, spanIDStr, parentIDStr, sampledStr, flagsStr string
	var baggage map[string]string

	err := reader.ForeachKey(func(key, val string) error {
		switch lower := strings.ToLower(key); {
		case lower == b3TraceID:
			traceIDStr = val
		case lower == b3SpanID:
			spanIDStr = val
		case lower == b3ParentSpanID:
			parentIDStr = val
		case lower == b3Sampled:
			sampledStr = val
		case lower == b3Flags:
			flagsStr = val
		case strings.HasPrefix(lower, baggagePrefix):
			if baggage == nil {
				baggage = make(map[string]string)
			}
			baggage[key[len(baggagePrefix):]] = val
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case traceIDStr == "" && spanIDStr == "":
		return nil, opentracing.ErrSpanContextNotFound
	case traceIDStr == "" || spanIDStr == "":
		return nil, opentracing.ErrSpanContextCorrupted
	}

	traceID, err := zipkin.TraceIDFromHex(traceIDStr)
	if err != nil {
		return nil, opentracing.ErrSpanContextCorrupted
	}
	spanID, err := zipkin.SpanIDFromHex(spanIDStr)
	if err != nil {
		return nil, opentracing.ErrSpanContextCorrupted
	}

	var parentID *zipkin.SpanID
	if parentIDStr != "" {
		pid, err := zipkin.SpanIDFromHex(parentIDStr)
		if err != nil {
			return nil, opentracing.ErrSpanContextCorrupted
		}
		parentID = &pid
	}

	var flags zipkin.Flags
	if flagsStr == "1" {
		flags |= zipkin.FlagDebug
	}
	if sampledStr != "" {
		sampled, err := parseB3Sampled(sampledStr)
		if err != nil {
			return nil, err
		}
		flags = flags.WithSampled(sampled)
	}

	core := zipkin.SpanContext{
		TraceID:  traceID,
		SpanID:   spanID,
		ParentID: parentID,
		Flags:    flags,
	}
	return newSpanContext(core, baggage), nil
}

// parseB3Sampled parses the x-b3-sampled header's exact permitted value
// sets: {1,t,T,TRUE,true,True} means sampled, {0,f,F,FALSE,false,False}
// means not sampled, anything else is corruption rather than a silent false.
func parseB3Sampled(s string) (bool, error) {
	switch s {
	case "1", "t", "T", "TRUE", "true", "True":
		return true, nil
	case "0", "f", "F", "FALSE", "false", "False":
		return false, nil
	default:
		return false, opentracing.ErrSpanContextCorrupted
	}
}
