package zipkin

import (
	"encoding/json"
	"strconv"
)

// wireEndpoint is the over-the-wire shape of an Endpoint in a Zipkin v1
// span: an optional ipv4 OR ipv6 field, never both, per the collector's v1
// JSON schema.
type wireEndpoint struct {
	ServiceName string `json:"serviceName"`
	IPv4        string `json:"ipv4,omitempty"`
	IPv6        string `json:"ipv6,omitempty"`
	Port        uint16 `json:"port,omitempty"`
}

func marshalEndpoint(e *Endpoint) *wireEndpoint {
	if e == nil {
		return nil
	}
	w := &wireEndpoint{ServiceName: e.ServiceName, Port: e.Addr.Port}
	switch e.Addr.Version {
	case IPv4:
		w.IPv4 = e.Addr.Address
	case IPv6:
		w.IPv6 = e.Addr.Address
	}
	return w
}

type wireAnnotation struct {
	Timestamp uint64        `json:"timestamp"`
	Value     string        `json:"value"`
	Endpoint  *wireEndpoint `json:"endpoint,omitempty"`
}

type wireBinaryAnnotation struct {
	Key      string        `json:"key"`
	Value    interface{}   `json:"value"`
	Endpoint *wireEndpoint `json:"endpoint,omitempty"`
}

func (b BinaryAnnotation) wire() wireBinaryAnnotation {
	w := wireBinaryAnnotation{Key: b.Key, Endpoint: marshalEndpoint(b.Endpoint)}
	switch b.Type {
	case AnnotationTypeBool:
		w.Value = b.Bool
	case AnnotationTypeInt64:
		w.Value = b.Int64
	case AnnotationTypeDouble:
		w.Value = b.Double
	default:
		w.Value = b.String
	}
	return w
}

type wireSpan struct {
	TraceID           string                 `json:"traceId"`
	Name              string                 `json:"name"`
	ID                string                 `json:"id"`
	ParentID          string                 `json:"parentId,omitempty"`
	Annotations       []wireAnnotation       `json:"annotations"`
	BinaryAnnotations []wireBinaryAnnotation `json:"binaryAnnotations"`
	Debug             bool                   `json:"debug,omitempty"`
	Timestamp         uint64                 `json:"timestamp,omitempty"`
	Duration          uint64                 `json:"duration,omitempty"`
}

// MarshalJSON renders the span in the collector's Zipkin v1 JSON schema.
func (s *Span) MarshalJSON() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w := wireSpan{
		TraceID:   s.traceID.String(),
		Name:      s.name,
		ID:        s.spanID.String(),
		Debug:     s.debug,
		Timestamp: s.wallStart,
		Duration:  s.duration,
	}
	if s.parentID != nil {
		w.ParentID = s.parentID.String()
	}

	w.Annotations = make([]wireAnnotation, 0, len(s.annotations))
	for _, a := range s.annotations {
		w.Annotations = append(w.Annotations, wireAnnotation{
			Timestamp: a.Timestamp,
			Value:     a.Value,
			Endpoint:  marshalEndpoint(a.Endpoint),
		})
	}

	w.BinaryAnnotations = make([]wireBinaryAnnotation, 0, len(s.binaryAnnotations))
	for _, b := range s.binaryAnnotations {
		w.BinaryAnnotations = append(w.BinaryAnnotations, b.wire())
	}

	return json.Marshal(w)
}

// marshalTagValue renders an arbitrary tag value the way a JSON
// BinaryAnnotation would show it, used as the last-resort fallback when a
// tag isn't one of the directly-representable scalar types.
func marshalTagValue(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted, nil
	}
	return s, nil
}
