package zipkin

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCollectorURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:9411":             "http://localhost:9411/api/v1/spans",
		"http://localhost:9411/":            "http://localhost:9411/api/v1/spans",
		"http://localhost:9411/api/v1/spans": "http://localhost:9411/api/v1/spans",
	}
	for in, want := range cases {
		assert.Equal(t, want, normalizeCollectorURL(in))
	}
}

func TestHTTPTransportSendPostsJSONArray(t *testing.T) {
	var received []map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/spans", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, time.Second)
	tracer := NewTracer(discardReporter{}, WithSampler(alwaysSample{}))
	span := tracer.StartRootSpan("op", time.Now())
	span.Finish()

	err := transport.Send([]*Span{span})
	require.NoError(t, err)
	assert.Len(t, received, 1)
	assert.Equal(t, "op", received[0]["name"])
}

func TestHTTPTransportSendEmptyIsNoop(t *testing.T) {
	transport := NewHTTPTransport("http://127.0.0.1:1", time.Second)
	assert.NoError(t, transport.Send(nil))
}

func TestHTTPTransportSendErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	transport := NewHTTPTransport(server.URL, time.Second)
	tracer := NewTracer(discardReporter{}, WithSampler(alwaysSample{}))
	span := tracer.StartRootSpan("op", time.Now())
	span.Finish()

	err := transport.Send([]*Span{span})
	assert.Error(t, err)
}
