package zipkin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	defaultCollectorEndpoint = "/api/v1/spans"
	defaultHTTPTimeout       = 5 * time.Second
)

var defaultDialer = &net.Dialer{
	Timeout:   5 * time.Second,
	KeepAlive: 30 * time.Second,
}

// HTTPTransport posts finished spans as a Zipkin v1 JSON array to a
// collector's /api/v1/spans endpoint. Sends are fire-and-forget: a failed
// POST is logged and the batch is dropped, matching the original
// transport's no-retry behavior.
type HTTPTransport struct {
	url    string
	client *http.Client
}

// NewHTTPTransport builds an HTTPTransport posting to collectorURL. Unless
// collectorURL already ends in /api/v1/spans (ignoring trailing slashes),
// defaultCollectorEndpoint is appended, so either
// "http://host:9411" or "http://host:9411/api/v1/spans" work.
func NewHTTPTransport(collectorURL string, timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	return &HTTPTransport{
		url: normalizeCollectorURL(collectorURL),
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:       http.ProxyFromEnvironment,
				DialContext: defaultDialer.DialContext,
			},
		},
	}
}

func normalizeCollectorURL(u string) string {
	trimmed := strings.TrimRight(u, "/")
	if strings.HasSuffix(trimmed, "/api/v1/spans") {
		return trimmed
	}
	return trimmed + defaultCollectorEndpoint
}

// Send POSTs spans to the collector as a single JSON array. A nil or empty
// slice is a no-op.
func (t *HTTPTransport) Send(spans []*Span) error {
	if len(spans) == 0 {
		return nil
	}

	body, err := json.Marshal(spans)
	if err != nil {
		return fmt.Errorf("zipkin: failed to encode spans: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("zipkin: failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("zipkin: failed to reach collector at %s: %w", t.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("zipkin: collector at %s responded %s", t.url, resp.Status)
	}
	return nil
}
