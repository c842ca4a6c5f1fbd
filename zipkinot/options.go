package zipkinot

import (
	"time"

	"github.com/rnburn/zipkin-opentracing-go/internal/config"
	"github.com/rnburn/zipkin-opentracing-go/zipkin"
)

type options struct {
	serviceName      string
	serviceAddress   zipkin.IPAddress
	collectorBaseURL string
	collectorTimeout time.Duration
	reportingPeriod  time.Duration
	maxBufferedSpans int
	sampleRate       float64
	reporter         zipkin.Reporter
}

func defaultOptions() options {
	return options{
		collectorBaseURL: config.DefaultCollectorBaseURL,
		collectorTimeout: 5 * time.Second,
		reportingPeriod:  zipkin.DefaultReportingPeriod,
		maxBufferedSpans: zipkin.DefaultMaxBufferedSpans,
		sampleRate:       1.0,
	}
}

// Option configures a Tracer built by New.
type Option func(*options)

// WithServiceName sets the local service name recorded on every span.
func WithServiceName(name string) Option {
	return func(o *options) { o.serviceName = name }
}

// WithServiceAddress sets the local endpoint address recorded alongside the
// service name.
func WithServiceAddress(addr zipkin.IPAddress) Option {
	return func(o *options) { o.serviceAddress = addr }
}

// WithCollectorBaseURL points the default HTTP transport at a Zipkin
// collector, e.g. "http://collector:9411".
func WithCollectorBaseURL(url string) Option {
	return func(o *options) { o.collectorBaseURL = url }
}

// WithCollectorTimeout bounds how long a single POST to the collector may
// take before it is abandoned.
func WithCollectorTimeout(d time.Duration) Option {
	return func(o *options) { o.collectorTimeout = d }
}

// WithReportingPeriod overrides how often the default async reporter
// flushes on a timer.
func WithReportingPeriod(d time.Duration) Option {
	return func(o *options) { o.reportingPeriod = d }
}

// WithMaxBufferedSpans overrides how many finished spans the default async
// reporter buffers before dropping new ones.
func WithMaxBufferedSpans(n int) Option {
	return func(o *options) { o.maxBufferedSpans = n }
}

// WithSampleRate sets the fraction of root spans sampled, in [0, 1].
func WithSampleRate(rate float64) Option {
	return func(o *options) { o.sampleRate = rate }
}

// WithReporter supplies a Reporter directly, bypassing construction of the
// default HTTP transport and async reporter entirely. Useful for tests and
// for collectors reached over something other than HTTP.
func WithReporter(r zipkin.Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// New builds a Tracer from options, constructing the default HTTP
// transport and async reporter unless WithReporter overrides it.
func New(opts ...Option) (*Tracer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	sampler, err := zipkin.NewProbabilisticSampler(o.sampleRate)
	if err != nil {
		return nil, err
	}

	reporter := o.reporter
	if reporter == nil {
		transport := zipkin.NewHTTPTransport(o.collectorBaseURL, o.collectorTimeout)
		reporter = zipkin.NewAsyncReporter(transport,
			zipkin.WithReportingPeriod(o.reportingPeriod),
			zipkin.WithMaxBufferedSpans(o.maxBufferedSpans))
	}

	endpoint := zipkin.Endpoint{ServiceName: o.serviceName, Addr: o.serviceAddress}
	core := zipkin.NewTracer(reporter, zipkin.WithEndpoint(endpoint), zipkin.WithSampler(sampler))
	return NewTracer(core), nil
}

// NewFromConfig builds a Tracer from a decoded config.Config.
func NewFromConfig(cfg config.Config) (*Tracer, error) {
	var addr zipkin.IPAddress
	if cfg.ServiceAddress != "" {
		addr = zipkin.IPAddress{Version: zipkin.IPv4, Address: cfg.ServiceAddress}
	}
	return New(
		WithServiceName(cfg.ServiceName),
		WithServiceAddress(addr),
		WithCollectorBaseURL(cfg.CollectorBaseURL),
		WithCollectorTimeout(cfg.CollectorTimeout),
		WithReportingPeriod(cfg.ReportingPeriod),
		WithMaxBufferedSpans(cfg.MaxBufferedSpans),
		WithSampleRate(cfg.SampleRate),
	)
}

// NewFromJSON parses a JSON configuration document and builds a Tracer from
// it in one step, the way a deployment wiring the tracer from a config file
// rather than code typically wants.
func NewFromJSON(data []byte) (*Tracer, error) {
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	return NewFromConfig(cfg)
}
