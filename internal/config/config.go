// Package config decodes the JSON tracer configuration document into a
// validated, strongly typed Config, the way a tracer built from a
// configuration string (rather than constructed in code) needs to.
package config

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Config mirrors the tracer construction options, sourced from a JSON
// document rather than functional options: one obvious field per knob a
// deployment needs to set without recompiling.
type Config struct {
	ServiceName      string
	ServiceAddress   string
	CollectorBaseURL string
	CollectorTimeout time.Duration
	ReportingPeriod  time.Duration
	MaxBufferedSpans int
	SampleRate       float64
}

// DefaultCollectorBaseURL matches the original collector_host/port pair of
// localhost:9411.
const DefaultCollectorBaseURL = "http://localhost:9411"

// rawConfig is the wire shape of the configuration document: durations
// travel as plain numbers in the unit the field name documents, the same
// way the C++ options struct took a raw millisecond count for
// collector_timeout and a raw microsecond count for reporting_period.
type rawConfig struct {
	ServiceName       string  `mapstructure:"service_name"`
	ServiceAddress    string  `mapstructure:"service_address"`
	CollectorBaseURL  string  `mapstructure:"collector_base_url"`
	CollectorTimeoutMs float64 `mapstructure:"collector_timeout"`
	ReportingPeriodUs  float64 `mapstructure:"reporting_period"`
	MaxBufferedSpans  int     `mapstructure:"max_buffered_spans"`
	SampleRate        float64 `mapstructure:"sample_rate"`
}

func defaultsRaw() rawConfig {
	return rawConfig{
		CollectorBaseURL:   DefaultCollectorBaseURL,
		CollectorTimeoutMs: 5000,
		ReportingPeriodUs:  500000,
		MaxBufferedSpans:   1000,
		SampleRate:         1.0,
	}
}

// Parse decodes a JSON configuration document into a Config, validating it
// against the constraints the rest of the tracer relies on. Numeric fields
// in the source JSON decode via mapstructure's WeaklyTypedInput so that
// either a JSON number or a numeric string is accepted, matching the
// leniency JSON-sourced configuration typically needs.
func Parse(data []byte) (Config, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: invalid JSON: %s", ErrParse, err)
	}

	cfg := defaultsRaw()
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &cfg,
	})
	if err != nil {
		return Config{}, err
	}
	if err := decoder.Decode(raw); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrParse, err)
	}

	out := Config{
		ServiceName:      cfg.ServiceName,
		ServiceAddress:   cfg.ServiceAddress,
		CollectorBaseURL: cfg.CollectorBaseURL,
		CollectorTimeout: time.Duration(cfg.CollectorTimeoutMs * float64(time.Millisecond)),
		ReportingPeriod:  time.Duration(cfg.ReportingPeriodUs * float64(time.Microsecond)),
		MaxBufferedSpans: cfg.MaxBufferedSpans,
		SampleRate:       cfg.SampleRate,
	}
	if err := out.Validate(); err != nil {
		return Config{}, err
	}
	return out, nil
}

// Validate checks the constraints the rest of the tracer assumes hold:
// a non-empty service name, a sample rate inside [0, 1], and a
// non-negative max_buffered_spans.
func (c Config) Validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("%w: service_name is required", ErrInvalid)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("%w: sample_rate must be in [0, 1], got %v", ErrInvalid, c.SampleRate)
	}
	if c.MaxBufferedSpans < 0 {
		return fmt.Errorf("%w: max_buffered_spans must be non-negative", ErrInvalid)
	}
	return nil
}
