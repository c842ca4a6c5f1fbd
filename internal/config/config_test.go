package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`{"service_name": "frontend"}`))
	require.NoError(t, err)

	assert.Equal(t, "frontend", cfg.ServiceName)
	assert.Equal(t, DefaultCollectorBaseURL, cfg.CollectorBaseURL)
	assert.Equal(t, 5*time.Second, cfg.CollectorTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.ReportingPeriod)
	assert.Equal(t, 1000, cfg.MaxBufferedSpans)
	assert.Equal(t, 1.0, cfg.SampleRate)
}

func TestParseConvertsDurationUnits(t *testing.T) {
	cfg, err := Parse([]byte(`{
		"service_name": "frontend",
		"collector_timeout": 1500,
		"reporting_period": 100000
	}`))
	require.NoError(t, err)

	assert.Equal(t, 1500*time.Millisecond, cfg.CollectorTimeout)
	assert.Equal(t, 100*time.Millisecond, cfg.ReportingPeriod)
}

func TestParseRejectsMissingServiceName(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsOutOfRangeSampleRate(t *testing.T) {
	_, err := Parse([]byte(`{"service_name": "x", "sample_rate": 1.5}`))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	_, err := Parse([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrParse)
}

func TestParseAcceptsNumericStrings(t *testing.T) {
	cfg, err := Parse([]byte(`{"service_name": "x", "max_buffered_spans": "50"}`))
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.MaxBufferedSpans)
}
