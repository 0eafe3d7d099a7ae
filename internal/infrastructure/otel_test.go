package infrastructure

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remotewebdemo/internal/config"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestOTelInitialization tests OpenTelemetry initialization
func TestOTelInitialization(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.ObservabilityConfig
		wantErr     bool
		wantTracing bool
		wantMetrics bool
	}{
		{
			name:        "defaults",
			cfg:         config.Default().Observability,
			wantMetrics: true,
		},
		{
			name:        "stdout tracing",
			cfg:         config.ObservabilityConfig{TraceExporter: "stdout", SampleRatio: 1},
			wantTracing: true,
		},
		{
			name: "everything disabled",
			cfg:  config.ObservabilityConfig{TraceExporter: "none"},
		},
		{
			name:    "unknown exporter",
			cfg:     config.ObservabilityConfig{TraceExporter: "zipkin"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			providers, err := InitializeOTel(tt.cfg, testLogger())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, providers)

			assert.NotNil(t, providers.Tracer)
			assert.NotNil(t, providers.Meter)
			assert.Equal(t, tt.wantTracing, providers.TracerProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.MeterProvider != nil)
			assert.Equal(t, tt.wantMetrics, providers.PrometheusHTTP != nil)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			assert.NoError(t, providers.Shutdown(ctx))
		})
	}
}

// TestTraceCorrelation tests trace ID extraction from a recording span
func TestTraceCorrelation(t *testing.T) {
	providers, err := InitializeOTel(config.ObservabilityConfig{TraceExporter: "stdout", SampleRatio: 1}, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	assert.Empty(t, TraceIDFromContext(context.Background()))

	ctx, span := providers.Tracer.Start(context.Background(), "test-operation")
	defer span.End()

	traceID := TraceIDFromContext(ctx)
	assert.NotEmpty(t, traceID)
	assert.Equal(t, span.SpanContext().TraceID().String(), traceID)

	RecordError(ctx, assert.AnError)
}

// TestDemoMetricsExported checks instruments surface on the Prometheus handler
func TestDemoMetricsExported(t *testing.T) {
	providers, err := InitializeOTel(config.ObservabilityConfig{TraceExporter: "none", EnableMetrics: true}, testLogger())
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := CreateDemoMetrics(providers.Meter)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.HTTPRequestsTotal.Add(ctx, 1)
	metrics.StreamEventsTotal.Add(ctx, 3)
	metrics.HashDuration.Record(ctx, 0.01)

	rec := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, "stream_events_total")
	assert.Contains(t, body, "hash_duration_seconds")
	assert.Contains(t, body, "go_goroutines")
}

// TestDemoMetricsNoop checks the no-op meter accepts every instrument
func TestDemoMetricsNoop(t *testing.T) {
	providers, err := InitializeOTel(config.ObservabilityConfig{TraceExporter: "none"}, testLogger())
	require.NoError(t, err)

	metrics, err := CreateDemoMetrics(providers.Meter)
	require.NoError(t, err)
	metrics.StreamsActive.Add(context.Background(), 1)
}
