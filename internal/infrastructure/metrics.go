package infrastructure

import (
	"go.opentelemetry.io/otel/metric"
)

// DemoMetrics holds the application instruments shared across packages
type DemoMetrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter

	// Stream metrics
	StreamsActive     metric.Int64UpDownCounter
	StreamEventsTotal metric.Int64Counter

	// Digest and password metrics
	HashOperationsTotal metric.Int64Counter
	HashDuration        metric.Float64Histogram
}

// CreateDemoMetrics creates the application instruments on meter
func CreateDemoMetrics(meter metric.Meter) (*DemoMetrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of active HTTP requests"),
	)
	if err != nil {
		return nil, err
	}

	streamsActive, err := meter.Int64UpDownCounter(
		"stream_active_connections",
		metric.WithDescription("Number of open event stream connections"),
	)
	if err != nil {
		return nil, err
	}

	streamEventsTotal, err := meter.Int64Counter(
		"stream_events_total",
		metric.WithDescription("Total number of events written to streams"),
	)
	if err != nil {
		return nil, err
	}

	hashOperationsTotal, err := meter.Int64Counter(
		"hash_operations_total",
		metric.WithDescription("Total number of password, digest and CRC computations"),
	)
	if err != nil {
		return nil, err
	}

	hashDuration, err := meter.Float64Histogram(
		"hash_duration_seconds",
		metric.WithDescription("Computation time of password hashes and digests"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	return &DemoMetrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		HTTPActiveRequests:  httpActiveRequests,
		StreamsActive:       streamsActive,
		StreamEventsTotal:   streamEventsTotal,
		HashOperationsTotal: hashOperationsTotal,
		HashDuration:        hashDuration,
	}, nil
}
