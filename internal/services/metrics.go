package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"remotewebdemo/internal/infrastructure"
)

// recordHash records one computation, tolerating nil metrics
func recordHash(ctx context.Context, m *infrastructure.DemoMetrics, kind, algorithm string, start time.Time, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "failure"
	}
	attrs := metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.String("algorithm", algorithm),
		attribute.String("status", status),
	)
	m.HashOperationsTotal.Add(ctx, 1, attrs)
	m.HashDuration.Record(ctx, time.Since(start).Seconds(), attrs)
}
