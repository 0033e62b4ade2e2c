// internal/common/observability/metrics.go
// Package observability bootstraps the OpenTelemetry meter provider and
// bridges it into the Prometheus registry scraped at /metrics. Per-job
// counters live in internal/common/metrics; this package carries the
// process-level instruments.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

type Observability struct {
	meterProvider *metric.MeterProvider
	workersUp     otelmetric.Int64UpDownCounter
}

// New installs a meter provider backed by the Prometheus exporter and
// registers it globally.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	meter := provider.Meter(serviceName)

	workersUp, err := meter.Int64UpDownCounter(
		"workers.registered",
		otelmetric.WithDescription("Job workers currently registered with the broker"),
	)
	if err != nil {
		return nil, fmt.Errorf("create workers.registered instrument: %w", err)
	}

	return &Observability{
		meterProvider: provider,
		workersUp:     workersUp,
	}, nil
}

// WorkerRegistered records a worker coming up for the given task type.
func (o *Observability) WorkerRegistered(ctx context.Context, taskType string) {
	o.workersUp.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

// WorkerStopped records a worker shutting down.
func (o *Observability) WorkerStopped(ctx context.Context, taskType string) {
	o.workersUp.Add(ctx, -1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

// Shutdown flushes the meter provider. Bounded so a wedged exporter cannot
// stall process exit.
func (o *Observability) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := o.meterProvider.Shutdown(ctx); err != nil {
		otel.Handle(err)
	}
}
