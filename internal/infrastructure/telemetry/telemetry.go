// Package telemetry wires OpenTelemetry traces, metrics and logs and
// Pyroscope continuous profiling. Every signal is off unless enabled in
// the [telemetry] config section; disabled providers are cheap no-ops.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/infrastructure/config"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported as service.version on every signal.
const ServiceVersion = "1.0.0"

// Telemetry groups the providers started by Setup.
type Telemetry struct {
	Tracer   *TracerProvider
	Meter    *MeterProvider
	Logs     *LoggerProvider
	Profiler *Profiler
}

// Setup starts every configured provider. Span profiles are linked when
// both tracing and profiling are enabled.
func Setup(ctx context.Context, cfg config.TelemetryConfig, logger *zap.Logger) (*Telemetry, error) {
	t := &Telemetry{}
	var err error

	if t.Tracer, err = NewTracerProvider(ctx, cfg, logger); err != nil {
		return nil, err
	}
	if t.Meter, err = NewMeterProvider(ctx, cfg, logger); err != nil {
		return nil, errors.Join(err, t.Shutdown(ctx))
	}
	if t.Logs, err = NewLoggerProvider(ctx, cfg, logger); err != nil {
		return nil, errors.Join(err, t.Shutdown(ctx))
	}
	if t.Profiler, err = NewProfiler(cfg, logger); err != nil {
		return nil, errors.Join(err, t.Shutdown(ctx))
	}

	if t.Profiler.IsEnabled() && t.Tracer.IsEnabled() {
		t.Tracer.EnableSpanProfiles()
	}
	return t, nil
}

// Shutdown flushes and stops every started provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}
