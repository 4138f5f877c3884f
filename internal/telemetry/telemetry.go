// Package telemetry wires the OpenTelemetry metric pipeline to the Prometheus
// registry served on /metrics.
//
// Telemetry failures do not crash the application; when initialization fails
// the global no-op meter provider stays in place and instruments silently
// drop their measurements.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Config controls telemetry initialization.
type Config struct {
	// Enabled turns the metric pipeline on. When false, New returns a no-op
	// instance and the global meter provider is left untouched.
	Enabled bool

	// ServiceName identifies the service in exported metrics.
	ServiceName string

	// ServiceVersion is the running build version.
	ServiceVersion string
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Enabled && c.ServiceName == "" {
		return fmt.Errorf("service name is required when telemetry is enabled")
	}
	return nil
}

// Telemetry owns the meter provider backing all OTel instruments.
type Telemetry struct {
	meterProvider *sdkmetric.MeterProvider
}

// New creates a Telemetry instance and installs it as the global meter
// provider. Metrics are exported through the default Prometheus registerer,
// so anything scraping promhttp.Handler() sees them.
func New(cfg *Config) (*Telemetry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	t := &Telemetry{}
	if !cfg.Enabled {
		return t, nil
	}

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	t.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(t.meterProvider)

	return t, nil
}

// Shutdown flushes and stops the meter provider.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil || t.meterProvider == nil {
		return nil
	}
	if err := t.meterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("meter provider shutdown: %w", err)
	}
	return nil
}
