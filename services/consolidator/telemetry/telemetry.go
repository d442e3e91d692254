// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry wires OpenTelemetry metrics for the consolidator
// service, exported through a Prometheus /metrics endpoint.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// ErrNilContext is returned when Init is called with a nil context.
var ErrNilContext = errors.New("telemetry: nil context")

// Config controls telemetry behavior.
type Config struct {
	// ServiceName identifies this service in metrics.
	ServiceName string

	// ServiceVersion is the version string for this service.
	ServiceVersion string

	// Environment identifies the deployment environment.
	Environment string

	// Disabled turns the meter provider into a no-op. Useful for tests
	// and the one-shot CLI path.
	Disabled bool
}

// DefaultConfig returns opinionated defaults.
func DefaultConfig() Config {
	return Config{
		ServiceName:    "consolidator",
		ServiceVersion: "1.0.0",
		Environment:    "development",
	}
}

// Init initializes the metrics stack.
//
// # Description
//
// Sets up an OpenTelemetry MeterProvider backed by the Prometheus
// exporter. After Init returns successfully, otel.Meter() can be used
// throughout the application and the standard promhttp handler serves the
// exported metrics.
//
// # Outputs
//
//   - shutdown: Cleanup function to call on application exit.
//   - error: Non-nil if initialization fails.
//
// Thread Safety: Call once at application startup.
func Init(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	noop := func(context.Context) error { return nil }
	if cfg.Disabled {
		return noop, nil
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	)

	exporter, err := promexporter.New()
	if err != nil {
		return nil, fmt.Errorf("telemetry: create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(provider)

	return provider.Shutdown, nil
}
