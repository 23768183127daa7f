// Package observability bootstraps OpenTelemetry export for applications
// embedding this module.
//
// The client package records spans and metrics through the global otel
// providers; without this package those stay no-ops. Call Init once at
// startup to wire OTLP HTTP exporters into the globals:
//
//	shutdown, err := observability.Init(ctx, observability.DefaultConfig("my-service"))
//	if err != nil { ... }
//	defer shutdown(ctx)
//
// Libraries should never call Init; it belongs in main.
package observability
