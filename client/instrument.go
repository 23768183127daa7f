package client

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kbukum/dockerkit/client"

// instruments holds the OpenTelemetry handles for per-request telemetry.
// They are no-ops unless the embedding application installs providers (see
// the observability package).
type instruments struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newInstruments() *instruments {
	meter := otel.Meter(instrumentationName)
	requests, _ := meter.Int64Counter("dockerkit.client.requests",
		metric.WithDescription("Requests issued to the daemon"))
	duration, _ := meter.Float64Histogram("dockerkit.client.request.duration",
		metric.WithDescription("Round-trip duration"), metric.WithUnit("ms"))
	return &instruments{
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
	}
}

// start opens a span for one round trip.
func (in *instruments) start(ctx context.Context, method, path, transport string) (context.Context, trace.Span, time.Time) {
	ctx, span := in.tracer.Start(ctx, "docker."+method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
			attribute.String("network.transport", transport),
		))
	return ctx, span, time.Now()
}

// end records the round-trip outcome.
func (in *instruments) end(ctx context.Context, span trace.Span, began time.Time, status int, err error) {
	attrs := []attribute.KeyValue{
		attribute.Int("http.response.status_code", status),
	}
	if err != nil {
		span.RecordError(err)
	}
	span.SetAttributes(attrs...)
	span.End()

	elapsed := float64(time.Since(began).Milliseconds())
	in.requests.Add(ctx, 1, metric.WithAttributes(attrs...))
	in.duration.Record(ctx, elapsed, metric.WithAttributes(attrs...))
}
