// Package observability provides tick tracing for rime runtimes. Spans are
// exported through OpenTelemetry's stdout exporter once Initialize has run;
// before that every span is a no-op.
package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/ajitpratap0/rime"

// GetTracer returns the rime tracer of the global provider
func GetTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// Span wraps an OpenTelemetry span and remembers when it started.
type Span struct {
	span      trace.Span
	startTime time.Time
}

// NewSpan starts a span named operationName below the span in ctx.
func NewSpan(ctx context.Context, operationName string) (context.Context, *Span) {
	ctx, span := GetTracer().Start(ctx, operationName)
	return ctx, &Span{
		span:      span,
		startTime: time.Now(),
	}
}

// SetAttribute adds an attribute to the span
func (s *Span) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue

	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case uint64:
		attr = attribute.Int64(key, int64(v)) //nolint:gosec // tick counters stay far below MaxInt64
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		return
	}
	s.span.SetAttributes(attr)
}

// AddEvent records a named event on the span
func (s *Span) AddEvent(name string, attrs ...attribute.KeyValue) {
	s.span.AddEvent(name, trace.WithAttributes(attrs...))
}

// RecordError marks the span as failed
func (s *Span) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// End finishes the span and returns its duration
func (s *Span) End() time.Duration {
	d := time.Since(s.startTime)
	s.span.SetAttributes(attribute.Int64("duration_us", d.Microseconds()))
	s.span.End()
	return d
}
