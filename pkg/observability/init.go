package observability

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"github.com/ajitpratap0/rime/pkg/config"
)

var (
	provider *sdktrace.TracerProvider
	mu       sync.Mutex
)

// TracingConfig contains tracing configuration
type TracingConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	SamplingRate   float64
	// Writer receives exported spans; nil means stdout
	Writer       io.Writer
	PrettyPrint  bool
	BatchTimeout time.Duration
}

// TracingConfigFrom derives the tracing settings of a runtime configuration
func TracingConfigFrom(cfg *config.Config) TracingConfig {
	return TracingConfig{
		ServiceName:    cfg.Name,
		ServiceVersion: cfg.Version,
		Environment:    getEnv("ENVIRONMENT", "development"),
		SamplingRate:   cfg.Observability.TracingSampleRate,
		PrettyPrint:    cfg.Observability.Development,
		BatchTimeout:   5 * time.Second,
	}
}

// Initialize installs a global tracer provider exporting to the configured
// writer. Calling it again replaces the previous provider after shutting it
// down.
func Initialize(cfg TracingConfig) error {
	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(cfg.ServiceVersion),
			semconv.DeploymentEnvironmentKey.String(cfg.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stdout
	}
	opts := []stdouttrace.Option{stdouttrace.WithWriter(w)}
	if cfg.PrettyPrint {
		opts = append(opts, stdouttrace.WithPrettyPrint())
	}
	exporter, err := stdouttrace.New(opts...)
	if err != nil {
		return fmt.Errorf("failed to create stdout exporter: %w", err)
	}

	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 5 * time.Second
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(newSampler(cfg.SamplingRate)),
		sdktrace.WithBatcher(exporter, sdktrace.WithBatchTimeout(batchTimeout)),
	)

	mu.Lock()
	previous := provider
	provider = tp
	mu.Unlock()
	if previous != nil {
		_ = previous.Shutdown(context.Background())
	}

	otel.SetTracerProvider(tp)
	return nil
}

func newSampler(rate float64) sdktrace.Sampler {
	switch {
	case rate <= 0:
		return sdktrace.NeverSample()
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// Shutdown flushes and stops the tracer provider installed by Initialize
func Shutdown(ctx context.Context) error {
	mu.Lock()
	tp := provider
	provider = nil
	mu.Unlock()
	if tp == nil {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer: %w", err)
	}
	return nil
}

// getEnv gets environment variable with default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
