package config

import (
	"time"

	"go.uber.org/multierr"

	"github.com/ajitpratap0/rime/pkg/errors"
)

// Reclamation modes accepted by PoolsConfig.Reclamation.Mode.
const (
	// ReclaimInterleaved queues a marker ahead of every container node, so a
	// cleared container is released on the second drain after the Clear.
	ReclaimInterleaved = "interleaved"
	// ReclaimDirect queues only the container nodes.
	ReclaimDirect = "direct"
)

// Config is the single configuration structure for a rime runtime.
// It is organized into sections consumed by the pooling engine, the host
// update loop, the template registry and the observability stack.
type Config struct {
	// Name identifies the runtime instance in logs and metrics
	Name string `yaml:"name" json:"name"`
	// Version indicates the configuration version
	Version string `yaml:"version" json:"version"`

	// Pools configures the pooling engine
	Pools PoolsConfig `yaml:"pools" json:"pools"`

	// Loop configures the host update loop
	Loop LoopConfig `yaml:"loop" json:"loop"`

	// Templates configures template loading
	Templates TemplatesConfig `yaml:"templates" json:"templates"`

	// Observability settings for logging, metrics and tracing
	Observability ObservabilityConfig `yaml:"observability" json:"observability"`
}

// PoolsConfig contains pooling engine settings.
type PoolsConfig struct {
	// Reclamation controls deferred destruction of cleared pool containers
	Reclamation ReclamationConfig `yaml:"reclamation" json:"reclamation"`
}

// ReclamationConfig controls the cadence of the reclamation queue.
type ReclamationConfig struct {
	// Mode is either "interleaved" or "direct"
	Mode string `yaml:"mode" json:"mode"`
	// DrainPerTick is the number of queue entries popped per LateUpdate
	DrainPerTick int `yaml:"drain_per_tick" json:"drain_per_tick"`
}

// LoopConfig contains host update loop settings.
type LoopConfig struct {
	// TickRate is the number of ticks per second
	TickRate int `yaml:"tick_rate" json:"tick_rate"`
	// MaxTicks stops the loop after this many ticks (0 = run until cancelled)
	MaxTicks uint64 `yaml:"max_ticks" json:"max_ticks"`
}

// TemplatesConfig contains template registry settings.
type TemplatesConfig struct {
	// Manifest is the path of a YAML or JSON template manifest
	Manifest string `yaml:"manifest" json:"manifest"`
}

// ObservabilityConfig contains monitoring and observability settings.
type ObservabilityConfig struct {
	// LogLevel sets logging verbosity (debug, info, warn, error)
	LogLevel string `yaml:"log_level" json:"log_level"`
	// LogEncoding is json or console
	LogEncoding string `yaml:"log_encoding" json:"log_encoding"`
	// Development enables colored levels and error stack traces
	Development bool `yaml:"development" json:"development"`
	// EnableMetrics activates prometheus collection
	EnableMetrics bool `yaml:"enable_metrics" json:"enable_metrics"`
	// MetricsAddr is the listen address of the /metrics endpoint ("" disables it)
	MetricsAddr string `yaml:"metrics_addr" json:"metrics_addr"`
	// EnableTracing activates tick tracing
	EnableTracing bool `yaml:"enable_tracing" json:"enable_tracing"`
	// TracingSampleRate controls trace sampling (0.0-1.0)
	TracingSampleRate float64 `yaml:"tracing_sample_rate" json:"tracing_sample_rate"`
}

// NewConfig creates a Config with sensible defaults.
//
// Example:
//
//	cfg := config.NewConfig("arena")
//	cfg.Loop.TickRate = 30
func NewConfig(name string) *Config {
	return &Config{
		Name:    name,
		Version: "1.0.0",
		Pools: PoolsConfig{
			Reclamation: ReclamationConfig{
				Mode:         ReclaimInterleaved,
				DrainPerTick: 1,
			},
		},
		Loop: LoopConfig{
			TickRate: 60,
			MaxTicks: 0,
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogEncoding:       "console",
			Development:       false,
			EnableMetrics:     true,
			MetricsAddr:       "",
			EnableTracing:     false,
			TracingSampleRate: 0.1,
		},
	}
}

// Validate validates the configuration for correctness.
// Every violation is reported, not only the first one.
func (c *Config) Validate() error {
	var errs error
	if c.Name == "" {
		errs = multierr.Append(errs, errors.New(errors.ErrorTypeValidation, "name is required"))
	}
	switch c.Pools.Reclamation.Mode {
	case ReclaimInterleaved, ReclaimDirect:
	default:
		errs = multierr.Append(errs, errors.Newf(errors.ErrorTypeValidation,
			"pools.reclamation.mode must be %q or %q, got %q", ReclaimInterleaved, ReclaimDirect, c.Pools.Reclamation.Mode))
	}
	if c.Pools.Reclamation.DrainPerTick <= 0 {
		errs = multierr.Append(errs, errors.New(errors.ErrorTypeValidation, "pools.reclamation.drain_per_tick must be positive"))
	}
	if c.Loop.TickRate <= 0 {
		errs = multierr.Append(errs, errors.New(errors.ErrorTypeValidation, "loop.tick_rate must be positive"))
	}
	if r := c.Observability.TracingSampleRate; r < 0 || r > 1 {
		errs = multierr.Append(errs, errors.New(errors.ErrorTypeValidation, "observability.tracing_sample_rate must be within [0,1]"))
	}
	if errs != nil {
		return errors.Wrap(errs, errors.ErrorTypeConfig, "invalid configuration")
	}
	return nil
}

// TickInterval returns the duration of one update tick
func (l *LoopConfig) TickInterval() time.Duration {
	if l.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(l.TickRate)
}

// IsDirect returns true if the reclamation queue skips markers
func (r *ReclamationConfig) IsDirect() bool {
	return r.Mode == ReclaimDirect
}
