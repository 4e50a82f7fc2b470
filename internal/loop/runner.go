// Package loop drives the per-tick update cycle of a rime runtime.
//
// Every tick runs all Update hooks in registration order, then all
// LateUpdate hooks. The pooling engine's reclamation drain belongs in the
// LateUpdate phase so that nothing destroyed during a tick is observed
// half-updated by other systems of the same tick.
//
// All hooks run on the goroutine that calls Run or Step.
package loop

import (
	"context"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rime/pkg/config"
	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/logger"
	"github.com/ajitpratap0/rime/pkg/metrics"
	"github.com/ajitpratap0/rime/pkg/observability"
)

// Hook is called once per tick. An error is logged and reported by Step;
// it never stops the tick or the loop.
type Hook func(ctx context.Context, tick uint64) error

// Phase names, used in logs and span attributes.
const (
	PhaseUpdate     = "update"
	PhaseLateUpdate = "late_update"
)

type namedHook struct {
	name string
	fn   Hook
}

// Runner owns the tick counter and the registered hooks.
type Runner struct {
	name     string
	interval time.Duration
	maxTicks uint64
	tick     uint64

	update []namedHook
	late   []namedHook

	logger  *zap.Logger
	metrics *metrics.Collector
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the runner logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics records tick durations through c
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Runner) {
		r.metrics = c
	}
}

// New creates a runner ticking at cfg.TickRate until cfg.MaxTicks ticks
// have run, or forever when MaxTicks is zero.
func New(name string, cfg config.LoopConfig, opts ...Option) *Runner {
	r := &Runner{
		name:     name,
		interval: cfg.TickInterval(),
		maxTicks: cfg.MaxTicks,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.logger = r.logger.With(zap.String("component", "loop"), zap.String("loop", name))
	return r
}

// OnUpdate registers a hook for the update phase
func (r *Runner) OnUpdate(name string, fn Hook) {
	r.update = append(r.update, namedHook{name: name, fn: fn})
}

// OnLateUpdate registers a hook for the late update phase
func (r *Runner) OnLateUpdate(name string, fn Hook) {
	r.late = append(r.late, namedHook{name: name, fn: fn})
}

// Tick returns the number of completed ticks
func (r *Runner) Tick() uint64 {
	return r.tick
}

// Done reports whether the tick budget is spent
func (r *Runner) Done() bool {
	return r.maxTicks > 0 && r.tick >= r.maxTicks
}

// Step runs one tick immediately and returns the combined hook errors.
func (r *Runner) Step(ctx context.Context) error {
	r.tick++
	tick := r.tick
	ctx = context.WithValue(ctx, logger.TickKey, tick)
	ctx, span := observability.NewSpan(ctx, "loop.tick")
	span.SetAttribute("loop", r.name)
	span.SetAttribute("tick", tick)

	timer := metrics.NewTimer("tick")
	var errs error
	errs = multierr.Append(errs, r.runPhase(ctx, PhaseUpdate, r.update, tick))
	errs = multierr.Append(errs, r.runPhase(ctx, PhaseLateUpdate, r.late, tick))
	r.metrics.ObserveTick(timer.Stop())

	span.RecordError(errs)
	span.End()
	return errs
}

func (r *Runner) runPhase(ctx context.Context, phase string, hooks []namedHook, tick uint64) error {
	var errs error
	for _, h := range hooks {
		if err := h.fn(ctx, tick); err != nil {
			wrapped := errors.Wrap(err, errors.ErrorTypeInternal, "hook failed").
				WithDetail("phase", phase).
				WithDetail("hook", h.name)
			r.logger.Warn("hook failed",
				zap.String("phase", phase),
				zap.String("hook", h.name),
				zap.Uint64("tick", tick),
				zap.Error(err))
			errs = multierr.Append(errs, wrapped)
		}
	}
	return errs
}

// Run ticks at the configured rate until ctx is cancelled or the tick
// budget is spent. It returns ctx.Err() on cancellation and nil otherwise;
// hook errors are logged, not returned.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("loop started",
		zap.Duration("interval", r.interval),
		zap.Uint64("max_ticks", r.maxTicks))

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for !r.Done() {
		select {
		case <-ctx.Done():
			r.logger.Info("loop cancelled", zap.Uint64("ticks", r.tick))
			return ctx.Err()
		case <-ticker.C:
			_ = r.Step(ctx)
		}
	}
	r.logger.Info("loop finished", zap.Uint64("ticks", r.tick))
	return nil
}
