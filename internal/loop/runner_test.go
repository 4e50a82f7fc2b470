package loop

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/ajitpratap0/rime/pkg/config"
	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/logger"
	"github.com/ajitpratap0/rime/pkg/metrics"
	"github.com/ajitpratap0/rime/pkg/testutil"
)

func newRunner(t *testing.T, cfg config.LoopConfig) *Runner {
	return New("test", cfg, WithLogger(testutil.TestLogger(t)), WithMetrics(metrics.NewCollector("loop-test")))
}

func TestStepPhaseOrder(t *testing.T) {
	r := newRunner(t, config.LoopConfig{TickRate: 60})
	var calls []string
	record := func(name string) Hook {
		return func(ctx context.Context, tick uint64) error {
			assert.Equal(t, tick, ctx.Value(logger.TickKey))
			calls = append(calls, name)
			return nil
		}
	}
	r.OnLateUpdate("drain", record("drain"))
	r.OnUpdate("spawn", record("spawn"))
	r.OnUpdate("move", record("move"))

	require.NoError(t, r.Step(context.Background()))
	require.NoError(t, r.Step(context.Background()))

	assert.Equal(t, []string{"spawn", "move", "drain", "spawn", "move", "drain"}, calls)
	assert.Equal(t, uint64(2), r.Tick())
}

func TestStepCollectsHookErrors(t *testing.T) {
	r := newRunner(t, config.LoopConfig{TickRate: 60})
	lateRan := false
	r.OnUpdate("a", func(context.Context, uint64) error { return stderrors.New("a failed") })
	r.OnUpdate("b", func(context.Context, uint64) error { return stderrors.New("b failed") })
	r.OnLateUpdate("late", func(context.Context, uint64) error { lateRan = true; return nil })

	err := r.Step(context.Background())
	require.Error(t, err)
	assert.True(t, lateRan, "a failing hook does not stop the tick")
	assert.Len(t, multierr.Errors(err), 2)
	assert.True(t, errors.IsType(multierr.Errors(err)[0], errors.ErrorTypeInternal))
}

func TestRunStopsAtMaxTicks(t *testing.T) {
	r := newRunner(t, config.LoopConfig{TickRate: 1000, MaxTicks: 3})
	count := 0
	r.OnUpdate("count", func(context.Context, uint64) error { count++; return nil })

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 3, count)
	assert.True(t, r.Done())
}

func TestRunCancelled(t *testing.T) {
	r := newRunner(t, config.LoopConfig{TickRate: 1000})
	ctx, cancel := context.WithCancel(context.Background())
	r.OnUpdate("stop", func(_ context.Context, tick uint64) error {
		if tick == 2 {
			cancel()
		}
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
		assert.GreaterOrEqual(t, r.Tick(), uint64(2))
	case <-time.After(5 * time.Second):
		t.Fatal("loop did not stop")
	}
}
