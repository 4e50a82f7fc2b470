package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	l, err := New(Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewInvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestWithContext(t *testing.T) {
	ctx := context.WithValue(context.Background(), RunIDKey, "run-1")
	ctx = context.WithValue(ctx, TickKey, uint64(7))

	assert.NotNil(t, WithContext(ctx))
	assert.NotNil(t, WithContext(context.Background()))
}

func TestInitReplacesGlobal(t *testing.T) {
	require.NoError(t, Init(Config{Level: "warn", OutputPaths: []string{"stderr"}}))
	assert.False(t, Get().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Get().Core().Enabled(zapcore.WarnLevel))

	require.NoError(t, Init(Config{Level: "debug", Encoding: "console", OutputPaths: []string{"stderr"}}))
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel))

	err := Init(Config{Level: "loud"})
	require.Error(t, err)
	assert.True(t, Get().Core().Enabled(zapcore.DebugLevel), "a failed Init keeps the current logger")
	assert.True(t, WithContext(context.Background()).Core().Enabled(zapcore.DebugLevel))
	_ = Sync()
}

func TestEnrich(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := context.WithValue(context.Background(), RunIDKey, "run-2")
	ctx = context.WithValue(ctx, TickKey, uint64(3))

	Enrich(ctx, zap.New(core)).Info("tick done")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "run-2", fields["run_id"])
	assert.Equal(t, uint64(3), fields["tick"])
}
