package testutil

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestObservedLogger(t *testing.T) {
	logger, logs := ObservedLogger(t, zap.WarnLevel)
	logger.Info("dropped")
	logger.Warn("kept", zap.String("key", "Coin"))

	assert.Equal(t, 1, logs.Len())
	assert.Equal(t, "Coin", logs.All()[0].ContextMap()["key"])
}

func TestAssertEventually(t *testing.T) {
	var flag atomic.Bool
	go func() {
		time.Sleep(20 * time.Millisecond)
		flag.Store(true)
	}()
	AssertEventually(t, flag.Load, time.Second, "flag never set")
}

func TestNewScene(t *testing.T) {
	s := NewScene(TestLogger(t))
	assert.Equal(t, "Pools", s.Root.Name())
	assert.Equal(t, 1, s.Graph.Live())
	assert.Empty(t, s.Registry.Paths())
}
