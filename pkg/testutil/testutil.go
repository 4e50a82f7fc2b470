// Package testutil provides testing utilities for rime
package testutil

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/rime/pkg/scene"
	"github.com/ajitpratap0/rime/pkg/templates"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// ObservedLogger creates a logger that writes to the test output and also
// records every entry at or above level for assertions.
func ObservedLogger(t *testing.T, level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(zapcore.NewTee(core, zaptest.NewLogger(t).Core())), logs
}

// TestContext creates a test context with a 30-second timeout.
// The caller must call the returned cancel function to avoid leaks.
func TestContext(_ *testing.T) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}

// AssertEventually asserts that a condition becomes true within the specified timeout.
// It checks the condition every 10ms until it succeeds or the timeout expires.
func AssertEventually(t *testing.T, condition func() bool, timeout time.Duration, msg string) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatalf("condition not met within %v: %s", timeout, msg)
}

// Scene bundles a scene graph, a template registry and a root node, the
// collaborators every pooling engine needs.
type Scene struct {
	Graph    *scene.Graph
	Registry *templates.Registry
	Root     *scene.Node
}

// NewScene creates an empty scene whose root is named "Pools"
func NewScene(logger *zap.Logger) *Scene {
	g := scene.NewGraph(logger)
	return &Scene{
		Graph:    g,
		Registry: templates.NewRegistry(logger),
		Root:     g.NewNode("Pools"),
	}
}
