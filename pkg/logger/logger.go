// Package logger provides structured logging for rime
package logger

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var global atomic.Pointer[zap.Logger]

// contextKey is the type for context keys
type contextKey string

const (
	// RunIDKey is the context key for the run identifier
	RunIDKey contextKey = "run_id"
	// TickKey is the context key for the current update tick
	TickKey contextKey = "tick"
)

// Config represents logger configuration
type Config struct {
	Level       string
	Development bool
	Encoding    string // json or console
	OutputPaths []string
}

// Init builds a logger from cfg and installs it as the global logger,
// replacing any previous one. On error the current global logger is kept.
func Init(cfg Config) error {
	l, err := New(cfg)
	if err != nil {
		return err
	}
	if prev := global.Swap(l); prev != nil {
		_ = prev.Sync()
	}
	return nil
}

// New creates a new zap logger from cfg without touching the global one
func New(cfg Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "message",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Development {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "json"
	}

	outputPaths := cfg.OutputPaths
	if len(outputPaths) == 0 {
		outputPaths = []string{"stdout"}
	}

	zapCfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderConfig,
		OutputPaths:      outputPaths,
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	if cfg.Development {
		logger = logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
	}

	return logger, nil
}

// Get returns the global logger. Before Init it is an info-level JSON logger
// writing to stderr.
func Get() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	l, err := New(Config{Level: "info", OutputPaths: []string{"stderr"}})
	if err != nil {
		l = zap.NewNop()
	}
	if global.CompareAndSwap(nil, l) {
		return l
	}
	return global.Load()
}

// WithContext returns the global logger carrying the run id and tick of ctx
func WithContext(ctx context.Context) *zap.Logger {
	return Enrich(ctx, Get())
}

// Enrich adds the run id and tick carried by ctx to logger
func Enrich(ctx context.Context, logger *zap.Logger) *zap.Logger {
	if runID, ok := ctx.Value(RunIDKey).(string); ok {
		logger = logger.With(zap.String("run_id", runID))
	}

	if tick, ok := ctx.Value(TickKey).(uint64); ok {
		logger = logger.With(zap.Uint64("tick", tick))
	}

	return logger
}

// Sync flushes the global logger
func Sync() error {
	if l := global.Load(); l != nil {
		return l.Sync()
	}
	return nil
}
