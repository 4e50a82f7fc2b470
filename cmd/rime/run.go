package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ajitpratap0/rime/internal/arena"
	"github.com/ajitpratap0/rime/internal/loop"
	"github.com/ajitpratap0/rime/pkg/config"
	"github.com/ajitpratap0/rime/pkg/logger"
	"github.com/ajitpratap0/rime/pkg/metrics"
	"github.com/ajitpratap0/rime/pkg/observability"
)

type runOptions struct {
	configFile  string
	templates   string
	ticks       uint64
	clearEvery  uint64
	jsonOutput  bool
	metricsAddr string
	logLevel    string
}

func newRunCommand() *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the arena scenario on the host loop",
		Long: `Run the arena scenario: enemies, turrets and bullets are taken from and put
back to type-keyed pools, coins from a name-keyed pool, and the pools are
cleared periodically. At the end the scene tree, the pool statistics and the
process memory are printed.

Example:
  rime run --config rime.yaml --ticks 120 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadRunConfig(cmd, &opts)
			if err != nil {
				return err
			}
			return runArena(cmd.Context(), cmd, cfg, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "Path to configuration YAML file (optional)")
	cmd.Flags().StringVarP(&opts.templates, "templates", "t", "", "Path to a template manifest; overrides templates.manifest")
	cmd.Flags().Uint64Var(&opts.ticks, "ticks", 60, "Number of ticks to run; overrides loop.max_ticks")
	cmd.Flags().Uint64Var(&opts.clearEvery, "clear-every", 10, "Clear the enemy and coin pools every N ticks (0 = never)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Print the report as JSON")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve /metrics on this address; overrides observability.metrics_addr")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides observability.log_level")
	return cmd
}

// loadRunConfig reads the config file when given and applies the flags
// that were explicitly set.
func loadRunConfig(cmd *cobra.Command, opts *runOptions) (*config.Config, error) {
	cfg := config.NewConfig("rime")
	if opts.configFile != "" {
		loaded, err := config.LoadConfig(opts.configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	// without a config file the --ticks default bounds the run; a loaded
	// max_ticks of 0 keeps the loop running until cancelled
	if flags.Changed("ticks") || opts.configFile == "" {
		cfg.Loop.MaxTicks = opts.ticks
	}
	if flags.Changed("templates") {
		cfg.Templates.Manifest = opts.templates
	}
	if flags.Changed("metrics-addr") {
		cfg.Observability.MetricsAddr = opts.metricsAddr
	}
	if flags.Changed("log-level") {
		cfg.Observability.LogLevel = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func runArena(ctx context.Context, cmd *cobra.Command, cfg *config.Config, opts *runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()
	ctx = context.WithValue(ctx, logger.RunIDKey, runID)

	err := logger.Init(logger.Config{
		Level:       cfg.Observability.LogLevel,
		Development: cfg.Observability.Development,
		Encoding:    cfg.Observability.LogEncoding,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	base := logger.Get()
	log := logger.WithContext(ctx).With(zap.String("component", "rime-cli"))

	if cfg.Observability.EnableTracing {
		tc := observability.TracingConfigFrom(cfg)
		tc.Writer = os.Stderr
		if err := observability.Initialize(tc); err != nil {
			return err
		}
		defer func() {
			if err := observability.Shutdown(context.Background()); err != nil {
				log.Warn("tracing shutdown failed", zap.Error(err))
			}
		}()
	}

	var collector *metrics.Collector
	if cfg.Observability.EnableMetrics {
		collector = metrics.NewCollector(cfg.Name)
		if addr := cfg.Observability.MetricsAddr; addr != "" {
			srv := serveMetrics(addr, log)
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}
	}

	a := arena.New(cfg, base, collector)
	a.ClearEvery = opts.clearEvery
	if err := a.LoadTemplates(cfg.Templates.Manifest); err != nil {
		return err
	}

	runner := loop.New(cfg.Name, cfg.Loop, loop.WithLogger(base), loop.WithMetrics(collector))
	a.Attach(runner)

	log.Info("starting arena",
		zap.Uint64("ticks", cfg.Loop.MaxTicks),
		zap.Int("tick_rate", cfg.Loop.TickRate),
		zap.String("reclamation", cfg.Pools.Reclamation.Mode))

	start := time.Now()
	if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	r := newReport(runID, a, runner.Tick(), time.Since(start))
	a.Engine.Shutdown()
	r.LiveAfterShutdown = a.Graph.Live()

	return r.write(cmd.OutOrStdout(), opts.jsonOutput)
}

func serveMetrics(addr string, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	log.Info("serving metrics", zap.String("addr", addr))
	return srv
}
