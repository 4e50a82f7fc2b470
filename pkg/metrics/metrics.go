// Package metrics provides Prometheus instrumentation for rime. It exposes
// collectors for pool traffic, pool occupancy, deferred reclamation and the
// host update loop.
//
// # Basic Usage
//
//	collector := metrics.NewCollector("arena")
//	collector.ObserveTake("type", "Enemy", metrics.OutcomeReuse)
//	collector.SetPoolSize("type", "Enemy", available, checkedOut)
//
//	timer := metrics.NewTimer("tick")
//	runTick()
//	collector.ObserveTick(timer.Stop())
//
// A nil *Collector is valid and records nothing, so components can take an
// optional collector without branching at every call site.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Take outcomes used as the "outcome" label of PoolTakes.
const (
	OutcomeReuse  = "reuse"
	OutcomeFresh  = "fresh"
	OutcomeFailed = "failed"
)

var (
	// PoolTakes counts Take calls by pool and outcome.
	// Labels: engine, family (type/name), key, outcome (reuse/fresh/failed)
	PoolTakes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rime",
			Subsystem: "pool",
			Name:      "takes_total",
			Help:      "Total number of pool take operations",
		},
		[]string{"engine", "family", "key", "outcome"},
	)

	// PoolPuts counts Put calls by pool and result.
	PoolPuts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rime",
			Subsystem: "pool",
			Name:      "puts_total",
			Help:      "Total number of pool put operations",
		},
		[]string{"engine", "family", "key", "ok"},
	)

	// PoolClears counts pools removed by Clear.
	PoolClears = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rime",
			Subsystem: "pool",
			Name:      "clears_total",
			Help:      "Total number of pools cleared",
		},
		[]string{"engine", "family", "key"},
	)

	// PoolAvailable tracks instances ready for reuse per pool.
	PoolAvailable = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rime",
			Subsystem: "pool",
			Name:      "available",
			Help:      "Instances waiting in the available queue",
		},
		[]string{"engine", "family", "key"},
	)

	// PoolCheckedOut tracks instances currently issued per pool.
	PoolCheckedOut = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rime",
			Subsystem: "pool",
			Name:      "checked_out",
			Help:      "Instances currently checked out",
		},
		[]string{"engine", "family", "key"},
	)

	// ReclamationDepth tracks pending entries of the reclamation queue.
	ReclamationDepth = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "rime",
			Subsystem: "reclamation",
			Name:      "queue_depth",
			Help:      "Pending entries in the reclamation queue",
		},
		[]string{"engine"},
	)

	// Reclaimed counts container nodes destroyed by the reclamation queue.
	Reclaimed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "rime",
			Subsystem: "reclamation",
			Name:      "nodes_total",
			Help:      "Container nodes destroyed by deferred reclamation",
		},
		[]string{"engine"},
	)

	// TickDuration tracks the wall time of one host loop tick in seconds.
	TickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "rime",
			Subsystem: "loop",
			Name:      "tick_duration_seconds",
			Help:      "Duration of host loop ticks in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.033, 0.066, 0.1},
		},
		[]string{"engine"},
	)
)

// Collector records metrics on behalf of one engine instance.
// All methods are safe for concurrent use and no-ops on a nil receiver.
type Collector struct {
	name      string
	startTime time.Time
}

// NewCollector creates a new metrics collector labelled with name.
func NewCollector(name string) *Collector {
	return &Collector{
		name:      name,
		startTime: time.Now(),
	}
}

// Name returns the engine label of the collector
func (c *Collector) Name() string {
	if c == nil {
		return ""
	}
	return c.name
}

// StartTime returns when the collector was created
func (c *Collector) StartTime() time.Time {
	if c == nil {
		return time.Time{}
	}
	return c.startTime
}

// ObserveTake records one Take with its outcome
func (c *Collector) ObserveTake(family, key, outcome string) {
	if c == nil {
		return
	}
	PoolTakes.WithLabelValues(c.name, family, key, outcome).Inc()
}

// ObservePut records one Put
func (c *Collector) ObservePut(family, key string, ok bool) {
	if c == nil {
		return
	}
	PoolPuts.WithLabelValues(c.name, family, key, strconv.FormatBool(ok)).Inc()
}

// ObserveClear records a cleared pool and drops its occupancy series
func (c *Collector) ObserveClear(family, key string) {
	if c == nil {
		return
	}
	PoolClears.WithLabelValues(c.name, family, key).Inc()
	PoolAvailable.DeleteLabelValues(c.name, family, key)
	PoolCheckedOut.DeleteLabelValues(c.name, family, key)
}

// SetPoolSize publishes the occupancy of one pool
func (c *Collector) SetPoolSize(family, key string, available, checkedOut int) {
	if c == nil {
		return
	}
	PoolAvailable.WithLabelValues(c.name, family, key).Set(float64(available))
	PoolCheckedOut.WithLabelValues(c.name, family, key).Set(float64(checkedOut))
}

// SetReclamationDepth publishes the reclamation queue length
func (c *Collector) SetReclamationDepth(n int) {
	if c == nil {
		return
	}
	ReclamationDepth.WithLabelValues(c.name).Set(float64(n))
}

// ObserveReclaimed adds n destroyed container nodes
func (c *Collector) ObserveReclaimed(n int) {
	if c == nil || n <= 0 {
		return
	}
	Reclaimed.WithLabelValues(c.name).Add(float64(n))
}

// ObserveTick records the duration of one host loop tick
func (c *Collector) ObserveTick(d time.Duration) {
	if c == nil {
		return
	}
	TickDuration.WithLabelValues(c.name).Observe(d.Seconds())
}

// Timer provides a simple timing mechanism for measuring operation durations.
// It captures the start time on creation and calculates elapsed time on stop.
type Timer struct {
	start time.Time
	name  string
}

// NewTimer creates a new timer and starts timing immediately.
func NewTimer(name string) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
	}
}

// Name returns the timer name
func (t *Timer) Name() string {
	return t.name
}

// Stop returns the elapsed duration since creation. It can be called
// multiple times.
func (t *Timer) Stop() time.Duration {
	return time.Since(t.start)
}
