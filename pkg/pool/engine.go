package pool

import (
	"reflect"
	"sort"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rime/pkg/config"
	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/metrics"
	"github.com/ajitpratap0/rime/pkg/scene"
	"github.com/ajitpratap0/rime/pkg/templates"
)

// Pool families, used as the "family" field of logs, metrics and stats.
const (
	FamilyType = "type"
	FamilyName = "name"
)

// TemplateResolver looks templates up by path.
type TemplateResolver interface {
	ResolveTemplate(path string) (*scene.Template, bool)
}

// SceneService is the hierarchy and instantiation surface the engine drives.
// *scene.Graph implements it.
type SceneService interface {
	NewNode(name string) *scene.Node
	SetParent(n, parent *scene.Node)
	SetEnabled(n *scene.Node, enabled bool)
	Rename(n *scene.Node, name string)
	Destroy(n *scene.Node)
	Instantiate(t *scene.Template) *scene.Node
	AttachBehavior(n *scene.Node, b scene.Behavior)
	Behavior(n *scene.Node, t reflect.Type) (scene.Behavior, bool)
}

// Engine owns the type-keyed and name-keyed pool tables, the TypeWell and
// NameWell grouping nodes and the reclamation queue. It is not safe for
// concurrent use.
type Engine struct {
	root      *scene.Node
	scene     SceneService
	templates TemplateResolver

	typeWell *scene.Node
	nameWell *scene.Node

	types map[reflect.Type]*typeRecord
	names map[string]*record[*scene.Node]
	specs map[reflect.Type]*typeSpec

	reclaim    *ReclamationQueue
	reclaimCfg config.ReclamationConfig

	logger  *zap.Logger
	metrics *metrics.Collector
	closed  bool
}

// typeRecord is the record of one type key
type typeRecord struct {
	*record[any]
	spec *typeSpec
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics publishes pool activity through c.
func WithMetrics(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.metrics = c
	}
}

// WithReclamation sets the reclamation queue cadence.
func WithReclamation(cfg config.ReclamationConfig) Option {
	return func(e *Engine) {
		e.reclaimCfg = cfg
	}
}

// New creates an engine whose wells are created below root. A nil root is
// replaced by a fresh node named "Pools".
func New(root *scene.Node, svc SceneService, resolver TemplateResolver, opts ...Option) *Engine {
	e := &Engine{
		root:      root,
		scene:     svc,
		templates: resolver,
		types:     make(map[reflect.Type]*typeRecord),
		names:     make(map[string]*record[*scene.Node]),
		specs:     make(map[reflect.Type]*typeSpec),
		logger:    zap.NewNop(),
		reclaimCfg: config.ReclamationConfig{
			Mode:         config.ReclaimInterleaved,
			DrainPerTick: 1,
		},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.With(zap.String("component", "pool_engine"))
	if e.root == nil {
		e.root = svc.NewNode("Pools")
	}
	e.reclaim = NewReclamationQueue(e.reclaimCfg, svc.Destroy)
	return e
}

// Root returns the node the wells are parented under
func (e *Engine) Root() *scene.Node { return e.root }

// TypeWell returns the grouping node of type-keyed containers, nil until
// the first node-backed Take.
func (e *Engine) TypeWell() *scene.Node { return e.typeWell }

// NameWell returns the grouping node of name-keyed containers.
func (e *Engine) NameWell() *scene.Node { return e.nameWell }

// Reclamation exposes the deferred destruction queue
func (e *Engine) Reclamation() *ReclamationQueue { return e.reclaim }

// LateUpdate drains the reclamation queue. Call it once per host tick after
// every other per-tick update. It returns the number of destroyed nodes.
func (e *Engine) LateUpdate() int {
	n := e.reclaim.Drain()
	if n > 0 {
		e.logger.Debug("reclaimed container nodes", zap.Int("count", n))
	}
	e.metrics.ObserveReclaimed(n)
	e.metrics.SetReclamationDepth(e.reclaim.Pending())
	return n
}

// Shutdown clears every pool, destroys all queued containers right away and
// removes the wells. Later Takes fail.
func (e *Engine) Shutdown() {
	if e.closed {
		return
	}
	for _, rec := range e.sortedTypeRecords() {
		e.clearType(rec)
	}
	for _, name := range e.sortedNames() {
		e.clearName(name, e.names[name])
	}
	n := e.reclaim.Flush()
	e.metrics.ObserveReclaimed(n)
	e.metrics.SetReclamationDepth(0)

	for _, well := range []*scene.Node{e.typeWell, e.nameWell} {
		if well != nil {
			e.scene.Destroy(well)
		}
	}
	e.typeWell, e.nameWell = nil, nil
	e.closed = true
	e.logger.Info("pool engine shut down", zap.Int("reclaimed", n))
}

// fail logs a failed operation. Failures never escape as panics or errors;
// the public API reports them as false or missing results.
func (e *Engine) fail(family, key string, err *errors.Error) {
	e.logger.Warn(err.Message,
		zap.String("family", family),
		zap.String("key", key),
		zap.String("error_type", string(err.Type)),
		zap.Error(err))
}

func (e *Engine) checkOpen(family, key string) bool {
	if e.closed {
		e.fail(family, key, errors.New(errors.ErrorTypeUsage, "pool engine is shut down"))
		return false
	}
	return true
}

// ensureWell returns *well, creating it below the root when missing
func (e *Engine) ensureWell(well **scene.Node, name string) *scene.Node {
	if *well == nil || (*well).Destroyed() {
		n := e.scene.NewNode(name)
		e.scene.SetParent(n, e.root)
		*well = n
	}
	return *well
}

func (e *Engine) ensureContainer(container **scene.Node, well **scene.Node, wellName, name string) *scene.Node {
	if *container == nil || (*container).Destroyed() {
		n := e.scene.NewNode(name)
		e.scene.SetParent(n, e.ensureWell(well, wellName))
		*container = n
	}
	return *container
}

// adopt parks n under container, enabled as requested. Re-parenting only
// happens when n is elsewhere.
func (e *Engine) adopt(n, container *scene.Node, enabled bool) {
	if n.Parent() != container {
		e.scene.SetParent(n, container)
	}
	e.scene.SetEnabled(n, enabled)
}

func (e *Engine) sortedTypeRecords() []*typeRecord {
	recs := make([]*typeRecord, 0, len(e.types))
	for _, rec := range e.types {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].spec.name != recs[j].spec.name {
			return recs[i].spec.name < recs[j].spec.name
		}
		return recs[i].spec.typ.String() < recs[j].spec.typ.String()
	})
	return recs
}

func (e *Engine) sortedNames() []string {
	names := make([]string, 0, len(e.names))
	for name := range e.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// typePath is where the template of a template-backed type is looked up
func typePath(s *typeSpec) string {
	return templates.TypePath(s.name)
}
