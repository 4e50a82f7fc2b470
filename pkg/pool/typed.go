package pool

import (
	"reflect"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/metrics"
	"github.com/ajitpratap0/rime/pkg/scene"
	"github.com/ajitpratap0/rime/pkg/templates"
)

// Take returns an instance of T, reusing the oldest available one when the
// pool of T has any. Fresh instances are built one of three ways:
//
//   - plain types through their declared constructor, or as a new zero
//     value for pointer types, followed by OnCreate and OnStart
//   - behavior types on a new bare node named after the type
//   - TemplateBacked types from the template at Templates/TypeWell/<TypeName>
//
// Node-backed instances are renamed to their key, parked under the pool's
// container and enabled. The boolean is false when no instance could be
// built; the cause is logged. Behavior instances get OnCreate and OnStart
// too, once, when they are first built.
func Take[T comparable](e *Engine) (T, bool) {
	var zero T
	t := reflect.TypeFor[T]()
	if !e.checkOpen(FamilyType, typeName(t)) {
		return zero, false
	}
	rec := e.typeRecord(t)
	key := rec.spec.name

	outcome := metrics.OutcomeReuse
	h, ok := rec.dequeue()
	if !ok {
		var err *errors.Error
		if h, err = e.construct(rec); err != nil {
			e.fail(FamilyType, key, err)
			e.metrics.ObserveTake(FamilyType, key, metrics.OutcomeFailed)
			return zero, false
		}
		outcome = metrics.OutcomeFresh
	}

	v, ok := h.(T)
	if !ok {
		e.fail(FamilyType, key, errors.Newf(errors.ErrorTypeCapability, "instance %T is not a %s", h, t))
		e.metrics.ObserveTake(FamilyType, key, metrics.OutcomeFailed)
		return zero, false
	}
	e.registerTyped(rec, h)
	e.metrics.ObserveTake(FamilyType, key, outcome)
	e.publishType(rec)
	return v, true
}

// Put returns h to the pool of T. It fails without side effects when the
// engine is shut down, T has no pool or h is not currently checked out of it.
func Put[T comparable](e *Engine, h T) bool {
	t := reflect.TypeFor[T]()
	if !e.checkOpen(FamilyType, typeName(t)) {
		e.metrics.ObservePut(FamilyType, typeName(t), false)
		return false
	}
	rec, ok := e.types[t]
	if !ok {
		e.fail(FamilyType, typeName(t), errors.New(errors.ErrorTypeNotFound, "pool not found"))
		e.metrics.ObservePut(FamilyType, typeName(t), false)
		return false
	}
	key := rec.spec.name
	if !rec.release(h) {
		e.fail(FamilyType, key, errors.New(errors.ErrorTypeUsage, "instance is not checked out of this pool"))
		e.metrics.ObservePut(FamilyType, key, false)
		return false
	}
	e.parkTyped(rec, h)
	e.metrics.ObservePut(FamilyType, key, true)
	e.publishType(rec)
	return true
}

// Clear removes the pool of T and the pools of every type that is a subtype
// of T: types embedding T, types declared to extend it, and when T is an
// interface, types implementing it. Checked-out instances are reclaimed at
// once; Destroyable instances get OnDestroy. Container nodes are queued for
// deferred destruction. It fails when nothing matched.
func Clear[T any](e *Engine) bool {
	target := reflect.TypeFor[T]()
	if !e.checkOpen(FamilyType, typeName(target)) {
		return false
	}
	cleared := 0
	for _, rec := range e.sortedTypeRecords() {
		if rec.spec.matches(target) {
			e.clearType(rec)
			cleared++
		}
	}
	if cleared == 0 {
		e.fail(FamilyType, typeName(target), errors.New(errors.ErrorTypeNotFound, "pool not found"))
		return false
	}
	return true
}

// typeRecord gets or creates the record of t
func (e *Engine) typeRecord(t reflect.Type) *typeRecord {
	if rec, ok := e.types[t]; ok {
		return rec
	}
	rec := &typeRecord{record: newRecord[any](), spec: e.spec(t)}
	e.types[t] = rec
	return rec
}

// construct builds a fresh handle for rec
func (e *Engine) construct(rec *typeRecord) (any, *errors.Error) {
	s := rec.spec
	if !s.behavior {
		v, err := s.newInstance()
		if err != nil {
			return nil, asError(err)
		}
		runCreateHooks(v)
		return v, nil
	}

	if !s.templateBacked {
		v, err := s.newInstance()
		if err != nil {
			return nil, asError(err)
		}
		node := e.scene.NewNode(s.name)
		return e.attach(node, v.(scene.Behavior))
	}

	if rec.template == nil {
		path := typePath(s)
		tpl, ok := e.templates.ResolveTemplate(path)
		if !ok {
			return nil, errors.New(errors.ErrorTypeTemplate, "template not found").WithDetail("path", path)
		}
		rec.template = tpl
		e.logger.Debug("template bound", zap.String("key", s.name), zap.String("path", path))
	}
	node := e.scene.Instantiate(rec.template)
	if node == nil {
		return nil, errors.New(errors.ErrorTypeInternal, "template instantiation returned no node")
	}
	if b, ok := e.scene.Behavior(node, s.typ); ok {
		runCreateHooks(b)
		return b, nil
	}
	v, err := s.newInstance()
	if err != nil {
		e.scene.Destroy(node)
		return nil, asError(err)
	}
	return e.attach(node, v.(scene.Behavior))
}

// attach binds a fresh behavior to node and runs its creation hooks
func (e *Engine) attach(node *scene.Node, b scene.Behavior) (any, *errors.Error) {
	e.scene.AttachBehavior(node, b)
	if b.Node() != node {
		e.scene.Destroy(node)
		return nil, errors.New(errors.ErrorTypeInternal, "behavior could not be attached")
	}
	runCreateHooks(b)
	return b, nil
}

// registerTyped is the shared tail of every Take
func (e *Engine) registerTyped(rec *typeRecord, h any) {
	rec.checkOut(h)
	node := nodeOf(h)
	if node == nil {
		return
	}
	container := e.ensureContainer(&rec.container, &e.typeWell, templates.TypeWell, rec.spec.name)
	e.scene.Rename(node, node.Key())
	e.adopt(node, container, true)
}

func (e *Engine) parkTyped(rec *typeRecord, h any) {
	node := nodeOf(h)
	if node == nil {
		return
	}
	container := e.ensureContainer(&rec.container, &e.typeWell, templates.TypeWell, rec.spec.name)
	e.adopt(node, container, false)
}

func (e *Engine) clearType(rec *typeRecord) {
	key := rec.spec.name
	reclaimed := rec.inUse()
	for _, h := range reclaimed {
		rec.release(h)
		e.parkTyped(rec, h)
	}
	if rec.spec.destroyable {
		for _, h := range rec.drain() {
			h.(Destroyable).OnDestroy()
		}
	}
	delete(e.types, rec.spec.typ)
	if rec.container != nil {
		e.reclaim.Enqueue(rec.container)
		rec.container = nil
	}
	e.logger.Info("type pool cleared",
		zap.String("key", key),
		zap.String("type", rec.spec.typ.String()),
		zap.Int("reclaimed_in_use", len(reclaimed)))
	e.metrics.ObserveClear(FamilyType, key)
	e.metrics.SetReclamationDepth(e.reclaim.Pending())
}

func (e *Engine) publishType(rec *typeRecord) {
	available, checkedOut := rec.sizes()
	e.metrics.SetPoolSize(FamilyType, rec.spec.name, available, checkedOut)
}

func asError(err error) *errors.Error {
	if e, ok := err.(*errors.Error); ok {
		return e
	}
	return errors.Wrap(err, errors.ErrorTypeInternal, "construction failed")
}
