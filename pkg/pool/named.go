package pool

import (
	"go.uber.org/zap"

	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/metrics"
	"github.com/ajitpratap0/rime/pkg/scene"
	"github.com/ajitpratap0/rime/pkg/templates"
)

// TakeNamed returns a node instantiated from the template at
// Templates/NameWell/<name>, reusing the oldest available one first. The
// node's display name becomes "<key>|RIME|<name>", which is how PutNamed
// finds its pool again.
func (e *Engine) TakeNamed(name string) (*scene.Node, bool) {
	if !e.checkOpen(FamilyName, name) {
		return nil, false
	}
	rec := e.nameRecord(name)

	outcome := metrics.OutcomeReuse
	node, ok := rec.dequeue()
	if !ok {
		if rec.template == nil {
			path := templates.NamePath(name)
			tpl, found := e.templates.ResolveTemplate(path)
			if !found {
				e.fail(FamilyName, name, errors.New(errors.ErrorTypeTemplate, "template not found").WithDetail("path", path))
				e.metrics.ObserveTake(FamilyName, name, metrics.OutcomeFailed)
				return nil, false
			}
			rec.template = tpl
		}
		if node = e.scene.Instantiate(rec.template); node == nil {
			e.fail(FamilyName, name, errors.New(errors.ErrorTypeInternal, "template instantiation returned no node"))
			e.metrics.ObserveTake(FamilyName, name, metrics.OutcomeFailed)
			return nil, false
		}
		outcome = metrics.OutcomeFresh
	}

	rec.checkOut(node)
	container := e.ensureContainer(&rec.container, &e.nameWell, templates.NameWell, name)
	e.scene.Rename(node, ComposeTag(node.Key(), name))
	e.adopt(node, container, true)

	e.metrics.ObserveTake(FamilyName, name, outcome)
	e.publishName(name, rec)
	return node, true
}

// PutNamed returns node to the pool named in its composite tag. It fails
// without side effects when the engine is shut down, the tag is missing, the
// pool does not exist or node is not checked out of it.
func (e *Engine) PutNamed(node *scene.Node) bool {
	if node == nil {
		e.fail(FamilyName, "", errors.New(errors.ErrorTypeUsage, "nil node"))
		return false
	}
	name, ok := ParseTag(node.Name())
	if !e.checkOpen(FamilyName, name) {
		return false
	}
	if !ok {
		e.fail(FamilyName, "", errors.New(errors.ErrorTypeNotFound, "node carries no pool tag").
			WithDetail("node", node.Name()))
		return false
	}
	rec, ok := e.names[name]
	if !ok {
		e.fail(FamilyName, name, errors.New(errors.ErrorTypeNotFound, "pool not found"))
		e.metrics.ObservePut(FamilyName, name, false)
		return false
	}
	if !rec.release(node) {
		e.fail(FamilyName, name, errors.New(errors.ErrorTypeUsage, "node is not checked out of this pool").
			WithDetail("node", node.Name()))
		e.metrics.ObservePut(FamilyName, name, false)
		return false
	}
	e.parkNamed(name, rec, node)
	e.metrics.ObservePut(FamilyName, name, true)
	e.publishName(name, rec)
	return true
}

// ClearNamed removes the pool of name after reclaiming its checked-out
// nodes, and queues its container for deferred destruction.
func (e *Engine) ClearNamed(name string) bool {
	if !e.checkOpen(FamilyName, name) {
		return false
	}
	rec, ok := e.names[name]
	if !ok {
		e.fail(FamilyName, name, errors.New(errors.ErrorTypeNotFound, "pool not found"))
		return false
	}
	e.clearName(name, rec)
	return true
}

func (e *Engine) nameRecord(name string) *record[*scene.Node] {
	if rec, ok := e.names[name]; ok {
		return rec
	}
	rec := newRecord[*scene.Node]()
	e.names[name] = rec
	return rec
}

func (e *Engine) parkNamed(name string, rec *record[*scene.Node], node *scene.Node) {
	container := e.ensureContainer(&rec.container, &e.nameWell, templates.NameWell, name)
	e.adopt(node, container, false)
}

func (e *Engine) clearName(name string, rec *record[*scene.Node]) {
	reclaimed := rec.inUse()
	for _, node := range reclaimed {
		rec.release(node)
		e.parkNamed(name, rec, node)
	}
	delete(e.names, name)
	if rec.container != nil {
		e.reclaim.Enqueue(rec.container)
		rec.container = nil
	}
	e.logger.Info("name pool cleared",
		zap.String("key", name),
		zap.Int("reclaimed_in_use", len(reclaimed)))
	e.metrics.ObserveClear(FamilyName, name)
	e.metrics.SetReclamationDepth(e.reclaim.Pending())
}

func (e *Engine) publishName(name string, rec *record[*scene.Node]) {
	available, checkedOut := rec.sizes()
	e.metrics.SetPoolSize(FamilyName, name, available, checkedOut)
}
