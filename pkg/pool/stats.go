package pool

import (
	"reflect"

	"github.com/ajitpratap0/rime/pkg/scene"
)

// PoolStats is a snapshot of one pool.
type PoolStats struct {
	Family        string `json:"family"`
	Key           string `json:"key"`
	Type          string `json:"type,omitempty"`
	Available     int    `json:"available"`
	CheckedOut    int    `json:"checked_out"`
	TemplateBound bool   `json:"template_bound"`
	Container     string `json:"container,omitempty"`
}

// Stats returns a snapshot of every pool, type-keyed pools first, each
// family sorted by key.
func (e *Engine) Stats() []PoolStats {
	stats := make([]PoolStats, 0, len(e.types)+len(e.names))
	for _, rec := range e.sortedTypeRecords() {
		stats = append(stats, typeStats(rec))
	}
	for _, name := range e.sortedNames() {
		stats = append(stats, nameStats(name, e.names[name]))
	}
	return stats
}

// StatsOf returns the snapshot of the pool of T
func StatsOf[T any](e *Engine) (PoolStats, bool) {
	rec, ok := e.types[reflect.TypeFor[T]()]
	if !ok {
		return PoolStats{}, false
	}
	return typeStats(rec), true
}

// NamedStats returns the snapshot of the pool of name
func (e *Engine) NamedStats(name string) (PoolStats, bool) {
	rec, ok := e.names[name]
	if !ok {
		return PoolStats{}, false
	}
	return nameStats(name, rec), true
}

// ContainerOf returns the container node of the pool of T
func ContainerOf[T any](e *Engine) (*scene.Node, bool) {
	rec, ok := e.types[reflect.TypeFor[T]()]
	if !ok || rec.container == nil {
		return nil, false
	}
	return rec.container, true
}

// NamedContainer returns the container node of the pool of name
func (e *Engine) NamedContainer(name string) (*scene.Node, bool) {
	rec, ok := e.names[name]
	if !ok || rec.container == nil {
		return nil, false
	}
	return rec.container, true
}

func typeStats(rec *typeRecord) PoolStats {
	s := statsOf(rec.record)
	s.Family = FamilyType
	s.Key = rec.spec.name
	s.Type = rec.spec.typ.String()
	return s
}

func nameStats(name string, rec *record[*scene.Node]) PoolStats {
	s := statsOf(rec)
	s.Family = FamilyName
	s.Key = name
	return s
}

func statsOf[H comparable](rec *record[H]) PoolStats {
	available, checkedOut := rec.sizes()
	s := PoolStats{
		Available:     available,
		CheckedOut:    checkedOut,
		TemplateBound: rec.template != nil,
	}
	if rec.container != nil {
		s.Container = rec.container.Path()
	}
	return s
}
