package pool

import (
	"reflect"

	"github.com/ajitpratap0/rime/pkg/errors"
)

// typeSpec describes how instances of one type key are built and which
// other types they count as for Clear.
type typeSpec struct {
	typ     reflect.Type
	name    string
	parents []reflect.Type
	ctor    func() any

	behavior       bool
	templateBacked bool
	destroyable    bool

	// ancestry holds the base types this key is a subtype of, itself
	// included: its embedding chain plus declared parents, transitively
	ancestry map[reflect.Type]struct{}
}

// TypeOption customizes a type key through Declare.
type TypeOption func(*typeSpec)

// Extends declares B as a parent of the declared type, in addition to the
// structs it embeds.
func Extends[B any]() TypeOption {
	return func(s *typeSpec) {
		s.parents = append(s.parents, reflect.TypeFor[B]())
	}
}

// Constructor sets the function used to build fresh plain instances. It is
// required for non-pointer types.
func Constructor[T any](fn func() T) TypeOption {
	return func(s *typeSpec) {
		s.ctor = func() any { return fn() }
	}
}

// Named overrides the display name used for the container node and the
// template lookup path.
func Named(name string) TypeOption {
	return func(s *typeSpec) {
		if name != "" {
			s.name = name
		}
	}
}

// Declare registers construction and ancestry options for T. It may be
// called before or after the first Take of T.
func Declare[T comparable](e *Engine, opts ...TypeOption) {
	s := e.spec(reflect.TypeFor[T]())
	for _, opt := range opts {
		opt(s)
	}
	e.refreshAncestry()
}

func newTypeSpec(t reflect.Type) *typeSpec {
	return &typeSpec{
		typ:            t,
		name:           typeName(t),
		behavior:       t.Implements(behaviorType),
		templateBacked: t.Implements(templateBackedType),
		destroyable:    t.Implements(destroyableType),
	}
}

// newInstance builds a fresh, unattached instance of the key type
func (s *typeSpec) newInstance() (any, error) {
	if s.ctor != nil {
		v := s.ctor()
		if v == nil || reflect.TypeOf(v) != s.typ {
			return nil, errors.Newf(errors.ErrorTypeCapability,
				"constructor for %s returned %T", s.typ, v)
		}
		return v, nil
	}
	if s.typ.Kind() == reflect.Pointer {
		return reflect.New(s.typ.Elem()).Interface(), nil
	}
	return nil, errors.Newf(errors.ErrorTypeCapability,
		"%s is not constructible: use a pointer type or declare a constructor", s.typ)
}

// matches reports whether this key is target or one of its subtypes
func (s *typeSpec) matches(target reflect.Type) bool {
	if s.typ == target {
		return true
	}
	if target.Kind() == reflect.Interface {
		return s.typ.Implements(target)
	}
	_, ok := s.ancestry[baseType(target)]
	return ok
}

// spec returns the type registration of t, creating it on first use
func (e *Engine) spec(t reflect.Type) *typeSpec {
	if s, ok := e.specs[t]; ok {
		return s
	}
	s := newTypeSpec(t)
	e.specs[t] = s
	s.ancestry = e.ancestryOf(t, make(map[reflect.Type]bool))
	return s
}

// refreshAncestry recomputes every known ancestry after a declaration
// changed the graph.
func (e *Engine) refreshAncestry() {
	for t, s := range e.specs {
		s.ancestry = e.ancestryOf(t, make(map[reflect.Type]bool))
	}
}

func (e *Engine) ancestryOf(t reflect.Type, visiting map[reflect.Type]bool) map[reflect.Type]struct{} {
	out := make(map[reflect.Type]struct{})
	b := baseType(t)
	if visiting[b] {
		return out
	}
	visiting[b] = true
	out[b] = struct{}{}

	if b.Kind() == reflect.Struct {
		for i := 0; i < b.NumField(); i++ {
			f := b.Field(i)
			if !f.Anonymous || baseType(f.Type).Kind() != reflect.Struct {
				continue
			}
			for a := range e.ancestryOf(f.Type, visiting) {
				out[a] = struct{}{}
			}
		}
	}
	for _, declared := range e.declaredParents(t) {
		for a := range e.ancestryOf(declared, visiting) {
			out[a] = struct{}{}
		}
	}
	return out
}

// declaredParents collects the Extends declarations made on t or on its
// pointer/value counterpart.
func (e *Engine) declaredParents(t reflect.Type) []reflect.Type {
	var parents []reflect.Type
	for st, s := range e.specs {
		if baseType(st) == baseType(t) {
			parents = append(parents, s.parents...)
		}
	}
	return parents
}

func baseType(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// typeName is the short display name of t: "Enemy" for *game.Enemy
func typeName(t reflect.Type) string {
	b := baseType(t)
	if b.Name() != "" {
		return b.Name()
	}
	return t.String()
}
