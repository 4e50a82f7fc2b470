package pool

import (
	"reflect"

	"github.com/ajitpratap0/rime/pkg/scene"
)

// Creatable instances are notified once, right after construction.
type Creatable interface {
	OnCreate()
}

// Startable instances are notified once, right after OnCreate.
type Startable interface {
	OnStart()
}

// Destroyable instances are notified when the pool holding them is cleared
// while they are available.
type Destroyable interface {
	OnDestroy()
}

// TemplateBacked marks a behavior type whose instances are created from the
// template at Templates/TypeWell/<TypeName> rather than on a bare node.
type TemplateBacked interface {
	scene.Behavior
	TemplateBacked()
}

var (
	behaviorType       = reflect.TypeFor[scene.Behavior]()
	templateBackedType = reflect.TypeFor[TemplateBacked]()
	destroyableType    = reflect.TypeFor[Destroyable]()
)

// runCreateHooks calls OnCreate then OnStart on v when it supports them
func runCreateHooks(v any) {
	if c, ok := v.(Creatable); ok {
		c.OnCreate()
	}
	if s, ok := v.(Startable); ok {
		s.OnStart()
	}
}

// nodeOf returns the node hosting a behavior handle, nil for plain objects
func nodeOf(h any) *scene.Node {
	if b, ok := h.(scene.Behavior); ok && b != nil {
		return b.Node()
	}
	return nil
}
