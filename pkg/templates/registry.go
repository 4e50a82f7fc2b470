// Package templates resolves scene templates by path. Templates live under two
// conventional roots, one per pool family:
//
//	Templates/TypeWell/<TypeName>
//	Templates/NameWell/<Name>
package templates

import (
	"sort"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rime/pkg/scene"
)

// Path conventions shared with the pooling engine.
const (
	Root     = "Templates"
	TypeWell = "TypeWell"
	NameWell = "NameWell"
)

// TypePath returns the lookup path of a type-keyed template
func TypePath(typeName string) string {
	return Root + "/" + TypeWell + "/" + typeName
}

// NamePath returns the lookup path of a name-keyed template
func NamePath(name string) string {
	return Root + "/" + NameWell + "/" + name
}

// Registry is an in-memory path → template table.
type Registry struct {
	templates map[string]*scene.Template
	logger    *zap.Logger
}

// NewRegistry creates an empty registry. A nil logger discards diagnostics.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		templates: make(map[string]*scene.Template),
		logger:    logger.With(zap.String("component", "template_registry")),
	}
}

// Register binds t to path, replacing any previous binding
func (r *Registry) Register(path string, t *scene.Template) {
	if _, exists := r.templates[path]; exists {
		r.logger.Debug("template replaced", zap.String("path", path))
	}
	r.templates[path] = t
}

// RegisterType binds t at the type-keyed path of typeName
func (r *Registry) RegisterType(typeName string, t *scene.Template) {
	r.Register(TypePath(typeName), t)
}

// RegisterNamed binds t at the name-keyed path of name
func (r *Registry) RegisterNamed(name string, t *scene.Template) {
	r.Register(NamePath(name), t)
}

// Unregister removes the binding at path
func (r *Registry) Unregister(path string) {
	delete(r.templates, path)
}

// ResolveTemplate returns the template bound to path
func (r *Registry) ResolveTemplate(path string) (*scene.Template, bool) {
	t, ok := r.templates[path]
	return t, ok && t != nil
}

// Paths returns every registered path in lexical order
func (r *Registry) Paths() []string {
	paths := make([]string, 0, len(r.templates))
	for p := range r.templates {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
