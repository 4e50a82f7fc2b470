package scene

import (
	"reflect"

	"go.uber.org/zap"
)

// Graph owns every node it creates and implements the hierarchy and
// instantiation services. Operations on destroyed nodes are ignored.
type Graph struct {
	nextID    uint64
	live      map[uint64]*Node
	factories map[string]BehaviorFactory
	logger    *zap.Logger
}

// NewGraph creates an empty graph. A nil logger discards diagnostics.
func NewGraph(logger *zap.Logger) *Graph {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Graph{
		live:      make(map[uint64]*Node),
		factories: make(map[string]BehaviorFactory),
		logger:    logger.With(zap.String("component", "scene_graph")),
	}
}

// RegisterBehavior makes a behavior kind available to templates
func (g *Graph) RegisterBehavior(kind string, factory BehaviorFactory) {
	g.factories[kind] = factory
}

// NewNode creates an enabled root node
func (g *Graph) NewNode(name string) *Node {
	g.nextID++
	n := &Node{
		id:      g.nextID,
		origin:  name,
		name:    name,
		enabled: true,
	}
	g.live[n.id] = n
	return n
}

// SetParent moves n below parent; a nil parent makes n a root. Moving a
// node below itself or one of its descendants is refused.
func (g *Graph) SetParent(n, parent *Node) {
	if n == nil || n.destroyed || n.parent == parent {
		return
	}
	if parent != nil {
		if parent.destroyed {
			return
		}
		if n.isAncestorOf(parent) {
			g.logger.Warn("refusing to parent node below its own subtree",
				zap.String("node", n.name),
				zap.String("parent", parent.name))
			return
		}
	}
	if n.parent != nil {
		n.parent.removeChild(n)
	}
	n.parent = parent
	if parent != nil {
		parent.children = append(parent.children, n)
	}
}

// SetEnabled sets the node's own enabled flag
func (g *Graph) SetEnabled(n *Node, enabled bool) {
	if n == nil || n.destroyed {
		return
	}
	n.enabled = enabled
}

// Rename changes the display name of n
func (g *Graph) Rename(n *Node, name string) {
	if n == nil || n.destroyed {
		return
	}
	n.name = name
}

// Destroy detaches n from its parent and destroys its whole subtree.
func (g *Graph) Destroy(n *Node) {
	if n == nil || n.destroyed {
		return
	}
	if n.parent != nil {
		n.parent.removeChild(n)
		n.parent = nil
	}
	g.destroyRec(n)
}

func (g *Graph) destroyRec(n *Node) {
	for _, c := range n.children {
		c.parent = nil
		g.destroyRec(c)
	}
	n.children = nil
	n.enabled = false
	n.destroyed = true
	delete(g.live, n.id)
}

// Instantiate creates a new node tree from t. The root is named after the
// template with CloneSuffix; children keep their template names.
func (g *Graph) Instantiate(t *Template) *Node {
	if t == nil {
		return nil
	}
	root := g.instantiateRec(t, t.Name+CloneSuffix)
	root.template = t
	return root
}

func (g *Graph) instantiateRec(t *Template, name string) *Node {
	n := g.NewNode(name)
	n.enabled = !t.Disabled
	for _, kind := range t.Behaviors {
		factory, ok := g.factories[kind]
		if !ok {
			g.logger.Warn("unknown behavior kind in template",
				zap.String("template", t.Name),
				zap.String("kind", kind))
			continue
		}
		g.AttachBehavior(n, factory())
	}
	for _, ct := range t.Children {
		g.SetParent(g.instantiateRec(ct, ct.Name), n)
	}
	return n
}

// AttachBehavior binds b to n. A behavior already bound to another node is
// left where it is.
func (g *Graph) AttachBehavior(n *Node, b Behavior) {
	if n == nil || n.destroyed || b == nil {
		return
	}
	if host := b.Node(); host != nil {
		if host != n {
			g.logger.Warn("behavior already attached to another node",
				zap.String("node", n.name),
				zap.String("host", host.name))
		}
		return
	}
	b.bind(n)
	n.behaviors = append(n.behaviors, b)
}

// Behavior returns the first behavior on n whose dynamic type is t
func (g *Graph) Behavior(n *Node, t reflect.Type) (Behavior, bool) {
	if n == nil {
		return nil, false
	}
	for _, b := range n.behaviors {
		if reflect.TypeOf(b) == t {
			return b, true
		}
	}
	return nil, false
}

// Live returns the number of nodes that have not been destroyed
func (g *Graph) Live() int {
	return len(g.live)
}

// Lookup returns the live node with the given id
func (g *Graph) Lookup(id uint64) (*Node, bool) {
	n, ok := g.live[id]
	return n, ok
}
