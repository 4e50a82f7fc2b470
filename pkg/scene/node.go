package scene

import (
	"strconv"
	"strings"
)

// Node is one element of the scene tree.
type Node struct {
	id        uint64
	origin    string
	name      string
	parent    *Node
	children  []*Node
	enabled   bool
	behaviors []Behavior
	template  *Template
	destroyed bool
}

// ID returns the graph-unique identifier of the node
func (n *Node) ID() uint64 { return n.id }

// Name returns the current display name
func (n *Node) Name() string { return n.name }

// Key returns the stable key label of the node: its creation name followed
// by "#" and its id. Renaming the node does not change its key.
func (n *Node) Key() string {
	return n.origin + "#" + strconv.FormatUint(n.id, 10)
}

// Parent returns the parent node, or nil for a root
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the direct children in insertion order
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Child returns the first direct child with the given name
func (n *Node) Child(name string) (*Node, bool) {
	for _, c := range n.children {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}

// Find resolves a slash separated path of child names below n.
func (n *Node) Find(path string) (*Node, bool) {
	cur := n
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		next, ok := cur.Child(part)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Enabled reports the node's own enabled flag
func (n *Node) Enabled() bool { return n.enabled }

// ActiveInHierarchy reports whether the node and all its ancestors are enabled
func (n *Node) ActiveInHierarchy() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.enabled {
			return false
		}
	}
	return true
}

// Behaviors returns a copy of the attached behaviors in attach order
func (n *Node) Behaviors() []Behavior {
	out := make([]Behavior, len(n.behaviors))
	copy(out, n.behaviors)
	return out
}

// Template returns the template the node was instantiated from, if any
func (n *Node) Template() *Template { return n.template }

// Destroyed reports whether the node has been destroyed
func (n *Node) Destroyed() bool { return n.destroyed }

// Path returns the slash separated names from the tree root down to n
func (n *Node) Path() string {
	var parts []string
	for cur := n; cur != nil; cur = cur.parent {
		parts = append(parts, cur.name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "/")
}

// isAncestorOf reports whether n is p or one of p's ancestors
func (n *Node) isAncestorOf(p *Node) bool {
	for cur := p; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

func (n *Node) removeChild(c *Node) {
	for i, child := range n.children {
		if child == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}
