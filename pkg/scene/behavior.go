package scene

// Behavior is a component hosted on a node. Types become behaviors by
// embedding BehaviorBase.
type Behavior interface {
	// Node returns the hosting node, nil until the behavior is attached
	Node() *Node
	bind(n *Node)
}

// BehaviorBase implements Behavior; embed it in behavior structs.
type BehaviorBase struct {
	node *Node
}

// Node returns the hosting node
func (b *BehaviorBase) Node() *Node { return b.node }

func (b *BehaviorBase) bind(n *Node) { b.node = n }

// BehaviorFactory creates a fresh, unattached behavior
type BehaviorFactory func() Behavior
