package scene

// Template describes a node tree that can be instantiated any number of times.
type Template struct {
	// Name of the root node of every instance
	Name string `yaml:"name" json:"name"`
	// Behaviors lists registered behavior kinds attached to the root node
	Behaviors []string `yaml:"behaviors,omitempty" json:"behaviors,omitempty"`
	// Disabled instantiates the node with its enabled flag off
	Disabled bool `yaml:"disabled,omitempty" json:"disabled,omitempty"`
	// Children are instantiated below the root node in order
	Children []*Template `yaml:"children,omitempty" json:"children,omitempty"`
}

// CloneSuffix is appended to the name of instantiated template roots.
const CloneSuffix = "(Clone)"

// NodeCount returns the number of nodes one instance of t creates
func (t *Template) NodeCount() int {
	if t == nil {
		return 0
	}
	n := 1
	for _, c := range t.Children {
		n += c.NodeCount()
	}
	return n
}
