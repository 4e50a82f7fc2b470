package scene

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mover struct {
	BehaviorBase
	Speed int
}

type health struct {
	BehaviorBase
}

func newTestGraph(t *testing.T) *Graph {
	g := NewGraph(zaptest.NewLogger(t))
	g.RegisterBehavior("mover", func() Behavior { return &mover{Speed: 3} })
	g.RegisterBehavior("health", func() Behavior { return &health{} })
	return g
}

func TestNewNode(t *testing.T) {
	g := newTestGraph(t)
	a := g.NewNode("a")
	b := g.NewNode("b")

	assert.NotEqual(t, a.ID(), b.ID())
	assert.True(t, a.Enabled())
	assert.Nil(t, a.Parent())
	assert.Equal(t, 2, g.Live())
}

func TestKeyIsStableAcrossRename(t *testing.T) {
	g := newTestGraph(t)
	n := g.NewNode("Coin")
	key := n.Key()

	g.Rename(n, "something else")
	assert.Equal(t, "something else", n.Name())
	assert.Equal(t, key, n.Key())
}

func TestSetParent(t *testing.T) {
	g := newTestGraph(t)
	root := g.NewNode("root")
	a := g.NewNode("a")
	b := g.NewNode("b")

	g.SetParent(a, root)
	g.SetParent(b, root)
	assert.Equal(t, []*Node{a, b}, root.Children())

	g.SetParent(b, a)
	assert.Equal(t, []*Node{a}, root.Children())
	assert.Equal(t, a, b.Parent())
	assert.Equal(t, "root/a/b", b.Path())

	// same parent is a no-op, no duplicate child entries
	g.SetParent(b, a)
	assert.Len(t, a.Children(), 1)

	// cycles are refused
	g.SetParent(root, b)
	assert.Nil(t, root.Parent())

	found, ok := root.Find("a/b")
	require.True(t, ok)
	assert.Equal(t, b, found)
	_, ok = root.Find("a/missing")
	assert.False(t, ok)
}

func TestActiveInHierarchy(t *testing.T) {
	g := newTestGraph(t)
	root := g.NewNode("root")
	child := g.NewNode("child")
	g.SetParent(child, root)

	assert.True(t, child.ActiveInHierarchy())
	g.SetEnabled(root, false)
	assert.True(t, child.Enabled())
	assert.False(t, child.ActiveInHierarchy())
}

func TestDestroySubtree(t *testing.T) {
	g := newTestGraph(t)
	root := g.NewNode("root")
	a := g.NewNode("a")
	b := g.NewNode("b")
	g.SetParent(a, root)
	g.SetParent(b, a)

	g.Destroy(a)

	assert.True(t, a.Destroyed())
	assert.True(t, b.Destroyed())
	assert.Empty(t, root.Children())
	assert.Equal(t, 1, g.Live())

	// idempotent and ignored afterwards
	g.Destroy(a)
	g.SetParent(a, root)
	g.Rename(a, "zombie")
	assert.Empty(t, root.Children())
	assert.Equal(t, "a", a.Name())
}

func TestInstantiate(t *testing.T) {
	g := newTestGraph(t)
	tpl := &Template{
		Name:      "Enemy",
		Behaviors: []string{"mover", "unknown"},
		Children: []*Template{
			{Name: "HealthBar", Behaviors: []string{"health"}, Disabled: true},
		},
	}

	n := g.Instantiate(tpl)
	require.NotNil(t, n)
	assert.Equal(t, "Enemy(Clone)", n.Name())
	assert.Equal(t, tpl, n.Template())
	assert.Equal(t, 2, tpl.NodeCount())
	assert.Equal(t, 2, g.Live())

	b, ok := g.Behavior(n, reflect.TypeOf(&mover{}))
	require.True(t, ok)
	assert.Equal(t, n, b.Node())
	assert.Equal(t, 3, b.(*mover).Speed)

	bar, ok := n.Child("HealthBar")
	require.True(t, ok)
	assert.False(t, bar.Enabled())
	_, ok = g.Behavior(bar, reflect.TypeOf(&health{}))
	assert.True(t, ok)

	// each instance is independent
	other := g.Instantiate(tpl)
	assert.NotEqual(t, n.ID(), other.ID())
	assert.Nil(t, g.Instantiate(nil))
}

func TestAttachBehavior(t *testing.T) {
	g := newTestGraph(t)
	a := g.NewNode("a")
	b := g.NewNode("b")
	m := &mover{}

	g.AttachBehavior(a, m)
	g.AttachBehavior(b, m)
	assert.Equal(t, a, m.Node())
	assert.Len(t, a.Behaviors(), 1)
	assert.Empty(t, b.Behaviors())

	_, ok := g.Behavior(b, reflect.TypeOf(&mover{}))
	assert.False(t, ok)
}

func TestDump(t *testing.T) {
	g := newTestGraph(t)
	root := g.NewNode("root")
	child := g.NewNode("child")
	g.SetParent(child, root)
	g.AttachBehavior(child, &mover{})
	g.SetEnabled(child, false)

	assert.Equal(t, "+ root\n  - child [mover]\n", DumpString(root))
	assert.Equal(t, "", DumpString(nil))
}
