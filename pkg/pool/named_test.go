package pool

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rime/pkg/scene"
)

func coinTemplate() *scene.Template {
	return &scene.Template{
		Name:     "Coin",
		Children: []*scene.Template{{Name: "Sparkle", Disabled: true}},
	}
}

func TestTakeNamedMissingTemplate(t *testing.T) {
	f := newFixture(t)

	node, ok := f.engine.TakeNamed("Coin")
	assert.False(t, ok)
	assert.Nil(t, node)
	assert.True(t, f.warned("template not found"))
	assert.Equal(t, 0, f.graph.Live()-1, "nothing was instantiated")

	st, ok := f.engine.NamedStats("Coin")
	require.True(t, ok, "the empty record stays")
	assert.Equal(t, PoolStats{Family: FamilyName, Key: "Coin"}, st)
}

func TestTakeNamed(t *testing.T) {
	f := newFixture(t)
	tpl := coinTemplate()
	f.registry.RegisterNamed("Coin", tpl)

	coin, ok := f.engine.TakeNamed("Coin")
	require.True(t, ok)
	assert.Same(t, tpl, coin.Template())
	assert.Equal(t, coin.Key()+"|RIME|Coin", coin.Name())
	assert.True(t, strings.HasPrefix(coin.Key(), "Coin(Clone)#"))
	assert.True(t, coin.Enabled())

	container, ok := f.engine.NamedContainer("Coin")
	require.True(t, ok)
	assert.Same(t, container, coin.Parent())
	assert.Equal(t, "Pools/NameWell/Coin", container.Path())

	st, ok := f.engine.NamedStats("Coin")
	require.True(t, ok)
	assert.Equal(t, PoolStats{
		Family:        FamilyName,
		Key:           "Coin",
		CheckedOut:    1,
		TemplateBound: true,
		Container:     "Pools/NameWell/Coin",
	}, st)
}

func TestNamedTagSurvivesReuse(t *testing.T) {
	f := newFixture(t)
	f.registry.RegisterNamed("Coin", coinTemplate())

	coin, _ := f.engine.TakeNamed("Coin")
	tag := coin.Name()
	for i := 0; i < 3; i++ {
		require.True(t, f.engine.PutNamed(coin))
		assert.False(t, coin.Enabled())
		assert.Equal(t, tag, coin.Name())

		again, ok := f.engine.TakeNamed("Coin")
		require.True(t, ok)
		assert.Same(t, coin, again)
		assert.Equal(t, tag, coin.Name())
	}
}

func TestNamedPoolsAreIndependent(t *testing.T) {
	f := newFixture(t)
	f.registry.RegisterNamed("Coin", coinTemplate())
	f.registry.RegisterNamed("Gem", &scene.Template{Name: "Gem"})

	coin, _ := f.engine.TakeNamed("Coin")
	gem, _ := f.engine.TakeNamed("Gem")
	require.True(t, f.engine.PutNamed(gem))
	require.True(t, f.engine.PutNamed(coin))

	again, _ := f.engine.TakeNamed("Gem")
	assert.Same(t, gem, again)
	st, _ := f.engine.NamedStats("Coin")
	assert.Equal(t, 1, st.Available)
}

func TestPutNamedFailures(t *testing.T) {
	f := newFixture(t)
	f.registry.RegisterNamed("Coin", coinTemplate())
	coin, _ := f.engine.TakeNamed("Coin")

	assert.False(t, f.engine.PutNamed(nil))

	untagged := f.graph.NewNode("Coin")
	assert.False(t, f.engine.PutNamed(untagged))
	assert.True(t, f.warned("node carries no pool tag"))

	stranger := f.graph.NewNode(ComposeTag("x#1", "Ghost"))
	assert.False(t, f.engine.PutNamed(stranger))
	assert.True(t, f.warned("pool not found"))

	forged := f.graph.NewNode(ComposeTag("x#2", "Coin"))
	assert.False(t, f.engine.PutNamed(forged))
	assert.True(t, f.warned("node is not checked out of this pool"))

	require.True(t, f.engine.PutNamed(coin))
	assert.False(t, f.engine.PutNamed(coin))

	st, _ := f.engine.NamedStats("Coin")
	assert.Equal(t, 1, st.Available)
	assert.Equal(t, 0, st.CheckedOut)
}

func TestClearNamed(t *testing.T) {
	f := newFixture(t)
	f.registry.RegisterNamed("Coin", coinTemplate())
	a, _ := f.engine.TakeNamed("Coin")
	b, _ := f.engine.TakeNamed("Coin")
	require.True(t, f.engine.PutNamed(b))
	container, _ := f.engine.NamedContainer("Coin")

	require.True(t, f.engine.ClearNamed("Coin"))
	assert.False(t, a.Enabled(), "checked-out nodes are reclaimed")
	assert.Same(t, container, a.Parent())

	_, ok := f.engine.NamedStats("Coin")
	assert.False(t, ok, "the record is removed")
	assert.False(t, f.engine.ClearNamed("Coin"))
	assert.False(t, f.engine.PutNamed(a))

	f.engine.LateUpdate()
	assert.False(t, container.Destroyed())
	f.engine.LateUpdate()
	assert.True(t, container.Destroyed())
	assert.True(t, a.Destroyed())
	assert.True(t, b.Destroyed())
}

func TestClearNamedThenTakeRebinds(t *testing.T) {
	f := newFixture(t)
	f.registry.RegisterNamed("Coin", coinTemplate())
	old, _ := f.engine.TakeNamed("Coin")
	require.True(t, f.engine.ClearNamed("Coin"))

	replacement := &scene.Template{Name: "Coin"}
	f.registry.RegisterNamed("Coin", replacement)
	coin, ok := f.engine.TakeNamed("Coin")
	require.True(t, ok)
	assert.NotSame(t, old, coin)
	assert.Same(t, replacement, coin.Template())
}

func TestClearNamedIgnoresTypePools(t *testing.T) {
	f := newFixture(t)
	_, _ = Take[*Enemy](f.engine)
	assert.False(t, f.engine.ClearNamed("Enemy"))
	_, ok := StatsOf[*Enemy](f.engine)
	assert.True(t, ok)
}
