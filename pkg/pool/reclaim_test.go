package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajitpratap0/rime/pkg/config"
	"github.com/ajitpratap0/rime/pkg/scene"
	"github.com/ajitpratap0/rime/pkg/testutil"
)

func reclaimFixture(t *testing.T, mode string, perTick int) (*ReclamationQueue, *scene.Node, *scene.Node) {
	g := scene.NewGraph(testutil.TestLogger(t))
	q := NewReclamationQueue(config.ReclamationConfig{Mode: mode, DrainPerTick: perTick}, g.Destroy)
	a, b := g.NewNode("a"), g.NewNode("b")
	q.Enqueue(a)
	q.Enqueue(b)
	return q, a, b
}

func TestReclamationInterleaved(t *testing.T) {
	q, a, b := reclaimFixture(t, config.ReclaimInterleaved, 1)
	assert.Equal(t, 4, q.Len())
	assert.Equal(t, 2, q.Pending())

	steps := []struct {
		destroyed    int
		aGone, bGone bool
	}{
		{0, false, false},
		{1, true, false},
		{0, true, false},
		{1, true, true},
		{0, true, true},
	}
	for i, s := range steps {
		assert.Equal(t, s.destroyed, q.Drain(), "tick %d", i)
		assert.Equal(t, s.aGone, a.Destroyed(), "tick %d", i)
		assert.Equal(t, s.bGone, b.Destroyed(), "tick %d", i)
	}
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 0, q.Pending())
}

func TestReclamationDirect(t *testing.T) {
	q, a, b := reclaimFixture(t, config.ReclaimDirect, 1)
	assert.Equal(t, 2, q.Len())

	assert.Equal(t, 1, q.Drain())
	assert.True(t, a.Destroyed())
	assert.False(t, b.Destroyed())
	assert.Equal(t, 1, q.Drain())
	assert.True(t, b.Destroyed())
}

func TestReclamationDrainPerTick(t *testing.T) {
	q, a, b := reclaimFixture(t, config.ReclaimInterleaved, 2)

	assert.Equal(t, 1, q.Drain())
	assert.True(t, a.Destroyed())
	assert.Equal(t, 1, q.Drain())
	assert.True(t, b.Destroyed())
}

func TestReclamationFlush(t *testing.T) {
	q, a, b := reclaimFixture(t, config.ReclaimInterleaved, 1)
	q.Enqueue(nil)

	assert.Equal(t, 2, q.Flush())
	assert.True(t, a.Destroyed())
	assert.True(t, b.Destroyed())
	assert.Equal(t, 0, q.Pending())
}

func TestReclamationDefaultsDrainPerTick(t *testing.T) {
	q, _, _ := reclaimFixture(t, config.ReclaimDirect, 0)
	assert.Equal(t, 1, q.Drain())
}
