package pool

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ajitpratap0/rime/pkg/scene"
	"github.com/ajitpratap0/rime/pkg/templates"
	"github.com/ajitpratap0/rime/pkg/testutil"
)

// Enemy is a behavior created on a bare node.
type Enemy struct {
	scene.BehaviorBase
	created int
	started int
}

func (e *Enemy) OnCreate() { e.created++ }
func (e *Enemy) OnStart()  { e.started++ }

// Goblin is a subtype of Enemy through embedding.
type Goblin struct {
	Enemy
}

// Orc is declared a subtype of Enemy.
type Orc struct {
	scene.BehaviorBase
}

// Turret is built from its template.
type Turret struct {
	scene.BehaviorBase
	created int
}

func (t *Turret) TemplateBacked() {}
func (t *Turret) OnCreate()       { t.created++ }

// Bullet is a plain object with every hook.
type Bullet struct {
	created   int
	started   int
	destroyed int
}

func (b *Bullet) OnCreate()  { b.created++ }
func (b *Bullet) OnStart()   { b.started++ }
func (b *Bullet) OnDestroy() { b.destroyed++ }

// Ticket is a value type that needs a constructor.
type Ticket struct {
	ID int
}

type fixture struct {
	engine   *Engine
	graph    *scene.Graph
	registry *templates.Registry
	logs     *observer.ObservedLogs
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	logger, logs := testutil.ObservedLogger(t, zap.DebugLevel)
	s := testutil.NewScene(logger)
	s.Graph.RegisterBehavior("Turret", func() scene.Behavior { return &Turret{} })

	opts = append([]Option{WithLogger(logger)}, opts...)
	return &fixture{
		engine:   New(s.Root, s.Graph, s.Registry, opts...),
		graph:    s.Graph,
		registry: s.Registry,
		logs:     logs,
	}
}

// warned reports whether a warning with msg was logged
func (f *fixture) warned(msg string) bool {
	return f.logs.FilterLevelExact(zap.WarnLevel).FilterMessage(msg).Len() > 0
}

// assertPartition checks that no handle is both available and checked out
func assertPartition[H comparable](t *testing.T, rec *record[H]) {
	t.Helper()
	seen := make(map[H]bool)
	for _, h := range rec.idle() {
		if seen[h] {
			t.Fatalf("handle %v queued twice", h)
		}
		seen[h] = true
		if rec.isCheckedOut(h) {
			t.Fatalf("handle %v is both available and checked out", h)
		}
	}
}
