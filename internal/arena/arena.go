// Package arena is a scripted scenario that exercises the pooling engine on
// the host loop: enemies, turrets and bullets from type-keyed pools, coins
// from a name-keyed pool, and periodic clears.
package arena

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rime/internal/loop"
	"github.com/ajitpratap0/rime/pkg/config"
	"github.com/ajitpratap0/rime/pkg/errors"
	"github.com/ajitpratap0/rime/pkg/logger"
	"github.com/ajitpratap0/rime/pkg/metrics"
	"github.com/ajitpratap0/rime/pkg/pool"
	"github.com/ajitpratap0/rime/pkg/scene"
	"github.com/ajitpratap0/rime/pkg/templates"
)

// CoinPool is the name-keyed pool used for pickups
const CoinPool = "Coin"

// Arena owns the scene, the templates and the pooling engine of one run.
type Arena struct {
	Graph    *scene.Graph
	Registry *templates.Registry
	Engine   *pool.Engine

	// ClearEvery clears the enemy and coin pools every N ticks (0 = never)
	ClearEvery uint64

	enemies []*Enemy
	turret  *Turret
	coins   []*scene.Node
	bullets int

	logger *zap.Logger
}

// New builds the scene graph, the template registry and the engine.
func New(cfg *config.Config, log *zap.Logger, collector *metrics.Collector) *Arena {
	if log == nil {
		log = zap.NewNop()
	}
	graph := scene.NewGraph(log)
	graph.RegisterBehavior("Turret", func() scene.Behavior { return &Turret{} })
	graph.RegisterBehavior("Enemy", func() scene.Behavior { return &Enemy{} })
	registry := templates.NewRegistry(log)

	engine := pool.New(graph.NewNode("Pools"), graph, registry,
		pool.WithLogger(log),
		pool.WithMetrics(collector),
		pool.WithReclamation(cfg.Pools.Reclamation))

	return &Arena{
		Graph:      graph,
		Registry:   registry,
		Engine:     engine,
		ClearEvery: 10,
		logger:     log.With(zap.String("component", "arena")),
	}
}

// LoadTemplates registers the templates of a manifest file, or the built-in
// ones when path is empty.
func (a *Arena) LoadTemplates(path string) error {
	if path == "" {
		DefaultManifest().Apply(a.Registry)
		return nil
	}
	m, err := templates.LoadManifest(path)
	if err != nil {
		return err
	}
	m.Apply(a.Registry)
	a.logger.Info("templates loaded", zap.String("path", path), zap.Strings("paths", a.Registry.Paths()))
	return nil
}

// DefaultManifest describes a turret and a coin
func DefaultManifest() *templates.Manifest {
	return &templates.Manifest{
		TypeWell: []*scene.Template{{
			Name:      "Turret",
			Behaviors: []string{"Turret"},
			Children:  []*scene.Template{{Name: "Barrel"}, {Name: "Muzzle", Disabled: true}},
		}},
		NameWell: []*scene.Template{{
			Name:     CoinPool,
			Children: []*scene.Template{{Name: "Sparkle"}},
		}},
	}
}

// Attach registers the scenario on r: spawning in the update phase and the
// reclamation drain in the late update phase.
func (a *Arena) Attach(r *loop.Runner) {
	r.OnUpdate("arena", a.Update)
	r.OnLateUpdate("pools", func(ctx context.Context, _ uint64) error {
		if n := a.Engine.LateUpdate(); n > 0 {
			logger.Enrich(ctx, a.logger).Debug("containers reclaimed", zap.Int("count", n))
		}
		return nil
	})
}

// Update runs one tick of the script.
func (a *Arena) Update(ctx context.Context, tick uint64) error {
	log := logger.Enrich(ctx, a.logger)

	enemy, ok := pool.Take[*Enemy](a.Engine)
	if !ok {
		return errors.New(errors.ErrorTypeInternal, "enemy spawn failed")
	}
	a.enemies = append(a.enemies, enemy)
	if tick%2 == 0 {
		pool.Put(a.Engine, a.enemies[0])
		a.enemies = a.enemies[1:]
	}

	bullet, ok := pool.Take[*Bullet](a.Engine)
	if !ok {
		return errors.New(errors.ErrorTypeInternal, "bullet take failed")
	}
	bullet.Fired++
	a.bullets++
	pool.Put(a.Engine, bullet)

	if a.turret == nil {
		if a.turret, ok = pool.Take[*Turret](a.Engine); !ok {
			return errors.New(errors.ErrorTypeTemplate, "turret template missing")
		}
	} else if tick%4 == 0 {
		pool.Put(a.Engine, a.turret)
		a.turret = nil
	}

	switch tick % 3 {
	case 0:
		coin, ok := a.Engine.TakeNamed(CoinPool)
		if !ok {
			return errors.New(errors.ErrorTypeTemplate, "coin template missing")
		}
		a.coins = append(a.coins, coin)
	case 1:
		for _, coin := range a.coins {
			a.Engine.PutNamed(coin)
		}
		a.coins = a.coins[:0]
	}

	if a.ClearEvery > 0 && tick%a.ClearEvery == 0 {
		pool.Clear[*Enemy](a.Engine)
		a.enemies = nil
		if _, ok := a.Engine.NamedStats(CoinPool); ok {
			a.Engine.ClearNamed(CoinPool)
			a.coins = nil
		}
		log.Info("arena cleared",
			zap.Int("pending_reclamation", a.Engine.Reclamation().Pending()))
	}
	return nil
}

// Summary describes the end state of a run.
type Summary struct {
	Ticks       uint64           `json:"ticks"`
	LiveNodes   int              `json:"live_nodes"`
	Pending     int              `json:"pending_reclamation"`
	BulletsShot int              `json:"bullets_shot"`
	Pools       []pool.PoolStats `json:"pools"`
}

// Summary snapshots the arena after ticks ticks
func (a *Arena) Summary(ticks uint64) Summary {
	return Summary{
		Ticks:       ticks,
		LiveNodes:   a.Graph.Live(),
		Pending:     a.Engine.Reclamation().Pending(),
		BulletsShot: a.bullets,
		Pools:       a.Engine.Stats(),
	}
}
