// Package rime is an instance-pooling engine for real-time scene runtimes.
// It recycles scene objects (behaviors hosted on nodes, and composite node
// trees instantiated from templates) instead of constructing and destroying
// them on every use.
//
// # Packages
//
//   - pkg/pool: the engine. Type-keyed pools (Take, Put, Clear), name-keyed
//     pools (TakeNamed, PutNamed, ClearNamed) and the deferred reclamation
//     queue drained once per tick by LateUpdate
//   - pkg/scene: the in-memory scene graph the engine parks instances in
//   - pkg/templates: template lookup by path and YAML/JSON manifests
//   - pkg/config: runtime configuration
//   - pkg/logger, pkg/errors, pkg/metrics, pkg/observability: ambient stack
//   - internal/loop: the host update loop (update phase, then late update)
//   - cmd/rime: command line driver running a scripted arena
//
// # Quick Start
//
//	graph := scene.NewGraph(logger)
//	registry := templates.NewRegistry(logger)
//	engine := pool.New(graph.NewNode("Pools"), graph, registry, pool.WithLogger(logger))
//
//	enemy, ok := pool.Take[*Enemy](engine)
//	...
//	pool.Put(engine, enemy)
//
//	runner := loop.New("game", cfg.Loop)
//	runner.OnLateUpdate("pools", func(context.Context, uint64) error {
//		engine.LateUpdate()
//		return nil
//	})
//	runner.Run(ctx)
package rime
