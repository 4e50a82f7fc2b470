// Package pool implements rime's instance-pooling engine. It recycles
// expensive-to-create objects (behaviors hosted on scene nodes, and composite
// nodes instantiated from templates) instead of constructing and destroying
// them every time they are needed.
//
// # Architecture
//
// One Engine hosts two independent pool families:
//
//   - Type-keyed pools, indexed by a Go type: Take[T], Put[T], Clear[T]
//   - Name-keyed pools, indexed by a template name: TakeNamed, PutNamed, ClearNamed
//
// Every pool keeps a FIFO queue of available instances and a set of
// checked-out instances; an instance is always in exactly one of them.
// Node-backed instances are grouped under one container node per pool, below
// the TypeWell or NameWell node of the engine root:
//
//	Pools
//	├── TypeWell
//	│   └── Enemy          (container of the *Enemy pool)
//	│       ├── Enemy#12   (enabled: checked out)
//	│       └── Enemy#13   (disabled: available)
//	└── NameWell
//	    └── Coin
//	        └── Coin(Clone)#20|RIME|Coin
//
// Clearing a pool removes it immediately but destroys its container node
// later: the node is queued for deferred reclamation, drained by LateUpdate at
// the end of every host tick.
//
// # Usage
//
//	engine := pool.New(root, graph, registry, pool.WithLogger(logger))
//
//	enemy, ok := pool.Take[*Enemy](engine)
//	if !ok {
//		return // template missing, already logged
//	}
//	defer pool.Put(engine, enemy)
//
//	coin, _ := engine.TakeNamed("Coin")
//	engine.PutNamed(coin)
//
//	pool.Clear[*Enemy](engine) // also clears pools of types embedding Enemy
//	engine.LateUpdate()        // once per tick, after every other update
//
// # Capabilities
//
// Instance types opt into lifecycle hooks by implementing Creatable,
// Startable or Destroyable. Behavior types that should be instantiated from
// the template at Templates/TypeWell/<TypeName> implement TemplateBacked.
//
// # Concurrency
//
// An Engine is not safe for concurrent use. All calls are expected from the
// goroutine that drives the host update loop.
package pool
