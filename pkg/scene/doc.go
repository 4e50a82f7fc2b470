// Package scene is an in-memory scene graph: a tree of named nodes that can be
// enabled, renamed, re-parented and destroyed, and that host behaviors.
//
// The graph is the hierarchy and instantiation service consumed by the
// pooling engine. Nodes are created either bare (Graph.NewNode) or by
// instantiating a Template, which deep-copies the template's node tree and
// attaches the behaviors registered for the kinds it lists.
//
// Behaviors are plain Go types that embed BehaviorBase:
//
//	type Enemy struct {
//		scene.BehaviorBase
//		HP int
//	}
//
//	g := scene.NewGraph(logger)
//	g.RegisterBehavior("Enemy", func() scene.Behavior { return &Enemy{} })
//	n := g.Instantiate(&scene.Template{Name: "Enemy", Behaviors: []string{"Enemy"}})
//	enemy, _ := g.Behavior(n, reflect.TypeOf(&Enemy{}))
//
// A Graph is not safe for concurrent use; it belongs to the update goroutine.
package scene
