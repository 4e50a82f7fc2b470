package arena

import "github.com/ajitpratap0/rime/pkg/scene"

// Enemy is spawned on a bare node every tick.
type Enemy struct {
	scene.BehaviorBase
	Started bool
}

// OnStart runs once, when the instance is first built
func (e *Enemy) OnStart() { e.Started = true }

// Turret is instantiated from its template.
type Turret struct {
	scene.BehaviorBase
}

// TemplateBacked marks Turret as built from Templates/TypeWell/Turret
func (t *Turret) TemplateBacked() {}

// Bullet is a plain pooled object.
type Bullet struct {
	Fired     int
	Destroyed bool
}

// OnDestroy runs when the bullet pool is cleared
func (b *Bullet) OnDestroy() { b.Destroyed = true }
