package system

import (
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// ProjectileSystem sweeps every projectile along its path and destroys it on
// impact or when its lifetime runs out.
type ProjectileSystem struct {
	Emitter *core.CombatEventEmitter
}

func NewProjectileSystem(emitter *core.CombatEventEmitter) *ProjectileSystem {
	return &ProjectileSystem{Emitter: emitter}
}

func (s *ProjectileSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	query := physicsQuery(w)
	healths := healthLookup{w: w}

	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(e ecs.Entity, p *core.Projectile) {
		p.Step(dt, query, healths, s.Emitter)
		if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			t.Position = p.Position
		}
		if p.Expired {
			ecs.DestroyEntity(w, e)
		}
	})
}
