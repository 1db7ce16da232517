package system

import (
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// entityTarget exposes an ECS entity as an agent target. Agents hold it by
// handle; once the entity is destroyed Alive reports false.
type entityTarget struct {
	w *ecs.World
	e ecs.Entity
}

func newEntityTarget(w *ecs.World, e ecs.Entity) *entityTarget {
	return &entityTarget{w: w, e: e}
}

func (t *entityTarget) Ref() core.EntityRef {
	return t.e.Ref()
}

func (t *entityTarget) Position() common.Vec3 {
	return ecsPosition(t.w, t.e)
}

func (t *entityTarget) Health() core.HealthComponent {
	if h, ok := ecs.Get(t.w, t.e, component.HealthComponent.Kind()); ok {
		return h
	}
	return nil
}

func (t *entityTarget) Faction() core.Faction {
	return factionOf(t.w, t.e)
}

func (t *entityTarget) Alive() bool {
	return ecs.IsAlive(t.w, t.e)
}

func factionOf(w *ecs.World, e ecs.Entity) core.Faction {
	if team, ok := ecs.Get(w, e, component.TeamComponent.Kind()); ok {
		return team.Faction
	}
	return core.FactionNeutral
}

// healthLookup resolves hit entities to their pools.
type healthLookup struct {
	w *ecs.World
}

func (h healthLookup) HealthOf(ref core.EntityRef) (core.HealthComponent, core.Faction, bool) {
	e := ecs.FromRef(ref)
	if !ecs.IsAlive(h.w, e) {
		return nil, core.FactionNeutral, false
	}
	pool, ok := ecs.Get(h.w, e, component.HealthComponent.Kind())
	if !ok {
		return nil, core.FactionNeutral, false
	}
	return pool, factionOf(h.w, e), true
}

// positionSnapshot is taken once per tick before any agent moves.
type positionSnapshot map[core.EntityRef]common.Vec3

func snapshotPositions(w *ecs.World) positionSnapshot {
	snap := make(positionSnapshot)
	ecs.ForEach(w, component.TransformComponent.Kind(), func(e ecs.Entity, t *component.Transform) {
		snap[e.Ref()] = t.Position
	})
	return snap
}

func (s positionSnapshot) PositionOf(ref core.EntityRef) (common.Vec3, bool) {
	p, ok := s[ref]
	return p, ok
}

// projectileSink turns launched projectiles into entities.
type projectileSink struct {
	w *ecs.World
}

func (s projectileSink) LaunchProjectile(p *core.Projectile) {
	if p == nil {
		return
	}
	e := ecs.CreateEntity(s.w)
	p.ID = e.Ref()
	_ = ecs.Add(s.w, e, component.ProjectileComponent.Kind(), p)
	_ = ecs.Add(s.w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: p.Position,
		Facing:   p.Velocity.Normalized(),
	})
}

// playerEntity returns the first live player.
func playerEntity(w *ecs.World) (ecs.Entity, bool) {
	return ecs.First(w, component.PlayerTagComponent.Kind())
}

func physicsQuery(w *ecs.World) core.SpatialQuery {
	if pw := w.PhysicsWorld(); pw != nil {
		return pw
	}
	return nil
}

func ecsPosition(w *ecs.World, e ecs.Entity) common.Vec3 {
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		return t.Position
	}
	return common.Zero
}
