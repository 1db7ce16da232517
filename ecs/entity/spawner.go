package entity

import (
	"log"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// Spawner creates prefab entities in a world on behalf of the simulation.
type Spawner struct {
	w *ecs.World
	b *Builder
}

func NewSpawner(w *ecs.World, b *Builder) *Spawner {
	return &Spawner{w: w, b: b}
}

// Spawn builds prefab at pos. Failures are logged and reported as NoEntity.
func (s *Spawner) Spawn(prefab string, pos, facing common.Vec3) core.EntityRef {
	e, err := s.b.Build(s.w, prefab, pos, facing)
	if err != nil {
		log.Printf("[spawner] %v", err)
		return core.NoEntity
	}
	return e.Ref()
}

// Destroy removes ref now, or after afterDelay seconds.
func (s *Spawner) Destroy(ref core.EntityRef, afterDelay float64) {
	e := ecs.FromRef(ref)
	if !ecs.IsAlive(s.w, e) {
		return
	}
	if afterDelay <= 0 {
		ecs.DestroyEntity(s.w, e)
		return
	}
	_ = ecs.Add(s.w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: afterDelay})
}
