package system

import (
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// TTLSystem counts TTL components down in seconds and destroys entities when
// they reach zero.
type TTLSystem struct{}

func NewTTLSystem() *TTLSystem {
	return &TTLSystem{}
}

func (s *TTLSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach(w, component.TTLComponent.Kind(), func(e ecs.Entity, ttl *component.TTL) {
		ttl.Remaining -= dt
		if ttl.Remaining > 0 {
			return
		}
		ecs.DestroyEntity(w, e)
	})
}
