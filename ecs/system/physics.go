package system

import (
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// PhysicsSystem registers new obstacles and colliders with the physics world.
// Movement systems keep registered bodies in place themselves.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (s *PhysicsSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(e ecs.Entity, o *component.Obstacle) {
		if o.Registered {
			return
		}
		pw.AddBox(e, o.Min, o.Max, o.Layer)
		o.Registered = true
	})

	ecs.ForEach2(w, component.ColliderComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, c *component.Collider, t *component.Transform) {
		if c.Registered || ecs.Has(w, e, component.CorpseComponent.Kind()) {
			return
		}
		pw.AddCircle(e, t.Position, c.Radius, c.Height, c.Layer)
		c.Registered = true
	})
}
