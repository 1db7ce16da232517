package ecs

import "github.com/milk9111/horde/ecs/component"

// World owns entities, component storage, the event queue and the spatial
// adapter. It is driven by a Scheduler.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]store
	events   EventQueue

	physicsWorld *PhysicsWorld

	dt   float64
	tick int
	time float64
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: make(map[component.ComponentID]store)}
}

// DeltaTime is the step length of the tick being simulated, in seconds.
func (w *World) DeltaTime() float64 {
	if w == nil {
		return 0
	}
	return w.dt
}

// Tick is the number of completed scheduler steps.
func (w *World) Tick() int {
	if w == nil {
		return 0
	}
	return w.tick
}

// Time is the simulated time in seconds.
func (w *World) Time() float64 {
	if w == nil {
		return 0
	}
	return w.time
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// SetPhysicsWorld attaches a physics world to this ECS world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

func CreateEntity(w *World) Entity {
	return w.entities.create()
}

// DestroyEntity removes every component of e and retires the handle. It
// returns false if e was already gone.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, s := range w.stores {
		s.remove(e.id())
	}
	if w.physicsWorld != nil {
		w.physicsWorld.Remove(e)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities lists every live entity.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	out := make([]Entity, 0, w.entities.count)
	for id := range w.entities.alive {
		if e, ok := w.entities.current(entityID(id)); ok {
			out = append(out, e)
		}
	}
	return out
}

// EntityCount returns the number of live entities.
func EntityCount(w *World) int {
	if w == nil {
		return 0
	}
	return w.entities.count
}

func storeFor[T any](w *World, kind component.ComponentKind[T], create bool) *sparseSet[T] {
	if w == nil || !kind.Valid() {
		return nil
	}
	if w.stores == nil {
		w.stores = make(map[component.ComponentID]store)
	}
	s, ok := w.stores[kind.ID()]
	if !ok {
		if !create {
			return nil
		}
		set := &sparseSet[T]{}
		w.stores[kind.ID()] = set
		return set
	}
	set, _ := s.(*sparseSet[T])
	return set
}
