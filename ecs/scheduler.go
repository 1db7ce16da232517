package ecs

// System updates a world each tick. Systems read the step length from
// World.DeltaTime.
type System interface {
	Update(w *World)
}

// Scheduler runs systems in a fixed order.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	copied := append([]System(nil), systems...)
	return &Scheduler{systems: copied}
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system once with the world's current step length.
func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Step advances the world by dt: it runs all systems, then discards the
// step's events.
func (s *Scheduler) Step(w *World, dt float64) {
	if s == nil || w == nil {
		return
	}
	w.dt = dt
	s.Update(w)
	w.tick++
	w.time += dt
	w.events.flush()
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
