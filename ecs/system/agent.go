package system

import (
	"log"
	"math"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// AgentSystem advances every live agent against a position snapshot taken at
// the start of the tick, then writes the new positions back to transforms and
// the physics world.
type AgentSystem struct {
	Resolver *core.CombatResolver
	// FallSpeed is how fast agents drop to the ground when not climbing.
	FallSpeed float64
	// StepHeight is the tallest ledge an agent snaps up onto while walking.
	StepHeight float64
	Debug      bool
}

func NewAgentSystem(resolver *core.CombatResolver) *AgentSystem {
	return &AgentSystem{Resolver: resolver, FallSpeed: 12, StepHeight: 0.4}
}

type agentMove struct {
	e   ecs.Entity
	pos common.Vec3
}

func (s *AgentSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	query := physicsQuery(w)
	healths := healthLookup{w: w}
	if s.Resolver != nil {
		s.Resolver.Healths = healths
		s.Resolver.Tick()
	}

	var target core.Target
	if p, ok := playerEntity(w); ok {
		target = newEntityTarget(w, p)
	}

	env := core.AgentEnv{
		Query:       query,
		Positions:   snapshotPositions(w),
		Projectiles: projectileSink{w: w},
		Resolver:    s.Resolver,
	}

	var moves []agentMove
	ecs.ForEach2(w, component.AgentComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, a *core.Agent, t *component.Transform) {
		if a.Dead() {
			return
		}
		if a.Target() == nil && target != nil {
			a.SetTarget(target)
		}
		tick := a.Advance(dt, env)
		if tick.State != core.StateClimbing {
			a.Position = s.settle(w.PhysicsWorld(), a.Position, dt)
		}
		if tick.Changed && s.Debug {
			log.Printf("[agents] %s %s -> %s", e, a.Engagement.Previous, a.Engagement.Current)
		}
		t.Position = a.Position
		t.Facing = a.Facing
		moves = append(moves, agentMove{e: e, pos: a.Position})
	})

	if pw := w.PhysicsWorld(); pw != nil {
		for _, m := range moves {
			pw.Move(m.e, m.pos)
		}
	}
}

// settle applies gravity toward the surface below pos and lifts the agent
// onto low steps it walked into.
func (s *AgentSystem) settle(pw *ecs.PhysicsWorld, pos common.Vec3, dt float64) common.Vec3 {
	if pw == nil {
		return pos
	}
	ground, ok := pw.GroundBelow(pos.Add(common.Up.Scale(s.StepHeight)), 100)
	if !ok {
		return pos
	}
	switch {
	case pos.Y > ground:
		pos.Y = math.Max(ground, pos.Y-s.FallSpeed*dt)
	case pos.Y < ground:
		pos.Y = ground
	}
	return pos
}
