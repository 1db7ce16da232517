package component

import "github.com/milk9111/horde/common"

// Agent is an AI-controlled combatant. All archetypes share this type; the
// Weapon variant is the only behavioral difference between them.
type Agent struct {
	ID      EntityRef
	Name    string
	Faction Faction

	Position common.Vec3
	Facing   common.Vec3
	// Velocity is the displacement of the last tick divided by dt.
	Velocity common.Vec3

	Speed        float64
	StopDistance float64
	// EyeHeight lifts cast origins off the ground.
	EyeHeight float64
	// AimHeight is added to the target position when aiming.
	AimHeight float64

	ClimbCheckDistance float64
	ClimbSpeed         float64
	ClimbThreshold     float64

	NeighborMask LayerMask
	VisionMask   LayerMask

	Steering   Steering
	Engagement Engagement
	Weapon     Weapon
	Cooldown   Cooldown
	Health     *HealthPool

	target        Target
	deaths        DeathListener
	deathNotified bool
}

// AgentEnv is what an agent reads from the host each tick.
type AgentEnv struct {
	Query       SpatialQuery
	Positions   PositionLookup
	Projectiles ProjectileSink
	Resolver    *CombatResolver
}

// AgentTick reports what one Advance call did.
type AgentTick struct {
	State    EngagementState
	Changed  bool
	Move     common.Vec3
	Steering SteeringResult
	Attack   AttackResult
}

// NewAgent builds an agent around a health pool and wires its death hook.
func NewAgent(id EntityRef, name string, health *HealthPool, weapon Weapon) *Agent {
	if health == nil {
		health = NewHealthPool(100, 0)
	}
	a := &Agent{
		ID:                 id,
		Name:               name,
		Faction:            FactionEnemy,
		Facing:             common.Forward,
		Speed:              3,
		StopDistance:       10,
		EyeHeight:          0.5,
		AimHeight:          0.5,
		ClimbCheckDistance: 1.2,
		ClimbSpeed:         3,
		ClimbThreshold:     0.5,
		NeighborMask:       LayerAgent,
		VisionMask:         LayerObstacle | LayerTarget,
		Steering:           DefaultSteering(),
		Weapon:             weapon,
		Cooldown:           NewCooldown(weapon.Cooldown),
		Health:             health,
	}
	prev := health.OnDeath
	health.OnDeath = func(h *HealthPool, evt CombatEvent) {
		if prev != nil {
			prev(h, evt)
		}
		a.die()
	}
	return a
}

// SetTarget assigns the target reference. Assigning nil drops back to Idle
// on the next tick.
func (a *Agent) SetTarget(t Target) {
	if a == nil || a.deathNotified {
		return
	}
	a.target = t
}

// Target returns the current target, or nil if it is gone.
func (a *Agent) Target() Target {
	if a == nil || a.target == nil || !a.target.Alive() {
		return nil
	}
	return a.target
}

// SetDeathListener registers the sink notified when this agent dies.
func (a *Agent) SetDeathListener(l DeathListener) {
	if a == nil {
		return
	}
	a.deaths = l
}

// Dead reports whether the agent's death has been processed.
func (a *Agent) Dead() bool {
	return a == nil || a.deathNotified
}

// MountPosition is where the weapon fires from.
func (a *Agent) MountPosition() common.Vec3 {
	if a.Weapon.Mount != nil {
		return a.Position.Add(*a.Weapon.Mount)
	}
	return a.eye()
}

func (a *Agent) eye() common.Vec3 {
	return a.Position.Add(common.Up.Scale(a.EyeHeight))
}

// die runs once. It drops the target reference before notifying so nothing
// downstream can reach the target through a dead agent.
func (a *Agent) die() {
	if a.deathNotified {
		return
	}
	a.deathNotified = true
	a.target = nil
	a.Velocity = common.Zero
	a.Engagement.Previous = a.Engagement.Current
	a.Engagement.Current = StateIdle
	if a.deaths != nil {
		a.deaths.OnAgentDied(a)
	}
}

// Advance runs one simulation step: engagement, movement and combat.
func (a *Agent) Advance(dt float64, env AgentEnv) AgentTick {
	var tick AgentTick
	if a == nil || a.deathNotified {
		return tick
	}

	target := a.Target()
	if target == nil {
		tick.Changed = a.Engagement.Update(EngagementInput{}, dt)
		a.Velocity = common.Zero
		a.Cooldown.Tick(dt)
		return tick
	}

	tpos := target.Position()
	dist := a.Position.Dist(tpos)
	seek := Seek(a.Position, tpos)
	eye := a.eye()

	in := EngagementInput{
		HasTarget:      true,
		Distance:       dist,
		StopDistance:   a.StopDistance,
		Ranged:         a.Weapon.Ranged(),
		ClimbHit:       ClimbProbe(env.Query, eye, seek, a.ClimbCheckDistance, a.Steering.ObstacleMask),
		VerticalDelta:  tpos.Y - a.Position.Y,
		ClimbThreshold: a.ClimbThreshold,
	}
	if in.Ranged && dist <= a.StopDistance {
		aim := tpos.Add(common.Up.Scale(a.AimHeight))
		in.LineOfSight = LineOfSight(env.Query, a.MountPosition(), aim, a.VisionMask, target.Ref())
	}
	tick.Changed = a.Engagement.Update(in, dt)
	tick.State = a.Engagement.Current

	switch tick.State {
	case StateClimbing:
		tick.Move = common.Up.Add(seek).Normalized().Scale(a.ClimbSpeed * dt)
	case StateChasing:
		tick.Steering = a.Steering.Step(SteeringInput{
			Position:   a.Position,
			Target:     tpos,
			HasTarget:  true,
			Neighbors:  a.neighbors(env),
			CastOrigin: eye,
			Query:      env.Query,
		}, dt)
		tick.Move = tick.Steering.Direction.Scale(a.Speed * dt)
	}

	a.Position = a.Position.Add(tick.Move)
	if dt > 0 {
		a.Velocity = tick.Move.Scale(1 / dt)
	}
	if !seek.IsZero() {
		a.Facing = seek
	}

	if env.Resolver != nil {
		tick.Attack = env.Resolver.TryAttack(a, target, dt, env.Query, env.Projectiles)
	} else {
		a.Cooldown.Tick(dt)
	}
	return tick
}

func (a *Agent) neighbors(env AgentEnv) []common.Vec3 {
	if env.Query == nil || env.Positions == nil || a.Steering.SeparationRadius <= 0 {
		return nil
	}
	refs := env.Query.OverlapSphere(a.Position, a.Steering.SeparationRadius, a.NeighborMask)
	out := make([]common.Vec3, 0, len(refs))
	for _, ref := range refs {
		if ref == a.ID {
			continue
		}
		if p, ok := env.Positions.PositionOf(ref); ok {
			out = append(out, p)
		}
	}
	return out
}
