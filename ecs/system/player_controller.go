package system

import (
	"math/rand"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

const (
	groundSnap   = 0.05
	playerStepUp = 0.5
	padReach     = 0.5
)

// PlayerControllerSystem turns Input into locomotion and weapon fire for the
// player entity.
type PlayerControllerSystem struct {
	Emitter *core.CombatEventEmitter
	Rand    *rand.Rand
}

func NewPlayerControllerSystem(emitter *core.CombatEventEmitter, seed int64) *PlayerControllerSystem {
	return &PlayerControllerSystem{Emitter: emitter, Rand: rand.New(rand.NewSource(seed))}
}

func (s *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	e, ok := playerEntity(w)
	if !ok {
		return
	}
	player, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	if h, ok := ecs.Get(w, e, component.HealthComponent.Kind()); ok && !h.IsAlive() {
		return
	}

	var in component.Input
	if src, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
		in = *src
	}

	dt := w.DeltaTime()
	pw := w.PhysicsWorld()
	loco := player.Locomotion
	if loco == nil {
		loco = core.DefaultLocomotion()
		player.Locomotion = loco
	}

	player.Arsenal.Tick(dt)
	if in.Equip > 0 {
		player.Arsenal.Equip(in.Equip - 1)
	}
	if in.Cycle != 0 {
		player.Arsenal.Cycle(in.Cycle)
	}

	ground, hasGround := groundUnder(pw, t.Position)
	grounded := hasGround && t.Position.Y-ground <= groundSnap && loco.VerticalVelocity() <= 0

	if grounded {
		ecs.ForEach2(w, component.JumpPadComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, pad *component.JumpPad, pt *component.Transform) {
			if !grounded {
				return
			}
			if t.Position.Flat().Dist(pt.Position.Flat()) <= pad.Radius && t.Position.Y-pt.Position.Y <= padReach {
				pad.Pad.Launch(loco)
				grounded = false
			}
		})
	}

	move := loco.Step(core.LocomotionInput{
		Move:     in.Move,
		Jump:     in.Jump,
		Dash:     in.Dash,
		Grounded: grounded,
	}, t.Facing, dt)

	next := t.Position.Add(clipAgainstWalls(pw, t.Position, move.Flat(), player))
	next.Y += move.Y
	if g, ok := groundUnder(pw, next); ok && next.Y < g {
		next.Y = g
		if loco.VerticalVelocity() < 0 {
			loco.SetVerticalVelocity(0)
		}
	}
	t.Position = next

	aim := in.Aim.Normalized()
	if flat := aim.Flat().Normalized(); !flat.IsZero() {
		t.Facing = flat
	} else if flat := in.Move.Flat().Normalized(); !flat.IsZero() {
		t.Facing = flat
	}
	if aim.IsZero() {
		aim = t.Facing
	}

	if in.Fire {
		var query core.SpatialQuery
		if pw != nil {
			query = pw
		}
		player.Arsenal.Fire(core.FireRequest{
			Owner:   e.Ref(),
			Faction: factionOf(w, e),
			Origin:  t.Position.Add(common.Up.Scale(player.EyeHeight)),
			Aim:     aim,
			Query:   query,
			Healths: healthLookup{w: w},
			Sink:    projectileSink{w: w},
			Emitter: s.Emitter,
			Rand:    s.Rand,
		})
	}

	if pw != nil {
		pw.Move(e, t.Position)
	}
}

func groundUnder(pw *ecs.PhysicsWorld, pos common.Vec3) (float64, bool) {
	if pw == nil {
		return 0, true
	}
	return pw.GroundBelow(pos.Add(common.Up.Scale(playerStepUp)), 100)
}

// clipAgainstWalls shortens a horizontal move so the player's radius stops at
// the first obstacle face.
func clipAgainstWalls(pw *ecs.PhysicsWorld, pos, move common.Vec3, player *component.Player) common.Vec3 {
	dist := move.Len()
	if pw == nil || dist <= common.Epsilon {
		return move
	}
	dir := move.Scale(1 / dist)
	origin := pos.Add(common.Up.Scale(playerStepUp + 0.01))
	hit, ok := pw.Raycast(origin, dir, dist+player.Radius, core.LayerObstacle)
	if !ok {
		return move
	}
	allowed := hit.Distance - player.Radius
	if allowed <= 0 {
		return common.Zero
	}
	return dir.Scale(allowed)
}
