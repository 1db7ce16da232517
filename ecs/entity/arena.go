package entity

import (
	"fmt"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/prefabs"
)

// Arena is what LoadArena placed in the world.
type Arena struct {
	Name     string
	Player   ecs.Entity
	Spawners []ecs.Entity
	Timer    ecs.Entity
	Boxes    []ecs.Entity
}

// LoadArena builds the arena's static geometry, player, spawners, pickups and
// timer. The world must already have a physics world attached.
func LoadArena(w *ecs.World, spec *prefabs.ArenaSpec, b *Builder) (*Arena, error) {
	if w == nil || spec == nil {
		return nil, fmt.Errorf("load arena: missing world or spec")
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		return nil, fmt.Errorf("load arena %q: world has no physics", spec.Name)
	}
	pw.SetGroundPlane(spec.Ground.Enabled, spec.Ground.Y)

	arena := &Arena{Name: spec.Name}
	for _, box := range spec.Boxes {
		layer := core.LayerObstacle
		if box.Walkable {
			layer |= core.LayerGround
		}
		e := ecs.CreateEntity(w)
		_ = ecs.Add(w, e, component.ObstacleComponent.Kind(), &component.Obstacle{
			Min:   box.Min.Vec3(),
			Max:   box.Max.Vec3(),
			Layer: layer,
		})
		arena.Boxes = append(arena.Boxes, e)
	}

	for _, pad := range spec.JumpPads {
		e := ecs.CreateEntity(w)
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: pad.Position.Vec3(), Facing: common.Forward})
		_ = ecs.Add(w, e, component.JumpPadComponent.Kind(), &component.JumpPad{
			Pad:    core.JumpPad{Force: pad.Force},
			Radius: pad.Radius,
		})
	}

	player, err := b.Build(w, spec.Player.Prefab, spec.Player.Position.Vec3(), spec.Player.Facing.Vec3())
	if err != nil {
		return nil, fmt.Errorf("load arena %q: %w", spec.Name, err)
	}
	arena.Player = player

	for _, sp := range spec.Spawners {
		e := ecs.CreateEntity(w)
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: sp.Portal.Vec3(), Facing: common.Forward})
		_ = ecs.Add(w, e, component.WaveSpawnerComponent.Kind(), &component.WaveSpawner{
			Center:      sp.Center.Vec3(),
			Radius:      sp.Radius,
			Count:       sp.Count,
			Delay:       sp.Delay,
			MinSpacing:  sp.MinSpacing,
			SpawnHeight: sp.SpawnHeight,
			Archetypes:  append([]string(nil), sp.Archetypes...),
			Active:      sp.AutoStart,
		})
		arena.Spawners = append(arena.Spawners, e)
	}

	for _, p := range spec.Pickups {
		if _, err := b.Build(w, p.Prefab, p.Position.Vec3(), p.Facing.Vec3()); err != nil {
			return nil, fmt.Errorf("load arena %q: %w", spec.Name, err)
		}
	}

	arena.Timer = ecs.CreateEntity(w)
	_ = ecs.Add(w, arena.Timer, component.GameTimerComponent.Kind(), &component.GameTimer{
		Duration:  spec.Timer.Minutes * 60,
		CountDown: spec.Timer.CountDown,
		Running:   true,
	})
	return arena, nil
}
