package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/prefabs"
)

type buildContext struct {
	PrefabPath string
	Name       string
	Weapons    prefabs.WeaponCatalog
	Deaths     core.DeathListener
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag": addPlayerTag,
	"ai_tag":     addAITag,
	"team":       addTeam,
	"transform":  addTransform,
	"health":     addHealth,
	"collider":   addCollider,
	"agent":      addAgent,
	"player":     addPlayer,
	"input":      addInput,
	"pickup":     addPickup,
	"ttl":        addTTL,
}

// Agents read health and team, so those are built first.
var componentBuildOrder = []string{
	"player_tag",
	"ai_tag",
	"team",
	"transform",
	"health",
	"collider",
	"agent",
	"player",
	"input",
	"pickup",
	"ttl",
}

// Builder turns prefab files into entities.
type Builder struct {
	Weapons prefabs.WeaponCatalog
	// Deaths is attached to every agent built.
	Deaths core.DeathListener
}

// Build creates the prefab's entity at pos, facing facing. A zero facing
// keeps the prefab's own.
func (b *Builder) Build(w *ecs.World, prefabPath string, pos, facing common.Vec3) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Name: spec.Name}
	if b != nil {
		ctx.Weapons = b.Weapons
		ctx.Deaths = b.Deaths
	}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for components %v", prefabPath, names)
	}

	_ = ecs.Add(w, e, component.ArchetypeComponent.Kind(), &component.Archetype{Name: spec.Name})
	place(w, e, pos, facing)
	return e, nil
}

// place moves a freshly built entity, keeping the agent's own position in
// step with its transform.
func place(w *ecs.World, e ecs.Entity, pos, facing common.Vec3) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{Facing: common.Forward}
		_ = ecs.Add(w, e, component.TransformComponent.Kind(), t)
	}
	t.Position = pos
	if f := facing.Flat().Normalized(); !f.IsZero() {
		t.Facing = f
	}
	if a, ok := ecs.Get(w, e, component.AgentComponent.Kind()); ok {
		a.Position = t.Position
		a.Facing = t.Facing
	}
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addAITag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.AITagComponent.Kind(), &component.AITag{})
}

func addTeam(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TeamComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode team spec: %w", err)
	}
	faction, err := prefabs.ParseFaction(spec.Faction)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.TeamComponent.Kind(), &component.Team{Faction: faction})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	facing := spec.Facing.Vec3().Flat().Normalized()
	if facing.IsZero() {
		facing = common.Forward
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		Position: spec.Position.Vec3(),
		Facing:   facing,
	})
}

func addHealth(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.HealthComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode health spec: %w", err)
	}
	pool := core.NewHealthPool(spec.MaxHealth, spec.MaxArmor)
	pool.AddArmor(spec.Armor)
	return ecs.Add(w, e, component.HealthComponent.Kind(), pool)
}

func addCollider(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ColliderComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode collider spec: %w", err)
	}
	layer, err := prefabs.ParseLayers(spec.Layers)
	if err != nil {
		return err
	}
	if spec.Radius <= 0 || spec.Height <= 0 {
		return fmt.Errorf("collider needs a positive radius and height")
	}
	return ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{
		Radius: spec.Radius,
		Height: spec.Height,
		Layer:  layer,
	})
}

func addAgent(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AgentComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode agent spec: %w", err)
	}
	pool, ok := ecs.Get(w, e, component.HealthComponent.Kind())
	if !ok {
		return fmt.Errorf("agent requires health on the same entity")
	}
	weapon, err := spec.Weapon.Weapon()
	if err != nil {
		return err
	}

	a := core.NewAgent(e.Ref(), ctx.Name, pool, weapon)
	if team, ok := ecs.Get(w, e, component.TeamComponent.Kind()); ok {
		a.Faction = team.Faction
	}
	if spec.Speed > 0 {
		a.Speed = spec.Speed
	}
	if spec.StopDistance > 0 {
		a.StopDistance = spec.StopDistance
	}
	setFloat(&a.EyeHeight, spec.EyeHeight)
	setFloat(&a.AimHeight, spec.AimHeight)
	setFloat(&a.ClimbCheckDistance, spec.ClimbCheckDistance)
	setFloat(&a.ClimbSpeed, spec.ClimbSpeed)
	setFloat(&a.ClimbThreshold, spec.ClimbThreshold)
	if len(spec.VisionMask) > 0 {
		mask, err := prefabs.ParseLayers(spec.VisionMask)
		if err != nil {
			return err
		}
		a.VisionMask = mask
	}

	st := spec.Steering
	setFloat(&a.Steering.SeparationRadius, st.SeparationRadius)
	setFloat(&a.Steering.SeparationStrength, st.SeparationStrength)
	setFloat(&a.Steering.WobbleAmount, st.WobbleAmount)
	setFloat(&a.Steering.WobbleSpeed, st.WobbleSpeed)
	setFloat(&a.Steering.AvoidDistance, st.AvoidDistance)
	setFloat(&a.Steering.AvoidStrength, st.AvoidStrength)
	setFloat(&a.Steering.SphereRadius, st.SphereRadius)
	setFloat(&a.Steering.SideCastAngle, st.SideCastAngle)
	if st.SideCasts != nil {
		a.Steering.SideCasts = *st.SideCasts
	}

	if ctx.Deaths != nil {
		a.SetDeathListener(ctx.Deaths)
	}
	return ecs.Add(w, e, component.AgentComponent.Kind(), a)
}

func addPlayer(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode player spec: %w", err)
	}
	loco := core.DefaultLocomotion()
	setPositive(&loco.MoveSpeed, spec.MoveSpeed)
	setPositive(&loco.JumpForce, spec.JumpForce)
	setPositive(&loco.AirControl, spec.AirControl)
	setPositive(&loco.CoyoteTime, spec.CoyoteTime)
	setPositive(&loco.DashSpeed, spec.DashSpeed)
	setPositive(&loco.DashDuration, spec.DashDuration)
	setPositive(&loco.DoubleJump.Force, spec.DoubleJump)
	if spec.Gravity < 0 {
		loco.Gravity = spec.Gravity
	}
	if spec.DashCooldown > 0 {
		loco.DashCooldown = core.NewCooldown(spec.DashCooldown)
	}

	p := &component.Player{
		Locomotion: loco,
		Radius:     0.5,
		Height:     2,
		EyeHeight:  1.6,
	}
	setPositive(&p.Radius, spec.Radius)
	setPositive(&p.Height, spec.Height)
	setPositive(&p.EyeHeight, spec.EyeHeight)

	for _, name := range spec.Weapons {
		if ctx.Weapons == nil {
			return fmt.Errorf("player weapon %q needs a weapon catalog", name)
		}
		wpn, err := ctx.Weapons.PlayerWeapon(name)
		if err != nil {
			return err
		}
		p.Arsenal.Add(wpn)
	}
	p.Arsenal.Equip(0)
	return ecs.Add(w, e, component.PlayerComponent.Kind(), p)
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addPickup(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PickupComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode pickup spec: %w", err)
	}
	kind := component.PickupKind(spec.Kind)
	switch kind {
	case component.PickupHealth, component.PickupArmor, component.PickupAmmo, component.PickupWeapon:
	default:
		return fmt.Errorf("unknown pickup kind %q", spec.Kind)
	}
	return ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{
		Kind:          kind,
		Amount:        spec.Amount,
		Weapon:        spec.Weapon,
		AttractRange:  spec.AttractRange,
		AttractSpeed:  spec.AttractSpeed,
		CollectRadius: spec.CollectRadius,
	})
}

func addTTL(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TTLComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode ttl spec: %w", err)
	}
	return ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: spec.Seconds})
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setPositive(dst *float64, v float64) {
	if v > 0 {
		*dst = v
	}
}
