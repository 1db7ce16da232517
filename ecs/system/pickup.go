package system

import (
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// WeaponFactory builds a fresh player weapon by name.
type WeaponFactory func(name string) (*core.PlayerWeapon, bool)

// PickupSystem pulls pickups toward the player and applies them on contact.
// Pickups that would have no effect neither move nor get consumed.
type PickupSystem struct {
	Weapons WeaponFactory
}

func NewPickupSystem(weapons WeaponFactory) *PickupSystem {
	return &PickupSystem{Weapons: weapons}
}

func (s *PickupSystem) Update(w *ecs.World) {
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
	pt, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return
	}
	pool, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	if pool != nil && !pool.IsAlive() {
		return
	}
	center := pt.Position.Add(common.Up.Scale(player.Height / 2))
	dt := w.DeltaTime()

	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(pe ecs.Entity, pickup *component.Pickup, t *component.Transform) {
		if !s.wanted(pickup, player, pool) {
			return
		}
		dist := t.Position.Dist(center)
		if dist <= pickup.CollectRadius {
			if s.apply(pickup, player, pool) {
				w.Events().Push(ecs.Event{Type: ecs.EventPickupCollected, Entity: pe, Pos: t.Position, Data: *pickup})
				ecs.DestroyEntity(w, pe)
			}
			return
		}
		if dist <= pickup.AttractRange && pickup.AttractSpeed > 0 {
			step := center.Sub(t.Position).Normalized().Scale(pickup.AttractSpeed * dt)
			if step.Len() > dist {
				step = center.Sub(t.Position)
			}
			t.Position = t.Position.Add(step)
		}
	})
}

func (s *PickupSystem) wanted(p *component.Pickup, player *component.Player, pool *core.HealthPool) bool {
	switch p.Kind {
	case component.PickupHealth:
		return pool.NeedsHealth()
	case component.PickupArmor:
		return pool.NeedsArmor()
	case component.PickupAmmo:
		wpn := player.Arsenal.Find(p.Weapon)
		return wpn != nil && !wpn.Infinite && wpn.Ammo < wpn.MaxAmmo
	case component.PickupWeapon:
		return player.Arsenal.Find(p.Weapon) == nil && s.Weapons != nil
	}
	return false
}

func (s *PickupSystem) apply(p *component.Pickup, player *component.Player, pool *core.HealthPool) bool {
	switch p.Kind {
	case component.PickupHealth:
		return pool.Heal(p.Amount)
	case component.PickupArmor:
		return pool.AddArmor(p.Amount)
	case component.PickupAmmo:
		return player.Arsenal.AddAmmo(p.Weapon, p.Amount)
	case component.PickupWeapon:
		wpn, ok := s.Weapons(p.Weapon)
		if !ok {
			return false
		}
		return player.Arsenal.Add(wpn)
	}
	return false
}
