package component

import "github.com/milk9111/horde/common"

// Projectile travels in a straight line and applies its damage on its own
// collision, independently of whoever fired it.
type Projectile struct {
	ID      EntityRef
	Owner   EntityRef
	Faction Faction
	Prefab  string

	Position common.Vec3
	Velocity common.Vec3

	Damage int
	// Radius > 0 sweeps a sphere instead of a ray.
	Radius float64
	// SplashRadius > 0 damages everything damageable around the impact.
	SplashRadius float64
	SplashMask   LayerMask
	Lifetime     float64
	HitMask      LayerMask

	Expired bool
}

// Impact describes how a projectile ended.
type Impact struct {
	Hit     bool
	Point   common.Vec3
	Normal  common.Vec3
	Entity  EntityRef
	Damaged []EntityRef
	Damage  int
}

// Step moves the projectile by dt, sweeping its path for hits. It returns a
// non-nil Impact on the tick it collides.
func (p *Projectile) Step(dt float64, q SpatialQuery, healths HealthLookup, emitter *CombatEventEmitter) *Impact {
	if p == nil || p.Expired || dt <= 0 {
		return nil
	}

	travel := p.Velocity.Scale(dt)
	dist := travel.Len()
	if q != nil && dist > common.Epsilon {
		dir := travel.Scale(1 / dist)
		var hit Hit
		var ok bool
		if p.Radius > 0 {
			hit, ok = q.SphereCast(p.Position, p.Radius, dir, dist, p.HitMask)
		} else {
			hit, ok = q.Raycast(p.Position, dir, dist, p.HitMask)
		}
		if ok && hit.Entity != p.Owner {
			p.Position = hit.Point
			p.Expired = true
			return p.explode(hit, q, healths, emitter)
		}
	}

	p.Position = p.Position.Add(travel)
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		p.Expired = true
	}
	return nil
}

func (p *Projectile) explode(hit Hit, q SpatialQuery, healths HealthLookup, emitter *CombatEventEmitter) *Impact {
	imp := &Impact{Hit: true, Point: hit.Point, Normal: hit.Normal, Entity: hit.Entity}
	if healths == nil {
		return imp
	}

	victims := []EntityRef{hit.Entity}
	if p.SplashRadius > 0 && q != nil {
		mask := p.SplashMask
		if mask == LayerNone {
			mask = LayerAgent | LayerTarget
		}
		victims = q.OverlapSphere(hit.Point, p.SplashRadius, mask)
	}

	for _, ref := range victims {
		if !ref.Valid() || ref == p.Owner {
			continue
		}
		h, faction, ok := healths.HealthOf(ref)
		if !ok || h == nil || !factionCanHit(p.Faction, faction) {
			continue
		}
		evt := CombatEvent{
			Type:       EventHit,
			AttackerID: p.Owner,
			TargetID:   ref,
			Kind:       AttackProjectile,
			Damage:     p.Damage,
			Pos:        hit.Point,
		}
		if emitter != nil {
			emitter.Emit(evt)
		}
		if h.ApplyDamage(p.Damage, evt) {
			imp.Damaged = append(imp.Damaged, ref)
			imp.Damage += p.Damage
		}
	}
	return imp
}
