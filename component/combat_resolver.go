package component

import (
	"math"
	"math/rand"

	"github.com/milk9111/horde/common"
)

// Shot is one ray of a hitscan attack, kept for tracers.
type Shot struct {
	From common.Vec3
	To   common.Vec3
	Hit  bool
}

// AttackResult reports what a single attack resolution did.
type AttackResult struct {
	Fired  bool
	Kind   AttackKind
	Hits   int
	Damage int
	Shots  []Shot
	// Projectile is set when a projectile attack launched one.
	Projectile *Projectile
}

// CombatResolver executes agent attacks on cooldown.
type CombatResolver struct {
	Emitter *CombatEventEmitter
	// Healths resolves pools behind hitscan hits that are not the agent's
	// target. Optional.
	Healths HealthLookup
	Rand    *rand.Rand

	frame int
}

// NewCombatResolver creates a resolver with its own seeded RNG.
func NewCombatResolver(seed int64) *CombatResolver {
	return &CombatResolver{
		Emitter: &CombatEventEmitter{},
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

// Tick advances internal frame counters (call once per simulation step).
func (r *CombatResolver) Tick() {
	if r == nil {
		return
	}
	r.frame++
}

// Frame returns the number of ticks seen.
func (r *CombatResolver) Frame() int {
	if r == nil {
		return 0
	}
	return r.frame
}

// TryAttack counts the agent's cooldown down by dt and, if it has elapsed
// while the agent is Attacking, resolves one attack and restarts the
// cooldown whether or not anything was hit.
func (r *CombatResolver) TryAttack(a *Agent, target Target, dt float64, q SpatialQuery, sink ProjectileSink) AttackResult {
	var res AttackResult
	if r == nil || a == nil {
		return res
	}
	a.Cooldown.Tick(dt)

	if target == nil || !target.Alive() {
		return res
	}
	if !a.Cooldown.Ready() || a.Engagement.Current != StateAttacking {
		return res
	}

	w := a.Weapon
	res.Kind = w.Kind
	origin := a.MountPosition()
	aimAt := target.Position().Add(common.Up.Scale(a.AimHeight))

	switch w.Kind {
	case AttackMelee:
		res.Fired = true
		if a.Position.Dist(target.Position()) <= a.StopDistance+w.Melee.Buffer {
			if r.damage(a.ID, a.Faction, target.Ref(), target.Health(), target.Faction(), w.Damage, w.Kind, target.Position()) {
				res.Hits++
				res.Damage += w.Damage
			}
		}

	case AttackHitscan:
		res = r.fireHitscan(a, target, origin, aimAt.Sub(origin), q)

	case AttackProjectile:
		if sink == nil {
			return res
		}
		dir := aimAt.Sub(origin).Normalized()
		if dir.IsZero() {
			dir = a.Facing
		}
		p := &Projectile{
			Owner:        a.ID,
			Faction:      a.Faction,
			Position:     origin,
			Velocity:     dir.Scale(w.Projectile.Speed),
			Damage:       w.Damage,
			Radius:       w.Projectile.Radius,
			SplashRadius: w.Projectile.SplashRadius,
			Lifetime:     w.Projectile.Lifetime,
			HitMask:      LayerObstacle | LayerGround | LayerTarget,
			Prefab:       w.Projectile.Prefab,
		}
		sink.LaunchProjectile(p)
		res.Fired = true
		res.Projectile = p
	}

	a.Cooldown.Reset()
	if r.Emitter != nil {
		r.Emitter.Emit(CombatEvent{
			Type:       EventFired,
			AttackerID: a.ID,
			TargetID:   target.Ref(),
			Kind:       w.Kind,
			Damage:     res.Damage,
			Pos:        origin,
		})
	}
	return res
}

func (r *CombatResolver) fireHitscan(a *Agent, target Target, origin, aim common.Vec3, q SpatialQuery) AttackResult {
	w := a.Weapon
	res := AttackResult{Fired: true, Kind: AttackHitscan}

	resolve := func(ref EntityRef) (HealthComponent, Faction, bool) {
		if ref == target.Ref() {
			return target.Health(), target.Faction(), true
		}
		if r.Healths != nil {
			return r.Healths.HealthOf(ref)
		}
		return nil, FactionNeutral, false
	}

	out := FireHitscan(HitscanShot{
		Query:    q,
		Origin:   origin,
		Aim:      aim,
		Spec:     w.Hitscan,
		Damage:   w.Damage,
		Attacker: a.ID,
		Faction:  a.Faction,
		Rand:     r.Rand,
		Resolve:  resolve,
		Emitter:  r.Emitter,
	})
	res.Hits = out.Hits
	res.Damage = out.Damage
	res.Shots = out.Shots
	return res
}

func (r *CombatResolver) damage(attacker EntityRef, attackerFaction Faction, target EntityRef, h HealthComponent, targetFaction Faction, amount int, kind AttackKind, pos common.Vec3) bool {
	if h == nil || !factionCanHit(attackerFaction, targetFaction) {
		return false
	}
	evt := CombatEvent{
		Type:       EventHit,
		AttackerID: attacker,
		TargetID:   target,
		Kind:       kind,
		Damage:     amount,
		Pos:        pos,
	}
	if r.Emitter != nil {
		r.Emitter.Emit(evt)
	}
	return h.ApplyDamage(amount, evt)
}

// HitscanShot describes one hitscan trigger pull, shared by agents and
// player weapons.
type HitscanShot struct {
	Query    SpatialQuery
	Origin   common.Vec3
	Aim      common.Vec3
	Spec     HitscanSpec
	Damage   int
	Attacker EntityRef
	Faction  Faction
	Rand     *rand.Rand
	Resolve  func(ref EntityRef) (HealthComponent, Faction, bool)
	Emitter  *CombatEventEmitter
}

// FireHitscan casts one ray per pellet and applies damage immediately to
// whatever each ray hits first.
func FireHitscan(s HitscanShot) AttackResult {
	res := AttackResult{Fired: true, Kind: AttackHitscan}
	aim := s.Aim.Normalized()
	if aim.IsZero() {
		return res
	}
	pellets := s.Spec.Pellets
	if pellets <= 0 {
		pellets = 1
	}
	reach := s.Spec.Range
	if reach <= 0 {
		reach = 100
	}
	mask := s.Spec.Mask
	if mask == LayerNone {
		mask = LayerObstacle | LayerTarget | LayerAgent
	}

	for i := 0; i < pellets; i++ {
		dir := SpreadDirection(aim, s.Spec.Spread, s.Rand)
		shot := Shot{From: s.Origin, To: s.Origin.Add(dir.Scale(reach))}
		if s.Query == nil {
			res.Shots = append(res.Shots, shot)
			continue
		}
		hit, ok := s.Query.Raycast(s.Origin, dir, reach, mask)
		if !ok {
			res.Shots = append(res.Shots, shot)
			if s.Emitter != nil {
				s.Emitter.Emit(CombatEvent{Type: EventMiss, AttackerID: s.Attacker, Kind: AttackHitscan, Pos: shot.To})
			}
			continue
		}
		shot.To = hit.Point
		shot.Hit = true
		res.Shots = append(res.Shots, shot)

		if s.Resolve == nil || !hit.Entity.Valid() {
			continue
		}
		h, faction, ok := s.Resolve(hit.Entity)
		if !ok || h == nil || !factionCanHit(s.Faction, faction) {
			continue
		}
		evt := CombatEvent{
			Type:       EventHit,
			AttackerID: s.Attacker,
			TargetID:   hit.Entity,
			Kind:       AttackHitscan,
			Damage:     s.Damage,
			Pos:        hit.Point,
		}
		if s.Emitter != nil {
			s.Emitter.Emit(evt)
		}
		if h.ApplyDamage(s.Damage, evt) {
			res.Hits++
			res.Damage += s.Damage
		}
	}
	return res
}

// SpreadDirection jitters dir inside a cone of spreadDeg degrees. A nil rng
// or zero spread returns dir unchanged.
func SpreadDirection(dir common.Vec3, spreadDeg float64, rng *rand.Rand) common.Vec3 {
	if spreadDeg <= 0 || rng == nil {
		return dir
	}
	var p common.Vec3
	for {
		p = common.V3(rng.Float64()*2-1, rng.Float64()*2-1, rng.Float64()*2-1)
		if p.LenSq() <= 1 {
			break
		}
	}
	jitter := p.Scale(tanDeg(spreadDeg))
	out := dir.Add(jitter).Normalized()
	if out.IsZero() {
		return dir
	}
	return out
}

func tanDeg(deg float64) float64 {
	return math.Tan(common.Deg2Rad(deg))
}
