package component

import (
	"math/rand"

	"github.com/milk9111/horde/common"
)

// PlayerWeapon is one gun the player owns. Ammo <= 0 blocks firing unless
// Infinite is set.
type PlayerWeapon struct {
	Name      string
	Weapon    Weapon
	MaxAmmo   int
	Ammo      int
	Infinite  bool
	Automatic bool

	cooldown Cooldown
}

// NewPlayerWeapon returns a weapon with a full magazine, ready to fire.
func NewPlayerWeapon(name string, w Weapon, maxAmmo int, infinite bool) *PlayerWeapon {
	return &PlayerWeapon{
		Name:     name,
		Weapon:   w,
		MaxAmmo:  maxAmmo,
		Ammo:     maxAmmo,
		Infinite: infinite,
		cooldown: Cooldown{Interval: w.Cooldown},
	}
}

// CanFire reports whether the fire rate and ammo allow a shot now.
func (w *PlayerWeapon) CanFire() bool {
	if w == nil {
		return false
	}
	return w.cooldown.Ready() && (w.Infinite || w.Ammo > 0)
}

// AddAmmo tops up the magazine, clamped to MaxAmmo.
func (w *PlayerWeapon) AddAmmo(n int) {
	if w == nil || n <= 0 {
		return
	}
	w.Ammo = common.ClampInt(w.Ammo+n, 0, w.MaxAmmo)
}

// FireRequest is one trigger pull from the player.
type FireRequest struct {
	Owner   EntityRef
	Faction Faction
	Origin  common.Vec3
	Aim     common.Vec3
	Query   SpatialQuery
	Healths HealthLookup
	Sink    ProjectileSink
	Emitter *CombatEventEmitter
	Rand    *rand.Rand
}

// Arsenal is the player's weapon inventory. Names are unique.
type Arsenal struct {
	weapons []*PlayerWeapon
	current int
}

// Add appends w and equips it. A weapon whose name is already owned is
// ignored and false is returned.
func (a *Arsenal) Add(w *PlayerWeapon) bool {
	if a == nil || w == nil {
		return false
	}
	if a.Find(w.Name) != nil {
		return false
	}
	a.weapons = append(a.weapons, w)
	a.current = len(a.weapons) - 1
	return true
}

// Find returns the owned weapon with the given name, or nil.
func (a *Arsenal) Find(name string) *PlayerWeapon {
	if a == nil {
		return nil
	}
	for _, w := range a.weapons {
		if w.Name == name {
			return w
		}
	}
	return nil
}

// Equip selects the weapon at index. Out-of-range indices are ignored.
func (a *Arsenal) Equip(index int) bool {
	if a == nil || index < 0 || index >= len(a.weapons) {
		return false
	}
	a.current = index
	return true
}

// Cycle moves the selection by step, wrapping around.
func (a *Arsenal) Cycle(step int) {
	if a == nil || len(a.weapons) == 0 {
		return
	}
	n := len(a.weapons)
	a.current = ((a.current+step)%n + n) % n
}

func (a *Arsenal) Current() *PlayerWeapon {
	if a == nil || len(a.weapons) == 0 {
		return nil
	}
	return a.weapons[a.current]
}

func (a *Arsenal) CurrentIndex() int {
	return a.current
}

func (a *Arsenal) Len() int {
	if a == nil {
		return 0
	}
	return len(a.weapons)
}

func (a *Arsenal) Weapons() []*PlayerWeapon {
	if a == nil {
		return nil
	}
	return a.weapons
}

// AddAmmo adds n rounds to the named weapon. Returns false if it is not owned.
func (a *Arsenal) AddAmmo(name string, n int) bool {
	w := a.Find(name)
	if w == nil {
		return false
	}
	w.AddAmmo(n)
	return true
}

// Tick counts every owned weapon's fire-rate timer down. Holstered weapons
// keep cooling.
func (a *Arsenal) Tick(dt float64) {
	if a == nil {
		return
	}
	for _, w := range a.weapons {
		w.cooldown.Tick(dt)
	}
}

// Fire pulls the trigger of the equipped weapon.
func (a *Arsenal) Fire(req FireRequest) AttackResult {
	w := a.Current()
	if !w.CanFire() {
		return AttackResult{}
	}

	var res AttackResult
	spec := w.Weapon
	switch spec.Kind {
	case AttackHitscan:
		res = FireHitscan(HitscanShot{
			Query:    req.Query,
			Origin:   req.Origin,
			Aim:      req.Aim,
			Spec:     spec.Hitscan,
			Damage:   spec.Damage,
			Attacker: req.Owner,
			Faction:  req.Faction,
			Rand:     req.Rand,
			Resolve: func(ref EntityRef) (HealthComponent, Faction, bool) {
				if req.Healths == nil {
					return nil, FactionNeutral, false
				}
				return req.Healths.HealthOf(ref)
			},
			Emitter: req.Emitter,
		})
	case AttackProjectile:
		if req.Sink == nil {
			return AttackResult{}
		}
		dir := req.Aim.Normalized()
		if dir.IsZero() {
			return AttackResult{}
		}
		p := &Projectile{
			Owner:        req.Owner,
			Faction:      req.Faction,
			Prefab:       spec.Projectile.Prefab,
			Position:     req.Origin,
			Velocity:     dir.Scale(spec.Projectile.Speed),
			Damage:       spec.Damage,
			Radius:       spec.Projectile.Radius,
			SplashRadius: spec.Projectile.SplashRadius,
			SplashMask:   LayerAgent,
			Lifetime:     spec.Projectile.Lifetime,
			HitMask:      LayerObstacle | LayerGround | LayerAgent,
		}
		req.Sink.LaunchProjectile(p)
		res = AttackResult{Fired: true, Kind: AttackProjectile, Projectile: p}
	default:
		return AttackResult{}
	}

	w.cooldown.Reset()
	if !w.Infinite {
		w.Ammo = common.ClampInt(w.Ammo-1, 0, w.MaxAmmo)
	}
	if req.Emitter != nil {
		req.Emitter.Emit(CombatEvent{
			Type:       EventFired,
			AttackerID: req.Owner,
			Kind:       spec.Kind,
			Damage:     res.Damage,
			Pos:        req.Origin,
		})
	}
	return res
}
