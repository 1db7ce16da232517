package component

import "github.com/milk9111/horde/common"

// Faction identifies teams for friendly-fire checks.
type Faction int

const (
	FactionNeutral Faction = iota
	FactionPlayer
	FactionEnemy
	FactionEnvironment
)

func (f Faction) String() string {
	switch f {
	case FactionPlayer:
		return "player"
	case FactionEnemy:
		return "enemy"
	case FactionEnvironment:
		return "environment"
	default:
		return "neutral"
	}
}

// CombatEventType defines the kind of combat event.
type CombatEventType string

const (
	EventFired         CombatEventType = "fired"
	EventHit           CombatEventType = "hit"
	EventMiss          CombatEventType = "miss"
	EventDamageApplied CombatEventType = "damage_applied"
	EventDeath         CombatEventType = "death"
	EventHeal          CombatEventType = "heal"
	EventArmor         CombatEventType = "armor"
)

// CombatEvent is emitted during combat resolution.
type CombatEvent struct {
	Type       CombatEventType
	AttackerID EntityRef
	TargetID   EntityRef
	Kind       AttackKind
	Damage     int
	Absorbed   int
	Pos        common.Vec3
}

// CombatEventHandler handles combat events.
type CombatEventHandler func(evt CombatEvent)

// CombatEventEmitter allows components to emit combat events.
type CombatEventEmitter struct {
	Handlers []CombatEventHandler
}

// Subscribe registers a handler.
func (e *CombatEventEmitter) Subscribe(h CombatEventHandler) {
	if e == nil || h == nil {
		return
	}
	e.Handlers = append(e.Handlers, h)
}

// Emit sends a combat event to all handlers.
func (e *CombatEventEmitter) Emit(evt CombatEvent) {
	if e == nil || len(e.Handlers) == 0 {
		return
	}
	for _, h := range e.Handlers {
		if h != nil {
			h(evt)
		}
	}
}

// AttackKind selects how a weapon resolves an attack.
type AttackKind int

const (
	AttackMelee AttackKind = iota
	AttackHitscan
	AttackProjectile
)

func (k AttackKind) String() string {
	switch k {
	case AttackHitscan:
		return "hitscan"
	case AttackProjectile:
		return "projectile"
	default:
		return "melee"
	}
}

// ParseAttackKind maps prefab names to attack kinds.
func ParseAttackKind(s string) (AttackKind, bool) {
	switch s {
	case "melee", "":
		return AttackMelee, true
	case "hitscan":
		return AttackHitscan, true
	case "projectile":
		return AttackProjectile, true
	}
	return AttackMelee, false
}

// MeleeSpec is the payload for AttackMelee.
type MeleeSpec struct {
	// Buffer extends the stop distance for the final reach check.
	Buffer float64
}

// HitscanSpec is the payload for AttackHitscan.
type HitscanSpec struct {
	Range float64
	// Pellets > 1 makes a shotgun-style multi-ray attack.
	Pellets int
	// Spread is the cone half-angle per pellet in degrees.
	Spread float64
	Mask   LayerMask
}

// ProjectileSpec is the payload for AttackProjectile.
type ProjectileSpec struct {
	Speed        float64
	Lifetime     float64
	Radius       float64
	SplashRadius float64
	Prefab       string
}

// Weapon is a tagged variant: Kind selects which payload is meaningful.
type Weapon struct {
	Kind     AttackKind
	Damage   int
	Cooldown float64
	// Mount is the weapon origin relative to the owner's position. A nil
	// mount falls back to the owner's eye height.
	Mount *common.Vec3

	Melee      MeleeSpec
	Hitscan    HitscanSpec
	Projectile ProjectileSpec
}

// Ranged reports whether attacks require line of sight.
func (w Weapon) Ranged() bool {
	return w.Kind == AttackHitscan || w.Kind == AttackProjectile
}

func factionCanHit(attacker Faction, target Faction) bool {
	if attacker == FactionNeutral || target == FactionNeutral {
		return true
	}
	return attacker != target
}
