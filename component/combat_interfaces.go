package component

import "github.com/milk9111/horde/common"

// HealthComponent exposes health operations for combat systems.
type HealthComponent interface {
	IsAlive() bool
	ApplyDamage(amount int, evt CombatEvent) bool
	Heal(amount int) bool
	AddArmor(amount int) bool
	CurrentHP() int
	MaxHP() int
	CurrentArmor() int
	MaxArmorValue() int
}

// Target is what agents pursue. Agents hold it by reference, never own it.
type Target interface {
	Ref() EntityRef
	Position() common.Vec3
	Health() HealthComponent
	Faction() Faction
	// Alive reports whether the target handle still points at a live entity.
	Alive() bool
}

// DeathListener is notified once when an agent dies.
type DeathListener interface {
	OnAgentDied(a *Agent)
}

// DeathListenerFunc adapts a function to DeathListener.
type DeathListenerFunc func(a *Agent)

func (f DeathListenerFunc) OnAgentDied(a *Agent) {
	if f != nil {
		f(a)
	}
}

// ProjectileSink receives projectiles fired by agents and players.
type ProjectileSink interface {
	LaunchProjectile(p *Projectile)
}

// VerticalVelocityController is the capability jump pads and double jumps use
// to drive an entity's vertical speed.
type VerticalVelocityController interface {
	VerticalVelocity() float64
	SetVerticalVelocity(v float64)
}
