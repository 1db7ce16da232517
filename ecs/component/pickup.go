package component

type PickupKind string

const (
	PickupHealth PickupKind = "health"
	PickupArmor  PickupKind = "armor"
	PickupAmmo   PickupKind = "ammo"
	PickupWeapon PickupKind = "weapon"
)

// Pickup drifts toward the player inside AttractRange and is consumed within
// CollectRadius. Health and armor pickups only move while they would have an
// effect.
type Pickup struct {
	Kind   PickupKind
	Amount int
	// Weapon names the gun an ammo pickup refills or a weapon pickup grants.
	Weapon string

	AttractRange  float64
	AttractSpeed  float64
	CollectRadius float64
}

var PickupComponent = NewComponent[Pickup]()
