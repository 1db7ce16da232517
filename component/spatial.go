package component

import "github.com/milk9111/horde/common"

// EntityRef is an opaque handle to a host entity. Zero means no entity.
type EntityRef uint64

const NoEntity EntityRef = 0

func (r EntityRef) Valid() bool {
	return r != NoEntity
}

// LayerMask selects which layers a spatial query considers.
type LayerMask uint32

const (
	LayerObstacle LayerMask = 1 << iota
	LayerGround
	LayerAgent
	LayerTarget
	LayerProjectile
	LayerPickup

	LayerNone LayerMask = 0
	LayerAll  LayerMask = ^LayerMask(0)
)

// Has reports whether any bit of o is set in m.
func (m LayerMask) Has(o LayerMask) bool {
	return m&o != 0
}

// Hit describes the first surface a cast touched.
type Hit struct {
	Point    common.Vec3
	Normal   common.Vec3
	Distance float64
	Entity   EntityRef
	Layer    LayerMask
}

// SpatialQuery is the world-query surface the steering and combat logic
// needs from a host physics engine.
type SpatialQuery interface {
	Raycast(origin, dir common.Vec3, maxDist float64, mask LayerMask) (Hit, bool)
	SphereCast(origin common.Vec3, radius float64, dir common.Vec3, maxDist float64, mask LayerMask) (Hit, bool)
	OverlapSphere(center common.Vec3, radius float64, mask LayerMask) []EntityRef
}

// PositionLookup resolves an entity's position from the current tick's
// snapshot.
type PositionLookup interface {
	PositionOf(ref EntityRef) (common.Vec3, bool)
}

// HealthLookup resolves the health pool behind an entity, if it has one.
type HealthLookup interface {
	HealthOf(ref EntityRef) (HealthComponent, Faction, bool)
}

// Spawner creates and destroys host entities.
type Spawner interface {
	Spawn(prefab string, pos common.Vec3, facing common.Vec3) EntityRef
	Destroy(ref EntityRef, afterDelay float64)
}
