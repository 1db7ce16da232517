package component

import "github.com/milk9111/horde/common"

// Transform places an entity. Position is the entity's base (feet); Facing
// is a horizontal unit vector.
type Transform struct {
	Position common.Vec3
	Facing   common.Vec3
}

var TransformComponent = NewComponent[Transform]()
