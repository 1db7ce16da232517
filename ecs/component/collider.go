package component

import (
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
)

// Collider is an upright cylinder registered with the physics world.
type Collider struct {
	Radius float64
	Height float64
	Layer  core.LayerMask

	Registered bool
}

var ColliderComponent = NewComponent[Collider]()

// Obstacle is static box geometry. Obstacles tagged with LayerGround can be
// stood on and spawned on.
type Obstacle struct {
	Min   common.Vec3
	Max   common.Vec3
	Layer core.LayerMask

	Registered bool
}

var ObstacleComponent = NewComponent[Obstacle]()
