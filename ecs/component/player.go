package component

import (
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
)

// Player holds the controllable target's movement and weapons.
type Player struct {
	Locomotion *core.Locomotion
	Arsenal    core.Arsenal

	Radius    float64
	Height    float64
	EyeHeight float64

	Kills int
	Level int
}

var PlayerComponent = NewComponent[Player]()

// Input is one tick of player intent. Move is a world-space horizontal
// direction; Aim is the fire direction.
type Input struct {
	Move  common.Vec3
	Aim   common.Vec3
	Jump  bool
	Dash  bool
	Fire  bool
	Equip int // 1-based, 0 = keep current
	Cycle int
}

var InputComponent = NewComponent[Input]()
