package component

import core "github.com/milk9111/horde/component"

type JumpPad struct {
	Pad    core.JumpPad
	Radius float64
}

var JumpPadComponent = NewComponent[JumpPad]()
