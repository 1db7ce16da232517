package common

// Logical screen size of the viewer. The window scales this.
const (
	BaseWidth  = 1280
	BaseHeight = 720
)
