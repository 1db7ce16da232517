package render

import (
	"github.com/milk9111/horde/common"
)

// Camera maps the arena floor (world XZ) onto the screen, north up.
type Camera struct {
	Center common.Vec3
	// Zoom is pixels per world unit.
	Zoom          float64
	Width, Height float64
}

func NewCamera(width, height, zoom float64) *Camera {
	if zoom <= 0 {
		zoom = 1
	}
	return &Camera{Zoom: zoom, Width: width, Height: height}
}

// Follow moves the camera a fraction of the way toward target.
func (c *Camera) Follow(target common.Vec3, smoothing float64) {
	if smoothing <= 0 || smoothing >= 1 {
		c.Center = target.Flat()
		return
	}
	c.Center = c.Center.Lerp(target.Flat(), smoothing)
}

func (c *Camera) ToScreen(p common.Vec3) (float32, float32) {
	x := (p.X-c.Center.X)*c.Zoom + c.Width/2
	y := (c.Center.Z-p.Z)*c.Zoom + c.Height/2
	return float32(x), float32(y)
}

// ToWorld returns the floor point under a screen position.
func (c *Camera) ToWorld(sx, sy float64) common.Vec3 {
	return common.V3(
		(sx-c.Width/2)/c.Zoom+c.Center.X,
		0,
		c.Center.Z-(sy-c.Height/2)/c.Zoom,
	)
}
