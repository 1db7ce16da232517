// Package render draws the arena top-down with vector shapes.
package render

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

const defaultBodyRadius = 0.5

var (
	colorFloor     = color.RGBA{R: 24, G: 26, B: 30, A: 255}
	colorWall      = color.RGBA{R: 92, G: 96, B: 104, A: 255}
	colorStep      = color.RGBA{R: 58, G: 62, B: 70, A: 255}
	colorJumpPad   = color.RGBA{R: 60, G: 140, B: 220, A: 200}
	colorPlayer    = color.RGBA{R: 235, G: 235, B: 235, A: 255}
	colorCorpse    = color.RGBA{R: 70, G: 40, B: 40, A: 255}
	colorShot      = color.RGBA{R: 255, G: 220, B: 80, A: 255}
	colorPortal    = color.RGBA{R: 170, G: 90, B: 230, A: 255}
	colorSpawner   = color.RGBA{R: 120, G: 40, B: 40, A: 120}
	colorHealth    = color.RGBA{R: 220, G: 60, B: 60, A: 255}
	colorArmor     = color.RGBA{R: 80, G: 160, B: 240, A: 255}
	colorAmmo      = color.RGBA{R: 230, G: 200, B: 90, A: 255}
	colorWeapon    = color.RGBA{R: 120, G: 220, B: 120, A: 255}
	colorAimTarget = color.RGBA{R: 255, G: 255, B: 255, A: 160}
)

// StateColor is the body color of an agent in each engagement state.
func StateColor(s core.EngagementState) color.RGBA {
	switch s {
	case core.StateChasing:
		return color.RGBA{R: 240, G: 150, B: 40, A: 255}
	case core.StateClimbing:
		return color.RGBA{R: 90, G: 120, B: 250, A: 255}
	case core.StateAttacking:
		return color.RGBA{R: 250, G: 50, B: 50, A: 255}
	}
	return color.RGBA{R: 140, G: 140, B: 140, A: 255}
}

func pickupColor(k component.PickupKind) color.RGBA {
	switch k {
	case component.PickupHealth:
		return colorHealth
	case component.PickupArmor:
		return colorArmor
	case component.PickupAmmo:
		return colorAmmo
	}
	return colorWeapon
}

// DrawWorld draws every visible entity. Obstacles are drawn lowest first so
// taller boxes sit on top.
func DrawWorld(w *ecs.World, screen *ebiten.Image, cam *Camera) {
	if w == nil || screen == nil || cam == nil {
		return
	}
	screen.Fill(colorFloor)

	var boxes []*component.Obstacle
	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(_ ecs.Entity, o *component.Obstacle) {
		boxes = append(boxes, o)
	})
	sort.SliceStable(boxes, func(i, j int) bool { return boxes[i].Max.Y < boxes[j].Max.Y })
	for _, o := range boxes {
		drawBox(screen, cam, o)
	}

	ecs.ForEach2(w, component.WaveSpawnerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, s *component.WaveSpawner, t *component.Transform) {
		x, y := cam.ToScreen(t.Position)
		vector.StrokeCircle(screen, x, y, float32(s.Radius*cam.Zoom), 1, colorSpawner, true)
	})
	ecs.ForEach2(w, component.JumpPadComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.JumpPad, t *component.Transform) {
		x, y := cam.ToScreen(t.Position)
		vector.FillCircle(screen, x, y, float32(p.Radius*cam.Zoom), colorJumpPad, true)
	})
	ecs.ForEach2(w, component.PortalComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Portal, t *component.Transform) {
		x, y := cam.ToScreen(t.Position)
		vector.StrokeCircle(screen, x, y, float32(p.Radius*cam.Zoom), 3, colorPortal, true)
	})
	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, p *component.Pickup, t *component.Transform) {
		x, y := cam.ToScreen(t.Position)
		r := float32(0.35 * cam.Zoom)
		vector.FillRect(screen, x-r, y-r, 2*r, 2*r, pickupColor(p.Kind), false)
	})

	ecs.ForEach(w, component.AgentComponent.Kind(), func(e ecs.Entity, a *core.Agent) {
		radius := defaultBodyRadius
		if c, ok := ecs.Get(w, e, component.ColliderComponent.Kind()); ok && c.Radius > 0 {
			radius = c.Radius
		}
		if a.Dead() {
			x, y := cam.ToScreen(a.Position)
			vector.FillCircle(screen, x, y, float32(radius*cam.Zoom), colorCorpse, true)
			return
		}
		drawBody(screen, cam, a.Position, a.Facing, radius, StateColor(a.Engagement.Current))
	})

	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(_ ecs.Entity, p *core.Projectile) {
		x, y := cam.ToScreen(p.Position)
		r := p.Radius
		if r <= 0 {
			r = 0.15
		}
		vector.FillCircle(screen, x, y, float32(r*cam.Zoom), colorShot, true)
	})

	ecs.ForEach3(w, component.PlayerTagComponent.Kind(), component.PlayerComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.PlayerTag, p *component.Player, t *component.Transform) {
		drawBody(screen, cam, t.Position, t.Facing, p.Radius, colorPlayer)
	})
}

func drawBox(screen *ebiten.Image, cam *Camera, o *component.Obstacle) {
	x0, y0 := cam.ToScreen(common.V3(o.Min.X, 0, o.Max.Z))
	x1, y1 := cam.ToScreen(common.V3(o.Max.X, 0, o.Min.Z))
	fill := colorWall
	if o.Max.Y-o.Min.Y < 1 {
		fill = colorStep
	}
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, fill, false)
	vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, color.RGBA{A: 120}, false)
}

// drawBody draws a standing body with a facing tick. Bodies lifted off the
// floor are drawn slightly larger.
func drawBody(screen *ebiten.Image, cam *Camera, pos, facing common.Vec3, radius float64, clr color.RGBA) {
	if radius <= 0 {
		radius = defaultBodyRadius
	}
	r := radius * (1 + 0.1*common.Clamp(pos.Y, 0, 5))
	x, y := cam.ToScreen(pos)
	vector.FillCircle(screen, x, y, float32(r*cam.Zoom), clr, true)
	f := facing.Flat().Normalized()
	if f.IsZero() {
		return
	}
	tx, ty := cam.ToScreen(pos.Add(f.Scale(r * 1.6)))
	vector.StrokeLine(screen, x, y, tx, ty, 2, clr, true)
}

// DrawAimTarget draws a crosshair at a screen position.
func DrawAimTarget(screen *ebiten.Image, x, y float32) {
	const size = 8
	vector.StrokeLine(screen, x-size, y, x+size, y, 1, colorAimTarget, false)
	vector.StrokeLine(screen, x, y-size, x, y+size, 1, colorAimTarget, false)
	vector.StrokeCircle(screen, x, y, size/2, 1, colorAimTarget, true)
}
