package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

const (
	debugCircleSegments = 24
	debugDotSize        = 4
)

// DrawPhysicsDebug outlines every shape in the physics space.
func DrawPhysicsDebug(pw *ecs.PhysicsWorld, screen *ebiten.Image, cam *Camera) {
	if pw == nil || pw.Space() == nil || screen == nil || cam == nil {
		return
	}
	cp.DrawSpace(pw.Space(), &physicsDebugDrawer{screen: screen, cam: cam})
}

// DrawAgentDebug labels each live agent with its state and target distance
// and draws its desired velocity.
func DrawAgentDebug(w *ecs.World, screen *ebiten.Image, cam *Camera) {
	if w == nil || screen == nil || cam == nil {
		return
	}
	ecs.ForEach(w, component.AgentComponent.Kind(), func(_ ecs.Entity, a *core.Agent) {
		if a.Dead() {
			return
		}
		x, y := cam.ToScreen(a.Position)
		if !a.Velocity.IsZero() {
			tx, ty := cam.ToScreen(a.Position.Add(a.Velocity.Flat().Scale(0.5)))
			vector.StrokeLine(screen, x, y, tx, ty, 1, color.RGBA{R: 80, G: 255, B: 80, A: 200}, true)
		}
		label := a.Engagement.Current.String()
		if a.Health != nil {
			label = fmt.Sprintf("%s %d", label, a.Health.CurrentHP())
		}
		ebitenutil.DebugPrintAt(screen, label, int(x)+8, int(y)-8)
	})
}

type physicsDebugDrawer struct {
	screen *ebiten.Image
	cam    *Camera
}

func (d *physicsDebugDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	if radius <= 0 {
		return
	}
	d.drawCircle(pos, radius, outline)
	end := cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}
	d.drawLine(pos, end, outline)
}

func (d *physicsDebugDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, fill)
}

func (d *physicsDebugDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.drawLine(a, b, outline)
	if radius > 0 {
		d.drawCircle(a, radius, outline)
		d.drawCircle(b, radius, outline)
	}
}

func (d *physicsDebugDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count <= 0 {
		return
	}
	d.drawPolygon(verts[:count], outline)
}

func (d *physicsDebugDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	if size <= 0 {
		size = debugDotSize
	}
	x, y := d.toScreen(pos)
	half := float32(size / 2)
	c := toNRGBA(fill)
	vector.StrokeLine(d.screen, x-half, y, x+half, y, 1, c, false)
	vector.StrokeLine(d.screen, x, y-half, x, y+half, 1, c, false)
}

func (d *physicsDebugDrawer) Flags() uint {
	return cp.DRAW_SHAPES
}

func (d *physicsDebugDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	return cp.FColor{R: 0.1, G: 0.6, B: 0.1, A: 0.5}
}

func (d *physicsDebugDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.5, B: 0.1, A: 0.9}
}

func (d *physicsDebugDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.2, B: 0.2, A: 0.9}
}

func (d *physicsDebugDrawer) Data() interface{} {
	return nil
}

func (d *physicsDebugDrawer) drawLine(a, b cp.Vector, c cp.FColor) {
	x1, y1 := d.toScreen(a)
	x2, y2 := d.toScreen(b)
	vector.StrokeLine(d.screen, x1, y1, x2, y2, 1, toNRGBA(c), true)
}

func (d *physicsDebugDrawer) drawPolygon(verts []cp.Vector, c cp.FColor) {
	for i := 0; i < len(verts); i++ {
		d.drawLine(verts[i], verts[(i+1)%len(verts)], c)
	}
}

func (d *physicsDebugDrawer) drawCircle(center cp.Vector, radius float64, c cp.FColor) {
	if radius <= 0 {
		return
	}
	points := make([]cp.Vector, 0, debugCircleSegments)
	for i := 0; i < debugCircleSegments; i++ {
		t := (2 * math.Pi) * (float64(i) / float64(debugCircleSegments))
		points = append(points, cp.Vector{X: center.X + math.Cos(t)*radius, Y: center.Y + math.Sin(t)*radius})
	}
	d.drawPolygon(points, c)
}

// toScreen maps a space point (world X, world Z) through the camera.
func (d *physicsDebugDrawer) toScreen(v cp.Vector) (float32, float32) {
	return d.cam.ToScreen(common.V3(v.X, 0, v.Y))
}

func toNRGBA(c cp.FColor) color.NRGBA {
	return color.NRGBA{
		R: uint8(clamp01(c.R) * 255),
		G: uint8(clamp01(c.G) * 255),
		B: uint8(clamp01(c.B) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
