package ecs

import (
	"log"
	"math"
	"sort"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
)

// PhysicsWorld is the spatial query adapter over a Chipmunk space. The
// ground plane (world XZ) maps onto the 2D space; every shape carries a
// vertical extent so casts can pass over or under it.
type PhysicsWorld struct {
	space *cp.Space

	shapeToEntity map[*cp.Shape]*shapeInfo
	bodies        map[Entity]*physicsBody

	groundPlane bool
	groundY     float64

	Debug bool
}

type physicsBody struct {
	body   *cp.Body
	shapes []*cp.Shape
	height float64
}

// shapeInfo is the footprint and vertical extent of one shape.
type shapeInfo struct {
	entity     Entity
	layer      core.LayerMask
	minY, maxY float64

	circle bool
	center cp.Vector
	radius float64
	bb     cp.BB
}

// NewPhysicsWorld creates an empty space with a ground plane at y=0.
func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		space:         cp.NewSpace(),
		shapeToEntity: make(map[*cp.Shape]*shapeInfo),
		bodies:        make(map[Entity]*physicsBody),
		groundPlane:   true,
	}
}

// Space returns the underlying Chipmunk space.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// SetGroundPlane enables or disables the infinite floor at height y.
func (pw *PhysicsWorld) SetGroundPlane(enabled bool, y float64) {
	if pw == nil {
		return
	}
	pw.groundPlane = enabled
	pw.groundY = y
}

// AddBox adds a static axis-aligned box spanning min..max. An entity may own
// several boxes.
func (pw *PhysicsWorld) AddBox(e Entity, min, max common.Vec3, layer core.LayerMask) {
	if pw == nil || pw.space == nil {
		return
	}
	bb := cp.BB{
		L: math.Min(min.X, max.X),
		B: math.Min(min.Z, max.Z),
		R: math.Max(min.X, max.X),
		T: math.Max(min.Z, max.Z),
	}
	shape := cp.NewBox2(pw.space.StaticBody, bb, 0)
	shape.SetFilter(shapeFilter(layer))
	pw.space.AddShape(shape)

	pw.shapeToEntity[shape] = &shapeInfo{
		entity: e,
		layer:  layer,
		minY:   math.Min(min.Y, max.Y),
		maxY:   math.Max(min.Y, max.Y),
		bb:     bb,
	}
	pb := pw.bodies[e]
	if pb == nil {
		pb = &physicsBody{}
		pw.bodies[e] = pb
	}
	pb.shapes = append(pb.shapes, shape)
	if pw.Debug {
		log.Printf("PhysicsWorld: AddBox entity %s layer=%d bb=%v y=[%.2f, %.2f]", e, layer, bb, min.Y, max.Y)
	}
}

// AddCircle adds a kinematic upright cylinder with its base at pos. Calling
// it again for the same entity replaces the previous body.
func (pw *PhysicsWorld) AddCircle(e Entity, pos common.Vec3, radius, height float64, layer core.LayerMask) {
	if pw == nil || pw.space == nil || radius <= 0 {
		return
	}
	pw.Remove(e)

	body := cp.NewKinematicBody()
	body.SetPosition(flat2(pos))
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFilter(shapeFilter(layer))
	pw.space.AddBody(body)
	pw.space.AddShape(shape)

	pw.shapeToEntity[shape] = &shapeInfo{
		entity: e,
		layer:  layer,
		minY:   pos.Y,
		maxY:   pos.Y + height,
		circle: true,
		center: flat2(pos),
		radius: radius,
	}
	pw.bodies[e] = &physicsBody{body: body, shapes: []*cp.Shape{shape}, height: height}
	if pw.Debug {
		log.Printf("PhysicsWorld: AddCircle entity %s layer=%d r=%.2f h=%.2f", e, layer, radius, height)
	}
}

// Move repositions an entity's kinematic body.
func (pw *PhysicsWorld) Move(e Entity, pos common.Vec3) {
	if pw == nil {
		return
	}
	pb := pw.bodies[e]
	if pb == nil || pb.body == nil {
		return
	}
	pb.body.SetPosition(flat2(pos))
	for _, shape := range pb.shapes {
		// Re-adding refreshes the cached bounds and the broad-phase entry;
		// the space is never stepped.
		pw.space.RemoveShape(shape)
		pw.space.AddShape(shape)
		if info := pw.shapeToEntity[shape]; info != nil {
			info.center = flat2(pos)
			info.minY = pos.Y
			info.maxY = pos.Y + pb.height
		}
	}
}

// Remove drops every shape owned by e.
func (pw *PhysicsWorld) Remove(e Entity) {
	if pw == nil {
		return
	}
	pb := pw.bodies[e]
	if pb == nil {
		return
	}
	for _, shape := range pb.shapes {
		pw.space.RemoveShape(shape)
		delete(pw.shapeToEntity, shape)
	}
	if pb.body != nil {
		pw.space.RemoveBody(pb.body)
	}
	delete(pw.bodies, e)
}

// Has reports whether e owns any shapes.
func (pw *PhysicsWorld) Has(e Entity) bool {
	if pw == nil {
		return false
	}
	_, ok := pw.bodies[e]
	return ok
}

func (pw *PhysicsWorld) Raycast(origin, dir common.Vec3, maxDist float64, mask core.LayerMask) (core.Hit, bool) {
	return pw.cast(origin, 0, dir, maxDist, mask)
}

func (pw *PhysicsWorld) SphereCast(origin common.Vec3, radius float64, dir common.Vec3, maxDist float64, mask core.LayerMask) (core.Hit, bool) {
	return pw.cast(origin, math.Max(radius, 0), dir, maxDist, mask)
}

// OverlapSphere returns every entity with a shape within radius of center,
// sorted by reference.
func (pw *PhysicsWorld) OverlapSphere(center common.Vec3, radius float64, mask core.LayerMask) []core.EntityRef {
	if pw == nil || pw.space == nil || radius < 0 {
		return nil
	}
	seen := make(map[Entity]bool)
	var out []core.EntityRef
	pw.pointQuery(flat2(center), radius, queryFilter(mask), func(shape *cp.Shape, distance float64) {
		info := pw.shapeToEntity[shape]
		if info == nil || !info.entity.Valid() || seen[info.entity] {
			return
		}
		dh := math.Max(distance, 0)
		dy := 0.0
		if center.Y < info.minY {
			dy = info.minY - center.Y
		} else if center.Y > info.maxY {
			dy = center.Y - info.maxY
		}
		if dh*dh+dy*dy > radius*radius {
			return
		}
		seen[info.entity] = true
		out = append(out, info.entity.Ref())
	})
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// pointQuery calls f for every shape within radius of p, with the distance
// from p to the shape's surface (negative inside).
func (pw *PhysicsWorld) pointQuery(p cp.Vector, radius float64, filter cp.ShapeFilter, f func(shape *cp.Shape, distance float64)) {
	var hits []*cp.Shape
	pw.space.BBQuery(cp.NewBBForCircle(p, radius), filter, func(shape *cp.Shape, _ interface{}) {
		hits = append(hits, shape)
	}, nil)
	for _, shape := range hits {
		info := shape.PointQuery(p)
		if info.Distance > radius {
			continue
		}
		f(shape, info.Distance)
	}
}

// GroundBelow casts straight down from pos and returns the surface height.
func (pw *PhysicsWorld) GroundBelow(pos common.Vec3, maxDrop float64) (float64, bool) {
	hit, ok := pw.Raycast(pos, common.Up.Neg(), maxDrop, core.LayerGround|core.LayerObstacle)
	if !ok {
		return 0, false
	}
	return hit.Point.Y, true
}

func (pw *PhysicsWorld) cast(origin common.Vec3, radius float64, dir common.Vec3, maxDist float64, mask core.LayerMask) (core.Hit, bool) {
	d := dir.Normalized()
	if pw == nil || pw.space == nil || d.IsZero() || maxDist <= 0 {
		return core.Hit{}, false
	}
	end := origin.Add(d.Scale(maxDist))
	a, b := flat2(origin), flat2(end)

	best := core.Hit{Distance: math.Inf(1)}
	found := false
	// Equal distances resolve to the lower entity so results do not depend
	// on query order.
	consider := func(h core.Hit) {
		if h.Distance < best.Distance || (h.Distance == best.Distance && h.Entity < best.Entity) {
			best = h
			found = true
		}
	}

	seen := make(map[*cp.Shape]bool)
	var candidates []*shapeInfo
	addCandidate := func(shape *cp.Shape) *shapeInfo {
		info := pw.shapeToEntity[shape]
		if info != nil && !seen[shape] {
			seen[shape] = true
			candidates = append(candidates, info)
		}
		return info
	}
	filter := queryFilter(mask)

	if math.Hypot(b.X-a.X, b.Y-a.Y) > common.Epsilon {
		pw.space.SegmentQuery(a, b, radius, filter, func(shape *cp.Shape, _ cp.Vector, normal cp.Vector, alpha float64, _ interface{}) {
			info := addCandidate(shape)
			if info == nil {
				return
			}
			y := common.Lerp(origin.Y, end.Y, alpha)
			if y < info.minY-radius || y > info.maxY+radius {
				return
			}
			consider(core.Hit{
				Point:    origin.Lerp(end, alpha),
				Normal:   common.V3(normal.X, 0, normal.Y).Normalized(),
				Distance: alpha * maxDist,
				Entity:   info.entity.Ref(),
				Layer:    info.layer,
			})
		}, nil)
	}
	pw.pointQuery(a, radius, filter, func(shape *cp.Shape, _ float64) {
		addCandidate(shape)
	})

	for _, info := range candidates {
		if h, ok := capHit(info, origin, end, radius, maxDist); ok {
			consider(h)
		}
	}

	if pw.groundPlane && mask.Has(core.LayerGround) && d.Y < 0 {
		planeY := pw.groundY + radius
		if origin.Y >= planeY {
			t := (origin.Y - planeY) / -d.Y
			if t <= maxDist {
				consider(core.Hit{
					Point:    origin.Add(d.Scale(t)),
					Normal:   common.Up,
					Distance: t,
					Layer:    core.LayerGround,
				})
			}
		}
	}

	return best, found
}

// capHit tests the path against the top face (descending) or bottom face
// (ascending) of a shape.
func capHit(info *shapeInfo, origin, end common.Vec3, radius, maxDist float64) (core.Hit, bool) {
	dy := end.Y - origin.Y
	if math.Abs(dy) < common.Epsilon {
		return core.Hit{}, false
	}
	var plane float64
	normal := common.Up
	if dy < 0 {
		plane = info.maxY + radius
		if origin.Y < plane {
			return core.Hit{}, false
		}
	} else {
		plane = info.minY - radius
		normal = common.Up.Neg()
		if origin.Y > plane {
			return core.Hit{}, false
		}
	}
	t := (plane - origin.Y) / dy
	if t < 0 || t > 1 {
		return core.Hit{}, false
	}
	p := origin.Lerp(end, t)
	if !info.contains(flat2(p), radius) {
		return core.Hit{}, false
	}
	return core.Hit{
		Point:    p,
		Normal:   normal,
		Distance: t * maxDist,
		Entity:   info.entity.Ref(),
		Layer:    info.layer,
	}, true
}

func (s *shapeInfo) contains(p cp.Vector, radius float64) bool {
	if s.circle {
		return math.Hypot(p.X-s.center.X, p.Y-s.center.Y) <= s.radius+radius
	}
	cx := common.Clamp(p.X, s.bb.L, s.bb.R)
	cy := common.Clamp(p.Y, s.bb.B, s.bb.T)
	return math.Hypot(p.X-cx, p.Y-cy) <= radius
}

func flat2(v common.Vec3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Z}
}

func shapeFilter(layer core.LayerMask) cp.ShapeFilter {
	return cp.ShapeFilter{Group: 0, Categories: uint(layer), Mask: ^uint(0)}
}

func queryFilter(mask core.LayerMask) cp.ShapeFilter {
	return cp.ShapeFilter{Group: 0, Categories: ^uint(0), Mask: uint(mask)}
}
