package component

import (
	"math"

	"github.com/milk9111/horde/common"
)

// sphereWorld is a SpatialQuery over a flat list of spheres.
type sphereWorld struct {
	bodies []body
}

type body struct {
	ref    EntityRef
	center common.Vec3
	radius float64
	layer  LayerMask
}

func (w *sphereWorld) add(ref EntityRef, center common.Vec3, radius float64, layer LayerMask) {
	w.bodies = append(w.bodies, body{ref: ref, center: center, radius: radius, layer: layer})
}

func (w *sphereWorld) Raycast(origin, dir common.Vec3, maxDist float64, mask LayerMask) (Hit, bool) {
	return w.SphereCast(origin, 0, dir, maxDist, mask)
}

func (w *sphereWorld) SphereCast(origin common.Vec3, radius float64, dir common.Vec3, maxDist float64, mask LayerMask) (Hit, bool) {
	d := dir.Normalized()
	best := Hit{Distance: math.Inf(1)}
	found := false
	for _, b := range w.bodies {
		if !mask.Has(b.layer) {
			continue
		}
		r := b.radius + radius
		oc := origin.Sub(b.center)
		c := oc.Dot(oc) - r*r
		var t float64
		if c > 0 {
			bb := oc.Dot(d)
			disc := bb*bb - c
			if disc < 0 {
				continue
			}
			t = -bb - math.Sqrt(disc)
			if t < 0 {
				continue
			}
		}
		if t > maxDist || t >= best.Distance {
			continue
		}
		p := origin.Add(d.Scale(t))
		best = Hit{
			Point:    p,
			Normal:   p.Sub(b.center).Normalized(),
			Distance: t,
			Entity:   b.ref,
			Layer:    b.layer,
		}
		found = true
	}
	return best, found
}

func (w *sphereWorld) OverlapSphere(center common.Vec3, radius float64, mask LayerMask) []EntityRef {
	var out []EntityRef
	for _, b := range w.bodies {
		if mask.Has(b.layer) && center.Dist(b.center) <= radius+b.radius {
			out = append(out, b.ref)
		}
	}
	return out
}

type fakeTarget struct {
	ref     EntityRef
	pos     common.Vec3
	health  *HealthPool
	faction Faction
	gone    bool
}

func (t *fakeTarget) Ref() EntityRef          { return t.ref }
func (t *fakeTarget) Position() common.Vec3   { return t.pos }
func (t *fakeTarget) Health() HealthComponent { return t.health }
func (t *fakeTarget) Faction() Faction        { return t.faction }
func (t *fakeTarget) Alive() bool             { return !t.gone }

type healthMap map[EntityRef]*HealthPool

func (m healthMap) HealthOf(ref EntityRef) (HealthComponent, Faction, bool) {
	h, ok := m[ref]
	if !ok {
		return nil, FactionNeutral, false
	}
	return h, FactionEnemy, true
}

type projectileLog struct {
	launched []*Projectile
}

func (l *projectileLog) LaunchProjectile(p *Projectile) {
	l.launched = append(l.launched, p)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}
