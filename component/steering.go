package component

import (
	"math"

	"github.com/milk9111/horde/common"
)

// Steering combines seek, separation, wobble and obstacle avoidance into one
// movement direction per tick.
type Steering struct {
	SeparationRadius   float64
	SeparationStrength float64

	WobbleAmount float64
	WobbleSpeed  float64

	AvoidDistance float64
	AvoidStrength float64
	SphereRadius  float64
	// SideCasts adds two casts rotated by ±SideCastAngle degrees around the
	// candidate heading.
	SideCasts     bool
	SideCastAngle float64
	ObstacleMask  LayerMask

	wobbleTimer float64
}

// DefaultSteering returns the tuning shared by the stock enemy prefabs.
func DefaultSteering() Steering {
	return Steering{
		SeparationRadius:   2.5,
		SeparationStrength: 2,
		WobbleAmount:       0.5,
		WobbleSpeed:        2,
		AvoidDistance:      3,
		AvoidStrength:      10,
		SphereRadius:       0.5,
		SideCasts:          true,
		SideCastAngle:      30,
		ObstacleMask:       LayerObstacle,
	}
}

// SteeringInput is the per-tick snapshot the accumulator reads.
type SteeringInput struct {
	Position  common.Vec3
	Target    common.Vec3
	HasTarget bool
	// Neighbors are positions of nearby same-faction agents, excluding self.
	Neighbors []common.Vec3
	// CastOrigin is where avoidance casts start. Zero uses Position.
	CastOrigin common.Vec3
	Query      SpatialQuery
}

// SteeringResult keeps each influence for debugging alongside the final
// direction.
type SteeringResult struct {
	Seek       common.Vec3
	Separation common.Vec3
	Wobble     common.Vec3
	Avoidance  common.Vec3
	Direction  common.Vec3
}

// Seek returns the horizontal unit vector from pos to target, or zero when
// they coincide on the ground plane.
func Seek(pos, target common.Vec3) common.Vec3 {
	return target.Sub(pos).Flat().Normalized()
}

// Separation sums away/dist for every neighbor strictly inside radius. Closer
// neighbors push harder. The result is not scaled by strength.
func Separation(pos common.Vec3, neighbors []common.Vec3, radius float64) common.Vec3 {
	var sum common.Vec3
	if radius <= 0 {
		return sum
	}
	for _, n := range neighbors {
		away := pos.Sub(n)
		dist := away.Len()
		if dist <= common.Epsilon || dist >= radius {
			continue
		}
		sum = sum.Add(away.Scale(1 / (dist * dist)))
	}
	return sum
}

// Wobble returns the sideways offset for the given phase.
func Wobble(seek common.Vec3, phase, amount float64) common.Vec3 {
	if seek.IsZero() || amount == 0 {
		return common.Zero
	}
	right := seek.Cross(common.Up).Normalized()
	return right.Scale(math.Sin(phase) * amount)
}

// Avoidance sphere-casts along heading (and the side headings when enabled)
// and sums the flattened reflections of every cast that hit.
func (s *Steering) Avoidance(q SpatialQuery, origin, heading common.Vec3) common.Vec3 {
	var sum common.Vec3
	if s == nil || q == nil || s.AvoidDistance <= 0 {
		return sum
	}
	dir := heading.Normalized()
	if dir.IsZero() {
		return sum
	}

	casts := []common.Vec3{dir}
	if s.SideCasts {
		angle := s.SideCastAngle
		if angle == 0 {
			angle = 30
		}
		casts = append(casts, dir.RotateY(angle), dir.RotateY(-angle))
	}

	for _, d := range casts {
		hit, ok := q.SphereCast(origin, s.SphereRadius, d, s.AvoidDistance, s.ObstacleMask)
		if !ok {
			continue
		}
		away := d.Reflect(hit.Normal.Normalized())
		away.Y = 0
		sum = sum.Add(away)
	}
	return sum
}

// Phase returns the current wobble phase in radians.
func (s *Steering) Phase() float64 {
	if s == nil {
		return 0
	}
	return s.wobbleTimer * s.WobbleSpeed
}

// Step advances the wobble timer by dt and computes the tick's direction.
// The direction is unit length, or zero when there is no target.
func (s *Steering) Step(in SteeringInput, dt float64) SteeringResult {
	var res SteeringResult
	if s == nil || !in.HasTarget {
		return res
	}
	if dt > 0 {
		s.wobbleTimer += dt
	}

	res.Seek = Seek(in.Position, in.Target)
	res.Separation = Separation(in.Position, in.Neighbors, s.SeparationRadius).Scale(s.SeparationStrength)
	res.Separation.Y = 0
	res.Wobble = Wobble(res.Seek, s.Phase(), s.WobbleAmount)

	heading := res.Seek.Add(res.Wobble).Add(res.Separation).Normalized()

	origin := in.CastOrigin
	if origin == common.Zero {
		origin = in.Position
	}
	res.Avoidance = s.Avoidance(in.Query, origin, heading)
	if !res.Avoidance.IsZero() && !heading.IsZero() {
		heading = turnToward(heading, res.Avoidance, common.Clamp01(s.AvoidStrength*dt))
	}

	res.Direction = heading.Normalized()
	return res
}

// turnToward rotates from toward to on the ground plane by t of the angle
// between them. An exactly opposite target turns toward from × Up.
func turnToward(from, to common.Vec3, t float64) common.Vec3 {
	a := from.Flat().Normalized()
	b := to.Flat().Normalized()
	if a.IsZero() || b.IsZero() || t <= 0 {
		return from
	}
	cos := common.Clamp(a.Dot(b), -1, 1)
	side := b.Sub(a.Scale(cos))
	if side.Len() < 1e-6 {
		side = a.Cross(common.Up)
	}
	side = side.Normalized()
	theta := math.Acos(cos) * t
	return a.Scale(math.Cos(theta)).Add(side.Scale(math.Sin(theta)))
}

// Direction is Step without the debug breakdown.
func (s *Steering) Direction(in SteeringInput, dt float64) common.Vec3 {
	return s.Step(in, dt).Direction
}
