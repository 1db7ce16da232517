package component

import "github.com/milk9111/horde/common"

// EngagementState is the per-agent combat state. Exactly one is active per
// tick.
type EngagementState int

const (
	StateIdle EngagementState = iota
	StateChasing
	StateClimbing
	StateAttacking
)

func (s EngagementState) String() string {
	switch s {
	case StateChasing:
		return "chasing"
	case StateClimbing:
		return "climbing"
	case StateAttacking:
		return "attacking"
	default:
		return "idle"
	}
}

// EngagementInput is everything a transition needs, already measured.
type EngagementInput struct {
	HasTarget    bool
	Distance     float64
	StopDistance float64
	// Ranged agents may only attack with line of sight.
	Ranged      bool
	LineOfSight bool
	// ClimbHit is true when the short forward climb ray hit climbable
	// geometry this tick.
	ClimbHit       bool
	VerticalDelta  float64
	ClimbThreshold float64
}

// EvaluateEngagement applies the transition rules in priority order:
// climbing, then distance, then the line-of-sight gate.
func EvaluateEngagement(in EngagementInput) EngagementState {
	if !in.HasTarget {
		return StateIdle
	}
	if in.ClimbHit && in.VerticalDelta >= in.ClimbThreshold {
		return StateClimbing
	}
	if in.Distance > in.StopDistance {
		return StateChasing
	}
	if in.Ranged && !in.LineOfSight {
		return StateChasing
	}
	return StateAttacking
}

// Engagement tracks the current state and how long it has been held.
type Engagement struct {
	Current  EngagementState
	Previous EngagementState
	// Held is the time in seconds spent in Current.
	Held float64

	OnChange func(from, to EngagementState)
}

// Update evaluates the next state and reports whether it changed.
func (e *Engagement) Update(in EngagementInput, dt float64) bool {
	if e == nil {
		return false
	}
	next := EvaluateEngagement(in)
	if next == e.Current {
		e.Held += dt
		return false
	}
	e.Previous = e.Current
	e.Current = next
	e.Held = 0
	if e.OnChange != nil {
		e.OnChange(e.Previous, next)
	}
	return true
}

// LineOfSight casts from origin to target. The ray is clear when it reaches
// the target unobstructed or the first thing it hits is the target itself.
func LineOfSight(q SpatialQuery, origin, target common.Vec3, mask LayerMask, targetRef EntityRef) bool {
	if q == nil {
		return true
	}
	delta := target.Sub(origin)
	dist := delta.Len()
	if dist <= common.Epsilon {
		return true
	}
	hit, ok := q.Raycast(origin, delta.Scale(1/dist), dist, mask)
	if !ok {
		return true
	}
	return targetRef.Valid() && hit.Entity == targetRef
}

// ClimbProbe casts the short forward ray used for the climbing override.
func ClimbProbe(q SpatialQuery, origin, heading common.Vec3, dist float64, mask LayerMask) bool {
	if q == nil || dist <= 0 {
		return false
	}
	dir := heading.Flat().Normalized()
	if dir.IsZero() {
		return false
	}
	_, ok := q.Raycast(origin, dir, dist, mask)
	return ok
}
