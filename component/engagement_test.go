package component

import (
	"testing"

	"github.com/milk9111/horde/common"
)

func TestEvaluateEngagement(t *testing.T) {
	cases := []struct {
		name string
		in   EngagementInput
		want EngagementState
	}{
		{"no_target", EngagementInput{}, StateIdle},
		{"far", EngagementInput{HasTarget: true, Distance: 20, StopDistance: 10}, StateChasing},
		{"melee_in_range", EngagementInput{HasTarget: true, Distance: 2, StopDistance: 2}, StateAttacking},
		{"ranged_with_los", EngagementInput{HasTarget: true, Distance: 5, StopDistance: 10, Ranged: true, LineOfSight: true}, StateAttacking},
		{"ranged_blocked", EngagementInput{HasTarget: true, Distance: 5, StopDistance: 10, Ranged: true}, StateChasing},
		{"melee_ignores_los", EngagementInput{HasTarget: true, Distance: 1, StopDistance: 2}, StateAttacking},
		{"climb_beats_attack", EngagementInput{HasTarget: true, Distance: 1, StopDistance: 2, ClimbHit: true, VerticalDelta: 1, ClimbThreshold: 0.5}, StateClimbing},
		{"climb_at_threshold", EngagementInput{HasTarget: true, Distance: 20, StopDistance: 10, ClimbHit: true, VerticalDelta: 0.5, ClimbThreshold: 0.5}, StateClimbing},
		{"wall_but_target_level", EngagementInput{HasTarget: true, Distance: 20, StopDistance: 10, ClimbHit: true, VerticalDelta: 0.2, ClimbThreshold: 0.5}, StateChasing},
		{"target_above_no_wall", EngagementInput{HasTarget: true, Distance: 20, StopDistance: 10, VerticalDelta: 3, ClimbThreshold: 0.5}, StateChasing},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := EvaluateEngagement(c.in); got != c.want {
				t.Fatalf("got %s, want %s", got, c.want)
			}
		})
	}
}

func TestEngagementUpdateTracksChanges(t *testing.T) {
	var e Engagement
	var transitions []EngagementState
	e.OnChange = func(_, to EngagementState) { transitions = append(transitions, to) }

	chase := EngagementInput{HasTarget: true, Distance: 20, StopDistance: 10}
	if !e.Update(chase, 0.1) {
		t.Fatalf("idle -> chasing should report a change")
	}
	if e.Update(chase, 0.1) {
		t.Fatalf("staying in chasing is not a change")
	}
	if !approx(e.Held, 0.1) {
		t.Fatalf("held = %v", e.Held)
	}
	e.Update(EngagementInput{}, 0.1)
	if e.Current != StateIdle || e.Previous != StateChasing {
		t.Fatalf("current=%s previous=%s", e.Current, e.Previous)
	}
	if len(transitions) != 2 {
		t.Fatalf("transitions = %v", transitions)
	}
}

func TestLineOfSight(t *testing.T) {
	origin := common.V3(0, 0.5, 0)
	aim := common.V3(0, 0.5, 8)

	clear := &sphereWorld{}
	clear.add(2, aim, 0.5, LayerTarget)

	blocked := &sphereWorld{}
	blocked.add(2, aim, 0.5, LayerTarget)
	blocked.add(9, common.V3(0, 0.5, 4), 1, LayerObstacle)

	cases := []struct {
		name string
		q    SpatialQuery
		want bool
	}{
		{"nil_query", nil, true},
		{"empty", &sphereWorld{}, true},
		{"target_first", clear, true},
		{"wall_first", blocked, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := LineOfSight(c.q, origin, aim, LayerObstacle|LayerTarget, 2); got != c.want {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}
