package main

import (
	"math"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/sim"
)

// pilot scripts the player for unattended runs.
type pilot string

const (
	pilotIdle   pilot = "idle"
	pilotStill  pilot = "still"
	pilotStrafe pilot = "strafe"

	strafePeriod = 2.0
)

func parsePilot(s string) (pilot, bool) {
	switch p := pilot(s); p {
	case pilotIdle, pilotStill, pilotStrafe:
		return p, true
	}
	return "", false
}

func (p pilot) input(s *sim.Sim, tick int, dt float64) component.Input {
	var in component.Input
	if p == pilotIdle {
		return in
	}
	if p == pilotStrafe {
		in.Move = common.V3(strafeDir(tick, dt), 0, 0)
	}

	player, tr, _ := s.Player()
	if player == nil || tr == nil {
		return in
	}
	eye := tr.Position.Add(common.V3(0, player.EyeHeight, 0))
	if target, ok := nearestAgent(s.World, tr.Position); ok {
		in.Aim = aimAt(eye, target)
		in.Fire = true
	}
	return in
}

// strafeDir flips between +1 and -1 every strafePeriod seconds.
func strafeDir(tick int, dt float64) float64 {
	if int(math.Floor(float64(tick)*dt/strafePeriod))%2 == 0 {
		return 1
	}
	return -1
}

// aimAt points from eye at the body center of an agent standing at target.
func aimAt(eye, target common.Vec3) common.Vec3 {
	return target.Add(common.V3(0, 1, 0)).Sub(eye).Normalized()
}

func nearestAgent(w *ecs.World, from common.Vec3) (common.Vec3, bool) {
	best := math.Inf(1)
	var pos common.Vec3
	found := false
	ecs.ForEach(w, component.AgentComponent.Kind(), func(_ ecs.Entity, a *core.Agent) {
		if a.Dead() {
			return
		}
		if d := a.Position.Dist(from); d < best {
			best = d
			pos = a.Position
			found = true
		}
	})
	return pos, found
}
