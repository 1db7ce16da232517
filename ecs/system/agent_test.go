package system

import (
	"testing"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

func TestAgentSystemChasesPlayer(t *testing.T) {
	w, _ := newTestWorld()
	addPlayer(t, w, common.Zero)
	e, a := addAgent(t, w, common.V3(0, 0, 20), core.Weapon{Kind: core.AttackMelee, Damage: 10, Cooldown: 1})
	a.Speed = 5
	a.StopDistance = 2

	s := ecs.NewScheduler(NewAgentSystem(core.NewCombatResolver(1)))
	for i := 0; i < 10; i++ {
		s.Step(w, testDT)
	}

	if a.Target() == nil {
		t.Fatalf("agent never acquired the player")
	}
	if a.Engagement.Current != core.StateChasing {
		t.Fatalf("state = %v", a.Engagement.Current)
	}
	if a.Position.Z > 18 {
		t.Fatalf("agent barely moved: %v", a.Position)
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Position != a.Position || tr.Facing != a.Facing {
		t.Fatalf("transform not synced: %+v vs %v", tr, a.Position)
	}
}

func TestAgentSystemMeleeHitsPlayer(t *testing.T) {
	w, _ := newTestWorld()
	p := addPlayer(t, w, common.Zero)
	_, a := addAgent(t, w, common.V3(0, 0, 1.5), core.Weapon{Kind: core.AttackMelee, Damage: 10, Cooldown: 1})
	a.Speed = 5
	a.StopDistance = 2

	resolver := core.NewCombatResolver(1)
	fired := 0
	resolver.Emitter.Subscribe(func(evt core.CombatEvent) {
		if evt.Type == core.EventFired {
			fired++
		}
	})
	s := ecs.NewScheduler(NewAgentSystem(resolver))
	for i := 0; i < 5; i++ {
		s.Step(w, testDT)
	}

	if a.Engagement.Current != core.StateAttacking {
		t.Fatalf("state = %v", a.Engagement.Current)
	}
	if fired != 1 || p.pool.CurrentHP() != 90 {
		t.Fatalf("fired=%d hp=%d", fired, p.pool.CurrentHP())
	}
	if resolver.Frame() != 5 {
		t.Fatalf("resolver frame = %d", resolver.Frame())
	}
}

func TestAgentSystemSettlesOnGround(t *testing.T) {
	w, pw := newTestWorld()
	addPlayer(t, w, common.V3(20, 0, 0))
	pw.AddBox(ecs.CreateEntity(w), common.V3(-2, 0, -2), common.V3(2, 0.3, 2), core.LayerObstacle|core.LayerGround)
	_, falling := addAgent(t, w, common.V3(0, 3, 0), core.Weapon{Kind: core.AttackMelee})
	_, low := addAgent(t, w, common.V3(-10, -0.2, 0), core.Weapon{Kind: core.AttackMelee})
	falling.Speed = 0
	low.Speed = 0

	s := ecs.NewScheduler(NewAgentSystem(nil))
	for i := 0; i < 5; i++ {
		s.Step(w, testDT)
	}
	if d := falling.Position.Y - 0.3; d < -1e-9 || d > 1e-9 {
		t.Fatalf("agent should land on the step, y = %v", falling.Position.Y)
	}
	if low.Position.Y != 0 {
		t.Fatalf("agent below the floor should be lifted, y = %v", low.Position.Y)
	}
}

func TestAgentSystemSkipsDead(t *testing.T) {
	w, _ := newTestWorld()
	addPlayer(t, w, common.Zero)
	_, a := addAgent(t, w, common.V3(0, 0, 20), core.Weapon{Kind: core.AttackMelee})
	a.Health.ApplyDamage(1000, core.CombatEvent{})
	before := a.Position

	ecs.NewScheduler(NewAgentSystem(nil)).Step(w, testDT)
	if a.Position != before {
		t.Fatalf("dead agent moved")
	}
}
