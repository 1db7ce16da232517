package system

import (
	"testing"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

const testDT = 0.1

func newTestWorld() (*ecs.World, *ecs.PhysicsWorld) {
	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld()
	w.SetPhysicsWorld(pw)
	return w, pw
}

// eventLog keeps every event seen during a step. Schedule it last.
type eventLog struct {
	events []ecs.Event
}

func (l *eventLog) Update(w *ecs.World) {
	l.events = append(l.events, w.Events().Items()...)
}

func (l *eventLog) count(typ ecs.EventType) int {
	n := 0
	for _, e := range l.events {
		if e.Type == typ {
			n++
		}
	}
	return n
}

// pushSystem pushes one event on the next step only.
type pushSystem struct {
	next *ecs.Event
}

func (s *pushSystem) Update(w *ecs.World) {
	if s.next == nil {
		return
	}
	w.Events().Push(*s.next)
	s.next = nil
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

type testPlayer struct {
	e         ecs.Entity
	player    *component.Player
	transform *component.Transform
	pool      *core.HealthPool
	input     *component.Input
}

func addPlayer(t *testing.T, w *ecs.World, pos common.Vec3) testPlayer {
	t.Helper()
	e := ecs.CreateEntity(w)
	p := testPlayer{
		e:         e,
		player:    &component.Player{Locomotion: core.DefaultLocomotion(), Radius: 0.5, Height: 2, EyeHeight: 1.6},
		transform: &component.Transform{Position: pos, Facing: common.Forward},
		pool:      core.NewHealthPool(100, 100),
		input:     &component.Input{},
	}
	mustAdd(t, w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
	mustAdd(t, w, e, component.PlayerComponent.Kind(), p.player)
	mustAdd(t, w, e, component.TransformComponent.Kind(), p.transform)
	mustAdd(t, w, e, component.HealthComponent.Kind(), p.pool)
	mustAdd(t, w, e, component.TeamComponent.Kind(), &component.Team{Faction: core.FactionPlayer})
	mustAdd(t, w, e, component.InputComponent.Kind(), p.input)
	return p
}

func pistol() *core.PlayerWeapon {
	return core.NewPlayerWeapon("pistol", core.Weapon{
		Kind:     core.AttackHitscan,
		Damage:   25,
		Cooldown: 0.2,
		Hitscan:  core.HitscanSpec{Range: 100, Mask: core.LayerObstacle | core.LayerAgent},
	}, 20, true)
}

func addAgent(t *testing.T, w *ecs.World, pos common.Vec3, weapon core.Weapon) (ecs.Entity, *core.Agent) {
	t.Helper()
	e := ecs.CreateEntity(w)
	pool := core.NewHealthPool(100, 0)
	a := core.NewAgent(e.Ref(), "grunt", pool, weapon)
	a.Position = pos
	mustAdd(t, w, e, component.AITagComponent.Kind(), &component.AITag{})
	mustAdd(t, w, e, component.AgentComponent.Kind(), a)
	mustAdd(t, w, e, component.HealthComponent.Kind(), pool)
	mustAdd(t, w, e, component.TeamComponent.Kind(), &component.Team{Faction: core.FactionEnemy})
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Facing: common.Forward})
	mustAdd(t, w, e, component.ArchetypeComponent.Kind(), &component.Archetype{Name: "grunt"})
	return e, a
}

// stubSpawner creates bare entities at the requested spot.
type stubSpawner struct {
	w       *ecs.World
	prefabs []string
}

func (s *stubSpawner) Spawn(prefab string, pos, facing common.Vec3) core.EntityRef {
	e := ecs.CreateEntity(s.w)
	_ = ecs.Add(s.w, e, component.TransformComponent.Kind(), &component.Transform{Position: pos, Facing: facing})
	s.prefabs = append(s.prefabs, prefab)
	return e.Ref()
}

func (s *stubSpawner) Destroy(ref core.EntityRef, _ float64) {
	ecs.DestroyEntity(s.w, ecs.FromRef(ref))
}
