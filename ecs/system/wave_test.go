package system

import (
	"testing"

	"github.com/milk9111/horde/common"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

func addWaveSpawner(t *testing.T, w *ecs.World, ws *component.WaveSpawner) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	mustAdd(t, w, e, component.WaveSpawnerComponent.Kind(), ws)
	mustAdd(t, w, e, component.TransformComponent.Kind(), &component.Transform{Position: common.V3(0, 0, -3)})
	return e
}

func TestWaveSpawnsOnDelay(t *testing.T) {
	w, _ := newTestWorld()
	ws := &component.WaveSpawner{
		Center:     common.V3(0, 0, 10),
		Radius:     10,
		Count:      3,
		Delay:      0.5,
		MinSpacing: 1,
		Archetypes: []string{"grunt.yaml", "gunner.yaml"},
		Active:     true,
	}
	spawnerEntity := addWaveSpawner(t, w, ws)
	stub := &stubSpawner{w: w}
	log := &eventLog{}
	s := ecs.NewScheduler(NewWaveSystem(stub, 7), log)

	wantSpawned := []int{1, 1, 2, 2, 3, 3, 3, 3}
	for i, want := range wantSpawned {
		s.Step(w, 0.25)
		if ws.Spawned != want {
			t.Fatalf("step %d: spawned = %d, want %d", i, ws.Spawned, want)
		}
	}
	if ws.Alive != 3 || ws.Cleared {
		t.Fatalf("spawner = %+v", ws)
	}
	if log.count(ecs.EventWaveStarted) != 1 || log.count(ecs.EventAgentSpawned) != 3 {
		t.Fatalf("events = %+v", log.events)
	}

	for i, a := range ws.Placed {
		if a.Flat().Dist(ws.Center.Flat()) > ws.Radius+1e-9 {
			t.Fatalf("spawn %d outside the disc: %v", i, a)
		}
		if a.Y != 0 {
			t.Fatalf("spawn %d not on the ground: %v", i, a)
		}
		for _, b := range ws.Placed[i+1:] {
			if a.Dist(b) < ws.MinSpacing {
				t.Fatalf("spawns too close: %v %v", a, b)
			}
		}
	}

	ecs.ForEach(w, component.ArchetypeComponent.Kind(), func(_ ecs.Entity, arch *component.Archetype) {
		if ecs.FromRef(arch.Spawner) != spawnerEntity {
			t.Fatalf("spawned agent not linked to its spawner")
		}
	})
	for _, evt := range log.events {
		if evt.Type == ecs.EventAgentSpawned && evt.Pos.Y != 1 {
			t.Fatalf("agent should spawn lifted above the ground, got %v", evt.Pos)
		}
	}

	ws.Alive = 0
	s.Step(w, 0.25)
	s.Step(w, 0.25)
	if !ws.Cleared || ws.Active {
		t.Fatalf("wave not cleared: %+v", ws)
	}
	if n := log.count(ecs.EventWaveCleared); n != 1 {
		t.Fatalf("cleared events = %d", n)
	}
	for _, evt := range log.events {
		if evt.Type == ecs.EventWaveCleared && evt.Pos != common.V3(0, 0, -3) {
			t.Fatalf("cleared event should carry the portal spot, got %v", evt.Pos)
		}
	}
}

func TestWaveAttemptBudget(t *testing.T) {
	cases := []struct {
		name        string
		ground      bool
		spacing     float64
		wantSpawned int
	}{
		{"no_ground", false, 0, 0},
		{"spacing_too_wide", true, 100, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w, pw := newTestWorld()
			pw.SetGroundPlane(c.ground, 0)
			ws := &component.WaveSpawner{
				Center:     common.V3(0, 0, 0),
				Radius:     5,
				Count:      4,
				MinSpacing: c.spacing,
				Archetypes: []string{"grunt.yaml"},
				Active:     true,
			}
			addWaveSpawner(t, w, ws)
			log := &eventLog{}
			s := ecs.NewScheduler(NewWaveSystem(&stubSpawner{w: w}, 1), log)
			for i := 0; i < 10; i++ {
				s.Step(w, testDT)
				ws.Alive = 0
			}
			if ws.Spawned != c.wantSpawned {
				t.Fatalf("spawned = %d, want %d", ws.Spawned, c.wantSpawned)
			}
			if ws.Attempts != ws.Count*5 {
				t.Fatalf("attempts = %d", ws.Attempts)
			}
			if log.count(ecs.EventWaveCleared) != 1 {
				t.Fatalf("wave should still clear once")
			}
		})
	}
}

func TestRearm(t *testing.T) {
	ws := &component.WaveSpawner{Count: 3, Spawned: 3, Attempts: 9, Cleared: true, Placed: []common.Vec3{common.Zero}}
	Rearm(ws, 4)
	if ws.Count != 4 || !ws.Active || ws.Cleared || ws.Spawned != 0 || ws.Attempts != 0 || len(ws.Placed) != 0 {
		t.Fatalf("rearmed spawner = %+v", ws)
	}
}
