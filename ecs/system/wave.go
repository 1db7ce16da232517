package system

import (
	"log"
	"math"
	"math/rand"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

const (
	spawnRayHeight = 10.0
	spawnRayReach  = 20.0
	spawnLift      = 1.0
)

// WaveSystem spawns each active wave one agent per Delay seconds on random
// ground points and raises WaveCleared once every spawned agent is dead.
type WaveSystem struct {
	Spawner core.Spawner
	Rand    *rand.Rand
	Debug   bool
}

func NewWaveSystem(spawner core.Spawner, seed int64) *WaveSystem {
	return &WaveSystem{Spawner: spawner, Rand: rand.New(rand.NewSource(seed))}
}

func (s *WaveSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	dt := w.DeltaTime()
	ecs.ForEach2(w, component.WaveSpawnerComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, ws *component.WaveSpawner, t *component.Transform) {
		if !ws.Active || ws.Cleared {
			return
		}
		if ws.Spawned < ws.Count && !exhausted(ws) {
			ws.Timer -= dt
			if ws.Timer <= 0 {
				s.spawnNext(w, e, ws)
			}
			return
		}
		if ws.Alive > 0 {
			return
		}
		ws.Cleared = true
		ws.Active = false
		if ws.Spawned == 0 {
			log.Printf("[spawner] %s found no ground within radius %.1f", e, ws.Radius)
		}
		w.Events().Push(ecs.Event{Type: ecs.EventWaveCleared, Entity: e, Pos: t.Position, Data: ws.Spawned})
	})
}

func exhausted(ws *component.WaveSpawner) bool {
	return ws.Attempts >= ws.Count*5
}

// spawnNext keeps drawing candidate points until one is valid or the
// attempt budget is gone.
func (s *WaveSystem) spawnNext(w *ecs.World, e ecs.Entity, ws *component.WaveSpawner) {
	if s.Spawner == nil || len(ws.Archetypes) == 0 {
		ws.Attempts = ws.Count * 5
		return
	}
	for !exhausted(ws) {
		ws.Attempts++
		pos, ok := s.groundPoint(w.PhysicsWorld(), ws)
		if !ok || !farEnough(ws, pos) {
			continue
		}
		name := ws.Archetypes[s.Rand.Intn(len(ws.Archetypes))]
		spawnAt := pos.Add(common.Up.Scale(spawnLift))
		facing := ws.Center.Sub(spawnAt).Flat().Normalized()
		if facing.IsZero() {
			facing = common.Forward
		}
		ref := s.Spawner.Spawn(name, spawnAt, facing)
		if !ref.Valid() {
			continue
		}
		agent := ecs.FromRef(ref)
		if arch, ok := ecs.Get(w, agent, component.ArchetypeComponent.Kind()); ok {
			arch.Spawner = e.Ref()
		} else {
			_ = ecs.Add(w, agent, component.ArchetypeComponent.Kind(), &component.Archetype{Name: name, Spawner: e.Ref()})
		}
		if ws.Spawned == 0 {
			w.Events().Push(ecs.Event{Type: ecs.EventWaveStarted, Entity: e, Pos: ws.Center})
		}
		ws.Placed = append(ws.Placed, pos)
		ws.Spawned++
		ws.Alive++
		ws.Timer = ws.Delay
		w.Events().Push(ecs.Event{Type: ecs.EventAgentSpawned, Entity: agent, Pos: spawnAt, Data: name})
		if s.Debug {
			log.Printf("[spawner] %s spawned %s (%d/%d) after %d attempts", e, name, ws.Spawned, ws.Count, ws.Attempts)
		}
		return
	}
}

// groundPoint picks a uniform point in the spawn disc and drops a ray onto
// walkable ground.
func (s *WaveSystem) groundPoint(pw *ecs.PhysicsWorld, ws *component.WaveSpawner) (common.Vec3, bool) {
	angle := s.Rand.Float64() * 2 * math.Pi
	r := math.Sqrt(s.Rand.Float64()) * ws.Radius
	height := ws.SpawnHeight
	if height <= 0 {
		height = spawnRayHeight
	}
	start := ws.Center.Add(common.V3(math.Cos(angle)*r, height, math.Sin(angle)*r))
	if pw == nil {
		return common.V3(start.X, ws.Center.Y, start.Z), true
	}
	hit, ok := pw.Raycast(start, common.Up.Neg(), math.Max(spawnRayReach, height*2), core.LayerGround)
	if !ok {
		return common.Zero, false
	}
	return hit.Point, true
}

func farEnough(ws *component.WaveSpawner, pos common.Vec3) bool {
	for _, used := range ws.Placed {
		if pos.Dist(used) < ws.MinSpacing {
			return false
		}
	}
	return true
}

// Rearm resets a spawner for the next wave with count more agents.
func Rearm(ws *component.WaveSpawner, count int) {
	ws.Count = count
	ws.Active = true
	ws.Cleared = false
	ws.Spawned = 0
	ws.Alive = 0
	ws.Attempts = 0
	ws.Timer = 0
	ws.Placed = nil
}
