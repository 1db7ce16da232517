package system

import (
	"log"
	"sync"

	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// DeathQueue is the agent death sink. Agents report into it from whichever
// system dealt the killing blow; DeathSystem drains it.
type DeathQueue struct {
	mu   sync.Mutex
	refs []core.EntityRef
}

func (q *DeathQueue) OnAgentDied(a *core.Agent) {
	if q == nil || a == nil {
		return
	}
	q.mu.Lock()
	q.refs = append(q.refs, a.ID)
	q.mu.Unlock()
}

func (q *DeathQueue) drain() []core.EntityRef {
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.refs
	q.refs = nil
	return out
}

// DeathSystem processes dead agents once: it credits the kill, releases the
// spawner slot, removes the collider and leaves a corpse that is destroyed
// after CorpseDelay seconds. It also reports the player's death once.
type DeathSystem struct {
	Queue       *DeathQueue
	CorpseDelay float64
	Debug       bool

	playerDead bool
}

func NewDeathSystem(queue *DeathQueue) *DeathSystem {
	return &DeathSystem{Queue: queue, CorpseDelay: 2}
}

func (s *DeathSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, ref := range s.Queue.drain() {
		s.bury(w, ecs.FromRef(ref))
	}
	// Agents that died before a sink was attached.
	ecs.ForEach(w, component.AgentComponent.Kind(), func(e ecs.Entity, a *core.Agent) {
		if a.Dead() {
			s.bury(w, e)
		}
	})

	if s.playerDead {
		return
	}
	p, ok := playerEntity(w)
	if !ok {
		return
	}
	if h, ok := ecs.Get(w, p, component.HealthComponent.Kind()); ok && !h.IsAlive() {
		s.playerDead = true
		pos := ecsPosition(w, p)
		w.Events().Push(ecs.Event{Type: ecs.EventPlayerDied, Entity: p, Pos: pos})
		log.Printf("[death] player died at tick %d", w.Tick())
	}
}

func (s *DeathSystem) bury(w *ecs.World, e ecs.Entity) {
	if !ecs.IsAlive(w, e) || ecs.Has(w, e, component.CorpseComponent.Kind()) {
		return
	}
	if !ecs.Has(w, e, component.AgentComponent.Kind()) {
		return
	}
	_ = ecs.Add(w, e, component.CorpseComponent.Kind(), &component.Corpse{})
	_ = ecs.Add(w, e, component.TTLComponent.Kind(), &component.TTL{Remaining: s.CorpseDelay})
	if pw := w.PhysicsWorld(); pw != nil {
		pw.Remove(e)
	}

	if arch, ok := ecs.Get(w, e, component.ArchetypeComponent.Kind()); ok && arch.Spawner.Valid() {
		if ws, ok := ecs.Get(w, ecs.FromRef(arch.Spawner), component.WaveSpawnerComponent.Kind()); ok && ws.Alive > 0 {
			ws.Alive--
		}
	}
	if p, ok := playerEntity(w); ok {
		if player, ok := ecs.Get(w, p, component.PlayerComponent.Kind()); ok {
			player.Kills++
		}
	}

	pos := ecsPosition(w, e)
	w.Events().Push(ecs.Event{Type: ecs.EventAgentDied, Entity: e, Pos: pos})
	if s.Debug {
		log.Printf("[death] %s died at %.1f,%.1f,%.1f", e, pos.X, pos.Y, pos.Z)
	}
}
