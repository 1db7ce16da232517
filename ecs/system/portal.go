package system

import (
	"log"
	"math"
	"math/rand"
	"sort"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// PortalSystem levels the player up when a wave is cleared and opens a portal
// whose tier comes from the tier script. Walking into a portal starts the
// next wave; treasure portals also drop a weapon the player does not own.
type PortalSystem struct {
	Script *TierScript
	// Spawner places treasure rewards.
	Spawner core.Spawner
	// Rewards maps weapon names to the pickup prefab that grants them.
	Rewards map[string]string
	// Growth is added to each spawner's count per level.
	Growth int
	Radius float64
	Rand   *rand.Rand
	Debug  bool
}

func NewPortalSystem(script *TierScript, spawner core.Spawner, seed int64) *PortalSystem {
	return &PortalSystem{
		Script:  script,
		Spawner: spawner,
		Growth:  1,
		Radius:  1.5,
		Rand:    rand.New(rand.NewSource(seed)),
	}
}

func (s *PortalSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	p, ok := playerEntity(w)
	if !ok {
		return
	}
	player, ok := ecs.Get(w, p, component.PlayerComponent.Kind())
	if !ok {
		return
	}

	w.Events().Each(ecs.EventWaveCleared, func(evt ecs.Event) {
		player.Level++
		tier := s.tier(player.Level)
		portal := ecs.CreateEntity(w)
		_ = ecs.Add(w, portal, component.TransformComponent.Kind(), &component.Transform{Position: evt.Pos, Facing: common.Forward})
		_ = ecs.Add(w, portal, component.PortalComponent.Kind(), &component.Portal{Tier: tier, Level: player.Level, Radius: s.Radius})
		w.Events().Push(ecs.Event{Type: ecs.EventPortalSpawned, Entity: portal, Pos: evt.Pos, Data: tier})
		log.Printf("[portal] level %d cleared, %s portal opened", player.Level, tier)
	})

	pt, ok := ecs.Get(w, p, component.TransformComponent.Kind())
	if !ok {
		return
	}
	if h, ok := ecs.Get(w, p, component.HealthComponent.Kind()); ok && !h.IsAlive() {
		return
	}
	ecs.ForEach2(w, component.PortalComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, portal *component.Portal, t *component.Transform) {
		if pt.Position.Flat().Dist(t.Position.Flat()) > portal.Radius || math.Abs(pt.Position.Y-t.Position.Y) > 2 {
			return
		}
		entered := *portal
		ecs.DestroyEntity(w, e)
		w.Events().Push(ecs.Event{Type: ecs.EventPortalEntered, Entity: e, Pos: t.Position, Data: entered})
		if s.Debug {
			log.Printf("[portal] entered %s portal at level %d", entered.Tier, entered.Level)
		}
		if entered.Tier == component.TierEnd {
			return
		}
		if entered.Tier == component.TierTreasure {
			s.reward(player, t.Position)
		}
		ecs.ForEach(w, component.WaveSpawnerComponent.Kind(), func(_ ecs.Entity, ws *component.WaveSpawner) {
			Rearm(ws, ws.Count+s.Growth)
		})
	})
}

func (s *PortalSystem) tier(level int) string {
	if s.Script == nil {
		return component.TierNormal
	}
	tier, err := s.Script.Tier(level)
	if err != nil {
		log.Printf("[portal] %v", err)
		return component.TierNormal
	}
	return tier
}

func (s *PortalSystem) reward(player *component.Player, pos common.Vec3) {
	if s.Spawner == nil || len(s.Rewards) == 0 {
		return
	}
	var missing []string
	for name := range s.Rewards {
		if player.Arsenal.Find(name) == nil {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		log.Printf("[portal] all weapons already owned")
		return
	}
	sort.Strings(missing)
	name := missing[s.Rand.Intn(len(missing))]
	s.Spawner.Spawn(s.Rewards[name], pos, common.Forward)
}
