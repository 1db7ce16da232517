package sim

import (
	"sort"

	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// Stats accumulates what happened during a run.
type Stats struct {
	Spawned     int
	Killed      int
	Attacks     int
	PlayerShots int
	// DamageTaken counts what reached the player's pool, armor included.
	DamageTaken int
	// DamageDealt is what the player's hits tried to deal.
	DamageDealt int
	// FirstAttackTick is the tick an agent first fired, or -1.
	FirstAttackTick int64

	player core.EntityRef
}

func (st *Stats) observe(evt core.CombatEvent) {
	switch evt.Type {
	case core.EventFired:
		if evt.AttackerID == st.player {
			st.PlayerShots++
		} else {
			st.Attacks++
		}
	case core.EventHit:
		if evt.AttackerID == st.player {
			st.DamageDealt += evt.Damage
		}
	}
}

func (st *Stats) damaged(_ *core.HealthPool, evt core.CombatEvent) {
	st.DamageTaken += evt.Damage + evt.Absorbed
}

// StateCount is how many live agents are in one engagement state.
type StateCount struct {
	State core.EngagementState
	Count int
}

// Census counts live agents by engagement state, in state order.
func (s *Sim) Census() []StateCount {
	counts := make(map[core.EngagementState]int)
	ecs.ForEach(s.World, component.AgentComponent.Kind(), func(_ ecs.Entity, a *core.Agent) {
		if !a.Dead() {
			counts[a.Engagement.Current]++
		}
	})
	out := make([]StateCount, 0, len(counts))
	for state, n := range counts {
		out = append(out, StateCount{State: state, Count: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}
