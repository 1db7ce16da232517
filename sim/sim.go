// Package sim assembles a playable arena: world, physics, prefabs and the
// system pipeline, in the order the systems depend on each other.
package sim

import (
	"fmt"
	"log"
	"path/filepath"

	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/ecs/entity"
	"github.com/milk9111/horde/ecs/system"
	"github.com/milk9111/horde/prefabs"
)

type Config struct {
	Arena string
	Seed  int64
	Debug bool
}

// Outcome is how a run ended.
type Outcome string

const (
	OutcomeRunning Outcome = ""
	OutcomeDied    Outcome = "died"
	OutcomeEscaped Outcome = "escaped"
	OutcomeTimeout Outcome = "timeout"
)

type Sim struct {
	World     *ecs.World
	Physics   *ecs.PhysicsWorld
	Scheduler *ecs.Scheduler
	Arena     *entity.Arena
	Emitter   *core.CombatEventEmitter
	Builder   *entity.Builder
	Stats     Stats

	portal  *system.PortalSystem
	outcome Outcome
	last    []ecs.Event
	debug   bool
}

func New(cfg Config) (*Sim, error) {
	if cfg.Arena == "" {
		cfg.Arena = "arena.yaml"
	}
	catalog, err := prefabs.LoadWeaponCatalog()
	if err != nil {
		return nil, err
	}
	spec, err := prefabs.LoadArenaSpec(cfg.Arena)
	if err != nil {
		return nil, err
	}

	w := ecs.NewWorld()
	pw := ecs.NewPhysicsWorld()
	pw.Debug = cfg.Debug
	w.SetPhysicsWorld(pw)

	deaths := &system.DeathQueue{}
	builder := &entity.Builder{Weapons: catalog, Deaths: deaths}
	spawner := entity.NewSpawner(w, builder)

	var tiers *system.TierScript
	if spec.TierScript != "" {
		src, err := prefabs.LoadScript(spec.TierScript)
		if err != nil {
			return nil, fmt.Errorf("sim: load %s: %w", spec.TierScript, err)
		}
		if tiers, err = system.NewTierScript(src); err != nil {
			return nil, err
		}
	}

	s := &Sim{
		World:   w,
		Physics: pw,
		Emitter: &core.CombatEventEmitter{},
		Builder: builder,
		debug:   cfg.Debug,
	}
	s.Emitter.Subscribe(s.Stats.observe)

	resolver := core.NewCombatResolver(cfg.Seed)
	resolver.Emitter = s.Emitter

	agents := system.NewAgentSystem(resolver)
	agents.Debug = cfg.Debug
	waves := system.NewWaveSystem(spawner, cfg.Seed+1)
	waves.Debug = cfg.Debug
	s.portal = system.NewPortalSystem(tiers, spawner, cfg.Seed+2)
	s.portal.Rewards = spec.Rewards
	if spec.Growth > 0 {
		s.portal.Growth = spec.Growth
	}
	s.portal.Debug = cfg.Debug
	death := system.NewDeathSystem(deaths)
	death.Debug = cfg.Debug

	s.Scheduler = ecs.NewScheduler(
		system.NewPhysicsSystem(),
		system.NewPlayerControllerSystem(s.Emitter, cfg.Seed+3),
		agents,
		system.NewProjectileSystem(s.Emitter),
		death,
		waves,
		s.portal,
		system.NewPickupSystem(s.weapon),
		system.NewTimerSystem(),
		system.NewTTLSystem(),
		recorder{s},
	)

	arena, err := entity.LoadArena(w, spec, builder)
	if err != nil {
		return nil, err
	}
	s.Arena = arena
	s.Stats.player = arena.Player.Ref()
	s.Stats.FirstAttackTick = -1
	if _, _, pool := s.Player(); pool != nil {
		pool.OnDamage = s.Stats.damaged
	}
	return s, nil
}

func (s *Sim) weapon(name string) (*core.PlayerWeapon, bool) {
	wpn, err := s.Builder.Weapons.PlayerWeapon(name)
	if err != nil {
		log.Printf("[sim] %v", err)
		return nil, false
	}
	return wpn, true
}

// Step advances the simulation by dt seconds. Finished runs do not advance.
func (s *Sim) Step(dt float64) {
	if s.outcome != OutcomeRunning {
		return
	}
	s.Scheduler.Step(s.World, dt)
}

// Events returns the events raised during the last step.
func (s *Sim) Events() []ecs.Event {
	return s.last
}

func (s *Sim) Outcome() Outcome {
	return s.outcome
}

// SetInput replaces the player's intent for the next step.
func (s *Sim) SetInput(in component.Input) {
	if cur, ok := ecs.Get(s.World, s.Arena.Player, component.InputComponent.Kind()); ok {
		*cur = in
	}
}

func (s *Sim) Player() (*component.Player, *component.Transform, *core.HealthPool) {
	p, _ := ecs.Get(s.World, s.Arena.Player, component.PlayerComponent.Kind())
	t, _ := ecs.Get(s.World, s.Arena.Player, component.TransformComponent.Kind())
	h, _ := ecs.Get(s.World, s.Arena.Player, component.HealthComponent.Kind())
	return p, t, h
}

func (s *Sim) Timer() *component.GameTimer {
	t, _ := ecs.Get(s.World, s.Arena.Timer, component.GameTimerComponent.Kind())
	return t
}

// Reload applies a changed prefab file. Entity prefabs are read on every
// spawn, so only the weapon table and scripts need work here.
func (s *Sim) Reload(name string) error {
	switch base := filepath.Base(name); {
	case base == "weapons.yaml":
		catalog, err := prefabs.LoadWeaponCatalog()
		if err != nil {
			return err
		}
		s.Builder.Weapons = catalog
	case filepath.Ext(base) == ".tengo":
		src, err := prefabs.LoadScript(base)
		if err != nil {
			return err
		}
		tiers, err := system.NewTierScript(src)
		if err != nil {
			return err
		}
		s.portal.Script = tiers
	default:
		return nil
	}
	log.Printf("[sim] reloaded %s", name)
	return nil
}

// recorder runs last and keeps the step's events before they are flushed.
type recorder struct {
	s *Sim
}

func (r recorder) Update(w *ecs.World) {
	items := w.Events().Items()
	r.s.last = append(r.s.last[:0], items...)
	for _, evt := range items {
		switch evt.Type {
		case ecs.EventAgentSpawned:
			r.s.Stats.Spawned++
		case ecs.EventAgentDied:
			r.s.Stats.Killed++
		case ecs.EventPlayerDied:
			r.s.outcome = OutcomeDied
		case ecs.EventTimerExpired:
			if r.s.outcome == OutcomeRunning {
				r.s.outcome = OutcomeTimeout
			}
		case ecs.EventPortalEntered:
			if p, ok := evt.Data.(component.Portal); ok && p.Tier == component.TierEnd && r.s.outcome == OutcomeRunning {
				r.s.outcome = OutcomeEscaped
			}
		}
	}
	if r.s.Stats.FirstAttackTick < 0 && r.s.Stats.Attacks > 0 {
		r.s.Stats.FirstAttackTick = int64(w.Tick())
	}
}
