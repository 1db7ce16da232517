package entity

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/prefabs"
)

func newBuilder(t *testing.T) *Builder {
	t.Helper()
	catalog, err := prefabs.LoadWeaponCatalog()
	if err != nil {
		t.Fatalf("weapon catalog: %v", err)
	}
	return &Builder{Weapons: catalog}
}

func withPrefab(t *testing.T, name, body string) {
	t.Helper()
	dir := t.TempDir()
	old := prefabs.Dir
	prefabs.Dir = dir
	t.Cleanup(func() { prefabs.Dir = old })
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestBuildAgents(t *testing.T) {
	cases := []struct {
		prefab string
		kind   core.AttackKind
		speed  float64
		stop   float64
		hp     int
	}{
		{"grunt.yaml", core.AttackMelee, 5, 2, 100},
		{"gunner.yaml", core.AttackHitscan, 3, 10, 100},
		{"spitter.yaml", core.AttackProjectile, 3, 10, 100},
		{"shotgunner.yaml", core.AttackHitscan, 4, 6, 150},
	}
	for _, c := range cases {
		t.Run(c.prefab, func(t *testing.T) {
			w := ecs.NewWorld()
			var died []*core.Agent
			b := newBuilder(t)
			b.Deaths = core.DeathListenerFunc(func(a *core.Agent) { died = append(died, a) })

			pos := common.V3(3, 1, 4)
			e, err := b.Build(w, c.prefab, pos, common.V3(-1, 0, 0))
			if err != nil {
				t.Fatal(err)
			}
			a, ok := ecs.Get(w, e, component.AgentComponent.Kind())
			if !ok {
				t.Fatalf("no agent component")
			}
			if a.ID != e.Ref() || a.Weapon.Kind != c.kind || a.Speed != c.speed || a.StopDistance != c.stop {
				t.Fatalf("agent = %+v", a)
			}
			if a.Position != pos || a.Facing != common.V3(-1, 0, 0) || a.Faction != core.FactionEnemy {
				t.Fatalf("agent placement = %v %v %v", a.Position, a.Facing, a.Faction)
			}
			pool, _ := ecs.Get(w, e, component.HealthComponent.Kind())
			if a.Health != pool || pool.MaxHP() != c.hp {
				t.Fatalf("agent health not shared with the entity")
			}
			if !ecs.Has(w, e, component.AITagComponent.Kind()) || !ecs.Has(w, e, component.ColliderComponent.Kind()) {
				t.Fatalf("missing tag or collider")
			}
			arch, _ := ecs.Get(w, e, component.ArchetypeComponent.Kind())
			if arch == nil || arch.Name != strings.TrimSuffix(c.prefab, ".yaml") {
				t.Fatalf("archetype = %+v", arch)
			}

			pool.ApplyDamage(10000, core.CombatEvent{})
			if len(died) != 1 || died[0] != a {
				t.Fatalf("death listener not attached")
			}
		})
	}
}

func TestBuildPlayer(t *testing.T) {
	w := ecs.NewWorld()
	e, err := newBuilder(t).Build(w, "player.yaml", common.V3(0, 0, -15), common.Zero)
	if err != nil {
		t.Fatal(err)
	}
	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	if !ok {
		t.Fatalf("no player component")
	}
	if p.Locomotion == nil || p.Locomotion.MoveSpeed != 16 || p.EyeHeight != 1.6 {
		t.Fatalf("player = %+v", p)
	}
	if cur := p.Arsenal.Current(); cur == nil || cur.Name != "pistol" || !cur.Infinite {
		t.Fatalf("starting weapon = %+v", cur)
	}
	if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) || !ecs.Has(w, e, component.InputComponent.Kind()) {
		t.Fatalf("missing tag or input")
	}
	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tr.Facing != common.Forward {
		t.Fatalf("zero facing should keep the prefab's, got %v", tr.Facing)
	}
	pool, _ := ecs.Get(w, e, component.HealthComponent.Kind())
	if pool.MaxArmorValue() != 100 || pool.CurrentArmor() != 0 {
		t.Fatalf("player armor = %d/%d", pool.CurrentArmor(), pool.MaxArmorValue())
	}
}

func TestBuildPickups(t *testing.T) {
	cases := []struct {
		prefab string
		kind   component.PickupKind
		ttl    bool
	}{
		{"health_pack.yaml", component.PickupHealth, true},
		{"armor_shard.yaml", component.PickupArmor, true},
		{"shotgun_pickup.yaml", component.PickupWeapon, false},
	}
	for _, c := range cases {
		t.Run(c.prefab, func(t *testing.T) {
			w := ecs.NewWorld()
			e, err := newBuilder(t).Build(w, c.prefab, common.V3(1, 0.5, 1), common.Zero)
			if err != nil {
				t.Fatal(err)
			}
			p, ok := ecs.Get(w, e, component.PickupComponent.Kind())
			if !ok || p.Kind != c.kind {
				t.Fatalf("pickup = %+v", p)
			}
			if ecs.Has(w, e, component.TTLComponent.Kind()) != c.ttl {
				t.Fatalf("ttl presence mismatch")
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{"unknown_component", "name: odd\ncomponents:\n  transform: {}\n  jetpack: {}\n", "jetpack"},
		{"agent_without_health", "name: ghost\ncomponents:\n  agent:\n    weapon: {kind: melee}\n", "health"},
		{"bad_weapon", "name: odd\ncomponents:\n  health: {max_health: 10}\n  agent:\n    weapon: {kind: laser}\n", "laser"},
		{"empty", "name: empty\n", "does not define components"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			withPrefab(t, "broken.yaml", c.body)
			w := ecs.NewWorld()
			_, err := newBuilder(t).Build(w, "broken.yaml", common.Zero, common.Zero)
			if err == nil || !strings.Contains(err.Error(), c.want) {
				t.Fatalf("err = %v, want mention of %q", err, c.want)
			}
			if ecs.EntityCount(w) != 0 {
				t.Fatalf("failed build left %d entities", ecs.EntityCount(w))
			}
		})
	}

	if _, err := newBuilder(t).Build(ecs.NewWorld(), "missing.yaml", common.Zero, common.Zero); err == nil {
		t.Fatalf("missing prefab built")
	}
}

func TestSpawner(t *testing.T) {
	w := ecs.NewWorld()
	s := NewSpawner(w, newBuilder(t))

	ref := s.Spawn("grunt.yaml", common.V3(1, 0, 1), common.Forward)
	if !ref.Valid() || !ecs.IsAlive(w, ecs.FromRef(ref)) {
		t.Fatalf("spawn failed")
	}
	if bad := s.Spawn("nope.yaml", common.Zero, common.Forward); bad.Valid() {
		t.Fatalf("bad prefab returned a ref")
	}

	s.Destroy(ref, 2)
	ttl, ok := ecs.Get(w, ecs.FromRef(ref), component.TTLComponent.Kind())
	if !ok || ttl.Remaining != 2 {
		t.Fatalf("delayed destroy should attach a ttl")
	}
	s.Destroy(ref, 0)
	if ecs.IsAlive(w, ecs.FromRef(ref)) {
		t.Fatalf("immediate destroy failed")
	}
}
