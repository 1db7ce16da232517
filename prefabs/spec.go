package prefabs

import (
	"fmt"
	"strings"

	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// Vec3Spec is written as `[x, y, z]` in YAML.
type Vec3Spec [3]float64

func (v Vec3Spec) Vec3() common.Vec3 {
	return common.V3(v[0], v[1], v[2])
}

// ArenaSpec lays out a level: static geometry, the player start, spawners,
// pickups and the run clock.
type ArenaSpec struct {
	Name     string          `yaml:"name"`
	Ground   GroundSpec      `yaml:"ground"`
	Boxes    []BoxSpec       `yaml:"boxes"`
	JumpPads []JumpPadSpec   `yaml:"jump_pads"`
	Player   PlacementSpec   `yaml:"player"`
	Spawners []SpawnerSpec   `yaml:"spawners"`
	Pickups  []PlacementSpec `yaml:"pickups"`
	Timer    TimerSpec       `yaml:"timer"`
	// TierScript is the tengo script that picks portal tiers.
	TierScript string            `yaml:"tier_script"`
	Rewards    map[string]string `yaml:"rewards"`
	Growth     int               `yaml:"growth"`
}

type GroundSpec struct {
	Enabled bool    `yaml:"enabled"`
	Y       float64 `yaml:"y"`
}

type BoxSpec struct {
	Name string   `yaml:"name"`
	Min  Vec3Spec `yaml:"min"`
	Max  Vec3Spec `yaml:"max"`
	// Walkable boxes are also on the ground layer.
	Walkable bool `yaml:"walkable"`
}

type JumpPadSpec struct {
	Position Vec3Spec `yaml:"position"`
	Force    float64  `yaml:"force"`
	Radius   float64  `yaml:"radius"`
}

type PlacementSpec struct {
	Prefab   string   `yaml:"prefab"`
	Position Vec3Spec `yaml:"position"`
	Facing   Vec3Spec `yaml:"facing"`
}

type SpawnerSpec struct {
	Name        string   `yaml:"name"`
	Portal      Vec3Spec `yaml:"portal"`
	Center      Vec3Spec `yaml:"center"`
	Radius      float64  `yaml:"radius"`
	Count       int      `yaml:"count"`
	Delay       float64  `yaml:"delay"`
	MinSpacing  float64  `yaml:"min_spacing"`
	SpawnHeight float64  `yaml:"spawn_height"`
	Archetypes  []string `yaml:"archetypes"`
	AutoStart   bool     `yaml:"auto_start"`
}

type TimerSpec struct {
	CountDown bool    `yaml:"count_down"`
	Minutes   float64 `yaml:"minutes"`
}

func LoadArenaSpec(filename string) (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec](filename)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// WeaponSpec describes one weapon. Kind selects which of the remaining
// fields apply.
type WeaponSpec struct {
	Kind     string    `yaml:"kind"`
	Damage   int       `yaml:"damage"`
	Cooldown float64   `yaml:"cooldown"`
	Mount    *Vec3Spec `yaml:"mount"`

	MeleeBuffer float64 `yaml:"melee_buffer"`

	Range   float64  `yaml:"range"`
	Pellets int      `yaml:"pellets"`
	Spread  float64  `yaml:"spread"`
	Mask    []string `yaml:"mask"`

	Speed        float64 `yaml:"speed"`
	Lifetime     float64 `yaml:"lifetime"`
	Radius       float64 `yaml:"radius"`
	SplashRadius float64 `yaml:"splash_radius"`
	Projectile   string  `yaml:"projectile"`

	Ammo      int  `yaml:"ammo"`
	Infinite  bool `yaml:"infinite"`
	Automatic bool `yaml:"automatic"`
}

func (s WeaponSpec) Weapon() (core.Weapon, error) {
	kind, ok := core.ParseAttackKind(s.Kind)
	if !ok {
		return core.Weapon{}, fmt.Errorf("unknown weapon kind %q", s.Kind)
	}
	mask, err := ParseLayers(s.Mask)
	if err != nil {
		return core.Weapon{}, err
	}
	w := core.Weapon{
		Kind:     kind,
		Damage:   s.Damage,
		Cooldown: s.Cooldown,
		Melee:    core.MeleeSpec{Buffer: s.MeleeBuffer},
		Hitscan: core.HitscanSpec{
			Range:   s.Range,
			Pellets: s.Pellets,
			Spread:  s.Spread,
			Mask:    mask,
		},
		Projectile: core.ProjectileSpec{
			Speed:        s.Speed,
			Lifetime:     s.Lifetime,
			Radius:       s.Radius,
			SplashRadius: s.SplashRadius,
			Prefab:       s.Projectile,
		},
	}
	if s.Mount != nil {
		m := s.Mount.Vec3()
		w.Mount = &m
	}
	return w, nil
}

// WeaponCatalog is the player's weapon table, keyed by weapon name.
type WeaponCatalog map[string]WeaponSpec

func LoadWeaponCatalog() (WeaponCatalog, error) {
	return LoadSpec[WeaponCatalog]("weapons.yaml")
}

// PlayerWeapon builds a fresh, fully loaded weapon by name.
func (c WeaponCatalog) PlayerWeapon(name string) (*core.PlayerWeapon, error) {
	spec, ok := c[name]
	if !ok {
		return nil, fmt.Errorf("prefabs: unknown weapon %q", name)
	}
	w, err := spec.Weapon()
	if err != nil {
		return nil, fmt.Errorf("prefabs: weapon %q: %w", name, err)
	}
	pw := core.NewPlayerWeapon(name, w, spec.Ammo, spec.Infinite)
	pw.Automatic = spec.Automatic
	return pw, nil
}

var layerNames = map[string]core.LayerMask{
	"obstacle":   core.LayerObstacle,
	"ground":     core.LayerGround,
	"agent":      core.LayerAgent,
	"target":     core.LayerTarget,
	"projectile": core.LayerProjectile,
	"pickup":     core.LayerPickup,
}

// ParseLayers ORs named layers together. An empty list is LayerNone.
func ParseLayers(names []string) (core.LayerMask, error) {
	var mask core.LayerMask
	for _, n := range names {
		bit, ok := layerNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return core.LayerNone, fmt.Errorf("unknown layer %q", n)
		}
		mask |= bit
	}
	return mask, nil
}

func ParseFaction(s string) (core.Faction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "neutral":
		return core.FactionNeutral, nil
	case "player":
		return core.FactionPlayer, nil
	case "enemy":
		return core.FactionEnemy, nil
	case "environment":
		return core.FactionEnvironment, nil
	}
	return core.FactionNeutral, fmt.Errorf("unknown faction %q", s)
}
