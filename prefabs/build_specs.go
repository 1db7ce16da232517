package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a name plus one entry per component.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type TransformComponentSpec struct {
	Position Vec3Spec `yaml:"position"`
	Facing   Vec3Spec `yaml:"facing"`
}

type ColliderComponentSpec struct {
	Radius float64  `yaml:"radius"`
	Height float64  `yaml:"height"`
	Layers []string `yaml:"layers"`
}

type HealthComponentSpec struct {
	MaxHealth int `yaml:"max_health"`
	MaxArmor  int `yaml:"max_armor"`
	Armor     int `yaml:"armor"`
}

type TeamComponentSpec struct {
	Faction string `yaml:"faction"`
}

type SteeringComponentSpec struct {
	SeparationRadius   *float64 `yaml:"separation_radius"`
	SeparationStrength *float64 `yaml:"separation_strength"`
	WobbleAmount       *float64 `yaml:"wobble_amount"`
	WobbleSpeed        *float64 `yaml:"wobble_speed"`
	AvoidDistance      *float64 `yaml:"avoid_distance"`
	AvoidStrength      *float64 `yaml:"avoid_strength"`
	SphereRadius       *float64 `yaml:"sphere_radius"`
	SideCasts          *bool    `yaml:"side_casts"`
	SideCastAngle      *float64 `yaml:"side_cast_angle"`
}

type AgentComponentSpec struct {
	Speed              float64               `yaml:"speed"`
	StopDistance       float64               `yaml:"stop_distance"`
	EyeHeight          *float64              `yaml:"eye_height"`
	AimHeight          *float64              `yaml:"aim_height"`
	ClimbCheckDistance *float64              `yaml:"climb_check_distance"`
	ClimbSpeed         *float64              `yaml:"climb_speed"`
	ClimbThreshold     *float64              `yaml:"climb_threshold"`
	VisionMask         []string              `yaml:"vision_mask"`
	Weapon             WeaponSpec            `yaml:"weapon"`
	Steering           SteeringComponentSpec `yaml:"steering"`
}

type PlayerComponentSpec struct {
	MoveSpeed    float64  `yaml:"move_speed"`
	Gravity      float64  `yaml:"gravity"`
	JumpForce    float64  `yaml:"jump_force"`
	AirControl   float64  `yaml:"air_control"`
	CoyoteTime   float64  `yaml:"coyote_time"`
	DoubleJump   float64  `yaml:"double_jump"`
	DashSpeed    float64  `yaml:"dash_speed"`
	DashDuration float64  `yaml:"dash_duration"`
	DashCooldown float64  `yaml:"dash_cooldown"`
	Radius       float64  `yaml:"radius"`
	Height       float64  `yaml:"height"`
	EyeHeight    float64  `yaml:"eye_height"`
	Weapons      []string `yaml:"weapons"`
}

type PickupComponentSpec struct {
	Kind          string  `yaml:"kind"`
	Amount        int     `yaml:"amount"`
	Weapon        string  `yaml:"weapon"`
	AttractRange  float64 `yaml:"attract_range"`
	AttractSpeed  float64 `yaml:"attract_speed"`
	CollectRadius float64 `yaml:"collect_radius"`
}

type TTLComponentSpec struct {
	Seconds float64 `yaml:"seconds"`
}
