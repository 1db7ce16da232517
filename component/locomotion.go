package component

import "github.com/milk9111/horde/common"

// LocomotionInput is one tick of player intent.
type LocomotionInput struct {
	// Move is the desired horizontal direction in world space.
	Move     common.Vec3
	Jump     bool
	Dash     bool
	Grounded bool
}

// Locomotion is the player's character controller: snap-to-speed ground
// movement, weak air control, gravity, jumping with coyote time and dashing.
type Locomotion struct {
	MoveSpeed  float64
	MoveSnap   float64
	Gravity    float64
	JumpForce  float64
	AirControl float64
	// CoyoteTime is how long after leaving the ground a jump still counts
	// as grounded.
	CoyoteTime float64

	DashSpeed    float64
	DashDuration float64
	DashCooldown Cooldown

	DoubleJump DoubleJump

	velocity  common.Vec3
	yVelocity float64
	external  common.Vec3
	coyote    float64
	dashLeft  float64
	dashDir   common.Vec3
	grounded  bool
}

// DefaultLocomotion returns the stock player tuning.
func DefaultLocomotion() *Locomotion {
	l := &Locomotion{
		MoveSpeed:    16,
		MoveSnap:     100,
		Gravity:      -35,
		JumpForce:    16,
		AirControl:   0.1,
		CoyoteTime:   0.12,
		DashSpeed:    30,
		DashDuration: 0.15,
		DashCooldown: NewCooldown(0.5),
	}
	l.DoubleJump = DoubleJump{Force: 14, Enabled: true, Controller: l}
	return l
}

func (l *Locomotion) VerticalVelocity() float64 {
	return l.yVelocity
}

func (l *Locomotion) SetVerticalVelocity(v float64) {
	l.yVelocity = v
}

// AddExternalVelocity adds a one-tick push (knockback, conveyor).
func (l *Locomotion) AddExternalVelocity(v common.Vec3) {
	l.external = l.external.Add(v)
}

// Dashing reports whether a dash is in progress.
func (l *Locomotion) Dashing() bool {
	return l.dashLeft > 0
}

// Grounded reports the grounded flag seen on the last Step.
func (l *Locomotion) Grounded() bool {
	return l.grounded
}

// Step returns the displacement for this tick.
func (l *Locomotion) Step(in LocomotionInput, facing common.Vec3, dt float64) common.Vec3 {
	if l == nil || dt <= 0 {
		return common.Zero
	}
	l.grounded = in.Grounded
	l.DashCooldown.Tick(dt)

	if in.Grounded {
		l.coyote = l.CoyoteTime
	} else if l.coyote > 0 {
		l.coyote -= dt
	}

	wish := in.Move.Flat().ClampLen(1).Scale(l.MoveSpeed)
	control := 1.0
	if !in.Grounded {
		control = l.AirControl
	}
	l.velocity = moveTowards(l.velocity, wish, l.MoveSnap*control*dt)

	switch {
	case in.Jump && (in.Grounded || l.coyote > 0):
		l.yVelocity = l.JumpForce
		l.coyote = 0
	case in.Jump:
		l.DoubleJump.Try(false)
	case in.Grounded && l.yVelocity < 0:
		l.yVelocity = -1
	}
	if in.Grounded && !in.Jump {
		l.DoubleJump.Land()
	}
	if !in.Grounded {
		l.yVelocity += l.Gravity * dt
	}

	if in.Dash && l.DashCooldown.Ready() {
		dir := in.Move.Flat().Normalized()
		if dir.IsZero() {
			dir = facing.Flat().Normalized()
		}
		l.dashDir = dir
		l.dashLeft = l.DashDuration
		l.DashCooldown.Reset()
	}

	move := l.velocity.Add(l.external).Add(common.Up.Scale(l.yVelocity))
	l.external = common.Zero
	if l.dashLeft > 0 {
		move = move.Add(l.dashDir.Scale(l.DashSpeed))
		l.dashLeft -= dt
	}
	return move.Scale(dt)
}

// DoubleJump grants one extra jump while airborne. It drives vertical speed
// through the controller capability it was given.
type DoubleJump struct {
	Force      float64
	Enabled    bool
	Controller VerticalVelocityController
	used       bool
}

// Try performs the double jump if allowed.
func (d *DoubleJump) Try(grounded bool) bool {
	if d == nil || !d.Enabled || grounded || d.used || d.Controller == nil {
		return false
	}
	d.used = true
	d.Controller.SetVerticalVelocity(d.Force)
	return true
}

// Land re-arms the double jump.
func (d *DoubleJump) Land() {
	if d != nil {
		d.used = false
	}
}

// Available reports whether a double jump could fire right now.
func (d *DoubleJump) Available(grounded bool) bool {
	return d != nil && d.Enabled && !grounded && !d.used
}

// JumpPad launches whatever touches it straight up.
type JumpPad struct {
	Force float64
}

func (j JumpPad) Launch(c VerticalVelocityController) {
	if c == nil {
		return
	}
	c.SetVerticalVelocity(j.Force)
}

func moveTowards(cur, target common.Vec3, maxDelta float64) common.Vec3 {
	delta := target.Sub(cur)
	d := delta.Len()
	if d <= maxDelta || d < common.Epsilon {
		return target
	}
	return cur.Add(delta.Scale(maxDelta / d))
}
