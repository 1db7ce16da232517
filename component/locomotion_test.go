package component

import (
	"testing"

	"github.com/milk9111/horde/common"
)

func TestLocomotionGroundJump(t *testing.T) {
	l := DefaultLocomotion()
	move := l.Step(LocomotionInput{Jump: true, Grounded: true}, common.Forward, 0.1)
	if l.VerticalVelocity() != 16 {
		t.Fatalf("vertical velocity = %v", l.VerticalVelocity())
	}
	if !approx(move.Y, 1.6) {
		t.Fatalf("move = %+v", move)
	}
}

func TestLocomotionGroundedSticksDown(t *testing.T) {
	l := DefaultLocomotion()
	l.SetVerticalVelocity(-12)
	l.Step(LocomotionInput{Grounded: true}, common.Forward, 0.1)
	if l.VerticalVelocity() != -1 {
		t.Fatalf("vertical velocity = %v, want -1", l.VerticalVelocity())
	}
}

func TestLocomotionCoyoteTime(t *testing.T) {
	l := DefaultLocomotion()
	l.Step(LocomotionInput{Grounded: true}, common.Forward, 0.05)
	l.Step(LocomotionInput{}, common.Forward, 0.05)
	l.Step(LocomotionInput{Jump: true}, common.Forward, 0.05)

	// Jump force minus one tick of gravity.
	if want := 16 - 35*0.05; !approx(l.VerticalVelocity(), want) {
		t.Fatalf("vertical velocity = %v, want %v", l.VerticalVelocity(), want)
	}
	if !l.DoubleJump.Available(false) {
		t.Fatalf("a coyote jump should leave the double jump available")
	}
}

func TestLocomotionDoubleJump(t *testing.T) {
	l := DefaultLocomotion()
	l.Step(LocomotionInput{Grounded: true}, common.Forward, 0.05)
	for i := 0; i < 3; i++ {
		l.Step(LocomotionInput{}, common.Forward, 0.05)
	}

	l.Step(LocomotionInput{Jump: true}, common.Forward, 0.05)
	if want := 14 - 35*0.05; !approx(l.VerticalVelocity(), want) {
		t.Fatalf("after double jump vy = %v, want %v", l.VerticalVelocity(), want)
	}

	before := l.VerticalVelocity()
	l.Step(LocomotionInput{Jump: true}, common.Forward, 0.05)
	if want := before - 35*0.05; !approx(l.VerticalVelocity(), want) {
		t.Fatalf("second air jump should do nothing, vy = %v", l.VerticalVelocity())
	}

	l.Step(LocomotionInput{Grounded: true}, common.Forward, 0.05)
	if !l.DoubleJump.Available(false) {
		t.Fatalf("landing should re-arm the double jump")
	}
}

func TestLocomotionAirControl(t *testing.T) {
	ground := DefaultLocomotion()
	air := DefaultLocomotion()
	in := LocomotionInput{Move: common.V3(1, 0, 0)}

	in.Grounded = true
	g := ground.Step(in, common.Forward, 0.01)
	in.Grounded = false
	a := air.Step(in, common.Forward, 0.01)
	if !(a.X < g.X) {
		t.Fatalf("air accel %v should be weaker than ground %v", a.X, g.X)
	}
}

func TestLocomotionDash(t *testing.T) {
	l := DefaultLocomotion()
	move := l.Step(LocomotionInput{Move: common.V3(1, 0, 0), Dash: true, Grounded: true}, common.Forward, 0.1)
	// Ground velocity snaps to 10 in one tick, plus the dash speed of 30.
	if !approx(move.X, 4) {
		t.Fatalf("dash move = %+v", move)
	}
	if !l.Dashing() {
		t.Fatalf("dash should still be active")
	}

	l.Step(LocomotionInput{Grounded: true}, common.Forward, 0.1)
	l.Step(LocomotionInput{Dash: true, Grounded: true}, common.Forward, 0.1)
	if l.Dashing() {
		t.Fatalf("dash should be on cooldown")
	}
}

func TestLocomotionDashUsesFacingWithoutInput(t *testing.T) {
	l := DefaultLocomotion()
	move := l.Step(LocomotionInput{Dash: true, Grounded: true}, common.V3(0, 0, -1), 0.1)
	if !approx(move.Z, -3) {
		t.Fatalf("move = %+v", move)
	}
}

func TestJumpPadLaunch(t *testing.T) {
	l := DefaultLocomotion()
	JumpPad{Force: 20}.Launch(l)
	if l.VerticalVelocity() != 20 {
		t.Fatalf("vy = %v", l.VerticalVelocity())
	}
	JumpPad{Force: 20}.Launch(nil)
}
