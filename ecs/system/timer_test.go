package system

import (
	"testing"

	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

func TestFormatTime(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "00:00:000"},
		{-3, "00:00:000"},
		{1.5, "00:01:500"},
		{125.25, "02:05:250"},
		{600, "10:00:000"},
	}
	for _, c := range cases {
		if got := FormatTime(c.in); got != c.want {
			t.Fatalf("FormatTime(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTimerCountDownExpires(t *testing.T) {
	w := ecs.NewWorld()
	timer := &component.GameTimer{Duration: 1, CountDown: true, Running: true}
	mustAdd(t, w, ecs.CreateEntity(w), component.GameTimerComponent.Kind(), timer)

	log := &eventLog{}
	s := ecs.NewScheduler(NewTimerSystem(), log)
	for i := 0; i < 3; i++ {
		s.Step(w, 0.25)
	}
	if timer.Ended || Remaining(timer) != 0.25 {
		t.Fatalf("timer ended early: %+v", timer)
	}
	s.Step(w, 0.25)
	s.Step(w, 0.25)

	if !timer.Ended || timer.Running || Remaining(timer) != 0 {
		t.Fatalf("timer = %+v", timer)
	}
	if n := log.count(ecs.EventTimerExpired); n != 1 {
		t.Fatalf("expired events = %d", n)
	}
}

func TestTimerFreezes(t *testing.T) {
	cases := []struct {
		name string
		evt  ecs.Event
	}{
		{"player_died", ecs.Event{Type: ecs.EventPlayerDied}},
		{"end_portal", ecs.Event{Type: ecs.EventPortalEntered, Data: component.Portal{Tier: component.TierEnd}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := ecs.NewWorld()
			timer := &component.GameTimer{Running: true}
			mustAdd(t, w, ecs.CreateEntity(w), component.GameTimerComponent.Kind(), timer)

			push := &pushSystem{}
			s := ecs.NewScheduler(push, NewTimerSystem())
			s.Step(w, 0.5)
			s.Step(w, 0.5)
			evt := c.evt
			push.next = &evt
			s.Step(w, 0.5)
			s.Step(w, 0.5)

			if !timer.Ended || timer.Elapsed != 1 {
				t.Fatalf("timer = %+v", timer)
			}
		})
	}

	w := ecs.NewWorld()
	timer := &component.GameTimer{Running: true}
	mustAdd(t, w, ecs.CreateEntity(w), component.GameTimerComponent.Kind(), timer)
	push := &pushSystem{next: &ecs.Event{Type: ecs.EventPortalEntered, Data: component.Portal{Tier: component.TierHard}}}
	ecs.NewScheduler(push, NewTimerSystem()).Step(w, 0.5)
	if timer.Ended {
		t.Fatalf("a normal portal must not stop the clock")
	}
}
