package system

import (
	"testing"

	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

func TestTTLDestroysWhenElapsed(t *testing.T) {
	w := ecs.NewWorld()
	short := ecs.CreateEntity(w)
	long := ecs.CreateEntity(w)
	mustAdd(t, w, short, component.TTLComponent.Kind(), &component.TTL{Remaining: 0.25})
	mustAdd(t, w, long, component.TTLComponent.Kind(), &component.TTL{Remaining: 10})

	s := ecs.NewScheduler(NewTTLSystem())
	s.Step(w, testDT)
	s.Step(w, testDT)
	if !ecs.IsAlive(w, short) {
		t.Fatalf("destroyed before its time")
	}
	s.Step(w, testDT)
	if ecs.IsAlive(w, short) {
		t.Fatalf("ttl expired but entity alive")
	}
	if !ecs.IsAlive(w, long) {
		t.Fatalf("wrong entity destroyed")
	}
}
