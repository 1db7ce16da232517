package ecs

import (
	"errors"
	"testing"

	"github.com/milk9111/horde/ecs/component"
)

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func TestEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex < 0 {
				return
			}
			e := ents[c.destroyIndex]
			if !DestroyEntity(w, e) {
				t.Fatalf("DestroyEntity should return true for alive entity")
			}
			if IsAlive(w, e) {
				t.Fatalf("entity should not be alive after destruction")
			}
			if DestroyEntity(w, e) {
				t.Fatalf("second DestroyEntity should return false")
			}
			if EntityCount(w) != c.create-1 {
				t.Fatalf("count = %d", EntityCount(w))
			}
		})
	}
}

func TestStaleHandleAfterSlotReuse(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, kind, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	DestroyEntity(w, old)

	fresh := CreateEntity(w)
	if fresh.id() != old.id() {
		t.Fatalf("expected slot reuse, got %s after %s", fresh, old)
	}
	if fresh == old || IsAlive(w, old) {
		t.Fatalf("stale handle %s must not alias %s", old, fresh)
	}
	if _, ok := Get(w, fresh, kind); ok {
		t.Fatalf("new entity inherited a destroyed entity's component")
	}
	if err := Add(w, old, kind, intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("add to stale handle: err = %v", err)
	}
	if FromRef(fresh.Ref()) != fresh {
		t.Fatalf("ref round trip changed the handle")
	}
}

func TestComponents(t *testing.T) {
	w := NewWorld()
	ints := component.NewComponent[int]()
	strs := component.NewComponent[string]()
	e1 := CreateEntity(w)
	e2 := CreateEntity(w)

	tests := []struct {
		name  string
		setup func() error
		check func(t *testing.T)
	}{
		{
			name:  "add_and_get",
			setup: func() error { return Add(w, e1, ints.Kind(), intPtr(10)) },
			check: func(t *testing.T) {
				v, ok := Get(w, e1, ints.Kind())
				if !ok || *v != 10 {
					t.Fatalf("expected 10, got %v ok=%v", v, ok)
				}
			},
		},
		{
			name:  "pointer_is_shared",
			setup: func() error { return nil },
			check: func(t *testing.T) {
				v, _ := Get(w, e1, ints.Kind())
				*v = 11
				again, _ := Get(w, e1, ints.Kind())
				if *again != 11 {
					t.Fatalf("writes through Get should persist, got %d", *again)
				}
			},
		},
		{
			name: "two_entities",
			setup: func() error {
				if err := Add(w, e1, strs.Kind(), stringPtr("a")); err != nil {
					return err
				}
				return Add(w, e2, strs.Kind(), stringPtr("b"))
			},
			check: func(t *testing.T) {
				if !Has(w, e1, strs.Kind()) || !Has(w, e2, strs.Kind()) {
					t.Fatalf("expected both entities to have string component")
				}
				if Count(w, strs.Kind()) != 2 {
					t.Fatalf("count = %d", Count(w, strs.Kind()))
				}
			},
		},
		{
			name:  "remove",
			setup: func() error { return nil },
			check: func(t *testing.T) {
				if !Remove(w, e1, strs.Kind()) {
					t.Fatalf("remove reported nothing removed")
				}
				if Has(w, e1, strs.Kind()) || !Has(w, e2, strs.Kind()) {
					t.Fatalf("remove touched the wrong entity")
				}
			},
		},
		{
			name:  "nil_value_rejected",
			setup: func() error { return nil },
			check: func(t *testing.T) {
				if err := Add[int](w, e2, ints.Kind(), nil); !errors.Is(err, component.ErrNilComponent) {
					t.Fatalf("err = %v", err)
				}
			},
		},
		{
			name:  "destroy_clears_components",
			setup: func() error { return nil },
			check: func(t *testing.T) {
				DestroyEntity(w, e2)
				if Count(w, strs.Kind()) != 0 {
					t.Fatalf("destroyed entity still counted")
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
		})
	}
}

func TestForEachIntersections(t *testing.T) {
	w := NewWorld()
	ka := component.NewComponentKind[int]()
	kb := component.NewComponentKind[int]()
	kc := component.NewComponentKind[int]()
	kd := component.NewComponentKind[int]()

	e1 := CreateEntity(w)
	e2 := CreateEntity(w)
	e3 := CreateEntity(w)
	dead := CreateEntity(w)

	for _, e := range []Entity{e1, e2, dead} {
		_ = Add(w, e, ka, intPtr(1))
		_ = Add(w, e, kb, intPtr(2))
	}
	_ = Add(w, e2, kc, intPtr(3))
	_ = Add(w, dead, kc, intPtr(3))
	_ = Add(w, e3, kb, intPtr(4))
	DestroyEntity(w, dead)

	var one, two, three, four []Entity
	ForEach(w, kb, func(e Entity, _ *int) { one = append(one, e) })
	ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { two = append(two, e) })
	ForEach3(w, ka, kb, kc, func(e Entity, _ *int, _ *int, _ *int) { three = append(three, e) })
	ForEach4(w, ka, kb, kc, kd, func(e Entity, _ *int, _ *int, _ *int, _ *int) { four = append(four, e) })

	set := toSet(one)
	for _, e := range []Entity{e1, e2, e3} {
		if _, ok := set[e]; !ok {
			t.Fatalf("ForEach missed %s", e)
		}
	}
	if len(one) != 3 || len(two) != 2 {
		t.Fatalf("ForEach=%v ForEach2=%v", one, two)
	}
	if len(three) != 1 || three[0] != e2 {
		t.Fatalf("expected only e2, got %v", three)
	}
	if len(four) != 0 {
		t.Fatalf("missing store should yield nothing, got %v", four)
	}
}

func TestForEachAllowsDestroyDuringIteration(t *testing.T) {
	w := NewWorld()
	kind := component.NewComponentKind[int]()
	for i := 0; i < 5; i++ {
		_ = Add(w, CreateEntity(w), kind, intPtr(i))
	}

	visited := 0
	ForEach(w, kind, func(e Entity, v *int) {
		visited++
		DestroyEntity(w, e)
	})
	if visited != 5 || Count(w, kind) != 0 {
		t.Fatalf("visited=%d remaining=%d", visited, Count(w, kind))
	}
	if _, ok := First(w, kind); ok {
		t.Fatalf("First found a destroyed entity")
	}
}

type recordingSystem struct {
	name string
	log  *[]string
	push EventType
	seen int
}

func (s *recordingSystem) Update(w *World) {
	*s.log = append(*s.log, s.name)
	if s.push != "" {
		w.Events().Push(Event{Type: s.push})
	}
	w.Events().Each(EventWaveCleared, func(Event) { s.seen++ })
}

func TestSchedulerStep(t *testing.T) {
	w := NewWorld()
	var order []string
	producer := &recordingSystem{name: "wave", log: &order, push: EventWaveCleared}
	consumer := &recordingSystem{name: "portal", log: &order}
	s := NewScheduler(producer, consumer)

	s.Step(w, 0.02)
	s.Step(w, 0.02)

	if len(order) != 4 || order[0] != "wave" || order[1] != "portal" {
		t.Fatalf("order = %v", order)
	}
	if consumer.seen != 2 {
		t.Fatalf("consumer saw %d events, want one per step", consumer.seen)
	}
	if w.Tick() != 2 || w.DeltaTime() != 0.02 {
		t.Fatalf("tick=%d dt=%v", w.Tick(), w.DeltaTime())
	}
	if len(w.Events().Items()) != 0 {
		t.Fatalf("events should be flushed after a step")
	}
}
