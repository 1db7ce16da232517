package system

import (
	"fmt"
	"log"
	"math"

	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
)

// TimerSystem runs the run clock. Counting down ends the timer at zero; the
// player's death or entering the end portal ends it as well. An ended timer
// never moves again.
type TimerSystem struct{}

func NewTimerSystem() *TimerSystem {
	return &TimerSystem{}
}

func (s *TimerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	stop := false
	w.Events().Each(ecs.EventPlayerDied, func(ecs.Event) { stop = true })
	w.Events().Each(ecs.EventPortalEntered, func(evt ecs.Event) {
		if p, ok := evt.Data.(component.Portal); ok && p.Tier == component.TierEnd {
			stop = true
		}
	})

	dt := w.DeltaTime()
	ecs.ForEach(w, component.GameTimerComponent.Kind(), func(e ecs.Entity, t *component.GameTimer) {
		if t.Ended {
			return
		}
		if stop {
			endTimer(w, e, t)
			return
		}
		if !t.Running {
			return
		}
		t.Elapsed += dt
		if t.CountDown && t.Elapsed >= t.Duration {
			t.Elapsed = t.Duration
			w.Events().Push(ecs.Event{Type: ecs.EventTimerExpired, Entity: e})
			endTimer(w, e, t)
		}
	})
}

func endTimer(w *ecs.World, e ecs.Entity, t *component.GameTimer) {
	t.Running = false
	t.Ended = true
	log.Printf("[timer] ended at %s (tick %d)", FormatTime(Remaining(t)), w.Tick())
}

// Remaining is the value the clock shows: time left when counting down,
// time elapsed otherwise.
func Remaining(t *component.GameTimer) float64 {
	if t == nil {
		return 0
	}
	if t.CountDown {
		return math.Max(0, t.Duration-t.Elapsed)
	}
	return t.Elapsed
}

// FormatTime renders seconds as MM:SS:mmm.
func FormatTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int64(math.Floor(seconds * 1000))
	minutes := total / 60000
	secs := (total / 1000) % 60
	millis := total % 1000
	return fmt.Sprintf("%02d:%02d:%03d", minutes, secs, millis)
}
