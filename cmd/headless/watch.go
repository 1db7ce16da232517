package main

import (
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/milk9111/horde/common"
	core "github.com/milk9111/horde/component"
	"github.com/milk9111/horde/ecs"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/ecs/system"
	"github.com/milk9111/horde/sim"
)

// watchExtent is the half-size of the arena area mapped onto the terminal.
const watchExtent = 30.0

var (
	styleWall   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleFloor  = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	stylePickup = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleShot   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePortal = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleHUD    = tcell.StyleDefault.Foreground(tcell.ColorWhite).Reverse(true)
)

// watcher draws one run top-down in the terminal while it plays.
type watcher struct {
	screen        tcell.Screen
	width, height int

	sim    *sim.Sim
	pilot  pilot
	dt     float64
	tick   int
	ticks  int
	paused bool
}

func runWatch(cfg sim.Config, p pilot, ticks int, dt float64) error {
	s, err := sim.New(cfg)
	if err != nil {
		return err
	}
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("watch: create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("watch: init screen: %w", err)
	}
	defer screen.Fini()

	v := &watcher{screen: screen, sim: s, pilot: p, dt: dt, ticks: ticks}
	v.width, v.height = screen.Size()

	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	for {
		select {
		case ev := <-events:
			if !v.handle(ev) {
				return nil
			}
		case <-ticker.C:
			if !v.paused && v.tick < v.ticks && s.Outcome() == sim.OutcomeRunning {
				s.SetInput(p.input(s, v.tick, dt))
				s.Step(dt)
				v.tick++
			}
			v.draw()
		}
	}
}

func (v *watcher) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case 'p', ' ':
				v.paused = !v.paused
			}
		}
	case *tcell.EventResize:
		v.width, v.height = v.screen.Size()
		v.screen.Sync()
	}
	return true
}

// cell maps a world XZ position to a terminal cell. The map keeps one row
// for the status line.
func (v *watcher) cell(p common.Vec3) (int, int, bool) {
	rows := v.height - 1
	if v.width <= 0 || rows <= 0 {
		return 0, 0, false
	}
	x := int(math.Floor((p.X + watchExtent) / (2 * watchExtent) * float64(v.width)))
	y := int(math.Floor((watchExtent - p.Z) / (2 * watchExtent) * float64(rows)))
	if x < 0 || x >= v.width || y < 0 || y >= rows {
		return 0, 0, false
	}
	return x, y + 1, true
}

func (v *watcher) put(p common.Vec3, r rune, style tcell.Style) {
	if x, y, ok := v.cell(p); ok {
		v.screen.SetContent(x, y, r, nil, style)
	}
}

func (v *watcher) draw() {
	v.screen.Clear()
	w := v.sim.World

	ecs.ForEach(w, component.ObstacleComponent.Kind(), func(_ ecs.Entity, o *component.Obstacle) {
		r, style := '#', styleWall
		if o.Max.Y-o.Min.Y < 1 {
			r, style = '=', styleFloor
		}
		step := 2 * watchExtent / math.Max(float64(v.width), 1)
		for x := o.Min.X; x <= o.Max.X; x += step {
			for z := o.Min.Z; z <= o.Max.Z; z += step {
				v.put(common.V3(x, 0, z), r, style)
			}
		}
	})
	ecs.ForEach2(w, component.PickupComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Pickup, t *component.Transform) {
		v.put(t.Position, '+', stylePickup)
	})
	ecs.ForEach2(w, component.PortalComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Portal, t *component.Transform) {
		v.put(t.Position, 'O', stylePortal)
	})
	ecs.ForEach(w, component.ProjectileComponent.Kind(), func(_ ecs.Entity, p *core.Projectile) {
		v.put(p.Position, '*', styleShot)
	})
	ecs.ForEach(w, component.AgentComponent.Kind(), func(_ ecs.Entity, a *core.Agent) {
		if a.Dead() {
			v.put(a.Position, 'x', styleFloor)
			return
		}
		v.put(a.Position, stateGlyph(a.Engagement.Current), agentStyle(a.Engagement.Current))
	})
	if _, tr, _ := v.sim.Player(); tr != nil {
		v.put(tr.Position, '@', stylePlayer)
	}

	v.status()
	v.screen.Show()
}

func agentStyle(s core.EngagementState) tcell.Style {
	switch s {
	case core.StateAttacking:
		return tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	case core.StateClimbing:
		return tcell.StyleDefault.Foreground(tcell.ColorBlue)
	case core.StateChasing:
		return tcell.StyleDefault.Foreground(tcell.ColorOrange)
	}
	return tcell.StyleDefault.Foreground(tcell.ColorGray)
}

func (v *watcher) status() {
	line := fmt.Sprintf(" tick %d", v.tick)
	if t := v.sim.Timer(); t != nil {
		line = fmt.Sprintf(" %s ", system.FormatTime(system.Remaining(t)))
	}
	if player, _, pool := v.sim.Player(); player != nil && pool != nil {
		line += fmt.Sprintf("| hp %d armor %d | level %d kills %d ", pool.CurrentHP(), pool.CurrentArmor(), player.Level, player.Kills)
		if wpn := player.Arsenal.Current(); wpn != nil {
			line += fmt.Sprintf("| %s ", wpn.Name)
		}
	}
	line += fmt.Sprintf("| %s ", censusString(v.sim.Census()))
	switch {
	case v.sim.Outcome() != sim.OutcomeRunning:
		line += fmt.Sprintf("| %s (q to quit) ", v.sim.Outcome())
	case v.paused:
		line += "| paused "
	}
	x := 0
	for _, r := range line {
		if x >= v.width {
			break
		}
		v.screen.SetContent(x, 0, r, nil, styleHUD)
		x++
	}
	for ; x < v.width; x++ {
		v.screen.SetContent(x, 0, ' ', nil, styleHUD)
	}
}
