package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/horde/common"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/ecs/render"
	"github.com/milk9111/horde/ecs/system"
	"github.com/milk9111/horde/prefabs"
	"github.com/milk9111/horde/records"
	"github.com/milk9111/horde/sim"
	"golang.design/x/clipboard"
)

const (
	cameraSmoothing = 0.15
	messageSeconds  = 2.5
)

type GameConfig struct {
	Arena  string
	Seed   int64
	Debug  bool
	Zoom   float64
	Record bool
}

type Game struct {
	cfg GameConfig

	sim      *sim.Sim
	camera   *render.Camera
	hud      *hud
	frames   int
	recorded bool

	paused  bool
	pauseUI *ebitenui.UI
	quit    bool

	watcher   *prefabs.Watcher
	store     *records.Store
	clipboard bool

	message    string
	messageTTL float64
}

func NewGame(cfg GameConfig) (*Game, error) {
	s, err := sim.New(sim.Config{Arena: cfg.Arena, Seed: cfg.Seed, Debug: cfg.Debug})
	if err != nil {
		return nil, err
	}
	g := &Game{
		cfg:    cfg,
		sim:    s,
		camera: render.NewCamera(common.BaseWidth, common.BaseHeight, cfg.Zoom),
		hud:    newHUD(),
	}
	if _, tr, _ := s.Player(); tr != nil {
		g.camera.Follow(tr.Position, 0)
	}
	g.pauseUI = NewPauseUI(g)

	if w, err := prefabs.NewWatcher(prefabs.Dir, prefabs.Dir+"/scripts"); err != nil {
		log.Printf("prefab hot reload disabled: %v", err)
	} else {
		g.watcher = w
	}
	if cfg.Record {
		if st, err := records.Open("horde"); err != nil {
			log.Printf("run history disabled: %v", err)
		} else {
			g.store = st
		}
	}
	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboard = true
	}
	return g, nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.frames++
	dt := 1.0 / float64(ebiten.TPS())
	if g.messageTTL > 0 {
		g.messageTTL -= dt
	}
	if g.quit {
		return ebiten.Termination
	}

	g.reload()

	if inpututil.IsKeyJustPressed(ebiten.KeyP) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.paused = !g.paused
		g.showCursor(g.paused)
	}
	if g.paused {
		g.pauseUI.Update()
		return nil
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySummary()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		g.cfg.Debug = !g.cfg.Debug
	}

	if g.sim.Outcome() != sim.OutcomeRunning {
		g.saveRun()
		if inpututil.IsKeyJustPressed(ebiten.KeyR) {
			g.Restart()
		}
		return nil
	}

	g.sim.SetInput(g.readInput())
	g.sim.Step(dt)

	if _, tr, _ := g.sim.Player(); tr != nil {
		g.camera.Follow(tr.Position, cameraSmoothing)
	}
	return nil
}

func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	for _, name := range g.watcher.Poll() {
		if err := g.sim.Reload(name); err != nil {
			g.notify(fmt.Sprintf("reload %s failed: %v", name, err))
			continue
		}
		g.notify("reloaded " + name)
	}
}

// readInput turns keyboard and mouse state into one tick of player intent.
func (g *Game) readInput() component.Input {
	var in component.Input
	in.Move = moveVector(
		ebiten.IsKeyPressed(ebiten.KeyW),
		ebiten.IsKeyPressed(ebiten.KeyS),
		ebiten.IsKeyPressed(ebiten.KeyA),
		ebiten.IsKeyPressed(ebiten.KeyD),
	)
	in.Jump = inpututil.IsKeyJustPressed(ebiten.KeySpace)
	in.Dash = inpututil.IsKeyJustPressed(ebiten.KeyShiftLeft) || inpututil.IsKeyJustPressed(ebiten.KeyShiftRight)
	in.Fire = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	for i, key := range []ebiten.Key{ebiten.Key1, ebiten.Key2, ebiten.Key3} {
		if inpututil.IsKeyJustPressed(key) {
			in.Equip = i + 1
		}
	}
	if _, wy := ebiten.Wheel(); wy != 0 {
		in.Cycle = wheelStep(wy)
	} else if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		in.Cycle = -1
	} else if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		in.Cycle = 1
	}

	if player, tr, _ := g.sim.Player(); player != nil && tr != nil {
		mx, my := ebiten.CursorPosition()
		cursor := g.camera.ToWorld(float64(mx), float64(my))
		in.Aim = aimVector(tr.Position, player.EyeHeight, cursor)
	}
	return in
}

// moveVector maps WASD to a world direction with W as +Z.
func moveVector(up, down, left, right bool) common.Vec3 {
	var v common.Vec3
	if up {
		v.Z++
	}
	if down {
		v.Z--
	}
	if right {
		v.X++
	}
	if left {
		v.X--
	}
	return v.Normalized()
}

// aimVector aims level from the player's eye toward the cursor's floor
// point, so shots fly at body height.
func aimVector(pos common.Vec3, eyeHeight float64, cursor common.Vec3) common.Vec3 {
	eye := pos.Add(common.V3(0, eyeHeight, 0))
	target := common.V3(cursor.X, eye.Y, cursor.Z)
	return target.Sub(eye).Normalized()
}

func wheelStep(wy float64) int {
	if wy > 0 {
		return -1
	}
	return 1
}

// Restart rebuilds the arena with the same configuration.
func (g *Game) Restart() {
	s, err := sim.New(sim.Config{Arena: g.cfg.Arena, Seed: g.cfg.Seed, Debug: g.cfg.Debug})
	if err != nil {
		g.notify(fmt.Sprintf("restart failed: %v", err))
		return
	}
	g.sim = s
	g.recorded = false
	g.paused = false
	g.showCursor(false)
	if _, tr, _ := s.Player(); tr != nil {
		g.camera.Follow(tr.Position, 0)
	}
}

func (g *Game) Quit() {
	g.quit = true
}

func (g *Game) saveRun() {
	if g.recorded || g.store == nil {
		return
	}
	g.recorded = true
	run := runRecord(g.sim, g.cfg.Arena)
	if err := g.store.Add(run); err != nil {
		g.notify(err.Error())
		return
	}
	if best, err := g.store.Best(); err == nil && best == run {
		g.notify("new best run")
	}
}

func runRecord(s *sim.Sim, arena string) records.Run {
	r := records.Run{Outcome: string(s.Outcome()), Arena: arena}
	if r.Outcome == "" {
		r.Outcome = "running"
	}
	if player, _, _ := s.Player(); player != nil {
		r.Level = player.Level
		r.Kills = player.Kills
	}
	if t := s.Timer(); t != nil {
		r.Time = t.Elapsed
	}
	return r
}

// summary is the text copied by the C key.
func summary(s *sim.Sim, arena string) string {
	r := runRecord(s, arena)
	var b strings.Builder
	fmt.Fprintf(&b, "horde %s: level %d, %d kills, %s, %s\n", arena, r.Level, r.Kills, system.FormatTime(r.Time), r.Outcome)
	fmt.Fprintf(&b, "spawned %d, damage dealt %d, damage taken %d, shots %d", s.Stats.Spawned, s.Stats.DamageDealt, s.Stats.DamageTaken, s.Stats.PlayerShots)
	return b.String()
}

func (g *Game) copySummary() {
	if !g.clipboard {
		g.notify("clipboard unavailable")
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(summary(g.sim, g.cfg.Arena)))
	g.notify("run summary copied")
}

func (g *Game) notify(msg string) {
	log.Print(msg)
	g.message = msg
	g.messageTTL = messageSeconds
}

func (g *Game) showCursor(visible bool) {
	if visible {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		return
	}
	ebiten.SetCursorMode(ebiten.CursorModeHidden)
}

func (g *Game) Draw(screen *ebiten.Image) {
	render.DrawWorld(g.sim.World, screen, g.camera)
	if g.cfg.Debug {
		render.DrawPhysicsDebug(g.sim.Physics, screen, g.camera)
		render.DrawAgentDebug(g.sim.World, screen, g.camera)
	}

	message := ""
	if g.messageTTL > 0 {
		message = g.message
	}
	g.hud.Draw(screen, g.sim, message, g.frames)

	if g.paused {
		g.pauseUI.Draw(screen)
		return
	}
	mx, my := ebiten.CursorPosition()
	render.DrawAimTarget(screen, float32(mx), float32(my))
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
