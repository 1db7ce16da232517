package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/milk9111/horde/common"
	"github.com/milk9111/horde/ecs/component"
	"github.com/milk9111/horde/ecs/system"
	"github.com/milk9111/horde/sim"
	"golang.org/x/image/font/basicfont"
)

const (
	hudMargin     = 12
	hudLineHeight = 16
	hudBarWidth   = 200
	hudBarHeight  = 10
)

var (
	hudText    = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	hudDim     = color.NRGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 0xff}
	hudHealth  = color.NRGBA{R: 0xdc, G: 0x3c, B: 0x3c, A: 0xff}
	hudArmor   = color.NRGBA{R: 0x50, G: 0xa0, B: 0xf0, A: 0xff}
	hudBarBack = color.NRGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xc8}
	hudBanner  = color.NRGBA{A: 0xb4}
)

type hud struct {
	face ebtext.Face
}

func newHUD() *hud {
	return &hud{face: ebtext.NewGoXFace(basicfont.Face7x13)}
}

func (h *hud) text(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = hudLineHeight
	ebtext.Draw(screen, s, h.face, op)
}

func (h *hud) bar(screen *ebiten.Image, x, y float32, cur, max int, clr color.Color) {
	vector.FillRect(screen, x, y, hudBarWidth, hudBarHeight, hudBarBack, false)
	if max <= 0 {
		return
	}
	frac := common.Clamp01(float64(cur) / float64(max))
	vector.FillRect(screen, x, y, float32(frac*hudBarWidth), hudBarHeight, clr, false)
}

func (h *hud) Draw(screen *ebiten.Image, s *sim.Sim, message string, frames int) {
	player, _, pool := s.Player()

	if t := s.Timer(); t != nil {
		clock := system.FormatTime(system.Remaining(t))
		h.text(screen, clock, common.BaseWidth/2-float64(len(clock))*3.5, hudMargin, hudText)
	}

	if pool != nil {
		y := float32(common.BaseHeight - hudMargin - 2*hudBarHeight - 6)
		h.bar(screen, hudMargin, y, pool.CurrentHP(), pool.MaxHP(), hudHealth)
		h.bar(screen, hudMargin, y+hudBarHeight+6, pool.CurrentArmor(), pool.MaxArmorValue(), hudArmor)
		h.text(screen, fmt.Sprintf("%d / %d", pool.CurrentHP(), pool.CurrentArmor()), hudMargin+hudBarWidth+8, float64(y), hudText)
	}

	if player != nil {
		h.text(screen, fmt.Sprintf("level %d   kills %d", player.Level, player.Kills), hudMargin, hudMargin, hudText)
		h.text(screen, weaponLine(player), common.BaseWidth-hudMargin-300, common.BaseHeight-hudMargin-hudLineHeight, hudText)
	}

	var census []string
	for _, sc := range s.Census() {
		census = append(census, fmt.Sprintf("%s %d", sc.State, sc.Count))
	}
	if len(census) > 0 {
		h.text(screen, strings.Join(census, "  "), hudMargin, hudMargin+hudLineHeight, hudDim)
	}

	if message != "" {
		h.text(screen, message, hudMargin, hudMargin+2*hudLineHeight, hudDim)
	}

	if s.Outcome() != sim.OutcomeRunning {
		vector.FillRect(screen, 0, common.BaseHeight/2-40, common.BaseWidth, 80, hudBanner, false)
		line := fmt.Sprintf("%s  -  press R to restart, C to copy the summary", strings.ToUpper(string(s.Outcome())))
		h.text(screen, line, common.BaseWidth/2-float64(len(line))*3.5, common.BaseHeight/2-6, hudText)
	}

	h.text(screen, fmt.Sprintf("FPS %.0f  frame %d", ebiten.ActualFPS(), frames), common.BaseWidth-hudMargin-140, hudMargin, hudDim)
}

// weaponLine lists the arsenal with the equipped gun bracketed.
func weaponLine(p *component.Player) string {
	var parts []string
	for i, w := range p.Arsenal.Weapons() {
		ammo := "inf"
		if !w.Infinite {
			ammo = fmt.Sprintf("%d", w.Ammo)
		}
		label := fmt.Sprintf("%d:%s %s", i+1, w.Name, ammo)
		if i == p.Arsenal.CurrentIndex() {
			label = "[" + label + "]"
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}
