package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/horde/common"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	arena := flag.String("arena", "arena.yaml", "arena prefab in prefabs/")
	seed := flag.Int64("seed", 1, "RNG seed")
	zoom := flag.Float64("zoom", 16, "pixels per world unit")
	noRecord := flag.Bool("no-record", false, "do not save finished runs")
	flag.Parse()

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("horde")

	game, err := NewGame(GameConfig{
		Arena:  *arena,
		Seed:   *seed,
		Debug:  *debug,
		Zoom:   *zoom,
		Record: !*noRecord,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	// The aim target is drawn in place of the OS cursor.
	ebiten.SetCursorMode(ebiten.CursorModeHidden)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
