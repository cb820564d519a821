package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/seethrough/common"
)

func main() {
	debug := flag.Bool("debug", false, "draw physics shapes and tracker state")
	scale := flag.Float64("scale", 0, "override the occlusion trace scale (0 keeps occlusion.yaml)")
	sceneName := flag.String("scene", "", "scene file in prefabs/ (defaults to scene.yaml)")
	watch := flag.Bool("watch", false, "reload occlusion.yaml and scripts when they change on disk")
	flag.Parse()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(common.BaseWidth, common.BaseHeight)
	ebiten.SetWindowTitle("seethrough")

	game, err := NewGame(GameOptions{
		Scene:      *sceneName,
		Debug:      *debug,
		TraceScale: *scale,
		Watch:      *watch,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
