package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/spritereload/ecs"
	debugui_ebiten "github.com/plus3/spritereload/ecs/debugui/ebiten"
	"github.com/plus3/spritereload/sprite"
)

var background = color.NRGBA{R: 0x20, G: 0x22, B: 0x28, A: 0xff}

// Game runs every system inside an ImGui frame so the status window can draw
// while it executes.
type Game struct {
	scheduler *ecs.Scheduler
	backend   *ecs.Singleton[debugui_ebiten.ImguiBackend]
	renderer  *sprite.Renderer
}

func (g *Game) Update() error {
	g.backend.Get().Update(func() {
		g.scheduler.Once(1.0 / float64(ebiten.TPS()))
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.renderer.Draw(screen)
	g.backend.Get().DrawOver(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Get().Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
