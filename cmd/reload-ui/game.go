package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/retained"
	"github.com/plus3/spritereload/sprite"
)

var background = color.NRGBA{R: 0x20, G: 0x22, B: 0x28, A: 0xff}

// Game drives the ECS from Ebiten. Widget events are delivered during
// UI.Update, before the systems sample them.
type Game struct {
	scheduler *ecs.Scheduler
	widgets   *retained.Widgets
	renderer  *sprite.Renderer
}

func (g *Game) Update() error {
	g.widgets.UI.Update()
	g.scheduler.Once(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)
	g.renderer.Draw(screen)
	g.widgets.UI.Draw(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}
