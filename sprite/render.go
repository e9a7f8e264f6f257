package sprite

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
)

type drawable struct {
	*Sprite
	Transform *Transform `ecs:"optional"`
}

type camera struct {
	*Camera2D
	Transform *Transform `ecs:"optional"`
}

// Renderer draws every loaded sprite relative to the camera. Decoded images
// are uploaded to the GPU on first draw and dropped once no sprite uses them.
type Renderer struct {
	server   *asset.Server
	sprites  *ecs.View[drawable]
	cameras  *ecs.View[camera]
	textures map[asset.HandleId]*ebiten.Image
	drawn    map[asset.HandleId]bool
}

func NewRenderer(storage *ecs.Storage, server *asset.Server) *Renderer {
	return &Renderer{
		server:   server,
		sprites:  ecs.NewView[drawable](storage),
		cameras:  ecs.NewView[camera](storage),
		textures: make(map[asset.HandleId]*ebiten.Image),
		drawn:    make(map[asset.HandleId]bool),
	}
}

// Draw must be called from ebiten.Game.Draw.
func (r *Renderer) Draw(screen *ebiten.Image) {
	zoom, camX, camY := 1.0, 0.0, 0.0
	for cam := range r.cameras.Values() {
		if cam.Camera2D.Zoom > 0 {
			zoom = cam.Camera2D.Zoom
		}
		if cam.Transform != nil {
			camX, camY = cam.Transform.X, cam.Transform.Y
		}
		break
	}

	bounds := screen.Bounds()
	cx, cy := float64(bounds.Dx())/2, float64(bounds.Dy())/2

	clear(r.drawn)
	for item := range r.sprites.Values() {
		h := item.Sprite.Texture
		tex := r.texture(h)
		if tex == nil {
			continue
		}
		r.drawn[h.Id] = true

		var x, y float64
		if item.Transform != nil {
			x, y = item.Transform.X, item.Transform.Y
		}

		size := tex.Bounds()
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Translate(-float64(size.Dx())/2, -float64(size.Dy())/2)
		op.GeoM.Translate(x-camX, y-camY)
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Translate(cx, cy)
		screen.DrawImage(tex, op)
	}

	for id, tex := range r.textures {
		if !r.drawn[id] {
			tex.Deallocate()
			delete(r.textures, id)
		}
	}
}

func (r *Renderer) texture(h asset.Handle) *ebiten.Image {
	if tex, ok := r.textures[h.Id]; ok {
		return tex
	}
	img, ok := r.server.Get(h)
	if !ok {
		return nil
	}
	tex := ebiten.NewImageFromImage(img)
	r.textures[h.Id] = tex
	return tex
}
