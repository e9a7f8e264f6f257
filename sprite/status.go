package sprite

import (
	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
)

// Status is what the reporters show for one marker.
type Status struct {
	Entity  ecs.EntityId
	Texture asset.Handle
	State   asset.LoadState
}

// StatusOf resolves the status of a marker. A nil sprite means no load was
// requested yet: the texture is reported as None and the state as NotLoaded.
func StatusOf(server *asset.Server, id ecs.EntityId, sprite *Sprite) Status {
	st := Status{Entity: id, State: asset.NotLoaded}
	if sprite == nil {
		return st
	}
	st.Texture = sprite.Texture
	if server != nil {
		st.State = server.LoadState(sprite.Texture)
	}
	return st
}

func (s Status) EntityText() string {
	return s.Entity.String()
}

func (s Status) TextureText() string {
	if !s.Texture.Valid() {
		return "None"
	}
	return s.Texture.String()
}

func (s Status) StateText() string {
	return s.State.String()
}
