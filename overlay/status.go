package overlay

import (
	"fmt"

	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/sprite"
)

// StatusWindowSystem draws one block per marker and a Recreate button. A click
// replaces every marker with a fresh one.
type StatusWindowSystem struct {
	Markers ecs.Query[sprite.Marker]
	Assets  ecs.Singleton[sprite.AssetServer]
	Reloads ecs.Singleton[sprite.ReloadState]

	Panel Panel
}

func (s *StatusWindowSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Panel == nil {
		return
	}

	var server *asset.Server
	if assets := s.Assets.Get(); assets != nil {
		server = assets.Server
	}

	var ids []ecs.EntityId
	clicked := false

	if s.Panel.Begin("Reloadable Sprite") {
		for item := range s.Markers.Values() {
			ids = append(ids, item.Id)
			st := sprite.StatusOf(server, item.Id, item.Sprite)
			s.Panel.Text(fmt.Sprintf("Entity: %s", st.EntityText()))
			s.Panel.Text(fmt.Sprintf("Texture: %s", st.TextureText()))
			s.Panel.Text(fmt.Sprintf("Texture Load Status: %s", st.StateText()))
			s.Panel.Separator()
		}
		if len(ids) == 0 {
			s.Panel.Text("No sprites")
		}
		clicked = s.Panel.Button("Recreate")
	}
	s.Panel.End()

	if !clicked {
		return
	}
	if state := s.Reloads.Get(); state != nil {
		sprite.Reload(frame, state, ids, "recreate button")
	} else {
		sprite.ReloadAll(frame.Commands, ids, false)
	}
}

// AssetBrowser lists every handle known to the asset server.
type AssetBrowser struct {
	Server *asset.Server
	Panel  Panel
}

func (b *AssetBrowser) Render() {
	if b.Panel.Begin("Assets") {
		entries := b.Server.Entries()
		st := b.Server.Stats()
		b.Panel.Text(fmt.Sprintf("Loading: %d  Loaded: %d  Failed: %d", st.Loading, st.Loaded, st.Failed))
		b.Panel.Separator()
		for _, e := range entries {
			line := fmt.Sprintf("%v  %v", e.Handle, e.State)
			switch e.State {
			case asset.Loaded:
				line += fmt.Sprintf("  (%v)", e.Elapsed)
			case asset.Failed:
				line += fmt.Sprintf("  %v", e.Err)
			}
			b.Panel.Text(line)
		}
	}
	b.Panel.End()
}
