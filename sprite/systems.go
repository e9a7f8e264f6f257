package sprite

import (
	"log"

	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
)

// DefaultPath is the texture loaded when no path is configured.
const DefaultPath = "icon.png"

// SpawnMarker queues a fresh reloadable sprite without a texture.
func SpawnMarker(commands *ecs.Commands) ecs.EntityId {
	return commands.Spawn(ReloadableSprite{}, Transform{})
}

// SpawnSystem creates the camera and the first reloadable sprite at startup.
type SpawnSystem struct{}

func (s *SpawnSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Camera2D{Zoom: 1}, Transform{})
	id := SpawnMarker(frame.Commands)
	log.Printf("spawned reloadable sprite %v", id)
}

// PopulateSystem requests a texture for every reloadable sprite that has none.
// The Sprite component it attaches removes the entity from its own query, so an
// entity never issues a second request.
type PopulateSystem struct {
	Pending ecs.Query[struct {
		Id ecs.EntityId
		*ReloadableSprite
		Sprite *Sprite `ecs:"without"`
	}]
	Assets ecs.Singleton[AssetServer]
	Path   string
}

func (s *PopulateSystem) Execute(frame *ecs.UpdateFrame) {
	server := s.Assets.Get()
	if server == nil || server.Server == nil {
		return
	}

	path := s.Path
	if path == "" {
		path = DefaultPath
	}

	for item := range s.Pending.Values() {
		h := server.Load(path)
		frame.Commands.AddComponent(item.Id, Sprite{Texture: h})
	}
}

// LoadLogSystem logs each texture once it has loaded. Failures are already
// logged with their cause by the asset server, so they are only marked as settled.
type LoadLogSystem struct {
	Sprites ecs.Query[struct {
		Id ecs.EntityId
		*Sprite
	}]
	Assets ecs.Singleton[AssetServer]
	// Logger defaults to log.Default().
	Logger *log.Logger

	reported map[asset.HandleId]bool
}

func (s *LoadLogSystem) Execute(frame *ecs.UpdateFrame) {
	server := s.Assets.Get()
	if server == nil || server.Server == nil {
		return
	}
	if s.reported == nil {
		s.reported = make(map[asset.HandleId]bool)
	}
	if s.Logger == nil {
		s.Logger = log.Default()
	}

	live := make(map[asset.HandleId]bool, len(s.reported))
	for item := range s.Sprites.Values() {
		h := item.Sprite.Texture
		live[h.Id] = true
		if s.reported[h.Id] {
			continue
		}

		switch server.LoadState(h) {
		case asset.Loaded:
			s.Logger.Printf("entity %v: %s loaded", item.Id, h.Path)
		case asset.Failed:
		default:
			continue
		}
		s.reported[h.Id] = true
	}

	for id := range s.reported {
		if !live[id] {
			delete(s.reported, id)
		}
	}
}

// AssetGCSystem releases handles no longer held by any Sprite, so loads still
// running for destroyed entities are discarded when they complete. It runs
// after the frame's commands are applied.
type AssetGCSystem struct {
	Assets ecs.Singleton[AssetServer]

	view *ecs.View[struct{ *Sprite }]
	keep map[asset.HandleId]struct{}
}

func (s *AssetGCSystem) Execute(frame *ecs.UpdateFrame) {
	server := s.Assets.Get()
	if server == nil || server.Server == nil {
		return
	}
	if s.view == nil {
		s.view = ecs.NewView[struct{ *Sprite }](frame.Storage)
		s.keep = make(map[asset.HandleId]struct{})
	}

	frame.Commands.Defer(func() {
		clear(s.keep)
		for item := range s.view.Values() {
			s.keep[item.Sprite.Texture.Id] = struct{}{}
		}
		server.Retain(s.keep)
	})
}
