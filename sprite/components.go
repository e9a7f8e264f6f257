// Package sprite holds the reloadable sprite shared by every front end: its
// components, the systems that spawn it and attach its texture, the reload
// guard, and status reporting.
package sprite

import (
	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
)

// ReloadableSprite tags the entity currently being demonstrated.
type ReloadableSprite struct{}

// Sprite carries the texture handle. Its absence means no load was requested yet.
type Sprite struct {
	Texture asset.Handle
}

// Camera2D marks the camera entity.
type Camera2D struct {
	Zoom float64
}

// Transform is a world position in pixels.
type Transform struct {
	X, Y float64
}

// AssetServer exposes the asset server to systems as a singleton.
type AssetServer struct {
	*asset.Server
}

// ReloadState tracks reloads. Single enables the single-instance guard.
type ReloadState struct {
	Single     bool
	Count      int
	LastTick   uint64
	LastReason string
}

// Marker is the view shape used to enumerate reloadable sprites.
type Marker struct {
	Id ecs.EntityId
	*ReloadableSprite
	Sprite *Sprite `ecs:"optional"`
}

// RegisterComponents registers every component type of this package.
func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[ReloadableSprite](registry)
	ecs.RegisterComponent[Sprite](registry)
	ecs.RegisterComponent[Camera2D](registry)
	ecs.RegisterComponent[Transform](registry)
}
