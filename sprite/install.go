package sprite

import (
	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
)

// Options configures Install.
type Options struct {
	// Path is the texture requested for every marker. Defaults to DefaultPath.
	Path string
	// Single enables the single-instance reload guard.
	Single bool
	// Changes feeds HotReloadSystem. Nil disables hot reload.
	Changes func() []string
}

// Install registers the asset and reload singletons and the shared systems.
// Front ends register their own reporter and trigger systems afterwards.
func Install(storage *ecs.Storage, scheduler *ecs.Scheduler, server *asset.Server, opts Options) {
	storage.AddSingleton(AssetServer{Server: server})
	storage.AddSingleton(ReloadState{Single: opts.Single})

	scheduler.RegisterStartup(&SpawnSystem{})
	scheduler.Register(&PopulateSystem{Path: opts.Path})
	scheduler.Register(&LoadLogSystem{})
	if opts.Changes != nil {
		scheduler.Register(&HotReloadSystem{Changes: opts.Changes})
	}
	scheduler.Register(&AssetGCSystem{})
}
