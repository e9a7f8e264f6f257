package overlay

import (
	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/ecs/debugui"
)

// Install registers the status window and spawns the asset browser as an
// ImGui item. Call it after sprite.Install.
func Install(storage *ecs.Storage, scheduler *ecs.Scheduler, server *asset.Server, panel Panel) {
	scheduler.Register(&StatusWindowSystem{Panel: panel})

	browser := &AssetBrowser{Server: server, Panel: panel}
	storage.Spawn(debugui.ImguiItem{Render: browser.Render})
}
