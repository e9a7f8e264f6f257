package sprite

import (
	"log"
	"path"

	"github.com/plus3/spritereload/ecs"
)

// Respawn destroys id together with its descendants and queues a fresh marker
// without a texture in its place.
func Respawn(commands *ecs.Commands, id ecs.EntityId) ecs.EntityId {
	commands.DeleteRecursive(id)
	return SpawnMarker(commands)
}

// ReloadAll respawns markers. With single set, all of them are removed and
// exactly one replacement is queued, even when markers is empty. Otherwise each
// marker gets its own replacement.
func ReloadAll(commands *ecs.Commands, markers []ecs.EntityId, single bool) []ecs.EntityId {
	if !single {
		spawned := make([]ecs.EntityId, 0, len(markers))
		for _, id := range markers {
			spawned = append(spawned, Respawn(commands, id))
		}
		return spawned
	}

	for _, id := range markers {
		commands.DeleteRecursive(id)
	}
	return []ecs.EntityId{SpawnMarker(commands)}
}

// Reload performs ReloadAll at most once per frame. Triggers that fire in a
// frame that already reloaded are dropped and Reload returns false.
func Reload(frame *ecs.UpdateFrame, state *ReloadState, markers []ecs.EntityId, reason string) bool {
	if state.Count > 0 && state.LastTick == frame.Tick {
		return false
	}

	spawned := ReloadAll(frame.Commands, markers, state.Single)
	state.Count++
	state.LastTick = frame.Tick
	state.LastReason = reason

	log.Printf("reload #%d (%s): despawned %v, spawned %v", state.Count, reason, markers, spawned)
	return true
}

// HotReloadSystem reloads when a texture used by a marker changes on disk.
// Changes returns the asset paths modified since the previous call.
type HotReloadSystem struct {
	Markers ecs.Query[Marker]
	Reloads ecs.Singleton[ReloadState]
	Changes func() []string
}

func (s *HotReloadSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Changes == nil {
		return
	}
	changed := s.Changes()
	if len(changed) == 0 {
		return
	}
	state := s.Reloads.Get()
	if state == nil {
		return
	}

	touched := make(map[string]bool, len(changed))
	for _, name := range changed {
		touched[path.Clean(name)] = true
	}

	var (
		markers []ecs.EntityId
		hit     string
	)
	for item := range s.Markers.Values() {
		markers = append(markers, item.Id)
		if item.Sprite == nil {
			continue
		}
		if p := path.Clean(item.Sprite.Texture.Path); touched[p] {
			hit = p
		}
	}
	if hit == "" {
		return
	}

	Reload(frame, state, markers, "changed "+hit)
}
