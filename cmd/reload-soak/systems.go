package main

import (
	"time"

	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/sprite"
)

// PeriodicReloadSystem presses the reload trigger every Every frames.
type PeriodicReloadSystem struct {
	Markers ecs.Query[sprite.Marker]
	Reloads ecs.Singleton[sprite.ReloadState]
	Every   uint64
}

func (s *PeriodicReloadSystem) Execute(frame *ecs.UpdateFrame) {
	if s.Every == 0 || frame.Tick%s.Every != 0 {
		return
	}
	state := s.Reloads.Get()
	if state == nil {
		return
	}

	ids := make([]ecs.EntityId, 0, 1)
	for item := range s.Markers.Values() {
		ids = append(ids, item.Id)
	}
	sprite.Reload(frame, state, ids, "periodic")
}

// OutcomeSystem counts texture requests and how they settled. Handles whose
// entity was replaced before settling are never counted as Loaded or Failed.
type OutcomeSystem struct {
	Sprites ecs.Query[struct {
		*sprite.ReloadableSprite
		*sprite.Sprite
	}]
	Assets ecs.Singleton[sprite.AssetServer]

	Requested int
	Loaded    int
	Failed    int
	LoadTimes []time.Duration

	settled map[asset.HandleId]bool
}

func (s *OutcomeSystem) Execute(frame *ecs.UpdateFrame) {
	assets := s.Assets.Get()
	if assets == nil {
		return
	}
	if s.settled == nil {
		s.settled = make(map[asset.HandleId]bool)
	}

	live := make(map[asset.HandleId]bool, len(s.settled))
	for item := range s.Sprites.Values() {
		h := item.Sprite.Texture
		live[h.Id] = true
		done, seen := s.settled[h.Id]
		if !seen {
			s.Requested++
			s.settled[h.Id] = false
		}
		if done {
			continue
		}

		switch assets.LoadState(h) {
		case asset.Loaded:
			s.Loaded++
		case asset.Failed:
			s.Failed++
		default:
			continue
		}
		s.settled[h.Id] = true
		for _, e := range assets.Entries() {
			if e.Handle.Id == h.Id {
				s.LoadTimes = append(s.LoadTimes, e.Elapsed)
				break
			}
		}
	}

	// replaced entities never come back, so their handles can be forgotten
	for id := range s.settled {
		if !live[id] {
			delete(s.settled, id)
		}
	}
}
