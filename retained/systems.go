package retained

import (
	"errors"
	"fmt"

	"github.com/plus3/spritereload/asset"
	"github.com/plus3/spritereload/ecs"
	"github.com/plus3/spritereload/sprite"
)

// BuildSystem spawns the entity mirror of the widget tree at startup. Widgets
// may be nil, in which case only the entities are created.
type BuildSystem struct {
	Widgets *Widgets
	Input   *ButtonInput
}

func (s *BuildSystem) Execute(frame *ecs.UpdateFrame) {
	node := UINode{}
	info := NewInfoText(nil)
	input := s.Input
	if s.Widgets != nil {
		node.Container = s.Widgets.Column
		info.Label = s.Widgets.Info
		input = s.Widgets.Input
	}
	if input == nil {
		input = &ButtonInput{}
	}

	column := frame.Commands.Spawn(node)
	frame.Commands.SpawnChild(column, info)
	frame.Commands.SpawnChild(column, RecreateButton{}, Interaction{}, ButtonSignal{Input: input})
}

// InteractionSystem samples each button's input and flags transitions.
type InteractionSystem struct {
	Buttons ecs.Query[struct {
		*Interaction
		*ButtonSignal
	}]
}

func (s *InteractionSystem) Execute(frame *ecs.UpdateFrame) {
	for button := range s.Buttons.Values() {
		next := button.ButtonSignal.Input.State()
		button.Interaction.Changed = next != button.Interaction.State
		button.Interaction.State = next
	}
}

// InfoSystem writes the marker's status into the info text. It expects exactly
// one info text and at most one marker, and panics otherwise.
type InfoSystem struct {
	Text    ecs.Query[struct{ *InfoText }]
	Markers ecs.Query[sprite.Marker]
	Assets  ecs.Singleton[sprite.AssetServer]
}

func (s *InfoSystem) Execute(frame *ecs.UpdateFrame) {
	_, text := s.Text.MustSingle()

	_, marker, err := s.Markers.Single()
	if errors.Is(err, ecs.ErrNoEntities) {
		return
	}
	if err != nil {
		panic(fmt.Sprintf("info text: %v", err))
	}

	var server *asset.Server
	if assets := s.Assets.Get(); assets != nil {
		server = assets.Server
	}
	st := sprite.StatusOf(server, marker.Id, marker.Sprite)

	info := text.InfoText
	info.Sections[1] = st.EntityText()
	info.Sections[3] = st.TextureText()
	info.Sections[5] = st.StateText()
	if info.Label != nil {
		info.Label.Label = info.String()
	}
}

// ButtonSystem reloads the sprite on the frame the Recreate button becomes
// pressed. Holding it down does not fire again.
type ButtonSystem struct {
	Buttons ecs.Query[struct {
		*RecreateButton
		*Interaction
	}]
	Markers ecs.Query[sprite.Marker]
	Reloads ecs.Singleton[sprite.ReloadState]
}

func (s *ButtonSystem) Execute(frame *ecs.UpdateFrame) {
	_, button := s.Buttons.MustSingle()
	if !button.Interaction.Changed || button.Interaction.State != Pressed {
		return
	}

	ids := make([]ecs.EntityId, 0, 1)
	for item := range s.Markers.Values() {
		ids = append(ids, item.Id)
	}
	sprite.Reload(frame, s.Reloads.Get(), ids, "recreate button")
}

// Install registers the widget mirror and its systems. Call it after
// sprite.Install so the shared singletons exist.
func Install(scheduler *ecs.Scheduler, build *BuildSystem) {
	scheduler.RegisterStartup(build)
	scheduler.Register(&InteractionSystem{})
	scheduler.Register(&InfoSystem{})
	scheduler.Register(&ButtonSystem{})
}
