// Package retained reports the reloadable sprite through a persistent ebitenui
// widget tree. The widgets are mirrored into entities: a column node holding an
// info text whose sections are rewritten in place, and a Recreate button whose
// interaction is sampled every frame.
package retained

import (
	"fmt"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/plus3/spritereload/ecs"
)

// UINode mirrors the column container.
type UINode struct {
	Container *widget.Container
}

// InfoText holds six sections. The odd ones carry the entity, texture and load
// state. Label, when set, is kept in sync with the joined sections.
type InfoText struct {
	Sections [6]string
	Label    *widget.Text
}

func NewInfoText(label *widget.Text) InfoText {
	return InfoText{
		Sections: [6]string{"Entity: ", "", "\nTexture: ", "", "\nTexture Load Status: ", ""},
		Label:    label,
	}
}

func (t *InfoText) String() string {
	return strings.Join(t.Sections[:], "")
}

// RecreateButton tags the button that reloads the sprite.
type RecreateButton struct{}

type InteractionState uint8

const (
	Idle InteractionState = iota
	Hovered
	Pressed
)

func (s InteractionState) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Hovered:
		return "Hovered"
	case Pressed:
		return "Pressed"
	default:
		return fmt.Sprintf("InteractionState(%d)", uint8(s))
	}
}

// Interaction is the per-frame button state. Changed is set only on the frame
// the state moved.
type Interaction struct {
	State   InteractionState
	Changed bool
}

// ButtonInput accumulates pointer events reported by a widget between frames.
type ButtonInput struct {
	hovered bool
	held    bool
}

func (b *ButtonInput) Press()   { b.held = true }
func (b *ButtonInput) Release() { b.held = false }
func (b *ButtonInput) Enter()   { b.hovered = true }
func (b *ButtonInput) Exit()    { b.hovered = false }

func (b *ButtonInput) State() InteractionState {
	switch {
	case b.held:
		return Pressed
	case b.hovered:
		return Hovered
	default:
		return Idle
	}
}

// ButtonSignal links a button entity to the input fed by its widget.
type ButtonSignal struct {
	Input *ButtonInput
}

func RegisterComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[UINode](registry)
	ecs.RegisterComponent[InfoText](registry)
	ecs.RegisterComponent[RecreateButton](registry)
	ecs.RegisterComponent[Interaction](registry)
	ecs.RegisterComponent[ButtonSignal](registry)
}
