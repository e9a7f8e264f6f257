// Package overlay reports the reloadable sprite through an immediate-mode
// window redrawn every frame. It tolerates any number of markers.
package overlay

import "github.com/AllenDang/cimgui-go/imgui"

// Panel is the subset of an immediate-mode GUI the overlay draws with.
type Panel interface {
	// Begin opens a window. End must be called whatever it returns.
	Begin(title string) bool
	Text(text string)
	Separator()
	// Button reports whether the button was clicked this frame.
	Button(label string) bool
	End()
}

// ImguiPanel draws with Dear ImGui.
type ImguiPanel struct{}

func (ImguiPanel) Begin(title string) bool {
	return imgui.BeginV(title, nil, imgui.WindowFlagsAlwaysAutoResize)
}

func (ImguiPanel) Text(text string) { imgui.Text(text) }

func (ImguiPanel) Separator() { imgui.Separator() }

func (ImguiPanel) Button(label string) bool { return imgui.Button(label) }

func (ImguiPanel) End() { imgui.End() }
