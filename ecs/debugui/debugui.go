// Package debugui provides a Dear ImGui inspector for the entity registry
// and the scheduler.
//
// Panels are plain render functions wrapped in ImguiItem values; the
// ImguiSystem runs them each tick, so a host registers it with a scheduler
// that ticks between the backend's BeginFrame and EndFrame.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ironrails/ecs"
)

// ImguiItem holds a Dear ImGui render function.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether Dear ImGui is consuming mouse or keyboard
// input, so the host can ignore input the overlay already handled.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem updates the input state and runs every item's render
// function.
type ImguiSystem struct {
	Items      []ImguiItem
	InputState ImguiInputState
}

// Add appends a render function.
func (i *ImguiSystem) Add(render func()) {
	i.Items = append(i.Items, ImguiItem{Render: render})
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	i.InputState.WantCaptureMouse = io.WantCaptureMouse()
	i.InputState.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, item := range i.Items {
		item.Render()
	}
}
