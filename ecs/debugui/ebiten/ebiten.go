// Package ebiten provides Dear ImGui backend integration for the Ebiten game engine.
package ebiten

import (
	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
)

// ImguiBackend wraps the Ebiten-specific Dear ImGui backend implementation.
// Use this to integrate Dear ImGui rendering into Ebiten game loops.
type ImguiBackend struct {
	*ebitenbackend.EbitenBackend
}

// New creates the backend and its window. The imgui.ini file is disabled
// so panel layout does not leak between runs.
func New(title string, width, height int) *ImguiBackend {
	backend := ebitenbackend.NewEbitenBackend()
	backend.CreateWindow(title, width, height)
	imgui.CurrentIO().SetIniFilename("")
	return &ImguiBackend{EbitenBackend: backend}
}

// Frame runs fn between BeginFrame and EndFrame. Call it from the game's
// Update so widgets created by fn are drawn by the next Draw.
func (b *ImguiBackend) Frame(fn func()) {
	b.BeginFrame()
	defer b.EndFrame()
	fn()
}

// DrawOverlay draws the ImGui frame on top of screen.
func (b *ImguiBackend) DrawOverlay(screen *ebiten.Image) {
	b.Draw(screen)
}
