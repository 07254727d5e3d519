package ebiten_test

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/ecs/debugui"
	debugui_ebiten "github.com/plus3/ironrails/ecs/debugui/ebiten"
	"github.com/plus3/ironrails/sim"
)

// Game implements ebiten.Game, ticking a world and the inspector overlay.
type Game struct {
	world   *sim.World
	ui      *ecs.Scheduler
	backend *debugui_ebiten.ImguiBackend
	now     time.Duration
}

func (g *Game) Update() error {
	dt := time.Second / time.Duration(ebiten.TPS())

	g.backend.Frame(func() {
		// Advance the simulation unless paused from the overlay
		if !g.world.Scheduler.Paused() {
			g.world.Tick(g.world.Scheduler.Now()+dt, dt)
		}

		// The overlay has its own scheduler so it keeps rendering while paused
		g.now += dt
		g.ui.Once(g.now, dt)
	})
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw game content to screen
	// ...

	// Draw ImGui overlay on top
	g.backend.DrawOverlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func Example() {
	// Create Ebiten window and ImGui backend
	backend := debugui_ebiten.New("Convoy Inspector", 1280, 720)

	world, err := sim.NewWorld(config.Default())
	if err != nil {
		panic(err)
	}

	// Install the inspector panels over the world's registry and scheduler
	overlay := debugui.NewOverlay(world.Registry, world.Scheduler)
	overlay.GridStats = world.Grid.Stats
	imguiSystem := &debugui.ImguiSystem{}
	overlay.Install(imguiSystem)

	ui := ecs.NewScheduler(world.Registry)
	ui.Register(imguiSystem)

	game := &Game{
		world:   world,
		ui:      ui,
		backend: backend,
	}

	if err := ebiten.RunGame(game); err != nil {
		panic(err)
	}
}
