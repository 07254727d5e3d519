package main

import (
	"errors"
	"flag"
	"fmt"
	"image/color"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/ecs/debugui"
	debugui_ebiten "github.com/plus3/ironrails/ecs/debugui/ebiten"
	"github.com/plus3/ironrails/sim"
	"go.uber.org/zap"
)

const (
	ScreenWidth  = 1280
	ScreenHeight = 720
)

type Game struct {
	World   *sim.World
	Sprites *SpriteSet
	Logger  *zap.Logger

	ui      *ecs.Scheduler
	imgui   *debugui.ImguiSystem
	backend *debugui_ebiten.ImguiBackend
	uiTime  time.Duration
	camera  float32
}

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file. Defaults are used when empty.")
	level := flag.Int("level", 0, "Override the configured level.")
	seed := flag.String("seed", "", "Override the configured seed.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
	}
	if *level > 0 {
		cfg.Level = *level
	}
	if *seed != "" {
		cfg.Seed = *seed
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer logger.Sync()

	backend := debugui_ebiten.New("Iron Rails", ScreenWidth, ScreenHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	sprites := &SpriteSet{}
	world, err := sim.NewWorld(cfg, sim.WithLogger(logger), sim.WithVisuals(sprites))
	if err != nil {
		logger.Fatal("failed to build world", zap.Error(err))
	}

	overlay := debugui.NewOverlay(world.Registry, world.Scheduler)
	overlay.GridStats = world.Grid.Stats
	imguiSystem := &debugui.ImguiSystem{}
	overlay.Install(imguiSystem)

	ui := ecs.NewScheduler(world.Registry)
	ui.Register(imguiSystem)

	game := &Game{
		World:   world,
		Sprites: sprites,
		Logger:  logger,
		ui:      ui,
		imgui:   imguiSystem,
		backend: backend,
	}

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("game loop failed", zap.Error(err))
	}

	stats := world.Stats()
	logger.Info("session ended",
		zap.Stringer("outcome", stats.Outcome),
		zap.Duration("elapsed", stats.Elapsed),
		zap.Int("kills", stats.Kills),
		zap.Float64("scrap", stats.ScrapCollected),
	)
}

func (g *Game) Update() error {
	if !g.imgui.InputState.WantCaptureKeyboard {
		if ebiten.IsKeyPressed(ebiten.KeyQ) || ebiten.IsKeyPressed(ebiten.KeyEscape) {
			return ebiten.Termination
		}
		g.handleInput()
	}

	dt := time.Second / time.Duration(ebiten.TPS())
	scheduler := g.World.Scheduler

	g.backend.Frame(func() {
		if !scheduler.Paused() && g.World.Outcome() == sim.OutcomeRunning {
			step := time.Duration(float64(dt) * scheduler.TimeScale())
			g.World.Tick(scheduler.Now()+step, step)
		}

		g.uiTime += dt
		g.ui.Once(g.uiTime, dt)
	})
	return nil
}

func (g *Game) handleInput() {
	scheduler := g.World.Scheduler
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		scheduler.SetPaused(!scheduler.Paused())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		scheduler.SetTimeScale(scheduler.TimeScale() * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		scheduler.SetTimeScale(scheduler.TimeScale() / 2)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{245, 245, 240, 255})

	lead := g.World.Registry.Positions.Get(g.World.Lead().Id)
	if lead != nil {
		g.camera = float32(lead.X) - float32(g.World.Config().Lead.X)
	}
	g.Sprites.Draw(screen, g.World.Registry, g.camera, 0)

	stats := g.World.Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"%s  distance %.0f / %.0f  hp %.0f / %.0f  kills %d  scrap %.0f  x%.2f",
		stats.Outcome, stats.Distance, stats.TargetDistance,
		stats.Health, stats.MaxHealth, stats.Kills, stats.ScrapCollected,
		g.World.Scheduler.TimeScale(),
	))

	g.backend.DrawOverlay(screen)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.backend.Layout(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
