package sim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"go.uber.org/zap"
)

type Outcome uint8

const (
	OutcomeRunning Outcome = iota
	OutcomeVictory
	OutcomeDefeat
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRunning:
		return "running"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	default:
		return fmt.Sprintf("outcome(%d)", uint8(o))
	}
}

// TargetDistance is the distance the convoy must travel to clear a level.
func TargetDistance(level int) float64 {
	switch {
	case level <= 1:
		return 5000
	case level == 2:
		return 7000
	case level == 3:
		return 9000
	default:
		return 9000 + float64(level-3)*3000
	}
}

// RunStats summarizes a world's progress.
type RunStats struct {
	Elapsed        time.Duration
	Ticks          int64
	Distance       float64
	TargetDistance float64
	Spawned        int
	Kills          int
	Despawned      int
	ScrapCollected float64
	ScrapExpired   int
	CarsLost       int
	Health         float64
	MaxHealth      float64
	Outcome        Outcome
}

type Option func(*World)

func WithLogger(logger *zap.Logger) Option {
	return func(w *World) { w.logger = logger }
}

// WithVisuals attaches render handles to every entity the world creates.
func WithVisuals(factory VisualFactory) Option {
	return func(w *World) { w.visuals = factory }
}

// WithRand overrides the seeded random source derived from the config.
func WithRand(rng *rand.Rand) Option {
	return func(w *World) { w.rng = rng }
}

// World assembles the registry, grid, scheduler and every system of one
// simulation run. A World is single-threaded; run separate worlds in
// separate goroutines.
type World struct {
	Registry  *ecs.Registry
	Grid      *Grid
	Scheduler *ecs.Scheduler

	Spawner  *SpawnerSystem
	Player   *PlayerSystem
	Movement *MovementSystem
	Combat   *CombatSystem
	Weapons  *WeaponSystem
	Scrap    *ScrapSystem
	Train    *TrainSystem
	Cleanup  *CleanupSystem

	cfg     config.Config
	lead    ecs.Entity
	startX  float64
	stats   RunStats
	logger  *zap.Logger
	visuals VisualFactory
	rng     *rand.Rand
}

// NewWorld builds a world from cfg, including the convoy described by
// cfg.Lead and cfg.Cars.
func NewWorld(cfg config.Config, opts ...Option) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	w := &World{cfg: cfg}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.rng == nil {
		seed := cfg.SeedValue()
		w.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	w.Registry = ecs.NewRegistry()
	w.Grid = NewGrid(w.Registry, cfg.Grid.CellSize)
	w.Scheduler = ecs.NewScheduler(w.Registry)
	timers := w.Scheduler.Timers()
	events := w.Scheduler.Events()

	w.Spawner = NewSpawnerSystem(w.Grid, cfg.Spawner, cfg.Level, w.rng, w.logger)
	w.Spawner.Visuals = w.visuals
	w.Player = NewPlayerSystem(cfg.Upgrades, w.logger)
	w.Movement = NewMovementSystem(w.Grid)
	w.Combat = NewCombatSystem(w.Grid, cfg.Combat, w.logger)
	w.Weapons = NewWeaponSystem(w.Grid)
	w.Scrap = NewScrapSystem(w.Grid, timers, cfg.Scrap)
	w.Scrap.Visuals = w.visuals
	w.Scrap.Events = events
	w.Scrap.OnCurrency = func(amount float64) { w.stats.ScrapCollected += amount }
	w.Train = NewTrainSystem(w.Grid, cfg.Train.CarSpacing, w.logger)
	w.Train.Events = events
	w.Cleanup = NewCleanupSystem(cfg.Bounds.MinX)

	w.Combat.SetArmor(cfg.Upgrades.Armor)
	w.Combat.Sink = w.Train
	w.Combat.OnEnemyKilled = w.dropScrap
	w.Weapons.OnEnemyKilled = w.dropScrap

	w.Scheduler.Register(w.Spawner)
	w.Scheduler.Register(w.Player)
	w.Scheduler.Register(w.Movement)
	w.Scheduler.Register(w.Combat)
	w.Scheduler.Register(w.Weapons)
	w.Scheduler.Register(w.Scrap)
	w.Scheduler.Register(w.Train)
	w.Scheduler.Register(w.Cleanup)

	events.Subscribe(w.record)

	if err := w.buildConvoy(); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *World) buildConvoy() error {
	reg := w.Registry
	lc := w.cfg.Lead
	maxHealth := lc.Health + max(w.cfg.Upgrades.MaxHP, 0)

	w.lead = reg.Create(ecs.KindLead)
	w.startX = lc.X
	reg.Positions.Set(w.lead.Id, ecs.Position{X: lc.X, Y: lc.Y})
	reg.Healths.Set(w.lead.Id, ecs.Health{Current: maxHealth, Max: maxHealth})
	reg.Velocities.Set(w.lead.Id, ecs.Velocity{VX: lc.Speed})
	reg.Combats.Set(w.lead.Id, ecs.Combat{
		Damage:       lc.Damage,
		Range:        lc.Range,
		FireInterval: lc.FireInterval,
	})
	reg.TrainCars.Set(w.lead.Id, ecs.TrainCar{Type: ecs.CarEngine})
	attachVisual(reg, w.visuals, w.lead, lc.X, lc.Y)
	w.Grid.Insert(w.lead.Id, lc.X, lc.Y)

	composition := []ecs.EntityId{w.lead.Id}
	for i, cc := range w.cfg.Cars {
		carType, err := ParseCarType(cc.Type)
		if err != nil {
			return fmt.Errorf("cars[%d]: %w", i, err)
		}

		slot := i + 1
		x := lc.X - float64(slot)*w.cfg.Train.CarSpacing
		car := reg.Create(ecs.KindCar)
		reg.Positions.Set(car.Id, ecs.Position{X: x, Y: lc.Y})
		reg.Healths.Set(car.Id, ecs.Health{Current: cc.Health, Max: cc.Health})
		attachVisual(reg, w.visuals, car, x, lc.Y)
		w.Grid.Insert(car.Id, x, lc.Y)

		hardpoints := make([]ecs.EntityId, 0, len(cc.Hardpoints))
		for j, hc := range cc.Hardpoints {
			hx, hy := x+hc.OffsetX, lc.Y+hc.OffsetY
			hp := reg.Create(ecs.KindHardpoint)
			reg.Positions.Set(hp.Id, ecs.Position{X: hx, Y: hy})
			mount := ecs.Hardpoint{OffsetX: hc.OffsetX, OffsetY: hc.OffsetY}

			if hc.Weapon != "" {
				weaponType, err := ParseWeaponType(hc.Weapon)
				if err != nil {
					return fmt.Errorf("cars[%d].hardpoints[%d]: %w", i, j, err)
				}
				weapon := reg.Create(ecs.KindWeapon)
				reg.Positions.Set(weapon.Id, ecs.Position{X: hx, Y: hy})
				reg.Weapons.Set(weapon.Id, WeaponPreset(weaponType))
				attachVisual(reg, w.visuals, weapon, hx, hy)
				mount.Weapon = weapon.Id
			}
			reg.Hardpoints.Set(hp.Id, mount)
			hardpoints = append(hardpoints, hp.Id)
		}

		reg.TrainCars.Set(car.Id, ecs.TrainCar{Type: carType, Slot: slot, Hardpoints: hardpoints})
		composition = append(composition, car.Id)
	}

	reg.Compositions.Set(w.lead.Id, ecs.Composition{Cars: composition[1:]})
	w.Train.SetComposition(composition)

	w.logger.Info("convoy assembled",
		zap.Uint64("lead", uint64(w.lead.Id)),
		zap.Int("cars", len(composition)-1),
		zap.Float64("health", maxHealth),
		zap.Int("level", w.cfg.Level),
	)
	return nil
}

func (w *World) dropScrap(id ecs.EntityId, x, y float64) {
	value := w.cfg.Scrap.Value
	if enemy := w.Registry.Enemies.Get(id); enemy != nil {
		value = enemy.ScrapDrop
	}
	w.Scrap.SpawnValue(w.Registry, x, y, value)
}

func (w *World) record(ev ecs.Event) {
	switch ev.Kind {
	case ecs.EventSpawned:
		w.stats.Spawned++
	case ecs.EventKilled:
		w.stats.Kills++
	case ecs.EventDespawned:
		w.stats.Despawned++
	case ecs.EventExpired:
		w.stats.ScrapExpired++
	case ecs.EventCarDestroyed:
		w.stats.CarsLost++
	}
}

// Lead returns the convoy's lead entity.
func (w *World) Lead() ecs.Entity {
	return w.lead
}

// Config returns the configuration the world was built from.
func (w *World) Config() config.Config {
	return w.cfg
}

// Tick advances the simulation to absolute time now.
func (w *World) Tick(now, delta time.Duration) {
	before := w.Outcome()
	w.Scheduler.Once(now, delta)
	if after := w.Outcome(); after != before {
		w.logger.Info("run finished",
			zap.Stringer("outcome", after),
			zap.Duration("elapsed", now),
			zap.Float64("distance", w.distance()),
			zap.Int("kills", w.stats.Kills),
		)
	}
}

// Run ticks in real time until ctx is cancelled. Use the scheduler's pause
// and time scale to control the clock.
func (w *World) Run(ctx context.Context, interval time.Duration) {
	w.Scheduler.Run(ctx, interval)
}

// Simulate ticks at the configured fixed step, as fast as possible, until
// the run is won or lost, the configured duration elapses, or ctx is done.
func (w *World) Simulate(ctx context.Context) (RunStats, error) {
	step := w.cfg.Run.Step
	for now := w.Scheduler.Now() + step; ; now += step {
		if err := ctx.Err(); err != nil {
			return w.Stats(), err
		}
		w.Tick(now, step)
		if w.Outcome() != OutcomeRunning {
			break
		}
		if w.cfg.Run.MaxDuration > 0 && now >= w.cfg.Run.MaxDuration {
			break
		}
	}
	return w.Stats(), nil
}

func (w *World) distance() float64 {
	if pos := w.Registry.Positions.Get(w.lead.Id); pos != nil {
		return pos.X - w.startX
	}
	return w.stats.Distance
}

// Outcome reports whether the run is still going, reached its target
// distance or lost its convoy.
func (w *World) Outcome() Outcome {
	if w.Train.IsDestroyed(w.Registry) {
		return OutcomeDefeat
	}
	if w.distance() >= TargetDistance(w.cfg.Level) {
		return OutcomeVictory
	}
	return OutcomeRunning
}

// Stats returns a snapshot of the run's progress.
func (w *World) Stats() RunStats {
	w.stats.Distance = w.distance()
	stats := w.stats
	stats.Elapsed = w.Scheduler.Now()
	stats.Ticks = w.Scheduler.GetStats().Ticks
	stats.TargetDistance = TargetDistance(w.cfg.Level)
	stats.Health, stats.MaxHealth = w.Train.TotalHealth(w.Registry)
	stats.Outcome = w.Outcome()
	return stats
}
