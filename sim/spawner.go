package sim

import (
	"math/rand/v2"
	"time"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"go.uber.org/zap"
)

// SpawnerSystem creates an enemy every Interval of simulation time. Cadence
// is measured from absolute time zero, so the first spawn happens at the
// first tick at or after Interval.
type SpawnerSystem struct {
	Grid     *Grid
	Visuals  VisualFactory
	Interval time.Duration
	X        float64
	MinY     float64
	MaxY     float64
	MinGap   float64
	Level    int

	rng       *rand.Rand
	lastSpawn time.Duration
	logger    *zap.Logger
}

func NewSpawnerSystem(grid *Grid, cfg config.SpawnerConfig, level int, rng *rand.Rand, logger *zap.Logger) *SpawnerSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SpawnerSystem{
		Grid:     grid,
		Interval: cfg.Interval,
		X:        cfg.X,
		MinY:     cfg.MinY,
		MaxY:     cfg.MaxY,
		MinGap:   cfg.MinGap,
		Level:    level,
		rng:      rng,
		logger:   logger,
	}
}

// LastSpawn returns the simulation time of the most recent spawn.
func (s *SpawnerSystem) LastSpawn() time.Duration {
	return s.lastSpawn
}

func (s *SpawnerSystem) Execute(frame *ecs.UpdateFrame) {
	if frame.Time-s.lastSpawn < s.Interval {
		return
	}

	reg := frame.Registry
	x := s.X
	if lead, ok := reg.First(ecs.KindLead); ok {
		if pos := reg.Positions.Get(lead.Id); pos != nil {
			x = max(x, pos.X+s.MinGap)
		}
	}
	y := s.MinY + s.rng.Float64()*(s.MaxY-s.MinY)

	enemyType := SelectEnemy(s.rng, s.Level)
	e := s.spawn(reg, enemyType, x, y)
	s.lastSpawn = frame.Time

	s.logger.Debug("enemy spawned",
		zap.Uint64("entity", uint64(e.Id)),
		zap.Stringer("type", enemyType),
		zap.Float64("x", x),
		zap.Float64("y", y),
	)
	frame.Events.Emit(ecs.Event{Kind: ecs.EventSpawned, Entity: e, Time: frame.Time, X: x, Y: y})
}

func (s *SpawnerSystem) spawn(reg *ecs.Registry, t ecs.EnemyType, x, y float64) ecs.Entity {
	stats := StatsFor(t)

	e := reg.Create(ecs.KindEnemy)
	reg.Positions.Set(e.Id, ecs.Position{X: x, Y: y})
	reg.Healths.Set(e.Id, ecs.Health{Current: stats.Health, Max: stats.Health})
	reg.Velocities.Set(e.Id, ecs.Velocity{VX: stats.Speed})
	reg.Enemies.Set(e.Id, ecs.Enemy{
		Type:            t,
		ExplosionRadius: stats.ExplosionRadius,
		ExplosionDamage: stats.ExplosionDamage,
		ScrapDrop:       stats.ScrapDrop,
	})
	attachVisual(reg, s.Visuals, e, x, y)
	s.Grid.Insert(e.Id, x, y)
	return e
}
