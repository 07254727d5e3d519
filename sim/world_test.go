package sim_test

import (
	"context"
	"testing"
	"time"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convoyConfig() config.Config {
	cfg := config.Default()
	cfg.Cars = []config.CarConfig{
		{Type: "gun", Health: 5, Hardpoints: []config.HardpointConfig{{OffsetY: -10, Weapon: "gatling"}}},
		{Type: "cargo", Health: 8},
	}
	return cfg
}

func TestNewWorld(t *testing.T) {
	cfg := convoyConfig()
	cfg.Upgrades.MaxHP = 5
	w, err := sim.NewWorld(cfg)
	require.NoError(t, err)

	lead := w.Lead()
	assert.Equal(t, ecs.KindLead, lead.Kind)
	assert.Equal(t, ecs.Health{Current: 15, Max: 15}, *w.Registry.Healths.Get(lead.Id))
	assert.Equal(t, ecs.Position{X: 200, Y: 360}, *w.Registry.Positions.Get(lead.Id))

	composition := w.Train.Composition()
	require.Len(t, composition, 3)
	assert.Equal(t, lead.Id, composition[0])
	assert.Equal(t, composition[1:], w.Registry.Compositions.Get(lead.Id).Cars)
	assert.Equal(t, ecs.Position{X: 100, Y: 360}, *w.Registry.Positions.Get(composition[2]))

	gun := w.Registry.TrainCars.Get(composition[1])
	require.NotNil(t, gun)
	assert.Equal(t, ecs.CarGun, gun.Type)
	require.Len(t, gun.Hardpoints, 1)
	mount := w.Registry.Hardpoints.Get(gun.Hardpoints[0])
	require.NotNil(t, mount)
	assert.Equal(t, ecs.WeaponGatling, w.Registry.Weapons.Get(mount.Weapon).Type)

	assert.Len(t, w.Registry.ByKind(ecs.KindWeapon), 1)
	assert.Equal(t, sim.OutcomeRunning, w.Outcome())
}

func TestNewWorldRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.CellSize = 0
	_, err := sim.NewWorld(cfg)
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestWorldAttachesVisuals(t *testing.T) {
	factory := newSpriteFactory()
	w, err := sim.NewWorld(convoyConfig(), sim.WithVisuals(factory))
	require.NoError(t, err)

	assert.Contains(t, factory.sprites, w.Lead().Id)
	for _, id := range w.Train.Composition() {
		assert.Contains(t, factory.sprites, id)
	}

	w.Tick(time.Second, time.Second)
	assert.Greater(t, factory.sprites[w.Lead().Id].x, 200.0, "lead sprite follows movement")
}

func TestWorldTickOrder(t *testing.T) {
	w, err := sim.NewWorld(config.Default())
	require.NoError(t, err)

	names := make([]string, 0)
	for _, s := range w.Scheduler.GetStats().Systems {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{
		"SpawnerSystem",
		"PlayerSystem",
		"MovementSystem",
		"CombatSystem",
		"WeaponSystem",
		"ScrapSystem",
		"TrainSystem",
		"CleanupSystem",
	}, names)
}

// TestWorldGridMatchesRegistry checks after every tick that each indexed id
// is live and that every indexed position equals its Position component.
func TestWorldGridMatchesRegistry(t *testing.T) {
	cfg := convoyConfig()
	cfg.Level = 5
	cfg.Spawner.Interval = 300 * time.Millisecond
	w, err := sim.NewWorld(cfg)
	require.NoError(t, err)

	step := 50 * time.Millisecond
	for now := step; now <= 60*time.Second; now += step {
		w.Tick(now, step)

		for _, e := range w.Registry.All() {
			x, y, ok := w.Grid.Position(e.Id)
			if !ok {
				continue
			}
			pos := w.Registry.Positions.Get(e.Id)
			require.NotNil(t, pos, "entity %d indexed without position", e.Id)
			require.Equal(t, pos.X, x, "entity %d at %v", e.Id, now)
			require.Equal(t, pos.Y, y, "entity %d at %v", e.Id, now)
		}

		tracked := 0
		for _, e := range w.Registry.All() {
			if w.Grid.Has(e.Id) {
				tracked++
			}
		}
		require.Equal(t, w.Grid.Len(), tracked, "dangling grid entries at %v", now)

		if w.Outcome() != sim.OutcomeRunning {
			break
		}
	}
}

func TestWorldSimulateIsDeterministic(t *testing.T) {
	run := func() sim.RunStats {
		cfg := convoyConfig()
		cfg.Seed = "determinism"
		cfg.Level = 4
		cfg.Run.MaxDuration = 90 * time.Second
		w, err := sim.NewWorld(cfg)
		require.NoError(t, err)
		stats, err := w.Simulate(context.Background())
		require.NoError(t, err)
		return stats
	}

	first := run()
	second := run()
	assert.Equal(t, first, second)
	assert.Greater(t, first.Spawned, 0)
	assert.Greater(t, first.Kills, 0)
	assert.Greater(t, first.ScrapCollected+float64(first.ScrapExpired), 0.0)
}

func TestWorldVictory(t *testing.T) {
	cfg := config.Default()
	cfg.Lead.Speed = 1000
	cfg.Upgrades.MaxSpeed = 100
	cfg.Run.MaxDuration = time.Minute
	w, err := sim.NewWorld(cfg)
	require.NoError(t, err)

	stats, err := w.Simulate(context.Background())
	require.NoError(t, err)

	assert.Equal(t, sim.OutcomeVictory, stats.Outcome)
	assert.GreaterOrEqual(t, stats.Distance, 5000.0)
	assert.Less(t, stats.Elapsed, time.Minute)
}

func TestWorldDefeat(t *testing.T) {
	w, err := sim.NewWorld(config.Default())
	require.NoError(t, err)

	w.Train.RouteDamage(w.Registry, 100)
	assert.Equal(t, sim.OutcomeDefeat, w.Outcome())
	assert.Equal(t, sim.OutcomeDefeat, w.Stats().Outcome)
}

func TestWorldSimulateCancelled(t *testing.T) {
	w, err := sim.NewWorld(config.Default())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = w.Simulate(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorldExplosionsHitRearCarFirst(t *testing.T) {
	cfg := convoyConfig()
	w, err := sim.NewWorld(cfg)
	require.NoError(t, err)

	lead := w.Lead().Id
	enemy := w.Registry.Create(ecs.KindEnemy)
	w.Registry.Positions.Set(enemy.Id, ecs.Position{X: 250, Y: 360})
	w.Registry.Healths.Set(enemy.Id, ecs.Health{Current: 1, Max: 1})
	w.Registry.Enemies.Set(enemy.Id, ecs.Enemy{ExplosionRadius: 80, ExplosionDamage: 1, ScrapDrop: 2})
	w.Grid.Insert(enemy.Id, 250, 360)

	w.Tick(time.Second, 0)

	composition := w.Train.Composition()
	rear := composition[len(composition)-1]
	assert.Equal(t, 7.0, w.Registry.Healths.Get(rear).Current)
	assert.Equal(t, 10.0, w.Registry.Healths.Get(lead).Current)

	stats := w.Stats()
	assert.Equal(t, 1, stats.Kills)
	assert.Equal(t, 2.0, stats.ScrapCollected, "drop lands inside the collection radius")
}

func TestTargetDistance(t *testing.T) {
	assert.Equal(t, 5000.0, sim.TargetDistance(1))
	assert.Equal(t, 7000.0, sim.TargetDistance(2))
	assert.Equal(t, 9000.0, sim.TargetDistance(3))
	assert.Equal(t, 12000.0, sim.TargetDistance(4))
	assert.Equal(t, 15000.0, sim.TargetDistance(5))
}
