package sim_test

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSpawner(f *fixture, level int) *sim.SpawnerSystem {
	return sim.NewSpawnerSystem(f.grid, config.Default().Spawner, level, rand.New(rand.NewPCG(1, 2)), nil)
}

func TestSpawnCadence(t *testing.T) {
	f := newFixture()
	spawner := newSpawner(f, 1)

	steps := []struct {
		now  time.Duration
		want int
	}{
		{0, 0},
		{2000 * time.Millisecond, 1},
		{3000 * time.Millisecond, 1},
		{4100 * time.Millisecond, 2},
	}
	for _, step := range steps {
		spawner.Execute(f.frame(step.now, 0))
		assert.Len(t, f.reg.ByKind(ecs.KindEnemy), step.want, "at %v", step.now)
	}
	assert.Equal(t, 4100*time.Millisecond, spawner.LastSpawn())
}

func TestSpawnedEnemy(t *testing.T) {
	f := newFixture()
	factory := newSpriteFactory()
	spawner := newSpawner(f, 1)
	spawner.Visuals = factory

	spawner.Execute(f.frame(2*time.Second, 0))

	enemies := f.reg.ByKind(ecs.KindEnemy)
	require.Len(t, enemies, 1)
	id := enemies[0].Id

	pos := f.reg.Positions.Get(id)
	assert.Equal(t, 1500.0, pos.X)
	assert.GreaterOrEqual(t, pos.Y, 200.0)
	assert.LessOrEqual(t, pos.Y, 520.0)
	assert.Equal(t, ecs.Health{Current: 3, Max: 3}, *f.reg.Healths.Get(id))
	assert.Equal(t, ecs.Velocity{VX: -30}, *f.reg.Velocities.Get(id))
	assert.Equal(t, ecs.EnemyShambler, f.reg.Enemies.Get(id).Type)
	assert.Contains(t, f.grid.QueryRadius(pos.X, pos.Y, 0), id)
	assert.Contains(t, factory.sprites, id)

	events := f.drain()
	require.Len(t, events, 1)
	assert.Equal(t, ecs.EventSpawned, events[0].Kind)
	assert.Equal(t, id, events[0].Entity.Id)
}

func TestSpawnKeepsMinimumGapToLead(t *testing.T) {
	f := newFixture()
	f.lead(1400, 360)
	spawner := newSpawner(f, 1)

	spawner.Execute(f.frame(2*time.Second, 0))

	enemies := f.reg.ByKind(ecs.KindEnemy)
	require.Len(t, enemies, 1)
	assert.Equal(t, 1800.0, f.reg.Positions.Get(enemies[0].Id).X)
}

func TestSpawnTable(t *testing.T) {
	assert.Equal(t, []sim.SpawnWeight{{Type: ecs.EnemyShambler, Weight: 100}}, sim.SpawnTable(1))
	assert.Equal(t, sim.SpawnTable(1), sim.SpawnTable(0))
	assert.Equal(t, sim.SpawnTable(5), sim.SpawnTable(12))
	assert.Len(t, sim.SpawnTable(3), 3)
}

func TestSelectEnemy(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))

	for i := 0; i < 100; i++ {
		assert.Equal(t, ecs.EnemyShambler, sim.SelectEnemy(rng, 2))
	}

	counts := make(map[ecs.EnemyType]int)
	for i := 0; i < 10000; i++ {
		counts[sim.SelectEnemy(rng, 5)]++
	}
	assert.InDelta(t, 6000, counts[ecs.EnemyShambler], 300)
	assert.InDelta(t, 2500, counts[ecs.EnemyRunner], 300)
	assert.InDelta(t, 1500, counts[ecs.EnemyBloater], 300)
}

func TestStatsFor(t *testing.T) {
	bloater := sim.StatsFor(ecs.EnemyBloater)
	assert.Equal(t, 10.0, bloater.Health)
	assert.Equal(t, 150.0, bloater.ExplosionRadius)
	assert.Equal(t, 3.0, bloater.ScrapDrop)

	assert.Equal(t, sim.StatsFor(ecs.EnemyShambler), sim.StatsFor(ecs.EnemyType(42)))
}
