package sim

import (
	"math/rand/v2"

	"github.com/plus3/ironrails/ecs"
)

// EnemyStats are the per-type starting values of an enemy.
type EnemyStats struct {
	Health          float64
	Speed           float64
	ExplosionRadius float64
	ExplosionDamage float64
	ScrapDrop       float64
}

var enemyStats = map[ecs.EnemyType]EnemyStats{
	ecs.EnemyShambler: {Health: 3, Speed: -30, ExplosionRadius: 80, ExplosionDamage: 1, ScrapDrop: 1},
	ecs.EnemyBloater:  {Health: 10, Speed: -20, ExplosionRadius: 150, ExplosionDamage: 2, ScrapDrop: 3},
	ecs.EnemyRunner:   {Health: 1, Speed: -80, ExplosionRadius: 60, ExplosionDamage: 1, ScrapDrop: 2},
}

// StatsFor returns the stats of an enemy type. Unknown types get shambler
// stats.
func StatsFor(t ecs.EnemyType) EnemyStats {
	if stats, ok := enemyStats[t]; ok {
		return stats
	}
	return enemyStats[ecs.EnemyShambler]
}

// SpawnWeight is one entry of a level's spawn table.
type SpawnWeight struct {
	Type   ecs.EnemyType
	Weight int
}

var spawnTables = [][]SpawnWeight{
	{{ecs.EnemyShambler, 100}},
	{{ecs.EnemyShambler, 100}},
	{{ecs.EnemyShambler, 80}, {ecs.EnemyRunner, 15}, {ecs.EnemyBloater, 5}},
	{{ecs.EnemyShambler, 70}, {ecs.EnemyRunner, 20}, {ecs.EnemyBloater, 10}},
	{{ecs.EnemyShambler, 60}, {ecs.EnemyRunner, 25}, {ecs.EnemyBloater, 15}},
}

// SpawnTable returns the weighted enemy mix for a level. Levels below 1 use
// the level 1 table and levels past the last table reuse it.
func SpawnTable(level int) []SpawnWeight {
	idx := min(max(level, 1), len(spawnTables)) - 1
	return spawnTables[idx]
}

// SelectEnemy picks an enemy type from the level's table with probability
// proportional to its weight.
func SelectEnemy(rng *rand.Rand, level int) ecs.EnemyType {
	table := SpawnTable(level)
	total := 0
	for _, entry := range table {
		total += entry.Weight
	}

	roll := rng.IntN(total)
	for _, entry := range table {
		if roll < entry.Weight {
			return entry.Type
		}
		roll -= entry.Weight
	}
	return table[0].Type
}
