package sim

import (
	"math"

	"github.com/plus3/ironrails/ecs"
)

// nearestEnemy returns the live enemy closest to (x, y) within radius. On
// equal distances the first candidate visited wins, so exactly one target is
// returned whenever any is in range.
func nearestEnemy(reg *ecs.Registry, grid *Grid, x, y, radius float64) (ecs.EntityId, bool) {
	var nearest ecs.EntityId
	best := math.Inf(1)

	grid.QueryRadiusFunc(x, y, radius, func(id ecs.EntityId, _, _ float64) bool {
		e, ok := reg.Get(id)
		if !ok || e.Kind != ecs.KindEnemy {
			return true
		}
		pos := reg.Positions.Get(id)
		if pos == nil {
			return true
		}
		if h := reg.Healths.Get(id); h != nil && h.Dead() {
			return true
		}

		dx, dy := pos.X-x, pos.Y-y
		if d := dx*dx + dy*dy; d < best {
			best = d
			nearest = id
		}
		return true
	})

	return nearest, nearest != 0
}
