// Package sim implements the convoy simulation systems on top of the ecs
// registry and the spatial grid.
package sim

import (
	"time"

	"github.com/plus3/ironrails/ecs"
	"github.com/plus3/ironrails/spatial"
)

// Grid is the spatial index keyed by entity id.
type Grid = spatial.Grid[ecs.EntityId]

// NewGrid creates a grid whose entries are dropped whenever reg removes an
// entity, so the two never disagree about which ids are live.
func NewGrid(reg *ecs.Registry, cellSize float64) *Grid {
	grid := spatial.New[ecs.EntityId](cellSize)
	reg.OnRemove(func(e ecs.Entity) {
		grid.Remove(e.Id)
	})
	return grid
}

// Timers schedules a callback after a simulation-time delay.
type Timers interface {
	After(d time.Duration, fn func())
}

// VisualFactory creates render handles for new entities. The returned
// handle may implement ecs.PositionSyncer and ecs.Releaser. A nil factory
// runs the simulation headless.
type VisualFactory interface {
	NewVisual(e ecs.Entity, x, y float64) any
}

func attachVisual(reg *ecs.Registry, factory VisualFactory, e ecs.Entity, x, y float64) {
	if factory == nil {
		return
	}
	if handle := factory.NewVisual(e, x, y); handle != nil {
		reg.Visuals.Set(e.Id, ecs.Visual{Handle: handle})
	}
}

// place sets the entity's position, mirrors it to its visual and keeps the
// grid in step when the entity is indexed.
func place(reg *ecs.Registry, grid *Grid, id ecs.EntityId, x, y float64) {
	pos := reg.Positions.Get(id)
	if pos == nil {
		return
	}
	pos.X, pos.Y = x, y
	if v := reg.Visuals.Get(id); v != nil {
		v.SyncPosition(x, y)
	}
	if grid.Has(id) {
		grid.Update(id, x, y)
	}
}
