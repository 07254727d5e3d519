package sim

import "github.com/plus3/ironrails/ecs"

// MovementSystem integrates velocity into position and re-indexes every
// moved entity in the grid.
type MovementSystem struct {
	Grid *Grid
}

func NewMovementSystem(grid *Grid) *MovementSystem {
	return &MovementSystem{Grid: grid}
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	reg := frame.Registry
	dt := frame.Delta.Seconds()

	for id, item := range ecs.Join(reg.Positions, reg.Velocities) {
		pos := item.First
		pos.X += item.Second.VX * dt
		pos.Y += item.Second.VY * dt

		if v := reg.Visuals.Get(id); v != nil {
			v.SyncPosition(pos.X, pos.Y)
		}
		s.Grid.Update(id, pos.X, pos.Y)
	}
}
