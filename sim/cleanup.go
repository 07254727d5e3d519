package sim

import "github.com/plus3/ironrails/ecs"

// CleanupSystem removes enemies that walked off the left edge.
type CleanupSystem struct {
	MinX float64
}

func NewCleanupSystem(minX float64) *CleanupSystem {
	return &CleanupSystem{MinX: minX}
}

func (s *CleanupSystem) Execute(frame *ecs.UpdateFrame) {
	reg := frame.Registry
	for _, e := range reg.ByKind(ecs.KindEnemy) {
		pos := reg.Positions.Get(e.Id)
		if pos == nil || pos.X >= s.MinX {
			continue
		}
		x, y := pos.X, pos.Y
		reg.Remove(e.Id)
		frame.Events.Emit(ecs.Event{Kind: ecs.EventDespawned, Entity: e, Time: frame.Time, X: x, Y: y})
	}
}
