package sim

import (
	"time"

	"github.com/plus3/ironrails/config"
	"github.com/plus3/ironrails/ecs"
)

// ScrapSystem spawns collectibles where enemies die and hands them to the
// convoy when the lead passes within the collection radius.
type ScrapSystem struct {
	Grid    *Grid
	Timers  Timers
	Visuals VisualFactory
	Events  *ecs.Events

	// OnCurrency is called once per collected item with its value.
	OnCurrency func(amount float64)

	Radius   float64
	Lifetime time.Duration
	Value    float64
}

func NewScrapSystem(grid *Grid, timers Timers, cfg config.ScrapConfig) *ScrapSystem {
	return &ScrapSystem{
		Grid:     grid,
		Timers:   timers,
		Radius:   cfg.CollectionRadius,
		Lifetime: cfg.Lifetime,
		Value:    cfg.Value,
	}
}

// Spawn creates a collectible worth the default value at (x, y).
func (s *ScrapSystem) Spawn(reg *ecs.Registry, x, y float64) ecs.Entity {
	return s.SpawnValue(reg, x, y, s.Value)
}

// SpawnValue creates a collectible at (x, y) that expires after the
// configured lifetime unless collected first.
func (s *ScrapSystem) SpawnValue(reg *ecs.Registry, x, y, value float64) ecs.Entity {
	e := reg.Create(ecs.KindCollectible)
	reg.Positions.Set(e.Id, ecs.Position{X: x, Y: y})
	reg.Collectibles.Set(e.Id, ecs.Collectible{Value: value})
	attachVisual(reg, s.Visuals, e, x, y)
	s.Grid.Insert(e.Id, x, y)

	if s.Timers != nil {
		s.Timers.After(s.Lifetime, func() {
			if reg.Remove(e.Id) {
				ev := ecs.Event{Kind: ecs.EventExpired, Entity: e, X: x, Y: y, Value: value}
				if clock, ok := s.Timers.(interface{ Now() time.Duration }); ok {
					ev.Time = clock.Now()
				}
				s.Events.Emit(ev)
			}
		})
	}
	return e
}

func (s *ScrapSystem) Execute(frame *ecs.UpdateFrame) {
	reg := frame.Registry
	lead, ok := reg.First(ecs.KindLead)
	if !ok {
		return
	}
	pos := reg.Positions.Get(lead.Id)
	if pos == nil {
		return
	}

	// Removal mutates the grid, so collect first.
	type hit struct {
		id   ecs.EntityId
		x, y float64
	}
	var hits []hit
	s.Grid.QueryRadiusFunc(pos.X, pos.Y, s.Radius, func(id ecs.EntityId, x, y float64) bool {
		hits = append(hits, hit{id: id, x: x, y: y})
		return true
	})

	for _, h := range hits {
		e, ok := reg.Get(h.id)
		if !ok || e.Kind != ecs.KindCollectible {
			continue
		}
		item := reg.Collectibles.Get(h.id)
		if item == nil {
			continue
		}

		value := item.Value
		if s.OnCurrency != nil {
			s.OnCurrency(value)
		}
		reg.Remove(h.id)
		frame.Events.Emit(ecs.Event{
			Kind:   ecs.EventCollected,
			Entity: e,
			Time:   frame.Time,
			X:      h.x,
			Y:      h.y,
			Value:  value,
		})
	}
}
