package sim

import (
	"slices"
	"time"

	"github.com/plus3/ironrails/ecs"
	"go.uber.org/zap"
)

// TrainSystem keeps trailing cars in formation behind the lead and spreads
// incoming damage over the cars from the rear.
//
// The composition lists car ids front to rear; index 0 is the lead.
type TrainSystem struct {
	Grid    *Grid
	Spacing float64
	Events  *ecs.Events

	cars   []ecs.EntityId
	now    time.Duration
	logger *zap.Logger
}

func NewTrainSystem(grid *Grid, spacing float64, logger *zap.Logger) *TrainSystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainSystem{
		Grid:    grid,
		Spacing: spacing,
		logger:  logger,
	}
}

// SetComposition replaces the car list. The slice is copied.
func (s *TrainSystem) SetComposition(ids []ecs.EntityId) {
	s.cars = slices.Clone(ids)
}

// Composition returns a copy of the car list.
func (s *TrainSystem) Composition() []ecs.EntityId {
	return slices.Clone(s.cars)
}

func (s *TrainSystem) Execute(frame *ecs.UpdateFrame) {
	s.now = frame.Time
	if len(s.cars) == 0 {
		return
	}

	reg := frame.Registry
	lead := reg.Positions.Get(s.cars[0])
	if lead == nil {
		return
	}

	for i := 1; i < len(s.cars); i++ {
		id := s.cars[i]
		x := lead.X - float64(i)*s.Spacing
		y := lead.Y
		place(reg, s.Grid, id, x, y)

		car := reg.TrainCars.Get(id)
		if car == nil {
			continue
		}
		for _, hpId := range car.Hardpoints {
			hp := reg.Hardpoints.Get(hpId)
			if hp == nil {
				continue
			}
			place(reg, s.Grid, hpId, x+hp.OffsetX, y+hp.OffsetY)
			if hp.Weapon != 0 {
				place(reg, s.Grid, hp.Weapon, x+hp.OffsetX, y+hp.OffsetY)
			}
		}
	}

	if comp := reg.Compositions.Get(s.cars[0]); comp != nil {
		comp.Cars = append(comp.Cars[:0], s.cars[1:]...)
	}
}

// RouteDamage applies amount starting at the rearmost car. Damage that
// exhausts a car carries forward to the next one; exhausted cars are
// removed together with their hardpoints and weapons.
func (s *TrainSystem) RouteDamage(reg *ecs.Registry, amount float64) {
	if amount <= 0 || len(s.cars) == 0 {
		return
	}

	for i := len(s.cars) - 1; i >= 0 && amount > 0; i-- {
		id := s.cars[i]
		health := reg.Healths.Get(id)
		if health == nil {
			continue
		}

		remaining := health.Current - amount
		if remaining > 0 {
			health.Current = remaining
			amount = 0
			continue
		}
		amount = -remaining
		s.destroyCar(reg, i)
	}
}

func (s *TrainSystem) destroyCar(reg *ecs.Registry, index int) {
	id := s.cars[index]
	s.cars = slices.Delete(s.cars, index, index+1)

	e, _ := reg.Get(id)
	var x, y float64
	if pos := reg.Positions.Get(id); pos != nil {
		x, y = pos.X, pos.Y
	}

	if car := reg.TrainCars.Get(id); car != nil {
		for _, hpId := range car.Hardpoints {
			if hp := reg.Hardpoints.Get(hpId); hp != nil && hp.Weapon != 0 {
				reg.Remove(hp.Weapon)
			}
			reg.Remove(hpId)
		}
	}
	reg.Remove(id)

	s.logger.Info("car destroyed",
		zap.Uint64("entity", uint64(id)),
		zap.Int("slot", index),
		zap.Int("remaining", len(s.cars)),
	)
	s.Events.Emit(ecs.Event{Kind: ecs.EventCarDestroyed, Entity: e, Time: s.now, X: x, Y: y})
}

// IsDestroyed reports whether the convoy is gone: no cars left, the lead
// removed, or the lead out of health.
func (s *TrainSystem) IsDestroyed(reg *ecs.Registry) bool {
	if len(s.cars) == 0 {
		return true
	}
	lead := s.cars[0]
	if !reg.Has(lead) {
		return true
	}
	if h := reg.Healths.Get(lead); h != nil {
		return h.Dead()
	}
	return false
}

// TotalHealth sums current and max health over the composition.
func (s *TrainSystem) TotalHealth(reg *ecs.Registry) (current, maxHealth float64) {
	for _, id := range s.cars {
		if h := reg.Healths.Get(id); h != nil {
			current += h.Current
			maxHealth += h.Max
		}
	}
	return current, maxHealth
}
